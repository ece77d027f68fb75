package nav

import "sync"

// maxHistorySize bounds MemoryHistory.
const maxHistorySize = 100

// Entry is the state stored with a history entry.
type Entry struct {
	Path string `json:"path"`
}

// History is the subset of the browser history API the navigator needs.
// State returns nil when the current entry carries no state.
type History interface {
	PushState(state *Entry, location string)
	ReplaceState(state *Entry, location string)
	State() *Entry
	Location() string
}

type historyEntry struct {
	state    *Entry
	location string
}

// MemoryHistory is an in-process History with back/forward traversal.
// Traversal fires pop listeners, the way a browser fires popstate.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []historyEntry
	index     int
	listeners []func(state *Entry)
}

// NewMemoryHistory starts a history at location with no state, like a fresh page load.
func NewMemoryHistory(location string) *MemoryHistory {
	if location == "" {
		location = RootLocation
	}
	return &MemoryHistory{
		entries: []historyEntry{{location: location}},
	}
}

func copyEntry(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// PushState truncates forward history and appends a new entry.
func (h *MemoryHistory) PushState(state *Entry, location string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.index+1], historyEntry{state: copyEntry(state), location: location})
	h.index = len(h.entries) - 1

	if len(h.entries) > maxHistorySize {
		excess := len(h.entries) - maxHistorySize
		h.entries = h.entries[excess:]
		h.index -= excess
	}
}

// ReplaceState overwrites the current entry.
func (h *MemoryHistory) ReplaceState(state *Entry, location string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = historyEntry{state: copyEntry(state), location: location}
}

// State returns a copy of the current entry's state.
func (h *MemoryHistory) State() *Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copyEntry(h.entries[h.index].state)
}

// Location returns the current entry's URL pathname.
func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].location
}

// OnPopState registers fn to run after Back, Forward or Go moves the cursor.
func (h *MemoryHistory) OnPopState(fn func(state *Entry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Go moves delta entries and reports whether it moved.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	state := copyEntry(h.entries[target].state)
	listeners := append([]func(*Entry){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(copyEntry(state))
	}
	return true
}

// Back moves one entry back.
func (h *MemoryHistory) Back() bool { return h.Go(-1) }

// Forward moves one entry forward.
func (h *MemoryHistory) Forward() bool { return h.Go(1) }

// CanBack reports whether Back would move.
func (h *MemoryHistory) CanBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanForward reports whether Forward would move.
func (h *MemoryHistory) CanForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
