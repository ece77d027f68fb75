// Package session runs the browser core: one goroutine owns navigation
// state and the rendered view, and every input (user actions, HTTP
// completions, push channel events) reaches it as a closure on a queue.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/fruitsalade/livebrowse/internal/logging"
	"github.com/fruitsalade/livebrowse/internal/nav"
	"github.com/fruitsalade/livebrowse/internal/render"
	"github.com/fruitsalade/livebrowse/pkg/client"
	"github.com/fruitsalade/livebrowse/pkg/models"
)

const queueSize = 64

// API is the server surface the session needs. *client.Client satisfies it.
type API interface {
	ListDirectory(ctx context.Context, path string, sort models.SortSpec) (*models.DirectorySnapshot, error)
	RandomMedia(ctx context.Context, path string) (string, error)
	ResolveURL(ref string) (string, error)
}

// Surface commits view-model changes to a UI. Methods are only called from
// the session goroutine.
type Surface interface {
	// Paint replaces breadcrumb, headers and file list.
	Paint(render.View)
	// PaintList replaces the file list only.
	PaintList(render.List)
	SetStatus(client.Status)
	// SetBusy disables or re-enables the random media control.
	SetBusy(bool)
	// Open shows url in a new viewing context.
	Open(url string)
	Alert(msg string)
}

// Config holds session dependencies.
type Config struct {
	API      API
	History  nav.History
	Renderer *render.Renderer
	Surface  Surface
	// Live enables the push channel when set. Its handler is the session.
	Live *client.LiveConfig
	// DropStaleLoads discards listing responses that arrive after a newer
	// load was issued. When false the last response to arrive wins.
	DropStaleLoads bool
}

// ErrNotRunning is returned by Do and State once the loop has exited.
var ErrNotRunning = errors.New("session is not running")

// Session is the single owner of navigation state and the current view.
type Session struct {
	api       API
	nav       *nav.Navigator
	renderer  *render.Renderer
	surface   Surface
	live      *client.LiveChannel
	dropStale bool

	queue    chan func()
	done     chan struct{}
	doneOnce sync.Once

	// Owned by the loop goroutine.
	ctx      context.Context
	token    uint64
	snapshot *models.DirectorySnapshot
	view     render.View
	busy     bool
}

// popSource is implemented by histories that report back/forward traversal.
type popSource interface {
	OnPopState(fn func(state *nav.Entry))
}

// New creates a session. The navigator is initialised from the history's
// current URL immediately; nothing is loaded until Run.
func New(cfg Config) (*Session, error) {
	if cfg.API == nil {
		return nil, errors.New("session: API is required")
	}
	if cfg.History == nil {
		return nil, errors.New("session: History is required")
	}
	if cfg.Surface == nil {
		return nil, errors.New("session: Surface is required")
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(nil)
	}

	s := &Session{
		api:       cfg.API,
		nav:       nav.New(cfg.History),
		renderer:  cfg.Renderer,
		surface:   cfg.Surface,
		dropStale: cfg.DropStaleLoads,
		queue:     make(chan func(), queueSize),
		done:      make(chan struct{}),
	}
	if cfg.Live != nil {
		s.live = client.NewLiveChannel(*cfg.Live, liveHandler{s})
	}
	if ps, ok := cfg.History.(popSource); ok {
		ps.OnPopState(s.PopState)
	}
	return s, nil
}

// post queues fn for the loop. It is dropped once the loop has exited.
func (s *Session) post(fn func()) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// Run loads the current path, opens the push channel and processes events
// until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	defer s.doneOnce.Do(func() { close(s.done) })

	logging.Info("session started", logging.String("path", s.nav.Path()))
	s.surface.SetStatus(client.Disconnected)
	s.load()
	if s.live != nil {
		s.live.Connect(ctx)
		defer s.live.Close()
	}

	for {
		select {
		case <-ctx.Done():
			logging.Info("session stopped")
			return ctx.Err()
		case fn := <-s.queue:
			fn()
		}
	}
}

// Do runs fn on the loop and waits for it. It returns ErrNotRunning if the
// loop exits first.
func (s *Session) Do(fn func()) error {
	ran := make(chan struct{})
	s.post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
		return nil
	case <-s.done:
		return ErrNotRunning
	}
}

// Navigate moves to path, pushing a history entry, and loads it.
func (s *Session) Navigate(path string) {
	s.post(func() { s.navigate(path) })
}

func (s *Session) navigate(path string) {
	s.nav.Navigate(path)
	s.load()
}

// PopState restores the path of a traversed history entry and loads it.
func (s *Session) PopState(state *nav.Entry) {
	s.post(func() {
		s.nav.Restore(state)
		s.load()
	})
}

// ToggleSort applies a column-header click and reloads.
func (s *Session) ToggleSort(col models.SortColumn) {
	s.post(func() {
		s.nav.ToggleSort(col)
		s.load()
	})
}

// SetSortColumn applies the sort-by selector and reloads.
func (s *Session) SetSortColumn(col models.SortColumn) {
	s.post(func() {
		s.nav.SetSortColumn(col)
		s.load()
	})
}

// SetSortOrder applies the sort-order selector and reloads.
func (s *Session) SetSortOrder(order models.SortOrder) {
	s.post(func() {
		s.nav.SetSortOrder(order)
		s.load()
	})
}

// Reload reloads the current path.
func (s *Session) Reload() {
	s.post(s.load)
}

// Activate follows the row at index i of the current list: directories and
// the parent row navigate, files open in a new viewing context.
func (s *Session) Activate(i int) {
	s.post(func() { s.activate(i) })
}

func (s *Session) activate(i int) {
	rows := s.view.List.Rows
	if s.view.List.State != render.ListRows || i < 0 || i >= len(rows) {
		logging.Debug("activate: no such row", logging.Int("index", i))
		return
	}
	target := rows[i].Target
	switch target.Kind {
	case render.TargetNavigate:
		s.navigate(target.Path)
	case render.TargetOpen:
		s.open(target.Href)
	}
}

func (s *Session) open(ref string) {
	u, err := s.api.ResolveURL(ref)
	if err != nil {
		logging.Warn("cannot resolve file URL", logging.String("ref", ref), logging.Err(err))
		return
	}
	s.surface.Open(u)
}

// State is a copy of what the loop currently shows.
type State struct {
	Path     string
	Sort     models.SortSpec
	View     render.View
	Snapshot *models.DirectorySnapshot
	Status   client.Status
	Busy     bool
}

// State returns the current state. It must not be called from the loop.
func (s *Session) State() (State, error) {
	var st State
	err := s.Do(func() {
		st = State{
			Path:     s.nav.Path(),
			Sort:     s.nav.Sort(),
			View:     s.view,
			Snapshot: s.snapshot,
			Status:   client.Disconnected,
			Busy:     s.busy,
		}
		if s.live != nil {
			st.Status = s.live.Status()
		}
	})
	return st, err
}

type liveHandler struct {
	s *Session
}

func (h liveHandler) OnStatus(st client.Status) {
	h.s.post(func() { h.s.surface.SetStatus(st) })
}

func (h liveHandler) OnOpen() {
	h.s.post(h.s.load)
}

func (h liveHandler) OnUpdate() {
	h.s.post(h.s.load)
}
