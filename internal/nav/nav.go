// Package nav owns the current path and sort order and keeps them in step
// with history entries and the visible URL.
package nav

import (
	"github.com/fruitsalade/livebrowse/pkg/models"
)

// Navigator is the single source of truth for the current path and sort.
// It is not safe for concurrent use; the session event loop owns it.
type Navigator struct {
	history History
	path    string
	sort    models.SortSpec
}

// New initialises the navigator from the history's current URL. When the
// current entry has no state, one is synthesised so later pops can restore it.
func New(h History) *Navigator {
	n := &Navigator{
		history: h,
		path:    DecodeLocation(h.Location()),
		sort:    models.DefaultSort(),
	}
	if h.State() == nil {
		h.ReplaceState(&Entry{Path: n.path}, h.Location())
	}
	return n
}

// Path returns the current logical (decoded) path.
func (n *Navigator) Path() string {
	return n.path
}

// Sort returns the current sort spec.
func (n *Navigator) Sort() models.SortSpec {
	return n.sort
}

// Navigate makes p current and pushes a history entry for it.
func (n *Navigator) Navigate(p string) {
	n.path = p
	n.history.PushState(&Entry{Path: p}, LocationFor(p))
}

// Restore handles a history pop. The entry's state wins; without one the
// path is decoded from the URL. Returns the restored path.
func (n *Navigator) Restore(state *Entry) string {
	if state != nil {
		n.path = state.Path
	} else {
		n.path = DecodeLocation(n.history.Location())
	}
	return n.path
}

// ToggleSort applies a column-header click.
func (n *Navigator) ToggleSort(col models.SortColumn) models.SortSpec {
	n.sort = n.sort.Toggle(col)
	return n.sort
}

// SetSortColumn selects a column without touching the order.
func (n *Navigator) SetSortColumn(col models.SortColumn) models.SortSpec {
	n.sort.Column = col
	return n.sort
}

// SetSortOrder selects an order without touching the column.
func (n *Navigator) SetSortOrder(order models.SortOrder) models.SortSpec {
	n.sort.Order = order
	return n.sort
}
