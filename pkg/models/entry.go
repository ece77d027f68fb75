// Package models contains the data types shared by the client, navigation and rendering layers.
package models

import "time"

// FileEntry is one row of a directory listing as reported by the server.
type FileEntry struct {
	Name    string    `json:"name"`
	IsDir   bool      `json:"isDir"`
	Size    uint64    `json:"size"`
	ModTime time.Time `json:"modTime"`
	Mode    string    `json:"mode"`
	Path    string    `json:"path"` // server-resolved link target
}

// DirectorySnapshot is a complete listing of one directory.
// A new snapshot replaces the previous one wholesale; it is never patched.
// Files keep the order the server sorted them in.
type DirectorySnapshot struct {
	CurrentPath string      `json:"currentPath"`
	HasParent   bool        `json:"hasParent"`
	Files       []FileEntry `json:"files"`
}

// SortColumn names a column the server can sort by.
type SortColumn string

const (
	SortByName    SortColumn = "name"
	SortBySize    SortColumn = "size"
	SortByModTime SortColumn = "date"
)

// SortColumns lists the sortable columns in display order.
var SortColumns = []SortColumn{SortByName, SortBySize, SortByModTime}

// Valid reports whether c is a known column.
func (c SortColumn) Valid() bool {
	switch c {
	case SortByName, SortBySize, SortByModTime:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Valid reports whether o is a known order.
func (o SortOrder) Valid() bool {
	return o == Ascending || o == Descending
}

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// SortSpec is the sort sent with every listing request.
type SortSpec struct {
	Column SortColumn
	Order  SortOrder
}

// DefaultSort is name ascending.
func DefaultSort() SortSpec {
	return SortSpec{Column: SortByName, Order: Ascending}
}

// Toggle returns the spec after the user picks col: the same column flips
// its order, a different column starts ascending.
func (s SortSpec) Toggle(col SortColumn) SortSpec {
	if s.Column == col {
		return SortSpec{Column: col, Order: s.Order.Flip()}
	}
	return SortSpec{Column: col, Order: Ascending}
}
