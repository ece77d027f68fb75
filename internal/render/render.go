// Package render turns a directory snapshot into a view-model: breadcrumb,
// sortable column headers and file-list rows. It never touches a UI surface;
// adapters in internal/view commit a View to the screen.
package render

import (
	"strings"
	"time"

	"github.com/fruitsalade/livebrowse/internal/classify"
	"github.com/fruitsalade/livebrowse/internal/format"
	"github.com/fruitsalade/livebrowse/internal/nav"
	"github.com/fruitsalade/livebrowse/pkg/models"
)

// Sort indicator glyphs.
const (
	GlyphAscending  = "▲"
	GlyphDescending = "▼"
)

// HomeLabel is the label of the first breadcrumb.
const HomeLabel = "Home"

// ParentName is the label of the synthetic parent row.
const ParentName = ".."

// Crumb is one breadcrumb element. The last element of a non-root path is not a link.
type Crumb struct {
	Label string
	Path  string
	Link  bool
}

// Header is a sortable column header.
type Header struct {
	Column     models.SortColumn
	Label      string
	Active     bool
	Descending bool
	Glyph      string
}

// TargetKind says what activating a row does.
type TargetKind int

const (
	// TargetNavigate moves to Target.Path inside the browser.
	TargetNavigate TargetKind = iota
	// TargetOpen opens Target.Href, a server-resolved file URL.
	TargetOpen
)

// Target is what a row links to.
type Target struct {
	Kind      TargetKind
	Path      string
	Href      string
	NewWindow bool
}

// Row is one line of the file list.
type Row struct {
	Name     string
	Icon     string
	Category classify.Category
	Target   Target
	Size     string
	Modified string
	Age      string
	Mode     string
	Parent   bool
}

// ListState distinguishes populated, empty and failed lists.
type ListState int

const (
	ListRows ListState = iota
	ListEmpty
	ListError
)

// Placeholder texts.
const (
	EmptyTitle   = "Empty Directory"
	EmptyMessage = "This directory contains no files or folders."
	ErrorTitle   = "Error"
	ErrorMessage = "Failed to load directory contents."
)

// List is the file-list part of a View.
type List struct {
	State   ListState
	Title   string
	Message string
	Detail  string
	Rows    []Row
}

// View is everything needed to paint one snapshot.
type View struct {
	Path       string
	Breadcrumb []Crumb
	Headers    []Header
	List       List
}

var columnLabels = map[models.SortColumn]string{
	models.SortByName:    "Name",
	models.SortBySize:    "Size",
	models.SortByModTime: "Modified",
}

// Renderer holds the formatting settings used to build views.
type Renderer struct {
	Dates *format.DateFormatter
	Now   func() time.Time
}

// New returns a Renderer. A nil formatter uses the ISO-like layout in UTC.
func New(dates *format.DateFormatter) *Renderer {
	if dates == nil {
		dates = format.NewDateFormatter("", time.UTC)
	}
	return &Renderer{Dates: dates, Now: time.Now}
}

// Render builds the View for snap under sort.
func (r *Renderer) Render(snap *models.DirectorySnapshot, sort models.SortSpec) View {
	return View{
		Path:       snap.CurrentPath,
		Breadcrumb: Breadcrumb(snap.CurrentPath),
		Headers:    Headers(sort),
		List:       r.FileList(snap),
	}
}

// Breadcrumb returns Home followed by one crumb per path segment.
func Breadcrumb(p string) []Crumb {
	crumbs := []Crumb{{Label: HomeLabel, Path: "", Link: true}}
	if p == "" {
		return crumbs
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		crumbs = append(crumbs, Crumb{
			Label: part,
			Path:  strings.Join(parts[:i+1], "/"),
			Link:  i < len(parts)-1,
		})
	}
	return crumbs
}

// Headers returns the column headers with the sort indicator on the active column.
func Headers(sort models.SortSpec) []Header {
	headers := make([]Header, 0, len(models.SortColumns))
	for _, col := range models.SortColumns {
		h := Header{Column: col, Label: columnLabels[col], Glyph: GlyphAscending}
		if col == sort.Column {
			h.Active = true
			if sort.Order == models.Descending {
				h.Descending = true
				h.Glyph = GlyphDescending
			}
		}
		headers = append(headers, h)
	}
	return headers
}

// FileList builds the rows for snap, or the empty placeholder.
func (r *Renderer) FileList(snap *models.DirectorySnapshot) List {
	if len(snap.Files) == 0 && !snap.HasParent {
		return List{State: ListEmpty, Title: EmptyTitle, Message: EmptyMessage}
	}

	rows := make([]Row, 0, len(snap.Files)+1)
	if snap.HasParent {
		rows = append(rows, parentRow(snap.CurrentPath))
	}
	now := r.Now()
	for _, f := range snap.Files {
		rows = append(rows, r.entryRow(snap.CurrentPath, f, now))
	}
	return List{State: ListRows, Rows: rows}
}

func parentRow(current string) Row {
	kind := classify.KindOf(classify.Directory)
	return Row{
		Name:     ParentName,
		Icon:     kind.Icon,
		Category: kind.Category,
		Target:   Target{Kind: TargetNavigate, Path: nav.ParentPath(current)},
		Size:     "-",
		Modified: "-",
		Mode:     "-",
		Parent:   true,
	}
}

func (r *Renderer) entryRow(dir string, f models.FileEntry, now time.Time) Row {
	kind := classify.Classify(f)
	row := Row{
		Name:     f.Name,
		Icon:     kind.Icon,
		Category: kind.Category,
		Modified: r.Dates.Format(f.ModTime),
		Age:      format.Age(f.ModTime, now),
		Mode:     f.Mode,
	}
	if f.IsDir {
		row.Target = Target{Kind: TargetNavigate, Path: nav.ChildPath(dir, f.Name)}
		row.Size = "-"
	} else {
		row.Target = Target{Kind: TargetOpen, Href: f.Path, NewWindow: true}
		row.Size = format.Size(f.Size)
	}
	return row
}

// ErrorList is the placeholder shown when a load fails. detail may be empty.
func ErrorList(detail string) List {
	return List{State: ListError, Title: ErrorTitle, Message: ErrorMessage, Detail: detail}
}
