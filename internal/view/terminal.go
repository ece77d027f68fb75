// Package view paints render views onto a terminal.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/fruitsalade/livebrowse/internal/render"
	"github.com/fruitsalade/livebrowse/pkg/client"
)

// Random media control labels.
const (
	RandomLabel     = "🎲 Play Random Media"
	RandomBusyLabel = "🎲 Loading..."
)

// Styles used by the terminal surface.
type Styles struct {
	Crumb       lipgloss.Style
	CrumbActive lipgloss.Style
	Header      lipgloss.Style
	HeaderSort  lipgloss.Style
	Dir         lipgloss.Style
	File        lipgloss.Style
	Dim         lipgloss.Style
	Empty       lipgloss.Style
	Error       lipgloss.Style
	Alert       lipgloss.Style
	Status      map[client.Status]lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() Styles {
	return Styles{
		Crumb:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF")),
		CrumbActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")),
		HeaderSort: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("#00FF80")),
		Dir:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4A90E2")),
		File:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		Dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Italic(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		Alert: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFF00")),
		Status: map[client.Status]lipgloss.Style{
			client.Connected:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
			client.Connecting:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
			client.Disconnected: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		},
	}
}

const (
	nameWidth = 40
	sizeWidth = 10
	dateWidth = 20
)

// FormatBreadcrumb renders crumbs separated by " / ".
func FormatBreadcrumb(crumbs []render.Crumb, st Styles) string {
	parts := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		if c.Link {
			parts = append(parts, st.Crumb.Render(c.Label))
		} else {
			parts = append(parts, st.CrumbActive.Render(c.Label))
		}
	}
	return strings.Join(parts, st.Dim.Render(" / "))
}

// FormatHeaders renders the column header line.
func FormatHeaders(headers []render.Header, st Styles) string {
	widths := []int{nameWidth, sizeWidth, dateWidth}
	cells := make([]string, 0, len(headers)+1)
	cells = append(cells, st.Header.Width(5).Render("#"))
	for i, h := range headers {
		style := st.Header
		if h.Active {
			style = st.HeaderSort
		}
		w := dateWidth
		if i < len(widths) {
			w = widths[i]
		}
		cells = append(cells, style.Width(w).Render(h.Label+" "+h.Glyph))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// FormatList renders the file list or its placeholder.
func FormatList(l render.List, st Styles) string {
	switch l.State {
	case render.ListEmpty:
		return st.Empty.Render(l.Title + ": " + l.Message)
	case render.ListError:
		msg := l.Title + ": " + l.Message
		if l.Detail != "" {
			msg += " (" + l.Detail + ")"
		}
		return st.Error.Render(msg)
	}

	var b strings.Builder
	for i, r := range l.Rows {
		nameStyle := st.File
		if r.Target.Kind == render.TargetNavigate {
			nameStyle = st.Dir
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			st.Dim.Width(5).Render(strconv.Itoa(i)),
			nameStyle.Width(nameWidth).Render(truncate(r.Icon+" "+r.Name, nameWidth-1)),
			st.File.Width(sizeWidth).Render(r.Size),
			st.File.Width(dateWidth).Render(r.Modified),
			st.Dim.Render(strings.TrimSpace(r.Mode+" "+r.Age)),
		))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatView renders a full view.
func FormatView(v render.View, st Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		FormatBreadcrumb(v.Breadcrumb, st),
		FormatHeaders(v.Headers, st),
		FormatList(v.List, st),
	)
}

// FormatStatus renders the connection indicator.
func FormatStatus(s client.Status, st Styles) string {
	style, ok := st.Status[s]
	if !ok {
		style = st.Dim
	}
	return style.Render("● " + string(s))
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Terminal is a session surface that writes to a terminal.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	styles   Styles
	openURLs bool
	openFn   func(url string) error

	status client.Status
	busy   bool
}

// NewTerminal returns a surface writing to out. When openURLs is set, files
// and media are opened with the system browser; otherwise their URL is printed.
func NewTerminal(out io.Writer, openURLs bool) *Terminal {
	return &Terminal{
		out:      out,
		styles:   DefaultStyles(),
		openURLs: openURLs,
		openFn:   browser.OpenURL,
		status:   client.Disconnected,
	}
}

func (t *Terminal) println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, s)
}

// Paint writes the whole view.
func (t *Terminal) Paint(v render.View) {
	t.println(FormatView(v, t.styles))
}

// PaintList writes only the file list.
func (t *Terminal) PaintList(l render.List) {
	t.println(FormatList(l, t.styles))
}

// SetStatus writes the connection indicator when it changes.
func (t *Terminal) SetStatus(s client.Status) {
	t.mu.Lock()
	changed := t.status != s
	t.status = s
	t.mu.Unlock()
	if changed {
		t.println(FormatStatus(s, t.styles))
	}
}

// Status returns the last connection state shown.
func (t *Terminal) Status() client.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// SetBusy updates the random media control.
func (t *Terminal) SetBusy(busy bool) {
	t.mu.Lock()
	t.busy = busy
	t.mu.Unlock()
	if busy {
		t.println(t.styles.Dim.Render(RandomBusyLabel))
	}
}

// RandomLabel returns the current label of the random media control.
func (t *Terminal) RandomLabel() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busy {
		return RandomBusyLabel
	}
	return RandomLabel
}

// Open opens url in the system browser, or prints it.
func (t *Terminal) Open(url string) {
	if t.openURLs {
		err := t.openFn(url)
		if err == nil {
			t.println(t.styles.Dim.Render("opened " + url))
			return
		}
		t.println(t.styles.Error.Render("cannot open browser: " + err.Error()))
	}
	t.println(url)
}

// Alert writes msg prominently.
func (t *Terminal) Alert(msg string) {
	t.println(t.styles.Alert.Render("! " + msg))
}
