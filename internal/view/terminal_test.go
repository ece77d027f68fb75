package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fruitsalade/livebrowse/internal/render"
	"github.com/fruitsalade/livebrowse/pkg/client"
	"github.com/fruitsalade/livebrowse/pkg/models"
)

func testView() render.View {
	return render.View{
		Path:       "music/rock",
		Breadcrumb: render.Breadcrumb("music/rock"),
		Headers:    render.Headers(models.SortSpec{Column: models.SortBySize, Order: models.Descending}),
		List: render.List{State: render.ListRows, Rows: []render.Row{
			{Name: "..", Icon: "📁", Target: render.Target{Kind: render.TargetNavigate, Path: "music"}, Size: "-", Parent: true},
			{Name: "track.flac", Icon: "🎵", Target: render.Target{Kind: render.TargetOpen, Href: "/files/music/rock/track.flac"}, Size: "3.2 MB", Modified: "2024-03-07 09:30"},
		}},
	}
}

func TestFormatView(t *testing.T) {
	out := FormatView(testView(), DefaultStyles())
	for _, want := range []string{"Home", "music", "rock", "Size ▼", "Name ▲", "Modified ▲", "track.flac", "3.2 MB", "2024-03-07 09:30", ".."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatListPlaceholders(t *testing.T) {
	st := DefaultStyles()
	empty := FormatList(render.List{State: render.ListEmpty, Title: render.EmptyTitle, Message: render.EmptyMessage}, st)
	if !strings.Contains(empty, render.EmptyTitle) {
		t.Errorf("empty placeholder = %q", empty)
	}
	errOut := FormatList(render.ErrorList("status 500"), st)
	if !strings.Contains(errOut, render.ErrorMessage) || !strings.Contains(errOut, "status 500") {
		t.Errorf("error placeholder = %q", errOut)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	got := truncate(strings.Repeat("x", 50), 10)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) > 10 {
		t.Errorf("truncate long = %q", got)
	}
}

func TestTerminalStatusOnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.SetStatus(client.Disconnected)
	if buf.Len() != 0 {
		t.Errorf("unchanged status printed %q", buf.String())
	}
	term.SetStatus(client.Connected)
	if !strings.Contains(buf.String(), "connected") {
		t.Errorf("status output = %q", buf.String())
	}
	if term.Status() != client.Connected {
		t.Errorf("Status = %s", term.Status())
	}
}

func TestTerminalBusyLabel(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	if term.RandomLabel() != RandomLabel {
		t.Errorf("idle label = %q", term.RandomLabel())
	}
	term.SetBusy(true)
	if term.RandomLabel() != RandomBusyLabel {
		t.Errorf("busy label = %q", term.RandomLabel())
	}
	term.SetBusy(false)
	if term.RandomLabel() != RandomLabel {
		t.Errorf("label after release = %q", term.RandomLabel())
	}
}

func TestTerminalOpen(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)
	term.Open("http://server/files/a.mp4")
	if !strings.Contains(buf.String(), "http://server/files/a.mp4") {
		t.Errorf("printed %q", buf.String())
	}

	buf.Reset()
	var opened string
	term = NewTerminal(&buf, true)
	term.openFn = func(u string) error { opened = u; return nil }
	term.Open("http://server/files/b.mp4")
	if opened != "http://server/files/b.mp4" {
		t.Errorf("opened %q", opened)
	}

	buf.Reset()
	term.openFn = func(string) error { return errors.New("no display") }
	term.Open("http://server/files/c.mp4")
	out := buf.String()
	if !strings.Contains(out, "no display") || !strings.Contains(out, "http://server/files/c.mp4") {
		t.Errorf("fallback output = %q", out)
	}
}

func TestTerminalAlert(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, false).Alert(client.MsgNoMedia)
	if !strings.Contains(buf.String(), client.MsgNoMedia) {
		t.Errorf("alert output = %q", buf.String())
	}
}
