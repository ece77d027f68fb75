package nav

import (
	"testing"

	"github.com/fruitsalade/livebrowse/pkg/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	paths := []string{
		"",
		"music",
		"music/rock",
		"a b/c#d/e?f",
		"100%/pure",
		"ünïcødé/日本語",
		"semi;colon/plus+sign/amp&",
		"/",
		"trailing/",
	}
	for _, p := range paths {
		got, err := DecodePath(EncodePath(p))
		if err != nil {
			t.Fatalf("DecodePath(EncodePath(%q)): %v", p, err)
		}
		if got != p {
			t.Errorf("round trip %q -> %q -> %q", p, EncodePath(p), got)
		}
	}
}

func TestEncodePathPerSegment(t *testing.T) {
	if got := EncodePath("a b/c?d"); got != "a%20b/c%3Fd" {
		t.Errorf("EncodePath = %q", got)
	}
}

func TestLocationFor(t *testing.T) {
	tests := map[string]string{
		"":           "/",
		"music":      "/browse/music",
		"my music/x": "/browse/my%20music/x",
	}
	for p, want := range tests {
		if got := LocationFor(p); got != want {
			t.Errorf("LocationFor(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestDecodeLocation(t *testing.T) {
	tests := map[string]string{
		"/":                    "",
		"/browse/":             "",
		"/browse/music/rock":   "music/rock",
		"/browse/my%20music/":  "my music",
		"/browse/a%2Fb":        "a/b",
		"/browse/x?sort=size":  "x",
		"/static/app.js":       "",
		"/browse/bad%zzescape": "bad%zzescape",
	}
	for loc, want := range tests {
		if got := DecodeLocation(loc); got != want {
			t.Errorf("DecodeLocation(%q) = %q, want %q", loc, got, want)
		}
	}
}

func TestParentPath(t *testing.T) {
	tests := map[string]string{
		"music/rock": "music",
		"music":      "",
		"a/b/c":      "a/b",
		"":           "",
	}
	for p, want := range tests {
		if got := ParentPath(p); got != want {
			t.Errorf("ParentPath(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestClean(t *testing.T) {
	if got := Clean("/a//b/./c/"); got != "a/b/c" {
		t.Errorf("Clean = %q", got)
	}
	if got := Clean("/"); got != "" {
		t.Errorf("Clean(/) = %q", got)
	}
}

func TestNewSynthesisesState(t *testing.T) {
	h := NewMemoryHistory("/browse/music/my%20band")
	n := New(h)

	if n.Path() != "music/my band" {
		t.Errorf("Path = %q", n.Path())
	}
	st := h.State()
	if st == nil || st.Path != "music/my band" {
		t.Fatalf("expected synthesised state, got %+v", st)
	}
	if h.Location() != "/browse/music/my%20band" {
		t.Errorf("location changed to %q", h.Location())
	}
}

func TestNewKeepsExistingState(t *testing.T) {
	h := NewMemoryHistory("/")
	h.ReplaceState(&Entry{Path: "kept"}, "/browse/kept")
	New(h)
	if st := h.State(); st.Path != "kept" {
		t.Errorf("state overwritten: %+v", st)
	}
}

func TestNavigatePushesEncodedLocation(t *testing.T) {
	h := NewMemoryHistory("/")
	n := New(h)

	n.Navigate("photos/summer 2024")

	if n.Path() != "photos/summer 2024" {
		t.Errorf("Path = %q", n.Path())
	}
	if h.Location() != "/browse/photos/summer%202024" {
		t.Errorf("Location = %q", h.Location())
	}
	if st := h.State(); st == nil || st.Path != "photos/summer 2024" {
		t.Errorf("State = %+v", st)
	}
	if h.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", h.Len())
	}
}

func TestRestoreFromStateAndURL(t *testing.T) {
	h := NewMemoryHistory("/")
	n := New(h)
	var popped []string
	h.OnPopState(func(st *Entry) {
		popped = append(popped, n.Restore(st))
	})

	n.Navigate("a")
	n.Navigate("a/b")
	// An entry pushed without state, e.g. by an external link.
	h.PushState(nil, "/browse/x%20y")

	if !h.Back() || !h.Back() {
		t.Fatal("expected to go back twice")
	}
	if n.Path() != "a" {
		t.Errorf("after back: %q", n.Path())
	}
	h.Forward()
	h.Forward()
	if n.Path() != "x y" {
		t.Errorf("stateless entry should decode URL, got %q", n.Path())
	}
	want := []string{"a/b", "a", "a/b", "x y"}
	if len(popped) != len(want) {
		t.Fatalf("popped = %v, want %v", popped, want)
	}
	for i := range want {
		if popped[i] != want[i] {
			t.Errorf("popped[%d] = %q, want %q", i, popped[i], want[i])
		}
	}
}

func TestHistoryTruncatesForward(t *testing.T) {
	h := NewMemoryHistory("/")
	n := New(h)
	n.Navigate("a")
	n.Navigate("b")
	h.Back()
	n.Navigate("c")
	if h.CanForward() {
		t.Error("forward history should be truncated")
	}
	if h.Len() != 3 {
		t.Errorf("Len = %d, want 3", h.Len())
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewMemoryHistory("/")
	n := New(h)
	for i := 0; i < maxHistorySize+20; i++ {
		n.Navigate("dir")
	}
	if h.Len() != maxHistorySize {
		t.Errorf("Len = %d, want %d", h.Len(), maxHistorySize)
	}
	if h.CanForward() {
		t.Error("cursor should be at the newest entry")
	}
}

func TestGoOutOfRange(t *testing.T) {
	h := NewMemoryHistory("/")
	fired := false
	h.OnPopState(func(*Entry) { fired = true })
	if h.Back() || h.Forward() || h.Go(0) {
		t.Error("expected no movement")
	}
	if fired {
		t.Error("listener fired without movement")
	}
}

func TestToggleSort(t *testing.T) {
	n := New(NewMemoryHistory("/"))
	if s := n.Sort(); s != models.DefaultSort() {
		t.Fatalf("default sort = %+v", s)
	}

	s := n.ToggleSort(models.SortByName)
	if s.Column != models.SortByName || s.Order != models.Descending {
		t.Errorf("same column should flip: %+v", s)
	}
	s = n.ToggleSort(models.SortBySize)
	if s.Column != models.SortBySize || s.Order != models.Ascending {
		t.Errorf("new column should reset to asc: %+v", s)
	}
	s = n.ToggleSort(models.SortBySize)
	if s.Order != models.Descending {
		t.Errorf("second click should flip: %+v", s)
	}
	s = n.ToggleSort(models.SortByModTime)
	if s.Order != models.Ascending {
		t.Errorf("different column after desc should be asc: %+v", s)
	}
}

func TestSetSortSelectors(t *testing.T) {
	n := New(NewMemoryHistory("/"))
	n.SetSortOrder(models.Descending)
	s := n.SetSortColumn(models.SortBySize)
	if s.Column != models.SortBySize || s.Order != models.Descending {
		t.Errorf("selectors should be independent: %+v", s)
	}
}
