package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fruitsalade/livebrowse/pkg/models"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		current, arg, want string
	}{
		{"", "music", "music"},
		{"music", "rock", "music/rock"},
		{"music/rock", "..", "music"},
		{"music", "..", ""},
		{"music/rock", "../jazz", "music/jazz"},
		{"music", "/photos/2024", "photos/2024"},
		{"music", "/", ""},
		{"music", "", "music"},
		{"music", "./live/", "music/live"},
		{"", "my band", "my band"},
	}
	for _, tt := range tests {
		if got := resolvePath(tt.current, tt.arg); got != tt.want {
			t.Errorf("resolvePath(%q, %q) = %q, want %q", tt.current, tt.arg, got, tt.want)
		}
	}
}

func TestParseSort(t *testing.T) {
	s, err := parseSort("date", "desc")
	if err != nil {
		t.Fatal(err)
	}
	if s.Column != models.SortByModTime || s.Order != models.Descending {
		t.Errorf("parseSort = %+v", s)
	}
	if _, err := parseSort("owner", "asc"); err == nil {
		t.Error("expected error for unknown column")
	}
	if _, err := parseSort("name", "up"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestShellLogLevel(t *testing.T) {
	var buf bytes.Buffer
	sh := &shell{out: &buf}

	for _, line := range []string{"log", "log chatty"} {
		buf.Reset()
		if sh.exec(line) {
			t.Fatalf("%q should not exit the shell", line)
		}
		if !strings.Contains(buf.String(), "usage: log") {
			t.Errorf("%q printed %q", line, buf.String())
		}
	}

	buf.Reset()
	sh.exec("log warn")
	if buf.Len() != 0 {
		t.Errorf("valid level printed %q", buf.String())
	}
}
