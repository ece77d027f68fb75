package format

import (
	"strings"
	"testing"
	"time"
)

func TestSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1100, "1.07 KB"},
		{1048576, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{1024 * 1024 * 1024 * 1024, "1 TB"},
		{2048 * 1024 * 1024 * 1024 * 1024, "2048 TB"},
	}
	for _, tt := range tests {
		if got := Size(tt.bytes); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestSizeScaleInRangeAndMonotonic(t *testing.T) {
	prevUnit := 0
	for b := uint64(1); b < 1<<42; b = b*3 + 7 {
		v, unit := scale(b)
		if v < 1 || (v >= 1024 && unit < len(sizeUnits)-1) {
			t.Fatalf("scale(%d) = %v %s, out of [1, 1024)", b, v, sizeUnits[unit])
		}
		if unit < prevUnit {
			t.Fatalf("unit went down at %d: %s after %s", b, sizeUnits[unit], sizeUnits[prevUnit])
		}
		prevUnit = unit
		if Size(b) == "0 B" {
			t.Fatalf("Size(%d) = 0 B", b)
		}
	}
}

func TestDateFormatter(t *testing.T) {
	ts := time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC)
	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "3/7/2024 02:05 PM"},
		{"en-GB", "07/03/2024 14:05"},
		{"de-DE", "7.3.2024 14:05"},
		{"de", "7.3.2024 14:05"},
		{"ja-JP", "2024/3/7 14:05"},
		{"", "2024-03-07 14:05"},
		{"not a locale!", "2024-03-07 14:05"},
	}
	for _, tt := range tests {
		f := NewDateFormatter(tt.locale, time.UTC)
		if got := f.Format(ts); got != tt.want {
			t.Errorf("locale %q: Format = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestDateFormatterTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 7, 23, 30, 0, 0, time.UTC)
	f := NewDateFormatter("en-GB", loc)
	if got := f.Format(ts); got != "08/03/2024 01:30" {
		t.Errorf("Format = %q", got)
	}
	if got := f.Format(time.Time{}); got != "-" {
		t.Errorf("zero time = %q, want -", got)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 3, 7, 14, 0, 0, 0, time.UTC)
	got := Age(now.Add(-3*time.Hour), now)
	if !strings.Contains(got, "3 hours") || !strings.HasSuffix(got, "ago") {
		t.Errorf("Age = %q", got)
	}
	if Age(time.Time{}, now) != "" {
		t.Error("zero time should have no age")
	}
}
