// Package format turns raw byte counts and timestamps into display strings.
package format

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// scale picks the largest unit that keeps the value at or above 1 (capped at TB).
func scale(bytes uint64) (float64, int) {
	v := float64(bytes)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return v, unit
}

// Size formats a byte count: "0 B", "512 B", "1.5 KB", "2.25 GB".
// Values are rounded to two decimals and trailing zeros are dropped.
func Size(bytes uint64) string {
	if bytes == 0 {
		return "0 B"
	}
	v, unit := scale(bytes)
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

// Age formats t relative to now ("3 hours ago").
func Age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

const defaultLayout = "2006-01-02 15:04"

// Date and short-time layouts per locale. The first entry is the fallback.
var conventions = []struct {
	tag    language.Tag
	layout string
}{
	{language.Und, defaultLayout},
	{language.AmericanEnglish, "1/2/2006 03:04 PM"},
	{language.BritishEnglish, "02/01/2006 15:04"},
	{language.German, "2.1.2006 15:04"},
	{language.French, "02/01/2006 15:04"},
	{language.Spanish, "2/1/2006 15:04"},
	{language.Italian, "2/1/2006 15:04"},
	{language.Dutch, "2-1-2006 15:04"},
	{language.Portuguese, "02/01/2006 15:04"},
	{language.Russian, "02.01.2006 15:04"},
	{language.Polish, "2.01.2006 15:04"},
	{language.Swedish, "2006-01-02 15:04"},
	{language.Japanese, "2006/1/2 15:04"},
	{language.Chinese, "2006/1/2 15:04"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(conventions))
	for i, c := range conventions {
		tags[i] = c.tag
	}
	return language.NewMatcher(tags)
}()

// DateFormatter renders modification times as a date plus hour:minute
// using the conventions of one locale in one time zone.
type DateFormatter struct {
	layout string
	loc    *time.Location
}

// NewDateFormatter builds a formatter for a BCP 47 locale ("en-US", "de").
// Unknown or empty locales fall back to an ISO-like layout; a nil location means UTC.
func NewDateFormatter(locale string, loc *time.Location) *DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &DateFormatter{layout: layoutFor(locale), loc: loc}
}

func layoutFor(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil || tag == language.Und {
		return defaultLayout
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return defaultLayout
	}
	return conventions[idx].layout
}

// Layout returns the Go time layout in use.
func (f *DateFormatter) Layout() string {
	return f.layout
}

// Format renders t, or "-" for a zero time.
func (f *DateFormatter) Format(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(f.loc).Format(f.layout)
}
