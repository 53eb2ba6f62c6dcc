package model

import (
	"strings"
	"time"
)

// releaseLayouts are the date shapes seen in upstream records
var releaseLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006/01",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// ParseReleaseDate parses a release date in any of the known shapes
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReleaseYear extracts the release year
func ReleaseYear(s string) (int, bool) {
	t, ok := ParseReleaseDate(s)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

// ReleaseKey returns a sortable YYYY-MM-DD form, or "" when unparsable
func ReleaseKey(s string) string {
	t, ok := ParseReleaseDate(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}
