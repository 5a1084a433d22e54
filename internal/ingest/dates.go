package ingest

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order against the whole table title, then
// against any date-like substring extracted by datePattern. Month-first
// layouts come before day-first so an ambiguous numeric date like
// "02-01-2024" reads as February 1st; day-first only catches values the
// month-first layouts reject. Layouts without a year assume the current
// year.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01-02-2006",
	"01/02/2006",
	"02-01-2006",
	"02/01/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"Jan 2",
	"January 2",
}

var datePattern = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}|\d{2}[-/]\d{2}[-/]\d{4}|[A-Za-z]+\s+\d{1,2}`)

// ResolveDate derives the snapshot date id (YYYY-MM-DD) from a table title.
// The whole trimmed title is parsed first; if that fails, a date-like
// substring is extracted and parsed. A title with no recognizable date
// returns ok=false, and the caller skips the entire table.
func ResolveDate(title string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}

	if d, ok := parseTitle(title); ok {
		return d, true
	}
	if sub := datePattern.FindString(title); sub != "" {
		if d, ok := parseTitle(sub); ok {
			return d, true
		}
	}
	return "", false
}

func parseTitle(s string) (string, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = t.AddDate(time.Now().Year(), 0, 0)
		}
		return t.Format("2006-01-02"), true
	}
	return "", false
}
