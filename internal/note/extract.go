package note

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matsen/scholar2obsidian/internal/reference"
)

// Fields are the values the note is built from.
type Fields struct {
	Title       string
	HasTitle    bool
	RawAuthors  string
	Year        *int   // nil when absent, empty or unparseable
	RawYear     string // as found in the record
	CitationKey string
}

// YearUnparseable reports a year field that was present but held no number.
func (f Fields) YearUnparseable() bool {
	return strings.TrimSpace(f.RawYear) != "" && f.Year == nil
}

// Extract pulls the note fields out of a record.
func Extract(rec reference.Record) Fields {
	f := Fields{CitationKey: rec.CitationKey}
	f.Title, f.HasTitle = rec.Field("title")
	f.RawAuthors, _ = rec.Field("author")
	f.RawYear, _ = rec.Field("year")
	if year, ok := ParseYear(f.RawYear); ok {
		f.Year = &year
	}
	return f
}

// ParseYear parses the longest leading integer of s, after leading whitespace
// and an optional sign, so "1982a" gives 1982. It reports false when s holds
// no leading digit or the number overflows.
func ParseYear(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
