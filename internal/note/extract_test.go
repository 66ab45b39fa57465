package note

import (
	"testing"

	"github.com/matsen/scholar2obsidian/internal/reference"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"1982", 1982, true},
		{"  1982 ", 1982, true},
		{"1982a", 1982, true},
		{"2020--2021", 2020, true},
		{"+7", 7, true},
		{"-5", -5, true},
		{"n.d.", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"-", 0, false},
		{"c. 1900", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseYear(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseYear(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	rec := reference.Record{
		CitationKey: "lamport1982byzantine",
		Fields: map[string]string{
			"title":  "The Byzantine generals problem",
			"author": "Lamport, Leslie",
			"year":   "1982",
		},
	}

	f := Extract(rec)
	if !f.HasTitle || f.Title != "The Byzantine generals problem" {
		t.Errorf("Title = %q (present %v)", f.Title, f.HasTitle)
	}
	if f.RawAuthors != "Lamport, Leslie" {
		t.Errorf("RawAuthors = %q", f.RawAuthors)
	}
	if f.Year == nil || *f.Year != 1982 {
		t.Errorf("Year = %v, want 1982", f.Year)
	}
	if f.CitationKey != "lamport1982byzantine" {
		t.Errorf("CitationKey = %q", f.CitationKey)
	}
	if f.YearUnparseable() {
		t.Error("YearUnparseable() = true for numeric year")
	}
}

func TestExtract_MissingFields(t *testing.T) {
	f := Extract(reference.Record{CitationKey: "k"})
	if f.HasTitle || f.Title != "" {
		t.Errorf("absent title should stay absent, got %q (present %v)", f.Title, f.HasTitle)
	}
	if f.Year != nil {
		t.Errorf("absent year should be nil, got %d", *f.Year)
	}
	if f.YearUnparseable() {
		t.Error("absent year is not unparseable")
	}

	f = Extract(reference.Record{CitationKey: "k", Fields: map[string]string{"year": "forthcoming"}})
	if f.Year != nil {
		t.Errorf("non-numeric year should be nil, got %d", *f.Year)
	}
	if !f.YearUnparseable() {
		t.Error("YearUnparseable() = false for non-numeric year")
	}
}
