package bibtex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/scholar2obsidian/internal/reference"
)

// DefaultEntryType is used when a record carries no entry type.
const DefaultEntryType = "article"

// Format renders a record as a BibTeX entry.
// Fields are written in sorted order with brace-delimited values, so
// Parse(Format(r)) reproduces r for values with balanced braces.
func Format(rec reference.Record) string {
	entryType := rec.EntryType
	if entryType == "" {
		entryType = DefaultEntryType
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, rec.CitationKey))

	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, rec.Fields[name]))
	}
	b.WriteString("}\n")

	return b.String()
}

// FormatList renders multiple records separated by blank lines.
func FormatList(recs []reference.Record) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, Format(rec))
	}
	return strings.Join(entries, "\n")
}
