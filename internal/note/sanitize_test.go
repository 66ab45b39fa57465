package note

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title", "The Byzantine generals problem", "The Byzantine generals problem"},
		{"colon and question mark", "A Theory: Part 2?", "A Theory Part 2"},
		{"obsidian markup", "a#b$c|d^e[f]g", "abcdefg"},
		{"path separators", `either/or\both`, "eitherorboth"},
		{"quotes and angles", `<"quoted"> *star*`, "quoted star"},
		{"control characters", "a\x00b\x1fc\nd", "abcd"},
		{"reserved name", "con", "_con"},
		{"reserved name upper", "NUL", "_NUL"},
		{"reserved name with extension", "CON.txt", "_CON.txt"},
		{"reserved com port", "com1", "_com1"},
		{"reserved lpt port", "lpt9.md", "_lpt9.md"},
		{"reserved prefix only", "console", "console"},
		{"trailing periods and spaces", "file.  . ", "file"},
		{"trailing non-breaking space", "abc\u00a0", "abc"},
		{"leading period", ".hidden", "_hidden"},
		{"two leading periods", "..hidden", "_.hidden"},
		{"only periods", "...", UntitledName},
		{"empty", "", UntitledName},
		{"only illegal", "???", UntitledName},
		{"unicode kept", "Über: Straße", "Über Straße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeName(tt.input); got != tt.want {
				t.Errorf("SafeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeName_Truncation(t *testing.T) {
	got := SafeName(strings.Repeat("a", 300))
	if len(got) != MaxNameLength {
		t.Errorf("SafeName(300 chars) length = %d, want %d", len(got), MaxNameLength)
	}

	// Multi-byte runes are counted as characters and never split.
	got = SafeName(strings.Repeat("é", 300))
	if n := utf8.RuneCountInString(got); n != MaxNameLength {
		t.Errorf("SafeName(300 runes) rune count = %d, want %d", n, MaxNameLength)
	}
	if !utf8.ValidString(got) {
		t.Error("SafeName produced invalid UTF-8")
	}

	// Cutting at a space must not leave trailing whitespace behind.
	got = SafeName(strings.Repeat("a", MaxNameLength-1) + "  b")
	if want := strings.Repeat("a", MaxNameLength-1); got != want {
		t.Errorf("SafeName(cut at space) = %d chars ending %q, want %d a's", len(got), got[len(got)-3:], len(want))
	}
}

func TestSafeName_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"con",
		"COM3.tar.gz",
		"...",
		".a.",
		"..con",
		"A Theory: Part 2?",
		"  leading and trailing  ",
		"{\\'e}tude [draft] #1 | notes^",
		strings.Repeat("a", MaxNameLength-1) + "  b",
		"con" + strings.Repeat(" ", 250) + "x",
		strings.Repeat(".", 300) + "z",
		"Science 🔬/Papers 📜",
	}

	for _, in := range inputs {
		once := SafeName(in)
		twice := SafeName(once)
		if once != twice {
			t.Errorf("SafeName not idempotent for %q: %q -> %q", in, once, twice)
		}
		if once == "" {
			t.Errorf("SafeName(%q) is empty", in)
		}
	}
}
