package note

import "regexp"

// MaxNameLength leaves room for the " 1.md" suffix Obsidian appends on collision.
const MaxNameLength = 245

// UntitledName is used when sanitization leaves nothing.
const UntitledName = "Untitled"

var (
	markupCharsRe   = regexp.MustCompile(`[#$|^\[\]]`)
	illegalCharsRe  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	reservedNameRe  = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
	trailingRe      = regexp.MustCompile(`[\s\p{Z}\x{FEFF}.]+$`)
	leadingPeriodRe = regexp.MustCompile(`^\.`)
	leadingRunRe    = regexp.MustCompile(`^\.+`)
)

var (
	stripMarkupChars  = remove(markupCharsRe)
	stripIllegalChars = remove(illegalCharsRe)
	escapeReserved    = replace(reservedNameRe, "_${1}${2}")
	stripTrailing     = remove(trailingRe)
	// Two passes: the first period becomes '_', then any remaining leading run is dropped.
	fixLeadingPeriods = compose(replace(leadingPeriodRe, "_"), remove(leadingRunRe))
)

var sanitize = compose(
	stripMarkupChars,
	stripIllegalChars,
	escapeReserved,
	stripTrailing,
	fixLeadingPeriods,
	truncateName,
	untitledIfEmpty,
)

// SafeName maps an arbitrary string to a segment usable as an Obsidian note path.
//
// Truncation can expose trailing whitespace or a bare device name, so the
// passes repeat until the output is stable. This keeps SafeName idempotent.
func SafeName(s string) string {
	out := sanitize(s)
	for {
		next := sanitize(out)
		if next == out {
			return out
		}
		out = next
	}
}

func truncateName(s string) string {
	if len(s) <= MaxNameLength {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxNameLength {
		return s
	}
	return string(runes[:MaxNameLength])
}

func untitledIfEmpty(s string) string {
	if s == "" {
		return UntitledName
	}
	return s
}
