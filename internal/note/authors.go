package note

import (
	"regexp"
	"strings"

	"github.com/matsen/scholar2obsidian/internal/reference"
)

// othersMarker is what Google Scholar appends to truncated author lists.
const othersMarker = "and others"

// authorSeparator joins names in a BibTeX author field.
const authorSeparator = " and "

var (
	commandLetterRe = regexp.MustCompile(`\{\\[a-zA-Z]+\{([a-zA-Z])\}\}`)
	braceGroupRe    = regexp.MustCompile(`\{[^{}]*\}`)
	nonLetterRe     = regexp.MustCompile(`[^a-zA-Z]`)
)

// stripOthers removes the first "and others" only; a differently cased or
// repeated marker is left in place.
func stripOthers(s string) string {
	return strings.Replace(s, othersMarker, "", 1)
}

// unwrapCommandLetters turns {\H{o}} into o.
var unwrapCommandLetters = replace(commandLetterRe, "$1")

// stripBraceGroups replaces each innermost {...} group by the ASCII letters it holds,
// so {\'e} becomes e and the braces disappear.
func stripBraceGroups(s string) string {
	return braceGroupRe.ReplaceAllStringFunc(s, func(group string) string {
		return nonLetterRe.ReplaceAllString(group, "")
	})
}

var cleanAuthorField = compose(
	stripOthers,
	unwrapCommandLetters,
	stripBraceGroups,
)

// NormalizeAuthors splits a raw BibTeX author field into authors, in field order.
// Each "Last, First" segment becomes {First, Last}; a segment without a comma
// is kept whole as the last name.
func NormalizeAuthors(raw string) []reference.Author {
	cleaned := cleanAuthorField(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil
	}
	cleaned = SafeName(cleaned)

	var authors []reference.Author
	for _, segment := range strings.Split(cleaned, authorSeparator) {
		if a, ok := parseAuthor(segment); ok {
			authors = append(authors, a)
		}
	}
	return authors
}

func parseAuthor(segment string) (reference.Author, bool) {
	last, first, found := strings.Cut(segment, ",")
	last = strings.TrimSpace(last)
	if !found {
		return reference.Author{Last: last}, last != ""
	}
	first = strings.TrimSpace(first)
	return reference.Author{First: first, Last: last}, first != "" || last != ""
}

// AuthorLinks renders authors as Obsidian wiki links, e.g. [[Leslie Lamport]].
func AuthorLinks(authors []reference.Author) []string {
	links := make([]string, 0, len(authors))
	for _, a := range authors {
		links = append(links, "[["+a.Display()+"]]")
	}
	return links
}
