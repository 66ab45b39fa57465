package note

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Note is an exported note read back into its parts.
type Note struct {
	Properties Properties
	Body       string
	Cite       string // BibTeX text of the cite block
}

// ParseNote splits a note produced by Assemble into front matter, body and
// the fenced BibTeX source.
func ParseNote(content string) (Note, error) {
	var n Note
	body, err := frontmatter.Parse(strings.NewReader(content), &n.Properties)
	if err != nil {
		return n, fmt.Errorf("parsing front matter: %w", err)
	}
	n.Body = string(body)

	cite, err := CiteBlock(n.Body)
	if err != nil {
		return n, err
	}
	n.Cite = cite
	return n, nil
}

// CiteBlock returns the contents of the first ```bibtex fence in text.
func CiteBlock(text string) (string, error) {
	start := strings.Index(text, citeFenceOpen)
	if start < 0 {
		return "", ErrNoCiteBlock
	}
	rest := text[start+len(citeFenceOpen):]

	end := strings.LastIndex(rest, citeFenceClose)
	if end < 0 {
		return "", ErrNoCiteBlock
	}
	return rest[:end], nil
}
