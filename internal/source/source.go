// Package source locates the citation text a note is built from.
//
// A citation page shows the BibTeX inside its first <pre> element; plain
// .bib text is used as is. A Source that finds nothing returns
// ErrNoCitation, which callers treat as "try again later".
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoCitation indicates no citation block is present yet.
var ErrNoCitation = errors.New("no citation block found")

// Source yields raw citation text.
type Source interface {
	Citation(ctx context.Context) (string, error)
}

// CitationSelector matches the element holding the BibTeX on a citation page.
const CitationSelector = "pre"

// FromHTML returns the trimmed text of the first <pre> element.
func FromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	pre := doc.Find(CitationSelector).First()
	if pre.Length() == 0 {
		return "", ErrNoCitation
	}
	text := strings.TrimSpace(pre.Text())
	if text == "" {
		return "", ErrNoCitation
	}
	return text, nil
}

// FromText accepts either an HTML document or bare BibTeX.
func FromText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrNoCitation
	}
	if LooksLikeHTML(trimmed) {
		return FromHTML(strings.NewReader(trimmed))
	}
	return trimmed, nil
}

// LooksLikeHTML reports whether text starts like markup rather than BibTeX.
func LooksLikeHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<")
}

// IsHTMLPath reports whether path has an HTML extension.
func IsHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// File reads a saved page or .bib file on every call, so a file that is
// still being written can be polled.
type File struct {
	Path string
}

// Citation implements Source.
func (f File) Citation(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoCitation, f.Path)
		}
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}

	if IsHTMLPath(f.Path) {
		return FromHTML(strings.NewReader(string(data)))
	}
	return FromText(string(data))
}

// Reader consumes r once and serves the same text on later calls.
type Reader struct {
	R io.Reader

	once sync.Once
	text string
	err  error
}

// NewReader wraps r, typically os.Stdin.
func NewReader(r io.Reader) *Reader {
	return &Reader{R: r}
}

// Citation implements Source.
func (r *Reader) Citation(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.once.Do(func() {
		data, err := io.ReadAll(r.R)
		if err != nil {
			r.err = fmt.Errorf("reading input: %w", err)
			return
		}
		r.text = string(data)
	})
	if r.err != nil {
		return "", r.err
	}
	return FromText(r.text)
}

// Resolve picks a Source for target: "-" is stdin, http(s) URLs are fetched
// (through a headless browser when useBrowser is set), anything else is a file.
func Resolve(target string, stdin io.Reader, useBrowser bool) Source {
	switch {
	case target == "" || target == "-":
		return NewReader(stdin)
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		if useBrowser {
			return NewBrowser(target)
		}
		return NewHTTP(target)
	default:
		return File{Path: target}
	}
}
