// Package bibtex parses and formats BibTeX entries.
package bibtex

import (
	"fmt"
	"strings"

	"github.com/matsen/scholar2obsidian/internal/reference"
)

// SyntaxError reports malformed BibTeX input.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bibtex: line %d: %s", e.Line, e.Msg)
}

// Parse reads every entry in text and returns them in document order.
// @string definitions are expanded, @comment and @preamble blocks are skipped,
// and text outside of entries is ignored.
func Parse(text string) ([]reference.Record, error) {
	p := &parser{src: text, macros: make(map[string]string)}
	return p.parse()
}

type parser struct {
	src    string
	pos    int
	macros map[string]string
}

func (p *parser) parse() ([]reference.Record, error) {
	var records []reference.Record
	for {
		at := strings.IndexByte(p.src[p.pos:], '@')
		if at < 0 {
			return records, nil
		}
		p.pos += at + 1

		entryType := p.identifier()
		if entryType == "" {
			return nil, p.errorf("expected entry type after '@'")
		}
		p.skipSpace()
		closer, err := p.opener()
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(entryType) {
		case "comment", "preamble":
			if err := p.skipBody(closer); err != nil {
				return nil, err
			}
		case "string":
			if err := p.parseMacro(closer); err != nil {
				return nil, err
			}
		default:
			rec, err := p.parseEntry(entryType, closer)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
}

func (p *parser) parseEntry(entryType string, closer byte) (reference.Record, error) {
	rec := reference.Record{EntryType: entryType, Fields: make(map[string]string)}

	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ',' && p.src[p.pos] != closer {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return rec, p.errorf("unterminated entry")
	}
	rec.CitationKey = strings.TrimSpace(p.src[start:p.pos])
	if p.src[p.pos] == closer {
		p.pos++
		return rec, nil
	}
	p.pos++ // ','

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return rec, p.errorf("unterminated entry %q", rec.CitationKey)
		}
		if p.src[p.pos] == closer {
			p.pos++
			return rec, nil
		}

		name, value, err := p.assignment()
		if err != nil {
			return rec, err
		}
		rec.Fields[name] = value

		p.skipSpace()
		if p.pos >= len(p.src) {
			return rec, p.errorf("unterminated entry %q", rec.CitationKey)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return rec, nil
		default:
			return rec, p.errorf("expected ',' or %q after field %q", closer, name)
		}
	}
}

func (p *parser) parseMacro(closer byte) error {
	p.skipSpace()
	name, value, err := p.assignment()
	if err != nil {
		return err
	}
	p.macros[strings.ToLower(name)] = value
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != closer {
		return p.errorf("expected %q after @string %s", closer, name)
	}
	p.pos++
	return nil
}

// assignment parses `name = value`.
func (p *parser) assignment() (string, string, error) {
	name := p.identifier()
	if name == "" {
		return "", "", p.errorf("expected field name")
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		return "", "", p.errorf("expected '=' after field %q", name)
	}
	p.pos++
	value, err := p.value()
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

// value parses one or more pieces joined by '#'.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return "", p.errorf("expected field value")
		}

		switch c := p.src[p.pos]; {
		case c == '{':
			p.pos++
			s, err := p.balanced('}')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '"':
			p.pos++
			s, err := p.balanced('"')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case isDigit(c):
			start := p.pos
			for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
				p.pos++
			}
			b.WriteString(p.src[start:p.pos])
		default:
			name := p.identifier()
			if name == "" {
				return "", p.errorf("unexpected %q in field value", c)
			}
			if expanded, ok := p.macros[strings.ToLower(name)]; ok {
				b.WriteString(expanded)
			} else {
				b.WriteString(name)
			}
		}

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '#' {
			p.pos++
			continue
		}
		return b.String(), nil
	}
}

// balanced returns the text up to the matching end delimiter and consumes it.
// Nested brace groups are kept verbatim.
func (p *parser) balanced(end byte) (string, error) {
	start := p.pos
	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == end && depth == 0:
			s := p.src[start:p.pos]
			p.pos++
			return s, nil
		case c == '}':
			return "", p.errorf("unbalanced '}'")
		}
	}
	return "", p.errorf("unterminated value")
}

func (p *parser) skipBody(closer byte) error {
	_, err := p.balanced(closer)
	return err
}

func (p *parser) opener() (byte, error) {
	if p.pos >= len(p.src) {
		return 0, p.errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '{':
		p.pos++
		return '}', nil
	case '(':
		p.pos++
		return ')', nil
	}
	return 0, p.errorf("expected '{' or '(' but found %q", p.src[p.pos])
}

func (p *parser) identifier() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	pos := p.pos
	if pos > len(p.src) {
		pos = len(p.src)
	}
	return &SyntaxError{
		Line: strings.Count(p.src[:pos], "\n") + 1,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	}
	return strings.IndexByte("_-:.+/'", c) >= 0
}
