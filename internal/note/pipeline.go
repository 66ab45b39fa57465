// Package note turns one BibTeX record into an Obsidian note and its handoff URI.
//
// The transformation is pure: field extraction, author normalization,
// filename sanitization and payload assembly, each a plain function over
// strings. Pipeline wires them together and owns the single-record check.
package note

import (
	"fmt"
	"strings"

	"github.com/matsen/scholar2obsidian/internal/bibtex"
	"github.com/matsen/scholar2obsidian/internal/reference"
	"go.uber.org/zap"
)

// Pipeline converts citation text into a note payload.
type Pipeline struct {
	cfg        Config
	logger     *zap.Logger
	attachment string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for non-fatal findings such as an unparseable year.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithAttachment fills the pdf property with a link to the named file.
func WithAttachment(name string) Option {
	return func(p *Pipeline) {
		p.attachment = name
	}
}

// New creates a pipeline with the given configuration.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Export parses raw citation text and builds the payload for its single record.
// It fails with ErrUnparseable, ErrNoRecord or ErrMultipleRecords and then
// produces nothing.
func (p *Pipeline) Export(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)

	recs, err := bibtex.Parse(raw)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	switch len(recs) {
	case 0:
		return Payload{}, ErrNoRecord
	case 1:
		return p.Transform(recs[0], raw)
	default:
		return Payload{}, fmt.Errorf("%w: found %d records", ErrMultipleRecords, len(recs))
	}
}

// Transform builds the payload for rec, embedding raw as the cite block.
func (p *Pipeline) Transform(rec reference.Record, raw string) (Payload, error) {
	fields := Extract(rec)
	if fields.YearUnparseable() {
		p.logger.Warn("year is not a number, leaving it empty",
			zap.String("key", rec.CitationKey),
			zap.String("year", fields.RawYear))
	}
	if !fields.HasTitle {
		p.logger.Warn("record has no title", zap.String("key", rec.CitationKey))
	}

	authors := NormalizeAuthors(fields.RawAuthors)
	p.logger.Debug("normalized authors",
		zap.String("key", rec.CitationKey),
		zap.Int("count", len(authors)))

	payload, err := Assemble(p.cfg, fields, AuthorLinks(authors), raw, p.attachment)
	if err != nil {
		return Payload{}, err
	}
	return payload, nil
}
