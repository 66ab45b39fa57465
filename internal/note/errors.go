package note

import "errors"

// Errors returned by Pipeline.Export. No payload is produced with any of them.
var (
	// ErrNoRecord indicates the source text held no BibTeX entry.
	ErrNoRecord = errors.New("no bibtex record found")

	// ErrMultipleRecords indicates more than one entry; only single-record sources are supported.
	ErrMultipleRecords = errors.New("multi-record source not supported")

	// ErrUnparseable indicates the source text is not valid BibTeX.
	ErrUnparseable = errors.New("unparseable bibtex")

	// ErrNoCiteBlock indicates a note without a fenced bibtex block.
	ErrNoCiteBlock = errors.New("note has no bibtex cite block")
)
