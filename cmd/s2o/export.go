package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/matsen/scholar2obsidian/internal/bibtex"
	"github.com/matsen/scholar2obsidian/internal/clipboard"
	"github.com/matsen/scholar2obsidian/internal/config"
	"github.com/matsen/scholar2obsidian/internal/handoff"
	"github.com/matsen/scholar2obsidian/internal/note"
	"github.com/matsen/scholar2obsidian/internal/pdf"
	"github.com/matsen/scholar2obsidian/internal/poll"
	"github.com/matsen/scholar2obsidian/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errAttachment marks a --pdf file that could not be read.
var errAttachment = errors.New("unreadable pdf attachment")

// exportOptions holds the flags shared by export and watch.
type exportOptions struct {
	folder   string
	tags     []string
	vault    string
	pdf      string
	open     bool
	copy     bool
	browser  bool
	interval time.Duration
	attempts int
}

var exportOpts exportOptions

func init() {
	bindExportFlags(exportCmd, &exportOpts)
	exportCmd.Flags().StringVar(&exportOpts.pdf, "pdf", "", "Link this PDF in the note's pdf property")
	exportCmd.Flags().BoolVar(&exportOpts.browser, "browser", false, "Render URLs in headless Chrome before reading the citation")
	rootCmd.AddCommand(exportCmd)
}

// bindExportFlags registers the note and delivery flags on cmd.
func bindExportFlags(cmd *cobra.Command, o *exportOptions) {
	cmd.Flags().StringVar(&o.folder, "folder", "", "Vault folder for the note (overrides config)")
	cmd.Flags().StringSliceVar(&o.tags, "tag", nil, "Note tag, repeatable (replaces configured tags)")
	cmd.Flags().StringVar(&o.vault, "vault", "", "Obsidian vault name (overrides config)")
	cmd.Flags().BoolVar(&o.open, "open", false, "Open the obsidian:// URI")
	cmd.Flags().BoolVar(&o.copy, "copy", false, "Copy the obsidian:// URI to the clipboard")
	cmd.Flags().DurationVar(&o.interval, "interval", poll.DefaultInterval, "Delay between attempts to find the citation")
	cmd.Flags().IntVar(&o.attempts, "attempts", poll.DefaultMaxAttempts, "Attempts to find the citation before giving up")
}

// apply overrides cfg with the flags the user set explicitly.
func (o exportOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("folder") {
		cfg.Folder = config.NormalizeFolder(o.folder)
	}
	if flags.Changed("tag") {
		cfg.Tags = append([]string{}, o.tags...)
	}
	if flags.Changed("vault") {
		cfg.Vault = o.vault
	}
	if flags.Changed("interval") {
		cfg.Interval = o.interval
	}
	if flags.Changed("attempts") {
		cfg.MaxAttempts = o.attempts
	}
	return cfg.Validate()
}

var exportCmd = &cobra.Command{
	Use:   "export [file|url|-]",
	Short: "Turn one BibTeX citation into an Obsidian note URI",
	Long: `Turn one BibTeX citation into an Obsidian note URI.

The source may be a .bib file, a saved citation page (.html), an http(s) URL,
or "-" for stdin (the default). A file that does not exist yet is polled
until it appears or the attempts run out.

Examples:
  s2o export scholar.bib
  s2o export ~/Downloads/scholar.html --open
  pbpaste | s2o export --copy --tag paper --tag to-read
  s2o export https://scholar.googleusercontent.com/scholar.bib?... --browser
  s2o export paper.bib --pdf ~/Papers/smith2024.pdf --vault Research`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if err := exportOpts.apply(cmd, &cfg); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	target := "-"
	if len(args) == 1 {
		target = config.ExpandTilde(args[0])
	}
	src := source.Resolve(target, cmd.InOrStdin(), exportOpts.browser)
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	e := newExporter(cfg, logger, exportOpts)
	result, err := e.export(ctx, src)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		printExportHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

// exporter runs detection, the note pipeline and delivery for one source.
type exporter struct {
	cfg      config.Config
	logger   *zap.Logger
	pdfPath  string
	open     bool
	copy     bool
	opener   *handoff.Opener
	copyText func(string) error

	// singleAttempt skips polling for sources that cannot change between
	// attempts.
	singleAttempt bool
}

func newExporter(cfg config.Config, logger *zap.Logger, o exportOptions) *exporter {
	return &exporter{
		cfg:      cfg,
		logger:   logger,
		pdfPath:  o.pdf,
		open:     o.open,
		copy:     o.copy,
		opener:   handoff.NewOpener(handoff.WithCommand(cfg.Opener)),
		copyText: clipboard.Copy,
	}
}

// detect polls src until it yields citation text.
func (e *exporter) detect(ctx context.Context, src source.Source) (string, error) {
	opts := e.cfg.Poll()
	opts.Retryable = func(err error) bool {
		return errors.Is(err, source.ErrNoCitation)
	}
	opts.OnAttempt = func(attempt int, err error) {
		e.logger.Debug("citation not ready", zap.Int("attempt", attempt), zap.Error(err))
	}
	// stdin is read once, so polling it again cannot help.
	if _, ok := src.(*source.Reader); ok || e.singleAttempt {
		opts.MaxAttempts = 1
	}
	return poll.Until(ctx, opts, src.Citation)
}

func (e *exporter) export(ctx context.Context, src source.Source) (ExportResult, error) {
	raw, err := e.detect(ctx, src)
	if err != nil {
		return ExportResult{}, err
	}
	return e.exportText(raw)
}

// exportText builds the note for raw and delivers its URI.
func (e *exporter) exportText(raw string) (ExportResult, error) {
	var result ExportResult
	opts := []note.Option{note.WithLogger(e.logger)}

	if e.pdfPath != "" {
		info, err := pdf.Inspect(config.ExpandTilde(e.pdfPath))
		if err != nil {
			return ExportResult{}, fmt.Errorf("%w: %w", errAttachment, err)
		}
		opts = append(opts, note.WithAttachment(info.Name))
		result.PDF = info.Name
		result.DOI = info.DOI
		if doi := recordDOI(raw); !info.MatchesDOI(doi) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("PDF DOI %s does not match record DOI %s", info.DOI, doi))
		}
	}

	payload, err := note.New(e.cfg.Note(), opts...).Export(raw)
	if err != nil {
		return ExportResult{}, err
	}
	result.File = payload.TargetPath
	result.URI = payload.DestinationURI

	e.deliver(&result)
	return result, nil
}

// deliver copies and opens the URI as requested. Failures become warnings
// since the URI is still printed.
func (e *exporter) deliver(r *ExportResult) {
	if e.copy {
		if err := e.copyText(r.URI); err != nil {
			if errors.Is(err, clipboard.ErrClipboardUnavailable) {
				r.Warnings = append(r.Warnings, clipboard.UnavailableHint)
			} else {
				r.Warnings = append(r.Warnings, fmt.Sprintf("clipboard error: %v", err))
			}
		} else {
			r.Copied = true
		}
	}

	if e.open {
		if err := e.opener.Open(r.URI); err != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("open error: %v", err))
		} else {
			r.Opened = true
		}
	}

	for _, w := range r.Warnings {
		e.logger.Debug("export warning", zap.String("file", r.File), zap.String("warning", w))
	}
}

// recordDOI returns the doi field of the single record in raw, if any.
func recordDOI(raw string) string {
	recs, err := bibtex.Parse(raw)
	if err != nil || len(recs) != 1 {
		return ""
	}
	doi, _ := recs[0].Field("doi")
	return doi
}

// exitCodeFor maps an export failure to a process exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, note.ErrNoRecord),
		errors.Is(err, note.ErrMultipleRecords),
		errors.Is(err, note.ErrUnparseable),
		errors.Is(err, errAttachment):
		return ExitDataError
	case errors.Is(err, poll.ErrAttemptsExhausted),
		errors.Is(err, source.ErrNoCitation):
		return ExitNotFound
	default:
		return ExitError
	}
}
