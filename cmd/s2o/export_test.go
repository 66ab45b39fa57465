package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matsen/scholar2obsidian/internal/clipboard"
	"github.com/matsen/scholar2obsidian/internal/config"
	"github.com/matsen/scholar2obsidian/internal/handoff"
	"github.com/matsen/scholar2obsidian/internal/note"
	"github.com/matsen/scholar2obsidian/internal/poll"
	"github.com/matsen/scholar2obsidian/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sampleBib = `@article{smith2024deep,
  title={Deep Learning for Phylogenetics},
  author={Smith, John and Doe, Jane},
  journal={Nature},
  year={2024}
}`

// sourceFunc adapts a function to source.Source.
type sourceFunc func(ctx context.Context) (string, error)

func (f sourceFunc) Citation(ctx context.Context) (string, error) { return f(ctx) }

func testExporter(t *testing.T) (*exporter, *[]string) {
	t.Helper()

	cfg := config.Default()
	cfg.Interval = time.Millisecond
	cfg.MaxAttempts = 3

	var launched []string
	e := newExporter(cfg, zap.NewNop(), exportOptions{})
	e.opener = handoff.NewOpener(
		handoff.WithCommand("obsidian-test"),
		handoff.WithStarter(func(cmd *exec.Cmd) error {
			launched = cmd.Args
			return nil
		}),
	)
	e.copyText = func(string) error { return nil }
	return e, &launched
}

func TestExport_Success(t *testing.T) {
	e, launched := testExporter(t)
	e.open = true
	e.copy = true

	var copied string
	e.copyText = func(s string) error {
		copied = s
		return nil
	}

	result, err := e.export(context.Background(), sourceFunc(func(context.Context) (string, error) {
		return sampleBib, nil
	}))
	if err != nil {
		t.Fatalf("export() error = %v", err)
	}

	wantFile := note.DefaultFolder + "/Deep Learning for Phylogenetics"
	if result.File != wantFile {
		t.Errorf("File = %q, want %q", result.File, wantFile)
	}
	if !strings.HasPrefix(result.URI, note.URIPrefix+"file=") {
		t.Errorf("URI = %q, want obsidian://new?file= prefix", result.URI)
	}
	if !result.Copied || copied != result.URI {
		t.Errorf("Copied = %v with %q, want URI copied", result.Copied, copied)
	}
	if !result.Opened {
		t.Error("Opened = false, want true")
	}
	if len(*launched) != 2 || (*launched)[1] != result.URI {
		t.Errorf("launched %v, want [obsidian-test <uri>]", *launched)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	u, err := url.Parse(result.URI)
	if err != nil {
		t.Fatalf("parsing URI: %v", err)
	}
	if got := u.Query().Get("content"); !strings.Contains(got, "[[John Smith]]") {
		t.Errorf("content missing author links:\n%s", got)
	}
}

func TestExport_PollsUntilCitationAppears(t *testing.T) {
	e, _ := testExporter(t)

	var calls atomic.Int32
	src := sourceFunc(func(context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", source.ErrNoCitation
		}
		return sampleBib, nil
	})

	if _, err := e.export(context.Background(), src); err != nil {
		t.Fatalf("export() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Citation called %d times, want 3", got)
	}
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		err      error
		wantCode int
	}{
		{
			name:     "citation never appears",
			err:      source.ErrNoCitation,
			wantCode: ExitNotFound,
		},
		{
			name:     "no record",
			text:     "just some prose",
			wantCode: ExitDataError,
		},
		{
			name:     "multiple records",
			text:     "@misc{a, title={A}}\n@misc{b, title={B}}",
			wantCode: ExitDataError,
		},
		{
			name:     "unparseable",
			text:     "@article{broken, title={unterminated",
			wantCode: ExitDataError,
		},
		{
			name:     "source failure",
			err:      errors.New("connection refused"),
			wantCode: ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testExporter(t)
			src := sourceFunc(func(context.Context) (string, error) {
				return tt.text, tt.err
			})

			_, err := e.export(context.Background(), src)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exitCodeFor(%v) = %d, want %d", err, got, tt.wantCode)
			}
		})
	}
}

func TestExport_StdinNotPolled(t *testing.T) {
	e, _ := testExporter(t)
	e.cfg.Interval = time.Hour

	start := time.Now()
	_, err := e.export(context.Background(), source.NewReader(strings.NewReader("")))
	if !errors.Is(err, poll.ErrAttemptsExhausted) {
		t.Fatalf("err = %v, want ErrAttemptsExhausted", err)
	}
	if time.Since(start) > time.Second {
		t.Error("stdin was polled more than once")
	}
}

func TestExport_DeliveryWarnings(t *testing.T) {
	tests := []struct {
		name        string
		copyErr     error
		wantWarning string
	}{
		{"clipboard unavailable", clipboard.ErrClipboardUnavailable, clipboard.UnavailableHint},
		{"clipboard failure", fmt.Errorf("xclip: exit status 1"), "clipboard error: xclip: exit status 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testExporter(t)
			e.copy = true
			e.copyText = func(string) error { return tt.copyErr }

			result, err := e.exportText(sampleBib)
			if err != nil {
				t.Fatalf("exportText() error = %v", err)
			}
			if result.Copied {
				t.Error("Copied = true, want false")
			}
			if len(result.Warnings) != 1 || result.Warnings[0] != tt.wantWarning {
				t.Errorf("Warnings = %v, want [%q]", result.Warnings, tt.wantWarning)
			}
		})
	}
}

func TestExport_MissingPDF(t *testing.T) {
	e, _ := testExporter(t)
	e.pdfPath = t.TempDir() + "/missing.pdf"

	_, err := e.exportText(sampleBib)
	if !errors.Is(err, errAttachment) {
		t.Fatalf("err = %v, want errAttachment", err)
	}
	if got := exitCodeFor(err); got != ExitDataError {
		t.Errorf("exitCodeFor() = %d, want %d", got, ExitDataError)
	}
}

func TestRecordDOI(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"with doi", "@article{k, doi={10.1038/nature12345}}", "10.1038/nature12345"},
		{"without doi", sampleBib, ""},
		{"unparseable", "@article{k, doi={", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordDOI(tt.raw); got != tt.want {
				t.Errorf("recordDOI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportOptionsApply(t *testing.T) {
	var o exportOptions
	cmd := &cobra.Command{Use: "test"}
	bindExportFlags(cmd, &o)

	args := []string{"--folder", "Reading/", "--tag", "paper", "--tag", "to-read", "--attempts", "7"}
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg := config.Default()
	cfg.Vault = "Research"
	if err := o.apply(cmd, &cfg); err != nil {
		t.Fatalf("apply() error = %v", err)
	}

	if cfg.Folder != "Reading" {
		t.Errorf("Folder = %q, want Reading", cfg.Folder)
	}
	if strings.Join(cfg.Tags, ",") != "paper,to-read" {
		t.Errorf("Tags = %v, want [paper to-read]", cfg.Tags)
	}
	if cfg.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", cfg.MaxAttempts)
	}
	if cfg.Vault != "Research" {
		t.Errorf("Vault = %q, unset flag should keep config value", cfg.Vault)
	}
	if cfg.Interval != poll.DefaultInterval {
		t.Errorf("Interval = %v, unset flag should keep config value", cfg.Interval)
	}
}

func TestExportOptionsApply_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero attempts", []string{"--attempts", "0"}},
		{"vault root folder", []string{"--folder", "/"}},
		{"empty folder", []string{"--folder", ""}},
		{"absolute folder", []string{"--folder", "/Papers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o exportOptions
			cmd := &cobra.Command{Use: "test"}
			bindExportFlags(cmd, &o)

			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			cfg := config.Default()
			if err := o.apply(cmd, &cfg); err == nil {
				t.Errorf("apply(%v) expected error, got folder %q", tt.args, cfg.Folder)
			}
		})
	}
}
