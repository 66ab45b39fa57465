package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matsen/scholar2obsidian/internal/config"
	"github.com/matsen/scholar2obsidian/internal/source"
	"github.com/matsen/scholar2obsidian/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchOpts     exportOptions
	watchPattern  string
	watchDebounce time.Duration
)

func init() {
	bindExportFlags(watchCmd, &watchOpts)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", watch.DefaultPattern, "Doublestar glob for files to export, relative to the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed file is exported")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Export every citation file that appears in a directory",
	Long: `Export every citation file that appears in a directory.

Typically pointed at the browser's downloads folder: each new or rewritten
file matching --pattern is exported as with 's2o export <file>'. Failures are
logged and watching continues. Stop with Ctrl-C.

Examples:
  s2o watch ~/Downloads --open
  s2o watch ~/Downloads --pattern 'scholar*.bib' --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if err := watchOpts.apply(cmd, &cfg); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	dir := config.ExpandTilde(args[0])
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		exitWithError(ExitError, "not a directory: %s", dir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := newExporter(cfg, logger, watchOpts)
	w := watch.New(dir, watchHandler(e),
		watch.WithPattern(watchPattern),
		watch.WithDebounce(watchDebounce),
		watch.WithLogger(logger))

	if humanOutput {
		fmt.Fprintf(os.Stderr, "watching %s for %s\n", dir, watchPattern)
	}
	if err := w.Run(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// watchHandler exports one settled file and prints its result.
// The watcher has already waited for the file to settle, so each file gets a
// single detection attempt and a file without a citation fails at once.
func watchHandler(e *exporter) watch.Handler {
	e.singleAttempt = true
	return func(ctx context.Context, path string) error {
		result, err := e.export(ctx, source.File{Path: path})
		if err != nil {
			if humanOutput {
				fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			}
			return err
		}
		result.Source = path

		if humanOutput {
			printExportHuman(result)
		} else {
			outputJSONCompact(result)
		}
		e.logger.Debug("exported citation", zap.String("path", path), zap.String("file", result.File))
		return nil
	}
}
