package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/scholar2obsidian/internal/bibtex"
	"github.com/matsen/scholar2obsidian/internal/config"
	"github.com/matsen/scholar2obsidian/internal/note"
	"github.com/spf13/cobra"
)

var citeNormalize bool

func init() {
	citeCmd.Flags().BoolVar(&citeNormalize, "normalize", false, "Reformat the BibTeX with sorted, brace-quoted fields")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite <note.md>",
	Short: "Print the BibTeX stored in an exported note",
	Long: `Print the BibTeX stored in an exported note.

Reads a note written by 's2o export' from the vault and prints its
properties and the cite block. With --normalize the BibTeX is re-parsed and
printed with sorted, brace-quoted fields.

Examples:
  s2o cite "$VAULT/Science 🔬/Papers 📜/Deep Learning for Phylogenetics.md"
  s2o cite note.md --normalize --human >> refs.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

// CiteResult is the response for the cite command.
type CiteResult struct {
	Title  *string  `json:"title"`
	Author []string `json:"author"`
	Year   *int     `json:"year"`
	Key    string   `json:"key"`
	Tags   []string `json:"tags"`
	Cite   string   `json:"cite"`
}

func runCite(cmd *cobra.Command, args []string) error {
	result, err := readCite(config.ExpandTilde(args[0]), citeNormalize)
	if err != nil {
		code := ExitDataError
		if errors.Is(err, os.ErrNotExist) {
			code = ExitNotFound
		}
		exitWithError(code, "%v", err)
	}

	if humanOutput {
		outputHuman("%s\n", result.Cite)
		return nil
	}
	outputJSON(result)
	return nil
}

// readCite parses the note at path and returns its properties and BibTeX.
func readCite(path string, normalize bool) (CiteResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CiteResult{}, fmt.Errorf("reading note: %w", err)
	}

	n, err := note.ParseNote(string(data))
	if err != nil {
		return CiteResult{}, fmt.Errorf("%s: %w", path, err)
	}

	cite := n.Cite
	if normalize {
		recs, err := bibtex.Parse(cite)
		if err != nil {
			return CiteResult{}, fmt.Errorf("%w: %w", note.ErrUnparseable, err)
		}
		if len(recs) == 0 {
			return CiteResult{}, note.ErrNoRecord
		}
		cite = strings.TrimSuffix(bibtex.FormatList(recs), "\n")
	}

	return CiteResult{
		Title:  n.Properties.Title,
		Author: n.Properties.Author,
		Year:   n.Properties.Year,
		Key:    n.Properties.Key,
		Tags:   n.Properties.Tags,
		Cite:   cite,
	}, nil
}
