package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputJSONCompact writes a value as compact JSON to stdout.
// Used for streams such as watch, one object per line.
func outputJSONCompact(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExportResult is the response for export and for each file handled by watch.
type ExportResult struct {
	Source   string   `json:"source,omitempty"`
	File     string   `json:"file"`
	URI      string   `json:"uri"`
	Copied   bool     `json:"copied"`
	Opened   bool     `json:"opened"`
	PDF      string   `json:"pdf,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
	Path   string `json:"path"`
}

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version string `json:"version"`
}

// printExportHuman prints the note path, then the URI on its own line so it can be piped.
func printExportHuman(r ExportResult) {
	if r.Source != "" {
		outputHuman("%s -> %s\n", r.Source, r.File)
	} else {
		outputHuman("%s\n", r.File)
	}
	outputHuman("%s\n", r.URI)
	for _, w := range r.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
