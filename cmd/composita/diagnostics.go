package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"composita/internal/diag"
	"composita/internal/diagfmt"
	"composita/internal/driver"
	"composita/internal/source"
)

type fileDiagnostics struct {
	File string `json:"file"`
	diagfmt.DiagnosticsOutput
}

// printPretty writes the diagnostics of one file to stderr.
func printPretty(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, s *cliSettings, base string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	useColor, err := colorEnabled(cmd, os.Stderr)
	if err != nil {
		return err
	}
	return diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:     useColor,
		Context:   2,
		PathMode:  s.PathMode,
		Base:      base,
		ShowNotes: true,
	})
}

// writeDiagnosticsJSON renders every file's diagnostics as one document.
func writeDiagnosticsJSON(w io.Writer, results []*driver.Result, s *cliSettings, base string) error {
	out := make([]fileDiagnostics, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		out = append(out, fileDiagnostics{
			File: r.Path,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(r.Bag, r.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         s.PathMode,
				Base:             base,
				Max:              s.MaxDiagnostics,
				IncludeNotes:     true,
			}),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func summarize(w io.Writer, results []*driver.Result) {
	var errs, warns int
	for _, r := range results {
		if r == nil || r.Bag == nil {
			continue
		}
		errs += r.Bag.Errors()
		warns += r.Bag.Warnings()
	}
	fmt.Fprintf(w, "%d file(s): %d error(s), %d warning(s)\n", len(results), errs, warns)
}
