// Package main implements the composita CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"composita/internal/trace"
	"composita/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "composita",
	Short: "Composita compiler front end",
	Long: `Composita resolves and compiles Composita components into the
intermediate language consumed by the runtime`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTrace, err := setupTracing(cmd)
		if err != nil {
			stopProfiles()
			return err
		}
		traceCleanup = func() {
			stopTrace()
			stopProfiles()
			traceCleanup = func() {}
		}
		return nil
	},
}

// traceCleanup flushes the tracer and stops profilers after the command.
var traceCleanup = func() {}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)
}

// main runs the root command and exits with status 1 on error.
func main() {
	err := execute()
	traceCleanup()
	if err != nil {
		os.Exit(1)
	}
}

func execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			trace.DumpRing(trace.FromContext(rootCmd.Context()))
			panic(r)
		}
	}()
	return rootCmd.Execute()
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color for output going to f.
func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return !envNoColor() && isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}
