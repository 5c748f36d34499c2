package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"composita/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.com|directory]",
	Short: "Resolve Composita sources and report diagnostics",
	Long: `Check parses and resolves a file or every .com file in a directory and
reports diagnostics without generating code. Without an argument the entry
point of the enclosing project is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	target, err := resolveTarget(args)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	run, err := newPipelineRun(cmd, target, driver.StageResolve, s)
	if err != nil {
		return err
	}
	res, runErr := run.execute(cmd)
	return run.report(cmd, res, runErr, s, format)
}
