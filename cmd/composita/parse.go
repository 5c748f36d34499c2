package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"composita/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.com",
	Short: "Parse a Composita source file and print its tree outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	s, err := loadSettings(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), filePath, s.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printPretty(cmd, result.Bag, result.FileSet, s, ""); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return result.Outline(cmd.OutOrStdout())
}
