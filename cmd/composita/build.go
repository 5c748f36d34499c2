package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"composita/internal/buildpipeline"
	"composita/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.com|directory]",
	Short: "Compile Composita sources to IL",
	Long: `Build compiles a file or every .com file in a directory and writes one IL
module per file. Without an argument the entry point of the enclosing
project (composita.toml) is built.`,
	Args: cobra.MaximumNArgs(1),
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().String("emit", "text", "IL encoding (text|json|msgpack)")
	buildCmd.Flags().StringP("output", "o", "", "output file, directory for directory targets, or - for stdout")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	buildCmd.Flags().Bool("no-cache", false, "do not read or write the IL cache")
	buildCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	target, err := resolveTarget(args)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	run, err := newPipelineRun(cmd, target, driver.StageGenerate, s)
	if err != nil {
		return err
	}
	// stdout carries the module itself
	run.useTUI = shouldUseTUI(uiModeValue) && !s.Quiet && s.Output != buildpipeline.StdoutPath
	run.title = "composita build"

	res, runErr := run.execute(cmd)
	if err := run.report(cmd, res, runErr, s, "pretty"); err != nil {
		return err
	}
	if !s.Quiet && !run.useTUI {
		for _, out := range res.Outputs {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
		}
	}
	return nil
}
