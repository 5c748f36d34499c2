package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"composita/internal/buildpipeline"
	"composita/internal/driver"
	"composita/internal/il"
	"composita/internal/observ"
	"composita/internal/trace"
	"composita/internal/ui"
)

var errDiagnostics = errors.New("compilation failed")

type pipelineRun struct {
	stage   driver.Stage
	target  string
	title   string
	useTUI  bool
	timer   *observ.Timer
	request *buildpipeline.Request
}

func newPipelineRun(cmd *cobra.Command, target string, stage driver.Stage, s *cliSettings) (*pipelineRun, error) {
	format, err := il.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}
	base := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		base = filepath.Dir(target)
	}
	if s.Manifest != nil {
		base = s.Manifest.Root
	}
	run := &pipelineRun{stage: stage, target: target}
	if s.Timings {
		run.timer = observ.NewTimer()
	}
	run.request = &buildpipeline.Request{
		Target:         target,
		BaseDir:        base,
		Stage:          stage,
		Format:         format,
		Output:         s.Output,
		Jobs:           s.Jobs,
		MaxDiagnostics: s.MaxDiagnostics,
		Timer:          run.timer,
		Tracer:         trace.FromContext(cmd.Context()),
		Stdout:         cmd.OutOrStdout(),
	}
	if stage == driver.StageGenerate {
		run.request.Cache = s.openCache(cmd)
	}
	return run, nil
}

// execute runs the pipeline, through the progress view when enabled.
// Diagnostic failures come back as a result with buildpipeline.ErrDiagnostics.
func (p *pipelineRun) execute(cmd *cobra.Command) (*buildpipeline.Result, error) {
	if p.useTUI {
		return ui.RunBuild(cmd.Context(), p.title, p.request, cmd.OutOrStdout())
	}
	return buildpipeline.Run(cmd.Context(), p.request)
}

// report prints diagnostics and timings and maps the outcome to the
// command error.
func (p *pipelineRun) report(cmd *cobra.Command, res *buildpipeline.Result, runErr error, s *cliSettings, format string) error {
	if res == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, buildpipeline.ErrDiagnostics) {
		return runErr
	}
	base := p.request.BaseDir
	switch format {
	case "json":
		if err := writeDiagnosticsJSON(cmd.OutOrStdout(), res.Results, s, base); err != nil {
			return err
		}
	default:
		for _, r := range res.Results {
			if err := printPretty(cmd, r.Bag, r.FileSet, s, base); err != nil {
				return err
			}
		}
		if !s.Quiet && len(res.Results) > 1 {
			summarize(cmd.ErrOrStderr(), res.Results)
		}
	}
	if s.Timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
		fmt.Fprint(cmd.ErrOrStderr(), p.timer.Summary())
	}
	if runErr != nil {
		return errDiagnostics
	}
	return nil
}
