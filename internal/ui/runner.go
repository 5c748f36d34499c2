package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"composita/internal/buildpipeline"
)

type runOutcome struct {
	result *buildpipeline.Result
	err    error
}

// RunBuild runs the pipeline in the background while a progress view
// renders its events to out.
func RunBuild(ctx context.Context, title string, req *buildpipeline.Request, out io.Writer) (*buildpipeline.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	files, err := buildpipeline.DisplayNames(req)
	if err != nil {
		return nil, err
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Run(ctx, &reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
