package buildpipeline

import (
	"path/filepath"
	"time"

	"composita/internal/driver"
)

// progress turns driver phase events into pipeline events.
type progress struct {
	sink    ProgressSink
	base    string
	timings *Timings
}

// Display is the name a file gets in progress events: relative to base when
// possible.
func Display(path, base string) string {
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func (p *progress) queued(files []string) {
	if p.sink == nil {
		return
	}
	for _, f := range files {
		p.sink.OnEvent(Event{File: Display(f, p.base), Stage: StageParse, Status: StatusQueued})
	}
}

func (p *progress) onPhase(ev driver.PhaseEvent) {
	stage := Stage(ev.Name)
	if ev.Status == driver.PhaseEnd {
		p.timings.Add(stage, ev.Elapsed)
		return
	}
	p.file(ev.File, stage, StatusWorking, nil, 0)
}

func (p *progress) file(path string, stage Stage, status Status, err error, elapsed time.Duration) {
	if p.sink == nil {
		return
	}
	p.sink.OnEvent(Event{File: Display(path, p.base), Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

func (p *progress) overall(stage Stage, status Status, err error) {
	if p.sink == nil {
		return
	}
	p.sink.OnEvent(Event{Stage: stage, Status: status, Err: err})
}
