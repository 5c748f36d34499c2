// Package buildpipeline orchestrates the compilation of a target: it picks
// the files, runs the driver over them, reports progress and writes IL.
package buildpipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"composita/internal/diag"
	"composita/internal/driver"
	"composita/internal/il"
	"composita/internal/observ"
	"composita/internal/source"
	"composita/internal/trace"
)

// StdoutPath as Output writes a single module to Request.Stdout.
const StdoutPath = "-"

// Request configures one pipeline run.
type Request struct {
	// Target is a .com file or a directory of them.
	Target string
	// BaseDir shortens file names in progress events; defaults to the target
	// directory.
	BaseDir string
	// Stage is the last driver stage; below StageGenerate nothing is emitted.
	Stage          driver.Stage
	Format         il.Format
	Output         string
	Jobs           int
	MaxDiagnostics int
	Cache          *driver.DiskCache
	Timer          *observ.Timer
	Tracer         trace.Tracer
	Progress       ProgressSink
	Stdout         io.Writer
}

// Result captures build artefacts and timings.
type Result struct {
	Files   []string
	Results []*driver.Result
	Outputs []string
	Timings *Timings
	Dir     bool
}

// Errors sums error diagnostics over all files.
func (r *Result) Errors() int { return driver.CountErrors(r.Results) }

// ErrDiagnostics is returned when some file reported errors. Outputs are
// still written for the files that compiled.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// Targets lists the files behind target and reports whether it is a directory.
func Targets(target string) ([]string, bool, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, false, err
	}
	if !info.IsDir() {
		if filepath.Ext(target) != driver.SourceExt {
			return nil, false, fmt.Errorf("%s: not a %s file", target, driver.SourceExt)
		}
		return []string{target}, false, nil
	}
	files, err := driver.ListSources(target)
	if err != nil {
		return nil, true, err
	}
	if len(files) == 0 {
		return nil, true, fmt.Errorf("%s: no %s files", target, driver.SourceExt)
	}
	return files, true, nil
}

// Run compiles the target and, at StageGenerate, writes one output per
// successfully compiled file. A failed write is an IO diagnostic on its file.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil || req.Target == "" {
		return nil, fmt.Errorf("missing target path")
	}
	files, isDir, err := Targets(req.Target)
	if err != nil {
		return nil, err
	}
	if isDir && req.Output == StdoutPath {
		return nil, fmt.Errorf("-o %s needs a single file target", StdoutPath)
	}
	base := baseDir(req, isDir)

	res := &Result{Files: files, Timings: &Timings{}, Dir: isDir}
	prog := &progress{sink: req.Progress, base: base, timings: res.Timings}
	prog.queued(files)

	opts := driver.Options{
		Stage:          req.Stage,
		MaxDiagnostics: req.MaxDiagnostics,
		Tracer:         req.Tracer,
		Timer:          req.Timer,
		Cache:          req.Cache,
		Observer:       prog.onPhase,
	}
	res.Results, err = driver.CompileFiles(ctx, files, opts, req.Jobs)
	if err != nil {
		prog.overall(StageGenerate, StatusError, err)
		return res, err
	}

	for _, r := range res.Results {
		if r.Failed() {
			prog.file(r.Path, failedStage(r), StatusError, ErrDiagnostics, 0)
			continue
		}
		if req.Stage < driver.StageGenerate || r.Module == nil {
			prog.file(r.Path, Stage(req.Stage.String()), StatusDone, nil, 0)
			continue
		}
		start := time.Now()
		out, werr := emit(req, r, base, isDir)
		elapsed := time.Since(start)
		if werr != nil {
			diag.ReportError(diag.BagReporter{Bag: r.Bag}, diag.IOWriteFailed, source.Span{File: r.File.ID}, werr.Error()).Emit()
			prog.file(r.Path, StageEmit, StatusError, werr, elapsed)
			continue
		}
		res.Timings.Add(StageEmit, elapsed)
		prog.file(r.Path, StageEmit, StatusDone, nil, elapsed)
		if out != "" {
			res.Outputs = append(res.Outputs, out)
		}
	}
	prog.overall(StageEmit, StatusDone, nil)

	if res.Errors() > 0 {
		return res, ErrDiagnostics
	}
	return res, nil
}

func baseDir(req *Request, isDir bool) string {
	switch {
	case req.BaseDir != "":
		return req.BaseDir
	case isDir:
		return req.Target
	}
	return filepath.Dir(req.Target)
}

// DisplayNames lists the file names progress events for req will carry.
func DisplayNames(req *Request) ([]string, error) {
	files, isDir, err := Targets(req.Target)
	if err != nil {
		return nil, err
	}
	base := baseDir(req, isDir)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = Display(f, base)
	}
	return names, nil
}

// failedStage attributes a failed file to the phase of its first error.
func failedStage(r *driver.Result) Stage {
	for _, d := range r.Bag.Items() {
		if d.Severity != diag.SevError {
			continue
		}
		switch c := int(d.Code); {
		case c >= 3000 && c < 4000:
			return StageResolve
		case c >= 4000 && c < 5000:
			return StageGenerate
		}
		return StageParse
	}
	return StageParse
}

// OutputPath decides where the module compiled from src goes. Without -o it
// lands next to the source; with -o it is the file itself for a single
// target and a mirror directory for a directory target.
func OutputPath(src, output, base string, format il.Format, isDir bool) string {
	stem := strings.TrimSuffix(src, filepath.Ext(src)) + format.Ext()
	switch {
	case output == "":
		return stem
	case !isDir:
		return output
	}
	rel, err := filepath.Rel(base, stem)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(stem)
	}
	return filepath.Join(output, rel)
}

func emit(req *Request, r *driver.Result, base string, isDir bool) (string, error) {
	var buf bytes.Buffer
	if err := il.Encode(&buf, r.Module, req.Format); err != nil {
		return "", fmt.Errorf("%s: %w", r.Path, err)
	}
	if req.Output == StdoutPath {
		w := req.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
		return "", nil
	}
	out := OutputPath(r.Path, req.Output, base, req.Format, isDir)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}
