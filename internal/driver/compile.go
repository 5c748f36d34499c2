// Package driver runs the front end over files: load, parse, resolve and
// generate, with tracing, timings and the IL disk cache.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fortio.org/safecast"

	"composita/internal/ast"
	"composita/internal/codegen"
	"composita/internal/diag"
	"composita/internal/il"
	"composita/internal/lexer"
	"composita/internal/observ"
	"composita/internal/parser"
	"composita/internal/sema"
	"composita/internal/source"
	"composita/internal/token"
	"composita/internal/trace"
)

// Stage bounds how far a compilation goes.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
	StageResolve
	StageGenerate
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageGenerate:
		return "generate"
	}
	return "unknown"
}

type Options struct {
	Stage          Stage
	MaxDiagnostics int
	// Tracer defaults to the one stored in the context.
	Tracer trace.Tracer
	Parent uint64
	// Timer may be shared between files; nil disables timings.
	Timer    *observ.Timer
	Cache    *DiskCache
	Observer PhaseObserver
}

// Result is everything one compilation produced. Fields past the reached
// stage stay nil.
type Result struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Builder *ast.Builder
	ASTFile ast.FileID
	Sema    *sema.Result
	Module  *il.Module
	Bag     *diag.Bag
	// Cached is set when Module came from the disk cache.
	Cached bool
}

// Failed reports whether the file produced error diagnostics.
func (r *Result) Failed() bool {
	return r == nil || r.Bag == nil || r.Bag.HasErrors()
}

// CompileFile loads path and runs the pipeline up to opts.Stage. Problems in
// the program are diagnostics in Result.Bag; the returned error is for I/O
// failures, cancellation and internal faults.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return compile(ctx, fs, id, opts, "")
}

// CompileSource compiles src as if it were the file name.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return compile(ctx, fs, id, opts, "")
}

type compilation struct {
	ctx    context.Context
	opts   Options
	tracer trace.Tracer
	root   *trace.Span
	res    *Result
	rep    diag.Reporter
	// tag prefixes timer phases when several files share a timer.
	tag string
}

func compile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, tag string) (res *Result, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("compile: unknown file %d", id)
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	res = &Result{Path: file.Path, FileSet: fs, File: file, Bag: bag}
	c := &compilation{
		ctx:    ctx,
		opts:   opts,
		tracer: tracer,
		res:    res,
		rep:    diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		tag:    tag,
	}
	c.root = trace.Begin(tracer, trace.ScopeDriver, "compile", opts.Parent).WithExtra("file", file.Path)
	defer func() {
		detail := "ok"
		switch {
		case err != nil:
			detail = err.Error()
		case res.Cached:
			detail = "cached"
		case bag.HasErrors():
			detail = fmt.Sprintf("errors=%d", bag.Errors())
		}
		c.root.End(detail)
	}()

	if opts.Stage == StageLex {
		lx := lexer.New(file, lexer.Options{Reporter: c.rep})
		c.phase("lex", func(uint64) string {
			res.Tokens = lx.All()
			return fmt.Sprintf("tokens=%d", len(res.Tokens))
		})
		return res, nil
	}

	var key Digest
	if opts.Stage == StageGenerate && opts.Cache != nil {
		key = CacheKey(file.Hash)
		if c.loadCached(key) {
			return res, nil
		}
	}

	if err := c.parse(); err != nil || bag.HasErrors() || opts.Stage == StageParse {
		return res, err
	}
	if err := c.resolve(); err != nil || bag.HasErrors() || opts.Stage == StageResolve {
		return res, err
	}
	if err := c.generate(); err != nil || bag.HasErrors() {
		return res, err
	}

	if opts.Cache != nil {
		if perr := opts.Cache.Put(key, newCachePayload(res)); perr != nil {
			diag.ReportWarning(c.rep, diag.IOCacheFailed, source.Span{File: file.ID}, "cannot store IL cache: "+perr.Error()).Emit()
		}
	}
	return res, nil
}

// phase runs fn as one traced, timed and observed pass. fn gets the span id
// to parent nested spans on and returns the span detail.
func (c *compilation) phase(name string, fn func(parent uint64) string) {
	c.observe(PhaseEvent{Name: name, Status: PhaseStart})
	start := time.Now()
	span := trace.Begin(c.tracer, trace.ScopePass, name, c.root.ID())
	label := name
	if c.tag != "" {
		label = c.tag + ": " + name
	}
	idx := c.opts.Timer.Begin(label)

	note := fn(span.ID())

	c.opts.Timer.End(idx, note)
	span.End(note)
	c.observe(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
}

func (c *compilation) observe(ev PhaseEvent) {
	if c.opts.Observer == nil {
		return
	}
	ev.File = c.res.Path
	c.opts.Observer(ev)
}

func (c *compilation) parse() error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	maxErrors, err := safecast.Conv[uint](c.opts.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("max diagnostics: %w", err)
	}
	res := c.res
	c.phase("parse", func(uint64) string {
		lx := lexer.New(res.File, lexer.Options{Reporter: c.rep})
		res.Builder = ast.NewBuilder(ast.Hints{}, nil)
		parsed := parser.ParseFile(c.ctx, lx, res.Builder, parser.Options{MaxErrors: maxErrors, Reporter: c.rep})
		res.ASTFile = parsed.File
		items := 0
		if f := res.Builder.Files.Get(parsed.File); f != nil {
			items = len(f.Items)
		}
		return fmt.Sprintf("items=%d errors=%d", items, parsed.Errors)
	})
	return nil
}

func (c *compilation) resolve() error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	res := c.res
	c.phase("resolve", func(parent uint64) string {
		r, err := sema.Resolve(res.Builder, res.ASTFile, sema.Options{Tracer: c.tracer, Parent: parent})
		res.Sema = &r
		if err != nil {
			sema.Report(c.rep, err, c.fileSpan())
			return "failed"
		}
		return fmt.Sprintf("components=%d", len(r.Table.Components))
	})
	return nil
}

func (c *compilation) generate() error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	res := c.res
	var internal error
	c.phase("generate", func(parent uint64) string {
		mod, err := codegen.Generate(res.Builder, res.Sema.Table, codegen.Options{
			Source:   filepath.Base(res.Path),
			Reporter: c.rep,
			Tracer:   c.tracer,
			Parent:   parent,
		})
		if err != nil {
			codegen.Report(c.rep, err, c.fileSpan())
			return "failed"
		}
		if verr := mod.Validate(); verr != nil {
			internal = fmt.Errorf("generated module is inconsistent: %w", verr)
			return "invalid"
		}
		res.Module = mod
		return fmt.Sprintf("components=%d procedures=%d", len(mod.Compiled), len(mod.Procedures))
	})
	return internal
}

func (c *compilation) loadCached(key Digest) bool {
	payload, ok, err := c.opts.Cache.Get(key)
	if err != nil {
		diag.ReportWarning(c.rep, diag.IOCacheFailed, c.fileSpan(), "ignoring IL cache entry: "+err.Error()).Emit()
		return false
	}
	if !ok {
		trace.Point(c.tracer, trace.ScopePass, "cache miss", c.root.ID(), c.res.Path)
		return false
	}
	trace.Point(c.tracer, trace.ScopePass, "cache hit", c.root.ID(), c.res.Path)
	payload.restore(c.res)
	return true
}

func (c *compilation) fileSpan() source.Span {
	if f := c.res.File; f != nil {
		n, err := safecast.Conv[uint32](len(f.Content))
		if err != nil {
			n = 0
		}
		return source.Span{File: f.ID, End: n}
	}
	return source.Span{}
}
