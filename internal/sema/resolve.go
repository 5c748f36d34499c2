package sema

import (
	"errors"
	"fmt"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/symbols"
	"composita/internal/trace"
)

// Options configure resolution of one file.
type Options struct {
	Hints  symbols.Hints
	Tracer trace.Tracer
	// Parent is the id of the enclosing trace span, 0 for none.
	Parent uint64
}

// Result carries the annotated symbol table. Table is set even when
// resolution failed, so callers can still describe what was registered.
type Result struct {
	Table   *symbols.Table
	Program symbols.ScopeID
}

// Resolve runs phase 0 (builtins), phase 1 (registration) and phase 2 (the
// fix pass) over file. The first failure is returned as *Fault.
func Resolve(b *ast.Builder, file ast.FileID, opts Options) (res Result, err error) {
	f := b.Files.Get(file)
	if f == nil {
		return res, fmt.Errorf("resolve: unknown file %d", file)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	table := symbols.NewTable(opts.Hints, b.Strings)
	table.SeedBuiltins()
	res.Table = table
	res.Program = table.Program(f.Span)

	r := &resolver{
		b:       b,
		t:       table,
		tracer:  tracer,
		parent:  opts.Parent,
		program: res.Program,
	}

	defer catch(&err)

	span := trace.Begin(tracer, trace.ScopeModule, "register", opts.Parent)
	r.registerLayer(f.Items, res.Program, nil)
	span.End(fmt.Sprintf("symbols=%d", table.Symbols.Len()))

	span = trace.Begin(tracer, trace.ScopeModule, "fix", opts.Parent)
	for _, id := range f.Items {
		if it := b.Items.Get(id); it != nil && it.Kind == ast.ItemComponent {
			r.fixComponent(id)
		}
	}
	span.End(fmt.Sprintf("scopes=%d", table.Scopes.Len()))

	if tracer.Enabled() && tracer.Level() >= trace.LevelDebug {
		if verr := table.Validate(); verr != nil {
			return res, fmt.Errorf("symbol table corrupted: %w", verr)
		}
	}
	return res, nil
}

// Report converts a resolution error into a diagnostic. Faults keep their
// code and span; anything else is reported as an internal error at sp.
func Report(rep diag.Reporter, err error, sp source.Span) {
	if rep == nil || err == nil {
		return
	}
	var f *Fault
	if errors.As(err, &f) {
		diag.ReportError(rep, f.Code, f.Span, "failed to resolve: "+f.Msg).Emit()
		return
	}
	diag.ReportError(rep, diag.SemaInfo, sp, "failed to resolve: "+err.Error()).Emit()
}

type resolver struct {
	b       *ast.Builder
	t       *symbols.Table
	tracer  trace.Tracer
	parent  uint64
	program symbols.ScopeID
}

func (r *resolver) text(id source.StringID) string {
	return r.b.NameOf(id)
}

// lookup accepts exactly one candidate.
func (r *resolver) lookup(found []symbols.SymbolID, missing diag.Code, what string, name ast.Ident) symbols.SymbolID {
	switch len(found) {
	case 1:
		return found[0]
	case 0:
		r.fail(missing, name.Span, "%s %s not defined", what, r.text(name.Name))
	default:
		r.fail(diag.SemaAmbiguous, name.Span, "%s %s defined multiple times", what, r.text(name.Name))
	}
	return symbols.NoSymbolID
}

// notConstant rejects declarations and lookups that reuse TRUE, FALSE or PI.
func (r *resolver) notConstant(name ast.Ident) {
	if len(r.t.FindConstant(name.Name)) > 0 {
		r.fail(diag.SemaNotAConstant, name.Span, "%s is a constant variable", r.text(name.Name))
	}
}

// declaredHere reports whether scope itself already holds name with a kind
// accepted by match.
func (r *resolver) declaredHere(scope symbols.ScopeID, name source.StringID, match func(*symbols.Symbol) bool) bool {
	s := r.t.Scopes.Get(scope)
	if s == nil {
		return false
	}
	for _, id := range s.NameIndex[name] {
		if match(r.t.Sym(id)) {
			return true
		}
	}
	return false
}

func kindIs(kinds ...symbols.SymbolKind) func(*symbols.Symbol) bool {
	return func(s *symbols.Symbol) bool {
		for _, k := range kinds {
			if s.Kind == k {
				return true
			}
		}
		return false
	}
}
