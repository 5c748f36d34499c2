package codegen

import (
	"fmt"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/il"
	"composita/internal/symbols"
	"composita/internal/trace"
)

// Options configure generation of one resolved file.
type Options struct {
	// Source names the compiled unit in the module.
	Source string
	// Reporter receives warnings; faults are returned, not reported.
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Parent is the id of the enclosing trace span, 0 for none.
	Parent uint64
}

// Generate translates every component of a resolved table into a module.
// The tree must be the one the table was resolved from.
func Generate(b *ast.Builder, t *symbols.Table, opts Options) (mod *il.Module, err error) {
	if b == nil || t == nil {
		return nil, fmt.Errorf("generate: missing tree or symbol table")
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	defer catch(&err)

	mod = &il.Module{Source: opts.Source}
	span := trace.Begin(tracer, trace.ScopeModule, "metadata", opts.Parent)
	g := &generator{b: b, t: t, opts: opts, tracer: tracer}
	g.meta = BuildMetadata(mod, t)
	span.End(fmt.Sprintf("components=%d procedures=%d", len(mod.Components), len(mod.Procedures)))

	for _, id := range t.Components {
		g.component(id)
		cid := g.meta.Component(id)
		mod.Compiled = append(mod.Compiled, cid)
		if t.Sym(id).EntryPoint() {
			mod.EntryPoints = append(mod.EntryPoints, cid)
		}
	}
	return mod, nil
}

type generator struct {
	b      *ast.Builder
	t      *symbols.Table
	meta   *Metadata
	opts   Options
	tracer trace.Tracer
}

func (g *generator) module() *il.Module { return g.meta.m }

func (g *generator) emitter() *emitter {
	return &emitter{generator: g, asm: NewAssembler()}
}

func (g *generator) component(id symbols.SymbolID) {
	sym := g.t.Sym(id)
	c := g.b.Items.Component(sym.Decl.Item)
	if c == nil {
		fail(diag.GenNoDescriptor, sym.Span, "Failed node lookup for component %s", g.t.Name(id))
	}
	if c.Body == nil {
		return
	}
	span := trace.Begin(g.tracer, trace.ScopeModule, "generate "+g.t.Name(id), g.opts.Parent)
	defer span.End("")

	cid := g.meta.Component(id)
	init := g.init(c.Body.Decls)
	g.procedures(c.Body.Decls)
	for _, item := range c.Body.Impls {
		g.implementation(item)
	}
	begin := g.stream(c.Body.Begin)
	activity := g.stream(c.Body.Activity)
	finally := g.stream(c.Body.Finally)

	desc := &g.module().Components[cid]
	desc.Decls.Init = init
	desc.Begin = begin
	desc.Activity = activity
	desc.Finally = finally
}

func (g *generator) implementation(item ast.ItemID) {
	im := g.b.Items.Implementation(item)
	id := g.meta.Implementation(g.t.DeclSym.Get(item))
	init := g.init(im.Decls)
	g.procedures(im.Decls)
	begin := g.stream(im.Body)

	desc := &g.module().Implementations[id]
	desc.Decls.Init = init
	desc.Begin = begin
}

// procedures compiles the procedures among decls, nested ones included.
func (g *generator) procedures(decls []ast.ItemID) {
	for _, item := range decls {
		p := g.b.Items.Procedure(item)
		if p == nil {
			continue
		}
		id := g.meta.Procedure(g.t.DeclSym.Get(item))
		init := g.init(p.Decls)
		g.procedures(p.Decls)
		body := g.stream(p.Body)

		desc := &g.module().Procedures[id]
		desc.Decls.Init = init
		desc.Body = body
	}
}

// init emits the constant initializers of one declaration list.
func (g *generator) init(decls []ast.ItemID) []il.Instruction {
	e := g.emitter()
	for _, item := range decls {
		list := g.b.Items.ConstantList(item)
		if list == nil {
			continue
		}
		for _, c := range list.Consts {
			e.asm.Emit(il.OpLoadVariable, il.VarArg(g.meta.Variable(g.t.VarSym.Get(c.Decl))))
			e.expr(c.Value)
			e.asm.Emit(il.OpStoreVariable)
		}
	}
	return e.complete()
}

func (g *generator) stream(seq ast.SeqID) []il.Instruction {
	if !seq.IsValid() {
		return nil
	}
	e := g.emitter()
	e.seq(seq)
	return e.complete()
}
