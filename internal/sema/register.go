package sema

import (
	"slices"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/symbols"
)

// entryPointRequires lists the system interfaces an ENTRYPOINT component may require.
var entryPointRequires = []string{"SystemTime", "FileSystem", "GraphicView"}

type layer struct {
	ifaces, comps, procs, vars, consts []ast.ItemID
}

func (r *resolver) split(items []ast.ItemID) layer {
	var l layer
	for _, id := range items {
		it := r.b.Items.Get(id)
		if it == nil {
			continue
		}
		switch it.Kind {
		case ast.ItemInterface:
			l.ifaces = append(l.ifaces, id)
		case ast.ItemComponent:
			l.comps = append(l.comps, id)
		case ast.ItemProcedure:
			l.procs = append(l.procs, id)
		case ast.ItemVariables:
			l.vars = append(l.vars, id)
		case ast.ItemConstants:
			l.consts = append(l.consts, id)
		}
	}
	return l
}

// registerLayer declares everything of one layer before descending into any
// of it, so siblings may reference each other regardless of order.
// Implementations are declared after the rest of the layer and their bodies
// are processed last.
func (r *resolver) registerLayer(items []ast.ItemID, scope symbols.ScopeID, impls []ast.ItemID) {
	l := r.split(items)
	for _, id := range l.ifaces {
		r.registerInterface(id, scope)
	}
	for _, id := range l.comps {
		r.registerComponent(id, scope)
	}
	for _, id := range l.procs {
		r.registerProcedure(id, scope)
	}
	for _, id := range l.vars {
		r.registerVariables(id, scope)
	}
	for _, id := range l.consts {
		r.registerConstants(id, scope)
	}
	for _, id := range impls {
		r.registerImplementation(id, scope)
	}

	for _, id := range l.ifaces {
		r.registerMessages(id)
	}
	for _, id := range l.comps {
		c := r.b.Items.Component(id)
		if c.Body == nil {
			continue
		}
		r.registerLayer(c.Body.Decls, r.own(id), c.Body.Impls)
	}
	for _, id := range l.procs {
		r.registerLayer(r.b.Items.Procedure(id).Decls, r.own(id), nil)
	}
	for _, id := range impls {
		r.registerLayer(r.b.Items.Implementation(id).Decls, r.own(id), nil)
	}
}

// own returns the scope opened by the symbol declared for item.
func (r *resolver) own(item ast.ItemID) symbols.ScopeID {
	return r.t.Sym(r.t.DeclSym.Get(item)).Own
}

func (r *resolver) registerInterface(id ast.ItemID, scope symbols.ScopeID) {
	it := r.b.Items.Interface(id)
	r.notConstant(it.Name)
	if r.declaredHere(scope, it.Name.Name, kindIs(symbols.SymbolInterface)) {
		r.fail(diag.SemaDuplicate, it.Name.Span, "Duplicate interface %s detected", r.text(it.Name.Name))
	}
	sym := r.t.Declare(scope, symbols.Symbol{
		Kind: symbols.SymbolInterface,
		Name: it.Name.Name,
		Span: it.Name.Span,
		Decl: symbols.SymbolDecl{Item: id},
	})
	r.t.OpenScope(symbols.ScopeInterface, scope, sym, r.b.Items.Get(id).Span)
	r.t.DeclSym.Set(id, sym)
}

func (r *resolver) registerComponent(id ast.ItemID, scope symbols.ScopeID) {
	c := r.b.Items.Component(id)
	r.notConstant(c.Name)
	g := r.generic(c.Offers, c.Requires, scope)
	if r.declaredHere(scope, c.Name.Name, kindIs(symbols.SymbolComponent)) {
		r.fail(diag.SemaDuplicate, c.Name.Span, "Duplicate component %s detected", r.text(c.Name.Name))
	}

	var flags symbols.SymbolFlags
	if r.b.HasAttr(c.Attrs, "ENTRYPOINT") {
		flags |= symbols.SymbolFlagEntryPoint
		for _, req := range c.Requires {
			if !slices.Contains(entryPointRequires, r.text(req.Name.Name)) {
				r.fail(diag.SemaEntryPointRequires, req.Span,
					"entry point %s must not require %s", r.text(c.Name.Name), r.text(req.Name.Name))
			}
		}
	}

	sym := r.t.Declare(scope, symbols.Symbol{
		Kind:    symbols.SymbolComponent,
		Name:    c.Name.Name,
		Span:    c.Name.Span,
		Flags:   flags,
		Decl:    symbols.SymbolDecl{Item: id},
		Generic: g,
	})
	r.t.OpenScope(symbols.ScopeComponent, scope, sym, r.b.Items.Get(id).Span)
	r.t.DeclSym.Set(id, sym)
}

// generic resolves an OFFERS/REQUIRES signature. Interface names are searched
// outward up to the global scope.
func (r *resolver) generic(offers, requires []ast.IfaceDecl, scope symbols.ScopeID) *symbols.Generic {
	side := func(list []ast.IfaceDecl) []symbols.InterfaceDecl {
		out := make([]symbols.InterfaceDecl, 0, len(list))
		for _, d := range list {
			iface := r.lookup(r.t.FindInterface(d.Name.Name, symbols.Search(scope, true, true)),
				diag.SemaUnresolved, "Interface", d.Name)
			card, err := symbols.NewCardinality(d.Card.Min, d.Card.Max)
			if err != nil {
				sp := d.Span
				if d.Card.Explicit {
					sp = d.Card.Span
				}
				r.fail(diag.SemaBadCardinality, sp, "%s: %v", r.text(d.Name.Name), err)
			}
			if slices.ContainsFunc(out, func(o symbols.InterfaceDecl) bool { return o.Iface == iface }) {
				r.fail(diag.SemaDuplicateInSignature, d.Name.Span, "interface %s listed twice", r.text(d.Name.Name))
			}
			out = append(out, symbols.InterfaceDecl{Iface: iface, Card: card})
		}
		return out
	}
	g, err := symbols.NewGeneric(side(offers), side(requires))
	if err != nil {
		// side уже отсеял повторы, сюда не попадаем
		panic(err)
	}
	return g
}

func (r *resolver) registerProcedure(id ast.ItemID, scope symbols.ScopeID) {
	p := r.b.Items.Procedure(id)
	r.notConstant(p.Name)

	var params []symbols.SymbolID
	groups := make([]symbols.SymbolID, len(p.Params))
	for i, g := range p.Params {
		groups[i] = r.fixType(g.Type, scope)
		for range g.Names {
			params = append(params, groups[i])
		}
	}
	ret := r.t.Void
	if p.Return.IsValid() {
		ret = r.fixType(p.Return, scope)
	}
	if r.declaredHere(scope, p.Name.Name, func(s *symbols.Symbol) bool {
		return s.Kind == symbols.SymbolProcedure && s.Type == ret && slices.Equal(s.Params, params)
	}) {
		r.fail(diag.SemaDuplicate, p.Name.Span, "Duplicate procedure %s detected", r.text(p.Name.Name))
	}

	sym := r.t.Declare(scope, symbols.Symbol{
		Kind:   symbols.SymbolProcedure,
		Name:   p.Name.Name,
		Span:   p.Name.Span,
		Decl:   symbols.SymbolDecl{Item: id},
		Type:   ret,
		Params: params,
	})
	own := r.t.OpenScope(symbols.ScopeProcedure, scope, sym, r.b.Items.Get(id).Span)
	r.t.DeclSym.Set(id, sym)

	for i, g := range p.Params {
		flags := symbols.SymbolFlagParam
		if g.Mutable {
			flags |= symbols.SymbolFlagMutable
		}
		for _, declID := range g.Names {
			d := r.b.Decls.Get(declID)
			r.freeName(own, d.Name)
			v := r.t.Declare(own, symbols.Symbol{
				Kind:  symbols.SymbolVariable,
				Name:  d.Name.Name,
				Span:  d.Name.Span,
				Flags: flags,
				Decl:  symbols.SymbolDecl{Decl: declID},
				Type:  groups[i],
			})
			r.t.VarSym.Set(declID, v)
		}
	}
}

// freeName rejects a second variable, collection or constant of the same
// name in one scope.
func (r *resolver) freeName(scope symbols.ScopeID, name ast.Ident) {
	r.notConstant(name)
	if r.declaredHere(scope, name.Name, kindIs(symbols.SymbolVariable, symbols.SymbolCollection)) {
		r.fail(diag.SemaDuplicate, name.Span, "Duplicate variable %s detected", r.text(name.Name))
	}
}

func (r *resolver) registerVariables(id ast.ItemID, scope symbols.ScopeID) {
	for _, v := range r.b.Items.VariableList(id).Vars {
		typ := r.fixType(v.Type, scope)
		for _, declID := range v.Names {
			d := r.b.Decls.Get(declID)
			r.freeName(scope, d.Name)
			sym := symbols.Symbol{
				Kind:  symbols.SymbolVariable,
				Name:  d.Name.Name,
				Span:  d.Name.Span,
				Flags: symbols.SymbolFlagMutable,
				Decl:  symbols.SymbolDecl{Decl: declID},
				Type:  typ,
			}
			switch {
			case len(d.Params) > 0:
				sym.Kind = symbols.SymbolCollection
				sym.Params = r.paramTypes(d.Params, scope)
			case typ == r.t.Text:
				sym.Kind = symbols.SymbolCollection
				sym.Flags |= symbols.SymbolFlagText
				sym.Params = []symbols.SymbolID{r.t.Integer}
			}
			r.t.VarSym.Set(declID, r.t.Declare(scope, sym))
		}
	}
}

// paramTypes flattens `a, b: T; c: U` into one type per name.
func (r *resolver) paramTypes(params []ast.Param, scope symbols.ScopeID) []symbols.SymbolID {
	var out []symbols.SymbolID
	for _, p := range params {
		typ := r.fixType(p.Type, scope)
		for range p.Names {
			out = append(out, typ)
		}
	}
	return out
}

// registerConstants types every constant by its initializer. Constants are
// immutable variables; TEXT constants are collections like TEXT variables.
func (r *resolver) registerConstants(id ast.ItemID, scope symbols.ScopeID) {
	for _, c := range r.b.Items.ConstantList(id).Consts {
		d := r.b.Decls.Get(c.Decl)
		r.freeName(scope, d.Name)
		typ := r.fixExpr(c.Value, scope)
		sym := symbols.Symbol{
			Kind: symbols.SymbolVariable,
			Name: d.Name.Name,
			Span: d.Name.Span,
			Decl: symbols.SymbolDecl{Decl: c.Decl, Expr: c.Value},
			Type: typ,
		}
		if typ == r.t.Text {
			sym.Kind = symbols.SymbolCollection
			sym.Flags |= symbols.SymbolFlagText
			sym.Params = []symbols.SymbolID{r.t.Integer}
		}
		r.t.VarSym.Set(c.Decl, r.t.Declare(scope, sym))
	}
}

// registerImplementation binds an IMPLEMENTATION to one of the interfaces the
// enclosing component offers.
func (r *resolver) registerImplementation(id ast.ItemID, scope symbols.ScopeID) {
	im := r.b.Items.Implementation(id)
	r.notConstant(im.Name)
	comp := r.t.Sym(r.t.Scopes.Get(scope).Owner)
	if comp == nil || comp.Kind != symbols.SymbolComponent {
		r.fail(diag.SemaNoOfferedInterface, im.Name.Span, "Implementation %s outside of a component", r.text(im.Name.Name))
	}
	var iface symbols.SymbolID
	if comp.Generic != nil {
		for _, d := range comp.Generic.Offered {
			if r.t.Sym(d.Iface).Name == im.Name.Name {
				iface = d.Iface
			}
		}
	}
	if !iface.IsValid() {
		r.fail(diag.SemaNoOfferedInterface, im.Name.Span, "Could not find interface for '%s' implementation", r.text(im.Name.Name))
	}
	if r.declaredHere(scope, im.Name.Name, kindIs(symbols.SymbolImplementation)) {
		r.fail(diag.SemaDuplicate, im.Name.Span, "Duplicate implementation %s detected", r.text(im.Name.Name))
	}
	sym := r.t.Declare(scope, symbols.Symbol{
		Kind:  symbols.SymbolImplementation,
		Name:  im.Name.Name,
		Span:  im.Name.Span,
		Decl:  symbols.SymbolDecl{Item: id},
		Iface: iface,
	})
	r.t.OpenScope(symbols.ScopeImplementation, scope, sym, r.b.Items.Get(id).Span)
	r.t.DeclSym.Set(id, sym)
}

// registerMessages declares the messages of an interface protocol in the
// interface scope. A message that recurs in the protocol with the same
// signature is declared once.
func (r *resolver) registerMessages(id ast.ItemID) {
	it := r.b.Items.Interface(id)
	scope := r.own(id)
	for _, pid := range r.b.Protos.Messages(it.Protocol) {
		m := r.b.Protos.Get(pid).Msg
		params := r.paramTypes(m.Params, scope)
		var msg symbols.SymbolID
		for _, existing := range r.t.InScope(scope, symbols.SymbolMessage) {
			if s := r.t.Sym(existing); s.Name == m.Name.Name && slices.Equal(s.Params, params) {
				msg = existing
				break
			}
		}
		if !msg.IsValid() {
			msg = r.t.Declare(scope, symbols.Symbol{
				Kind:   symbols.SymbolMessage,
				Name:   m.Name.Name,
				Span:   m.Name.Span,
				Decl:   symbols.SymbolDecl{Proto: pid},
				Params: params,
			})
		}
		r.t.ProtoMsg.Set(pid, msg)
	}
}
