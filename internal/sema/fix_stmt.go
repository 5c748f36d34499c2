package sema

import (
	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/symbols"
	"composita/internal/trace"
)

func (r *resolver) fixComponent(id ast.ItemID) {
	c := r.b.Items.Component(id)
	if c.Body == nil {
		return
	}
	span := trace.Begin(r.tracer, trace.ScopeModule, "fix "+r.text(c.Name.Name), r.parent)
	defer span.End("")

	scope := r.own(id)
	r.fixDecls(c.Body.Decls)
	for _, impl := range c.Body.Impls {
		im := r.b.Items.Implementation(impl)
		implScope := r.own(impl)
		r.fixDecls(im.Decls)
		r.fixSeq(im.Body, implScope)
	}
	r.fixSeq(c.Body.Begin, scope)
	r.fixSeq(c.Body.Activity, scope)
	r.fixSeq(c.Body.Finally, scope)
}

// fixDecls descends into nested components and procedures; variable and
// constant lists were completed during registration.
func (r *resolver) fixDecls(items []ast.ItemID) {
	for _, id := range items {
		switch r.b.Items.Get(id).Kind {
		case ast.ItemComponent:
			r.fixComponent(id)
		case ast.ItemProcedure:
			p := r.b.Items.Procedure(id)
			procScope := r.own(id)
			r.fixDecls(p.Decls)
			r.fixSeq(p.Body, procScope)
		}
	}
}

// fixSeq opens one block scope for the whole sequence.
func (r *resolver) fixSeq(id ast.SeqID, scope symbols.ScopeID) {
	seq := r.b.Stmts.Seq(id)
	if seq == nil {
		return
	}
	block := r.t.OpenScope(symbols.ScopeBlock, scope, symbols.NoSymbolID, seq.Span)
	for _, st := range seq.Stmts {
		r.fixStmt(st, block)
	}
}

func (r *resolver) block(scope symbols.ScopeID, st *ast.Stmt) symbols.ScopeID {
	return r.t.OpenScope(symbols.ScopeBlock, scope, symbols.NoSymbolID, st.Span)
}

func (r *resolver) fixStmt(id ast.StmtID, scope symbols.ScopeID) {
	st := r.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtCall:
		call := r.b.Stmts.Call(id)
		args := r.fixExprs(call.Args, scope)
		r.t.StmtCall.Set(id, r.procedure(call.Name, args, scope))

	case ast.StmtAssign:
		as := r.b.Stmts.Assign(id)
		target := r.fixExpr(as.Target, scope)
		sym := r.t.Sym(r.t.DesignatorSym.Get(as.Target))
		if sym == nil || !(sym.Kind == symbols.SymbolVariable && sym.Mutable() || sym.Kind == symbols.SymbolCollection) {
			r.fail(diag.SemaAssignImmutable, r.b.Exprs.Get(as.Target).Span, "Cannot assign to a constant variable")
		}
		value := r.fixExpr(as.Value, scope)
		// only component values are checked; c := 0DX stores an INTEGER into a CHARACTER
		if ts := r.t.Sym(target); ts != nil && ts.Kind.IsComponent() && !r.t.Assignable(target, value) {
			r.fail(diag.SemaTypeMismatch, r.b.Exprs.Get(as.Value).Span,
				"cannot assign %s to %s", r.t.Describe(value), r.t.Describe(target))
		}

	case ast.StmtNew:
		n := r.b.Stmts.Alloc(id)
		r.fixExpr(n.Target, scope)
		r.fixExprs(n.Args, scope)

	case ast.StmtConnect, ast.StmtMove:
		p := r.b.Stmts.Pair(id)
		r.fixExpr(p.From, scope)
		r.fixExpr(p.To, scope)

	case ast.StmtDisconnect, ast.StmtDelete, ast.StmtAwait, ast.StmtReturn:
		if x := r.b.Stmts.Single(id).X; x.IsValid() {
			r.fixExpr(x, scope)
		}

	case ast.StmtSend, ast.StmtReceive:
		m := r.b.Stmts.Message(id)
		r.t.MessageOf.Set(id, r.message(scope, m.Target, m.Msg, false, m.Args))

	case ast.StmtIf:
		s := r.b.Stmts.If(id)
		inner := r.block(scope, st)
		r.fixCond(s.Cond, inner)
		r.fixSeq(s.Then, inner)
		for _, ei := range s.Elsifs {
			elsif := r.t.OpenScope(symbols.ScopeBlock, inner, symbols.NoSymbolID, ei.Span)
			r.fixCond(ei.Cond, elsif)
			r.fixSeq(ei.Then, elsif)
		}
		r.fixSeq(s.Else, inner)

	case ast.StmtWhile, ast.StmtRepeat:
		l := r.b.Stmts.Loop(id)
		inner := r.block(scope, st)
		r.fixCond(l.Cond, inner)
		r.fixSeq(l.Body, inner)

	case ast.StmtFor:
		f := r.b.Stmts.For(id)
		inner := r.block(scope, st)
		r.fixExpr(f.From, inner)
		if r.b.Exprs.Name(f.Var) == nil {
			r.fail(diag.SemaUnsupportedShape, r.b.Exprs.Get(f.Var).Span, "Only basic designators currently supported")
		}
		r.fixExpr(f.Var, inner)
		r.fixExpr(f.To, inner)
		if f.By.IsValid() {
			r.fixExpr(f.By, inner)
		}
		r.fixSeq(f.Body, inner)

	case ast.StmtForeach:
		r.fixForeach(id, r.block(scope, st))

	case ast.StmtBlock:
		r.fixSeq(r.b.Stmts.Block(id), scope)
	}
}

// fixCond types a loop or branch condition. The operand type is taken from
// expression typing; BOOLEAN is not enforced here.
func (r *resolver) fixCond(id ast.ExprID, scope symbols.ScopeID) {
	r.fixExpr(id, scope)
}

// fixForeach declares the loop designators as implicit variables of the
// loop block, typed by the collection's index types.
func (r *resolver) fixForeach(id ast.StmtID, scope symbols.ScopeID) {
	f := r.b.Stmts.Foreach(id)
	r.fixExpr(f.Of, scope)

	var name ast.Ident
	switch x := r.b.Exprs.Get(f.Of); x.Kind {
	case ast.ExprName:
		name = *r.b.Exprs.Name(f.Of)
	case ast.ExprIndex:
		name = r.b.Exprs.Index(f.Of).Name
	default:
		r.fail(diag.SemaUnsupportedShape, x.Span, "FOREACH over %s is not implemented", x.Kind)
	}
	found := r.t.FindCollection(name.Name, true, nil, symbols.Search(scope, false, false))
	coll := r.t.Sym(r.lookup(found, diag.SemaUnresolved, "Collection", name))
	if len(coll.Params) < len(f.Vars) {
		r.fail(diag.SemaForeachArity, r.b.Stmts.Get(id).Span,
			"FOREACH binds %d designators, %s has %d index parameters", len(f.Vars), r.text(name.Name), len(coll.Params))
	}
	for i, v := range f.Vars {
		n := r.b.Exprs.Name(v)
		if n == nil {
			r.fail(diag.SemaUnsupportedShape, r.b.Exprs.Get(v).Span, "Only basic designators supported")
		}
		r.t.Declare(scope, symbols.Symbol{
			Kind:  symbols.SymbolVariable,
			Name:  n.Name,
			Span:  n.Span,
			Flags: symbols.SymbolFlagMutable | symbols.SymbolFlagImplicit,
			Decl:  symbols.SymbolDecl{Expr: v},
			Type:  coll.Params[i],
		})
		r.fixExpr(v, scope)
	}
	r.fixSeq(f.Body, scope)
}
