package sema

import (
	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/symbols"
)

func (r *resolver) fixExprs(ids []ast.ExprID, scope symbols.ScopeID) []symbols.SymbolID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]symbols.SymbolID, len(ids))
	for i, id := range ids {
		out[i] = r.fixExpr(id, scope)
	}
	return out
}

// fixExpr types an expression, records the type in ExprType and returns it.
func (r *resolver) fixExpr(id ast.ExprID, scope symbols.ScopeID) symbols.SymbolID {
	x := r.b.Exprs.Get(id)
	if x == nil {
		return symbols.NoSymbolID
	}
	var typ symbols.SymbolID
	switch x.Kind {
	case ast.ExprBinary:
		bin := r.b.Exprs.Binary(id)
		left := r.fixExpr(bin.Left, scope)
		right := r.fixExpr(bin.Right, scope)
		r.sameType(left, right, x.Span)
		r.comparable(bin.Op, left, x.Span)
		typ = r.t.Boolean

	case ast.ExprOffersRequires:
		o := r.b.Exprs.OffersRequiresOf(id)
		r.fixExpr(o.Subject, scope)
		for _, d := range o.Ifaces {
			r.lookup(r.t.FindInterface(d.Name.Name, symbols.Search(scope, true, true)), diag.SemaUnresolved, "Interface", d.Name)
		}
		typ = r.t.Boolean

	case ast.ExprTypeCheck:
		tc := r.b.Exprs.TypeCheck(id)
		r.fixExpr(tc.Subject, scope)
		r.fixType(tc.Type, scope)
		typ = r.t.Boolean

	case ast.ExprUnary:
		typ = r.fixExpr(r.b.Exprs.Unary(id).X, scope)

	case ast.ExprSign:
		sg := r.b.Exprs.Sign(id)
		typ = r.fixExpr(sg.X, scope)
		if typ != r.t.Real && typ != r.t.Integer {
			r.fail(diag.SemaOperatorType, x.Span, "Cannot apply + - to %s", r.t.Describe(typ))
		}

	case ast.ExprTermChain, ast.ExprFactorChain:
		ch := r.b.Exprs.Chain(id)
		typ = r.fixExpr(ch.Left, scope)
		for _, link := range ch.Links {
			r.sameType(typ, r.fixExpr(link.X, scope), link.Span)
		}

	case ast.ExprNot:
		typ = r.fixExpr(r.b.Exprs.Inner(id), scope)
		if typ != r.t.Boolean {
			r.fail(diag.SemaOperatorType, x.Span, "Cannot apply ~ to %s", r.t.Describe(typ))
		}

	case ast.ExprParen:
		typ = r.fixExpr(r.b.Exprs.Inner(id), scope)

	case ast.ExprInt:
		typ = r.t.Integer
	case ast.ExprReal:
		typ = r.t.Real
	case ast.ExprChar:
		typ = r.t.Character
	case ast.ExprText:
		typ = r.t.Text

	case ast.ExprReceiveTest, ast.ExprInputTest:
		test := r.b.Exprs.Test(id)
		var msg symbols.SymbolID
		switch test.Pattern {
		case ast.PatternAny:
			r.fixTarget(test.Target, scope)
			msg = r.t.AnyMessage
		case ast.PatternFinish:
			r.fixTarget(test.Target, scope)
			msg = r.t.FinishMessage
		default:
			msg = r.message(scope, test.Target, test.Msg, true, nil)
		}
		r.t.PatternMsg.Set(id, msg)
		typ = r.t.Boolean

	case ast.ExprExists:
		r.fixTarget(r.b.Exprs.Test(id).Target, scope)
		typ = r.t.Boolean

	case ast.ExprCall:
		call := r.b.Exprs.Call(id)
		proc := r.procedure(call.Name, r.fixExprs(call.Args, scope), scope)
		r.t.ExprCall.Set(id, proc)
		typ = r.t.Sym(proc).Type

	case ast.ExprName:
		typ = r.fixName(id, scope)
	case ast.ExprIndex:
		typ = r.fixIndex(id, scope)
	case ast.ExprBaseTarget:
		typ = r.fixBaseTarget(id, scope)

	case ast.ExprDesignatorType:
		dt := r.b.Exprs.DesignatorType(id)
		r.fixExpr(dt.X, scope)
		r.t.DesignatorSym.Set(id, r.t.DesignatorSym.Get(dt.X))
		typ = r.fixType(dt.Type, scope)
	}
	r.t.ExprType.Set(id, typ)
	return typ
}

func (r *resolver) fixTarget(id ast.ExprID, scope symbols.ScopeID) {
	if id.IsValid() {
		r.fixExpr(id, scope)
	}
}

func (r *resolver) sameType(left, right symbols.SymbolID, sp source.Span) {
	if left != right {
		r.fail(diag.SemaTypeMismatch, sp, "Factor type mismatch. Left: %s, Right: %s", r.t.Describe(left), r.t.Describe(right))
	}
}

// comparable checks the operand type of a relation.
func (r *resolver) comparable(op ast.Op, typ symbols.SymbolID, sp source.Span) {
	ok := false
	switch op {
	case ast.OpEq, ast.OpNe:
		ok = typ == r.t.Real || typ == r.t.Integer || typ == r.t.Boolean || typ == r.t.Character || typ == r.t.Text
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		ok = typ == r.t.Real || typ == r.t.Integer || typ == r.t.Character || typ == r.t.Text
	}
	if !ok {
		r.fail(diag.SemaOperatorType, sp, "Cannot compare %s values with %s", r.t.Describe(typ), op)
	}
}

// procedure resolves a call by name and argument types, searching outward
// and jumping to the global scope for system procedures.
func (r *resolver) procedure(name ast.Ident, args []symbols.SymbolID, scope symbols.ScopeID) symbols.SymbolID {
	r.notConstant(name)
	found := r.t.FindProcedure(name.Name, args, symbols.NoSymbolID, symbols.Search(scope, true, false))
	switch len(found) {
	case 1:
		return found[0]
	case 0:
		r.fail(diag.SemaNoOverload, name.Span, "Procedure %s(%s) not found", r.text(name.Name), r.describeAll(args))
	}
	r.fail(diag.SemaAmbiguous, name.Span, "Procedure call %s(%s) is ambiguous", r.text(name.Name), r.describeAll(args))
	return symbols.NoSymbolID
}

func (r *resolver) describeAll(ids []symbols.SymbolID) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += r.t.Describe(id)
	}
	return out
}

// fixName resolves a basic designator. The first kind that matches wins:
// variable, builtin constant, interface, component, collection, procedure
// parameter.
func (r *resolver) fixName(id ast.ExprID, scope symbols.ScopeID) symbols.SymbolID {
	name := *r.b.Exprs.Name(id)
	bind := func(sym, typ symbols.SymbolID) symbols.SymbolID {
		r.t.DesignatorSym.Set(id, sym)
		return typ
	}
	if found := r.t.FindVariable(name.Name, symbols.Search(scope, true, true)); len(found) > 0 {
		v := r.lookup(found, diag.SemaUnresolved, "Variable", name)
		return bind(v, r.t.Sym(v).Type)
	}
	if found := r.t.FindConstant(name.Name); len(found) == 1 {
		return bind(found[0], r.t.Sym(found[0]).Type)
	}
	if found := r.t.FindInterface(name.Name, symbols.Search(scope, true, true)); len(found) == 1 {
		return bind(found[0], found[0])
	}
	if found := r.t.FindComponent(name.Name, symbols.Search(scope, true, true)); len(found) == 1 {
		return bind(found[0], found[0])
	}
	if found := r.t.FindCollection(name.Name, true, nil, symbols.Search(scope, true, false)); len(found) == 1 {
		return bind(found[0], r.t.Sym(found[0]).Type)
	}
	if found := r.t.ProcedureParam(name.Name, scope); len(found) == 1 {
		return bind(found[0], r.t.Sym(found[0]).Type)
	}
	r.fail(diag.SemaUnresolved, name.Span, "Failed designator type lookup for '%s'", r.text(name.Name))
	return symbols.NoSymbolID
}

// fixIndex resolves a[i, ...] to a collection accepting the index types or,
// failing that, to an interface of that name. Indexing TEXT yields CHARACTER.
func (r *resolver) fixIndex(id ast.ExprID, scope symbols.ScopeID) symbols.SymbolID {
	ix := r.b.Exprs.Index(id)
	types := r.fixExprs(ix.Indices, scope)
	if found := r.t.FindCollection(ix.Name.Name, false, types, symbols.Search(scope, false, true)); len(found) == 1 {
		coll := r.t.Sym(found[0])
		r.t.DesignatorSym.Set(id, found[0])
		if coll.Flags&symbols.SymbolFlagText != 0 {
			return r.t.Character
		}
		return coll.Type
	}
	if found := r.t.FindInterface(ix.Name.Name, symbols.Search(scope, true, true)); len(found) == 1 {
		r.t.DesignatorSym.Set(id, found[0])
		return found[0]
	}
	r.fail(diag.SemaUnresolved, ix.Name.Span, "Failed designator type lookup for '%s'", r.text(ix.Name.Name))
	return symbols.NoSymbolID
}

// fixBaseTarget handles f(x). When f names a procedure taking exactly the
// type of x the node is a call; otherwise it designates the base.
func (r *resolver) fixBaseTarget(id ast.ExprID, scope symbols.ScopeID) symbols.SymbolID {
	bt := r.b.Exprs.BaseTarget(id)
	target := r.fixExpr(bt.Target, scope)
	if name := r.b.Exprs.Name(bt.Base); name != nil && len(r.t.FindConstant(name.Name)) == 0 {
		found := r.t.FindProcedure(name.Name, []symbols.SymbolID{target}, symbols.NoSymbolID, symbols.Search(scope, true, false))
		if len(found) == 1 {
			r.t.ExprCall.Set(id, found[0])
			r.t.DesignatorSym.Set(id, found[0])
			return r.t.Sym(found[0]).Type
		}
	}
	typ := r.fixExpr(bt.Base, scope)
	r.t.DesignatorSym.Set(id, r.t.DesignatorSym.Get(bt.Base))
	return typ
}
