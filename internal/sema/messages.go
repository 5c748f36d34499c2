package sema

import (
	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/symbols"
)

// message resolves a send, a receive or a receive pattern.
//
// An explicit target of component type searches every interface the
// component offers; an interface target searches that interface. Without a
// target the message belongs to the interface of the enclosing
// implementation. Patterns pass ignoreParams and match by name alone.
func (r *resolver) message(scope symbols.ScopeID, target ast.ExprID, name ast.Ident, ignoreParams bool, args []ast.ExprID) symbols.SymbolID {
	argTypes := r.fixExprs(args, scope)
	find := func(iface symbols.SymbolID) []symbols.SymbolID {
		return r.t.FindMessage(name.Name, ignoreParams, argTypes, symbols.Search(r.t.Sym(iface).Own, false, false))
	}

	var found []symbols.SymbolID
	if target.IsValid() {
		typeID := r.fixExpr(target, scope)
		typ := r.t.Sym(typeID)
		switch {
		case typ != nil && typ.Kind.IsComponent():
			if typ.Generic != nil {
				for _, d := range typ.Generic.Offered {
					found = append(found, find(d.Iface)...)
				}
			}
		case typ != nil && typ.Kind == symbols.SymbolInterface:
			found = find(typeID)
		default:
			r.fail(diag.SemaUnknownMessage, r.b.Exprs.Get(target).Span, "Failed interface lookup for %s", r.text(name.Name))
		}
	} else {
		impl := r.t.Enclosing(scope, symbols.ScopeImplementation)
		if !impl.IsValid() {
			r.fail(diag.SemaNoImplicitInterface, name.Span, "no implicit interface in this context for %s", r.text(name.Name))
		}
		found = find(r.t.Sym(r.t.Scopes.Get(impl).Owner).Iface)
	}

	switch len(found) {
	case 1:
		return found[0]
	case 0:
		r.fail(diag.SemaUnknownMessage, name.Span, "Message lookup failed for %s", r.text(name.Name))
	}
	r.fail(diag.SemaAmbiguous, name.Span, "Ambiguous message lookup for %s", r.text(name.Name))
	return symbols.NoSymbolID
}
