package sema

import (
	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/symbols"
)

// fixType resolves a type node once and caches the result in TypeOf.
// ANY(...) declares a fresh generic component in scope.
func (r *resolver) fixType(id ast.TypeID, scope symbols.ScopeID) symbols.SymbolID {
	if got := r.t.TypeOf.Get(id); got.IsValid() {
		return got
	}
	ty := r.b.Types.Get(id)
	if ty == nil {
		r.fail(diag.SemaUnknownType, source.Span{}, "missing type node %d", id)
	}
	var sym symbols.SymbolID
	switch ty.Kind {
	case ast.TypeNamed:
		sym = r.lookup(r.t.FindType(ty.Name.Name, symbols.Search(scope, true, true)),
			diag.SemaUnknownType, "Type", ty.Name)
	case ast.TypeAny:
		sym = r.t.Declare(scope, symbols.Symbol{
			Kind:    symbols.SymbolGenericComponent,
			Name:    r.t.Strings.Intern("ANY"),
			Span:    ty.Span,
			Generic: r.generic(ty.Offered, ty.Required, scope),
		})
	}
	r.t.TypeOf.Set(id, sym)
	return sym
}
