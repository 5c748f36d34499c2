package symbols

import "composita/internal/source"

// SearchOptions controls how far a lookup may climb from Scope.
//
// Global admits the global scope. Parent lets a search leave a component or
// interface scope through its parent; without it such a search jumps straight
// to the global scope (when Global is set) or stops.
type SearchOptions struct {
	Scope  ScopeID
	Global bool
	Parent bool
}

// Search is a shorthand constructor.
func Search(scope ScopeID, global, parent bool) SearchOptions {
	return SearchOptions{Scope: scope, Global: global, Parent: parent}
}

// find walks the scope chain and returns the matches of the first scope that
// yields any. pick filters the symbols declared directly in one scope.
func (t *Table) find(opts SearchOptions, pick func(scope *Scope) []SymbolID) []SymbolID {
	scopeID := opts.Scope
	for {
		scope := t.Scopes.Get(scopeID)
		if scope == nil {
			return nil
		}
		if !opts.Global && scope.Kind == ScopeGlobal {
			return nil
		}
		found := pick(scope)
		if len(found) > 0 || scope.Kind == ScopeGlobal {
			return found
		}
		if parent := t.Scopes.Get(scope.Parent); !opts.Global && parent != nil && parent.Kind == ScopeGlobal {
			return nil
		}
		if !opts.Parent && (scope.Kind == ScopeComponent || scope.Kind == ScopeInterface) {
			if !opts.Global {
				return nil
			}
			scopeID = t.Global
			continue
		}
		scopeID = scope.Parent
	}
}

// byName picks the symbols called name whose kind passes accept.
func (t *Table) byName(name source.StringID, accept func(*Symbol) bool) func(*Scope) []SymbolID {
	return func(scope *Scope) []SymbolID {
		var out []SymbolID
		for _, id := range scope.NameIndex[name] {
			if sym := t.Symbols.Get(id); accept(sym) {
				out = append(out, id)
			}
		}
		return out
	}
}

func (t *Table) findKind(name source.StringID, kind SymbolKind, opts SearchOptions) []SymbolID {
	return t.find(opts, t.byName(name, func(s *Symbol) bool { return s.Kind == kind }))
}

// FindVariable looks up plain (non-collection) variables.
func (t *Table) FindVariable(name source.StringID, opts SearchOptions) []SymbolID {
	return t.findKind(name, SymbolVariable, opts)
}

func (t *Table) FindComponent(name source.StringID, opts SearchOptions) []SymbolID {
	return t.findKind(name, SymbolComponent, opts)
}

func (t *Table) FindInterface(name source.StringID, opts SearchOptions) []SymbolID {
	return t.findKind(name, SymbolInterface, opts)
}

// FindType finds anything usable as a named type: builtin value types,
// components, interfaces and messages. Hidden singletons never match since
// their names are not identifiers.
func (t *Table) FindType(name source.StringID, opts SearchOptions) []SymbolID {
	return t.find(opts, t.byName(name, func(s *Symbol) bool {
		return s.Kind.IsType() && s.Kind != SymbolGenericComponent
	}))
}

// FindBuiltin finds a builtin value type by name.
func (t *Table) FindBuiltin(name source.StringID) []SymbolID {
	var out []SymbolID
	for _, id := range t.Builtins {
		if t.Symbols.Get(id).Name == name {
			out = append(out, id)
		}
	}
	return out
}

// FindConstant finds a builtin constant (TRUE, FALSE, PI).
func (t *Table) FindConstant(name source.StringID) []SymbolID {
	var out []SymbolID
	for _, id := range t.Constants {
		if t.Symbols.Get(id).Name == name {
			out = append(out, id)
		}
	}
	return out
}

// FindImplementation matches implementations by the name of the interface
// they implement.
func (t *Table) FindImplementation(iface source.StringID, opts SearchOptions) []SymbolID {
	return t.find(opts, func(scope *Scope) []SymbolID {
		var out []SymbolID
		for _, id := range scope.Symbols {
			sym := t.Symbols.Get(id)
			if sym.Kind == SymbolImplementation && t.Symbols.Get(sym.Iface).Name == iface {
				out = append(out, id)
			}
		}
		return out
	})
}

// FindCollection finds collection variables. Unless ignoreParams is set the
// index types must accept params position by position.
func (t *Table) FindCollection(name source.StringID, ignoreParams bool, params []SymbolID, opts SearchOptions) []SymbolID {
	return t.find(opts, t.byName(name, func(s *Symbol) bool {
		return s.Kind == SymbolCollection && (ignoreParams || t.paramsAccept(s.Params, params))
	}))
}

// FindProcedure finds overloads accepting args. A valid ret additionally
// pins the return type.
func (t *Table) FindProcedure(name source.StringID, args []SymbolID, ret SymbolID, opts SearchOptions) []SymbolID {
	return t.find(opts, t.byName(name, func(s *Symbol) bool {
		return s.Kind == SymbolProcedure && t.paramsAccept(s.Params, args) && (!ret.IsValid() || s.Type == ret)
	}))
}

// FindMessage finds messages of one interface scope. Patterns of receive and
// input tests pass ignoreParams.
func (t *Table) FindMessage(name source.StringID, ignoreParams bool, args []SymbolID, opts SearchOptions) []SymbolID {
	return t.find(opts, t.byName(name, func(s *Symbol) bool {
		return s.Kind == SymbolMessage && (ignoreParams || t.paramsAccept(s.Params, args))
	}))
}

func (t *Table) paramsAccept(params, args []SymbolID) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !t.Assignable(params[i], args[i]) {
			return false
		}
	}
	return true
}

// Assignable reports whether a value of type arg can be passed where param
// is declared. Types match by identity, components by CanSubstitute, and
// any interface fits the any-required-interface parameter of COUNT.
func (t *Table) Assignable(param, arg SymbolID) bool {
	if param == arg {
		return true
	}
	p, a := t.Symbols.Get(param), t.Symbols.Get(arg)
	if p == nil || a == nil {
		return false
	}
	if p.Kind.IsComponent() && a.Kind.IsComponent() {
		return CanSubstitute(a.Generic, p.Generic)
	}
	return param == t.AnyRequiredInterface && a.Kind == SymbolInterface
}

// ProcedureParam finds name among the parameters of the nearest enclosing
// procedure.
func (t *Table) ProcedureParam(name source.StringID, scope ScopeID) []SymbolID {
	proc := t.Enclosing(scope, ScopeProcedure)
	if !proc.IsValid() {
		return nil
	}
	var out []SymbolID
	for _, id := range t.FindVariable(name, Search(proc, false, false)) {
		if t.Symbols.Get(id).Flags&SymbolFlagParam != 0 {
			out = append(out, id)
		}
	}
	return out
}
