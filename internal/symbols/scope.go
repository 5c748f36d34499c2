package symbols

import "composita/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid        ScopeKind = iota
	ScopeGlobal                   // builtins; the root of every table
	ScopeProgram                  // one per compiled unit
	ScopeComponent                // component body
	ScopeImplementation           // implementation body, child of its component
	ScopeInterface                // messages of one interface
	ScopeProcedure                // parameters and locals
	ScopeBlock                    // anonymous, opened by the fix pass
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeProgram:
		return "program"
	case ScopeComponent:
		return "component"
	case ScopeImplementation:
		return "implementation"
	case ScopeInterface:
		return "interface"
	case ScopeProcedure:
		return "procedure"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy.
// Named scopes (component, implementation, interface, procedure) carry the
// symbol that opened them in Owner; global, program and block scopes do not.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     SymbolID
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
