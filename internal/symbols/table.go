package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"composita/internal/ast"
	"composita/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table owns every scope and symbol of one compilation plus the side tables
// that attach resolution results to tree nodes. A Table is never shared
// between compilations.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Global  ScopeID

	Void                 SymbolID
	AnyComponent         SymbolID
	AnyRequiredInterface SymbolID
	AnyMessage           SymbolID
	FinishMessage        SymbolID

	// builtin value types, set by SeedBuiltins
	Boolean   SymbolID
	Character SymbolID
	Text      SymbolID
	Integer   SymbolID
	Real      SymbolID

	// реестры по видам, в порядке регистрации
	Builtins        []SymbolID
	Constants       []SymbolID
	Variables       []SymbolID
	Collections     []SymbolID
	Procedures      []SymbolID
	Components      []SymbolID
	Generics        []SymbolID
	Interfaces      []SymbolID
	Messages        []SymbolID
	Implementations []SymbolID

	ExprType      Slots[ast.ExprID] // expression -> type
	DesignatorSym Slots[ast.ExprID] // designator -> symbol
	ExprCall      Slots[ast.ExprID] // function call or call-shaped base/target -> procedure
	PatternMsg    Slots[ast.ExprID] // receive/input test -> message
	StmtCall      Slots[ast.StmtID] // procedure call statement -> procedure
	MessageOf     Slots[ast.StmtID] // send/receive -> message
	TypeOf        Slots[ast.TypeID]
	DeclSym       Slots[ast.ItemID]  // component, interface, procedure, implementation
	VarSym        Slots[ast.DeclID]  // variable, constant, parameter
	ProtoMsg      Slots[ast.ProtoID] // message declaration -> message
}

// NewTable builds a table with the global scope and the builtin singletons.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, NoSymbolID, source.Span{})

	// Имена синглтонов не могут совпасть с идентификатором из исходника.
	t.Void = t.declareHidden(Symbol{Kind: SymbolBuiltinType, Name: t.Strings.Intern("@void"), Flags: SymbolFlagBuiltin})
	t.AnyRequiredInterface = t.declareHidden(Symbol{
		Kind:  SymbolInterface,
		Name:  t.Strings.Intern("@any-required-interface"),
		Flags: SymbolFlagBuiltin,
	})
	t.AnyComponent = t.declareHidden(Symbol{
		Kind:    SymbolComponent,
		Name:    t.Strings.Intern("@any-component"),
		Flags:   SymbolFlagBuiltin,
		Generic: &Generic{},
	})
	t.AnyMessage = t.declareHidden(Symbol{Kind: SymbolMessage, Name: t.Strings.Intern("ANY"), Flags: SymbolFlagBuiltin})
	t.FinishMessage = t.declareHidden(Symbol{Kind: SymbolMessage, Name: t.Strings.Intern("FINISH"), Flags: SymbolFlagBuiltin})
	return t
}

// declareHidden places a singleton in the global scope without registering
// it, so no registry search can return it.
func (t *Table) declareHidden(sym Symbol) SymbolID {
	sym.Scope = t.Global
	id := t.Symbols.New(&sym)
	t.link(t.Global, sym.Name, id)
	return id
}

func (t *Table) link(scope ScopeID, name source.StringID, id SymbolID) {
	s := t.Scopes.Get(scope)
	if s == nil {
		panic(fmt.Errorf("symbols: declare into invalid scope %d", scope))
	}
	s.Symbols = append(s.Symbols, id)
	s.NameIndex[name] = append(s.NameIndex[name], id)
}

// Declare stores sym in scope and appends it to the registry of its kind.
func (t *Table) Declare(scope ScopeID, sym Symbol) SymbolID {
	sym.Scope = scope
	id := t.Symbols.New(&sym)
	t.link(scope, sym.Name, id)
	switch sym.Kind {
	case SymbolBuiltinType:
		t.Builtins = append(t.Builtins, id)
	case SymbolConstant:
		t.Constants = append(t.Constants, id)
	case SymbolVariable:
		t.Variables = append(t.Variables, id)
	case SymbolCollection:
		t.Collections = append(t.Collections, id)
	case SymbolProcedure:
		t.Procedures = append(t.Procedures, id)
	case SymbolComponent:
		t.Components = append(t.Components, id)
	case SymbolGenericComponent:
		t.Generics = append(t.Generics, id)
	case SymbolInterface:
		t.Interfaces = append(t.Interfaces, id)
	case SymbolMessage:
		t.Messages = append(t.Messages, id)
	case SymbolImplementation:
		t.Implementations = append(t.Implementations, id)
	}
	return id
}

// OpenScope allocates a scope under parent. When owner is set the scope
// becomes the owner's own scope.
func (t *Table) OpenScope(kind ScopeKind, parent ScopeID, owner SymbolID, span source.Span) ScopeID {
	id := t.Scopes.New(kind, parent, owner, span)
	if sym := t.Symbols.Get(owner); sym != nil {
		sym.Own = id
	}
	return id
}

// Program opens the scope of one compiled unit.
func (t *Table) Program(span source.Span) ScopeID {
	return t.OpenScope(ScopeProgram, t.Global, NoSymbolID, span)
}

// Sym is a shorthand for t.Symbols.Get.
func (t *Table) Sym(id SymbolID) *Symbol {
	return t.Symbols.Get(id)
}

// Name returns the identifier text of a symbol.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	return t.Strings.MustLookup(sym.Name)
}

// ScopeKindOf reports the kind of the scope, ScopeInvalid for unknown ids.
func (t *Table) ScopeKindOf(id ScopeID) ScopeKind {
	if s := t.Scopes.Get(id); s != nil {
		return s.Kind
	}
	return ScopeInvalid
}

// Enclosing walks up from scope to the first scope of the given kind.
func (t *Table) Enclosing(scope ScopeID, kind ScopeKind) ScopeID {
	for s := t.Scopes.Get(scope); s != nil; s = t.Scopes.Get(scope) {
		if s.Kind == kind {
			return scope
		}
		scope = s.Parent
	}
	return NoScopeID
}

// InScope returns the symbols of the given kind declared directly in scope,
// in declaration order.
func (t *Table) InScope(scope ScopeID, kind SymbolKind) []SymbolID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	var out []SymbolID
	for _, id := range s.Symbols {
		if t.Symbols.Get(id).Kind == kind {
			out = append(out, id)
		}
	}
	return out
}

// IsBuiltinValue reports whether id is one of the five builtin value types.
func (t *Table) IsBuiltinValue(id SymbolID) bool {
	sym := t.Symbols.Get(id)
	return sym != nil && sym.Kind == SymbolBuiltinType && id != t.Void
}

// GenericOf returns the signature of a component-kind symbol or nil.
func (t *Table) GenericOf(id SymbolID) *Generic {
	sym := t.Symbols.Get(id)
	if sym == nil || !sym.Kind.IsComponent() {
		return nil
	}
	return sym.Generic
}

// Describe renders a type symbol for messages: builtin and declared names,
// ANY(...) for structural types.
func (t *Table) Describe(id SymbolID) string {
	sym := t.Symbols.Get(id)
	switch {
	case sym == nil:
		return "<none>"
	case id == t.Void:
		return "VOID"
	case sym.Kind == SymbolGenericComponent:
		return "ANY" + t.describeGeneric(sym.Generic)
	}
	return t.Strings.MustLookup(sym.Name)
}

func (t *Table) describeGeneric(g *Generic) string {
	if g.IsEmpty() {
		return ""
	}
	side := func(decls []InterfaceDecl) string {
		out := ""
		for i, d := range decls {
			if i > 0 {
				out += ", "
			}
			out += t.Name(d.Iface) + d.Card.String()
		}
		return out
	}
	if len(g.Required) == 0 {
		return "(" + side(g.Offered) + ")"
	}
	return "(" + side(g.Offered) + " | " + side(g.Required) + ")"
}
