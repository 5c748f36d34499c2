package symbols

import (
	"composita/internal/ast"
	"composita/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolBuiltinType
	SymbolConstant
	SymbolVariable
	SymbolCollection
	SymbolProcedure
	SymbolComponent
	SymbolGenericComponent // structural ANY(...) type
	SymbolInterface
	SymbolMessage
	SymbolImplementation
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolBuiltinType:
		return "builtin"
	case SymbolConstant:
		return "constant"
	case SymbolVariable:
		return "variable"
	case SymbolCollection:
		return "collection"
	case SymbolProcedure:
		return "procedure"
	case SymbolComponent:
		return "component"
	case SymbolGenericComponent:
		return "generic component"
	case SymbolInterface:
		return "interface"
	case SymbolMessage:
		return "message"
	case SymbolImplementation:
		return "implementation"
	default:
		return "invalid"
	}
}

// IsComponent reports whether values of the kind carry a generic signature.
func (k SymbolKind) IsComponent() bool {
	return k == SymbolComponent || k == SymbolGenericComponent
}

// IsType reports whether the kind can stand in a type position.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolBuiltinType, SymbolComponent, SymbolGenericComponent, SymbolInterface, SymbolMessage:
		return true
	}
	return false
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagMutable SymbolFlags = 1 << iota
	SymbolFlagEntryPoint
	SymbolFlagBuiltin
	SymbolFlagParam
	SymbolFlagImplicit // FOREACH loop variable
	SymbolFlagText     // TEXT stored as a collection of characters
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 6)
	if f&SymbolFlagMutable != 0 {
		labels = append(labels, "mutable")
	}
	if f&SymbolFlagEntryPoint != 0 {
		labels = append(labels, "entrypoint")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagParam != 0 {
		labels = append(labels, "param")
	}
	if f&SymbolFlagImplicit != 0 {
		labels = append(labels, "implicit")
	}
	if f&SymbolFlagText != 0 {
		labels = append(labels, "text")
	}
	return labels
}

// SymbolDecl points back at the tree node a symbol was created from.
// Builtins leave every field zero.
type SymbolDecl struct {
	Item  ast.ItemID  // component, interface, procedure, implementation
	Decl  ast.DeclID  // variable, constant, parameter
	Proto ast.ProtoID // message
	Expr  ast.ExprID  // constant initializer, FOREACH designator
}

// Symbol describes a named entity available in a scope.
//
// Type is the value type for variables, collections and constants and the
// return type for procedures (Void when there is none). Params holds
// procedure and message parameter types or the index types of a collection.
type Symbol struct {
	Name    source.StringID
	Kind    SymbolKind
	Scope   ScopeID // scope the symbol is declared in
	Own     ScopeID // scope the symbol opens, if any
	Span    source.Span
	Flags   SymbolFlags
	Decl    SymbolDecl
	Type    SymbolID
	Params  []SymbolID
	Generic *Generic
	Iface   SymbolID // implemented interface
}

func (s *Symbol) Mutable() bool    { return s.Flags&SymbolFlagMutable != 0 }
func (s *Symbol) EntryPoint() bool { return s.Flags&SymbolFlagEntryPoint != 0 }
