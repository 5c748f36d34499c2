package ast

import "composita/internal/source"

type TypeKind uint8

const (
	// TypeNamed is a plain identifier: INTEGER, a component name, an interface name.
	TypeNamed TypeKind = iota
	// TypeAny is ANY or ANY(offered | required).
	TypeAny
)

type Type struct {
	Kind     TypeKind
	Span     source.Span
	Name     Ident
	Offered  []IfaceDecl
	Required []IfaceDecl
}

type Types struct {
	Arena *Arena[Type]
}

func NewTypes(capHint uint) *Types {
	return &Types{Arena: NewArena[Type](capHint)}
}

func (t *Types) New(ty Type) TypeID {
	return TypeID(t.Arena.Allocate(ty))
}

func (t *Types) Get(id TypeID) *Type {
	return t.Arena.Get(uint32(id))
}
