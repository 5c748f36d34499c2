package ast

import "composita/internal/source"

// Decl is a single declared name. Variables may carry index parameters
// (`a[i, j: INTEGER]`); constants and procedure parameters never do.
type Decl struct {
	Name   Ident
	Params []Param
	Span   source.Span
}

// Param is a `names: Type` group inside index brackets or message signatures.
type Param struct {
	Names []Ident
	Type  TypeID
	Span  source.Span
}

type Decls struct {
	Arena *Arena[Decl]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{Arena: NewArena[Decl](capHint)}
}

func (d *Decls) New(decl Decl) DeclID {
	return DeclID(d.Arena.Allocate(decl))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}
