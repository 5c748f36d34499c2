package ast

import "composita/internal/source"

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns every arena of one parse plus the string interner shared with later phases.
type Builder struct {
	Files   *Files
	Items   *Items
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *Types
	Decls   *Decls
	Protos  *Protos
	Strings *source.Interner
}

func NewBuilder(hints Hints, strs *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strs == nil {
		strs = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Types:   NewTypes(hints.Items),
		Decls:   NewDecls(hints.Items),
		Protos:  NewProtos(hints.Items),
		Strings: strs,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Ident interns name and pairs it with its span.
func (b *Builder) Ident(name string, sp source.Span) Ident {
	return Ident{Name: b.Strings.Intern(name), Span: sp}
}

// NameOf returns the text of an interned identifier.
func (b *Builder) NameOf(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// ItemName returns the declared name of a named item, or a zero Ident for lists.
func (b *Builder) ItemName(id ItemID) Ident {
	switch it := b.Items.Get(id); {
	case it == nil:
		return Ident{}
	case it.Kind == ItemComponent:
		return b.Items.Components.Get(uint32(it.Payload)).Name
	case it.Kind == ItemInterface:
		return b.Items.Interfaces.Get(uint32(it.Payload)).Name
	case it.Kind == ItemProcedure:
		return b.Items.Procedures.Get(uint32(it.Payload)).Name
	case it.Kind == ItemImplementation:
		return b.Items.Implementations.Get(uint32(it.Payload)).Name
	}
	return Ident{}
}

// HasAttr reports whether attrs contains name.
func (b *Builder) HasAttr(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if b.NameOf(a.Name) == name {
			return true
		}
	}
	return false
}
