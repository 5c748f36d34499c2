package ast

import "composita/internal/source"

type ItemKind uint8

const (
	ItemComponent ItemKind = iota
	ItemInterface
	ItemProcedure
	ItemImplementation
	ItemConstants
	ItemVariables
)

func (k ItemKind) String() string {
	switch k {
	case ItemComponent:
		return "component"
	case ItemInterface:
		return "interface"
	case ItemProcedure:
		return "procedure"
	case ItemImplementation:
		return "implementation"
	case ItemConstants:
		return "constants"
	case ItemVariables:
		return "variables"
	}
	return "item(?)"
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type ComponentItem struct {
	Name     Ident
	Attrs    []Attr
	Offers   []IfaceDecl
	Requires []IfaceDecl
	Body     *ComponentBody // nil для COMPONENT X; END X;
}

// ComponentBody keeps declarations and implementations apart; the blocks are optional.
type ComponentBody struct {
	Span     source.Span
	Decls    []ItemID
	Impls    []ItemID
	Begin    SeqID
	Activity SeqID
	Finally  SeqID
}

type InterfaceItem struct {
	Name     Ident
	Protocol ProtoID // NoProtoID for an empty protocol
}

type ProcedureItem struct {
	Name   Ident
	Params []ProcParam
	Return TypeID // NoTypeID: no return value
	Decls  []ItemID
	Body   SeqID
}

// ProcParam is one `[VARIABLE] a, b: T` group.
type ProcParam struct {
	Mutable bool
	Names   []DeclID
	Type    TypeID
	Span    source.Span
}

type ImplementationItem struct {
	Name  Ident
	Decls []ItemID
	Body  SeqID
}

type ConstantsItem struct {
	Consts []ConstDecl
}

type ConstDecl struct {
	Decl  DeclID
	Value ExprID
	Span  source.Span
}

type VariablesItem struct {
	Vars []VarDecl
}

// VarDecl is `a, b[i: INTEGER]: T {attrs};`.
type VarDecl struct {
	Names []DeclID
	Type  TypeID
	Attrs []Attr
	Span  source.Span
}

type Items struct {
	Arena           *Arena[Item]
	Components      *Arena[ComponentItem]
	Interfaces      *Arena[InterfaceItem]
	Procedures      *Arena[ProcedureItem]
	Implementations *Arena[ImplementationItem]
	Constants       *Arena[ConstantsItem]
	Variables       *Arena[VariablesItem]
}

// NewItems creates the item arena and its per-kind payload arenas.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:           NewArena[Item](capHint),
		Components:      NewArena[ComponentItem](capHint),
		Interfaces:      NewArena[InterfaceItem](capHint),
		Procedures:      NewArena[ProcedureItem](capHint),
		Implementations: NewArena[ImplementationItem](capHint),
		Constants:       NewArena[ConstantsItem](capHint),
		Variables:       NewArena[VariablesItem](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) new(kind ItemKind, sp source.Span, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) NewComponent(sp source.Span, c ComponentItem) ItemID {
	return i.new(ItemComponent, sp, i.Components.Allocate(c))
}

func (i *Items) NewInterface(sp source.Span, it InterfaceItem) ItemID {
	return i.new(ItemInterface, sp, i.Interfaces.Allocate(it))
}

func (i *Items) NewProcedure(sp source.Span, p ProcedureItem) ItemID {
	return i.new(ItemProcedure, sp, i.Procedures.Allocate(p))
}

func (i *Items) NewImplementation(sp source.Span, im ImplementationItem) ItemID {
	return i.new(ItemImplementation, sp, i.Implementations.Allocate(im))
}

func (i *Items) NewConstants(sp source.Span, c ConstantsItem) ItemID {
	return i.new(ItemConstants, sp, i.Constants.Allocate(c))
}

func (i *Items) NewVariables(sp source.Span, v VariablesItem) ItemID {
	return i.new(ItemVariables, sp, i.Variables.Allocate(v))
}

// Component returns the payload, or nil when id is not a component.
func (i *Items) Component(id ItemID) *ComponentItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemComponent {
		return nil
	}
	return i.Components.Get(uint32(it.Payload))
}

func (i *Items) Interface(id ItemID) *InterfaceItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemInterface {
		return nil
	}
	return i.Interfaces.Get(uint32(it.Payload))
}

func (i *Items) Procedure(id ItemID) *ProcedureItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemProcedure {
		return nil
	}
	return i.Procedures.Get(uint32(it.Payload))
}

func (i *Items) Implementation(id ItemID) *ImplementationItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemImplementation {
		return nil
	}
	return i.Implementations.Get(uint32(it.Payload))
}

func (i *Items) ConstantList(id ItemID) *ConstantsItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemConstants {
		return nil
	}
	return i.Constants.Get(uint32(it.Payload))
}

func (i *Items) VariableList(id ItemID) *VariablesItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemVariables {
		return nil
	}
	return i.Variables.Get(uint32(it.Payload))
}
