package ast

import "composita/internal/source"

// Ident is a name occurrence in the source.
type Ident struct {
	Name source.StringID
	Span source.Span
}

// Attr is a {NAME} attribute: ENTRYPOINT on components, SHARED or EXCLUSIVE on statement sequences.
type Attr struct {
	Name source.StringID
	Span source.Span
}

// Unbounded is the Max of a `*` cardinality.
const Unbounded = ^uint32(0)

// Cardinality is [n], [n..m] or [n..*]. Explicit is false when the source had none,
// in which case Min and Max are both 1.
type Cardinality struct {
	Min, Max uint32
	Explicit bool
	Span     source.Span
}

// DefaultCardinality is the implicit [1].
var DefaultCardinality = Cardinality{Min: 1, Max: 1}

// IfaceDecl is one entry of an OFFERS or REQUIRES list.
type IfaceDecl struct {
	Name Ident
	Card Cardinality
	Span source.Span
}
