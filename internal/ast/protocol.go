package ast

import "composita/internal/source"

type ProtoKind uint8

const (
	// ProtoChoice is `t1 | t2 | ...`.
	ProtoChoice ProtoKind = iota
	// ProtoSeq is a term: factors in order.
	ProtoSeq
	ProtoMessage
	ProtoOptional // [ ... ]
	ProtoRepeat   // { ... }
	ProtoGroup    // ( ... )
)

type MessageDir uint8

const (
	DirIn MessageDir = iota
	DirOut
)

func (d MessageDir) String() string {
	if d == DirIn {
		return "IN"
	}
	return "OUT"
}

type MessageDecl struct {
	Dir    MessageDir
	Name   Ident
	Params []Param
}

// Proto is a protocol node. Children is used by every kind except ProtoMessage.
type Proto struct {
	Kind     ProtoKind
	Span     source.Span
	Children []ProtoID
	Msg      MessageDecl
}

type Protos struct {
	Arena *Arena[Proto]
}

func NewProtos(capHint uint) *Protos {
	return &Protos{Arena: NewArena[Proto](capHint)}
}

func (p *Protos) New(node Proto) ProtoID {
	return ProtoID(p.Arena.Allocate(node))
}

func (p *Protos) Get(id ProtoID) *Proto {
	return p.Arena.Get(uint32(id))
}

// Messages returns the message declarations under id in source order.
func (p *Protos) Messages(id ProtoID) []ProtoID {
	var out []ProtoID
	var walk func(ProtoID)
	walk = func(id ProtoID) {
		n := p.Get(id)
		if n == nil {
			return
		}
		if n.Kind == ProtoMessage {
			out = append(out, id)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(id)
	return out
}
