package ast

import (
	"strings"
	"testing"

	"composita/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 {
		t.Fatalf("Allocate = %d, Get = %v", id, a.Get(id))
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range must be nil")
	}
}

func TestKindAccessorsRejectWrongKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewName(b.Ident("v", source.Span{}))
	if b.Exprs.Binary(x) != nil || b.Exprs.Call(x) != nil {
		t.Fatalf("accessor returned payload for a name expression")
	}
	if n := b.Exprs.Name(x); n == nil || b.NameOf(n.Name) != "v" {
		t.Fatalf("Name accessor failed")
	}
	ret := b.Stmts.NewSingle(StmtReturn, source.Span{}, NoExprID)
	if b.Stmts.Pair(ret) != nil {
		t.Fatalf("Pair accessor returned payload for RETURN")
	}
	if s := b.Stmts.Single(ret); s == nil || s.X.IsValid() {
		t.Fatalf("Single accessor: %+v", s)
	}
}

func TestDumpHelloWorld(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := b.NewFile(source.Span{})

	text := b.Exprs.NewLiteral(ExprText, source.Span{}, Literal{Text: "Hello World"})
	write := b.Stmts.NewCall(source.Span{}, CallStmt{Name: b.Ident("WRITE", source.Span{}), Args: []ExprID{text}})
	line := b.Stmts.NewCall(source.Span{}, CallStmt{Name: b.Ident("WRITELINE", source.Span{})})
	seq := b.Stmts.NewSeq(Seq{Stmts: []StmtID{write, line}})
	comp := b.Items.NewComponent(source.Span{}, ComponentItem{
		Name: b.Ident("HelloWorld", source.Span{}),
		Body: &ComponentBody{Begin: seq},
	})
	b.PushItem(file, comp)

	var sb strings.Builder
	if err := Dump(&sb, b, file); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := "COMPONENT HelloWorld\n  BEGIN\n    call WRITE(\"Hello World\")\n    call WRITELINE\n"
	if sb.String() != want {
		t.Fatalf("Dump:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestProtoMessagesInOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	m1 := b.Protos.New(Proto{Kind: ProtoMessage, Msg: MessageDecl{Dir: DirIn, Name: b.Ident("A", source.Span{})}})
	m2 := b.Protos.New(Proto{Kind: ProtoMessage, Msg: MessageDecl{Dir: DirOut, Name: b.Ident("B", source.Span{})}})
	rep := b.Protos.New(Proto{Kind: ProtoRepeat, Children: []ProtoID{m2}})
	seq := b.Protos.New(Proto{Kind: ProtoSeq, Children: []ProtoID{m1, rep}})
	got := b.Protos.Messages(seq)
	if len(got) != 2 || got[0] != m1 || got[1] != m2 {
		t.Fatalf("Messages = %v", got)
	}
}
