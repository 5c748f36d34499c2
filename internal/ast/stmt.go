package ast

import "composita/internal/source"

type StmtKind uint8

const (
	StmtCall StmtKind = iota
	StmtAssign
	StmtNew
	StmtConnect
	StmtDisconnect
	StmtSend
	StmtReceive
	StmtDelete
	StmtMove
	StmtAwait
	StmtReturn
	StmtIf
	StmtWhile
	StmtRepeat
	StmtFor
	StmtForeach
	StmtBlock
)

var stmtKindNames = [...]string{
	StmtCall:       "call",
	StmtAssign:     "assign",
	StmtNew:        "new",
	StmtConnect:    "connect",
	StmtDisconnect: "disconnect",
	StmtSend:       "send",
	StmtReceive:    "receive",
	StmtDelete:     "delete",
	StmtMove:       "move",
	StmtAwait:      "await",
	StmtReturn:     "return",
	StmtIf:         "if",
	StmtWhile:      "while",
	StmtRepeat:     "repeat",
	StmtFor:        "for",
	StmtForeach:    "foreach",
	StmtBlock:      "block",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "stmt(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// Seq is a statement sequence with its leading attributes.
type Seq struct {
	Attrs []Attr
	Stmts []StmtID
	Span  source.Span
}

// CallStmt is `Name` or `Name(args)`.
type CallStmt struct {
	Name Ident
	Args []ExprID
}

type AssignStmt struct {
	Target ExprID
	Value  ExprID
}

type NewStmt struct {
	Target ExprID
	Args   []ExprID
}

// PairStmt covers CONNECT(what, to) and MOVE(from, to).
type PairStmt struct {
	From ExprID
	To   ExprID
}

// SingleStmt covers DISCONNECT, DELETE, AWAIT and RETURN. For RETURN X may be NoExprID.
type SingleStmt struct {
	X ExprID
}

// MessageStmt is `[target] ! Msg(args)` or `[target] ? Msg(slots)`.
// Target is NoExprID when the message goes through the implicit interface.
type MessageStmt struct {
	Target ExprID
	Msg    Ident
	Args   []ExprID
}

type ElsIf struct {
	Cond ExprID
	Then SeqID
	Span source.Span
}

type IfStmt struct {
	Cond   ExprID
	Then   SeqID
	Elsifs []ElsIf
	Else   SeqID
}

// LoopStmt is WHILE cond DO body END or REPEAT body UNTIL cond.
type LoopStmt struct {
	Cond ExprID
	Body SeqID
}

type ForStmt struct {
	Var  ExprID
	From ExprID
	To   ExprID
	By   ExprID // NoExprID without BY
	Body SeqID
}

type ForeachStmt struct {
	Vars []ExprID
	Of   ExprID
	Body SeqID
}

type Stmts struct {
	Arena    *Arena[Stmt]
	Seqs     *Arena[Seq]
	Calls    *Arena[CallStmt]
	Assigns  *Arena[AssignStmt]
	News     *Arena[NewStmt]
	Pairs    *Arena[PairStmt]
	Singles  *Arena[SingleStmt]
	Messages *Arena[MessageStmt]
	Ifs      *Arena[IfStmt]
	Loops    *Arena[LoopStmt]
	Fors     *Arena[ForStmt]
	Foreachs *Arena[ForeachStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Seqs:     NewArena[Seq](small),
		Calls:    NewArena[CallStmt](small),
		Assigns:  NewArena[AssignStmt](small),
		News:     NewArena[NewStmt](small),
		Pairs:    NewArena[PairStmt](small),
		Singles:  NewArena[SingleStmt](small),
		Messages: NewArena[MessageStmt](small),
		Ifs:      NewArena[IfStmt](small),
		Loops:    NewArena[LoopStmt](small),
		Fors:     NewArena[ForStmt](small),
		Foreachs: NewArena[ForeachStmt](small),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) Seq(id SeqID) *Seq {
	return s.Seqs.Get(uint32(id))
}

func (s *Stmts) NewSeq(seq Seq) SeqID {
	return SeqID(s.Seqs.Allocate(seq))
}

func (s *Stmts) new(kind StmtKind, sp source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (s *Stmts) NewCall(sp source.Span, c CallStmt) StmtID {
	return s.new(StmtCall, sp, s.Calls.Allocate(c))
}

func (s *Stmts) NewAssign(sp source.Span, a AssignStmt) StmtID {
	return s.new(StmtAssign, sp, s.Assigns.Allocate(a))
}

func (s *Stmts) NewNew(sp source.Span, n NewStmt) StmtID {
	return s.new(StmtNew, sp, s.News.Allocate(n))
}

// NewPair creates CONNECT or MOVE.
func (s *Stmts) NewPair(kind StmtKind, sp source.Span, p PairStmt) StmtID {
	return s.new(kind, sp, s.Pairs.Allocate(p))
}

// NewSingle creates DISCONNECT, DELETE, AWAIT or RETURN.
func (s *Stmts) NewSingle(kind StmtKind, sp source.Span, x ExprID) StmtID {
	return s.new(kind, sp, s.Singles.Allocate(SingleStmt{X: x}))
}

// NewMessage creates a send or a receive.
func (s *Stmts) NewMessage(kind StmtKind, sp source.Span, m MessageStmt) StmtID {
	return s.new(kind, sp, s.Messages.Allocate(m))
}

func (s *Stmts) NewIf(sp source.Span, i IfStmt) StmtID {
	return s.new(StmtIf, sp, s.Ifs.Allocate(i))
}

// NewLoop creates WHILE or REPEAT.
func (s *Stmts) NewLoop(kind StmtKind, sp source.Span, l LoopStmt) StmtID {
	return s.new(kind, sp, s.Loops.Allocate(l))
}

func (s *Stmts) NewFor(sp source.Span, f ForStmt) StmtID {
	return s.new(StmtFor, sp, s.Fors.Allocate(f))
}

func (s *Stmts) NewForeach(sp source.Span, f ForeachStmt) StmtID {
	return s.new(StmtForeach, sp, s.Foreachs.Allocate(f))
}

// NewBlock wraps BEGIN seq END; the payload is the sequence id itself.
func (s *Stmts) NewBlock(sp source.Span, body SeqID) StmtID {
	return s.new(StmtBlock, sp, uint32(body))
}

func (s *Stmts) Call(id StmtID) *CallStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtCall {
		return s.Calls.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Assign(id StmtID) *AssignStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtAssign {
		return s.Assigns.Get(uint32(st.Payload))
	}
	return nil
}

// Alloc returns the payload of a NEW statement.
func (s *Stmts) Alloc(id StmtID) *NewStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtNew {
		return s.News.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Pair(id StmtID) *PairStmt {
	if st := s.Get(id); st != nil && (st.Kind == StmtConnect || st.Kind == StmtMove) {
		return s.Pairs.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Single(id StmtID) *SingleStmt {
	st := s.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtDisconnect, StmtDelete, StmtAwait, StmtReturn:
		return s.Singles.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Message(id StmtID) *MessageStmt {
	if st := s.Get(id); st != nil && (st.Kind == StmtSend || st.Kind == StmtReceive) {
		return s.Messages.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) If(id StmtID) *IfStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtIf {
		return s.Ifs.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Loop(id StmtID) *LoopStmt {
	if st := s.Get(id); st != nil && (st.Kind == StmtWhile || st.Kind == StmtRepeat) {
		return s.Loops.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) For(id StmtID) *ForStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtFor {
		return s.Fors.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Foreach(id StmtID) *ForeachStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtForeach {
		return s.Foreachs.Get(uint32(st.Payload))
	}
	return nil
}

// Block returns the body of a BEGIN ... END statement.
func (s *Stmts) Block(id StmtID) SeqID {
	if st := s.Get(id); st != nil && st.Kind == StmtBlock {
		return SeqID(st.Payload)
	}
	return NoSeqID
}
