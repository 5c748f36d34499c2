package ast

import "composita/internal/source"

type ExprKind uint8

const (
	// выражения верхнего уровня
	ExprBinary ExprKind = iota
	ExprOffersRequires
	ExprTypeCheck
	ExprUnary // attributed simple expression without a relation

	// simple expressions
	ExprSign      // +x, -x
	ExprTermChain // a + b - c OR d
	ExprFactorChain
	ExprNot
	ExprParen

	// operands
	ExprInt
	ExprReal
	ExprChar
	ExprText
	ExprReceiveTest
	ExprInputTest
	ExprExists
	ExprCall

	// designators
	ExprName
	ExprIndex
	ExprBaseTarget
	ExprDesignatorType
)

var exprKindNames = [...]string{
	ExprBinary:         "binary",
	ExprOffersRequires: "offers-requires",
	ExprTypeCheck:      "type-check",
	ExprUnary:          "unary",
	ExprSign:           "sign",
	ExprTermChain:      "term-chain",
	ExprFactorChain:    "factor-chain",
	ExprNot:            "not",
	ExprParen:          "paren",
	ExprInt:            "int",
	ExprReal:           "real",
	ExprChar:           "char",
	ExprText:           "text",
	ExprReceiveTest:    "receive-test",
	ExprInputTest:      "input-test",
	ExprExists:         "exists",
	ExprCall:           "call",
	ExprName:           "name",
	ExprIndex:          "index",
	ExprBaseTarget:     "base-target",
	ExprDesignatorType: "designator-type",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "expr(?)"
}

// IsDesignator reports whether the kind can stand where a designator is required.
func (k ExprKind) IsDesignator() bool {
	return k >= ExprName && k <= ExprDesignatorType
}

type Op uint8

const (
	OpEq Op = iota // =
	OpNe           // #
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpOr
	OpMul
	OpSlash
	OpDiv
	OpMod
	OpAnd
)

var opNames = [...]string{
	OpEq: "=", OpNe: "#", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAdd: "+", OpSub: "-", OpOr: "OR",
	OpMul: "*", OpSlash: "/", OpDiv: "DIV", OpMod: "MOD", OpAnd: "AND",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type BinaryExpr struct {
	Attrs []Attr
	Left  ExprID
	Op    Op
	Right ExprID
}

type OffersRequiresExpr struct {
	Attrs    []Attr
	Subject  ExprID
	Requires bool
	Ifaces   []IfaceDecl
}

type TypeCheckExpr struct {
	Attrs   []Attr
	Subject ExprID
	Type    TypeID
}

// UnaryExpr wraps a simple expression with its attributes.
type UnaryExpr struct {
	Attrs []Attr
	X     ExprID
}

// SignExpr is a prefixed term; Negative for '-'.
type SignExpr struct {
	Negative bool
	X        ExprID
}

type ChainLink struct {
	Op   Op
	X    ExprID
	Span source.Span
}

// ChainExpr is a term or factor chain: Left followed by at least one link.
type ChainExpr struct {
	Left  ExprID
	Links []ChainLink
}

type Literal struct {
	Int  int64
	Real float64
	Char rune
	Text string
}

// PatternKind tells a message pattern from the ANY and FINISH control patterns.
type PatternKind uint8

const (
	PatternName PatternKind = iota
	PatternAny
	PatternFinish
)

type TestExpr struct {
	Target  ExprID // NoExprID: this component
	Pattern PatternKind
	Msg     Ident
}

type CallExpr struct {
	Name Ident
	Args []ExprID
}

type IndexExpr struct {
	Name    Ident
	Indices []ExprID
}

type BaseTargetExpr struct {
	Base   ExprID
	Target ExprID
}

type DesignatorTypeExpr struct {
	X    ExprID
	Type TypeID
}

type Exprs struct {
	Arena           *Arena[Expr]
	Binaries        *Arena[BinaryExpr]
	OffersRequires  *Arena[OffersRequiresExpr]
	TypeChecks      *Arena[TypeCheckExpr]
	Unaries         *Arena[UnaryExpr]
	Signs           *Arena[SignExpr]
	Chains          *Arena[ChainExpr]
	Literals        *Arena[Literal]
	Tests           *Arena[TestExpr]
	Calls           *Arena[CallExpr]
	Names           *Arena[Ident]
	Indexes         *Arena[IndexExpr]
	BaseTargets     *Arena[BaseTargetExpr]
	DesignatorTypes *Arena[DesignatorTypeExpr]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/4 + 1
	return &Exprs{
		Arena:           NewArena[Expr](capHint),
		Binaries:        NewArena[BinaryExpr](small),
		OffersRequires:  NewArena[OffersRequiresExpr](small),
		TypeChecks:      NewArena[TypeCheckExpr](small),
		Unaries:         NewArena[UnaryExpr](small),
		Signs:           NewArena[SignExpr](small),
		Chains:          NewArena[ChainExpr](small),
		Literals:        NewArena[Literal](small),
		Tests:           NewArena[TestExpr](small),
		Calls:           NewArena[CallExpr](small),
		Names:           NewArena[Ident](capHint),
		Indexes:         NewArena[IndexExpr](small),
		BaseTargets:     NewArena[BaseTargetExpr](small),
		DesignatorTypes: NewArena[DesignatorTypeExpr](small),
	}
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) new(kind ExprKind, sp source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (e *Exprs) NewBinary(sp source.Span, b BinaryExpr) ExprID {
	return e.new(ExprBinary, sp, e.Binaries.Allocate(b))
}

func (e *Exprs) NewOffersRequires(sp source.Span, o OffersRequiresExpr) ExprID {
	return e.new(ExprOffersRequires, sp, e.OffersRequires.Allocate(o))
}

func (e *Exprs) NewTypeCheck(sp source.Span, t TypeCheckExpr) ExprID {
	return e.new(ExprTypeCheck, sp, e.TypeChecks.Allocate(t))
}

func (e *Exprs) NewUnary(sp source.Span, u UnaryExpr) ExprID {
	return e.new(ExprUnary, sp, e.Unaries.Allocate(u))
}

func (e *Exprs) NewSign(sp source.Span, s SignExpr) ExprID {
	return e.new(ExprSign, sp, e.Signs.Allocate(s))
}

// NewChain creates ExprTermChain or ExprFactorChain.
func (e *Exprs) NewChain(kind ExprKind, sp source.Span, c ChainExpr) ExprID {
	return e.new(kind, sp, e.Chains.Allocate(c))
}

// NewWrap creates ExprNot or ExprParen; the payload is the inner id.
func (e *Exprs) NewWrap(kind ExprKind, sp source.Span, x ExprID) ExprID {
	return e.new(kind, sp, uint32(x))
}

// NewLiteral creates ExprInt, ExprReal, ExprChar or ExprText.
func (e *Exprs) NewLiteral(kind ExprKind, sp source.Span, l Literal) ExprID {
	return e.new(kind, sp, e.Literals.Allocate(l))
}

// NewTest creates ExprReceiveTest, ExprInputTest or ExprExists.
func (e *Exprs) NewTest(kind ExprKind, sp source.Span, t TestExpr) ExprID {
	return e.new(kind, sp, e.Tests.Allocate(t))
}

func (e *Exprs) NewCall(sp source.Span, c CallExpr) ExprID {
	return e.new(ExprCall, sp, e.Calls.Allocate(c))
}

func (e *Exprs) NewName(name Ident) ExprID {
	return e.new(ExprName, name.Span, e.Names.Allocate(name))
}

func (e *Exprs) NewIndex(sp source.Span, ix IndexExpr) ExprID {
	return e.new(ExprIndex, sp, e.Indexes.Allocate(ix))
}

func (e *Exprs) NewBaseTarget(sp source.Span, bt BaseTargetExpr) ExprID {
	return e.new(ExprBaseTarget, sp, e.BaseTargets.Allocate(bt))
}

func (e *Exprs) NewDesignatorType(sp source.Span, dt DesignatorTypeExpr) ExprID {
	return e.new(ExprDesignatorType, sp, e.DesignatorTypes.Allocate(dt))
}

func (e *Exprs) Binary(id ExprID) *BinaryExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprBinary {
		return e.Binaries.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) OffersRequiresOf(id ExprID) *OffersRequiresExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprOffersRequires {
		return e.OffersRequires.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) TypeCheck(id ExprID) *TypeCheckExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprTypeCheck {
		return e.TypeChecks.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Unary(id ExprID) *UnaryExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprUnary {
		return e.Unaries.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Sign(id ExprID) *SignExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprSign {
		return e.Signs.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Chain(id ExprID) *ChainExpr {
	if x := e.Get(id); x != nil && (x.Kind == ExprTermChain || x.Kind == ExprFactorChain) {
		return e.Chains.Get(uint32(x.Payload))
	}
	return nil
}

// Inner returns the operand of ExprNot or ExprParen.
func (e *Exprs) Inner(id ExprID) ExprID {
	if x := e.Get(id); x != nil && (x.Kind == ExprNot || x.Kind == ExprParen) {
		return ExprID(x.Payload)
	}
	return NoExprID
}

func (e *Exprs) Literal(id ExprID) *Literal {
	x := e.Get(id)
	if x == nil {
		return nil
	}
	switch x.Kind {
	case ExprInt, ExprReal, ExprChar, ExprText:
		return e.Literals.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Test(id ExprID) *TestExpr {
	x := e.Get(id)
	if x == nil {
		return nil
	}
	switch x.Kind {
	case ExprReceiveTest, ExprInputTest, ExprExists:
		return e.Tests.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Call(id ExprID) *CallExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprCall {
		return e.Calls.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Name(id ExprID) *Ident {
	if x := e.Get(id); x != nil && x.Kind == ExprName {
		return e.Names.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) Index(id ExprID) *IndexExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprIndex {
		return e.Indexes.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) BaseTarget(id ExprID) *BaseTargetExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprBaseTarget {
		return e.BaseTargets.Get(uint32(x.Payload))
	}
	return nil
}

func (e *Exprs) DesignatorType(id ExprID) *DesignatorTypeExpr {
	if x := e.Get(id); x != nil && x.Kind == ExprDesignatorType {
		return e.DesignatorTypes.Get(uint32(x.Payload))
	}
	return nil
}
