package codegen

import (
	"math"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/il"
	"composita/internal/source"
	"composita/internal/symbols"
)

var chainOps = map[ast.Op]il.OpCode{
	ast.OpAdd:   il.OpAdd,
	ast.OpSub:   il.OpSubtract,
	ast.OpOr:    il.OpLogicOr,
	ast.OpMul:   il.OpMultiply,
	ast.OpSlash: il.OpDivide,
	ast.OpDiv:   il.OpDivide,
	ast.OpMod:   il.OpModulo,
	ast.OpAnd:   il.OpLogicAnd,
}

var relationOps = map[ast.Op]il.OpCode{
	ast.OpEq: il.OpEqual,
	ast.OpNe: il.OpNotEqual,
	ast.OpLt: il.OpLess,
	ast.OpLe: il.OpLessEqual,
	ast.OpGt: il.OpGreater,
	ast.OpGe: il.OpGreaterEqual,
}

func (e *emitter) exprs(ids []ast.ExprID) {
	for _, id := range ids {
		e.expr(id)
	}
}

// target pushes the receiver of a message statement or test. A missing
// target and a bare name both address the running component first.
func (e *emitter) target(id ast.ExprID) {
	if !id.IsValid() || e.b.Exprs.Get(id).Kind == ast.ExprName {
		e.asm.Emit(il.OpLoadThis)
	}
	if id.IsValid() {
		e.expr(id)
	}
}

// call emits the invocation of a resolved procedure whose arguments are
// already on the stack. Builtins of the global scope become system calls.
func (e *emitter) call(proc symbols.SymbolID, sp source.Span) {
	sym := e.t.Sym(proc)
	if sym == nil {
		fail(diag.GenNoDescriptor, sp, "unresolved procedure call")
	}
	if sym.Scope == e.t.Global {
		if sc, ok := il.LookupSysCall(e.t.Name(proc)); ok {
			e.asm.EmitSystemCall(sc, len(sym.Params))
			return
		}
	}
	e.asm.Emit(il.OpProcedureCall, il.ProcArg(e.meta.Procedure(proc)))
}

func (e *emitter) expr(id ast.ExprID) {
	x := e.b.Exprs.Get(id)
	if x == nil {
		fail(diag.GenUnsupported, source.Span{}, "missing expression %d", id)
	}
	switch x.Kind {
	case ast.ExprBinary:
		bin := e.b.Exprs.Binary(id)
		e.expr(bin.Left)
		e.expr(bin.Right)
		op, ok := relationOps[bin.Op]
		if !ok {
			fail(diag.GenUnsupported, x.Span, "unsupported relation %s", bin.Op)
		}
		e.asm.Emit(op)

	case ast.ExprOffersRequires:
		fail(diag.GenUnsupported, x.Span, "OFFERS and REQUIRES tests are not supported")

	case ast.ExprTypeCheck:
		tc := e.b.Exprs.TypeCheck(id)
		e.expr(tc.Subject)
		e.asm.Emit(il.OpIsType, il.TypeArg(e.meta.TypeRef(e.t.TypeOf.Get(tc.Type))))

	case ast.ExprUnary:
		e.expr(e.b.Exprs.Unary(id).X)

	case ast.ExprSign:
		s := e.b.Exprs.Sign(id)
		e.expr(s.X)
		if s.Negative {
			e.asm.Emit(il.OpNegate)
		}

	case ast.ExprTermChain, ast.ExprFactorChain:
		c := e.b.Exprs.Chain(id)
		e.expr(c.Left)
		for _, link := range c.Links {
			e.expr(link.X)
			op, ok := chainOps[link.Op]
			if !ok {
				fail(diag.GenUnsupported, link.Span, "unsupported operator %s", link.Op)
			}
			e.asm.Emit(op)
		}

	case ast.ExprNot:
		e.expr(e.b.Exprs.Inner(id))
		e.asm.Emit(il.OpNot)

	case ast.ExprParen:
		e.expr(e.b.Exprs.Inner(id))

	case ast.ExprInt:
		e.asm.EmitLoadInteger(e.b.Exprs.Literal(id).Int)
	case ast.ExprReal:
		e.asm.EmitLoadReal(e.b.Exprs.Literal(id).Real)
	case ast.ExprChar:
		e.asm.EmitLoadCharacter(e.b.Exprs.Literal(id).Char)
	case ast.ExprText:
		e.asm.EmitLoadText(e.b.Exprs.Literal(id).Text)

	case ast.ExprReceiveTest, ast.ExprInputTest:
		test := e.b.Exprs.Test(id)
		e.asm.Emit(il.OpLoadThis)
		if test.Target.IsValid() {
			e.expr(test.Target)
		}
		msg := il.MsgArg(e.meta.Message(e.t.PatternMsg.Get(id)))
		if x.Kind == ast.ExprReceiveTest {
			e.asm.Emit(il.OpReceiveTest, msg)
		} else {
			e.asm.Emit(il.OpInputTest, msg)
		}

	case ast.ExprExists:
		test := e.b.Exprs.Test(id)
		if test.Target.IsValid() {
			e.expr(test.Target)
		} else {
			e.asm.Emit(il.OpLoadThis)
		}
		e.asm.Emit(il.OpExistsTest)

	case ast.ExprCall:
		call := e.b.Exprs.Call(id)
		e.exprs(call.Args)
		e.call(e.t.ExprCall.Get(id), x.Span)

	case ast.ExprName:
		e.name(id, x.Span)

	case ast.ExprIndex:
		ix := e.b.Exprs.Index(id)
		e.exprs(ix.Indices)
		sym := e.t.Sym(e.t.DesignatorSym.Get(id))
		switch {
		case sym != nil && sym.Kind == symbols.SymbolCollection:
			e.asm.Emit(il.OpLoadArrayVariable, il.VarArg(e.meta.Variable(e.t.DesignatorSym.Get(id))))
		case sym != nil && sym.Kind == symbols.SymbolInterface:
			e.asm.Emit(il.OpLoadService, il.IfaceArg(e.meta.Interface(e.t.DesignatorSym.Get(id))))
		default:
			fail(diag.GenUnsupported, x.Span, "unsupported indexed designator")
		}

	case ast.ExprBaseTarget:
		bt := e.b.Exprs.BaseTarget(id)
		e.expr(bt.Target)
		if proc := e.t.ExprCall.Get(id); proc != symbols.NoSymbolID {
			e.call(proc, x.Span)
		} else {
			e.expr(bt.Base)
		}

	case ast.ExprDesignatorType:
		e.expr(e.b.Exprs.DesignatorType(id).X)

	default:
		fail(diag.GenUnsupported, x.Span, "unsupported expression %s", x.Kind)
	}
}

// name loads a basic designator by the kind of the symbol it resolved to.
func (e *emitter) name(id ast.ExprID, sp source.Span) {
	ref := e.t.DesignatorSym.Get(id)
	sym := e.t.Sym(ref)
	if sym == nil {
		fail(diag.GenNoDescriptor, sp, "unresolved designator")
	}
	switch sym.Kind {
	case symbols.SymbolConstant:
		switch e.t.Name(ref) {
		case "TRUE":
			e.asm.EmitLoadBoolean(true)
		case "FALSE":
			e.asm.EmitLoadBoolean(false)
		case "PI":
			e.asm.EmitLoadReal(math.Pi)
		default:
			fail(diag.GenUnsupported, sp, "unsupported constant %s", e.t.Name(ref))
		}
	case symbols.SymbolVariable, symbols.SymbolCollection:
		e.asm.Emit(il.OpLoadVariable, il.VarArg(e.meta.Variable(ref)))
	case symbols.SymbolInterface:
		e.asm.Emit(il.OpLoadService, il.IfaceArg(e.meta.Interface(ref)))
	default:
		fail(diag.GenUnsupported, sp, "cannot load %s %s", sym.Kind, e.t.Name(ref))
	}
}
