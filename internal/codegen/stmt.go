package codegen

import (
	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/il"
	"composita/internal/symbols"
)

type lockKind uint8

const (
	lockShared lockKind = iota
	lockExclusive
)

// emitter compiles one instruction stream.
type emitter struct {
	*generator
	asm *Assembler
	// locks held by the enclosing attributed sequences, outermost first
	locks []lockKind
}

func (e *emitter) complete() []il.Instruction {
	code := e.asm.Complete()
	if len(code) == 0 {
		return nil
	}
	return code
}

// seq brackets the statements with the acquire and release of its SHARED
// and EXCLUSIVE attributes.
func (e *emitter) seq(id ast.SeqID) {
	seq := e.b.Stmts.Seq(id)
	if seq == nil {
		return
	}
	held := len(e.locks)
	for _, a := range seq.Attrs {
		switch e.b.NameOf(a.Name) {
		case "SHARED":
			e.asm.Emit(il.OpAcquireShared)
			e.locks = append(e.locks, lockShared)
		case "EXCLUSIVE":
			e.asm.Emit(il.OpAcquireExclusive)
			e.locks = append(e.locks, lockExclusive)
		}
	}
	for _, st := range seq.Stmts {
		e.stmt(st)
	}
	e.release(held)
	e.locks = e.locks[:held]
}

// release emits the release of every lock above depth, innermost first.
func (e *emitter) release(depth int) {
	for i := len(e.locks) - 1; i >= depth; i-- {
		if e.locks[i] == lockExclusive {
			e.asm.Emit(il.OpReleaseExclusive)
		} else {
			e.asm.Emit(il.OpReleaseShared)
		}
	}
}

func (e *emitter) stmt(id ast.StmtID) {
	st := e.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtCall:
		call := e.b.Stmts.Call(id)
		e.exprs(call.Args)
		e.call(e.t.StmtCall.Get(id), call.Name.Span)

	case ast.StmtAssign:
		as := e.b.Stmts.Assign(id)
		e.expr(as.Target)
		e.expr(as.Value)
		e.asm.Emit(il.OpStoreVariable)

	case ast.StmtNew:
		n := e.b.Stmts.Alloc(id)
		e.exprs(n.Args)
		e.expr(n.Target)
		e.asm.Emit(il.OpNew, il.TypeArg(e.newType(n.Target)))

	case ast.StmtConnect, ast.StmtMove:
		p := e.b.Stmts.Pair(id)
		e.expr(p.From)
		e.expr(p.To)
		if st.Kind == ast.StmtConnect {
			e.asm.Emit(il.OpConnect)
		} else {
			e.asm.Emit(il.OpMove)
		}

	case ast.StmtDisconnect:
		e.expr(e.b.Stmts.Single(id).X)
		e.asm.Emit(il.OpDisconnect)

	case ast.StmtDelete:
		e.expr(e.b.Stmts.Single(id).X)
		e.asm.Emit(il.OpDelete)

	case ast.StmtSend, ast.StmtReceive:
		m := e.b.Stmts.Message(id)
		e.exprs(m.Args)
		e.target(m.Target)
		msg := il.MsgArg(e.meta.Message(e.t.MessageOf.Get(id)))
		if st.Kind == ast.StmtSend {
			e.asm.Emit(il.OpSend, msg)
		} else {
			e.asm.Emit(il.OpReceive, msg)
		}

	case ast.StmtAwait:
		// the runtime treats the spinning branch as a yield point
		start := e.asm.CreateLabel()
		e.asm.SetLabel(start)
		e.expr(e.b.Stmts.Single(id).X)
		e.asm.BranchFalse(start)

	case ast.StmtReturn:
		if x := e.b.Stmts.Single(id).X; x.IsValid() {
			e.expr(x)
		}
		e.release(0)
		e.asm.Emit(il.OpReturn)

	case ast.StmtIf:
		e.ifStmt(e.b.Stmts.If(id))

	case ast.StmtWhile:
		l := e.b.Stmts.Loop(id)
		cond := e.asm.CreateLabel()
		end := e.asm.CreateLabel()
		e.asm.SetLabel(cond)
		e.expr(l.Cond)
		e.asm.BranchFalse(end)
		e.seq(l.Body)
		e.asm.Branch(cond)
		e.asm.SetLabel(end)

	case ast.StmtRepeat:
		l := e.b.Stmts.Loop(id)
		start := e.asm.CreateLabel()
		e.asm.SetLabel(start)
		e.seq(l.Body)
		e.expr(l.Cond)
		e.asm.BranchFalse(start)

	case ast.StmtFor:
		e.forStmt(e.b.Stmts.For(id))

	case ast.StmtForeach:
		diag.ReportWarning(e.opts.Reporter, diag.GenPartialFeature, st.Span,
			"FOREACH is not yet fully supported by the code generator and runtime").Emit()
		f := e.b.Stmts.Foreach(id)
		cond := e.asm.CreateLabel()
		end := e.asm.CreateLabel()
		e.asm.SetLabel(cond)
		e.exprs(f.Vars)
		e.expr(f.Of)
		e.asm.EmitSystemCall(il.SysLoadForEachDesignators, len(f.Vars))
		e.asm.BranchFalse(end)
		e.seq(f.Body)
		e.asm.Branch(cond)
		e.asm.SetLabel(end)

	case ast.StmtBlock:
		e.seq(e.b.Stmts.Block(id))

	default:
		fail(diag.GenUnsupported, st.Span, "unsupported statement %s", st.Kind)
	}
}

// ifStmt evaluates each condition once. A false condition falls to the next
// ELSIF, then to ELSE, then to the end; every taken block jumps to the
// shared end.
func (e *emitter) ifStmt(s *ast.IfStmt) {
	end := e.asm.CreateLabel()
	next := e.asm.CreateLabel()
	e.expr(s.Cond)
	e.asm.BranchFalse(next)
	e.seq(s.Then)
	for _, ei := range s.Elsifs {
		e.asm.Branch(end)
		e.asm.SetLabel(next)
		next = e.asm.CreateLabel()
		e.expr(ei.Cond)
		e.asm.BranchFalse(next)
		e.seq(ei.Then)
	}
	if s.Else.IsValid() {
		e.asm.Branch(end)
		e.asm.SetLabel(next)
		e.seq(s.Else)
	} else {
		e.asm.SetLabel(next)
	}
	e.asm.SetLabel(end)
}

// forStmt re-evaluates TO and BY on every pass. With BY the sign of the step
// picks the <= or >= bound test.
func (e *emitter) forStmt(f *ast.ForStmt) {
	cond := e.asm.CreateLabel()
	end := e.asm.CreateLabel()
	e.expr(f.Var)
	e.expr(f.From)
	e.asm.Emit(il.OpStoreVariable)
	e.asm.SetLabel(cond)
	e.expr(f.Var)
	e.expr(f.To)
	if !f.By.IsValid() {
		e.asm.Emit(il.OpLessEqual)
		e.asm.BranchFalse(end)
		e.seq(f.Body)
		e.expr(f.Var)
		e.asm.EmitSystemCall(il.SysInc, 1)
		e.asm.Branch(cond)
		e.asm.SetLabel(end)
		return
	}

	down := e.asm.CreateLabel()
	body := e.asm.CreateLabel()
	e.expr(f.By)
	e.asm.EmitLoadInteger(0)
	e.asm.Emit(il.OpGreater)
	e.asm.BranchFalse(down)
	e.asm.Emit(il.OpLessEqual)
	e.asm.BranchFalse(end)
	e.asm.Branch(body)
	e.asm.SetLabel(down)
	e.asm.Emit(il.OpGreaterEqual)
	e.asm.BranchFalse(end)
	e.asm.SetLabel(body)
	e.seq(f.Body)
	e.expr(f.Var)
	e.expr(f.By)
	e.asm.EmitSystemCall(il.SysInc, 2)
	e.asm.Branch(cond)
	e.asm.SetLabel(end)
}

// newType is the descriptor NEW allocates for the designated variable.
func (e *emitter) newType(target ast.ExprID) il.TypeRef {
	sym := e.t.Sym(e.t.DesignatorSym.Get(target))
	if sym != nil && (sym.Kind == symbols.SymbolVariable || sym.Kind == symbols.SymbolCollection) {
		if typ := e.t.Sym(sym.Type); typ != nil && (typ.Kind.IsComponent() || e.t.IsBuiltinValue(sym.Type)) {
			return e.meta.TypeRef(sym.Type)
		}
	}
	fail(diag.GenUnsupported, e.b.Exprs.Get(target).Span, "Unsupported new statement")
	return il.TypeRef{}
}
