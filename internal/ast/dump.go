package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented outline of the file: items, statements and
// expressions in a compact prefix form.
func Dump(w io.Writer, b *Builder, file FileID) error {
	d := dumper{b: b}
	f := b.Files.Get(file)
	if f == nil {
		return fmt.Errorf("ast: unknown file %d", file)
	}
	for _, it := range f.Items {
		d.item(it, 0)
	}
	_, err := io.WriteString(w, d.sb.String())
	return err
}

type dumper struct {
	b  *Builder
	sb strings.Builder
}

func (d *dumper) line(depth int, format string, args ...any) {
	d.sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *dumper) name(id Ident) string { return d.b.NameOf(id.Name) }

func (d *dumper) item(id ItemID, depth int) {
	it := d.b.Items.Get(id)
	switch it.Kind {
	case ItemComponent:
		c := d.b.Items.Component(id)
		d.line(depth, "COMPONENT %s%s%s%s", d.name(c.Name), d.attrs(c.Attrs),
			d.ifaces(" OFFERS ", c.Offers), d.ifaces(" REQUIRES ", c.Requires))
		if c.Body == nil {
			return
		}
		for _, decl := range c.Body.Decls {
			d.item(decl, depth+1)
		}
		for _, im := range c.Body.Impls {
			d.item(im, depth+1)
		}
		d.block(depth+1, "BEGIN", c.Body.Begin)
		d.block(depth+1, "ACTIVITY", c.Body.Activity)
		d.block(depth+1, "FINALLY", c.Body.Finally)
	case ItemInterface:
		i := d.b.Items.Interface(id)
		d.line(depth, "INTERFACE %s", d.name(i.Name))
		for _, m := range d.b.Protos.Messages(i.Protocol) {
			msg := d.b.Protos.Get(m).Msg
			d.line(depth+1, "%s %s%s", msg.Dir, d.name(msg.Name), d.params(msg.Params))
		}
	case ItemProcedure:
		p := d.b.Items.Procedure(id)
		parts := make([]string, 0, len(p.Params))
		for _, pp := range p.Params {
			names := make([]string, 0, len(pp.Names))
			for _, n := range pp.Names {
				names = append(names, d.name(d.b.Decls.Get(n).Name))
			}
			prefix := ""
			if pp.Mutable {
				prefix = "VARIABLE "
			}
			parts = append(parts, prefix+strings.Join(names, ", ")+": "+d.typ(pp.Type))
		}
		ret := ""
		if p.Return.IsValid() {
			ret = ": " + d.typ(p.Return)
		}
		d.line(depth, "PROCEDURE %s(%s)%s", d.name(p.Name), strings.Join(parts, "; "), ret)
		for _, decl := range p.Decls {
			d.item(decl, depth+1)
		}
		d.block(depth+1, "BEGIN", p.Body)
	case ItemImplementation:
		im := d.b.Items.Implementation(id)
		d.line(depth, "IMPLEMENTATION %s", d.name(im.Name))
		for _, decl := range im.Decls {
			d.item(decl, depth+1)
		}
		d.block(depth+1, "BEGIN", im.Body)
	case ItemConstants:
		for _, c := range d.b.Items.ConstantList(id).Consts {
			d.line(depth, "CONSTANT %s = %s", d.name(d.b.Decls.Get(c.Decl).Name), d.expr(c.Value))
		}
	case ItemVariables:
		for _, v := range d.b.Items.VariableList(id).Vars {
			names := make([]string, 0, len(v.Names))
			for _, n := range v.Names {
				decl := d.b.Decls.Get(n)
				s := d.name(decl.Name)
				if len(decl.Params) > 0 {
					s += "[" + strings.Trim(d.params(decl.Params), "()") + "]"
				}
				names = append(names, s)
			}
			d.line(depth, "VARIABLE %s: %s%s", strings.Join(names, ", "), d.typ(v.Type), d.attrs(v.Attrs))
		}
	}
}

func (d *dumper) attrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, d.b.NameOf(a.Name))
	}
	return " {" + strings.Join(names, ", ") + "}"
}

func (d *dumper) ifaces(prefix string, decls []IfaceDecl) string {
	if len(decls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, d.name(decl.Name)+cardString(decl.Card))
	}
	return prefix + strings.Join(parts, ", ")
}

func cardString(c Cardinality) string {
	if !c.Explicit {
		return ""
	}
	hi := "*"
	if c.Max != Unbounded {
		hi = strconv.FormatUint(uint64(c.Max), 10)
	}
	if c.Min == c.Max {
		return "[" + hi + "]"
	}
	return fmt.Sprintf("[%d..%s]", c.Min, hi)
}

func (d *dumper) params(ps []Param) string {
	if len(ps) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		names := make([]string, 0, len(p.Names))
		for _, n := range p.Names {
			names = append(names, d.name(n))
		}
		parts = append(parts, strings.Join(names, ", ")+": "+d.typ(p.Type))
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

func (d *dumper) typ(id TypeID) string {
	t := d.b.Types.Get(id)
	if t == nil {
		return "?"
	}
	if t.Kind == TypeNamed {
		return d.name(t.Name)
	}
	if len(t.Offered) == 0 && len(t.Required) == 0 {
		return "ANY"
	}
	s := "ANY(" + strings.TrimPrefix(d.ifaces(" ", t.Offered), " ")
	if len(t.Required) > 0 {
		s += " |" + d.ifaces(" ", t.Required)
	}
	return s + ")"
}

func (d *dumper) block(depth int, label string, seq SeqID) {
	s := d.b.Stmts.Seq(seq)
	if s == nil {
		return
	}
	d.line(depth, "%s%s", label, d.attrs(s.Attrs))
	for _, st := range s.Stmts {
		d.stmt(st, depth+1)
	}
}

func (d *dumper) stmt(id StmtID, depth int) {
	st := d.b.Stmts.Get(id)
	switch st.Kind {
	case StmtCall:
		c := d.b.Stmts.Call(id)
		d.line(depth, "call %s%s", d.name(c.Name), d.args(c.Args))
	case StmtAssign:
		a := d.b.Stmts.Assign(id)
		d.line(depth, "%s := %s", d.expr(a.Target), d.expr(a.Value))
	case StmtNew:
		n := d.b.Stmts.Alloc(id)
		d.line(depth, "NEW %s%s", d.expr(n.Target), d.args(n.Args))
	case StmtConnect, StmtMove:
		p := d.b.Stmts.Pair(id)
		d.line(depth, "%s %s, %s", strings.ToUpper(st.Kind.String()), d.expr(p.From), d.expr(p.To))
	case StmtDisconnect, StmtDelete, StmtAwait, StmtReturn:
		s := d.b.Stmts.Single(id)
		d.line(depth, "%s %s", strings.ToUpper(st.Kind.String()), d.expr(s.X))
	case StmtSend, StmtReceive:
		m := d.b.Stmts.Message(id)
		sym := "!"
		if st.Kind == StmtReceive {
			sym = "?"
		}
		d.line(depth, "%s %s %s%s", d.expr(m.Target), sym, d.name(m.Msg), d.args(m.Args))
	case StmtIf:
		i := d.b.Stmts.If(id)
		d.block(depth, "IF "+d.expr(i.Cond), i.Then)
		for _, e := range i.Elsifs {
			d.block(depth, "ELSIF "+d.expr(e.Cond), e.Then)
		}
		d.block(depth, "ELSE", i.Else)
	case StmtWhile:
		l := d.b.Stmts.Loop(id)
		d.block(depth, "WHILE "+d.expr(l.Cond), l.Body)
	case StmtRepeat:
		l := d.b.Stmts.Loop(id)
		d.block(depth, "REPEAT UNTIL "+d.expr(l.Cond), l.Body)
	case StmtFor:
		f := d.b.Stmts.For(id)
		head := fmt.Sprintf("FOR %s := %s TO %s", d.expr(f.Var), d.expr(f.From), d.expr(f.To))
		if f.By.IsValid() {
			head += " BY " + d.expr(f.By)
		}
		d.block(depth, head, f.Body)
	case StmtForeach:
		f := d.b.Stmts.Foreach(id)
		vars := make([]string, 0, len(f.Vars))
		for _, v := range f.Vars {
			vars = append(vars, d.expr(v))
		}
		d.block(depth, "FOREACH "+strings.Join(vars, ", ")+" OF "+d.expr(f.Of), f.Body)
	case StmtBlock:
		d.block(depth, "BEGIN", d.b.Stmts.Block(id))
	}
}

func (d *dumper) args(args []ExprID) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, d.expr(a))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// expr печатает выражение в префиксной форме: (op a b).
func (d *dumper) expr(id ExprID) string {
	x := d.b.Exprs.Get(id)
	if x == nil {
		return "_"
	}
	e := d.b.Exprs
	switch x.Kind {
	case ExprBinary:
		bin := e.Binary(id)
		return "(" + bin.Op.String() + " " + d.expr(bin.Left) + " " + d.expr(bin.Right) + ")"
	case ExprOffersRequires:
		o := e.OffersRequiresOf(id)
		kw := " OFFERS "
		if o.Requires {
			kw = " REQUIRES "
		}
		return "(" + d.expr(o.Subject) + d.ifaces(kw, o.Ifaces) + ")"
	case ExprTypeCheck:
		tc := e.TypeCheck(id)
		return "(IS " + d.expr(tc.Subject) + " " + d.typ(tc.Type) + ")"
	case ExprUnary:
		return d.expr(e.Unary(id).X)
	case ExprSign:
		s := e.Sign(id)
		if s.Negative {
			return "(neg " + d.expr(s.X) + ")"
		}
		return d.expr(s.X)
	case ExprTermChain, ExprFactorChain:
		c := e.Chain(id)
		out := d.expr(c.Left)
		for _, l := range c.Links {
			out = "(" + l.Op.String() + " " + out + " " + d.expr(l.X) + ")"
		}
		return out
	case ExprNot:
		return "(~ " + d.expr(e.Inner(id)) + ")"
	case ExprParen:
		return d.expr(e.Inner(id))
	case ExprInt:
		return strconv.FormatInt(e.Literal(id).Int, 10)
	case ExprReal:
		return strconv.FormatFloat(e.Literal(id).Real, 'g', -1, 64)
	case ExprChar:
		return strconv.QuoteRune(e.Literal(id).Char)
	case ExprText:
		return strconv.Quote(e.Literal(id).Text)
	case ExprReceiveTest, ExprInputTest, ExprExists:
		t := e.Test(id)
		head := map[ExprKind]string{ExprReceiveTest: "?", ExprInputTest: "INPUT", ExprExists: "EXISTS"}[x.Kind]
		out := "(" + head + " " + d.expr(t.Target)
		switch {
		case x.Kind == ExprExists:
		case t.Pattern == PatternAny:
			out += " ANY"
		case t.Pattern == PatternFinish:
			out += " FINISH"
		default:
			out += " " + d.name(t.Msg)
		}
		return out + ")"
	case ExprCall:
		c := e.Call(id)
		return d.name(c.Name) + d.args(c.Args)
	case ExprName:
		return d.name(*e.Name(id))
	case ExprIndex:
		ix := e.Index(id)
		return d.name(ix.Name) + "[" + strings.Trim(d.args(ix.Indices), "()") + "]"
	case ExprBaseTarget:
		bt := e.BaseTarget(id)
		return d.expr(bt.Base) + "(" + d.expr(bt.Target) + ")"
	case ExprDesignatorType:
		dt := e.DesignatorType(id)
		return d.expr(dt.X) + "(" + d.typ(dt.Type) + ")"
	}
	return "?"
}
