package il

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// DumpModule writes a human-readable listing of the compiled components.
// Jumps are shown with their absolute target.
func DumpModule(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	d := dumper{w: bw, m: m}

	if m.Source != "" {
		fmt.Fprintf(bw, "module %s\n", m.Source)
	}
	for i := range m.Interfaces {
		iface := &m.Interfaces[i]
		if strings.HasPrefix(iface.Name, "@") {
			continue
		}
		fmt.Fprintf(bw, "interface %s\n", iface.Name)
		for _, id := range iface.Messages {
			fmt.Fprintf(bw, "  message %s\n", d.message(id))
		}
	}
	for _, id := range m.Compiled {
		d.component(id)
	}
	return bw.Flush()
}

type dumper struct {
	w *bufio.Writer
	m *Module
}

func (d *dumper) message(id MessageID) string {
	if int(id) >= len(d.m.Messages) {
		return fmt.Sprintf("msg#%d", id)
	}
	msg := &d.m.Messages[id]
	if len(msg.Data) == 0 {
		return msg.Name
	}
	types := make([]string, len(msg.Data))
	for i, t := range msg.Data {
		types[i] = d.m.TypeName(t)
	}
	return msg.Name + "(" + strings.Join(types, ", ") + ")"
}

func (d *dumper) variable(v *Variable) string {
	var sb strings.Builder
	sb.WriteString(v.Name)
	if len(v.Index) > 0 {
		idx := make([]string, len(v.Index))
		for i, t := range v.Index {
			idx[i] = d.m.TypeName(t)
		}
		sb.WriteString("[" + strings.Join(idx, ", ") + "]")
	}
	sb.WriteString(": " + d.m.TypeName(v.Type))
	if !v.Mutable {
		sb.WriteString(" const")
	}
	return sb.String()
}

func (d *dumper) ifaceNames(ids []InterfaceID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = d.m.Interfaces[id].Name
	}
	return strings.Join(names, ", ")
}

func (d *dumper) component(id ComponentID) {
	c := &d.m.Components[id]
	fmt.Fprintf(d.w, "component %s", c.Name)
	if slices.Contains(d.m.EntryPoints, id) {
		fmt.Fprint(d.w, " {ENTRYPOINT}")
	}
	if len(c.Offers) > 0 {
		fmt.Fprintf(d.w, " offers %s", d.ifaceNames(c.Offers))
	}
	if len(c.Requires) > 0 {
		fmt.Fprintf(d.w, " requires %s", d.ifaceNames(c.Requires))
	}
	fmt.Fprintln(d.w)
	d.decls("  ", &c.Decls)
	for _, implID := range c.Impls {
		impl := &d.m.Implementations[implID]
		fmt.Fprintf(d.w, "  implementation %s\n", d.m.Interfaces[impl.Iface].Name)
		d.decls("    ", &impl.Decls)
		d.stream("    ", "begin", impl.Begin)
	}
	d.stream("  ", "begin", c.Begin)
	d.stream("  ", "activity", c.Activity)
	d.stream("  ", "finally", c.Finally)
}

func (d *dumper) decls(indent string, decls *Declarations) {
	for _, v := range decls.Variables {
		fmt.Fprintf(d.w, "%svar %s\n", indent, d.variable(&d.m.Variables[v]))
	}
	d.stream(indent, "init", decls.Init)
	for _, pid := range decls.Procedures {
		p := &d.m.Procedures[pid]
		params := make([]string, len(p.Params))
		for i := range p.Params {
			params[i] = d.variable(&p.Params[i])
		}
		fmt.Fprintf(d.w, "%sprocedure %s(%s)", indent, p.Name, strings.Join(params, "; "))
		if p.Return.Kind != TypeVoid {
			fmt.Fprintf(d.w, ": %s", d.m.TypeName(p.Return))
		}
		fmt.Fprintln(d.w)
		d.decls(indent+"  ", &p.Decls)
		d.stream(indent+"  ", "body", p.Body)
	}
}

func (d *dumper) stream(indent, label string, code []Instruction) {
	if len(code) == 0 {
		return
	}
	fmt.Fprintf(d.w, "%s%s:\n", indent, label)
	for pc, in := range code {
		fmt.Fprintf(d.w, "%s  %04d %s", indent, pc, in.Op)
		for _, a := range in.Args {
			fmt.Fprintf(d.w, " %s", d.arg(pc, a))
		}
		fmt.Fprintln(d.w)
	}
}

func (d *dumper) arg(pc int, a Arg) string {
	switch a.Kind {
	case ArgJump:
		return fmt.Sprintf("%+d -> %04d", a.Int, int64(pc)+a.Int)
	case ArgVariable:
		if int(a.Ref) < len(d.m.Variables) {
			return d.m.Variables[a.Ref].Name
		}
	case ArgInterface:
		if int(a.Ref) < len(d.m.Interfaces) {
			return d.m.Interfaces[a.Ref].Name
		}
	case ArgMessage:
		return d.message(MessageID(a.Ref))
	case ArgProcedure:
		if int(a.Ref) < len(d.m.Procedures) {
			return d.m.Procedures[a.Ref].Name
		}
	case ArgType:
		return d.m.TypeName(a.Type)
	}
	return a.String()
}
