package codegen

import (
	"composita/internal/diag"
	"composita/internal/il"
	"composita/internal/source"
	"composita/internal/symbols"
)

// Metadata maps resolved symbols to their descriptors in the module tables.
// Every descriptor is created before any code is emitted, so streams may
// reference components and procedures declared later in the source.
type Metadata struct {
	m *il.Module
	t *symbols.Table

	components map[symbols.SymbolID]il.ComponentID
	interfaces map[symbols.SymbolID]il.InterfaceID
	messages   map[symbols.SymbolID]il.MessageID
	impls      map[symbols.SymbolID]il.ImplementationID
	procs      map[symbols.SymbolID]il.ProcedureID
	vars       map[symbols.SymbolID]il.VariableID
}

// BuildMetadata fills m with one descriptor per registered symbol. The order
// of the tables follows the registries of t.
func BuildMetadata(m *il.Module, t *symbols.Table) *Metadata {
	md := &Metadata{
		m:          m,
		t:          t,
		components: make(map[symbols.SymbolID]il.ComponentID, len(t.Components)+1),
		interfaces: make(map[symbols.SymbolID]il.InterfaceID, len(t.Interfaces)+1),
		messages:   make(map[symbols.SymbolID]il.MessageID, len(t.Messages)+2),
		impls:      make(map[symbols.SymbolID]il.ImplementationID, len(t.Implementations)),
		procs:      make(map[symbols.SymbolID]il.ProcedureID, len(t.Procedures)),
		vars:       make(map[symbols.SymbolID]il.VariableID, len(t.Variables)+len(t.Collections)),
	}

	m.Global = m.AddComponent(il.Component{Name: il.GlobalName})
	md.components[t.AnyComponent] = m.AddComponent(il.Component{Name: t.Name(t.AnyComponent)})
	md.interfaces[t.AnyRequiredInterface] = m.AddInterface(il.Interface{Name: t.Name(t.AnyRequiredInterface)})
	md.messages[t.FinishMessage] = m.AddMessage(il.Message{Name: t.Name(t.FinishMessage)})
	md.messages[t.AnyMessage] = m.AddMessage(il.Message{Name: t.Name(t.AnyMessage)})

	var system []il.ProcedureID
	for _, id := range t.SystemProcedures() {
		sym := t.Sym(id)
		p := il.Procedure{Name: t.Name(id), Return: md.TypeRef(sym.Type)}
		for _, param := range sym.Params {
			p.Params = append(p.Params, il.Variable{Name: t.Describe(param), Type: md.TypeRef(param), Mutable: true})
		}
		md.procs[id] = m.AddProcedure(p)
		system = append(system, md.procs[id])
	}
	m.Components[m.Global].Decls.Procedures = system

	for _, id := range t.Interfaces {
		md.interfaces[id] = m.AddInterface(il.Interface{Name: t.Name(id)})
	}
	for _, id := range t.Components {
		md.components[id] = m.AddComponent(il.Component{Name: t.Name(id)})
	}
	for _, id := range t.Messages {
		msg := il.Message{Name: t.Name(id)}
		for _, param := range t.Sym(id).Params {
			msg.Data = append(msg.Data, md.TypeRef(param))
		}
		md.messages[id] = m.AddMessage(msg)
	}
	for _, id := range t.Interfaces {
		iface := &m.Interfaces[md.interfaces[id]]
		for _, msg := range t.InScope(t.Sym(id).Own, symbols.SymbolMessage) {
			iface.Messages = append(iface.Messages, md.messages[msg])
		}
	}
	for _, id := range t.Implementations {
		md.impls[id] = m.AddImplementation(il.Implementation{Iface: md.Interface(t.Sym(id).Iface)})
	}
	for _, id := range t.Variables {
		sym := t.Sym(id)
		v := il.Variable{Name: t.Name(id), Type: md.TypeRef(sym.Type), Mutable: sym.Mutable()}
		if sym.Type == t.Text {
			v.Index = []il.TypeRef{il.Builtin(il.TypeInteger)}
		}
		md.vars[id] = m.AddVariable(v)
	}
	for _, id := range t.Collections {
		sym := t.Sym(id)
		v := il.Variable{Name: t.Name(id), Type: md.TypeRef(sym.Type), Mutable: sym.Mutable()}
		for _, param := range sym.Params {
			v.Index = append(v.Index, md.TypeRef(param))
		}
		md.vars[id] = m.AddVariable(v)
	}
	for _, id := range t.Procedures {
		sym := t.Sym(id)
		if sym.Flags&symbols.SymbolFlagBuiltin != 0 {
			continue
		}
		p := il.Procedure{Name: t.Name(id), Return: md.TypeRef(sym.Type)}
		for _, param := range t.InScope(sym.Own, symbols.SymbolVariable) {
			ps := t.Sym(param)
			if ps.Flags&symbols.SymbolFlagParam == 0 {
				continue
			}
			p.Params = append(p.Params, il.Variable{Name: t.Name(param), Type: md.TypeRef(ps.Type), Mutable: ps.Mutable()})
		}
		md.procs[id] = m.AddProcedure(p)
	}

	for _, id := range t.Components {
		md.fillComponent(id)
	}
	for _, id := range t.Implementations {
		md.Declarations(id, &m.Implementations[md.impls[id]].Decls)
	}
	for _, id := range t.Procedures {
		if pid, ok := md.procs[id]; ok && t.Sym(id).Flags&symbols.SymbolFlagBuiltin == 0 {
			md.Declarations(id, &m.Procedures[pid].Decls)
		}
	}
	return md
}

func (md *Metadata) fillComponent(id symbols.SymbolID) {
	c := &md.m.Components[md.components[id]]
	if g := md.t.Sym(id).Generic; g != nil {
		for _, d := range g.Offered {
			c.Offers = append(c.Offers, md.Interface(d.Iface))
		}
		for _, d := range g.Required {
			c.Requires = append(c.Requires, md.Interface(d.Iface))
		}
	}
	for _, impl := range md.t.InScope(md.t.Sym(id).Own, symbols.SymbolImplementation) {
		c.Impls = append(c.Impls, md.impls[impl])
	}
	md.Declarations(id, &c.Decls)
}

// Declarations lists the variables, collections and procedures declared by
// owner. Variables of the anonymous blocks below the owner scope (FOREACH
// designators) are listed with the owner.
func (md *Metadata) Declarations(owner symbols.SymbolID, d *il.Declarations) {
	scope := md.t.Sym(owner).Own
	for _, kind := range []symbols.SymbolKind{symbols.SymbolVariable, symbols.SymbolCollection} {
		md.walkBlocks(scope, func(s symbols.ScopeID) {
			for _, v := range md.t.InScope(s, kind) {
				d.Variables = append(d.Variables, md.vars[v])
			}
		})
	}
	for _, p := range md.t.InScope(scope, symbols.SymbolProcedure) {
		d.Procedures = append(d.Procedures, md.procs[p])
	}
}

func (md *Metadata) walkBlocks(scope symbols.ScopeID, fn func(symbols.ScopeID)) {
	s := md.t.Scopes.Get(scope)
	if s == nil {
		return
	}
	fn(scope)
	for _, child := range s.Children {
		if md.t.ScopeKindOf(child) == symbols.ScopeBlock {
			md.walkBlocks(child, fn)
		}
	}
}

func (md *Metadata) missing(what string, id symbols.SymbolID) {
	fail(diag.GenNoDescriptor, md.span(id), "no %s descriptor for %s", what, md.t.Name(id))
}

func (md *Metadata) span(id symbols.SymbolID) source.Span {
	if sym := md.t.Sym(id); sym != nil {
		return sym.Span
	}
	return source.Span{}
}

func (md *Metadata) Component(id symbols.SymbolID) il.ComponentID {
	c, ok := md.components[id]
	if !ok {
		md.missing("component", id)
	}
	return c
}

func (md *Metadata) Interface(id symbols.SymbolID) il.InterfaceID {
	i, ok := md.interfaces[id]
	if !ok {
		md.missing("interface", id)
	}
	return i
}

func (md *Metadata) Message(id symbols.SymbolID) il.MessageID {
	msg, ok := md.messages[id]
	if !ok {
		md.missing("message", id)
	}
	return msg
}

func (md *Metadata) Implementation(id symbols.SymbolID) il.ImplementationID {
	impl, ok := md.impls[id]
	if !ok {
		md.missing("implementation", id)
	}
	return impl
}

func (md *Metadata) Procedure(id symbols.SymbolID) il.ProcedureID {
	p, ok := md.procs[id]
	if !ok {
		md.missing("procedure", id)
	}
	return p
}

func (md *Metadata) Variable(id symbols.SymbolID) il.VariableID {
	v, ok := md.vars[id]
	if !ok {
		md.missing("variable", id)
	}
	return v
}

// TypeRef converts a type symbol. Structural ANY(...) types share the
// any-component descriptor.
func (md *Metadata) TypeRef(id symbols.SymbolID) il.TypeRef {
	t := md.t
	switch id {
	case t.Void:
		return il.Builtin(il.TypeVoid)
	case t.Integer:
		return il.Builtin(il.TypeInteger)
	case t.Real:
		return il.Builtin(il.TypeReal)
	case t.Boolean:
		return il.Builtin(il.TypeBoolean)
	case t.Character:
		return il.Builtin(il.TypeCharacter)
	case t.Text:
		return il.Builtin(il.TypeText)
	}
	sym := t.Sym(id)
	switch {
	case sym == nil:
		fail(diag.GenNoDescriptor, source.Span{}, "missing type symbol %d", id)
	case sym.Kind == symbols.SymbolGenericComponent:
		return il.TypeRef{Kind: il.TypeComponent, Ref: uint32(md.Component(t.AnyComponent))}
	case sym.Kind == symbols.SymbolComponent:
		return il.TypeRef{Kind: il.TypeComponent, Ref: uint32(md.Component(id))}
	case sym.Kind == symbols.SymbolInterface:
		return il.TypeRef{Kind: il.TypeInterface, Ref: uint32(md.Interface(id))}
	}
	fail(diag.GenNoDescriptor, sym.Span, "cannot convert %s to a type descriptor", t.Describe(id))
	return il.TypeRef{}
}
