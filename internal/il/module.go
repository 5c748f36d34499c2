package il

import (
	"fmt"

	"fortio.org/safecast"
)

// GlobalName is the name of the descriptor that holds the system procedures.
const GlobalName = "@___@GLOBAL_DESCRIPTOR@___@"

// Module is the compiled program: descriptor tables, the components in
// declaration order and the subset marked ENTRYPOINT.
type Module struct {
	Source          string           `json:"source,omitempty" msgpack:"source,omitempty"`
	Global          ComponentID      `json:"global" msgpack:"global"`
	Components      []Component      `json:"components" msgpack:"components"`
	Interfaces      []Interface      `json:"interfaces" msgpack:"interfaces"`
	Messages        []Message        `json:"messages" msgpack:"messages"`
	Implementations []Implementation `json:"implementations" msgpack:"impls"`
	Procedures      []Procedure      `json:"procedures" msgpack:"procs"`
	Variables       []Variable       `json:"variables" msgpack:"vars"`
	// Compiled lists the components with code, in declaration order.
	Compiled    []ComponentID `json:"compiled" msgpack:"compiled"`
	EntryPoints []ComponentID `json:"entry_points" msgpack:"entry"`
}

func index(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("il table overflow: %w", err))
	}
	return v
}

func (m *Module) AddComponent(c Component) ComponentID {
	m.Components = append(m.Components, c)
	return ComponentID(index(len(m.Components) - 1))
}

func (m *Module) AddInterface(i Interface) InterfaceID {
	m.Interfaces = append(m.Interfaces, i)
	return InterfaceID(index(len(m.Interfaces) - 1))
}

func (m *Module) AddMessage(msg Message) MessageID {
	m.Messages = append(m.Messages, msg)
	return MessageID(index(len(m.Messages) - 1))
}

func (m *Module) AddImplementation(impl Implementation) ImplementationID {
	m.Implementations = append(m.Implementations, impl)
	return ImplementationID(index(len(m.Implementations) - 1))
}

func (m *Module) AddProcedure(p Procedure) ProcedureID {
	m.Procedures = append(m.Procedures, p)
	return ProcedureID(index(len(m.Procedures) - 1))
}

func (m *Module) AddVariable(v Variable) VariableID {
	m.Variables = append(m.Variables, v)
	return VariableID(index(len(m.Variables) - 1))
}

// Component returns the descriptor or nil. The pointer is invalidated by the
// next AddComponent.
func (m *Module) Component(id ComponentID) *Component {
	if int(id) >= len(m.Components) {
		return nil
	}
	return &m.Components[id]
}

func (m *Module) Implementation(id ImplementationID) *Implementation {
	if int(id) >= len(m.Implementations) {
		return nil
	}
	return &m.Implementations[id]
}

func (m *Module) Procedure(id ProcedureID) *Procedure {
	if int(id) >= len(m.Procedures) {
		return nil
	}
	return &m.Procedures[id]
}

// FindComponent looks a component up by name among the compiled ones.
func (m *Module) FindComponent(name string) (ComponentID, bool) {
	for _, id := range m.Compiled {
		if m.Components[id].Name == name {
			return id, true
		}
	}
	return 0, false
}

// TypeName renders a type reference with descriptor names.
func (m *Module) TypeName(t TypeRef) string {
	switch t.Kind {
	case TypeComponent:
		if int(t.Ref) < len(m.Components) {
			return m.Components[t.Ref].Name
		}
	case TypeInterface:
		if int(t.Ref) < len(m.Interfaces) {
			return m.Interfaces[t.Ref].Name
		}
	default:
		return t.Kind.String()
	}
	return fmt.Sprintf("%s#%d", t.Kind, t.Ref)
}

// Validate checks that every reference points into its table.
func (m *Module) Validate() error {
	check := func(what string, ref uint32, n int) error {
		if int(ref) >= n {
			return fmt.Errorf("%s #%d out of range (%d)", what, ref, n)
		}
		return nil
	}
	typ := func(t TypeRef) error {
		switch t.Kind {
		case TypeComponent:
			return check("component", t.Ref, len(m.Components))
		case TypeInterface:
			return check("interface", t.Ref, len(m.Interfaces))
		}
		return nil
	}
	code := func(where string, stream []Instruction) error {
		for pc, in := range stream {
			for _, a := range in.Args {
				var err error
				switch a.Kind {
				case ArgVariable:
					err = check("variable", a.Ref, len(m.Variables))
				case ArgInterface:
					err = check("interface", a.Ref, len(m.Interfaces))
				case ArgMessage:
					err = check("message", a.Ref, len(m.Messages))
				case ArgProcedure:
					err = check("procedure", a.Ref, len(m.Procedures))
				case ArgType:
					err = typ(a.Type)
				case ArgJump:
					if target := int64(pc) + a.Int; target < 0 || target > int64(len(stream)) {
						err = fmt.Errorf("jump %+d at %d leaves the stream", a.Int, pc)
					}
				}
				if err != nil {
					return fmt.Errorf("%s[%d] %s: %w", where, pc, in.Op, err)
				}
			}
		}
		return nil
	}
	decls := func(where string, d *Declarations) error {
		for _, v := range d.Variables {
			if err := check("variable", uint32(v), len(m.Variables)); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
		}
		for _, p := range d.Procedures {
			if err := check("procedure", uint32(p), len(m.Procedures)); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
		}
		return code(where+".init", d.Init)
	}

	for i := range m.Components {
		c := &m.Components[i]
		for _, id := range append(append([]InterfaceID(nil), c.Offers...), c.Requires...) {
			if err := check("interface", uint32(id), len(m.Interfaces)); err != nil {
				return fmt.Errorf("component %s: %w", c.Name, err)
			}
		}
		for _, id := range c.Impls {
			if err := check("implementation", uint32(id), len(m.Implementations)); err != nil {
				return fmt.Errorf("component %s: %w", c.Name, err)
			}
		}
		if err := decls(c.Name, &c.Decls); err != nil {
			return err
		}
		for _, s := range []struct {
			name   string
			stream []Instruction
		}{{"begin", c.Begin}, {"activity", c.Activity}, {"finally", c.Finally}} {
			if err := code(c.Name+"."+s.name, s.stream); err != nil {
				return err
			}
		}
	}
	for i := range m.Implementations {
		impl := &m.Implementations[i]
		where := fmt.Sprintf("implementation #%d", i)
		if err := check("interface", uint32(impl.Iface), len(m.Interfaces)); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if err := decls(where, &impl.Decls); err != nil {
			return err
		}
		if err := code(where+".begin", impl.Begin); err != nil {
			return err
		}
	}
	for i := range m.Procedures {
		p := &m.Procedures[i]
		if err := typ(p.Return); err != nil {
			return fmt.Errorf("procedure %s: %w", p.Name, err)
		}
		if err := decls(p.Name, &p.Decls); err != nil {
			return err
		}
		if err := code(p.Name+".body", p.Body); err != nil {
			return err
		}
	}
	for _, iface := range m.Interfaces {
		for _, id := range iface.Messages {
			if err := check("message", uint32(id), len(m.Messages)); err != nil {
				return fmt.Errorf("interface %s: %w", iface.Name, err)
			}
		}
	}
	for _, v := range m.Variables {
		if err := typ(v.Type); err != nil {
			return fmt.Errorf("variable %s: %w", v.Name, err)
		}
	}
	for _, id := range append(append([]ComponentID(nil), m.Compiled...), m.EntryPoints...) {
		if err := check("component", uint32(id), len(m.Components)); err != nil {
			return err
		}
	}
	return nil
}
