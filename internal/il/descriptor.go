package il

// Descriptors reference each other through indices into the Module tables,
// so one interface or message descriptor is shared by every component that
// mentions it.
type (
	ComponentID      uint32
	InterfaceID      uint32
	MessageID        uint32
	ImplementationID uint32
	ProcedureID      uint32
	VariableID       uint32
)

// TypeKind classifies a type reference.
type TypeKind uint8

const (
	// TypeVoid marks the missing return type of a procedure.
	TypeVoid TypeKind = iota
	TypeInteger
	TypeReal
	TypeBoolean
	TypeCharacter
	TypeText
	// TypeComponent refers to Module.Components[Ref].
	TypeComponent
	// TypeInterface refers to Module.Interfaces[Ref].
	TypeInterface
)

var typeKindNames = [...]string{
	TypeVoid:      "VOID",
	TypeInteger:   "INTEGER",
	TypeReal:      "REAL",
	TypeBoolean:   "BOOLEAN",
	TypeCharacter: "CHARACTER",
	TypeText:      "TEXT",
	TypeComponent: "COMPONENT",
	TypeInterface: "INTERFACE",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "type(?)"
}

// IsBuiltin reports whether k is one of the five value types.
func (k TypeKind) IsBuiltin() bool {
	return k >= TypeInteger && k <= TypeText
}

// TypeRef is a builtin value type or a reference to a component or
// interface descriptor.
type TypeRef struct {
	Kind TypeKind `json:"kind" msgpack:"k"`
	Ref  uint32   `json:"ref,omitempty" msgpack:"r,omitempty"`
}

// Builtin returns the reference of a builtin value type.
func Builtin(k TypeKind) TypeRef { return TypeRef{Kind: k} }

// Variable describes a variable, a collection variable or a parameter.
// Collections and TEXT carry their index types.
type Variable struct {
	Name    string    `json:"name" msgpack:"name"`
	Type    TypeRef   `json:"type" msgpack:"type"`
	Mutable bool      `json:"mutable" msgpack:"mut"`
	Index   []TypeRef `json:"index,omitempty" msgpack:"index,omitempty"`
}

// Message is one message of a protocol with its payload types.
type Message struct {
	Name string    `json:"name" msgpack:"name"`
	Data []TypeRef `json:"data,omitempty" msgpack:"data,omitempty"`
}

type Interface struct {
	Name     string      `json:"name" msgpack:"name"`
	Messages []MessageID `json:"messages,omitempty" msgpack:"messages,omitempty"`
}

// Declarations are the variables and procedures declared by a component,
// implementation or procedure, with the code initialising its constants.
type Declarations struct {
	Variables  []VariableID  `json:"variables,omitempty" msgpack:"vars,omitempty"`
	Procedures []ProcedureID `json:"procedures,omitempty" msgpack:"procs,omitempty"`
	Init       []Instruction `json:"init,omitempty" msgpack:"init,omitempty"`
}

type Procedure struct {
	Name   string        `json:"name" msgpack:"name"`
	Return TypeRef       `json:"return" msgpack:"ret"`
	Params []Variable    `json:"params,omitempty" msgpack:"params,omitempty"`
	Decls  Declarations  `json:"declarations" msgpack:"decls"`
	Body   []Instruction `json:"body,omitempty" msgpack:"body,omitempty"`
}

type Implementation struct {
	Iface InterfaceID   `json:"interface" msgpack:"iface"`
	Decls Declarations  `json:"declarations" msgpack:"decls"`
	Begin []Instruction `json:"begin,omitempty" msgpack:"begin,omitempty"`
}

// Component carries its signature, implementations, declarations and the
// BEGIN, ACTIVITY and FINALLY streams.
type Component struct {
	Name     string             `json:"name" msgpack:"name"`
	Offers   []InterfaceID      `json:"offers,omitempty" msgpack:"offers,omitempty"`
	Requires []InterfaceID      `json:"requires,omitempty" msgpack:"requires,omitempty"`
	Impls    []ImplementationID `json:"implementations,omitempty" msgpack:"impls,omitempty"`
	Decls    Declarations       `json:"declarations" msgpack:"decls"`
	Begin    []Instruction      `json:"begin,omitempty" msgpack:"begin,omitempty"`
	Activity []Instruction      `json:"activity,omitempty" msgpack:"activity,omitempty"`
	Finally  []Instruction      `json:"finally,omitempty" msgpack:"finally,omitempty"`
}
