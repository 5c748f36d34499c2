package il

import (
	"fmt"
	"strconv"
)

// ArgKind tells which field of an Arg is meaningful.
type ArgKind uint8

const (
	ArgInteger ArgKind = iota
	ArgReal
	ArgCharacter
	ArgText
	ArgBoolean
	// ArgJump is a displacement relative to the branch instruction.
	ArgJump
	// ArgSysCall holds the service in Sys and the argument count in Int.
	ArgSysCall
	ArgVariable
	ArgInterface
	ArgMessage
	ArgProcedure
	// ArgType is a type reference, used by NEW and IS.
	ArgType
)

// Arg is one typed instruction argument.
type Arg struct {
	Kind ArgKind `json:"kind" msgpack:"k"`
	Int  int64   `json:"int,omitempty" msgpack:"i,omitempty"`
	Real float64 `json:"real,omitempty" msgpack:"f,omitempty"`
	Text string  `json:"text,omitempty" msgpack:"s,omitempty"`
	Bool bool    `json:"bool,omitempty" msgpack:"b,omitempty"`
	Sys  SysCall `json:"sys,omitempty" msgpack:"y,omitempty"`
	Ref  uint32  `json:"ref,omitempty" msgpack:"r,omitempty"`
	Type TypeRef `json:"type,omitzero" msgpack:"t,omitempty"`
}

// Instruction is an opcode with its arguments.
type Instruction struct {
	Op   OpCode `json:"op" msgpack:"op"`
	Args []Arg  `json:"args,omitempty" msgpack:"args,omitempty"`
}

// Jump returns the displacement of a patched branch.
func (in Instruction) Jump() (int64, bool) {
	for _, a := range in.Args {
		if a.Kind == ArgJump {
			return a.Int, true
		}
	}
	return 0, false
}

func IntArg(v int64) Arg          { return Arg{Kind: ArgInteger, Int: v} }
func RealArg(v float64) Arg       { return Arg{Kind: ArgReal, Real: v} }
func CharArg(r rune) Arg          { return Arg{Kind: ArgCharacter, Int: int64(r)} }
func TextArg(s string) Arg        { return Arg{Kind: ArgText, Text: s} }
func BoolArg(b bool) Arg          { return Arg{Kind: ArgBoolean, Bool: b} }
func JumpArg(d int64) Arg         { return Arg{Kind: ArgJump, Int: d} }
func TypeArg(t TypeRef) Arg       { return Arg{Kind: ArgType, Type: t} }
func VarArg(id VariableID) Arg    { return Arg{Kind: ArgVariable, Ref: uint32(id)} }
func MsgArg(id MessageID) Arg     { return Arg{Kind: ArgMessage, Ref: uint32(id)} }
func ProcArg(id ProcedureID) Arg  { return Arg{Kind: ArgProcedure, Ref: uint32(id)} }
func IfaceArg(id InterfaceID) Arg { return Arg{Kind: ArgInterface, Ref: uint32(id)} }

// SysArg is the argument of OpSystemCall.
func SysArg(s SysCall, argc int) Arg {
	return Arg{Kind: ArgSysCall, Sys: s, Int: int64(argc)}
}

// String renders the argument for listings; references print as #n.
func (a Arg) String() string {
	switch a.Kind {
	case ArgInteger:
		return strconv.FormatInt(a.Int, 10)
	case ArgReal:
		return strconv.FormatFloat(a.Real, 'g', -1, 64)
	case ArgCharacter:
		return strconv.QuoteRune(rune(a.Int))
	case ArgText:
		return strconv.Quote(a.Text)
	case ArgBoolean:
		if a.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ArgJump:
		return fmt.Sprintf("%+d", a.Int)
	case ArgSysCall:
		return fmt.Sprintf("%s/%d", a.Sys, a.Int)
	case ArgVariable:
		return fmt.Sprintf("var#%d", a.Ref)
	case ArgInterface:
		return fmt.Sprintf("iface#%d", a.Ref)
	case ArgMessage:
		return fmt.Sprintf("msg#%d", a.Ref)
	case ArgProcedure:
		return fmt.Sprintf("proc#%d", a.Ref)
	case ArgType:
		if a.Type.Kind.IsBuiltin() || a.Type.Kind == TypeVoid {
			return a.Type.Kind.String()
		}
		return fmt.Sprintf("%s#%d", a.Type.Kind, a.Type.Ref)
	}
	return "?"
}
