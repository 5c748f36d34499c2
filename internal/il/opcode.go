package il

import "fmt"

// OpCode is the operation of one stack machine instruction.
type OpCode uint8

const (
	// OpLoadConstantInteger pushes an INTEGER literal.
	OpLoadConstantInteger OpCode = iota
	// OpLoadConstantReal pushes a REAL literal.
	OpLoadConstantReal
	// OpLoadConstantCharacter pushes a CHARACTER literal.
	OpLoadConstantCharacter
	// OpLoadConstantText pushes a TEXT literal.
	OpLoadConstantText
	// OpLoadConstantBoolean pushes TRUE or FALSE.
	OpLoadConstantBoolean
	// OpLoadVariable pushes a reference to a plain variable.
	OpLoadVariable
	// OpLoadArrayVariable pushes a reference to a collection element; the
	// indices are on the stack.
	OpLoadArrayVariable
	// OpLoadService pushes the required interface of the running component.
	OpLoadService
	// OpLoadThis pushes the implicit target marker.
	OpLoadThis
	// OpStoreVariable pops a value and a reference and stores the value.
	OpStoreVariable

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpNegate
	OpNot
	OpLogicOr
	OpLogicAnd
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpIsType

	// OpBranch jumps by its displacement.
	OpBranch
	// OpBranchTrue pops a BOOLEAN and jumps when it is TRUE.
	OpBranchTrue
	// OpBranchFalse pops a BOOLEAN and jumps when it is FALSE.
	OpBranchFalse

	OpNew
	OpDelete
	OpConnect
	OpDisconnect
	OpMove
	OpSend
	OpReceive
	OpReceiveTest
	OpInputTest
	OpExistsTest

	OpAcquireShared
	OpReleaseShared
	OpAcquireExclusive
	OpReleaseExclusive

	OpProcedureCall
	OpSystemCall
	OpReturn
)

var opNames = [...]string{
	OpLoadConstantInteger:   "LoadConstantInteger",
	OpLoadConstantReal:      "LoadConstantFloat",
	OpLoadConstantCharacter: "LoadConstantCharacter",
	OpLoadConstantText:      "LoadConstantText",
	OpLoadConstantBoolean:   "LoadConstantBoolean",
	OpLoadVariable:          "LoadVariable",
	OpLoadArrayVariable:     "LoadArrayVariable",
	OpLoadService:           "LoadService",
	OpLoadThis:              "LoadThis",
	OpStoreVariable:         "StoreVariable",
	OpAdd:                   "Add",
	OpSubtract:              "Subtract",
	OpMultiply:              "Multiply",
	OpDivide:                "Divide",
	OpModulo:                "Modulo",
	OpNegate:                "Negate",
	OpNot:                   "Not",
	OpLogicOr:               "LogicOr",
	OpLogicAnd:              "LogicAnd",
	OpEqual:                 "Equal",
	OpNotEqual:              "NotEqual",
	OpLess:                  "Less",
	OpLessEqual:             "LessEqual",
	OpGreater:               "Greater",
	OpGreaterEqual:          "GreaterEqual",
	OpIsType:                "IsType",
	OpBranch:                "Branch",
	OpBranchTrue:            "BranchTrue",
	OpBranchFalse:           "BranchFalse",
	OpNew:                   "New",
	OpDelete:                "Delete",
	OpConnect:               "Connect",
	OpDisconnect:            "Disconnect",
	OpMove:                  "Move",
	OpSend:                  "Send",
	OpReceive:               "Receive",
	OpReceiveTest:           "ReceiveTest",
	OpInputTest:             "InputTest",
	OpExistsTest:            "ExistsTest",
	OpAcquireShared:         "AcquireShared",
	OpReleaseShared:         "ReleaseShared",
	OpAcquireExclusive:      "AcquireExclusive",
	OpReleaseExclusive:      "ReleaseExclusive",
	OpProcedureCall:         "ProcedureCall",
	OpSystemCall:            "SystemCall",
	OpReturn:                "Return",
}

func (op OpCode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", op)
}

// IsBranch reports whether op carries a jump displacement.
func (op OpCode) IsBranch() bool {
	return op == OpBranch || op == OpBranchTrue || op == OpBranchFalse
}

// ParseOpCode maps a listing name back to its opcode.
func ParseOpCode(s string) (OpCode, bool) {
	for i, name := range opNames {
		if name == s {
			return OpCode(i), true //nolint:gosec // index of a small table
		}
	}
	return 0, false
}
