package codegen

import (
	"fmt"

	"composita/internal/il"
)

// Label is a branch target. It has no position until SetLabel.
type Label struct{ id int }

// Assembler collects one instruction stream. Branches are emitted without a
// displacement and patched by Complete.
type Assembler struct {
	code      []il.Instruction
	targets   []int   // label -> instruction index, -1 while unset
	origins   [][]int // label -> indices of the branches to it
	completed bool
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

func (a *Assembler) CreateLabel() Label {
	a.targets = append(a.targets, -1)
	a.origins = append(a.origins, nil)
	return Label{id: len(a.targets)}
}

// SetLabel binds l to the index of the next emitted instruction.
func (a *Assembler) SetLabel(l Label) {
	a.targets[a.slot(l)] = len(a.code)
}

func (a *Assembler) slot(l Label) int {
	if l.id <= 0 || l.id > len(a.targets) {
		panic(fmt.Sprintf("codegen: unknown label %d", l.id))
	}
	return l.id - 1
}

// Len is the index the next instruction will get.
func (a *Assembler) Len() int { return len(a.code) }

func (a *Assembler) Emit(op il.OpCode, args ...il.Arg) {
	if a.completed {
		panic("codegen: emit after Complete")
	}
	a.code = append(a.code, il.Instruction{Op: op, Args: args})
}

func (a *Assembler) jump(op il.OpCode, l Label) {
	i := a.slot(l)
	a.origins[i] = append(a.origins[i], len(a.code))
	a.Emit(op)
}

func (a *Assembler) Branch(l Label)      { a.jump(il.OpBranch, l) }
func (a *Assembler) BranchFalse(l Label) { a.jump(il.OpBranchFalse, l) }
func (a *Assembler) BranchTrue(l Label)  { a.jump(il.OpBranchTrue, l) }

func (a *Assembler) EmitLoadInteger(v int64)               { a.Emit(il.OpLoadConstantInteger, il.IntArg(v)) }
func (a *Assembler) EmitLoadReal(v float64)                { a.Emit(il.OpLoadConstantReal, il.RealArg(v)) }
func (a *Assembler) EmitLoadCharacter(r rune)              { a.Emit(il.OpLoadConstantCharacter, il.CharArg(r)) }
func (a *Assembler) EmitLoadText(s string)                 { a.Emit(il.OpLoadConstantText, il.TextArg(s)) }
func (a *Assembler) EmitLoadBoolean(v bool)                { a.Emit(il.OpLoadConstantBoolean, il.BoolArg(v)) }
func (a *Assembler) EmitSystemCall(s il.SysCall, argc int) { a.Emit(il.OpSystemCall, il.SysArg(s, argc)) }

// Complete patches every recorded branch with target - origin and returns
// the stream. The assembler cannot be used afterwards.
//
// A branch to a label that was never set and a recorded origin that is not a
// branch are generator bugs and panic.
func (a *Assembler) Complete() []il.Instruction {
	if a.completed {
		panic("codegen: Complete called twice")
	}
	a.completed = true
	for i, origins := range a.origins {
		if len(origins) == 0 {
			continue
		}
		target := a.targets[i]
		if target < 0 {
			panic(fmt.Sprintf("codegen: branch to undefined label %d", i+1))
		}
		for _, origin := range origins {
			in := &a.code[origin]
			if !in.Op.IsBranch() {
				panic(fmt.Sprintf("codegen: not a jump instruction: %s at %d, target %d", in.Op, origin, target))
			}
			in.Args = append(in.Args, il.JumpArg(int64(target-origin)))
		}
	}
	return a.code
}
