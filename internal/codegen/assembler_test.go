package codegen

import (
	"strings"
	"testing"

	"composita/internal/il"
)

func TestAssemblerPatchesDisplacements(t *testing.T) {
	a := NewAssembler()
	top := a.CreateLabel()
	end := a.CreateLabel()
	a.CreateLabel() // never referenced

	a.SetLabel(top)
	a.EmitLoadBoolean(true) // 0
	a.BranchFalse(end)      // 1
	a.EmitLoadInteger(1)    // 2
	a.BranchTrue(end)       // 3
	a.Branch(top)           // 4
	a.SetLabel(end)
	a.Emit(il.OpReturn) // 5

	code := a.Complete()
	cases := []struct {
		pc   int
		want int64
	}{
		{1, 4},
		{3, 2},
		{4, -4},
	}
	for _, tc := range cases {
		d, ok := code[tc.pc].Jump()
		if !ok {
			t.Fatalf("%04d %s has no displacement", tc.pc, code[tc.pc].Op)
		}
		if d != tc.want {
			t.Errorf("%04d displacement = %d, want %d", tc.pc, d, tc.want)
		}
	}
	if len(code[0].Args) != 1 || len(code[5].Args) != 0 {
		t.Fatalf("non-branch arguments changed: %v %v", code[0].Args, code[5].Args)
	}
}

func TestAssemblerSelfLoop(t *testing.T) {
	a := NewAssembler()
	l := a.CreateLabel()
	a.SetLabel(l)
	a.Branch(l)
	code := a.Complete()
	if d, _ := code[0].Jump(); d != 0 {
		t.Fatalf("displacement = %d, want 0", d)
	}
}

func TestAssemblerPanics(t *testing.T) {
	cases := []struct {
		name string
		run  func(a *Assembler)
		want string
	}{
		{"undefined label", func(a *Assembler) {
			a.Branch(a.CreateLabel())
			a.Complete()
		}, "undefined label"},
		{"unknown label", func(a *Assembler) {
			a.SetLabel(Label{id: 7})
		}, "unknown label"},
		{"zero label", func(a *Assembler) {
			a.Branch(Label{})
		}, "unknown label"},
		{"not a jump", func(a *Assembler) {
			l := a.CreateLabel()
			a.SetLabel(l)
			a.Branch(l)
			a.code[0].Op = il.OpAdd
			a.Complete()
		}, "not a jump instruction"},
		{"emit after complete", func(a *Assembler) {
			a.Complete()
			a.Emit(il.OpReturn)
		}, "emit after Complete"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				rec := recover()
				msg, _ := rec.(string)
				if !strings.Contains(msg, tc.want) {
					t.Fatalf("panic = %v, want %q", rec, tc.want)
				}
			}()
			tc.run(NewAssembler())
		})
	}
}

func TestAssemblerLiteralHelpers(t *testing.T) {
	a := NewAssembler()
	a.EmitLoadInteger(42)
	a.EmitLoadReal(1.5)
	a.EmitLoadCharacter('x')
	a.EmitLoadText("hi")
	a.EmitLoadBoolean(false)
	a.EmitSystemCall(il.SysWrite, 1)
	code := a.Complete()

	want := []string{
		"LoadConstantInteger 42",
		"LoadConstantFloat 1.5",
		"LoadConstantCharacter 'x'",
		`LoadConstantText "hi"`,
		"LoadConstantBoolean FALSE",
		"SystemCall Write/1",
	}
	expectListing(t, &il.Module{}, code, want)
}
