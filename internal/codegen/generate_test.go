package codegen

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"composita/internal/diag"
	"composita/internal/il"
)

func TestGenerateHelloWorld(t *testing.T) {
	mod, bag := compile(t, `COMPONENT {ENTRYPOINT} HelloWorld;
		BEGIN
			WRITE("Hello World"); WRITELINE
		END HelloWorld;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	hello := component(t, mod, "HelloWorld")
	expectListing(t, mod, hello.Begin, []string{
		`LoadConstantText "Hello World"`,
		"SystemCall Write/1",
		"SystemCall WriteLine/0",
	})
	if hello.Activity != nil || hello.Finally != nil {
		t.Fatalf("unexpected activity or finally code")
	}
}

func TestGenerateArithmeticPrecedence(t *testing.T) {
	mod, _ := compile(t, `COMPONENT Calc;
		VARIABLE v: INTEGER;
		BEGIN v := 5 - 3 * 7 + 8
		END Calc;`)
	expectListing(t, mod, component(t, mod, "Calc").Begin, []string{
		"LoadVariable v",
		"LoadConstantInteger 5",
		"LoadConstantInteger 3",
		"LoadConstantInteger 7",
		"Multiply",
		"Subtract",
		"LoadConstantInteger 8",
		"Add",
		"StoreVariable",
	})
}

func TestGenerateControlFlow(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "while",
			body: "WHILE i < 10 DO INC(i) END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 10",
				"Less",
				"BranchFalse +4",
				"LoadVariable i",
				"SystemCall Inc/1",
				"Branch -6",
			},
		},
		{
			name: "repeat",
			body: "REPEAT DEC(i) UNTIL i = 0",
			want: []string{
				"LoadVariable i",
				"SystemCall Dec/1",
				"LoadVariable i",
				"LoadConstantInteger 0",
				"Equal",
				"BranchFalse -5",
			},
		},
		{
			name: "await",
			body: "AWAIT(i > 3)",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 3",
				"Greater",
				"BranchFalse -3",
			},
		},
		{
			name: "if without else",
			body: "IF i = 1 THEN WRITELINE END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 1",
				"Equal",
				"BranchFalse +2",
				"SystemCall WriteLine/0",
			},
		},
		{
			name: "if elsif else",
			body: "IF i = 1 THEN j := 10 ELSIF i = 2 THEN j := 20 ELSE j := 30 END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 1",
				"Equal",
				"BranchFalse +5",
				"LoadVariable j",
				"LoadConstantInteger 10",
				"StoreVariable",
				"Branch +12",
				"LoadVariable i",
				"LoadConstantInteger 2",
				"Equal",
				"BranchFalse +5",
				"LoadVariable j",
				"LoadConstantInteger 20",
				"StoreVariable",
				"Branch +4",
				"LoadVariable j",
				"LoadConstantInteger 30",
				"StoreVariable",
			},
		},
		{
			name: "if elsif without else",
			body: "IF i = 1 THEN j := 10 ELSIF i = 2 THEN j := 20 END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 1",
				"Equal",
				"BranchFalse +5",
				"LoadVariable j",
				"LoadConstantInteger 10",
				"StoreVariable",
				"Branch +8",
				"LoadVariable i",
				"LoadConstantInteger 2",
				"Equal",
				"BranchFalse +4",
				"LoadVariable j",
				"LoadConstantInteger 20",
				"StoreVariable",
			},
		},
		{
			name: "for",
			body: "FOR i := 1 TO 3 DO WRITE(i) END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 1",
				"StoreVariable",
				"LoadVariable i",
				"LoadConstantInteger 3",
				"LessEqual",
				"BranchFalse +6",
				"LoadVariable i",
				"SystemCall Write/1",
				"LoadVariable i",
				"SystemCall Inc/1",
				"Branch -8",
			},
		},
		{
			name: "for by",
			body: "FOR i := 1 TO 9 BY 2 DO WRITE(i) END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 1",
				"StoreVariable",
				"LoadVariable i",
				"LoadConstantInteger 9",
				"LoadConstantInteger 2",
				"LoadConstantInteger 0",
				"Greater",
				"BranchFalse +4",
				"LessEqual",
				"BranchFalse +10",
				"Branch +3",
				"GreaterEqual",
				"BranchFalse +7",
				"LoadVariable i",
				"SystemCall Write/1",
				"LoadVariable i",
				"LoadConstantInteger 2",
				"SystemCall Inc/2",
				"Branch -16",
			},
		},
		{
			// the step changes in the body, so its sign is tested on every pass
			name: "for by variable",
			body: "FOR i := 1 TO 9 BY j DO j := j - 1 END",
			want: []string{
				"LoadVariable i",
				"LoadConstantInteger 1",
				"StoreVariable",
				"LoadVariable i",
				"LoadConstantInteger 9",
				"LoadVariable j",
				"LoadConstantInteger 0",
				"Greater",
				"BranchFalse +4",
				"LessEqual",
				"BranchFalse +13",
				"Branch +3",
				"GreaterEqual",
				"BranchFalse +10",
				"LoadVariable j",
				"LoadVariable j",
				"LoadConstantInteger 1",
				"Subtract",
				"StoreVariable",
				"LoadVariable i",
				"LoadVariable j",
				"SystemCall Inc/2",
				"Branch -19",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mod, _ := compile(t, "COMPONENT Flow; VARIABLE i, j: INTEGER; BEGIN "+tc.body+" END Flow;")
			expectListing(t, mod, component(t, mod, "Flow").Begin, tc.want)
		})
	}
}

func TestGenerateLocksAroundReturn(t *testing.T) {
	mod, _ := compile(t, `COMPONENT Locks;
		VARIABLE n: INTEGER;
		PROCEDURE Get(): INTEGER;
		BEGIN {EXCLUSIVE}
			RETURN n
		END Get;
		BEGIN {SHARED}
			n := Get()
		END Locks;`)
	expectListing(t, mod, procedure(t, mod, "Get").Body, []string{
		"AcquireExclusive",
		"LoadVariable n",
		"ReleaseExclusive",
		"Return",
		"ReleaseExclusive",
	})
	expectListing(t, mod, component(t, mod, "Locks").Begin, []string{
		"AcquireShared",
		"LoadVariable n",
		"ProcedureCall Get",
		"StoreVariable",
		"ReleaseShared",
	})
}

func TestGenerateMessages(t *testing.T) {
	mod, bag := compile(t, systemInterfaces+`INTERFACE Control;
		{ IN Ping } IN Stop
	END Control;

	COMPONENT Echo OFFERS Control;
		IMPLEMENTATION Control;
		BEGIN
			WHILE ?Ping DO ?Ping END;
			IF ?FINISH THEN WRITELINE END
		END Control;
	END Echo;

	COMPONENT Clock REQUIRES SystemTime;
		VARIABLE t: INTEGER;
		BEGIN
			SystemTime!GetSystemTime; SystemTime?SystemTime(t)
		END Clock;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}

	echo := component(t, mod, "Echo")
	if len(echo.Impls) != 1 {
		t.Fatalf("Echo implementations = %d, want 1", len(echo.Impls))
	}
	expectListing(t, mod, mod.Implementation(echo.Impls[0]).Begin, []string{
		"LoadThis",
		"ReceiveTest Ping",
		"BranchFalse +4",
		"LoadThis",
		"Receive Ping",
		"Branch -5",
		"LoadThis",
		"ReceiveTest FINISH",
		"BranchFalse +2",
		"SystemCall WriteLine/0",
	})

	expectListing(t, mod, component(t, mod, "Clock").Begin, []string{
		"LoadThis",
		"LoadService SystemTime",
		"Send GetSystemTime",
		"LoadVariable t",
		"LoadThis",
		"LoadService SystemTime",
		"Receive SystemTime",
	})
}

func TestGenerateNewAndConstants(t *testing.T) {
	mod, _ := compile(t, `COMPONENT Store;
		CONSTANT Size = 3;
		COMPONENT Cell; END Cell;
		VARIABLE cell: Cell; words[i: INTEGER]: TEXT; ok: BOOLEAN; r: REAL;
		BEGIN
			NEW(cell); NEW(words, Size); ok := TRUE; r := PI
		END Store;`)
	store := component(t, mod, "Store")
	expectListing(t, mod, store.Decls.Init, []string{
		"LoadVariable Size",
		"LoadConstantInteger 3",
		"StoreVariable",
	})
	expectListing(t, mod, store.Begin, []string{
		"LoadVariable cell",
		"New Cell",
		"LoadVariable Size",
		"LoadVariable words",
		"New TEXT",
		"LoadVariable ok",
		"LoadConstantBoolean TRUE",
		"StoreVariable",
		"LoadVariable r",
		"LoadConstantFloat 3.141592653589793",
		"StoreVariable",
	})
	for _, v := range store.Decls.Variables {
		if desc := mod.Variables[v]; desc.Name == "Size" && desc.Mutable {
			t.Fatalf("constant Size is mutable")
		}
	}
}

func TestGenerateForeachWarns(t *testing.T) {
	mod, bag := compile(t, `COMPONENT Grid;
		VARIABLE cell[x, y: INTEGER]: REAL;
		BEGIN
			FOREACH a, b OF cell DO WRITE(a + b) END
		END Grid;`)
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.GenPartialFeature || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %s, want one partial feature warning", diagnosticsSummary(bag))
	}
	grid := component(t, mod, "Grid")
	expectListing(t, mod, grid.Begin, []string{
		"LoadVariable a",
		"LoadVariable b",
		"LoadVariable cell",
		"SystemCall LoadForEachDesignators/2",
		"BranchFalse +6",
		"LoadVariable a",
		"LoadVariable b",
		"Add",
		"SystemCall Write/1",
		"Branch -9",
	})
	var names []string
	for _, v := range grid.Decls.Variables {
		names = append(names, mod.Variables[v].Name)
	}
	if !slices.Contains(names, "a") || !slices.Contains(names, "b") {
		t.Fatalf("Grid declarations = %v, want the loop variables", names)
	}
}

func TestGenerateEntryPoints(t *testing.T) {
	mod, _ := compile(t, systemInterfaces+`COMPONENT Worker; BEGIN WRITELINE END Worker;
		COMPONENT {ENTRYPOINT} Main REQUIRES SystemTime; BEGIN WRITE("hi") END Main;`)
	var compiled, entry []string
	for _, id := range mod.Compiled {
		compiled = append(compiled, mod.Components[id].Name)
	}
	for _, id := range mod.EntryPoints {
		entry = append(entry, mod.Components[id].Name)
	}
	if !slices.Equal(compiled, []string{"Worker", "Main"}) {
		t.Errorf("compiled = %v", compiled)
	}
	if !slices.Equal(entry, []string{"Main"}) {
		t.Errorf("entry points = %v", entry)
	}
	if mod.Components[mod.Global].Name != il.GlobalName || len(mod.Components[mod.Global].Decls.Procedures) == 0 {
		t.Fatalf("global descriptor missing system procedures")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := systemInterfaces + `COMPONENT {ENTRYPOINT} Ring REQUIRES SystemTime;
		INTERFACE Token; { IN Pass } END Token;
		COMPONENT Node OFFERS Token REQUIRES Token;
			VARIABLE k: INTEGER;
			IMPLEMENTATION Token;
			BEGIN {EXCLUSIVE}
				WHILE ?Pass DO ?Pass; Token!Pass; INC(k) END
			END Token;
		END Node;
		VARIABLE node[n: INTEGER]: Node; i: INTEGER;
		BEGIN
			FOR i := 1 TO 4 DO NEW(node[i]) END;
			FOR i := 1 TO 4 DO CONNECT(Token(node[i]), node[i MOD 4 + 1]) END;
			Token(node[1])!Pass
		END Ring;`
	first, _ := compile(t, src)
	second, _ := compile(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two compilations of the same source differ")
	}
}

func TestGenerateUnsupportedConstructs(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"offers test", systemInterfaces + `COMPONENT A;
			COMPONENT B; END B;
			VARIABLE b: B; ok: BOOLEAN;
			BEGIN ok := b OFFERS SystemTime
			END A;`},
		{"new interface", systemInterfaces + `COMPONENT A REQUIRES SystemTime;
			BEGIN NEW(SystemTime)
			END A;`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, res := resolve(t, tc.src)
			_, err := Generate(b, res.Table, Options{})
			var f *Fault
			if !errors.As(err, &f) {
				t.Fatalf("expected fault, got %v", err)
			}
			if f.Code != diag.GenUnsupported {
				t.Fatalf("fault code = %s (%s)", f.Code.ID(), f.Msg)
			}

			bag := diag.NewBag(10)
			Report(diag.BagReporter{Bag: bag}, err, f.Span)
			if items := bag.Items(); len(items) != 1 || items[0].Severity != diag.SevError {
				t.Fatalf("reported %s", diagnosticsSummary(bag))
			}
		})
	}
}

func TestGenerateRejectsMissingInputs(t *testing.T) {
	if _, err := Generate(nil, nil, Options{}); err == nil {
		t.Fatal("expected error without tree and table")
	}
	_, res := resolve(t, "COMPONENT A; END A;")
	if _, err := Generate(nil, res.Table, Options{}); err == nil {
		t.Fatal("expected error without tree")
	}
}
