package codegen

import (
	"strings"
	"testing"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/il"
	"composita/internal/sema"
	"composita/internal/testkit"
)

const systemInterfaces = `
INTERFACE SystemTime;
	IN GetSystemTime OUT SystemTime(ticks: INTEGER)
END SystemTime;

INTERFACE FileSystem;
	IN Open(name: TEXT) OUT Done
END FileSystem;
`

// resolve parses and resolves input, requiring success.
func resolve(t *testing.T, input string) (*ast.Builder, sema.Result) {
	t.Helper()

	b, file := testkit.Parse(t, input)
	res, err := sema.Resolve(b, file, sema.Options{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return b, res
}

// compile runs the whole front end over input and returns the module with
// the diagnostics generation reported.
func compile(t *testing.T, input string) (*il.Module, *diag.Bag) {
	t.Helper()
	b, res := resolve(t, input)
	bag := diag.NewBag(100)
	mod, err := Generate(b, res.Table, Options{Source: "test.com", Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if verr := mod.Validate(); verr != nil {
		t.Fatalf("validate: %v", verr)
	}
	return mod, bag
}

func diagnosticsSummary(bag *diag.Bag) string { return testkit.DiagnosticsSummary(bag) }

// component finds a compiled component by name.
func component(t *testing.T, m *il.Module, name string) *il.Component {
	t.Helper()
	id, ok := m.FindComponent(name)
	if !ok {
		t.Fatalf("component %s not generated", name)
	}
	return m.Component(id)
}

func procedure(t *testing.T, m *il.Module, name string) *il.Procedure {
	t.Helper()
	for i := range m.Procedures {
		if m.Procedures[i].Name == name {
			return &m.Procedures[i]
		}
	}
	t.Fatalf("procedure %s not generated", name)
	return nil
}

// listing renders a stream one instruction per line with descriptor names
// in place of table indices.
func listing(m *il.Module, code []il.Instruction) []string {
	out := make([]string, len(code))
	for i, in := range code {
		parts := []string{in.Op.String()}
		for _, a := range in.Args {
			switch a.Kind {
			case il.ArgVariable:
				parts = append(parts, m.Variables[a.Ref].Name)
			case il.ArgMessage:
				parts = append(parts, m.Messages[a.Ref].Name)
			case il.ArgProcedure:
				parts = append(parts, m.Procedures[a.Ref].Name)
			case il.ArgInterface:
				parts = append(parts, m.Interfaces[a.Ref].Name)
			case il.ArgType:
				parts = append(parts, m.TypeName(a.Type))
			default:
				parts = append(parts, a.String())
			}
		}
		out[i] = strings.Join(parts, " ")
	}
	return out
}

func expectListing(t *testing.T, m *il.Module, code []il.Instruction, want []string) {
	t.Helper()
	got := listing(m, code)
	if len(got) != len(want) {
		t.Fatalf("stream has %d instructions, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%04d: got %q, want %q", i, got[i], want[i])
		}
	}
}
