package sema

import (
	"errors"
	"testing"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/symbols"
	"composita/internal/testkit"
)

const systemInterfaces = testkit.SystemInterfaces

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID) {
	t.Helper()
	return testkit.Parse(t, input)
}

// resolveSource parses and resolves input, requiring success.
func resolveSource(t *testing.T, input string) (*ast.Builder, Result) {
	t.Helper()
	b, file := parseSource(t, input)
	res, err := Resolve(b, file, Options{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if verr := res.Table.Validate(); verr != nil {
		t.Fatalf("validate: %v", verr)
	}
	return b, res
}

// expectFault resolves input and requires a fault with code.
func expectFault(t *testing.T, input string, code diag.Code) *Fault {
	t.Helper()
	b, file := parseSource(t, input)
	_, err := Resolve(b, file, Options{})
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected %s fault, got %v", code.ID(), err)
	}
	if f.Code != code {
		t.Fatalf("fault code = %s (%s), want %s", f.Code.ID(), f.Msg, code.ID())
	}
	return f
}

// named finds the single registered symbol of kind called name.
func named(t *testing.T, table *symbols.Table, kind symbols.SymbolKind, name string) *symbols.Symbol {
	t.Helper()
	var out *symbols.Symbol
	for i := range table.Symbols.Data() {
		sym := &table.Symbols.Data()[i]
		if sym.Kind == kind && table.Strings.MustLookup(sym.Name) == name {
			if out != nil {
				t.Fatalf("%s %s registered twice", kind, name)
			}
			out = sym
		}
	}
	if out == nil {
		t.Fatalf("%s %s not registered", kind, name)
	}
	return out
}
