package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/lexer"
	"composita/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.com", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	result := ParseFile(context.Background(), lx, builder, Options{MaxErrors: 100, Reporter: reporter})
	return builder, result.File, bag
}

// dumpSource parses input, requires a clean parse and returns the outline.
func dumpSource(t *testing.T, input string) string {
	t.Helper()
	b, file, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	var sb strings.Builder
	if err := ast.Dump(&sb, b, file); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	return sb.String()
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func expectCode(t *testing.T, input string, code diag.Code) diag.Diagnostic {
	t.Helper()
	_, _, bag := parseSource(t, input)
	for _, d := range bag.Items() {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("expected %s, got %s", code.ID(), diagnosticsSummary(bag))
	return diag.Diagnostic{}
}
