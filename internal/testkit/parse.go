package testkit

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/lexer"
	"composita/internal/parser"
	"composita/internal/source"
)

// Parsed is a source file with its tree.
type Parsed struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// ParseString lexes and parses input as test.com without failing on
// diagnostics.
func ParseString(ctx context.Context, input string) *Parsed {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.com", []byte(input)))

	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(ctx, lx, b, parser.Options{MaxErrors: 100, Reporter: reporter})
	return &Parsed{FileSet: fs, File: file, Builder: b, FileID: res.File, Bag: bag}
}

// Parse is ParseString that fails tb on any parse error.
func Parse(tb testing.TB, input string) (*ast.Builder, ast.FileID) {
	tb.Helper()
	p := ParseString(context.Background(), input)
	if p.Bag.HasErrors() {
		tb.Fatalf("unexpected parse diagnostics: %s", DiagnosticsSummary(p.Bag))
	}
	return p.Builder, p.FileID
}

// DiagnosticsSummary renders bag on one line.
func DiagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}
