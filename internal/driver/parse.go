package driver

import (
	"context"
	"io"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	res, err := CompileFile(ctx, filePath, Options{Stage: StageParse, MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FileSet: res.FileSet,
		File:    res.File,
		Builder: res.Builder,
		FileID:  res.ASTFile,
		Bag:     res.Bag,
	}, nil
}

// Outline writes the tree outline of a parsed file. Nothing is written when
// parsing failed.
func (r *ParseResult) Outline(w io.Writer) error {
	if r == nil || r.Builder == nil || r.Bag.HasErrors() {
		return nil
	}
	return ast.Dump(w, r.Builder, r.FileID)
}
