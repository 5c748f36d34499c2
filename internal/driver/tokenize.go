package driver

import (
	"context"

	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file. The token list always ends with EOF.
func Tokenize(ctx context.Context, path string, maxDiagnostics int) (*TokenizeResult, error) {
	res, err := CompileFile(ctx, path, Options{Stage: StageLex, MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return nil, err
	}
	return &TokenizeResult{FileSet: res.FileSet, File: res.File, Tokens: res.Tokens, Bag: res.Bag}, nil
}
