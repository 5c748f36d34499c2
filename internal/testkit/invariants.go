package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"composita/internal/ast"
	"composita/internal/source"
	"composita/internal/token"
)

// CheckSpanInvariants runs span sanity checks on a parsed file:
// 1) file.Span is non-empty and within file content bounds
// 2) every item span is non-empty and fully contained in file.Span
// 3) file.Span covers the union of item spans (if any items exist)
// 4) statement and expression spans are ordered, in this file and in bounds
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	var union source.Span
	var haveItem bool
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
		if !haveItem {
			union = sp
			haveItem = true
		} else {
			union = union.Cover(sp)
		}
	}
	if haveItem && (union.Start < f.Span.Start || union.End > f.Span.End) {
		return fmt.Errorf("file span %v does not cover union of items %v", f.Span, union)
	}

	for i, st := range b.Stmts.Arena.Slice() {
		if err := checkNodeSpan("stmt", i+1, st.Span, sf.ID, lenContent); err != nil {
			return err
		}
	}
	for i, ex := range b.Exprs.Arena.Slice() {
		if err := checkNodeSpan("expr", i+1, ex.Span, sf.ID, lenContent); err != nil {
			return err
		}
	}
	return nil
}

func checkNodeSpan(what string, id int, sp source.Span, file source.FileID, limit uint32) error {
	switch {
	case sp.File != file:
		return fmt.Errorf("%s %d: span file mismatch: got=%d want=%d", what, id, sp.File, file)
	case sp.End < sp.Start:
		return fmt.Errorf("%s %d: inverted span %v", what, id, sp)
	case sp.End > limit:
		return fmt.Errorf("%s %d: span %v beyond content (%d bytes)", what, id, sp, limit)
	}
	return nil
}

// CheckTokenInvariants verifies a token stream: spans in bounds, in order
// and not overlapping, trivia before its token, and a single trailing EOF.
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d (%s): file mismatch", i, tok.Kind)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d (%s): bad span %v", i, tok.Kind, sp)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d (%s): span %v overlaps previous end %d", i, tok.Kind, sp, prevEnd)
		}
		for _, tr := range tok.Leading {
			if tr.Span.End > sp.Start {
				return fmt.Errorf("token %d (%s): %s trivia %v after token start", i, tok.Kind, tr.Kind, tr.Span)
			}
		}
		isEOF := tok.Kind == token.EOF
		if isEOF != (i == len(tokens)-1) {
			return fmt.Errorf("token %d: EOF must be last and only last", i)
		}
		prevEnd = sp.End
	}
	return nil
}
