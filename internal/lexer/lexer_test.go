package lexer_test

import (
	"testing"

	"composita/internal/diag"
	"composita/internal/lexer"
	"composita/internal/source"
	"composita/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.com", []byte(input))
	bag := diag.NewBag(100)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	toks := lx.All()
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %v", input, bag.Items())
	}
	return toks
}

func TestKeywordsAreUppercase(t *testing.T) {
	toks := expectKinds(t, "COMPONENT Component component END",
		token.KwComponent, token.Ident, token.Ident, token.KwEnd)
	if toks[1].Text != "Component" {
		t.Errorf("ident text = %q", toks[1].Text)
	}
}

func TestIdentifierKeywordsLexAsIdent(t *testing.T) {
	toks := expectKinds(t, "NEW(x) AWAIT", token.Ident, token.LParen, token.Ident, token.RParen, token.Ident)
	if !toks[0].Is(token.IdentNew) || !toks[4].Is(token.IdentAwait) {
		t.Errorf("identifier keywords: %q %q", toks[0].Text, toks[4].Text)
	}
}

func TestPunctuation(t *testing.T) {
	expectKinds(t, "{}[]();:,*|#=<<=>>=:=..+-~/!?",
		token.LBrace, token.RBrace, token.LBracket, token.RBracket, token.LParen, token.RParen,
		token.Semicolon, token.Colon, token.Comma, token.Star, token.Pipe, token.Hash,
		token.Eq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.Assign, token.DotDot,
		token.Plus, token.Minus, token.Tilde, token.Slash, token.Bang, token.Question)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"0FFH", token.IntLit},
		{"41X", token.IntLit},
		{"0DX", token.IntLit},
		{"3.14", token.RealLit},
		{"1.5E3", token.RealLit},
		{"2.E-3", token.RealLit},
	}
	for _, tc := range cases {
		toks := expectKinds(t, tc.in, tc.kind)
		if toks[0].Text != tc.in {
			t.Errorf("%q: text %q", tc.in, toks[0].Text)
		}
	}
}

func TestRangeIsNotReal(t *testing.T) {
	expectKinds(t, "[1..5]", token.LBracket, token.IntLit, token.DotDot, token.IntLit, token.RBracket)
}

func TestMissingHexSuffix(t *testing.T) {
	lx, bag := makeTestLexer("0FF ;")
	toks := lx.All()
	if toks[0].Kind != token.Invalid {
		t.Fatalf("want Invalid, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.Semicolon {
		t.Fatalf("lexing did not resume: %v", toks[1].Kind)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexMissingHexSuffix {
		t.Fatalf("diagnostics: %v", items)
	}
}

func TestNestedComments(t *testing.T) {
	toks := expectKinds(t, "BEGIN (* outer (* inner *) still *) END", token.KwBegin, token.KwEnd)
	lead := toks[1].Leading
	found := false
	for _, tr := range lead {
		if tr.Kind == token.TriviaComment {
			found = true
			if tr.Text != "(* outer (* inner *) still *)" {
				t.Errorf("comment text %q", tr.Text)
			}
		}
	}
	if !found {
		t.Fatalf("no comment trivia on END: %+v", lead)
	}
}

func TestUnterminatedComment(t *testing.T) {
	lx, bag := makeTestLexer("(* never (* closed *)")
	toks := lx.All()
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("tokens: %v", kinds(toks))
	}
	if items := bag.Items(); len(items) != 1 || items[0].Code != diag.LexUnterminatedComment {
		t.Fatalf("diagnostics: %v", items)
	}
}

func TestTextLiteral(t *testing.T) {
	toks := expectKinds(t, `"Hello\tWorld\n"`, token.TextLit)
	if got := lexer.TextValue(toks[0].Text); got != "Hello\tWorld\n" {
		t.Errorf("TextValue = %q", got)
	}
}

func TestUnterminatedText(t *testing.T) {
	lx, bag := makeTestLexer(`"abc`)
	toks := lx.All()
	if toks[0].Kind != token.Invalid {
		t.Fatalf("want Invalid, got %v", toks[0].Kind)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexUnterminatedText {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer("a @ b")
	toks := lx.All()
	if got := kinds(toks); len(got) != 4 || got[1] != token.Invalid {
		t.Fatalf("tokens: %v", got)
	}
	if bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("IF x")
	if p := lx.Peek(); p.Kind != token.KwIf {
		t.Fatalf("Peek = %v", p.Kind)
	}
	if n := lx.Next(); n.Kind != token.KwIf {
		t.Fatalf("Next after Peek = %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.Ident {
		t.Fatalf("second Next = %v", n.Kind)
	}
}

func TestSpansCoverText(t *testing.T) {
	input := "VARIABLE v: INTEGER;"
	lx, _ := makeTestLexer(input)
	for _, tok := range lx.All() {
		if tok.Kind == token.EOF {
			if tok.Span.Start != uint32(len(input)) {
				t.Errorf("EOF span %v", tok.Span)
			}
			continue
		}
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span %v covers %q, text %q", tok.Span, got, tok.Text)
		}
	}
}
