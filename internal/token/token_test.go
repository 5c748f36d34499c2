package token_test

import (
	"testing"

	"composita/internal/token"
)

func TestKeywordsAreUppercaseOnly(t *testing.T) {
	if k, ok := token.LookupKeyword("COMPONENT"); !ok || k != token.KwComponent {
		t.Fatalf("COMPONENT = %v, %v", k, ok)
	}
	for _, s := range []string{"component", "Component", "NEW", "WRITE", "INPUT"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Errorf("%q must not be a keyword", s)
		}
	}
}

func TestKindClasses(t *testing.T) {
	cases := []struct {
		kind    token.Kind
		literal bool
		keyword bool
		punct   bool
	}{
		{token.IntLit, true, false, false},
		{token.TextLit, true, false, false},
		{token.RealLit, true, false, false},
		{token.KwBegin, false, true, false},
		{token.KwOr, false, true, false},
		{token.LBrace, false, false, true},
		{token.Question, false, false, true},
		{token.Ident, false, false, false},
	}
	for _, tc := range cases {
		tok := token.Token{Kind: tc.kind}
		if tok.IsLiteral() != tc.literal || tok.IsKeyword() != tc.keyword || tok.IsPunct() != tc.punct {
			t.Errorf("%v: literal=%v keyword=%v punct=%v", tc.kind, tok.IsLiteral(), tok.IsKeyword(), tok.IsPunct())
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.Assign.String(); got != ":=" {
		t.Errorf("Assign = %q", got)
	}
	if got := token.KwImplementation.String(); got != "IMPLEMENTATION" {
		t.Errorf("KwImplementation = %q", got)
	}
	if got := token.Kind(250).String(); got != "Kind(?)" {
		t.Errorf("unknown kind = %q", got)
	}
}

func TestIdentifierKeyword(t *testing.T) {
	tok := token.Token{Kind: token.Ident, Text: token.IdentAwait}
	if !tok.Is("AWAIT") {
		t.Fatalf("Is(AWAIT) = false")
	}
	if (token.Token{Kind: token.TextLit, Text: "AWAIT"}).Is("AWAIT") {
		t.Fatalf("a text literal is not an identifier keyword")
	}
}
