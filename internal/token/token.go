package token

import "composita/internal/source"

// Token is a single lexeme with its leading trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a number or text literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, TextLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwBegin && t.Kind <= KwOr
}

// IsPunct reports whether the token is punctuation or an operator.
func (t Token) IsPunct() bool {
	return t.Kind >= LBrace && t.Kind <= Question
}

func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is the identifier text.
func (t Token) Is(text string) bool { return t.Kind == Ident && t.Text == text }
