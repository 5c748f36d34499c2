package lexer

import (
	"fmt"
	"unicode/utf8"

	"composita/internal/diag"
	"composita/internal/token"

	"fortio.org/safecast"
)

var singlePunct = [256]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'(': token.LParen,
	')': token.RParen,
	';': token.Semicolon,
	':': token.Colon,
	',': token.Comma,
	'*': token.Star,
	'|': token.Pipe,
	'#': token.Hash,
	'=': token.Eq,
	'<': token.Lt,
	'>': token.Gt,
	'+': token.Plus,
	'-': token.Minus,
	'~': token.Tilde,
	'/': token.Slash,
	'!': token.Bang,
	'?': token.Question,
}

// scanPunct: сначала двухсимвольные (<= >= := ..), потом односимвольные.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Bump()
	b1 := lx.cursor.Peek()

	kind := token.Invalid
	switch {
	case b0 == '<' && b1 == '=':
		kind = token.LtEq
	case b0 == '>' && b1 == '=':
		kind = token.GtEq
	case b0 == ':' && b1 == '=':
		kind = token.Assign
	case b0 == '.' && b1 == '.':
		kind = token.DotDot
	}
	if kind != token.Invalid {
		lx.cursor.Bump()
		return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
	}

	if k := singlePunct[b0]; k != token.Invalid {
		return token.Token{Kind: k, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
	}

	// неизвестный символ: съедаем всю руну, чтобы не резать UTF-8
	if b0 >= utf8.RuneSelf {
		lx.cursor.Reset(start)
		_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		n, err := safecast.Conv[uint32](sz)
		if err != nil {
			panic(fmt.Errorf("rune size overflow: %w", err))
		}
		lx.cursor.Off += n
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", text))
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
