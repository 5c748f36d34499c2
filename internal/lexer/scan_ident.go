package lexer

import "composita/internal/token"

// scanIdentOrKeyword сканирует letter {letter | digit} и проверяет через LookupKeyword.
// Ключевые слова только в верхнем регистре.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for b := lx.cursor.Peek(); isLetter(b) || isDec(b); b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(start)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
