package lexer

import (
	"composita/internal/diag"
	"composita/internal/token"
)

// scanText читает "..." целиком. Text хранит исходный срез вместе с кавычками,
// декодирование делает TextValue.
func (lx *Lexer) scanText() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			return token.Token{Kind: token.TextLit, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
		}
		if b == '\\' {
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			if _, ok := escapeByte(lx.cursor.Peek()); ok {
				lx.cursor.Bump()
				continue
			}
			// неизвестный escape оставляем как есть, '\' попадёт в текст
			if lx.opts.Reporter != nil {
				lx.opts.Reporter.Report(diag.LexBadEscape, diag.SevWarning, lx.cursor.SpanFrom(escStart), "unknown escape sequence, backslash kept", nil)
			}
			continue
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedText, sp, "unterminated text literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
}

func escapeByte(b byte) (byte, bool) {
	switch b {
	case '0':
		return 0, true
	case 'b':
		return '\b', true
	case 't':
		return '\t', true
	case 'v':
		return '\v', true
	case 'f':
		return '\f', true
	case 'r':
		return '\r', true
	case 'n':
		return '\n', true
	case '\\', '\'', '"':
		return b, true
	}
	return 0, false
}
