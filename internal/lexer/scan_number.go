package lexer

import (
	"composita/internal/diag"
	"composita/internal/token"
)

// scanNumber разбирает числа:
//
//	123        десятичное
//	0FFH       шестнадцатеричное
//	0DX        тоже шестнадцатеричное, X пишут у кодов символов
//	1.5, 2.E-3 вещественное, E только после точки
//
// "1..5" — это 1, DotDot, 5: точка перед второй точкой не делает число вещественным.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	isHex, isReal := false, false

	for {
		b := lx.cursor.Peek()
		switch {
		case isDec(b):
			lx.cursor.Bump()
			continue
		case isReal && b == 'E':
			lx.cursor.Bump()
			lx.scanScaleFactor()
			return lx.numberToken(start, token.RealLit)
		case isHexLetter(b):
			if isReal {
				lx.skipToSpace()
				lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "floating point hex numbers are not supported")
				return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
			}
			isHex = true
			lx.cursor.Bump()
			continue
		case b == '.' && !isReal && lx.cursor.PeekAt(1) != '.':
			if isHex {
				lx.skipToSpace()
				lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "floating point hex numbers are not supported")
				return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
			}
			isReal = true
			lx.cursor.Bump()
			continue
		}
		break
	}

	if isReal {
		return lx.numberToken(start, token.RealLit)
	}
	switch {
	case lx.cursor.Eat('H') || lx.cursor.Eat('X'):
		return lx.numberToken(start, token.IntLit)
	case isHex:
		lx.skipToSpace()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexMissingHexSuffix, sp, `missing "H" or "X" after hex number`)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
	}
	return lx.numberToken(start, token.IntLit)
}

func (lx *Lexer) scanScaleFactor() {
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		lx.errLex(diag.LexBadNumber, lx.emptySpan(), "scale factor must be at least one digit long")
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipToSpace() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) || b == '\n' {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) numberToken(start Mark, kind token.Kind) token.Token {
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
}
