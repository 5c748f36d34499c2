package lexer

import (
	"composita/internal/diag"
	"composita/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - пробелы, табы, \r, \v, \f коалесцируются в один TriviaSpace
//   - последовательные '\n' дают один TriviaNewline
//   - (* ... *) даёт TriviaComment, вложенность поддерживается
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case isSpace(b):
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaSpace, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)})
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaNewline, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)})
		case b == '(' && lx.cursor.PeekAt(1) == '*':
			lx.scanComment()
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaComment, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)})
		default:
			return
		}
	}
}

func (lx *Lexer) scanComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '(' && lx.cursor.PeekAt(1) == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case b == '*' && lx.cursor.PeekAt(1) == ')':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return
			}
		default:
			lx.cursor.Bump()
		}
	}
	lx.errLex(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start), "unterminated comment")
}
