package lexer

import (
	"composita/internal/diag"
	"composita/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: ошибки теряются, лексинг продолжается
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
