package parser

import (
	"context"
	"fmt"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/lexer"
	"composita/internal/source"
	"composita/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser — состояние парсера на один файл.
// Токены читаются целиком заранее, поэтому откат при пробном разборе — это просто pos.
type Parser struct {
	toks     []token.Token
	pos      int
	b        *ast.Builder
	file     ast.FileID
	opts     Options
	errors   uint
	spec     int  // > 0 while inside tryParse: diagnostics are suppressed
	failed   bool // the current speculative attempt hit an error
	lastSpan source.Span
}

// ParseFile разбирает один файл. Разбор останавливается на первой синтаксической ошибке:
// дерево с ошибками дальше всё равно не идёт.
func ParseFile(ctx context.Context, lx *lexer.Lexer, b *ast.Builder, opts Options) Result {
	toks := lx.All()
	p := &Parser{
		toks: toks,
		b:    b,
		opts: opts,
	}
	p.file = b.NewFile(toks[0].Span)
	p.parseProgram(ctx)
	f := b.Files.Get(p.file)
	f.Span = toks[0].Span.Cover(p.lastSpan)
	return Result{File: p.file, Errors: p.errors}
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN looks n tokens ahead; past the end it keeps returning EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atIdent(text string) bool { return p.peek().Is(text) }

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect съедает токен вида k или репортит "expected k".
func (p *Parser) expect(k token.Kind) bool {
	if p.eat(k) {
		return true
	}
	code := diag.SynUnexpectedToken
	if k == token.Semicolon {
		code = diag.SynExpectSemicolon
	}
	return p.fail(code, fmt.Sprintf("expected %q, got %s", k.String(), describe(p.peek())))
}

func (p *Parser) expectIdent(text string) bool {
	if p.atIdent(text) {
		p.advance()
		return true
	}
	return p.fail(diag.SynUnexpectedToken, fmt.Sprintf("expected %s, got %s", text, describe(p.peek())))
}

func (p *Parser) ident() (ast.Ident, bool) {
	if tok := p.peek(); tok.Kind == token.Ident {
		p.advance()
		return p.b.Ident(tok.Text, tok.Span), true
	}
	return ast.Ident{}, p.fail(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.peek()))
}

// fail репортит ошибку на текущем токене и всегда возвращает false.
// Во время пробного разбора только помечает попытку как неудачную.
// Invalid-токены уже отрепортил лексер.
func (p *Parser) fail(code diag.Code, msg string) bool {
	if p.spec > 0 {
		p.failed = true
		return false
	}
	p.errors++
	tok := p.peek()
	if tok.Kind == token.Invalid {
		return false
	}
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return false
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, p.diagSpan(), msg, nil)
	}
	return false
}

// diagSpan — для EOF берём позицию сразу после последнего токена.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

// tryParse запускает fn пробно: при неудаче позиция откатывается, диагностики не остаются.
func tryParse[T any](p *Parser, fn func() (T, bool)) (T, bool) {
	save, saveSpan, saveFailed := p.pos, p.lastSpan, p.failed
	p.spec++
	p.failed = false
	v, ok := fn()
	ok = ok && !p.failed
	p.spec--
	p.failed = saveFailed
	if !ok {
		p.pos, p.lastSpan = save, saveSpan
		var zero T
		return zero, false
	}
	return v, true
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.RealLit, token.TextLit, token.Invalid:
		return fmt.Sprintf("%q", tok.Text)
	}
	return fmt.Sprintf("%q", tok.Kind.String())
}

func (p *Parser) parseProgram(ctx context.Context) {
	for !p.at(token.EOF) {
		if ctx.Err() != nil {
			return
		}
		var (
			id ast.ItemID
			ok bool
		)
		switch p.peek().Kind {
		case token.KwComponent:
			id, ok = p.parseComponent()
		case token.KwInterface:
			id, ok = p.parseInterface()
		default:
			p.fail(diag.SynUnexpectedTopLevel, "invalid top level node: expected COMPONENT or INTERFACE, got "+describe(p.peek()))
			return
		}
		if !ok {
			return
		}
		p.b.PushItem(p.file, id)
	}
}
