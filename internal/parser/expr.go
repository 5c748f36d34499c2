package parser

import (
	"unicode/utf8"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/lexer"
	"composita/internal/source"
	"composita/internal/token"
)

var relOps = map[token.Kind]ast.Op{
	token.Eq:   ast.OpEq,
	token.Hash: ast.OpNe,
	token.Lt:   ast.OpLt,
	token.LtEq: ast.OpLe,
	token.Gt:   ast.OpGt,
	token.GtEq: ast.OpGe,
}

var termOps = map[token.Kind]ast.Op{
	token.Plus:  ast.OpAdd,
	token.Minus: ast.OpSub,
	token.KwOr:  ast.OpOr,
}

var factorOps = map[token.Kind]ast.Op{
	token.Star:  ast.OpMul,
	token.Slash: ast.OpSlash,
	token.KwDiv: ast.OpDiv,
	token.KwMod: ast.OpMod,
	token.KwAnd: ast.OpAnd,
}

// parseExpr: {attrs} simple [relation | OFFERS ... | REQUIRES ... | IS Type]
// OFFERS, REQUIRES и IS допустимы только после designator.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	start := p.peek().Span
	attrs, ok := p.parseAttrs()
	if !ok {
		return ast.NoExprID, false
	}
	left, ok := p.parseSimple()
	if !ok {
		return ast.NoExprID, false
	}
	if p.b.Exprs.Get(left).Kind.IsDesignator() {
		switch kind := p.peek().Kind; kind {
		case token.KwOffers, token.KwRequires:
			p.advance()
			ifaces, ok := p.parseIfaceDecls()
			if !ok {
				return ast.NoExprID, false
			}
			return p.b.Exprs.NewOffersRequires(start.Cover(p.lastSpan), ast.OffersRequiresExpr{
				Attrs: attrs, Subject: left, Requires: kind == token.KwRequires, Ifaces: ifaces,
			}), true
		case token.KwIs:
			p.advance()
			ty, ok := p.parseType()
			if !ok {
				return ast.NoExprID, false
			}
			return p.b.Exprs.NewTypeCheck(start.Cover(p.lastSpan), ast.TypeCheckExpr{Attrs: attrs, Subject: left, Type: ty}), true
		}
		if _, rel := relOps[p.peek().Kind]; !rel {
			return left, true
		}
	}
	op, rel := relOps[p.peek().Kind]
	if !rel {
		return p.b.Exprs.NewUnary(start.Cover(p.lastSpan), ast.UnaryExpr{Attrs: attrs, X: left}), true
	}
	p.advance()
	right, ok := p.parseSimple()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewBinary(start.Cover(p.lastSpan), ast.BinaryExpr{Attrs: attrs, Left: left, Op: op, Right: right}), true
}

func (p *Parser) parseExprList() ([]ast.ExprID, bool) {
	var out []ast.ExprID
	for {
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, x)
		if !p.eat(token.Comma) {
			return out, true
		}
	}
}

// parseSimple: [+|-] term {(+|-|OR) term}
func (p *Parser) parseSimple() (ast.ExprID, bool) {
	start := p.peek().Span
	var left ast.ExprID
	if p.at(token.Plus) || p.at(token.Minus) {
		neg := p.advance().Kind == token.Minus
		x, ok := p.parseTerm()
		if !ok {
			return ast.NoExprID, false
		}
		left = p.b.Exprs.NewSign(start.Cover(p.lastSpan), ast.SignExpr{Negative: neg, X: x})
	} else {
		var ok bool
		if left, ok = p.parseTerm(); !ok {
			return ast.NoExprID, false
		}
	}
	return p.parseChain(ast.ExprTermChain, start, left, termOps, p.parseTerm)
}

// parseTerm: factor {(*|/|DIV|MOD|AND) factor}
func (p *Parser) parseTerm() (ast.ExprID, bool) {
	start := p.peek().Span
	left, ok := p.parseFactor()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parseChain(ast.ExprFactorChain, start, left, factorOps, p.parseFactor)
}

// parseChain собирает левоассоциативную цепочку; без операторов возвращает left как есть.
func (p *Parser) parseChain(kind ast.ExprKind, start source.Span, left ast.ExprID, ops map[token.Kind]ast.Op, next func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	var links []ast.ChainLink
	for {
		op, isOp := ops[p.peek().Kind]
		if !isOp {
			break
		}
		opSpan := p.advance().Span
		x, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		links = append(links, ast.ChainLink{Op: op, X: x, Span: opSpan.Cover(p.lastSpan)})
	}
	if len(links) == 0 {
		return left, true
	}
	return p.b.Exprs.NewChain(kind, start.Cover(p.lastSpan), ast.ChainExpr{Left: left, Links: links}), true
}

// parseFactor: ~factor | ( expr ) | operand
func (p *Parser) parseFactor() (ast.ExprID, bool) {
	start := p.peek().Span
	switch {
	case p.eat(token.Tilde):
		x, ok := p.parseFactor()
		if !ok {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewWrap(ast.ExprNot, start.Cover(p.lastSpan), x), true
	case p.eat(token.LParen):
		x, ok := p.parseExpr()
		if !ok || !p.expect(token.RParen) {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewWrap(ast.ExprParen, start.Cover(p.lastSpan), x), true
	}
	return p.parseOperand()
}

func (p *Parser) parseOperand() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.TextLit:
		p.advance()
		text := lexer.TextValue(tok.Text)
		if utf8.RuneCountInString(text) == 1 {
			r, _ := utf8.DecodeRuneInString(text)
			return p.b.Exprs.NewLiteral(ast.ExprChar, tok.Span, ast.Literal{Char: r}), true
		}
		return p.b.Exprs.NewLiteral(ast.ExprText, tok.Span, ast.Literal{Text: text}), true
	case token.IntLit:
		v, err := lexer.IntValue(tok.Text)
		if err != nil {
			return ast.NoExprID, p.fail(diag.SynExpectExpression, err.Error())
		}
		p.advance()
		return p.b.Exprs.NewLiteral(ast.ExprInt, tok.Span, ast.Literal{Int: v}), true
	case token.RealLit:
		v, err := lexer.RealValue(tok.Text)
		if err != nil {
			return ast.NoExprID, p.fail(diag.SynExpectExpression, err.Error())
		}
		p.advance()
		return p.b.Exprs.NewLiteral(ast.ExprReal, tok.Span, ast.Literal{Real: v}), true
	case token.Question:
		return p.parseReceiveTest(ast.NoExprID)
	case token.Ident:
		switch tok.Text {
		case token.IdentInput:
			return p.parseInputTest()
		case token.IdentExists:
			p.advance()
			if !p.expect(token.LParen) {
				return ast.NoExprID, false
			}
			x, ok := p.parseDesignator()
			if !ok || !p.expect(token.RParen) {
				return ast.NoExprID, false
			}
			return p.b.Exprs.NewTest(ast.ExprExists, tok.Span.Cover(p.lastSpan), ast.TestExpr{Target: x}), true
		}
	default:
		return ast.NoExprID, p.fail(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	}
	desig, ok := tryParse(p, p.parseDesignator)
	if ok && p.at(token.Question) {
		return p.parseReceiveTest(desig)
	}
	if !ok {
		return p.parseFunctionCall()
	}
	// F(x) без скобочных аргументов остаётся designator; вызов распознаёт sema.
	return desig, true
}

// Name ( [exprs] )
func (p *Parser) parseFunctionCall() (ast.ExprID, bool) {
	name, ok := p.ident()
	if !ok || !p.expect(token.LParen) {
		return ast.NoExprID, false
	}
	call := ast.CallExpr{Name: name}
	if !p.at(token.RParen) {
		if call.Args, ok = p.parseExprList(); !ok {
			return ast.NoExprID, false
		}
	}
	if !p.expect(token.RParen) {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewCall(name.Span.Cover(p.lastSpan), call), true
}

// parsePattern: ANY | FINISH | Name
func (p *Parser) parsePattern() (ast.PatternKind, ast.Ident, bool) {
	tok := p.peek()
	switch {
	case p.eat(token.KwAny):
		return ast.PatternAny, ast.Ident{Span: tok.Span}, true
	case p.eat(token.KwFinish):
		return ast.PatternFinish, ast.Ident{Span: tok.Span}, true
	}
	name, ok := p.ident()
	return ast.PatternName, name, ok
}

// [designator] ? pattern
func (p *Parser) parseReceiveTest(target ast.ExprID) (ast.ExprID, bool) {
	start := p.peek().Span
	if target.IsValid() {
		start = p.b.Exprs.Get(target).Span
	}
	p.advance()
	kind, msg, ok := p.parsePattern()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewTest(ast.ExprReceiveTest, start.Cover(p.lastSpan), ast.TestExpr{Target: target, Pattern: kind, Msg: msg}), true
}

// INPUT ( Name ) | INPUT ( designator , pattern )
func (p *Parser) parseInputTest() (ast.ExprID, bool) {
	start := p.advance().Span
	if !p.expect(token.LParen) {
		return ast.NoExprID, false
	}
	desig, ok := p.parseDesignator()
	if !ok {
		return ast.NoExprID, false
	}
	test := ast.TestExpr{Target: desig}
	if p.eat(token.Comma) {
		if test.Pattern, test.Msg, ok = p.parsePattern(); !ok {
			return ast.NoExprID, false
		}
	} else {
		name := p.b.Exprs.Name(desig)
		if name == nil {
			return ast.NoExprID, p.fail(diag.SynUnexpectedToken, "failed to parse input test: expected message name")
		}
		test = ast.TestExpr{Target: ast.NoExprID, Pattern: ast.PatternName, Msg: *name}
	}
	if !p.expect(token.RParen) {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewTest(ast.ExprInputTest, start.Cover(p.lastSpan), test), true
}

// parseDesignator: Name [ '[' exprs ']' ] [ ( ANY-type | designator ) ]
func (p *Parser) parseDesignator() (ast.ExprID, bool) {
	name, ok := p.ident()
	if !ok {
		return ast.NoExprID, false
	}
	var base ast.ExprID
	if p.eat(token.LBracket) {
		idx, ok := p.parseExprList()
		if !ok || !p.expect(token.RBracket) {
			return ast.NoExprID, false
		}
		base = p.b.Exprs.NewIndex(name.Span.Cover(p.lastSpan), ast.IndexExpr{Name: name, Indices: idx})
	} else {
		base = p.b.Exprs.NewName(name)
	}
	if !p.eat(token.LParen) {
		return base, true
	}
	if p.at(token.KwAny) {
		ty, ok := p.parseType()
		if !ok || !p.expect(token.RParen) {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewDesignatorType(name.Span.Cover(p.lastSpan), ast.DesignatorTypeExpr{X: base, Type: ty}), true
	}
	target, ok := p.parseDesignator()
	if !ok || !p.expect(token.RParen) {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewBaseTarget(name.Span.Cover(p.lastSpan), ast.BaseTargetExpr{Base: base, Target: target}), true
}

func (p *Parser) parseDesignatorList() ([]ast.ExprID, bool) {
	var out []ast.ExprID
	for {
		d, ok := p.parseDesignator()
		if !ok {
			return nil, false
		}
		out = append(out, d)
		if !p.eat(token.Comma) {
			return out, true
		}
	}
}
