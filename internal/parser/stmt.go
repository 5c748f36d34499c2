package parser

import (
	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/token"
)

// seqTerminators закрывают последовательность операторов; пустая последовательность перед ними допустима.
var seqTerminators = map[token.Kind]bool{
	token.KwEnd:      true,
	token.KwElsif:    true,
	token.KwElse:     true,
	token.KwUntil:    true,
	token.KwActivity: true,
	token.KwFinally:  true,
	token.EOF:        true,
}

// parseSeq: {attrs} stmt {; stmt}
func (p *Parser) parseSeq() (ast.SeqID, bool) {
	start := p.peek().Span
	attrs, ok := p.parseAttrs()
	if !ok {
		return ast.NoSeqID, false
	}
	seq := ast.Seq{Attrs: attrs, Span: start}
	for !seqTerminators[p.peek().Kind] {
		st, ok := p.parseStmt()
		if !ok {
			return ast.NoSeqID, false
		}
		seq.Stmts = append(seq.Stmts, st)
		if !p.eat(token.Semicolon) {
			break
		}
	}
	seq.Span = start.Cover(p.lastSpan)
	return p.b.Stmts.NewSeq(seq), true
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwRepeat:
		return p.parseRepeat()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwBegin:
		p.advance()
		body, ok := p.parseSeq()
		if !ok || !p.expect(token.KwEnd) {
			return ast.NoStmtID, false
		}
		return p.b.Stmts.NewBlock(tok.Span.Cover(p.lastSpan), body), true
	case token.Ident:
		switch tok.Text {
		case token.IdentNew:
			return p.parseNew()
		case token.IdentDelete:
			return p.parseSingleDesignator(ast.StmtDelete)
		case token.IdentDisconnect:
			return p.parseSingleDesignator(ast.StmtDisconnect)
		case token.IdentConnect:
			return p.parsePair(ast.StmtConnect)
		case token.IdentMove:
			return p.parsePair(ast.StmtMove)
		case token.IdentAwait:
			return p.parseAwait()
		}
	}
	return p.parseSimpleStmt()
}

// parseSimpleStmt разбирает send, receive, присваивание и вызов процедуры.
func (p *Parser) parseSimpleStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	desig, hasDesig := tryParse(p, p.parseDesignator)
	if !hasDesig {
		desig = ast.NoExprID
	}
	switch {
	case p.at(token.Bang):
		return p.parseMessageStmt(ast.StmtSend, start, desig)
	case p.at(token.Question):
		return p.parseMessageStmt(ast.StmtReceive, start, desig)
	case !hasDesig:
		return p.parseProcedureCall()
	case p.eat(token.Assign):
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.b.Stmts.NewAssign(start.Cover(p.lastSpan), ast.AssignStmt{Target: desig, Value: value}), true
	}
	sp := start.Cover(p.lastSpan)
	if name := p.b.Exprs.Name(desig); name != nil {
		return p.b.Stmts.NewCall(sp, ast.CallStmt{Name: *name}), true
	}
	// P(x) разбирается как designator с target: это вызов с одним аргументом.
	if bt := p.b.Exprs.BaseTarget(desig); bt != nil {
		if name := p.b.Exprs.Name(bt.Base); name != nil {
			return p.b.Stmts.NewCall(sp, ast.CallStmt{Name: *name, Args: []ast.ExprID{bt.Target}}), true
		}
	}
	return ast.NoStmtID, p.fail(diag.SynUnknownStatement, "failed to parse statement: unknown statement")
}

// Name [( exprs )]
func (p *Parser) parseProcedureCall() (ast.StmtID, bool) {
	name, ok := p.ident()
	if !ok {
		return ast.NoStmtID, false
	}
	call := ast.CallStmt{Name: name}
	if p.eat(token.LParen) {
		if call.Args, ok = p.parseExprList(); !ok {
			return ast.NoStmtID, false
		}
		if !p.expect(token.RParen) {
			return ast.NoStmtID, false
		}
	}
	return p.b.Stmts.NewCall(name.Span.Cover(p.lastSpan), call), true
}

// [target] ! Msg [( exprs )]  |  [target] ? Msg [( designators )]
func (p *Parser) parseMessageStmt(kind ast.StmtKind, start source.Span, target ast.ExprID) (ast.StmtID, bool) {
	p.advance()
	name, ok := p.ident()
	if !ok {
		return ast.NoStmtID, false
	}
	msg := ast.MessageStmt{Target: target, Msg: name}
	if p.eat(token.LParen) {
		if kind == ast.StmtSend {
			msg.Args, ok = p.parseExprList()
		} else {
			msg.Args, ok = p.parseDesignatorList()
		}
		if !ok || !p.expect(token.RParen) {
			return ast.NoStmtID, false
		}
	}
	return p.b.Stmts.NewMessage(kind, start.Cover(p.lastSpan), msg), true
}

// NEW ( designator [, exprs] )
func (p *Parser) parseNew() (ast.StmtID, bool) {
	start := p.advance().Span
	if !p.expect(token.LParen) {
		return ast.NoStmtID, false
	}
	target, ok := p.parseDesignator()
	if !ok {
		return ast.NoStmtID, false
	}
	stmt := ast.NewStmt{Target: target}
	if p.eat(token.Comma) {
		if stmt.Args, ok = p.parseExprList(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expect(token.RParen) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewNew(start.Cover(p.lastSpan), stmt), true
}

// DELETE ( designator ) | DISCONNECT ( designator )
func (p *Parser) parseSingleDesignator(kind ast.StmtKind) (ast.StmtID, bool) {
	start := p.advance().Span
	if !p.expect(token.LParen) {
		return ast.NoStmtID, false
	}
	x, ok := p.parseDesignator()
	if !ok || !p.expect(token.RParen) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewSingle(kind, start.Cover(p.lastSpan), x), true
}

// CONNECT ( what , to ) | MOVE ( from , to )
func (p *Parser) parsePair(kind ast.StmtKind) (ast.StmtID, bool) {
	start := p.advance().Span
	if !p.expect(token.LParen) {
		return ast.NoStmtID, false
	}
	from, ok := p.parseDesignator()
	if !ok || !p.expect(token.Comma) {
		return ast.NoStmtID, false
	}
	to, ok := p.parseDesignator()
	if !ok || !p.expect(token.RParen) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewPair(kind, start.Cover(p.lastSpan), ast.PairStmt{From: from, To: to}), true
}

// AWAIT ( expr )
func (p *Parser) parseAwait() (ast.StmtID, bool) {
	start := p.advance().Span
	if !p.expect(token.LParen) {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok || !p.expect(token.RParen) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewSingle(ast.StmtAwait, start.Cover(p.lastSpan), cond), true
}

// RETURN [expr]
func (p *Parser) parseReturn() (ast.StmtID, bool) {
	start := p.advance().Span
	x, ok := tryParse(p, p.parseExpr)
	if !ok {
		x = ast.NoExprID
	}
	return p.b.Stmts.NewSingle(ast.StmtReturn, start.Cover(p.lastSpan), x), true
}

// IF expr THEN seq {ELSIF expr THEN seq} [ELSE seq] END
func (p *Parser) parseIf() (ast.StmtID, bool) {
	start := p.advance().Span
	var (
		stmt ast.IfStmt
		ok   bool
	)
	if stmt.Cond, stmt.Then, ok = p.parseGuarded(token.KwThen); !ok {
		return ast.NoStmtID, false
	}
	for p.at(token.KwElsif) {
		elsStart := p.advance().Span
		var elsif ast.ElsIf
		if elsif.Cond, elsif.Then, ok = p.parseGuarded(token.KwThen); !ok {
			return ast.NoStmtID, false
		}
		elsif.Span = elsStart.Cover(p.lastSpan)
		stmt.Elsifs = append(stmt.Elsifs, elsif)
	}
	if p.eat(token.KwElse) {
		if stmt.Else, ok = p.parseSeq(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expect(token.KwEnd) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewIf(start.Cover(p.lastSpan), stmt), true
}

// parseGuarded: expr <kw> seq
func (p *Parser) parseGuarded(kw token.Kind) (ast.ExprID, ast.SeqID, bool) {
	cond, ok := p.parseExpr()
	if !ok || !p.expect(kw) {
		return ast.NoExprID, ast.NoSeqID, false
	}
	body, ok := p.parseSeq()
	if !ok {
		return ast.NoExprID, ast.NoSeqID, false
	}
	return cond, body, true
}

// WHILE expr DO seq END
func (p *Parser) parseWhile() (ast.StmtID, bool) {
	start := p.advance().Span
	cond, body, ok := p.parseGuarded(token.KwDo)
	if !ok || !p.expect(token.KwEnd) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewLoop(ast.StmtWhile, start.Cover(p.lastSpan), ast.LoopStmt{Cond: cond, Body: body}), true
}

// REPEAT seq UNTIL expr
func (p *Parser) parseRepeat() (ast.StmtID, bool) {
	start := p.advance().Span
	body, ok := p.parseSeq()
	if !ok || !p.expect(token.KwUntil) {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewLoop(ast.StmtRepeat, start.Cover(p.lastSpan), ast.LoopStmt{Cond: cond, Body: body}), true
}

// FOR designator := expr TO expr [BY expr] DO seq END
func (p *Parser) parseFor() (ast.StmtID, bool) {
	start := p.advance().Span
	stmt := ast.ForStmt{By: ast.NoExprID}
	var ok bool
	if stmt.Var, ok = p.parseDesignator(); !ok || !p.expect(token.Assign) {
		return ast.NoStmtID, false
	}
	if stmt.From, ok = p.parseExpr(); !ok || !p.expect(token.KwTo) {
		return ast.NoStmtID, false
	}
	if stmt.To, ok = p.parseExpr(); !ok {
		return ast.NoStmtID, false
	}
	if p.eat(token.KwBy) {
		if stmt.By, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expect(token.KwDo) {
		return ast.NoStmtID, false
	}
	if stmt.Body, ok = p.parseSeq(); !ok || !p.expect(token.KwEnd) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewFor(start.Cover(p.lastSpan), stmt), true
}

// FOREACH designators OF designator DO seq END
func (p *Parser) parseForeach() (ast.StmtID, bool) {
	start := p.advance().Span
	var (
		stmt ast.ForeachStmt
		ok   bool
	)
	if stmt.Vars, ok = p.parseDesignatorList(); !ok || !p.expect(token.KwOf) {
		return ast.NoStmtID, false
	}
	if stmt.Of, ok = p.parseDesignator(); !ok || !p.expect(token.KwDo) {
		return ast.NoStmtID, false
	}
	if stmt.Body, ok = p.parseSeq(); !ok || !p.expect(token.KwEnd) {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewForeach(start.Cover(p.lastSpan), stmt), true
}
