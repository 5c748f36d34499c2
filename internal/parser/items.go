package parser

import (
	"fmt"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/token"
)

// parseComponent: COMPONENT {attrs} Name [OFFERS ...] [REQUIRES ...] ; body END Name ;
func (p *Parser) parseComponent() (ast.ItemID, bool) {
	start := p.peek().Span
	if !p.expect(token.KwComponent) {
		return ast.NoItemID, false
	}
	attrs, ok := p.parseAttrs()
	if !ok {
		return ast.NoItemID, false
	}
	name, ok := p.ident()
	if !ok {
		return ast.NoItemID, false
	}
	comp := ast.ComponentItem{Name: name, Attrs: attrs}
	if p.eat(token.KwOffers) {
		if comp.Offers, ok = p.parseIfaceDecls(); !ok {
			return ast.NoItemID, false
		}
	}
	if p.eat(token.KwRequires) {
		if comp.Requires, ok = p.parseIfaceDecls(); !ok {
			return ast.NoItemID, false
		}
	}
	if !p.expect(token.Semicolon) {
		return ast.NoItemID, false
	}
	if comp.Body, ok = p.parseComponentBody(); !ok {
		return ast.NoItemID, false
	}
	end, ok := p.consumeEnd(name)
	if !ok {
		return ast.NoItemID, false
	}
	return p.b.Items.NewComponent(start.Cover(end), comp), true
}

func (p *Parser) parseComponentBody() (*ast.ComponentBody, bool) {
	body := &ast.ComponentBody{Span: p.peek().Span}
	blocks := []struct {
		kind token.Kind
		dst  *ast.SeqID
	}{
		{token.KwBegin, &body.Begin},
		{token.KwActivity, &body.Activity},
		{token.KwFinally, &body.Finally},
	}
loop:
	for !p.at(token.KwEnd) && !p.at(token.EOF) {
		if decl, found, ok := p.parseDeclaration(); found {
			if !ok {
				return nil, false
			}
			body.Decls = append(body.Decls, decl)
			continue
		}
		if p.at(token.KwImplementation) {
			impl, ok := p.parseImplementation()
			if !ok {
				return nil, false
			}
			body.Impls = append(body.Impls, impl)
			continue
		}
		for _, blk := range blocks {
			if !p.at(blk.kind) {
				continue
			}
			if blk.dst.IsValid() {
				return nil, p.fail(diag.SynDuplicateBlock, fmt.Sprintf("cannot have more than one %s per component", blk.kind))
			}
			p.advance()
			seq, ok := p.parseSeq()
			if !ok {
				return nil, false
			}
			*blk.dst = seq
			continue loop
		}
		break
	}
	body.Span = body.Span.Cover(p.lastSpan)
	return body, true
}

// consumeEnd: END Name ; — имя должно совпасть с объявленным.
func (p *Parser) consumeEnd(name ast.Ident) (source.Span, bool) {
	if !p.expect(token.KwEnd) {
		return source.Span{}, false
	}
	tok := p.peek()
	endName, ok := p.ident()
	if !ok {
		return source.Span{}, false
	}
	if endName.Name != name.Name {
		p.pos--
		return source.Span{}, p.fail(diag.SynNameMismatch,
			fmt.Sprintf("name mismatch: expected END %s, got END %s", p.b.NameOf(name.Name), tok.Text))
	}
	end := p.peek().Span
	if !p.expect(token.Semicolon) {
		return source.Span{}, false
	}
	return end, true
}

// parseDeclaration returns found=false when the current token starts no declaration.
func (p *Parser) parseDeclaration() (id ast.ItemID, found, ok bool) {
	switch p.peek().Kind {
	case token.KwComponent:
		id, ok = p.parseComponent()
	case token.KwInterface:
		id, ok = p.parseInterface()
	case token.KwConstant:
		id, ok = p.parseConstants()
	case token.KwVariable:
		id, ok = p.parseVariables()
	case token.KwProcedure:
		id, ok = p.parseProcedure()
	default:
		return ast.NoItemID, false, false
	}
	return id, true, ok
}

func (p *Parser) parseDeclarations() ([]ast.ItemID, bool) {
	var decls []ast.ItemID
	for {
		decl, found, ok := p.parseDeclaration()
		if !found {
			return decls, true
		}
		if !ok {
			return nil, false
		}
		decls = append(decls, decl)
	}
}

// IMPLEMENTATION Name ; decls [BEGIN seq] END Name ;
func (p *Parser) parseImplementation() (ast.ItemID, bool) {
	start := p.peek().Span
	p.advance()
	name, ok := p.ident()
	if !ok || !p.expect(token.Semicolon) {
		return ast.NoItemID, false
	}
	impl := ast.ImplementationItem{Name: name}
	if impl.Decls, ok = p.parseDeclarations(); !ok {
		return ast.NoItemID, false
	}
	if p.eat(token.KwBegin) {
		if impl.Body, ok = p.parseSeq(); !ok {
			return ast.NoItemID, false
		}
	}
	end, ok := p.consumeEnd(name)
	if !ok {
		return ast.NoItemID, false
	}
	return p.b.Items.NewImplementation(start.Cover(end), impl), true
}

// PROCEDURE Name [( params )] [: Type] ; decls [BEGIN seq] END Name ;
func (p *Parser) parseProcedure() (ast.ItemID, bool) {
	start := p.peek().Span
	p.advance()
	name, ok := p.ident()
	if !ok {
		return ast.NoItemID, false
	}
	proc := ast.ProcedureItem{Name: name}
	if p.eat(token.LParen) {
		if !p.at(token.RParen) {
			if proc.Params, ok = p.parseProcParams(); !ok {
				return ast.NoItemID, false
			}
		}
		if !p.expect(token.RParen) {
			return ast.NoItemID, false
		}
	}
	if p.eat(token.Colon) {
		if proc.Return, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	if !p.expect(token.Semicolon) {
		return ast.NoItemID, false
	}
	for !p.at(token.KwEnd) && !p.at(token.EOF) {
		if decl, found, ok := p.parseDeclaration(); found {
			if !ok {
				return ast.NoItemID, false
			}
			proc.Decls = append(proc.Decls, decl)
			continue
		}
		if proc.Body.IsValid() || !p.eat(token.KwBegin) {
			break
		}
		if proc.Body, ok = p.parseSeq(); !ok {
			return ast.NoItemID, false
		}
	}
	end, ok := p.consumeEnd(name)
	if !ok {
		return ast.NoItemID, false
	}
	return p.b.Items.NewProcedure(start.Cover(end), proc), true
}

func (p *Parser) parseProcParams() ([]ast.ProcParam, bool) {
	var params []ast.ProcParam
	for {
		start := p.peek().Span
		mutable := p.eat(token.KwVariable)
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		pp := ast.ProcParam{Mutable: mutable, Type: param.Type, Span: start.Cover(param.Span)}
		for _, n := range param.Names {
			pp.Names = append(pp.Names, p.b.Decls.New(ast.Decl{Name: n, Span: n.Span}))
		}
		params = append(params, pp)
		if !p.eat(token.Semicolon) {
			return params, true
		}
	}
}

// CONSTANT Name = expr ; { Name = expr ; }
func (p *Parser) parseConstants() (ast.ItemID, bool) {
	start := p.peek().Span
	p.advance()
	first, ok := p.parseConstant()
	if !ok {
		return ast.NoItemID, false
	}
	list := ast.ConstantsItem{Consts: []ast.ConstDecl{first}}
	for {
		c, ok := tryParse(p, p.parseConstant)
		if !ok {
			break
		}
		list.Consts = append(list.Consts, c)
	}
	return p.b.Items.NewConstants(start.Cover(p.lastSpan), list), true
}

func (p *Parser) parseConstant() (ast.ConstDecl, bool) {
	name, ok := p.ident()
	if !ok || !p.expect(token.Eq) {
		return ast.ConstDecl{}, false
	}
	value, ok := p.parseExpr()
	if !ok || !p.expect(token.Semicolon) {
		return ast.ConstDecl{}, false
	}
	sp := name.Span.Cover(p.lastSpan)
	return ast.ConstDecl{Decl: p.b.Decls.New(ast.Decl{Name: name, Span: name.Span}), Value: value, Span: sp}, true
}

// VARIABLE names : Type {attrs} ; { names : Type {attrs} ; }
func (p *Parser) parseVariables() (ast.ItemID, bool) {
	start := p.peek().Span
	p.advance()
	first, ok := p.parseVariable()
	if !ok {
		return ast.NoItemID, false
	}
	list := ast.VariablesItem{Vars: []ast.VarDecl{first}}
	for {
		v, ok := tryParse(p, p.parseVariable)
		if !ok {
			break
		}
		list.Vars = append(list.Vars, v)
	}
	return p.b.Items.NewVariables(start.Cover(p.lastSpan), list), true
}

func (p *Parser) parseVariable() (ast.VarDecl, bool) {
	start := p.peek().Span
	var v ast.VarDecl
	for {
		decl, ok := p.parseIndexedName()
		if !ok {
			return ast.VarDecl{}, false
		}
		v.Names = append(v.Names, decl)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(token.Colon) {
		return ast.VarDecl{}, false
	}
	var ok bool
	if v.Type, ok = p.parseType(); !ok {
		return ast.VarDecl{}, false
	}
	if v.Attrs, ok = p.parseAttrs(); !ok {
		return ast.VarDecl{}, false
	}
	if !p.expect(token.Semicolon) {
		return ast.VarDecl{}, false
	}
	v.Span = start.Cover(p.lastSpan)
	return v, true
}

// name или name[params]
func (p *Parser) parseIndexedName() (ast.DeclID, bool) {
	name, ok := p.ident()
	if !ok {
		return ast.NoDeclID, false
	}
	decl := ast.Decl{Name: name, Span: name.Span}
	if p.eat(token.LBracket) {
		if decl.Params, ok = p.parseParams(); !ok {
			return ast.NoDeclID, false
		}
		if !p.expect(token.RBracket) {
			return ast.NoDeclID, false
		}
		decl.Span = name.Span.Cover(p.lastSpan)
	}
	return p.b.Decls.New(decl), true
}

// parseAttrs: { name, name } или ничего.
func (p *Parser) parseAttrs() ([]ast.Attr, bool) {
	if !p.eat(token.LBrace) {
		return nil, true
	}
	var attrs []ast.Attr
	for {
		name, ok := p.ident()
		if !ok {
			return nil, false
		}
		attrs = append(attrs, ast.Attr(name))
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(token.RBrace) {
		return nil, false
	}
	return attrs, true
}
