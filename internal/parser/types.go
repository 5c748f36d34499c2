package parser

import (
	"fmt"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/lexer"
	"composita/internal/token"

	"fortio.org/safecast"
)

// parseType: Ident | ANY [ ( offered {, offered} [ | required {, required} ] ) ]
func (p *Parser) parseType() (ast.TypeID, bool) {
	tok := p.peek()
	if tok.Kind == token.Ident {
		p.advance()
		return p.b.Types.New(ast.Type{Kind: ast.TypeNamed, Span: tok.Span, Name: p.b.Ident(tok.Text, tok.Span)}), true
	}
	if !p.eat(token.KwAny) {
		return ast.NoTypeID, p.fail(diag.SynExpectType, "expected type, got "+describe(tok))
	}
	ty := ast.Type{Kind: ast.TypeAny, Span: tok.Span}
	if p.eat(token.LParen) {
		var ok bool
		if ty.Offered, ok = p.parseIfaceDecls(); !ok {
			return ast.NoTypeID, false
		}
		if p.eat(token.Pipe) {
			if ty.Required, ok = p.parseIfaceDecls(); !ok {
				return ast.NoTypeID, false
			}
		}
		if !p.expect(token.RParen) {
			return ast.NoTypeID, false
		}
		ty.Span = tok.Span.Cover(p.lastSpan)
	}
	return p.b.Types.New(ty), true
}

// parseIfaceDecls: Name [cardinality] {, Name [cardinality]}
func (p *Parser) parseIfaceDecls() ([]ast.IfaceDecl, bool) {
	var out []ast.IfaceDecl
	for {
		name, ok := p.ident()
		if !ok {
			return nil, false
		}
		decl := ast.IfaceDecl{Name: name, Card: ast.DefaultCardinality, Span: name.Span}
		if p.at(token.LBracket) {
			if decl.Card, ok = p.parseCardinality(); !ok {
				return nil, false
			}
			decl.Span = name.Span.Cover(decl.Card.Span)
		}
		out = append(out, decl)
		if !p.eat(token.Comma) {
			return out, true
		}
	}
}

// parseCardinality: [n] | [n..m] | [n..*]
func (p *Parser) parseCardinality() (ast.Cardinality, bool) {
	start := p.advance().Span
	lo, ok := p.cardNumber()
	if !ok {
		return ast.Cardinality{}, false
	}
	card := ast.Cardinality{Min: lo, Max: lo, Explicit: true}
	if p.eat(token.DotDot) {
		switch {
		case p.eat(token.Star):
			card.Max = ast.Unbounded
		case p.at(token.IntLit):
			if card.Max, ok = p.cardNumber(); !ok {
				return ast.Cardinality{}, false
			}
		default:
			return ast.Cardinality{}, p.fail(diag.SynBadCardinality, `expected number or "*", got `+describe(p.peek()))
		}
	}
	if !p.expect(token.RBracket) {
		return ast.Cardinality{}, false
	}
	card.Span = start.Cover(p.lastSpan)
	return card, true
}

func (p *Parser) cardNumber() (uint32, bool) {
	tok := p.peek()
	if tok.Kind != token.IntLit {
		return 0, p.fail(diag.SynBadCardinality, "expected number, got "+describe(tok))
	}
	v, err := lexer.IntValue(tok.Text)
	if err != nil {
		return 0, p.fail(diag.SynBadCardinality, err.Error())
	}
	n, err := safecast.Conv[uint32](v)
	if err != nil || n == ast.Unbounded {
		return 0, p.fail(diag.SynBadCardinality, fmt.Sprintf("cardinality %d out of range", v))
	}
	p.advance()
	return n, true
}

// parseParam: names : Type
func (p *Parser) parseParam() (ast.Param, bool) {
	var param ast.Param
	for {
		name, ok := p.ident()
		if !ok {
			return ast.Param{}, false
		}
		param.Names = append(param.Names, name)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(token.Colon) {
		return ast.Param{}, false
	}
	var ok bool
	if param.Type, ok = p.parseType(); !ok {
		return ast.Param{}, false
	}
	param.Span = param.Names[0].Span.Cover(p.lastSpan)
	return param, true
}

// parseParams: param {; param}
func (p *Parser) parseParams() ([]ast.Param, bool) {
	var out []ast.Param
	for {
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		out = append(out, param)
		if !p.eat(token.Semicolon) {
			return out, true
		}
	}
}

// INTERFACE Name ; protocol END Name ;
func (p *Parser) parseInterface() (ast.ItemID, bool) {
	start := p.peek().Span
	p.advance()
	name, ok := p.ident()
	if !ok || !p.expect(token.Semicolon) {
		return ast.NoItemID, false
	}
	iface := ast.InterfaceItem{Name: name}
	if !p.at(token.KwEnd) {
		if iface.Protocol, ok = p.parseProtocol(); !ok {
			return ast.NoItemID, false
		}
	}
	end, ok := p.consumeEnd(name)
	if !ok {
		return ast.NoItemID, false
	}
	return p.b.Items.NewInterface(start.Cover(end), iface), true
}

// parseProtocol: term { | term }
func (p *Parser) parseProtocol() (ast.ProtoID, bool) {
	start := p.peek().Span
	var terms []ast.ProtoID
	for {
		term, ok := p.parseProtocolTerm()
		if !ok {
			return ast.NoProtoID, false
		}
		terms = append(terms, term)
		if !p.eat(token.Pipe) {
			break
		}
	}
	return p.b.Protos.New(ast.Proto{Kind: ast.ProtoChoice, Span: start.Cover(p.lastSpan), Children: terms}), true
}

func (p *Parser) parseProtocolTerm() (ast.ProtoID, bool) {
	start := p.peek().Span
	var factors []ast.ProtoID
	for {
		var (
			f  ast.ProtoID
			ok bool
		)
		switch p.peek().Kind {
		case token.KwIn, token.KwOut:
			f, ok = p.parseMessageDecl()
		case token.LBracket:
			f, ok = p.parseProtocolGroup(ast.ProtoOptional, token.RBracket)
		case token.LParen:
			f, ok = p.parseProtocolGroup(ast.ProtoGroup, token.RParen)
		case token.LBrace:
			f, ok = p.parseProtocolGroup(ast.ProtoRepeat, token.RBrace)
		default:
			if len(factors) == 0 {
				return ast.NoProtoID, p.fail(diag.SynMissingDirection, "message declarations must have a direction (IN or OUT)")
			}
			return p.b.Protos.New(ast.Proto{Kind: ast.ProtoSeq, Span: start.Cover(p.lastSpan), Children: factors}), true
		}
		if !ok {
			return ast.NoProtoID, false
		}
		factors = append(factors, f)
	}
}

func (p *Parser) parseProtocolGroup(kind ast.ProtoKind, closing token.Kind) (ast.ProtoID, bool) {
	start := p.advance().Span
	inner, ok := p.parseProtocol()
	if !ok || !p.expect(closing) {
		return ast.NoProtoID, false
	}
	return p.b.Protos.New(ast.Proto{Kind: kind, Span: start.Cover(p.lastSpan), Children: []ast.ProtoID{inner}}), true
}

// IN|OUT Name [( params )]
func (p *Parser) parseMessageDecl() (ast.ProtoID, bool) {
	dirTok := p.advance()
	msg := ast.MessageDecl{Dir: ast.DirIn}
	if dirTok.Kind == token.KwOut {
		msg.Dir = ast.DirOut
	}
	var ok bool
	if msg.Name, ok = p.ident(); !ok {
		return ast.NoProtoID, false
	}
	if p.eat(token.LParen) {
		if msg.Params, ok = p.parseParams(); !ok {
			return ast.NoProtoID, false
		}
		if !p.expect(token.RParen) {
			return ast.NoProtoID, false
		}
	}
	return p.b.Protos.New(ast.Proto{Kind: ast.ProtoMessage, Span: dirTok.Span.Cover(p.lastSpan), Msg: msg}), true
}
