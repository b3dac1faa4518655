package parser

import (
	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/lexer"
)

// parseType parses a full type expression, including the right-associative
// function arrow.
func (p *Parser) parseType() ast.Type_ {
	lhs := p.parseTypeApplication()
	if p.at(lexer.ARROW) {
		p.advance()
		rhs := p.parseType()
		return ast.TFn{From: lhs, To: rhs}
	}
	return lhs
}

// parseTypeApplication parses a type atom followed by zero or more further
// atoms, e.g. `List a`, `Dict k v`, `Result e a`.
func (p *Parser) parseTypeApplication() ast.Type_ {
	head := p.parseTypeAtom()
	if !p.startsTypeAtom() {
		return head
	}
	first := p.parseTypeAtom()
	var rest []ast.Type_
	for p.startsTypeAtom() {
		rest = append(rest, p.parseTypeAtom())
	}
	return ast.TConstructor{Head: head, First: first, Rest: rest}
}

func (p *Parser) startsTypeAtom() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.TYPEID, lexer.LPAREN, lexer.LBRACE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTypeAtom() ast.Type_ {
	switch p.cur.Type {
	case lexer.IDENT:
		tok := p.cur
		p.advance()
		return ast.TVariable{Name: ast.Name(tok.Literal)}
	case lexer.TYPEID:
		return p.parseTypeIdentifierPath()
	case lexer.LPAREN:
		return p.parseTypeParenOrTupleOrUnit()
	case lexer.LBRACE:
		return p.parseTypeRecord()
	default:
		p.unexpected(lexer.TYPEID)
		if !p.at(lexer.EOF) {
			p.advance()
		}
		return ast.TUnit{}
	}
}

// parseTypeIdentifierPath collects a dotted TYPEID run and resolves it to
// either a bare locally-defined type name or a qualified one.
func (p *Parser) parseTypeIdentifierPath() ast.Type_ {
	first := p.cur
	p.advance()
	segs := []string{first.Literal}
	for p.at(lexer.DOT) && p.peekAt(lexer.TYPEID) {
		p.advance()
		seg := p.cur
		p.advance()
		segs = append(segs, seg.Literal)
	}
	if len(segs) == 1 {
		return ast.TIdentifier{Name: ast.Name(segs[0])}
	}
	return ast.TQualifiedIdentifier{
		Module: ast.ModuleName(segs[:len(segs)-1]),
		Name:   ast.Name(segs[len(segs)-1]),
	}
}

func (p *Parser) parseTypeParenOrTupleOrUnit() ast.Type_ {
	p.advance() // (
	if p.at(lexer.RPAREN) {
		p.advance()
		return ast.TUnit{}
	}
	first := p.parseType()
	if p.at(lexer.COMMA) {
		p.advance()
		second := p.parseType()
		var rest []ast.Type_
		for p.at(lexer.COMMA) {
			p.advance()
			rest = append(rest, p.parseType())
		}
		p.expect(lexer.RPAREN)
		return ast.TTuple{First: first, Second: second, Rest: rest}
	}
	p.expect(lexer.RPAREN)
	return first
}

func (p *Parser) parseTypeRecord() ast.Type_ {
	p.advance() // {
	fields := map[ast.Name]ast.Type_{}
	var order []ast.Name
	if !p.at(lexer.RBRACE) {
		for {
			nameTok, _ := p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			ty := p.parseType()
			fields[ast.Name(nameTok.Literal)] = ty
			order = append(order, ast.Name(nameTok.Literal))
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(lexer.RBRACE)
	return ast.TRecord{Fields: fields, Order: order}
}
