package parser

import (
	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/lexer"
)

// parsePattern parses a full pattern, including the right-associative `::`
// cons form. Constructor arguments and tuple elements recurse through
// patternAtom, not parsePattern, so a bare `Cons x xs :: rest` still needs
// parentheses around the constructor pattern to cons onto it.
func (p *Parser) parsePattern() ast.Pattern {
	lhs := p.patternAtom()
	if p.at(lexer.CONS) {
		p.advance()
		rhs := p.parsePattern()
		return ast.PCons{Head: lhs, Tail: rhs, Reg: ast.Join(lhs.Region(), rhs.Region())}
	}
	return lhs
}

func (p *Parser) startsPatternAtom() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.TYPEID, lexer.LPAREN:
		return true
	default:
		return false
	}
}

// patternAtom parses a single pattern atom: a wildcard, a bound
// identifier, a constructor applied to further atoms, or a
// parenthesized/tuple pattern. There is no bracket list-pattern syntax;
// list structure is matched exclusively via `::` and the nullary `Empty`
// constructor.
func (p *Parser) patternAtom() ast.Pattern {
	switch p.cur.Type {
	case lexer.IDENT:
		tok := p.cur
		p.advance()
		if tok.Literal == "_" {
			return ast.PWildcard{Reg: tokenRegion(tok)}
		}
		return ast.PIdentifier{Name: ast.Name(tok.Literal), Reg: tokenRegion(tok)}
	case lexer.TYPEID:
		start := p.curRegion()
		tok := p.cur
		p.advance()
		var args []ast.Pattern
		for p.startsPatternAtom() {
			args = append(args, p.patternAtom())
		}
		end := start
		if len(args) > 0 {
			end = args[len(args)-1].Region()
		}
		return ast.PConstructor{Name: ast.Name(tok.Literal), Args: args, Reg: ast.Join(start, end)}
	case lexer.LPAREN:
		return p.parsePatternParenOrTuple()
	default:
		region := p.curRegion()
		p.unexpected(lexer.IDENT)
		if !p.at(lexer.EOF) {
			p.advance()
		}
		return ast.PWildcard{Reg: region}
	}
}

func (p *Parser) parsePatternParenOrTuple() ast.Pattern {
	start := p.curRegion()
	p.advance() // (
	if p.at(lexer.RPAREN) {
		end := p.curRegion()
		p.advance()
		return ast.PTuple{Reg: ast.Join(start, end)}
	}
	first := p.parsePattern()
	if p.at(lexer.COMMA) {
		elems := []ast.Pattern{first}
		for p.at(lexer.COMMA) {
			p.advance()
			elems = append(elems, p.parsePattern())
		}
		end := p.curRegion()
		p.expect(lexer.RPAREN)
		return ast.PTuple{Elements: elems, Reg: ast.Join(start, end)}
	}
	p.expect(lexer.RPAREN)
	return first
}
