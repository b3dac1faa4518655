package parser

import (
	"strconv"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
	"github.com/pac-lang/pac/internal/lexer"
)

// parseExpression dispatches to the keyword-led expression forms, which
// always extend as far right as possible, or falls through to the
// precedence-climbed operator grammar.
func (p *Parser) parseExpression() ast.Expr {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.BACKSLASH:
		return p.parseLambda()
	case lexer.WHEN:
		return p.parseWhen()
	default:
		return p.parseOpExpr(0)
	}
}

func operatorAt(t lexer.Type) (ast.Operator, bool) {
	switch t {
	case lexer.PIPE_LEFT:
		return ast.OpPipeLeft, true
	case lexer.PIPE_RIGHT:
		return ast.OpPipeRight, true
	case lexer.OR_OR:
		return ast.OpOr, true
	case lexer.AND_AND:
		return ast.OpAnd, true
	case lexer.LT:
		return ast.OpLt, true
	case lexer.GT:
		return ast.OpGt, true
	case lexer.LTE:
		return ast.OpLte, true
	case lexer.GTE:
		return ast.OpGte, true
	case lexer.EQ_EQ:
		return ast.OpEq, true
	case lexer.NEQ:
		return ast.OpNeq, true
	case lexer.CONS:
		return ast.OpCons, true
	case lexer.APPEND:
		return ast.OpAppend, true
	case lexer.PLUS:
		return ast.OpAdd, true
	case lexer.MINUS:
		return ast.OpSub, true
	case lexer.STAR:
		return ast.OpMul, true
	case lexer.SLASH:
		return ast.OpDiv, true
	case lexer.PERCENT:
		return ast.OpMod, true
	case lexer.CARET:
		return ast.OpPow, true
	case lexer.SHL:
		return ast.OpCompose, true
	case lexer.SHR:
		return ast.OpComposeRev, true
	default:
		return 0, false
	}
}

// parseOpExpr implements precedence climbing over the fixed operator table.
// None-associative operators (comparisons) are rejected from chaining
// directly onto themselves at the same precedence, so `a < b < c` is a
// diagnostic rather than a silent left-to-right parse.
func (p *Parser) parseOpExpr(minPrec int) ast.Expr {
	lhs := p.parseApplication()
	for {
		op, ok := operatorAt(p.cur.Type)
		if !ok || op.Precedence() < minPrec {
			break
		}
		prec := op.Precedence()
		assoc := op.Associativity()
		p.advance()

		nextMin := prec + 1
		if assoc == ast.AssocRight {
			nextMin = prec
		}
		rhs := p.parseOpExpr(nextMin)
		reg := ast.Join(lhs.Region(), rhs.Region())
		lhs = ast.EBinOp{Op: op, Lhs: lhs, Rhs: rhs, Reg: reg}

		if assoc == ast.AssocNone {
			if next, ok := operatorAt(p.cur.Type); ok && next.Precedence() == prec {
				region := p.curRegion()
				p.errorf(region, diag.CodeUnexpectedToken, "non-associative operator chained",
					"comparison operator %s cannot be chained; add parentheses", next)
				break
			}
		}
	}
	return lhs
}

// parseApplication parses left-associative function application, the
// tightest-binding surface form. A leading '-' never starts an argument
// atom, so `f - 1` always parses as subtraction, never as `f` applied to
// the literal `-1`.
func (p *Parser) parseApplication() ast.Expr {
	fn := p.parseAtomWithSign()
	for p.startsAtom() {
		arg := p.parseAtomNoSign()
		fn = ast.EAp{Fn: fn, Arg: arg, Reg: ast.Join(fn.Region(), arg.Region())}
	}
	return fn
}

func (p *Parser) startsAtom() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.TYPEID, lexer.INT, lexer.FLOAT, lexer.STRING,
		lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE, lexer.CRASH, lexer.DBG, lexer.EXTERN:
		return true
	default:
		return false
	}
}

// parseAtomWithSign is used only in operand-start position (the head of an
// application), where a signed numeric literal is unambiguous.
func (p *Parser) parseAtomWithSign() ast.Expr {
	if (p.at(lexer.MINUS) || p.at(lexer.PLUS)) && (p.peekAt(lexer.INT) || p.peekAt(lexer.FLOAT)) {
		minusTok := p.cur
		p.advance()
		return p.parseSignedNumber(minusTok)
	}
	return p.parseAtomNoSign()
}

func (p *Parser) parseSignedNumber(minusTok lexer.Token) ast.Expr {
	switch p.cur.Type {
	case lexer.INT:
		tok := p.cur
		p.advance()
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		if minusTok.Type == lexer.MINUS {
			v = -v
		}
		return ast.EInt{Value: v, Reg: ast.Join(tokenRegion(minusTok), tokenRegion(tok))}
	case lexer.FLOAT:
		tok := p.cur
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		if minusTok.Type == lexer.MINUS {
			v = -v
		}
		return ast.EFloat{Value: v, Reg: ast.Join(tokenRegion(minusTok), tokenRegion(tok))}
	default:
		return p.parseAtomNoSign()
	}
}

func (p *Parser) parseAtomNoSign() ast.Expr {
	switch p.cur.Type {
	case lexer.LPAREN:
		return p.parseParenOrTupleOrUnit()
	case lexer.LBRACKET:
		return p.parseList()
	case lexer.LBRACE:
		return p.parseRecord()
	case lexer.INT:
		tok := p.cur
		p.advance()
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return ast.EInt{Value: v, Reg: tokenRegion(tok)}
	case lexer.FLOAT:
		tok := p.cur
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return ast.EFloat{Value: v, Reg: tokenRegion(tok)}
	case lexer.STRING:
		tok := p.cur
		p.advance()
		return ast.EString{Value: tok.Literal, Reg: tokenRegion(tok)}
	case lexer.IDENT:
		tok := p.cur
		p.advance()
		return ast.EIdentifier{Name: ast.Name(tok.Literal), Reg: tokenRegion(tok)}
	case lexer.TYPEID:
		return p.parseQualifiedOrConstructor()
	case lexer.CRASH:
		tok := p.cur
		p.advance()
		return ast.EIdentifier{Name: "crash", Reg: tokenRegion(tok)}
	case lexer.DBG:
		tok := p.cur
		p.advance()
		return ast.EIdentifier{Name: "dbg", Reg: tokenRegion(tok)}
	case lexer.EXTERN:
		start := p.curRegion()
		p.advance()
		strTok, _ := p.expect(lexer.STRING)
		return ast.EExternal{NativeName: strTok.Literal, Reg: ast.Join(start, tokenRegion(strTok))}
	default:
		region := p.curRegion()
		p.unexpected(lexer.IDENT)
		if !p.at(lexer.EOF) {
			p.advance()
		}
		return ast.EUnit{Reg: region}
	}
}

// parseQualifiedOrConstructor greedily collects a dotted run of TYPEID
// segments, then resolves it: a trailing `.ident` makes it a qualified
// value reference, otherwise the final segment is a constructor name and
// any earlier segments are its owning module.
func (p *Parser) parseQualifiedOrConstructor() ast.Expr {
	first := p.cur
	region := p.curRegion()
	p.advance()
	segs := []string{first.Literal}
	for p.at(lexer.DOT) && p.peekAt(lexer.TYPEID) {
		p.advance()
		seg := p.cur
		p.advance()
		segs = append(segs, seg.Literal)
		region = ast.Join(region, tokenRegion(seg))
	}

	if p.at(lexer.DOT) && p.peekAt(lexer.IDENT) {
		p.advance()
		member := p.cur
		p.advance()
		return ast.EQualifiedIdentifier{
			Module: ast.ModuleName(segs),
			Name:   ast.Name(member.Literal),
			Reg:    ast.Join(region, tokenRegion(member)),
		}
	}

	if len(segs) == 1 {
		return ast.EConstructor{Name: ast.Name(segs[0]), Reg: region}
	}
	return ast.EQualifiedConstructor{
		Module: ast.ModuleName(segs[:len(segs)-1]),
		Name:   ast.Name(segs[len(segs)-1]),
		Reg:    region,
	}
}

func (p *Parser) parseParenOrTupleOrUnit() ast.Expr {
	start := p.curRegion()
	p.advance() // (
	if p.at(lexer.RPAREN) {
		end := p.curRegion()
		p.advance()
		return ast.EUnit{Reg: ast.Join(start, end)}
	}
	first := p.parseExpression()
	if p.at(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.at(lexer.COMMA) {
			p.advance()
			elems = append(elems, p.parseExpression())
		}
		end := p.curRegion()
		p.expect(lexer.RPAREN)
		return ast.ETuple{Elements: elems, Reg: ast.Join(start, end)}
	}
	p.expect(lexer.RPAREN)
	return first
}

func (p *Parser) parseList() ast.Expr {
	start := p.curRegion()
	p.advance() // [
	if p.at(lexer.RBRACKET) {
		end := p.curRegion()
		p.advance()
		return ast.EList{Reg: ast.Join(start, end)}
	}
	elems := []ast.Expr{p.parseExpression()}
	for p.at(lexer.COMMA) {
		p.advance()
		elems = append(elems, p.parseExpression())
	}
	end := p.curRegion()
	p.expect(lexer.RBRACKET)
	return ast.EList{Elements: elems, Reg: ast.Join(start, end)}
}

func (p *Parser) parseRecord() ast.Expr {
	start := p.curRegion()
	p.advance() // {
	fields := map[ast.Name]ast.Expr{}
	var order []ast.Name
	if !p.at(lexer.RBRACE) {
		for {
			nameTok, _ := p.expect(lexer.IDENT)
			p.expect(lexer.ASSIGN)
			val := p.parseExpression()
			fields[ast.Name(nameTok.Literal)] = val
			order = append(order, ast.Name(nameTok.Literal))
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	end := p.curRegion()
	p.expect(lexer.RBRACE)
	return ast.ERecord{Fields: fields, Order: order, Reg: ast.Join(start, end)}
}

// parseLambda desugars `\p1 p2 -> body` right-to-left into nested
// single-parameter ELambda nodes.
func (p *Parser) parseLambda() ast.Expr {
	start := p.curRegion()
	p.advance() // backslash
	var params []ast.Pattern
	for !p.at(lexer.ARROW) && !p.at(lexer.EOF) {
		params = append(params, p.patternAtom())
	}
	p.expect(lexer.ARROW)
	body := p.parseExpression()

	if len(params) == 0 {
		p.errorf(start, diag.CodeUnexpectedToken, "empty lambda", "a lambda must bind at least one parameter")
		return body
	}
	for i := len(params) - 1; i >= 0; i-- {
		body = ast.ELambda{Param: params[i], Body: body, Reg: ast.Join(start, body.Region())}
	}
	return body
}

func (p *Parser) parseIf() ast.Expr {
	start := p.curRegion()
	p.advance() // if
	cond := p.parseExpression()
	p.expect(lexer.THEN)
	thenE := p.parseExpression()
	p.expect(lexer.ELSE)
	elseE := p.parseExpression()
	return ast.EIf{Cond: cond, Then: thenE, Else: elseE, Reg: ast.Join(start, elseE.Region())}
}

// parseLet handles both the `let pat = bound; body` and the monadic
// `let pat <- effectful; body` forms, distinguished by the token after the
// pattern.
func (p *Parser) parseLet() ast.Expr {
	start := p.curRegion()
	p.advance() // let
	pat := p.parseLetPattern()

	if p.at(lexer.LARROW) {
		p.advance()
		eff := p.parseExpression()
		p.expectSemi()
		body := p.parseExpression()
		return ast.EBind{Pattern: pat, Effectful: eff, Body: body, Reg: ast.Join(start, body.Region())}
	}

	p.expect(lexer.ASSIGN)
	bound := p.parseExpression()
	p.expectSemi()
	body := p.parseExpression()
	return ast.ELet{Pattern: pat, Bound: bound, Body: body, Reg: ast.Join(start, body.Region())}
}

// parseLetPattern enforces that local `let`/`bind` only ever binds a single
// identifier; anything richer still parses,
// for resilience, but is reported as unsupported.
func (p *Parser) parseLetPattern() ast.Pattern {
	if p.at(lexer.IDENT) {
		tok := p.cur
		p.advance()
		return ast.PIdentifier{Name: ast.Name(tok.Literal), Reg: tokenRegion(tok)}
	}
	region := p.curRegion()
	p.errorf(region, diag.CodeUnsupportedLetPattern, "unsupported let pattern",
		"local `let` bindings may only bind a single identifier, not a full pattern")
	return p.parsePattern()
}

func (p *Parser) parseWhen() ast.Expr {
	start := p.curRegion()
	p.advance() // when
	scrutinee := p.parseExpression()
	p.expect(lexer.IS)

	if !p.startsPatternAtom() {
		region := p.curRegion()
		p.errorf(region, diag.CodeEmptyWhen, "empty when", "`when` must have at least one `is` alternative")
		return ast.EWhen{Scrutinee: scrutinee, FirstAlt: ast.WhenAlt{
			Pattern: ast.PWildcard{Reg: region},
			Body:    ast.EUnit{Reg: region},
		}, Reg: ast.Join(start, region)}
	}

	first := p.parseWhenAlt()
	var rest []ast.WhenAlt
	for p.at(lexer.PIPE) {
		p.advance()
		rest = append(rest, p.parseWhenAlt())
	}
	last := first
	if len(rest) > 0 {
		last = rest[len(rest)-1]
	}
	end := last.Body.Region()
	return ast.EWhen{Scrutinee: scrutinee, FirstAlt: first, RestAlts: rest, Reg: ast.Join(start, end)}
}

func (p *Parser) parseWhenAlt() ast.WhenAlt {
	pat := p.parsePattern()
	p.expect(lexer.ARROW)
	body := p.parseExpression()
	return ast.WhenAlt{Pattern: pat, Body: body}
}
