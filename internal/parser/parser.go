// Package parser implements pac's recursive-descent, precedence-climbing
// parser (spec.md §4.1). It consumes a Lexer token stream and produces a
// *ast.Module, collecting every syntax error it finds as a *diag.Report
// rather than stopping at the first.
package parser

import (
	"fmt"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
	"github.com/pac-lang/pac/internal/lexer"
)

// Parser holds the mutable state of a single parse: the token stream and
// the diagnostics accumulated so far. It is otherwise stateless between
// top-level statements, matching spec.md §4.7.
type Parser struct {
	path string
	lex  *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	errs []*diag.Report

	// furthest is the deepest token position reached across this parse.
	// advance keeps it up to date; no recovery path reads it.
	furthestLine, furthestCol int
}

// Parse parses a complete module from source text. It always returns a
// non-nil *ast.Module (possibly partial); diagnostics describe every
// syntax error found. Success consumes the whole input modulo trailing
// whitespace (spec.md §4.1 contract).
func Parse(source, path string) (*ast.Module, []*diag.Report) {
	p := &Parser{path: path, lex: lexer.New(string(lexer.Normalize([]byte(source))))}
	p.advance()
	p.advance()
	mod := p.parseFile()
	return mod, p.errs
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	if p.cur.Line > p.furthestLine || (p.cur.Line == p.furthestLine && p.cur.Column > p.furthestCol) {
		p.furthestLine, p.furthestCol = p.cur.Line, p.cur.Column
	}
}

func (p *Parser) curRegion() ast.Region {
	return tokenRegion(p.cur)
}

func tokenRegion(t lexer.Token) ast.Region {
	return ast.Region{
		Start: ast.Pos{Line: t.Line, Column: t.Column},
		End:   ast.Pos{Line: t.Line, Column: t.Column + len(t.Literal)},
	}
}

func (p *Parser) at(t lexer.Type) bool     { return p.cur.Type == t }
func (p *Parser) peekAt(t lexer.Type) bool { return p.peek.Type == t }

// expect consumes the current token if it matches t, else records a
// diagnostic and does not advance (so synchronize() can still find a
// recovery point).
func (p *Parser) expect(t lexer.Type) (lexer.Token, bool) {
	if p.cur.Type != t {
		p.unexpected(t)
		return lexer.Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// expectSemi is the dedicated "MISSING SEMICOLON" context (spec.md §4.1):
// a missing ';' after a declaration gets its own diagnostic kind rather
// than a generic "unexpected token".
func (p *Parser) expectSemi() bool {
	if p.cur.Type == lexer.SEMI {
		p.advance()
		return true
	}
	region := p.curRegion()
	body := diag.Hint("Add a semicolon (;) at the end.")
	r := diag.New(diag.CodeMissingSemicolon, diag.PhaseParser, "missing semicolon", p.path, &region, body).
		WithSeverity(diag.SeverityError)
	p.errs = append(p.errs, r)
	return false
}

func (p *Parser) unexpected(want lexer.Type) {
	region := p.curRegion()
	msg := fmt.Sprintf("expected %s, found %s", want, describeToken(p.cur))
	body := diag.Text(msg)
	r := diag.New(diag.CodeUnexpectedToken, diag.PhaseParser, "unexpected token", p.path, &region, body).
		WithSeverity(diag.SeverityError).
		WithData(map[string]any{"expected": want.String(), "found": p.cur.Type.String()})
	p.errs = append(p.errs, r)
}

func (p *Parser) errorf(region ast.Region, code, title, format string, args ...any) {
	r := diag.New(code, diag.PhaseParser, title, p.path, &region, diag.Text(fmt.Sprintf(format, args...))).
		WithSeverity(diag.SeverityError)
	p.errs = append(p.errs, r)
}

func describeToken(t lexer.Token) string {
	if t.Type == lexer.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// synchronize skips tokens until the next SEMI or EOF, the module-level
// recovery point, so one malformed statement does not cascade into every
// statement after it.
func (p *Parser) synchronize() {
	for !p.at(lexer.EOF) {
		if p.at(lexer.SEMI) {
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) parseFile() *ast.Module {
	if _, ok := p.expect(lexer.MODULE); !ok {
		p.synchronize()
	}
	name, nameRegion := p.parseModuleName()
	mod := ast.NewModule(name)
	mod.NameRegion = nameRegion

	mod.Exports = p.parseExportList()
	p.expectSemi()

	for !p.at(lexer.EOF) {
		p.parseStatement(mod)
	}
	return mod
}

func (p *Parser) parseModuleName() (ast.ModuleName, ast.Region) {
	first, ok := p.expect(lexer.TYPEID)
	if !ok {
		return ast.ModuleName{"Main"}, p.curRegion()
	}
	region := ast.Region{
		Start: ast.Pos{Line: first.Line, Column: first.Column},
		End:   ast.Pos{Line: first.Line, Column: first.Column + len(first.Literal)},
	}
	segs := []string{first.Literal}
	for p.at(lexer.DOT) && p.peekAt(lexer.TYPEID) {
		p.advance()
		seg, _ := p.expect(lexer.TYPEID)
		segs = append(segs, seg.Literal)
		region.End = ast.Pos{Line: seg.Line, Column: seg.Column + len(seg.Literal)}
	}
	return ast.ModuleName(segs), region
}

func (p *Parser) parseExportList() []ast.Export {
	var exports []ast.Export
	if _, ok := p.expect(lexer.LBRACKET); !ok {
		return exports
	}
	if p.at(lexer.RBRACKET) {
		p.advance()
		return exports
	}
	for {
		exports = append(exports, p.parseExport())
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	return exports
}

func (p *Parser) parseExport() ast.Export {
	if p.at(lexer.TYPEID) {
		tok := p.cur
		p.advance()
		if p.at(lexer.LPAREN) && p.peekAt(lexer.DOT) {
			// "(..)" is scanned as LPAREN DOT DOT RPAREN, since ".." is
			// not a distinct token of its own.
			p.advance()
			p.expect(lexer.DOT)
			p.expect(lexer.DOT)
			p.expect(lexer.RPAREN)
			return ast.Export{Kind: ast.ExportOpenType, Name: ast.Name(tok.Literal)}
		}
		return ast.Export{Kind: ast.ExportClosedType, Name: ast.Name(tok.Literal)}
	}
	tok, _ := p.expect(lexer.IDENT)
	return ast.Export{Kind: ast.ExportValue, Name: ast.Name(tok.Literal)}
}
