package parser

import (
	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
	"github.com/pac-lang/pac/internal/lexer"
)

// parseStatement parses one top-level statement (spec.md §4.1):
//
//	statement := "import" module_name ";" | "let" (value_decl | sig_decl | type_decl)
//
// The token right after `let` disambiguates the three declaration forms by
// case: an upper-case identifier introduces a type declaration, a
// lower-case one a value declaration or a signature.
func (p *Parser) parseStatement(mod *ast.Module) {
	switch p.cur.Type {
	case lexer.IMPORT:
		p.parseImport(mod)
	case lexer.LET:
		p.parseLetStatement(mod)
	default:
		p.unexpected(lexer.LET)
		p.synchronize()
	}
}

func (p *Parser) parseImport(mod *ast.Module) {
	start := p.curRegion()
	p.advance() // import
	name, nameRegion := p.parseModuleName()
	reg := ast.Join(start, nameRegion)
	mod.Imports = append(mod.Imports, ast.At(reg, name))
	p.expectSemi()
}

func (p *Parser) parseLetStatement(mod *ast.Module) {
	start := p.curRegion()
	p.advance() // let
	switch p.cur.Type {
	case lexer.TYPEID:
		p.parseTypeDecl(mod, start)
	case lexer.IDENT:
		p.parseValueStatement(mod, start)
	default:
		p.unexpected(lexer.IDENT)
		p.synchronize()
	}
}

// parseTypeDecl parses `TypeIdent vars = <body>;` (the `let` keyword has
// already been consumed by the caller). <body> is one of: `extern "jsName"`
// (a foreign type), a constructor list joined by `|` (a union, even with a
// single variant), or any other type expression (an alias).
func (p *Parser) parseTypeDecl(mod *ast.Module, start ast.Region) {
	nameTok, ok := p.expect(lexer.TYPEID)
	if !ok {
		p.synchronize()
		return
	}
	name := ast.Name(nameTok.Literal)

	var vars []ast.Name
	for p.at(lexer.IDENT) {
		v := p.cur
		p.advance()
		vars = append(vars, ast.Name(v.Literal))
	}

	if _, ok := p.expect(lexer.ASSIGN); !ok {
		p.synchronize()
		return
	}

	var def ast.TypeDef
	switch {
	case p.at(lexer.EXTERN):
		p.advance()
		strTok, _ := p.expect(lexer.STRING)
		def = ast.TypeExternal{NativeName: strTok.Literal}
	case p.at(lexer.TYPEID):
		def = ast.TypeUnion{Vars: vars, Variants: p.parseConstructorList()}
	default:
		def = ast.TypeAlias{Vars: vars, Body: p.parseType()}
	}

	end := p.curRegion()
	p.expectSemi()

	if _, exists := mod.Types[name]; exists {
		p.errorf(start, diag.CodeDuplicateTypeDefinition, "duplicate type definition",
			"type `%s` is already defined in this module", name)
	}
	mod.TypeOrder = append(mod.TypeOrder, name)
	mod.Types[name] = ast.At(ast.Join(start, end), def)
}

func (p *Parser) parseConstructorList() []ast.Constructor {
	seen := map[ast.Name]bool{}
	first := p.parseConstructor()
	seen[first.Name] = true
	ctors := []ast.Constructor{first}
	for p.at(lexer.PIPE) {
		p.advance()
		c := p.parseConstructor()
		if seen[c.Name] {
			p.errorf(c.Region, diag.CodeDuplicateConstructor, "duplicate constructor",
				"constructor `%s` is already defined for this type", c.Name)
		}
		seen[c.Name] = true
		ctors = append(ctors, c)
	}
	return ctors
}

func (p *Parser) parseConstructor() ast.Constructor {
	start := p.curRegion()
	tok, _ := p.expect(lexer.TYPEID)
	var args []ast.Type_
	for p.startsTypeAtom() {
		args = append(args, p.parseTypeAtom())
	}
	return ast.Constructor{Name: ast.Name(tok.Literal), Region: start, Args: args}
}

// parseValueStatement parses either a type signature (`name : Type;`) or a
// value definition (`name pat1 pat2 = expr;`), with the `let` keyword
// already consumed by the caller. The surface parameter patterns are kept
// alongside the parameter-free body for the canonicalizer to fold into
// nested lambdas, one per parameter.
func (p *Parser) parseValueStatement(mod *ast.Module, start ast.Region) {
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		p.synchronize()
		return
	}
	name := ast.Name(nameTok.Literal)

	if p.at(lexer.COLON) {
		p.advance()
		ty := p.parseType()
		end := p.curRegion()
		p.expectSemi()
		mod.Annotations[name] = ast.At(ast.Join(start, end), ty)
		return
	}

	var params []ast.Pattern
	for p.startsPatternAtom() {
		params = append(params, p.patternAtom())
	}

	if _, ok := p.expect(lexer.ASSIGN); !ok {
		p.synchronize()
		return
	}

	body := p.parseExpression()
	end := body.Region()
	p.expectSemi()

	if _, exists := mod.Values[name]; exists {
		p.errorf(start, diag.CodeDuplicateDefinition, "duplicate definition",
			"`%s` is already defined in this module", name)
	}
	mod.ValueOrder = append(mod.ValueOrder, name)
	mod.Values[name] = ast.At(ast.Join(start, end), body)
	if len(params) > 0 {
		mod.ValueParams[name] = params
	}
}
