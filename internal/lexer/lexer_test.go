package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/lexer"
)

func tokenTypes(input string) []lexer.Type {
	l := lexer.New(input)
	var out []lexer.Type
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == lexer.EOF {
			return out
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	types := tokenTypes("module Main [main]; let main = println \"hi\";")
	require.Equal(t, []lexer.Type{
		lexer.MODULE, lexer.TYPEID, lexer.LBRACKET, lexer.IDENT, lexer.RBRACKET, lexer.SEMI,
		lexer.LET, lexer.IDENT, lexer.ASSIGN, lexer.IDENT, lexer.STRING, lexer.SEMI, lexer.EOF,
	}, types)
}

func TestOperators(t *testing.T) {
	types := tokenTypes("<| |> || && <= >= < > == != :: ++ + - * / % ^ << >>")
	want := []lexer.Type{
		lexer.PIPE_LEFT, lexer.PIPE_RIGHT, lexer.OR_OR, lexer.AND_AND,
		lexer.LTE, lexer.GTE, lexer.LT, lexer.GT, lexer.EQ_EQ, lexer.NEQ,
		lexer.CONS, lexer.APPEND, lexer.PLUS, lexer.MINUS, lexer.STAR,
		lexer.SLASH, lexer.PERCENT, lexer.CARET, lexer.SHL, lexer.SHR, lexer.EOF,
	}
	require.Equal(t, want, types)
}

func TestIdentifierTrailingQuestionMark(t *testing.T) {
	l := lexer.New("isEmpty? xs")
	tok := l.NextToken()
	require.Equal(t, lexer.IDENT, tok.Type)
	require.Equal(t, "isEmpty?", tok.Literal)
}

func TestTypeIdentVsValueIdent(t *testing.T) {
	l := lexer.New("Maybe foo")
	first := l.NextToken()
	second := l.NextToken()
	require.Equal(t, lexer.TYPEID, first.Type)
	require.Equal(t, lexer.IDENT, second.Type)
}

func TestStringLiteralNoEscapeProcessing(t *testing.T) {
	l := lexer.New(`"ab\ncd"`)
	tok := l.NextToken()
	require.Equal(t, lexer.STRING, tok.Type)
	require.Equal(t, `ab\ncd`, tok.Literal)
}

func TestFloatVsIntAndDotNotFloat(t *testing.T) {
	types := tokenTypes("1 1.5 Foo.bar")
	require.Equal(t, []lexer.Type{lexer.INT, lexer.FLOAT, lexer.TYPEID, lexer.DOT, lexer.IDENT, lexer.EOF}, types)
}

func TestLineColumnTracking(t *testing.T) {
	l := lexer.New("let\nx = 1;")
	l.NextToken() // let
	x := l.NextToken()
	require.Equal(t, 2, x.Line)
	require.Equal(t, 1, x.Column)
}
