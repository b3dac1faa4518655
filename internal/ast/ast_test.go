package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
)

func TestOperatorPrecedenceIsTotal(t *testing.T) {
	type entry struct {
		prec  int
		assoc ast.Associativity
	}
	// Every operator has a precedence and an associativity. Operators that
	// share a precedence level do not always share associativity: `<|`/`|>`,
	// `::`/`++` and `<<`/`>>` each pair a right- with a left-associative
	// operator.
	want := map[ast.Operator]entry{
		ast.OpPipeLeft: {0, ast.AssocRight}, ast.OpPipeRight: {0, ast.AssocLeft},
		ast.OpOr: {2, ast.AssocLeft}, ast.OpAnd: {3, ast.AssocLeft},
		ast.OpLt: {4, ast.AssocNone}, ast.OpGt: {4, ast.AssocNone}, ast.OpLte: {4, ast.AssocNone},
		ast.OpGte: {4, ast.AssocNone}, ast.OpEq: {4, ast.AssocNone}, ast.OpNeq: {4, ast.AssocNone},
		ast.OpCons: {5, ast.AssocRight}, ast.OpAppend: {5, ast.AssocLeft},
		ast.OpAdd: {6, ast.AssocLeft}, ast.OpSub: {6, ast.AssocLeft},
		ast.OpMul: {7, ast.AssocLeft}, ast.OpDiv: {7, ast.AssocLeft}, ast.OpMod: {7, ast.AssocLeft},
		ast.OpPow:     {8, ast.AssocRight},
		ast.OpCompose: {9, ast.AssocRight}, ast.OpComposeRev: {9, ast.AssocLeft},
	}
	for op, w := range want {
		require.Equalf(t, w.prec, op.Precedence(), "precedence of %v", op)
		require.Equalf(t, w.assoc, op.Associativity(), "associativity of %v", op)
	}
}

func TestRegionValid(t *testing.T) {
	r := ast.Region{Start: ast.Pos{Line: 1, Column: 1}, End: ast.Pos{Line: 1, Column: 5}}
	require.True(t, r.Valid())

	bad := ast.Region{Start: ast.Pos{Line: 2, Column: 1}, End: ast.Pos{Line: 1, Column: 1}}
	require.False(t, bad.Valid())
}

func TestModuleNameString(t *testing.T) {
	m := ast.ModuleName{"Data", "List"}
	require.Equal(t, "Data.List", m.String())
	require.True(t, strings.Contains(ast.Join(
		ast.Region{Start: ast.Pos{Line: 1, Column: 1}, End: ast.Pos{Line: 1, Column: 2}},
		ast.Region{Start: ast.Pos{Line: 2, Column: 1}, End: ast.Pos{Line: 2, Column: 2}},
	).String(), "1:1"))
}
