package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/optimize"
	"github.com/pac-lang/pac/internal/parser"
)

func optimizeOne(t *testing.T, src string) *optimize.OptimizedModule {
	t.Helper()
	mod, errs := parser.Parse(src, "Main.pac")
	require.Empty(t, errs)
	cms, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"Main.pac": mod})
	require.Empty(t, diags)
	oms, odiags := optimize.NewOptimizer().OptimizeProgram(cms)
	for _, d := range odiags {
		require.Equal(t, "warning", d.Severity.String())
	}
	return oms["Main.pac"]
}

func TestAppendCollapsesToAdd(t *testing.T) {
	om := optimizeOne(t, `module Main [];
let result = "a" ++ "b";
`)
	op, ok := om.Values["result"].(optimize.OOp)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, op.Op)
}

func TestMaybeMatchCompilesTwoWayDecisionTree(t *testing.T) {
	om := optimizeOne(t, `module Main [];
let Maybe a = Nothing | Just a;
let withDefault d m = when m is
  Nothing -> d
  | Just x -> x;
`)
	body := om.Values["withDefault"].(optimize.OLambda).Body.(optimize.OLambda).Body
	match, ok := body.(optimize.OMatch)
	require.True(t, ok)

	ifNode, ok := match.Tree.(optimize.DTIf)
	require.True(t, ok)
	_, ok = ifNode.Test.(optimize.TIsConstructor)
	require.True(t, ok)
	_, ok = ifNode.Success.(optimize.DTSucceed)
	require.True(t, ok)
	_, ok = ifNode.Failure.(optimize.DTSucceed)
	require.True(t, ok)
}

func TestNonExhaustiveMatchWarns(t *testing.T) {
	mod, errs := parser.Parse(`module Main [];
let Maybe a = Nothing | Just a;
let unwrap m = when m is Just x -> x;
`, "Main.pac")
	require.Empty(t, errs)
	cms, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"Main.pac": mod})
	require.Empty(t, diags)

	_, odiags := optimize.NewOptimizer().OptimizeProgram(cms)
	require.NotEmpty(t, odiags)
	require.Equal(t, "OPT001", odiags[0].Code)
}

func TestExhaustiveUnionMatchHasNoWarning(t *testing.T) {
	mod, errs := parser.Parse(`module Main [];
let Maybe a = Nothing | Just a;
let unwrap m = when m is Nothing -> 0 | Just x -> x;
`, "Main.pac")
	require.Empty(t, errs)
	cms, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"Main.pac": mod})
	require.Empty(t, diags)

	_, odiags := optimize.NewOptimizer().OptimizeProgram(cms)
	require.Empty(t, odiags)
}
