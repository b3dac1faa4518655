package check_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/check"
	"github.com/pac-lang/pac/internal/parser"
)

func TestStubCheckerAlwaysSucceeds(t *testing.T) {
	mod, errs := parser.Parse(`module Main [];
let broken x = x x x;
`, "Main.pac")
	require.Empty(t, errs)

	mods, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"Main.pac": mod})
	require.Empty(t, diags)

	got := check.NewStubChecker().Check(mods)
	require.Empty(t, got)
}
