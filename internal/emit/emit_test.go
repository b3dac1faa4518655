package emit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/emit"
	"github.com/pac-lang/pac/internal/optimize"
	"github.com/pac-lang/pac/internal/parser"
)

func compileOne(t *testing.T, src string) *optimize.OptimizedModule {
	t.Helper()
	mod, errs := parser.Parse(src, "Main.pac")
	require.Empty(t, errs)
	cms, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"Main.pac": mod})
	require.Empty(t, diags)
	oms, odiags := optimize.NewOptimizer().OptimizeProgram(cms)
	require.Empty(t, odiags)
	return oms["Main.pac"]
}

func TestWithDefaultEmitsIfElseOnTag(t *testing.T) {
	om := compileOne(t, `module Main [];
let Maybe a = Nothing | Just a;
let withDefault d m = when m is Nothing -> d | Just x -> x;
`)
	src := emit.Source(om)
	require.Contains(t, src, "function withDefault(d)")
	require.Contains(t, src, ".tag === 0")
	require.NotContains(t, src, "__pacToString")
}

func TestIdentifierTransform(t *testing.T) {
	om := compileOne(t, `module Main [];
let is_even? n = n == 0;
`)
	src := emit.Source(om)
	require.Contains(t, src, "function isEvenHmm(n)")
}

func TestUnionEmitsCurriedConstructors(t *testing.T) {
	om := compileOne(t, `module Main [];
let Maybe a = Nothing | Just a;
let value = Just 1;
`)
	src := emit.Source(om)
	require.Contains(t, src, "const Nothing = { tag: 0, arity: 0, args: [] };")
	require.Contains(t, src, "const Just = (__a0) => ({ tag: 1, arity: 1, args: [__a0] });")
	require.Contains(t, src, "const value = Just(1);")
}

func TestEmitProgramRecreatesBuildDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	om := compileOne(t, `module Main [];
let value = 1;
`)
	written, diags := emit.NewEmitter(root, dir).EmitProgram(map[string]*optimize.OptimizedModule{"Main.pac": om})
	require.Empty(t, diags)
	require.Len(t, written, 1)
	require.NoFileExists(t, stale)
	require.FileExists(t, filepath.Join(dir, "Main.js"))
}

func TestEmitProgramRefusesUnsafeBuildDir(t *testing.T) {
	om := compileOne(t, `module Main [];
let value = 1;
`)
	_, diags := emit.NewEmitter(t.TempDir(), "/").EmitProgram(map[string]*optimize.OptimizedModule{"Main.pac": om})
	require.NotEmpty(t, diags)
}

func TestEmitProgramRefusesBuildDirOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "..", "escaped")

	om := compileOne(t, `module Main [];
let value = 1;
`)
	_, diags := emit.NewEmitter(root, outside).EmitProgram(map[string]*optimize.OptimizedModule{"Main.pac": om})
	require.NotEmpty(t, diags)
	require.NoDirExists(t, filepath.Clean(outside))
}
