package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
	"github.com/pac-lang/pac/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, errs := parser.Parse(src, "Main.pac")
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return mod
}

func TestModuleHeaderAndImports(t *testing.T) {
	mod := mustParse(t, `module Main [value, Type(..)];
import Data.List;
let value = 1;
`)
	require.Equal(t, ast.ModuleName{"Main"}, mod.Name)
	require.Len(t, mod.Exports, 2)
	require.Equal(t, ast.ExportValue, mod.Exports[0].Kind)
	require.Equal(t, ast.Name("value"), mod.Exports[0].Name)
	require.Equal(t, ast.ExportOpenType, mod.Exports[1].Kind)
	require.Len(t, mod.Imports, 1)
	require.Equal(t, ast.ModuleName{"Data", "List"}, mod.Imports[0].Value)
}

func TestValueDeclarationWithParamsAndApplication(t *testing.T) {
	mod := mustParse(t, `module Main [];
let add a b = a + b;
let result = add 1 2;
`)
	require.Contains(t, mod.ValueParams, ast.Name("add"))
	require.Len(t, mod.ValueParams["add"], 2)

	body := mod.Values["result"].Value
	ap, ok := body.(ast.EAp)
	require.True(t, ok)
	inner, ok := ap.Fn.(ast.EAp)
	require.True(t, ok)
	fn, ok := inner.Fn.(ast.EIdentifier)
	require.True(t, ok)
	require.Equal(t, ast.Name("add"), fn.Name)
}

func TestOperatorPrecedenceAndAssociativity(t *testing.T) {
	mod := mustParse(t, `module Main [];
let result = 1 + 2 * 3;
`)
	bin, ok := mod.Values["result"].Value.(ast.EBinOp)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)
	rhs, ok := bin.Rhs.(ast.EBinOp)
	require.True(t, ok)
	require.Equal(t, ast.OpMul, rhs.Op)
}

func TestConsIsRightAssociative(t *testing.T) {
	mod := mustParse(t, `module Main [];
let result = 1 :: 2 :: [];
`)
	bin, ok := mod.Values["result"].Value.(ast.EBinOp)
	require.True(t, ok)
	require.Equal(t, ast.OpCons, bin.Op)
	_, lhsIsInt := bin.Lhs.(ast.EInt)
	require.True(t, lhsIsInt)
	rhs, ok := bin.Rhs.(ast.EBinOp)
	require.True(t, ok)
	require.Equal(t, ast.OpCons, rhs.Op)
}

func TestSubtractionNotConfusedWithSignedLiteral(t *testing.T) {
	mod := mustParse(t, `module Main [];
let result = n - 1;
`)
	bin, ok := mod.Values["result"].Value.(ast.EBinOp)
	require.True(t, ok)
	require.Equal(t, ast.OpSub, bin.Op)
	_, ok = bin.Lhs.(ast.EIdentifier)
	require.True(t, ok)
}

func TestSignedLiteralAtOperandStart(t *testing.T) {
	mod := mustParse(t, `module Main [];
let result = f (-5);
`)
	ap, ok := mod.Values["result"].Value.(ast.EAp)
	require.True(t, ok)
	lit, ok := ap.Arg.(ast.EInt)
	require.True(t, ok)
	require.Equal(t, int64(-5), lit.Value)
}

func TestNonAssociativeComparisonCannotChain(t *testing.T) {
	_, errs := parser.Parse(`module Main [];
let result = 1 < 2 < 3;
`, "Main.pac")
	require.NotEmpty(t, errs)
}

func TestLambdaDesugarsRightToLeft(t *testing.T) {
	mod := mustParse(t, `module Main [];
let result = \a b -> a;
`)
	outer, ok := mod.Values["result"].Value.(ast.ELambda)
	require.True(t, ok)
	param, ok := outer.Param.(ast.PIdentifier)
	require.True(t, ok)
	require.Equal(t, ast.Name("a"), param.Name)
	inner, ok := outer.Body.(ast.ELambda)
	require.True(t, ok)
	innerParam, ok := inner.Param.(ast.PIdentifier)
	require.True(t, ok)
	require.Equal(t, ast.Name("b"), innerParam.Name)
}

func TestWhenWithMultipleAlternatives(t *testing.T) {
	mod := mustParse(t, `module Main [];
let describe x = when x is
  Empty -> "nothing"
  | Cons head tail -> "something";
`)
	when, ok := mod.Values["describe"].Value.(ast.EWhen)
	require.True(t, ok)
	require.Len(t, when.Alts(), 2)
	second := when.Alts()[1]
	ctor, ok := second.Pattern.(ast.PConstructor)
	require.True(t, ok)
	require.Equal(t, ast.Name("Cons"), ctor.Name)
	require.Len(t, ctor.Args, 2)
}

func TestLocalLetAndIf(t *testing.T) {
	mod := mustParse(t, `module Main [];
let choose x = let y = x + 1; if y > 0 then y else 0;
`)
	let, ok := mod.Values["choose"].Value.(ast.ELet)
	require.True(t, ok)
	pat, ok := let.Pattern.(ast.PIdentifier)
	require.True(t, ok)
	require.Equal(t, ast.Name("y"), pat.Name)
	_, ok = let.Body.(ast.EIf)
	require.True(t, ok)
}

func TestMonadicBind(t *testing.T) {
	mod := mustParse(t, `module Main [];
let run eff = let x <- eff; x;
`)
	bind, ok := mod.Values["run"].Value.(ast.EBind)
	require.True(t, ok)
	pat, ok := bind.Pattern.(ast.PIdentifier)
	require.True(t, ok)
	require.Equal(t, ast.Name("x"), pat.Name)
}

func TestUnsupportedLetPatternReported(t *testing.T) {
	_, errs := parser.Parse(`module Main [];
let choose pair = let (a, b) = pair; a;
`, "Main.pac")
	require.NotEmpty(t, errs)
}

func TestQualifiedIdentifierAndConstructor(t *testing.T) {
	mod := mustParse(t, `module Main [];
let a = List.map;
let b = Maybe.Just;
let c = Nothing;
`)
	qid, ok := mod.Values["a"].Value.(ast.EQualifiedIdentifier)
	require.True(t, ok)
	require.Equal(t, ast.ModuleName{"List"}, qid.Module)
	require.Equal(t, ast.Name("map"), qid.Name)

	qctor, ok := mod.Values["b"].Value.(ast.EQualifiedConstructor)
	require.True(t, ok)
	require.Equal(t, ast.ModuleName{"Maybe"}, qctor.Module)
	require.Equal(t, ast.Name("Just"), qctor.Name)

	ctor, ok := mod.Values["c"].Value.(ast.EConstructor)
	require.True(t, ok)
	require.Equal(t, ast.Name("Nothing"), ctor.Name)
}

func TestTypeDeclarationUnionAndAlias(t *testing.T) {
	mod := mustParse(t, `module Main [];
let Maybe a = Nothing | Just a;
let Pair a b = (a, b);
let Native = extern "NativeThing";
`)
	union, ok := mod.Types["Maybe"].Value.(ast.TypeUnion)
	require.True(t, ok)
	require.Len(t, union.Variants, 2)
	require.Equal(t, ast.Name("Just"), union.Variants[1].Name)

	alias, ok := mod.Types["Pair"].Value.(ast.TypeAlias)
	require.True(t, ok)
	_, isTuple := alias.Body.(ast.TTuple)
	require.True(t, isTuple)

	ext, ok := mod.Types["Native"].Value.(ast.TypeExternal)
	require.True(t, ok)
	require.Equal(t, "NativeThing", ext.NativeName)
}

func TestTypeSignature(t *testing.T) {
	mod := mustParse(t, `module Main [];
let add : Int -> Int -> Int;
let add a b = a + b;
`)
	sig, ok := mod.Annotations["add"]
	require.True(t, ok)
	fn, ok := sig.Value.(ast.TFn)
	require.True(t, ok)
	_, ok = fn.To.(ast.TFn)
	require.True(t, ok)
}

func TestMissingSemicolonDiagnostic(t *testing.T) {
	_, errs := parser.Parse(`module Main []
let value = 1;
`, "Main.pac")
	require.NotEmpty(t, errs)
	require.Equal(t, diag.CodeMissingSemicolon, errs[0].Code)
}

func TestDuplicateDefinitionDiagnostic(t *testing.T) {
	_, errs := parser.Parse(`module Main [];
let value = 1;
let value = 2;
`, "Main.pac")
	require.NotEmpty(t, errs)
}

func TestRecordLiteralRoundTripsThroughPrint(t *testing.T) {
	mod := mustParse(t, `module Main [];
let origin = { x = 0, y = 0 };
`)
	rec, ok := mod.Values["origin"].Value.(ast.ERecord)
	require.True(t, ok)
	require.ElementsMatch(t, []ast.Name{"x", "y"}, rec.Order)

	printed := ast.Print(mod)
	reparsed, errs := parser.Parse(printed, "Main.pac")
	require.Empty(t, errs)
	rec2, ok := reparsed.Values["origin"].Value.(ast.ERecord)
	require.True(t, ok)
	require.ElementsMatch(t, []ast.Name{"x", "y"}, rec2.Order)
}

// TestPrintParseRoundTrip exercises spec.md §8.1's core property: parsing,
// printing, and re-parsing a module produces an AST shaped the same as the
// first parse, for every expression form the grammar supports.
func TestPrintParseRoundTrip(t *testing.T) {
	sources := []string{
		`module Main []; let a = 1 + 2 * 3 - 4;`,
		`module Main []; let a = f (-1) 2;`,
		`module Main []; let a = [1, 2, 3];`,
		`module Main []; let a = (1, 2, 3);`,
		`module Main []; let a = \x y -> x + y;`,
		`module Main []; let a = if True then 1 else 2;`,
		`module Main []; let a = let x = 1; x + 1;`,
		`module Main []; let Maybe a = Nothing | Just a; let f m = when m is Nothing -> 0 | Just x -> x;`,
	}
	for _, src := range sources {
		mod, errs := parser.Parse(src, "Main.pac")
		require.Empty(t, errs, "source: %s", src)
		printed := ast.Print(mod)
		reprinted, errs2 := parser.Parse(printed, "Main.pac")
		require.Empty(t, errs2, "reparse of printed output failed for: %s\nprinted:\n%s", src, printed)
		require.Equal(t, ast.Print(mod), ast.Print(reprinted), "round-trip mismatch for: %s", src)
	}
}
