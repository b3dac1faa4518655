package canon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/parser"
)

func canonicalizeOne(t *testing.T, src string) *canon.CanonModule {
	t.Helper()
	mod, errs := parser.Parse(src, "Main.pac")
	require.Empty(t, errs)
	out, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"Main.pac": mod})
	require.Empty(t, diags, "unexpected canon diagnostics: %v", diags)
	cm, ok := out[mod.Name.String()]
	require.True(t, ok)
	return cm
}

func TestIdentifierResolvesLocal(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let value = 1;
let result = value;
`)
	v, ok := cm.Values["result"].(canon.CVar)
	require.True(t, ok)
	require.Equal(t, canon.QLocal, v.Name.Kind)
	require.Equal(t, ast.Name("value"), v.Name.Value)
}

func TestListLiteralFoldsToConsEmpty(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let result = [1, 2];
`)
	outer, ok := cm.Values["result"].(canon.CAp)
	require.True(t, ok)
	consAp, ok := outer.Fn.(canon.CAp)
	require.True(t, ok)
	cons, ok := consAp.Fn.(canon.CConstructor)
	require.True(t, ok)
	require.Equal(t, ast.Name("Cons"), cons.Name.Value)
	require.Equal(t, uint16(1), cons.Tag)
	require.Equal(t, uint16(2), cons.Arity)

	tail, ok := outer.Arg.(canon.CAp)
	require.True(t, ok)
	innerCons, ok := tail.Fn.(canon.CAp)
	require.True(t, ok)
	_, ok = innerCons.Fn.(canon.CConstructor)
	require.True(t, ok)
	finalTail, ok := tail.Arg.(canon.CConstructor)
	require.True(t, ok)
	require.Equal(t, ast.Name("Empty"), finalTail.Name.Value)
	require.Equal(t, uint16(0), finalTail.Tag)
}

func TestTupleFoldsToSyntheticConstructor(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let result = (1, 2, 3);
`)
	outer, ok := cm.Values["result"].(canon.CAp)
	require.True(t, ok)
	mid, ok := outer.Fn.(canon.CAp)
	require.True(t, ok)
	inner, ok := mid.Fn.(canon.CAp)
	require.True(t, ok)
	ctor, ok := inner.Fn.(canon.CConstructor)
	require.True(t, ok)
	require.Equal(t, canon.TupleConstructorName(3), ctor.Name.Value)
	require.Equal(t, uint16(3), ctor.Arity)
}

func TestComposeDesugarsToLambda(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let f x = x;
let g x = x;
let result = f << g;
`)
	lam, ok := cm.Values["result"].(canon.CLambda)
	require.True(t, ok)
	param, ok := lam.Param.(canon.CPVar)
	require.True(t, ok)
	require.Contains(t, string(param.Name), "__arg")

	app, ok := lam.Body.(canon.CAp)
	require.True(t, ok)
	fnVar, ok := app.Fn.(canon.CVar)
	require.True(t, ok)
	require.Equal(t, ast.Name("f"), fnVar.Name.Value)

	inner, ok := app.Arg.(canon.CAp)
	require.True(t, ok)
	innerFn, ok := inner.Fn.(canon.CVar)
	require.True(t, ok)
	require.Equal(t, ast.Name("g"), innerFn.Name.Value)
}

func TestPipeRightDesugarsToApplication(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let f x = x;
let result = 1 |> f;
`)
	ap, ok := cm.Values["result"].(canon.CAp)
	require.True(t, ok)
	fn, ok := ap.Fn.(canon.CVar)
	require.True(t, ok)
	require.Equal(t, ast.Name("f"), fn.Name.Value)
	_, ok = ap.Arg.(canon.CInt)
	require.True(t, ok)
}

func TestConsOperatorDesugarsToConsApplication(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let result = 1 :: [];
`)
	outer, ok := cm.Values["result"].(canon.CAp)
	require.True(t, ok)
	mid, ok := outer.Fn.(canon.CAp)
	require.True(t, ok)
	ctor, ok := mid.Fn.(canon.CConstructor)
	require.True(t, ok)
	require.Equal(t, ast.Name("Cons"), ctor.Name.Value)
}

func TestUnionTypeAssignsTagsByDeclarationOrder(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let Maybe a = Nothing | Just a;
`)
	def := cm.Types["Maybe"]
	require.Equal(t, canon.DefUnion, def.Kind)
	require.Len(t, def.Variants, 2)
	require.Equal(t, uint16(0), def.Variants[0].Tag)
	require.Equal(t, uint16(1), def.Variants[1].Tag)
	require.Equal(t, uint16(0), def.Variants[0].Arity)
	require.Equal(t, uint16(1), def.Variants[1].Arity)
}

func TestRecursiveTypeDetected(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let List a = Empty | Cons a (List a);
`)
	def := cm.Types["List"]
	require.True(t, def.Recursive)
}

func TestNonRecursiveTypeNotFlagged(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let Bool2 = F | T;
`)
	def := cm.Types["Bool2"]
	require.False(t, def.Recursive)
}

func TestMutuallyRecursiveValuesGroupedRecursive(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let isEven n = if n == 0 then True else isOdd n;
let isOdd n = if n == 0 then False else isEven n;
`)
	var found *canon.DefGroup
	for i := range cm.DefGroups {
		g := cm.DefGroups[i]
		if len(g.Names) == 2 {
			found = &cm.DefGroups[i]
		}
	}
	require.NotNil(t, found)
	require.True(t, found.Recursive)
}

func TestSelfRecursiveSingletonGroupedRecursive(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let loop n = loop n;
`)
	require.Len(t, cm.DefGroups, 1)
	require.True(t, cm.DefGroups[0].Recursive)
	require.Equal(t, []ast.Name{"loop"}, cm.DefGroups[0].Names)
}

func TestNonRecursiveSingletonGroup(t *testing.T) {
	cm := canonicalizeOne(t, `module Main [];
let a = 1;
let b = a + 1;
`)
	require.Len(t, cm.DefGroups, 2)
	require.False(t, cm.DefGroups[0].Recursive)
	require.False(t, cm.DefGroups[1].Recursive)
	require.Equal(t, []ast.Name{"a"}, cm.DefGroups[0].Names)
	require.Equal(t, []ast.Name{"b"}, cm.DefGroups[1].Names)
}

func TestCyclicModuleImportsReported(t *testing.T) {
	a, errs := parser.Parse(`module A [];
import B;
let value = 1;
`, "A.pac")
	require.Empty(t, errs)
	b, errs := parser.Parse(`module B [];
import A;
let value = 2;
`, "B.pac")
	require.Empty(t, errs)

	_, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"A.pac": a, "B.pac": b})
	require.NotEmpty(t, diags)
	require.Equal(t, "CAN005", diags[0].Code)
}
