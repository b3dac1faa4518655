package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
)

func TestRenderPlainText(t *testing.T) {
	out := diag.Render(diag.Text("hello"), 80)
	require.Equal(t, "hello", out)
}

func TestRenderColorWrapsAnsiEscapes(t *testing.T) {
	out := diag.Render(diag.Colored(diag.Red, diag.Text("boom")), 80)
	require.True(t, strings.HasPrefix(out, "\x1B[0;31m"))
	require.True(t, strings.HasSuffix(out, "\x1B[0m"))
	require.Contains(t, out, "boom")
}

func TestStackAddsBlankLineVerticalAppendDoesNot(t *testing.T) {
	stacked := diag.Render(diag.Stack(diag.Text("a"), diag.Text("b")), 80)
	require.Equal(t, "a\n\nb", stacked)

	joined := diag.Render(diag.VerticalAppend(diag.Text("a"), diag.Text("b")), 80)
	require.Equal(t, "a\nb", joined)
}

func TestReportRenderHasHeaderAndSnippet(t *testing.T) {
	src := diag.NewSource("Main.pac", "let x = 1\nlet y = 2;")
	region := ast.Region{Start: ast.Pos{Line: 1, Column: 1}, End: ast.Pos{Line: 1, Column: 10}}
	body := diag.Stack(
		src.Snippet(region),
		diag.Hint("Add a semicolon (;) at the end."),
	)
	r := diag.New(diag.CodeMissingSemicolon, diag.PhaseParser, "missing semicolon", "Main.pac", &region, body)
	rendered := r.Render(80)
	require.Contains(t, rendered, "MISSING SEMICOLON")
	require.Contains(t, rendered, "Main.pac")
	require.Contains(t, rendered, "let x = 1")
	require.Contains(t, rendered, "Add a semicolon")
}

func TestReportToJSONIsDeterministic(t *testing.T) {
	r := diag.New(diag.CodeUnresolvedIdentifier, diag.PhaseCanonicalize, "unresolved identifier", "A.pac", nil, diag.Text("no binding for `foo`"))
	out1, err := r.ToJSON(true)
	require.NoError(t, err)
	out2, err := r.ToJSON(true)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
	require.Contains(t, out1, `"code":"CAN001"`)
}
