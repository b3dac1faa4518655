package diag

import (
	"fmt"
	"strings"

	"github.com/pac-lang/pac/internal/ast"
)

// Source wraps one file's original text so diagnostics can quote it.
type Source struct {
	Path string
	Text string
	// lines is Text split on "\n", computed once by NewSource.
	lines []string
}

// NewSource constructs a Source, splitting Text into lines up front.
func NewSource(path, text string) *Source {
	return &Source{Path: path, Text: text, lines: strings.Split(text, "\n")}
}

func (s *Source) line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// Snippet renders the lines spanned by region, prefixed with a
// right-aligned gutter " NNNN |" and a red '>' marker on every line inside
// the region (spec.md §4.6).
func (s *Source) Snippet(region ast.Region) Document {
	gutterWidth := len(fmt.Sprintf("%d", region.End.Line))
	if gutterWidth < 4 {
		gutterWidth = 4
	}

	var lines []Document
	for ln := region.Start.Line; ln <= region.End.Line; ln++ {
		gutter := fmt.Sprintf("%*d |", gutterWidth, ln)
		prefix := Append(Colored(Red, Text(">")), Text(" "+gutter+" "))
		lines = append(lines, Append(prefix, Text(s.line(ln))))
	}
	return VerticalAppend(lines...)
}
