// Package diag implements the compiler's diagnostic document model
// (spec.md §4.6): an algebraic document tree shared by every pass for
// rendering errors and warnings to a terminal of a given width.
package diag

import (
	"strconv"
	"strings"
)

// Document is an algebraic description of formatted text: colors,
// indentation, and vertical/horizontal composition, realized to a plain
// string only at Render time.
type Document interface {
	isDocument()
}

type emptyDoc struct{}

func (emptyDoc) isDocument() {}

// Empty is the identity document: it renders to nothing.
var Empty Document = emptyDoc{}

type charDoc struct{ c rune }

func (charDoc) isDocument() {}

// Char renders a single rune.
func Char(c rune) Document { return charDoc{c: c} }

type textDoc struct{ s string }

func (textDoc) isDocument() {}

// Text renders a literal string verbatim (may itself contain newlines).
func Text(s string) Document { return textDoc{s: s} }

type newlineDoc struct{}

func (newlineDoc) isDocument() {}

// NewLine renders a single line break.
var NewLine Document = newlineDoc{}

type sequenceDoc struct{ a, b Document }

func (sequenceDoc) isDocument() {}

// Append lays out a then b horizontally (on the same line).
func Append(a, b Document) Document { return sequenceDoc{a: a, b: b} }

// AppendAll horizontally concatenates every document in docs.
func AppendAll(docs ...Document) Document {
	out := Empty
	for _, d := range docs {
		out = Append(out, d)
	}
	return out
}

type overDoc struct{ top, bottom Document }

func (overDoc) isDocument() {}

// Over stacks top directly above bottom, separated by one NewLine.
func Over(top, bottom Document) Document { return overDoc{top: top, bottom: bottom} }

type indentDoc struct {
	amount int
	inner  Document
}

func (indentDoc) isDocument() {}

// Indent shifts every line of inner right by amount spaces.
func Indent(amount int, inner Document) Document { return indentDoc{amount: amount, inner: inner} }

// Color is an ANSI foreground color tag used by Style.
type Color int

const (
	Cyan   Color = iota // headings
	Red                 // errors
	Yellow              // warnings
	Blue                // notes/hints
	Green               // reserved
)

func (c Color) ansiCode() int {
	switch c {
	case Cyan:
		return 36
	case Red:
		return 31
	case Yellow:
		return 33
	case Blue:
		return 34
	case Green:
		return 32
	default:
		return 0
	}
}

type styleDoc struct {
	color Color
	inner Document
}

func (styleDoc) isDocument() {}

// Colored wraps inner in the given ANSI Color.
func Colored(c Color, inner Document) Document { return styleDoc{color: c, inner: inner} }

// Stack vertically joins docs with a blank line between each pair.
func Stack(docs ...Document) Document {
	if len(docs) == 0 {
		return Empty
	}
	out := docs[0]
	for _, d := range docs[1:] {
		out = Over(Over(out, Empty), d)
	}
	return out
}

// VerticalAppend vertically joins docs with no blank line between them.
func VerticalAppend(docs ...Document) Document {
	if len(docs) == 0 {
		return Empty
	}
	out := docs[0]
	for _, d := range docs[1:] {
		out = Over(out, d)
	}
	return out
}

// Note renders a blue "NOTE: message" line.
func Note(message string) Document {
	return Colored(Blue, Text("NOTE: "+message))
}

// Hint renders a blue "HINT: message" line.
func Hint(message string) Document {
	return Colored(Blue, Text("HINT: "+message))
}

// Render realizes a Document to a string for a terminal of the given
// advisory width. Per spec.md §4.6, width only affects heading padding —
// wrapping beyond width is not performed.
func Render(d Document, width int) string {
	var b strings.Builder
	renderInto(&b, d, 0, false)
	return b.String()
}

func renderInto(b *strings.Builder, d Document, indent int, atLineStart bool) bool {
	switch dd := d.(type) {
	case emptyDoc:
		return atLineStart
	case charDoc:
		writeIndentIfNeeded(b, indent, &atLineStart)
		b.WriteRune(dd.c)
		return false
	case textDoc:
		lines := strings.Split(dd.s, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
				atLineStart = true
			}
			if line == "" {
				continue
			}
			writeIndentIfNeeded(b, indent, &atLineStart)
			b.WriteString(line)
			atLineStart = false
		}
		return atLineStart
	case newlineDoc:
		b.WriteByte('\n')
		return true
	case sequenceDoc:
		atLineStart = renderInto(b, dd.a, indent, atLineStart)
		atLineStart = renderInto(b, dd.b, indent, atLineStart)
		return atLineStart
	case overDoc:
		atLineStart = renderInto(b, dd.top, indent, atLineStart)
		b.WriteByte('\n')
		atLineStart = renderInto(b, dd.bottom, indent, true)
		return atLineStart
	case indentDoc:
		return renderInto(b, dd.inner, indent+dd.amount, atLineStart)
	case styleDoc:
		code := dd.color.ansiCode()
		b.WriteString("\x1B[0;")
		b.WriteString(strconv.Itoa(code))
		b.WriteByte('m')
		atLineStart = renderInto(b, dd.inner, indent, atLineStart)
		b.WriteString("\x1B[0m")
		return atLineStart
	default:
		return atLineStart
	}
}

func writeIndentIfNeeded(b *strings.Builder, indent int, atLineStart *bool) {
	if *atLineStart && indent > 0 {
		b.WriteString(strings.Repeat(" ", indent))
	}
	*atLineStart = false
}

