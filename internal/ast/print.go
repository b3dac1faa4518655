package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Print renders a Module back to surface syntax. It is not meant to be
// byte-stable against arbitrary hand-written source — its job is to support
// the parse -> print -> parse round-trip property (spec.md §8.1): printing
// always fully parenthesizes operator expressions and applications, so the
// second parse can never pick a different precedence than the first.
func Print(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s [", m.Name)
	for i, e := range m.Exports {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString("];\n")

	for _, imp := range m.Imports {
		fmt.Fprintf(&b, "import %s;\n", imp.Value)
	}

	for _, name := range m.TypeOrder {
		def := m.Types[name]
		b.WriteString(printTypeDef(name, def.Value))
	}

	for _, name := range m.ValueOrder {
		if ann, ok := m.Annotations[name]; ok {
			fmt.Fprintf(&b, "let %s : %s;\n", name, PrintType(ann.Value))
		}
		params := m.ValueParams[name]
		var ps strings.Builder
		for _, p := range params {
			ps.WriteString(" ")
			ps.WriteString(PrintPattern(p))
		}
		fmt.Fprintf(&b, "let %s%s = %s;\n", name, ps.String(), PrintExpr(m.Values[name].Value))
	}
	return b.String()
}

// printTypeDef renders a type declaration in the `let Name vars = body;`
// form the parser expects: every top-level declaration other than `import`
// is introduced by a leading `let`, with the token after it (upper- or
// lower-case) distinguishing a type declaration from a value one.
func printTypeDef(name Name, def TypeDef) string {
	head := "let " + string(name)
	switch d := def.(type) {
	case TypeAlias:
		if len(d.Vars) > 0 {
			head += " " + strings.Join(namesToStrings(d.Vars), " ")
		}
		return fmt.Sprintf("%s = %s;\n", head, PrintType(d.Body))
	case TypeUnion:
		if len(d.Vars) > 0 {
			head += " " + strings.Join(namesToStrings(d.Vars), " ")
		}
		var variants []string
		for _, c := range d.Variants {
			args := make([]string, len(c.Args))
			for i, a := range c.Args {
				args[i] = PrintType(a)
			}
			if len(args) == 0 {
				variants = append(variants, string(c.Name))
			} else {
				variants = append(variants, string(c.Name)+" "+strings.Join(args, " "))
			}
		}
		return fmt.Sprintf("%s = %s;\n", head, strings.Join(variants, " | "))
	case TypeExternal:
		return fmt.Sprintf("%s = extern %q;\n", head, d.NativeName)
	default:
		return ""
	}
}

func namesToStrings(ns []Name) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}

// PrintType renders a surface type expression, fully parenthesized.
func PrintType(t Type_) string {
	switch tt := t.(type) {
	case TUnit:
		return "()"
	case TVariable:
		return string(tt.Name)
	case TIdentifier:
		return string(tt.Name)
	case TQualifiedIdentifier:
		return fmt.Sprintf("%s.%s", tt.Module, tt.Name)
	case TConstructor:
		parts := []string{PrintType(tt.Head), PrintType(tt.First)}
		for _, r := range tt.Rest {
			parts = append(parts, PrintType(r))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case TFn:
		return fmt.Sprintf("(%s -> %s)", PrintType(tt.From), PrintType(tt.To))
	case TRecord:
		keys := append([]Name(nil), tt.Order...)
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		var fields []string
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s: %s", k, PrintType(tt.Fields[k])))
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	case TTuple:
		parts := []string{PrintType(tt.First), PrintType(tt.Second)}
		for _, r := range tt.Rest {
			parts = append(parts, PrintType(r))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}

// PrintPattern renders a surface pattern.
func PrintPattern(p Pattern) string {
	switch pp := p.(type) {
	case PWildcard:
		return "_"
	case PIdentifier:
		return string(pp.Name)
	case PConstructor:
		if len(pp.Args) == 0 {
			return string(pp.Name)
		}
		args := make([]string, len(pp.Args))
		for i, a := range pp.Args {
			args[i] = PrintPattern(a)
		}
		return "(" + string(pp.Name) + " " + strings.Join(args, " ") + ")"
	case PCons:
		return fmt.Sprintf("(%s :: %s)", PrintPattern(pp.Head), PrintPattern(pp.Tail))
	case PTuple:
		parts := make([]string, len(pp.Elements))
		for i, e := range pp.Elements {
			parts[i] = PrintPattern(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "_"
	}
}

// PrintExpr renders a surface expression, fully parenthesized so that the
// result always reparses to an AST with the same shape (spec.md §8.1).
func PrintExpr(e Expr) string {
	switch ee := e.(type) {
	case EUnit:
		return "()"
	case EBool:
		if ee.Value {
			return "True"
		}
		return "False"
	case EInt:
		if ee.Value < 0 {
			return "(" + strconv.FormatInt(ee.Value, 10) + ")"
		}
		return strconv.FormatInt(ee.Value, 10)
	case EFloat:
		s := strconv.FormatFloat(ee.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		if ee.Value < 0 {
			return "(" + s + ")"
		}
		return s
	case EString:
		return strconv.Quote(ee.Value)
	case EList:
		parts := make([]string, len(ee.Elements))
		for i, el := range ee.Elements {
			parts[i] = PrintExpr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ETuple:
		parts := make([]string, len(ee.Elements))
		for i, el := range ee.Elements {
			parts[i] = PrintExpr(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ERecord:
		keys := append([]Name(nil), ee.Order...)
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		var fields []string
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s = %s", k, PrintExpr(ee.Fields[k])))
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	case EIdentifier:
		return string(ee.Name)
	case EQualifiedIdentifier:
		return fmt.Sprintf("%s.%s", ee.Module, ee.Name)
	case EConstructor:
		return string(ee.Name)
	case EQualifiedConstructor:
		return fmt.Sprintf("%s.%s", ee.Module, ee.Name)
	case EExternal:
		return fmt.Sprintf("extern %q", ee.NativeName)
	case EAp:
		return fmt.Sprintf("(%s %s)", PrintExpr(ee.Fn), PrintExpr(ee.Arg))
	case ELambda:
		return fmt.Sprintf("(\\%s -> %s)", PrintPattern(ee.Param), PrintExpr(ee.Body))
	case EBinOp:
		return fmt.Sprintf("(%s %s %s)", PrintExpr(ee.Lhs), ee.Op, PrintExpr(ee.Rhs))
	case EIf:
		return fmt.Sprintf("(if %s then %s else %s)", PrintExpr(ee.Cond), PrintExpr(ee.Then), PrintExpr(ee.Else))
	case ELet:
		return fmt.Sprintf("(let %s = %s; %s)", PrintPattern(ee.Pattern), PrintExpr(ee.Bound), PrintExpr(ee.Body))
	case EBind:
		return fmt.Sprintf("(let %s <- %s; %s)", PrintPattern(ee.Pattern), PrintExpr(ee.Effectful), PrintExpr(ee.Body))
	case EWhen:
		var alts []string
		for _, a := range e.(EWhen).Alts() {
			alts = append(alts, fmt.Sprintf("%s -> %s", PrintPattern(a.Pattern), PrintExpr(a.Body)))
		}
		return fmt.Sprintf("(when %s is %s)", PrintExpr(ee.Scrutinee), strings.Join(alts, " | "))
	default:
		return "?"
	}
}
