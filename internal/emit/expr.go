package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/optimize"
)

// moduleEmitter carries the state needed to render one OptimizedModule's
// expressions: the binding names of its imports, used to qualify a
// Foreign reference to `<binding>.<name>`.
type moduleEmitter struct {
	imports map[string]string // dotted module name -> JS binding
}

func (m *moduleEmitter) qualify(q canon.Qualified[ast.Name]) string {
	switch q.Kind {
	case canon.QLocal:
		return identJS(q.Value)
	case canon.QKernel:
		return kernelJS(q.Value)
	case canon.QForeign:
		binding, ok := m.imports[q.Module.String()]
		if !ok {
			// Reached for the always-available List/Bool builtins, which
			// resolve to a foreign reference even when the source module
			// never wrote an explicit `import List;`/`import Bool;`
			// (canon.Env's listModule/boolModule fallback).
			binding = moduleBinding(q.Module)
		}
		return binding + "." + identJS(q.Value)
	default:
		return identJS(q.Value)
	}
}

// expr renders e as a single JS expression.
func (m *moduleEmitter) expr(e optimize.OExpr) string {
	switch ee := e.(type) {
	case optimize.OUnit:
		return "null"
	case optimize.OBool:
		return strconv.FormatBool(ee.Value)
	case optimize.OInt:
		return strconv.FormatInt(ee.Value, 10)
	case optimize.OFloat:
		return strconv.FormatFloat(ee.Value, 'g', -1, 64)
	case optimize.OString:
		return strconv.Quote(ee.Value)
	case optimize.OVar:
		return m.qualify(ee.Name)
	case optimize.OConstructor:
		return m.qualify(ee.Name)
	case optimize.OAp:
		return m.expr(ee.Fn) + "(" + m.expr(ee.Arg) + ")"
	case optimize.OLambda:
		return fmt.Sprintf("(%s) => (%s)", identJS(ee.Param), m.expr(ee.Body))
	case optimize.OOp:
		return fmt.Sprintf("(%s %s %s)", m.expr(ee.Lhs), jsOperator(ee.Op), m.expr(ee.Rhs))
	case optimize.OIf:
		return fmt.Sprintf("(%s ? %s : %s)", m.expr(ee.Cond), m.expr(ee.Then), m.expr(ee.Else))
	case optimize.OLet:
		return fmt.Sprintf("(() => { const %s = %s; return %s; })()", identJS(ee.Name), m.expr(ee.Bound), m.expr(ee.Body))
	case optimize.OMatch:
		return m.match(ee)
	case optimize.ORecord:
		var b strings.Builder
		b.WriteString("{")
		for i, name := range ee.Order {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", identJS(name), m.expr(ee.Fields[name]))
		}
		b.WriteString("}")
		return b.String()
	case optimize.OPathRef:
		// Only ever reachable if a decision tree leaf is emitted outside
		// leafBody's peeling loop — defensive fallback, not a path this
		// compiler's own output exercises.
		return "undefined"
	default:
		return "null"
	}
}

func jsOperator(op ast.Operator) string {
	switch op {
	case ast.OpOr:
		return "||"
	case ast.OpAnd:
		return "&&"
	case ast.OpLt:
		return "<"
	case ast.OpGt:
		return ">"
	case ast.OpLte:
		return "<="
	case ast.OpGte:
		return ">="
	case ast.OpEq:
		return "==="
	case ast.OpNeq:
		return "!=="
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpPow:
		return "**"
	default:
		return "+"
	}
}

// match renders an OMatch as an IIFE: the scrutinee is bound once, then
// the compiled decision tree becomes a nested if/else returning the
// matching body (spec.md §4.4's guarantee of "no redundant test of the
// same position" carries over directly since the tree already encodes
// that; emission only has to walk it).
func (m *moduleEmitter) match(e optimize.OMatch) string {
	const scrutVar = "__scrut"
	var b strings.Builder
	b.WriteString("(() => { const " + scrutVar + " = " + m.expr(e.Scrutinee) + "; ")
	for _, line := range m.treeLines(e.Tree, scrutVar) {
		b.WriteString(line)
		b.WriteString(" ")
	}
	b.WriteString("})()")
	return b.String()
}

func (m *moduleEmitter) treeLines(tree optimize.DecisionTree, scrutVar string) []string {
	switch t := tree.(type) {
	case optimize.DTSucceed:
		return []string{"return " + m.leafBody(t.Body, scrutVar) + ";"}
	case optimize.DTIf:
		cond := "true"
		if tag, ok := t.Test.(optimize.TIsConstructor); ok {
			cond = fmt.Sprintf("%s.tag === %d", accessor(scrutVar, t.Path), tag.Tag)
		}
		var lines []string
		lines = append(lines, "if ("+cond+") {")
		lines = append(lines, m.treeLines(t.Success, scrutVar)...)
		lines = append(lines, "} else {")
		lines = append(lines, m.treeLines(t.Failure, scrutVar)...)
		lines = append(lines, "}")
		return lines
	default:
		return []string{"return null;"}
	}
}

// leafBody peels the chain of OLet{Bound: OPathRef} nodes wrapBindings
// built around a decision-tree leaf's body into plain variable accesses
// against the bound scrutinee, then renders the remaining expression
// normally.
func (m *moduleEmitter) leafBody(e optimize.OExpr, scrutVar string) string {
	var prelude []string
	for {
		let, ok := e.(optimize.OLet)
		if !ok {
			break
		}
		ref, ok := let.Bound.(optimize.OPathRef)
		if !ok {
			break
		}
		prelude = append(prelude, fmt.Sprintf("const %s = %s", identJS(let.Name), accessor(scrutVar, ref.Path)))
		e = let.Body
	}
	if len(prelude) == 0 {
		return m.expr(e)
	}
	return fmt.Sprintf("(() => { %s; return %s; })()", strings.Join(prelude, "; "), m.expr(e))
}

// accessor renders a Path into the scrutinee as a chain of `.args[n]`
// indexes off the constructor-shaped runtime value bound to scrutVar.
func accessor(scrutVar string, path optimize.Path) string {
	var b strings.Builder
	b.WriteString(scrutVar)
	for _, step := range path {
		fmt.Fprintf(&b, ".args[%d]", step)
	}
	return b.String()
}
