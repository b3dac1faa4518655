package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/optimize"
)

// Source renders one OptimizedModule to a JS source file (spec.md §4.5).
// The emitter is a pure tree walk: no two modules' output depends on one
// another beyond the import line each cross-module reference produces.
func Source(om *optimize.OptimizedModule) string {
	m := &moduleEmitter{imports: map[string]string{}}
	for _, imp := range om.Imports {
		m.imports[imp.String()] = moduleBinding(imp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", om.Name.String())
	b.WriteString(`import * as Basics from "./Basics.js";` + "\n")
	seen := map[string]bool{"Basics": true}
	for _, imp := range om.Imports {
		if seen[imp.String()] {
			continue
		}
		seen[imp.String()] = true
		fmt.Fprintf(&b, "import * as %s from \"./%s.js\";\n", moduleBinding(imp), imp.String())
	}
	// The List/Bool builtins resolve to a foreign reference even without
	// an explicit `import List;`/`import Bool;` (canon.Env's
	// listModule/boolModule fallback), so their import line is only
	// emitted when actually referenced.
	for _, name := range referencedForeignModules(om) {
		if seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(&b, "import * as %s from \"./%s.js\";\n", name, name)
	}
	b.WriteString("\n")

	if usesToString(om) {
		b.WriteString(toStringHelperSource)
		b.WriteString("\n")
	}

	for _, name := range om.TypeOrder {
		def := om.Types[name]
		if def.Kind != canon.DefUnion {
			continue
		}
		for _, ctor := range def.Variants {
			b.WriteString(ctorDef(ctor))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	for _, group := range om.DefGroups {
		for _, name := range group.Names {
			b.WriteString(defSource(m, name, om.Values[name]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	for _, exp := range om.Exports {
		if exp.Kind != ast.ExportValue {
			continue
		}
		fmt.Fprintf(&b, "export { %s };\n", identJS(exp.Name))
	}

	return b.String()
}

func defSource(m *moduleEmitter, name ast.Name, body optimize.OExpr) string {
	if lam, ok := body.(optimize.OLambda); ok {
		return fmt.Sprintf("function %s(%s) {\n  return %s;\n}", identJS(name), identJS(lam.Param), m.expr(lam.Body))
	}
	return fmt.Sprintf("const %s = %s;", identJS(name), m.expr(body))
}

// ctorDef emits a union variant as a curried function returning an opaque
// `{ tag, arity, args }` value (spec.md §4.5); a nullary variant is just
// the value itself, with nothing left to curry.
func ctorDef(ctor canon.ConstructorInfo) string {
	name := identJS(ctor.Name)
	if ctor.Arity == 0 {
		return fmt.Sprintf("const %s = { tag: %d, arity: 0, args: [] };", name, ctor.Tag)
	}

	params := make([]string, ctor.Arity)
	for i := range params {
		params[i] = fmt.Sprintf("__a%d", i)
	}
	expr := fmt.Sprintf("({ tag: %d, arity: %d, args: [%s] })", ctor.Tag, ctor.Arity, strings.Join(params, ", "))
	for i := len(params) - 1; i >= 0; i-- {
		expr = fmt.Sprintf("(%s) => %s", params[i], expr)
	}
	return fmt.Sprintf("const %s = %s;", name, expr)
}

// usesToString reports whether any value in om reaches the kernel
// `to_string` primitive, so the per-file stringifier helper is only
// emitted into modules that actually call it.
func usesToString(om *optimize.OptimizedModule) bool {
	found := false
	var walk func(optimize.OExpr)
	walk = func(e optimize.OExpr) {
		if found || e == nil {
			return
		}
		switch ee := e.(type) {
		case optimize.OVar:
			if ee.Name.Kind == canon.QKernel && string(ee.Name.Value) == "to_string" {
				found = true
			}
		case optimize.OAp:
			walk(ee.Fn)
			walk(ee.Arg)
		case optimize.OLambda:
			walk(ee.Body)
		case optimize.OOp:
			walk(ee.Lhs)
			walk(ee.Rhs)
		case optimize.OIf:
			walk(ee.Cond)
			walk(ee.Then)
			walk(ee.Else)
		case optimize.OLet:
			walk(ee.Bound)
			walk(ee.Body)
		case optimize.OMatch:
			walk(ee.Scrutinee)
			walkTree(ee.Tree, walk)
		case optimize.ORecord:
			for _, f := range ee.Fields {
				walk(f)
			}
		}
	}
	for _, v := range om.Values {
		walk(v)
		if found {
			return true
		}
	}
	return found
}

// referencedForeignModules returns, in sorted order, every module name
// reached by a QForeign reference anywhere in om that om.Imports does not
// already list — the List/Bool builtins are the only case this currently
// arises for, since every other foreign reference comes from an explicit
// `import` the canonicalizer already recorded.
func referencedForeignModules(om *optimize.OptimizedModule) []string {
	declared := map[string]bool{}
	for _, imp := range om.Imports {
		declared[imp.String()] = true
	}

	found := map[string]bool{}
	note := func(q canon.Qualified[ast.Name]) {
		if q.Kind == canon.QForeign && !declared[q.Module.String()] {
			found[q.Module.String()] = true
		}
	}
	var walk func(optimize.OExpr)
	walk = func(e optimize.OExpr) {
		if e == nil {
			return
		}
		switch ee := e.(type) {
		case optimize.OVar:
			note(ee.Name)
		case optimize.OConstructor:
			note(ee.Name)
		case optimize.OAp:
			walk(ee.Fn)
			walk(ee.Arg)
		case optimize.OLambda:
			walk(ee.Body)
		case optimize.OOp:
			walk(ee.Lhs)
			walk(ee.Rhs)
		case optimize.OIf:
			walk(ee.Cond)
			walk(ee.Then)
			walk(ee.Else)
		case optimize.OLet:
			walk(ee.Bound)
			walk(ee.Body)
		case optimize.OMatch:
			walk(ee.Scrutinee)
			walkTree(ee.Tree, walk)
		case optimize.ORecord:
			for _, f := range ee.Fields {
				walk(f)
			}
		}
	}
	for _, v := range om.Values {
		walk(v)
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func walkTree(t optimize.DecisionTree, walk func(optimize.OExpr)) {
	switch tt := t.(type) {
	case optimize.DTSucceed:
		walk(tt.Body)
	case optimize.DTIf:
		walkTree(tt.Success, walk)
		walkTree(tt.Failure, walk)
	}
}

// toStringHelperSource is the recursive stringifier spec.md §4.5 calls
// "target-specific" for the `to_string` kernel: it prints literals
// directly and walks constructor values by tag/args, since by emission
// time a constructor carries no name to print.
const toStringHelperSource = `function ` + toStringHelperName + `(v) {
  if (v === null) return "()";
  if (typeof v === "boolean" || typeof v === "number") return String(v);
  if (typeof v === "string") return v;
  if (v && typeof v === "object" && "tag" in v) {
    if (v.args.length === 0) return "#" + v.tag;
    return "#" + v.tag + "(" + v.args.map(` + toStringHelperName + `).join(", ") + ")";
  }
  return String(v);
}
`
