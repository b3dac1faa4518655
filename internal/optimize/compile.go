package optimize

import (
	"fmt"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/diag"
)

// lowering carries the state of one module's lowering pass.
type lowering struct {
	path     string
	variants map[ast.Name]int
	diags    []*diag.Report
}

func (lx *lowering) warnf(region ast.Region, code, title, format string, args ...any) {
	r := diag.New(code, diag.PhaseOptimize, title, lx.path, &region, diag.Text(fmt.Sprintf(format, args...))).
		WithSeverity(diag.SeverityWarning)
	lx.diags = append(lx.diags, r)
}

// lower walks a canonicalized expression, collapsing Concat into Plus and
// compiling every When into a decision tree (spec.md §4.4).
func (lx *lowering) lower(e canon.CanonExpr) OExpr {
	switch ee := e.(type) {
	case canon.CUnit:
		return OUnit{Reg: ee.Reg}
	case canon.CBool:
		return OBool{Value: ee.Value, Reg: ee.Reg}
	case canon.CInt:
		return OInt{Value: ee.Value, Reg: ee.Reg}
	case canon.CFloat:
		return OFloat{Value: ee.Value, Reg: ee.Reg}
	case canon.CString:
		return OString{Value: ee.Value, Reg: ee.Reg}
	case canon.CVar:
		return OVar{Name: ee.Name, Reg: ee.Reg}
	case canon.CConstructor:
		return OConstructor{Name: ee.Name, Tag: ee.Tag, Arity: ee.Arity, Reg: ee.Reg}
	case canon.CAp:
		return OAp{Fn: lx.lower(ee.Fn), Arg: lx.lower(ee.Arg), Reg: ee.Reg}
	case canon.CLambda:
		param, body := lx.lowerLambdaParam(ee)
		return OLambda{Param: param, Body: body, Reg: ee.Reg}
	case canon.COp:
		op := ee.Op
		if op == ast.OpAppend {
			// Operator collapsing: the emission target overloads `+` for
			// both numeric addition and concatenation (spec.md §4.4).
			op = ast.OpAdd
		}
		return OOp{Op: op, Lhs: lx.lower(ee.Lhs), Rhs: lx.lower(ee.Rhs), Reg: ee.Reg}
	case canon.CIf:
		return OIf{Cond: lx.lower(ee.Cond), Then: lx.lower(ee.Then), Else: lx.lower(ee.Else), Reg: ee.Reg}
	case canon.CLet:
		return OLet{Name: ee.Name, Bound: lx.lower(ee.Bound), Body: lx.lower(ee.Body), Reg: ee.Reg}
	case canon.CWhen:
		return lx.lowerWhen(ee)
	case canon.CRecord:
		fields := make(map[ast.Name]OExpr, len(ee.Fields))
		for k, v := range ee.Fields {
			fields[k] = lx.lower(v)
		}
		return ORecord{Fields: fields, Order: append([]ast.Name(nil), ee.Order...), Reg: ee.Reg}
	default:
		return OUnit{Reg: e.Region()}
	}
}

// lowerLambdaParam unwraps the lambda's pattern into a plain binder name.
// A variable parameter is the binder itself and a wildcard becomes `_`.
// Any other pattern (a constructor or tuple parameter, which canonicalization
// passes through unchanged) binds a fresh `$param` argument whose body
// destructures it with a one-row decision tree, the same way a `when`
// with a single alternative does.
func (lx *lowering) lowerLambdaParam(e canon.CLambda) (ast.Name, OExpr) {
	switch p := e.Param.(type) {
	case canon.CPVar:
		return p.Name, lx.lower(e.Body)
	case canon.CPWildcard:
		return "_", lx.lower(e.Body)
	default:
		const param = ast.Name("$param")
		row := matchRow{patterns: []canon.CanonPattern{p}, paths: []Path{{}}, body: e.Body}
		tree := lx.compileMatrix([]matchRow{row}, e.Reg)
		return param, OMatch{Scrutinee: OVar{Name: canon.Local(param), Reg: e.Reg}, Tree: tree, Reg: e.Reg}
	}
}

// matchRow is one row of the pattern matrix: a pattern per active column,
// its controlling access Path, the originating alternative's body, and
// the surface bindings introduced by any wildcard-position variable
// pattern seen so far (spec.md §4.4 step 2's "variable bindings passed
// through surrounding Let nodes").
type matchRow struct {
	patterns []canon.CanonPattern
	paths    []Path
	bindings []binding
	body     canon.CanonExpr
}

type binding struct {
	name ast.Name
	path Path
}

// lowerWhen compiles a When into an OMatch rooted at a decision tree
// (spec.md §4.4's Maranget-style matrix compilation, adapted from the
// n-ary switch the teacher's dtree.DecisionTreeCompiler builds into the
// binary If chain spec.md §3 specifies).
func (lx *lowering) lowerWhen(e canon.CWhen) OExpr {
	alts := e.Alts()
	rows := make([]matchRow, len(alts))
	for i, alt := range alts {
		rows[i] = matchRow{
			patterns: []canon.CanonPattern{alt.Pattern},
			paths:    []Path{{}},
			body:     alt.Body,
		}
	}
	tree := lx.compileMatrix(rows, e.Reg)
	return OMatch{Scrutinee: lx.lower(e.Scrutinee), Tree: tree, Reg: e.Reg}
}

func (lx *lowering) compileMatrix(rows []matchRow, reg ast.Region) DecisionTree {
	if len(rows) == 0 {
		lx.warnf(reg, diag.CodeNonExhaustiveMatch, "non-exhaustive pattern match",
			"no pattern in this `when` matches every possible value")
		return DTSucceed{Body: crashExpr(reg, "non-exhaustive match")}
	}

	first := rows[0]
	if isDefaultRow(first) {
		return DTSucceed{Body: lx.wrapBindings(first)}
	}

	col := headColumn(first)
	return lx.buildIf(rows, col, reg)
}

// isDefaultRow reports whether every column of row is a variable or
// wildcard (spec.md §4.4 step 2).
func isDefaultRow(row matchRow) bool {
	for _, p := range row.patterns {
		switch p.(type) {
		case canon.CPWildcard, canon.CPVar:
			continue
		default:
			return false
		}
	}
	return true
}

// headColumn finds the first column of row that still needs testing.
func headColumn(row matchRow) int {
	for i, p := range row.patterns {
		switch p.(type) {
		case canon.CPWildcard, canon.CPVar:
			continue
		default:
			return i
		}
	}
	return 0
}

// wrapBindings threads every variable-pattern binding collected on the
// path to a leaf row through Let nodes around its body, then lowers it.
func (lx *lowering) wrapBindings(row matchRow) OExpr {
	for i, p := range row.patterns {
		if v, ok := p.(canon.CPVar); ok {
			row.bindings = append(row.bindings, binding{name: v.Name, path: row.paths[i]})
		}
	}
	body := lx.lower(row.body)
	for i := len(row.bindings) - 1; i >= 0; i-- {
		b := row.bindings[i]
		body = OLet{Name: b.name, Bound: pathAccess(b.path, row.body.Region()), Body: body, Reg: body.Region()}
	}
	return body
}

// pathAccess is a placeholder access expression for a bound sub-value;
// the emitter resolves a Path against the live scrutinee value directly,
// so this node only needs to carry the path itself.
func pathAccess(p Path, reg ast.Region) OExpr {
	return OPathRef{Path: p, Reg: reg}
}

// buildIf groups rows by the constructor tag found at col and produces a
// binary If chain testing each tag in first-appearance order, falling
// through to the remaining wildcard rows (or a non-exhaustive crash) when
// none match (spec.md §4.4 steps 3-5). When no wildcard row remains and
// every constructor of the type is named, the last tag is not tested: its
// rows form the chain's final failure branch.
func (lx *lowering) buildIf(rows []matchRow, col int, reg ast.Region) DecisionTree {
	type group struct {
		tag  uint16
		name ast.Name
		rows []matchRow
	}
	var groups []group
	seen := map[uint16]int{}
	var defaults []matchRow

	for _, row := range rows {
		pat := row.patterns[col]
		ctor, ok := pat.(canon.CPConstructor)
		if !ok {
			defaults = append(defaults, withWildcardBinding(row, col))
			continue
		}
		if idx, ok := seen[ctor.Tag]; ok {
			groups[idx].rows = append(groups[idx].rows, specializeConstructorRow(row, col, ctor))
			continue
		}
		seen[ctor.Tag] = len(groups)
		groups = append(groups, group{tag: ctor.Tag, name: ctor.Name.Value, rows: []matchRow{specializeConstructorRow(row, col, ctor)}})
	}

	path := rows[0].paths[col]
	var representative ast.Name
	if len(groups) > 0 {
		representative = groups[0].name
	}
	total, known := lx.variants[representative]

	var failure DecisionTree
	switch {
	case len(defaults) > 0:
		failure = lx.compileMatrix(defaults, reg)
	case known && len(groups) >= total:
		last := groups[len(groups)-1]
		groups = groups[:len(groups)-1]
		failure = lx.compileMatrix(last.rows, reg)
	default:
		lx.warnf(reg, diag.CodeNonExhaustiveMatch, "non-exhaustive pattern match",
			"`when` does not cover every constructor of this type")
		failure = DTSucceed{Body: crashExpr(reg, "non-exhaustive match")}
	}

	// Each tag's success subtree is compiled from only the rows that
	// explicitly named it: a wildcard row can never be the *first* match
	// for a given tag unless it already precedes every row naming that
	// tag, in which case isDefaultRow already turned it into a leaf higher
	// up the recursion before buildIf ever ran (teacher's dtree.buildSwitch
	// takes the same shortcut).
	tree := failure
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		success := lx.compileMatrix(g.rows, reg)
		tree = DTIf{Path: path, Test: TIsConstructor{Tag: g.tag}, Success: success, Failure: tree}
	}
	return tree
}

// specializeConstructorRow expands a constructor-pattern column into one
// new column per argument, each addressed by extending the column's Path
// with the argument's position (spec.md §4.4 step 4).
func specializeConstructorRow(row matchRow, col int, ctor canon.CPConstructor) matchRow {
	bindings := collectWildcardBinding(row, col)
	base := row.paths[col]

	patterns := make([]canon.CanonPattern, 0, len(row.patterns)-1+len(ctor.Args))
	paths := make([]Path, 0, len(row.paths)-1+len(ctor.Args))
	patterns = append(patterns, row.patterns[:col]...)
	paths = append(paths, row.paths[:col]...)
	for i, arg := range ctor.Args {
		patterns = append(patterns, arg)
		argPath := append(append(Path(nil), base...), i)
		paths = append(paths, argPath)
	}
	patterns = append(patterns, row.patterns[col+1:]...)
	paths = append(paths, row.paths[col+1:]...)

	return matchRow{patterns: patterns, paths: paths, bindings: bindings, body: row.body}
}

// withWildcardBinding records a variable-pattern binding at col (if any)
// and removes that column, leaving a default row ready to be re-tested
// against the next column.
func withWildcardBinding(row matchRow, col int) matchRow {
	bindings := collectWildcardBinding(row, col)
	patterns := append(append([]canon.CanonPattern(nil), row.patterns[:col]...), row.patterns[col+1:]...)
	paths := append(append([]Path(nil), row.paths[:col]...), row.paths[col+1:]...)
	return matchRow{patterns: patterns, paths: paths, bindings: bindings, body: row.body}
}

func collectWildcardBinding(row matchRow, col int) []binding {
	bindings := append([]binding(nil), row.bindings...)
	if v, ok := row.patterns[col].(canon.CPVar); ok {
		bindings = append(bindings, binding{name: v.Name, path: row.paths[col]})
	}
	return bindings
}

// crashExpr builds the kernel crash application spec.md §4.4 step 5
// requires for an unmatched row: `crash "non-exhaustive match"`.
func crashExpr(reg ast.Region, msg string) OExpr {
	return OAp{
		Fn:  OVar{Name: canon.Kernel(ast.Name("crash")), Reg: reg},
		Arg: OString{Value: msg, Reg: reg},
		Reg: reg,
	}
}

// OPathRef is an optimizer-internal placeholder expression naming a
// sub-value of the scrutinee by access path; the emitter resolves it
// against whatever JS expression holds the live scrutinee value.
type OPathRef struct {
	Path Path
	Reg  ast.Region
}

func (OPathRef) optimizedExprNode()  {}
func (e OPathRef) Region() ast.Region { return e.Reg }
