package canon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
)

// DefGroup is one recursion class of the value-definition call graph
// (spec.md §4.2): a singleton with no self-edge is NonRecursive, anything
// else — a genuine cycle or a self-referential singleton — is Recursive.
type DefGroup struct {
	Recursive bool
	Names     []ast.Name
}

// CanonModule is the canonicalized form of one source module.
type CanonModule struct {
	Name         ast.ModuleName
	Exports      []ast.Export
	Imports      []ast.ModuleName
	TypeOrder    []ast.Name
	Types        map[ast.Name]CanonTypeDef
	Constructors map[ast.Name]ConstructorInfo
	Values       map[ast.Name]CanonExpr
	DefGroups    []DefGroup
}

// Canonicalizer canonicalizes a whole program: it orders modules by their
// import graph and canonicalizes each in turn, carrying forward the
// environment snapshots later modules need to resolve foreign references.
type Canonicalizer struct {
	env *Env
}

func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{env: newEnv()}
}

// CanonicalizeProgram canonicalizes every module in mods, keyed by source
// path, resolving cross-module references in reverse-topological order
// (spec.md §4.2's module ordering). A cycle spanning more than one module
// is reported as CYCLIC MODULE IMPORTS and those modules are skipped.
func CanonicalizeProgram(mods map[string]*ast.Module) (map[string]*CanonModule, []*diag.Report) {
	c := NewCanonicalizer()
	var diags []*diag.Report

	byName := map[string]*ast.Module{}
	pathOf := map[string]string{}
	for path, m := range mods {
		byName[m.Name.String()] = m
		pathOf[m.Name.String()] = path
	}

	graph := NewDepGraph()
	for _, m := range byName {
		graph.AddNode(m.Name.String())
		for _, imp := range m.Imports {
			graph.AddEdge(m.Name.String(), imp.Value.String())
		}
	}

	out := map[string]*CanonModule{}
	for _, scc := range graph.SCCs() {
		if len(scc) > 1 {
			names := append([]string(nil), scc...)
			sort.Strings(names)
			region := ast.Region{}
			if m, ok := byName[scc[0]]; ok {
				region = m.NameRegion
			}
			body := diag.Text("modules import each other in a cycle: " + strings.Join(names, ", "))
			diags = append(diags, diag.New(diag.CodeCyclicModuleImports, diag.PhaseCanonicalize,
				"cyclic module imports", pathOf[scc[0]], &region, body).WithSeverity(diag.SeverityError))
			continue
		}

		name := scc[0]
		m, ok := byName[name]
		if !ok {
			// A referenced-but-unbuilt module (e.g. the implicit List
			// kernel module): nothing to canonicalize, just a dependency
			// the environment already knows about via builtins.
			continue
		}
		cm, ds := c.canonicalizeModule(m, pathOf[name])
		diags = append(diags, ds...)
		out[name] = cm
	}

	return out, diags
}

func (c *Canonicalizer) canonicalizeModule(mod *ast.Module, path string) (*CanonModule, []*diag.Report) {
	var diags []*diag.Report
	env := c.env
	env.resetForModule()

	for _, imp := range mod.Imports {
		env.adoptImport(imp.Value)
	}

	cm := &CanonModule{
		Name:         mod.Name,
		Exports:      mod.Exports,
		Types:        map[ast.Name]CanonTypeDef{},
		Constructors: map[ast.Name]ConstructorInfo{},
		Values:       map[ast.Name]CanonExpr{},
	}
	for _, imp := range mod.Imports {
		cm.Imports = append(cm.Imports, imp.Value)
	}

	// Type elaboration (spec.md §4.2). Recursive names enter
	// env.recursive *before* elaborating their own body so a
	// self-reference resolves Local rather than raising unknown-type.
	for _, name := range mod.TypeOrder {
		def := mod.Types[name].Value
		if mentionsSelf(name, def) {
			env.recursive[name] = struct{}{}
		}
	}
	for _, name := range mod.TypeOrder {
		loc := mod.Types[name]
		ctd := elaborateTypeDef(name, loc.Value, env, path, &diags)
		env.types[name] = ctd
		cm.Types[name] = ctd
		cm.TypeOrder = append(cm.TypeOrder, name)
		for _, ctor := range ctd.Variants {
			env.constructors[ctor.Name] = ctor
			cm.Constructors[ctor.Name] = ctor
		}
	}

	for _, name := range mod.ValueOrder {
		env.localValues[name] = struct{}{}
	}

	cx := &exprCanon{env: env, path: path}
	for _, name := range mod.ValueOrder {
		loc := mod.Values[name]
		body := withSurfaceParams(mod.ValueParams[name], loc.Value)
		ce := cx.canonExpr(body)
		cm.Values[name] = ce
	}
	diags = append(diags, cx.diags...)

	cm.DefGroups = groupDefinitions(mod.ValueOrder, cm.Values)

	env.snapshot(mod.Name, env.localValues)

	return cm, diags
}

// withSurfaceParams rebuilds the nested-lambda form of `let f p1 p2 = e`
// from the surface parameter list the parser kept alongside the raw,
// parameter-free body (ast.Module.ValueParams), so canonicalization sees one uniform
// Expr shape regardless of how many parameters a definition took.
func withSurfaceParams(params []ast.Pattern, body ast.Expr) ast.Expr {
	for i := len(params) - 1; i >= 0; i-- {
		body = ast.ELambda{Param: params[i], Body: body, Reg: body.Region()}
	}
	return body
}

// mentionsSelf reports whether a type's own name appears as a type
// constructor head anywhere in its variant arguments (spec.md §4.2's
// recursive-type definition).
func mentionsSelf(name ast.Name, def ast.TypeDef) bool {
	union, ok := def.(ast.TypeUnion)
	if !ok {
		return false
	}
	for _, ctor := range union.Variants {
		for _, arg := range ctor.Args {
			if typeMentions(name, arg) {
				return true
			}
		}
	}
	return false
}

func typeMentions(name ast.Name, t ast.Type_) bool {
	switch tt := t.(type) {
	case ast.TIdentifier:
		return tt.Name == name
	case ast.TConstructor:
		if typeMentions(name, tt.Head) || typeMentions(name, tt.First) {
			return true
		}
		for _, r := range tt.Rest {
			if typeMentions(name, r) {
				return true
			}
		}
		return false
	case ast.TFn:
		return typeMentions(name, tt.From) || typeMentions(name, tt.To)
	case ast.TTuple:
		if typeMentions(name, tt.First) || typeMentions(name, tt.Second) {
			return true
		}
		for _, r := range tt.Rest {
			if typeMentions(name, r) {
				return true
			}
		}
		return false
	case ast.TRecord:
		for _, f := range tt.Fields {
			if typeMentions(name, f) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func elaborateTypeDef(name ast.Name, def ast.TypeDef, env *Env, path string, diags *[]*diag.Report) CanonTypeDef {
	_, recursive := env.recursive[name]
	switch d := def.(type) {
	case ast.TypeExternal:
		return CanonTypeDef{Kind: DefExternal, NativeName: d.NativeName}
	case ast.TypeAlias:
		return CanonTypeDef{Kind: DefAlias, Vars: d.Vars, Alias: elaborateType(d.Body, env, path, diags), Recursive: recursive}
	case ast.TypeUnion:
		variants := make([]ConstructorInfo, len(d.Variants))
		for i, c := range d.Variants {
			argTypes := make([]Type, len(c.Args))
			for j, a := range c.Args {
				argTypes[j] = elaborateType(a, env, path, diags)
			}
			result := Type(TyCon{Name: Local(name), Args: varsToTypes(d.Vars)})
			arrow := result
			for j := len(argTypes) - 1; j >= 0; j-- {
				arrow = TyFn{From: argTypes[j], To: arrow}
			}
			variants[i] = ConstructorInfo{
				Name:  c.Name,
				Tag:   uint16(i),
				Arity: uint16(len(c.Args)),
				Annotation: Annotation{
					Quantified: freeVarsOf(d.Vars),
					Type:       arrow,
				},
			}
		}
		return CanonTypeDef{Kind: DefUnion, Vars: d.Vars, Variants: variants, Recursive: recursive}
	default:
		return CanonTypeDef{Kind: DefAlias, Alias: TyUnit{}}
	}
}

func varsToTypes(vars []ast.Name) []Type {
	out := make([]Type, len(vars))
	for i, v := range vars {
		out[i] = TyVar{Name: v}
	}
	return out
}

func freeVarsOf(vars []ast.Name) map[ast.Name]struct{} {
	out := map[ast.Name]struct{}{}
	for _, v := range vars {
		out[v] = struct{}{}
	}
	return out
}

func elaborateType(t ast.Type_, env *Env, path string, diags *[]*diag.Report) Type {
	switch tt := t.(type) {
	case ast.TUnit:
		return TyUnit{}
	case ast.TVariable:
		return TyVar{Name: tt.Name}
	case ast.TIdentifier:
		return TyCon{Name: resolveTypeName(tt.Name, env, path, diags)}
	case ast.TQualifiedIdentifier:
		return TyCon{Name: ForeignName(tt.Module, tt.Name)}
	case ast.TConstructor:
		head := elaborateType(tt.Head, env, path, diags)
		args := []Type{elaborateType(tt.First, env, path, diags)}
		for _, r := range tt.Rest {
			args = append(args, elaborateType(r, env, path, diags))
		}
		if con, ok := head.(TyCon); ok {
			return TyCon{Name: con.Name, Args: append(con.Args, args...)}
		}
		return head
	case ast.TFn:
		return TyFn{From: elaborateType(tt.From, env, path, diags), To: elaborateType(tt.To, env, path, diags)}
	case ast.TRecord:
		fields := map[ast.Name]Type{}
		for k, v := range tt.Fields {
			fields[k] = elaborateType(v, env, path, diags)
		}
		return TyRecord{Fields: fields, Order: append([]ast.Name(nil), tt.Order...)}
	case ast.TTuple:
		elems := []Type{elaborateType(tt.First, env, path, diags), elaborateType(tt.Second, env, path, diags)}
		for _, r := range tt.Rest {
			elems = append(elems, elaborateType(r, env, path, diags))
		}
		return TyTuple{Elements: elems}
	default:
		return TyUnit{}
	}
}

// resolveTypeName resolves a bare type identifier the way the original
// canonicalizer does (original_source/src/canonicalize.rs's lookup that
// `todo!`s on a miss): recursive, then local, then the types of every
// module canonicalized so far (not only the imported ones), and
// CodeUnresolvedType when none of those apply, rather than silently
// treating an unknown name as local (spec.md:115).
func resolveTypeName(name ast.Name, env *Env, path string, diags *[]*diag.Report) Qualified[ast.Name] {
	if _, ok := env.recursive[name]; ok {
		return Local(name)
	}
	if _, ok := env.types[name]; ok {
		return Local(name)
	}
	for modName, types := range env.qualifiedTypes {
		if _, ok := types[name]; ok {
			return ForeignName(ast.ModuleName(strings.Split(modName, ".")), name)
		}
	}
	r := diag.New(diag.CodeUnresolvedType, diag.PhaseCanonicalize, fmt.Sprintf("unknown type %q", name), path, nil, diag.Text(fmt.Sprintf("%q is not a recursive reference, a locally-defined type, or imported from another module", name))).
		WithSeverity(diag.SeverityError)
	*diags = append(*diags, r)
	return Local(name)
}

// groupDefinitions computes the SCCs of the local value call graph and
// orders the resulting groups by first source appearance (spec.md §4.2:
// "preserve source order between groups").
func groupDefinitions(order []ast.Name, values map[ast.Name]CanonExpr) []DefGroup {
	index := map[ast.Name]int{}
	for i, n := range order {
		index[n] = i
	}

	graph := NewDepGraph()
	for _, n := range order {
		graph.AddNode(string(n))
	}
	for _, n := range order {
		for ref := range referencedLocals(values[n]) {
			if _, ok := index[ref]; ok {
				graph.AddEdge(string(n), string(ref))
			}
		}
	}

	var groups []DefGroup
	for _, scc := range graph.SCCs() {
		names := make([]ast.Name, len(scc))
		for i, s := range scc {
			names[i] = ast.Name(s)
		}
		recursive := len(names) > 1 || selfReferences(names[0], values[names[0]])
		groups = append(groups, DefGroup{Recursive: recursive, Names: names})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return minIndex(groups[i].Names, index) < minIndex(groups[j].Names, index)
	})
	return groups
}

func minIndex(names []ast.Name, index map[ast.Name]int) int {
	best := -1
	for _, n := range names {
		i := index[n]
		if best == -1 || i < best {
			best = i
		}
	}
	return best
}

func selfReferences(name ast.Name, e CanonExpr) bool {
	return referencedLocals(e)[name]
}

// referencedLocals collects every Qualified::Local variable reference
// inside a canonicalized expression, for call-graph construction.
func referencedLocals(e CanonExpr) map[ast.Name]bool {
	refs := map[ast.Name]bool{}
	var walk func(CanonExpr)
	walk = func(e CanonExpr) {
		if e == nil {
			return
		}
		switch ee := e.(type) {
		case CVar:
			if ee.Name.Kind == QLocal {
				refs[ee.Name.Value] = true
			}
		case CConstructor:
			if ee.Name.Kind == QLocal {
				refs[ee.Name.Value] = true
			}
		case CAp:
			walk(ee.Fn)
			walk(ee.Arg)
		case CLambda:
			walk(ee.Body)
		case COp:
			walk(ee.Lhs)
			walk(ee.Rhs)
		case CIf:
			walk(ee.Cond)
			walk(ee.Then)
			walk(ee.Else)
		case CLet:
			walk(ee.Bound)
			walk(ee.Body)
		case CWhen:
			walk(ee.Scrutinee)
			for _, alt := range ee.Alts() {
				walk(alt.Body)
			}
		case CRecord:
			for _, f := range ee.Fields {
				walk(f)
			}
		}
	}
	walk(e)
	return refs
}
