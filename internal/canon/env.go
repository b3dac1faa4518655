package canon

import "github.com/pac-lang/pac/internal/ast"

// listModule is the module List's constructors are reported as belonging
// to when list literals desugar to Cons/Empty applications (spec.md §4.2).
var listModule = ast.ModuleName{"List"}

var emptyCtor = ConstructorInfo{Name: "Empty", Tag: 0, Arity: 0}
var consCtor = ConstructorInfo{Name: "Cons", Tag: 1, Arity: 2}

// boolModule is the implicit home of True/False the same way listModule is
// the implicit home of Empty/Cons: the surface grammar parses a capitalized
// identifier as a constructor reference (never as ast.EBool — see
// parser_expr.go's parseQualifiedOrConstructor), so True/False need a
// resolvable origin without requiring every module to import one.
var boolModule = ast.ModuleName{"Bool"}

var falseCtor = ConstructorInfo{Name: "False", Tag: 0, Arity: 0}
var trueCtor = ConstructorInfo{Name: "True", Tag: 1, Arity: 0}

// kernelNames is the fixed set of bare identifiers that name a
// compiler-provided primitive rather than a value a module defines or
// imports (spec.md §4.5's kernel table, plus `dbg`). A reference to one of
// these resolves to Qualified's Kernel tag even with no local binding and
// no import in scope.
var kernelNames = map[ast.Name]struct{}{
	"println":   {},
	"crash":     {},
	"to_string": {},
	"dbg":       {},
}

// Env is the per-module canonicalization environment (spec.md §4.2). It is
// rebuilt for each module, with a snapshot of every already-processed
// dependency retained so cross-module references can be resolved.
type Env struct {
	types        map[ast.Name]CanonTypeDef
	constructors map[ast.Name]ConstructorInfo
	recursive    map[ast.Name]struct{}

	qualifiedTypes        map[string]map[ast.Name]CanonTypeDef
	qualifiedConstructors map[string]map[ast.Name]ConstructorInfo
	qualifiedVariables    map[string]map[ast.Name]struct{}

	// localValues is the set of value names this module defines, used to
	// decide whether a bare Identifier resolves Local or must fall through
	// to an import.
	localValues map[ast.Name]struct{}
	imports     map[string]ast.ModuleName
}

func newEnv() *Env {
	return &Env{
		qualifiedTypes:        map[string]map[ast.Name]CanonTypeDef{},
		qualifiedConstructors: map[string]map[ast.Name]ConstructorInfo{},
		qualifiedVariables:    map[string]map[ast.Name]struct{}{},
	}
}

// resetForModule clears the per-module slots (spec.md §4.2: "rebuilt per
// module, with per-dependency snapshots retained") while leaving the
// qualified_* snapshots of already-processed dependencies untouched.
func (e *Env) resetForModule() {
	e.types = map[ast.Name]CanonTypeDef{}
	e.constructors = map[ast.Name]ConstructorInfo{}
	e.recursive = map[ast.Name]struct{}{}
	e.localValues = map[ast.Name]struct{}{}
	e.imports = map[string]ast.ModuleName{}
}

// snapshot records this module's fully-elaborated environment under its own
// name so modules that import it can resolve qualified references.
func (e *Env) snapshot(name ast.ModuleName, values map[ast.Name]struct{}) {
	e.qualifiedTypes[name.String()] = e.types
	e.qualifiedConstructors[name.String()] = e.constructors
	e.qualifiedVariables[name.String()] = values
}

func (e *Env) adoptImport(local ast.ModuleName) {
	e.imports[local.String()] = local
	if _, ok := e.qualifiedConstructors[local.String()]; !ok {
		e.qualifiedConstructors[local.String()] = map[ast.Name]ConstructorInfo{}
	}
	if _, ok := e.qualifiedVariables[local.String()]; !ok {
		e.qualifiedVariables[local.String()] = map[ast.Name]struct{}{}
	}
}
