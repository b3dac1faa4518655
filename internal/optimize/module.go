package optimize

import (
	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/diag"
)

// OptimizedModule is one module lowered to emission-ready form.
type OptimizedModule struct {
	Name         ast.ModuleName
	Exports      []ast.Export
	Imports      []ast.ModuleName
	TypeOrder    []ast.Name
	Types        map[ast.Name]canon.CanonTypeDef
	Constructors map[ast.Name]canon.ConstructorInfo
	Values       map[ast.Name]OExpr
	DefGroups    []canon.DefGroup
}

// Optimizer lowers a canonicalized program module by module.
type Optimizer struct{}

func NewOptimizer() *Optimizer { return &Optimizer{} }

// OptimizeProgram lowers every canonicalized module in mods, returning any
// NON-EXHAUSTIVE PATTERN MATCH warnings raised along the way (spec.md
// §4.4 step 5 — a warning, never an error).
func (o *Optimizer) OptimizeProgram(mods map[string]*canon.CanonModule) (map[string]*OptimizedModule, []*diag.Report) {
	out := make(map[string]*OptimizedModule, len(mods))
	var diags []*diag.Report
	for path, cm := range mods {
		om, ds := o.optimizeModule(cm, path)
		out[path] = om
		diags = append(diags, ds...)
	}
	return out, diags
}

func (o *Optimizer) optimizeModule(cm *canon.CanonModule, path string) (*OptimizedModule, []*diag.Report) {
	lx := &lowering{path: path, variants: buildVariantCounts(cm)}

	om := &OptimizedModule{
		Name:         cm.Name,
		Exports:      cm.Exports,
		Imports:      cm.Imports,
		TypeOrder:    cm.TypeOrder,
		Types:        cm.Types,
		Constructors: cm.Constructors,
		Values:       make(map[ast.Name]OExpr, len(cm.Values)),
		DefGroups:    cm.DefGroups,
	}
	for name, ce := range cm.Values {
		om.Values[name] = lx.lower(ce)
	}
	return om, lx.diags
}

// buildVariantCounts maps every constructor name this module knows about
// (locally declared, or one of the always-available List/Bool builtins) to
// the total number of variants of its union, so the match compiler can
// tell whether a set of tested tags is exhaustive.
func buildVariantCounts(cm *canon.CanonModule) map[ast.Name]int {
	counts := map[ast.Name]int{"Empty": 2, "Cons": 2, "False": 2, "True": 2}
	for _, def := range cm.Types {
		if def.Kind != canon.DefUnion {
			continue
		}
		for _, v := range def.Variants {
			counts[v.Name] = len(def.Variants)
		}
	}
	return counts
}
