package canon

import (
	"fmt"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/diag"
)

// exprCanon carries the mutable state of one module's expression
// canonicalization pass: the environment to resolve names against, the
// diagnostics accumulated, and a gensym counter for the fresh binders
// operator-composition desugaring introduces.
type exprCanon struct {
	env    *Env
	path   string
	diags  []*diag.Report
	gensym int
}

func (c *exprCanon) fresh() ast.Name {
	c.gensym++
	return ast.Name(fmt.Sprintf("__arg%d", c.gensym))
}

func (c *exprCanon) errorf(region ast.Region, code, title, format string, args ...any) {
	r := diag.New(code, diag.PhaseCanonicalize, title, c.path, &region, diag.Text(fmt.Sprintf(format, args...))).
		WithSeverity(diag.SeverityError)
	c.diags = append(c.diags, r)
}

// canonExpr implements spec.md §4.2's expression canonicalization rules.
func (c *exprCanon) canonExpr(e ast.Expr) CanonExpr {
	switch ee := e.(type) {
	case ast.EUnit:
		return CUnit{Reg: ee.Reg}
	case ast.EBool:
		return CBool{Value: ee.Value, Reg: ee.Reg}
	case ast.EInt:
		return CInt{Value: ee.Value, Reg: ee.Reg}
	case ast.EFloat:
		return CFloat{Value: ee.Value, Reg: ee.Reg}
	case ast.EString:
		return CString{Value: ee.Value, Reg: ee.Reg}

	case ast.EList:
		return c.canonList(ee.Elements, ee.Reg)

	case ast.ETuple:
		return c.canonTuple(ee.Elements, ee.Reg)

	case ast.ERecord:
		fields := map[ast.Name]CanonExpr{}
		for k, v := range ee.Fields {
			fields[k] = c.canonExpr(v)
		}
		return CRecord{Fields: fields, Order: append([]ast.Name(nil), ee.Order...), Reg: ee.Reg}

	case ast.EIdentifier:
		return CVar{Name: c.resolveVariable(ee.Name), Reg: ee.Reg}

	case ast.EQualifiedIdentifier:
		return CVar{Name: ForeignName(ee.Module, ee.Name), Reg: ee.Reg}

	case ast.EConstructor:
		return c.resolveConstructorExpr(ee.Name, ee.Reg)

	case ast.EQualifiedConstructor:
		info, ok := c.lookupForeignConstructor(ee.Module, ee.Name)
		if !ok {
			c.errorf(ee.Reg, diag.CodeUnresolvedConstructor, "unresolved constructor",
				"constructor `%s.%s` is not defined", ee.Module, ee.Name)
			return CConstructor{Name: ForeignName(ee.Module, ee.Name), Reg: ee.Reg}
		}
		return CConstructor{Name: ForeignName(ee.Module, ee.Name), Tag: info.Tag, Arity: info.Arity, Reg: ee.Reg}

	case ast.EExternal:
		return CVar{Name: Kernel(ast.Name(ee.NativeName)), Reg: ee.Reg}

	case ast.EAp:
		return CAp{Fn: c.canonExpr(ee.Fn), Arg: c.canonExpr(ee.Arg), Reg: ee.Reg}

	case ast.ELambda:
		return CLambda{Param: c.canonPattern(ee.Param), Body: c.canonExpr(ee.Body), Reg: ee.Reg}

	case ast.EBinOp:
		return c.canonBinOp(ee)

	case ast.EIf:
		return CIf{Cond: c.canonExpr(ee.Cond), Then: c.canonExpr(ee.Then), Else: c.canonExpr(ee.Else), Reg: ee.Reg}

	case ast.ELet:
		return c.canonLet(ee)

	case ast.EBind:
		c.errorf(ee.Reg, diag.CodeBindNotSupported, "unsupported monadic bind",
			"`let pattern <- effectful; body` is parsed but not canonicalized")
		return c.canonExpr(ee.Body)

	case ast.EWhen:
		return c.canonWhen(ee)

	default:
		return CUnit{Reg: e.Region()}
	}
}

// canonList right-folds a list literal into nested Cons applications
// terminated by Empty, both foreign constructors of the List module
// (spec.md §4.2).
func (c *exprCanon) canonList(elems []ast.Expr, reg ast.Region) CanonExpr {
	var result CanonExpr = CConstructor{Name: ForeignName(listModule, emptyCtor.Name), Tag: emptyCtor.Tag, Arity: emptyCtor.Arity, Reg: reg}
	for i := len(elems) - 1; i >= 0; i-- {
		head := c.canonExpr(elems[i])
		cons := CConstructor{Name: ForeignName(listModule, consCtor.Name), Tag: consCtor.Tag, Arity: consCtor.Arity, Reg: reg}
		result = CAp{Fn: CAp{Fn: cons, Arg: head, Reg: reg}, Arg: result, Reg: reg}
	}
	return result
}

// canonTuple turns `(e1, e2, ...)` into an application of the synthetic
// tag-0 constructor #TupleN (SPEC_FULL.md §4, Open Question 3).
func (c *exprCanon) canonTuple(elems []ast.Expr, reg ast.Region) CanonExpr {
	name := TupleConstructorName(len(elems))
	var result CanonExpr = CConstructor{Name: Local(name), Tag: 0, Arity: uint16(len(elems)), Reg: reg}
	for _, el := range elems {
		result = CAp{Fn: result, Arg: c.canonExpr(el), Reg: reg}
	}
	return result
}

func (c *exprCanon) resolveVariable(name ast.Name) Qualified[ast.Name] {
	if _, ok := c.env.localValues[name]; ok {
		return Local(name)
	}
	for modName := range c.env.imports {
		if vars, ok := c.env.qualifiedVariables[modName]; ok {
			if _, ok := vars[name]; ok {
				return ForeignName(c.env.imports[modName], name)
			}
		}
	}
	if _, ok := kernelNames[name]; ok {
		return Kernel(name)
	}
	// Unknown at this point in the pipeline may still be a forward
	// reference within the same recursive group; type checking is
	// responsible for the final rebinding (spec.md §4.2).
	return Local(name)
}

func (c *exprCanon) resolveConstructorExpr(name ast.Name, reg ast.Region) CanonExpr {
	if info, ok := c.env.constructors[name]; ok {
		return CConstructor{Name: Local(name), Tag: info.Tag, Arity: info.Arity, Reg: reg}
	}
	for modName := range c.env.imports {
		if ctors, ok := c.env.qualifiedConstructors[modName]; ok {
			if info, ok := ctors[name]; ok {
				return CConstructor{Name: ForeignName(c.env.imports[modName], name), Tag: info.Tag, Arity: info.Arity, Reg: reg}
			}
		}
	}
	if name == emptyCtor.Name {
		return CConstructor{Name: ForeignName(listModule, emptyCtor.Name), Tag: emptyCtor.Tag, Arity: emptyCtor.Arity, Reg: reg}
	}
	if name == consCtor.Name {
		return CConstructor{Name: ForeignName(listModule, consCtor.Name), Tag: consCtor.Tag, Arity: consCtor.Arity, Reg: reg}
	}
	if name == falseCtor.Name {
		return CConstructor{Name: ForeignName(boolModule, falseCtor.Name), Tag: falseCtor.Tag, Arity: falseCtor.Arity, Reg: reg}
	}
	if name == trueCtor.Name {
		return CConstructor{Name: ForeignName(boolModule, trueCtor.Name), Tag: trueCtor.Tag, Arity: trueCtor.Arity, Reg: reg}
	}
	c.errorf(reg, diag.CodeUnresolvedConstructor, "unresolved constructor", "constructor `%s` is not defined", name)
	return CConstructor{Name: Local(name), Reg: reg}
}

func (c *exprCanon) lookupForeignConstructor(module ast.ModuleName, name ast.Name) (ConstructorInfo, bool) {
	ctors, ok := c.env.qualifiedConstructors[module.String()]
	if !ok {
		return ConstructorInfo{}, false
	}
	info, ok := ctors[name]
	return info, ok
}

// canonBinOp implements spec.md §4.2's operator desugaring table. Every
// operator other than the arithmetic/comparison/append/boolean set is
// rewritten into Ap or Lambda here and never reaches later IRs.
func (c *exprCanon) canonBinOp(e ast.EBinOp) CanonExpr {
	switch e.Op {
	case ast.OpCompose: // f << g  =>  \x -> f (g x)
		return c.composeLambda(c.canonExpr(e.Lhs), c.canonExpr(e.Rhs), e.Reg)
	case ast.OpComposeRev: // f >> g  =>  \x -> g (f x)
		return c.composeLambda(c.canonExpr(e.Rhs), c.canonExpr(e.Lhs), e.Reg)
	case ast.OpPipeRight: // x |> f  =>  f x
		return CAp{Fn: c.canonExpr(e.Rhs), Arg: c.canonExpr(e.Lhs), Reg: e.Reg}
	case ast.OpPipeLeft: // f <| x  =>  f x
		return CAp{Fn: c.canonExpr(e.Lhs), Arg: c.canonExpr(e.Rhs), Reg: e.Reg}
	case ast.OpCons: // a :: b  =>  Cons a b
		cons := CConstructor{Name: ForeignName(listModule, consCtor.Name), Tag: consCtor.Tag, Arity: consCtor.Arity, Reg: e.Reg}
		return CAp{Fn: CAp{Fn: cons, Arg: c.canonExpr(e.Lhs), Reg: e.Reg}, Arg: c.canonExpr(e.Rhs), Reg: e.Reg}
	default:
		return COp{Op: e.Op, Lhs: c.canonExpr(e.Lhs), Rhs: c.canonExpr(e.Rhs), Reg: e.Reg}
	}
}

// composeLambda builds `\x -> outer (inner x)`, using a gensym for x so a
// composed function's own parameter names can never be captured.
func (c *exprCanon) composeLambda(outer, inner CanonExpr, reg ast.Region) CanonExpr {
	x := c.fresh()
	return CLambda{
		Param: CPVar{Name: x, Reg: reg},
		Body:  CAp{Fn: outer, Arg: CAp{Fn: inner, Arg: CVar{Name: Local(x), Reg: reg}, Reg: reg}, Reg: reg},
		Reg:   reg,
	}
}

// canonLet builds a CLet for an identifier pattern. The parser already
// reports any other pattern with UNSUPPORTED LET PATTERN but still passes
// it on; canonLet reports it again and canonicalizes only the body, so
// this never has to build a desugaring When.
func (c *exprCanon) canonLet(e ast.ELet) CanonExpr {
	ident, ok := e.Pattern.(ast.PIdentifier)
	if !ok {
		c.errorf(e.Pattern.Region(), diag.CodeUnsupportedLetPattern, "unsupported let pattern",
			"only identifier patterns are supported in `let` bindings")
		return c.canonExpr(e.Body)
	}
	return CLet{Name: ident.Name, Bound: c.canonExpr(e.Bound), Body: c.canonExpr(e.Body), Reg: e.Reg}
}

func (c *exprCanon) canonWhen(e ast.EWhen) CanonExpr {
	alts := e.Alts()
	if len(alts) == 0 {
		c.errorf(e.Reg, diag.CodeEmptyWhen, "empty when", "`when` must have at least one `is` alternative")
		return CUnit{Reg: e.Reg}
	}
	first := CWhenAlt{Pattern: c.canonPattern(alts[0].Pattern), Body: c.canonExpr(alts[0].Body)}
	rest := make([]CWhenAlt, 0, len(alts)-1)
	for _, a := range alts[1:] {
		rest = append(rest, CWhenAlt{Pattern: c.canonPattern(a.Pattern), Body: c.canonExpr(a.Body)})
	}
	return CWhen{Scrutinee: c.canonExpr(e.Scrutinee), FirstAlt: first, RestAlts: rest, Reg: e.Reg}
}

func (c *exprCanon) canonPattern(p ast.Pattern) CanonPattern {
	switch pp := p.(type) {
	case ast.PWildcard:
		return CPWildcard{Reg: pp.Reg}
	case ast.PIdentifier:
		return CPVar{Name: pp.Name, Reg: pp.Reg}
	case ast.PConstructor:
		name, info, ok := c.resolveConstructorPattern(pp.Name)
		args := make([]CanonPattern, len(pp.Args))
		for i, a := range pp.Args {
			args[i] = c.canonPattern(a)
		}
		if !ok {
			c.errorf(pp.Reg, diag.CodeUnresolvedConstructor, "unresolved constructor", "constructor `%s` is not defined", pp.Name)
		}
		return CPConstructor{Name: name, Tag: info.Tag, Arity: info.Arity, Args: args, Reg: pp.Reg}
	case ast.PCons:
		return CPConstructor{
			Name:  ForeignName(listModule, consCtor.Name),
			Tag:   consCtor.Tag,
			Arity: consCtor.Arity,
			Args:  []CanonPattern{c.canonPattern(pp.Head), c.canonPattern(pp.Tail)},
			Reg:   pp.Reg,
		}
	case ast.PTuple:
		name := TupleConstructorName(len(pp.Elements))
		args := make([]CanonPattern, len(pp.Elements))
		for i, el := range pp.Elements {
			args[i] = c.canonPattern(el)
		}
		return CPConstructor{Name: Local(name), Tag: 0, Arity: uint16(len(pp.Elements)), Args: args, Reg: pp.Reg}
	default:
		return CPWildcard{Reg: p.Region()}
	}
}

func (c *exprCanon) resolveConstructorPattern(name ast.Name) (Qualified[ast.Name], ConstructorInfo, bool) {
	if info, ok := c.env.constructors[name]; ok {
		return Local(name), info, true
	}
	for modName := range c.env.imports {
		if ctors, ok := c.env.qualifiedConstructors[modName]; ok {
			if info, ok := ctors[name]; ok {
				return ForeignName(c.env.imports[modName], name), info, true
			}
		}
	}
	if name == emptyCtor.Name {
		return ForeignName(listModule, emptyCtor.Name), emptyCtor, true
	}
	if name == consCtor.Name {
		return ForeignName(listModule, consCtor.Name), consCtor, true
	}
	if name == falseCtor.Name {
		return ForeignName(boolModule, falseCtor.Name), falseCtor, true
	}
	if name == trueCtor.Name {
		return ForeignName(boolModule, trueCtor.Name), trueCtor, true
	}
	return Local(name), ConstructorInfo{}, false
}
