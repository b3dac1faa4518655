package canon

import "github.com/pac-lang/pac/internal/ast"

// CanonExpr is a canonicalized expression. Every Variable and Constructor
// reference in the source tree has been resolved to a Qualified name;
// operators other than the arithmetic/comparison/append set and the
// boolean `||`/`&&` have been desugared away entirely (spec.md §4.2, §3
// invariants).
type CanonExpr interface {
	Region() ast.Region
	canonExprNode()
}

type CUnit struct{ Reg ast.Region }

func (CUnit) canonExprNode()        {}
func (e CUnit) Region() ast.Region { return e.Reg }

type CBool struct {
	Value bool
	Reg   ast.Region
}

func (CBool) canonExprNode()        {}
func (e CBool) Region() ast.Region { return e.Reg }

type CInt struct {
	Value int64
	Reg   ast.Region
}

func (CInt) canonExprNode()        {}
func (e CInt) Region() ast.Region { return e.Reg }

type CFloat struct {
	Value float64
	Reg   ast.Region
}

func (CFloat) canonExprNode()        {}
func (e CFloat) Region() ast.Region { return e.Reg }

type CString struct {
	Value string
	Reg   ast.Region
}

func (CString) canonExprNode()        {}
func (e CString) Region() ast.Region { return e.Reg }

// CVar is a resolved reference to a value: spec.md's `Variable(Qualified)`.
type CVar struct {
	Name Qualified[ast.Name]
	Reg  ast.Region
}

func (CVar) canonExprNode()        {}
func (e CVar) Region() ast.Region { return e.Reg }

// CConstructor is a resolved reference to a union variant, carrying the
// tag/arity pair the optimizer and emitter need without consulting the
// defining type again.
type CConstructor struct {
	Name  Qualified[ast.Name]
	Tag   uint16
	Arity uint16
	Reg   ast.Region
}

func (CConstructor) canonExprNode()        {}
func (e CConstructor) Region() ast.Region { return e.Reg }

type CAp struct {
	Fn  CanonExpr
	Arg CanonExpr
	Reg ast.Region
}

func (CAp) canonExprNode()        {}
func (e CAp) Region() ast.Region { return e.Reg }

type CLambda struct {
	Param CanonPattern
	Body  CanonExpr
	Reg   ast.Region
}

func (CLambda) canonExprNode()        {}
func (e CLambda) Region() ast.Region { return e.Reg }

// COp is a surviving binary operator: the six arithmetic ops, six
// comparison ops, `++`, `||`, and `&&`. Every other operator desugars away
// in canonBinOp before a COp could be built.
type COp struct {
	Op  ast.Operator
	Lhs CanonExpr
	Rhs CanonExpr
	Reg ast.Region
}

func (COp) canonExprNode()        {}
func (e COp) Region() ast.Region { return e.Reg }

type CIf struct {
	Cond CanonExpr
	Then CanonExpr
	Else CanonExpr
	Reg  ast.Region
}

func (CIf) canonExprNode()        {}
func (e CIf) Region() ast.Region { return e.Reg }

// CLet is always an identifier binding: a destructuring let is reported
// with UNSUPPORTED LET PATTERN (by the parser, and again by canonLet), and
// canonicalization keeps only its body, never building a When for one.
type CLet struct {
	Name  ast.Name
	Bound CanonExpr
	Body  CanonExpr
	Reg   ast.Region
}

func (CLet) canonExprNode()        {}
func (e CLet) Region() ast.Region { return e.Reg }

type CWhenAlt struct {
	Pattern CanonPattern
	Body    CanonExpr
}

type CWhen struct {
	Scrutinee CanonExpr
	FirstAlt  CWhenAlt
	RestAlts  []CWhenAlt
	Reg       ast.Region
}

func (CWhen) canonExprNode()        {}
func (e CWhen) Region() ast.Region { return e.Reg }

func (w CWhen) Alts() []CWhenAlt { return append([]CWhenAlt{w.FirstAlt}, w.RestAlts...) }

// CRecord passes record literals through canonicalization with their
// field expressions resolved but their shape untouched (SPEC_FULL.md §4,
// Open Question 2: records are not elaborated against a declared type —
// `Foo.bar` is always parsed as module-qualified access, never field
// projection, so there is no ambiguity left for canonicalization to
// resolve).
type CRecord struct {
	Fields map[ast.Name]CanonExpr
	Order  []ast.Name
	Reg    ast.Region
}

func (CRecord) canonExprNode()        {}
func (e CRecord) Region() ast.Region { return e.Reg }

// CanonPattern is a canonicalized match pattern.
type CanonPattern interface {
	Region() ast.Region
	canonPatternNode()
}

type CPWildcard struct{ Reg ast.Region }

func (CPWildcard) canonPatternNode()    {}
func (p CPWildcard) Region() ast.Region { return p.Reg }

type CPVar struct {
	Name ast.Name
	Reg  ast.Region
}

func (CPVar) canonPatternNode()    {}
func (p CPVar) Region() ast.Region { return p.Reg }

// CPConstructor covers surface PConstructor, PCons (desugared to the
// foreign Cons/Empty constructors), and PTuple (desugared to the
// synthetic #TupleN constructor) alike: by canonicalization time a
// constructor pattern is the only compound pattern shape that exists.
type CPConstructor struct {
	Name  Qualified[ast.Name]
	Tag   uint16
	Arity uint16
	Args  []CanonPattern
	Reg   ast.Region
}

func (CPConstructor) canonPatternNode()    {}
func (p CPConstructor) Region() ast.Region { return p.Reg }
