// Package canon implements pac's canonicalizer (spec.md §4.2): it resolves
// every name to an origin (local, foreign module member, or compiler
// kernel), attaches constructor tags and arities, elaborates surface types
// to canonical ones, and groups value definitions into recursion classes.
package canon

import "github.com/pac-lang/pac/internal/ast"

// QualKind is the three-way origin tag of Qualified<T> (spec.md §3).
type QualKind int

const (
	QLocal QualKind = iota
	QForeign
	QKernel
)

func (k QualKind) String() string {
	switch k {
	case QLocal:
		return "local"
	case QForeign:
		return "foreign"
	case QKernel:
		return "kernel"
	default:
		return "?"
	}
}

// Qualified is the resolved form of any source-level name: local to the
// current module, foreign (qualified by the defining module), or a kernel
// primitive the emitter knows how to render directly.
type Qualified[T any] struct {
	Kind   QualKind
	Module ast.ModuleName // only meaningful when Kind == QForeign
	Value  T
}

func Local[T any](v T) Qualified[T] { return Qualified[T]{Kind: QLocal, Value: v} }

func ForeignName[T any](m ast.ModuleName, v T) Qualified[T] {
	return Qualified[T]{Kind: QForeign, Module: m, Value: v}
}

func Kernel[T any](v T) Qualified[T] { return Qualified[T]{Kind: QKernel, Value: v} }

// Annotation is a constructor's or value's derived type scheme: the
// universally quantified free type variables of the arrow type that
// constructs it, plus the type itself (spec.md §4.2).
type Annotation struct {
	Quantified map[ast.Name]struct{}
	Type       Type
}

// ConstructorInfo is the canonical record for one union variant: its
// 0-based declaration tag, arity, and derived scheme.
type ConstructorInfo struct {
	Name       ast.Name
	Tag        uint16
	Arity      uint16
	Annotation Annotation
}

// TupleConstructorName synthesizes the tag-0 constructor name canonical
// tuples are represented as applications of (SPEC_FULL.md §4, Open
// Question 3): `(a, b)` canonicalizes the same shape as a two-argument
// union variant would, so the optimizer and emitter need no tuple-specific
// cases at all.
func TupleConstructorName(arity int) ast.Name {
	digits := [...]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	s := ""
	n := arity
	if n == 0 {
		s = "0"
	}
	for n > 0 {
		s = digits[n%10] + s
		n /= 10
	}
	return ast.Name("#Tuple" + s)
}

// Type is a canonical, fully-elaborated type.
type Type interface{ typeNode() }

type TyUnit struct{}

func (TyUnit) typeNode() {}

type TyVar struct{ Name ast.Name }

func (TyVar) typeNode() {}

// TyCon is a named type in canonical form: a locally or foreign-defined
// union/alias/external applied to zero or more argument types.
type TyCon struct {
	Name Qualified[ast.Name]
	Args []Type
}

func (TyCon) typeNode() {}

type TyFn struct {
	From Type
	To   Type
}

func (TyFn) typeNode() {}

type TyRecord struct {
	Fields map[ast.Name]Type
	Order  []ast.Name
}

func (TyRecord) typeNode() {}

// TyTuple is represented directly only inside TypeDef elaboration; once a
// value of tuple type is constructed it goes through the synthetic
// #TupleN constructor like any other union (see TupleConstructorName).
type TyTuple struct {
	Elements []Type
}

func (TyTuple) typeNode() {}

// TypeDefKind distinguishes how a canonicalized type was declared.
type TypeDefKind int

const (
	DefAlias TypeDefKind = iota
	DefUnion
	DefExternal
)

// CanonTypeDef is the canonicalized form of a module's type declaration.
type CanonTypeDef struct {
	Kind       TypeDefKind
	Vars       []ast.Name
	Alias      Type             // DefAlias only
	Variants   []ConstructorInfo // DefUnion only, in tag order
	NativeName string           // DefExternal only
	Recursive  bool
}
