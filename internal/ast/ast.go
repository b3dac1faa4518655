// Package ast defines the surface (post-parse) syntax tree for pac.
//
// Every node is produced by internal/parser and carries a Region so that
// later passes (internal/canon, internal/optimize, internal/diag) can point
// diagnostics back at source text.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a 1-indexed line/column position in a named source file.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Region is a span of source text, start inclusive, end exclusive.
type Region struct {
	Start Pos
	End   Pos
}

// Valid reports whether Start <= End, an invariant every Located value must
// hold (spec.md §3).
func (r Region) Valid() bool {
	if r.Start.Line != r.End.Line {
		return r.Start.Line < r.End.Line
	}
	return r.Start.Column <= r.End.Column
}

func (r Region) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Join returns the smallest Region covering both a and b.
func Join(a, b Region) Region {
	start := a.Start
	if b.Start.Line < start.Line || (b.Start.Line == start.Line && b.Start.Column < start.Column) {
		start = b.Start
	}
	end := a.End
	if b.End.Line > end.Line || (b.End.Line == end.Line && b.End.Column > end.Column) {
		end = b.End
	}
	return Region{Start: start, End: end}
}

// Located pairs a payload with the source Region it was parsed from.
type Located[T any] struct {
	Region Region
	Value  T
}

// At constructs a Located value.
func At[T any](r Region, v T) Located[T] { return Located[T]{Region: r, Value: v} }

// Name is an unqualified identifier.
type Name string

// ModuleName is a non-empty, ordered list of identifier segments.
type ModuleName []string

func (m ModuleName) String() string { return strings.Join(m, ".") }

// Equal reports whether two module names denote the same module.
func (m ModuleName) Equal(other ModuleName) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// Export is a single entry in a module's export list.
type Export struct {
	Kind ExportKind
	Name Name
}

type ExportKind int

const (
	ExportValue ExportKind = iota
	ExportClosedType
	ExportOpenType
)

func (e Export) String() string {
	switch e.Kind {
	case ExportOpenType:
		return string(e.Name) + "(..)"
	default:
		return string(e.Name)
	}
}

// Module is the full surface AST produced by the parser for one source file.
type Module struct {
	Name        ModuleName
	NameRegion  Region
	Exports     []Export
	Imports     []Located[ModuleName]
	TypeOrder   []Name // declaration order, for stable diagnostics/emission
	Types       map[Name]Located[TypeDef]
	ValueOrder  []Name
	Values      map[Name]Located[Expr]
	ValueParams map[Name][]Pattern // surface `let f p1 p2 = e` parameters, pre-desugar
	Annotations map[Name]Located[Type_]
}

func NewModule(name ModuleName) *Module {
	return &Module{
		Name:        name,
		Types:       map[Name]Located[TypeDef]{},
		Values:      map[Name]Located[Expr]{},
		ValueParams: map[Name][]Pattern{},
		Annotations: map[Name]Located[Type_]{},
	}
}

// TypeDef is the body of a `type` declaration.
type TypeDef interface{ typeDefNode() }

// TypeAlias is `type T vars = body;` with a single expansion.
type TypeAlias struct {
	Vars []Name
	Body Type_
}

func (TypeAlias) typeDefNode() {}

// Constructor is one variant of a Union type.
type Constructor struct {
	Name   Name
	Region Region
	Args   []Type_
}

// TypeUnion is `type T vars = C1 a1 | C2 a2 | ...;`.
type TypeUnion struct {
	Vars     []Name
	Variants []Constructor
}

func (TypeUnion) typeDefNode() {}

// TypeExternal is `type T = extern "native_name";`.
type TypeExternal struct {
	NativeName string
}

func (TypeExternal) typeDefNode() {}

// Type_ is a surface type expression.
type Type_ interface {
	typeNode()
	FreeVars() map[Name]struct{}
}

type TUnit struct{}

func (TUnit) typeNode()                   {}
func (TUnit) FreeVars() map[Name]struct{} { return map[Name]struct{}{} }

// TVariable is a lowercase type variable, e.g. `a`.
type TVariable struct{ Name Name }

func (TVariable) typeNode() {}
func (t TVariable) FreeVars() map[Name]struct{} {
	return map[Name]struct{}{t.Name: {}}
}

// TIdentifier is an uppercase, locally-defined type name with no arguments.
type TIdentifier struct{ Name Name }

func (TIdentifier) typeNode()                   {}
func (TIdentifier) FreeVars() map[Name]struct{} { return map[Name]struct{}{} }

// TQualifiedIdentifier is `Module.Name` used as a type.
type TQualifiedIdentifier struct {
	Module ModuleName
	Name   Name
}

func (TQualifiedIdentifier) typeNode()                   {}
func (TQualifiedIdentifier) FreeVars() map[Name]struct{} { return map[Name]struct{}{} }

// TConstructor is type application: `head first rest...`.
type TConstructor struct {
	Head  Type_
	First Type_
	Rest  []Type_
}

func (TConstructor) typeNode() {}
func (t TConstructor) FreeVars() map[Name]struct{} {
	out := unionVars(t.Head.FreeVars(), t.First.FreeVars())
	for _, r := range t.Rest {
		out = unionVars(out, r.FreeVars())
	}
	return out
}

// TFn is a function type `from -> to`.
type TFn struct {
	From Type_
	To   Type_
}

func (TFn) typeNode() {}
func (t TFn) FreeVars() map[Name]struct{} {
	return unionVars(t.From.FreeVars(), t.To.FreeVars())
}

// TRecord is a surface record type `{ field: type, ... }`.
type TRecord struct {
	Fields map[Name]Type_
	Order  []Name
}

func (TRecord) typeNode() {}
func (t TRecord) FreeVars() map[Name]struct{} {
	out := map[Name]struct{}{}
	for _, f := range t.Fields {
		out = unionVars(out, f.FreeVars())
	}
	return out
}

// TTuple is a surface tuple type `(a, b, rest...)`.
type TTuple struct {
	First  Type_
	Second Type_
	Rest   []Type_
}

func (TTuple) typeNode() {}
func (t TTuple) FreeVars() map[Name]struct{} {
	out := unionVars(t.First.FreeVars(), t.Second.FreeVars())
	for _, r := range t.Rest {
		out = unionVars(out, r.FreeVars())
	}
	return out
}

func unionVars(a, b map[Name]struct{}) map[Name]struct{} {
	out := map[Name]struct{}{}
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// Pattern is a surface match pattern.
type Pattern interface {
	patternNode()
	Region() Region
}

type PWildcard struct{ Reg Region }

func (PWildcard) patternNode()     {}
func (p PWildcard) Region() Region { return p.Reg }

type PIdentifier struct {
	Name Name
	Reg  Region
}

func (PIdentifier) patternNode()     {}
func (p PIdentifier) Region() Region { return p.Reg }

type PConstructor struct {
	Name Name
	Args []Pattern
	Reg  Region
}

func (PConstructor) patternNode()     {}
func (p PConstructor) Region() Region { return p.Reg }

type PCons struct {
	Head Pattern
	Tail Pattern
	Reg  Region
}

func (PCons) patternNode()     {}
func (p PCons) Region() Region { return p.Reg }

type PTuple struct {
	Elements []Pattern
	Reg      Region
}

func (PTuple) patternNode()     {}
func (p PTuple) Region() Region { return p.Reg }

// Operator is the fixed table of binary operators (spec.md §4.1).
type Operator int

const (
	OpPipeLeft  Operator = iota // <|
	OpPipeRight                 // |>
	OpOr                        // ||
	OpAnd                       // &&
	OpLt                        // <
	OpGt                        // >
	OpLte                       // <=
	OpGte                       // >=
	OpEq                        // ==
	OpNeq                       // !=
	OpCons                      // ::
	OpAppend                    // ++
	OpAdd                       // +
	OpSub                       // -
	OpMul                       // *
	OpDiv                       // /
	OpMod                       // %
	OpPow                       // ^
	OpCompose                   // <<  (function composition, not shift — spec.md §4.2)
	OpComposeRev                // >>  (reverse composition)
)

type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
	AssocNone
)

// Precedence returns the binding power of op; higher binds tighter.
func (op Operator) Precedence() int {
	switch op {
	case OpPipeLeft, OpPipeRight:
		return 0
	case OpOr:
		return 2
	case OpAnd:
		return 3
	case OpLt, OpGt, OpLte, OpGte, OpEq, OpNeq:
		return 4
	case OpCons, OpAppend:
		return 5
	case OpAdd, OpSub:
		return 6
	case OpMul, OpDiv, OpMod:
		return 7
	case OpPow:
		return 8
	case OpCompose, OpComposeRev:
		return 9
	default:
		panic(fmt.Sprintf("ast: operator %d has no precedence", op))
	}
}

func (op Operator) Associativity() Associativity {
	switch op {
	case OpPipeLeft, OpCons, OpPow, OpCompose:
		return AssocRight
	case OpPipeRight, OpOr, OpAnd, OpAppend, OpAdd, OpSub, OpMul, OpDiv, OpMod, OpComposeRev:
		return AssocLeft
	case OpLt, OpGt, OpLte, OpGte, OpEq, OpNeq:
		return AssocNone
	default:
		panic(fmt.Sprintf("ast: operator %d has no associativity", op))
	}
}

func (op Operator) String() string {
	switch op {
	case OpPipeLeft:
		return "<|"
	case OpPipeRight:
		return "|>"
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpCons:
		return "::"
	case OpAppend:
		return "++"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpCompose:
		return "<<"
	case OpComposeRev:
		return ">>"
	default:
		return "?"
	}
}

// Expr is a surface expression. Every constructor of Expr_ in spec.md §3
// gets one Go type here; Region() satisfies Located semantics without
// wrapping every node in Located[Expr], which would defeat interface
// dispatch.
type Expr interface {
	exprNode()
	Region() Region
}

type EUnit struct{ Reg Region }

func (EUnit) exprNode()        {}
func (e EUnit) Region() Region { return e.Reg }

type EBool struct {
	Value bool
	Reg   Region
}

func (EBool) exprNode()        {}
func (e EBool) Region() Region { return e.Reg }

type EInt struct {
	Value int64
	Reg   Region
}

func (EInt) exprNode()        {}
func (e EInt) Region() Region { return e.Reg }

type EFloat struct {
	Value float64
	Reg   Region
}

func (EFloat) exprNode()        {}
func (e EFloat) Region() Region { return e.Reg }

type EString struct {
	Value string
	Reg   Region
}

func (EString) exprNode()        {}
func (e EString) Region() Region { return e.Reg }

type EList struct {
	Elements []Expr
	Reg      Region
}

func (EList) exprNode()        {}
func (e EList) Region() Region { return e.Reg }

type ETuple struct {
	Elements []Expr
	Reg      Region
}

func (ETuple) exprNode()        {}
func (e ETuple) Region() Region { return e.Reg }

type ERecord struct {
	Fields map[Name]Expr
	Order  []Name
	Reg    Region
}

func (ERecord) exprNode()        {}
func (e ERecord) Region() Region { return e.Reg }

type EIdentifier struct {
	Name Name
	Reg  Region
}

func (EIdentifier) exprNode()        {}
func (e EIdentifier) Region() Region { return e.Reg }

type EQualifiedIdentifier struct {
	Module ModuleName
	Name   Name
	Reg    Region
}

func (EQualifiedIdentifier) exprNode()        {}
func (e EQualifiedIdentifier) Region() Region { return e.Reg }

type EConstructor struct {
	Name Name
	Reg  Region
}

func (EConstructor) exprNode()        {}
func (e EConstructor) Region() Region { return e.Reg }

type EQualifiedConstructor struct {
	Module ModuleName
	Name   Name
	Reg    Region
}

func (EQualifiedConstructor) exprNode()        {}
func (e EQualifiedConstructor) Region() Region { return e.Reg }

type EExternal struct {
	NativeName string
	Reg        Region
}

func (EExternal) exprNode()        {}
func (e EExternal) Region() Region { return e.Reg }

type EAp struct {
	Fn  Expr
	Arg Expr
	Reg Region
}

func (EAp) exprNode()        {}
func (e EAp) Region() Region { return e.Reg }

type ELambda struct {
	Param Pattern
	Body  Expr
	Reg   Region
}

func (ELambda) exprNode()        {}
func (e ELambda) Region() Region { return e.Reg }

type EBinOp struct {
	Op  Operator
	Lhs Expr
	Rhs Expr
	Reg Region
}

func (EBinOp) exprNode()        {}
func (e EBinOp) Region() Region { return e.Reg }

type EIf struct {
	Cond Expr
	Then Expr
	Else Expr
	Reg  Region
}

func (EIf) exprNode()        {}
func (e EIf) Region() Region { return e.Reg }

type ELet struct {
	Pattern Pattern
	Bound   Expr
	Body    Expr
	Reg     Region
}

func (ELet) exprNode()        {}
func (e ELet) Region() Region { return e.Reg }

// EBind is the monadic `p <- effectful; body` form. Parsed but left
// uncanonicalized (see SPEC_FULL.md §4, Open Question 1).
type EBind struct {
	Pattern   Pattern
	Effectful Expr
	Body      Expr
	Reg       Region
}

func (EBind) exprNode()        {}
func (e EBind) Region() Region { return e.Reg }

// WhenAlt is one `pattern -> expr` arm of a `when` expression.
type WhenAlt struct {
	Pattern Pattern
	Body    Expr
}

type EWhen struct {
	Scrutinee Expr
	FirstAlt  WhenAlt
	RestAlts  []WhenAlt
	Reg       Region
}

func (EWhen) exprNode()        {}
func (e EWhen) Region() Region { return e.Reg }

// Alts returns the full, non-empty alternative list.
func (e EWhen) Alts() []WhenAlt {
	return append([]WhenAlt{e.FirstAlt}, e.RestAlts...)
}
