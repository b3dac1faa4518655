// Package optimize lowers a canonicalized program into an emission-ready
// form: `when` expressions become decision trees and the `++` operator is
// collapsed onto `+` (spec.md §4.4).
package optimize

import (
	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
)

// OExpr is an optimized expression. It mirrors canon.CanonExpr except that
// OMatch replaces CWhen with a compiled decision tree.
type OExpr interface {
	Region() ast.Region
	optimizedExprNode()
}

type OUnit struct{ Reg ast.Region }

func (OUnit) optimizedExprNode()  {}
func (e OUnit) Region() ast.Region { return e.Reg }

type OBool struct {
	Value bool
	Reg   ast.Region
}

func (OBool) optimizedExprNode()  {}
func (e OBool) Region() ast.Region { return e.Reg }

type OInt struct {
	Value int64
	Reg   ast.Region
}

func (OInt) optimizedExprNode()  {}
func (e OInt) Region() ast.Region { return e.Reg }

type OFloat struct {
	Value float64
	Reg   ast.Region
}

func (OFloat) optimizedExprNode()  {}
func (e OFloat) Region() ast.Region { return e.Reg }

type OString struct {
	Value string
	Reg   ast.Region
}

func (OString) optimizedExprNode()  {}
func (e OString) Region() ast.Region { return e.Reg }

type OVar struct {
	Name canon.Qualified[ast.Name]
	Reg  ast.Region
}

func (OVar) optimizedExprNode()  {}
func (e OVar) Region() ast.Region { return e.Reg }

// OConstructor is a reference to a union variant. It keeps the qualified
// Name alongside the Tag/Arity pair: the emitter renders it as a reference
// to the constructor function by that qualified Name.
type OConstructor struct {
	Name  canon.Qualified[ast.Name]
	Tag   uint16
	Arity uint16
	Reg   ast.Region
}

func (OConstructor) optimizedExprNode()  {}
func (e OConstructor) Region() ast.Region { return e.Reg }

type OAp struct {
	Fn  OExpr
	Arg OExpr
	Reg ast.Region
}

func (OAp) optimizedExprNode()  {}
func (e OAp) Region() ast.Region { return e.Reg }

type OLambda struct {
	Param ast.Name
	Body  OExpr
	Reg   ast.Region
}

func (OLambda) optimizedExprNode()  {}
func (e OLambda) Region() ast.Region { return e.Reg }

// OOp never carries ast.OpAppend: operator collapsing rewrites it to
// ast.OpAdd during lowering (spec.md §4.4).
type OOp struct {
	Op  ast.Operator
	Lhs OExpr
	Rhs OExpr
	Reg ast.Region
}

func (OOp) optimizedExprNode()  {}
func (e OOp) Region() ast.Region { return e.Reg }

type OIf struct {
	Cond OExpr
	Then OExpr
	Else OExpr
	Reg  ast.Region
}

func (OIf) optimizedExprNode()  {}
func (e OIf) Region() ast.Region { return e.Reg }

type OLet struct {
	Name  ast.Name
	Bound OExpr
	Body  OExpr
	Reg   ast.Region
}

func (OLet) optimizedExprNode()  {}
func (e OLet) Region() ast.Region { return e.Reg }

// OMatch is the `{ scrutinee, decision_tree }` node spec.md §3 describes.
type OMatch struct {
	Scrutinee OExpr
	Tree      DecisionTree
	Reg       ast.Region
}

func (OMatch) optimizedExprNode()  {}
func (e OMatch) Region() ast.Region { return e.Reg }

type ORecord struct {
	Fields map[ast.Name]OExpr
	Order  []ast.Name
	Reg    ast.Region
}

func (ORecord) optimizedExprNode()  {}
func (e ORecord) Region() ast.Region { return e.Reg }

// Path addresses a sub-value of the scrutinee: an empty path is the
// scrutinee itself, and each step is the n-th argument of the constructor
// found at the previous step (teacher's SwitchNode.Path generalized from
// an n-ary switch to the binary If chosen here).
type Path []int

// Test is spec.md §3's extensible test kind: "Always" always succeeds (a
// variable/wildcard column), "IsConstructor(tag)" tests the tag found at
// a Path against a single constructor tag.
type Test interface{ isTest() }

type TAlways struct{}

func (TAlways) isTest() {}

type TIsConstructor struct{ Tag uint16 }

func (TIsConstructor) isTest() {}

// DecisionTree is spec.md §3/§4.4's DecisionTree<OExpr>: Succeed(body) or
// a binary If(test, success, failure) rooted at a Path into the scrutinee.
type DecisionTree interface{ isDecisionTree() }

type DTSucceed struct{ Body OExpr }

func (DTSucceed) isDecisionTree() {}

type DTIf struct {
	Path    Path
	Test    Test
	Success DecisionTree
	Failure DecisionTree
}

func (DTIf) isDecisionTree() {}
