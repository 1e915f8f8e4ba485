// Package ast defines Fabrique's abstract syntax tree: a discriminated node
// hierarchy built once by the parser and never mutated afterwards. Every
// node carries its source.Range; expressions additionally carry a
// *types.Type slot (ExprBase.Ty), which the parser leaves nil and the
// evaluator does not fill in: evaluated dag.Values carry their own types.
//
// Node ownership is by value: a parent exclusively owns its children, and
// there is no back-pointer from child to parent.
package ast

import (
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Node is the base interface implemented by every AST node, expression or
// structural child alike.
type Node interface {
	Source() source.Range
	Accept(Visitor)
}

// Expression is a Node that produces a DAG value when evaluated.
type Expression interface {
	Node
	Type() *types.Type
	SetType(*types.Type)
	// IsStatic returns the Static flag the parser set: false for a
	// NameReference, true for every other node. Operands and filesystem
	// access are not considered (a FileListExpr is marked static), and no
	// package outside ast reads the flag.
	IsStatic() bool
}

// ExprBase factors out the Range/Type bookkeeping shared by every
// expression node; concrete expressions embed it. Exported so parser code
// building nodes outside this package can populate it via a composite
// literal.
type ExprBase struct {
	Range  source.Range
	Ty     *types.Type
	Static bool
}

func (e *ExprBase) Source() source.Range  { return e.Range }
func (e *ExprBase) Type() *types.Type     { return e.Ty }
func (e *ExprBase) SetType(t *types.Type) { e.Ty = t }
func (e *ExprBase) IsStatic() bool        { return e.Static }
func (e *ExprBase) SetStatic(static bool) { e.Static = static }
