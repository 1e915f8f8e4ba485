// Package dag holds the runtime values the evaluator reduces a Fabrique
// AST into, and the DAG aggregate a backend ultimately consumes. Every
// Value is immutable once constructed; the operator methods return a
// fresh Value (or nil, with a reported error, if the operation is
// unsupported for that pair of operands).
package dag

import (
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Value is the shared contract every DAG runtime value implements.
// Default operator implementations live on ValueBase and report
// "unsupported operation"; concrete variants override the operators they
// actually support.
type Value interface {
	source.Sourced
	Type() *types.Type

	HasFields() bool
	Field(name string) Value

	Negate(at source.Range) (Value, error)
	Not(at source.Range) (Value, error)
	Add(other Value, at source.Range) (Value, error)
	Subtract(other Value, at source.Range) (Value, error)
	MultiplyBy(other Value, at source.Range) (Value, error)
	DivideBy(other Value, at source.Range) (Value, error)
	PrefixWith(other Value, at source.Range) (Value, error)
	Equals(other Value, at source.Range) (Value, error)
	And(other Value, at source.Range) (Value, error)
	Or(other Value, at source.Range) (Value, error)
	Xor(other Value, at source.Range) (Value, error)
}

// ValueBase factors out the Range/Type bookkeeping and the default
// "unsupported operation" behaviour shared by every concrete Value; a
// concrete variant overrides only the operators it actually supports.
type ValueBase struct {
	Range source.Range
	Ty    *types.Type
}

func (v *ValueBase) Source() source.Range { return v.Range }
func (v *ValueBase) Type() *types.Type    { return v.Ty }
func (v *ValueBase) HasFields() bool      { return false }
func (v *ValueBase) Field(string) Value   { return nil }

func unsupported(at source.Range, op string, self Value) (Value, error) {
	return nil, errors.Wrap(errors.SemanticErrorf(errors.UnsupportedOp, at,
		"unsupported operation %q on %s", op, self.Type()))
}

func (v *ValueBase) Negate(at source.Range) (Value, error)                 { return unsupported(at, "negate", v) }
func (v *ValueBase) Not(at source.Range) (Value, error)                    { return unsupported(at, "not", v) }
func (v *ValueBase) Add(o Value, at source.Range) (Value, error)           { return unsupported(at, "add", v) }
func (v *ValueBase) Subtract(o Value, at source.Range) (Value, error)      { return unsupported(at, "subtract", v) }
func (v *ValueBase) MultiplyBy(o Value, at source.Range) (Value, error)    { return unsupported(at, "multiply", v) }
func (v *ValueBase) DivideBy(o Value, at source.Range) (Value, error)      { return unsupported(at, "divide", v) }
func (v *ValueBase) PrefixWith(o Value, at source.Range) (Value, error)    { return unsupported(at, "prefix", v) }
func (v *ValueBase) Equals(o Value, at source.Range) (Value, error)        { return unsupported(at, "equals", v) }
func (v *ValueBase) And(o Value, at source.Range) (Value, error)           { return unsupported(at, "and", v) }
func (v *ValueBase) Or(o Value, at source.Range) (Value, error)            { return unsupported(at, "or", v) }
func (v *ValueBase) Xor(o Value, at source.Range) (Value, error)           { return unsupported(at, "xor", v) }
