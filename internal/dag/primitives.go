package dag

import (
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Boolean is a primitive `bool` value.
type Boolean struct {
	ValueBase
	Val bool
}

// NewBoolean constructs a Boolean value.
func NewBoolean(ctx *types.TypeContext, val bool, r source.Range) *Boolean {
	return &Boolean{ValueBase: ValueBase{Range: r, Ty: ctx.BooleanType()}, Val: val}
}

func (b *Boolean) Not(at source.Range) (Value, error) {
	return &Boolean{ValueBase: ValueBase{Range: at, Ty: b.Ty}, Val: !b.Val}, nil
}

func (b *Boolean) Equals(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Boolean)
	if !ok {
		return unsupportedPair(at, "==", b, other)
	}
	return NewBoolean(typeContextOf(b.Ty), b.Val == o.Val, at), nil
}

func (b *Boolean) And(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Boolean)
	if !ok {
		return unsupportedPair(at, "and", b, other)
	}
	return &Boolean{ValueBase: ValueBase{Range: at, Ty: b.Ty}, Val: b.Val && o.Val}, nil
}

func (b *Boolean) Or(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Boolean)
	if !ok {
		return unsupportedPair(at, "or", b, other)
	}
	return &Boolean{ValueBase: ValueBase{Range: at, Ty: b.Ty}, Val: b.Val || o.Val}, nil
}

func (b *Boolean) Xor(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Boolean)
	if !ok {
		return unsupportedPair(at, "xor", b, other)
	}
	return &Boolean{ValueBase: ValueBase{Range: at, Ty: b.Ty}, Val: b.Val != o.Val}, nil
}

// Integer is a primitive `int` value.
type Integer struct {
	ValueBase
	Val int
}

func NewInteger(ctx *types.TypeContext, val int, r source.Range) *Integer {
	return &Integer{ValueBase: ValueBase{Range: r, Ty: ctx.IntegerType()}, Val: val}
}

func (i *Integer) Negate(at source.Range) (Value, error) {
	return &Integer{ValueBase: ValueBase{Range: at, Ty: i.Ty}, Val: -i.Val}, nil
}

func (i *Integer) Add(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Integer)
	if !ok {
		return unsupportedPair(at, "+", i, other)
	}
	return &Integer{ValueBase: ValueBase{Range: at, Ty: i.Ty}, Val: i.Val + o.Val}, nil
}

func (i *Integer) Subtract(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Integer)
	if !ok {
		return unsupportedPair(at, "-", i, other)
	}
	return &Integer{ValueBase: ValueBase{Range: at, Ty: i.Ty}, Val: i.Val - o.Val}, nil
}

func (i *Integer) MultiplyBy(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Integer)
	if !ok {
		return unsupportedPair(at, "*", i, other)
	}
	return &Integer{ValueBase: ValueBase{Range: at, Ty: i.Ty}, Val: i.Val * o.Val}, nil
}

func (i *Integer) DivideBy(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Integer)
	if !ok {
		return unsupportedPair(at, "/", i, other)
	}
	if o.Val == 0 {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.UnsupportedOp, at, "division by zero"))
	}
	return &Integer{ValueBase: ValueBase{Range: at, Ty: i.Ty}, Val: i.Val / o.Val}, nil
}

func (i *Integer) Equals(other Value, at source.Range) (Value, error) {
	o, ok := other.(*Integer)
	if !ok {
		return unsupportedPair(at, "==", i, other)
	}
	return NewBoolean(typeContextOf(i.Ty), i.Val == o.Val, at), nil
}

// String is a primitive `string` value.
type String struct {
	ValueBase
	Val string
}

func NewString(ctx *types.TypeContext, val string, r source.Range) *String {
	return &String{ValueBase: ValueBase{Range: r, Ty: ctx.StringType()}, Val: val}
}

func (s *String) Add(other Value, at source.Range) (Value, error) {
	o, ok := other.(*String)
	if !ok {
		return unsupportedPair(at, "+", s, other)
	}
	return &String{ValueBase: ValueBase{Range: at, Ty: s.Ty}, Val: s.Val + o.Val}, nil
}

func (s *String) Equals(other Value, at source.Range) (Value, error) {
	o, ok := other.(*String)
	if !ok {
		return unsupportedPair(at, "==", s, other)
	}
	return NewBoolean(typeContextOf(s.Ty), s.Val == o.Val, at), nil
}

// Nil is the single value of the `nil` type: the result of a statement run
// purely for effect (like print) and the "absent" case of maybe[T].
type Nil struct {
	ValueBase
}

// NewNil constructs a Nil value.
func NewNil(ctx *types.TypeContext, r source.Range) *Nil {
	return &Nil{ValueBase: ValueBase{Range: r, Ty: ctx.NilType()}}
}

func (n *Nil) Equals(other Value, at source.Range) (Value, error) {
	_, ok := other.(*Nil)
	if !ok {
		return unsupportedPair(at, "==", n, other)
	}
	return NewBoolean(typeContextOf(n.Ty), true, at), nil
}

func unsupportedPair(at source.Range, op string, a, b Value) (Value, error) {
	return nil, errors.Wrap(errors.SemanticErrorf(errors.UnsupportedOp, at,
		"unsupported operation %q between %s and %s", op, a.Type(), b.Type()))
}

// typeContextOf recovers the owning TypeContext from an interned type; all
// interned types keep a back-pointer to their context.
func typeContextOf(t *types.Type) *types.TypeContext {
	return t.Context()
}
