package dag

import (
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// List is an ordered sequence of Values sharing a common element type
// (the list type's sole parameter).
type List struct {
	ValueBase
	Elements []Value
}

// NewList constructs a List. elemType is the (possibly already-computed)
// supertype of every element.
func NewList(ctx *types.TypeContext, elems []Value, elemType *types.Type, r source.Range) *List {
	return &List{ValueBase: ValueBase{Range: r, Ty: ctx.ListOf(elemType)}, Elements: elems}
}

// Add concatenates two lists; the result's element type is the supertype
// of both operands' element types.
func (l *List) Add(other Value, at source.Range) (Value, error) {
	o, ok := other.(*List)
	if !ok {
		return unsupportedPair(at, "+", l, other)
	}

	ctx := typeContextOf(l.Ty)
	elemType := ctx.Supertype(l.Ty.Param(0), o.Ty.Param(0))

	elems := make([]Value, 0, len(l.Elements)+len(o.Elements))
	elems = append(elems, l.Elements...)
	elems = append(elems, o.Elements...)

	return NewList(ctx, elems, elemType, at), nil
}

// PrefixWith conses a value onto the front of the list, widening the
// element type to the supertype of the pushed value and the current
// element type.
func (l *List) PrefixWith(other Value, at source.Range) (Value, error) {
	ctx := typeContextOf(l.Ty)
	elemType := ctx.Supertype(l.Ty.Param(0), other.Type())

	elems := make([]Value, 0, len(l.Elements)+1)
	elems = append(elems, other)
	elems = append(elems, l.Elements...)

	return NewList(ctx, elems, elemType, at), nil
}

func (l *List) Equals(other Value, at source.Range) (Value, error) {
	o, ok := other.(*List)
	if !ok || len(l.Elements) != len(o.Elements) {
		return NewBoolean(typeContextOf(l.Ty), false, at), nil
	}
	for i, e := range l.Elements {
		res, err := e.Equals(o.Elements[i], at)
		if err != nil {
			return nil, err
		}
		if b, ok := res.(*Boolean); !ok || !b.Val {
			return NewBoolean(typeContextOf(l.Ty), false, at), nil
		}
	}
	return NewBoolean(typeContextOf(l.Ty), true, at), nil
}

// Record is an unordered mapping of field name to Value; its Type is the
// record of its fields' types.
type Record struct {
	ValueBase
	Fields map[string]Value
	// Order preserves declaration order for deterministic pretty-printing
	// and `fields(record)` enumeration.
	Order []string
}

// NewRecord constructs a Record from fields in declaration order.
func NewRecord(ctx *types.TypeContext, order []string, fields map[string]Value, r source.Range) *Record {
	tfields := make([]types.Field, 0, len(order))
	for _, name := range order {
		tfields = append(tfields, types.Field{Name: name, Type: fields[name].Type()})
	}
	return &Record{
		ValueBase: ValueBase{Range: r, Ty: ctx.RecordType(tfields)},
		Fields:    fields,
		Order:     order,
	}
}

func (r *Record) HasFields() bool { return true }

func (r *Record) Field(name string) Value {
	return r.Fields[name]
}

// FieldNames returns field names in declaration order, for the `fields`
// builtin.
func (r *Record) FieldNames() []string {
	out := make([]string, len(r.Order))
	copy(out, r.Order)
	return out
}
