package dag

import (
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// TypeReference is a reified type, produced by `type(expr)` and consumed
// wherever a DAG value of type `type` is expected (e.g. a parameter's
// declared type given as a value).
type TypeReference struct {
	ValueBase
	Referent *types.Type
}

// NewTypeReference wraps a Type as a DAG Value of type `type`.
func NewTypeReference(ctx *types.TypeContext, referent *types.Type, r source.Range) *TypeReference {
	return &TypeReference{ValueBase: ValueBase{Range: r, Ty: ctx.TypeType()}, Referent: referent}
}

func (t *TypeReference) Equals(other Value, at source.Range) (Value, error) {
	o, ok := other.(*TypeReference)
	if !ok {
		return unsupportedPair(at, "==", t, other)
	}
	return NewBoolean(typeContextOf(t.Ty), t.Referent.String() == o.Referent.String(), at), nil
}
