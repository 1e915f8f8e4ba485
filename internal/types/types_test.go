package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterning_SameNameAndParamsIsSameObject(t *testing.T) {
	ctx := NewTypeContext()

	a := ctx.ListOf(ctx.IntegerType())
	b := ctx.ListOf(ctx.IntegerType())

	assert.Same(t, a, b, "list[int] must be interned to a single instance")
}

func TestInterning_RecordFieldOrderIsIrrelevant(t *testing.T) {
	ctx := NewTypeContext()

	a := ctx.RecordType([]Field{{"a", ctx.IntegerType()}, {"b", ctx.StringType()}})
	b := ctx.RecordType([]Field{{"b", ctx.StringType()}, {"a", ctx.IntegerType()}})

	assert.Same(t, a, b)
}

func TestSubtype_Reflexive(t *testing.T) {
	ctx := NewTypeContext()
	for _, ty := range []*Type{ctx.IntegerType(), ctx.StringType(), ctx.ListOf(ctx.IntegerType())} {
		assert.True(t, ty.IsSubtype(ty))
	}
}

func TestSubtype_ListCovariance(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	file := ctx.FileType()

	require.True(t, in.IsSubtype(file))
	assert.True(t, ctx.ListOf(in).IsSubtype(ctx.ListOf(file)))
	assert.False(t, ctx.ListOf(file).IsSubtype(ctx.ListOf(in)))
}

func TestSubtype_RecordWidthAndDepth(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	file := ctx.FileType()

	sub := ctx.RecordType([]Field{{"f", in}, {"g", ctx.StringType()}})
	super := ctx.RecordType([]Field{{"f", file}})

	assert.True(t, sub.IsSubtype(super), "extra field g + narrower f should satisfy the narrower record")
	assert.False(t, super.IsSubtype(sub))
}

func TestSupertype_IsLUB(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	file := ctx.FileType()

	sup := ctx.Supertype(in, file)
	assert.Same(t, file, sup)
}

func TestSupertype_Incomparable(t *testing.T) {
	ctx := NewTypeContext()
	sup := ctx.Supertype(ctx.IntegerType(), ctx.StringType())
	assert.True(t, sup.IsNil())
}

func TestSupertype_FileTagsWidenToPlainFile(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	out := ctx.OutputFileType()

	require.False(t, in.IsSubtype(out))
	require.False(t, out.IsSubtype(in))

	sup := ctx.Supertype(in, out)
	assert.Same(t, ctx.FileType(), sup)
}

func TestSupertype_ListElementTypeWidensThroughReparameterize(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	out := ctx.OutputFileType()

	sup := ctx.Supertype(ctx.ListOf(in), ctx.ListOf(out))
	assert.Same(t, ctx.ListOf(ctx.FileType()), sup)
}

func TestSupertype_MaybeElementTypeWidens(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	out := ctx.OutputFileType()

	sup := ctx.Supertype(ctx.MaybeOf(in), ctx.MaybeOf(out))
	assert.Same(t, ctx.MaybeOf(ctx.FileType()), sup)
}

func TestSupertype_ListOfIncomparableElementsStaysNil(t *testing.T) {
	ctx := NewTypeContext()
	sup := ctx.Supertype(ctx.ListOf(ctx.IntegerType()), ctx.ListOf(ctx.StringType()))
	assert.True(t, sup.IsNil())
}

func TestReparameterize_RebuildsListAndMaybeAndFunction(t *testing.T) {
	ctx := NewTypeContext()

	list := ctx.ListOf(ctx.IntegerType())
	assert.Same(t, ctx.ListOf(ctx.StringType()), ctx.Reparameterize(list, []*Type{ctx.StringType()}))

	maybe := ctx.MaybeOf(ctx.IntegerType())
	assert.Same(t, ctx.MaybeOf(ctx.StringType()), ctx.Reparameterize(maybe, []*Type{ctx.StringType()}))

	fn := ctx.FunctionType([]*Type{ctx.IntegerType()}, ctx.IntegerType())
	reparam := ctx.Reparameterize(fn, []*Type{ctx.StringType()})
	assert.Same(t, ctx.FunctionType([]*Type{ctx.StringType()}, ctx.IntegerType()), reparam)
}

func TestReparameterize_NonParametricKindReturnsUnchanged(t *testing.T) {
	ctx := NewTypeContext()
	rec := ctx.RecordType([]Field{{"a", ctx.IntegerType()}})

	assert.Same(t, rec, ctx.Reparameterize(rec, nil))
}

func TestOperatorRules_ListAdd(t *testing.T) {
	ctx := NewTypeContext()
	in := ctx.InputFileType()
	file := ctx.FileType()

	result := ctx.ListOf(in).OnAddTo(ctx.ListOf(file))
	require.NotNil(t, result)
	assert.Same(t, ctx.ListOf(file), result)
}

func TestOperatorRules_PrefixWith(t *testing.T) {
	ctx := NewTypeContext()
	result := ctx.IntegerType().OnPrefixWith(ctx.ListOf(ctx.IntegerType()))
	require.NotNil(t, result)
	assert.Same(t, ctx.ListOf(ctx.IntegerType()), result)
}

func TestOperatorRules_UnsupportedReturnsNil(t *testing.T) {
	ctx := NewTypeContext()
	assert.Nil(t, ctx.IntegerType().OnAddTo(ctx.BooleanType()))
}

func TestCapabilityPredicates(t *testing.T) {
	ctx := NewTypeContext()

	assert.True(t, ctx.ListOf(ctx.IntegerType()).IsOrdered())
	assert.True(t, ctx.MaybeOf(ctx.IntegerType()).IsOptional())
	assert.True(t, ctx.RecordType(nil).HasFields())
	assert.True(t, ctx.InputFileType().IsFile())
	assert.True(t, ctx.ListOf(ctx.OutputFileType()).HasFiles())
	assert.True(t, ctx.ListOf(ctx.OutputFileType()).HasOutput())
}
