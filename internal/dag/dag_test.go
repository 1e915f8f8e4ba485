package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

func TestInteger_ArithmeticAndDivisionByZero(t *testing.T) {
	ctx := types.NewTypeContext()
	a := NewInteger(ctx, 6, source.Nowhere)
	b := NewInteger(ctx, 3, source.Nowhere)

	sum, err := a.Add(b, source.Nowhere)
	require.NoError(t, err)
	assert.Equal(t, 9, sum.(*Integer).Val)

	zero := NewInteger(ctx, 0, source.Nowhere)
	_, err = a.DivideBy(zero, source.Nowhere)
	assert.Error(t, err)
}

func TestString_Concatenation(t *testing.T) {
	ctx := types.NewTypeContext()
	s, err := NewString(ctx, "foo", source.Nowhere).Add(NewString(ctx, "bar", source.Nowhere), source.Nowhere)
	require.NoError(t, err)
	assert.Equal(t, "foobar", s.(*String).Val)
}

func TestFile_AddAndPrefix(t *testing.T) {
	ctx := types.NewTypeContext()
	f := NewFile(ctx, "main", "src", false, types.TagNone, source.Nowhere)

	withExt, err := f.Add(NewString(ctx, ".c", source.Nowhere), source.Nowhere)
	require.NoError(t, err)
	assert.Equal(t, "src/main.c", withExt.(*File).FullName())

	prefixed, err := f.PrefixWith(NewString(ctx, "lib", source.Nowhere), source.Nowhere)
	require.NoError(t, err)
	assert.Equal(t, "src/libmain", prefixed.(*File).FullName())
}

func TestFile_AbsoluteCannotBeGenerated(t *testing.T) {
	ctx := types.NewTypeContext()
	f := NewFile(ctx, "/etc/passwd", "ignored", false, types.TagNone, source.Nowhere)
	assert.True(t, f.Absolute())
	assert.Equal(t, "/etc/passwd", f.FullName())

	err := f.SetGenerated(true)
	assert.Error(t, err)
}

func TestFile_SetGeneratedFailsAfterReferenced(t *testing.T) {
	ctx := types.NewTypeContext()
	f := NewFile(ctx, "out.o", "", false, types.TagNone, source.Nowhere)
	f.MarkReferenced()
	assert.Error(t, f.SetGenerated(true))
}

func TestList_AddWidensElementType(t *testing.T) {
	ctx := types.NewTypeContext()
	ins := NewList(ctx, []Value{NewFile(ctx, "a.c", "", false, types.TagIn, source.Nowhere)}, ctx.InputFileType(), source.Nowhere)
	outs := NewList(ctx, []Value{NewFile(ctx, "a.o", "", true, types.TagOut, source.Nowhere)}, ctx.OutputFileType(), source.Nowhere)

	combined, err := ins.Add(outs, source.Nowhere)
	require.NoError(t, err)
	list := combined.(*List)
	assert.Len(t, list.Elements, 2)
	assert.True(t, list.Type().Param(0).IsSubtype(ctx.FileType()))
}

func TestList_PrefixWith(t *testing.T) {
	ctx := types.NewTypeContext()
	l := NewList(ctx, []Value{NewInteger(ctx, 2, source.Nowhere)}, ctx.IntegerType(), source.Nowhere)
	prefixed, err := l.PrefixWith(NewInteger(ctx, 1, source.Nowhere), source.Nowhere)
	require.NoError(t, err)
	list := prefixed.(*List)
	require.Len(t, list.Elements, 2)
	assert.Equal(t, 1, list.Elements[0].(*Integer).Val)
	assert.Equal(t, 2, list.Elements[1].(*Integer).Val)
}

func TestRecord_FieldAccessAndOrder(t *testing.T) {
	ctx := types.NewTypeContext()
	rec := NewRecord(ctx, []string{"name", "count"}, map[string]Value{
		"name":  NewString(ctx, "widget", source.Nowhere),
		"count": NewInteger(ctx, 3, source.Nowhere),
	}, source.Nowhere)

	assert.True(t, rec.HasFields())
	assert.Equal(t, "widget", rec.Field("name").(*String).Val)
	assert.Equal(t, []string{"name", "count"}, rec.FieldNames())
}

func TestRule_CallProducesBuildWithClassifiedFiles(t *testing.T) {
	ctx := types.NewTypeContext()
	inParam := &Parameter{Name: "in", Ty: ctx.InputFileType()}
	outParam := &Parameter{Name: "out", Ty: ctx.OutputFileType()}

	rule := NewRule(ctx, "cc", "cc -c $in -o $out", "", nil,
		[]*Parameter{inParam, outParam}, ctx.FileType(), source.Nowhere)

	in := NewFile(ctx, "a.c", "", false, types.TagIn, source.Nowhere)
	out := NewFile(ctx, "a.o", "", true, types.TagOut, source.Nowhere)

	build, err := rule.Call(nil, map[string]Value{"in": in, "out": out}, source.Nowhere)
	require.NoError(t, err)
	require.Len(t, build.Inputs, 1)
	require.Len(t, build.Outputs, 1)
	assert.Same(t, rule, build.Rule)
	assert.Same(t, out, build.Field("out"))
}

func TestRule_CallFailsWithNoFileParameters(t *testing.T) {
	ctx := types.NewTypeContext()
	p := &Parameter{Name: "flag", Ty: ctx.BooleanType()}
	rule := NewRule(ctx, "noop", "true", "", nil, []*Parameter{p}, ctx.NilType(), source.Nowhere)

	_, err := rule.Call(nil, map[string]Value{"flag": NewBoolean(ctx, true, source.Nowhere)}, source.Nowhere)
	assert.Error(t, err)
}

func TestRule_CallFailsOnWrongType(t *testing.T) {
	ctx := types.NewTypeContext()
	p := &Parameter{Name: "in", Ty: ctx.InputFileType()}
	rule := NewRule(ctx, "r", "cmd", "", nil, []*Parameter{p}, ctx.FileType(), source.Nowhere)

	_, err := rule.Call(nil, map[string]Value{"in": NewInteger(ctx, 1, source.Nowhere)}, source.Nowhere)
	assert.Error(t, err)
}

func TestBuilder_DefineClassifiesTargetsVsVariables(t *testing.T) {
	ctx := types.NewTypeContext()
	b := NewBuilder(ctx)

	b.Define("greeting", NewString(ctx, "hi", source.Nowhere))
	b.Define("src", NewFile(ctx, "a.c", "", false, types.TagNone, source.Nowhere))

	dagResult := b.Freeze(nil)
	_, isVar := dagResult.Variables["greeting"]
	_, isTarget := dagResult.Targets["src"]
	assert.True(t, isVar)
	assert.True(t, isTarget)
	assert.Len(t, dagResult.Files, 1)
}

func TestBuilder_CollectsReachableFilesRulesAndBuilds(t *testing.T) {
	ctx := types.NewTypeContext()
	b := NewBuilder(ctx)

	inParam := &Parameter{Name: "in", Ty: ctx.InputFileType()}
	outParam := &Parameter{Name: "out", Ty: ctx.OutputFileType()}
	rule := NewRule(ctx, "cc", "cc -c $in -o $out", "", nil, []*Parameter{inParam, outParam}, ctx.FileType(), source.Nowhere)

	in := NewFile(ctx, "a.c", "", false, types.TagIn, source.Nowhere)
	out := NewFile(ctx, "a.o", "", true, types.TagOut, source.Nowhere)
	build, err := rule.Call(nil, map[string]Value{"in": in, "out": out}, source.Nowhere)
	require.NoError(t, err)

	b.Define("obj", build)

	frozen := b.Freeze(nil)
	require.Len(t, frozen.Builds, 1)
	require.Len(t, frozen.Rules, 1)
	require.Len(t, frozen.Files, 2)
	assert.NotEmpty(t, frozen.Builds[0].BuildID)
}

func TestBuilder_FreezeIsDeterministicAcrossRuns(t *testing.T) {
	build := func() *DAG {
		ctx := types.NewTypeContext()
		b := NewBuilder(ctx)
		b.Define("a", NewFile(ctx, "b.c", "", false, types.TagNone, source.Nowhere))
		b.Define("b", NewFile(ctx, "a.c", "", false, types.TagNone, source.Nowhere))
		return b.Freeze(nil)
	}

	first, second := build(), build()
	names := func(d *DAG) []string {
		out := make([]string, len(d.Files))
		for i, f := range d.Files {
			out[i] = f.FullName()
		}
		return out
	}

	if diff := cmp.Diff(names(first), names(second), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("file ordering not deterministic (-first +second):\n%s", diff)
	}
}

func TestBuilder_FreezeOrdersBuildsDeterministicallyDespiteRandomBuildID(t *testing.T) {
	build := func() *DAG {
		ctx := types.NewTypeContext()
		b := NewBuilder(ctx)
		inParam := &Parameter{Name: "in", Ty: ctx.InputFileType()}
		outParam := &Parameter{Name: "out", Ty: ctx.OutputFileType()}
		rule := NewRule(ctx, "cc", "cc -c $in -o $out", "", nil, []*Parameter{inParam, outParam}, ctx.FileType(), source.Nowhere)

		for _, name := range []string{"b.c", "a.c", "c.c"} {
			in := NewFile(ctx, name, "", false, types.TagIn, source.Nowhere)
			out := NewFile(ctx, name+".o", "", true, types.TagOut, source.Nowhere)
			bld, err := rule.Call(nil, map[string]Value{"in": in, "out": out}, source.Nowhere)
			require.NoError(t, err)
			b.Define(name+"_obj", bld)
		}

		return b.Freeze(nil)
	}

	first, second := build(), build()
	require.Len(t, first.Builds, 3)
	require.Len(t, second.Builds, 3)

	// BuildID is a fresh random UUID every run, so ordering by BuildID
	// would make this flaky; ordering by buildSortKey must not.
	for i := range first.Builds {
		assert.NotEqual(t, first.Builds[i].BuildID, second.Builds[i].BuildID)
	}

	keyOf := func(d *DAG) []string {
		out := make([]string, len(d.Builds))
		for i, bld := range d.Builds {
			out[i] = buildSortKey(bld)
		}
		return out
	}
	assert.Equal(t, keyOf(first), keyOf(second))
}
