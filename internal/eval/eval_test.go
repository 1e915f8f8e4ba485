package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/parser"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

func evalSource(t *testing.T, src string) (*dag.DAG, *errors.Sink) {
	t.Helper()
	return evalSourceIn(t, src, "")
}

func evalSourceIn(t *testing.T, src, subdir string) (*dag.DAG, *errors.Sink) {
	t.Helper()
	values, parseSink := parser.ParseFile([]byte(src), "test.fab")
	require.Empty(t, parseSink.Errors(), "unexpected parse errors")

	evalSink := errors.NewSink()
	e := New(types.NewTypeContext(), evalSink, map[string]Builtin{}, subdir)
	d := e.EvalFile(values, nil)
	return d, evalSink
}

func TestScenario_ArithmeticVariable(t *testing.T) {
	d, sink := evalSource(t, `x = 1 + 2;`)
	require.Empty(t, sink.Errors())

	x, ok := d.Variables["x"].(*dag.Integer)
	require.True(t, ok, "x should be an Integer")
	assert.Equal(t, 3, x.Val)
}

func TestScenario_ActionRuleAndBuilds(t *testing.T) {
	src := `
srcs = files(a.c b.c);
obj = action('cc -c $in -o $out', in:file[in], out:file[out]);
out = foreach s <= srcs in obj(in = s, out = s + '.o');
`
	d, sink := evalSource(t, src)
	require.Empty(t, sink.Errors())

	require.Len(t, d.Rules, 1)
	assert.Equal(t, "cc", d.Rules[0].Name)

	require.Len(t, d.Builds, 2)

	outList, ok := d.Targets["out"].(*dag.List)
	require.True(t, ok, "out should be a target list")
	require.Len(t, outList.Elements, 2)
	for _, elem := range outList.Elements {
		_, ok := elem.(*dag.Build)
		assert.True(t, ok, "each foreach iteration should produce a Build")
	}

	var names []string
	for _, f := range d.Files {
		names = append(names, f.FullName())
	}
	assert.ElementsMatch(t, []string{"a.c", "b.c", "a.c.o", "b.c.o"}, names)
}

func TestFileListExpr_GlobPatternExpandsAgainstDisk(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.c", "b.c", "c.h"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644))
	}

	d, sink := evalSourceIn(t, `srcs = files(*.c);`, dir)
	require.Empty(t, sink.Errors())

	list, ok := d.Targets["srcs"].(*dag.List)
	require.True(t, ok)

	var names []string
	for _, elem := range list.Elements {
		f, ok := elem.(*dag.File)
		require.True(t, ok)
		names = append(names, f.Filename())
	}
	assert.ElementsMatch(t, []string{"a.c", "b.c"}, names)
}

func TestScenario_RecordFieldAccess(t *testing.T) {
	d, sink := evalSource(t, `r = { a = 1; b = 'x'; }; y = r.b;`)
	require.Empty(t, sink.Errors())

	y, ok := d.Variables["y"].(*dag.String)
	require.True(t, ok)
	assert.Equal(t, "x", y.Val)

	r, ok := d.Variables["r"].(*dag.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.FieldNames())
}

func TestScenario_FunctionCall(t *testing.T) {
	d, sink := evalSource(t, `f = function(x: int): int x + 1; v = f(41);`)
	require.Empty(t, sink.Errors())

	v, ok := d.Variables["v"].(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 42, v.Val)
}

func TestScenario_ConditionalBranchTypeMismatch(t *testing.T) {
	_, sink := evalSource(t, `m = if true then 1 else 'x';`)
	require.NotEmpty(t, sink.Errors())
	assert.Equal(t, errors.WrongType, sink.Errors()[0].Kind)
}

func TestScenario_ForeachOverNonIterable(t *testing.T) {
	_, sink := evalSource(t, `z = foreach x <= 3 in x;`)
	require.NotEmpty(t, sink.Errors())
	rep := sink.Errors()[0]
	assert.Equal(t, errors.Semantic, rep.Kind)
	assert.Equal(t, errors.NotIterable, rep.Code)
}

func TestScenario_ForeachVarTypeMismatchIsWrongType(t *testing.T) {
	_, sink := evalSource(t, `z = foreach x:int <= files(a.c) in x;`)
	require.NotEmpty(t, sink.Errors())
	assert.Equal(t, errors.WrongType, sink.Errors()[0].Kind)
}

func TestScenario_ForeachVarTypeMatchingAnnotationSucceeds(t *testing.T) {
	d, sink := evalSource(t, `z = foreach x:file <= files(a.c) in x;`)
	require.Empty(t, sink.Errors())

	outList, ok := d.Targets["z"].(*dag.List)
	require.True(t, ok)
	require.Len(t, outList.Elements, 1)
}

func TestScope_ShadowingAllowedDuplicateRejected(t *testing.T) {
	ctx := types.NewTypeContext()
	root := NewScope(nil)
	require.NoError(t, root.Define("a", dag.NewInteger(ctx, 1, source.Nowhere), source.Nowhere))
	assert.Error(t, root.Define("a", dag.NewInteger(ctx, 2, source.Nowhere), source.Nowhere))

	child := NewScope(root)
	require.NoError(t, child.Define("a", dag.NewInteger(ctx, 2, source.Nowhere), source.Nowhere))

	v, ok := child.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 2, v.(*dag.Integer).Val)

	v, ok = root.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 1, v.(*dag.Integer).Val)
}

func TestScenario_CompoundExpressionDoesNotLeakBindings(t *testing.T) {
	d, sink := evalSource(t, `y = { inner = 5; inner + 1; };`)
	require.Empty(t, sink.Errors())

	v, ok := d.Variables["y"].(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 6, v.Val)

	_, leaked := d.Variables["inner"]
	assert.False(t, leaked, "compound-expression values must not leak to the top level")
}
