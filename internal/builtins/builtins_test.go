package builtins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/parser"
	"github.com/fabrique-build/fabrique/internal/plugin"
	"github.com/fabrique-build/fabrique/internal/types"
)

func evalSourceIn(t *testing.T, src, subdir string) (*dag.DAG, *errors.Sink) {
	t.Helper()
	values, parseSink := parser.ParseFile([]byte(src), "test.fab")
	require.Empty(t, parseSink.Errors(), "unexpected parse errors")

	sink := errors.NewSink()
	e := eval.New(types.NewTypeContext(), sink, Default(plugin.Default()), subdir)
	d := e.EvalFile(values, nil)
	return d, sink
}

func TestFileBuiltin_ResolvesPathAndKeywordArgs(t *testing.T) {
	d, sink := evalSourceIn(t, `f = file('a.c', subdir = 'src', generated = true);`, "")
	require.Empty(t, sink.Errors())

	f, ok := d.Targets["f"].(*dag.File)
	require.True(t, ok)
	assert.Equal(t, "a.c", f.Filename())
	assert.True(t, f.Generated())
}

func TestFieldsBuiltin_ListsDeclarationOrder(t *testing.T) {
	d, sink := evalSourceIn(t, `r = { b = 1; a = 2; }; names = fields(r);`, "")
	require.Empty(t, sink.Errors())

	names, ok := d.Variables["names"].(*dag.List)
	require.True(t, ok)
	require.Len(t, names.Elements, 2)
	assert.Equal(t, "b", names.Elements[0].(*dag.String).Val)
	assert.Equal(t, "a", names.Elements[1].(*dag.String).Val)
}

func TestPrintBuiltin_ReturnsNil(t *testing.T) {
	d, sink := evalSourceIn(t, `r = print('hello', 1, true);`, "")
	require.Empty(t, sink.Errors())

	_, ok := d.Variables["r"].(*dag.Nil)
	assert.True(t, ok, "print(...) should evaluate to Nil")
}

func TestTypeBuiltin_ReifiesExpressionType(t *testing.T) {
	d, sink := evalSourceIn(t, `t = type(1 + 1);`, "")
	require.Empty(t, sink.Errors())

	tr, ok := d.Variables["t"].(*dag.TypeReference)
	require.True(t, ok)
	assert.Equal(t, "int", tr.Referent.String())
}

func TestImportBuiltin_ExposesOtherFilesBindingsAsRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.fab"), []byte(`answer = 42;`), 0o644))

	d, sink := evalSourceIn(t, `lib = import('lib.fab'); v = lib.answer;`, dir)
	require.Empty(t, sink.Errors())

	v, ok := d.Variables["v"].(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 42, v.Val)
}

func TestImportBuiltin_MissingFileReportsOSError(t *testing.T) {
	_, sink := evalSourceIn(t, `lib = import('does-not-exist.fab');`, t.TempDir())
	require.NotEmpty(t, sink.Errors())
	assert.Equal(t, errors.OSFailure, sink.Errors()[0].Code)
}

func TestImportBuiltin_PluginSchemeInstantiatesRegisteredPlugin(t *testing.T) {
	d, sink := evalSourceIn(t, `p = import('plugin:platform'); os = p.os;`, "")
	require.Empty(t, sink.Errors())

	os, ok := d.Variables["os"].(*dag.String)
	require.True(t, ok)
	assert.NotEmpty(t, os.Val)
}

func TestImportBuiltin_UnknownPluginReportsOSError(t *testing.T) {
	_, sink := evalSourceIn(t, `p = import('plugin:nonexistent');`, "")
	require.NotEmpty(t, sink.Errors())
	assert.Equal(t, errors.OSFailure, sink.Errors()[0].Code)
}
