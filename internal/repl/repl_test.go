package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/plugin"
)

func TestEval_BindsNamedValue(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	name, v, shadowed, rep := r.Eval("x = 1 + 2")
	require.Nil(t, rep)
	assert.Equal(t, "x", name)
	assert.False(t, shadowed)
	i, ok := v.(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 3, i.Val)
}

func TestEval_BareExpressionBindsToIt(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	name, v, _, rep := r.Eval("40 + 2")
	require.Nil(t, rep)
	assert.Equal(t, "it", name)
	i, ok := v.(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 42, i.Val)
}

func TestEval_LaterLineSeesEarlierBinding(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	_, _, _, rep := r.Eval("x = 10;")
	require.Nil(t, rep)

	_, v, _, rep := r.Eval("y = x * 2;")
	require.Nil(t, rep)
	i, ok := v.(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 20, i.Val)
}

func TestEval_RebindingShadowsInsteadOfErroring(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	_, _, shadowed, rep := r.Eval("x = 1;")
	require.Nil(t, rep)
	assert.False(t, shadowed)

	_, v, shadowed, rep := r.Eval("x = 2;")
	require.Nil(t, rep)
	assert.True(t, shadowed)
	i, ok := v.(*dag.Integer)
	require.True(t, ok)
	assert.Equal(t, 2, i.Val)
}

func TestEval_UndefinedNameReportsSemanticError(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	_, v, _, rep := r.Eval("missing")
	require.Nil(t, v)
	require.NotNil(t, rep)
	assert.Contains(t, rep.Message, "missing")
}

func TestEval_EmptyLineIsANoOp(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	name, v, shadowed, rep := r.Eval("   ")
	assert.Empty(t, name)
	assert.Nil(t, v)
	assert.False(t, shadowed)
	assert.Nil(t, rep)
}

func TestHandleCommand_ResetClearsScope(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())
	_, _, _, rep := r.Eval("x = 1;")
	require.Nil(t, rep)

	var out bytes.Buffer
	r.HandleCommand(":reset", &out)

	_, _, _, rep = r.Eval("x")
	require.NotNil(t, rep, "x should be undefined after :reset")
}

func TestHandleCommand_TypeDoesNotBindAName(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	var out bytes.Buffer
	r.HandleCommand(":type 1 + 2", &out)
	assert.Contains(t, out.String(), "int")

	_, _, _, rep := r.Eval("it")
	require.NotNil(t, rep, ":type must not bind 'it'")
}

func TestHandleCommand_HistoryListsPastInput(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())
	r.history = append(r.history, "x = 1;", "y = 2;")

	var out bytes.Buffer
	r.HandleCommand(":history", &out)
	assert.Contains(t, out.String(), "x = 1;")
	assert.Contains(t, out.String(), "y = 2;")
}

func TestHandleCommand_UnknownCommandIsReported(t *testing.T) {
	r := New(plugin.Default(), t.TempDir())

	var out bytes.Buffer
	r.HandleCommand(":bogus", &out)
	assert.Contains(t, out.String(), "unknown command")
}
