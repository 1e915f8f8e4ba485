package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/source"
)

func TestSink_HasErrors(t *testing.T) {
	sink := NewSink()
	assert.False(t, sink.HasErrors())

	sink.Add(Warnf(UnsupportedOp, source.Nowhere, "careful"))
	assert.False(t, sink.HasErrors())

	sink.Add(SemanticErrorf(UndefinedName, source.Nowhere, "undefined name %q", "x"))
	assert.True(t, sink.HasErrors())
	assert.Len(t, sink.Errors(), 1)
}

func TestReportError_RoundTrips(t *testing.T) {
	rep := SyntaxErrorf(source.Nowhere, "unexpected token")
	err := Wrap(rep)

	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Same(t, rep, got)
}

func TestReport_Format(t *testing.T) {
	rep := SemanticErrorf(NotIterable, source.Nowhere, "int is not iterable").WithDetail("foreach requires list[T] or maybe[T]")
	text := rep.Format()
	assert.Contains(t, text, "int is not iterable")
	assert.Contains(t, text, "foreach requires")
}
