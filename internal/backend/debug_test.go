package backend

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/parser"
	"github.com/fabrique-build/fabrique/internal/types"
)

func TestDebug_ProcessIsDeterministicAcrossRuns(t *testing.T) {
	src := `
srcs = files(a.c b.c);
obj = action('cc -c $in -o $out', in:file[in], out:file[out]);
out = foreach s <= srcs in obj(in = s, out = s + '.o');
`
	values, parseSink := parser.ParseFile([]byte(src), "test.fab")
	require.Empty(t, parseSink.Errors())

	run := func() string {
		sink := errors.NewSink()
		e := eval.New(types.NewTypeContext(), sink, map[string]eval.Builtin{}, "")
		d := e.EvalFile(values, nil)
		require.Empty(t, sink.Errors())

		var buf bytes.Buffer
		require.NoError(t, (Debug{}).Process(d, &buf, sink))
		return buf.String()
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Contains(t, first, "files (4):")
	assert.Contains(t, first, "rules (1):")
	assert.Contains(t, first, "builds (2):")
}

func TestDebug_NameAndDefaultFilename(t *testing.T) {
	b := Debug{}
	assert.Equal(t, "debug", b.Name())
	assert.Equal(t, "fabrique.debug", b.DefaultFilename())
}
