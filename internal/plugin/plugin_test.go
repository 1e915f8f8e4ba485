package plugin

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

func TestDefault_RegistersPlatformPlugin(t *testing.T) {
	reg := Default()
	p, ok := reg.Lookup("platform")
	require.True(t, ok)
	assert.Equal(t, "platform", p.Name())
}

func TestPlatform_CreateReportsHostGOOSAndArch(t *testing.T) {
	ctx := types.NewTypeContext()
	p := &Platform{}

	rec, err := p.Create(ctx, nil, source.Nowhere)
	require.NoError(t, err)

	assert.Equal(t, []string{"os", "arch", "numCPU"}, rec.FieldNames())
	assert.Equal(t, runtime.GOOS, rec.Field("os").(*dag.String).Val)
	assert.Equal(t, runtime.GOARCH, rec.Field("arch").(*dag.String).Val)
}

func TestRegistry_LookupMissingReturnsFalse(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Lookup("nope")
	assert.False(t, ok)
}

func TestLoadManifest_ParsesEntriesAndValidatesAgainstRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: platform
  search_hint: builtin
- name: sysctl
  search_hint: /usr/local/lib/fabrique/plugins
`), 0o644))

	entries, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "platform", entries[0].Name)

	reg := Default()
	err = reg.Validate(entries)
	require.Error(t, err)
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "sysctl", notFound.Name)
}
