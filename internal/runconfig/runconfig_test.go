package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoManifestPresent(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(``), 0o644))

	cfg, err := Load(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"debug"}, cfg.Backends)
	assert.Equal(t, filepath.Join(dir, "build"), cfg.OutputDir)
	assert.Empty(t, cfg.Args)
}

func TestLoad_MergesManifestThenArgOverrides(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(``), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fabrique.yaml"), []byte(`
args:
  optimize: "true"
output_dir: out
backends:
  - debug
`), 0o644))

	cfg, err := Load(root, map[string]string{"optimize": "false", "verbose": "1"})
	require.NoError(t, err)

	assert.Equal(t, "false", cfg.Args["optimize"], "caller override wins over manifest")
	assert.Equal(t, "1", cfg.Args["verbose"])
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestPluginSearchPaths_HonorsEnvVar(t *testing.T) {
	t.Setenv(pluginPathEnv, "/a/b"+string(os.PathListSeparator)+"/c/d")
	paths := pluginSearchPaths()
	require.GreaterOrEqual(t, len(paths), 2)
	assert.Equal(t, "/a/b", paths[0])
	assert.Equal(t, "/c/d", paths[1])
}
