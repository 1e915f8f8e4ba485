// Package runconfig resolves the inputs a top-level run needs beyond the
// root source file itself: argument values, plugin search directories, the
// output directory, and which backends to run. It holds the config struct
// that the command-line front end in cmd/fabrique populates; argument
// parsing itself lives there.
package runconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// pluginPathEnv names a PATH-list-separated set of directories to search,
// highest priority first.
const pluginPathEnv = "FABRIQUE_PLUGIN_PATH"

// manifestName is the optional per-project config file Load looks for
// beside the root source file.
const manifestName = "fabrique.yaml"

// Config is everything a run needs beyond parsing the root file itself.
type Config struct {
	RootFile    string
	Args        map[string]string
	PluginPaths []string
	OutputDir   string
	Backends    []string
}

// Load resolves a Config for rootFile: argument overrides passed in by a
// caller take precedence over fabrique.yaml, which takes precedence over
// environment variables and built-in defaults.
func Load(rootFile string, argOverrides map[string]string) (*Config, error) {
	root, err := filepath.Abs(rootFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RootFile:    root,
		Args:        map[string]string{},
		PluginPaths: pluginSearchPaths(),
		OutputDir:   filepath.Join(filepath.Dir(root), "build"),
		Backends:    []string{"debug"},
	}

	manifestPath := filepath.Join(filepath.Dir(root), manifestName)
	if fc, err := loadFileConfig(manifestPath); err == nil {
		fc.applyTo(cfg)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	for k, v := range argOverrides {
		cfg.Args[k] = v
	}

	return cfg, nil
}

// pluginSearchPaths mirrors the environment-variable-then-default-directory
// pattern used elsewhere in the ecosystem for this kind of search path:
// FABRIQUE_PLUGIN_PATH entries first, then a per-user plugin directory.
func pluginSearchPaths() []string {
	var paths []string

	if env := os.Getenv(pluginPathEnv); env != "" {
		for _, p := range strings.Split(env, string(os.PathListSeparator)) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".fabrique", "plugins"))
	}

	return paths
}
