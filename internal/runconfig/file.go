package runconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of an optional fabrique.yaml: project-level
// defaults a run falls back to when not otherwise overridden.
type fileConfig struct {
	Args        map[string]string `yaml:"args"`
	PluginPaths []string          `yaml:"plugin_paths"`
	OutputDir   string            `yaml:"output_dir"`
	Backends    []string          `yaml:"backends"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// applyTo merges fc into cfg: fabrique.yaml values fill in project
// defaults, overridden in turn by any caller-supplied argument overrides
// applied after applyTo runs.
func (fc *fileConfig) applyTo(cfg *Config) {
	for k, v := range fc.Args {
		cfg.Args[k] = v
	}
	if len(fc.PluginPaths) > 0 {
		cfg.PluginPaths = append(fc.PluginPaths, cfg.PluginPaths...)
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if len(fc.Backends) > 0 {
		cfg.Backends = fc.Backends
	}
}
