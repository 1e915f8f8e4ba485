package plugin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestEntry is one line of a plugins.yaml search manifest: the name a
// Fabrique file imports via `plugin:<name>` and a hint for where a real
// loader would look for its shared library. Nothing loads from that hint;
// Registry.Validate checks that every entry names a registered plugin.
// internal/runconfig does not read this manifest.
type ManifestEntry struct {
	Name       string `yaml:"name"`
	SearchHint string `yaml:"search_hint"`
}

// LoadManifest reads a plugins.yaml file listing the plugins a project
// expects to be available.
func LoadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin manifest: %w", err)
	}

	var entries []ManifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse plugin manifest %s: %w", path, err)
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("plugin manifest %s: entry missing name", path)
		}
	}
	return entries, nil
}

// Validate reports an ErrNotFound for the first manifest entry whose name
// isn't registered, or nil if every entry resolves.
func (r *Registry) Validate(entries []ManifestEntry) error {
	for _, e := range entries {
		if _, ok := r.Lookup(e.Name); !ok {
			return &ErrNotFound{Name: e.Name}
		}
	}
	return nil
}
