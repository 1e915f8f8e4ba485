// Package plugin implements the registry half of the plugin contract: a
// plugin exposes a name and a Create(args) that returns a record; a global
// registry maps names to instances, and import('plugin:<name>') locates and
// instantiates one at evaluation time. Loading a plugin from a shared
// library by name is out of scope; plugins reach the registry by
// registering themselves at process startup, the way the bundled
// platform plugin does.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Plugin produces a record of values for `import('plugin:<name>')`.
type Plugin interface {
	Name() string
	Create(ctx *types.TypeContext, args map[string]dag.Value, at source.Range) (*dag.Record, error)
}

// Registry maps plugin names to instances. NewRegistry returns an empty
// one; Default returns one pre-seeded with the bundled plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: map[string]Plugin{}}
}

// Register adds a plugin, replacing any existing plugin with the same name.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[p.Name()] = p
}

// Lookup returns the plugin registered under name, if any.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrNotFound reports that no plugin is registered under the given name.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no plugin registered as %q", e.Name)
}

// Default returns a registry pre-seeded with the plugins this build ships.
func Default() *Registry {
	r := NewRegistry()
	r.Register(&Platform{})
	return r
}
