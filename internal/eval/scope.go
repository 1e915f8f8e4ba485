// Package eval is the single-pass evaluator that reduces a parsed
// Fabrique AST into DAG values: a lexical Scope chain plus one big
// expression-dispatch switch operating on structurally typed DAG values.
package eval

import (
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
)

// Scope maps names to already-evaluated DAG values, forming a lexical
// stack with an explicit parent reference rather than a single global
// table, so function calls and foreach iterations can push/pop an
// independent frame without disturbing the caller's bindings.
type Scope struct {
	parent *Scope
	vars   map[string]dag.Value
}

// NewScope constructs a scope with the given parent (nil for the root).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]dag.Value{}}
}

// DefinedLocally reports whether name is bound in this scope specifically
// (not an ancestor), used both to enforce "bound at most once per scope"
// and by the REPL to print a shadowing hint.
func (s *Scope) DefinedLocally(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Define binds name to v in this scope. It is an error to redefine a name
// already bound locally; shadowing an outer scope's binding is allowed.
func (s *Scope) Define(name string, v dag.Value, at source.Range) error {
	if s.DefinedLocally(name) {
		return errors.Wrap(errors.SemanticErrorf(errors.DuplicateBinding, at,
			"%q is already bound in this scope", name))
	}
	s.vars[name] = v
	return nil
}

// Lookup walks outward from s to the first scope binding name.
func (s *Scope) Lookup(name string) (dag.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
