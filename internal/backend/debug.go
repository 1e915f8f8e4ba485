package backend

import (
	"fmt"
	"io"
	"sort"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
)

// Debug is a trivial backend for tests: it writes a deterministic,
// human-readable dump of a DAG's files, rules, builds, and top-level
// bindings. It emits no real build-file syntax and is never meant to feed
// a real build tool.
type Debug struct{}

func (Debug) Name() string            { return "debug" }
func (Debug) DefaultFilename() string { return "fabrique.debug" }

func (Debug) Process(d *dag.DAG, out io.Writer, sink *errors.Sink) error {
	w := &errWriter{w: out}

	fmt.Fprintf(w, "files (%d):\n", len(d.Files))
	for _, f := range d.Files {
		fmt.Fprintf(w, "  %s generated=%t\n", f.FullName(), f.Generated())
	}

	fmt.Fprintf(w, "rules (%d):\n", len(d.Rules))
	for _, r := range d.Rules {
		fmt.Fprintf(w, "  %s: %s\n", r.Name, r.Command)
	}

	fmt.Fprintf(w, "builds (%d):\n", len(d.Builds))
	for _, b := range d.Builds {
		fmt.Fprintf(w, "  %s: in=%s out=%s\n", b.Rule.Name, fileNames(b.Inputs), fileNames(b.Outputs))
	}

	for _, name := range sortedKeys(d.Variables) {
		fmt.Fprintf(w, "variable %s\n", name)
	}
	for _, name := range sortedKeys(d.Targets) {
		fmt.Fprintf(w, "target %s\n", name)
	}

	return w.err
}

func fileNames(files map[string]dag.Value) string {
	names := make([]string, 0, len(files))
	for _, v := range files {
		if f, ok := v.(*dag.File); ok {
			names = append(names, f.FullName())
		}
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}

func sortedKeys(m map[string]dag.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// errWriter lets Process write with fmt.Fprintf calls throughout while only
// checking for a write failure once, at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
