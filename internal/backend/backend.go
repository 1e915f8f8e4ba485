// Package backend defines the contract a build-file emitter implements: a
// Backend is asked to Process a finished DAG into an output stream. No
// concrete Ninja/Make emitter lives here — only the interface and a trivial
// debug backend exercising it end to end.
package backend

import (
	"io"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
)

// Backend consumes a finished DAG and writes build-file output to out. It
// must be pure: no side effects beyond writing to out and reporting
// diagnostics to sink. DefaultFilename names the output file a backend
// would write to when the caller didn't ask for a specific path.
type Backend interface {
	Name() string
	DefaultFilename() string
	Process(d *dag.DAG, out io.Writer, sink *errors.Sink) error
}
