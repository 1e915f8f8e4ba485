package plugin

import (
	"runtime"

	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Platform exercises the plugin registry end to end without a dynamic
// shared-library loader: Create returns a record of host-probe values
// computed from the running process rather than a real sysctl call.
type Platform struct{}

func (p *Platform) Name() string { return "platform" }

func (p *Platform) Create(ctx *types.TypeContext, args map[string]dag.Value, at source.Range) (*dag.Record, error) {
	order := []string{"os", "arch", "numCPU"}
	fields := map[string]dag.Value{
		"os":     dag.NewString(ctx, runtime.GOOS, at),
		"arch":   dag.NewString(ctx, runtime.GOARCH, at),
		"numCPU": dag.NewInteger(ctx, runtime.NumCPU(), at),
	}
	return dag.NewRecord(ctx, order, fields, at), nil
}
