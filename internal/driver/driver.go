// Package driver sequences a full run: parse the root file, evaluate it
// into a DAG, and hand the DAG to the configured backends. It is the
// concrete shape behind the top-level API: a single Run(RunOptions)
// entry point, with the only panic/recover boundary in the codebase around
// it, catching internal invariant violations that slipped past ordinary
// error returns.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fabrique-build/fabrique/internal/backend"
	"github.com/fabrique-build/fabrique/internal/builtins"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/parser"
	"github.com/fabrique-build/fabrique/internal/plugin"
	"github.com/fabrique-build/fabrique/internal/runconfig"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// RunOptions configures a single run.
type RunOptions struct {
	Config   *runconfig.Config
	Backends []backend.Backend
	Registry *plugin.Registry // defaults to plugin.Default() if nil
}

// Result is what a run produces: either a DAG (if Errors contains nothing
// at Error severity) or a set of diagnostics explaining why not.
type Result struct {
	DAG    *dag.DAG
	Errors []*errors.Report
}

// Run parses opts.Config.RootFile, evaluates it with srcroot/buildroot/args
// bound in the root scope, freezes the resulting DAG, and runs it through
// every configured backend. No partial DAG is written to a backend unless
// evaluation completed without Error-severity diagnostics.
func Run(opts RunOptions) (result *Result) {
	sink := errors.NewSink()
	result = &Result{}

	defer func() {
		if r := recover(); r != nil {
			sink.Add(errors.Assert(source.Nowhere, "internal error: %v", r))
			result.Errors = sink.Errors()
			result.DAG = nil
		}
	}()

	cfg := opts.Config
	src, err := os.ReadFile(cfg.RootFile)
	if err != nil {
		sink.Add(errors.OSErrorf(source.Nowhere, "read %q: %v", cfg.RootFile, err))
		result.Errors = sink.Errors()
		return result
	}

	values, parseSink := parser.ParseFile(src, cfg.RootFile)
	for _, rep := range parseSink.Reports() {
		sink.Add(rep)
	}
	if parseSink.HasErrors() {
		result.Errors = sink.Errors()
		return result
	}

	reg := opts.Registry
	if reg == nil {
		reg = plugin.Default()
	}

	ctx := types.NewTypeContext()
	e := eval.New(ctx, sink, builtins.Default(reg), filepath.Dir(cfg.RootFile))

	root := reservedBindings(ctx, cfg)
	d := e.EvalFileWithRoot(values, nil, root)

	if sink.HasErrors() {
		result.Errors = sink.Errors()
		return result
	}

	result.DAG = d
	result.Errors = sink.Errors()

	if err := emit(d, opts.Backends, cfg.OutputDir, sink); err != nil {
		sink.Add(errors.OSErrorf(source.Nowhere, "%v", err))
		result.Errors = sink.Errors()
	}

	return result
}

func emit(d *dag.DAG, backends []backend.Backend, outputDir string, sink *errors.Sink) error {
	if len(backends) == 0 {
		return nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", outputDir, err)
	}
	for _, b := range backends {
		path := filepath.Join(outputDir, b.DefaultFilename())
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %q: %w", path, err)
		}
		err = b.Process(d, f, sink)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("backend %q: %w", b.Name(), err)
		}
		if closeErr != nil {
			return fmt.Errorf("close %q: %w", path, closeErr)
		}
	}
	return nil
}

// reservedBindings constructs the root-scope values for srcroot, buildroot,
// and args: the three reserved identifiers a run injects before evaluating
// any user binding.
func reservedBindings(ctx *types.TypeContext, cfg *runconfig.Config) map[string]dag.Value {
	srcroot, _ := filepath.Abs(filepath.Dir(cfg.RootFile))
	buildroot, _ := filepath.Abs(cfg.OutputDir)

	argOrder := make([]string, 0, len(cfg.Args))
	argFields := make(map[string]dag.Value, len(cfg.Args))
	for name := range cfg.Args {
		argOrder = append(argOrder, name)
	}
	sort.Strings(argOrder)
	for _, name := range argOrder {
		argFields[name] = dag.NewString(ctx, cfg.Args[name], source.Nowhere)
	}

	return map[string]dag.Value{
		"srcroot":   dag.NewString(ctx, srcroot, source.Nowhere),
		"buildroot": dag.NewString(ctx, buildroot, source.Nowhere),
		"args":      dag.NewRecord(ctx, argOrder, argFields, source.Nowhere),
	}
}
