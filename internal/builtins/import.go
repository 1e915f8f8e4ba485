package builtins

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/parser"
	"github.com/fabrique-build/fabrique/internal/plugin"
	"github.com/fabrique-build/fabrique/internal/source"
)

// pluginScheme prefixes a plugin name in import('plugin:<name>'), per the
// plugin contract: the registry, not the filesystem, resolves it.
const pluginScheme = "plugin:"

// Import returns the `import(path)` builtin bound to reg. A path of the
// form `plugin:<name>` instantiates a registered Plugin instead of parsing
// a file. Otherwise it parses and evaluates another file's top-level
// bindings, relative to the importing file's directory unless path is
// absolute, and returns them as a record. The imported file's own
// Files/Rules/Builds only reach the DAG if the importer actually references
// a binding that holds them.
func Import(reg *plugin.Registry) eval.Builtin {
	return func(e *eval.Evaluator, scope *eval.Scope, args *ast.Arguments, at source.Range) (dag.Value, error) {
		positional := args.Positional()
		if len(positional) < 1 {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
				"import(...) takes a path argument"))
		}
		pathVal, err := e.Eval(scope, positional[0].Value)
		if err != nil {
			return nil, err
		}
		path, ok := pathVal.(*dag.String)
		if !ok {
			return nil, errors.Wrap(errors.WrongTypeErrorf(positional[0].Range, e.Ctx().StringType(), pathVal.Type()))
		}

		if name, isPlugin := strings.CutPrefix(path.Val, pluginScheme); isPlugin {
			return importPlugin(e, scope, reg, name, args, at)
		}

		if len(positional) != 1 || len(args.Keyword()) != 0 {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
				"import(...) takes exactly one positional argument (path)"))
		}

		full := path.Val
		if !filepath.IsAbs(full) {
			full = filepath.Join(e.Subdir(), full)
		}

		src, readErr := os.ReadFile(full)
		if readErr != nil {
			return nil, errors.Wrap(errors.OSErrorf(at, "import %q: %v", path.Val, readErr))
		}

		values, parseSink := parser.ParseFile(src, full)
		for _, rep := range parseSink.Reports() {
			e.Sink().Add(rep)
		}
		if parseSink.HasErrors() {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.InternalInvariant, at,
				"import %q: file has parse errors", path.Val))
		}

		sub := e.WithSubdir(filepath.Dir(full))
		order, bindings := sub.EvalTopLevel(values)

		return dag.NewRecord(e.Ctx(), order, bindings, at), nil
	}
}

func importPlugin(e *eval.Evaluator, scope *eval.Scope, reg *plugin.Registry, name string, args *ast.Arguments, at source.Range) (dag.Value, error) {
	p, ok := reg.Lookup(name)
	if !ok {
		return nil, errors.Wrap(errors.OSErrorf(at, "import %q: %v", pluginScheme+name, &plugin.ErrNotFound{Name: name}))
	}

	kwargs := map[string]dag.Value{}
	for _, kw := range args.Keyword() {
		v, err := e.Eval(scope, kw.Value)
		if err != nil {
			return nil, err
		}
		kwargs[kw.Name] = v
	}

	return p.Create(e.Ctx(), kwargs, at)
}
