package builtins

import (
	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// File implements `file(path, subdir=…, generated=…)`: path resolution
// follows the File lifecycle — an absolute path stays absolute,
// otherwise it resolves relative to the current source directory (or to
// subdir, if given).
func File(e *eval.Evaluator, scope *eval.Scope, args *ast.Arguments, at source.Range) (dag.Value, error) {
	positional := args.Positional()
	if len(positional) != 1 {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
			"file(...) takes exactly one positional argument (path), got %d", len(positional)))
	}
	pathVal, err := e.Eval(scope, positional[0].Value)
	if err != nil {
		return nil, err
	}
	path, ok := pathVal.(*dag.String)
	if !ok {
		return nil, errors.Wrap(errors.WrongTypeErrorf(positional[0].Range, e.Ctx().StringType(), pathVal.Type()))
	}

	subdir := e.Subdir()
	generated := false
	for _, kw := range args.Keyword() {
		v, err := e.Eval(scope, kw.Value)
		if err != nil {
			return nil, err
		}
		switch kw.Name {
		case "subdir":
			s, ok := v.(*dag.String)
			if !ok {
				return nil, errors.Wrap(errors.WrongTypeErrorf(kw.Range, e.Ctx().StringType(), v.Type()))
			}
			subdir = s.Val
		case "generated":
			b, ok := v.(*dag.Boolean)
			if !ok {
				return nil, errors.Wrap(errors.WrongTypeErrorf(kw.Range, e.Ctx().BooleanType(), v.Type()))
			}
			generated = b.Val
		default:
			return nil, errors.Wrap(errors.SemanticErrorf(errors.UnexpectedKeyword, kw.Range,
				"file(...) has no argument %q", kw.Name))
		}
	}

	return dag.NewFile(e.Ctx(), path.Val, subdir, generated, types.TagNone, at), nil
}
