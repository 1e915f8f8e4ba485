package builtins

import (
	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/source"
)

// Type implements `type(expr)`: evaluates expr and reifies its type as a DAG
// value of type `type`.
func Type(e *eval.Evaluator, scope *eval.Scope, args *ast.Arguments, at source.Range) (dag.Value, error) {
	positional := args.Positional()
	if len(positional) != 1 || len(args.Keyword()) != 0 {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
			"type(...) takes exactly one positional argument"))
	}
	v, err := e.Eval(scope, positional[0].Value)
	if err != nil {
		return nil, err
	}
	return dag.NewTypeReference(e.Ctx(), v.Type(), at), nil
}
