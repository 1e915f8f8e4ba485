package builtins

import (
	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/source"
)

// Fields implements `fields(record)`: the list of a record's field names,
// in declaration order.
func Fields(e *eval.Evaluator, scope *eval.Scope, args *ast.Arguments, at source.Range) (dag.Value, error) {
	positional := args.Positional()
	if len(positional) != 1 || len(args.Keyword()) != 0 {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
			"fields(...) takes exactly one positional argument"))
	}
	v, err := e.Eval(scope, positional[0].Value)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(*dag.Record)
	if !ok {
		return nil, errors.Wrap(errors.WrongTypeErrorf(positional[0].Range, e.Ctx().RecordType(nil), v.Type()))
	}

	names := rec.FieldNames()
	elems := make([]dag.Value, len(names))
	for i, name := range names {
		elems[i] = dag.NewString(e.Ctx(), name, at)
	}
	return dag.NewList(e.Ctx(), elems, e.Ctx().StringType(), at), nil
}
