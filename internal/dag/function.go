package dag

import (
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Evaluator invokes a Function body against bound argument values,
// returning the function's result or an evaluation error. The evaluator
// package supplies the concrete closure; dag stays free of any dependency
// on eval.Scope/ast.
type Evaluator func(args map[string]Value, at source.Range) (Value, error)

// Function is a closure over a parameter list and a captured evaluation
// environment, realized here as an opaque Evaluator callback.
type Function struct {
	ValueBase
	Parameters          []*Parameter
	AllowExtraArguments bool
	call                Evaluator
}

// NewFunction constructs a Function value.
func NewFunction(ctx *types.TypeContext, params []*Parameter, resultType *types.Type,
	allowExtra bool, call Evaluator, r source.Range) *Function {
	return &Function{
		ValueBase:           ValueBase{Range: r, Ty: ctx.FunctionType(paramTypes(params), resultType)},
		Parameters:          params,
		AllowExtraArguments: allowExtra,
		call:                call,
	}
}

// Invoke matches positional-then-keyword actuals against the function's
// parameters (positional bind first, in order; keyword arguments fill the
// rest; defaults fill whatever remains unbound) and invokes the
// underlying Evaluator.
func (f *Function) Invoke(positional []Value, named map[string]Value, at source.Range) (Value, error) {
	bound := make(map[string]Value, len(f.Parameters))

	for i, p := range f.Parameters {
		if i < len(positional) {
			bound[p.Name] = positional[i]
		}
	}
	for name, v := range named {
		if !f.AllowExtraArguments && !hasParam(f.Parameters, name) {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.UnexpectedKeyword, at,
				"unexpected keyword argument %q", name))
		}
		if _, dup := bound[name]; dup {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
				"argument %q supplied both positionally and by keyword", name))
		}
		bound[name] = v
	}
	for _, p := range f.Parameters {
		if _, ok := bound[p.Name]; !ok && p.Default != nil {
			bound[p.Name] = p.Default
		}
	}
	for _, p := range f.Parameters {
		v, ok := bound[p.Name]
		if !ok {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.MissingArgument, at,
				"missing argument %q", p.Name))
		}
		if !argumentSatisfies(v.Type(), p.Ty) {
			return nil, errors.Wrap(errors.WrongTypeErrorf(at, p.Ty, v.Type()))
		}
	}

	return f.call(bound, at)
}

func hasParam(params []*Parameter, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
