package dag

import (
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Parameter is a formal parameter of a Rule or Function: a name, a
// required type, and an optional default value.
type Parameter struct {
	Name    string
	Ty      *types.Type
	Default Value
}

// Rule is a build action template: a command string, an argument map, a
// parameter list and a description; its result type is `file` or
// `list[file]` depending on how many `file[out]`-tagged parameters it
// declares. Calling a Rule produces a Build.
type Rule struct {
	ValueBase
	Name        string
	Command     string
	Description string
	Arguments   map[string]Value
	Parameters  []*Parameter
	resultType  *types.Type
}

// NewRule constructs a Rule. resultType is `file` if the rule has exactly
// one `file[out]` parameter, `list[file]` if it has more than one, decided
// by the caller (the evaluator, from an `action(...)` expression).
func NewRule(ctx *types.TypeContext, name, command, description string, args map[string]Value,
	params []*Parameter, resultType *types.Type, r source.Range) *Rule {
	return &Rule{
		ValueBase:   ValueBase{Range: r, Ty: ctx.FunctionType(paramTypes(params), resultType)},
		Name:        name,
		Command:     command,
		Description: description,
		Arguments:   args,
		Parameters:  params,
		resultType:  resultType,
	}
}

func paramTypes(params []*Parameter) []*types.Type {
	out := make([]*types.Type, len(params))
	for i, p := range params {
		out[i] = p.Ty
	}
	return out
}

func (r *Rule) HasDescription() bool { return r.Description != "" }

func (r *Rule) ResultType() *types.Type { return r.resultType }

// Call matches positional-then-keyword actual arguments against the
// rule's parameters and produces a Build.
//
// positional are bound to parameters in declaration order; named supplies
// the remaining bindings by keyword; defaults fill whatever neither
// leaves bound.
func (r *Rule) Call(positional []Value, named map[string]Value, at source.Range) (*Build, error) {
	bound := make(map[string]Value, len(r.Parameters))

	for i, p := range r.Parameters {
		if i < len(positional) {
			bound[p.Name] = positional[i]
		}
	}
	for name, v := range named {
		if _, dup := bound[name]; dup {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.ArgumentMismatch, at,
				"argument %q for rule %q supplied both positionally and by keyword", name, r.Name))
		}
		bound[name] = v
	}
	for _, p := range r.Parameters {
		if _, ok := bound[p.Name]; !ok && p.Default != nil {
			bound[p.Name] = p.Default
		}
	}

	inputs := map[string]Value{}
	outputs := map[string]Value{}
	extra := map[string]Value{}

	for _, p := range r.Parameters {
		v, ok := bound[p.Name]
		if !ok {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.MissingArgument, at,
				"missing argument %q for rule %q", p.Name, r.Name))
		}
		if !argumentSatisfies(v.Type(), p.Ty) {
			return nil, errors.Wrap(errors.WrongTypeErrorf(at, p.Ty, v.Type()))
		}

		switch p.Ty.FileTag() {
		case types.TagIn:
			inputs[p.Name] = v
		case types.TagOut:
			outputs[p.Name] = v
		default:
			extra[p.Name] = v
		}
	}

	if len(inputs) == 0 && len(outputs) == 0 {
		return nil, errors.Wrap(errors.Assert(at,
			"rule %q has no file[in]/file[out] parameters; a Build needs at least one", r.Name))
	}

	markReferenced(inputs)
	markReferenced(outputs)

	return &Build{
		ValueBase: ValueBase{Range: at, Ty: r.resultType},
		Rule:      r,
		Inputs:    inputs,
		Outputs:   outputs,
		Arguments: extra,
	}, nil
}

// argumentSatisfies reports whether an actual argument of type actual can
// bind a parameter declared as required: ordinary structural subtyping,
// except that file[in]/file[out] parameters accept any file regardless of
// its own tag. A rule's in/out tagging classifies how a Build uses the
// file; it is not a property the caller's value needs to already carry.
func argumentSatisfies(actual, required *types.Type) bool {
	if required.IsFile() && actual.IsFile() {
		return true
	}
	return actual.IsSubtype(required)
}

func markReferenced(values map[string]Value) {
	for _, v := range values {
		switch f := v.(type) {
		case *File:
			f.MarkReferenced()
		case *List:
			for _, e := range f.Elements {
				if ff, ok := e.(*File); ok {
					ff.MarkReferenced()
				}
			}
		}
	}
}

// Build is a concrete application of a Rule to actual files and extra
// arguments: a node in the DAG. Invariant: at least one input
// or output file, enforced in Rule.Call before a Build is ever
// constructed.
type Build struct {
	ValueBase
	Rule      *Rule
	Inputs    map[string]Value
	Outputs   map[string]Value
	Arguments map[string]Value
	// BuildID is an optional synthetic identifier for backends that need a
	// stable handle beyond the rule+files identity; never used for
	// equality or deduplication.
	BuildID string
}

func (b *Build) HasFields() bool { return true }

func (b *Build) Field(name string) Value {
	switch name {
	case "rule":
		return b.Rule
	default:
		if v, ok := b.Outputs[name]; ok {
			return v
		}
		return b.Inputs[name]
	}
}
