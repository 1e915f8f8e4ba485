package ast

import (
	"github.com/fabrique-build/fabrique/internal/source"
)

// Identifier is a bare name, used wherever the grammar binds one: a
// parameter name, a value name, a foreach loop variable.
type Identifier struct {
	Range source.Range
	Name  string
}

func (i *Identifier) Source() source.Range { return i.Range }
func (i *Identifier) Accept(v Visitor) {
	if v.EnterIdentifier(i) {
	}
	v.LeaveIdentifier(i)
}

// TypeReference is a reified, not-yet-resolved reference to a type: the
// parser produces these from `: T` annotations and `type(...)` syntax; the
// evaluator resolves them against a types.TypeContext.
type TypeReference struct {
	Range  source.Range
	Name   string
	Params []*TypeReference
}

func (t *TypeReference) Source() source.Range { return t.Range }
func (t *TypeReference) Accept(v Visitor) {
	if v.EnterTypeReference(t) {
		for _, p := range t.Params {
			p.Accept(v)
		}
	}
	v.LeaveTypeReference(t)
}

// Parameter is a formal parameter in a function, action, or rule
// declaration: a name, a required type reference, and an optional default.
type Parameter struct {
	Range        source.Range
	Name         *Identifier
	Type         *TypeReference
	DefaultValue Expression // nil if required
}

func (p *Parameter) Source() source.Range { return p.Range }
func (p *Parameter) Accept(v Visitor) {
	if v.EnterParameter(p) {
		p.Name.Accept(v)
		if p.Type != nil {
			p.Type.Accept(v)
		}
		if p.DefaultValue != nil {
			p.DefaultValue.Accept(v)
		}
	}
	v.LeaveParameter(p)
}

// Argument is one actual argument in a call: Name is "" for a positional
// argument.
type Argument struct {
	Range source.Range
	Name  string
	Value Expression
}

func (a *Argument) Source() source.Range { return a.Range }
func (a *Argument) Accept(v Visitor) {
	if v.EnterArgument(a) {
		a.Value.Accept(v)
	}
	v.LeaveArgument(a)
}

// Arguments is the ordered actual-argument list of a call: positional
// arguments must precede keyword arguments.
type Arguments struct {
	Range source.Range
	List  []*Argument
}

func (a *Arguments) Source() source.Range { return a.Range }
func (a *Arguments) Accept(v Visitor) {
	if v.EnterArguments(a) {
		for _, arg := range a.List {
			arg.Accept(v)
		}
	}
	v.LeaveArguments(a)
}

// Positional returns the argument values that precede the first keyword
// argument, in order.
func (a *Arguments) Positional() []*Argument {
	var out []*Argument
	for _, arg := range a.List {
		if arg.Name != "" {
			break
		}
		out = append(out, arg)
	}
	return out
}

// Keyword returns the named arguments, in source order.
func (a *Arguments) Keyword() []*Argument {
	var out []*Argument
	for _, arg := range a.List {
		if arg.Name != "" {
			out = append(out, arg)
		}
	}
	return out
}

// Value is a name binding: `name[:T] = expr`. It appears at the top level
// of a file and inside a CompoundExpression's value list.
type Value struct {
	Range source.Range
	Name  *Identifier
	Type  *TypeReference // nil if the type is to be inferred from Body
	Body  Expression
}

func (val *Value) Source() source.Range { return val.Range }
func (val *Value) Accept(v Visitor) {
	if v.EnterValue(val) {
		val.Name.Accept(v)
		if val.Type != nil {
			val.Type.Accept(v)
		}
		val.Body.Accept(v)
	}
	v.LeaveValue(val)
}
