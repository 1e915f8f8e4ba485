package eval

import (
	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/types"
)

// ResolveType turns a parsed ast.TypeReference into an interned
// types.Type. Primitive and parameterized forms (`file[in]`, `list[T]`,
// `maybe[T]`) are built directly through ctx; any other name is looked up
// in scope as a `type Name = ...;` alias bound to a *dag.TypeReference.
func ResolveType(ctx *types.TypeContext, scope *Scope, ref *ast.TypeReference) (*types.Type, error) {
	switch ref.Name {
	case "nil":
		return ctx.NilType(), nil
	case "bool":
		return ctx.BooleanType(), nil
	case "int":
		return ctx.IntegerType(), nil
	case "string":
		return ctx.StringType(), nil
	case "type":
		return ctx.TypeType(), nil
	case "file":
		if len(ref.Params) == 0 {
			return ctx.FileType(), nil
		}
		switch ref.Params[0].Name {
		case "in":
			return ctx.InputFileType(), nil
		case "out":
			return ctx.OutputFileType(), nil
		default:
			return nil, errors.Wrap(errors.SemanticErrorf(errors.TypeMismatch, ref.Range,
				"unknown file tag %q", ref.Params[0].Name))
		}
	case "list":
		if len(ref.Params) != 1 {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.TypeMismatch, ref.Range,
				"list requires exactly one type parameter"))
		}
		elem, err := ResolveType(ctx, scope, ref.Params[0])
		if err != nil {
			return nil, err
		}
		return ctx.ListOf(elem), nil
	case "maybe":
		if len(ref.Params) != 1 {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.TypeMismatch, ref.Range,
				"maybe requires exactly one type parameter"))
		}
		elem, err := ResolveType(ctx, scope, ref.Params[0])
		if err != nil {
			return nil, err
		}
		return ctx.MaybeOf(elem), nil
	default:
		v, ok := scope.Lookup(ref.Name)
		if !ok {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.UndefinedName, ref.Range,
				"undefined type name %q", ref.Name))
		}
		tref, ok := v.(*dag.TypeReference)
		if !ok {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.TypeMismatch, ref.Range,
				"%q is not a type alias", ref.Name))
		}
		return tref.Referent, nil
	}
}
