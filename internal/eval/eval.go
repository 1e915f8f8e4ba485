package eval

import (
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// Builtin is a name resolved through the evaluator's builtin table rather
// than a Scope binding: `file`, `import`, `fields`, `print`, and the
// `type(expr)` call form reach the evaluator this way (`files(...)` parses
// to its own node instead). evalCall consults the table only when the
// called name is not bound in scope, so a user binding of the same name
// shadows the builtin.
type Builtin func(e *Evaluator, scope *Scope, args *ast.Arguments, at source.Range) (dag.Value, error)

// Evaluator reduces a parsed Fabrique file into a dag.DAG, dispatching
// every ast.Expression variant to a dag.Value. It holds no
// AST state of its own between top-level values: each one is evaluated
// against the accumulating root Scope and handed to the Builder.
type Evaluator struct {
	ctx      *types.TypeContext
	sink     *errors.Sink
	builtins map[string]Builtin
	subdir   string
}

// New constructs an Evaluator. subdir is the directory (relative to the
// build root) that unqualified filenames in this file resolve against.
func New(ctx *types.TypeContext, sink *errors.Sink, builtins map[string]Builtin, subdir string) *Evaluator {
	return &Evaluator{ctx: ctx, sink: sink, builtins: builtins, subdir: subdir}
}

// Ctx returns the shared TypeContext, so a Builtin can construct DAG
// values with the right interned types.
func (e *Evaluator) Ctx() *types.TypeContext { return e.ctx }

// Sink returns the diagnostics sink, so a Builtin (e.g. `import`) that
// runs a nested evaluation can report into the same run.
func (e *Evaluator) Sink() *errors.Sink { return e.sink }

// Subdir returns the directory unqualified filenames in the current file
// resolve against.
func (e *Evaluator) Subdir() string { return e.subdir }

// WithSubdir returns an Evaluator sharing this one's type context, sink,
// and builtins but resolving bare filenames against a different
// directory — used by `import` to evaluate another file relative to its
// own location rather than the importer's.
func (e *Evaluator) WithSubdir(subdir string) *Evaluator {
	return New(e.ctx, e.sink, e.builtins, subdir)
}

// EvalTopLevel evaluates every top-level value binding against a fresh
// root scope, the same way EvalFile does, but returns the bindings
// directly instead of freezing them into a DAG — used by `import` to
// expose another file's top-level bindings as a record without emitting
// that file's Files/Rules/Builds into the DAG except where the importer
// actually references them.
func (e *Evaluator) EvalTopLevel(values []*ast.Value) (order []string, bindings map[string]dag.Value) {
	root := NewScope(nil)
	bindings = map[string]dag.Value{}
	for _, val := range values {
		v, err := e.evalBinding(root, val)
		if err != nil {
			e.report(err)
			continue
		}
		if err := root.Define(val.Name.Name, v, val.Range); err != nil {
			e.report(err)
			continue
		}
		order = append(order, val.Name.Name)
		bindings[val.Name.Name] = v
	}
	return order, bindings
}

// EvalFile evaluates every top-level value binding against a fresh root
// scope and freezes the result into a DAG. A value that fails is reported
// to the sink and skipped, and evaluation goes on with the next one; the
// DAG built from the values that succeeded is still returned so callers that want a
// partial picture (an LSP, `fabrique check`) can still inspect it; the
// run-level "no partial DAG on error" rule is enforced by the
// caller checking sink.HasErrors() before handing the DAG to a backend.
func (e *Evaluator) EvalFile(values []*ast.Value, topLevelTargets []string) *dag.DAG {
	return e.EvalFileWithRoot(values, topLevelTargets, nil)
}

// EvalFileWithRoot behaves like EvalFile but pre-populates the root scope
// with rootBindings (e.g. srcroot/buildroot/args) before evaluating the
// file's own top-level values, so later bindings can reference them. The
// extra bindings are visible to lookup but, unlike the file's own top-level
// values, are not themselves recorded as DAG variables or targets.
func (e *Evaluator) EvalFileWithRoot(values []*ast.Value, topLevelTargets []string, rootBindings map[string]dag.Value) *dag.DAG {
	root := NewScope(nil)
	for name, v := range rootBindings {
		if err := root.Define(name, v, source.Nowhere); err != nil {
			e.report(err)
		}
	}

	builder := dag.NewBuilder(e.ctx)

	for _, val := range values {
		v, err := e.evalBinding(root, val)
		if err != nil {
			e.report(err)
			continue
		}
		if err := root.Define(val.Name.Name, v, val.Range); err != nil {
			e.report(err)
			continue
		}
		builder.Define(val.Name.Name, v)
	}

	return builder.Freeze(topLevelTargets)
}

func (e *Evaluator) evalBinding(scope *Scope, val *ast.Value) (dag.Value, error) {
	v, err := e.Eval(scope, val.Body)
	if err != nil {
		return nil, err
	}
	if val.Type != nil {
		want, err := ResolveType(e.ctx, scope, val.Type)
		if err != nil {
			return nil, err
		}
		if !v.Type().IsSubtype(want) {
			return nil, errors.Wrap(errors.WrongTypeErrorf(val.Range, want, v.Type()))
		}
	}
	return v, nil
}

func (e *Evaluator) report(err error) {
	rep, ok := errors.AsReport(err)
	if !ok {
		rep = errors.Assert(source.Range{}, "%v", err)
	}
	e.sink.Add(rep)
}

// Eval dispatches a single expression to its dag.Value.
func (e *Evaluator) Eval(scope *Scope, expr ast.Expression) (dag.Value, error) {
	switch n := expr.(type) {
	case *ast.BoolLiteral:
		return dag.NewBoolean(e.ctx, n.Value, n.Range), nil
	case *ast.IntLiteral:
		return dag.NewInteger(e.ctx, n.Value, n.Range), nil
	case *ast.StringLiteral:
		return dag.NewString(e.ctx, n.Value, n.Range), nil
	case *ast.FilenameLiteral:
		return dag.NewFile(e.ctx, n.Value, e.subdir, false, types.TagNone, n.Range), nil

	case *ast.NameReference:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.UndefinedName, n.Range,
				"undefined name %q", n.Name))
		}
		return v, nil

	case *ast.ListLiteral:
		return e.evalListLiteral(scope, n)
	case *ast.RecordLiteral:
		return e.evalRecordLiteral(scope, n)
	case *ast.FieldAccess:
		return e.evalFieldAccess(scope, n)
	case *ast.FieldQuery:
		return e.evalFieldQuery(scope, n)
	case *ast.UnaryOp:
		return e.evalUnaryOp(scope, n)
	case *ast.BinaryOp:
		return e.evalBinaryOp(scope, n)
	case *ast.Conditional:
		return e.evalConditional(scope, n)
	case *ast.Foreach:
		return e.evalForeach(scope, n)
	case *ast.FunctionLiteral:
		return e.evalFunctionLiteral(scope, n)
	case *ast.Call:
		return e.evalCall(scope, n)
	case *ast.Action:
		return e.evalAction(scope, n)
	case *ast.FileListExpr:
		return e.evalFileListExpr(scope, n)
	case *ast.TypeDeclExpr:
		return e.evalTypeDeclExpr(scope, n)
	case *ast.CompoundExpression:
		return e.evalCompoundExpression(scope, n)

	default:
		return nil, errors.Wrap(errors.Assert(expr.Source(), "unhandled expression node %T", expr))
	}
}

func (e *Evaluator) evalListLiteral(scope *Scope, n *ast.ListLiteral) (dag.Value, error) {
	elems := make([]dag.Value, len(n.Elements))
	types_ := make([]*types.Type, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.Eval(scope, el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
		types_[i] = v.Type()
	}
	elemType := e.ctx.NilType()
	if len(types_) > 0 {
		elemType = e.ctx.SupertypeAll(types_)
	}
	return dag.NewList(e.ctx, elems, elemType, n.Range), nil
}

func (e *Evaluator) evalRecordLiteral(scope *Scope, n *ast.RecordLiteral) (dag.Value, error) {
	order := make([]string, len(n.Fields))
	fields := make(map[string]dag.Value, len(n.Fields))
	for i, f := range n.Fields {
		v, err := e.evalBinding(scope, f)
		if err != nil {
			return nil, err
		}
		order[i] = f.Name.Name
		fields[f.Name.Name] = v
	}
	return dag.NewRecord(e.ctx, order, fields, n.Range), nil
}

func (e *Evaluator) evalFieldAccess(scope *Scope, n *ast.FieldAccess) (dag.Value, error) {
	base, err := e.Eval(scope, n.Base)
	if err != nil {
		return nil, err
	}
	if !base.HasFields() {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.NoSuchField, n.Range,
			"%s has no fields", base.Type()))
	}
	v := base.Field(n.Field)
	if v == nil {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.NoSuchField, n.Range,
			"%s has no field %q", base.Type(), n.Field))
	}
	return v, nil
}

func (e *Evaluator) evalFieldQuery(scope *Scope, n *ast.FieldQuery) (dag.Value, error) {
	base, err := e.Eval(scope, n.Base)
	if err != nil {
		return nil, err
	}
	if base.HasFields() {
		if v := base.Field(n.Field); v != nil {
			return v, nil
		}
	}
	return e.Eval(scope, n.Default)
}

func (e *Evaluator) evalUnaryOp(scope *Scope, n *ast.UnaryOp) (dag.Value, error) {
	v, err := e.Eval(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.Negate:
		return v.Negate(n.Range)
	case ast.Not:
		return v.Not(n.Range)
	default:
		return nil, errors.Wrap(errors.Assert(n.Range, "unhandled unary operator %v", n.Op))
	}
}

func (e *Evaluator) evalBinaryOp(scope *Scope, n *ast.BinaryOp) (dag.Value, error) {
	lhs, err := e.Eval(scope, n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := e.Eval(scope, n.RHS)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.Add:
		return lhs.Add(rhs, n.Range)
	case ast.Subtract:
		return lhs.Subtract(rhs, n.Range)
	case ast.Multiply:
		return lhs.MultiplyBy(rhs, n.Range)
	case ast.Divide:
		return lhs.DivideBy(rhs, n.Range)
	case ast.Prefix:
		return lhs.PrefixWith(rhs, n.Range)
	case ast.Equal:
		return lhs.Equals(rhs, n.Range)
	case ast.NotEqual:
		eq, err := lhs.Equals(rhs, n.Range)
		if err != nil {
			return nil, err
		}
		return eq.Not(n.Range)
	case ast.And:
		return lhs.And(rhs, n.Range)
	case ast.Or:
		return lhs.Or(rhs, n.Range)
	case ast.Xor:
		return lhs.Xor(rhs, n.Range)
	default:
		return nil, errors.Wrap(errors.Assert(n.Range, "unhandled binary operator %v", n.Op))
	}
}

// evalConditional evaluates both branches unconditionally: Fabrique has no
// side effects, so there is nothing unsafe about reducing the branch that
// won't be selected, and doing so is what lets an incompatible pair of
// branch types (neither a subtype of the other) surface as a WrongType
// error rather than silently picking whichever branch the condition
// happened to select.
func (e *Evaluator) evalConditional(scope *Scope, n *ast.Conditional) (dag.Value, error) {
	cond, err := e.Eval(scope, n.Condition)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*dag.Boolean)
	if !ok {
		return nil, errors.Wrap(errors.WrongTypeErrorf(n.Condition.Source(), e.ctx.BooleanType(), cond.Type()))
	}

	thenVal, err := e.Eval(scope, n.Then)
	if err != nil {
		return nil, err
	}
	elseVal, err := e.Eval(scope, n.Else)
	if err != nil {
		return nil, err
	}

	lub := e.ctx.Supertype(thenVal.Type(), elseVal.Type())
	if lub.IsNil() && !(thenVal.Type().IsNil() && elseVal.Type().IsNil()) {
		return nil, errors.Wrap(errors.WrongTypeErrorf(n.Range, thenVal.Type(), elseVal.Type()))
	}

	if b.Val {
		return thenVal, nil
	}
	return elseVal, nil
}

func (e *Evaluator) evalForeach(scope *Scope, n *ast.Foreach) (dag.Value, error) {
	src, err := e.Eval(scope, n.Source)
	if err != nil {
		return nil, err
	}
	list, ok := src.(*dag.List)
	if !ok {
		return nil, errors.Wrap(errors.SemanticErrorf(errors.NotIterable, n.Source.Source(),
			"%s is not iterable", src.Type()))
	}

	var wantElemType *types.Type
	if n.VarType != nil {
		var err error
		wantElemType, err = ResolveType(e.ctx, scope, n.VarType)
		if err != nil {
			return nil, err
		}
	}

	results := make([]dag.Value, len(list.Elements))
	resultTypes := make([]*types.Type, len(list.Elements))
	for i, elem := range list.Elements {
		if wantElemType != nil && !elem.Type().IsSubtype(wantElemType) {
			return nil, errors.Wrap(errors.WrongTypeErrorf(n.Var.Range, wantElemType, elem.Type()))
		}

		iter := NewScope(scope)
		if err := iter.Define(n.Var.Name, elem, n.Var.Range); err != nil {
			return nil, err
		}
		v, err := e.Eval(iter, n.Body)
		if err != nil {
			return nil, err
		}
		results[i] = v
		resultTypes[i] = v.Type()
	}

	elemType := e.ctx.NilType()
	if len(resultTypes) > 0 {
		elemType = e.ctx.SupertypeAll(resultTypes)
	}
	return dag.NewList(e.ctx, results, elemType, n.Range), nil
}

func (e *Evaluator) evalFunctionLiteral(scope *Scope, n *ast.FunctionLiteral) (dag.Value, error) {
	params, err := e.resolveParameters(scope, n.Params)
	if err != nil {
		return nil, err
	}

	captured := scope
	closureBody := n.Body
	call := func(bound map[string]dag.Value, at source.Range) (dag.Value, error) {
		inner := NewScope(captured)
		for _, p := range params {
			if err := inner.Define(p.Name, bound[p.Name], at); err != nil {
				return nil, err
			}
		}
		return e.Eval(inner, closureBody)
	}

	// Invoke doesn't consult resultType; it's only load-bearing for
	// callers that need a static function type without calling it.
	resultType := e.ctx.NilType()
	if n.ResultType != nil {
		resultType, err = ResolveType(e.ctx, scope, n.ResultType)
		if err != nil {
			return nil, err
		}
	}

	return dag.NewFunction(e.ctx, params, resultType, false, call, n.Range), nil
}

func (e *Evaluator) resolveParameters(scope *Scope, ps []*ast.Parameter) ([]*dag.Parameter, error) {
	out := make([]*dag.Parameter, len(ps))
	seen := map[string]bool{}
	for i, p := range ps {
		if seen[p.Name.Name] {
			return nil, errors.Wrap(errors.SemanticErrorf(errors.DuplicateParameter, p.Range,
				"duplicate parameter %q", p.Name.Name))
		}
		seen[p.Name.Name] = true

		ty, err := ResolveType(e.ctx, scope, p.Type)
		if err != nil {
			return nil, err
		}

		var def dag.Value
		if p.DefaultValue != nil {
			def, err = e.Eval(scope, p.DefaultValue)
			if err != nil {
				return nil, err
			}
			if !def.Type().IsSubtype(ty) {
				return nil, errors.Wrap(errors.WrongTypeErrorf(p.Range, ty, def.Type()))
			}
		}

		out[i] = &dag.Parameter{Name: p.Name.Name, Ty: ty, Default: def}
	}
	return out, nil
}

// evalArguments evaluates an Arguments node into positional values (in
// source order, stopping at the first keyword argument, per the grammar
// invariant that positional arguments precede keyword ones) and a
// name-to-value map for the rest.
func (e *Evaluator) evalArguments(scope *Scope, args *ast.Arguments) ([]dag.Value, map[string]dag.Value, error) {
	positional := make([]dag.Value, 0, len(args.Positional()))
	for _, a := range args.Positional() {
		v, err := e.Eval(scope, a.Value)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, v)
	}
	named := make(map[string]dag.Value, len(args.Keyword()))
	for _, a := range args.Keyword() {
		v, err := e.Eval(scope, a.Value)
		if err != nil {
			return nil, nil, err
		}
		named[a.Name] = v
	}
	return positional, named, nil
}

func (e *Evaluator) evalCall(scope *Scope, n *ast.Call) (dag.Value, error) {
	if ref, ok := n.Function.(*ast.NameReference); ok {
		if _, bound := scope.Lookup(ref.Name); !bound {
			if b, ok := e.builtins[ref.Name]; ok {
				return b(e, scope, n.Args, n.Range)
			}
		}
	}

	fn, err := e.Eval(scope, n.Function)
	if err != nil {
		return nil, err
	}
	positional, named, err := e.evalArguments(scope, n.Args)
	if err != nil {
		return nil, err
	}

	switch callee := fn.(type) {
	case *dag.Function:
		return callee.Invoke(positional, named, n.Range)
	case *dag.Rule:
		return callee.Call(positional, named, n.Range)
	default:
		return nil, errors.Wrap(errors.SemanticErrorf(errors.NotCallable, n.Range,
			"%s is not callable", fn.Type()))
	}
}

// evalAction synthesizes a dag.Rule from an `action(...)` expression. The
// leading CommandArgs are evaluated and joined with single spaces to form
// the command template. `name: Type` entries (typically `in: file[in]`,
// `out: file[out]`) become the Rule's formal Parameters, bound per Build
// at call time; `name = expr` entries are fixed values baked into the
// Rule's Arguments map instead (e.g. `flags = '-O2'`).
func (e *Evaluator) evalAction(scope *Scope, n *ast.Action) (dag.Value, error) {
	parts := make([]string, len(n.CommandArgs))
	for i, ce := range n.CommandArgs {
		v, err := e.Eval(scope, ce)
		if err != nil {
			return nil, err
		}
		parts[i] = stringify(v)
	}
	command := strings.Join(parts, " ")

	description := ""
	if n.Description != nil {
		v, err := e.Eval(scope, n.Description)
		if err != nil {
			return nil, err
		}
		description = stringify(v)
	}

	params, err := e.resolveParameters(scope, n.Params)
	if err != nil {
		return nil, err
	}

	args := map[string]dag.Value{}
	for _, a := range n.Args.List {
		v, err := e.Eval(scope, a.Value)
		if err != nil {
			return nil, err
		}
		args[a.Name] = v
	}

	outCount := 0
	for _, p := range params {
		if p.Ty.FileTag() == types.TagOut {
			outCount++
		}
	}
	resultType := e.ctx.FileType()
	switch {
	case outCount == 1:
		resultType = e.ctx.OutputFileType()
	case outCount > 1:
		resultType = e.ctx.ListOf(e.ctx.OutputFileType())
	}

	name := "rule"
	if fields := strings.Fields(command); len(fields) > 0 {
		name = fields[0]
	}

	return dag.NewRule(e.ctx, name, command, description, args, params, resultType, n.Range), nil
}

func stringify(v dag.Value) string {
	switch s := v.(type) {
	case *dag.String:
		return s.Val
	case *dag.File:
		return s.FullName()
	default:
		return v.Type().String()
	}
}

func (e *Evaluator) evalFileListExpr(scope *Scope, n *ast.FileListExpr) (dag.Value, error) {
	generated := false
	for _, a := range n.Args.List {
		v, err := e.Eval(scope, a.Value)
		if err != nil {
			return nil, err
		}
		switch a.Name {
		case "generated":
			b, ok := v.(*dag.Boolean)
			if !ok {
				return nil, errors.Wrap(errors.WrongTypeErrorf(a.Range, e.ctx.BooleanType(), v.Type()))
			}
			generated = b.Val
		}
	}

	var elems []dag.Value
	for _, nameExpr := range n.Names {
		name, ok := nameExpr.(*ast.FilenameLiteral)
		if !ok {
			return nil, errors.Wrap(errors.Assert(nameExpr.Source(), "files(...) entry is not a filename literal"))
		}
		if !hasGlobMeta(name.Value) {
			elems = append(elems, dag.NewFile(e.ctx, name.Value, e.subdir, generated, types.TagNone, name.Range))
			continue
		}
		matches, err := e.expandGlob(name.Value, name.Range)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			elems = append(elems, dag.NewFile(e.ctx, m, e.subdir, generated, types.TagNone, name.Range))
		}
	}

	return dag.NewList(e.ctx, elems, e.ctx.FileType(), n.Range), nil
}

func hasGlobMeta(name string) bool {
	return strings.ContainsAny(name, "*?[")
}

// expandGlob matches pattern (a doublestar pattern, possibly containing
// `**`) against the files actually present under the current source
// directory, returning matched paths relative to that directory in
// sorted order for determinism.
func (e *Evaluator) expandGlob(pattern string, at source.Range) ([]string, error) {
	dir := e.subdir
	if dir == "" {
		dir = "."
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, errors.Wrap(errors.OSErrorf(at, "invalid glob pattern %q: %v", pattern, err))
	}
	sort.Strings(matches)
	return matches, nil
}

func (e *Evaluator) evalTypeDeclExpr(scope *Scope, n *ast.TypeDeclExpr) (dag.Value, error) {
	ty, err := ResolveType(e.ctx, scope, n.Ref)
	if err != nil {
		return nil, err
	}
	ref := dag.NewTypeReference(e.ctx, ty, n.Range)
	if err := scope.Define(n.Name, ref, n.Range); err != nil {
		return nil, err
	}
	return ref, nil
}

func (e *Evaluator) evalCompoundExpression(scope *Scope, n *ast.CompoundExpression) (dag.Value, error) {
	inner := NewScope(scope)
	for _, val := range n.Values {
		v, err := e.evalBinding(inner, val)
		if err != nil {
			return nil, err
		}
		if err := inner.Define(val.Name.Name, v, val.Range); err != nil {
			return nil, err
		}
	}
	return e.Eval(inner, n.Result)
}
