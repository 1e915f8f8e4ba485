package builtins

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/source"
)

// Print implements `print(value...)`: pretty-prints each argument to
// stdout during evaluation and returns nil. It never fails — a value
// this function can't specifically format just falls back to its type
// name, the same way stringify in internal/eval does for command-string
// interpolation.
func Print(e *eval.Evaluator, scope *eval.Scope, args *ast.Arguments, at source.Range) (dag.Value, error) {
	parts := make([]string, len(args.List))
	for i, a := range args.List {
		v, err := e.Eval(scope, a.Value)
		if err != nil {
			return nil, err
		}
		parts[i] = FormatValue(v)
	}
	fmt.Fprintln(os.Stdout, strings.Join(parts, " "))
	return dag.NewNil(e.Ctx(), at), nil
}

// FormatValue renders a DAG value for human consumption, one case per
// concrete variant. Exported so internal/repl can render evaluation
// results the same way `print(...)` does.
func FormatValue(v dag.Value) string {
	switch val := v.(type) {
	case *dag.Boolean:
		return fmt.Sprintf("%t", val.Val)
	case *dag.Integer:
		return fmt.Sprintf("%d", val.Val)
	case *dag.String:
		return fmt.Sprintf("%q", val.Val)
	case *dag.File:
		return val.FullName()
	case *dag.List:
		elems := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			elems[i] = FormatValue(e)
		}
		return "[" + strings.Join(elems, " ") + "]"
	case *dag.Record:
		names := append([]string(nil), val.FieldNames()...)
		sort.Strings(names)
		fields := make([]string, len(names))
		for i, name := range names {
			fields[i] = fmt.Sprintf("%s = %s", name, FormatValue(val.Field(name)))
		}
		return "{ " + strings.Join(fields, "; ") + " }"
	case *dag.Rule:
		return fmt.Sprintf("rule %s(%s)", val.Name, val.Command)
	case *dag.Build:
		return fmt.Sprintf("build(%s)", val.Rule.Name)
	case *dag.TypeReference:
		return val.Referent.String()
	case *dag.Function:
		return fmt.Sprintf("function: %s", val.Type())
	case *dag.Nil:
		return "nil"
	default:
		return v.Type().String()
	}
}
