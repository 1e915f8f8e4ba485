package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/builtins"
	"github.com/fabrique-build/fabrique/internal/dag"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/parser"
)

// Eval parses and evaluates one line of input against the REPL's
// persistent scope. A line shaped `name = expr;` binds name; any other
// expression is bound under the name "it" instead, so it can still be
// referenced from the next line. Binding happens in a fresh child scope
// pushed onto r.scope, so a name reused across lines shadows its earlier
// value instead of tripping the "bound at most once per scope" rule.
// Eval reports parse and evaluation failures as *errors.Report rather
// than panicking or returning a bare error, mirroring how a run-level
// diagnostic sink collects them.
func (r *REPL) Eval(line string) (name string, value dag.Value, shadowed bool, rep *errors.Report) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, false, nil
	}
	if !strings.HasSuffix(line, ";") {
		line += ";"
	}

	val, rep := r.parseLine(line)
	if rep != nil {
		return "", nil, false, rep
	}

	child := eval.NewScope(r.scope)
	v, err := r.evalBinding(child, val)
	if err != nil {
		rep, _ = errors.AsReport(err)
		return "", nil, false, rep
	}

	_, shadowed = r.scope.Lookup(val.Name.Name)
	if err := child.Define(val.Name.Name, v, val.Range); err != nil {
		rep, _ = errors.AsReport(err)
		return "", nil, false, rep
	}
	r.scope = child

	return val.Name.Name, v, shadowed, nil
}

// parseLine parses line as a single top-level value binding. A line with
// no `name = ` prefix isn't valid top-level syntax on its own, so it's
// retried wrapped as `it = (line);` — the same fallback a calculator-style
// REPL needs for a bare expression.
func (r *REPL) parseLine(line string) (*ast.Value, *errors.Report) {
	values, sink := parser.ParseFile([]byte(line), "<repl>")
	if len(values) == 1 {
		if sink.HasErrors() {
			return nil, sink.Errors()[0]
		}
		return values[0], nil
	}

	// len(values) == 0: parseValue failed structurally (no leading
	// `name =`), so this wasn't a binding at all — retry as a bare
	// expression instead of surfacing that parse's error.
	wrapped := fmt.Sprintf("%s = (%s);", resultName, strings.TrimSuffix(strings.TrimSpace(line), ";"))
	values, sink = parser.ParseFile([]byte(wrapped), "<repl>")
	if sink.HasErrors() {
		return nil, sink.Errors()[0]
	}
	return values[0], nil
}

// evalBinding mirrors eval.Evaluator.evalBinding, which isn't exported:
// evaluate the body, and if the binding carries an explicit type
// annotation, check the result against it.
func (r *REPL) evalBinding(scope *eval.Scope, val *ast.Value) (dag.Value, error) {
	v, err := r.eval.Eval(scope, val.Body)
	if err != nil {
		return nil, err
	}
	if val.Type != nil {
		want, err := eval.ResolveType(r.ctx, scope, val.Type)
		if err != nil {
			return nil, err
		}
		if !v.Type().IsSubtype(want) {
			return nil, errors.Wrap(errors.WrongTypeErrorf(val.Range, want, v.Type()))
		}
	}
	return v, nil
}

// evalLine evaluates a line and prints its result or diagnostic to out.
func (r *REPL) evalLine(line string, out io.Writer) {
	name, v, shadowed, rep := r.Eval(line)
	if rep != nil {
		fmt.Fprintf(out, "%s: %s\n", red(rep.Severity), rep.Message)
		return
	}
	if v == nil {
		return
	}
	fmt.Fprintf(out, "%s %s = %s\n", cyan(name+":"), v.Type(), builtins.FormatValue(v))
	if shadowed {
		fmt.Fprintln(out, dim("  (shadowing outer binding)"))
	}
}
