package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/fabrique-build/fabrique/internal/eval"
)

// commandNames drives both the tab-completer and :help, kept in one place
// so the two can't drift apart.
var commandNames = []string{
	":help", ":type", ":import", ":history", ":clear", ":reset", ":quit",
}

// HandleCommand dispatches a `:`-prefixed line. It changes r.scope only
// through :reset, which replaces it, and :import, which binds its result
// as 'it' through evalLine; the other commands leave it untouched.
func (r *REPL) HandleCommand(cmd string, out io.Writer) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ":help", ":h":
		r.printHelp(out)

	case ":type", ":t":
		if len(parts) < 2 {
			fmt.Fprintln(out, "usage: :type <expression>")
			return
		}
		r.showType(strings.Join(parts[1:], " "), out)

	case ":import", ":i":
		if len(parts) < 2 {
			fmt.Fprintln(out, "usage: :import <path>")
			return
		}
		r.evalLine(fmt.Sprintf("%s = import(%q);", resultName, parts[1]), out)

	case ":history":
		r.showHistory(out)

	case ":clear":
		fmt.Fprint(out, "\033[H\033[2J")

	case ":reset":
		r.scope = eval.NewScope(nil)
		fmt.Fprintln(out, yellow("scope cleared"))

	default:
		fmt.Fprintf(out, "unknown command %q; try :help\n", parts[0])
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :help, :h             show this message")
	fmt.Fprintln(out, "  :type, :t <expr>      show an expression's type without binding it")
	fmt.Fprintln(out, "  :import, :i <path>    evaluate import(path) and bind it as 'it'")
	fmt.Fprintln(out, "  :history              list lines evaluated this session")
	fmt.Fprintln(out, "  :clear                clear the terminal")
	fmt.Fprintln(out, "  :reset                discard every binding made so far")
	fmt.Fprintln(out, "  :quit, :q, :exit      leave the REPL")
}

// showType evaluates expr in a throwaway child scope and reports only its
// type, leaving r.scope untouched — unlike a plain line, `:type` must not
// bind a name even transiently.
func (r *REPL) showType(expr string, out io.Writer) {
	val, rep := r.parseLine(expr + ";")
	if rep != nil {
		fmt.Fprintf(out, "%s: %s\n", red(rep.Severity), rep.Message)
		return
	}
	v, err := r.eval.Eval(eval.NewScope(r.scope), val.Body)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	fmt.Fprintln(out, v.Type().String())
}

func (r *REPL) showHistory(out io.Writer) {
	for i, line := range r.history {
		fmt.Fprintf(out, "%4d  %s\n", i+1, line)
	}
}
