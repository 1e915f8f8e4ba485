// Package repl implements an interactive read-eval-print loop over a
// persistent evaluation scope: each line is parsed as a top-level value
// binding (or wrapped into one if it's a bare expression) and evaluated
// against the same running scope chain, so later lines can reference
// names bound by earlier ones.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/fabrique-build/fabrique/internal/builtins"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/plugin"
	"github.com/fabrique-build/fabrique/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

const historyFileName = ".fabrique_history"

// resultName is the binding a bare expression (one with no `name =`
// prefix) is given, so it can still be looked up by later lines with `it`.
const resultName = "it"

// REPL holds the state that persists across lines: the type context,
// evaluator, and the tip of a scope chain that grows by one child scope
// per successfully evaluated line (so a name re-bound on a later line
// shadows rather than collides with its earlier definition, per
// eval.Scope's "bound at most once per scope" rule).
type REPL struct {
	ctx     *types.TypeContext
	eval    *eval.Evaluator
	scope   *eval.Scope
	history []string
}

// New constructs a REPL rooted at subdir (the directory unqualified
// filenames typed at the prompt resolve against) with reg backing
// import('plugin:<name>'). Each line gets its own evaluation; the sink
// passed to the Evaluator only matters for builtins (like `import`) that
// need somewhere to report nested diagnostics, since Eval surfaces a
// line's own failure directly rather than through the sink.
func New(reg *plugin.Registry, subdir string) *REPL {
	ctx := types.NewTypeContext()
	return &REPL{
		ctx:   ctx,
		eval:  eval.New(ctx, errors.NewSink(), builtins.Default(reg), subdir),
		scope: eval.NewScope(nil),
	}
}

func (r *REPL) getPrompt() string {
	return "fab> "
}

// Start runs the interactive loop until EOF or a `:quit`-family command.
// Lines are read, and prompts written, through the liner terminal on the
// process's own stdin/stdout; in is not read. The banner, results, and
// diagnostics are written to out.
// History persists across sessions at a temp file, the same way a
// shell's line editor would.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyPath := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(input string) []string {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		var matches []string
		for _, cmd := range commandNames {
			if strings.HasPrefix(cmd, input) {
				matches = append(matches, cmd)
			}
		}
		return matches
	})

	fmt.Fprintf(out, "%s\n", bold("Fabrique"))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit."))
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt(r.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !strings.HasPrefix(input, ":") {
			input = r.readContinuation(line, input, out)
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if isQuitCommand(input) {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.HandleCommand(input, out)
			continue
		}

		r.evalLine(input, out)
	}

	if f, err := os.Create(historyPath); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// readContinuation keeps reading lines, joined with newlines, until input
// ends with the statement terminator `;` — a bare expression or binding
// spanning multiple lines (a long record literal, say) otherwise fails to
// parse as a single top-level value.
func (r *REPL) readContinuation(line *liner.State, input string, out io.Writer) string {
	var lines []string
	lines = append(lines, input)
	for !strings.HasSuffix(strings.TrimSpace(input), ";") {
		cont, err := line.Prompt("...> ")
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			break
		}
		input = cont
		lines = append(lines, cont)
	}
	return strings.Join(lines, "\n")
}

func isQuitCommand(input string) bool {
	cmd := strings.Fields(input)[0]
	return cmd == ":quit" || cmd == ":q" || cmd == ":exit"
}
