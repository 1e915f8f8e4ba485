// Package builtins implements the names the evaluator resolves outside
// ordinary scope lookup: `file`, `import`, `fields`, `print`, and the
// `type(expr)` call form. `files(...)` is not here — it parses to its
// own AST node and is evaluated directly by internal/eval, since its
// argument list is bareword filenames rather than expressions.
package builtins

import (
	"github.com/fabrique-build/fabrique/internal/eval"
	"github.com/fabrique-build/fabrique/internal/plugin"
)

// Default returns the builtin registry a fresh Evaluator should be
// constructed with. reg backs import('plugin:<name>'); pass plugin.Default()
// for the registry pre-seeded with this build's bundled plugins.
func Default(reg *plugin.Registry) map[string]eval.Builtin {
	return map[string]eval.Builtin{
		"file":   File,
		"import": Import(reg),
		"fields": Fields,
		"print":  Print,
		"type":   Type,
	}
}
