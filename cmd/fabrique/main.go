// Command fabrique is the CLI front end over internal/driver: a thin
// cobra command tree translating flags into a runconfig.Config and
// colourizing the diagnostics a run produces.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fabrique-build/fabrique/internal/ast"
	"github.com/fabrique-build/fabrique/internal/backend"
	"github.com/fabrique-build/fabrique/internal/driver"
	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/parser"
	"github.com/fabrique-build/fabrique/internal/plugin"
	"github.com/fabrique-build/fabrique/internal/repl"
	"github.com/fabrique-build/fabrique/internal/runconfig"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

func main() {
	root := &cobra.Command{
		Use:   "fabrique",
		Short: "Evaluate a build description into a backend build file",
	}
	root.SilenceUsage = true

	root.AddCommand(newRunCmd(), newCheckCmd(), newReplCmd(), newPrintASTCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var outDir string
	var backends []string
	var args map[string]string

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a file and write backend output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			cfg, err := runconfig.Load(cmdArgs[0], args)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.OutputDir = outDir
			}
			if len(backends) > 0 {
				cfg.Backends = backends
			}

			result := driver.Run(driver.RunOptions{
				Config:   cfg,
				Backends: resolveBackends(cfg.Backends, cmd.ErrOrStderr()),
				Registry: plugin.Default(),
			})
			printReports(result.Errors, cmd.ErrOrStderr())
			if result.DAG == nil {
				return fmt.Errorf("run failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d rule(s), %d build(s) written to %s\n",
				green("✓"), len(result.DAG.Rules), len(result.DAG.Builds), cfg.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: <source dir>/build)")
	cmd.Flags().StringSliceVar(&backends, "backend", nil, "backend(s) to run (default: debug)")
	cmd.Flags().StringToStringVar(&args, "arg", nil, "key=value argument override, repeatable")

	return cmd
}

func newCheckCmd() *cobra.Command {
	var args map[string]string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Evaluate a file and report diagnostics without writing backend output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			cfg, err := runconfig.Load(cmdArgs[0], args)
			if err != nil {
				return err
			}

			result := driver.Run(driver.RunOptions{Config: cfg, Registry: plugin.Default()})
			printReports(result.Errors, cmd.ErrOrStderr())
			if result.DAG == nil {
				return fmt.Errorf("check failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s no errors\n", green("✓"))
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&args, "arg", nil, "key=value argument override, repeatable")

	return cmd
}

func newReplCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			repl.New(plugin.Default(), dir).Start(cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory unqualified filenames resolve against (default: current directory)")

	return cmd
}

func newPrintASTCmd() *cobra.Command {
	var useColor bool

	cmd := &cobra.Command{
		Use:   "print-ast <file>",
		Short: "Parse a file and pretty-print its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			src, err := os.ReadFile(cmdArgs[0])
			if err != nil {
				return err
			}

			values, sink := parser.ParseFile(src, cmdArgs[0])
			printReports(sink.Reports(), cmd.ErrOrStderr())
			if sink.HasErrors() {
				return fmt.Errorf("parse failed")
			}

			var printer ast.Printer
			if useColor {
				printer = ast.NewANSIPrinter(cmd.OutOrStdout())
			} else {
				printer = ast.NewPlainPrinter(cmd.OutOrStdout())
			}
			for _, v := range values {
				v.PrettyPrint(printer, 0)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useColor, "color", false, "colourize output")

	return cmd
}

// resolveBackends maps configured backend names to their implementation.
// Only "debug" exists today; an unrecognized name is a warning, not a
// fatal error, so a config listing a not-yet-implemented backend doesn't
// block the ones that do exist.
func resolveBackends(names []string, warnOut io.Writer) []backend.Backend {
	var out []backend.Backend
	for _, name := range names {
		switch name {
		case "debug":
			out = append(out, backend.Debug{})
		default:
			fmt.Fprintf(warnOut, "%s unknown backend %q, skipping\n", yellow("warning:"), name)
		}
	}
	return out
}

// printReports renders every diagnostic, colourized by severity: errors
// red, warnings yellow, everything else (notes) cyan.
func printReports(reports []*errors.Report, out io.Writer) {
	for _, r := range reports {
		line := r.Format()
		switch r.Severity {
		case errors.Error:
			fmt.Fprintln(out, red(line))
		case errors.Warning:
			fmt.Fprintln(out, yellow(line))
		default:
			fmt.Fprintln(out, cyan(line))
		}
	}
}
