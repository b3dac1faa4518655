package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/parser"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session against the parser and canonicalizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(cmd.OutOrStdout())
			return nil
		},
	}
}

// runRepl is a thin line-edited loop: each line becomes one `let`
// statement in its own synthetic single-module program, parsed and
// canonicalized in isolation, then its parsed form is pretty-printed back
// alongside any canonicalization diagnostics. There is no evaluator here
// and no state carried between lines — the REPL's job is inspecting
// parsing and name resolution, not execution (SPEC_FULL.md §1.4).
func runRepl(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".pac_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, green("pac repl"))
	fmt.Fprintln(out, "Type an expression or `let name = ...;`. Ctrl-D to quit.")

	n := 0
	for {
		input, err := line.Prompt("pac> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		n++
		evalReplLine(out, input, n)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func evalReplLine(out io.Writer, input string, n int) {
	stmt := input
	if !strings.HasPrefix(stmt, "let ") && !strings.HasPrefix(stmt, "type ") {
		stmt = fmt.Sprintf("let __it%d = %s", n, stmt)
	}
	if !strings.HasSuffix(stmt, ";") {
		stmt += ";"
	}

	src := fmt.Sprintf("module Repl [];\n%s\n", stmt)
	mod, errs := parser.Parse(src, "<repl>")
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(out, "%s: %s\n", red("parse error"), e.Title)
		}
		return
	}
	fmt.Fprintln(out, ast.Print(mod))

	_, diags := canon.CanonicalizeProgram(map[string]*ast.Module{"<repl>": mod})
	for _, d := range diags {
		fmt.Fprintf(out, "%s: %s\n", yellow(d.Severity.String()), d.Title)
	}
}
