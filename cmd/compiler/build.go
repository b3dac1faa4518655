package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pac-lang/pac/internal/ast"
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/check"
	"github.com/pac-lang/pac/internal/config"
	"github.com/pac-lang/pac/internal/diag"
	"github.com/pac-lang/pac/internal/emit"
	"github.com/pac-lang/pac/internal/optimize"
	"github.com/pac-lang/pac/internal/parser"
	"github.com/pac-lang/pac/internal/source"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func newBuildCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "build <root-dir>",
		Short: "Compile every module under root-dir to the build directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runBuild(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], jsonOut) != 0 {
				return errBuildFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit diagnostics as JSON instead of rendered text")
	return cmd
}

// errBuildFailed signals a non-zero exit without printing anything extra:
// the diagnostics themselves were already rendered to stderr.
var errBuildFailed = fmt.Errorf("build failed")

// runBuild drives the whole pipeline end to end and returns the process
// exit code spec.md §6 specifies: 0 on success, 1 on any error diagnostic.
func runBuild(stdout, stderr io.Writer, rootDir string, jsonOut bool) int {
	cfg, err := config.Load(rootDir)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", red("Error"), err)
		return 1
	}
	switch cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}

	files, err := source.Load(rootDir, resolveBasicsDir())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", red("Error"), err)
		return 1
	}

	var diags []*diag.Report
	mods := map[string]*ast.Module{}
	for _, f := range files {
		mod, errs := parser.Parse(f.Text, f.Path)
		diags = append(diags, errs...)
		if mod != nil {
			mods[f.Path] = mod
		}
	}

	cms, cdiags := canon.CanonicalizeProgram(mods)
	diags = append(diags, cdiags...)

	diags = append(diags, check.NewStubChecker().Check(cms)...)

	oms, odiags := optimize.NewOptimizer().OptimizeProgram(cms)
	diags = append(diags, odiags...)

	if !hasError(diags) {
		width := terminalWidth(cfg.Width)
		buildDir := filepath.Join(rootDir, cfg.BuildDir)
		written, ediags := emit.NewEmitter(rootDir, buildDir).EmitProgram(oms)
		diags = append(diags, ediags...)
		for _, om := range oms {
			fmt.Fprintf(stdout, "compiling %s.pac\n", om.Name.String())
		}
		_ = written
		renderDiagnostics(stderr, diags, jsonOut, width)
	} else {
		renderDiagnostics(stderr, diags, jsonOut, terminalWidth(cfg.Width))
	}

	errs, warns := countBySeverity(diags)
	fmt.Fprintf(stderr, "%s\n", summaryLine(errs, warns))

	if errs > 0 {
		return 1
	}
	return 0
}

func hasError(diags []*diag.Report) bool {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

func countBySeverity(diags []*diag.Report) (errs, warns int) {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return
}

func summaryLine(errs, warns int) string {
	return fmt.Sprintf("%s, %s", pluralize(errs, "error"), pluralize(warns, "warning"))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func renderDiagnostics(w io.Writer, diags []*diag.Report, jsonOut bool, width int) {
	for _, d := range diags {
		if jsonOut {
			s, err := d.ToJSON(true)
			if err == nil {
				fmt.Fprintln(w, s)
			}
			continue
		}
		label := red("error")
		if d.Severity == diag.SeverityWarning {
			label = yellow("warning")
		}
		fmt.Fprintf(w, "%s: %s\n", label, d.Render(width))
	}
}

// terminalWidth clamps a configured width to spec.md §6's
// min(terminal_columns, 80); without a real terminal to query, the
// configured width itself (default 80) already is that minimum.
func terminalWidth(configured int) int {
	if configured <= 0 || configured > 80 {
		return 80
	}
	return configured
}

// resolveBasicsDir searches a small set of candidate locations for the
// built-in basics/ directory, mirroring the teacher's LoadModelsConfig
// multi-path search. Returns "" if none exist, in which case the build
// proceeds without the built-in prepend.
func resolveBasicsDir() string {
	candidates := []string{"basics", "../basics"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "basics"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return ""
}
