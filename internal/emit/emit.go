package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pac-lang/pac/internal/diag"
	"github.com/pac-lang/pac/internal/optimize"
)

// Emitter writes one JS file per module to a build directory, recreating
// that directory first (spec.md §4.5, §5).
type Emitter struct {
	Root     string // the configured build root BuildDir must stay under
	BuildDir string
}

func NewEmitter(root, buildDir string) *Emitter {
	return &Emitter{Root: root, BuildDir: buildDir}
}

// EmitProgram recreates e.BuildDir and writes every module in mods to it,
// returning the paths written. mods is keyed by source path purely to
// match the shape every other pipeline stage uses; only the module's own
// Name decides its output filename.
func (e *Emitter) EmitProgram(mods map[string]*optimize.OptimizedModule) ([]string, []*diag.Report) {
	if err := guardBuildDir(e.Root, e.BuildDir); err != nil {
		return nil, []*diag.Report{emitFailure("", err)}
	}
	if err := os.RemoveAll(e.BuildDir); err != nil {
		return nil, []*diag.Report{emitFailure(e.BuildDir, err)}
	}
	if err := os.MkdirAll(e.BuildDir, 0o755); err != nil {
		return nil, []*diag.Report{emitFailure(e.BuildDir, err)}
	}

	var written []string
	var diags []*diag.Report
	for _, om := range mods {
		path := filepath.Join(e.BuildDir, om.Name.String()+".js")
		src := Source(om)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			diags = append(diags, emitFailure(path, err))
			continue
		}
		written = append(written, path)
	}
	return written, diags
}

// guardBuildDir refuses to recreate dir unless it resolves to an absolute
// path genuinely contained within root: spec.md §5 requires the emitter to
// refuse to proceed if the path is not a subdirectory of the configured
// build root, since recreation is destructive (os.RemoveAll). Resolving
// both to absolute paths first means `../foo`, `../../etc`, and an
// absolute path outside root are all caught, not just the exact `..`/`.`/
// `/`/empty cases a bare filepath.Clean misses.
func guardBuildDir(root, dir string) error {
	clean := filepath.Clean(dir)
	if clean == "" || clean == "." || clean == "/" || clean == ".." {
		return fmt.Errorf("refusing to recreate unsafe build directory %q", dir)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving build root %q: %w", root, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving build directory %q: %w", dir, err)
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to recreate build directory %q: not a subdirectory of build root %q", dir, root)
	}
	return nil
}

func emitFailure(path string, err error) *diag.Report {
	return diag.New(diag.CodeEmitFailed, diag.PhaseEmit, "emit failed", path, nil,
		diag.Text(err.Error())).WithSeverity(diag.SeverityError)
}
