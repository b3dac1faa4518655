// Package source discovers module files on disk (spec.md §1 names this an
// external collaborator, out of the compiler's core scope, but the CLI
// still needs something to hand the parser real files). It is intentionally
// thin: a recursive walk plus the built-in basics/ prepend from spec.md §6.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// File is one discovered module file: its path (used as the diagnostic
// path through every later pass) and its UTF-8 source text.
type File struct {
	Path string
	Text string
}

// Load walks rootDir recursively for every regular file, then prepends
// every file under basicsDir the same way (spec.md §6: "every file under
// the built-in directory basics/... is loaded and prepended to the user
// module list"). basicsDir may be empty to skip the built-in prepend
// entirely (used by tests exercising user code in isolation).
func Load(rootDir, basicsDir string) ([]File, error) {
	var files []File
	if basicsDir != "" {
		basics, err := walk(basicsDir)
		if err != nil {
			return nil, fmt.Errorf("loading basics/: %w", err)
		}
		files = append(files, basics...)
	}

	user, err := walk(rootDir)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rootDir, err)
	}
	files = append(files, user...)
	return files, nil
}

// walk collects every regular file under dir, sorted by path for
// deterministic ordering, rejecting any file whose bytes are not valid
// UTF-8 (spec.md §6: "Files are UTF-8 encoded").
func walk(dir string) ([]File, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%s: not valid UTF-8", path)
		}
		files = append(files, File{Path: path, Text: string(data)})
	}
	return files, nil
}
