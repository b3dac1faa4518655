package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/source"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoadWalksRecursivelyInSortedOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.pac", "module B [];")
	writeFile(t, root, "nested/a.pac", "module A [];")

	files, err := source.Load(root, "")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, filepath.Join(root, "b.pac"), files[0].Path)
	require.Equal(t, filepath.Join(root, "nested/a.pac"), files[1].Path)
}

func TestLoadPrependsBasics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Main.pac", "module Main [];")

	basics := t.TempDir()
	writeFile(t, basics, "Basics.pac", "module Basics [];")

	files, err := source.Load(root, basics)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, filepath.Join(basics, "Basics.pac"), files[0].Path)
	require.Equal(t, filepath.Join(root, "Main.pac"), files[1].Path)
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.pac"), []byte{0xff, 0xfe}, 0o644))

	_, err := source.Load(root, "")
	require.Error(t, err)
}
