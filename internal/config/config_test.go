package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pac-lang/pac/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pac.yaml"), []byte("build_dir: out/\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "out/", cfg.BuildDir)
	require.Equal(t, "js", cfg.Target)
	require.Equal(t, 80, cfg.Width)
}

func TestLoadRejectsInvalidColor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pac.yaml"), []byte("color: purple\n"), 0o644))

	_, err := config.Load(dir)
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pac.yaml"), []byte("build_dir: [unterminated\n"), 0o644))

	_, err := config.Load(dir)
	require.Error(t, err)
}
