package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeMain(t *testing.T, dir, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.pac"), []byte(src), 0o644))
}

func TestRunBuildEmitsJSAndExitsZero(t *testing.T) {
	dir := t.TempDir()
	writeMain(t, dir, `module Main [];
let main = println "hi";
`)

	var stdout, stderr bytes.Buffer
	code := runBuild(&stdout, &stderr, dir, false)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "compiling Main.pac")

	js, err := os.ReadFile(filepath.Join(dir, "build/js/Main.js"))
	require.NoError(t, err)
	require.Contains(t, string(js), "console.log")
}

func TestRunBuildExitsOneOnParseError(t *testing.T) {
	dir := t.TempDir()
	writeMain(t, dir, `module Main [];
let broken =
`)

	var stdout, stderr bytes.Buffer
	code := runBuild(&stdout, &stderr, dir, false)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "error")
}

func TestRunBuildRespectsConfiguredBuildDir(t *testing.T) {
	dir := t.TempDir()
	writeMain(t, dir, `module Main [];
let value = 1;
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pac.yaml"), []byte("build_dir: out/\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := runBuild(&stdout, &stderr, dir, false)
	require.Equal(t, 0, code)
	require.FileExists(t, filepath.Join(dir, "out/Main.js"))
}

func TestRunBuildJSONDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeMain(t, dir, `module Main [];
let broken =
`)

	var stdout, stderr bytes.Buffer
	code := runBuild(&stdout, &stderr, dir, true)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), `"schema"`)
}
