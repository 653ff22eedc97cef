package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const buttonCatalog = `[
  {
    "name": "Button",
    "argTypes": {
      "label": {"control": {"type": "text"}, "type": "text", "default": "Click me"},
      "count": {"control": {"type": "number"}, "type": "number", "default": "0"}
    }
  }
]`

// execute runs the root command with the given stdin and arguments, capturing
// combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_GeneratesFromCatalogFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	catalogPath := filepath.Join(tempDir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(buttonCatalog), 0600))
	outDir := filepath.Join(tempDir, "stories")

	// --- Act ---
	out, err := execute(t, "", catalogPath, "--out", outDir)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out, "Wrote 1 stories files")

	src, readErr := os.ReadFile(filepath.Join(outDir, "Button.stories.js"))
	require.NoError(t, readErr)
	require.Contains(t, string(src), `title: "Components/Button"`)
	require.Contains(t, string(src), `globalThis.wasmbook.render_story("Button", args)`)
	require.Contains(t, string(src), `"label": "Click me"`)
}

func TestRun_ReadsCatalogFromStdin(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	outDir := filepath.Join(t.TempDir(), "stories")

	// --- Act ---
	_, err := execute(t, buttonCatalog, "--out", outDir)

	// --- Assert ---
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(outDir, "Button.stories.js"))
	require.NoError(t, statErr, "the stories file should have been written")
}

func TestRun_ConfigControlsGlobalAndTitles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	outDir := filepath.Join(tempDir, "stories")
	configPath := filepath.Join(tempDir, "gen.hcl")
	config := `
out_dir      = "` + strings.ReplaceAll(outDir, `\`, `\\`) + `"
title_prefix = "Widgets"
global       = "mybook"
import       = "./wasm_exec_shim.js"
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0600))

	// --- Act ---
	_, err := execute(t, buttonCatalog, "--config", configPath)

	// --- Assert ---
	require.NoError(t, err)
	src, readErr := os.ReadFile(filepath.Join(outDir, "Button.stories.js"))
	require.NoError(t, readErr)
	require.Contains(t, string(src), `title: "Widgets/Button"`)
	require.Contains(t, string(src), "globalThis.mybook.render_story")
	require.Contains(t, string(src), `import './wasm_exec_shim.js';`)
}

func TestRun_RejectsEmptyCatalog(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := execute(t, "[]", "--out", t.TempDir())

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "catalog is empty")
}

func TestRun_RejectsMalformedCatalog(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := execute(t, "{not json", "--out", t.TempDir())

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed catalog")
}

func TestRun_MissingCatalogFile(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := execute(t, "", filepath.Join(t.TempDir(), "nope.json"))

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "read catalog")
}
