package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/vast"
)

func TestLoadColors_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	colors, err := loadColors("")
	require.NoError(t, err)
	assert.Equal(t, vast.DefaultColors, colors)
}

func TestLoadColors_FileOverlaysDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "colors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("class: \"#123456\"\n"), 0o644))

	colors, err := loadColors(path)
	require.NoError(t, err)
	assert.Equal(t, "#123456", colors[vast.TypeClass])
	assert.Equal(t, vast.DefaultColors[vast.TypeFunction], colors[vast.TypeFunction])
}

func TestLoadColors_MalformedFileFails(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "colors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("class: [unclosed"), 0o644))

	_, err := loadColors(path)
	require.Error(t, err)
}

func TestRoot_NoArgsPrintsUsageWithoutError(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRoot_SummarizesProjectToStdout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("export function foo() {}"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{dir})

	err := rootCmd.Execute()
	require.NoError(t, err)

	var env vast.Envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, vast.FormatName, env.Format)
	assert.Equal(t, vast.FormatVersion, env.Version)
	require.NotNil(t, env.Tree)
	assert.Equal(t, vast.TypeProgram, env.Tree.Type)
}
