package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommand(t *testing.T) {
	assert.NotNil(t, batchCmd)
	assert.Equal(t, "batch", batchCmd.Name())
	for _, name := range []string{
		"format", "output", "workers", "recursive", "include", "exclude",
		"progress", "quiet", "stats", "page-midpoint-y",
	} {
		assert.NotNil(t, batchCmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "true", batchCmd.Flags().Lookup("progress").DefValue)
}

func TestBatchCommand_Run(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(testGeometryJSON), 0o600))
	}
	outFile := filepath.Join(t.TempDir(), "results.txt")

	_, err := runCommand(t, "batch", dir, "--quiet", "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# "+filepath.Join(dir, "a.json"))
	assert.Contains(t, string(data), "stand_pouch")
}

func TestBatchCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(testGeometryJSON), 0o600))
	outFile := filepath.Join(t.TempDir(), "results.csv")

	_, err := runCommand(t, "batch", dir, "--quiet", "--include", "*.json",
		"--format", "csv", "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "envelope_type")
	assert.Contains(t, string(data), "stand_pouch")
}

func TestBatchCommand_NoFiles(t *testing.T) {
	_, err := runCommand(t, "batch", t.TempDir(), "--quiet")
	assert.Error(t, err)
}
