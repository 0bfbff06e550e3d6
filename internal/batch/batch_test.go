package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGeometryFile(t *testing.T, dir, name string, widthPt float64) string {
	t.Helper()
	content := fmt.Sprintf(`{
  "paths": [
    {"d": "M0 0 L%f 0 L%f 425.2 L0 425.2 Z", "stroke": "#ff0000",
     "box": {"x": 0, "y": 0, "width": %f, "height": 425.2}}
  ],
  "texts": [{"content": "スタンドパウチ", "position": {"x": 10, "y": 20}}]
}`, widthPt, widthPt, widthPt)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()
	writeGeometryFile(t, dir, "a.json", 283.46)
	writeGeometryFile(t, dir, "b.json", 425.2)

	cfg := DefaultConfig()
	cfg.Quiet = true
	cfg.Workers = 2

	result, err := ProcessBatch([]string{dir}, cfg)
	require.NoError(t, err)

	require.Len(t, result.Reports, 2)
	assert.Zero(t, result.Failed)
	for i, rep := range result.Reports {
		require.NotNil(t, rep, "report %d", i)
		assert.Positive(t, rep.Specs.Dimensions.Width)
	}
	assert.Equal(t, 2, result.WorkerCount)
}

func TestProcessBatch_FailedPages(t *testing.T) {
	dir := t.TempDir()
	writeGeometryFile(t, dir, "good.json", 283.46)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`{"paths":[],"texts":[]}`), 0o600))

	cfg := DefaultConfig()
	cfg.Quiet = true

	result, err := ProcessBatch([]string{dir}, cfg)
	require.NoError(t, err)

	require.Len(t, result.Reports, 2)
	assert.Equal(t, 1, result.Failed)

	var nilCount int
	for _, rep := range result.Reports {
		if rep == nil {
			nilCount++
		}
	}
	assert.Equal(t, 1, nilCount)
}

func TestProcessBatch_NoFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quiet = true

	_, err := ProcessBatch([]string{t.TempDir()}, cfg)
	assert.Error(t, err)
}
