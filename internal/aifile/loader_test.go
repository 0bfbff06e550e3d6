package aifile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

const geometryJSON = `{
  "paths": [
    {"d": "M0 0 L283.46 0 L283.46 425.2 L0 425.2 Z", "stroke": "#ff0000",
     "box": {"x": 0, "y": 0, "width": 283.46, "height": 425.2}}
  ],
  "texts": [
    {"content": "スタンドパウチ", "position": {"x": 10, "y": 20}}
  ]
}`

func TestLoadGeometryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.geometry.json")
	require.NoError(t, os.WriteFile(path, []byte(geometryJSON), 0o600))

	page, err := LoadGeometryJSON(path)
	require.NoError(t, err)

	require.Len(t, page.Paths, 1)
	assert.Equal(t, "#ff0000", page.Paths[0].Stroke)
	assert.InDelta(t, 283.46, page.Paths[0].Box.Width, 1e-9)
	require.Len(t, page.Texts, 1)
	assert.Equal(t, "スタンドパウチ", page.Texts[0].Content)
}

func TestLoadGeometryJSON_Missing(t *testing.T) {
	_, err := LoadGeometryJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadGeometryJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadGeometryJSON(path)
	assert.Error(t, err)
}

func TestMergeSidecar_ReplacesOutline(t *testing.T) {
	dir := t.TempDir()
	sidecar := filepath.Join(dir, "design.ai.geometry.json")
	require.NoError(t, os.WriteFile(sidecar, []byte(geometryJSON), 0o600))

	page := &geometry.Page{
		Paths: []geometry.PathElement{
			{D: "M0 0 L595.28 0 L595.28 841.89 L0 841.89 Z",
				Box: geometry.BoundingBox{Width: 595.28, Height: 841.89}},
		},
		Texts: []geometry.TextElement{{Content: "from pdf"}},
	}

	require.NoError(t, mergeSidecar(page, sidecar))

	// Sidecar paths supersede the synthesized artboard outline.
	require.Len(t, page.Paths, 1)
	assert.InDelta(t, 283.46, page.Paths[0].Box.Width, 1e-9)
	// Texts merge instead.
	require.Len(t, page.Texts, 2)
	assert.Equal(t, "from pdf", page.Texts[0].Content)
	assert.Equal(t, "スタンドパウチ", page.Texts[1].Content)
}

func TestMergeSidecar_MissingIsNoOp(t *testing.T) {
	page := &geometry.Page{
		Paths: []geometry.PathElement{{Box: geometry.BoundingBox{Width: 100, Height: 100}}},
	}
	require.NoError(t, mergeSidecar(page, filepath.Join(t.TempDir(), "absent.geometry.json")))
	assert.Len(t, page.Paths, 1)
}

func TestMergeSidecar_Malformed(t *testing.T) {
	dir := t.TempDir()
	sidecar := filepath.Join(dir, "design.ai.geometry.json")
	require.NoError(t, os.WriteFile(sidecar, []byte("???"), 0o600))

	page := &geometry.Page{}
	assert.Error(t, mergeSidecar(page, sidecar))
}

func TestLoadPage_RejectsInvalidBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ai")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := LoadPage(path)
	assert.Error(t, err)
}

func TestLoadPage_MissingFile(t *testing.T) {
	_, err := LoadPage(filepath.Join(t.TempDir(), "absent.ai"))
	assert.Error(t, err)
}
