package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fukuro/internal/confidence"
	"github.com/MeKo-Tech/fukuro/internal/extract"
	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

func testPage() geometry.Page {
	return geometry.Page{
		Paths: []geometry.PathElement{
			{
				D:      "M0 0 L283.46 0 L283.46 425.2 L0 425.2 Z",
				Stroke: "#ff0000",
				Box:    geometry.BoundingBox{Width: 283.46, Height: 425.2},
			},
			{D: "M0 0 H260", Box: geometry.BoundingBox{X: 10, Y: 40, Width: 260, Height: 1}},
			{D: "M0 0 H260", Box: geometry.BoundingBox{X: 10, Y: 43, Width: 260, Height: 1}},
		},
		Texts: []geometry.TextElement{
			{Content: "スタンドパウチ W100×H150", Position: geometry.Point{X: 10, Y: 10}},
			{Content: "PET12/AL7/PE80", Position: geometry.Point{X: 10, Y: 30}},
		},
	}
}

func TestBuilder_Defaults(t *testing.T) {
	pl, err := NewBuilder().Build()
	require.NoError(t, err)
	require.NotNil(t, pl)

	cfg := pl.Config()
	assert.InDelta(t, 0.352778, cfg.Extract.PointsToMM, 1e-9)
	assert.InDelta(t, 1.0, cfg.Confidence.Weights.Sum(), 1e-9)
}

func TestBuilder_InvalidPointsToMM(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extract.PointsToMM = 0

	_, err := NewBuilder().WithConfig(cfg).Build()
	assert.Error(t, err)
}

func TestBuilder_InvalidWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Confidence.Weights.Size = 0.5

	_, err := NewBuilder().WithConfig(cfg).Build()
	assert.Error(t, err)
}

func TestBuilder_WithPageMidpoint(t *testing.T) {
	pl, err := NewBuilder().WithPageMidpoint(420).Build()
	require.NoError(t, err)
	assert.InDelta(t, 420, pl.Config().Extract.PageMidpointY, 1e-9)

	// Non-positive values keep the default.
	pl, err = NewBuilder().WithPageMidpoint(0).Build()
	require.NoError(t, err)
	assert.InDelta(t, 300, pl.Config().Extract.PageMidpointY, 1e-9)
}

func TestBuilder_WithWorkers(t *testing.T) {
	pl, err := NewBuilder().WithWorkers(7).Build()
	require.NoError(t, err)
	assert.Equal(t, 7, pl.Config().Parallel.MaxWorkers)
}

func TestAnalyze(t *testing.T) {
	pl, err := NewBuilder().Build()
	require.NoError(t, err)

	report, err := pl.Analyze(testPage())
	require.NoError(t, err)
	require.NotNil(t, report)

	d := report.Specs.Dimensions
	assert.Equal(t, extract.StandPouch, d.EnvelopeType)
	assert.InDelta(t, 100.0, d.Width, 1e-9)
	assert.InDelta(t, 150.0, d.Height, 1e-9)
	assert.True(t, d.HasDieLine)
	assert.NotNil(t, report.Specs.Processing.Zipper)
	assert.Len(t, report.Specs.Material.Layers, 3)

	assert.Greater(t, report.Confidence.Overall, 80.0)
	assert.LessOrEqual(t, report.Confidence.Overall, 100.0)
}

func TestAnalyze_EmptyPage(t *testing.T) {
	pl, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = pl.Analyze(geometry.Page{})
	assert.ErrorIs(t, err, extract.ErrNoOutline)
}

// Analyzing the same page twice yields identical specs and scores; the
// pipeline holds no cross-call state.
func TestAnalyze_Deterministic(t *testing.T) {
	pl, err := NewBuilder().Build()
	require.NoError(t, err)

	first, err := pl.Analyze(testPage())
	require.NoError(t, err)
	second, err := pl.Analyze(testPage())
	require.NoError(t, err)

	assert.Equal(t, first.Specs, second.Specs)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestScore_Rescore(t *testing.T) {
	pl, err := NewBuilder().Build()
	require.NoError(t, err)

	page := testPage()
	report, err := pl.Analyze(page)
	require.NoError(t, err)

	// Manually supplying the material improves its field score.
	specs := report.Specs
	specs.Material.Source = extract.SourceManual
	rescored := pl.Score(&specs, page)
	assert.GreaterOrEqual(t, rescored.Breakdown.MaterialStructure,
		report.Confidence.Breakdown.MaterialStructure)
}

func TestReport_Render(t *testing.T) {
	pl, err := NewBuilder().Build()
	require.NoError(t, err)

	report, err := pl.Analyze(testPage())
	require.NoError(t, err)

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"envelope_type": "stand_pouch"`)

	yamlBytes, err := report.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(yamlBytes), "envelope_type: stand_pouch")

	summary := report.Summary()
	assert.Contains(t, summary, "stand_pouch")
	assert.Contains(t, summary, "100.0 x 150.0 mm")
	assert.Contains(t, summary, "PET12/AL7/PE80")
}

func TestDefaultConfigComposition(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, extract.DefaultConfig(), cfg.Extract)
	assert.Equal(t, confidence.DefaultConfig(), cfg.Confidence)
	assert.Positive(t, cfg.Parallel.MaxWorkers)
}
