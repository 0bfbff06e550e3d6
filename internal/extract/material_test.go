package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

func pageWithText(lines ...string) geometry.Page {
	page := geometry.Page{}
	for i, l := range lines {
		page.Texts = append(page.Texts, geometry.TextElement{
			Content:  l,
			Position: geometry.Point{X: 10, Y: float64(20 * (i + 1))},
		})
	}
	return page
}

func TestExtractMaterial_LaminateLabel(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	spec := e.ExtractMaterial(pageWithText("構成: PET12/AL7/PE80"))
	require.Len(t, spec.Layers, 3)

	assert.Equal(t, "outer", spec.Layers[0].Position)
	assert.Equal(t, "PET", spec.Layers[0].Material)
	assert.InDelta(t, 12, spec.Layers[0].ThicknessUm, 1e-9)
	assert.Equal(t, "middle", spec.Layers[1].Position)
	assert.Equal(t, "AL", spec.Layers[1].Material)
	assert.Equal(t, "inner", spec.Layers[2].Position)
	assert.Equal(t, "PE", spec.Layers[2].Material)

	assert.InDelta(t, 99, spec.TotalThicknessUm, 1e-9)
	assert.Equal(t, SourceTextLabel, spec.Source)
}

func TestExtractMaterial_FullWidthSlash(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	spec := e.ExtractMaterial(pageWithText("ＰＥＴ１２／ＡＬ７／ＰＥ８０"))
	require.Len(t, spec.Layers, 3)
	assert.Equal(t, SourceTextLabel, spec.Source)
	assert.InDelta(t, 99, spec.TotalThicknessUm, 1e-9)
}

func TestExtractMaterial_InferredMentions(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	spec := e.ExtractMaterial(pageWithText("外層はペット、バリア層はアルミ"))
	require.Len(t, spec.Layers, 2)
	assert.Equal(t, "PET", spec.Layers[0].Material)
	assert.Equal(t, "AL", spec.Layers[1].Material)
	assert.Equal(t, SourceInferred, spec.Source)
	// Inferred layers carry default thicknesses.
	assert.InDelta(t, 12, spec.Layers[0].ThicknessUm, 1e-9)
	assert.InDelta(t, 7, spec.Layers[1].ThicknessUm, 1e-9)
}

func TestExtractMaterial_NoMentions(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	spec := e.ExtractMaterial(pageWithText("内容量 500g"))
	assert.Empty(t, spec.Layers)
	assert.Zero(t, spec.TotalThicknessUm)
	assert.Equal(t, SourceInferred, spec.Source)
}
