package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

func TestExtractProcessing_TextFeatures(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	page := pageWithText("シール: 10mm", "角R5", "スリット加工", "箔押し仕上げ")
	spec := e.ExtractProcessing(page, Dimensions{})

	assert.InDelta(t, 10, spec.SealWidth, 1e-9)
	assert.InDelta(t, 5, spec.CornerRadius, 1e-9)
	assert.True(t, spec.HasSlit)
	assert.True(t, spec.HasHotStamp)
	assert.False(t, spec.HasDieCut)
	assert.False(t, spec.HasPunchHole)
	assert.False(t, spec.HasEmbossing)
}

func TestExtractProcessing_EnglishFeatures(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	page := pageWithText("die cut, punch, emboss finish")
	spec := e.ExtractProcessing(page, Dimensions{})

	assert.True(t, spec.HasDieCut)
	assert.True(t, spec.HasPunchHole)
	assert.True(t, spec.HasEmbossing)
	assert.False(t, spec.HasSlit)
}

func TestExtractProcessing_CarriesDetections(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	dims := Dimensions{
		Zipper:      &ZipperInfo{Type: "standard", Y: 40, Confidence: 0.9},
		Notch:       &NotchInfo{Type: "circle", Confidence: 0.85},
		HangingHole: &HangingHoleInfo{Type: "round", Confidence: 0.95},
	}
	spec := e.ExtractProcessing(geometry.Page{}, dims)

	require.NotNil(t, spec.Zipper)
	assert.Equal(t, dims.Zipper, spec.Zipper)
	assert.Equal(t, dims.Notch, spec.Notch)
	assert.Equal(t, dims.HangingHole, spec.HangingHole)
}

func TestExtractProcessing_Empty(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	spec := e.ExtractProcessing(geometry.Page{}, Dimensions{})
	assert.Nil(t, spec.Zipper)
	assert.Zero(t, spec.SealWidth)
	assert.False(t, spec.HasSlit)
}
