package confidence

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/MeKo-Tech/fukuro/internal/extract"
	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

var (
	packagingKeywordRe = regexp.MustCompile(`(?i)pouch|bag|パウチ|袋|gusset|マチ|seal|シール`)
	sizeLabelRe        = regexp.MustCompile(`(?i)W?\d+\s*[×x]\s*H?\d+`)
)

// Scorer computes calibrated per-field confidence for extracted specs.
// It performs no I/O and cannot fail on valid input: missing optional
// sub-records degrade to low scores and flags rather than errors.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer with the given configuration.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Calculate scores the extracted specs against the source page geometry.
func (s *Scorer) Calculate(specs *extract.Specs, page geometry.Page) Score {
	text := joinTexts(page.Texts)

	b := Breakdown{
		EnvelopeType:      clamp(s.scoreEnvelopeType(specs, text)),
		Size:              clamp(s.scoreSize(specs, text)),
		Gusset:            clamp(s.scoreGusset(specs)),
		Zipper:            clamp(s.scoreZipper(specs)),
		Notch:             clamp(s.scoreNotch(specs)),
		MaterialStructure: clamp(s.scoreMaterialStructure(specs)),
		Thickness:         clamp(s.scoreThickness(specs)),
		Colors:            clamp(s.scoreColors(specs)),
		Logo:              clamp(s.scoreLogo(specs)),
	}

	score := Score{
		Overall:    clamp(s.overall(b)),
		Dimensions: mean(b.EnvelopeType, b.Size, b.Gusset),
		Material:   mean(b.MaterialStructure, b.Thickness),
		Printing:   mean(b.Colors, b.Logo),
		Processing: mean(b.Zipper, b.Notch),
		Breakdown:  b,
		Flags:      s.buildFlags(b, specs),
	}

	slog.Debug("confidence calculated",
		"overall", score.Overall,
		"flags", len(score.Flags))
	return score
}

func (s *Scorer) overall(b Breakdown) float64 {
	w := s.cfg.Weights
	return b.Size*w.Size +
		b.EnvelopeType*w.EnvelopeType +
		b.MaterialStructure*w.MaterialStructure +
		b.Gusset*w.Gusset +
		b.Zipper*w.Zipper +
		b.Colors*w.Colors +
		b.Notch*w.Notch +
		b.Thickness*w.Thickness +
		b.Logo*w.Logo
}

// scoreEnvelopeType rewards an explicit packaging keyword, geometric
// features consistent with the classified type, and overall component
// completeness.
func (s *Scorer) scoreEnvelopeType(specs *extract.Specs, text string) float64 {
	var score float64
	if packagingKeywordRe.MatchString(text) {
		score += 40
	}
	score += typeConsistencyRatio(specs) * 30
	score += componentRatio(specs) * 30
	return score
}

// typeConsistencyRatio checks the classified envelope type against the
// features actually detected: zipper-bearing styles should have a zipper,
// the rest just need valid geometry.
func typeConsistencyRatio(specs *extract.Specs) float64 {
	switch specs.Dimensions.EnvelopeType {
	case extract.StandPouch, extract.BoxPouch, extract.ZipperBag:
		if specs.Processing.Zipper != nil {
			return 1
		}
		return 0
	default:
		if specs.Dimensions.Width > 0 && specs.Dimensions.Height > 0 {
			return 1
		}
		return 0
	}
}

// componentRatio is the fraction of the sibling extraction components that
// produced any content at all.
func componentRatio(specs *extract.Specs) float64 {
	var present, total float64 = 0, 3
	if specs.Dimensions.Width > 0 && specs.Dimensions.Height > 0 {
		present++
	}
	if len(specs.Material.Layers) > 0 {
		present++
	}
	if hasAnyProcessing(specs.Processing) {
		present++
	}
	return present / total
}

func hasAnyProcessing(p extract.ProcessingSpec) bool {
	return p.Zipper != nil || p.Notch != nil || p.HangingHole != nil ||
		p.SealWidth > 0 || p.CornerRadius > 0 ||
		p.HasSlit || p.HasDieCut || p.HasPunchHole || p.HasEmbossing || p.HasHotStamp
}

func (s *Scorer) scoreSize(specs *extract.Specs, text string) float64 {
	var score float64
	d := specs.Dimensions
	if d.Width > 0 && d.Height > 0 {
		score += 30
	}
	if d.HasDieLine {
		score += 25
	}
	if sizeLabelRe.MatchString(text) {
		score += 25
	}
	if s.matchesStandardSize(d.Width, d.Height) {
		score += 20
	}
	return score
}

func (s *Scorer) matchesStandardSize(w, h float64) bool {
	for _, std := range s.cfg.StandardSizes {
		if math.Abs(w-std.Width) <= s.cfg.SizeToleranceMM &&
			math.Abs(h-std.Height) <= s.cfg.SizeToleranceMM {
			return true
		}
	}
	return false
}

func (s *Scorer) scoreGusset(specs *extract.Specs) float64 {
	if g := specs.Dimensions.Gusset; g != nil && *g > 0 {
		return 90
	}
	return 0
}

// scoreZipper treats a confidently absent zipper as certain: 100 when not
// detected. Present zippers carry their own 0-1 detection confidence, which
// is converted to the 0-100 breakdown scale here (the one x100 conversion
// point for this field).
func (s *Scorer) scoreZipper(specs *extract.Specs) float64 {
	z := specs.Processing.Zipper
	if z == nil {
		return 100
	}
	if z.Confidence <= 0 {
		return 70
	}
	return z.Confidence * 100
}

// scoreNotch mirrors scoreZipper with a 75 default for an unknown detection
// confidence.
func (s *Scorer) scoreNotch(specs *extract.Specs) float64 {
	n := specs.Processing.Notch
	if n == nil {
		return 100
	}
	if n.Confidence <= 0 {
		return 75
	}
	return n.Confidence * 100
}

func (s *Scorer) scoreMaterialStructure(specs *extract.Specs) float64 {
	m := specs.Material

	var score float64
	switch m.Source {
	case extract.SourceManual:
		score = 90
	case extract.SourceTextLabel:
		score = 60
	case extract.SourceLayerName:
		score = 40
	case extract.SourceInferred:
		score = 20
	}

	if len(m.Layers) >= 2 {
		score += 20
	}
	if len(m.Layers) > 0 && allCodesValid(m.Layers) {
		score += 20
	}
	return score
}

func allCodesValid(layers []extract.MaterialLayer) bool {
	for _, l := range layers {
		if len(l.Material) < 2 {
			return false
		}
	}
	return true
}

func (s *Scorer) scoreThickness(specs *extract.Specs) float64 {
	t := specs.Material.TotalThicknessUm
	switch {
	case t <= 0:
		return 0
	case t >= 50 && t <= 200:
		return 85
	default:
		return 70
	}
}

func (s *Scorer) scoreColors(specs *extract.Specs) float64 {
	c := specs.Printing.Colors

	var score float64
	switch c.Type {
	case extract.ColorSpot:
		score = 50 + 10*float64(len(c.PantoneCodes))
	case extract.ColorCMYK:
		score = 70
		if c.Count <= 4 {
			score += 30
		}
	case extract.ColorHybrid:
		score = 60
	}
	return score
}

// scoreLogo: no logos is certain; otherwise the mean of the per-logo 0-1
// confidences, converted to the 0-100 scale.
func (s *Scorer) scoreLogo(specs *extract.Specs) float64 {
	logos := specs.Printing.Logos
	if len(logos) == 0 {
		return 100
	}
	var sum float64
	for _, l := range logos {
		sum += l.Confidence * 100
	}
	return sum / float64(len(logos))
}

// buildFlags generates the review flags: per-field threshold flags in
// breakdown field order, then the cross-field checks.
func (s *Scorer) buildFlags(b Breakdown, specs *extract.Specs) []ValidationFlag {
	fields := []struct {
		name  string
		value float64
	}{
		{"envelope_type", b.EnvelopeType},
		{"size", b.Size},
		{"gusset", b.Gusset},
		{"zipper", b.Zipper},
		{"notch", b.Notch},
		{"material_structure", b.MaterialStructure},
		{"thickness", b.Thickness},
		{"colors", b.Colors},
		{"logo", b.Logo},
	}

	var flags []ValidationFlag
	for _, f := range fields {
		switch {
		case f.value < s.cfg.ErrorThreshold:
			flags = append(flags, ValidationFlag{
				Type:       FlagError,
				Field:      f.name,
				Message:    fmt.Sprintf("%s confidence is low (%.0f/100)", f.name, f.value),
				Suggestion: "enter this field manually",
			})
		case f.value < s.cfg.WarningThreshold:
			flags = append(flags, ValidationFlag{
				Type:       FlagWarning,
				Field:      f.name,
				Message:    fmt.Sprintf("%s confidence is moderate (%.0f/100)", f.name, f.value),
				Suggestion: "verify this field against the design file",
			})
		}
	}

	if flag, ok := s.placementConflict(b, specs); ok {
		flags = append(flags, flag)
	}
	if flag, ok := s.spotColorAdvice(b, specs); ok {
		flags = append(flags, flag)
	}
	return flags
}

// placementConflict warns when a confidently detected zipper and notch sit
// within the conflict gap of each other.
func (s *Scorer) placementConflict(b Breakdown, specs *extract.Specs) (ValidationFlag, bool) {
	z := specs.Processing.Zipper
	n := specs.Processing.Notch
	if z == nil || n == nil {
		return ValidationFlag{}, false
	}
	if b.Zipper <= s.cfg.WarningThreshold || b.Notch <= s.cfg.WarningThreshold {
		return ValidationFlag{}, false
	}
	if math.Abs(z.Y-n.Position.Y) >= s.cfg.ConflictGap {
		return ValidationFlag{}, false
	}
	return ValidationFlag{
		Type:       FlagWarning,
		Field:      "processing",
		Message:    "zipper and notch placements overlap",
		Suggestion: "confirm the notch sits clear of the zipper track",
	}, true
}

// spotColorAdvice suggests CMYK conversion when a confident spot-color
// design carries multiple Pantone plates.
func (s *Scorer) spotColorAdvice(b Breakdown, specs *extract.Specs) (ValidationFlag, bool) {
	if b.Colors <= s.cfg.WarningThreshold || specs.Printing.Colors.Type != extract.ColorSpot {
		return ValidationFlag{}, false
	}
	return ValidationFlag{
		Type:        FlagInfo,
		Field:       "colors",
		Message:     fmt.Sprintf("design uses %d Pantone colors", len(specs.Printing.Colors.PantoneCodes)),
		Suggestion:  "converting to CMYK process printing may reduce plate cost",
		AutoCorrect: true,
	}, true
}

// joinTexts concatenates page text with full-width latin/digits folded to
// half-width, so bilingual labels like "Ｗ１２０×Ｈ２００" match the ASCII
// keyword and size patterns.
func joinTexts(texts []geometry.TextElement) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, width.Fold.String(t.Content))
	}
	return strings.Join(parts, " ")
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
