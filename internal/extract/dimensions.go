package extract

import (
	"errors"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

// ErrNoOutline indicates the page has no paths to derive an outline from.
// Dimension extraction cannot silently default without misleading geometry
// claims, so this propagates to the caller.
var ErrNoOutline = errors.New("extract: no outline path found")

// labelRule maps a bilingual keyword pattern to an envelope type. Rules are
// evaluated in order; first match wins.
type labelRule struct {
	pattern *regexp.Regexp
	kind    EnvelopeType
}

var envelopeLabelRules = []labelRule{
	{regexp.MustCompile(`(?i)stand.*pouch|スタンド.*パウチ|スタンド袋`), StandPouch},
	{regexp.MustCompile(`(?i)box.*pouch|ボックス.*パウチ`), BoxPouch},
	{regexp.MustCompile(`(?i)gusset|ガゼット|マチ`), Gusset},
	{regexp.MustCompile(`(?i)three.*seal|三方`), ThreeSideSeal},
	{regexp.MustCompile(`(?i)zipper.*bag|チャック袋`), ZipperBag},
}

var zipperTextRe = regexp.MustCompile(`(?i)zipper|zip|ジッパー|チャック|ファスナー`)

// Extractor derives Dimensions from page geometry.
type Extractor struct {
	cfg Config
}

// NewExtractor creates a dimensions extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// ExtractDimensions runs the full dimension extraction over a page:
// envelope type, physical size, die-line, notch, zipper and hanging hole.
func (e *Extractor) ExtractDimensions(page geometry.Page) (Dimensions, error) {
	size, err := e.CalculateDimensions(page.Paths)
	if err != nil {
		return Dimensions{}, err
	}

	dims := Dimensions{
		EnvelopeType: e.IdentifyEnvelopeType(page.Paths, page.Texts),
		Width:        size.Width,
		Height:       size.Height,
		Gusset:       size.Gusset,
		Unit:         "mm",
		HasDieLine:   e.HasDieLine(page.Paths),
		Notch:        e.DetectNotch(page.Paths),
		Zipper:       e.DetectZipper(page.Paths, page.Texts),
		HangingHole:  e.DetectHangingHole(page.Paths),
	}

	slog.Debug("dimensions extracted",
		"envelope_type", dims.EnvelopeType,
		"width_mm", dims.Width,
		"height_mm", dims.Height,
		"die_line", dims.HasDieLine,
		"zipper", dims.Zipper != nil,
		"notch", dims.Notch != nil,
		"hanging_hole", dims.HangingHole != nil)

	return dims, nil
}

// IdentifyEnvelopeType classifies the packaging style. Text labels take
// precedence over shape heuristics since bilingual source documents usually
// name the pouch style explicitly.
func (e *Extractor) IdentifyEnvelopeType(paths []geometry.PathElement, texts []geometry.TextElement) EnvelopeType {
	combined := normalizeText(joinTexts(texts))
	for _, rule := range envelopeLabelRules {
		if rule.pattern.MatchString(combined) {
			return rule.kind
		}
	}
	return e.classifyByShape(paths, texts)
}

// classifyByShape is the fallback tier: outline aspect ratio plus zipper and
// gusset presence. The band between BoxAspectMax and StandAspectMin with a
// zipper present has no rule and falls through to flat_pouch; this coverage
// gap is intentional and must not be closed without product guidance.
func (e *Extractor) classifyByShape(paths []geometry.PathElement, texts []geometry.TextElement) EnvelopeType {
	outline, ok := e.outlinePath(paths)
	if !ok {
		return FlatPouch
	}

	aspect := outline.Box.AspectRatio()
	hasZipper := e.DetectZipper(paths, texts) != nil

	switch {
	case aspect > e.cfg.StandAspectMin && hasZipper:
		return StandPouch
	case aspect < e.cfg.BoxAspectMax && hasZipper:
		return BoxPouch
	case e.hasFoldLine(paths):
		return Gusset
	default:
		return FlatPouch
	}
}

// Size is the physical size derived from the outline bounding box.
type Size struct {
	Width  float64
	Height float64
	Gusset *float64
}

// CalculateDimensions converts the outline bounding box from points to
// millimeters, rounded to one decimal. Returns ErrNoOutline when the page
// has no paths at all.
func (e *Extractor) CalculateDimensions(paths []geometry.PathElement) (Size, error) {
	outline, ok := e.outlinePath(paths)
	if !ok {
		return Size{}, ErrNoOutline
	}

	size := Size{
		Width:  round1(outline.Box.Width * e.cfg.PointsToMM),
		Height: round1(outline.Box.Height * e.cfg.PointsToMM),
	}

	// Gusset depth reconstruction from fold lines is a known gap: the
	// helper always reports 0 until real geometry reconstruction lands,
	// and a zero depth is reported as absent.
	if depth := e.gussetDepth(paths); depth > 0 {
		size.Gusset = &depth
	}
	return size, nil
}

// gussetDepth would reconstruct gusset depth from fold-line geometry.
// No reconstruction is implemented; it reports 0 unconditionally. Do not
// invent a formula here without product guidance.
func (e *Extractor) gussetDepth(_ []geometry.PathElement) float64 {
	return 0
}

// HasDieLine reports whether any path is stroked in a recognized cut-line
// red. Matching is exact per color string, not fuzzy.
func (e *Extractor) HasDieLine(paths []geometry.PathElement) bool {
	return anyStrokeIn(paths, e.cfg.DieLineColors)
}

// hasFoldLine reports whether any path is stroked in a recognized fold-line
// blue, the gusset presence heuristic.
func (e *Extractor) hasFoldLine(paths []geometry.PathElement) bool {
	return anyStrokeIn(paths, e.cfg.FoldLineColors)
}

func anyStrokeIn(paths []geometry.PathElement, colors []string) bool {
	for _, p := range paths {
		if p.Stroke == "" {
			continue
		}
		stroke := strings.ToLower(p.Stroke)
		for _, c := range colors {
			if stroke == c {
				return true
			}
		}
	}
	return false
}

// DetectNotch finds a tear-notch candidate: a small path near the top edge.
// An arc command without any line command classifies it as a circle.
func (e *Extractor) DetectNotch(paths []geometry.PathElement) *NotchInfo {
	for _, p := range paths {
		box := p.Box
		if box.Width >= e.cfg.NotchMaxSize || box.Height >= e.cfg.NotchMaxSize || box.Y >= e.cfg.NotchMaxY {
			continue
		}

		kind := "rectangle"
		if geometry.HasArc(p.D) && !geometry.HasLine(p.D) {
			kind = "circle"
		}
		return &NotchInfo{
			Type:       kind,
			Position:   geometry.Point{X: box.X, Y: box.Y},
			Size:       math.Max(box.Width, box.Height),
			Confidence: 0.85,
		}
	}
	return nil
}

// DetectZipper looks for a zipper via two independent signals: a zipper
// keyword in the page text, or a pair of near-parallel horizontal lines.
// Either signal alone is sufficient.
func (e *Extractor) DetectZipper(paths []geometry.PathElement, texts []geometry.TextElement) *ZipperInfo {
	textY, hasText := e.zipperTextY(texts)
	lines := e.horizontalLines(paths)
	pairY, hasPair := e.parallelPairY(lines)

	if !hasText && !hasPair {
		return nil
	}

	y := pairY
	position := "top"
	if hasText {
		y = textY
		if textY > e.cfg.PageMidpointY {
			position = "bottom"
		}
	}

	return &ZipperInfo{
		Type:       "standard",
		Position:   position,
		Y:          y,
		Length:     e.zipperLength(lines, y),
		Confidence: 0.90,
	}
}

func (e *Extractor) zipperTextY(texts []geometry.TextElement) (float64, bool) {
	for _, t := range texts {
		if zipperTextRe.MatchString(normalizeText(t.Content)) {
			return t.Position.Y, true
		}
	}
	return 0, false
}

// horizontalLines filters paths whose bounding box is much wider than tall,
// sorted by y for stable pairing.
func (e *Extractor) horizontalLines(paths []geometry.PathElement) []geometry.PathElement {
	var lines []geometry.PathElement
	for _, p := range paths {
		if p.Box.Width > p.Box.Height*e.cfg.HorizontalRatio {
			lines = append(lines, p)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Box.Y < lines[j].Box.Y })
	return lines
}

// parallelPairY finds the first pair of adjacent horizontal lines closer
// together than the parallel gap and returns the y of the upper one.
func (e *Extractor) parallelPairY(lines []geometry.PathElement) (float64, bool) {
	for i := 1; i < len(lines); i++ {
		if math.Abs(lines[i].Box.Y-lines[i-1].Box.Y) < e.cfg.ParallelGap {
			return lines[i-1].Box.Y, true
		}
	}
	return 0, false
}

// zipperLength is the widest horizontal line near the zipper y.
func (e *Extractor) zipperLength(lines []geometry.PathElement, y float64) float64 {
	var length float64
	for _, l := range lines {
		if math.Abs(l.Box.Y-y) <= e.cfg.LineYWindow && l.Box.Width > length {
			length = l.Box.Width
		}
	}
	return length
}

// DetectHangingHole finds a peg-hook display hole. Round holes (arc-only
// small paths near the top) take priority over euro-slots (wide flat paths
// with a 3-5 aspect ratio).
func (e *Extractor) DetectHangingHole(paths []geometry.PathElement) *HangingHoleInfo {
	var slot *HangingHoleInfo

	for _, p := range paths {
		box := p.Box
		if box.Width < e.cfg.HoleMaxSize && box.Height < e.cfg.HoleMaxSize && box.Y < e.cfg.HoleMaxY &&
			geometry.HasArc(p.D) && !geometry.HasLine(p.D) {
			return &HangingHoleInfo{
				Type:       "round",
				Diameter:   math.Max(box.Width, box.Height),
				Position:   box.Center(),
				Confidence: 0.95,
			}
		}

		aspect := box.AspectRatio()
		if slot == nil && aspect > e.cfg.EuroSlotMinAspect && aspect < e.cfg.EuroSlotMaxAspect &&
			box.Width < e.cfg.EuroSlotMaxWidth {
			slot = &HangingHoleInfo{
				Type:       "euro_slot",
				Position:   box.Center(),
				Confidence: 0.88,
			}
		}
	}
	return slot
}

// outlinePath returns the path with the largest bounding-box area, ties
// broken by first encountered.
func (e *Extractor) outlinePath(paths []geometry.PathElement) (geometry.PathElement, bool) {
	if len(paths) == 0 {
		return geometry.PathElement{}, false
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if p.Box.Area() > best.Box.Area() {
			best = p
		}
	}
	return best, true
}

func joinTexts(texts []geometry.TextElement) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, t.Content)
	}
	return strings.Join(parts, " ")
}

// normalizeText folds full-width latin/digits to their half-width forms so
// bilingual labels like "Ｗ１２０×Ｈ２００" match the ASCII patterns.
func normalizeText(s string) string {
	return width.Fold.String(s)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
