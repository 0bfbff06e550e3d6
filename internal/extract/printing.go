package extract

import (
	"regexp"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

var (
	pantoneRe    = regexp.MustCompile(`(?i)PANTONE\s+(\d+\s?C?|[A-Z][\w\s]*?C)\b`)
	cmykRe       = regexp.MustCompile(`(?i)CMYK|4c|プロセスカラー|4色`)
	colorCountRe = regexp.MustCompile(`(\d+)\s*色`)
)

// ExtractPrinting derives color mode and logo candidates. Pantone mentions
// indicate spot color, CMYK keywords process color; both together hybrid.
func (e *Extractor) ExtractPrinting(page geometry.Page) PrintingSpec {
	text := normalizeText(joinTexts(page.Texts))

	codes := harvestPantoneCodes(text)
	hasCMYK := cmykRe.MatchString(text)

	var colors ColorSpec
	switch {
	case len(codes) > 0 && hasCMYK:
		colors = ColorSpec{Type: ColorHybrid, Count: 4 + len(codes), PantoneCodes: codes}
	case len(codes) > 0:
		colors = ColorSpec{Type: ColorSpot, Count: len(codes), PantoneCodes: codes}
	case hasCMYK:
		colors = ColorSpec{Type: ColorCMYK, Count: 4}
	default:
		// No explicit color declaration; assume process printing.
		colors = ColorSpec{Type: ColorCMYK, Count: 4}
	}

	if m := colorCountRe.FindStringSubmatch(text); m != nil {
		if n := parseIntDefault(m[1], colors.Count); n > 0 {
			colors.Count = n
		}
	}

	return PrintingSpec{
		Colors: colors,
		Logos:  e.logoCandidates(page.Paths),
	}
}

// logoCandidates picks non-outline paths covering a meaningful share of the
// outline area. The fixed 0.8 confidence reflects that size alone is a weak
// signal without raster analysis.
func (e *Extractor) logoCandidates(paths []geometry.PathElement) []LogoInfo {
	outline, ok := e.outlinePath(paths)
	if !ok || outline.Box.Area() == 0 {
		return nil
	}

	var logos []LogoInfo
	for _, p := range paths {
		if p.Box == outline.Box {
			continue
		}
		share := p.Box.Area() / outline.Box.Area()
		if share >= 0.05 && share <= 0.5 {
			logos = append(logos, LogoInfo{Box: p.Box, Confidence: 0.8})
		}
	}
	return logos
}

func harvestPantoneCodes(text string) []string {
	matches := pantoneRe.FindAllStringSubmatch(text, -1)
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, m[1])
	}
	return codes
}

func parseIntDefault(s string, def int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return def
	}
	return n
}
