package extract

import (
	"regexp"
	"strconv"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

var (
	sealWidthRe    = regexp.MustCompile(`(?i)シール\s*[:：]?\s*(\d+)\s*mm?|seal\s*[:：]?\s*(\d+)`)
	cornerRadiusRe = regexp.MustCompile(`(?i)角\s*R\s*(\d+)|corner\s*R?\s*(\d+)`)
	slitRe         = regexp.MustCompile(`(?i)スリット|slit|排気`)
	dieCutRe       = regexp.MustCompile(`(?i)ダイカット|die\s*cut`)
	punchRe        = regexp.MustCompile(`(?i)パンチ|punch|穴あけ`)
	embossRe       = regexp.MustCompile(`(?i)エンボス|emboss|浮き出し`)
	hotStampRe     = regexp.MustCompile(`(?i)箔押|ホットスタンプ|stamping`)
)

// ExtractProcessing combines the geometric zipper/notch/hole detections with
// finishing features declared in the page text.
func (e *Extractor) ExtractProcessing(page geometry.Page, dims Dimensions) ProcessingSpec {
	text := normalizeText(joinTexts(page.Texts))

	spec := ProcessingSpec{
		Zipper:       dims.Zipper,
		Notch:        dims.Notch,
		HangingHole:  dims.HangingHole,
		HasSlit:      slitRe.MatchString(text),
		HasDieCut:    dieCutRe.MatchString(text),
		HasPunchHole: punchRe.MatchString(text),
		HasEmbossing: embossRe.MatchString(text),
		HasHotStamp:  hotStampRe.MatchString(text),
	}

	if v, ok := firstGroupInt(sealWidthRe, text); ok {
		spec.SealWidth = v
	}
	if v, ok := firstGroupInt(cornerRadiusRe, text); ok {
		spec.CornerRadius = v
	}
	return spec
}

// firstGroupInt returns the first non-empty capture group as a float.
func firstGroupInt(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		if v, err := strconv.ParseFloat(g, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
