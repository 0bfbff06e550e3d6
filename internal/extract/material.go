package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

// materialAlias matches a material abbreviation including its Japanese names.
type materialAlias struct {
	abbrev  string
	pattern *regexp.Regexp
}

var materialAliases = []materialAlias{
	{"PET", regexp.MustCompile(`(?i)PET|ペット|ポリエステル`)},
	{"AL", regexp.MustCompile(`(?i)\bAL\b|アルミ|aluminium`)},
	{"PE", regexp.MustCompile(`(?i)\bPE\b|ポリエチレン`)},
	{"CPP", regexp.MustCompile(`(?i)CPP|未延伸`)},
	{"OPP", regexp.MustCompile(`(?i)OPP|二軸延伸`)},
	{"PA", regexp.MustCompile(`(?i)\bPA\b|ナイロン|nylon`)},
	{"EVOH", regexp.MustCompile(`(?i)EVOH|エバール`)},
	{"MET", regexp.MustCompile(`(?i)MET|蒸着`)},
}

var materialDescriptions = map[string]string{
	"PET":  "印刷基材・透明性",
	"AL":   "バリア性・遮光性",
	"PE":   "ヒートシール性",
	"CPP":  "耐熱ヒートシール",
	"OPP":  "透明性・強度",
	"PA":   "ガスバリア・強度",
	"EVOH": "高バリア性",
	"MET":  "蒸着バリア",
}

var materialDefaultThickness = map[string]float64{
	"PET":  12,
	"AL":   7,
	"PE":   80,
	"CPP":  50,
	"OPP":  20,
	"PA":   15,
	"EVOH": 5,
}

// Laminate structures are conventionally written outer-to-inner,
// e.g. "PET12/AL7/PE80". Full-width slashes appear in Japanese documents.
var laminateRe = regexp.MustCompile(`([A-Z]+)\s*(\d+)\s*[/／]\s*([A-Z]+)\s*(\d+)\s*[/／]\s*([A-Z]+)\s*(\d+)`)

var layerPositions = []string{"outer", "middle", "inner"}

// ExtractMaterial derives the laminate structure from page text. A full
// "PET12/AL7/PE80" style label is preferred; otherwise individual material
// mentions are collected with default thicknesses and tagged as inferred.
func (e *Extractor) ExtractMaterial(page geometry.Page) MaterialSpec {
	text := normalizeText(joinTexts(page.Texts))

	if m := laminateRe.FindStringSubmatch(text); m != nil {
		layers := make([]MaterialLayer, 0, 3)
		for i := 0; i < 3; i++ {
			abbrev := strings.ToUpper(m[1+i*2])
			thickness, _ := strconv.ParseFloat(m[2+i*2], 64)
			layers = append(layers, MaterialLayer{
				Position:    layerPositions[i],
				Material:    abbrev,
				ThicknessUm: thickness,
				Description: materialDescriptions[abbrev],
			})
		}
		return newMaterialSpec(layers, SourceTextLabel)
	}

	var layers []MaterialLayer
	for _, alias := range materialAliases {
		if !alias.pattern.MatchString(text) {
			continue
		}
		position := "inner"
		if len(layers) < len(layerPositions) {
			position = layerPositions[len(layers)]
		}
		layers = append(layers, MaterialLayer{
			Position:    position,
			Material:    alias.abbrev,
			ThicknessUm: materialDefaultThickness[alias.abbrev],
			Description: materialDescriptions[alias.abbrev],
		})
	}
	return newMaterialSpec(layers, SourceInferred)
}

func newMaterialSpec(layers []MaterialLayer, source MaterialSource) MaterialSpec {
	var total float64
	for _, l := range layers {
		total += l.ThicknessUm
	}
	return MaterialSpec{Layers: layers, TotalThicknessUm: total, Source: source}
}
