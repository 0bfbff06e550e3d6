package extract

import "github.com/MeKo-Tech/fukuro/internal/geometry"

// EnvelopeType is the packaging pouch/bag style of a design.
type EnvelopeType string

const (
	StandPouch    EnvelopeType = "stand_pouch"
	BoxPouch      EnvelopeType = "box_pouch"
	Gusset        EnvelopeType = "gusset"
	FlatPouch     EnvelopeType = "flat_pouch"
	ThreeSideSeal EnvelopeType = "three_side_seal"
	ZipperBag     EnvelopeType = "zipper_bag"
)

// NotchInfo describes a detected tear notch. Confidence is a local 0-1
// detection confidence, distinct from the scorer's 0-100 breakdown.
type NotchInfo struct {
	Type       string         `json:"type" yaml:"type"` // "circle" or "rectangle"
	Position   geometry.Point `json:"position" yaml:"position"`
	Size       float64        `json:"size" yaml:"size"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
}

// ZipperInfo describes a detected zipper/closure.
type ZipperInfo struct {
	Type       string  `json:"type" yaml:"type"`         // currently always "standard"
	Position   string  `json:"position" yaml:"position"` // "top", "side" or "bottom"
	Y          float64 `json:"y" yaml:"y"`
	Length     float64 `json:"length" yaml:"length"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// HangingHoleInfo describes a detected peg-hook hole.
type HangingHoleInfo struct {
	Type       string         `json:"type" yaml:"type"` // "round" or "euro_slot"
	Diameter   float64        `json:"diameter,omitempty" yaml:"diameter,omitempty"`
	Position   geometry.Point `json:"position" yaml:"position"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
}

// Dimensions is the output of the dimensions extractor for one page.
type Dimensions struct {
	EnvelopeType EnvelopeType     `json:"envelope_type" yaml:"envelope_type"`
	Width        float64          `json:"width" yaml:"width"`
	Height       float64          `json:"height" yaml:"height"`
	Gusset       *float64         `json:"gusset,omitempty" yaml:"gusset,omitempty"` // only reported when > 0
	Unit         string           `json:"unit" yaml:"unit"`                         // always "mm"
	HasDieLine   bool             `json:"has_die_line" yaml:"has_die_line"`
	Notch        *NotchInfo       `json:"notch,omitempty" yaml:"notch,omitempty"`
	Zipper       *ZipperInfo      `json:"zipper,omitempty" yaml:"zipper,omitempty"`
	HangingHole  *HangingHoleInfo `json:"hanging_hole,omitempty" yaml:"hanging_hole,omitempty"`
}

// MaterialSource tags how a material structure was obtained.
type MaterialSource string

const (
	SourceTextLabel MaterialSource = "text_label"
	SourceLayerName MaterialSource = "layer_name"
	SourceInferred  MaterialSource = "inferred"
	SourceManual    MaterialSource = "manual"
)

// MaterialLayer is one film layer of a laminate structure.
type MaterialLayer struct {
	Position    string  `json:"position" yaml:"position"` // "outer", "middle", "inner"
	Material    string  `json:"material" yaml:"material"` // abbreviation, e.g. PET, AL, PE
	ThicknessUm float64 `json:"thickness_um" yaml:"thickness_um"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// MaterialSpec is the laminate structure extracted for the design.
type MaterialSpec struct {
	Layers           []MaterialLayer `json:"layers" yaml:"layers"`
	TotalThicknessUm float64         `json:"total_thickness_um" yaml:"total_thickness_um"`
	Source           MaterialSource  `json:"source" yaml:"source"`
}

// ColorType is the printing color model of a design.
type ColorType string

const (
	ColorSpot   ColorType = "spot"
	ColorCMYK   ColorType = "cmyk"
	ColorHybrid ColorType = "hybrid"
)

// ColorSpec describes the detected printing colors.
type ColorSpec struct {
	Type         ColorType `json:"type" yaml:"type"`
	Count        int       `json:"count" yaml:"count"`
	PantoneCodes []string  `json:"pantone_codes,omitempty" yaml:"pantone_codes,omitempty"`
}

// LogoInfo is a candidate logo region with its local detection confidence.
type LogoInfo struct {
	Box        geometry.BoundingBox `json:"box" yaml:"box"`
	Confidence float64              `json:"confidence" yaml:"confidence"` // 0-1
}

// PrintingSpec holds color and logo information for the design.
type PrintingSpec struct {
	Colors ColorSpec  `json:"colors" yaml:"colors"`
	Logos  []LogoInfo `json:"logos" yaml:"logos"`
}

// ProcessingSpec combines the geometric feature detections with
// text-declared finishing features.
type ProcessingSpec struct {
	Zipper        *ZipperInfo      `json:"zipper,omitempty" yaml:"zipper,omitempty"`
	Notch         *NotchInfo       `json:"notch,omitempty" yaml:"notch,omitempty"`
	HangingHole   *HangingHoleInfo `json:"hanging_hole,omitempty" yaml:"hanging_hole,omitempty"`
	SealWidth     float64          `json:"seal_width,omitempty" yaml:"seal_width,omitempty"`
	CornerRadius  float64          `json:"corner_radius,omitempty" yaml:"corner_radius,omitempty"`
	HasSlit       bool             `json:"has_slit" yaml:"has_slit"`
	HasDieCut     bool             `json:"has_die_cut" yaml:"has_die_cut"`
	HasPunchHole  bool             `json:"has_punch_hole" yaml:"has_punch_hole"`
	HasEmbossing  bool             `json:"has_embossing" yaml:"has_embossing"`
	HasHotStamp   bool             `json:"has_hot_stamp" yaml:"has_hot_stamp"`
}

// Specs is the full specification record consumed by the confidence scorer.
type Specs struct {
	Dimensions Dimensions     `json:"dimensions" yaml:"dimensions"`
	Material   MaterialSpec   `json:"material" yaml:"material"`
	Printing   PrintingSpec   `json:"printing" yaml:"printing"`
	Processing ProcessingSpec `json:"processing" yaml:"processing"`
}
