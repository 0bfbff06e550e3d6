package confidence

// StandardSize is a known production pouch size in millimeters.
type StandardSize struct {
	Width  float64 `mapstructure:"width" yaml:"width" json:"width"`
	Height float64 `mapstructure:"height" yaml:"height" json:"height"`
}

// Weights are the fixed per-field weights for the overall score.
// They must sum to 1.0; Validate enforces this.
type Weights struct {
	Size              float64 `mapstructure:"size" yaml:"size" json:"size"`
	EnvelopeType      float64 `mapstructure:"envelope_type" yaml:"envelope_type" json:"envelope_type"`
	MaterialStructure float64 `mapstructure:"material_structure" yaml:"material_structure" json:"material_structure"`
	Gusset            float64 `mapstructure:"gusset" yaml:"gusset" json:"gusset"`
	Zipper            float64 `mapstructure:"zipper" yaml:"zipper" json:"zipper"`
	Colors            float64 `mapstructure:"colors" yaml:"colors" json:"colors"`
	Notch             float64 `mapstructure:"notch" yaml:"notch" json:"notch"`
	Thickness         float64 `mapstructure:"thickness" yaml:"thickness" json:"thickness"`
	Logo              float64 `mapstructure:"logo" yaml:"logo" json:"logo"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Size + w.EnvelopeType + w.MaterialStructure + w.Gusset +
		w.Zipper + w.Colors + w.Notch + w.Thickness + w.Logo
}

// Config holds scorer tunables.
type Config struct {
	Weights Weights `mapstructure:"weights" yaml:"weights" json:"weights"`

	// StandardSizes are production sizes a design is matched against.
	StandardSizes []StandardSize `mapstructure:"standard_sizes" yaml:"standard_sizes" json:"standard_sizes"`

	// SizeToleranceMM is the per-axis tolerance for a standard-size match.
	SizeToleranceMM float64 `mapstructure:"size_tolerance_mm" yaml:"size_tolerance_mm" json:"size_tolerance_mm"`

	// ConflictGap is the minimum y separation (source units) between a
	// zipper and a notch before their placement is flagged as overlapping.
	ConflictGap float64 `mapstructure:"conflict_gap" yaml:"conflict_gap" json:"conflict_gap"`

	// Flag thresholds on the 0-100 breakdown scale.
	ErrorThreshold   float64 `mapstructure:"error_threshold" yaml:"error_threshold" json:"error_threshold"`
	WarningThreshold float64 `mapstructure:"warning_threshold" yaml:"warning_threshold" json:"warning_threshold"`
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Size:              0.25,
			EnvelopeType:      0.15,
			MaterialStructure: 0.15,
			Gusset:            0.10,
			Zipper:            0.10,
			Colors:            0.10,
			Notch:             0.05,
			Thickness:         0.05,
			Logo:              0.05,
		},
		StandardSizes: []StandardSize{
			{Width: 100, Height: 150},
			{Width: 120, Height: 200},
			{Width: 130, Height: 180},
			{Width: 150, Height: 250},
			{Width: 200, Height: 300},
		},
		SizeToleranceMM:  10,
		ConflictGap:      20,
		ErrorThreshold:   50,
		WarningThreshold: 70,
	}
}
