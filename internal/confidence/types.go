package confidence

// FlagType is the severity of a validation flag.
type FlagType string

const (
	// FlagError means the field must not be trusted without human review.
	FlagError FlagType = "error"
	// FlagWarning means the field is plausible but should be verified.
	FlagWarning FlagType = "warning"
	// FlagInfo is advisory and never blocking.
	FlagInfo FlagType = "info"
)

// ValidationFlag is one actionable review item attached to a score.
type ValidationFlag struct {
	Type        FlagType `json:"type" yaml:"type"`
	Field       string   `json:"field" yaml:"field"`
	Message     string   `json:"message" yaml:"message"`
	Suggestion  string   `json:"suggestion" yaml:"suggestion"`
	AutoCorrect bool     `json:"auto_correct,omitempty" yaml:"auto_correct,omitempty"`
}

// Breakdown holds the per-dimension confidence scores. Every field is
// clamped to [0,100].
type Breakdown struct {
	EnvelopeType      float64 `json:"envelope_type" yaml:"envelope_type"`
	Size              float64 `json:"size" yaml:"size"`
	Gusset            float64 `json:"gusset" yaml:"gusset"`
	Zipper            float64 `json:"zipper" yaml:"zipper"`
	Notch             float64 `json:"notch" yaml:"notch"`
	MaterialStructure float64 `json:"material_structure" yaml:"material_structure"`
	Thickness         float64 `json:"thickness" yaml:"thickness"`
	Colors            float64 `json:"colors" yaml:"colors"`
	Logo              float64 `json:"logo" yaml:"logo"`
}

// Score is the final confidence report: the weighted overall score, four
// roll-ups over fixed breakdown subsets, the breakdown itself and the
// review flags.
type Score struct {
	Overall    float64          `json:"overall" yaml:"overall"`
	Dimensions float64          `json:"dimensions" yaml:"dimensions"`
	Material   float64          `json:"material" yaml:"material"`
	Printing   float64          `json:"printing" yaml:"printing"`
	Processing float64          `json:"processing" yaml:"processing"`
	Breakdown  Breakdown        `json:"breakdown" yaml:"breakdown"`
	Flags      []ValidationFlag `json:"flags" yaml:"flags"`
}
