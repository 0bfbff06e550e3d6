package extract

// Config holds tunable constants for the dimensions extractor. Every
// threshold a detector compares against lives here so non-default pages
// (non-A4, custom die-line palettes) can be handled without code changes.
type Config struct {
	// PointsToMM converts source units (PostScript points) to millimeters.
	PointsToMM float64 `mapstructure:"points_to_mm" yaml:"points_to_mm" json:"points_to_mm"`

	// PageMidpointY is the reference y used to place a zipper relative to
	// the page (top vs bottom). The default assumes an A4-ish artboard.
	PageMidpointY float64 `mapstructure:"page_midpoint_y" yaml:"page_midpoint_y" json:"page_midpoint_y"`

	// DieLineColors are the stroke colors recognized as cut lines.
	// Matching is case-insensitive and exact, not fuzzy color distance.
	DieLineColors []string `mapstructure:"die_line_colors" yaml:"die_line_colors" json:"die_line_colors"`

	// FoldLineColors are the stroke colors recognized as fold (gusset) lines.
	FoldLineColors []string `mapstructure:"fold_line_colors" yaml:"fold_line_colors" json:"fold_line_colors"`

	// Notch candidate limits (same units as input bounding boxes).
	NotchMaxSize float64 `mapstructure:"notch_max_size" yaml:"notch_max_size" json:"notch_max_size"`
	NotchMaxY    float64 `mapstructure:"notch_max_y" yaml:"notch_max_y" json:"notch_max_y"`

	// Zipper detection: a horizontal line is one with width > height*HorizontalRatio;
	// two such lines form a pair when their y differ by less than ParallelGap;
	// line lengths are sampled within LineYWindow of the zipper y.
	HorizontalRatio float64 `mapstructure:"horizontal_ratio" yaml:"horizontal_ratio" json:"horizontal_ratio"`
	ParallelGap     float64 `mapstructure:"parallel_gap" yaml:"parallel_gap" json:"parallel_gap"`
	LineYWindow     float64 `mapstructure:"line_y_window" yaml:"line_y_window" json:"line_y_window"`

	// Hanging hole candidate limits.
	HoleMaxSize       float64 `mapstructure:"hole_max_size" yaml:"hole_max_size" json:"hole_max_size"`
	HoleMaxY          float64 `mapstructure:"hole_max_y" yaml:"hole_max_y" json:"hole_max_y"`
	EuroSlotMinAspect float64 `mapstructure:"euro_slot_min_aspect" yaml:"euro_slot_min_aspect" json:"euro_slot_min_aspect"`
	EuroSlotMaxAspect float64 `mapstructure:"euro_slot_max_aspect" yaml:"euro_slot_max_aspect" json:"euro_slot_max_aspect"`
	EuroSlotMaxWidth  float64 `mapstructure:"euro_slot_max_width" yaml:"euro_slot_max_width" json:"euro_slot_max_width"`

	// Shape-tier aspect ratio bounds for envelope classification. The band
	// between the two with a zipper present intentionally has no rule and
	// falls through to flat_pouch.
	StandAspectMin float64 `mapstructure:"stand_aspect_min" yaml:"stand_aspect_min" json:"stand_aspect_min"`
	BoxAspectMax   float64 `mapstructure:"box_aspect_max" yaml:"box_aspect_max" json:"box_aspect_max"`
}

// DefaultConfig returns the extractor defaults used in production.
func DefaultConfig() Config {
	return Config{
		PointsToMM:        0.352778, // 1pt = 1/72in = 0.352778mm
		PageMidpointY:     300,
		DieLineColors:     []string{"#ff0000", "#f00", "rgb(255,0,0)", "red"},
		FoldLineColors:    []string{"#0000ff", "#00f", "rgb(0,0,255)", "blue"},
		NotchMaxSize:      20,
		NotchMaxY:         50,
		HorizontalRatio:   10,
		ParallelGap:       5,
		LineYWindow:       10,
		HoleMaxSize:       20,
		HoleMaxY:          50,
		EuroSlotMinAspect: 3,
		EuroSlotMaxAspect: 5,
		EuroSlotMaxWidth:  30,
		StandAspectMin:    1.5,
		BoxAspectMax:      1.2,
	}
}
