// Package review implements the human-review side of the extraction
// workflow: hard plausibility validation, cross-checking against quotation
// data, and merging manual corrections back into an extracted spec.
package review

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/fukuro/internal/extract"
)

// Production limits for plausibility validation, in millimeters / microns.
const (
	minDimensionMM    = 30
	maxDimensionMM    = 500
	maxGussetMM       = 200
	maxThicknessUm    = 200
	preferredLayers   = 3
	defaultToleranceMM = 3
)

// Result is the outcome of a validation or cross-check pass.
type Result struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidateSpecs checks an extracted specification against production
// plausibility limits. Errors block downstream ordering; warnings are shown
// to the reviewer alongside the confidence flags.
func ValidateSpecs(specs *extract.Specs) Result {
	var res Result
	d := specs.Dimensions

	if d.Width <= 0 || d.Height <= 0 {
		res.Errors = append(res.Errors, "dimensions are invalid")
	} else {
		if d.Width < minDimensionMM || d.Width > maxDimensionMM {
			res.Errors = append(res.Errors,
				fmt.Sprintf("width %.1fmm outside producible range (%d-%dmm)", d.Width, minDimensionMM, maxDimensionMM))
		}
		if d.Height < minDimensionMM || d.Height > maxDimensionMM {
			res.Errors = append(res.Errors,
				fmt.Sprintf("height %.1fmm outside producible range (%d-%dmm)", d.Height, minDimensionMM, maxDimensionMM))
		}
	}
	if d.Gusset != nil && (*d.Gusset < 0 || *d.Gusset > maxGussetMM) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("gusset %.1fmm outside standard range", *d.Gusset))
	}

	if len(specs.Material.Layers) == 0 {
		res.Errors = append(res.Errors, "no material structure detected")
	} else if len(specs.Material.Layers) < preferredLayers {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("material structure incomplete (%d layers, %d recommended)", len(specs.Material.Layers), preferredLayers))
	}
	for _, l := range specs.Material.Layers {
		if l.ThicknessUm <= 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s layer has invalid thickness", l.Material))
		}
	}
	if specs.Material.TotalThicknessUm > maxThicknessUm {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("total thickness %.0fμm exceeds %dμm", specs.Material.TotalThicknessUm, maxThicknessUm))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// Quotation is the subset of a customer quotation relevant for agreement
// checking against the extracted design.
type Quotation struct {
	EnvelopeType string   `json:"envelope_type,omitempty" yaml:"envelope_type,omitempty"`
	WidthMM      float64  `json:"width_mm,omitempty" yaml:"width_mm,omitempty"`
	HeightMM     float64  `json:"height_mm,omitempty" yaml:"height_mm,omitempty"`
	GussetMM     float64  `json:"gusset_mm,omitempty" yaml:"gusset_mm,omitempty"`
	ToleranceMM  float64  `json:"tolerance_mm,omitempty" yaml:"tolerance_mm,omitempty"`
	Materials    []string `json:"materials,omitempty" yaml:"materials,omitempty"`
}

// CrossCheckQuotation compares an extracted specification against quotation
// data. The check is informational: disagreements produce warnings, never
// errors, and Valid is always true.
func CrossCheckQuotation(specs *extract.Specs, q Quotation) Result {
	res := Result{Valid: true}

	if q.EnvelopeType != "" && string(specs.Dimensions.EnvelopeType) != q.EnvelopeType {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("envelope type mismatch: quoted %s, extracted %s", q.EnvelopeType, specs.Dimensions.EnvelopeType))
	}

	if q.WidthMM > 0 || q.HeightMM > 0 {
		tol := q.ToleranceMM
		if tol <= 0 {
			tol = defaultToleranceMM
		}
		var gusset float64
		if specs.Dimensions.Gusset != nil {
			gusset = *specs.Dimensions.Gusset
		}
		if math.Abs(specs.Dimensions.Width-q.WidthMM) > tol ||
			math.Abs(specs.Dimensions.Height-q.HeightMM) > tol ||
			math.Abs(gusset-q.GussetMM) > tol {
			res.Warnings = append(res.Warnings,
				"dimension mismatch between quotation and design file")
		}
	}

	if len(q.Materials) > 0 && !materialsAgree(specs.Material.Layers, q.Materials) {
		res.Warnings = append(res.Warnings,
			"material mismatch between quotation and design file")
	}
	return res
}

func materialsAgree(layers []extract.MaterialLayer, quoted []string) bool {
	for _, want := range quoted {
		found := false
		for _, l := range layers {
			if l.Material == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Manual carries reviewer-entered corrections. Nil fields keep the
// extracted value.
type Manual struct {
	EnvelopeType *extract.EnvelopeType  `json:"envelope_type,omitempty" yaml:"envelope_type,omitempty"`
	WidthMM      *float64               `json:"width_mm,omitempty" yaml:"width_mm,omitempty"`
	HeightMM     *float64               `json:"height_mm,omitempty" yaml:"height_mm,omitempty"`
	GussetMM     *float64               `json:"gusset_mm,omitempty" yaml:"gusset_mm,omitempty"`
	Material     *extract.MaterialSpec  `json:"material,omitempty" yaml:"material,omitempty"`
	Printing     *extract.PrintingSpec  `json:"printing,omitempty" yaml:"printing,omitempty"`
	Processing   *extract.ProcessingSpec `json:"processing,omitempty" yaml:"processing,omitempty"`
}

// MergeManual overlays manual corrections onto an extracted specification
// and returns the merged copy. A manually supplied material structure is
// re-tagged with manual provenance so the scorer credits it accordingly.
func MergeManual(specs extract.Specs, manual Manual) extract.Specs {
	if manual.EnvelopeType != nil {
		specs.Dimensions.EnvelopeType = *manual.EnvelopeType
	}
	if manual.WidthMM != nil {
		specs.Dimensions.Width = *manual.WidthMM
	}
	if manual.HeightMM != nil {
		specs.Dimensions.Height = *manual.HeightMM
	}
	if manual.GussetMM != nil {
		if *manual.GussetMM > 0 {
			g := *manual.GussetMM
			specs.Dimensions.Gusset = &g
		} else {
			specs.Dimensions.Gusset = nil
		}
	}
	if manual.Material != nil {
		specs.Material = *manual.Material
		specs.Material.Source = extract.SourceManual
	}
	if manual.Printing != nil {
		specs.Printing = *manual.Printing
	}
	if manual.Processing != nil {
		specs.Processing = *manual.Processing
	}
	return specs
}
