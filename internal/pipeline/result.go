package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/fukuro/internal/confidence"
	"github.com/MeKo-Tech/fukuro/internal/extract"
)

// Report combines the extracted specification with its confidence score.
// Reports are fresh value objects per call, JSON-serializable, with no
// identity beyond the call that produced them.
type Report struct {
	Specs            extract.Specs    `json:"specs" yaml:"specs"`
	Confidence       confidence.Score `json:"confidence" yaml:"confidence"`
	ProcessingTimeMS int64            `json:"processing_time_ms" yaml:"processing_time_ms"`
}

// ToJSON renders the report as indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ToYAML renders the report as YAML.
func (r *Report) ToYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// Summary renders a short human-readable table for CLI output.
func (r *Report) Summary() string {
	var sb strings.Builder
	d := r.Specs.Dimensions

	fmt.Fprintf(&sb, "Envelope type: %s\n", d.EnvelopeType)
	fmt.Fprintf(&sb, "Size:          %.1f x %.1f %s\n", d.Width, d.Height, d.Unit)
	if d.Gusset != nil {
		fmt.Fprintf(&sb, "Gusset:        %.1f %s\n", *d.Gusset, d.Unit)
	}
	fmt.Fprintf(&sb, "Die line:      %v\n", d.HasDieLine)
	if z := r.Specs.Processing.Zipper; z != nil {
		fmt.Fprintf(&sb, "Zipper:        %s (%s, length %.1f)\n", z.Type, z.Position, z.Length)
	}
	if n := r.Specs.Processing.Notch; n != nil {
		fmt.Fprintf(&sb, "Notch:         %s\n", n.Type)
	}
	if h := r.Specs.Processing.HangingHole; h != nil {
		fmt.Fprintf(&sb, "Hanging hole:  %s\n", h.Type)
	}
	if layers := r.Specs.Material.Layers; len(layers) > 0 {
		names := make([]string, 0, len(layers))
		for _, l := range layers {
			names = append(names, fmt.Sprintf("%s%.0f", l.Material, l.ThicknessUm))
		}
		fmt.Fprintf(&sb, "Material:      %s (%s)\n", strings.Join(names, "/"), r.Specs.Material.Source)
	}
	fmt.Fprintf(&sb, "Confidence:    %.1f overall\n", r.Confidence.Overall)

	for _, f := range r.Confidence.Flags {
		fmt.Fprintf(&sb, "  [%s] %s: %s\n", f.Type, f.Field, f.Message)
	}
	return sb.String()
}
