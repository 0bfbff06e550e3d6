package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(reports []*pipeline.Report, filePaths []string, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(reports, filePaths)
	case "csv":
		return formatCSV(reports, filePaths)
	default: // text
		return formatText(reports, filePaths)
	}
}

// formatJSON formats results as JSON.
func formatJSON(reports []*pipeline.Report, filePaths []string) (string, error) {
	type fileReport struct {
		File   string           `json:"file"`
		Report *pipeline.Report `json:"report"`
	}
	batchResult := struct {
		Files []fileReport `json:"files"`
	}{
		Files: make([]fileReport, len(reports)),
	}

	for i, rep := range reports {
		batchResult.Files[i] = fileReport{File: filePaths[i], Report: rep}
	}

	bts, err := json.MarshalIndent(batchResult, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV, one row per file.
func formatCSV(reports []*pipeline.Report, filePaths []string) (string, error) {
	csvData := [][]string{{
		"file", "envelope_type", "width_mm", "height_mm", "has_die_line",
		"zipper", "notch", "hanging_hole", "material", "confidence", "flags",
	}}

	for i, rep := range reports {
		file := filePaths[i]
		if rep == nil {
			csvData = append(csvData, []string{file, "", "", "", "", "", "", "", "", "", "failed"})
			continue
		}

		d := rep.Specs.Dimensions
		proc := rep.Specs.Processing

		zipper := ""
		if proc.Zipper != nil {
			zipper = proc.Zipper.Type
		}
		notch := ""
		if proc.Notch != nil {
			notch = proc.Notch.Type
		}
		hole := ""
		if proc.HangingHole != nil {
			hole = proc.HangingHole.Type
		}

		layers := make([]string, 0, len(rep.Specs.Material.Layers))
		for _, l := range rep.Specs.Material.Layers {
			layers = append(layers, fmt.Sprintf("%s%.0f", l.Material, l.ThicknessUm))
		}

		flags := make([]string, 0, len(rep.Confidence.Flags))
		for _, f := range rep.Confidence.Flags {
			flags = append(flags, fmt.Sprintf("%s:%s", f.Type, f.Field))
		}

		csvData = append(csvData, []string{
			file,
			string(d.EnvelopeType),
			fmt.Sprintf("%.1f", d.Width),
			fmt.Sprintf("%.1f", d.Height),
			fmt.Sprintf("%t", d.HasDieLine),
			zipper,
			notch,
			hole,
			strings.Join(layers, "/"),
			fmt.Sprintf("%.1f", rep.Confidence.Overall),
			strings.Join(flags, ";"),
		})
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), nil
}

// formatText formats results as plain text summaries.
func formatText(reports []*pipeline.Report, filePaths []string) (string, error) {
	var output strings.Builder
	for i, rep := range reports {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", filePaths[i]))
		if rep == nil {
			output.WriteString("analysis failed\n")
			continue
		}
		output.WriteString(rep.Summary())
	}
	return output.String(), nil
}
