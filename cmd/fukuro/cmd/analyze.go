package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/fukuro/internal/aifile"
	"github.com/MeKo-Tech/fukuro/internal/geometry"
	"github.com/MeKo-Tech/fukuro/internal/pipeline"
	"github.com/MeKo-Tech/fukuro/internal/review"
)

// analysisOutput is the full analyze-command payload: the pipeline report
// plus optional review and quotation cross-check results.
type analysisOutput struct {
	File      string           `json:"file" yaml:"file"`
	Report    *pipeline.Report `json:"report" yaml:"report"`
	Review    *review.Result   `json:"review,omitempty" yaml:"review,omitempty"`
	Quotation *review.Result   `json:"quotation,omitempty" yaml:"quotation,omitempty"`
}

// analyzeCmd represents the analyze command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a design file and extract its packaging specification",
	Long: `Analyze a vector design file (.ai/PDF) or a pre-extracted geometry
JSON file, and print the extracted packaging specification with per-field
confidence scores and validation flags.

Examples:
  fukuro analyze design.ai
  fukuro analyze design.ai --format json --output spec.json
  fukuro analyze page.geometry.json --review
  fukuro analyze design.ai --quote quotation.json
  fukuro analyze design.ai --manual corrections.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg := GetConfig()

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	outputFile, _ := cmd.Flags().GetString("output")
	midpointY, _ := cmd.Flags().GetFloat64("page-midpoint-y")
	runReview, _ := cmd.Flags().GetBool("review")
	quoteFile, _ := cmd.Flags().GetString("quote")
	manualFile, _ := cmd.Flags().GetString("manual")

	page, err := loadInputPage(path)
	if err != nil {
		return err
	}

	pl, err := pipeline.NewBuilder().
		WithConfig(cfg.Pipeline).
		WithPageMidpoint(midpointY).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build analysis pipeline: %w", err)
	}

	report, err := pl.Analyze(*page)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if manualFile != "" {
		manual, err := loadManual(manualFile)
		if err != nil {
			return err
		}
		merged := review.MergeManual(report.Specs, *manual)
		report.Specs = merged
		report.Confidence = pl.Score(&merged, *page)
	}

	out := analysisOutput{File: path, Report: report}

	if runReview {
		res := review.ValidateSpecs(&report.Specs)
		out.Review = &res
	}

	if quoteFile != "" {
		quote, err := loadQuotation(quoteFile)
		if err != nil {
			return err
		}
		res := review.CrossCheckQuotation(&report.Specs, *quote)
		out.Quotation = &res
	}

	rendered, err := renderAnalysis(&out, format)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// loadInputPage loads page geometry from a design file or geometry JSON.
func loadInputPage(path string) (*geometry.Page, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return aifile.LoadGeometryJSON(path)
	}
	return aifile.LoadPage(path)
}

func loadManual(path string) (*review.Manual, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manual corrections: %w", err)
	}
	var manual review.Manual
	if err := json.Unmarshal(buf, &manual); err != nil {
		return nil, fmt.Errorf("parsing manual corrections %s: %w", path, err)
	}
	return &manual, nil
}

func loadQuotation(path string) (*review.Quotation, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading quotation: %w", err)
	}
	var quote review.Quotation
	if err := json.Unmarshal(buf, &quote); err != nil {
		return nil, fmt.Errorf("parsing quotation %s: %w", path, err)
	}
	return &quote, nil
}

func renderAnalysis(out *analysisOutput, format string) (string, error) {
	switch format {
	case "json":
		bts, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", err
		}
		return string(bts) + "\n", nil
	case "yaml":
		bts, err := yaml.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(bts), nil
	default: // text
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# %s\n", out.File))
		sb.WriteString(out.Report.Summary())
		if out.Review != nil {
			sb.WriteString(renderReviewResult("Review", out.Review))
		}
		if out.Quotation != nil {
			sb.WriteString(renderReviewResult("Quotation check", out.Quotation))
		}
		return sb.String(), nil
	}
}

func renderReviewResult(title string, res *review.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s: ", title))
	if res.Valid {
		sb.WriteString("ok\n")
	} else {
		sb.WriteString("failed\n")
	}
	for _, e := range res.Errors {
		sb.WriteString("  error: " + e + "\n")
	}
	for _, w := range res.Warnings {
		sb.WriteString("  warning: " + w + "\n")
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("format", "f", "", "output format: text, json, yaml")
	analyzeCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	analyzeCmd.Flags().Float64("page-midpoint-y", 0, "override page midpoint y for zipper placement (points)")
	analyzeCmd.Flags().Bool("review", false, "run production plausibility validation on the result")
	analyzeCmd.Flags().String("quote", "", "quotation JSON file to cross-check the result against")
	analyzeCmd.Flags().String("manual", "", "manual corrections JSON file merged before scoring")
}
