package cmd

import (
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/fukuro/internal/batch"
	"github.com/MeKo-Tech/fukuro/internal/config"
)

// batchCmd represents the batch command for parallel design-file analysis.
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Analyze multiple design files in parallel",
	Long: `Analyze multiple design files in parallel and report the extracted
specifications with their confidence scores. Accepts .ai and PDF design
files as well as pre-extracted geometry JSON files.

Examples:
  fukuro batch designs/*.ai
  fukuro batch designs/ --recursive --workers 8
  fukuro batch a.ai b.ai --format csv --output results.csv
  fukuro batch designs/ --progress --stats`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values through Viper's precedence system.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := cfg.ToBatchConfig()

	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("workers") {
		batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if batchConfig.Workers <= 0 {
		batchConfig.Workers = runtime.NumCPU()
	}
	if cmd.Flags().Changed("recursive") {
		batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	}
	if cmd.Flags().Changed("page-midpoint-y") {
		if y, _ := cmd.Flags().GetFloat64("page-midpoint-y"); y > 0 {
			batchConfig.Pipeline.Extract.PageMidpointY = y
		}
	}

	batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	batchConfig.ShowProgress, _ = cmd.Flags().GetBool("progress")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")
	batchConfig.ProgressInterval = 100 * time.Millisecond

	return batchConfig
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	batchConfig := configToBatchConfig(cfg, cmd)

	result, err := batch.ProcessBatch(args, batchConfig)
	if err != nil {
		return err
	}

	if err := result.SaveResults(batchConfig.Format, batchConfig.OutputFile, batchConfig.Quiet); err != nil {
		return err
	}

	if batchConfig.ShowStats {
		result.PrintStats(batchConfig.Quiet)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("format", "f", "", "output format: text, json, csv")
	batchCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel workers (default: number of CPUs)")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into directories")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns for files to include (e.g. '*.ai')")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns for files to exclude")
	batchCmd.Flags().Bool("progress", true, "show a progress bar")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress progress and informational output")
	batchCmd.Flags().Bool("stats", false, "print processing statistics after completion")
	batchCmd.Flags().Float64("page-midpoint-y", 0, "override page midpoint y for zipper placement (points)")
}
