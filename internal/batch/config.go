package batch

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Analysis settings
	Pipeline   pipeline.Config
	Format     string
	OutputFile string

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ShowStats        bool
	ProgressInterval time.Duration
}

// DefaultConfig returns batch defaults with the standard pipeline settings.
func DefaultConfig() *Config {
	return &Config{
		Pipeline:         pipeline.DefaultConfig(),
		Format:           "json",
		Workers:          runtime.NumCPU(),
		ShowProgress:     true,
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Result holds the result of batch processing.
type Result struct {
	Reports     []*pipeline.Report
	FilePaths   []string
	Failed      int
	Duration    time.Duration
	WorkerCount int
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Reports, r.FilePaths, format)
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	processed := 0
	for _, rep := range r.Reports {
		if rep != nil {
			processed++
		}
	}
	avg := time.Duration(0)
	if processed > 0 {
		avg = r.Duration / time.Duration(processed)
	}
	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total files: %d\n", len(r.FilePaths))
	_, _ = fmt.Fprintf(os.Stdout, "  Processed: %d\n", processed)
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.Failed)
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Avg per file: %v\n", avg.Round(time.Millisecond))
	if r.Duration > 0 {
		_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f files/sec\n",
			float64(processed)/r.Duration.Seconds())
	}
}
