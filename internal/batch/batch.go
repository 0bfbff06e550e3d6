// Package batch provides batch processing for design-file analysis.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

// ProcessBatch analyzes a batch of design files with the given configuration.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	files, err := discoverDesignFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover design files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no design files found")
	}

	// Quiet runs still report progress, but through the structured log so
	// scripted callers get machine-readable updates instead of a bar.
	var progressCallback pipeline.ProgressCallback
	if config.ShowProgress && !config.Quiet {
		progressCallback = pipeline.NewConsoleProgressCallback(
			os.Stdout,
			"Analyzing: ",
		).WithUpdateInterval(config.ProgressInterval)
	} else {
		progressCallback = pipeline.NewLogProgressCallback(nil, slog.LevelDebug, "batch: ")
	}

	pl, err := pipeline.NewBuilder().
		WithConfig(config.Pipeline).
		WithWorkers(config.Workers).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis pipeline: %w", err)
	}

	startTime := time.Now()

	pages, err := loadPages(files)
	if err != nil {
		return nil, err
	}

	failed := 0
	reports, err := pl.AnalyzePages(pages, pipeline.ParallelConfig{
		MaxWorkers: config.Workers,
		Progress:   progressCallback,
		ErrorHandler: func(index int, err error) {
			failed++
			slog.Error("analysis failed", "file", files[index], "error", err)
		},
	})
	duration := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("batch analysis failed: %w", err)
	}

	return &Result{
		Reports:     reports,
		FilePaths:   files,
		Failed:      failed,
		Duration:    duration,
		WorkerCount: config.Workers,
	}, nil
}
