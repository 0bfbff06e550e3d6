package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

// ProgressCallback receives progress notifications during parallel analysis.
type ProgressCallback interface {
	OnStart(total int)
	OnProgress(completed int)
	OnComplete()
}

// ParallelConfig holds configuration for parallel page analysis.
type ParallelConfig struct {
	// MaxWorkers is the number of parallel workers (0 = runtime.NumCPU()).
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`

	// Progress receives per-page completion events, optional.
	Progress ProgressCallback `mapstructure:"-" yaml:"-" json:"-"`

	// ErrorHandler is invoked per failing page, optional. Failing pages
	// yield a nil report at their index instead of aborting the batch.
	ErrorHandler func(index int, err error) `mapstructure:"-" yaml:"-" json:"-"`
}

// DefaultParallelConfig returns sensible defaults for parallel analysis.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

type pageJob struct {
	index int
	page  geometry.Page
}

type pageResult struct {
	index  int
	report *Report
	err    error
}

// AnalyzePages analyzes multiple pages in parallel using a worker pool.
// Results are returned in input order; pages that fail analysis have a nil
// entry and are reported through the error handler.
func (p *Pipeline) AnalyzePages(pages []geometry.Page, cfg ParallelConfig) ([]*Report, error) {
	return p.AnalyzePagesContext(context.Background(), pages, cfg)
}

// AnalyzePagesContext is AnalyzePages with cancellation support.
func (p *Pipeline) AnalyzePagesContext(ctx context.Context, pages []geometry.Page, cfg ParallelConfig) ([]*Report, error) {
	if len(pages) == 0 {
		return nil, errors.New("pipeline: no pages provided")
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}

	if cfg.Progress != nil {
		cfg.Progress.OnStart(len(pages))
		defer cfg.Progress.OnComplete()
	}

	jobs := make(chan pageJob, len(pages))
	results := make(chan pageResult, len(pages))

	var wg sync.WaitGroup
	for range cfg.MaxWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				report, err := p.Analyze(job.page)
				results <- pageResult{index: job.index, report: report, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, page := range pages {
			select {
			case jobs <- pageJob{index: i, page: page}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	reports := make([]*Report, len(pages))
	completed := 0
	for res := range results {
		if res.err != nil {
			if cfg.ErrorHandler != nil {
				cfg.ErrorHandler(res.index, res.err)
			}
		} else {
			reports[res.index] = res.report
		}
		completed++
		if cfg.Progress != nil {
			cfg.Progress.OnProgress(completed)
		}
	}

	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, nil
}
