package pipeline

import (
	"errors"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/fukuro/internal/confidence"
	"github.com/MeKo-Tech/fukuro/internal/extract"
	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

// Config holds configuration for the analysis pipeline and its components.
type Config struct {
	Extract    extract.Config    `mapstructure:"extract" yaml:"extract" json:"extract"`
	Confidence confidence.Config `mapstructure:"confidence" yaml:"confidence" json:"confidence"`
	Parallel   ParallelConfig    `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Extract:    extract.DefaultConfig(),
		Confidence: confidence.DefaultConfig(),
		Parallel:   DefaultParallelConfig(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole pipeline configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithExtractConfig overrides the dimension extractor configuration.
func (b *Builder) WithExtractConfig(cfg extract.Config) *Builder {
	b.cfg.Extract = cfg
	return b
}

// WithConfidenceConfig overrides the scorer configuration.
func (b *Builder) WithConfidenceConfig(cfg confidence.Config) *Builder {
	b.cfg.Confidence = cfg
	return b
}

// WithPageMidpoint overrides the zipper-position reference midpoint for
// non-A4 artboards.
func (b *Builder) WithPageMidpoint(y float64) *Builder {
	if y > 0 {
		b.cfg.Extract.PageMidpointY = y
	}
	return b
}

// WithWorkers sets the worker count for parallel page analysis.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Parallel.MaxWorkers = n
	}
	return b
}

// Build validates the configuration and constructs the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if b.cfg.Extract.PointsToMM <= 0 {
		return nil, errors.New("pipeline: points-to-mm conversion must be positive")
	}
	if s := b.cfg.Confidence.Weights.Sum(); s < 0.999 || s > 1.001 {
		return nil, errors.New("pipeline: confidence weights must sum to 1.0")
	}

	slog.Debug("pipeline built",
		"workers", b.cfg.Parallel.MaxWorkers,
		"standard_sizes", len(b.cfg.Confidence.StandardSizes))

	return &Pipeline{
		cfg:       b.cfg,
		extractor: extract.NewExtractor(b.cfg.Extract),
		scorer:    confidence.NewScorer(b.cfg.Confidence),
	}, nil
}

// Pipeline runs feature extraction and confidence scoring over page
// geometry. It holds no cross-call state; a single pipeline may be used
// from many goroutines concurrently.
type Pipeline struct {
	cfg       Config
	extractor *extract.Extractor
	scorer    *confidence.Scorer
}

// Config returns the pipeline's effective configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Analyze extracts the full specification from a page and scores it.
// The only hard failure is a page without any outline geometry.
func (p *Pipeline) Analyze(page geometry.Page) (*Report, error) {
	start := time.Now()

	dims, err := p.extractor.ExtractDimensions(page)
	if err != nil {
		return nil, err
	}

	specs := extract.Specs{
		Dimensions: dims,
		Material:   p.extractor.ExtractMaterial(page),
		Printing:   p.extractor.ExtractPrinting(page),
		Processing: p.extractor.ExtractProcessing(page, dims),
	}

	report := &Report{
		Specs:            specs,
		Confidence:       p.scorer.Calculate(&specs, page),
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}

	slog.Debug("page analyzed",
		"envelope_type", specs.Dimensions.EnvelopeType,
		"overall_confidence", report.Confidence.Overall,
		"duration_ms", report.ProcessingTimeMS)
	return report, nil
}

// Score re-scores an already extracted (possibly manually corrected)
// specification against its source page.
func (p *Pipeline) Score(specs *extract.Specs, page geometry.Page) confidence.Score {
	return p.scorer.Calculate(specs, page)
}
