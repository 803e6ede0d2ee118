package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
	"github.com/couchcryptid/accident-data-prep/internal/observability"
)

// Extractor reads the raw dataset into memory.
type Extractor interface {
	Extract(ctx context.Context) (domain.RawTable, error)
}

// Transformer turns raw rows into cleaned accident records.
type Transformer interface {
	Transform(ctx context.Context, table domain.RawTable) ([]domain.Accident, error)
}

// Summarizer builds the aggregates and sample from cleaned records.
type Summarizer interface {
	Summarize(accidents []domain.Accident) domain.Dataset
}

// Loader persists one run's dataset to an output sink.
type Loader interface {
	Name() string
	Load(ctx context.Context, ds domain.Dataset) error
}

// Pipeline orchestrates one extract-transform-summarize-load run. Unlike a
// streaming service, a run either completes fully or fails outright; there is
// no retry, and re-running regenerates every output from scratch.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	summarizer  Summarizer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	done        atomic.Bool
}

// New creates a Pipeline with the given stages and observability. Loaders run
// in order; the first failure aborts the run.
func New(e Extractor, t Transformer, s Summarizer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		summarizer:  s,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully, or an
// error describing why outputs are not yet available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.done.Load() {
		return errors.New("preprocessing run has not completed yet")
	}
	return nil
}

// Run executes one complete preprocessing pass.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)

	err := p.run(ctx)
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.done.Store(true)
	p.logger.Info("run complete", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (p *Pipeline) run(ctx context.Context) error {
	table, err := p.extractor.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	p.metrics.RowsRead.Add(float64(len(table.Rows)))
	p.logger.Info("raw dataset loaded", "rows", len(table.Rows), "columns", len(table.Header))

	accidents, err := p.transformer.Transform(ctx, table)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	p.metrics.RowsCleaned.Add(float64(len(accidents)))

	ds := p.summarizer.Summarize(accidents)
	for _, agg := range ds.Aggregates {
		excluded := ds.RowsCleaned - agg.TotalCount()
		p.metrics.RowsExcluded.WithLabelValues(agg.Name).Add(float64(excluded))
		p.logger.Debug("aggregate computed",
			"aggregate", agg.Name,
			"buckets", len(agg.Rows),
			"rows_excluded", excluded,
		)
	}
	p.logger.Info("dataset summarized",
		"rows_cleaned", ds.RowsCleaned,
		"aggregates", len(ds.Aggregates),
		"sample_rows", len(ds.Sample),
	)

	for _, loader := range p.loaders {
		if err := loader.Load(ctx, ds); err != nil {
			return fmt.Errorf("load %s: %w", loader.Name(), err)
		}
		p.metrics.LoaderWrites.WithLabelValues(loader.Name()).Inc()
		p.logger.Info("dataset written", "sink", loader.Name())
	}

	return nil
}
