package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
)

// AccidentTransformer implements Transformer using the domain cleaning and
// derivation functions.
type AccidentTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates an AccidentTransformer.
func NewTransformer(logger *slog.Logger) *AccidentTransformer {
	return &AccidentTransformer{logger: logger}
}

func (t *AccidentTransformer) Transform(_ context.Context, table domain.RawTable) ([]domain.Accident, error) {
	return domain.BuildAccidents(table)
}

// DatasetSummarizer implements Summarizer with a fixed sample size and seed.
type DatasetSummarizer struct {
	sampleSize int
	seed       int64
}

// NewSummarizer creates a DatasetSummarizer.
func NewSummarizer(sampleSize int, seed int64) *DatasetSummarizer {
	return &DatasetSummarizer{sampleSize: sampleSize, seed: seed}
}

func (s *DatasetSummarizer) Summarize(accidents []domain.Accident) domain.Dataset {
	return domain.Summarize(accidents, s.sampleSize, s.seed)
}
