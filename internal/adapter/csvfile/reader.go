// Package csvfile reads the raw US-Accidents CSV and writes the processed
// summary tables as CSV files.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
)

// Reader loads the raw dataset from disk. It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the raw CSV at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads the whole file into a RawTable. The dataset fits in memory at
// its published scale, so no chunked reading is attempted. A missing file
// yields a domain.MissingInputError with download instructions.
func (r *Reader) Extract(ctx context.Context) (domain.RawTable, error) {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return domain.RawTable{}, &domain.MissingInputError{Path: r.path}
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open raw dataset: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return domain.RawTable{}, fmt.Errorf("raw dataset %s is empty", r.path)
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return domain.RawTable{}, err
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("read raw dataset: %w", err)
		}
		rows = append(rows, row)
	}

	r.logger.Info("raw CSV read", "path", r.path, "rows", len(rows))
	return domain.NewRawTable(header, rows), nil
}
