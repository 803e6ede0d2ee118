// Package xlsx writes a run's dataset as a single Excel workbook, one
// worksheet per aggregate plus the sample. Intended for analysts who want the
// summaries without loading seven CSVs.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SampleSheetName is the worksheet holding the sampled records.
const SampleSheetName = "accidents_sample"

// Writer implements pipeline.Loader for Excel output.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path (e.g. data/processed/summary.xlsx).
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Name() string { return "xlsx" }

// Load builds the workbook in memory and saves it, replacing any previous
// version.
func (w *Writer) Load(_ context.Context, ds domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, agg := range ds.Aggregates {
		if err := writeAggregateSheet(f, agg); err != nil {
			return &domain.WriteError{Path: w.path, Err: err}
		}
	}
	if err := writeSampleSheet(f, ds.Sample); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}

	// Drop the default sheet excelize creates with every new file.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.WriteError{Path: dir, Err: err}
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}

	w.logger.Info("workbook written", "path", w.path, "sheets", len(ds.Aggregates)+1)
	return nil
}

func writeAggregateSheet(f *excelize.File, agg domain.Aggregate) error {
	if _, err := f.NewSheet(agg.Name); err != nil {
		return fmt.Errorf("new sheet %s: %w", agg.Name, err)
	}

	header := []any{agg.Label, "Accident_Count"}
	if agg.WithSeverity {
		header = append(header, "Avg_Severity")
	}
	if err := setRow(f, agg.Name, 1, header); err != nil {
		return err
	}

	for i, row := range agg.Rows {
		cells := []any{row.Value, row.Count}
		if agg.WithSeverity {
			if row.AvgSeverity != nil {
				cells = append(cells, *row.AvgSeverity)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := setRow(f, agg.Name, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeSampleSheet(f *excelize.File, sample []domain.Accident) error {
	if _, err := f.NewSheet(SampleSheetName); err != nil {
		return fmt.Errorf("new sheet %s: %w", SampleSheetName, err)
	}

	header := make([]any, len(domain.SampleColumns))
	for i, col := range domain.SampleColumns {
		header[i] = col
	}
	if err := setRow(f, SampleSheetName, 1, header); err != nil {
		return err
	}

	for i, a := range sample {
		if err := setRow(f, SampleSheetName, i+2, domain.SampleValues(a)); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d on %s: %w", rowNum, sheet, err)
	}
	return nil
}
