package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
)

// SampleFileName is the basename of the persisted sample table.
const SampleFileName = "accidents_sample.csv"

// Writer persists a run's dataset as CSV files in the output directory,
// overwriting any previous run's files. It implements pipeline.Loader.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

func (w *Writer) Name() string { return "csv" }

// Load writes the six aggregate files plus the sample file.
func (w *Writer) Load(_ context.Context, ds domain.Dataset) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return &domain.WriteError{Path: w.dir, Err: err}
	}

	for _, agg := range ds.Aggregates {
		path := filepath.Join(w.dir, agg.Name+".csv")
		if err := w.writeAggregate(path, agg); err != nil {
			return err
		}
	}

	samplePath := filepath.Join(w.dir, SampleFileName)
	if err := w.writeSample(samplePath, ds.Sample); err != nil {
		return err
	}

	w.logger.Info("processed CSVs written", "dir", w.dir, "files", len(ds.Aggregates)+1)
	return nil
}

func (w *Writer) writeAggregate(path string, agg domain.Aggregate) error {
	header := []string{agg.Label, "Accident_Count"}
	if agg.WithSeverity {
		header = append(header, "Avg_Severity")
	}

	records := make([][]string, 0, len(agg.Rows))
	for _, row := range agg.Rows {
		rec := []string{row.Value, strconv.Itoa(row.Count)}
		if agg.WithSeverity {
			sev := ""
			if row.AvgSeverity != nil {
				sev = strconv.FormatFloat(*row.AvgSeverity, 'f', -1, 64)
			}
			rec = append(rec, sev)
		}
		records = append(records, rec)
	}

	return writeCSVFile(path, header, records)
}

func (w *Writer) writeSample(path string, sample []domain.Accident) error {
	records := make([][]string, 0, len(sample))
	for _, a := range sample {
		records = append(records, formatRecord(domain.SampleValues(a)))
	}
	return writeCSVFile(path, domain.SampleColumns, records)
}

// writeCSVFile creates (truncating) path and writes header plus records.
func writeCSVFile(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return &domain.WriteError{Path: path, Err: err}
	}
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return &domain.WriteError{Path: path, Err: err}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return &domain.WriteError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	return nil
}

// formatRecord renders typed sample values as CSV cells. Floats use the
// shortest round-trip representation so regenerated files stay byte-identical.
func formatRecord(values []any) []string {
	record := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			record[i] = ""
		case string:
			record[i] = x
		case int:
			record[i] = strconv.Itoa(x)
		case float64:
			record[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			record[i] = fmt.Sprint(x)
		}
	}
	return record
}
