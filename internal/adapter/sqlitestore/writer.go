// Package sqlitestore persists a run's dataset into a single SQLite database
// file, one table per aggregate plus the sample. Useful for BI tools that
// prefer a relational source over flat CSVs.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
	_ "modernc.org/sqlite"
)

// Writer implements pipeline.Loader for SQLite output.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting the database file at path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Name() string { return "sqlite" }

// Load recreates every table from scratch inside one transaction, so a
// half-written database never survives a failed run.
func (w *Writer) Load(ctx context.Context, ds domain.Dataset) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.WriteError{Path: dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite", w.path)
	if err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, agg := range ds.Aggregates {
		if err := writeAggregateTable(ctx, tx, agg); err != nil {
			return &domain.WriteError{Path: w.path, Err: err}
		}
	}
	if err := writeSampleTable(ctx, tx, ds.Sample); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}
	if err := writeRunInfo(ctx, tx, ds); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}

	w.logger.Info("sqlite database written", "path", w.path, "tables", len(ds.Aggregates)+2)
	return nil
}

func writeAggregateTable(ctx context.Context, tx *sql.Tx, agg domain.Aggregate) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, agg.Name)); err != nil {
		return fmt.Errorf("drop %s: %w", agg.Name, err)
	}

	columns := `value TEXT NOT NULL, accident_count INTEGER NOT NULL`
	if agg.WithSeverity {
		columns += `, avg_severity REAL`
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (%s)`, agg.Name, columns)); err != nil {
		return fmt.Errorf("create %s: %w", agg.Name, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s VALUES (?, ?)`, agg.Name)
	if agg.WithSeverity {
		insert = fmt.Sprintf(`INSERT INTO %s VALUES (?, ?, ?)`, agg.Name)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", agg.Name, err)
	}
	defer stmt.Close()

	for _, row := range agg.Rows {
		args := []any{row.Value, row.Count}
		if agg.WithSeverity {
			if row.AvgSeverity != nil {
				args = append(args, *row.AvgSeverity)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", agg.Name, err)
		}
	}
	return nil
}

func writeSampleTable(ctx context.Context, tx *sql.Tx, sample []domain.Accident) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS accidents_sample`); err != nil {
		return fmt.Errorf("drop accidents_sample: %w", err)
	}

	cols := make([]string, len(domain.SampleColumns))
	for i, name := range domain.SampleColumns {
		cols[i] = columnName(name)
	}
	create := fmt.Sprintf(`CREATE TABLE accidents_sample (%s)`, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create accidents_sample: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO accidents_sample VALUES (%s)`, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert accidents_sample: %w", err)
	}
	defer stmt.Close()

	for _, a := range sample {
		if _, err := stmt.ExecContext(ctx, domain.SampleValues(a)...); err != nil {
			return fmt.Errorf("insert into accidents_sample: %w", err)
		}
	}
	return nil
}

// writeRunInfo records when the dataset was generated and from how many rows.
func writeRunInfo(ctx context.Context, tx *sql.Tx, ds domain.Dataset) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS run_info`); err != nil {
		return fmt.Errorf("drop run_info: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`CREATE TABLE run_info (generated_at TEXT NOT NULL, rows_cleaned INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create run_info: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO run_info VALUES (?, ?)`,
		ds.GeneratedAt.UTC().Format("2006-01-02 15:04:05"), ds.RowsCleaned); err != nil {
		return fmt.Errorf("insert run_info: %w", err)
	}
	return nil
}

// columnName lowercases a sample column header and strips the characters that
// are awkward in SQL identifiers: "Temperature(F)" becomes temperature_f.
func columnName(header string) string {
	s := strings.ToLower(header)
	s = strings.NewReplacer("(", "_", ")", "", "-", "_").Replace(s)
	return strings.Trim(s, "_")
}
