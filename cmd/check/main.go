// Command check verifies the integrity of a processed output directory
// against the raw dataset it was generated from. It recomputes the aggregates
// with the same domain logic and compares bucket counts, count sums, and the
// sample invariants.
//
// Usage:
//
//	go run ./cmd/check \
//	  -raw data/raw/US_Accidents_March23.csv \
//	  -processed data/processed \
//	  -sample-size 1000 -sample-seed 42
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/accident-data-prep/internal/adapter/csvfile"
	"github.com/couchcryptid/accident-data-prep/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	raw := flag.String("raw", "data/raw/US_Accidents_March23.csv", "path to the raw dataset")
	processed := flag.String("processed", "data/processed", "processed output directory")
	sampleSize := flag.Int("sample-size", 1000, "sample size the run was configured with")
	sampleSeed := flag.Int64("sample-seed", 42, "sample seed the run was configured with")
	flag.Parse()

	os.Exit(run(*raw, *processed, *sampleSize, *sampleSeed))
}

func run(rawPath, processedDir string, sampleSize int, sampleSeed int64) int {
	fmt.Println("=== Processed Output Integrity Check ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	table, err := csvfile.NewReader(rawPath, logger).Extract(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw dataset: %v\n", err)
		return 1
	}

	accidents, err := domain.BuildAccidents(table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: transform raw dataset: %v\n", err)
		return 1
	}

	ds := domain.Summarize(accidents, sampleSize, sampleSeed)

	phases := []*phase{
		checkAggregates(processedDir, ds),
		checkSample(processedDir, ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println()
	fmt.Println("All checks passed.")
	return 0
}

// checkAggregates compares every written aggregate file against the
// recomputed tables.
func checkAggregates(dir string, ds domain.Dataset) *phase {
	p := &phase{name: "aggregate tables match recomputation"}

	for _, agg := range ds.Aggregates {
		path := filepath.Join(dir, agg.Name+".csv")
		records, err := readCSV(path)
		if err != nil {
			p.errorf("%s: %v", agg.Name, err)
			continue
		}
		if len(records) == 0 {
			p.errorf("%s: file has no header", agg.Name)
			continue
		}

		rows := records[1:]
		if len(rows) != len(agg.Rows) {
			p.errorf("%s: %d rows written, %d recomputed", agg.Name, len(rows), len(agg.Rows))
			continue
		}

		writtenTotal := 0
		for i, rec := range rows {
			count, err := strconv.Atoi(rec[1])
			if err != nil {
				p.errorf("%s row %d: bad count %q", agg.Name, i+1, rec[1])
				continue
			}
			writtenTotal += count

			if rec[0] != agg.Rows[i].Value || count != agg.Rows[i].Count {
				p.errorf("%s row %d: written (%s, %d), recomputed (%s, %d)",
					agg.Name, i+1, rec[0], count, agg.Rows[i].Value, agg.Rows[i].Count)
			}
		}

		if recomputed := agg.TotalCount(); writtenTotal != recomputed {
			p.errorf("%s: counts sum to %d, expected %d", agg.Name, writtenTotal, recomputed)
		}
	}

	return p
}

// checkSample verifies the sample file size, ID uniqueness, and membership in
// the cleaned record set.
func checkSample(dir string, ds domain.Dataset) *phase {
	p := &phase{name: "sample table invariants"}

	path := filepath.Join(dir, csvfile.SampleFileName)
	records, err := readCSV(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if len(records) == 0 {
		p.errorf("sample file has no header")
		return p
	}

	rows := records[1:]
	if len(rows) != len(ds.Sample) {
		p.errorf("sample has %d rows, expected %d", len(rows), len(ds.Sample))
	}

	seen := make(map[string]bool, len(rows))
	for i, rec := range rows {
		id := rec[0]
		if seen[id] {
			p.errorf("duplicate sample ID %q at row %d", id, i+1)
		}
		seen[id] = true
	}

	for i, a := range ds.Sample {
		if i >= len(rows) {
			break
		}
		if rows[i][0] != a.ID {
			p.errorf("sample row %d: written ID %q, recomputed %q", i+1, rows[i][0], a.ID)
		}
	}

	return p
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}
