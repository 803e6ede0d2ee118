package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
)

// Dimension describes one grouping axis for the summary tables. Extract
// returns the bucket value for a record, a key used to order tied buckets,
// and whether the record carries the dimension at all. Records lacking a
// dimension are excluded from that dimension's table only.
type Dimension struct {
	Name         string // output table name, e.g. "state_data"
	Label        string // dimension column header in the output
	WithSeverity bool   // include a mean-severity column
	Extract      func(a Accident) (value, sortKey string, ok bool)
}

// Dimensions lists the six summary tables produced per run. Severity
// statistics are enabled per dimension rather than uniformly: state and
// weather carry a mean-severity column, the rest are plain counts.
var Dimensions = []Dimension{
	{
		Name:         "state_data",
		Label:        "State",
		WithSeverity: true,
		Extract: func(a Accident) (string, string, bool) {
			return a.State, a.State, a.State != ""
		},
	},
	{
		Name:  "city_data",
		Label: "City",
		Extract: func(a Accident) (string, string, bool) {
			if a.City == "" || a.State == "" {
				return "", "", false
			}
			// Qualified with the state so same-named cities stay separate.
			v := a.City + ", " + a.State
			return v, v, true
		},
	},
	{
		Name:  "hour_data",
		Label: "Hour",
		Extract: func(a Accident) (string, string, bool) {
			if a.Hour < 0 {
				return "", "", false
			}
			// Zero-padded so lexicographic tie-breaks match numeric order.
			v := fmt.Sprintf("%02d", a.Hour)
			return v, v, true
		},
	},
	{
		Name:  "weekday_data",
		Label: "Weekday",
		Extract: func(a Accident) (string, string, bool) {
			if a.Weekday < 0 {
				return "", "", false
			}
			return a.WeekdayName(), strconv.Itoa(a.Weekday), true
		},
	},
	{
		Name:         "weather_data",
		Label:        "Weather_Category",
		WithSeverity: true,
		Extract: func(a Accident) (string, string, bool) {
			// WeatherCategory maps missing conditions to "unknown", so every
			// record lands in a bucket.
			v := a.WeatherCategory
			return v, v, true
		},
	},
	{
		Name:  "time_data",
		Label: "Year_Month",
		Extract: func(a Accident) (string, string, bool) {
			if !a.HasStartTime() {
				return "", "", false
			}
			v := fmt.Sprintf("%04d-%02d", a.Year, a.Month)
			return v, v, true
		},
	},
}

// AggregateRow is one bucket of a summary table.
type AggregateRow struct {
	Value       string
	Count       int
	AvgSeverity *float64 // nil unless the dimension carries severity stats

	sortKey string
}

// Aggregate is one complete summary table, ordered by count descending with
// ties broken by the dimension sort key ascending.
type Aggregate struct {
	Name         string
	Label        string
	WithSeverity bool
	Rows         []AggregateRow
}

// TotalCount sums the counts across all buckets. It equals the number of
// cleaned records that carry this dimension.
func (a Aggregate) TotalCount() int {
	total := 0
	for _, row := range a.Rows {
		total += row.Count
	}
	return total
}

// AggregateBy groups the records along one dimension.
func AggregateBy(dim Dimension, accidents []Accident) Aggregate {
	type bucket struct {
		sortKey    string
		count      int
		severities []float64
	}

	buckets := make(map[string]*bucket)
	for _, a := range accidents {
		value, sortKey, ok := dim.Extract(a)
		if !ok {
			continue
		}
		b := buckets[value]
		if b == nil {
			b = &bucket{sortKey: sortKey}
			buckets[value] = b
		}
		b.count++
		if dim.WithSeverity {
			b.severities = append(b.severities, a.Severity)
		}
	}

	rows := make([]AggregateRow, 0, len(buckets))
	for value, b := range buckets {
		row := AggregateRow{Value: value, Count: b.count, sortKey: b.sortKey}
		if dim.WithSeverity {
			if mean, err := stats.Mean(stats.Float64Data(b.severities)); err == nil {
				row.AvgSeverity = &mean
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].sortKey < rows[j].sortKey
	})

	return Aggregate{Name: dim.Name, Label: dim.Label, WithSeverity: dim.WithSeverity, Rows: rows}
}

// Dataset bundles everything a loader persists for one run.
type Dataset struct {
	Aggregates  []Aggregate
	Sample      []Accident
	RowsCleaned int
	GeneratedAt time.Time
}

// Summarize computes all six aggregates and the fixed-seed sample.
func Summarize(accidents []Accident, sampleSize int, seed int64) Dataset {
	aggregates := make([]Aggregate, 0, len(Dimensions))
	for _, dim := range Dimensions {
		aggregates = append(aggregates, AggregateBy(dim, accidents))
	}
	return Dataset{
		Aggregates:  aggregates,
		Sample:      SampleAccidents(accidents, sampleSize, seed),
		RowsCleaned: len(accidents),
		GeneratedAt: clock.Now(),
	}
}
