package domain

import (
	"time"
)

// Raw CSV column names, as published in the Kaggle dataset.
const (
	ColID               = "ID"
	ColSeverity         = "Severity"
	ColStartTime        = "Start_Time"
	ColEndTime          = "End_Time"
	ColStartLat         = "Start_Lat"
	ColStartLng         = "Start_Lng"
	ColCity             = "City"
	ColCounty           = "County"
	ColState            = "State"
	ColTemperature      = "Temperature(F)"
	ColVisibility       = "Visibility(mi)"
	ColWeatherCondition = "Weather_Condition"
)

// RequiredColumns must be present in the raw header for a run to proceed.
var RequiredColumns = []string{
	ColID,
	ColSeverity,
	ColStartTime,
	ColStartLat,
	ColStartLng,
	ColCity,
	ColState,
	ColWeatherCondition,
}

// OptionalColumns are used when present and silently skipped when absent,
// matching the defensive column handling of the original analysis.
var OptionalColumns = []string{
	ColEndTime,
	ColCounty,
	ColTemperature,
	ColVisibility,
}

// RawTable is an unprocessed CSV file held in memory: a header row plus data
// rows, all as strings. Column lookup is by header name so the service
// tolerates column reordering in future dataset revisions.
type RawTable struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewRawTable builds a RawTable and its column index.
func NewRawTable(header []string, rows [][]string) RawTable {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return RawTable{Header: header, Rows: rows, index: idx}
}

// Column returns the index of the named column, or -1 when absent.
func (t RawTable) Column(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Field returns the trimmed value of the named column in the given row, or ""
// when the column is absent.
func (t RawTable) Field(row []string, name string) string {
	i := t.Column(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Accident is one cleaned record with derived temporal and weather fields.
type Accident struct {
	ID               string
	Severity         float64
	StartTime        time.Time
	EndTime          time.Time
	Lat              float64
	Lng              float64
	City             string
	County           string
	State            string
	TemperatureF     float64
	VisibilityMi     float64
	WeatherCondition string

	// Derived fields, populated by BuildAccidents.
	WeatherCategory string
	Year            int
	Month           int
	Day             int
	Hour            int // 0-23, or -1 when StartTime is missing
	Weekday         int // 0=Monday .. 6=Sunday, or -1 when StartTime is missing
	Weekend         bool
	DurationMinutes float64 // 0 when either timestamp is missing
}

// HasStartTime reports whether the record carries a usable timestamp and can
// therefore contribute to the hour, weekday, and year-month aggregates.
func (a Accident) HasStartTime() bool {
	return !a.StartTime.IsZero()
}

// WeekdayName returns the English weekday name for the record's Monday-based
// weekday index, or "" when the timestamp is missing.
func (a Accident) WeekdayName() string {
	if a.Weekday < 0 || a.Weekday > 6 {
		return ""
	}
	return weekdayNames[a.Weekday]
}

// weekdayNames is indexed by the Monday-based weekday convention used across
// the processed outputs.
var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
