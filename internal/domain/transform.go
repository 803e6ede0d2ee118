package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Timestamp layouts seen across dataset revisions. The March 2023 drop added
// nanosecond suffixes to some rows.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000000000",
}

// weatherGroups maps coarse categories to the substrings that select them.
// Order matters: the first group containing a matching term wins, so
// "Thunderstorms and Rain" is classified as rain, exactly as the original
// analysis pipeline did.
var weatherGroups = []struct {
	category string
	terms    []string
}{
	{"clear", []string{"clear", "fair", "sunny"}},
	{"cloudy", []string{"cloudy", "overcast", "partly cloudy"}},
	{"rain", []string{"rain", "drizzle", "shower"}},
	{"snow", []string{"snow", "sleet", "ice", "freezing"}},
	{"fog", []string{"fog", "haze", "smoke"}},
	{"thunderstorm", []string{"thunderstorm", "storm"}},
	{"windy", []string{"windy", "breezy"}},
}

// BuildAccidents validates the raw header, parses every row, imputes missing
// numeric values with the column median, and derives the temporal and weather
// fields used by the aggregates.
func BuildAccidents(table RawTable) ([]Accident, error) {
	if err := checkSchema(table); err != nil {
		return nil, err
	}

	accidents := make([]Accident, 0, len(table.Rows))
	for _, row := range table.Rows {
		accidents = append(accidents, parseRow(table, row))
	}

	imputeNumericColumns(accidents)

	for i := range accidents {
		deriveFields(&accidents[i])
	}

	return accidents, nil
}

// checkSchema verifies that every required column is present in the header.
func checkSchema(table RawTable) error {
	for _, col := range RequiredColumns {
		if table.Column(col) < 0 {
			return &SchemaError{Column: col}
		}
	}
	return nil
}

// parseRow converts one raw CSV row into an Accident. Missing or malformed
// numeric values become NaN so the imputation pass can find them.
func parseRow(table RawTable, row []string) Accident {
	return Accident{
		ID:               strings.TrimSpace(table.Field(row, ColID)),
		Severity:         parseFloatOrNaN(table.Field(row, ColSeverity)),
		StartTime:        parseTimestamp(table.Field(row, ColStartTime)),
		EndTime:          parseTimestamp(table.Field(row, ColEndTime)),
		Lat:              parseFloatOrNaN(table.Field(row, ColStartLat)),
		Lng:              parseFloatOrNaN(table.Field(row, ColStartLng)),
		City:             strings.TrimSpace(table.Field(row, ColCity)),
		County:           strings.TrimSpace(table.Field(row, ColCounty)),
		State:            strings.ToUpper(strings.TrimSpace(table.Field(row, ColState))),
		TemperatureF:     parseFloatOrNaN(table.Field(row, ColTemperature)),
		VisibilityMi:     parseFloatOrNaN(table.Field(row, ColVisibility)),
		WeatherCondition: strings.TrimSpace(table.Field(row, ColWeatherCondition)),
	}
}

// parseFloatOrNaN parses a string as float64, returning NaN for empty or
// malformed values. Dirty numerics are treated the same as missing ones.
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseTimestamp tries each known layout, returning the zero time on failure.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// imputeNumericColumns replaces NaN values in each numeric column with that
// column's median across the loaded rows. A column with no parseable values
// at all is left as zeros.
func imputeNumericColumns(accidents []Accident) {
	columns := []func(*Accident) *float64{
		func(a *Accident) *float64 { return &a.Severity },
		func(a *Accident) *float64 { return &a.Lat },
		func(a *Accident) *float64 { return &a.Lng },
		func(a *Accident) *float64 { return &a.TemperatureF },
		func(a *Accident) *float64 { return &a.VisibilityMi },
	}

	for _, field := range columns {
		present := make([]float64, 0, len(accidents))
		for i := range accidents {
			if v := *field(&accidents[i]); !math.IsNaN(v) {
				present = append(present, v)
			}
		}

		fill := 0.0
		if median, err := stats.Median(stats.Float64Data(present)); err == nil {
			fill = median
		}

		for i := range accidents {
			if v := field(&accidents[i]); math.IsNaN(*v) {
				*v = fill
			}
		}
	}
}

// deriveFields populates the derived columns from the parsed record.
func deriveFields(a *Accident) {
	a.WeatherCategory = WeatherCategory(a.WeatherCondition)

	if !a.HasStartTime() {
		a.Hour = -1
		a.Weekday = -1
		return
	}

	a.Year = a.StartTime.Year()
	a.Month = int(a.StartTime.Month())
	a.Day = a.StartTime.Day()
	a.Hour = a.StartTime.Hour()
	a.Weekday = weekdayIndex(a.StartTime)
	a.Weekend = a.Weekday >= 5

	if !a.EndTime.IsZero() && a.EndTime.After(a.StartTime) {
		a.DurationMinutes = a.EndTime.Sub(a.StartTime).Minutes()
	}
}

// weekdayIndex converts Go's Sunday-based weekday to the Monday-based index
// used throughout the processed outputs.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeatherCategory collapses a free-form weather condition string into one of
// the coarse categories. Missing conditions map to "unknown", unmatched ones
// to "other".
func WeatherCategory(condition string) string {
	condition = strings.ToLower(strings.TrimSpace(condition))
	if condition == "" {
		return "unknown"
	}
	for _, group := range weatherGroups {
		for _, term := range group.terms {
			if strings.Contains(condition, term) {
				return group.category
			}
		}
	}
	return "other"
}
