package domain

import "time"

// SampleColumns is the header of the persisted sample table: the raw columns
// the preprocessing keeps plus every derived field, in the order downstream
// consumers expect.
var SampleColumns = []string{
	"ID", "Severity", "Start_Time", "End_Time", "Start_Lat", "Start_Lng",
	"City", "County", "State", "Temperature(F)", "Visibility(mi)",
	"Weather_Condition", "Weather_Category",
	"Year", "Month", "Day", "Hour", "DayOfWeek", "Weekend", "Duration_Minutes",
}

// SampleValues returns one sample row as typed values aligned with
// SampleColumns. Missing temporal fields are nil, which each sink renders as
// its native empty value (blank CSV cell, empty spreadsheet cell, SQL NULL).
func SampleValues(a Accident) []any {
	values := []any{
		a.ID,
		a.Severity,
		formatTimestamp(a.StartTime),
		formatTimestamp(a.EndTime),
		a.Lat,
		a.Lng,
		a.City,
		a.County,
		a.State,
		a.TemperatureF,
		a.VisibilityMi,
		a.WeatherCondition,
		a.WeatherCategory,
	}

	if a.HasStartTime() {
		weekend := 0
		if a.Weekend {
			weekend = 1
		}
		values = append(values, a.Year, a.Month, a.Day, a.Hour, a.Weekday, weekend)
	} else {
		values = append(values, nil, nil, nil, nil, nil, nil)
	}

	return append(values, a.DurationMinutes)
}

// formatTimestamp renders a dataset timestamp in the raw file's layout, or
// nil when missing.
func formatTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02 15:04:05")
}
