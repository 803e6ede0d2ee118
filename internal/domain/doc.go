// Package domain models records from the US-Accidents countrywide traffic
// accident dataset.
//
// # Data Source
//
// The raw input is the public US-Accidents CSV published on Kaggle
// (https://www.kaggle.com/datasets/sobhanmoosavi/us-accidents), covering
// accidents in the contiguous United States since 2016. The file is large
// (several GB) and must be downloaded manually; this service never fetches it.
//
// # Dataset Conventions
//
// Severity:
//
//	Ordinal 1-4 where 1 indicates the least impact on traffic and 4 the
//	greatest. Missing values are imputed with the column median rather than
//	dropped, matching the upstream analysis workflow.
//
// Timestamps:
//
//	"2006-01-02 15:04:05" local time, occasionally with a fractional-second
//	suffix in newer dataset revisions ("2006-01-02 15:04:05.000000000").
//	End_Time minus Start_Time gives the accident duration. Rows with an
//	unparseable Start_Time keep their location fields but are excluded from
//	the temporal aggregates.
//
// Weekday indexing:
//
//	0 = Monday through 6 = Sunday. A record is a weekend record when the
//	index is 5 or 6. Note this differs from Go's time.Weekday, which starts
//	at Sunday; see [weekdayIndex].
//
// Weather categories:
//
//	The raw Weather_Condition column holds free-form strings ("Light Rain",
//	"Thunderstorms and Rain", "Patches of Fog"). These collapse into coarse
//	categories by ordered substring match: clear, cloudy, rain, snow, fog,
//	thunderstorm, windy. Unmatched conditions map to "other", missing ones
//	to "unknown". The first matching group wins, so "Rain Shower" is rain,
//	not other. See [WeatherCategory].
//
// # Aggregation
//
// Six summary tables are derived per run: by state, city, hour of day,
// weekday, weather category, and year-month. A row missing a dimension value
// is excluded from that dimension's table only, never dropped globally.
// Output ordering is count descending with ties broken by a per-dimension
// sort key ascending, which keeps regenerated files byte-identical between
// runs over the same input.
package domain
