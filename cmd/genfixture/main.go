// Command genfixture writes a synthetic raw accidents CSV with the same
// schema as the real US-Accidents dataset. The real file is several GB and
// gated behind a Kaggle login, so local development and demos use a generated
// stand-in instead.
//
// Usage:
//
//	go run ./cmd/genfixture -out data/raw/US_Accidents_March23.csv -rows 5000 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var states = []struct {
	code   string
	cities []string
}{
	{"CA", []string{"Los Angeles", "San Diego", "Sacramento", "Fresno"}},
	{"TX", []string{"Houston", "Dallas", "Austin", "El Paso"}},
	{"FL", []string{"Miami", "Orlando", "Jacksonville"}},
	{"NY", []string{"New York", "Buffalo", "Rochester"}},
	{"OR", []string{"Portland", "Eugene"}},
	{"ME", []string{"Portland", "Bangor"}},
}

var weatherConditions = []string{
	"Clear", "Fair", "Mostly Cloudy", "Overcast", "Light Rain", "Rain",
	"Heavy Rain", "Thunderstorms and Rain", "Light Snow", "Snow", "Fog",
	"Haze", "Fair / Windy", "Squalls",
}

func main() {
	out := flag.String("out", "data/raw/US_Accidents_March23.csv", "output path for the synthetic CSV")
	rows := flag.Int("rows", 5000, "number of data rows to generate")
	seed := flag.Int64("seed", 42, "PRNG seed")
	flag.Parse()

	if err := run(*out, *rows, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(out string, rows int, seed int64) error {
	if rows <= 0 {
		return fmt.Errorf("invalid -rows %d: must be positive", rows)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"ID", "Severity", "Start_Time", "End_Time", "Start_Lat", "Start_Lng",
		"City", "County", "State", "Temperature(F)", "Visibility(mi)", "Weather_Condition",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < rows; i++ {
		if err := w.Write(syntheticRow(rng, base, i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", out, err)
	}

	log.Printf("wrote %d rows to %s", rows, out)
	return nil
}

// syntheticRow fabricates one accident. Roughly 2% of rows get a missing
// severity, weather, or city so the cleaning paths see realistic gaps.
func syntheticRow(rng *rand.Rand, base time.Time, i int) []string {
	st := states[rng.Intn(len(states))]
	city := st.cities[rng.Intn(len(st.cities))]
	start := base.Add(time.Duration(rng.Intn(365*24*60)) * time.Minute)
	duration := time.Duration(10+rng.Intn(180)) * time.Minute

	severity := strconv.Itoa(1 + rng.Intn(4))
	weather := weatherConditions[rng.Intn(len(weatherConditions))]

	switch rng.Intn(50) {
	case 0:
		severity = ""
	case 1:
		weather = ""
	case 2:
		city = ""
	}

	return []string{
		fmt.Sprintf("A-%d", i+1),
		severity,
		start.Format("2006-01-02 15:04:05"),
		start.Add(duration).Format("2006-01-02 15:04:05"),
		fmt.Sprintf("%.4f", 25.0+rng.Float64()*23), // rough contiguous-US latitude band
		fmt.Sprintf("%.4f", -124.0+rng.Float64()*57),
		city,
		"",
		st.code,
		fmt.Sprintf("%.1f", 10.0+rng.Float64()*90),
		fmt.Sprintf("%.1f", rng.Float64()*10),
		weather,
	}
}
