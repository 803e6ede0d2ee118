package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the raw input and processed output locations, matching the
// layout the downstream notebook and BI dashboard expect.
const (
	DefaultRawCSVPath = "data/raw/US_Accidents_March23.csv"
	DefaultOutputDir  = "data/processed"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RawCSVPath string
	OutputDir  string

	SampleSize int
	SampleSeed int64

	LogLevel  string
	LogFormat string

	// Optional metrics/health listener, active for the duration of the run.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Optional output sinks, disabled when their setting is empty.
	XLSXPath   string
	SQLitePath string

	// Optional aggregate publisher (KAFKA_ENABLED / KAFKA_BROKERS / KAFKA_TOPIC).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	sampleSize, err := parsePositiveInt("SAMPLE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	sampleSeed, err := parseInt64("SAMPLE_SEED", 42)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RawCSVPath: envOrDefault("RAW_CSV_PATH", DefaultRawCSVPath),
		OutputDir:  envOrDefault("OUTPUT_DIR", DefaultOutputDir),

		SampleSize: sampleSize,
		SampleSeed: sampleSeed,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		XLSXPath:   os.Getenv("XLSX_PATH"),
		SQLitePath: os.Getenv("SQLITE_PATH"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "accident-aggregates"),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", cfg.LogFormat)
	}

	if cfg.RawCSVPath == "" {
		return nil, errors.New("RAW_CSV_PATH is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}

func parseInt64(key string, fallback int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, s)
	}
	return n, nil
}

func parsePositiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}
