// Command prep runs one preprocessing pass over the raw US-Accidents CSV:
// clean, derive, aggregate, sample, and write the processed outputs. It exits
// 0 on success and 1 with a remediation message on any failure.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/accident-data-prep/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/accident-data-prep/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/accident-data-prep/internal/adapter/kafka"
	"github.com/couchcryptid/accident-data-prep/internal/adapter/sqlitestore"
	"github.com/couchcryptid/accident-data-prep/internal/adapter/xlsx"
	"github.com/couchcryptid/accident-data-prep/internal/config"
	"github.com/couchcryptid/accident-data-prep/internal/observability"
	"github.com/couchcryptid/accident-data-prep/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loaders := []pipeline.Loader{
		csvfile.NewWriter(cfg.OutputDir, logger),
	}
	if cfg.XLSXPath != "" {
		loaders = append(loaders, xlsx.NewWriter(cfg.XLSXPath, logger))
		logger.Info("xlsx output enabled", "path", cfg.XLSXPath)
	}
	if cfg.SQLitePath != "" {
		loaders = append(loaders, sqlitestore.NewWriter(cfg.SQLitePath, logger))
		logger.Info("sqlite output enabled", "path", cfg.SQLitePath)
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		loaders = append(loaders, publisher)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(
		csvfile.NewReader(cfg.RawCSVPath, logger),
		pipeline.NewTransformer(logger),
		pipeline.NewSummarizer(cfg.SampleSize, cfg.SampleSeed),
		loaders,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics/health listener for containerized runs.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http listener error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("preprocessing failed", "error", runErr)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http listener shutdown error", "error", err)
		}
		cancel()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
