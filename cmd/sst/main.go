package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/sst-trends/internal/adapter/chart"
	"github.com/couchcryptid/sst-trends/internal/adapter/csvfile"
	"github.com/couchcryptid/sst-trends/internal/config"
	"github.com/couchcryptid/sst-trends/internal/observability"
	"github.com/couchcryptid/sst-trends/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader := csvfile.NewReader(cfg.InputPath, cfg.DateColumn, cfg.TempColumn, logger)
	renderer, err := chart.NewRenderer(cfg.OutputDir, cfg.ChartWidth, cfg.ChartHeight, logger)
	if err != nil {
		logger.Error("failed to prepare output", "error", err, "dir", cfg.OutputDir)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("pipeline started", "input", cfg.InputPath, "output_dir", cfg.OutputDir)
	_, runErr := pipeline.New(reader, renderer, logger, metrics).Run(ctx)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
	}

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); err != nil {
			logger.Error("metrics export failed", "error", err)
		} else {
			logger.Info("metrics written", "path", cfg.MetricsTextfile)
		}
	}

	if runErr != nil {
		stop()
		os.Exit(1)
	}
}
