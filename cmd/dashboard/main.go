package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/flood-flow-dashboard/internal/adapter/echarts"
	"github.com/couchcryptid/flood-flow-dashboard/internal/adapter/excel"
	httpadapter "github.com/couchcryptid/flood-flow-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-flow-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/flood-flow-dashboard/internal/config"
	"github.com/couchcryptid/flood-flow-dashboard/internal/dashboard"
	"github.com/couchcryptid/flood-flow-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	calendar, err := config.LoadFloodCalendar(cfg.FloodPeriodsFile)
	if err != nil {
		logger.Error("failed to load flood calendar", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := excel.NewSource(cfg.WorkbookPath, cfg.WorkbookSheet)
	snap, err := dashboard.Load(ctx, source, calendar, dashboard.LoadOptions{
		SampleFallback: cfg.SampleFallback,
		SampleSeed:     cfg.SampleSeed,
	}, logger, metrics)
	if err != nil {
		logger.Error("failed to load workbook", "error", err)
		os.Exit(1)
	}

	svc := dashboard.NewService(cfg.ChartCacheSize, metrics)
	if err := svc.Install(snap); err != nil {
		logger.Error("failed to install snapshot", "error", err)
		os.Exit(1)
	}

	// Publish statistics (feature-flagged via KAFKA_ENABLED).
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		pub := dashboard.NewPublisher(writer, logger, metrics, dashboard.DefaultPublishAttempts)
		logger.Info("statistics publishing enabled", "topic", cfg.KafkaStatsTopic, "brokers", cfg.KafkaBrokers)
		go func() {
			if err := pub.Publish(ctx, snap); err != nil {
				logger.Error("statistics publishing failed", "error", err)
			}
		}()
	} else {
		logger.Info("statistics publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, echarts.NewRenderer(httpadapter.PageTitle), logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
