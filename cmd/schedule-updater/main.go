package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/match-schedule/internal/app"
	"github.com/riskibarqy/match-schedule/internal/config"
	"github.com/riskibarqy/match-schedule/internal/observability"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Fields: []any{"service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv},
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	svc, err := app.NewUpdateService(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}

	ctx, span := otel.Tracer("match-schedule/cmd/schedule-updater").Start(ctx, "schedule-updater.run")
	defer span.End()

	start := time.Now()
	result, err := svc.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "schedule update failed", "error", err)
		return 1
	}

	logger.InfoContext(ctx, "schedule update finished",
		"status", string(result.Status),
		"raw_matches", result.RawCount,
		"matches", result.MatchCount,
		"fingerprint", result.Fingerprint,
		"duration", time.Since(start),
	)
	return 0
}
