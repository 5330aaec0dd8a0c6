package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/schedgen/adapter/api"
	"github.com/felixgeelhaar/schedgen/internal/app"
	"github.com/felixgeelhaar/schedgen/pkg/config"
	"github.com/felixgeelhaar/schedgen/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.LogConfig{
		Level:       observability.LogLevelInfo,
		Format:      observability.LogFormatText,
		Output:      os.Stdout,
		ServiceName: "schedgen-api",
	})

	logger.Info("starting schedgen API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfig{
			Level:       observability.LogLevelDebug,
			Format:      observability.LogFormatText,
			Output:      os.Stdout,
			ServiceName: "schedgen-api",
			AddSource:   true,
		})
	}

	var container *app.Container
	if cfg.IsLocalMode() {
		logger.Info("starting in local mode with SQLite", "database", cfg.SQLitePath)
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if container.OutboxProcessor != nil {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
	}

	handler := api.NewGenerationHandler(container.JobRunner)
	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	server := api.NewServer(serverCfg, handler, logger)
	server.RegisterHealthCheck("database", observability.DatabaseHealthChecker(container.DBConn.Ping))
	if container.RedisClient != nil {
		server.RegisterHealthCheck("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("API server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down API server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API server shutdown error", "error", err)
	}

	logger.Info("API server stopped")
}
