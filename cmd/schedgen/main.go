package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/schedgen/adapter/cli"
	"github.com/felixgeelhaar/schedgen/internal/app"
	"github.com/felixgeelhaar/schedgen/pkg/config"
	"github.com/felixgeelhaar/schedgen/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.LogConfig{
		Level:       observability.LogLevelInfo,
		Format:      observability.LogFormatText,
		Output:      os.Stderr,
		ServiceName: "schedgen-cli",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", LocalMode: true}
	}

	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfig{
			Level:       observability.LogLevelDebug,
			Format:      observability.LogFormatText,
			Output:      os.Stderr,
			ServiceName: "schedgen-cli",
			AddSource:   true,
		})
	}
	cli.SetLogger(logger)

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
		go func() {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Error("outbox processor failed to start", "error", err)
			}
		}()
	}

	cli.SetContainer(container)
	cli.Execute()
}
