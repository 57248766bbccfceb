// Package main runs the dm_Analytics Mini App screen in a terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmanalytics/miniapp/internal/backend"
	"github.com/dmanalytics/miniapp/internal/config"
	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/logging"
	"github.com/dmanalytics/miniapp/internal/metrics"
	"github.com/dmanalytics/miniapp/internal/screen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.InitData == "" {
		logger.Warn("TWA_INIT_DATA is empty, the backend will reject authentication")
	}

	console := host.NewConsole(cfg.InitData, os.Stdout, logger)
	client := backend.New(cfg.BackendURL, console.InitData(),
		backend.WithHTTPClient(backend.NewHTTPClient(cfg.RequestTimeout)),
		backend.WithLogger(logger),
	)
	recorder := metrics.NewInMemory()

	scr := screen.New(client, console, screen.Options{
		PollInterval:   cfg.SyncPollInterval,
		Watchdog:       cfg.SyncWatchdog,
		BannerDuration: cfg.BannerDuration,
		Logger:         logger,
		Metrics:        recorder,
	})
	defer scr.Close()

	logger.Info("starting mini app", "backend", cfg.BackendURL, "env", cfg.AppEnv)

	scr.Bootstrap(ctx)
	render(os.Stdout, scr.Snapshot())
	fmt.Fprintln(os.Stdout, "type help for commands")

	r := &repl{scr: scr, out: os.Stdout, metrics: recorder}
	r.run(ctx, os.Stdin)
}
