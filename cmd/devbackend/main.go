// Package main runs a local stand-in for the dm_Analytics backend so the
// Mini App screen can be exercised without the hosted service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/dmanalytics/miniapp/internal/analytics"
	"github.com/dmanalytics/miniapp/internal/config"
	"github.com/dmanalytics/miniapp/internal/handler"
	"github.com/dmanalytics/miniapp/internal/logging"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/server"
	"github.com/dmanalytics/miniapp/internal/store"
)

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	st, storeName, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("store ready", "backend", storeName)

	if err := seedAdmins(ctx, st, cfg.GetDevAdminIDs()); err != nil {
		logger.Error("failed to seed admins", "error", err)
		os.Exit(1)
	}

	worker := analytics.NewSyncWorker(st, logger, cfg.DevSyncStep)

	router := handler.NewRouter(handler.RouterConfig{
		Handler:     handler.New(st, worker, logger),
		Health:      handler.NewHealthHandler(map[string]handler.HealthChecker{storeName: st}),
		Logger:      logger,
		BotToken:    cfg.DevBotToken,
		CORSOrigins: cfg.DevCORSOrigins,
		Development: cfg.IsDevelopment(),
	})

	srv := server.New(router, server.Options{
		Port:            cfg.DevPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("store", func(ctx context.Context) error { return st.Close() })
	srv.OnShutdown("sync", worker.Shutdown)

	logger.Info("starting dev backend",
		"port", cfg.DevPort,
		"env", cfg.AppEnv,
		"signature_checks", cfg.DevBotToken != "",
		"admins", len(cfg.GetDevAdminIDs()),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore picks Redis when REDIS_URL is set, then SQLite when
// DEV_SQLITE_PATH is set, and memory otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, string, error) {
	if cfg.RedisURL == "" {
		if cfg.DevSQLitePath != "" {
			st, err := store.NewSQLite(ctx, cfg.DevSQLitePath)
			if err != nil {
				return nil, "", err
			}
			return st, "sqlite", nil
		}
		return store.NewMemory(), "memory", nil
	}
	st, err := store.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, "", err
	}
	return st, "redis", nil
}

// seedAdmins registers every DEV_ADMIN_IDS entry as an admin. Existing
// users are left untouched.
func seedAdmins(ctx context.Context, st store.Store, ids []int64) error {
	for _, id := range ids {
		err := st.CreateUser(ctx, &store.User{
			TelegramID: id,
			Username:   fmt.Sprintf("@admin%d", id),
			FullName:   fmt.Sprintf("Admin %d", id),
			Whois:      model.RoleAdmin,
		})
		if err != nil && !errors.Is(err, store.ErrUserExists) {
			return fmt.Errorf("seed admin %d: %w", id, err)
		}
	}
	return nil
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
