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

	"github.com/JonMunkholm/sheetmap/internal/config"
	"github.com/JonMunkholm/sheetmap/internal/importer"
	"github.com/JonMunkholm/sheetmap/internal/logging"
	"github.com/JonMunkholm/sheetmap/internal/schema"
	"github.com/JonMunkholm/sheetmap/internal/store"
	_ "github.com/JonMunkholm/sheetmap/internal/tables" // built-in schemas
	"github.com/JonMunkholm/sheetmap/internal/web"
)

func main() {
	// Overload lets .env win over the inherited environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	if dir := cfg.Import.SchemaDir; dir != "" {
		keys, err := schema.LoadDir(dir)
		if err != nil {
			slog.Error("failed to load schema definitions", "dir", dir, "error", err)
			os.Exit(1)
		}
		slog.Info("schema definitions loaded", "dir", dir, "schemas", keys)
	}
	slog.Info("schemas registered", "count", schema.Count(), "groups", schema.Groups())

	ctx := context.Background()
	var sink *store.Sink
	if cfg.Database.Enabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		sink = store.NewSink(pool)
	} else {
		slog.Warn("DATABASE_URL not set, persistence disabled")
	}

	service, err := importer.NewService(importer.ConfigFrom(cfg.Import), sink)
	if err != nil {
		slog.Error("failed to create import service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(cfg, service)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down", "active_imports", service.Status().Active)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
