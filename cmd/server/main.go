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

	"github.com/JonMunkholm/qbank/internal/config"
	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/logging"
	"github.com/JonMunkholm/qbank/internal/masterdata"
	"github.com/JonMunkholm/qbank/internal/metrics"
	"github.com/JonMunkholm/qbank/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Data.Dir,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	m := metrics.New()
	service := core.NewService(core.Options{
		MaxFileSize:   cfg.Import.MaxFileSize,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
		Recorder:      m,
	})

	ctx := context.Background()

	// Seed files merge in the order configured; a read failure merges none of them.
	if len(cfg.Data.SeedFiles) > 0 {
		results, err := service.ImportFiles(ctx, cfg.Data.SeedFiles)
		if err != nil {
			slog.Error("failed to load seed files", "error", err)
			os.Exit(1)
		}
		for _, r := range results {
			slog.Info("seed file merged", "file", r.FileName, "inserted", r.Inserted, "updated", r.Updated, "skipped", r.Skipped)
		}
	}
	if cfg.Data.HistoryFile != "" {
		if _, err := service.LoadHistoryFile(ctx, cfg.Data.HistoryFile); err != nil {
			slog.Warn("history file not loaded", "error", err)
		}
	}

	masters := masterdata.NewStore(cfg.Data.Dir, slog.Default())
	slog.Info("master data loaded",
		"templates", len(masters.Get().Templates),
		"keywords", len(masters.Get().Keywords),
	)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	if cfg.Data.Watch {
		go func() {
			if err := masters.Watch(jobCtx, masterdata.DefaultDebounce); err != nil {
				slog.Warn("master data watch stopped", "error", err)
			}
		}()
	}

	server := web.NewServer(cfg, service, masters, m)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight imports to finish reading (with timeout)
		if status := service.ImportStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
