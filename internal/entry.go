// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/halvard/munin/internal/api"
	"github.com/halvard/munin/internal/mcpserver"
	"github.com/halvard/munin/internal/service"
	"github.com/halvard/munin/internal/store"
	"github.com/halvard/munin/internal/vault"
)

// Run starts the application with the given options: index the vault once,
// then serve queries over the enabled protocol layers.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		// Structured JSON logs on stderr; stdout belongs to the MCP transport.
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("backend", cfg.Storage.Backend),
		slog.Bool("http", cfg.App.HTTP.Enabled),
		slog.Bool("mcp", cfg.App.MCP.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	fs, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init vault: %w", err)
	}

	engine, err := store.New(store.Options{
		Backend:       cfg.Storage.Backend,
		SQLitePath:    cfg.Storage.SQLitePath,
		ArchiveFolder: cfg.Vault.ArchiveFolder,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer engine.Close()

	if err := engine.Initialize(); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Every run rebuilds the store from the source tree, so the persistent
	// backend serves as an always-fresh cache. Clearing first keeps records
	// whose backing file disappeared from lingering across runs.
	if err := engine.Clear(); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}

	indexer := vault.NewIndexer(fs, engine, vault.IndexerConfig{
		Include:     cfg.Vault.Include,
		Exclude:     cfg.Vault.Exclude,
		MaxFileSize: cfg.Vault.MaxFileSize,
		Workers:     cfg.Vault.Workers,
	}, logger)

	docs, failures, err := indexer.Run(ctx)
	if err != nil {
		return fmt.Errorf("index vault: %w", err)
	}
	logger.Info("vault indexed",
		slog.Int("documents", len(docs)),
		slog.Int("errors", len(failures)))

	svc := service.New(engine)

	if !cfg.App.HTTP.Enabled && !cfg.App.MCP.Enabled {
		// One-shot mode: index, report, exit.
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)

	var httpServer *http.Server
	if cfg.App.HTTP.Enabled {
		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token))

		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	if cfg.App.MCP.Enabled {
		g.Go(func() error {
			logger.Info("starting MCP server on stdio")
			if err := mcpserver.New(svc).ServeStdio(); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("context cancelled, initiating shutdown")
		}

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}
