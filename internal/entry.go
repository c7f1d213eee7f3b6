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

	"promptvault/internal/api"
	"promptvault/internal/catalog"
	"promptvault/internal/enhance"
	"promptvault/internal/guard"
	"promptvault/internal/restore"
	"promptvault/internal/sse"
	"promptvault/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the state store.
	kv, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer kv.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Catalog service over the store, publishing to the broker.
	svc := catalog.NewService(kv, broker, cfg.Media.BaseURL)

	// Admin gate: identity verifier plus the PIN machine.
	var verifier guard.Verifier
	switch cfg.Auth.Mode {
	case guard.ModeDelegated:
		verifier = guard.NewDelegatedVerifier(cfg.Auth.AllowedEmails)
	default:
		verifier = guard.NewLocalVerifier(svc.UserHash, svc.PassHash)
	}
	pinGuard := guard.NewPinGuard(kv, svc.PINHash, func() {
		broker.Notify("success", "Access granted. Welcome back!")
	})

	sessions := api.NewSessions(cfg.Auth.SessionSecret)

	var enhancer enhance.Enhancer = enhance.Disabled{}
	if cfg.Enhancer.Enabled() {
		enhancer = enhance.NewClient(cfg.Enhancer.BaseURL, cfg.Enhancer.APIKey, cfg.Enhancer.Model)
	}

	apiRouter := api.NewRouter(svc, pinGuard, verifier, sessions, enhancer, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
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

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start restore drop-dir watcher.
	if cfg.Backup.RestoreDir != "" {
		g.Go(func() error {
			if err := restore.Watch(gCtx, cfg.Backup.RestoreDir, svc, logger); err != nil {
				logger.Error("restore watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Hourly message retention sweep.
	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if removed := svc.SweepMessages(); removed > 0 {
					logger.Info("expired messages swept", slog.Int("removed", removed))
				}
			}
		}
	})

	// Lockout expiry ticker for the PIN guard.
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				pinGuard.Tick()
			}
		}
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
