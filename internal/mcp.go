package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"promptvault/internal/catalog"
	"promptvault/internal/mcpserver"
	"promptvault/internal/store"
)

// RunMCP serves the read-only MCP catalog tools over stdio. Logs go to stderr
// because stdout carries the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	kv, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer kv.Close()

	svc := catalog.NewService(kv, nil, cfg.Media.BaseURL)

	logger.Info("MCP server starting on stdio", slog.String("store_path", cfg.Store.Path))
	return mcpserver.New(svc).ServeStdio()
}
