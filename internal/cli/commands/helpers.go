package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leaplineage/internal/config"
	"github.com/leapstack-labs/leaplineage/internal/loader"
	"github.com/leapstack-labs/leaplineage/internal/state"
	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	"github.com/spf13/cobra"
)

// configKey is used to store config in the command context.
type configKey struct{}

// WithConfig stores the resolved config in the context; the root command
// calls this after loading configuration.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// getConfig retrieves the config from the command context.
func getConfig(cmd *cobra.Command) *config.Config {
	if c, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// newLogger builds a slog logger honoring the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the snapshot database, creating its directory and
// schema as needed.
func openStore(cfg *config.Config) (*state.Store, error) {
	if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// loadTracker builds the tracker to query: from the configured manifest
// when one is set, otherwise from the latest snapshot in the state store.
// An empty store yields an empty tracker, not an error.
func loadTracker(cfg *config.Config) (*lineage.Tracker, error) {
	if cfg.Manifest != "" {
		return loader.LoadTracker(cfg.Manifest)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	g, _, err := store.RestoreLatest()
	if err != nil {
		return nil, err
	}
	return lineage.NewTrackerWithGraph(g), nil
}
