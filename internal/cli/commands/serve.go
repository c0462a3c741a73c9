package commands

import (
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leaplineage/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lineage graph over a JSON HTTP API",
		Long: `Start an HTTP server exposing lineage queries: node lookup, upstream
and downstream traversal, origin, impact analysis, path finding, and
graph export, plus registration endpoints for datasets and
transformations.

With --manifest and --watch, the graph is rebuilt whenever the manifest
file changes on disk.`,
		Example: `  # Serve the latest snapshot
  leaplineage serve

  # Serve a manifest and reload it on change
  leaplineage serve --manifest lineage.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, port, watch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the manifest on file change")

	return cmd
}

func runServe(cmd *cobra.Command, port int, watch bool) error {
	cfg := getConfig(cmd)
	if port == 0 {
		port = cfg.Port
	}

	tracker, err := loadTracker(cfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Tracker:  tracker,
		Port:     port,
		Logger:   newLogger(cfg),
		Manifest: cfg.Manifest,
		Watch:    watch,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
