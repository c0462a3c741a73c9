package commands

import (
	"fmt"

	"github.com/leapstack-labs/leaplineage/internal/loader"
	"github.com/spf13/cobra"
)

// NewIngestCommand creates the ingest command.
func NewIngestCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "ingest <manifest>",
		Short: "Load a lineage manifest and save it as a snapshot",
		Long: `Read a YAML lineage manifest, build the lineage graph it declares,
and persist the result as a new snapshot in the state database. Query
commands operate on the latest snapshot unless --manifest is given.`,
		Example: `  # Ingest a manifest
  leaplineage ingest lineage.yaml

  # Ingest with a label for later reference
  leaplineage ingest lineage.yaml --label nightly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], label)
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Label for the saved snapshot")

	return cmd
}

func runIngest(cmd *cobra.Command, manifestPath, label string) error {
	cfg := getConfig(cmd)

	tracker, err := loader.LoadTracker(manifestPath)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.SaveSnapshot(label, tracker.Graph().Export())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	g := tracker.Graph()
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s: %d nodes, %d edges\n",
		manifestPath, g.NodeCount(), g.EdgeCount())
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s saved to %s\n", snap.ID, cfg.StatePath)
	return nil
}
