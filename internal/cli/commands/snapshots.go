package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewSnapshotsCommand creates the snapshots command.
func NewSnapshotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List saved graph snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSnapshots,
	}
	return cmd
}

func runSnapshots(cmd *cobra.Command, _ []string) error {
	store, err := openStore(getConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.ListSnapshots()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Label", "Created"})
	for _, snap := range snaps {
		label := snap.Label
		if label == "" {
			label = "-"
		}
		t.AppendRow(table.Row{snap.ID, label, snap.CreatedAt.Format(time.RFC3339)})
	}
	t.Render()
	return nil
}
