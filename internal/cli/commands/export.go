package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full graph as JSON to stdout",
		Long: `Serialize every node and edge of the current graph. The output is
lossless: an equivalent graph can be rebuilt from it, which makes it
suitable for visualization tools and external persistence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tracker, err := loadTracker(getConfig(cmd))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tracker.Graph().Export())
		},
	}
	return cmd
}
