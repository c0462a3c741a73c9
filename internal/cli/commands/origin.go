package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewOriginCommand creates the origin command.
func NewOriginCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "origin <node>",
		Short: "Show the root datasets feeding a node",
		Long: `List the ultimate raw-data sources of a node: upstream datasets that
have no further upstream lineage of their own.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrigin(cmd, args[0], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runOrigin(cmd *cobra.Command, nodeID, outputFormat string) error {
	tracker, err := loadTracker(getConfig(cmd))
	if err != nil {
		return err
	}

	origins := tracker.Origin(nodeID)

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(origins)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Origin datasets for %s (%d):\n", nodeID, len(origins))
	for _, node := range origins {
		location, _ := node.Metadata["location"].(string)
		if location != "" {
			fmt.Fprintf(out, "  - %s (%s)\n", node.ID, location)
		} else {
			fmt.Fprintf(out, "  - %s\n", node.ID)
		}
	}
	return nil
}
