package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewPathCommand creates the path command.
func NewPathCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Find a forward path between two nodes",
		Long: `Search for a path from one node to another along forward edges. The
path is any valid path, not necessarily the shortest.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd, args[0], args[1], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runPath(cmd *cobra.Command, fromID, toID, outputFormat string) error {
	tracker, err := loadTracker(getConfig(cmd))
	if err != nil {
		return err
	}

	path := tracker.Graph().Path(fromID, toID)

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(path)
	}

	out := cmd.OutOrStdout()
	if len(path) == 0 {
		fmt.Fprintf(out, "No path from %s to %s\n", fromID, toID)
		return nil
	}
	ids := make([]string, 0, len(path))
	for _, node := range path {
		ids = append(ids, node.ID)
	}
	fmt.Fprintln(out, strings.Join(ids, " -> "))
	return nil
}
