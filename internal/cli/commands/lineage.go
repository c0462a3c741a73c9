package commands

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	"github.com/spf13/cobra"
)

// LineageOptions holds options for the lineage command.
type LineageOptions struct {
	OutputFormat string
	Upstream     bool
	Downstream   bool
	Depth        int
}

// lineageResult is the JSON shape of the lineage command output.
type lineageResult struct {
	NodeID     string          `json:"node_id"`
	Upstream   []*lineage.Node `json:"upstream,omitempty"`
	Downstream []*lineage.Node `json:"downstream,omitempty"`
}

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	opts := &LineageOptions{}

	cmd := &cobra.Command{
		Use:   "lineage <node>",
		Short: "Show upstream and downstream lineage for a node",
		Long: `Display the upstream ancestry and downstream dependents of a node.

Lineage shows how data flows through registered assets, helping you
understand where a node's data came from and what a change would reach.`,
		Example: `  # Full lineage for a dataset
  leaplineage lineage raw_orders

  # Only downstream, limited to two hops
  leaplineage lineage raw_orders --upstream=false --depth 2

  # JSON output
  leaplineage lineage raw_orders --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Upstream, "upstream", true, "Include upstream ancestry")
	cmd.Flags().BoolVar(&opts.Downstream, "downstream", true, "Include downstream dependents")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Max traversal depth (0 = unlimited)")

	return cmd
}

func runLineage(cmd *cobra.Command, nodeID string, opts *LineageOptions) error {
	tracker, err := loadTracker(getConfig(cmd))
	if err != nil {
		return err
	}
	g := tracker.Graph()

	if _, ok := g.GetNode(nodeID); !ok {
		return fmt.Errorf("node not found: %s", nodeID)
	}

	result := lineageResult{NodeID: nodeID}
	if opts.Upstream {
		result.Upstream = g.Upstream(nodeID, opts.Depth)
	}
	if opts.Downstream {
		result.Downstream = g.Downstream(nodeID, opts.Depth)
	}

	if opts.OutputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Lineage for: %s\n\n", nodeID)
	if opts.Upstream {
		fmt.Fprintf(out, "Upstream (%d):\n", len(result.Upstream))
		for _, node := range result.Upstream {
			fmt.Fprintf(out, "  - %s [%s]\n", node.ID, node.Type)
		}
		fmt.Fprintln(out)
	}
	if opts.Downstream {
		fmt.Fprintf(out, "Downstream (%d):\n", len(result.Downstream))
		for _, node := range result.Downstream {
			fmt.Fprintf(out, "  - %s [%s]\n", node.ID, node.Type)
		}
	}
	return nil
}
