package commands

import (
	"encoding/json"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewImpactCommand creates the impact command.
func NewImpactCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "impact <node>",
		Short: "Analyze the blast radius of changing a node",
		Long: `Compute everything downstream of a node and classify the risk of
changing it: high when any model would be affected, medium when any
dataset would, low otherwise.`,
		Example: `  # Risk assessment before changing a dataset
  leaplineage impact raw_orders

  # Machine-readable report
  leaplineage impact raw_orders --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(cmd, args[0], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runImpact(cmd *cobra.Command, nodeID, outputFormat string) error {
	tracker, err := loadTracker(getConfig(cmd))
	if err != nil {
		return err
	}

	report := tracker.AnalyzeChange(nodeID)

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Node", report.NodeID},
		{"Total affected", report.TotalAffected},
		{"Risk level", strings.ToUpper(string(report.RiskLevel))},
		{"Datasets", joinOrDash(report.AffectedDatasets)},
		{"Models", joinOrDash(report.AffectedModels)},
		{"Transformations", joinOrDash(report.AffectedTransformations)},
	})
	t.Render()

	return nil
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
