// Package cli provides the command-line interface for LeapLineage.
package cli

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/leaplineage/internal/cli/commands"
	"github.com/leapstack-labs/leaplineage/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leaplineage",
		Short: "LeapLineage - Data Lineage & Impact Analysis",
		Long: `LeapLineage tracks provenance relationships among datasets,
transformations, models, and artifacts as a directed graph.

Register assets through a lineage manifest or the HTTP API, then query
upstream ancestry, downstream impact, origin datasets, and change-risk
classification.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leaplineage.yaml)")
	rootCmd.PersistentFlags().String("state-path", "", "Path to the snapshot database")
	rootCmd.PersistentFlags().String("manifest", "", "Lineage manifest to load instead of the latest snapshot")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewIngestCommand())
	rootCmd.AddCommand(commands.NewLineageCommand())
	rootCmd.AddCommand(commands.NewImpactCommand())
	rootCmd.AddCommand(commands.NewOriginCommand())
	rootCmd.AddCommand(commands.NewPathCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewSnapshotsCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
