package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "leaplineage %s\n", version)
			fmt.Fprintf(out, "  build date: %s\n", buildDate)
			fmt.Fprintf(out, "  commit:     %s\n", gitCommit)
		},
	}
}
