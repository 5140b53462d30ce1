package cli

import (
	"github.com/equipsight/equipsight/pkg/version"
	"github.com/spf13/cobra"
)

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			cmd.Printf("equipsight %s (commit %s, built %s)\n", info.Version, info.CommitHash, info.BuildDate)
		},
	}
}
