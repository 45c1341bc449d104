package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/bibliz/internal/history"
)

// version is set with -ldflags "-X github.com/abhisek/bibliz/cmd.version=...".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bibliz %s (history format %s)\n", buildVersion(), history.FormatVersion)
	},
}

// buildVersion prefers the linker-set version, then the module version
// recorded by "go install".
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
