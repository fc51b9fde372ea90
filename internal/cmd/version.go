package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at release time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("showrunner")+" "+version)
		fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("commit:"), commit)
		fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("built:"), date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}
