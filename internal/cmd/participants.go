package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/showrunner/showrunner/internal/config"
	"github.com/showrunner/showrunner/internal/registry"
)

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "List the discussion panel",
	Long: `List the participants available for phase discussions, from the
configured catalog or the built-in panel when none is configured.

Examples:
  # The full panel
  showrunner participants

  # Everyone who can argue about sound
  showrunner participants --expertise 'audio*'

  # Multiple patterns widen the match
  showrunner participants -e 'pacing' -e 'narrative*'`,
	Args: cobra.NoArgs,
	RunE: runParticipants,
}

var participantsExpertise []string

func init() {
	rootCmd.AddCommand(participantsCmd)

	participantsCmd.Flags().StringSliceVarP(&participantsExpertise, "expertise", "e", nil, "Filter by expertise glob pattern (repeatable)")
}

func runParticipants(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	reg, err := registry.LoadOrDefault(cfg.Registry.CatalogPath)
	if err != nil {
		return err
	}

	members := reg.All()
	if len(participantsExpertise) > 0 {
		members = reg.SelectByExpertise(participantsExpertise...)
	}
	if len(members) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no participants match"))
		return nil
	}

	printParticipants(cmd.OutOrStdout(), members)
	return nil
}

func printParticipants(w io.Writer, members []registry.Participant) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("🎭 %d participants", len(members))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tSTYLE\tEXPERTISE")
	for _, p := range members {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.ID, p.Name, p.Style, strings.Join(p.Expertise, ", "))
	}
	_ = tw.Flush()
}
