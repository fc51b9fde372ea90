package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/showrunner/showrunner/internal/config"
	"github.com/showrunner/showrunner/internal/platform"
	"github.com/showrunner/showrunner/internal/timeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview a timeline plan without producing anything",
	Long: `Build a timeline plan for the given duration and stage count, and print
the per-stage breakdown: narrative purpose, seconds, word budget, and
transitions.

Nothing is produced; this is a dry run of the planning step only.

Examples:
  # A 60 second piece in five stages
  showrunner plan --duration 60 --stages 5

  # Tighter drift allowance and chained continuity
  showrunner plan --duration 90 --stages 6 --tolerance 0.05 --continuity`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var (
	planDuration   float64
	planStages     int
	planWordRate   float64
	planTolerance  float64
	planContinuity bool
	planPlatform   string
	planJSON       bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().Float64VarP(&planDuration, "duration", "d", 60, "Total duration in seconds")
	planCmd.Flags().IntVarP(&planStages, "stages", "s", 5, "Number of timeline stages")
	planCmd.Flags().Float64Var(&planWordRate, "word-rate", 0, "Narration pace in words per second (0 uses the platform default)")
	planCmd.Flags().Float64Var(&planTolerance, "tolerance", 0, "Allowed fractional duration drift (0 uses the configured default)")
	planCmd.Flags().BoolVar(&planContinuity, "continuity", false, "Chain visual continuity across stage boundaries")
	planCmd.Flags().StringVar(&planPlatform, "platform", "youtube_shorts", "Platform whose pacing profile to use")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan as JSON instead of a table")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	wordRate := planWordRate
	if wordRate == 0 {
		profile, err := platform.Get(planPlatform)
		if err != nil {
			return err
		}
		wordRate = profile.DefaultWordRate
	}

	tolerance := planTolerance
	if tolerance == 0 {
		tolerance = cfg.Timeline.Tolerance
	}

	orch := timeline.New(
		timeline.WithTolerance(tolerance),
		timeline.WithContinuity(planContinuity),
	)
	plan, err := orch.Plan(planDuration, planStages, wordRate)
	if err != nil {
		return err
	}

	if planJSON {
		return printJSON(cmd.OutOrStdout(), plan)
	}
	printPlan(cmd.OutOrStdout(), plan)
	return nil
}

func printPlan(w io.Writer, plan *timeline.Plan) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📐 %s over %d stages", formatSeconds(plan.TotalSeconds), plan.StageCount())))
	fmt.Fprintf(w, "  %s %.1f words/s, tolerance %.0f%%\n\n", dimStyle.Render("pacing:"), plan.WordRate, plan.Tolerance*100)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  #\tPURPOSE\tSECONDS\tWORDS\tTRANSITION\tCONTINUITY")
	for _, stage := range plan.Stages {
		continuity := dimStyle.Render("-")
		if stage.Continuity {
			continuity = "chained"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\t%s\t%s\n",
			stage.Index, stage.Purpose, formatSeconds(stage.DurationSeconds), stage.WordBudget, stage.Transition, continuity)
	}
	_ = tw.Flush()
}
