package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/showrunner/showrunner/internal/config"
	"github.com/showrunner/showrunner/internal/mission"
	"github.com/showrunner/showrunner/internal/pipeline"
	"github.com/showrunner/showrunner/internal/studio"
	"github.com/showrunner/showrunner/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run <mission.yaml>",
	Short: "Produce a mission",
	Long: `Run a mission file through the full production pipeline: phase
discussions, timeline planning, stage generation, synchronization checks,
and final assembly.

The run always returns a result; phase and artifact failures are recorded
in it rather than aborting. Press Ctrl-C to cancel a run in flight and
keep the work completed so far.

Examples:
  # Produce a mission and print the summary
  showrunner run mission.yaml

  # Keep the full result for later inspection
  showrunner run mission.yaml --out result.json

  # Machine-readable output
  showrunner run mission.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runOut  string
	runJSON bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Write the full result as JSON to this file")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the full result as JSON instead of a summary")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	m, err := mission.Load(args[0])
	if err != nil {
		return err
	}

	st, err := studio.New(cfg, studio.Offline(cfg.Offline))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	st.Start()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := st.Produce(ctx, m)
	if err != nil {
		return err
	}

	if runOut != "" {
		if err := writeResult(runOut, result); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("result written to "+runOut))
	}

	if runJSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func writeResult(path string, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, result *pipeline.Result) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("🎬 Run %s", result.RunID)))
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("status:"), renderStatus(result.Status))
	if result.FailureReason != "" {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("reason:"), result.FailureReason)
	}
	took := result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond)
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("took:"), took)
	fmt.Fprintln(w)

	printPhases(w, result)
	printTimeline(w, result)
	printArtifacts(w, result)
	printRevisions(w, result)
}

func printPhases(w io.Writer, result *pipeline.Result) {
	if len(result.Phases) == 0 {
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Phases"))
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  PHASE\tSTATUS\tCONSENSUS\tROUNDS\tPARTICIPANTS")
	for _, phase := range result.Phases {
		detail := strings.Join(phase.Participants, ", ")
		if phase.FailureReason != "" {
			detail = phase.FailureReason
		}
		fmt.Fprintf(tw, "  %s\t%s\t%.2f\t%d\t%s\n",
			phase.Phase, renderStatus(phase.Status), phase.ConsensusLevel, phase.TotalRounds, util.Truncate(detail, 56))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func printTimeline(w io.Writer, result *pipeline.Result) {
	if result.Plan == nil {
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Timeline"))
	fmt.Fprintf(w, "  %d stages, %s planned, tolerance %.0f%%\n",
		result.Plan.StageCount(), formatSeconds(result.Plan.TotalSeconds), result.Plan.Tolerance*100)

	if result.Report == nil {
		fmt.Fprintln(w)
		return
	}
	budget := okStyle.Render("within budget")
	if !result.Report.WithinBudget {
		budget = failStyle.Render("over budget")
	}
	fmt.Fprintf(w, "  effective %s, %d flagged, %d repaired, %s\n",
		formatSeconds(result.Report.EffectiveSeconds), result.Report.Flagged, result.Report.Repairs, budget)
	fmt.Fprintln(w)
}

func printArtifacts(w io.Writer, result *pipeline.Result) {
	if len(result.Artifacts) == 0 {
		return
	}

	complete := 0
	var flagged []pipeline.Artifact
	for _, artifact := range result.Artifacts {
		if artifact.Status == pipeline.StatusComplete {
			complete++
		} else {
			flagged = append(flagged, artifact)
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Artifacts"))
	fmt.Fprintf(w, "  %d generated, %d clean\n", len(result.Artifacts), complete)
	for _, artifact := range flagged {
		stage := fmt.Sprintf("stage %d", artifact.Stage)
		if artifact.Stage == pipeline.StageFinal {
			stage = "final"
		}
		fmt.Fprintf(w, "  %s %s %s: %s\n", renderStatus(artifact.Status), stage, artifact.Kind, artifact.Detail)
	}
	if final := finalArtifact(result); final != nil && final.Status == pipeline.StatusComplete {
		fmt.Fprintf(w, "  %s %s (%s)\n", okStyle.Render("final"), final.Handle, formatSeconds(final.DurationSeconds))
	}
	fmt.Fprintln(w)
}

func printRevisions(w io.Writer, result *pipeline.Result) {
	if len(result.Revisions) == 0 {
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Revision requests"))
	for _, req := range result.Revisions {
		fmt.Fprintf(w, "  stage %d %s: %s\n", req.Stage, req.Kind, util.Truncate(req.Reason, 72))
	}
	fmt.Fprintln(w)
}

func finalArtifact(result *pipeline.Result) *pipeline.Artifact {
	for i := range result.Artifacts {
		if result.Artifacts[i].Stage == pipeline.StageFinal {
			return &result.Artifacts[i]
		}
	}
	return nil
}
