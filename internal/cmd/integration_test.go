//go:build integration

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/showrunner/showrunner/internal/pipeline"
	"github.com/showrunner/showrunner/internal/registry"
	"github.com/showrunner/showrunner/internal/testutil"
	"github.com/showrunner/showrunner/internal/timeline"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "showrunner" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "showrunner")
	}

	expectedCmds := []string{"run", "plan", "participants", "watch", "version"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}

	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "version")
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, version) {
		t.Errorf("version output missing %q:\n%s", version, output)
	}
}

func TestPlanCommand_JSON(t *testing.T) {
	output, err := executeCommand(rootCmd, "plan", "--duration", "60", "--stages", "5", "--json")
	if err != nil {
		t.Fatalf("plan command failed: %v\nOutput: %s", err, output)
	}

	var plan timeline.Plan
	if err := json.Unmarshal([]byte(output), &plan); err != nil {
		t.Fatalf("plan output is not valid JSON: %v\nOutput: %s", err, output)
	}
	if plan.StageCount() != 5 {
		t.Errorf("plan has %d stages, want 5", plan.StageCount())
	}

	var total float64
	for _, stage := range plan.Stages {
		total += stage.DurationSeconds
	}
	if total < 59.9 || total > 60.1 {
		t.Errorf("stage durations sum to %v, want 60", total)
	}
}

func TestRunCommand_JSON(t *testing.T) {
	path := testutil.WriteMission(t, t.TempDir(), testutil.Mission())

	output, err := executeCommand(rootCmd, "run", path, "--json")
	if err != nil {
		t.Fatalf("run command failed: %v\nOutput: %s", err, output)
	}

	var result pipeline.Result
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("run output is not valid JSON: %v\nOutput: %s", err, output)
	}
	if result.Status != pipeline.StatusComplete {
		t.Errorf("run status = %s, want %s", result.Status, pipeline.StatusComplete)
	}
	if result.RunID == "" {
		t.Error("run id is empty")
	}
	if result.Plan == nil || result.Plan.StageCount() != 3 {
		t.Error("result plan missing or has wrong stage count")
	}
	if final := finalArtifact(&result); final == nil {
		t.Error("result has no final artifact")
	}
}

func TestRunCommand_MissingMission(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := executeCommand(rootCmd, "run", path); err == nil {
		t.Error("run with a missing mission file should fail")
	}
}

func TestParticipantsCommand_ExpertiseFilter(t *testing.T) {
	original := participantsExpertise
	defer func() { participantsExpertise = original }()

	output, err := executeCommand(rootCmd, "participants", "--expertise", "audio*")
	if err != nil {
		t.Fatalf("participants command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "sound-designer") {
		t.Errorf("filtered output missing sound-designer:\n%s", output)
	}
	if strings.Contains(output, "director") {
		t.Errorf("filtered output should not contain director:\n%s", output)
	}
}

// Keep this test last in the file: it sets the persistent --config flag,
// which survives across Execute calls until reset.
func TestParticipantsCommand_CustomCatalog(t *testing.T) {
	dir := t.TempDir()
	catalog := testutil.WriteCatalog(t, dir, []registry.Participant{
		{ID: "narrator", Name: "Narrator", Expertise: []string{"voice", "pacing"}, Style: "calm"},
	})

	cfgPath := filepath.Join(dir, "showrunner.yaml")
	cfg := fmt.Sprintf("registry:\n  catalog_path: %s\n", catalog)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	defer func() { _ = rootCmd.PersistentFlags().Set("config", "") }()

	output, err := executeCommand(rootCmd, "--config", cfgPath, "participants")
	if err != nil {
		t.Fatalf("participants command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "narrator") {
		t.Errorf("output missing catalog participant:\n%s", output)
	}
	if strings.Contains(output, "director") {
		t.Errorf("output should not contain the built-in panel:\n%s", output)
	}
}
