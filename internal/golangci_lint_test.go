package internal

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestGolangciLintCompliance verifies that the module passes golangci-lint.
//
// Skipped when golangci-lint is not installed.
func TestGolangciLintCompliance(t *testing.T) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Tests run from internal/; the module root is one level up.
	projectRoot := wd
	if filepath.Base(wd) == "internal" {
		projectRoot = filepath.Dir(wd)
	}

	// A per-test build cache keeps the run writable on sandboxed runners.
	goCacheDir := t.TempDir()

	cmd := exec.Command("golangci-lint", "run", "--allow-parallel-runners", "./...")
	cmd.Dir = projectRoot
	cmd.Env = append(os.Environ(), "GOCACHE="+goCacheDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Errorf("golangci-lint found issues:\n%s", output)
	}
}
