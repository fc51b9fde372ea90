// Package testutil provides shared fixtures for showrunner tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/showrunner/showrunner/internal/discussion"
	"github.com/showrunner/showrunner/internal/mission"
	"github.com/showrunner/showrunner/internal/registry"
)

// Mission returns a minimal valid mission for tests. Discussion is off so
// tests that don't exercise the panel stay fast.
func Mission() *mission.Spec {
	m := mission.Defaults()
	m.Topic = "tide pool time lapse"
	m.Platform = "youtube_shorts"
	m.DurationSeconds = 30
	m.StageCount = 3
	m.EnableDiscussion = false
	return m
}

// WriteMission writes the mission as YAML under dir and returns the file
// path.
func WriteMission(t *testing.T, dir string, spec *mission.Spec) string {
	t.Helper()

	data, err := yaml.Marshal(spec)
	if err != nil {
		t.Fatalf("failed to marshal mission: %v", err)
	}
	path := filepath.Join(dir, "mission.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write mission file: %v", err)
	}
	return path
}

// WriteCatalog writes a participant catalog as YAML under dir and returns
// the file path. The file loads with registry.Load.
func WriteCatalog(t *testing.T, dir string, participants []registry.Participant) string {
	t.Helper()

	doc := struct {
		Participants []registry.Participant `yaml:"participants"`
	}{Participants: participants}

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	path := filepath.Join(dir, "participants.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

// Opinion builds a deterministic opinion for the given vote.
func Opinion(participant string, round int, vote discussion.Stance) discussion.Opinion {
	op := discussion.Opinion{
		Participant: participant,
		Round:       round,
		Message:     fmt.Sprintf("%s round %d: %s", participant, round, vote),
		Rationale:   "scripted rationale",
		Vote:        vote,
		Timestamp:   time.Unix(1700000000, 0).UTC(),
	}
	if vote == discussion.StanceDisagree {
		op.Concerns = []string{"scripted concern"}
	}
	return op
}

// ScriptedAdvisor replays fixed per-participant vote scripts. Round n uses
// the script's (n-1)th stance; rounds past the end of a script repeat its
// last stance, and participants without a script vote agree.
type ScriptedAdvisor struct {
	mu     sync.Mutex
	script map[string][]discussion.Stance
	calls  int
}

// NewScriptedAdvisor builds an advisor from per-participant vote scripts.
// A nil map yields an advisor that always agrees.
func NewScriptedAdvisor(script map[string][]discussion.Stance) *ScriptedAdvisor {
	return &ScriptedAdvisor{script: script}
}

// Opine implements discussion.Advisor.
func (a *ScriptedAdvisor) Opine(ctx context.Context, req discussion.OpinionRequest) (discussion.Opinion, error) {
	if err := ctx.Err(); err != nil {
		return discussion.Opinion{}, err
	}

	a.mu.Lock()
	a.calls++
	votes := a.script[req.Participant.ID]
	a.mu.Unlock()

	stance := discussion.StanceAgree
	if len(votes) > 0 {
		idx := req.Round - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= len(votes) {
			idx = len(votes) - 1
		}
		stance = votes[idx]
	}
	return Opinion(req.Participant.ID, req.Round, stance), nil
}

// Calls returns how many opinions the advisor has produced.
func (a *ScriptedAdvisor) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}
