package pipeline

import (
	"fmt"

	"github.com/showrunner/showrunner/internal/discussion"
	"github.com/showrunner/showrunner/internal/mission"
)

// Default discussion parameters for phases the mission does not override.
const (
	defaultMaxRounds    = 3
	defaultMinConsensus = 0.7
)

// phaseTopic is the built-in discussion framing for one phase.
type phaseTopic struct {
	title        string
	description  string
	decisionKeys []string
	maxRounds    int
	minConsensus float64
}

var phaseTopics = map[PhaseKind]phaseTopic{
	PhaseScript: {
		title:        "Script direction for %q",
		description:  "Agree on narrative structure, hook, and voice for the script.",
		decisionKeys: []string{"structure", "hook", "voice"},
		maxRounds:    defaultMaxRounds,
		minConsensus: defaultMinConsensus,
	},
	PhaseAudio: {
		title:        "Audio direction for %q",
		description:  "Agree on narration delivery, pacing, and the music bed.",
		decisionKeys: []string{"narration", "pacing", "music"},
		maxRounds:    2,
		minConsensus: defaultMinConsensus,
	},
	PhaseVisual: {
		title:        "Visual direction for %q",
		description:  "Agree on visual style, color, and composition across stages.",
		decisionKeys: []string{"style", "color", "composition"},
		maxRounds:    2,
		minConsensus: defaultMinConsensus,
	},
	PhasePlatformFit: {
		title:        "Platform fit for %q",
		description:  "Tune pacing, framing, and engagement for the target platform.",
		decisionKeys: []string{"pacing", "framing", "engagement"},
		maxRounds:    2,
		minConsensus: 0.6,
	},
	PhaseQuality: {
		title:        "Quality review for %q",
		description:  "Verify consistency, compliance, and overall quality of the direction.",
		decisionKeys: []string{"consistency", "compliance", "verdict"},
		maxRounds:    2,
		minConsensus: 0.8,
	},
}

// buildTopic assembles the discussion topic for one phase. Mission settings
// override the built-in round and consensus parameters; the previous
// phase's decision is embedded in the topic context so later phases build
// on earlier ones without any ambient state.
func buildTopic(runID string, m *mission.Spec, kind PhaseKind, pctx PhaseContext) discussion.Topic {
	t := phaseTopics[kind]
	settings := m.SettingsFor(kind.String())

	maxRounds := t.maxRounds
	if settings.MaxRounds > 0 {
		maxRounds = settings.MaxRounds
	}
	minConsensus := t.minConsensus
	if settings.MinConsensus > 0 {
		minConsensus = settings.MinConsensus
	}

	topicCtx := map[string]any{
		"phase":    kind.String(),
		"platform": m.Platform,
	}
	if m.Category != "" {
		topicCtx["category"] = m.Category
	}
	if prev, decision, ok := pctx.Latest(); ok {
		topicCtx["previous_phase"] = prev.String()
		topicCtx["previous_decision"] = decision
	}

	return discussion.Topic{
		ID:           fmt.Sprintf("%s-%s", shortID(runID), kind),
		Title:        fmt.Sprintf(t.title, m.Topic),
		Description:  t.description,
		Context:      topicCtx,
		DecisionKeys: append([]string(nil), t.decisionKeys...),
		MaxRounds:    maxRounds,
		MinConsensus: minConsensus,
	}
}

// shortID trims a run id down to its leading segment for topic ids and log
// lines.
func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
