package synthesis

import (
	"fmt"
	"strings"

	"github.com/showrunner/showrunner/internal/discussion"
)

// maxApproachActions bounds how many recommended actions are folded into
// the final approach summary.
const maxApproachActions = 4

// maxExcerptLen bounds the rationale excerpt used when no suggestions
// exist.
const maxExcerptLen = 140

// defaultApproach is used when the discussion produced neither suggestions
// nor rationales, including the zero-opinion case when discussion is
// disabled.
const defaultApproach = "Proceed with the drafted direction; no specific guidance emerged from the discussion."

// Synthesizer implements discussion.Synthesizer with the deterministic
// rules of this package. The zero value is ready to use.
type Synthesizer struct{}

// New returns a Synthesizer.
func New() Synthesizer {
	return Synthesizer{}
}

// Synthesize implements discussion.Synthesizer.
func (Synthesizer) Synthesize(topic discussion.Topic, opinions []discussion.Opinion) discussion.DecisionRecord {
	return Synthesize(topic, opinions)
}

// Synthesize distills an opinion history into a decision record. It is
// pure: no I/O, no clock, no randomness. Identical inputs always yield
// identical records, fallback opinions included.
func Synthesize(topic discussion.Topic, opinions []discussion.Opinion) discussion.DecisionRecord {
	actions := dedupe(allSuggestions(opinions))
	return discussion.DecisionRecord{
		FinalApproach:       finalApproach(actions, opinions),
		KeyConsiderations:   dedupe(allConcerns(opinions)),
		RecommendedActions:  actions,
		ConsensusPoints:     consensusPoints(opinions),
		ImplementationNotes: implementationNotes(topic),
	}
}

// finalApproach summarizes the decision: the leading recommended actions
// when any exist, an excerpt of the first rationale otherwise, and a fixed
// default when the history offers nothing.
func finalApproach(actions []string, opinions []discussion.Opinion) string {
	if len(actions) > 0 {
		head := actions
		if len(head) > maxApproachActions {
			head = head[:maxApproachActions]
		}
		return "Synthesized approach: " + strings.Join(head, "; ")
	}
	for _, op := range opinions {
		if r := strings.TrimSpace(op.Rationale); r != "" {
			return "Guided by: " + excerpt(r, maxExcerptLen)
		}
	}
	return defaultApproach
}

// consensusPoints collects the non-empty messages of agreeing opinions in
// recorded order.
func consensusPoints(opinions []discussion.Opinion) []string {
	var out []string
	for _, op := range opinions {
		if op.Vote != discussion.StanceAgree {
			continue
		}
		if m := strings.TrimSpace(op.Message); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// implementationNotes returns the fixed guidance attached to every
// decision, parameterized by the topic context.
func implementationNotes(topic discussion.Topic) []string {
	notes := []string{
		"Follow the decision record when generating stage content.",
		"Record deviations from the recommended actions for the quality review.",
	}
	if platform, ok := topic.Context["platform"].(string); ok && strings.TrimSpace(platform) != "" {
		notes = append(notes, fmt.Sprintf("Respect %s constraints on duration, aspect ratio, and pacing.", platform))
	}
	return notes
}

func allSuggestions(opinions []discussion.Opinion) []string {
	var out []string
	for _, op := range opinions {
		out = append(out, op.Suggestions...)
	}
	return out
}

func allConcerns(opinions []discussion.Opinion) []string {
	var out []string
	for _, op := range opinions {
		out = append(out, op.Concerns...)
	}
	return out
}

// dedupe drops blank and repeated entries, preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// excerpt truncates s to at most max runes, marking the cut with an
// ellipsis.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
