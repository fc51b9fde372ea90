package discussion

import (
	"context"
	"strings"
	"time"

	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/registry"
)

// Stance is a participant's vote on the topic under discussion.
type Stance string

const (
	// StanceAgree endorses the direction emerging from the discussion.
	StanceAgree Stance = "agree"

	// StanceDisagree rejects the direction emerging from the discussion.
	StanceDisagree Stance = "disagree"

	// StanceNeutral abstains. Neutral votes never count toward agreement
	// and are excluded from the consensus denominator.
	StanceNeutral Stance = "neutral"
)

// String returns the string representation of the stance.
func (s Stance) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized stance value.
func (s Stance) IsValid() bool {
	switch s {
	case StanceAgree, StanceDisagree, StanceNeutral:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of a discussion.
type Status string

const (
	// StatusRunning indicates rounds are still being dispatched.
	StatusRunning Status = "running"

	// StatusConsensusReached indicates a round met the consensus threshold.
	StatusConsensusReached Status = "consensus_reached"

	// StatusPartial indicates all rounds ran without reaching the threshold.
	// Partial outcomes are not failures; the synthesized decision stands.
	StatusPartial Status = "partial"

	// StatusCancelled indicates the context was cancelled mid-discussion.
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a finished discussion.
func (s Status) IsTerminal() bool {
	return s == StatusConsensusReached || s == StatusPartial || s == StatusCancelled
}

// Topic frames one discussion: what is being decided and under which
// termination rules. A topic is immutable once created; the coordinator
// builds one per phase invocation.
type Topic struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	DecisionKeys []string       `json:"decision_keys,omitempty"`
	MaxRounds    int            `json:"max_rounds"`
	MinConsensus float64        `json:"min_consensus"`
}

// Validate checks the topic's termination rules before any round runs.
func (t Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.NewInvalidTopicError("topic id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.NewInvalidTopicError("topic title is required").WithField("id").WithValue(t.ID)
	}
	if t.MaxRounds < 1 {
		return errors.NewInvalidTopicError("max rounds must be at least 1").
			WithField("max_rounds").WithValue(t.MaxRounds)
	}
	if t.MinConsensus <= 0 || t.MinConsensus > 1 {
		return errors.NewInvalidTopicError("min consensus must be in (0, 1]").
			WithField("min_consensus").WithValue(t.MinConsensus)
	}
	return nil
}

// PhaseHint returns the pipeline phase recorded in the topic context, if
// any. Used for event payloads and log fields.
func (t Topic) PhaseHint() string {
	if v, ok := t.Context["phase"].(string); ok {
		return v
	}
	return ""
}

// Opinion is one participant's contribution to one round.
type Opinion struct {
	Participant string    `json:"participant"`
	Round       int       `json:"round"`
	Message     string    `json:"message,omitempty"`
	Rationale   string    `json:"rationale,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Concerns    []string  `json:"concerns,omitempty"`
	Vote        Stance    `json:"vote"`
	Timestamp   time.Time `json:"timestamp"`

	// Fallback marks a synthetic neutral opinion substituted for a failed
	// or timed-out advisor call.
	Fallback bool `json:"fallback,omitempty"`
}

// Discussion is the mutable state of one engine invocation: the topic,
// the append-only opinion history, and per-round consensus levels. It is
// confined to the invocation goroutine and never shared while running.
type Discussion struct {
	Topic            Topic     `json:"topic"`
	Round            int       `json:"round"`
	Opinions         []Opinion `json:"opinions"`
	ConsensusByRound []float64 `json:"consensus_by_round"`
	Status           Status    `json:"status"`
}

// LatestConsensus returns the consensus level of the most recent round,
// or 0 when no round has completed.
func (d *Discussion) LatestConsensus() float64 {
	if len(d.ConsensusByRound) == 0 {
		return 0
	}
	return d.ConsensusByRound[len(d.ConsensusByRound)-1]
}

// RoundOpinions returns the opinions recorded for the given round.
func (d *Discussion) RoundOpinions(round int) []Opinion {
	var out []Opinion
	for _, op := range d.Opinions {
		if op.Round == round {
			out = append(out, op)
		}
	}
	return out
}

// DecisionRecord is the synthesized outcome of a discussion. It is built
// deterministically from the opinion history and carried into the pipeline
// result.
type DecisionRecord struct {
	FinalApproach       string   `json:"final_approach"`
	KeyConsiderations   []string `json:"key_considerations,omitempty"`
	RecommendedActions  []string `json:"recommended_actions,omitempty"`
	ConsensusPoints     []string `json:"consensus_points,omitempty"`
	ImplementationNotes []string `json:"implementation_notes,omitempty"`
}

// Result archives a finished discussion.
type Result struct {
	TopicID                string         `json:"topic_id"`
	Status                 Status         `json:"status"`
	Decision               DecisionRecord `json:"decision"`
	ConsensusLevel         float64        `json:"consensus_level"`
	TotalRounds            int            `json:"total_rounds"`
	Participants           []string       `json:"participants"`
	KeyInsights            []string       `json:"key_insights,omitempty"`
	AlternativeSuggestions []string       `json:"alternative_suggestions,omitempty"`
}

// OpinionRequest carries everything an advisor needs to form an opinion:
// the topic, the requesting participant's profile, the current round, and
// all opinions recorded in earlier rounds.
type OpinionRequest struct {
	Topic       Topic
	Participant registry.Participant
	Round       int
	Prior       []Opinion
}

// Advisor produces one participant's opinion for one round. Implementations
// are expected to be safe for concurrent calls; the engine dispatches one
// call per participant per round. The engine applies the per-call timeout.
type Advisor interface {
	Opine(ctx context.Context, req OpinionRequest) (Opinion, error)
}

// Synthesizer distills a finished discussion into a decision record. It
// must be pure: no I/O, no clock, no randomness.
type Synthesizer interface {
	Synthesize(topic Topic, opinions []Opinion) DecisionRecord
}
