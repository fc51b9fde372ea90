package timeline

import (
	"math"

	"github.com/showrunner/showrunner/internal/errors"
)

// NarrativePurpose labels the storytelling role of a stage.
type NarrativePurpose string

const (
	// PurposeHookAndSetup grabs attention and frames the piece. Always
	// stage 0.
	PurposeHookAndSetup NarrativePurpose = "hook_and_setup"

	// PurposeContextBuilding gives the viewer what they need to follow
	// the main action.
	PurposeContextBuilding NarrativePurpose = "context_building"

	// PurposeMainAction carries the core content of the piece.
	PurposeMainAction NarrativePurpose = "main_action"

	// PurposeClimaxReveal lands the payoff. Only present in plans with
	// more than two stages.
	PurposeClimaxReveal NarrativePurpose = "climax_reveal"

	// PurposeConclusionCTA wraps up and delivers the call to action.
	PurposeConclusionCTA NarrativePurpose = "conclusion_cta"
)

// String returns the string representation of the purpose.
func (p NarrativePurpose) String() string {
	return string(p)
}

// Transition describes how one stage hands off to the next.
type Transition string

const (
	// TransitionCut opens a stage with a hard cut. Always stage 0.
	TransitionCut Transition = "cut"

	// TransitionContinuity carries visual elements across the stage
	// boundary. Used when the plan's continuity setting is on.
	TransitionContinuity Transition = "continuity"

	// TransitionCrossfade blends between stages. The default when
	// continuity is off.
	TransitionCrossfade Transition = "crossfade"
)

// String returns the string representation of the transition.
func (t Transition) String() string {
	return string(t)
}

// Repair identifies the deterministic fix applied to a flagged stage.
type Repair string

const (
	// RepairNone means the stage passed its checks.
	RepairNone Repair = "none"

	// RepairTruncate trims a text stage down to its word budget.
	RepairTruncate Repair = "truncate"

	// RepairPad extends a text stage up to its word budget.
	RepairPad Repair = "pad"

	// RepairRegenerate requests fresh media for a non-text stage. Media
	// is never fabricated to fill time.
	RepairRegenerate Repair = "regenerate"
)

// String returns the string representation of the repair.
func (r Repair) String() string {
	return string(r)
}

// KindText marks a stage actual as narration text. Any other kind is
// treated as media and repaired by regeneration.
const KindText = "text"

// Stage is one planned segment of the timeline.
type Stage struct {
	Index           int              `json:"index"`
	Purpose         NarrativePurpose `json:"purpose"`
	DurationSeconds float64          `json:"duration_seconds"`
	WordBudget      int              `json:"word_budget"`

	// ActualSeconds is zero until a measurement is attached with
	// Plan.WithActuals.
	ActualSeconds float64 `json:"actual_seconds,omitempty"`

	Continuity bool       `json:"continuity"`
	Transition Transition `json:"transition"`
}

// Plan is an immutable stage layout for one production run. Orchestrator
// methods never modify a Plan after it is produced; WithActuals returns a
// new copy.
type Plan struct {
	TotalSeconds float64 `json:"total_seconds"`
	WordRate     float64 `json:"word_rate"`
	Tolerance    float64 `json:"tolerance"`
	Stages       []Stage `json:"stages"`
}

// StageCount returns the number of stages in the plan.
func (p *Plan) StageCount() int {
	return len(p.Stages)
}

// WithActuals returns a copy of the plan with measured durations attached
// to the matching stages. The receiver is left untouched.
func (p *Plan) WithActuals(actuals []Actual) *Plan {
	out := *p
	out.Stages = append([]Stage(nil), p.Stages...)
	for _, a := range actuals {
		if a.Stage < 0 || a.Stage >= len(out.Stages) {
			continue
		}
		out.Stages[a.Stage].ActualSeconds = a.DurationSeconds
	}
	return &out
}

// check verifies the planned invariants still hold. Validate refuses plans
// that were modified after planning.
func (p *Plan) check() error {
	if len(p.Stages) == 0 {
		return errors.Wrap(errors.ErrPlanImmutable, "timeline: plan has no stages")
	}
	var sum float64
	for i, s := range p.Stages {
		if s.Index != i {
			return errors.Wrapf(errors.ErrPlanImmutable, "timeline: stage indices not contiguous at %d", i)
		}
		if s.DurationSeconds <= 0 {
			return errors.Wrapf(errors.ErrPlanImmutable, "timeline: stage %d has non-positive duration", i)
		}
		sum += s.DurationSeconds
	}
	if p.Stages[0].Continuity {
		return errors.Wrap(errors.ErrPlanImmutable, "timeline: stage 0 must not carry continuity")
	}
	if math.Abs(sum-p.TotalSeconds) > 1e-6 {
		return errors.Wrapf(errors.ErrPlanImmutable, "timeline: stage durations sum to %.6f, plan total is %.6f", sum, p.TotalSeconds)
	}
	return nil
}

// Actual is one stage's measured outcome, reported by the coordinator
// after artifacts are generated.
type Actual struct {
	Stage           int     `json:"stage"`
	Kind            string  `json:"kind"`
	DurationSeconds float64 `json:"duration_seconds"`

	// WordCount is the measured narration length. Zero means unreported;
	// word checks are skipped.
	WordCount int `json:"word_count,omitempty"`
}

// StageCheck records the validation outcome for one stage.
type StageCheck struct {
	Stage            int     `json:"stage"`
	Kind             string  `json:"kind,omitempty"`
	PlannedSeconds   float64 `json:"planned_seconds"`
	ActualSeconds    float64 `json:"actual_seconds,omitempty"`
	Deviation        float64 `json:"deviation"`
	WordDeviation    float64 `json:"word_deviation,omitempty"`
	Measured         bool    `json:"measured"`
	Flagged          bool    `json:"flagged"`
	Repair           Repair  `json:"repair"`
	EffectiveSeconds float64 `json:"effective_seconds"`
}

// Report is the synchronization verdict for a whole plan.
type Report struct {
	Checks           []StageCheck `json:"checks"`
	Flagged          int          `json:"flagged"`
	Repairs          int          `json:"repairs"`
	PlannedSeconds   float64      `json:"planned_seconds"`
	EffectiveSeconds float64      `json:"effective_seconds"`
	WithinBudget     bool         `json:"within_budget"`
}
