package timeline

import (
	"math"

	"github.com/showrunner/showrunner/internal/errors"
)

// DefaultTolerance is the allowed fractional deviation between planned and
// measured stage durations.
const DefaultTolerance = 0.10

// splitPrecision rounds the even stage split to tenths of a second; the
// final stage absorbs whatever remainder that rounding leaves.
const splitPrecision = 10

// Orchestrator plans stage timelines and validates measured outcomes
// against them. It holds only configuration, both operations are pure, and
// one Orchestrator is safe for concurrent use.
type Orchestrator struct {
	tolerance         float64
	continuity        bool
	defaultTransition Transition
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tolerance:         DefaultTolerance,
		defaultTransition: TransitionCrossfade,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Plan lays out stageCount stages over total seconds of content. Durations
// default to an even split rounded to tenths of a second, with the final
// stage absorbing the rounding remainder so the stages sum exactly to the
// total. Each stage gets a word budget of duration times wordRate and a
// narrative purpose derived from its position.
func (o *Orchestrator) Plan(total float64, stageCount int, wordRate float64) (*Plan, error) {
	if total <= 0 {
		return nil, errors.NewInvalidTopicError("total duration must be positive").
			WithField("total").WithValue(total)
	}
	if stageCount < 1 {
		return nil, errors.NewInvalidTopicError("stage count must be at least 1").
			WithField("stage_count").WithValue(stageCount)
	}
	if wordRate < 0 {
		return nil, errors.NewInvalidTopicError("word rate must not be negative").
			WithField("word_rate").WithValue(wordRate)
	}

	even := math.Round(total/float64(stageCount)*splitPrecision) / splitPrecision
	final := total - even*float64(stageCount-1)
	if final <= 0 {
		return nil, errors.NewInvalidTopicError("total duration too short for stage count").
			WithField("stage_count").WithValue(stageCount)
	}

	stages := make([]Stage, stageCount)
	for i := range stages {
		d := even
		if i == stageCount-1 {
			d = final
		}
		stages[i] = Stage{
			Index:           i,
			Purpose:         purposeFor(i, stageCount),
			DurationSeconds: d,
			WordBudget:      int(math.Round(d * wordRate)),
			Continuity:      i > 0 && o.continuity,
			Transition:      o.transitionFor(i),
		}
	}

	return &Plan{
		TotalSeconds: total,
		WordRate:     wordRate,
		Tolerance:    o.tolerance,
		Stages:       stages,
	}, nil
}

// purposeFor assigns a narrative purpose by stage position. Rules apply
// first match wins: stage 0 is always the hook, the first third builds
// context, the middle third carries the main action, plans with more than
// two stages get a climax before the last stage, and the last stage
// concludes.
func purposeFor(i, n int) NarrativePurpose {
	switch {
	case i == 0:
		return PurposeHookAndSetup
	case i < n/3:
		return PurposeContextBuilding
	case i < 2*n/3:
		return PurposeMainAction
	case n > 2 && i < n-1:
		return PurposeClimaxReveal
	default:
		return PurposeConclusionCTA
	}
}

func (o *Orchestrator) transitionFor(i int) Transition {
	if i == 0 {
		return TransitionCut
	}
	if o.continuity {
		return TransitionContinuity
	}
	return o.defaultTransition
}

// Validate checks measured stage outcomes against the plan and decides the
// deterministic repair for each flagged stage: text stages are truncated
// or padded back to their word budget, media stages get a regenerate
// request since media is never fabricated to fill time.
//
// A stage is flagged when its duration deviation exceeds the plan's
// tolerance, or, for text stages with a reported word count, when the word
// deviation does. Stages without a reported actual are recorded as
// unmeasured and count at their planned duration.
//
// The effective total counts repaired text at planned duration and media
// at measured duration. If it exceeds total times (1 + tolerance), the
// report is returned together with ErrDurationBudgetExceeded; an overrun
// is never passed silently.
func (o *Orchestrator) Validate(plan *Plan, actuals []Actual) (*Report, error) {
	if plan == nil {
		return nil, errors.NewValidationError("plan is required")
	}
	if err := plan.check(); err != nil {
		return nil, err
	}

	byStage := make(map[int]Actual, len(actuals))
	for _, a := range actuals {
		if a.Stage < 0 || a.Stage >= len(plan.Stages) {
			return nil, errors.NewValidationError("actual references an unknown stage").
				WithField("stage").WithValue(a.Stage)
		}
		if a.DurationSeconds < 0 {
			return nil, errors.NewValidationError("actual duration must not be negative").
				WithField("stage").WithValue(a.Stage)
		}
		if _, dup := byStage[a.Stage]; dup {
			return nil, errors.NewValidationError("duplicate actual for stage").
				WithField("stage").WithValue(a.Stage)
		}
		byStage[a.Stage] = a
	}

	tol := plan.Tolerance
	report := &Report{
		Checks:         make([]StageCheck, 0, len(plan.Stages)),
		PlannedSeconds: plan.TotalSeconds,
	}

	var effective float64
	for _, s := range plan.Stages {
		check := StageCheck{
			Stage:            s.Index,
			PlannedSeconds:   s.DurationSeconds,
			Repair:           RepairNone,
			EffectiveSeconds: s.DurationSeconds,
		}
		if a, measured := byStage[s.Index]; measured {
			check.Measured = true
			check.Kind = a.Kind
			check.ActualSeconds = a.DurationSeconds
			check.Deviation = math.Abs(a.DurationSeconds-s.DurationSeconds) / s.DurationSeconds

			durationFlagged := check.Deviation > tol
			wordFlagged := false
			if a.Kind == KindText && a.WordCount > 0 && s.WordBudget > 0 {
				check.WordDeviation = math.Abs(float64(a.WordCount-s.WordBudget)) / float64(s.WordBudget)
				wordFlagged = check.WordDeviation > tol
			}

			if durationFlagged || wordFlagged {
				check.Flagged = true
				check.Repair = repairFor(s, a, durationFlagged)
			}
			check.EffectiveSeconds = effectiveSeconds(s, a, check.Repair)
		}

		effective += check.EffectiveSeconds
		if check.Flagged {
			report.Flagged++
		}
		if check.Repair != RepairNone {
			report.Repairs++
		}
		report.Checks = append(report.Checks, check)
	}

	report.EffectiveSeconds = effective
	budget := plan.TotalSeconds * (1 + tol)
	report.WithinBudget = effective <= budget+1e-9
	if !report.WithinBudget {
		return report, errors.Wrapf(errors.ErrDurationBudgetExceeded,
			"timeline: effective total %.2fs exceeds budget %.2fs", effective, budget)
	}
	return report, nil
}

// repairFor picks the repair for a flagged stage. Text repairs follow the
// dimension that flagged the stage; everything else is regenerated.
func repairFor(s Stage, a Actual, durationFlagged bool) Repair {
	if a.Kind != KindText {
		return RepairRegenerate
	}
	if durationFlagged {
		if a.DurationSeconds > s.DurationSeconds {
			return RepairTruncate
		}
		return RepairPad
	}
	if a.WordCount > s.WordBudget {
		return RepairTruncate
	}
	return RepairPad
}

// effectiveSeconds is a stage's contribution to the post-repair total:
// repaired text counts at planned duration, everything measured counts at
// its actual duration.
func effectiveSeconds(s Stage, a Actual, repair Repair) float64 {
	if a.Kind == KindText && (repair == RepairTruncate || repair == RepairPad) {
		return s.DurationSeconds
	}
	return a.DurationSeconds
}
