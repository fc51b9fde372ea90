// Package timeline plans content stage layouts and validates measured
// outcomes against them.
//
// An [Orchestrator] produces an immutable [Plan]: an even duration split
// across stages (the final stage absorbs the rounding remainder so the
// durations sum exactly to the total), a word budget per stage derived
// from the word rate, and a narrative purpose per stage position running
// hook, context, main action, climax, conclusion.
//
// # Validation and Repair
//
// [Orchestrator.Validate] compares measured durations (and optionally word
// counts) against the plan. A stage whose deviation exceeds the plan's
// tolerance is flagged and assigned a deterministic repair:
//
//   - text over budget: truncate to the word budget
//   - text under budget: pad to the word budget
//   - media: request regeneration; media is never fabricated to fill time
//
// The post-repair effective total counts repaired text at planned duration
// and media at measured duration. An effective total beyond
// total x (1 + tolerance) escalates as ErrDurationBudgetExceeded together
// with the report; it is the one outcome Validate will not absorb.
//
// Plans never change after planning. Validate rejects plans whose stages
// no longer satisfy the planned invariants, and [Plan.WithActuals] returns
// a copy rather than touching the receiver.
package timeline
