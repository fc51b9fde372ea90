// Package mission defines the specification that drives a production run.
//
// A mission names the topic and target platform, sets the total duration,
// and optionally overrides stage count, word rate, deviation tolerance, and
// per-phase discussion settings. Missions are loaded from YAML with [Load]
// and validated against the built-in platform profiles before a run starts.
//
// # Defaults
//
// Discussion is enabled unless the mission sets enable_discussion: false.
// Stage count and word rate default to the platform profile through
// [Spec.ResolvedStageCount] and [Spec.ResolvedWordRate]. Phase settings the
// mission leaves at zero defer to the coordinator's phase topic defaults.
//
// # Validation
//
// [Spec.Validate] rejects missing topics, unknown platforms, durations
// outside the platform cap, and malformed phase overrides. Every validation
// failure carries ErrMissionInvalid, which the coordinator treats as fatal
// before any phase starts.
package mission
