// Package pipeline coordinates mission production: phase discussions,
// timeline planning, stage generation, and final assembly.
//
// # Phases
//
// A run walks the fixed phase order script → audio → visual → platform_fit
// → quality. Each phase resolves a participant panel from the
// [registry.Registry], builds a phase topic seeded with the previous
// phase's decision, and runs it through the [discussion.Engine]. Decisions
// accumulate in a [PhaseContext] so later phases (and the generation
// collaborators) see what was settled before them.
//
// # Soft Failures
//
// [Coordinator.Run] returns an error only when the mission itself is
// invalid. Everything past that point degrades instead of aborting: a
// phase that cannot start marks itself and every later phase failed, a
// collaborator error records a failed [Artifact] and a revision request,
// and a cancelled context grades the run cancelled. The [Result] always
// comes back with whatever was produced.
//
// # Generation
//
// After the phases, the coordinator plans a [timeline.Plan], drives the
// text, audio, and clip collaborators per stage, validates measured
// durations against the plan, and combines the stage artifacts into the
// final video. Narration audio is the stage's measured actual; clips are
// checked against the plan separately and regenerated when they drift
// beyond tolerance. Assembly is skipped when any stage artifact failed.
//
// # Usage
//
//	coord, _ := pipeline.New(pipeline.Config{
//	    Registry:    reg,
//	    Engine:      engine,
//	    Synthesizer: synth,
//	    Text:        text,
//	    Audio:       audio,
//	    Clips:       clips,
//	    Muxer:       muxer,
//	})
//	result, err := coord.Run(ctx, mission)
package pipeline
