// Package offline provides deterministic reference implementations of the
// advisor and the generation collaborators, for dry runs and tests. No
// network, no files, no randomness.
//
// # Determinism
//
// A [Suite] derives every output from one seed: opinions, narration,
// durations, handles. Two suites with the same seed produce identical
// pipeline runs, which makes offline runs diffable. Round-one stances
// follow the participant's style (skeptical pushes back, exploratory
// abstains), so default-catalog discussions converge in one or two rounds
// with believable texture.
//
// # Usage
//
//	suite := offline.NewSuite(offline.WithSeed(7))
//	coord, err := pipeline.New(pipeline.Config{
//	    ...
//	    Text:  suite.Text,
//	    Audio: suite.Audio,
//	    Clips: suite.Clips,
//	    Muxer: suite.Muxer,
//	})
//
// [WithLatency] adds a fixed delay to every call for exercising timeout and
// cancellation handling.
package offline
