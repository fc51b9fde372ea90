// Package synthesis turns a finished discussion into a decision record.
//
// [Synthesize] is a pure function: it reads only the topic and the opinion
// history, touches no clock and no I/O, and always produces the same
// record for the same inputs. That property is what lets a pipeline run be
// replayed from its archived opinions, and what makes discussion-disabled
// runs (zero opinions) fully deterministic.
//
// The record is assembled from the history by fixed rules:
//
//   - FinalApproach summarizes the leading recommended actions, falls back
//     to the first rationale, then to a fixed default.
//   - KeyConsiderations and RecommendedActions deduplicate concerns and
//     suggestions in first-seen order.
//   - ConsensusPoints keeps the messages of agreeing opinions.
//   - ImplementationNotes carries fixed guidance, extended with a platform
//     note when the topic context names one.
//
// [Synthesizer] wraps the function to satisfy discussion.Synthesizer.
package synthesis
