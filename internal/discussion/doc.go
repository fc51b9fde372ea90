// Package discussion implements the round-based consensus engine at the
// heart of showrunner.
//
// An [Engine] runs one discussion per pipeline phase: each round it asks
// every participant's [Advisor] for an [Opinion] concurrently, joins the
// calls, and computes the round's consensus as the fraction of non-neutral
// votes that agree. The discussion stops when consensus reaches the topic's
// threshold, when the round budget runs out, or when the context is
// cancelled.
//
// # Failure Containment
//
// A single advisor failing or timing out never fails the discussion. The
// engine substitutes a synthetic neutral opinion whose rationale explains
// the failure, publishes an advisor.fallback event, and completes the
// round on the remaining participants. Neutral votes are abstentions: they
// are excluded from the consensus denominator entirely.
//
// # Outcomes
//
// Every Run that passes its preconditions returns a [Result] with a nil
// error, whatever happened inside:
//
//   - consensus_reached: a round met the topic's MinConsensus.
//   - partial: MaxRounds ran without meeting the threshold. The decision
//     is synthesized from the full history and stands.
//   - cancelled: the context was cancelled; recorded rounds are kept and
//     the result reflects the best state so far.
//
// Only precondition violations return an error: an invalid topic
// (ErrInvalidTopic) or an empty participant set (ErrEmptyParticipantSet).
//
// # Concurrency
//
// Within a round, advisor calls run on a bounded goroutine pool
// (WithMaxParallel) and each call carries its own timeout
// (WithCallTimeout). An optional shared rate limiter (WithRateLimiter)
// gates dispatch. Discussion state is confined to the Run goroutine;
// opinions are appended only after the round joins, so the engine itself
// needs no locking.
package discussion
