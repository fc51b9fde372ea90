package discussion

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/event"
	"github.com/showrunner/showrunner/internal/logging"
	"github.com/showrunner/showrunner/internal/registry"
)

// DefaultCallTimeout bounds a single advisor call unless overridden with
// WithCallTimeout.
const DefaultCallTimeout = 30 * time.Second

// Config holds required dependencies for creating an Engine.
type Config struct {
	// Advisor produces opinions. Required.
	Advisor Advisor

	// Synthesizer distills the opinion history into a decision. Required.
	Synthesizer Synthesizer

	// Bus receives discussion lifecycle events. Optional.
	Bus *event.Bus

	// Logger receives discussion logs. Optional; defaults to a no-op logger.
	Logger *logging.Logger
}

// Engine runs round-based consensus discussions. One Engine is safe for
// sequential reuse across topics; each Run confines its state to the
// calling goroutine.
type Engine struct {
	advisor Advisor
	synth   Synthesizer
	bus     *event.Bus
	logger  *logging.Logger

	maxParallel int
	callTimeout time.Duration
	limiter     *rate.Limiter
}

// New creates a discussion Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.Advisor == nil {
		return nil, errors.New("discussion: Advisor is required")
	}
	if cfg.Synthesizer == nil {
		return nil, errors.New("discussion: Synthesizer is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	e := &Engine{
		advisor:     cfg.Advisor,
		synth:       cfg.Synthesizer,
		bus:         cfg.Bus,
		logger:      logger,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes a consensus discussion over the topic with the given
// participants and returns the archived result.
//
// Rounds run until a round's consensus reaches the topic's threshold
// (consensus_reached), the round budget is exhausted (partial), or the
// context is cancelled (cancelled). Partial and cancelled outcomes still
// return a synthesized Result with a nil error; only precondition
// violations fail the call.
func (e *Engine) Run(ctx context.Context, topic Topic, participants []registry.Participant) (*Result, error) {
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, errors.NewEmptyParticipantSetError("no participants resolved for topic " + topic.ID)
	}

	logger := e.logger
	if phase := topic.PhaseHint(); phase != "" {
		logger = logger.WithPhase(phase)
	}

	state := &Discussion{Topic: topic, Status: StatusRunning}

	e.publish(event.NewDiscussionStartedEvent(topic.ID, event.Phase(topic.PhaseHint()), len(participants), topic.MaxRounds))
	logger.Info("discussion started",
		"topic_id", topic.ID,
		"participants", len(participants),
		"max_rounds", topic.MaxRounds,
		"min_consensus", topic.MinConsensus,
	)

	for round := 1; round <= topic.MaxRounds; round++ {
		if ctx.Err() != nil {
			state.Status = StatusCancelled
			break
		}

		opinions := e.runRound(ctx, logger, topic, participants, state.Opinions, round)
		state.Round = round
		state.Opinions = append(state.Opinions, opinions...)
		consensus := roundConsensus(opinions)
		state.ConsensusByRound = append(state.ConsensusByRound, consensus)

		e.publish(event.NewRoundCompletedEvent(topic.ID, round, consensus))
		logger.Info("round completed", "topic_id", topic.ID, "round", round, "consensus", consensus)

		// Cancellation wins over a threshold hit in the same round: the
		// round's in-flight calls were cut short, so its consensus is not
		// trustworthy as a deciding value.
		if ctx.Err() != nil {
			state.Status = StatusCancelled
			break
		}
		if consensus >= topic.MinConsensus {
			state.Status = StatusConsensusReached
			break
		}
	}
	if state.Status == StatusRunning {
		state.Status = StatusPartial
	}

	result := e.buildResult(state, participants)
	e.publish(event.NewDiscussionCompletedEvent(topic.ID, result.Status.String(), result.TotalRounds, result.ConsensusLevel))
	logger.Info("discussion completed",
		"topic_id", topic.ID,
		"status", result.Status.String(),
		"rounds", result.TotalRounds,
		"consensus", result.ConsensusLevel,
	)
	return result, nil
}

// runRound dispatches one advisor call per participant and joins them.
// Opinions come back in participant order regardless of completion order.
func (e *Engine) runRound(ctx context.Context, logger *logging.Logger, topic Topic, participants []registry.Participant, prior []Opinion, round int) []Opinion {
	opinions := make([]Opinion, len(participants))

	p := pool.New().WithMaxGoroutines(e.roundParallelism(len(participants)))
	for i, participant := range participants {
		p.Go(func() {
			opinions[i] = e.callAdvisor(ctx, logger, OpinionRequest{
				Topic:       topic,
				Participant: participant,
				Round:       round,
				Prior:       prior,
			})
		})
	}
	p.Wait()

	return opinions
}

// callAdvisor performs one advisor call under the configured timeout and
// rate limit. Any failure is absorbed into a synthetic neutral opinion.
func (e *Engine) callAdvisor(ctx context.Context, logger *logging.Logger, req OpinionRequest) Opinion {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return e.fallbackOpinion(logger, req, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	op, err := e.advisor.Opine(callCtx, req)
	if err != nil {
		callErr := errors.NewAdvisorCallError("advisor call failed", err).
			WithParticipant(req.Participant.ID).
			WithRound(req.Round)
		if errors.Is(err, context.DeadlineExceeded) {
			callErr = callErr.WithTimeout(e.callTimeout)
		}
		return e.fallbackOpinion(logger, req, callErr)
	}

	return normalizeOpinion(op, req)
}

// fallbackOpinion records an advisor failure and substitutes a neutral
// opinion so the round can still complete.
func (e *Engine) fallbackOpinion(logger *logging.Logger, req OpinionRequest, cause error) Opinion {
	e.publish(event.NewAdvisorFallbackEvent(req.Topic.ID, req.Participant.ID, req.Round, cause.Error()))
	logger.Warn("advisor call failed, recording neutral opinion",
		"topic_id", req.Topic.ID,
		"participant", req.Participant.ID,
		"round", req.Round,
		"error", cause.Error(),
	)
	return Opinion{
		Participant: req.Participant.ID,
		Round:       req.Round,
		Message:     "no opinion recorded",
		Rationale:   fmt.Sprintf("advisor unavailable: %v", cause),
		Vote:        StanceNeutral,
		Timestamp:   time.Now(),
		Fallback:    true,
	}
}

// normalizeOpinion stamps engine-owned fields and coerces malformed
// advisor output to a neutral vote rather than raising.
func normalizeOpinion(op Opinion, req OpinionRequest) Opinion {
	op.Participant = req.Participant.ID
	op.Round = req.Round
	if !op.Vote.IsValid() {
		op.Vote = StanceNeutral
	}
	if op.Timestamp.IsZero() {
		op.Timestamp = time.Now()
	}
	return op
}

func (e *Engine) roundParallelism(participants int) int {
	if e.maxParallel > 0 && e.maxParallel < participants {
		return e.maxParallel
	}
	return participants
}

func (e *Engine) buildResult(state *Discussion, participants []registry.Participant) *Result {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return &Result{
		TopicID:                state.Topic.ID,
		Status:                 state.Status,
		Decision:               e.synth.Synthesize(state.Topic, state.Opinions),
		ConsensusLevel:         state.LatestConsensus(),
		TotalRounds:            state.Round,
		Participants:           names,
		KeyInsights:            keyInsights(state.Opinions),
		AlternativeSuggestions: alternativeSuggestions(state.Opinions),
	}
}

func (e *Engine) publish(evt event.Event) {
	if e.bus != nil {
		e.bus.Publish(evt)
	}
}
