package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/showrunner/showrunner/internal/discussion"
	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/event"
	"github.com/showrunner/showrunner/internal/logging"
	"github.com/showrunner/showrunner/internal/mission"
	"github.com/showrunner/showrunner/internal/platform"
	"github.com/showrunner/showrunner/internal/registry"
	"github.com/showrunner/showrunner/internal/revision"
	"github.com/showrunner/showrunner/internal/timeline"
)

// Config holds required dependencies for creating a Coordinator.
type Config struct {
	// Registry resolves participants for phase discussions. Required.
	Registry *registry.Registry

	// Engine runs phase discussions. Required.
	Engine *discussion.Engine

	// Synthesizer produces decisions when discussion is disabled. Required.
	Synthesizer discussion.Synthesizer

	// Text generates stage narration. Required.
	Text TextGenerator

	// Audio voices narration. Required.
	Audio AudioSynthesizer

	// Clips generates stage visuals. Required.
	Clips ClipGenerator

	// Muxer combines stage artifacts into the final video. Required.
	Muxer Muxer

	// Revisions collects regeneration requests. Optional; a fresh queue is
	// created when nil.
	Revisions *revision.Queue

	// Bus receives pipeline lifecycle events. Optional.
	Bus *event.Bus

	// Logger receives pipeline logs. Optional; defaults to a no-op logger.
	Logger *logging.Logger
}

// Coordinator drives missions through the fixed phase sequence and the
// generation stages that follow. One Coordinator is safe for sequential
// reuse; each Run builds fresh state.
type Coordinator struct {
	registry  *registry.Registry
	engine    *discussion.Engine
	synth     discussion.Synthesizer
	text      TextGenerator
	audio     AudioSynthesizer
	clips     ClipGenerator
	muxer     Muxer
	revisions *revision.Queue
	bus       *event.Bus
	logger    *logging.Logger
}

// New creates a Coordinator.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Registry == nil {
		return nil, errors.New("pipeline: Registry is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("pipeline: Engine is required")
	}
	if cfg.Synthesizer == nil {
		return nil, errors.New("pipeline: Synthesizer is required")
	}
	if cfg.Text == nil {
		return nil, errors.New("pipeline: Text is required")
	}
	if cfg.Audio == nil {
		return nil, errors.New("pipeline: Audio is required")
	}
	if cfg.Clips == nil {
		return nil, errors.New("pipeline: Clips is required")
	}
	if cfg.Muxer == nil {
		return nil, errors.New("pipeline: Muxer is required")
	}

	revisions := cfg.Revisions
	if revisions == nil {
		revisions = revision.NewQueue()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Coordinator{
		registry:  cfg.Registry,
		engine:    cfg.Engine,
		synth:     cfg.Synthesizer,
		text:      cfg.Text,
		audio:     cfg.Audio,
		clips:     cfg.Clips,
		muxer:     cfg.Muxer,
		revisions: revisions,
		bus:       cfg.Bus,
		logger:    logger,
	}, nil
}

// Revisions returns the queue the coordinator records regeneration
// requests in.
func (c *Coordinator) Revisions() *revision.Queue {
	return c.revisions
}

// Run produces one mission end to end: phase discussions in fixed order,
// timeline planning, per-stage generation, synchronization validation, and
// final combination.
//
// Only mission-level validation failures return a non-nil error. Everything
// downstream is soft: failed phases poison the phases after them, failed
// artifacts are recorded and skipped past, a blown duration budget or a
// cancelled context grades the run, and the Result always comes back.
func (c *Coordinator) Run(ctx context.Context, m *mission.Spec) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	profile, err := platform.Get(m.Platform)
	if err != nil {
		return nil, err
	}

	r := &run{
		c:       c,
		mission: m,
		profile: profile,
		id:      uuid.NewString(),
	}
	r.logger = c.logger.WithRun(r.id)
	r.result = &Result{
		RunID:     r.id,
		Mission:   m.Clone(),
		StartedAt: time.Now(),
	}

	c.publish(event.NewPipelineStartedEvent(r.id, m.Topic, m.Platform))
	r.logger.Info("pipeline started",
		"topic", m.Topic,
		"platform", m.Platform,
		"duration_seconds", m.DurationSeconds,
		"discussion_enabled", m.EnableDiscussion,
	)

	r.runPhases(ctx)
	r.runGeneration(ctx)

	r.result.Status = r.overallStatus()
	r.result.FinishedAt = time.Now()

	c.publish(event.NewPipelineCompletedEvent(r.id, r.result.Status.String(), r.result.FinishedAt.Sub(r.result.StartedAt).String()))
	r.logger.Info("pipeline completed",
		"status", r.result.Status.String(),
		"phases", len(r.result.Phases),
		"artifacts", len(r.result.Artifacts),
		"revisions", len(r.result.Revisions),
	)
	return r.result, nil
}

func (c *Coordinator) publish(evt event.Event) {
	if c.bus != nil {
		c.bus.Publish(evt)
	}
}

// run carries the mutable state of one pipeline invocation. It lives on
// one goroutine for the whole run.
type run struct {
	c       *Coordinator
	logger  *logging.Logger
	mission *mission.Spec
	profile platform.Profile
	id      string

	result *Result
	pctx   PhaseContext
	orch   *timeline.Orchestrator

	// skip poisons the remaining phases after a precondition failure.
	skip      string
	cancelled bool
	budgetHit bool
}

// runPhases walks the fixed phase order. A precondition failure in one
// phase marks everything after it failed; cancellation marks the remainder
// failed without invoking the engine.
func (r *run) runPhases(ctx context.Context) {
	for _, kind := range PhaseOrder() {
		if r.skip != "" {
			r.record(failedPhase(kind, r.skip))
			r.logger.Warn("phase skipped", "phase", kind.String(), "reason", r.skip)
			continue
		}
		if r.cancelled || ctx.Err() != nil {
			r.cancelled = true
			r.record(failedPhase(kind, "run cancelled before phase started"))
			r.logger.Warn("phase skipped", "phase", kind.String(), "reason", "run cancelled")
			continue
		}
		r.runPhase(ctx, kind)
	}
}

func (r *run) runPhase(ctx context.Context, kind PhaseKind) {
	r.c.publish(event.NewPhaseStartedEvent(r.id, event.Phase(kind)))
	logger := r.logger.WithPhase(kind.String())
	logger.Info("phase started")

	settings := r.mission.SettingsFor(kind.String())
	participants, err := r.c.registry.ForPhase(kind.String(), settings.Participants)
	if err != nil {
		r.failPhase(logger, kind, errors.Wrapf(err, "resolve participants for %s", kind))
		return
	}

	topic := buildTopic(r.id, r.mission, kind, r.pctx)

	var pr PhaseResult
	if r.mission.EnableDiscussion {
		res, err := r.c.engine.Run(ctx, topic, participants)
		if err != nil {
			r.failPhase(logger, kind, err)
			return
		}
		pr = PhaseResult{
			Phase:          kind,
			Status:         phaseStatus(res.Status),
			ConsensusLevel: res.ConsensusLevel,
			TotalRounds:    res.TotalRounds,
			Participants:   res.Participants,
			Decision:       res.Decision,
		}
		if res.Status == discussion.StatusCancelled {
			pr.FailureReason = "discussion cancelled"
			r.cancelled = true
		}
	} else {
		pr = PhaseResult{
			Phase:        kind,
			Status:       StatusComplete,
			Participants: participantNames(participants),
			Decision:     r.c.synth.Synthesize(topic, nil),
		}
	}

	next, err := r.pctx.With(kind, pr.Decision)
	if err != nil {
		r.failPhase(logger, kind, err)
		return
	}
	r.pctx = next

	r.record(pr)
	r.c.publish(event.NewPhaseCompletedEvent(r.id, event.Phase(kind), pr.Status.String(), pr.ConsensusLevel, pr.TotalRounds))
	logger.Info("phase completed",
		"status", pr.Status.String(),
		"consensus", pr.ConsensusLevel,
		"rounds", pr.TotalRounds,
	)
}

// failPhase records a precondition failure and poisons the phases after it.
func (r *run) failPhase(logger *logging.Logger, kind PhaseKind, cause error) {
	r.record(failedPhase(kind, cause.Error()))
	r.skip = fmt.Sprintf("upstream %s phase failed: %v", kind, cause)
	r.c.publish(event.NewPhaseCompletedEvent(r.id, event.Phase(kind), StatusFailed.String(), 0, 0))
	logger.Error("phase failed", "error", cause.Error())
}

func (r *run) record(pr PhaseResult) {
	r.result.Phases = append(r.result.Phases, pr)
}

func failedPhase(kind PhaseKind, reason string) PhaseResult {
	return PhaseResult{Phase: kind, Status: StatusFailed, FailureReason: reason}
}

// phaseStatus maps a discussion outcome onto the phase vocabulary. A
// cancelled discussion still carries a usable best-so-far decision, so it
// grades as partial; the run-level status records the cancellation.
func phaseStatus(s discussion.Status) Status {
	switch s {
	case discussion.StatusConsensusReached:
		return StatusComplete
	case discussion.StatusPartial, discussion.StatusCancelled:
		return StatusPartial
	default:
		return StatusPartial
	}
}

func participantNames(participants []registry.Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}

// stageOutcome collects what one stage's collaborators produced.
type stageOutcome struct {
	failed bool
	actual *timeline.Actual
	audio  *Artifact
	clip   *Artifact
}

// runGeneration plans the timeline and drives the per-stage collaborators.
// Narration needs the script decision; when the script phase failed there
// is nothing to generate from and the run carries only phase results.
func (r *run) runGeneration(ctx context.Context) {
	if r.cancelled {
		r.logger.Warn("generation skipped", "reason", "run cancelled")
		return
	}
	script, ok := r.pctx.Decision(PhaseScript)
	if !ok {
		r.logger.Warn("generation skipped", "reason", "script phase produced no decision")
		return
	}

	opts := []timeline.Option{timeline.WithContinuity(r.mission.Continuity)}
	if r.mission.Tolerance > 0 {
		opts = append(opts, timeline.WithTolerance(r.mission.Tolerance))
	}
	r.orch = timeline.New(opts...)

	plan, err := r.orch.Plan(
		r.mission.DurationSeconds,
		r.mission.ResolvedStageCount(r.profile),
		r.mission.ResolvedWordRate(r.profile),
	)
	if err != nil {
		r.result.FailureReason = err.Error()
		r.logger.Error("timeline planning failed", "error", err.Error())
		return
	}
	r.result.Plan = plan
	r.c.publish(event.NewTimelinePlannedEvent(r.id, plan.StageCount(), plan.TotalSeconds))
	r.logger.Info("timeline planned",
		"stages", plan.StageCount(),
		"total_seconds", plan.TotalSeconds,
		"tolerance", plan.Tolerance,
	)

	audioDecision, _ := r.pctx.Decision(PhaseAudio)
	visualDecision, _ := r.pctx.Decision(PhaseVisual)

	var (
		actuals    []timeline.Actual
		stageAudio []Artifact
		stageClips []Artifact
		anyFailed  bool
	)
	for _, s := range plan.Stages {
		if ctx.Err() != nil {
			r.cancelled = true
			anyFailed = true
			r.logger.Warn("generation cancelled", "stage", s.Index)
			break
		}
		outcome := r.generateStage(ctx, s, script, audioDecision, visualDecision)
		anyFailed = anyFailed || outcome.failed
		if outcome.actual != nil {
			actuals = append(actuals, *outcome.actual)
		}
		if outcome.audio != nil {
			stageAudio = append(stageAudio, *outcome.audio)
		}
		if outcome.clip != nil {
			stageClips = append(stageClips, *outcome.clip)
		}
	}

	r.validateTimeline(plan, actuals)
	r.combine(ctx, stageClips, stageAudio, anyFailed)
}

func (r *run) generateStage(ctx context.Context, s timeline.Stage, script, audioDecision, visualDecision discussion.DecisionRecord) stageOutcome {
	var out stageOutcome
	logger := r.logger.With("stage", s.Index)

	spec := StageSpec{
		Stage:    s,
		Topic:    r.mission.Topic,
		Category: r.mission.Category,
		Platform: r.mission.Platform,
		Decision: script,
	}

	text, err := r.c.text.Generate(ctx, spec)
	if err != nil {
		out.failed = true
		r.failArtifact(logger, s.Index, ArtifactText, "narration generation failed", err)
		return out
	}
	words := len(strings.Fields(text))
	r.result.Artifacts = append(r.result.Artifacts, Artifact{
		Kind:      ArtifactText,
		Stage:     s.Index,
		Content:   text,
		WordCount: words,
		Status:    StatusComplete,
	})
	r.c.publish(event.NewArtifactGeneratedEvent(r.id, s.Index, ArtifactText, ""))
	logger.Info("narration generated", "words", words, "budget", s.WordBudget)

	audioSpec := spec
	audioSpec.Decision = audioDecision
	audioArt, audioSeconds, err := r.c.audio.Synthesize(ctx, text, audioSpec)
	audioOK := err == nil
	if err != nil {
		out.failed = true
		r.failArtifact(logger, s.Index, ArtifactAudio, "audio synthesis failed", err)
	} else {
		a := normalizeArtifact(audioArt, ArtifactAudio, s.Index, audioSeconds)
		out.audio = &a
		r.result.Artifacts = append(r.result.Artifacts, a)
		r.c.publish(event.NewArtifactGeneratedEvent(r.id, s.Index, ArtifactAudio, a.Handle))
		logger.Info("audio synthesized", "seconds", audioSeconds)

		// Narration drives synchronization: the audio duration is the
		// stage's actual for the timeline check.
		out.actual = &timeline.Actual{
			Stage:           s.Index,
			Kind:            timeline.KindText,
			DurationSeconds: audioSeconds,
			WordCount:       words,
		}
	}

	prompt := StagePrompt{
		Stage:       s,
		Topic:       r.mission.Topic,
		Platform:    r.mission.Platform,
		AspectRatio: r.profile.AspectRatio,
		Narration:   text,
		Decision:    visualDecision,
	}
	clipArt, clipSeconds, err := r.c.clips.Generate(ctx, prompt)
	if err != nil {
		out.failed = true
		r.failArtifact(logger, s.Index, ArtifactVideo, "clip generation failed", err)
		return out
	}
	clip := normalizeArtifact(clipArt, ArtifactVideo, s.Index, clipSeconds)

	if audioOK {
		// The clip is checked against the plan on its own: media that
		// drifts beyond tolerance is regenerated, never stretched.
		deviation := math.Abs(clipSeconds-s.DurationSeconds) / s.DurationSeconds
		if deviation > r.result.Plan.Tolerance {
			clip.Status = StatusPartial
			clip.Detail = fmt.Sprintf("clip duration %.2fs deviates %.0f%% from planned %.2fs", clipSeconds, deviation*100, s.DurationSeconds)
			r.requestRevision(s.Index, ArtifactVideo, clip.Detail)
		}
	} else {
		// With no audio to drive sync, the clip itself is the stage's
		// measured actual.
		out.actual = &timeline.Actual{
			Stage:           s.Index,
			Kind:            ArtifactVideo,
			DurationSeconds: clipSeconds,
		}
	}

	out.clip = &clip
	r.result.Artifacts = append(r.result.Artifacts, clip)
	r.c.publish(event.NewArtifactGeneratedEvent(r.id, s.Index, ArtifactVideo, clip.Handle))
	logger.Info("clip generated", "seconds", clipSeconds)
	return out
}

// failArtifact records a collaborator failure and keeps the pipeline
// moving. Failed artifacts also land in the revision queue so a later pass
// can regenerate them.
func (r *run) failArtifact(logger *logging.Logger, stage int, kind, msg string, cause error) {
	stageErr := errors.NewStageError(fmt.Sprintf("%s: %v", msg, cause), errors.ErrArtifactGeneration).
		WithStage(stage).
		WithArtifact(kind)
	r.result.Artifacts = append(r.result.Artifacts, Artifact{
		Kind:   kind,
		Stage:  stage,
		Status: StatusFailed,
		Detail: stageErr.Error(),
	})
	r.c.publish(event.NewArtifactFailedEvent(r.id, stage, kind, stageErr.Error()))
	logger.Error(msg, "kind", kind, "error", cause.Error())
	r.requestRevision(stage, kind, stageErr.Error())
}

func (r *run) requestRevision(stage int, kind, reason string) {
	req := r.c.revisions.Enqueue(stage, kind, reason)
	r.result.Revisions = append(r.result.Revisions, req)
	r.c.publish(event.NewRevisionRequestedEvent(r.id, stage, kind, reason))
	r.logger.Info("revision requested", "stage", stage, "kind", kind, "reason", reason)
}

// validateTimeline checks measured stage durations against the plan, marks
// repaired artifacts, and turns regenerate repairs into revision requests.
// A blown duration budget fails the run; it is never absorbed silently.
func (r *run) validateTimeline(plan *timeline.Plan, actuals []timeline.Actual) {
	report, err := r.orch.Validate(plan, actuals)
	if err != nil && report == nil {
		r.result.FailureReason = err.Error()
		r.logger.Error("timeline validation failed", "error", err.Error())
		return
	}
	r.result.Report = report
	r.logger.Info("timeline validated",
		"flagged", report.Flagged,
		"repairs", report.Repairs,
		"effective_seconds", report.EffectiveSeconds,
		"within_budget", report.WithinBudget,
	)
	if report.Repairs > 0 {
		status := "within_budget"
		if !report.WithinBudget {
			status = "budget_exceeded"
		}
		r.c.publish(event.NewTimelineRepairedEvent(r.id, report.Repairs, status))
	}

	r.applyRepairs(plan, report)

	if err != nil {
		r.budgetHit = true
		r.result.FailureReason = err.Error()
		r.logger.Error("duration budget exceeded", "error", err.Error())
	}
}

// applyRepairs downgrades repaired artifacts and queues regeneration for
// media repairs.
func (r *run) applyRepairs(plan *timeline.Plan, report *timeline.Report) {
	for _, check := range report.Checks {
		switch check.Repair {
		case timeline.RepairTruncate:
			note := fmt.Sprintf("narration truncated to the %d-word budget", plan.Stages[check.Stage].WordBudget)
			r.markArtifact(check.Stage, ArtifactText, StatusPartial, note)
		case timeline.RepairPad:
			note := fmt.Sprintf("narration padded to the %d-word budget", plan.Stages[check.Stage].WordBudget)
			r.markArtifact(check.Stage, ArtifactText, StatusPartial, note)
		case timeline.RepairRegenerate:
			reason := fmt.Sprintf("duration deviation %.0f%% beyond tolerance", check.Deviation*100)
			r.markArtifact(check.Stage, check.Kind, StatusPartial, reason)
			r.requestRevision(check.Stage, check.Kind, reason)
		}
	}
}

// markArtifact updates a recorded stage artifact in place.
func (r *run) markArtifact(stage int, kind string, status Status, detail string) {
	for i := range r.result.Artifacts {
		a := &r.result.Artifacts[i]
		if a.Stage == stage && a.Kind == kind {
			a.Status = status
			a.Detail = detail
			return
		}
	}
}

// combine assembles the final video from the per-stage artifacts. It is
// skipped, and the final artifact marked failed, when any stage artifact
// failed; partial repairs do not block assembly.
func (r *run) combine(ctx context.Context, clips, audio []Artifact, anyFailed bool) {
	if r.result.Plan == nil {
		return
	}
	if anyFailed || ctx.Err() != nil {
		reason := "stage artifacts failed; final combination skipped"
		if ctx.Err() != nil {
			reason = "run cancelled; final combination skipped"
		}
		r.result.Artifacts = append(r.result.Artifacts, Artifact{
			Kind:   ArtifactVideo,
			Stage:  StageFinal,
			Status: StatusFailed,
			Detail: reason,
		})
		r.c.publish(event.NewArtifactFailedEvent(r.id, StageFinal, ArtifactVideo, reason))
		r.logger.Warn("final combination skipped", "reason", reason)
		return
	}

	final, seconds, err := r.c.muxer.Combine(ctx, clips, audio)
	if err != nil {
		stageErr := errors.NewStageError(fmt.Sprintf("final combination failed: %v", err), errors.ErrArtifactGeneration).
			WithArtifact("final")
		r.result.Artifacts = append(r.result.Artifacts, Artifact{
			Kind:   ArtifactVideo,
			Stage:  StageFinal,
			Status: StatusFailed,
			Detail: stageErr.Error(),
		})
		r.c.publish(event.NewArtifactFailedEvent(r.id, StageFinal, ArtifactVideo, stageErr.Error()))
		r.logger.Error("final combination failed", "error", err.Error())
		return
	}

	f := normalizeArtifact(final, ArtifactVideo, StageFinal, seconds)
	r.result.Artifacts = append(r.result.Artifacts, f)
	r.c.publish(event.NewArtifactGeneratedEvent(r.id, StageFinal, ArtifactVideo, f.Handle))
	r.logger.Info("final video combined", "seconds", seconds, "clips", len(clips))
}

// overallStatus grades the run: any failure wins, then any partial, then
// complete. Cancellation overrides everything; a recorded run-level
// failure (planning, validation, budget) grades as failed.
func (r *run) overallStatus() Status {
	if r.cancelled {
		return StatusCancelled
	}
	if r.budgetHit || r.result.FailureReason != "" {
		return StatusFailed
	}

	status := StatusComplete
	downgrade := func(s Status) {
		switch s {
		case StatusFailed:
			status = StatusFailed
		case StatusPartial:
			if status != StatusFailed {
				status = StatusPartial
			}
		}
	}
	for _, p := range r.result.Phases {
		downgrade(p.Status)
	}
	for _, a := range r.result.Artifacts {
		downgrade(a.Status)
	}
	return status
}

// normalizeArtifact stamps coordinator-owned fields onto a collaborator's
// artifact.
func normalizeArtifact(a Artifact, kind string, stage int, seconds float64) Artifact {
	a.Kind = kind
	a.Stage = stage
	a.DurationSeconds = seconds
	a.Status = StatusComplete
	a.Detail = ""
	return a
}
