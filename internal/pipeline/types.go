package pipeline

import (
	"context"
	"time"

	"github.com/showrunner/showrunner/internal/discussion"
	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/mission"
	"github.com/showrunner/showrunner/internal/revision"
	"github.com/showrunner/showrunner/internal/timeline"
)

// PhaseKind identifies one production phase.
type PhaseKind string

const (
	// PhaseScript settles narrative structure, hook, and voice.
	PhaseScript PhaseKind = "script"

	// PhaseAudio settles narration delivery and the music bed.
	PhaseAudio PhaseKind = "audio"

	// PhaseVisual settles the visual treatment across stages.
	PhaseVisual PhaseKind = "visual"

	// PhasePlatformFit tunes the piece for the target platform.
	PhasePlatformFit PhaseKind = "platform_fit"

	// PhaseQuality reviews the assembled direction before generation.
	PhaseQuality PhaseKind = "quality"
)

// String returns the string representation of the phase kind.
func (k PhaseKind) String() string {
	return string(k)
}

// PhaseOrder returns the fixed phase sequence. Phases always run in this
// order; it is a hard invariant of the pipeline.
func PhaseOrder() []PhaseKind {
	return []PhaseKind{PhaseScript, PhaseAudio, PhaseVisual, PhasePlatformFit, PhaseQuality}
}

// phaseIndex returns the position of a phase in the fixed order, or -1.
func phaseIndex(kind PhaseKind) int {
	for i, k := range PhaseOrder() {
		if k == kind {
			return i
		}
	}
	return -1
}

// Status grades a phase, an artifact, or a whole run.
type Status string

const (
	// StatusComplete indicates everything finished as intended.
	StatusComplete Status = "complete"

	// StatusPartial indicates a usable but degraded outcome: a discussion
	// that never reached consensus, or an artifact that needs adjustment.
	StatusPartial Status = "partial"

	// StatusFailed indicates the outcome is missing or unusable.
	StatusFailed Status = "failed"

	// StatusCancelled indicates the run was cut short by context
	// cancellation. Only used for the overall run status.
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// PhaseContext carries decisions from completed phases into later ones.
// It is immutable: With returns a new context and never mutates the
// receiver, so a phase only ever sees what ran before it.
type PhaseContext struct {
	order     []PhaseKind
	decisions map[PhaseKind]discussion.DecisionRecord
}

// With returns a copy of the context with the phase's decision recorded.
// Phases must be recorded in pipeline order; recording a phase at or before
// the last recorded one fails with ErrPhaseOrder.
func (c PhaseContext) With(kind PhaseKind, decision discussion.DecisionRecord) (PhaseContext, error) {
	idx := phaseIndex(kind)
	if idx < 0 {
		return c, errors.Wrapf(errors.ErrPhaseOrder, "pipeline: unknown phase %q", kind)
	}
	if len(c.order) > 0 {
		last := c.order[len(c.order)-1]
		if phaseIndex(last) >= idx {
			return c, errors.Wrapf(errors.ErrPhaseOrder, "pipeline: phase %s recorded after %s", kind, last)
		}
	}

	out := PhaseContext{
		order:     append(append([]PhaseKind(nil), c.order...), kind),
		decisions: make(map[PhaseKind]discussion.DecisionRecord, len(c.decisions)+1),
	}
	for k, d := range c.decisions {
		out.decisions[k] = d
	}
	out.decisions[kind] = decision
	return out, nil
}

// Decision returns the decision recorded for a phase.
func (c PhaseContext) Decision(kind PhaseKind) (discussion.DecisionRecord, bool) {
	d, ok := c.decisions[kind]
	return d, ok
}

// Latest returns the most recently recorded phase and its decision.
func (c PhaseContext) Latest() (PhaseKind, discussion.DecisionRecord, bool) {
	if len(c.order) == 0 {
		return "", discussion.DecisionRecord{}, false
	}
	last := c.order[len(c.order)-1]
	return last, c.decisions[last], true
}

// Recorded returns the phases recorded so far, in order.
func (c PhaseContext) Recorded() []PhaseKind {
	return append([]PhaseKind(nil), c.order...)
}

// Artifact kinds produced by the generation collaborators. ArtifactText
// matches timeline.KindText so narration actuals take the text repair path.
const (
	ArtifactText  = "text"
	ArtifactAudio = "audio"
	ArtifactVideo = "video"
)

// StageFinal is the artifact stage index of the combined final video.
const StageFinal = -1

// Artifact records one generated (or failed) piece of stage content.
type Artifact struct {
	// Kind is the artifact kind: text, audio, or video.
	Kind string `json:"kind"`

	// Stage is the timeline stage index, or StageFinal for the combined
	// video.
	Stage int `json:"stage"`

	// Handle is the collaborator's path or opaque reference to the content.
	Handle string `json:"handle,omitempty"`

	// Content holds narration text inline. Empty for media artifacts.
	Content string `json:"content,omitempty"`

	// DurationSeconds is the measured duration reported by the collaborator.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`

	// WordCount is the narration word count. Zero for media artifacts.
	WordCount int `json:"word_count,omitempty"`

	// Status grades the artifact: complete, partial (needs adjustment), or
	// failed.
	Status Status `json:"status"`

	// Detail carries the failure reason or repair note, if any.
	Detail string `json:"detail,omitempty"`
}

// StageSpec carries what the text and audio collaborators need for one
// stage.
type StageSpec struct {
	Stage    timeline.Stage            `json:"stage"`
	Topic    string                    `json:"topic"`
	Category string                    `json:"category,omitempty"`
	Platform string                    `json:"platform"`
	Decision discussion.DecisionRecord `json:"decision"`
}

// StagePrompt carries what a clip generator needs for one stage's visuals.
type StagePrompt struct {
	Stage       timeline.Stage            `json:"stage"`
	Topic       string                    `json:"topic"`
	Platform    string                    `json:"platform"`
	AspectRatio string                    `json:"aspect_ratio"`
	Narration   string                    `json:"narration"`
	Decision    discussion.DecisionRecord `json:"decision"`
}

// TextGenerator writes stage narration.
type TextGenerator interface {
	Generate(ctx context.Context, spec StageSpec) (string, error)
}

// AudioSynthesizer voices narration and reports the audio duration in
// seconds. The reported duration drives timeline synchronization.
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, text string, spec StageSpec) (Artifact, float64, error)
}

// ClipGenerator produces stage visuals and reports the clip duration in
// seconds.
type ClipGenerator interface {
	Generate(ctx context.Context, prompt StagePrompt) (Artifact, float64, error)
}

// Muxer combines stage clips and audio into the final video.
type Muxer interface {
	Combine(ctx context.Context, clips []Artifact, audio []Artifact) (Artifact, float64, error)
}

// PhaseResult archives one phase's outcome.
type PhaseResult struct {
	Phase          PhaseKind                 `json:"phase"`
	Status         Status                    `json:"status"`
	ConsensusLevel float64                   `json:"consensus_level"`
	TotalRounds    int                       `json:"total_rounds"`
	Participants   []string                  `json:"participants,omitempty"`
	Decision       discussion.DecisionRecord `json:"decision"`
	FailureReason  string                    `json:"failure_reason,omitempty"`
}

// Result is the JSON-serializable record of one pipeline run.
type Result struct {
	RunID         string             `json:"run_id"`
	Mission       *mission.Spec      `json:"mission"`
	Phases        []PhaseResult      `json:"phases"`
	Plan          *timeline.Plan     `json:"plan,omitempty"`
	Report        *timeline.Report   `json:"report,omitempty"`
	Artifacts     []Artifact         `json:"artifacts,omitempty"`
	Revisions     []revision.Request `json:"revisions,omitempty"`
	Status        Status             `json:"status"`
	FailureReason string             `json:"failure_reason,omitempty"`
	StartedAt     time.Time          `json:"started_at"`
	FinishedAt    time.Time          `json:"finished_at"`
}
