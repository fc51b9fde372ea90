// Package event defines event types for decoupling components in showrunner.
// These events enable communication between the pipeline coordinator, discussion
// engine, CLI, and logging without requiring direct dependencies.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "discussion.started", "artifact.generated")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Phase Identifiers
// -----------------------------------------------------------------------------

// Phase identifies a production phase.
// Mirrors pipeline.PhaseKind for decoupling.
type Phase string

const (
	PhaseScript      Phase = "script"
	PhaseAudio       Phase = "audio"
	PhaseVisual      Phase = "visual"
	PhasePlatformFit Phase = "platform_fit"
	PhaseQuality     Phase = "quality"
)

// -----------------------------------------------------------------------------
// Discussion Events
// -----------------------------------------------------------------------------

// DiscussionStartedEvent is emitted when a consensus discussion begins.
type DiscussionStartedEvent struct {
	baseEvent
	TopicID      string // Unique identifier for the discussion topic
	Phase        Phase  // Production phase the discussion belongs to
	Participants int    // Number of participants in the discussion
	MaxRounds    int    // Maximum number of rounds before stopping
}

// NewDiscussionStartedEvent creates a DiscussionStartedEvent.
func NewDiscussionStartedEvent(topicID string, phase Phase, participants, maxRounds int) DiscussionStartedEvent {
	return DiscussionStartedEvent{
		baseEvent:    newBaseEvent("discussion.started"),
		TopicID:      topicID,
		Phase:        phase,
		Participants: participants,
		MaxRounds:    maxRounds,
	}
}

// RoundCompletedEvent is emitted after each discussion round, once all
// opinions for the round have been collected and consensus computed.
type RoundCompletedEvent struct {
	baseEvent
	TopicID   string  // Topic being discussed
	Round     int     // Round number (1-based)
	Consensus float64 // Agreement fraction for this round (0.0 to 1.0)
}

// NewRoundCompletedEvent creates a RoundCompletedEvent.
func NewRoundCompletedEvent(topicID string, round int, consensus float64) RoundCompletedEvent {
	return RoundCompletedEvent{
		baseEvent: newBaseEvent("discussion.round_completed"),
		TopicID:   topicID,
		Round:     round,
		Consensus: consensus,
	}
}

// AdvisorFallbackEvent is emitted when an advisor call fails or times out
// and a synthetic neutral opinion is substituted for the round.
type AdvisorFallbackEvent struct {
	baseEvent
	TopicID     string // Topic being discussed
	Participant string // Participant whose advisor call failed
	Round       int    // Round in which the failure occurred
	Reason      string // Why the fallback was used (error message)
}

// NewAdvisorFallbackEvent creates an AdvisorFallbackEvent.
func NewAdvisorFallbackEvent(topicID, participant string, round int, reason string) AdvisorFallbackEvent {
	return AdvisorFallbackEvent{
		baseEvent:   newBaseEvent("advisor.fallback"),
		TopicID:     topicID,
		Participant: participant,
		Round:       round,
		Reason:      reason,
	}
}

// DiscussionCompletedEvent is emitted when a discussion finishes,
// whether by reaching consensus, exhausting rounds, or cancellation.
type DiscussionCompletedEvent struct {
	baseEvent
	TopicID   string  // Topic that was discussed
	Status    string  // Final status: consensus_reached, partial, or cancelled
	Rounds    int     // Total rounds executed
	Consensus float64 // Final consensus level reached
}

// NewDiscussionCompletedEvent creates a DiscussionCompletedEvent.
func NewDiscussionCompletedEvent(topicID, status string, rounds int, consensus float64) DiscussionCompletedEvent {
	return DiscussionCompletedEvent{
		baseEvent: newBaseEvent("discussion.completed"),
		TopicID:   topicID,
		Status:    status,
		Rounds:    rounds,
		Consensus: consensus,
	}
}

// -----------------------------------------------------------------------------
// Pipeline Events
// -----------------------------------------------------------------------------

// PipelineStartedEvent is emitted when a pipeline run begins.
type PipelineStartedEvent struct {
	baseEvent
	RunID    string // Unique identifier for the run
	Title    string // Mission title
	Platform string // Target platform (e.g., "youtube", "tiktok")
}

// NewPipelineStartedEvent creates a PipelineStartedEvent.
func NewPipelineStartedEvent(runID, title, platform string) PipelineStartedEvent {
	return PipelineStartedEvent{
		baseEvent: newBaseEvent("pipeline.started"),
		RunID:     runID,
		Title:     title,
		Platform:  platform,
	}
}

// PhaseStartedEvent is emitted when a production phase begins.
type PhaseStartedEvent struct {
	baseEvent
	RunID string // Run this phase belongs to
	Phase Phase  // Phase that is starting
}

// NewPhaseStartedEvent creates a PhaseStartedEvent.
func NewPhaseStartedEvent(runID string, phase Phase) PhaseStartedEvent {
	return PhaseStartedEvent{
		baseEvent: newBaseEvent("phase.started"),
		RunID:     runID,
		Phase:     phase,
	}
}

// PhaseCompletedEvent is emitted when a production phase finishes.
type PhaseCompletedEvent struct {
	baseEvent
	RunID     string  // Run this phase belongs to
	Phase     Phase   // Phase that finished
	Status    string  // Phase outcome: complete, partial, or failed
	Consensus float64 // Final consensus level of the phase discussion
	Rounds    int     // Total discussion rounds executed
}

// NewPhaseCompletedEvent creates a PhaseCompletedEvent.
func NewPhaseCompletedEvent(runID string, phase Phase, status string, consensus float64, rounds int) PhaseCompletedEvent {
	return PhaseCompletedEvent{
		baseEvent: newBaseEvent("phase.completed"),
		RunID:     runID,
		Phase:     phase,
		Status:    status,
		Consensus: consensus,
		Rounds:    rounds,
	}
}

// PipelineCompletedEvent is emitted when a pipeline run finishes.
type PipelineCompletedEvent struct {
	baseEvent
	RunID    string // Run that finished
	Status   string // Overall outcome: complete, partial, failed, or cancelled
	Duration string // Wall-clock duration of the run
}

// NewPipelineCompletedEvent creates a PipelineCompletedEvent.
func NewPipelineCompletedEvent(runID, status, duration string) PipelineCompletedEvent {
	return PipelineCompletedEvent{
		baseEvent: newBaseEvent("pipeline.completed"),
		RunID:     runID,
		Status:    status,
		Duration:  duration,
	}
}

// -----------------------------------------------------------------------------
// Timeline Events
// -----------------------------------------------------------------------------

// TimelinePlannedEvent is emitted when a timeline plan is produced.
type TimelinePlannedEvent struct {
	baseEvent
	RunID        string  // Run the plan belongs to
	StageCount   int     // Number of stages in the plan
	TotalSeconds float64 // Total planned duration in seconds
}

// NewTimelinePlannedEvent creates a TimelinePlannedEvent.
func NewTimelinePlannedEvent(runID string, stageCount int, totalSeconds float64) TimelinePlannedEvent {
	return TimelinePlannedEvent{
		baseEvent:    newBaseEvent("timeline.planned"),
		RunID:        runID,
		StageCount:   stageCount,
		TotalSeconds: totalSeconds,
	}
}

// TimelineRepairedEvent is emitted after synchronization validation when
// one or more repairs were applied to bring stages back within tolerance.
type TimelineRepairedEvent struct {
	baseEvent
	RunID   string // Run the plan belongs to
	Repairs int    // Number of repair actions applied
	Status  string // Report status after repair
}

// NewTimelineRepairedEvent creates a TimelineRepairedEvent.
func NewTimelineRepairedEvent(runID string, repairs int, status string) TimelineRepairedEvent {
	return TimelineRepairedEvent{
		baseEvent: newBaseEvent("timeline.repaired"),
		RunID:     runID,
		Repairs:   repairs,
		Status:    status,
	}
}

// -----------------------------------------------------------------------------
// Artifact Events
// -----------------------------------------------------------------------------

// ArtifactGeneratedEvent is emitted when a generation collaborator produces
// an artifact for a timeline stage.
type ArtifactGeneratedEvent struct {
	baseEvent
	RunID string // Run the artifact belongs to
	Stage int    // Stage index the artifact was generated for
	Kind  string // Artifact kind (e.g., "narration", "audio", "clip", "video")
	Path  string // Handle or path to the artifact
}

// NewArtifactGeneratedEvent creates an ArtifactGeneratedEvent.
func NewArtifactGeneratedEvent(runID string, stage int, kind, path string) ArtifactGeneratedEvent {
	return ArtifactGeneratedEvent{
		baseEvent: newBaseEvent("artifact.generated"),
		RunID:     runID,
		Stage:     stage,
		Kind:      kind,
		Path:      path,
	}
}

// ArtifactFailedEvent is emitted when a generation collaborator fails to
// produce an artifact. The pipeline records the failure and continues.
type ArtifactFailedEvent struct {
	baseEvent
	RunID  string // Run the artifact belongs to
	Stage  int    // Stage index the artifact was requested for
	Kind   string // Artifact kind that failed
	Reason string // Error message from the collaborator
}

// NewArtifactFailedEvent creates an ArtifactFailedEvent.
func NewArtifactFailedEvent(runID string, stage int, kind, reason string) ArtifactFailedEvent {
	return ArtifactFailedEvent{
		baseEvent: newBaseEvent("artifact.failed"),
		RunID:     runID,
		Stage:     stage,
		Kind:      kind,
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Revision Events
// -----------------------------------------------------------------------------

// RevisionRequestedEvent is emitted when timeline repair determines that an
// artifact must be regenerated rather than adjusted in place.
type RevisionRequestedEvent struct {
	baseEvent
	RunID  string // Run the revision belongs to
	Stage  int    // Stage index requiring regeneration
	Kind   string // Artifact kind to regenerate
	Reason string // Why regeneration is needed (e.g., duration deviation)
}

// NewRevisionRequestedEvent creates a RevisionRequestedEvent.
func NewRevisionRequestedEvent(runID string, stage int, kind, reason string) RevisionRequestedEvent {
	return RevisionRequestedEvent{
		baseEvent: newBaseEvent("revision.requested"),
		RunID:     runID,
		Stage:     stage,
		Kind:      kind,
		Reason:    reason,
	}
}
