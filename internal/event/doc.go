// Package event provides a pub-sub event bus for decoupled inter-component
// communication in showrunner.
//
// This package enables loose coupling between the pipeline coordinator, the
// discussion engine, the CLI, and the logging layer by allowing them to
// communicate through events rather than direct method calls. Components can
// publish events without knowing who will receive them, and subscribe to
// events without knowing who will produce them.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// The package defines several categories of events:
//
// Discussion Events:
//   - [DiscussionStartedEvent]: Emitted when a consensus discussion begins
//   - [RoundCompletedEvent]: Emitted after each round of opinion gathering
//   - [AdvisorFallbackEvent]: Emitted when an advisor call fails and a neutral opinion is substituted
//   - [DiscussionCompletedEvent]: Emitted when a discussion finishes
//
// Pipeline Events:
//   - [PipelineStartedEvent]: Emitted when a pipeline run begins
//   - [PhaseStartedEvent]: Emitted when a production phase begins
//   - [PhaseCompletedEvent]: Emitted when a production phase finishes
//   - [PipelineCompletedEvent]: Emitted when a pipeline run finishes
//
// Timeline Events:
//   - [TimelinePlannedEvent]: Emitted when a timeline plan is produced
//   - [TimelineRepairedEvent]: Emitted when synchronization repairs are applied
//
// Artifact Events:
//   - [ArtifactGeneratedEvent]: Emitted when a stage artifact is produced
//   - [ArtifactFailedEvent]: Emitted when a stage artifact fails to generate
//   - [RevisionRequestedEvent]: Emitted when an artifact must be regenerated
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Multiple goroutines can publish
// and subscribe concurrently. Handlers are called synchronously and protected
// against panics - a panicking handler will not prevent other handlers from
// being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to specific event types
//	bus.Subscribe("phase.completed", func(e event.Event) {
//	    completed := e.(event.PhaseCompletedEvent)
//	    log.Printf("Phase %s finished with status %s", completed.Phase, completed.Status)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("Event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	// Publish events
//	bus.Publish(event.NewPhaseStartedEvent("run-1", event.PhaseScript))
//
//	// Unsubscribe when done
//	id := bus.Subscribe("discussion.completed", handler)
//	bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - discussion.started, discussion.round_completed, discussion.completed
//   - advisor.fallback
//   - pipeline.started, pipeline.completed
//   - phase.started, phase.completed
//   - timeline.planned, timeline.repaired
//   - artifact.generated, artifact.failed
//   - revision.requested
package event
