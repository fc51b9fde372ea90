// Package errors provides centralized error definitions and error handling utilities
// for the showrunner codebase. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - DiscussionError: errors related to consensus discussions
//   - AdvisorCallError: errors from a single advisor call (timeout or failure)
//   - PipelineError: errors related to pipeline phase execution
//   - StageError: errors related to one timeline stage or its artifact
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - AlreadyExistsError: resource already exists
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewDiscussionError("round dispatch failed", errors.ErrAdvisorFailure)
//
//	// Semantic error
//	err := errors.NewNotFoundError("participant", "sound_designer")
//
//	// With context wrapping
//	err := errors.NewAdvisorCallError("call timed out", baseErr).WithParticipant("director").WithRound(2)
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrInvalidTopic) { ... }
//
//	// Check for error types
//	var callErr *errors.AdvisorCallError
//	if errors.As(err, &callErr) { ... }
//
//	// Use classification helpers
//	if errors.IsRetryable(err) { ... }
//	if errors.IsFatal(err) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Retryable: transient errors that may succeed on retry
//   - Fatal: precondition violations that abort a phase before any round runs
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Discussion-related sentinel errors
var (
	// ErrInvalidTopic indicates a topic that fails validation (bad round budget,
	// out-of-range consensus threshold, or a non-positive duration budget).
	ErrInvalidTopic = New("invalid topic")
	// ErrEmptyParticipantSet indicates that a discussion was requested with no participants.
	ErrEmptyParticipantSet = New("empty participant set")
	// ErrDiscussionActive indicates that a discussion is still running.
	ErrDiscussionActive = New("discussion still active")
)

// Advisor-related sentinel errors
var (
	// ErrAdvisorTimeout indicates that an advisor call exceeded its deadline.
	ErrAdvisorTimeout = New("advisor call timed out")
	// ErrAdvisorFailure indicates that an advisor call returned an error.
	ErrAdvisorFailure = New("advisor call failed")
	// ErrMalformedOpinion indicates that an advisor returned an unusable opinion.
	ErrMalformedOpinion = New("malformed advisor opinion")
)

// Timeline-related sentinel errors
var (
	// ErrDurationBudgetExceeded indicates that actual durations overran the
	// planned total beyond tolerance and no repair could close the gap.
	ErrDurationBudgetExceeded = New("duration budget exceeded")
	// ErrPlanImmutable indicates an attempt to modify a finalized timeline plan.
	ErrPlanImmutable = New("timeline plan is immutable")
)

// Pipeline-related sentinel errors
var (
	// ErrArtifactGeneration indicates that a generation collaborator failed
	// to produce an artifact.
	ErrArtifactGeneration = New("artifact generation failed")
	// ErrPhaseOrder indicates that phases were invoked out of their fixed order.
	ErrPhaseOrder = New("phase out of order")
	// ErrMissionInvalid indicates that a mission spec failed validation.
	ErrMissionInvalid = New("mission spec is invalid")
)

// Registry-related sentinel errors
var (
	// ErrParticipantNotFound indicates that a participant id is not in the registry.
	ErrParticipantNotFound = New("participant not found")
	// ErrDuplicateParticipant indicates that a catalog declares the same id twice.
	ErrDuplicateParticipant = New("duplicate participant id")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrOperationFailed indicates a general operation failure.
	ErrOperationFailed = New("operation failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ShowrunnerError is the base interface for all showrunner errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type ShowrunnerError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// DiscussionError represents errors related to consensus discussions.
//
// Example:
//
//	err := errors.NewDiscussionError("topic rejected", errors.ErrInvalidTopic)
//	err = err.WithTopicID("script-approach").WithPhase("script")
//	fmt.Println(err) // "discussion error [topic=script-approach, phase=script]: topic rejected: invalid topic"
type DiscussionError struct {
	baseError
	TopicID string
	Phase   string
	Round   int
}

// NewDiscussionError creates a new DiscussionError.
func NewDiscussionError(message string, cause error) *DiscussionError {
	return &DiscussionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Round: -1, // -1 indicates not set
	}
}

// WithTopicID adds a topic ID to the error context.
func (e *DiscussionError) WithTopicID(id string) *DiscussionError {
	e.TopicID = id
	return e
}

// WithPhase adds a phase name to the error context.
func (e *DiscussionError) WithPhase(phase string) *DiscussionError {
	e.Phase = phase
	return e
}

// WithRound adds a round number to the error context.
func (e *DiscussionError) WithRound(round int) *DiscussionError {
	e.Round = round
	return e
}

// WithSeverity sets the error severity.
func (e *DiscussionError) WithSeverity(s Severity) *DiscussionError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *DiscussionError) WithRetryable(r bool) *DiscussionError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *DiscussionError) Error() string {
	var parts []string
	if e.TopicID != "" {
		parts = append(parts, fmt.Sprintf("topic=%s", e.TopicID))
	}
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.Phase))
	}
	if e.Round >= 0 {
		parts = append(parts, fmt.Sprintf("round=%d", e.Round))
	}

	prefix := "discussion error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("discussion error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *DiscussionError) Is(target error) bool {
	if _, ok := target.(*DiscussionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// AdvisorCallError represents a failed call to one participant's advisor.
// The engine converts these into fallback neutral opinions; they surface in
// logs and events, never as a round abort.
//
// Example:
//
//	err := errors.NewAdvisorCallError("no response", ctx.Err())
//	err = err.WithParticipant("director").WithRound(2).WithTimeout(30 * time.Second)
type AdvisorCallError struct {
	baseError
	Participant string
	Round       int
	Timeout     time.Duration // zero when the call failed rather than timed out
}

// NewAdvisorCallError creates a new AdvisorCallError.
func NewAdvisorCallError(message string, cause error) *AdvisorCallError {
	return &AdvisorCallError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Round: -1,
	}
}

// WithParticipant adds a participant id to the error context.
func (e *AdvisorCallError) WithParticipant(id string) *AdvisorCallError {
	e.Participant = id
	return e
}

// WithRound adds a round number to the error context.
func (e *AdvisorCallError) WithRound(round int) *AdvisorCallError {
	e.Round = round
	return e
}

// WithTimeout marks the call as timed out after the given duration.
func (e *AdvisorCallError) WithTimeout(d time.Duration) *AdvisorCallError {
	e.Timeout = d
	return e
}

// TimedOut reports whether the call failed by exceeding its deadline.
func (e *AdvisorCallError) TimedOut() bool {
	return e.Timeout > 0
}

// Error returns the formatted error message.
func (e *AdvisorCallError) Error() string {
	var parts []string
	if e.Participant != "" {
		parts = append(parts, fmt.Sprintf("participant=%s", e.Participant))
	}
	if e.Round >= 0 {
		parts = append(parts, fmt.Sprintf("round=%d", e.Round))
	}
	if e.Timeout > 0 {
		parts = append(parts, fmt.Sprintf("timeout=%s", e.Timeout))
	}

	prefix := "advisor error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("advisor error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *AdvisorCallError) Is(target error) bool {
	if _, ok := target.(*AdvisorCallError); ok {
		return true
	}
	if e.TimedOut() && errors.Is(target, ErrAdvisorTimeout) {
		return true
	}
	if !e.TimedOut() && errors.Is(target, ErrAdvisorFailure) {
		return true
	}
	return e.baseError.Is(target)
}

// PipelineError represents errors related to pipeline phase execution.
//
// Example:
//
//	err := errors.NewPipelineError("phase failed", errors.ErrEmptyParticipantSet)
//	err = err.WithRunID("run-1").WithPhase("visual")
type PipelineError struct {
	baseError
	RunID string
	Phase string
	Stage int
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(message string, cause error) *PipelineError {
	return &PipelineError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Stage: -1, // -1 indicates not set
	}
}

// WithRunID adds a pipeline run ID to the error context.
func (e *PipelineError) WithRunID(id string) *PipelineError {
	e.RunID = id
	return e
}

// WithPhase adds a phase name to the error context.
func (e *PipelineError) WithPhase(phase string) *PipelineError {
	e.Phase = phase
	return e
}

// WithStage adds a timeline stage index to the error context.
func (e *PipelineError) WithStage(stage int) *PipelineError {
	e.Stage = stage
	return e
}

// WithSeverity sets the error severity.
func (e *PipelineError) WithSeverity(s Severity) *PipelineError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *PipelineError) WithRetryable(r bool) *PipelineError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *PipelineError) Error() string {
	var parts []string
	if e.RunID != "" {
		parts = append(parts, fmt.Sprintf("run=%s", e.RunID))
	}
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.Phase))
	}
	if e.Stage >= 0 {
		parts = append(parts, fmt.Sprintf("stage=%d", e.Stage))
	}

	prefix := "pipeline error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("pipeline error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PipelineError) Is(target error) bool {
	if _, ok := target.(*PipelineError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// StageError represents errors related to one timeline stage or its artifact.
//
// Example:
//
//	err := errors.NewStageError("clip render failed", renderErr)
//	err = err.WithStage(3).WithArtifact("clip")
type StageError struct {
	baseError
	Stage    int
	Artifact string // text, audio, clip, final
}

// NewStageError creates a new StageError.
func NewStageError(message string, cause error) *StageError {
	return &StageError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Stage: -1,
	}
}

// WithStage adds a stage index to the error context.
func (e *StageError) WithStage(stage int) *StageError {
	e.Stage = stage
	return e
}

// WithArtifact adds an artifact kind to the error context.
func (e *StageError) WithArtifact(kind string) *StageError {
	e.Artifact = kind
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *StageError) WithRetryable(r bool) *StageError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *StageError) Error() string {
	var parts []string
	if e.Stage >= 0 {
		parts = append(parts, fmt.Sprintf("stage=%d", e.Stage))
	}
	if e.Artifact != "" {
		parts = append(parts, fmt.Sprintf("artifact=%s", e.Artifact))
	}

	prefix := "stage error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("stage error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StageError) Is(target error) bool {
	if _, ok := target.(*StageError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("participant", "pacing_analyst")
//	fmt.Println(err) // "participant 'pacing_analyst' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if e.ResourceType == "participant" && errors.Is(target, ErrParticipantNotFound) {
		return true
	}
	return e.baseError.Is(target)
}

// AlreadyExistsError represents a resource that already exists.
//
// Example:
//
//	err := errors.NewAlreadyExistsError("participant", "director")
//	fmt.Println(err) // "participant 'director' already exists"
type AlreadyExistsError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewAlreadyExistsError creates a new AlreadyExistsError.
func NewAlreadyExistsError(resourceType, resourceID string) *AlreadyExistsError {
	return &AlreadyExistsError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' already exists", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *AlreadyExistsError) WithCause(cause error) *AlreadyExistsError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *AlreadyExistsError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' already exists: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' already exists", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *AlreadyExistsError) Is(target error) bool {
	if _, ok := target.(*AlreadyExistsError); ok {
		return true
	}
	if e.ResourceType == "participant" && errors.Is(target, ErrDuplicateParticipant) {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("max rounds must be at least 1")
//	err = err.WithField("max_rounds").WithValue(0)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("waiting for advisor opinion", 30*time.Second)
//	fmt.Println(err) // "timeout error: waiting for advisor opinion (timeout: 30s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true, // Timeouts are generally retryable
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// WithRetryable sets whether the error is retryable (default true for timeouts).
func (e *TimeoutError) WithRetryable(r bool) *TimeoutError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Precondition Constructors
// -----------------------------------------------------------------------------

// NewInvalidTopicError creates a ValidationError that matches ErrInvalidTopic.
// Used for bad round budgets, out-of-range consensus thresholds, and
// non-positive duration budgets.
func NewInvalidTopicError(message string) *ValidationError {
	v := NewValidationError(message)
	v.cause = ErrInvalidTopic
	return v
}

// NewEmptyParticipantSetError creates a ValidationError that matches
// ErrEmptyParticipantSet.
func NewEmptyParticipantSetError(message string) *ValidationError {
	v := NewValidationError(message)
	v.cause = ErrEmptyParticipantSet
	return v
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. This checks for:
//   - Errors implementing ShowrunnerError with IsRetryable() returning true
//   - TimeoutError instances
//   - Errors wrapping ErrTimeout, ErrAdvisorTimeout, or ErrAdvisorFailure
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    time.Sleep(backoff)
//	    return retry(operation)
//	}
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements ShowrunnerError
	var srErr ShowrunnerError
	if As(err, &srErr) {
		return srErr.IsRetryable()
	}

	// Check for known retryable sentinel errors
	if Is(err, ErrTimeout) || Is(err, ErrAdvisorTimeout) || Is(err, ErrAdvisorFailure) {
		return true
	}

	return false
}

// IsFatal returns true if the error is a phase-start precondition violation.
// Fatal errors abort the phase before any discussion round runs; everything
// else degrades per the soft-failure policy.
//
// Example:
//
//	if errors.IsFatal(err) {
//	    markPhaseAndDownstreamFailed(err)
//	}
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrInvalidTopic) || Is(err, ErrEmptyParticipantSet) || Is(err, ErrMissionInvalid)
}

// IsUserFacing returns true if the error message is safe to display to end users.
// This checks for:
//   - Errors implementing ShowrunnerError with IsUserFacing() returning true
//   - Semantic errors (NotFoundError, AlreadyExistsError, ValidationError, TimeoutError)
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements ShowrunnerError
	var srErr ShowrunnerError
	if As(err, &srErr) {
		return srErr.IsUserFacing()
	}

	// Semantic errors are always user-facing
	var notFound *NotFoundError
	var alreadyExists *AlreadyExistsError
	var validation *ValidationError
	var timeout *TimeoutError

	if As(err, &notFound) || As(err, &alreadyExists) ||
		As(err, &validation) || As(err, &timeout) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ShowrunnerError.
//
// Example:
//
//	switch errors.GetSeverity(err) {
//	case errors.SeverityCritical:
//	    alertOnCall(err)
//	case errors.SeverityError:
//	    log.Error("error occurred", "err", err)
//	case errors.SeverityWarning:
//	    log.Warn("warning", "err", err)
//	}
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	// Check if error implements ShowrunnerError
	var srErr ShowrunnerError
	if As(err, &srErr) {
		return srErr.Severity()
	}

	// Default to Error severity for unknown errors
	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (DiscussionError, AdvisorCallError, PipelineError, or StageError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var discussionErr *DiscussionError
	var advisorErr *AdvisorCallError
	var pipelineErr *PipelineError
	var stageErr *StageError

	return As(err, &discussionErr) || As(err, &advisorErr) ||
		As(err, &pipelineErr) || As(err, &stageErr)
}

// IsSemanticError returns true if the error is a semantic error
// (NotFoundError, AlreadyExistsError, ValidationError, or TimeoutError).
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var alreadyExists *AlreadyExistsError
	var validation *ValidationError
	var timeout *TimeoutError

	return As(err, &notFound) || As(err, &alreadyExists) ||
		As(err, &validation) || As(err, &timeout)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this preserves the ShowrunnerError interface.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to resolve participants")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to run phase %s", phase)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
