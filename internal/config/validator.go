package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "discussion.max_parallel")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Discussion config
	errors = append(errors, c.validateDiscussion()...)

	// Validate Timeline config
	errors = append(errors, c.validateTimeline()...)

	// Validate Registry config
	errors = append(errors, c.validateRegistry()...)

	// Validate Offline config
	errors = append(errors, c.validateOffline()...)

	// Validate Watch config
	errors = append(errors, c.validateWatch()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateDiscussion validates the DiscussionConfig
func (c *Config) validateDiscussion() []ValidationError {
	var errors []ValidationError

	const minMaxParallel = 1
	const maxMaxParallel = 32

	if c.Discussion.MaxParallel < minMaxParallel {
		errors = append(errors, ValidationError{
			Field:   "discussion.max_parallel",
			Value:   c.Discussion.MaxParallel,
			Message: fmt.Sprintf("must be at least %d", minMaxParallel),
		})
	}
	if c.Discussion.MaxParallel > maxMaxParallel {
		errors = append(errors, ValidationError{
			Field:   "discussion.max_parallel",
			Value:   c.Discussion.MaxParallel,
			Message: fmt.Sprintf("exceeds maximum of %d", maxMaxParallel),
		})
	}

	// Call timeout validation
	const maxCallTimeout = 600 // 10 minutes

	if c.Discussion.CallTimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "discussion.call_timeout_seconds",
			Value:   c.Discussion.CallTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Discussion.CallTimeoutSeconds > maxCallTimeout {
		errors = append(errors, ValidationError{
			Field:   "discussion.call_timeout_seconds",
			Value:   c.Discussion.CallTimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxCallTimeout),
		})
	}

	if c.Discussion.RateLimitPerSecond < 0 {
		errors = append(errors, ValidationError{
			Field:   "discussion.rate_limit_per_second",
			Value:   c.Discussion.RateLimitPerSecond,
			Message: "must be non-negative (0 disables rate limiting)",
		})
	}

	return errors
}

// validateTimeline validates the TimelineConfig
func (c *Config) validateTimeline() []ValidationError {
	var errors []ValidationError

	if c.Timeline.Tolerance < 0 {
		errors = append(errors, ValidationError{
			Field:   "timeline.tolerance",
			Value:   c.Timeline.Tolerance,
			Message: "must be non-negative",
		})
	}
	if c.Timeline.Tolerance >= 1 {
		errors = append(errors, ValidationError{
			Field:   "timeline.tolerance",
			Value:   c.Timeline.Tolerance,
			Message: "must be below 1 (a fraction of the planned duration)",
		})
	}

	return errors
}

// validateRegistry validates the RegistryConfig
func (c *Config) validateRegistry() []ValidationError {
	var errors []ValidationError

	// Validate catalog path if specified
	if c.Registry.CatalogPath != "" {
		if strings.ContainsRune(c.Registry.CatalogPath, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "registry.catalog_path",
				Value:   c.Registry.CatalogPath,
				Message: "path contains invalid null character",
			})
		} else if _, err := os.Stat(c.Registry.CatalogPath); err != nil {
			errors = append(errors, ValidationError{
				Field:   "registry.catalog_path",
				Value:   c.Registry.CatalogPath,
				Message: "file does not exist",
			})
		}
	}

	return errors
}

// validateOffline validates the OfflineConfig
func (c *Config) validateOffline() []ValidationError {
	var errors []ValidationError

	if c.Offline.LatencyMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "offline.latency_ms",
			Value:   c.Offline.LatencyMs,
			Message: "must be non-negative (0 disables the delay)",
		})
	}

	return errors
}

// validateWatch validates the WatchConfig
func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	const maxDebounceMs = 10000 // 10 seconds

	if c.Watch.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: "must be non-negative (0 disables debouncing)",
		})
	}
	if c.Watch.DebounceMs > maxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxDebounceMs),
		})
	}

	for i, pattern := range c.Watch.Patterns {
		fieldName := fmt.Sprintf("watch.patterns[%d]", i)

		if strings.TrimSpace(pattern) == "" {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Value:   pattern,
				Message: "pattern cannot be empty",
			})
			continue
		}
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Value:   pattern,
				Message: "not a valid glob pattern",
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
