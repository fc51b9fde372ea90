package discussion

import (
	"time"

	"golang.org/x/time/rate"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMaxParallel caps the number of concurrent advisor calls per round.
// The default is one goroutine per participant. Values below 1 keep the
// default.
func WithMaxParallel(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxParallel = n
		}
	}
}

// WithCallTimeout sets the per-advisor-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithRateLimiter gates advisor dispatch with a shared rate limiter.
// Set this when all advisors draw on one upstream quota.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(e *Engine) {
		e.limiter = l
	}
}
