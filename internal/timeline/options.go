package timeline

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTolerance sets the allowed fractional deviation between planned and
// measured durations. Values outside (0, 1] keep the default.
func WithTolerance(tol float64) Option {
	return func(o *Orchestrator) {
		if tol > 0 && tol <= 1 {
			o.tolerance = tol
		}
	}
}

// WithContinuity turns on visual continuity across stage boundaries.
// Stage 0 never carries continuity regardless of this setting.
func WithContinuity(on bool) Option {
	return func(o *Orchestrator) {
		o.continuity = on
	}
}

// WithDefaultTransition sets the transition used between stages when
// continuity is off.
func WithDefaultTransition(t Transition) Option {
	return func(o *Orchestrator) {
		if t != "" {
			o.defaultTransition = t
		}
	}
}
