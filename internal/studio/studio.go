package studio

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/showrunner/showrunner/internal/config"
	"github.com/showrunner/showrunner/internal/discussion"
	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/event"
	"github.com/showrunner/showrunner/internal/logging"
	"github.com/showrunner/showrunner/internal/mission"
	"github.com/showrunner/showrunner/internal/offline"
	"github.com/showrunner/showrunner/internal/pipeline"
	"github.com/showrunner/showrunner/internal/registry"
	"github.com/showrunner/showrunner/internal/revision"
	"github.com/showrunner/showrunner/internal/synthesis"
)

// Collaborators bundles the generation backends a Studio drives. Every
// field is required; use Offline for a self-contained set.
type Collaborators struct {
	Advisor discussion.Advisor
	Text    pipeline.TextGenerator
	Audio   pipeline.AudioSynthesizer
	Clips   pipeline.ClipGenerator
	Muxer   pipeline.Muxer
}

// Offline returns Collaborators backed by the deterministic offline suite,
// seeded and delayed per the configuration.
func Offline(cfg config.OfflineConfig) Collaborators {
	opts := []offline.Option{offline.WithSeed(cfg.Seed)}
	if d := cfg.Latency(); d > 0 {
		opts = append(opts, offline.WithLatency(d))
	}
	suite := offline.NewSuite(opts...)
	return Collaborators{
		Advisor: suite.Advisor,
		Text:    suite.Text,
		Audio:   suite.Audio,
		Clips:   suite.Clips,
		Muxer:   suite.Muxer,
	}
}

// Studio owns the long-lived wiring for mission production: logger, event
// bus, participant registry, discussion engine, revision queue, and
// coordinator. One Studio serves many Produce calls.
type Studio struct {
	cfg    *config.Config
	bus    *event.Bus
	logger *logging.Logger
	reg    *registry.Registry
	queue  *revision.Queue
	coord  *pipeline.Coordinator

	// ownLogger records whether Close should close the logger.
	ownLogger bool

	mu        sync.Mutex
	started   bool
	forwardID string
	done      chan struct{}
}

// Option configures optional Studio collaborators.
type Option func(*Studio)

// WithLogger replaces the logger built from configuration. The caller
// keeps ownership: Close will not close an injected logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Studio) {
		if l != nil {
			s.logger = l
			s.ownLogger = false
		}
	}
}

// WithBus replaces the event bus, letting callers attach their own
// subscriptions before any run starts.
func WithBus(b *event.Bus) Option {
	return func(s *Studio) {
		if b != nil {
			s.bus = b
		}
	}
}

// New wires a Studio from configuration and the given collaborators. A nil
// cfg uses defaults.
func New(cfg *config.Config, collab Collaborators, opts ...Option) (*Studio, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if collab.Advisor == nil {
		return nil, errors.New("studio: Advisor collaborator is required")
	}
	if collab.Text == nil {
		return nil, errors.New("studio: Text collaborator is required")
	}
	if collab.Audio == nil {
		return nil, errors.New("studio: Audio collaborator is required")
	}
	if collab.Clips == nil {
		return nil, errors.New("studio: Clips collaborator is required")
	}
	if collab.Muxer == nil {
		return nil, errors.New("studio: Muxer collaborator is required")
	}

	s := &Studio{
		cfg:  cfg,
		bus:  event.NewBus(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		logger, err := buildLogger(cfg.Logging)
		if err != nil {
			return nil, errors.Wrap(err, "studio: build logger")
		}
		s.logger = logger
		s.ownLogger = true
	}

	reg, err := registry.LoadOrDefault(cfg.Registry.CatalogPath)
	if err != nil {
		return nil, errors.Wrap(err, "studio: load participant catalog")
	}
	s.reg = reg

	engineOpts := []discussion.Option{
		discussion.WithMaxParallel(cfg.Discussion.MaxParallel),
		discussion.WithCallTimeout(cfg.Discussion.CallTimeout()),
	}
	if cfg.Discussion.RateLimitPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.Discussion.RateLimitPerSecond), 1)
		engineOpts = append(engineOpts, discussion.WithRateLimiter(limiter))
	}
	engine, err := discussion.New(discussion.Config{
		Advisor:     collab.Advisor,
		Synthesizer: synthesis.New(),
		Bus:         s.bus,
		Logger:      s.logger,
	}, engineOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "studio: build discussion engine")
	}

	s.queue = revision.NewQueue()
	coord, err := pipeline.New(pipeline.Config{
		Registry:    reg,
		Engine:      engine,
		Synthesizer: synthesis.New(),
		Text:        collab.Text,
		Audio:       collab.Audio,
		Clips:       collab.Clips,
		Muxer:       collab.Muxer,
		Revisions:   s.queue,
		Bus:         s.bus,
		Logger:      s.logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "studio: build coordinator")
	}
	s.coord = coord

	return s, nil
}

func buildLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NopLogger(), nil
	}
	level := logging.ParseLevel(cfg.Level)
	if cfg.Dir == "" {
		return logging.NewLogger("", level)
	}
	return logging.NewLoggerWithRotation(cfg.Dir, level, logging.RotationConfig{
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}

// Start attaches the event-log subscription and marks the studio ready.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Studio) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.forwardID = s.bus.SubscribeAll(s.forwardEvent)
	s.mu.Unlock()

	s.logger.Info("studio started")
}

// Stop ends the studio's lifecycle and cancels any in-flight Produce.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Studio) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		// Already stopped
		return
	default:
		close(s.done)
	}
	if s.forwardID != "" {
		s.bus.Unsubscribe(s.forwardID)
		s.forwardID = ""
	}
	s.logger.Info("studio stopped")
}

// Close stops the studio and closes the logger it built. Injected loggers
// stay open for their owners.
func (s *Studio) Close() error {
	s.Stop()
	if s.ownLogger {
		return s.logger.Close()
	}
	return nil
}

// Produce runs one mission through the pipeline. The studio must be
// started; stopping the studio cancels the run and grades it cancelled.
func (s *Studio) Produce(ctx context.Context, m *mission.Spec) (*pipeline.Result, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil, errors.New("studio: not started")
	}
	select {
	case <-s.done:
		return nil, errors.New("studio: stopped")
	default:
	}

	// Missions that leave tolerance unset inherit the configured default.
	if m != nil && m.Tolerance == 0 && s.cfg.Timeline.Tolerance > 0 {
		m = m.Clone()
		m.Tolerance = s.cfg.Timeline.Tolerance
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	return s.coord.Run(ctx, m)
}

func (s *Studio) forwardEvent(e event.Event) {
	s.logger.Debug("bus event", "type", e.EventType())
}

// Bus returns the studio's event bus.
func (s *Studio) Bus() *event.Bus {
	return s.bus
}

// Registry returns the participant registry the studio resolved.
func (s *Studio) Registry() *registry.Registry {
	return s.reg
}

// Revisions returns the studio's revision queue.
func (s *Studio) Revisions() *revision.Queue {
	return s.queue
}
