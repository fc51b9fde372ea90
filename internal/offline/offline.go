package offline

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"time"
)

// Suite bundles the offline advisor and collaborators behind one seed, so a
// whole dry run is reproducible from a single number.
type Suite struct {
	seed    uint64
	latency time.Duration

	Advisor *Advisor
	Text    *Writer
	Audio   *Narrator
	Clips   *Renderer
	Muxer   *Assembler
}

// Option configures a Suite.
type Option func(*Suite)

// WithSeed sets the seed all offline outputs derive from. Two suites with
// the same seed produce identical runs.
func WithSeed(seed uint64) Option {
	return func(s *Suite) {
		s.seed = seed
	}
}

// WithLatency makes every offline call take the given time, for exercising
// timeout and cancellation paths. Non-positive values are ignored.
func WithLatency(d time.Duration) Option {
	return func(s *Suite) {
		if d > 0 {
			s.latency = d
		}
	}
}

// NewSuite creates the offline suite.
func NewSuite(opts ...Option) *Suite {
	s := &Suite{seed: 1}
	for _, opt := range opts {
		opt(s)
	}
	s.Advisor = &Advisor{suite: s}
	s.Text = &Writer{suite: s}
	s.Audio = &Narrator{suite: s}
	s.Clips = &Renderer{suite: s}
	s.Muxer = &Assembler{suite: s}
	return s
}

// wait simulates call latency and honors cancellation.
func (s *Suite) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// mix folds the seed and the given parts into one deterministic value.
func (s *Suite) mix(parts ...string) uint64 {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], s.seed)
	h.Write(b[:])
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// pick selects one entry from a bank, keyed by the parts.
func (s *Suite) pick(bank []string, parts ...string) string {
	return bank[s.mix(parts...)%uint64(len(bank))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
