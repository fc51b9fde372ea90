package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/showrunner/showrunner/internal/errors"
)

// Participant describes a single advisory voice in the production team.
type Participant struct {
	// ID uniquely identifies the participant within a registry.
	ID string `yaml:"id"`

	// Name is the human-readable name shown in logs and reports.
	Name string `yaml:"name"`

	// Expertise lists the participant's expertise tags. Tags are matched
	// against glob patterns during phase resolution.
	Expertise []string `yaml:"expertise"`

	// Style characterizes how the participant argues (decisive,
	// exploratory, skeptical, ...). Informational only.
	Style string `yaml:"style"`
}

// Validate checks that the participant is well-formed.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.NewValidationError("participant id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewValidationError("participant name is required").WithField("id").WithValue(p.ID)
	}
	if len(p.Expertise) == 0 {
		return errors.NewValidationError("participant must declare at least one expertise tag").WithField("id").WithValue(p.ID)
	}
	for _, tag := range p.Expertise {
		if strings.TrimSpace(tag) == "" {
			return errors.NewValidationError("expertise tags must be non-empty").WithField("id").WithValue(p.ID)
		}
	}
	return nil
}

// Registry is an immutable catalog of participants. All accessors return
// copies; the registry itself never changes after construction.
type Registry struct {
	order        []string
	participants map[string]Participant
}

// New builds a registry from the given participants. Order is preserved.
// Duplicate IDs and malformed participants are rejected.
func New(participants []Participant) (*Registry, error) {
	if len(participants) == 0 {
		return nil, errors.NewValidationError("registry requires at least one participant")
	}
	r := &Registry{
		order:        make([]string, 0, len(participants)),
		participants: make(map[string]Participant, len(participants)),
	}
	for _, p := range participants {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.participants[p.ID]; exists {
			return nil, errors.NewAlreadyExistsError("participant", p.ID)
		}
		p.Expertise = append([]string(nil), p.Expertise...)
		r.order = append(r.order, p.ID)
		r.participants[p.ID] = p
	}
	return r, nil
}

// Default returns the built-in production team catalog.
func Default() *Registry {
	r, err := New(defaultCatalog())
	if err != nil {
		// The built-in catalog is validated by tests; this cannot happen.
		panic(fmt.Sprintf("registry: invalid default catalog: %v", err))
	}
	return r
}

func defaultCatalog() []Participant {
	return []Participant{
		{
			ID:        "director",
			Name:      "Director",
			Expertise: []string{"creative-direction", "narrative", "pacing"},
			Style:     "decisive",
		},
		{
			ID:        "writer",
			Name:      "Writer",
			Expertise: []string{"scriptwriting", "dialogue", "hooks"},
			Style:     "exploratory",
		},
		{
			ID:        "sound-designer",
			Name:      "Sound Designer",
			Expertise: []string{"audio", "voice", "music"},
			Style:     "detail-oriented",
		},
		{
			ID:        "visual-artist",
			Name:      "Visual Artist",
			Expertise: []string{"visuals", "color", "composition"},
			Style:     "expressive",
		},
		{
			ID:        "platform-strategist",
			Name:      "Platform Strategist",
			Expertise: []string{"platforms", "trends", "engagement"},
			Style:     "data-driven",
		},
		{
			ID:        "quality-reviewer",
			Name:      "Quality Reviewer",
			Expertise: []string{"quality", "consistency", "compliance"},
			Style:     "skeptical",
		},
		{
			ID:        "pacing-analyst",
			Name:      "Pacing Analyst",
			Expertise: []string{"pacing", "retention", "structure"},
			Style:     "analytical",
		},
	}
}

// Len reports the number of participants in the registry.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns the participant IDs in catalog order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// All returns every participant in catalog order.
func (r *Registry) All() []Participant {
	out := make([]Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.copyOf(id))
	}
	return out
}

// Get returns the participant with the given ID.
func (r *Registry) Get(id string) (Participant, error) {
	if _, ok := r.participants[id]; !ok {
		return Participant{}, errors.NewNotFoundError("participant", id)
	}
	return r.copyOf(id), nil
}

// Select returns the named participants in the order given. Any unknown ID
// fails the whole selection.
func (r *Registry) Select(ids ...string) ([]Participant, error) {
	out := make([]Participant, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SelectByExpertise returns participants whose expertise tags match any of
// the given glob patterns, in catalog order. Patterns that fail to compile
// are skipped. An empty result is not an error; callers decide whether an
// empty participant set is acceptable.
func (r *Registry) SelectByExpertise(patterns ...string) []Participant {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	var out []Participant
	for _, id := range r.order {
		if r.matchesAny(id, globs) {
			out = append(out, r.copyOf(id))
		}
	}
	return out
}

func (r *Registry) matchesAny(id string, globs []glob.Glob) bool {
	for _, tag := range r.participants[id].Expertise {
		for _, g := range globs {
			if g.Match(tag) {
				return true
			}
		}
	}
	return false
}

// phaseExpertise maps each pipeline phase to the expertise patterns used to
// assemble its default discussion panel.
var phaseExpertise = map[string][]string{
	"script":       {"narrative", "scriptwriting", "hooks", "pacing"},
	"audio":        {"audio", "voice", "music", "creative-direction"},
	"visual":       {"visuals", "color", "composition", "creative-direction"},
	"platform_fit": {"platforms", "trends", "engagement", "retention"},
	"quality":      {"quality", "consistency", "compliance", "creative-direction"},
}

// PhasePatterns returns the default expertise patterns for a phase, or nil
// if the phase has no default panel.
func PhasePatterns(phase string) []string {
	return append([]string(nil), phaseExpertise[phase]...)
}

// ForPhase resolves the participant panel for a phase. Explicit overrides
// (participant IDs from the mission) win; otherwise the phase's default
// expertise patterns select the panel. An empty result is legal here; the
// discussion engine rejects empty panels when a discussion actually starts.
func (r *Registry) ForPhase(phase string, overrides []string) ([]Participant, error) {
	if len(overrides) > 0 {
		return r.Select(overrides...)
	}
	patterns, ok := phaseExpertise[phase]
	if !ok {
		return nil, nil
	}
	return r.SelectByExpertise(patterns...), nil
}

// ExpertiseTags returns the distinct expertise tags across the whole
// registry, sorted. Useful for catalog inspection commands.
func (r *Registry) ExpertiseTags() []string {
	seen := make(map[string]struct{})
	for _, p := range r.participants {
		for _, tag := range p.Expertise {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (r *Registry) copyOf(id string) Participant {
	p := r.participants[id]
	p.Expertise = append([]string(nil), p.Expertise...)
	return p
}
