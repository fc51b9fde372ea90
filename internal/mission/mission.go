package mission

import (
	"fmt"
	"sort"
	"strings"

	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/platform"
)

// knownPhases mirrors the coordinator's fixed phase order. Kept local so
// mission validation does not depend on the pipeline package.
var knownPhases = []string{"script", "audio", "visual", "platform_fit", "quality"}

// PhaseSettings overrides the discussion parameters of a single phase.
// Zero values defer to the phase topic defaults.
type PhaseSettings struct {
	// Participants lists registry ids that replace the phase's default
	// expertise-based panel.
	Participants []string `yaml:"participants,omitempty" json:"participants,omitempty"`

	// MaxRounds caps discussion rounds for the phase. Zero keeps the
	// phase default.
	MaxRounds int `yaml:"max_rounds,omitempty" json:"max_rounds,omitempty"`

	// MinConsensus sets the consensus threshold for the phase. Zero keeps
	// the phase default.
	MinConsensus float64 `yaml:"min_consensus,omitempty" json:"min_consensus,omitempty"`
}

// Spec describes one production mission: what to make, for which platform,
// and how the run may deviate from the defaults.
type Spec struct {
	// Topic is the subject of the content to produce.
	Topic string `yaml:"topic" json:"topic"`

	// Category loosely classifies the content (education, entertainment,
	// ...). Informational only.
	Category string `yaml:"category,omitempty" json:"category,omitempty"`

	// Platform names the target platform profile.
	Platform string `yaml:"platform" json:"platform"`

	// DurationSeconds is the total target duration. Must be positive and
	// within the platform cap.
	DurationSeconds float64 `yaml:"duration_seconds" json:"duration_seconds"`

	// EnableDiscussion toggles the consensus discussion per phase. Missions
	// that omit the field get discussion enabled.
	EnableDiscussion bool `yaml:"enable_discussion" json:"enable_discussion"`

	// StageCount overrides the platform's default stage count when positive.
	StageCount int `yaml:"stage_count,omitempty" json:"stage_count,omitempty"`

	// WordRate overrides the platform's default words-per-second rate when
	// positive.
	WordRate float64 `yaml:"word_rate,omitempty" json:"word_rate,omitempty"`

	// Tolerance overrides the planner's deviation tolerance when positive.
	Tolerance float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`

	// Continuity marks stages after the first as continuity-dependent in
	// the timeline plan.
	Continuity bool `yaml:"continuity,omitempty" json:"continuity,omitempty"`

	// Phases holds per-phase overrides keyed by phase name.
	Phases map[string]PhaseSettings `yaml:"phases,omitempty" json:"phases,omitempty"`
}

// Defaults returns a Spec with mission-level defaults applied. Discussion
// is on unless the mission turns it off.
func Defaults() *Spec {
	return &Spec{EnableDiscussion: true}
}

// Validate checks that the mission can drive a run. All failures carry
// ErrMissionInvalid.
func (s *Spec) Validate() error {
	if s == nil {
		return errors.NewValidationError("mission is required").
			WithCause(errors.ErrMissionInvalid)
	}
	if strings.TrimSpace(s.Topic) == "" {
		return errors.NewValidationError("mission topic is required").
			WithField("topic").
			WithCause(errors.ErrMissionInvalid)
	}
	if strings.TrimSpace(s.Platform) == "" {
		return errors.NewValidationError("mission platform is required").
			WithField("platform").
			WithCause(errors.ErrMissionInvalid)
	}
	profile, err := platform.Get(s.Platform)
	if err != nil {
		return errors.NewValidationError("unknown platform").
			WithField("platform").
			WithValue(s.Platform).
			WithCause(errors.ErrMissionInvalid)
	}
	if s.DurationSeconds <= 0 {
		return errors.NewValidationError("mission duration must be positive").
			WithField("duration_seconds").
			WithValue(s.DurationSeconds).
			WithCause(errors.ErrMissionInvalid)
	}
	if s.DurationSeconds > profile.MaxDurationSeconds {
		return errors.NewValidationError(fmt.Sprintf("duration exceeds the %s cap of %.0fs", profile.Name, profile.MaxDurationSeconds)).
			WithField("duration_seconds").
			WithValue(s.DurationSeconds).
			WithCause(errors.ErrMissionInvalid)
	}
	if s.StageCount < 0 {
		return errors.NewValidationError("stage count must not be negative").
			WithField("stage_count").
			WithValue(s.StageCount).
			WithCause(errors.ErrMissionInvalid)
	}
	if s.WordRate < 0 {
		return errors.NewValidationError("word rate must not be negative").
			WithField("word_rate").
			WithValue(s.WordRate).
			WithCause(errors.ErrMissionInvalid)
	}
	if s.Tolerance < 0 || s.Tolerance >= 1 {
		return errors.NewValidationError("tolerance must be in [0, 1)").
			WithField("tolerance").
			WithValue(s.Tolerance).
			WithCause(errors.ErrMissionInvalid)
	}
	for _, name := range sortedPhaseNames(s.Phases) {
		settings := s.Phases[name]
		if !isKnownPhase(name) {
			return errors.NewValidationError("unknown phase").
				WithField("phases").
				WithValue(name).
				WithCause(errors.ErrMissionInvalid)
		}
		if settings.MaxRounds < 0 {
			return errors.NewValidationError(fmt.Sprintf("%s max rounds must not be negative", name)).
				WithField("phases").
				WithValue(settings.MaxRounds).
				WithCause(errors.ErrMissionInvalid)
		}
		if settings.MinConsensus < 0 || settings.MinConsensus > 1 {
			return errors.NewValidationError(fmt.Sprintf("%s min consensus must be in [0, 1]", name)).
				WithField("phases").
				WithValue(settings.MinConsensus).
				WithCause(errors.ErrMissionInvalid)
		}
		for _, id := range settings.Participants {
			if strings.TrimSpace(id) == "" {
				return errors.NewValidationError(fmt.Sprintf("%s participants must not contain blank ids", name)).
					WithField("phases").
					WithCause(errors.ErrMissionInvalid)
			}
		}
	}
	return nil
}

// ResolvedStageCount returns the mission's stage count, falling back to the
// platform default when unset.
func (s *Spec) ResolvedStageCount(profile platform.Profile) int {
	if s.StageCount > 0 {
		return s.StageCount
	}
	return profile.DefaultStageCount
}

// ResolvedWordRate returns the mission's word rate, falling back to the
// platform default when unset.
func (s *Spec) ResolvedWordRate(profile platform.Profile) float64 {
	if s.WordRate > 0 {
		return s.WordRate
	}
	return profile.DefaultWordRate
}

// Clone returns a deep copy of the mission.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	out := *s
	if s.Phases != nil {
		out.Phases = make(map[string]PhaseSettings, len(s.Phases))
		for name, settings := range s.Phases {
			settings.Participants = append([]string(nil), settings.Participants...)
			out.Phases[name] = settings
		}
	}
	return &out
}

// SettingsFor returns the overrides for a phase, or the zero value when the
// mission does not configure it. The returned settings are a copy.
func (s *Spec) SettingsFor(phase string) PhaseSettings {
	if s == nil || len(s.Phases) == 0 {
		return PhaseSettings{}
	}
	settings, ok := s.Phases[phase]
	if !ok {
		return PhaseSettings{}
	}
	settings.Participants = append([]string(nil), settings.Participants...)
	return settings
}

// normalize trims free-form fields and canonicalizes platform and phase
// names before validation.
func (s *Spec) normalize() {
	s.Topic = strings.TrimSpace(s.Topic)
	s.Category = strings.TrimSpace(s.Category)
	s.Platform = platform.Normalize(s.Platform)
	if len(s.Phases) == 0 {
		return
	}
	phases := make(map[string]PhaseSettings, len(s.Phases))
	for name, settings := range s.Phases {
		for i, id := range settings.Participants {
			settings.Participants[i] = strings.TrimSpace(id)
		}
		phases[strings.ToLower(strings.TrimSpace(name))] = settings
	}
	s.Phases = phases
}

func isKnownPhase(name string) bool {
	for _, phase := range knownPhases {
		if name == phase {
			return true
		}
	}
	return false
}

func sortedPhaseNames(phases map[string]PhaseSettings) []string {
	if len(phases) == 0 {
		return nil
	}
	names := make([]string, 0, len(phases))
	for name := range phases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
