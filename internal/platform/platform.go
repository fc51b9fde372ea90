package platform

import (
	"sort"
	"strings"

	"github.com/showrunner/showrunner/internal/errors"
)

// Profile describes one target platform's production constraints and
// defaults. Profiles are immutable; Get returns copies of built-in data.
type Profile struct {
	// Name is the canonical identifier used in mission specs.
	Name string `json:"name"`

	// DisplayName is the human-readable platform name.
	DisplayName string `json:"display_name"`

	// MaxDurationSeconds caps mission total duration for this platform.
	MaxDurationSeconds float64 `json:"max_duration_seconds"`

	// DefaultStageCount is used when the mission does not set one.
	DefaultStageCount int `json:"default_stage_count"`

	// DefaultWordRate is the narration pace in words per second, used
	// when the mission does not set one.
	DefaultWordRate float64 `json:"default_word_rate"`

	// AspectRatio is the canonical frame shape for the platform.
	AspectRatio string `json:"aspect_ratio"`
}

// profiles is the built-in platform table, keyed by canonical name.
var profiles = map[string]Profile{
	"youtube_shorts": {
		Name:               "youtube_shorts",
		DisplayName:        "YouTube Shorts",
		MaxDurationSeconds: 180,
		DefaultStageCount:  5,
		DefaultWordRate:    2.6,
		AspectRatio:        "9:16",
	},
	"tiktok": {
		Name:               "tiktok",
		DisplayName:        "TikTok",
		MaxDurationSeconds: 600,
		DefaultStageCount:  5,
		DefaultWordRate:    2.7,
		AspectRatio:        "9:16",
	},
	"instagram_reels": {
		Name:               "instagram_reels",
		DisplayName:        "Instagram Reels",
		MaxDurationSeconds: 90,
		DefaultStageCount:  4,
		DefaultWordRate:    2.6,
		AspectRatio:        "9:16",
	},
	"youtube": {
		Name:               "youtube",
		DisplayName:        "YouTube",
		MaxDurationSeconds: 3600,
		DefaultStageCount:  8,
		DefaultWordRate:    2.4,
		AspectRatio:        "16:9",
	},
}

// Normalize canonicalizes a platform name as it appears in mission specs.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Get returns the profile for a platform name.
func Get(name string) (Profile, error) {
	p, ok := profiles[Normalize(name)]
	if !ok {
		return Profile{}, errors.NewNotFoundError("platform", name)
	}
	return p, nil
}

// IsKnown reports whether a platform name has a profile.
func IsKnown(name string) bool {
	_, ok := profiles[Normalize(name)]
	return ok
}

// Names returns the canonical platform names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every profile, ordered by canonical name.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, name := range Names() {
		out = append(out, profiles[name])
	}
	return out
}
