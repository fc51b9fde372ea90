package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a participant catalog.
type catalogFile struct {
	Participants []Participant `yaml:"participants"`
}

// Load reads a participant catalog from a YAML file and builds a registry
// from it. The loaded catalog fully replaces the built-in default.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	if len(cf.Participants) == 0 {
		return nil, fmt.Errorf("registry: %s declares no participants", path)
	}
	normalize(cf.Participants)

	r, err := New(cf.Participants)
	if err != nil {
		return nil, fmt.Errorf("registry: %s: %w", path, err)
	}
	return r, nil
}

// LoadOrDefault loads a catalog when path is non-empty, and falls back to
// the built-in catalog otherwise.
func LoadOrDefault(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

func normalize(participants []Participant) {
	for i := range participants {
		p := &participants[i]
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.Style = strings.TrimSpace(p.Style)
		for j := range p.Expertise {
			p.Expertise[j] = strings.TrimSpace(p.Expertise[j])
		}
	}
}
