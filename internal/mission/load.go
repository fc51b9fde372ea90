package mission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a mission file, applies defaults, normalizes it, and validates
// the result. Fields absent from the document keep their defaults, so a
// mission that never mentions enable_discussion runs with discussion on.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mission: read %s: %w", path, err)
	}
	spec := Defaults()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("mission: parse %s: %w", path, err)
	}
	spec.normalize()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("mission: %s: %w", path, err)
	}
	return spec, nil
}
