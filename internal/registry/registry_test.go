package registry

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/showrunner/showrunner/internal/errors"
)

func TestDefault(t *testing.T) {
	r := Default()

	if r.Len() != 7 {
		t.Errorf("Len() = %d, want 7", r.Len())
	}

	wantIDs := []string{
		"director",
		"writer",
		"sound-designer",
		"visual-artist",
		"platform-strategist",
		"quality-reviewer",
		"pacing-analyst",
	}
	if got := r.IDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Errorf("IDs() = %v, want %v", got, wantIDs)
	}

	for _, p := range r.All() {
		if err := p.Validate(); err != nil {
			t.Errorf("default participant %q invalid: %v", p.ID, err)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		participants []Participant
		wantErr      bool
		wantSentinel error
	}{
		{
			name: "valid participants",
			participants: []Participant{
				{ID: "writer", Name: "Writer", Expertise: []string{"scriptwriting"}},
				{ID: "director", Name: "Director", Expertise: []string{"narrative"}},
			},
		},
		{
			name:         "empty set",
			participants: nil,
			wantErr:      true,
		},
		{
			name: "duplicate id",
			participants: []Participant{
				{ID: "writer", Name: "Writer", Expertise: []string{"scriptwriting"}},
				{ID: "writer", Name: "Other Writer", Expertise: []string{"dialogue"}},
			},
			wantErr:      true,
			wantSentinel: apperrors.ErrDuplicateParticipant,
		},
		{
			name: "missing id",
			participants: []Participant{
				{Name: "Writer", Expertise: []string{"scriptwriting"}},
			},
			wantErr: true,
		},
		{
			name: "missing name",
			participants: []Participant{
				{ID: "writer", Expertise: []string{"scriptwriting"}},
			},
			wantErr: true,
		},
		{
			name: "no expertise",
			participants: []Participant{
				{ID: "writer", Name: "Writer"},
			},
			wantErr: true,
		},
		{
			name: "blank expertise tag",
			participants: []Participant{
				{ID: "writer", Name: "Writer", Expertise: []string{"scriptwriting", "  "}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.participants)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
					t.Errorf("error %v does not match sentinel %v", err, tt.wantSentinel)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if r.Len() != len(tt.participants) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.participants))
			}
		})
	}
}

func TestNewPreservesOrder(t *testing.T) {
	r, err := New([]Participant{
		{ID: "c", Name: "C", Expertise: []string{"z"}},
		{ID: "a", Name: "A", Expertise: []string{"x"}},
		{ID: "b", Name: "B", Expertise: []string{"y"}},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := []string{"c", "a", "b"}
	if got := r.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	r := Default()

	t.Run("known participant", func(t *testing.T) {
		p, err := r.Get("sound-designer")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if p.Name != "Sound Designer" {
			t.Errorf("Name = %q, want %q", p.Name, "Sound Designer")
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		_, err := r.Get("stunt-coordinator")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, apperrors.ErrParticipantNotFound) {
			t.Errorf("error %v does not match ErrParticipantNotFound", err)
		}
	})
}

func TestImmutability(t *testing.T) {
	r := Default()

	p, err := r.Get("writer")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	p.Expertise[0] = "mutated"
	p.Name = "Mutated"

	again, err := r.Get("writer")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Expertise[0] == "mutated" {
		t.Error("mutating a returned participant leaked into the registry")
	}
	if again.Name != "Writer" {
		t.Errorf("Name = %q, want %q", again.Name, "Writer")
	}

	all := r.All()
	all[0].Expertise[0] = "mutated"
	if r.All()[0].Expertise[0] == "mutated" {
		t.Error("mutating All() results leaked into the registry")
	}
}

func TestSelect(t *testing.T) {
	r := Default()

	t.Run("known ids in requested order", func(t *testing.T) {
		got, err := r.Select("quality-reviewer", "director")
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != "quality-reviewer" || got[1].ID != "director" {
			t.Errorf("Select() = %v, want quality-reviewer then director", ids(got))
		}
	})

	t.Run("unknown id fails whole selection", func(t *testing.T) {
		_, err := r.Select("director", "gaffer")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, apperrors.ErrParticipantNotFound) {
			t.Errorf("error %v does not match ErrParticipantNotFound", err)
		}
	})
}

func TestSelectByExpertise(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		patterns []string
		wantIDs  []string
	}{
		{
			name:     "exact tag",
			patterns: []string{"audio"},
			wantIDs:  []string{"sound-designer"},
		},
		{
			name:     "glob matches prefix",
			patterns: []string{"creative-*"},
			wantIDs:  []string{"director"},
		},
		{
			name:     "multiple patterns union in catalog order",
			patterns: []string{"quality", "narrative"},
			wantIDs:  []string{"director", "quality-reviewer"},
		},
		{
			name:     "shared tag selects all holders",
			patterns: []string{"pacing"},
			wantIDs:  []string{"director", "pacing-analyst"},
		},
		{
			name:     "no match",
			patterns: []string{"catering"},
			wantIDs:  nil,
		},
		{
			name:     "invalid pattern skipped",
			patterns: []string{"[", "visuals"},
			wantIDs:  []string{"visual-artist"},
		},
		{
			name:     "no patterns",
			patterns: nil,
			wantIDs:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(r.SelectByExpertise(tt.patterns...))
			if !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("SelectByExpertise(%v) = %v, want %v", tt.patterns, got, tt.wantIDs)
			}
		})
	}
}

func TestForPhase(t *testing.T) {
	r := Default()

	t.Run("overrides win", func(t *testing.T) {
		got, err := r.ForPhase("audio", []string{"writer", "director"})
		if err != nil {
			t.Fatalf("ForPhase() error = %v", err)
		}
		want := []string{"writer", "director"}
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("ForPhase() = %v, want %v", ids(got), want)
		}
	})

	t.Run("unknown override id fails", func(t *testing.T) {
		_, err := r.ForPhase("audio", []string{"best-boy"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, apperrors.ErrParticipantNotFound) {
			t.Errorf("error %v does not match ErrParticipantNotFound", err)
		}
	})

	t.Run("default panel per phase", func(t *testing.T) {
		tests := []struct {
			phase   string
			wantIDs []string
		}{
			{"script", []string{"director", "writer", "pacing-analyst"}},
			{"audio", []string{"director", "sound-designer"}},
			{"visual", []string{"director", "visual-artist"}},
			{"platform_fit", []string{"platform-strategist", "pacing-analyst"}},
			{"quality", []string{"director", "quality-reviewer"}},
		}
		for _, tt := range tests {
			got, err := r.ForPhase(tt.phase, nil)
			if err != nil {
				t.Fatalf("ForPhase(%q) error = %v", tt.phase, err)
			}
			if !reflect.DeepEqual(ids(got), tt.wantIDs) {
				t.Errorf("ForPhase(%q) = %v, want %v", tt.phase, ids(got), tt.wantIDs)
			}
		}
	})

	t.Run("unknown phase yields empty panel", func(t *testing.T) {
		got, err := r.ForPhase("distribution", nil)
		if err != nil {
			t.Fatalf("ForPhase() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ForPhase() = %v, want empty", ids(got))
		}
	})
}

func TestPhasePatterns(t *testing.T) {
	got := PhasePatterns("script")
	if len(got) == 0 {
		t.Fatal("PhasePatterns(script) is empty")
	}
	got[0] = "mutated"
	if PhasePatterns("script")[0] == "mutated" {
		t.Error("mutating PhasePatterns result leaked into the phase table")
	}

	if got := PhasePatterns("distribution"); len(got) != 0 {
		t.Errorf("PhasePatterns(distribution) = %v, want empty", got)
	}
}

func TestExpertiseTags(t *testing.T) {
	r, err := New([]Participant{
		{ID: "a", Name: "A", Expertise: []string{"pacing", "audio"}},
		{ID: "b", Name: "B", Expertise: []string{"pacing", "color"}},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := []string{"audio", "color", "pacing"}
	if got := r.ExpertiseTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExpertiseTags() = %v, want %v", got, want)
	}
}

func ids(participants []Participant) []string {
	if len(participants) == 0 {
		return nil
	}
	out := make([]string, len(participants))
	for i, p := range participants {
		out[i] = p.ID
	}
	return out
}
