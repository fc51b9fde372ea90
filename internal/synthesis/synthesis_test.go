package synthesis

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/showrunner/showrunner/internal/discussion"
)

func sampleTopic() discussion.Topic {
	return discussion.Topic{
		ID:           "topic-1",
		Title:        "Choose the opening hook",
		Context:      map[string]any{"platform": "clipstream", "phase": "script"},
		MaxRounds:    3,
		MinConsensus: 0.7,
	}
}

func sampleOpinions() []discussion.Opinion {
	return []discussion.Opinion{
		{
			Participant: "director",
			Round:       1,
			Message:     "open on the reveal",
			Rationale:   "strong hooks front-load the payoff",
			Suggestions: []string{"open on the reveal", "keep the intro under 3 seconds"},
			Concerns:    []string{"reveal may spoil the ending"},
			Vote:        discussion.StanceAgree,
		},
		{
			Participant: "writer",
			Round:       1,
			Message:     "needs a question hook",
			Rationale:   "questions outperform statements for retention",
			Suggestions: []string{"lead with a question", "keep the intro under 3 seconds"},
			Concerns:    []string{"question hooks are overused"},
			Vote:        discussion.StanceDisagree,
		},
		{
			Participant: "pacing-analyst",
			Round:       2,
			Message:     "open on the reveal works",
			Rationale:   "strong hooks front-load the payoff",
			Suggestions: []string{"open on the reveal"},
			Concerns:    []string{"reveal may spoil the ending"},
			Vote:        discussion.StanceAgree,
		},
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	topic := sampleTopic()
	opinions := sampleOpinions()

	first := Synthesize(topic, opinions)
	second := Synthesize(topic, opinions)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Synthesize is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSynthesize_DeterministicWithFallbacks(t *testing.T) {
	topic := sampleTopic()
	opinions := append(sampleOpinions(), discussion.Opinion{
		Participant: "sound-designer",
		Round:       2,
		Message:     "no opinion recorded",
		Rationale:   "advisor unavailable: advisor call failed",
		Vote:        discussion.StanceNeutral,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Fallback:    true,
	})

	first := Synthesize(topic, opinions)
	second := Synthesize(topic, opinions)
	if !reflect.DeepEqual(first, second) {
		t.Error("Synthesize is not deterministic when fallback opinions are present")
	}
}

func TestSynthesize_Fields(t *testing.T) {
	record := Synthesize(sampleTopic(), sampleOpinions())

	t.Run("recommended actions deduplicated in order", func(t *testing.T) {
		want := []string{"open on the reveal", "keep the intro under 3 seconds", "lead with a question"}
		if !reflect.DeepEqual(record.RecommendedActions, want) {
			t.Errorf("RecommendedActions = %v, want %v", record.RecommendedActions, want)
		}
	})

	t.Run("key considerations deduplicated in order", func(t *testing.T) {
		want := []string{"reveal may spoil the ending", "question hooks are overused"}
		if !reflect.DeepEqual(record.KeyConsiderations, want) {
			t.Errorf("KeyConsiderations = %v, want %v", record.KeyConsiderations, want)
		}
	})

	t.Run("consensus points keep agreeing messages", func(t *testing.T) {
		want := []string{"open on the reveal", "open on the reveal works"}
		if !reflect.DeepEqual(record.ConsensusPoints, want) {
			t.Errorf("ConsensusPoints = %v, want %v", record.ConsensusPoints, want)
		}
	})

	t.Run("final approach built from leading actions", func(t *testing.T) {
		if !strings.HasPrefix(record.FinalApproach, "Synthesized approach: ") {
			t.Errorf("FinalApproach = %q, want an action summary", record.FinalApproach)
		}
		if !strings.Contains(record.FinalApproach, "open on the reveal") {
			t.Errorf("FinalApproach = %q, should contain the first action", record.FinalApproach)
		}
	})

	t.Run("implementation notes reference the platform", func(t *testing.T) {
		found := false
		for _, note := range record.ImplementationNotes {
			if strings.Contains(note, "clipstream") {
				found = true
			}
		}
		if !found {
			t.Errorf("ImplementationNotes = %v, want a clipstream note", record.ImplementationNotes)
		}
	})
}

func TestSynthesize_ApproachLimitsActions(t *testing.T) {
	opinions := []discussion.Opinion{{
		Vote:        discussion.StanceAgree,
		Suggestions: []string{"one", "two", "three", "four", "five", "six"},
	}}
	record := Synthesize(discussion.Topic{ID: "t", Title: "T"}, opinions)

	if strings.Contains(record.FinalApproach, "five") {
		t.Errorf("FinalApproach = %q, should fold in at most four actions", record.FinalApproach)
	}
	if len(record.RecommendedActions) != 6 {
		t.Errorf("RecommendedActions = %v, the full list must still carry every action", record.RecommendedActions)
	}
}

func TestSynthesize_RationaleFallback(t *testing.T) {
	opinions := []discussion.Opinion{
		{Vote: discussion.StanceNeutral, Rationale: ""},
		{Vote: discussion.StanceDisagree, Rationale: "the pacing budget is too tight for a cold open"},
	}
	record := Synthesize(discussion.Topic{ID: "t", Title: "T"}, opinions)

	if !strings.HasPrefix(record.FinalApproach, "Guided by: ") {
		t.Errorf("FinalApproach = %q, want the rationale excerpt fallback", record.FinalApproach)
	}
	if !strings.Contains(record.FinalApproach, "pacing budget") {
		t.Errorf("FinalApproach = %q, should quote the first non-empty rationale", record.FinalApproach)
	}
}

func TestSynthesize_LongRationaleExcerpted(t *testing.T) {
	long := strings.Repeat("pacing ", 60)
	opinions := []discussion.Opinion{{Vote: discussion.StanceNeutral, Rationale: long}}
	record := Synthesize(discussion.Topic{ID: "t", Title: "T"}, opinions)

	if !strings.HasSuffix(record.FinalApproach, "...") {
		t.Errorf("FinalApproach = %q, long rationales should be excerpted", record.FinalApproach)
	}
	if len([]rune(record.FinalApproach)) > len("Guided by: ")+maxExcerptLen+3 {
		t.Errorf("FinalApproach too long: %d runes", len([]rune(record.FinalApproach)))
	}
}

func TestSynthesize_NoOpinions(t *testing.T) {
	record := Synthesize(sampleTopic(), nil)

	if record.FinalApproach != defaultApproach {
		t.Errorf("FinalApproach = %q, want the fixed default", record.FinalApproach)
	}
	if record.KeyConsiderations != nil || record.RecommendedActions != nil || record.ConsensusPoints != nil {
		t.Errorf("zero-opinion record should have no considerations/actions/points: %+v", record)
	}
	if len(record.ImplementationNotes) == 0 {
		t.Error("ImplementationNotes should always carry the fixed guidance")
	}

	again := Synthesize(sampleTopic(), nil)
	if !reflect.DeepEqual(record, again) {
		t.Error("zero-opinion synthesis is not deterministic")
	}
}

func TestSynthesize_NoPlatformNote(t *testing.T) {
	record := Synthesize(discussion.Topic{ID: "t", Title: "T"}, nil)
	for _, note := range record.ImplementationNotes {
		if strings.Contains(note, "constraints on duration") {
			t.Errorf("ImplementationNotes = %v, no platform note expected without a platform context", record.ImplementationNotes)
		}
	}
}

func TestSynthesizerImplementsInterface(t *testing.T) {
	var _ discussion.Synthesizer = New()

	record := New().Synthesize(sampleTopic(), sampleOpinions())
	if record.FinalApproach == "" {
		t.Error("Synthesizer.Synthesize returned an empty approach")
	}
}
