package timeline

import (
	"math"
	"testing"

	apperrors "github.com/showrunner/showrunner/internal/errors"
)

func stageSum(p *Plan) float64 {
	var sum float64
	for _, s := range p.Stages {
		sum += s.DurationSeconds
	}
	return sum
}

func TestPlan_EvenSplit(t *testing.T) {
	o := New()

	plan, err := o.Plan(60, 5, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.StageCount() != 5 {
		t.Fatalf("StageCount() = %d, want 5", plan.StageCount())
	}
	for i, s := range plan.Stages {
		if s.Index != i {
			t.Errorf("Stages[%d].Index = %d", i, s.Index)
		}
		if s.DurationSeconds != 12 {
			t.Errorf("Stages[%d].DurationSeconds = %v, want 12", i, s.DurationSeconds)
		}
	}
	if got := stageSum(plan); got != 60 {
		t.Errorf("stage durations sum to %v, want 60", got)
	}
}

func TestPlan_FinalStageAbsorbsRemainder(t *testing.T) {
	o := New()

	plan, err := o.Plan(61, 5, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got := stageSum(plan); math.Abs(got-61) > 1e-9 {
		t.Errorf("stage durations sum to %v, want exactly 61", got)
	}
	for i := 0; i < 4; i++ {
		if plan.Stages[i].DurationSeconds != 12.2 {
			t.Errorf("Stages[%d].DurationSeconds = %v, want 12.2", i, plan.Stages[i].DurationSeconds)
		}
	}
}

func TestPlan_ShortFormLayout(t *testing.T) {
	o := New()

	plan, err := o.Plan(30, 3, 2.5)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	wantPurposes := []NarrativePurpose{PurposeHookAndSetup, PurposeMainAction, PurposeConclusionCTA}
	for i, s := range plan.Stages {
		if s.DurationSeconds != 10 {
			t.Errorf("Stages[%d].DurationSeconds = %v, want 10", i, s.DurationSeconds)
		}
		if s.Purpose != wantPurposes[i] {
			t.Errorf("Stages[%d].Purpose = %q, want %q", i, s.Purpose, wantPurposes[i])
		}
		if s.WordBudget != 25 {
			t.Errorf("Stages[%d].WordBudget = %d, want 25 (10s x 2.5 words/s)", i, s.WordBudget)
		}
	}
}

func TestPlan_Validation(t *testing.T) {
	o := New()

	tests := []struct {
		name       string
		total      float64
		stageCount int
		wordRate   float64
	}{
		{name: "zero total", total: 0, stageCount: 3, wordRate: 2},
		{name: "negative total", total: -10, stageCount: 3, wordRate: 2},
		{name: "zero stages", total: 30, stageCount: 0, wordRate: 2},
		{name: "negative word rate", total: 30, stageCount: 3, wordRate: -1},
		{name: "too many stages for the total", total: 0.5, stageCount: 10, wordRate: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Plan(tt.total, tt.stageCount, tt.wordRate)
			if err == nil {
				t.Fatal("Plan() expected error, got nil")
			}
			if !apperrors.Is(err, apperrors.ErrInvalidTopic) {
				t.Errorf("error %v does not match ErrInvalidTopic", err)
			}
		})
	}
}

func TestPlan_NarrativePurposes(t *testing.T) {
	o := New()

	tests := []struct {
		n    int
		want []NarrativePurpose
	}{
		{n: 1, want: []NarrativePurpose{PurposeHookAndSetup}},
		{n: 2, want: []NarrativePurpose{PurposeHookAndSetup, PurposeConclusionCTA}},
		{n: 3, want: []NarrativePurpose{PurposeHookAndSetup, PurposeMainAction, PurposeConclusionCTA}},
		{n: 5, want: []NarrativePurpose{
			PurposeHookAndSetup, PurposeMainAction, PurposeMainAction,
			PurposeClimaxReveal, PurposeConclusionCTA,
		}},
		{n: 6, want: []NarrativePurpose{
			PurposeHookAndSetup, PurposeContextBuilding, PurposeMainAction,
			PurposeMainAction, PurposeClimaxReveal, PurposeConclusionCTA,
		}},
		{n: 7, want: []NarrativePurpose{
			PurposeHookAndSetup, PurposeContextBuilding, PurposeMainAction,
			PurposeMainAction, PurposeClimaxReveal, PurposeClimaxReveal,
			PurposeConclusionCTA,
		}},
	}

	for _, tt := range tests {
		plan, err := o.Plan(float64(tt.n*10), tt.n, 0)
		if err != nil {
			t.Fatalf("Plan(n=%d) error = %v", tt.n, err)
		}
		for i, s := range plan.Stages {
			if s.Purpose != tt.want[i] {
				t.Errorf("n=%d: Stages[%d].Purpose = %q, want %q", tt.n, i, s.Purpose, tt.want[i])
			}
		}
	}
}

func TestPlan_Continuity(t *testing.T) {
	t.Run("off by default", func(t *testing.T) {
		plan, err := New().Plan(30, 3, 0)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		for i, s := range plan.Stages {
			if s.Continuity {
				t.Errorf("Stages[%d].Continuity = true, want false", i)
			}
		}
		if plan.Stages[0].Transition != TransitionCut {
			t.Errorf("Stages[0].Transition = %q, want cut", plan.Stages[0].Transition)
		}
		for _, s := range plan.Stages[1:] {
			if s.Transition != TransitionCrossfade {
				t.Errorf("Stages[%d].Transition = %q, want crossfade", s.Index, s.Transition)
			}
		}
	})

	t.Run("stage zero stays false when enabled", func(t *testing.T) {
		plan, err := New(WithContinuity(true)).Plan(30, 3, 0)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		if plan.Stages[0].Continuity {
			t.Error("Stages[0].Continuity = true, stage 0 never carries continuity")
		}
		if plan.Stages[0].Transition != TransitionCut {
			t.Errorf("Stages[0].Transition = %q, want cut", plan.Stages[0].Transition)
		}
		for _, s := range plan.Stages[1:] {
			if !s.Continuity {
				t.Errorf("Stages[%d].Continuity = false, want true", s.Index)
			}
			if s.Transition != TransitionContinuity {
				t.Errorf("Stages[%d].Transition = %q, want continuity", s.Index, s.Transition)
			}
		}
	})

	t.Run("custom default transition", func(t *testing.T) {
		plan, err := New(WithDefaultTransition(Transition("dissolve"))).Plan(20, 2, 0)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		if got := plan.Stages[1].Transition; got != Transition("dissolve") {
			t.Errorf("Stages[1].Transition = %q, want dissolve", got)
		}
	})
}

func TestValidate_FlagsDeviationBeyondTolerance(t *testing.T) {
	o := New()
	plan, err := o.Plan(16, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// 8s planned, 10s actual: deviation 0.25 > 0.10.
	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: "clip", DurationSeconds: 8},
		{Stage: 1, Kind: "clip", DurationSeconds: 10},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if report.Checks[0].Flagged {
		t.Error("Checks[0].Flagged = true for an exact match")
	}
	c := report.Checks[1]
	if !c.Flagged {
		t.Fatal("Checks[1].Flagged = false, want flagged at 25% deviation")
	}
	if math.Abs(c.Deviation-0.25) > 1e-9 {
		t.Errorf("Checks[1].Deviation = %v, want 0.25", c.Deviation)
	}
	if c.Repair != RepairRegenerate {
		t.Errorf("Checks[1].Repair = %q, media must be regenerated, never stretched", c.Repair)
	}
	if report.Flagged != 1 || report.Repairs != 1 {
		t.Errorf("report counts = %d flagged / %d repairs, want 1/1", report.Flagged, report.Repairs)
	}
}

func TestValidate_BoundaryDeviationPasses(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// Exactly 10% deviation: 10s planned, 11s actual. Flagging requires
	// strictly greater than tolerance.
	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: "clip", DurationSeconds: 11},
		{Stage: 1, Kind: "clip", DurationSeconds: 10},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if report.Checks[0].Flagged {
		t.Error("Checks[0].Flagged = true at exactly the tolerance boundary")
	}
}

func TestValidate_TextRepairs(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 2.5)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	tests := []struct {
		name       string
		actual     Actual
		wantRepair Repair
	}{
		{
			name:       "text over duration truncates",
			actual:     Actual{Stage: 0, Kind: KindText, DurationSeconds: 14},
			wantRepair: RepairTruncate,
		},
		{
			name:       "text under duration pads",
			actual:     Actual{Stage: 0, Kind: KindText, DurationSeconds: 6},
			wantRepair: RepairPad,
		},
		{
			name:       "word count over budget truncates",
			actual:     Actual{Stage: 0, Kind: KindText, DurationSeconds: 10, WordCount: 40},
			wantRepair: RepairTruncate,
		},
		{
			name:       "word count under budget pads",
			actual:     Actual{Stage: 0, Kind: KindText, DurationSeconds: 10, WordCount: 10},
			wantRepair: RepairPad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := o.Validate(plan, []Actual{
				tt.actual,
				{Stage: 1, Kind: KindText, DurationSeconds: 10},
			})
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			c := report.Checks[0]
			if !c.Flagged {
				t.Fatal("Checks[0].Flagged = false, want flagged")
			}
			if c.Repair != tt.wantRepair {
				t.Errorf("Repair = %q, want %q", c.Repair, tt.wantRepair)
			}
			if c.EffectiveSeconds != 10 {
				t.Errorf("EffectiveSeconds = %v, repaired text counts at planned duration", c.EffectiveSeconds)
			}
		})
	}
}

func TestValidate_WordCountWithinToleranceNotFlagged(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 2.5)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// Budget is 25 words; 26 is a 4% deviation.
	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: KindText, DurationSeconds: 10, WordCount: 26},
		{Stage: 1, Kind: KindText, DurationSeconds: 10, WordCount: 25},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if report.Checks[0].Flagged {
		t.Error("Checks[0].Flagged = true for a word deviation within tolerance")
	}
}

func TestValidate_UnmeasuredStageCountsAtPlanned(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: "clip", DurationSeconds: 10},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	c := report.Checks[1]
	if c.Measured {
		t.Error("Checks[1].Measured = true, no actual was reported")
	}
	if c.Flagged {
		t.Error("Checks[1].Flagged = true, unmeasured stages are not flagged")
	}
	if c.EffectiveSeconds != 10 {
		t.Errorf("Checks[1].EffectiveSeconds = %v, want planned 10", c.EffectiveSeconds)
	}
	if report.EffectiveSeconds != 20 {
		t.Errorf("EffectiveSeconds = %v, want 20", report.EffectiveSeconds)
	}
}

func TestValidate_MalformedActuals(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	tests := []struct {
		name    string
		actuals []Actual
	}{
		{
			name:    "unknown stage",
			actuals: []Actual{{Stage: 5, Kind: "clip", DurationSeconds: 10}},
		},
		{
			name:    "negative duration",
			actuals: []Actual{{Stage: 0, Kind: "clip", DurationSeconds: -1}},
		},
		{
			name: "duplicate stage",
			actuals: []Actual{
				{Stage: 0, Kind: "clip", DurationSeconds: 10},
				{Stage: 0, Kind: "clip", DurationSeconds: 11},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := o.Validate(plan, tt.actuals); err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
		})
	}
}

func TestValidate_BudgetExceeded(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// Two clips at 12s each: effective 24s against a 22s budget.
	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: "clip", DurationSeconds: 12},
		{Stage: 1, Kind: "clip", DurationSeconds: 12},
	})
	if err == nil {
		t.Fatal("Validate() expected ErrDurationBudgetExceeded, got nil")
	}
	if !apperrors.Is(err, apperrors.ErrDurationBudgetExceeded) {
		t.Errorf("error %v does not match ErrDurationBudgetExceeded", err)
	}
	if report == nil {
		t.Fatal("Validate() returned a nil report alongside the budget error")
	}
	if report.WithinBudget {
		t.Error("WithinBudget = true on an overrun")
	}
	if report.EffectiveSeconds != 24 {
		t.Errorf("EffectiveSeconds = %v, want 24", report.EffectiveSeconds)
	}
}

func TestValidate_TruncationAvoidsEscalation(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 2.5)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// A wildly long narration gets truncated back to plan, so the
	// effective total stays at 20s and no escalation fires.
	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: KindText, DurationSeconds: 19},
		{Stage: 1, Kind: KindText, DurationSeconds: 10},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !report.WithinBudget {
		t.Error("WithinBudget = false, truncated text should count at planned duration")
	}
	if report.EffectiveSeconds != 20 {
		t.Errorf("EffectiveSeconds = %v, want 20", report.EffectiveSeconds)
	}
}

func TestValidate_TamperedPlanRejected(t *testing.T) {
	o := New()
	plan, err := o.Plan(20, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	tests := []struct {
		name   string
		tamper func(*Plan)
	}{
		{name: "duration changed", tamper: func(p *Plan) { p.Stages[0].DurationSeconds = 15 }},
		{name: "index changed", tamper: func(p *Plan) { p.Stages[1].Index = 7 }},
		{name: "stage zero continuity", tamper: func(p *Plan) { p.Stages[0].Continuity = true }},
		{name: "stages dropped", tamper: func(p *Plan) { p.Stages = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := *plan
			tampered.Stages = append([]Stage(nil), plan.Stages...)
			tt.tamper(&tampered)

			_, err := o.Validate(&tampered, nil)
			if err == nil {
				t.Fatal("Validate() expected error for a tampered plan, got nil")
			}
			if !apperrors.Is(err, apperrors.ErrPlanImmutable) {
				t.Errorf("error %v does not match ErrPlanImmutable", err)
			}
		})
	}
}

func TestValidate_CustomTolerance(t *testing.T) {
	o := New(WithTolerance(0.5))
	plan, err := o.Plan(20, 2, 0)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.Tolerance != 0.5 {
		t.Fatalf("Tolerance = %v, want 0.5 stamped into the plan", plan.Tolerance)
	}

	// 40% deviation passes under a 50% tolerance.
	report, err := o.Validate(plan, []Actual{
		{Stage: 0, Kind: "clip", DurationSeconds: 14},
		{Stage: 1, Kind: "clip", DurationSeconds: 10},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if report.Checks[0].Flagged {
		t.Error("Checks[0].Flagged = true under a widened tolerance")
	}
}
