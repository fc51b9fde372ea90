package offline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/showrunner/showrunner/internal/errors"
	"github.com/showrunner/showrunner/internal/pipeline"
	"github.com/showrunner/showrunner/internal/timeline"
)

// purposeLines opens each stage according to its storytelling role. The
// topic is spliced into the %s slot.
var purposeLines = map[timeline.NarrativePurpose]string{
	timeline.PurposeHookAndSetup:    "Here is the thing nobody tells you about %s.",
	timeline.PurposeContextBuilding: "To see why, start with what %s actually involves.",
	timeline.PurposeMainAction:      "Watch what happens when %s plays out in real time.",
	timeline.PurposeClimaxReveal:    "This is the moment %s pays off.",
	timeline.PurposeConclusionCTA:   "Now you know %s, follow for the next one.",
}

// fillerWords extends narration up to the stage word budget. Entries repeat
// so the padded text stays readable.
var fillerWords = []string{
	"notice", "the", "detail", "that", "carries", "every", "frame",
	"forward", "and", "keep", "your", "eye", "on", "the", "pacing",
	"because", "each", "beat", "sets", "up", "the", "next", "one",
}

// Writer generates deterministic narration sized exactly to the stage's
// word budget.
type Writer struct {
	suite *Suite
}

// Generate implements pipeline.TextGenerator.
func (w *Writer) Generate(ctx context.Context, spec pipeline.StageSpec) (string, error) {
	if err := w.suite.wait(ctx); err != nil {
		return "", err
	}

	budget := spec.Stage.WordBudget
	if budget <= 0 {
		budget = 12
	}

	line, ok := purposeLines[spec.Stage.Purpose]
	if !ok {
		line = "Stay with %s for a moment."
	}
	words := strings.Fields(fmt.Sprintf(line, spec.Topic))
	if len(words) >= budget {
		return strings.Join(words[:budget], " "), nil
	}

	start := int(w.suite.mix("text", spec.Topic, strconv.Itoa(spec.Stage.Index)) % uint64(len(fillerWords)))
	for len(words) < budget {
		words = append(words, fillerWords[(start+len(words))%len(fillerWords)])
	}
	return strings.Join(words, " "), nil
}

// Narrator estimates narration audio. Duration scales the planned stage
// duration by how far the narration is from its word budget, so text at
// budget lands exactly on plan.
type Narrator struct {
	suite *Suite
}

// Synthesize implements pipeline.AudioSynthesizer.
func (n *Narrator) Synthesize(ctx context.Context, text string, spec pipeline.StageSpec) (pipeline.Artifact, float64, error) {
	if err := n.suite.wait(ctx); err != nil {
		return pipeline.Artifact{}, 0, err
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return pipeline.Artifact{}, 0, errors.New("offline: narration is empty")
	}

	seconds := spec.Stage.DurationSeconds
	if spec.Stage.WordBudget > 0 {
		seconds = spec.Stage.DurationSeconds * float64(words) / float64(spec.Stage.WordBudget)
	}
	artifact := pipeline.Artifact{
		Handle: fmt.Sprintf("offline://audio/stage-%d.wav", spec.Stage.Index),
	}
	return artifact, round2(seconds), nil
}

// Renderer produces stage clips with a small deterministic duration jitter
// (at most two percent), well inside the default tolerance.
type Renderer struct {
	suite *Suite
}

// Generate implements pipeline.ClipGenerator.
func (r *Renderer) Generate(ctx context.Context, prompt pipeline.StagePrompt) (pipeline.Artifact, float64, error) {
	if err := r.suite.wait(ctx); err != nil {
		return pipeline.Artifact{}, 0, err
	}

	jitter := int64(r.suite.mix("clip", prompt.Topic, strconv.Itoa(prompt.Stage.Index))%5) - 2
	seconds := prompt.Stage.DurationSeconds * (1 + float64(jitter)/100)
	artifact := pipeline.Artifact{
		Handle: fmt.Sprintf("offline://video/stage-%d.mp4", prompt.Stage.Index),
	}
	return artifact, round2(seconds), nil
}

// Assembler concatenates stage clips into the final video.
type Assembler struct {
	suite *Suite
}

// Combine implements pipeline.Muxer.
func (a *Assembler) Combine(ctx context.Context, clips, audio []pipeline.Artifact) (pipeline.Artifact, float64, error) {
	if err := a.suite.wait(ctx); err != nil {
		return pipeline.Artifact{}, 0, err
	}
	if len(clips) == 0 {
		return pipeline.Artifact{}, 0, errors.New("offline: no clips to combine")
	}

	var total float64
	for _, c := range clips {
		total += c.DurationSeconds
	}
	artifact := pipeline.Artifact{
		Handle: "offline://video/final.mp4",
	}
	return artifact, round2(total), nil
}
