package offline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/showrunner/showrunner/internal/discussion"
)

var (
	agreeMessages = []string{
		"This direction holds up.",
		"Solid framing, I would ship it.",
		"The approach covers what matters.",
		"Good call, it fits the format.",
	}
	neutralMessages = []string{
		"I want another angle before committing.",
		"Still weighing the options here.",
		"Could go either way at this point.",
	}
	disagreeMessages = []string{
		"The current framing buries the lede.",
		"This reads flat for the format.",
		"The pacing falls apart halfway through.",
	}
)

// Advisor produces deterministic opinions for dry runs. Round one follows
// the participant's style: skeptical participants push back, exploratory
// participants abstain, everyone else agrees. From round two on, everyone
// agrees, so discussions converge within two rounds.
type Advisor struct {
	suite *Suite
}

// Opine implements discussion.Advisor.
func (a *Advisor) Opine(ctx context.Context, req discussion.OpinionRequest) (discussion.Opinion, error) {
	if err := a.suite.wait(ctx); err != nil {
		return discussion.Opinion{}, err
	}

	vote := a.vote(req)
	key := a.decisionKey(req)
	op := discussion.Opinion{
		Participant: req.Participant.ID,
		Round:       req.Round,
		Vote:        vote,
		Rationale:   a.rationale(req),
	}
	switch vote {
	case discussion.StanceAgree:
		op.Message = a.suite.pick(agreeMessages, req.Topic.ID, req.Participant.ID, strconv.Itoa(req.Round))
		if key != "" {
			op.Suggestions = []string{fmt.Sprintf("lock the %s early", key)}
		}
	case discussion.StanceNeutral:
		op.Message = a.suite.pick(neutralMessages, req.Topic.ID, req.Participant.ID, strconv.Itoa(req.Round))
	case discussion.StanceDisagree:
		op.Message = a.suite.pick(disagreeMessages, req.Topic.ID, req.Participant.ID, strconv.Itoa(req.Round))
		if key != "" {
			op.Concerns = []string{fmt.Sprintf("the %s needs another pass", key)}
		}
	}
	return op, nil
}

func (a *Advisor) vote(req discussion.OpinionRequest) discussion.Stance {
	if req.Round <= 1 {
		switch req.Participant.Style {
		case "skeptical":
			return discussion.StanceDisagree
		case "exploratory":
			return discussion.StanceNeutral
		}
	}
	return discussion.StanceAgree
}

func (a *Advisor) decisionKey(req discussion.OpinionRequest) string {
	if len(req.Topic.DecisionKeys) == 0 {
		return ""
	}
	return a.suite.pick(req.Topic.DecisionKeys, "key", req.Topic.ID, req.Participant.ID)
}

func (a *Advisor) rationale(req discussion.OpinionRequest) string {
	if len(req.Participant.Expertise) == 0 {
		return "judged on overall fit"
	}
	return fmt.Sprintf("judged against my %s background", req.Participant.Expertise[0])
}
