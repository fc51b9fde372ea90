package discussion

import "strings"

// roundConsensus computes the agreement fraction for one round's opinions:
// agree / (agree + disagree). Neutral votes are abstentions and excluded
// from the denominator; a round with no non-neutral votes scores 0.
func roundConsensus(opinions []Opinion) float64 {
	var agree, disagree int
	for _, op := range opinions {
		switch op.Vote {
		case StanceAgree:
			agree++
		case StanceDisagree:
			disagree++
		}
	}
	if agree+disagree == 0 {
		return 0
	}
	return float64(agree) / float64(agree+disagree)
}

// keyInsights collects the distinct non-empty rationales across the whole
// discussion, preserving first-seen order.
func keyInsights(opinions []Opinion) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, op := range opinions {
		r := strings.TrimSpace(op.Rationale)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// alternativeSuggestions collects the distinct suggestions offered by
// opinions that did not vote agree, preserving first-seen order. These are
// the roads not taken, kept for the record.
func alternativeSuggestions(opinions []Opinion) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, op := range opinions {
		if op.Vote == StanceAgree {
			continue
		}
		for _, s := range op.Suggestions {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
