package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iyngr/ci-mock-sub000/internal/rubric"
)

// DefaultCriterionScore is the "uncertain middle" assigned to a criterion
// the judge did not score or scored with a non-numeric value.
const DefaultCriterionScore = 0.5

// ExtractBreakdown reads the judge's raw object and returns a per-criterion
// score map covering exactly the requested criteria. Missing or non-numeric
// values default to 0.5; everything is clamped to [0,1].
func ExtractBreakdown(raw map[string]any, criteria []string) map[string]float64 {
	scores, _ := raw["scores"].(map[string]any)

	out := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		out[c] = clamp01(numericOr(scores[c], DefaultCriterionScore))
	}
	return out
}

// Rationales reads the judge's per-criterion rationale strings, if any.
func Rationales(raw map[string]any) map[string]string {
	rats, _ := raw["rationales"].(map[string]any)
	if len(rats) == 0 {
		return nil
	}
	out := make(map[string]string, len(rats))
	for k, v := range rats {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// WeightedScore reduces a breakdown to one normalized score: the
// weight-normalized sum over criteria with positive weight. Returns 0.0
// when no positive-weight criterion is present; absence of signal scores
// as zero, never as an error.
func WeightedScore(breakdown, weights map[string]float64) float64 {
	var num, den float64
	for c, score := range breakdown {
		w := weights[c]
		if w <= 0 {
			continue
		}
		num += score * w
		den += w
	}
	if den == 0 {
		return 0.0
	}
	return num / den
}

// BandLabel returns the label of the first band whose inclusive range
// contains pct, or "Unspecified" when none matches.
func BandLabel(pct float64, bands []rubric.Band) string {
	for _, b := range bands {
		if pct >= float64(b.Lo) && pct <= float64(b.Hi) {
			return b.Label
		}
	}
	return "Unspecified"
}

// FormatFeedback renders the consumer-facing feedback line purely from the
// numeric breakdown, so feedback can never contradict the score.
func FormatFeedback(breakdown map[string]float64, r rubric.Rubric) string {
	pct := WeightedScore(breakdown, r.Weights) * 100

	type cs struct {
		name  string
		score float64
	}
	ranked := make([]cs, 0, len(breakdown))
	for c, s := range breakdown {
		ranked = append(ranked, cs{c, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 2 {
		ranked = ranked[:2]
	}
	top := make([]string, len(ranked))
	for i, c := range ranked {
		top[i] = c.name
	}

	return fmt.Sprintf("Overall %.0f%% (%s). Strongest dimensions: %s.",
		pct, BandLabel(pct, r.Bands), strings.Join(top, ", "))
}

func numericOr(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultCriterionScore
	}
	return math.Min(1.0, math.Max(0.0, v))
}
