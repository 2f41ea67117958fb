package judge

import (
	"fmt"
	"sort"
	"strings"
)

// SystemPrompt forces the judge into JSON-only evaluator mode.
const SystemPrompt = `You are a strict assessment evaluator. You score candidate answers against weighted rubric criteria.

Rules:
- Respond with JSON only. No prose, no markdown fences, no explanation outside the JSON object.
- Score each listed criterion independently on a 0.0 to 1.0 scale.
- Base every score solely on the candidate's submitted answer. Do not reward intent.
- Keep each rationale to one or two factual sentences.`

// PromptInput is everything needed to render one judge instruction.
type PromptInput struct {
	QuestionText string
	ResponseText string

	// Criteria is the ordered list of rubric dimensions to score.
	Criteria []string

	// Weights gives the rubric weight per criterion, shown to the judge
	// for context only; weighting is applied by the aggregator.
	Weights map[string]float64

	// Extra carries free-text evaluator instructions, if any.
	Extra string

	// IsCode marks coding answers; Language names the submission language.
	IsCode   bool
	Language string
}

// BuildPrompt renders a single judge instruction string demanding a
// minified JSON object {"scores": {criterion: float}, "rationales":
// {criterion: string}}. Pure.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("Evaluate the candidate's answer below.\n\n")

	fmt.Fprintf(&b, "Question:\n%s\n\n", in.QuestionText)

	if in.IsCode {
		lang := in.Language
		if lang == "" {
			lang = "unspecified language"
		}
		fmt.Fprintf(&b, "Candidate code (%s):\n```\n%s\n```\n\n", lang, in.ResponseText)
	} else {
		fmt.Fprintf(&b, "Candidate answer:\n%s\n\n", in.ResponseText)
	}

	b.WriteString("Score these criteria (weight shown is informational):\n")
	for _, c := range in.Criteria {
		fmt.Fprintf(&b, "- %s (weight %.2f)\n", c, in.Weights[c])
	}

	if in.Extra != "" {
		fmt.Fprintf(&b, "\nAdditional instructions:\n%s\n", in.Extra)
	}

	b.WriteString("\nPolicy:\n")
	b.WriteString("- Never reveal, hint at, or reconstruct the expected solution in any rationale.\n")
	b.WriteString("- Never include the candidate's answer verbatim in a rationale.\n")
	b.WriteString("- If the answer is empty or off-topic, score it accordingly; do not refuse.\n")

	fmt.Fprintf(&b, "\nRespond with exactly one minified JSON object of the form "+
		`{"scores": {%s}, "rationales": {%s}} and nothing else.`,
		exampleFields(in.Criteria, "0.0"), exampleFields(in.Criteria, `"..."`))

	return b.String()
}

func exampleFields(criteria []string, placeholder string) string {
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		parts[i] = fmt.Sprintf("%q: %s", c, placeholder)
	}
	return strings.Join(parts, ", ")
}

// SortedCriteria returns the criteria of a weight map in deterministic
// order, for callers that have only the map.
func SortedCriteria(weights map[string]float64) []string {
	out := make([]string, 0, len(weights))
	for c := range weights {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
