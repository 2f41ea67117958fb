package rubric

import (
	"github.com/iyngr/ci-mock-sub000/internal/assessment"
)

// Criterion names shared between the rubric, the prompt builder and the
// aggregator. The judge is asked to score exactly these dimensions.
const (
	Communication      = "communication"
	ProblemSolving     = "problemSolving"
	CodingCorrectness  = "codingCorrectness"
	CodingEfficiency   = "codingEfficiency"
	ExplanationQuality = "explanationQuality"
)

// Band maps an inclusive percentage range to a human-readable label.
type Band struct {
	Lo    int    `json:"lo"`
	Hi    int    `json:"hi"`
	Label string `json:"label"`
}

// Rubric is a named weight map plus a band table. Immutable once loaded for
// a scoring run.
type Rubric struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
	Bands   []Band             `json:"bands"`
}

// Default returns the statically embedded rubric used whenever the rubric
// service cannot supply one. Returned by value so callers cannot mutate the
// embedded configuration.
func Default() Rubric {
	return Rubric{
		Name: "default",
		Weights: map[string]float64{
			Communication:      0.2,
			ProblemSolving:     0.3,
			CodingCorrectness:  0.3,
			CodingEfficiency:   0.1,
			ExplanationQuality: 0.1,
		},
		Bands: []Band{
			{Lo: 0, Hi: 39, Label: "Needs Improvement"},
			{Lo: 40, Hi: 59, Label: "Developing"},
			{Lo: 60, Hi: 69, Label: "Competent"},
			{Lo: 70, Hi: 89, Label: "Strong"},
			{Lo: 90, Hi: 100, Label: "Exceptional"},
		},
	}
}

// CriteriaFor returns the ordered criteria the judge scores for a question
// kind. MCQ answers are scored deterministically and have no criteria.
func CriteriaFor(kind assessment.QuestionKind) []string {
	switch kind {
	case assessment.KindDescriptive:
		return []string{Communication, ProblemSolving, ExplanationQuality}
	case assessment.KindCoding:
		return []string{CodingCorrectness, CodingEfficiency, ExplanationQuality}
	case assessment.KindMCQ:
		return nil
	default:
		return nil
	}
}
