package evaluation

import (
	"time"

	"github.com/iyngr/ci-mock-sub000/internal/scoring"
)

// SchemaVersion is stamped into every persisted evaluation record so later
// readers can migrate old shapes.
const SchemaVersion = 1

// Cost accounts for what one evaluation run consumed.
type Cost struct {
	MCQCount     int     `json:"mcq_count"`
	JudgeCalls   int     `json:"judge_calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	EstimatedUSD float64 `json:"estimated_usd"`
}

// Record is the full evaluation document persisted per run. One submission
// scored twice produces two records with distinct ids.
type Record struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	AssessmentID string    `json:"assessment_id"`
	Method       string    `json:"method"`
	RubricName   string    `json:"rubric_name"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`

	MCQResults []scoring.MCQResult    `json:"mcq_results"`
	LLMResults []scoring.JudgedResult `json:"llm_results"`

	TotalScore       float64 `json:"total_score"`
	MaxPossibleScore float64 `json:"max_possible_score"`
	PercentageScore  float64 `json:"percentage_score"`
	Band             string  `json:"band"`

	// DroppedAnswers counts answers ignored for referencing unknown
	// questions; ExcludedAnswers counts judged answers lost to worker
	// failures and excluded from the denominator.
	DroppedAnswers  int `json:"dropped_answers,omitempty"`
	ExcludedAnswers int `json:"excluded_answers,omitempty"`

	Cost          Cost `json:"cost_breakdown"`
	SchemaVersion int  `json:"schema_version"`
}

// Summary is the compact projection patched onto the submission document.
type Summary struct {
	EvaluationID     string    `json:"evaluation_id"`
	TotalScore       float64   `json:"total_score"`
	MaxPossibleScore float64   `json:"max_possible_score"`
	PercentageScore  float64   `json:"percentage_score"`
	Band             string    `json:"band"`
	MCQCorrect       int       `json:"mcq_correct"`
	MCQTotal         int       `json:"mcq_total"`
	JudgedCount      int       `json:"judged_count"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}

// Result is what a scoring call returns to its caller.
type Result struct {
	SubmissionID     string                 `json:"submission_id"`
	TotalScore       float64                `json:"total_score"`
	MaxPossibleScore float64                `json:"max_possible_score"`
	PercentageScore  float64                `json:"percentage_score"`
	Band             string                 `json:"band"`
	MCQResults       []scoring.MCQResult    `json:"mcq_results"`
	LLMResults       []scoring.JudgedResult `json:"llm_results"`
	EvaluationTime   time.Duration          `json:"evaluation_time"`
	Cost             Cost                   `json:"cost_breakdown"`
}

// summaryOf projects a record into the submission-facing summary.
func summaryOf(rec *Record) Summary {
	correct := 0
	for _, r := range rec.MCQResults {
		if r.Correct {
			correct++
		}
	}
	return Summary{
		EvaluationID:     rec.ID,
		TotalScore:       rec.TotalScore,
		MaxPossibleScore: rec.MaxPossibleScore,
		PercentageScore:  rec.PercentageScore,
		Band:             rec.Band,
		MCQCorrect:       correct,
		MCQTotal:         len(rec.MCQResults),
		JudgedCount:      len(rec.LLMResults),
		EvaluatedAt:      rec.FinishedAt,
	}
}
