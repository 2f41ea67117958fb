package assessment

import "encoding/json"

// QuestionKind is the closed set of question variants the engine scores.
// The categorizer and scorer selection switch over it exhaustively; adding
// a kind without handling it is a compile-visible change, not a silent drop.
type QuestionKind string

const (
	KindMCQ         QuestionKind = "mcq"
	KindDescriptive QuestionKind = "descriptive"
	KindCoding      QuestionKind = "coding"
)

// Valid reports whether k is one of the known kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindMCQ, KindDescriptive, KindCoding:
		return true
	}
	return false
}

// Option is a single MCQ choice.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
}

// Question is one assessment question. Assessments are immutable while a
// submission against them is being scored.
type Question struct {
	ID     string       `json:"id"`
	Kind   QuestionKind `json:"kind"`
	Text   string       `json:"text"`
	Points float64      `json:"points,omitempty"`

	// MCQ only.
	Options         []Option `json:"options,omitempty"`
	CorrectOptionID string   `json:"correctOptionId,omitempty"`

	// Coding only.
	Language string `json:"language,omitempty"`
}

// EffectivePoints returns the question's point weight, defaulting to 1.0
// when unset or non-positive.
func (q Question) EffectivePoints() float64 {
	if q.Points <= 0 {
		return 1.0
	}
	return q.Points
}

// Assessment is the question set a submission is scored against.
type Assessment struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// ExecutionResult is a prior sandbox run attached to a coding answer.
type ExecutionResult struct {
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"exitCode,omitempty"`
	TimedOut bool   `json:"timedOut,omitempty"`
}

// Answer is one submitted response, referencing a question by id.
// Exactly one of OptionID, Text or Code carries the payload depending on
// the question kind.
type Answer struct {
	QuestionID string           `json:"questionId"`
	OptionID   string           `json:"optionId,omitempty"`
	Text       string           `json:"text,omitempty"`
	Code       string           `json:"code,omitempty"`
	Execution  *ExecutionResult `json:"execution,omitempty"`
}

// ResponseText returns the free-text payload for judged scoring.
func (a Answer) ResponseText() string {
	if a.Code != "" {
		return a.Code
	}
	return a.Text
}

// Submission is one candidate attempt. The engine reads it and writes back
// only the Evaluation summary projection.
type Submission struct {
	ID           string          `json:"id"`
	AssessmentID string          `json:"assessmentId"`
	CandidateID  string          `json:"candidateId,omitempty"`
	Status       string          `json:"status,omitempty"`
	Answers      []Answer        `json:"answers"`
	Evaluation   json.RawMessage `json:"evaluation,omitempty"`
}
