package scoring

// MCQResult is the deterministic outcome for one MCQ answer.
// PointsAwarded is always 0 or the question's full point value.
type MCQResult struct {
	QuestionID       string  `json:"question_id"`
	Correct          bool    `json:"correct"`
	SelectedOptionID string  `json:"selected_option_id"`
	CorrectOptionID  string  `json:"correct_option_id"`
	PointsAwarded    float64 `json:"points_awarded"`
}

// JudgedResult is the rubric-scored outcome for one descriptive or coding
// answer. Score is the weighted criterion score in [0,1]; Breakdown holds
// the clamped per-criterion scores. Degraded judging is visible as an empty
// Feedback string with an all-0.5 breakdown.
type JudgedResult struct {
	QuestionID    string             `json:"question_id"`
	Score         float64            `json:"score"`
	Feedback      string             `json:"feedback"`
	Breakdown     map[string]float64 `json:"breakdown"`
	Rationales    map[string]string  `json:"rationales,omitempty"`
	PointsAwarded float64            `json:"points_awarded"`

	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}
