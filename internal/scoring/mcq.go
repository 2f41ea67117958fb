package scoring

import "github.com/iyngr/ci-mock-sub000/internal/assessment"

// ScoreMCQ compares the submitted option against the question's canonical
// correct option. Pure; a missing or mismatched option id is simply
// incorrect, never an error.
func ScoreMCQ(ans assessment.Answer, q assessment.Question) MCQResult {
	correct := ans.OptionID != "" && ans.OptionID == q.CorrectOptionID
	points := 0.0
	if correct {
		points = q.EffectivePoints()
	}
	return MCQResult{
		QuestionID:       q.ID,
		Correct:          correct,
		SelectedOptionID: ans.OptionID,
		CorrectOptionID:  q.CorrectOptionID,
		PointsAwarded:    points,
	}
}
