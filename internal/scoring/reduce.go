package scoring

// Reduction is the final combined score for one submission.
type Reduction struct {
	Total      float64
	Max        float64
	Percentage float64

	// DefaultedPoints lists scored question ids that were missing from the
	// points map and fell back to 1.0. The caller is expected to surface
	// these: a defaulted denominator usually means incomplete question
	// metadata upstream.
	DefaultedPoints []string
}

// Reduce combines MCQ and judged results into total/max/percentage,
// weighted by each question's point value. Pure; max == 0 yields
// percentage 0, not NaN.
func Reduce(mcq []MCQResult, judged []JudgedResult, points map[string]float64) Reduction {
	var red Reduction

	add := func(questionID string, awarded float64) {
		p, ok := points[questionID]
		if !ok || p <= 0 {
			p = 1.0
			red.DefaultedPoints = append(red.DefaultedPoints, questionID)
		}
		red.Total += awarded
		red.Max += p
	}

	for _, r := range mcq {
		add(r.QuestionID, r.PointsAwarded)
	}
	for _, r := range judged {
		add(r.QuestionID, r.PointsAwarded)
	}

	if red.Max > 0 {
		red.Percentage = red.Total / red.Max * 100
		if red.Percentage < 0 {
			red.Percentage = 0
		}
		if red.Percentage > 100 {
			red.Percentage = 100
		}
	}
	return red
}
