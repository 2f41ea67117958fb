package assessment

// Pair joins an answer with the question it references.
type Pair struct {
	Answer   Answer
	Question Question
}

// Buckets is a submission's answers partitioned by question kind, in
// submission order.
type Buckets struct {
	MCQ         []Pair
	Descriptive []Pair
	Coding      []Pair

	// Dropped counts answers referencing unknown question ids or questions
	// with an unknown kind. Stale client state, not an error.
	Dropped int
}

// Categorize partitions the submission's answers by the referenced
// question's kind. Answers whose question id is not in the assessment are
// silently dropped. Pure; no side effects.
func Categorize(sub *Submission, asm *Assessment) Buckets {
	byID := make(map[string]Question, len(asm.Questions))
	for _, q := range asm.Questions {
		byID[q.ID] = q
	}

	var b Buckets
	for _, ans := range sub.Answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			b.Dropped++
			continue
		}
		pair := Pair{Answer: ans, Question: q}
		switch q.Kind {
		case KindMCQ:
			b.MCQ = append(b.MCQ, pair)
		case KindDescriptive:
			b.Descriptive = append(b.Descriptive, pair)
		case KindCoding:
			b.Coding = append(b.Coding, pair)
		default:
			b.Dropped++
		}
	}
	return b
}

// Judged returns the descriptive and coding pairs in submission-bucket
// order. These are the answers that require the external judge.
func (b Buckets) Judged() []Pair {
	out := make([]Pair, 0, len(b.Descriptive)+len(b.Coding))
	out = append(out, b.Descriptive...)
	out = append(out, b.Coding...)
	return out
}
