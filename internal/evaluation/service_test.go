package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iyngr/ci-mock-sub000/internal/assessment"
	"github.com/iyngr/ci-mock-sub000/internal/config"
	"github.com/iyngr/ci-mock-sub000/internal/judge"
	"github.com/iyngr/ci-mock-sub000/internal/rubric"
	"github.com/iyngr/ci-mock-sub000/internal/store"
)

type stubSubs struct {
	sub *assessment.Submission
}

func (s *stubSubs) Get(_ context.Context, id string) (*assessment.Submission, error) {
	if s.sub == nil || s.sub.ID != id {
		return nil, fmt.Errorf("submissions/%s: %w", id, store.ErrNotFound)
	}
	return s.sub, nil
}

type stubAsms struct {
	asm *assessment.Assessment
}

func (s *stubAsms) Get(_ context.Context, id string) (*assessment.Assessment, error) {
	if s.asm == nil || s.asm.ID != id {
		return nil, fmt.Errorf("assessments/%s: %w", id, store.ErrNotFound)
	}
	return s.asm, nil
}

type stubRubrics struct{}

func (stubRubrics) Get(context.Context, string) rubric.Rubric { return rubric.Default() }

type memorySink struct {
	mu        sync.Mutex
	records   []*Record
	summaries []any
}

func (m *memorySink) Create(_ context.Context, _ string, record any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record.(*Record))
	return nil
}

func (m *memorySink) SaveSummary(_ context.Context, _ string, summary any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summary)
	return nil
}

// panicJudge blows up on every call, standing in for a worker-level bug.
type panicJudge struct{}

func (panicJudge) Judge(context.Context, string) judge.Verdict { panic("boom") }
func (panicJudge) Enabled() bool                               { return true }

// degradedJudge simulates an unreachable judge service.
type degradedJudge struct{}

func (degradedJudge) Judge(context.Context, string) judge.Verdict {
	return judge.Verdict{Raw: map[string]any{}, Status: judge.StatusDegraded, Err: errors.New("down")}
}
func (degradedJudge) Enabled() bool { return true }

func newTestService(subs SubmissionSource, asms AssessmentSource, jc JudgeClient, sink *memorySink) *Service {
	rec := NewRecorder(sink, sink, time.Second)
	return NewService(subs, asms, stubRubrics{}, jc, rec, "default")
}

func mcqOnlyAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		ID: "asm-1",
		Questions: []assessment.Question{
			{ID: "q1", Kind: assessment.KindMCQ, CorrectOptionID: "b", Points: 1},
			{ID: "q2", Kind: assessment.KindMCQ, CorrectOptionID: "a", Points: 1},
		},
	}
}

func TestScoreMCQOnly(t *testing.T) {
	sink := &memorySink{}
	svc := newTestService(
		&stubSubs{sub: &assessment.Submission{
			ID:           "sub-1",
			AssessmentID: "asm-1",
			Answers: []assessment.Answer{
				{QuestionID: "q1", OptionID: "b"},
				{QuestionID: "q2", OptionID: "c"},
			},
		}},
		&stubAsms{asm: mcqOnlyAssessment()},
		judge.NewClientWithProvider(nil, config.JudgeConfig{}),
		sink,
	)

	res, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if res.TotalScore != 1 || res.MaxPossibleScore != 2 {
		t.Errorf("total/max = %v/%v, want 1/2", res.TotalScore, res.MaxPossibleScore)
	}
	if res.PercentageScore != 50 {
		t.Errorf("percentage = %v, want 50", res.PercentageScore)
	}
	if res.Band != "Developing" {
		t.Errorf("band = %q, want Developing", res.Band)
	}
	if len(res.MCQResults) != 2 || len(res.LLMResults) != 0 {
		t.Errorf("results = %d mcq, %d judged", len(res.MCQResults), len(res.LLMResults))
	}
	if res.Cost.JudgeCalls != 0 {
		t.Errorf("judge calls = %d, want 0", res.Cost.JudgeCalls)
	}

	if len(sink.records) != 1 || len(sink.summaries) != 1 {
		t.Fatalf("persisted %d records, %d summaries", len(sink.records), len(sink.summaries))
	}
	if sink.records[0].Method != "hybrid" || sink.records[0].SchemaVersion != SchemaVersion {
		t.Errorf("record = %+v", sink.records[0])
	}
}

func TestScoreSubmissionNotFound(t *testing.T) {
	svc := newTestService(&stubSubs{}, &stubAsms{}, judge.NewClientWithProvider(nil, config.JudgeConfig{}), &memorySink{})

	_, err := svc.Score(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestScoreMixedMCQAndJudged(t *testing.T) {
	asm := &assessment.Assessment{
		ID: "asm-1",
		Questions: []assessment.Question{
			{ID: "q1", Kind: assessment.KindMCQ, CorrectOptionID: "b", Points: 1},
			{ID: "q2", Kind: assessment.KindDescriptive, Text: "Explain caching.", Points: 2},
		},
	}
	mock := judge.NewMockJudge(judge.MockResponse{
		Content: []byte(`{"scores":{"communication":1.0,"problemSolving":1.0,"explanationQuality":1.0},"rationales":{"communication":"precise"}}`),
		Usage:   judge.Usage{InputTokens: 100, OutputTokens: 20},
	})
	sink := &memorySink{}
	svc := newTestService(
		&stubSubs{sub: &assessment.Submission{
			ID:           "sub-1",
			AssessmentID: "asm-1",
			Answers: []assessment.Answer{
				{QuestionID: "q1", OptionID: "b"},
				{QuestionID: "q2", Text: "Caching trades freshness for latency."},
			},
		}},
		&stubAsms{asm: asm},
		judge.NewClientWithProvider(mock, config.JudgeConfig{MaxTokens: 800}),
		sink,
	)

	res, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	// 1 MCQ point plus a perfect judged score on a 2-point question.
	if res.TotalScore != 3 || res.MaxPossibleScore != 3 {
		t.Errorf("total/max = %v/%v, want 3/3", res.TotalScore, res.MaxPossibleScore)
	}
	if res.PercentageScore != 100 {
		t.Errorf("percentage = %v, want 100", res.PercentageScore)
	}
	if len(res.LLMResults) != 1 {
		t.Fatalf("judged results = %d, want 1", len(res.LLMResults))
	}
	jr := res.LLMResults[0]
	if jr.Score != 1.0 || jr.PointsAwarded != 2.0 {
		t.Errorf("judged score/points = %v/%v, want 1/2", jr.Score, jr.PointsAwarded)
	}
	if jr.Feedback == "" {
		t.Error("successful judging should produce feedback")
	}
	if jr.Rationales["communication"] != "precise" {
		t.Errorf("rationales = %v, want the judge's per-criterion text", jr.Rationales)
	}
	if res.Cost.JudgeCalls != 1 || res.Cost.InputTokens != 100 || res.Cost.OutputTokens != 20 {
		t.Errorf("cost = %+v", res.Cost)
	}
}

func TestScoreIdempotent(t *testing.T) {
	asm := &assessment.Assessment{
		ID: "asm-1",
		Questions: []assessment.Question{
			{ID: "q1", Kind: assessment.KindDescriptive, Text: "q", Points: 1},
		},
	}
	canned := judge.MockResponse{Content: []byte(`{"scores":{"communication":0.8,"problemSolving":0.6,"explanationQuality":0.7}}`)}
	mock := judge.NewMockJudge(canned, canned)
	sink := &memorySink{}
	svc := newTestService(
		&stubSubs{sub: &assessment.Submission{
			ID:           "sub-1",
			AssessmentID: "asm-1",
			Answers:      []assessment.Answer{{QuestionID: "q1", Text: "answer"}},
		}},
		&stubAsms{asm: asm},
		judge.NewClientWithProvider(mock, config.JudgeConfig{}),
		sink,
	)

	first, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("first Score() error = %v", err)
	}
	second, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("second Score() error = %v", err)
	}

	if first.PercentageScore != second.PercentageScore || first.TotalScore != second.TotalScore {
		t.Errorf("runs diverged: %v vs %v", first.PercentageScore, second.PercentageScore)
	}
	if len(sink.records) != 2 {
		t.Fatalf("records = %d, want 2", len(sink.records))
	}
	if sink.records[0].ID == sink.records[1].ID {
		t.Error("each run must persist a distinct evaluation record")
	}
}

func TestScoreExcludesPanickedWorkers(t *testing.T) {
	asm := &assessment.Assessment{
		ID: "asm-1",
		Questions: []assessment.Question{
			{ID: "q1", Kind: assessment.KindMCQ, CorrectOptionID: "b", Points: 1},
			{ID: "q2", Kind: assessment.KindDescriptive, Text: "q", Points: 5},
			{ID: "q3", Kind: assessment.KindCoding, Text: "q", Points: 5},
		},
	}
	sink := &memorySink{}
	svc := newTestService(
		&stubSubs{sub: &assessment.Submission{
			ID:           "sub-1",
			AssessmentID: "asm-1",
			Answers: []assessment.Answer{
				{QuestionID: "q1", OptionID: "b"},
				{QuestionID: "q2", Text: "a"},
				{QuestionID: "q3", Code: "x"},
			},
		}},
		&stubAsms{asm: asm},
		panicJudge{},
		sink,
	)

	res, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	// Lost judged answers leave both the results and the denominator.
	if len(res.LLMResults) != 0 {
		t.Errorf("judged results = %d, want 0", len(res.LLMResults))
	}
	if res.TotalScore != 1 || res.MaxPossibleScore != 1 {
		t.Errorf("total/max = %v/%v, want 1/1", res.TotalScore, res.MaxPossibleScore)
	}
	if res.PercentageScore != 100 {
		t.Errorf("percentage = %v, want 100", res.PercentageScore)
	}
	if sink.records[0].ExcludedAnswers != 2 {
		t.Errorf("excluded = %d, want 2", sink.records[0].ExcludedAnswers)
	}
}

func TestScoreDegradedJudgeStillScores(t *testing.T) {
	asm := &assessment.Assessment{
		ID: "asm-1",
		Questions: []assessment.Question{
			{ID: "q1", Kind: assessment.KindDescriptive, Text: "q", Points: 2},
		},
	}
	sink := &memorySink{}
	svc := newTestService(
		&stubSubs{sub: &assessment.Submission{
			ID:           "sub-1",
			AssessmentID: "asm-1",
			Answers:      []assessment.Answer{{QuestionID: "q1", Text: "a"}},
		}},
		&stubAsms{asm: asm},
		degradedJudge{},
		sink,
	)

	res, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(res.LLMResults) != 1 {
		t.Fatalf("judged results = %d, want 1", len(res.LLMResults))
	}
	jr := res.LLMResults[0]
	// The empty verdict extracts to the uncertain middle on every criterion.
	if jr.Score != 0.5 {
		t.Errorf("score = %v, want 0.5", jr.Score)
	}
	for c, s := range jr.Breakdown {
		if s != 0.5 {
			t.Errorf("breakdown[%s] = %v, want 0.5", c, s)
		}
	}
	if jr.Feedback != "" {
		t.Errorf("degraded judging must not fabricate feedback, got %q", jr.Feedback)
	}
	if jr.PointsAwarded != 1.0 {
		t.Errorf("points awarded = %v, want 1.0", jr.PointsAwarded)
	}
}

func TestScoreDropsUnknownQuestionAnswers(t *testing.T) {
	sink := &memorySink{}
	svc := newTestService(
		&stubSubs{sub: &assessment.Submission{
			ID:           "sub-1",
			AssessmentID: "asm-1",
			Answers: []assessment.Answer{
				{QuestionID: "q1", OptionID: "b"},
				{QuestionID: "ghost", OptionID: "a"},
			},
		}},
		&stubAsms{asm: mcqOnlyAssessment()},
		judge.NewClientWithProvider(nil, config.JudgeConfig{}),
		sink,
	)

	res, err := svc.Score(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(res.MCQResults) != 1 {
		t.Errorf("mcq results = %d, want 1", len(res.MCQResults))
	}
	if sink.records[0].DroppedAnswers != 1 {
		t.Errorf("dropped = %d, want 1", sink.records[0].DroppedAnswers)
	}
}
