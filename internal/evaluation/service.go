package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iyngr/ci-mock-sub000/internal/assessment"
	"github.com/iyngr/ci-mock-sub000/internal/judge"
	"github.com/iyngr/ci-mock-sub000/internal/rubric"
	"github.com/iyngr/ci-mock-sub000/internal/scoring"
)

// SubmissionSource loads candidate submissions.
type SubmissionSource interface {
	Get(ctx context.Context, id string) (*assessment.Submission, error)
}

// AssessmentSource loads assessment definitions.
type AssessmentSource interface {
	Get(ctx context.Context, id string) (*assessment.Assessment, error)
}

// RubricSource resolves rubrics by name. Implementations never fail; they
// fall back to a default rubric.
type RubricSource interface {
	Get(ctx context.Context, name string) rubric.Rubric
}

// JudgeClient scores free-text answers. Judge never returns an error; the
// verdict carries the degradation state.
type JudgeClient interface {
	Judge(ctx context.Context, prompt string) judge.Verdict
	Enabled() bool
}

// Service runs the hybrid scoring pipeline: deterministic MCQ scoring plus
// judge-backed rubric scoring, combined into one weighted result.
type Service struct {
	subs       SubmissionSource
	asms       AssessmentSource
	rubrics    RubricSource
	judge      JudgeClient
	recorder   *Recorder
	rubricName string
}

// NewService wires the scoring pipeline.
func NewService(subs SubmissionSource, asms AssessmentSource, rubrics RubricSource, jc JudgeClient, rec *Recorder, rubricName string) *Service {
	return &Service{
		subs:       subs,
		asms:       asms,
		rubrics:    rubrics,
		judge:      jc,
		recorder:   rec,
		rubricName: rubricName,
	}
}

// judgedOutcome is one judge worker's result. ok is false when the worker
// panicked; such answers are excluded from both results and denominator.
type judgedOutcome struct {
	res   scoring.JudgedResult
	usage judge.Usage
	model string
	ok    bool
}

// Score evaluates one submission end to end and returns the combined
// result. Storage errors on the initial reads propagate; everything after
// that degrades rather than fails. The returned result is computed even
// when persistence is slow or down.
func (s *Service) Score(ctx context.Context, submissionID string) (*Result, error) {
	log := clog.FromContext(ctx).With("submission", submissionID)
	started := time.Now()

	sub, err := s.subs.Get(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	asm, err := s.asms.Get(ctx, sub.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("load assessment %s: %w", sub.AssessmentID, err)
	}

	r := s.rubrics.Get(ctx, s.rubricName)

	buckets := assessment.Categorize(sub, asm)
	if buckets.Dropped > 0 {
		log.Warnf("dropped %d answers referencing unknown questions", buckets.Dropped)
	}

	mcqResults := make([]scoring.MCQResult, 0, len(buckets.MCQ))
	for _, pair := range buckets.MCQ {
		mcqResults = append(mcqResults, scoring.ScoreMCQ(pair.Answer, pair.Question))
	}

	judgedPairs := buckets.Judged()
	outcomes := make([]judgedOutcome, len(judgedPairs))

	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range judgedPairs {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorf("judge worker panic on question %s: %v", pair.Question.ID, rec)
					outcomes[i] = judgedOutcome{ok: false}
				}
			}()
			outcomes[i] = s.judgeOne(gctx, pair, r)
			return nil
		})
	}
	// Workers only signal via outcomes; the group is a completion barrier.
	_ = g.Wait()

	var (
		judgedResults = make([]scoring.JudgedResult, 0, len(outcomes))
		cost          = Cost{MCQCount: len(mcqResults)}
		excluded      int
	)
	for _, o := range outcomes {
		if !o.ok {
			excluded++
			continue
		}
		judgedResults = append(judgedResults, o.res)
		if o.model != "" {
			cost.JudgeCalls++
			cost.InputTokens += o.usage.InputTokens
			cost.OutputTokens += o.usage.OutputTokens
			cost.EstimatedUSD += judge.EstimateUSD(o.model, o.usage.InputTokens, o.usage.OutputTokens)
		}
	}

	points := make(map[string]float64, len(asm.Questions))
	for _, q := range asm.Questions {
		points[q.ID] = q.Points
	}
	red := scoring.Reduce(mcqResults, judgedResults, points)
	if len(red.DefaultedPoints) > 0 {
		log.Warnf("questions missing point values, defaulted to 1.0: %v", red.DefaultedPoints)
	}

	rec := &Record{
		ID:               uuid.NewString(),
		SubmissionID:     sub.ID,
		AssessmentID:     asm.ID,
		Method:           "hybrid",
		RubricName:       r.Name,
		StartedAt:        started,
		FinishedAt:       time.Now(),
		MCQResults:       mcqResults,
		LLMResults:       judgedResults,
		TotalScore:       red.Total,
		MaxPossibleScore: red.Max,
		PercentageScore:  red.Percentage,
		Band:             scoring.BandLabel(red.Percentage, r.Bands),
		DroppedAnswers:   buckets.Dropped,
		ExcludedAnswers:  excluded,
		Cost:             cost,
		SchemaVersion:    SchemaVersion,
	}
	s.recorder.Persist(ctx, rec)

	return &Result{
		SubmissionID:     rec.SubmissionID,
		TotalScore:       rec.TotalScore,
		MaxPossibleScore: rec.MaxPossibleScore,
		PercentageScore:  rec.PercentageScore,
		Band:             rec.Band,
		MCQResults:       mcqResults,
		LLMResults:       judgedResults,
		EvaluationTime:   rec.FinishedAt.Sub(rec.StartedAt),
		Cost:             cost,
	}, nil
}

// judgeOne scores a single descriptive or coding answer. A disabled or
// degraded judge still yields a result: the empty verdict object extracts
// to the uncertain-middle breakdown, with no feedback text.
func (s *Service) judgeOne(ctx context.Context, pair assessment.Pair, r rubric.Rubric) judgedOutcome {
	q := pair.Question
	criteria := rubric.CriteriaFor(q.Kind)

	prompt := judge.BuildPrompt(judge.PromptInput{
		QuestionText: q.Text,
		ResponseText: pair.Answer.ResponseText(),
		Criteria:     criteria,
		Weights:      r.Weights,
		Extra:        executionNote(pair.Answer.Execution),
		IsCode:       q.Kind == assessment.KindCoding,
		Language:     q.Language,
	})

	v := s.judge.Judge(ctx, prompt)

	breakdown := scoring.ExtractBreakdown(v.Raw, criteria)
	score := scoring.WeightedScore(breakdown, r.Weights)

	var feedback string
	if v.Status == judge.StatusOK {
		feedback = scoring.FormatFeedback(breakdown, r)
	}

	return judgedOutcome{
		res: scoring.JudgedResult{
			QuestionID:    q.ID,
			Score:         score,
			Feedback:      feedback,
			Breakdown:     breakdown,
			Rationales:    scoring.Rationales(v.Raw),
			PointsAwarded: score * q.EffectivePoints(),
			Model:         v.Model,
			InputTokens:   v.Usage.InputTokens,
			OutputTokens:  v.Usage.OutputTokens,
		},
		usage: v.Usage,
		model: v.Model,
		ok:    true,
	}
}

// executionNote renders a prior sandbox run as judge context.
func executionNote(ex *assessment.ExecutionResult) string {
	if ex == nil {
		return ""
	}
	note := fmt.Sprintf("A prior sandbox run of this code exited with code %d", ex.ExitCode)
	if ex.TimedOut {
		note += " after timing out"
	}
	note += "."
	if ex.Stdout != "" {
		note += "\nstdout:\n" + ex.Stdout
	}
	if ex.Stderr != "" {
		note += "\nstderr:\n" + ex.Stderr
	}
	return note
}
