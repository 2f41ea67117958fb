package evaluation

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"
)

// EvaluationSink persists full evaluation records.
type EvaluationSink interface {
	Create(ctx context.Context, id string, record any) error
}

// SummarySink patches the evaluation summary onto the submission.
type SummarySink interface {
	SaveSummary(ctx context.Context, id string, summary any) error
}

// Recorder performs the post-scoring writes. Each write gets its own soft
// deadline and its failure is logged, never propagated: a computed score is
// returned to the caller even when the store is slow or down.
type Recorder struct {
	evals   EvaluationSink
	subs    SummarySink
	timeout time.Duration
}

// NewRecorder builds a Recorder writing through the given sinks.
func NewRecorder(evals EvaluationSink, subs SummarySink, timeout time.Duration) *Recorder {
	return &Recorder{evals: evals, subs: subs, timeout: timeout}
}

// Persist writes the evaluation record and the submission summary as two
// independent writes. A failure of one does not block the other.
func (r *Recorder) Persist(ctx context.Context, rec *Record) {
	log := clog.FromContext(ctx).With("submission", rec.SubmissionID, "evaluation", rec.ID)

	wctx, cancel := context.WithTimeout(ctx, r.timeout)
	if err := r.evals.Create(wctx, rec.ID, rec); err != nil {
		log.Warnf("evaluation record write abandoned: %v", err)
	}
	cancel()

	wctx, cancel = context.WithTimeout(ctx, r.timeout)
	if err := r.subs.SaveSummary(wctx, rec.SubmissionID, summaryOf(rec)); err != nil {
		log.Warnf("submission summary write abandoned: %v", err)
	}
	cancel()
}
