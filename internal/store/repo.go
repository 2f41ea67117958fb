package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iyngr/ci-mock-sub000/internal/assessment"
)

// SubmissionRepo reads and updates candidate submissions.
type SubmissionRepo struct {
	docs *documents
}

// Get loads and decodes the submission. Stored documents may carry legacy
// snake_case keys; decoding normalizes them.
func (r *SubmissionRepo) Get(ctx context.Context, id string) (*assessment.Submission, error) {
	var raw json.RawMessage
	if err := r.docs.FindOne(ctx, id, &raw); err != nil {
		return nil, err
	}
	sub, err := assessment.DecodeSubmission(raw)
	if err != nil {
		return nil, fmt.Errorf("submission %s: %w", id, err)
	}
	return sub, nil
}

// Put stores a submission document, replacing any existing one.
func (r *SubmissionRepo) Put(ctx context.Context, sub *assessment.Submission) error {
	return r.docs.Upsert(ctx, sub.ID, sub)
}

// SaveSummary patches the evaluation summary and status onto the stored
// submission without disturbing its other fields.
func (r *SubmissionRepo) SaveSummary(ctx context.Context, id string, summary any) error {
	return r.docs.Patch(ctx, id, map[string]any{
		"evaluation": summary,
		"status":     "completed",
	})
}

// AssessmentRepo reads assessment definitions.
type AssessmentRepo struct {
	docs *documents
}

// Get loads and decodes the assessment definition.
func (r *AssessmentRepo) Get(ctx context.Context, id string) (*assessment.Assessment, error) {
	var raw json.RawMessage
	if err := r.docs.FindOne(ctx, id, &raw); err != nil {
		return nil, err
	}
	asm, err := assessment.DecodeAssessment(raw)
	if err != nil {
		return nil, fmt.Errorf("assessment %s: %w", id, err)
	}
	return asm, nil
}

// Put stores an assessment document, replacing any existing one.
func (r *AssessmentRepo) Put(ctx context.Context, asm *assessment.Assessment) error {
	return r.docs.Upsert(ctx, asm.ID, asm)
}

// EvaluationRepo writes full evaluation records.
type EvaluationRepo struct {
	docs *documents
}

// Create inserts a new evaluation record under the given id.
func (r *EvaluationRepo) Create(ctx context.Context, id string, record any) error {
	return r.docs.Create(ctx, id, record)
}

// Get loads an evaluation record into out.
func (r *EvaluationRepo) Get(ctx context.Context, id string, out any) error {
	return r.docs.FindOne(ctx, id, out)
}
