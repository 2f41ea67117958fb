package judge

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit indicates the judge service returned 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("judge rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the judge service is down, unreachable, or
// returned a 5xx. Retryable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("judge unavailable: %v", e.Err)
	}
	return "judge unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the judge returned content that is not the
// expected JSON score object. Not retryable; the caller degrades to the
// empty object.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid judge response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
