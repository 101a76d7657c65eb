package outbox

import (
	"errors"
	"time"
)

// Entry statuses. Pending and retrying entries are picked up by the processor.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Action types.
const (
	ActionTypeEmail = "email"
)

// DefaultMaxAttempts applies when an entry is saved without a limit.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrEmptyCreatedAt  = errors.New("created_at must be set")
	ErrNotAbandonable  = errors.New("only unfinished entries can be abandoned")
)

// Entry is one queued side effect, replayed until it succeeds or gives up.
type Entry struct {
	ID              string    `json:"id"`
	ActionType      string    `json:"actionType"`
	Payload         string    `json:"payload"` // JSON payload for replay
	Status          string    `json:"status"`
	Attempts        int       `json:"attempts"`
	MaxAttempts     int       `json:"maxAttempts"`
	LastAttemptedAt time.Time `json:"lastAttemptedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	ExternalID      string    `json:"externalId,omitempty"` // provider id of the delivered message
	ErrorMessage    string    `json:"errorMessage,omitempty"`
}

// Validate returns the first missing field.
// POST: MaxAttempts defaults to DefaultMaxAttempts
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrEmptyCreatedAt
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether another delivery attempt is allowed.
func (e *Entry) CanRetry() bool {
	switch e.Status {
	case StatusPending, StatusRetrying, StatusFailed:
		return e.Attempts < e.MaxAttempts
	}
	return false
}

// IsTerminal reports whether the entry will never be attempted again.
func (e *Entry) IsTerminal() bool {
	switch e.Status {
	case StatusDone, StatusAbandoned:
		return true
	case StatusFailed:
		return e.Attempts >= e.MaxAttempts
	}
	return false
}

// Backoff spaces out delivery attempts: Base doubled per attempt, never above Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// DefaultBackoff waits 30s after the first failure and at most an hour.
var DefaultBackoff = Backoff{Base: 30 * time.Second, Max: time.Hour}

// Delay is the wait after the given number of attempts.
func (b Backoff) Delay(attempts int) time.Duration {
	if attempts >= 30 {
		return b.Max
	}
	d := b.Base << attempts
	if d <= 0 || d > b.Max {
		return b.Max
	}
	return d
}

// DueAt is when the entry may next be attempted. A fresh entry is due at once.
func (e *Entry) DueAt(b Backoff) time.Time {
	if e.LastAttemptedAt.IsZero() {
		return time.Time{}
	}
	return e.LastAttemptedAt.Add(b.Delay(e.Attempts))
}

// IsDue reports whether the backoff since the last attempt has elapsed.
func (e *Entry) IsDue(now time.Time, b Backoff) bool {
	return !now.Before(e.DueAt(b))
}

// MarkAttempt counts one delivery attempt.
// POST: status is retrying until MarkSuccess or MarkFailed decides otherwise
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess records the provider's message id.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed keeps the error; the entry fails for good once attempts run out.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned stops further delivery attempts.
// PRE: entry is not done
func (e *Entry) MarkAbandoned() error {
	if e.Status == StatusDone || e.Status == StatusAbandoned {
		return ErrNotAbandonable
	}
	e.Status = StatusAbandoned
	return nil
}
