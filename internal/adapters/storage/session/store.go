package session

import (
	"context"
	"time"
)

// Session is an issued bearer token bound to an account.
type Session struct {
	Token     string
	AccountID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store persists login sessions so tokens survive restarts.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
