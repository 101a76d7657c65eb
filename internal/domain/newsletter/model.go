package newsletter

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusSubscribed   = "subscribed"
	StatusUnsubscribed = "unsubscribed"
)

// Domain errors
var (
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrEmailTooLong = errors.New("email cannot exceed 254 characters")
)

// Subscriber is a newsletter recipient. Token authorises the unsubscribe link.
type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	Status         string     `json:"status"`
	Token          string     `json:"-"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}

// NormalizeEmail trims and lowercases an address for identity comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the Subscriber has valid data.
// PRE: Subscriber struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Subscriber) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return ErrEmptyEmail
	}
	if len(s.Email) > 254 {
		return ErrEmailTooLong
	}
	at := strings.Index(s.Email, "@")
	if at <= 0 || at == len(s.Email)-1 {
		return ErrInvalidEmail
	}
	return nil
}

// IsActive reports whether newsletters should be sent.
func (s *Subscriber) IsActive() bool {
	return s.Status == StatusSubscribed
}

// Unsubscribe stops delivery.
func (s *Subscriber) Unsubscribe(now time.Time) {
	s.Status = StatusUnsubscribed
	s.UnsubscribedAt = &now
}

// Resubscribe restores delivery for an address that had opted out.
func (s *Subscriber) Resubscribe(now time.Time) {
	s.Status = StatusSubscribed
	s.SubscribedAt = now
	s.UnsubscribedAt = nil
}
