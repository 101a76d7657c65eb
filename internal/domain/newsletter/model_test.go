package newsletter_test

import (
	"testing"
	"time"

	"churchsite/internal/domain/newsletter"
)

func TestSubscriber_Validate(t *testing.T) {
	tests := []struct {
		email   string
		wantErr error
	}{
		{"ruth@example.org", nil},
		{"", newsletter.ErrEmptyEmail},
		{"ruth", newsletter.ErrInvalidEmail},
		{"@example.org", newsletter.ErrInvalidEmail},
		{"ruth@", newsletter.ErrInvalidEmail},
	}
	for _, tt := range tests {
		s := newsletter.Subscriber{Email: tt.email}
		if err := s.Validate(); err != tt.wantErr {
			t.Errorf("Validate(%q) = %v, want %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestSubscriber_Lifecycle(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s := newsletter.Subscriber{Status: newsletter.StatusSubscribed}
	s.Unsubscribe(now)
	if s.IsActive() || s.UnsubscribedAt == nil {
		t.Fatal("expected unsubscribed with timestamp")
	}
	s.Resubscribe(now.Add(time.Hour))
	if !s.IsActive() || s.UnsubscribedAt != nil {
		t.Fatal("expected active after resubscribe")
	}
	if got := newsletter.NormalizeEmail("  Ruth@Example.ORG "); got != "ruth@example.org" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
