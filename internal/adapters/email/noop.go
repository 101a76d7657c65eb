package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	emailDomain "churchsite/internal/domain/email"
)

// NoopSender logs and remembers messages instead of delivering them.
// Used in development and tests.
type NoopSender struct {
	mu   sync.Mutex
	sent []emailDomain.Message
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records the message.
func (s *NoopSender) Send(_ context.Context, msg emailDomain.Message) (SendResult, error) {
	if err := msg.Validate(); err != nil {
		return SendResult{}, err
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	n := len(s.sent)
	s.mu.Unlock()

	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("template", msg.Template).Msg("noop_email_send")
	return SendResult{MessageID: fmt.Sprintf("noop-%d", n), SentAt: time.Now()}, nil
}

// Sent returns a copy of every message accepted so far.
func (s *NoopSender) Sent() []emailDomain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]emailDomain.Message(nil), s.sent...)
}
