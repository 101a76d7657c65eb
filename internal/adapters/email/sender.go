package email

import (
	"context"
	"time"

	emailDomain "churchsite/internal/domain/email"
)

// SendResult is the provider's acknowledgement of an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers transactional mail through an external provider.
type Sender interface {
	Send(ctx context.Context, msg emailDomain.Message) (SendResult, error)
}
