package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	emailDomain "churchsite/internal/domain/email"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
}

// NewResendSender creates a sender with the church's from and reply-to addresses.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
func NewResendSender(apiKey, from, replyTo string) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		replyTo: replyTo,
	}
}

// Send delivers one message.
// POST: returns the Resend message id on acceptance
func (s *ResendSender) Send(ctx context.Context, msg emailDomain.Message) (SendResult, error) {
	if err := msg.Validate(); err != nil {
		return SendResult{}, err
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if s.replyTo != "" {
		params.ReplyTo = s.replyTo
	}
	if msg.Template != "" {
		params.Tags = []resend.Tag{{Name: "template", Value: msg.Template}}
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Error().Err(err).Str("template", msg.Template).Msg("resend_send_failed")
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}

	log.Info().Str("message_id", sent.Id).Str("template", msg.Template).Msg("resend_sent")
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}
