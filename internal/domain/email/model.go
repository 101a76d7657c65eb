package email

import (
	"encoding/json"
	"errors"
	"strings"
)

// Template names for transactional mail.
const (
	TemplateRegistrationConfirmed = "registration_confirmed"
	TemplateNewsletterWelcome     = "newsletter_welcome"
	TemplateDonationReceipt       = "donation_receipt"
)

// Domain errors
var (
	ErrNoRecipient  = errors.New("email recipient is required")
	ErrBadRecipient = errors.New("email recipient must contain '@'")
	ErrEmptySubject = errors.New("email subject is required")
	ErrEmptyBody    = errors.New("email body is required")
)

// Message is a transactional email as queued in the outbox.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html,omitempty"`
	Text     string `json:"text,omitempty"`
	Template string `json:"template,omitempty"`
}

// Validate checks the message can be delivered.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrNoRecipient
	}
	if !strings.Contains(m.To, "@") {
		return ErrBadRecipient
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrEmptySubject
	}
	if m.HTML == "" && m.Text == "" {
		return ErrEmptyBody
	}
	return nil
}

// Encode serialises the message as an outbox payload.
func (m Message) Encode() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode reads an outbox payload.
func Decode(payload string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return Message{}, err
	}
	return m, m.Validate()
}
