package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/storage"
	emailDomain "churchsite/internal/domain/email"
	"churchsite/internal/domain/newsletter"
)

// SubscriberStore defines the store interface needed by the newsletter orchestrators.
type SubscriberStore interface {
	GetByEmail(ctx context.Context, email string) (newsletter.Subscriber, error)
	GetByToken(ctx context.Context, token string) (newsletter.Subscriber, error)
	Save(ctx context.Context, s newsletter.Subscriber) error
}

// SubscribeInput carries the signup form.
type SubscribeInput struct {
	Email string
	Name  string
}

// NewsletterDeps holds dependencies for Subscribe and Unsubscribe.
type NewsletterDeps struct {
	SubscriberStore SubscriberStore
	Outbox          OutboxWriter
	Now             func() time.Time
	PublicURL       string // base URL for unsubscribe links
	SiteName        string
}

// SubscribeResult reports whether the signup changed anything.
type SubscribeResult struct {
	Subscriber newsletter.Subscriber `json:"subscriber"`
	Created    bool                  `json:"created"`
}

// ErrUnknownUnsubscribeToken is returned for unsubscribe links that match no subscriber.
var ErrUnknownUnsubscribeToken = errors.New("unsubscribe link is invalid")

// ExecuteSubscribe adds an address to the newsletter.
// POST: the address is subscribed; a welcome email is queued only when the
// address was new or previously unsubscribed
// INVARIANT: one subscriber row per normalised email
func ExecuteSubscribe(ctx context.Context, input SubscribeInput, deps NewsletterDeps) (SubscribeResult, error) {
	now := deps.Now()
	email := newsletter.NormalizeEmail(input.Email)
	probe := newsletter.Subscriber{Email: email}
	if err := probe.Validate(); err != nil {
		return SubscribeResult{}, err
	}

	existing, err := deps.SubscriberStore.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.IsActive():
		return SubscribeResult{Subscriber: existing}, nil
	case err == nil:
		existing.Resubscribe(now)
		if name := strings.TrimSpace(input.Name); name != "" {
			existing.Name = name
		}
		if err := deps.SubscriberStore.Save(ctx, existing); err != nil {
			return SubscribeResult{}, err
		}
		queueWelcome(ctx, existing, deps, now)
		log.Info().Str("subscriber_id", existing.ID).Msg("newsletter_resubscribed")
		return SubscribeResult{Subscriber: existing, Created: true}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return SubscribeResult{}, err
	}

	sub := newsletter.Subscriber{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Status:       newsletter.StatusSubscribed,
		Token:        uuid.NewString(),
		SubscribedAt: now,
	}
	if err := deps.SubscriberStore.Save(ctx, sub); err != nil {
		return SubscribeResult{}, err
	}
	queueWelcome(ctx, sub, deps, now)
	log.Info().Str("subscriber_id", sub.ID).Msg("newsletter_subscribed")
	return SubscribeResult{Subscriber: sub, Created: true}, nil
}

// ExecuteUnsubscribe removes the subscriber owning token from the mailing list.
// POST: the subscriber is unsubscribed; repeating the call is harmless
func ExecuteUnsubscribe(ctx context.Context, token string, deps NewsletterDeps) (newsletter.Subscriber, error) {
	if strings.TrimSpace(token) == "" {
		return newsletter.Subscriber{}, ErrUnknownUnsubscribeToken
	}
	sub, err := deps.SubscriberStore.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newsletter.Subscriber{}, ErrUnknownUnsubscribeToken
		}
		return newsletter.Subscriber{}, err
	}
	if !sub.IsActive() {
		return sub, nil
	}
	sub.Unsubscribe(deps.Now())
	if err := deps.SubscriberStore.Save(ctx, sub); err != nil {
		return newsletter.Subscriber{}, err
	}
	log.Info().Str("subscriber_id", sub.ID).Msg("newsletter_unsubscribed")
	return sub, nil
}

func queueWelcome(ctx context.Context, sub newsletter.Subscriber, deps NewsletterDeps, now time.Time) {
	greeting := "Hello"
	if sub.Name != "" {
		greeting = "Hello " + sub.Name
	}
	text := fmt.Sprintf("%s,\n\nThanks for subscribing to news from %s.\n\nTo stop receiving these emails: %s/newsletter/unsubscribe?token=%s\n",
		greeting, deps.SiteName, strings.TrimRight(deps.PublicURL, "/"), sub.Token)
	msg := emailDomain.Message{
		To:       sub.Email,
		Subject:  "Welcome to the " + deps.SiteName + " newsletter",
		Text:     text,
		Template: emailDomain.TemplateNewsletterWelcome,
	}
	if _, err := EnqueueEmail(ctx, deps.Outbox, msg, now); err != nil {
		log.Error().Err(err).Str("subscriber_id", sub.ID).Msg("welcome_email_not_queued")
	}
}
