package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	emailDomain "churchsite/internal/domain/email"
	"churchsite/internal/domain/event"
)

// EventStoreForRegister defines the store interface needed by RegisterForEvent.
type EventStoreForRegister interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Register(ctx context.Context, reg event.Registration) (event.Event, error)
}

// RegisterForEventInput carries the visitor's registration form.
type RegisterForEventInput struct {
	EventID string
	Name    string
	Email   string
	Phone   string
	Notes   string
}

// RegisterForEventDeps holds dependencies for RegisterForEvent.
type RegisterForEventDeps struct {
	EventStore EventStoreForRegister
	Outbox     OutboxWriter
	Location   *time.Location
	Now        func() time.Time
	SiteName   string
}

// RegisterForEventResult is the stored registration and the event after the seat was taken.
type RegisterForEventResult struct {
	Registration event.Registration `json:"registration"`
	Event        event.Event        `json:"event"`
}

// ExecuteRegisterForEvent registers a visitor for an event.
// PRE: Location is the church's time zone
// POST: on success the registration is stored, the event's attendee count is
// incremented and a confirmation email is queued
// INVARIANT: no registration is accepted once the event is within 24h of starting,
// has started, or is full
func ExecuteRegisterForEvent(ctx context.Context, input RegisterForEventInput, deps RegisterForEventDeps) (RegisterForEventResult, error) {
	now := deps.Now()
	reg := event.Registration{
		ID:        uuid.NewString(),
		EventID:   input.EventID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
	}
	if err := reg.Validate(); err != nil {
		return RegisterForEventResult{}, err
	}

	ev, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return RegisterForEventResult{}, err
	}

	el, err := event.CheckEligibility(ev.Date, ev.Time, deps.Location, now)
	if err != nil {
		log.Warn().Err(err).Str("event_id", ev.ID).Msg("event_eligibility_unavailable")
		return RegisterForEventResult{}, err
	}
	if !el.AcceptsRegistrations() {
		return RegisterForEventResult{}, el.Err()
	}
	if ev.IsFull() {
		return RegisterForEventResult{}, event.ErrEventFull
	}

	updated, err := deps.EventStore.Register(ctx, reg)
	if err != nil {
		return RegisterForEventResult{}, err
	}

	msg := registrationConfirmation(updated, reg, deps.SiteName)
	if _, err := EnqueueEmail(ctx, deps.Outbox, msg, now); err != nil {
		log.Error().Err(err).Str("registration_id", reg.ID).Msg("registration_email_not_queued")
	}

	log.Info().Str("event_id", ev.ID).Str("registration_id", reg.ID).Msg("event_registration_created")
	return RegisterForEventResult{Registration: reg, Event: updated}, nil
}

func registrationConfirmation(ev event.Event, reg event.Registration, site string) emailDomain.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYou're registered for %s.\n\n", reg.Name, ev.Title)
	fmt.Fprintf(&b, "When: %s at %s\n", ev.Date, ev.Time)
	if ev.Location != "" {
		fmt.Fprintf(&b, "Where: %s\n", ev.Location)
	}
	fmt.Fprintf(&b, "\nSee you there,\n%s\n", site)
	return emailDomain.Message{
		To:       reg.Email,
		Subject:  "Registration confirmed: " + ev.Title,
		Text:     b.String(),
		Template: emailDomain.TemplateRegistrationConfirmed,
	}
}
