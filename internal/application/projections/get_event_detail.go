package projections

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	eventStore "churchsite/internal/adapters/storage/event"
	"churchsite/internal/domain/event"
)

// EventCard is an event with its registration status resolved for display.
type EventCard struct {
	Event       event.Event       `json:"event"`
	Eligibility event.Eligibility `json:"eligibility"`
	Notice      string            `json:"notice,omitempty"` // why the form is hidden
	SpotsLeft   int               `json:"spotsLeft"`        // -1 when unlimited
	Full        bool              `json:"full"`
	CanRegister bool              `json:"canRegister"`
}

// NewEventCard resolves an event's eligibility at now in the church's time zone.
// An unreadable date or time yields StateUnavailable, never an open form.
// PRE: loc is non-nil
func NewEventCard(e event.Event, loc *time.Location, now time.Time) EventCard {
	el, err := event.CheckEligibility(e.Date, e.Time, loc, now)
	if err != nil {
		log.Warn().Err(err).Str("event_id", e.ID).Msg("event_eligibility_unavailable")
	}
	card := EventCard{
		Event:       e,
		Eligibility: el,
		Notice:      el.Message(),
		SpotsLeft:   e.SpotsLeft(),
		Full:        e.IsFull(),
	}
	card.CanRegister = el.AcceptsRegistrations() && !card.Full
	if el.AcceptsRegistrations() && card.Full {
		card.Notice = "This event is full."
	}
	return card
}

// GetEventsDeps holds dependencies for the event projections.
type GetEventsDeps struct {
	EventStore EventStore
	Location   *time.Location
}

// QueryGetEventDetail loads one event with its eligibility.
// POST: storage.ErrNotFound when the event does not exist
func QueryGetEventDetail(ctx context.Context, id string, deps GetEventsDeps, now time.Time) (EventCard, error) {
	e, err := deps.EventStore.GetByID(ctx, id)
	if err != nil {
		return EventCard{}, err
	}
	return NewEventCard(e, deps.Location, now), nil
}

// QueryGetUpcomingEvents lists events from today (church time) onward, soonest first.
// limit <= 0 means all.
func QueryGetUpcomingEvents(ctx context.Context, deps GetEventsDeps, now time.Time, limit int) ([]EventCard, error) {
	today := now.In(deps.Location).Format(event.DateLayout)
	events, err := deps.EventStore.ListUpcoming(ctx, today, limit)
	if err != nil {
		return nil, err
	}
	return cards(events, deps.Location, now), nil
}

// QueryGetAllEvents lists every event in a category (or all), chronologically.
func QueryGetAllEvents(ctx context.Context, category string, deps GetEventsDeps, now time.Time) ([]EventCard, error) {
	events, err := deps.EventStore.List(ctx, eventStore.ListFilter{Category: category})
	if err != nil {
		return nil, err
	}
	return cards(events, deps.Location, now), nil
}

func cards(events []event.Event, loc *time.Location, now time.Time) []EventCard {
	out := make([]EventCard, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventCard(e, loc, now))
	}
	return out
}
