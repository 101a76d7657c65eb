package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RegistrationWindow is how long before the start registrations close.
const RegistrationWindow = 24 * time.Hour

// State is the registration eligibility of an event at a given instant.
type State string

// Eligibility states. Unavailable is returned alongside an error when the
// event's date/time cannot be interpreted.
const (
	StateOpen               State = "open"
	StateRegistrationClosed State = "registration_closed"
	StateEventConcluded     State = "event_concluded"
	StateUnavailable        State = "unavailable"
)

// ErrUnparseableDateTime is returned when Date+Time do not form a valid wall-clock instant.
var ErrUnparseableDateTime = errors.New("event date/time cannot be parsed")

// Eligibility is the derived registration status shown next to an event.
type Eligibility struct {
	State                State     `json:"state"`
	StartsAt             time.Time `json:"startsAt"`
	Deadline             time.Time `json:"deadline"`
	IsPast               bool      `json:"isPast"`
	IsRegistrationClosed bool      `json:"isRegistrationClosed"`
}

// AcceptsRegistrations reports whether the registration form should be offered.
func (e Eligibility) AcceptsRegistrations() bool {
	return e.State == StateOpen
}

// Message returns the visitor-facing explanation for a non-open state.
func (e Eligibility) Message() string {
	switch e.State {
	case StateEventConcluded:
		return "This event has already happened."
	case StateRegistrationClosed:
		return "Registrations for this event are closed."
	case StateUnavailable:
		return "Registration details are unavailable."
	default:
		return ""
	}
}

// Err maps a non-open state to the matching domain error.
func (e Eligibility) Err() error {
	switch e.State {
	case StateOpen:
		return nil
	case StateEventConcluded:
		return ErrEventConcluded
	case StateRegistrationClosed:
		return ErrRegistrationShut
	default:
		return ErrUnparseableDateTime
	}
}

// ParseInstant combines an authored date ("2006-01-02") and time ("15:04", seconds
// optional) into an instant in loc.
// PRE: loc is non-nil
// POST: returns the instant, or an error wrapping ErrUnparseableDateTime
func ParseInstant(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("%w: date %q time %q", ErrUnparseableDateTime, date, clock)
	}
	for _, layout := range []string{DateLayout + " " + TimeLayout, DateLayout + " 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q time %q", ErrUnparseableDateTime, date, clock)
}

// CheckEligibility decides whether an event starting at date+clock (church time in loc)
// accepts registrations at now.
// Registration closes RegistrationWindow before the start. A concluded event always
// reports StateEventConcluded even though its deadline has also passed.
// PRE: loc is non-nil
// POST: returns StateUnavailable and an error when the date/time is unparseable
func CheckEligibility(date, clock string, loc *time.Location, now time.Time) (Eligibility, error) {
	start, err := ParseInstant(date, clock, loc)
	if err != nil {
		return Eligibility{State: StateUnavailable}, err
	}
	return EligibilityAt(start, now), nil
}

// EligibilityAt is CheckEligibility for an already resolved start instant.
func EligibilityAt(start, now time.Time) Eligibility {
	deadline := start.Add(-RegistrationWindow)
	el := Eligibility{
		StartsAt:             start,
		Deadline:             deadline,
		IsPast:               !now.Before(start),
		IsRegistrationClosed: !now.Before(deadline),
	}
	switch {
	case el.IsPast:
		el.State = StateEventConcluded
	case el.IsRegistrationClosed:
		el.State = StateRegistrationClosed
	default:
		el.State = StateOpen
	}
	return el
}
