package event

import (
	"errors"
	"strings"
	"time"
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 200
	MaxNotesLength       = 1000
)

// DateLayout and TimeLayout are the formats of the authored Date and Time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Domain errors
var (
	ErrEmptyTitle       = errors.New("event title cannot be empty")
	ErrTitleTooLong     = errors.New("event title cannot exceed 200 characters")
	ErrEmptyDate        = errors.New("event date is required")
	ErrEmptyTime        = errors.New("event time is required")
	ErrInvalidCapacity  = errors.New("event max attendees must be positive")
	ErrNegativeCount    = errors.New("event current attendees cannot be negative")
	ErrEventFull        = errors.New("event has reached its maximum number of attendees")
	ErrEmptyName        = errors.New("registration name cannot be empty")
	ErrEmptyEmail       = errors.New("registration email cannot be empty")
	ErrInvalidEmail     = errors.New("registration email must contain '@'")
	ErrMissingEventID   = errors.New("registration must reference an event")
	ErrNotesTooLong     = errors.New("registration notes cannot exceed 1000 characters")
	ErrDescTooLong      = errors.New("event description cannot exceed 5000 characters")
	ErrLocationTooLong  = errors.New("event location cannot exceed 200 characters")
	ErrRegistrationShut = errors.New("registrations for this event are closed")
	ErrEventConcluded   = errors.New("this event has already taken place")
)

// Event is a scheduled church event that visitors can register for.
// Date and Time are authored as wall-clock strings in the church's timezone.
type Event struct {
	ID               string    `json:"id" yaml:"id,omitempty"`
	Title            string    `json:"title" yaml:"title,omitempty"`
	Description      string    `json:"description" yaml:"description,omitempty"`
	Date             string    `json:"date" yaml:"date,omitempty"` // YYYY-MM-DD
	Time             string    `json:"time" yaml:"time,omitempty"` // HH:MM (24h)
	Location         string    `json:"location" yaml:"location,omitempty"`
	Category         string    `json:"category" yaml:"category,omitempty"`
	ImageURL         string    `json:"imageUrl" yaml:"imageUrl,omitempty"`
	MaxAttendees     *int      `json:"maxAttendees,omitempty" yaml:"maxAttendees,omitempty"`
	CurrentAttendees *int      `json:"currentAttendees,omitempty" yaml:"currentAttendees,omitempty"`
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, the first violated rule otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if e.Date == "" {
		return ErrEmptyDate
	}
	if e.Time == "" {
		return ErrEmptyTime
	}
	if _, err := ParseInstant(e.Date, e.Time, time.UTC); err != nil {
		return err
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	if len(e.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if e.MaxAttendees != nil && *e.MaxAttendees <= 0 {
		return ErrInvalidCapacity
	}
	if e.CurrentAttendees != nil && *e.CurrentAttendees < 0 {
		return ErrNegativeCount
	}
	return nil
}

// IsFull reports whether the event has a capacity and it has been reached.
func (e *Event) IsFull() bool {
	if e.MaxAttendees == nil {
		return false
	}
	current := 0
	if e.CurrentAttendees != nil {
		current = *e.CurrentAttendees
	}
	return current >= *e.MaxAttendees
}

// SpotsLeft returns the remaining capacity, or -1 when the event is unlimited.
func (e *Event) SpotsLeft() int {
	if e.MaxAttendees == nil {
		return -1
	}
	current := 0
	if e.CurrentAttendees != nil {
		current = *e.CurrentAttendees
	}
	if left := *e.MaxAttendees - current; left > 0 {
		return left
	}
	return 0
}

// Instant returns the event start in the given location.
func (e *Event) Instant(loc *time.Location) (time.Time, error) {
	return ParseInstant(e.Date, e.Time, loc)
}

// Registration is a visitor's signup for an event.
// EventID is not checked for existence here; the orchestrator resolves it.
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the registration's required fields.
// PRE: none
// POST: returns nil if valid, the first violated rule otherwise
func (r *Registration) Validate() error {
	if r.EventID == "" {
		return ErrMissingEventID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if len(r.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}
