package schedule

import (
	"errors"
	"sort"
	"strings"
	"time"

	"churchsite/internal/domain/icon"
)

// Day of week constants
const (
	Sunday    = "sunday"
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
)

// ValidDays lists the days in week order, Sunday first.
var ValidDays = []string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Domain errors
var (
	ErrEmptyName      = errors.New("service name cannot be empty")
	ErrNameTooLong    = errors.New("service name cannot exceed 120 characters")
	ErrInvalidDay     = errors.New("day must be a valid day of the week")
	ErrInvalidTime    = errors.New("start and end time must be HH:MM")
	ErrEndBeforeStart = errors.New("end time must be after start time")
)

// Service is a recurring weekly gathering shown on the schedule section.
type Service struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	Name        string    `json:"name" yaml:"name,omitempty"`
	Description string    `json:"description" yaml:"description,omitempty"`
	Day         string    `json:"day" yaml:"day,omitempty"`
	StartTime   string    `json:"startTime" yaml:"startTime,omitempty"` // HH:MM
	EndTime     string    `json:"endTime" yaml:"endTime,omitempty"`     // HH:MM, optional
	Location    string    `json:"location" yaml:"location,omitempty"`
	Icon        string    `json:"icon" yaml:"icon,omitempty"`
	Order       int       `json:"order" yaml:"order,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks if the Service has valid data.
// PRE: Service struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > 120 {
		return ErrNameTooLong
	}
	if !isValidDay(s.Day) {
		return ErrInvalidDay
	}
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return ErrInvalidTime
	}
	if s.EndTime == "" {
		return nil
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return ErrInvalidTime
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// Glyph returns the icon drawn next to the service.
func (s *Service) Glyph() icon.Icon {
	return icon.Parse(s.Icon)
}

// DayLabel returns the capitalised day name.
func (s *Service) DayLabel() string {
	if s.Day == "" {
		return ""
	}
	return strings.ToUpper(s.Day[:1]) + s.Day[1:]
}

// SortWeekly orders services by day (Sunday first), then start time, then Order.
func SortWeekly(services []Service) {
	sort.SliceStable(services, func(i, j int) bool {
		a, b := services[i], services[j]
		if da, db := dayIndex(a.Day), dayIndex(b.Day); da != db {
			return da < db
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Order < b.Order
	})
}

func dayIndex(day string) int {
	for i, d := range ValidDays {
		if d == day {
			return i
		}
	}
	return len(ValidDays)
}

func isValidDay(day string) bool {
	return dayIndex(day) < len(ValidDays)
}
