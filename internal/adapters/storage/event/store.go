package event

import (
	"context"

	domain "churchsite/internal/domain/event"
)

// Store persists events and their registrations.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]domain.Event, error)
	Count(ctx context.Context) (int, error)

	Register(ctx context.Context, reg domain.Registration) (domain.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error)
	CountRegistrations(ctx context.Context, eventID string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}
