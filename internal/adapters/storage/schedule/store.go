package schedule

import (
	"context"

	domain "churchsite/internal/domain/schedule"
)

// Store persists weekly service times.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Service, error)
	Save(ctx context.Context, value domain.Service) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Service, error)
}
