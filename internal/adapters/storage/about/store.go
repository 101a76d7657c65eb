package about

import (
	"context"

	domain "churchsite/internal/domain/about"
)

// Store persists about-page sections.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Section, error)
	Save(ctx context.Context, value domain.Section) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Section, error)
}
