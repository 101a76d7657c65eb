package hero

import (
	"context"

	domain "churchsite/internal/domain/hero"
)

// Store persists carousel slides.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Slide, error)
	Save(ctx context.Context, value domain.Slide) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Slide, error)
}
