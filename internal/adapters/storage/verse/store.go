package verse

import (
	"context"

	domain "churchsite/internal/domain/verse"
)

// Store persists the verse-of-the-day pool.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Verse, error)
	Save(ctx context.Context, value domain.Verse) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Verse, error)
}
