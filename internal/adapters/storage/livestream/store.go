package livestream

import (
	"context"

	domain "churchsite/internal/domain/livestream"
)

// Store persists live stream listings.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Stream, error)
	Save(ctx context.Context, value domain.Stream) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Stream, error)
}
