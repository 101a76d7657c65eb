package menu

import (
	"context"

	domain "churchsite/internal/domain/menu"
)

// Store persists navigation items as a flat list.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Item, error)
}
