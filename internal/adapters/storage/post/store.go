package post

import (
	"context"

	domain "churchsite/internal/domain/post"
)

// Store persists blog posts.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (domain.Post, error)
	Save(ctx context.Context, value domain.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, publishedOnly bool) ([]domain.Post, error)
	Count(ctx context.Context) (int, error)
}
