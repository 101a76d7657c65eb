package newsletter

import (
	"context"

	domain "churchsite/internal/domain/newsletter"
)

// Store persists newsletter subscribers.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (domain.Subscriber, error)
	GetByToken(ctx context.Context, token string) (domain.Subscriber, error)
	Save(ctx context.Context, value domain.Subscriber) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error)
	CountActive(ctx context.Context) (int, error)
}
