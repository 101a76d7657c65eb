package account

import (
	"context"

	domain "churchsite/internal/domain/account"
)

// Store persists CMS accounts. Usernames are unique and stored lowercase.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter narrows List. A zero Limit means no limit.
type ListFilter struct {
	Role   string
	Limit  int
	Offset int
}
