package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/storage"
	"churchsite/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	Now          func() time.Time
}

// ErrUsernameTaken is returned when the username is already in use.
var ErrUsernameTaken = errors.New("an account with this username already exists")

// ExecuteCreateAccount creates a CMS account.
// PRE: Password >= account.MinPasswordLength, Role is admin or editor
// POST: Account stored with a bcrypt password hash
// INVARIANT: usernames are unique (case-insensitive)
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	acct := account.Account{
		ID:        uuid.NewString(),
		Username:  strings.ToLower(strings.TrimSpace(input.Username)),
		Email:     strings.TrimSpace(input.Email),
		Role:      input.Role,
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}

	_, err := deps.AccountStore.GetByUsername(ctx, acct.Username)
	switch {
	case err == nil:
		return account.Account{}, ErrUsernameTaken
	case !errors.Is(err, storage.ErrNotFound):
		return account.Account{}, err
	}

	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	log.Info().Str("event", "account_created").Str("username", acct.Username).Str("role", acct.Role).Msg("auth_event")
	return acct, nil
}

// ExecuteSeedAdmin creates the first admin account when none exist.
// PRE: database is migrated
// POST: an admin exists if the account table was empty; otherwise nothing changes
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, username, password string) (bool, error) {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: username,
		Password: password,
		Role:     account.RoleAdmin,
	}, deps); err != nil {
		return false, err
	}
	log.Info().Str("event", "admin_seeded").Str("username", username).Msg("auth_event")
	return true, nil
}
