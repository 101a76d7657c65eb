package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/storage"
	"churchsite/internal/adapters/storage/session"
	"churchsite/internal/domain/account"
)

// SessionTTL is how long a login token stays valid.
const SessionTTL = 24 * time.Hour

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// SessionStoreForLogin defines the session store interface needed by Login and Logout.
type SessionStoreForLogin interface {
	Create(ctx context.Context, s session.Session) error
	Get(ctx context.Context, token string) (session.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the bearer token and user record returned to the caller.
type LoginResult struct {
	Token     string       `json:"token"`
	User      account.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore  AccountStoreForLogin
	SessionStore  SessionStoreForLogin
	Now           func() time.Time
	GenerateToken func() (string, error) // nil uses a 32-byte random hex token
}

// Login errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrInvalidSession     = errors.New("session is invalid or has expired")
)

// ExecuteLogin checks credentials and issues a session token.
// PRE: none
// POST: on success a session row exists for the token; on a wrong password the
// account's failed login counter is incremented
// INVARIANT: a locked account cannot log in, even with the right password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	now := deps.Now()

	acct, err := deps.AccountStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info().Str("event", "login_failed").Str("username", username).Str("reason", "not_found").Msg("auth_event")
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if acct.IsLocked(now) {
		log.Info().Str("event", "login_blocked").Str("username", username).Str("reason", "locked").Msg("auth_event")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if saveErr := deps.AccountStore.Save(ctx, acct); saveErr != nil {
			log.Error().Err(saveErr).Str("account_id", acct.ID).Msg("failed_login_not_recorded")
		}
		log.Info().Str("event", "login_failed").Str("username", username).Str("reason", "wrong_password").
			Int("failed_logins", acct.FailedLogins).Msg("auth_event")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return LoginResult{}, err
		}
	}

	gen := deps.GenerateToken
	if gen == nil {
		gen = NewToken
	}
	token, err := gen()
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate token: %w", err)
	}
	sess := session.Session{Token: token, AccountID: acct.ID, CreatedAt: now, ExpiresAt: now.Add(SessionTTL)}
	if err := deps.SessionStore.Create(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	log.Info().Str("event", "login_success").Str("username", username).Str("role", acct.Role).Msg("auth_event")
	return LoginResult{Token: token, User: acct.Public(), ExpiresAt: sess.ExpiresAt}, nil
}

// ExecuteLogout revokes a token. Unknown tokens are not an error.
// POST: the session row for token no longer exists
func ExecuteLogout(ctx context.Context, token string, deps LoginDeps) error {
	if token == "" {
		return nil
	}
	err := deps.SessionStore.Delete(ctx, token)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	log.Info().Str("event", "logout").Msg("auth_event")
	return nil
}

// SessionAuthenticator resolves bearer tokens for the HTTP auth middleware.
type SessionAuthenticator struct {
	Deps LoginDeps
}

// Authenticate returns the user owning a live token.
// POST: expired tokens are deleted and reported as ErrInvalidSession
func (a SessionAuthenticator) Authenticate(ctx context.Context, token string) (account.User, error) {
	sess, err := a.Deps.SessionStore.Get(ctx, token)
	if err != nil {
		return account.User{}, ErrInvalidSession
	}
	if !a.Deps.Now().Before(sess.ExpiresAt) {
		_ = a.Deps.SessionStore.Delete(ctx, token)
		return account.User{}, ErrInvalidSession
	}
	acct, err := a.Deps.AccountStore.GetByID(ctx, sess.AccountID)
	if err != nil {
		return account.User{}, ErrInvalidSession
	}
	return acct.Public(), nil
}

// ExecutePruneSessions removes expired sessions.
func ExecutePruneSessions(ctx context.Context, deps LoginDeps) (int64, error) {
	n, err := deps.SessionStore.DeleteExpired(ctx, deps.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("sessions_pruned")
	}
	return n, nil
}

// NewToken returns a random 64-character hex token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
