package account

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Field limits and lockout policy.
const (
	MaxEmailLength    = 254
	MaxUsernameLength = 64
	MinPasswordLength = 12
	MaxFailedLogins   = 5
	LockoutDuration   = 15 * time.Minute

	bcryptCost = 12
)

// Roles. Admins manage accounts and the outbox; editors manage content only.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// ValidRoles lists every assignable role.
var ValidRoles = []string{RoleAdmin, RoleEditor}

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrInvalidUsername  = errors.New("username may only contain lowercase letters, digits, '.', '_' and '-'")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmailTooLong     = errors.New("email cannot exceed 254 characters")
	ErrInvalidRole      = errors.New("role must be one of: admin, editor")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrLocked           = errors.New("account is temporarily locked")
)

// Account is a CMS login. Public visitors never have one.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// User is what the API reveals about an account: no hash, no lockout state.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// Validate returns the first violated field rule.
func (a *Account) Validate() error {
	switch {
	case strings.TrimSpace(a.Username) == "":
		return ErrEmptyUsername
	case len(a.Username) > MaxUsernameLength, !usernamePattern.MatchString(a.Username):
		return ErrInvalidUsername
	case len(a.Email) > MaxEmailLength:
		return ErrEmailTooLong
	case a.Email != "" && !strings.Contains(a.Email, "@"):
		return ErrInvalidEmail
	case !slices.Contains(ValidRoles, a.Role):
		return ErrInvalidRole
	}
	return nil
}

// Public strips credentials.
func (a *Account) Public() User {
	return User{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

// SetPassword replaces the stored hash.
// PRE: plaintext has at least MinPasswordLength characters
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword returns ErrWrongPassword for any mismatch, including a missing hash.
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether sign-in is refused at now.
func (a *Account) IsLocked(now time.Time) bool {
	return now.Before(a.LockedUntil)
}

// RecordFailedLogin counts a bad password.
// POST: the MaxFailedLogins-th failure locks the account for LockoutDuration
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins runs after a successful sign-in.
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

// CanEdit reports whether the account may change site content.
func (a *Account) CanEdit() bool { return a.IsAdmin() || a.Role == RoleEditor }
