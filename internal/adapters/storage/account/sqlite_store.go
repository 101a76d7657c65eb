package account

import (
	"context"
	"database/sql"
	"strings"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/account"
)

const selectAccount = `SELECT id, username, email, password_hash, role, created_at, failed_logins, locked_until FROM account`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE id = ?", id).Scan)
	return a, storage.NotFound(err, "account")
}

// GetByUsername looks an account up by its normalized (lowercase) username.
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	a, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE username = ?", key).Scan)
	return a, storage.NotFound(err, "account")
}

// Save inserts or updates an Account. CreatedAt is never overwritten.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (id, username, email, password_hash, role, created_at, failed_logins, locked_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username=excluded.username, email=excluded.email,
			password_hash=excluded.password_hash, role=excluded.role,
			failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Role,
		storage.FormatTime(a.CreatedAt), a.FailedLogins, storage.NullTime(&a.LockedUntil))
	return err
}

// Delete removes an Account. Its sessions go with it (ON DELETE CASCADE).
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "account")
}

// List returns accounts oldest first, optionally narrowed to one role.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	query := selectAccount
	var args []any
	if filter.Role != "" {
		query += " WHERE role = ?"
		args = append(args, filter.Role)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " ORDER BY created_at ASC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns how many accounts exist; zero means the admin seed should run.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var a domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	if err := scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &createdAt, &a.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt = storage.ParseTime(createdAt)
	if t := storage.ParseNullTime(lockedUntil); t != nil {
		a.LockedUntil = *t
	}
	return a, nil
}
