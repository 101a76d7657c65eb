package session

import (
	"context"
	"time"

	"churchsite/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create stores a new session.
// PRE: token and account id are non-empty
func (s *SQLiteStore) Create(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (token, account_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.Token, sess.AccountID, storage.FormatTime(sess.CreatedAt), storage.FormatTime(sess.ExpiresAt))
	return err
}

// Get retrieves a session by token. Expiry is the caller's decision.
// POST: Returns the session or storage.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, token string) (Session, error) {
	var sess Session
	var createdAt, expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, account_id, created_at, expires_at FROM session WHERE token = ?`, token).
		Scan(&sess.Token, &sess.AccountID, &createdAt, &expiresAt)
	if err != nil {
		return Session{}, storage.NotFound(err, "session")
	}
	sess.CreatedAt = storage.ParseTime(createdAt)
	sess.ExpiresAt = storage.ParseTime(expiresAt)
	return sess, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE token = ?`, token)
	return err
}

// DeleteExpired removes sessions that expired at or before now.
// POST: returns the number of sessions removed
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= ?`, storage.FormatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
