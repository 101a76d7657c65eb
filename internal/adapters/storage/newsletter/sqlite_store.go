package newsletter

import (
	"context"
	"database/sql"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/newsletter"
)

const selectSubscriber = `SELECT id, email, name, status, token, subscribed_at, unsubscribed_at FROM newsletter_subscriber`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new subscriber store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Subscriber.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Subscriber, error) {
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx, selectSubscriber+" WHERE id = ?", id).Scan)
	return sub, storage.NotFound(err, "subscriber")
}

// GetByEmail retrieves a Subscriber by normalised address.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx, selectSubscriber+" WHERE email = ?", domain.NormalizeEmail(email)).Scan)
	return sub, storage.NotFound(err, "subscriber")
}

// GetByToken retrieves a Subscriber by unsubscribe token.
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (domain.Subscriber, error) {
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx, selectSubscriber+" WHERE token = ?", token).Scan)
	return sub, storage.NotFound(err, "subscriber")
}

// Save persists a Subscriber (insert or update). Email is stored normalised.
func (s *SQLiteStore) Save(ctx context.Context, sub domain.Subscriber) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO newsletter_subscriber (id, email, name, status, token, subscribed_at, unsubscribed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email=excluded.email, name=excluded.name, status=excluded.status,
			token=excluded.token, subscribed_at=excluded.subscribed_at, unsubscribed_at=excluded.unsubscribed_at`,
		sub.ID, domain.NormalizeEmail(sub.Email), sub.Name, sub.Status, sub.Token,
		storage.FormatTime(sub.SubscribedAt), storage.NullTime(sub.UnsubscribedAt))
	return err
}

// Delete removes a Subscriber entirely.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM newsletter_subscriber WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "subscriber")
}

// List returns subscribers, newest first.
func (s *SQLiteStore) List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error) {
	q := selectSubscriber
	var args []any
	if activeOnly {
		q += " WHERE status = ?"
		args = append(args, domain.StatusSubscribed)
	}
	q += " ORDER BY subscribed_at DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// CountActive returns the number of subscribed addresses.
func (s *SQLiteStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM newsletter_subscriber WHERE status = ?", domain.StatusSubscribed).Scan(&n)
	return n, err
}

func scanSubscriber(scan func(dest ...any) error) (domain.Subscriber, error) {
	var sub domain.Subscriber
	var subscribedAt string
	var unsubscribedAt sql.NullString
	if err := scan(&sub.ID, &sub.Email, &sub.Name, &sub.Status, &sub.Token, &subscribedAt, &unsubscribedAt); err != nil {
		return domain.Subscriber{}, err
	}
	sub.SubscribedAt = storage.ParseTime(subscribedAt)
	sub.UnsubscribedAt = storage.ParseNullTime(unsubscribedAt)
	return sub, nil
}
