package livestream

import (
	"context"
	"database/sql"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/livestream"
)

const selectStream = `SELECT id, title, description, video_id, scheduled_at, is_live, created_at, updated_at FROM live_stream`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new stream store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Stream.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Stream, error) {
	st, err := scanStream(s.db.QueryRowContext(ctx, selectStream+" WHERE id = ?", id).Scan)
	return st, storage.NotFound(err, "stream")
}

// Save persists a Stream (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, st domain.Stream) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO live_stream (id, title, description, video_id, scheduled_at, is_live, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, description=excluded.description, video_id=excluded.video_id,
			scheduled_at=excluded.scheduled_at, is_live=excluded.is_live, updated_at=excluded.updated_at`,
		st.ID, st.Title, st.Description, st.VideoID, storage.NullTime(st.ScheduledAt), storage.Bool(st.IsLive),
		storage.FormatTime(st.CreatedAt), storage.FormatTime(st.UpdatedAt))
	return err
}

// Delete removes a Stream.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM live_stream WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "stream")
}

// List returns streams, live first, then by schedule.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Stream, error) {
	rows, err := s.db.QueryContext(ctx, selectStream+" ORDER BY is_live DESC, scheduled_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Stream
	for rows.Next() {
		st, err := scanStream(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanStream(scan func(dest ...any) error) (domain.Stream, error) {
	var st domain.Stream
	var scheduledAt sql.NullString
	var live int
	var createdAt, updatedAt string
	if err := scan(&st.ID, &st.Title, &st.Description, &st.VideoID, &scheduledAt, &live, &createdAt, &updatedAt); err != nil {
		return domain.Stream{}, err
	}
	st.ScheduledAt = storage.ParseNullTime(scheduledAt)
	st.IsLive = live == 1
	st.CreatedAt = storage.ParseTime(createdAt)
	st.UpdatedAt = storage.ParseTime(updatedAt)
	return st, nil
}
