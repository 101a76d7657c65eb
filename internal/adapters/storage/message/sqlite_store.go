package message

import (
	"context"
	"strings"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/message"
)

const selectMessage = `SELECT id, title, speaker, scripture, series, date, video_url, audio_url, notes, image_url, created_at, updated_at FROM message`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new message store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Message.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, selectMessage+" WHERE id = ?", id).Scan)
	return m, storage.NotFound(err, "message")
}

// Save persists a Message (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message (id, title, speaker, scripture, series, date, video_url, audio_url, notes, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, speaker=excluded.speaker, scripture=excluded.scripture,
			series=excluded.series, date=excluded.date, video_url=excluded.video_url, audio_url=excluded.audio_url,
			notes=excluded.notes, image_url=excluded.image_url, updated_at=excluded.updated_at`,
		m.ID, m.Title, m.Speaker, m.Scripture, m.Series, m.Date, m.VideoURL, m.AudioURL, m.Notes, m.ImageURL,
		storage.FormatTime(m.CreatedAt), storage.FormatTime(m.UpdatedAt))
	return err
}

// Delete removes a Message.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM message WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "message")
}

// List returns messages newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Message, error) {
	var q strings.Builder
	var args []any
	q.WriteString(selectMessage)
	if filter.Series != "" {
		q.WriteString(" WHERE series = ?")
		args = append(args, filter.Series)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	q.WriteString(" ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?")
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of messages.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM message").Scan(&n)
	return n, err
}

func scanMessage(scan func(dest ...any) error) (domain.Message, error) {
	var m domain.Message
	var createdAt, updatedAt string
	if err := scan(&m.ID, &m.Title, &m.Speaker, &m.Scripture, &m.Series, &m.Date, &m.VideoURL, &m.AudioURL,
		&m.Notes, &m.ImageURL, &createdAt, &updatedAt); err != nil {
		return domain.Message{}, err
	}
	m.CreatedAt = storage.ParseTime(createdAt)
	m.UpdatedAt = storage.ParseTime(updatedAt)
	return m, nil
}
