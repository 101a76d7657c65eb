package verse

import (
	"context"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/verse"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new verse store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Verse.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Verse, error) {
	var v domain.Verse
	var createdAt string
	err := s.db.QueryRowContext(ctx, `SELECT id, text, reference, translation, created_at FROM verse WHERE id = ?`, id).
		Scan(&v.ID, &v.Text, &v.Reference, &v.Translation, &createdAt)
	if err != nil {
		return domain.Verse{}, storage.NotFound(err, "verse")
	}
	v.CreatedAt = storage.ParseTime(createdAt)
	return v, nil
}

// Save persists a Verse (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, v domain.Verse) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verse (id, text, reference, translation, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text=excluded.text, reference=excluded.reference, translation=excluded.translation`,
		v.ID, v.Text, v.Reference, v.Translation, storage.FormatTime(v.CreatedAt))
	return err
}

// Delete removes a Verse.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM verse WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "verse")
}

// List returns the whole pool.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Verse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, reference, translation, created_at FROM verse ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Verse
	for rows.Next() {
		var v domain.Verse
		var createdAt string
		if err := rows.Scan(&v.ID, &v.Text, &v.Reference, &v.Translation, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt = storage.ParseTime(createdAt)
		out = append(out, v)
	}
	return out, rows.Err()
}
