package about

import (
	"context"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/about"
)

const selectSection = `SELECT id, heading, body, image_url, icon, sort_order, created_at, updated_at FROM about_section`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new about store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Section.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Section, error) {
	sec, err := scanSection(s.db.QueryRowContext(ctx, selectSection+" WHERE id = ?", id).Scan)
	return sec, storage.NotFound(err, "about section")
}

// Save persists a Section (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, sec domain.Section) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO about_section (id, heading, body, image_url, icon, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET heading=excluded.heading, body=excluded.body, image_url=excluded.image_url,
			icon=excluded.icon, sort_order=excluded.sort_order, updated_at=excluded.updated_at`,
		sec.ID, sec.Heading, sec.Body, sec.ImageURL, sec.Icon, sec.Order,
		storage.FormatTime(sec.CreatedAt), storage.FormatTime(sec.UpdatedAt))
	return err
}

// Delete removes a Section.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM about_section WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "about section")
}

// List returns sections in display order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Section, error) {
	rows, err := s.db.QueryContext(ctx, selectSection+" ORDER BY sort_order ASC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Section
	for rows.Next() {
		sec, err := scanSection(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func scanSection(scan func(dest ...any) error) (domain.Section, error) {
	var sec domain.Section
	var createdAt, updatedAt string
	if err := scan(&sec.ID, &sec.Heading, &sec.Body, &sec.ImageURL, &sec.Icon, &sec.Order, &createdAt, &updatedAt); err != nil {
		return domain.Section{}, err
	}
	sec.CreatedAt = storage.ParseTime(createdAt)
	sec.UpdatedAt = storage.ParseTime(updatedAt)
	return sec, nil
}
