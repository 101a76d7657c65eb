package hero

import (
	"context"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/hero"
)

const selectSlide = `SELECT id, title, subtitle, image_url, cta_label, cta_link, sort_order, is_active, created_at, updated_at FROM hero_slide`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new slide store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Slide.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Slide, error) {
	sl, err := scanSlide(s.db.QueryRowContext(ctx, selectSlide+" WHERE id = ?", id).Scan)
	return sl, storage.NotFound(err, "hero slide")
}

// Save persists a Slide (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, sl domain.Slide) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hero_slide (id, title, subtitle, image_url, cta_label, cta_link, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, subtitle=excluded.subtitle, image_url=excluded.image_url,
			cta_label=excluded.cta_label, cta_link=excluded.cta_link, sort_order=excluded.sort_order,
			is_active=excluded.is_active, updated_at=excluded.updated_at`,
		sl.ID, sl.Title, sl.Subtitle, sl.ImageURL, sl.CTALabel, sl.CTALink, sl.Order, storage.Bool(sl.IsActive),
		storage.FormatTime(sl.CreatedAt), storage.FormatTime(sl.UpdatedAt))
	return err
}

// Delete removes a Slide.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM hero_slide WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "hero slide")
}

// List returns all slides, active or not, in display order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Slide, error) {
	rows, err := s.db.QueryContext(ctx, selectSlide+" ORDER BY sort_order ASC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Slide
	for rows.Next() {
		sl, err := scanSlide(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func scanSlide(scan func(dest ...any) error) (domain.Slide, error) {
	var sl domain.Slide
	var active int
	var createdAt, updatedAt string
	if err := scan(&sl.ID, &sl.Title, &sl.Subtitle, &sl.ImageURL, &sl.CTALabel, &sl.CTALink, &sl.Order, &active, &createdAt, &updatedAt); err != nil {
		return domain.Slide{}, err
	}
	sl.IsActive = active == 1
	sl.CreatedAt = storage.ParseTime(createdAt)
	sl.UpdatedAt = storage.ParseTime(updatedAt)
	return sl, nil
}
