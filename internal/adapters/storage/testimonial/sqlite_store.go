package testimonial

import (
	"context"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/testimonial"
)

const selectTestimonial = `SELECT id, author, role, quote, image_url, rating, created_at, updated_at FROM testimonial`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new testimonial store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Testimonial.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Testimonial, error) {
	tm, err := scanTestimonial(s.db.QueryRowContext(ctx, selectTestimonial+" WHERE id = ?", id).Scan)
	return tm, storage.NotFound(err, "testimonial")
}

// Save persists a Testimonial (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, tm domain.Testimonial) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO testimonial (id, author, role, quote, image_url, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET author=excluded.author, role=excluded.role, quote=excluded.quote,
			image_url=excluded.image_url, rating=excluded.rating, updated_at=excluded.updated_at`,
		tm.ID, tm.Author, tm.Role, tm.Quote, tm.ImageURL, tm.Rating,
		storage.FormatTime(tm.CreatedAt), storage.FormatTime(tm.UpdatedAt))
	return err
}

// Delete removes a Testimonial.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM testimonial WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "testimonial")
}

// List returns every testimonial, newest first. Pagination happens after fetch.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, selectTestimonial+" ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Testimonial
	for rows.Next() {
		tm, err := scanTestimonial(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tm)
	}
	return out, rows.Err()
}

// Count returns the number of testimonials.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM testimonial").Scan(&n)
	return n, err
}

func scanTestimonial(scan func(dest ...any) error) (domain.Testimonial, error) {
	var tm domain.Testimonial
	var createdAt, updatedAt string
	if err := scan(&tm.ID, &tm.Author, &tm.Role, &tm.Quote, &tm.ImageURL, &tm.Rating, &createdAt, &updatedAt); err != nil {
		return domain.Testimonial{}, err
	}
	tm.CreatedAt = storage.ParseTime(createdAt)
	tm.UpdatedAt = storage.ParseTime(updatedAt)
	return tm, nil
}
