package post

import (
	"context"
	"database/sql"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/post"
)

const selectPost = `SELECT id, title, slug, excerpt, body, author, image_url, published, published_at, created_at, updated_at FROM post`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new post store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Post.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, selectPost+" WHERE id = ?", id).Scan)
	return p, storage.NotFound(err, "post")
}

// GetBySlug retrieves a Post by its URL slug.
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, selectPost+" WHERE slug = ?", slug).Scan)
	return p, storage.NotFound(err, "post")
}

// Save persists a Post (insert or update). Slugs are unique.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, p domain.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO post (id, title, slug, excerpt, body, author, image_url, published, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, slug=excluded.slug, excerpt=excluded.excerpt,
			body=excluded.body, author=excluded.author, image_url=excluded.image_url, published=excluded.published,
			published_at=excluded.published_at, updated_at=excluded.updated_at`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Body, p.Author, p.ImageURL, storage.Bool(p.Published),
		storage.NullTime(p.PublishedAt), storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt))
	return err
}

// Delete removes a Post.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM post WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "post")
}

// List returns posts, most recently published (or created) first.
func (s *SQLiteStore) List(ctx context.Context, publishedOnly bool) ([]domain.Post, error) {
	q := selectPost
	if publishedOnly {
		q += " WHERE published = 1"
	}
	q += " ORDER BY COALESCE(published_at, created_at) DESC"

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of posts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM post").Scan(&n)
	return n, err
}

func scanPost(scan func(dest ...any) error) (domain.Post, error) {
	var p domain.Post
	var published int
	var publishedAt sql.NullString
	var createdAt, updatedAt string
	if err := scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Author, &p.ImageURL, &published,
		&publishedAt, &createdAt, &updatedAt); err != nil {
		return domain.Post{}, err
	}
	p.Published = published == 1
	p.PublishedAt = storage.ParseNullTime(publishedAt)
	p.CreatedAt = storage.ParseTime(createdAt)
	p.UpdatedAt = storage.ParseTime(updatedAt)
	return p, nil
}
