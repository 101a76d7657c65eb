package menu

import (
	"context"
	"database/sql"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/menu"
)

const selectItem = `SELECT id, title, url, parent_id, sort_order, is_active FROM menu_item`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new menu store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a menu Item.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, selectItem+" WHERE id = ?", id).Scan)
	return it, storage.NotFound(err, "menu item")
}

// Save persists an Item (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, it domain.Item) error {
	var parent, order any
	if !it.IsRoot() {
		parent = *it.ParentID
	}
	if it.Order != nil {
		order = *it.Order
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_item (id, title, url, parent_id, sort_order, is_active) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, url=excluded.url, parent_id=excluded.parent_id,
			sort_order=excluded.sort_order, is_active=excluded.is_active`,
		it.ID, it.Title, it.URL, parent, order, storage.Bool(it.IsActive))
	return err
}

// Delete removes an Item. Its children become orphans and drop out of the tree.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM menu_item WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "menu item")
}

// List returns every item in insertion order, which Compose uses to break order ties.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItem+" ORDER BY rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanItem(scan func(dest ...any) error) (domain.Item, error) {
	var it domain.Item
	var parent sql.NullString
	var order sql.NullInt64
	var active int
	if err := scan(&it.ID, &it.Title, &it.URL, &parent, &order, &active); err != nil {
		return domain.Item{}, err
	}
	if parent.Valid && parent.String != "" {
		p := parent.String
		it.ParentID = &p
	}
	if order.Valid {
		o := int(order.Int64)
		it.Order = &o
	}
	it.IsActive = active == 1
	return it, nil
}
