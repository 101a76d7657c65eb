package schedule

import (
	"context"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/schedule"
)

const selectService = `SELECT id, name, description, day, start_time, end_time, location, icon, sort_order, created_at, updated_at FROM service_schedule`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new schedule store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Service.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx, selectService+" WHERE id = ?", id).Scan)
	return svc, storage.NotFound(err, "service")
}

// Save persists a Service (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, svc domain.Service) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_schedule (id, name, description, day, start_time, end_time, location, icon, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description, day=excluded.day,
			start_time=excluded.start_time, end_time=excluded.end_time, location=excluded.location,
			icon=excluded.icon, sort_order=excluded.sort_order, updated_at=excluded.updated_at`,
		svc.ID, svc.Name, svc.Description, svc.Day, svc.StartTime, svc.EndTime, svc.Location, svc.Icon, svc.Order,
		storage.FormatTime(svc.CreatedAt), storage.FormatTime(svc.UpdatedAt))
	return err
}

// Delete removes a Service.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM service_schedule WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "service")
}

// List returns services in week order, Sunday first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.db.QueryContext(ctx, selectService)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		svc, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	domain.SortWeekly(out)
	return out, nil
}

func scanService(scan func(dest ...any) error) (domain.Service, error) {
	var svc domain.Service
	var createdAt, updatedAt string
	if err := scan(&svc.ID, &svc.Name, &svc.Description, &svc.Day, &svc.StartTime, &svc.EndTime,
		&svc.Location, &svc.Icon, &svc.Order, &createdAt, &updatedAt); err != nil {
		return domain.Service{}, err
	}
	svc.CreatedAt = storage.ParseTime(createdAt)
	svc.UpdatedAt = storage.ParseTime(updatedAt)
	return svc, nil
}
