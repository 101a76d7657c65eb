package event

import (
	"context"
	"database/sql"
	"strings"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/event"
)

const selectEvent = `SELECT id, title, description, date, time, location, category, image_url,
	max_attendees, current_attendees, created_at, updated_at FROM event`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Event by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, selectEvent+" WHERE id = ?", id).Scan)
	return e, storage.NotFound(err, "event")
}

// Save persists an Event (insert or update). On update the stored attendee
// count is kept; only Register changes it.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event (id, title, description, date, time, location, category, image_url,
			max_attendees, current_attendees, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, description=excluded.description, date=excluded.date,
			time=excluded.time, location=excluded.location, category=excluded.category,
			image_url=excluded.image_url, max_attendees=excluded.max_attendees,
			updated_at=excluded.updated_at`,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location, e.Category, e.ImageURL,
		nullInt(e.MaxAttendees), nullInt(e.CurrentAttendees),
		storage.FormatTime(e.CreatedAt), storage.FormatTime(e.UpdatedAt))
	return err
}

// Delete removes an Event and, by cascade, its registrations.
// POST: storage.ErrNotFound when no event had the id
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM event WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "event")
}

// List returns events in chronological order.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	var q strings.Builder
	var args []any
	q.WriteString(selectEvent)
	if filter.Category != "" {
		q.WriteString(" WHERE category = ?")
		args = append(args, filter.Category)
	}
	q.WriteString(" ORDER BY date ASC, time ASC LIMIT ? OFFSET ?")
	args = append(args, limitOrAll(filter.Limit), filter.Offset)
	return s.query(ctx, q.String(), args...)
}

// ListUpcoming returns events dated on or after fromDate (YYYY-MM-DD), soonest first.
// Same-day events that already started are included; eligibility decides what to show.
func (s *SQLiteStore) ListUpcoming(ctx context.Context, fromDate string, limit int) ([]domain.Event, error) {
	return s.query(ctx, selectEvent+" WHERE date >= ? ORDER BY date ASC, time ASC LIMIT ?", fromDate, limitOrAll(limit))
}

// Count returns the number of events.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n)
	return n, err
}

// Register records a registration and bumps the attendee count in one transaction.
// PRE: reg has been validated
// POST: returns the updated event; domain.ErrEventFull if capacity was reached,
// storage.ErrNotFound if the event does not exist
func (s *SQLiteStore) Register(ctx context.Context, reg domain.Registration) (domain.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Event{}, err
	}
	defer tx.Rollback()

	// The capacity check and increment are one statement so concurrent
	// registrations cannot both take the last spot.
	res, err := tx.ExecContext(ctx, `
		UPDATE event SET current_attendees = COALESCE(current_attendees, 0) + 1
		WHERE id = ? AND (max_attendees IS NULL OR COALESCE(current_attendees, 0) < max_attendees)`,
		reg.EventID)
	if err != nil {
		return domain.Event{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM event WHERE id = ?", reg.EventID).Scan(&exists); err != nil {
			return domain.Event{}, err
		}
		if exists == 0 {
			return domain.Event{}, storage.NotFound(sql.ErrNoRows, "event")
		}
		return domain.Event{}, domain.ErrEventFull
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO event_registration (id, event_id, name, email, phone, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.EventID, reg.Name, reg.Email, reg.Phone, reg.Notes, storage.FormatTime(reg.CreatedAt)); err != nil {
		return domain.Event{}, err
	}

	updated, err := scanEvent(tx.QueryRowContext(ctx, selectEvent+" WHERE id = ?", reg.EventID).Scan)
	if err != nil {
		return domain.Event{}, err
	}
	return updated, tx.Commit()
}

// ListRegistrations returns an event's registrations, earliest first.
func (s *SQLiteStore) ListRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, name, email, phone, notes, created_at
		FROM event_registration WHERE event_id = ? ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Registration
	for rows.Next() {
		var r domain.Registration
		var createdAt string
		if err := rows.Scan(&r.ID, &r.EventID, &r.Name, &r.Email, &r.Phone, &r.Notes, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = storage.ParseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRegistrations returns how many people registered for an event.
func (s *SQLiteStore) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event_registration WHERE event_id = ?", eventID).Scan(&n)
	return n, err
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var maxAttendees, current sql.NullInt64
	var createdAt, updatedAt string
	err := scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &e.Category, &e.ImageURL,
		&maxAttendees, &current, &createdAt, &updatedAt)
	if err != nil {
		return domain.Event{}, err
	}
	if maxAttendees.Valid {
		v := int(maxAttendees.Int64)
		e.MaxAttendees = &v
	}
	if current.Valid {
		v := int(current.Int64)
		e.CurrentAttendees = &v
	}
	e.CreatedAt = storage.ParseTime(createdAt)
	e.UpdatedAt = storage.ParseTime(updatedAt)
	return e, nil
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
