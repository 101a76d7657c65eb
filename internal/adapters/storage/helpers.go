package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NullTime renders an optional timestamp; zero and nil become SQL NULL.
func NullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return FormatTime(*t)
}

// ParseTime reads a stored timestamp. Unreadable values yield the zero time.
func ParseTime(s string) time.Time {
	for _, layout := range []string{TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseNullTime reads an optional timestamp column.
func ParseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := ParseTime(ns.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

// NotFound converts sql.ErrNoRows into ErrNotFound naming the missing entity.
// Other errors pass through unchanged.
func NotFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w: %w", entity, ErrNotFound, err)
	}
	return err
}

// RequireAffected returns ErrNotFound when an update or delete touched no rows.
func RequireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return nil
}

// Bool stores a boolean as 0/1.
func Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}
