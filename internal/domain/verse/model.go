package verse

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyText      = errors.New("verse text cannot be empty")
	ErrEmptyReference = errors.New("verse reference cannot be empty")
)

// DefaultTranslation is shown when a verse has none recorded.
const DefaultTranslation = "NIV"

// Verse is a scripture passage eligible for "verse of the day".
type Verse struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	Text        string    `json:"text" yaml:"text,omitempty"`
	Reference   string    `json:"reference" yaml:"reference,omitempty"` // e.g. "John 3:16"
	Translation string    `json:"translation,omitempty" yaml:"translation,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
}

// Validate checks if the Verse has valid data.
// PRE: Verse struct is populated
// POST: Returns nil if valid, error otherwise
func (v *Verse) Validate() error {
	if strings.TrimSpace(v.Text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(v.Reference) == "" {
		return ErrEmptyReference
	}
	return nil
}

// Citation returns "Reference (Translation)".
func (v *Verse) Citation() string {
	tr := v.Translation
	if tr == "" {
		tr = DefaultTranslation
	}
	return v.Reference + " (" + tr + ")"
}

// ForDay picks the verse of the day. The choice depends only on the calendar
// date of day and the set of verse IDs, so every visitor on the same date sees
// the same verse regardless of list order.
// POST: ok is false when verses is empty
func ForDay(verses []Verse, day time.Time) (Verse, bool) {
	if len(verses) == 0 {
		return Verse{}, false
	}
	sorted := make([]Verse, len(verses))
	copy(sorted, verses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	y, m, d := day.Date()
	ordinal := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return sorted[int(ordinal%int64(len(sorted)))], true
}
