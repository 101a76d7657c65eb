package testimonial

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyAuthor    = errors.New("testimonial author cannot be empty")
	ErrEmptyQuote     = errors.New("testimonial quote cannot be empty")
	ErrQuoteTooLong   = errors.New("testimonial quote cannot exceed 2000 characters")
	ErrRatingOutRange = errors.New("rating must be between 1 and 5")
)

// Testimonial is a member's story shown on the home page and the testimonials page.
type Testimonial struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Author    string    `json:"author" yaml:"author,omitempty"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"` // e.g. "Member since 2015"
	Quote     string    `json:"quote" yaml:"quote,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Rating    int       `json:"rating,omitempty" yaml:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks if the Testimonial has valid data. A zero rating means unrated.
// PRE: Testimonial struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Testimonial) Validate() error {
	if strings.TrimSpace(t.Author) == "" {
		return ErrEmptyAuthor
	}
	if strings.TrimSpace(t.Quote) == "" {
		return ErrEmptyQuote
	}
	if len(t.Quote) > 2000 {
		return ErrQuoteTooLong
	}
	if t.Rating < 0 || t.Rating > 5 {
		return ErrRatingOutRange
	}
	return nil
}

// Initials returns up to two initials for the avatar placeholder.
func (t *Testimonial) Initials() string {
	var b strings.Builder
	for _, f := range strings.Fields(t.Author) {
		b.WriteString(strings.ToUpper(f[:1]))
		if b.Len() == 2 {
			break
		}
	}
	return b.String()
}
