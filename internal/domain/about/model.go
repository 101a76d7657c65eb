package about

import (
	"errors"
	"strings"
	"time"

	"churchsite/internal/domain/icon"
)

// Domain errors
var (
	ErrEmptyHeading   = errors.New("about heading cannot be empty")
	ErrHeadingTooLong = errors.New("about heading cannot exceed 150 characters")
	ErrEmptyBody      = errors.New("about body cannot be empty")
)

// Section is a block of the "who we are" content (mission, beliefs, leadership).
type Section struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Heading   string    `json:"heading" yaml:"heading,omitempty"`
	Body      string    `json:"body" yaml:"body,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Icon      string    `json:"icon" yaml:"icon,omitempty"`
	Order     int       `json:"order" yaml:"order,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks if the Section has valid data.
// PRE: Section struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Section) Validate() error {
	if strings.TrimSpace(s.Heading) == "" {
		return ErrEmptyHeading
	}
	if len(s.Heading) > 150 {
		return ErrHeadingTooLong
	}
	if strings.TrimSpace(s.Body) == "" {
		return ErrEmptyBody
	}
	return nil
}

// Glyph returns the icon drawn beside the heading.
func (s *Section) Glyph() icon.Icon {
	return icon.Parse(s.Icon)
}
