package hero

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle    = errors.New("slide title cannot be empty")
	ErrTitleTooLong  = errors.New("slide title cannot exceed 150 characters")
	ErrEmptyImage    = errors.New("slide image url cannot be empty")
	ErrCTAIncomplete = errors.New("slide button needs both a label and a link")
)

// Slide is one frame of the home page carousel.
type Slide struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Title     string    `json:"title" yaml:"title,omitempty"`
	Subtitle  string    `json:"subtitle" yaml:"subtitle,omitempty"`
	ImageURL  string    `json:"imageUrl" yaml:"imageUrl,omitempty"`
	CTALabel  string    `json:"ctaLabel,omitempty" yaml:"ctaLabel,omitempty"`
	CTALink   string    `json:"ctaLink,omitempty" yaml:"ctaLink,omitempty"`
	Order     int       `json:"order" yaml:"order,omitempty"`
	IsActive  bool      `json:"isActive" yaml:"isActive,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks if the Slide has valid data.
// PRE: Slide struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Slide) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if len(s.Title) > 150 {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(s.ImageURL) == "" {
		return ErrEmptyImage
	}
	if (s.CTALabel == "") != (s.CTALink == "") {
		return ErrCTAIncomplete
	}
	return nil
}

// HasCTA reports whether the slide renders a button.
func (s *Slide) HasCTA() bool {
	return s.CTALabel != "" && s.CTALink != ""
}

// Carousel returns the active slides in display order.
func Carousel(slides []Slide) []Slide {
	out := make([]Slide, 0, len(slides))
	for _, s := range slides {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
