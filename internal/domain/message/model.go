package message

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("message title cannot be empty")
	ErrTitleTooLong = errors.New("message title cannot exceed 200 characters")
	ErrEmptySpeaker = errors.New("message speaker cannot be empty")
	ErrInvalidDate  = errors.New("message date must be YYYY-MM-DD")
	ErrInvalidVideo = errors.New("message video url must be an absolute http(s) url")
	ErrNotesTooLong = errors.New("message notes cannot exceed 50000 characters")
)

// Message is a preached sermon with optional recording and notes (markdown).
type Message struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Title     string    `json:"title" yaml:"title,omitempty"`
	Speaker   string    `json:"speaker" yaml:"speaker,omitempty"`
	Scripture string    `json:"scripture,omitempty" yaml:"scripture,omitempty"`
	Series    string    `json:"series,omitempty" yaml:"series,omitempty"`
	Date      string    `json:"date" yaml:"date,omitempty"` // YYYY-MM-DD
	VideoURL  string    `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	AudioURL  string    `json:"audioUrl,omitempty" yaml:"audioUrl,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if len(m.Title) > 200 {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(m.Speaker) == "" {
		return ErrEmptySpeaker
	}
	if _, err := time.Parse("2006-01-02", m.Date); err != nil {
		return ErrInvalidDate
	}
	if m.VideoURL != "" && !isHTTPURL(m.VideoURL) {
		return ErrInvalidVideo
	}
	if len(m.Notes) > 50000 {
		return ErrNotesTooLong
	}
	return nil
}

// Latest returns up to n messages, newest preached first.
func Latest(messages []Message, n int) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
