package livestream

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle     = errors.New("stream title cannot be empty")
	ErrInvalidVideoID = errors.New("stream needs a valid YouTube video id or url")
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Stream is a scheduled or running YouTube broadcast.
type Stream struct {
	ID          string     `json:"id" yaml:"id,omitempty"`
	Title       string     `json:"title" yaml:"title,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	VideoID     string     `json:"videoId" yaml:"videoId,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty" yaml:"scheduledAt,omitempty"`
	IsLive      bool       `json:"isLive" yaml:"isLive,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate normalises VideoID from a pasted URL and checks the record.
// PRE: Stream struct is populated
// POST: Returns nil if valid, error otherwise; VideoID holds a bare id
func (s *Stream) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	id, ok := ExtractVideoID(s.VideoID)
	if !ok {
		return ErrInvalidVideoID
	}
	s.VideoID = id
	return nil
}

// EmbedURL returns the privacy-enhanced iframe source.
func (s *Stream) EmbedURL() string {
	return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(s.VideoID)
}

// IsUpcoming reports whether the stream is scheduled in the future and not yet live.
func (s *Stream) IsUpcoming(now time.Time) bool {
	return !s.IsLive && s.ScheduledAt != nil && s.ScheduledAt.After(now)
}

// ExtractVideoID accepts a bare id or a youtube.com/watch, youtu.be, /live/ or /embed/ URL.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) == 2 && (parts[0] == "live" || parts[0] == "embed") {
				id = parts[1]
			}
		}
	}
	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// Current picks the stream to feature: a live one if any, else the next upcoming.
func Current(streams []Stream, now time.Time) (Stream, bool) {
	var next *Stream
	for i := range streams {
		s := &streams[i]
		if s.IsLive {
			return *s, true
		}
		if s.IsUpcoming(now) && (next == nil || s.ScheduledAt.Before(*next.ScheduledAt)) {
			next = s
		}
	}
	if next == nil {
		return Stream{}, false
	}
	return *next, true
}
