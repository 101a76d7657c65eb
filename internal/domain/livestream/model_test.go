package livestream_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"churchsite/internal/domain/livestream"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/12345", "", false},
		{"short", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := livestream.ExtractVideoID(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStream_ValidateNormalises(t *testing.T) {
	s := livestream.Stream{Title: "Sunday Live", VideoID: "https://youtu.be/dQw4w9WgXcQ"}
	assert.NoError(t, s.Validate())
	assert.Equal(t, "dQw4w9WgXcQ", s.VideoID)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", s.EmbedURL())
}

func TestCurrent(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	soon, later, past := now.Add(time.Hour), now.Add(48*time.Hour), now.Add(-time.Hour)

	s, ok := livestream.Current([]livestream.Stream{
		{ID: "later", ScheduledAt: &later},
		{ID: "past", ScheduledAt: &past},
		{ID: "soon", ScheduledAt: &soon},
	}, now)
	assert.True(t, ok)
	assert.Equal(t, "soon", s.ID)

	s, _ = livestream.Current([]livestream.Stream{{ID: "soon", ScheduledAt: &soon}, {ID: "live", IsLive: true}}, now)
	assert.Equal(t, "live", s.ID)

	_, ok = livestream.Current([]livestream.Stream{{ID: "past", ScheduledAt: &past}}, now)
	assert.False(t, ok)
}
