package event_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchsite/internal/domain/event"
)

var chicago = mustLoad("America/Chicago")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// startsAt is 2026-11-01 10:30 in Chicago.
var startsAt = time.Date(2026, 11, 1, 10, 30, 0, 0, chicago)

// TestCheckEligibility_States walks the three windows around the start instant.
func TestCheckEligibility_States(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		want       event.State
		wantPast   bool
		wantClosed bool
	}{
		{"a week before", startsAt.Add(-7 * 24 * time.Hour), event.StateOpen, false, false},
		{"one second before deadline", startsAt.Add(-event.RegistrationWindow - time.Second), event.StateOpen, false, false},
		{"exactly at deadline", startsAt.Add(-event.RegistrationWindow), event.StateRegistrationClosed, false, true},
		{"an hour before start", startsAt.Add(-time.Hour), event.StateRegistrationClosed, false, true},
		{"exactly at start", startsAt, event.StateEventConcluded, true, true},
		{"a day after", startsAt.Add(24 * time.Hour), event.StateEventConcluded, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := event.CheckEligibility("2026-11-01", "10:30", chicago, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, el.State)
			assert.Equal(t, tt.wantPast, el.IsPast)
			assert.Equal(t, tt.wantClosed, el.IsRegistrationClosed)
			assert.True(t, el.StartsAt.Equal(startsAt))
			assert.True(t, el.Deadline.Equal(startsAt.Add(-24*time.Hour)))
		})
	}
}

// TestCheckEligibility_ConcludedTakesPrecedence verifies a past event never reports "closed".
func TestCheckEligibility_ConcludedTakesPrecedence(t *testing.T) {
	el, err := event.CheckEligibility("2026-11-01", "10:30", chicago, startsAt.Add(48*time.Hour))
	require.NoError(t, err)
	assert.True(t, el.IsRegistrationClosed)
	assert.Equal(t, event.StateEventConcluded, el.State)
	assert.Equal(t, "This event has already happened.", el.Message())
	assert.ErrorIs(t, el.Err(), event.ErrEventConcluded)
}

// TestCheckEligibility_Unparseable verifies invalid input fails explicitly instead of reading as open.
func TestCheckEligibility_Unparseable(t *testing.T) {
	inputs := []struct{ date, clock string }{
		{"", "10:30"},
		{"2026-11-01", ""},
		{"next sunday", "10:30"},
		{"2026-13-40", "10:30"},
		{"2026-11-01", "25:99"},
	}
	for _, in := range inputs {
		el, err := event.CheckEligibility(in.date, in.clock, chicago, startsAt.Add(-30*24*time.Hour))
		if !errors.Is(err, event.ErrUnparseableDateTime) {
			t.Errorf("CheckEligibility(%q, %q) err = %v, want ErrUnparseableDateTime", in.date, in.clock, err)
		}
		assert.Equal(t, event.StateUnavailable, el.State)
		assert.False(t, el.AcceptsRegistrations())
	}
}

// TestCheckEligibility_TimezoneIsExplicit verifies the church location drives the instant, not the viewer's.
func TestCheckEligibility_TimezoneIsExplicit(t *testing.T) {
	// 10:30 in Chicago is 15:30 or 16:30 UTC depending on DST; in November (CST) it's 16:30.
	now := time.Date(2026, 10, 31, 16, 29, 0, 0, time.UTC)
	el, err := event.CheckEligibility("2026-11-01", "10:30", chicago, now)
	require.NoError(t, err)
	assert.Equal(t, event.StateOpen, el.State)

	el, err = event.CheckEligibility("2026-11-01", "10:30", time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, event.StateRegistrationClosed, el.State)
}

// TestParseInstant_Seconds verifies HH:MM:SS is accepted as well as HH:MM.
func TestParseInstant_Seconds(t *testing.T) {
	got, err := event.ParseInstant("2026-11-01", "10:30:15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Second())
}
