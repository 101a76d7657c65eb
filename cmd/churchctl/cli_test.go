package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchsite/internal/adapters/apiclient"
	"churchsite/internal/application/projections"
	"churchsite/internal/domain/account"
	"churchsite/internal/domain/campaign"
	"churchsite/internal/domain/event"
	"churchsite/internal/domain/menu"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

// setup points the global flags at a fake site and a throwaway session file.
func setup(t *testing.T) *int {
	t.Helper()
	deletes := new(int)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token":     "tok-1",
			"user":      account.User{ID: "u1", Username: "deacon", Role: account.RoleEditor},
			"expiresAt": time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(account.User{ID: "u1", Username: "deacon", Email: "deacon@grace.example.org", Role: account.RoleEditor})
	})
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]event.Event{
			{ID: "e1", Title: "Harvest Supper", Date: "2026-10-30", Time: "18:00", MaxAttendees: intPtr(40), CurrentAttendees: intPtr(12)},
			{ID: "e2", Title: "Prayer Walk", Date: "2026-11-02", Time: "07:30"},
		})
	})
	mux.HandleFunc("DELETE /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		*deletes++
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/campaigns/cards", func(w http.ResponseWriter, r *http.Request) {
		now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
		json.NewEncoder(w).Encode([]projections.CampaignCard{
			projections.NewCampaignCard(campaign.Campaign{ID: "c1", Title: "Roof Fund", Goal: "200", Raised: "50", EndDate: "2026-10-20"}, time.UTC, now),
			projections.NewCampaignCard(campaign.Campaign{ID: "c2", Title: "Hymnals", Goal: "0", Raised: "10", EndDate: "2026-12-01"}, time.UTC, now),
		})
	})
	mux.HandleFunc("GET /api/navigation", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(menu.Compose([]menu.Item{
			{ID: "1", Title: "Home", URL: "/", Order: intPtr(1), IsActive: true},
			{ID: "2", Title: "Ministries", URL: "/ministries", Order: intPtr(2), IsActive: true},
			{ID: "3", Title: "Youth", URL: "/youth", ParentID: strPtr("2"), IsActive: true},
		}))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	serverURL = srv.URL
	sessionPath = filepath.Join(t.TempDir(), "session.json")
	timeout = 5 * time.Second
	cacheTTL = time.Minute
	loginUser, loginPassword = "", ""
	eventCategory = ""
	return deletes
}

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	err := fn(cmd, args)
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	setup(t)

	_, err := run(t, runWhoami)
	assert.ErrorIs(t, err, apiclient.ErrNoSession)

	loginUser, loginPassword = "deacon", "correct-horse-battery"
	out, err := run(t, runLogin)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as deacon (editor)")

	sess, err := apiclient.LoadSession(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)

	out, err = run(t, runWhoami)
	require.NoError(t, err)
	assert.Contains(t, out, "deacon (editor)")
	assert.Contains(t, out, "deacon@grace.example.org")

	out, err = run(t, runLogout)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	_, err = apiclient.LoadSession(sessionPath)
	assert.ErrorIs(t, err, apiclient.ErrNoSession)
}

func TestWhoami_ServerRejectsToken(t *testing.T) {
	setup(t)
	require.NoError(t, apiclient.Session{Token: "stale"}.Save(sessionPath))

	_, err := run(t, runWhoami)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
	_, err = apiclient.LoadSession(sessionPath)
	assert.ErrorIs(t, err, apiclient.ErrNoSession, "rejected session file should be removed")
}

func TestLogin_ReadsPasswordFromStdin(t *testing.T) {
	setup(t)
	loginUser = "deacon"
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("correct-horse-battery\n"))
	require.NoError(t, runLogin(cmd, nil))
	assert.Contains(t, out.String(), "Password: ")
}

func TestEventsListAndDelete(t *testing.T) {
	deletes := setup(t)

	out, err := run(t, runEventsList)
	require.NoError(t, err)
	assert.Contains(t, out, "Harvest Supper")
	assert.Contains(t, out, "12/40")
	assert.Contains(t, out, "Prayer Walk")

	_, err = run(t, runEventsDelete, "e1")
	assert.ErrorIs(t, err, apiclient.ErrNoSession, "delete needs a login")

	require.NoError(t, apiclient.Session{Token: "tok-1"}.Save(sessionPath))
	out, err = run(t, runEventsDelete, "e1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted event e1")
	assert.Equal(t, 1, *deletes)
}

func TestCampaignsList(t *testing.T) {
	setup(t)
	out, err := run(t, runCampaignsList)
	require.NoError(t, err)
	assert.Contains(t, out, "Roof Fund")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "4 days left")
	assert.Contains(t, out, "No goal set.")
}

func TestMenuTree(t *testing.T) {
	setup(t)
	out, err := run(t, runMenuTree)
	require.NoError(t, err)
	assert.Equal(t, "Home  /\nMinistries  /ministries\n  - Youth  /youth\n", out)
}

func TestExpiredSessionIsDiscarded(t *testing.T) {
	setup(t)
	require.NoError(t, apiclient.Session{Token: "tok-1", ExpiresAt: time.Now().Add(-time.Minute)}.Save(sessionPath))
	_, sess, err := newClient()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
	_, err = apiclient.LoadSession(sessionPath)
	assert.ErrorIs(t, err, apiclient.ErrNoSession)
}
