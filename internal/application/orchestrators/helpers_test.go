package orchestrators

import (
	"context"
	"testing"
	"time"

	"churchsite/internal/adapters/storage/outbox"
	"churchsite/internal/adapters/storage/storagetest"
	emailDomain "churchsite/internal/domain/email"
	domainOutbox "churchsite/internal/domain/outbox"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time { return func() time.Time { return t } }

func intPtr(n int) *int { return &n }

// queuedEmails decodes every pending email in the outbox.
func queuedEmails(t *testing.T, store *outbox.SQLiteStore) []emailDomain.Message {
	t.Helper()
	entries, err := store.ListPending(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	var out []emailDomain.Message
	for _, e := range entries {
		if e.ActionType != domainOutbox.ActionTypeEmail {
			continue
		}
		m, err := emailDomain.Decode(e.Payload)
		if err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func newOutbox(t *testing.T) *outbox.SQLiteStore {
	return outbox.NewSQLiteStore(storagetest.Open(t))
}
