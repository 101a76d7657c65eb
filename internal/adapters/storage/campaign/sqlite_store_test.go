package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchsite/internal/adapters/storage"
	store "churchsite/internal/adapters/storage/campaign"
	"churchsite/internal/adapters/storage/storagetest"
	domain "churchsite/internal/domain/campaign"
)

func TestSQLiteStore_CompleteDonation(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Save(ctx, domain.Campaign{ID: "c1", Title: "Roof", Goal: "1000", Raised: "100.10", EndDate: "2027-01-01", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, s.CreateDonation(ctx, store.Donation{ID: "d1", CampaignID: "c1", Amount: "25", Currency: "usd", CheckoutSessionID: "cs_test_1"}))

	c, applied, err := s.CompleteDonation(ctx, "cs_test_1", "25.20")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "125.30", c.Raised)

	// replayed webhook
	c, applied, err = s.CompleteDonation(ctx, "cs_test_1", "25.20")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "125.30", c.Raised)

	stored, err := s.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "125.30", stored.Raised)

	_, _, err = s.CompleteDonation(ctx, "cs_unknown", "5")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLiteStore_ListOrdersByEndDate(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()
	for _, c := range []domain.Campaign{
		{ID: "b", Title: "Missions", Goal: "10", EndDate: "2027-06-01"},
		{ID: "a", Title: "Roof", Goal: "10", EndDate: "2026-12-01"},
	} {
		require.NoError(t, s.Save(ctx, c))
	}
	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "0", got[0].Raised, "blank raised is stored as zero")
}
