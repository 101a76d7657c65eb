package projections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchsite/internal/domain/campaign"
)

func TestNewCampaignCard_States(t *testing.T) {
	tests := []struct {
		name      string
		c         campaign.Campaign
		wantState CampaignState
		percent   float64
	}{
		{"open", campaign.Campaign{Raised: "50", Goal: "200", EndDate: "2026-12-31"}, CampaignOpen, 25},
		{"over goal", campaign.Campaign{Raised: "900", Goal: "200", EndDate: "2026-12-31"}, CampaignOpen, 100},
		{"ended", campaign.Campaign{Raised: "50", Goal: "200", EndDate: "2026-10-01"}, CampaignClosed, 25},
		{"zero goal", campaign.Campaign{Raised: "50", Goal: "0", EndDate: "2026-12-31"}, CampaignNoGoal, 0},
		{"missing goal", campaign.Campaign{Raised: "50", EndDate: "2026-12-31"}, CampaignNoGoal, 0},
		{"bad end date", campaign.Campaign{Raised: "50", Goal: "200", EndDate: "Christmas"}, CampaignUnavailable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewCampaignCard(tt.c, central, now)
			assert.Equal(t, tt.wantState, card.State)
			assert.InDelta(t, tt.percent, card.Progress.Percent, 1e-9)
			assert.Equal(t, tt.wantState == CampaignOpen, card.CanDonate())
			if tt.wantState != CampaignOpen {
				assert.NotEmpty(t, card.Notice)
			}
		})
	}
}

func TestQueryGetCampaigns_OpenFirst(t *testing.T) {
	store := &mockCampaignStore{listMock[campaign.Campaign]{items: []campaign.Campaign{
		{ID: "old", Goal: "100", EndDate: "2026-01-01"},
		{ID: "broken", Goal: "", EndDate: "2026-12-31"},
		{ID: "roof", Goal: "100", EndDate: "2026-12-31"},
	}}}

	got, err := QueryGetCampaigns(context.Background(), GetCampaignsDeps{CampaignStore: store, Location: central}, now)
	require.NoError(t, err)
	ids := []string{}
	for _, c := range got {
		ids = append(ids, c.Campaign.ID)
	}
	assert.Equal(t, []string{"roof", "old", "broken"}, ids)
}

func TestQueryGetCampaign(t *testing.T) {
	store := &mockCampaignStore{listMock[campaign.Campaign]{items: []campaign.Campaign{
		{ID: "roof", Goal: "100", Raised: "10", EndDate: "2026-12-31"},
	}}}
	deps := GetCampaignsDeps{CampaignStore: store, Location: central}

	card, err := QueryGetCampaign(context.Background(), "roof", deps, now)
	require.NoError(t, err)
	assert.Equal(t, 10, card.Progress.RoundedPercent())

	_, err = QueryGetCampaign(context.Background(), "nope", deps, now)
	assert.Error(t, err)
}
