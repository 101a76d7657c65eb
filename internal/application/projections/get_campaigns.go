package projections

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"churchsite/internal/domain/campaign"
)

// CampaignState is the display state of a campaign card.
type CampaignState string

// Campaign display states.
const (
	CampaignOpen        CampaignState = "open"
	CampaignClosed      CampaignState = "closed"
	CampaignNoGoal      CampaignState = "no_goal"
	CampaignUnavailable CampaignState = "unavailable"
)

// CampaignCard is a campaign with its progress computed for display.
// Progress is zero-valued unless State is open or closed.
type CampaignCard struct {
	Campaign campaign.Campaign `json:"campaign"`
	Progress campaign.Progress `json:"progress"`
	State    CampaignState     `json:"state"`
	Notice   string            `json:"notice,omitempty"`
}

// CanDonate reports whether the contribute button is enabled.
func (c CampaignCard) CanDonate() bool {
	return c.State == CampaignOpen
}

// NewCampaignCard computes a campaign's progress at now.
// A missing or zero goal shows "no goal set"; any other bad value shows unavailable.
// PRE: loc is non-nil
func NewCampaignCard(c campaign.Campaign, loc *time.Location, now time.Time) CampaignCard {
	p, err := c.Progress(loc, now)
	switch {
	case errors.Is(err, campaign.ErrNoGoal):
		return CampaignCard{Campaign: c, State: CampaignNoGoal, Notice: "No goal set."}
	case err != nil:
		log.Warn().Err(err).Str("campaign_id", c.ID).Msg("campaign_progress_unavailable")
		return CampaignCard{Campaign: c, State: CampaignUnavailable, Notice: "Campaign details are unavailable."}
	case p.Closed:
		return CampaignCard{Campaign: c, Progress: p, State: CampaignClosed, Notice: "This campaign has ended."}
	}
	return CampaignCard{Campaign: c, Progress: p, State: CampaignOpen}
}

// GetCampaignsDeps holds dependencies for the campaign projections.
type GetCampaignsDeps struct {
	CampaignStore CampaignStore
	Location      *time.Location
}

// QueryGetCampaigns lists every campaign with progress, open ones first.
func QueryGetCampaigns(ctx context.Context, deps GetCampaignsDeps, now time.Time) ([]CampaignCard, error) {
	list, err := deps.CampaignStore.List(ctx)
	if err != nil {
		return nil, err
	}
	var open, rest []CampaignCard
	for _, c := range list {
		card := NewCampaignCard(c, deps.Location, now)
		if card.CanDonate() {
			open = append(open, card)
		} else {
			rest = append(rest, card)
		}
	}
	out := make([]CampaignCard, 0, len(list))
	return append(append(out, open...), rest...), nil
}

// QueryGetCampaign loads one campaign with progress.
// POST: storage.ErrNotFound when the campaign does not exist
func QueryGetCampaign(ctx context.Context, id string, deps GetCampaignsDeps, now time.Time) (CampaignCard, error) {
	c, err := deps.CampaignStore.GetByID(ctx, id)
	if err != nil {
		return CampaignCard{}, err
	}
	return NewCampaignCard(c, deps.Location, now), nil
}
