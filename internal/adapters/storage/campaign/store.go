package campaign

import (
	"context"
	"time"

	domain "churchsite/internal/domain/campaign"
)

// Donation is one checkout attempt against a campaign.
type Donation struct {
	ID                string
	CampaignID        string
	Amount            string
	Currency          string
	DonorEmail        string
	CheckoutSessionID string
	Status            string // pending, completed
	CreatedAt         time.Time
}

// Donation status constants
const (
	DonationPending   = "pending"
	DonationCompleted = "completed"
)

// Store persists campaigns and the donations made to them.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Campaign, error)
	Save(ctx context.Context, value domain.Campaign) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Campaign, error)
	Count(ctx context.Context) (int, error)

	CreateDonation(ctx context.Context, d Donation) error
	CompleteDonation(ctx context.Context, checkoutSessionID, amount string) (domain.Campaign, bool, error)
}
