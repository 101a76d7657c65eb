package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"churchsite/internal/adapters/payment"
	campaignStore "churchsite/internal/adapters/storage/campaign"
	"churchsite/internal/domain/campaign"
	emailDomain "churchsite/internal/domain/email"
)

// MinDonation is the smallest accepted online gift.
var MinDonation = decimal.NewFromInt(1)

// CampaignStoreForDonation defines the store interface needed by the donation orchestrators.
type CampaignStoreForDonation interface {
	GetByID(ctx context.Context, id string) (campaign.Campaign, error)
	CreateDonation(ctx context.Context, d campaignStore.Donation) error
	CompleteDonation(ctx context.Context, checkoutSessionID, amount string) (campaign.Campaign, bool, error)
}

// DonationDeps holds dependencies for StartDonation and RecordDonation.
type DonationDeps struct {
	CampaignStore CampaignStoreForDonation
	Payments      payment.Provider
	Outbox        OutboxWriter
	Location      *time.Location
	Now           func() time.Time
	PublicURL     string
	Currency      string
	SiteName      string
}

// StartDonationInput carries the donate form.
type StartDonationInput struct {
	CampaignID string
	Amount     string
	DonorEmail string
}

// ErrDonationTooSmall is returned for gifts under MinDonation.
var ErrDonationTooSmall = errors.New("donation must be at least 1.00")

// ExecuteStartDonation opens a hosted checkout for a gift to an open campaign.
// PRE: Amount is a decimal string
// POST: a pending donation row references the returned checkout session
// INVARIANT: closed campaigns and campaigns without a goal never accept gifts
func ExecuteStartDonation(ctx context.Context, input StartDonationInput, deps DonationDeps) (payment.CheckoutSession, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || !amount.IsPositive() {
		return payment.CheckoutSession{}, campaign.ErrInvalidAmount
	}
	if amount.LessThan(MinDonation) {
		return payment.CheckoutSession{}, ErrDonationTooSmall
	}

	c, err := deps.CampaignStore.GetByID(ctx, input.CampaignID)
	if err != nil {
		return payment.CheckoutSession{}, err
	}
	progress, err := c.Progress(deps.Location, deps.Now())
	if err != nil {
		return payment.CheckoutSession{}, err
	}
	if !progress.AcceptsContributions() {
		return payment.CheckoutSession{}, campaign.ErrCampaignClosed
	}

	donationID := uuid.NewString()
	base := strings.TrimRight(deps.PublicURL, "/")
	sess, err := deps.Payments.CreateCheckout(ctx, payment.CheckoutRequest{
		DonationID:    donationID,
		CampaignID:    c.ID,
		CampaignTitle: c.Title,
		Amount:        amount,
		Currency:      deps.Currency,
		DonorEmail:    strings.TrimSpace(input.DonorEmail),
		SuccessURL:    fmt.Sprintf("%s/campaigns/%s?donation=thanks", base, c.ID),
		CancelURL:     fmt.Sprintf("%s/campaigns/%s", base, c.ID),
	})
	if err != nil {
		return payment.CheckoutSession{}, err
	}

	if err := deps.CampaignStore.CreateDonation(ctx, campaignStore.Donation{
		ID:                donationID,
		CampaignID:        c.ID,
		Amount:            amount.StringFixed(2),
		Currency:          deps.Currency,
		DonorEmail:        strings.TrimSpace(input.DonorEmail),
		CheckoutSessionID: sess.ID,
		CreatedAt:         deps.Now(),
	}); err != nil {
		return payment.CheckoutSession{}, err
	}

	log.Info().Str("campaign_id", c.ID).Str("donation_id", donationID).Str("amount", amount.StringFixed(2)).Msg("donation_started")
	return sess, nil
}

// ExecuteRecordDonation applies a verified checkout completion to its campaign.
// POST: the campaign's raised total includes the gift exactly once; a receipt is
// queued the first time a completion is applied
func ExecuteRecordDonation(ctx context.Context, done payment.Completion, deps DonationDeps) (campaign.Campaign, error) {
	if !done.Amount.IsPositive() {
		return campaign.Campaign{}, campaign.ErrInvalidAmount
	}
	c, applied, err := deps.CampaignStore.CompleteDonation(ctx, done.CheckoutSessionID, done.Amount.StringFixed(2))
	if err != nil {
		return campaign.Campaign{}, err
	}
	if !applied {
		log.Info().Str("checkout_session_id", done.CheckoutSessionID).Msg("donation_replay_ignored")
		return c, nil
	}

	log.Info().Str("campaign_id", c.ID).Str("amount", done.Amount.StringFixed(2)).Str("raised", c.Raised).Msg("donation_recorded")
	if done.DonorEmail != "" {
		msg := emailDomain.Message{
			To:      done.DonorEmail,
			Subject: "Thank you for your gift to " + c.Title,
			Text: fmt.Sprintf("Thank you for giving %s %s to %s.\n\nWith gratitude,\n%s\n",
				done.Amount.StringFixed(2), strings.ToUpper(deps.Currency), c.Title, deps.SiteName),
			Template: emailDomain.TemplateDonationReceipt,
		}
		if _, err := EnqueueEmail(ctx, deps.Outbox, msg, deps.Now()); err != nil {
			log.Error().Err(err).Str("checkout_session_id", done.CheckoutSessionID).Msg("receipt_not_queued")
		}
	}
	return c, nil
}
