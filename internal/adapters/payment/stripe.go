package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const eventCheckoutCompleted = "checkout.session.completed"

// StripeProvider uses Stripe Checkout in payment mode.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a provider from a secret key and webhook signing secret.
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	return &StripeProvider{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

// CreateCheckout opens a one-line-item checkout for the donation amount.
// PRE: req.Amount > 0
func (p *StripeProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.DonationID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Donation: " + req.CampaignTitle),
				},
			},
		}},
	}
	if req.DonorEmail != "" {
		params.CustomerEmail = stripe.String(req.DonorEmail)
	}
	params.AddMetadata("campaign_id", req.CampaignID)
	params.AddMetadata("donation_id", req.DonationID)
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", req.CampaignID).Msg("stripe_checkout_failed")
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook verifies a Stripe webhook and extracts a paid checkout completion.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (Completion, bool, error) {
	return parseStripeWebhook(payload, signature, p.webhookSecret)
}

func parseStripeWebhook(payload []byte, signature, secret string) (Completion, bool, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Completion{}, false, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	if string(ev.Type) != eventCheckoutCompleted {
		return Completion{}, false, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return Completion{}, false, fmt.Errorf("decode checkout session: %w", err)
	}
	if s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return Completion{}, false, nil
	}

	c := Completion{
		CheckoutSessionID: s.ID,
		CampaignID:        s.Metadata["campaign_id"],
		Amount:            fromMinorUnits(s.AmountTotal),
		DonorEmail:        s.CustomerEmail,
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		c.DonorEmail = s.CustomerDetails.Email
	}
	return c, true, nil
}
