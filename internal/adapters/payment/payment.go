// Package payment creates hosted checkout sessions for campaign donations and
// verifies the provider's completion callbacks.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Errors
var (
	ErrBadSignature = errors.New("webhook signature verification failed")
	ErrDisabled     = errors.New("online donations are not configured")
)

// CheckoutRequest describes a single donation checkout.
type CheckoutRequest struct {
	DonationID    string
	CampaignID    string
	CampaignTitle string
	Amount        decimal.Decimal
	Currency      string
	DonorEmail    string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the provider's hosted payment page.
type CheckoutSession struct {
	ID  string
	URL string
}

// Completion is a verified, paid checkout reported by the provider.
type Completion struct {
	CheckoutSessionID string
	CampaignID        string
	Amount            decimal.Decimal
	DonorEmail        string
}

// Provider creates checkouts and parses signed completion webhooks.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	// ParseWebhook verifies payload against the signature header. ok is false for
	// verified events that are not paid checkout completions.
	ParseWebhook(payload []byte, signature string) (c Completion, ok bool, err error)
}

// toMinorUnits converts a currency amount to cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
