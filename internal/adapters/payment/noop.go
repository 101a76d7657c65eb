package payment

import (
	"context"
)

// DisabledProvider is used when no payment keys are configured.
type DisabledProvider struct{}

// CreateCheckout always fails with ErrDisabled.
func (DisabledProvider) CreateCheckout(context.Context, CheckoutRequest) (CheckoutSession, error) {
	return CheckoutSession{}, ErrDisabled
}

// ParseWebhook always fails with ErrDisabled.
func (DisabledProvider) ParseWebhook([]byte, string) (Completion, bool, error) {
	return Completion{}, false, ErrDisabled
}
