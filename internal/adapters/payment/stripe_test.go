package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func sign(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutEvent(eventType, paymentStatus string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2020-08-27",
		"type": %q,
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"amount_total": 2550,
			"payment_status": %q,
			"customer_details": {"email": "lydia@example.org"},
			"metadata": {"campaign_id": "roof"}
		}}
	}`, eventType, paymentStatus))
}

func TestParseStripeWebhook_PaidCheckout(t *testing.T) {
	payload := checkoutEvent("checkout.session.completed", "paid")

	c, ok, err := parseStripeWebhook(payload, sign(payload, testSecret), testSecret)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cs_test_1", c.CheckoutSessionID)
	assert.Equal(t, "roof", c.CampaignID)
	assert.True(t, c.Amount.Equal(decimal.RequireFromString("25.50")), "amount = %s", c.Amount)
	assert.Equal(t, "lydia@example.org", c.DonorEmail)
}

func TestParseStripeWebhook_IgnoresOtherEvents(t *testing.T) {
	for _, tc := range []struct{ eventType, status string }{
		{"payment_intent.created", "paid"},
		{"checkout.session.completed", "unpaid"},
	} {
		payload := checkoutEvent(tc.eventType, tc.status)
		_, ok, err := parseStripeWebhook(payload, sign(payload, testSecret), testSecret)
		require.NoError(t, err)
		assert.False(t, ok, "%s/%s", tc.eventType, tc.status)
	}
}

func TestParseStripeWebhook_BadSignature(t *testing.T) {
	payload := checkoutEvent("checkout.session.completed", "paid")
	_, _, err := parseStripeWebhook(payload, sign(payload, "whsec_other"), testSecret)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), toMinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1000), toMinorUnits(decimal.RequireFromString("10")))
	assert.Equal(t, "12.34", fromMinorUnits(1234).StringFixed(2))
}

func TestDisabledProvider(t *testing.T) {
	_, err := DisabledProvider{}.CreateCheckout(context.Background(), CheckoutRequest{})
	assert.ErrorIs(t, err, ErrDisabled)
}
