package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/adapters/payment"
	aboutStore "churchsite/internal/adapters/storage/about"
	accountStore "churchsite/internal/adapters/storage/account"
	campaignStore "churchsite/internal/adapters/storage/campaign"
	eventStore "churchsite/internal/adapters/storage/event"
	heroStore "churchsite/internal/adapters/storage/hero"
	livestreamStore "churchsite/internal/adapters/storage/livestream"
	menuStore "churchsite/internal/adapters/storage/menu"
	messageStore "churchsite/internal/adapters/storage/message"
	newsletterStore "churchsite/internal/adapters/storage/newsletter"
	outboxStore "churchsite/internal/adapters/storage/outbox"
	postStore "churchsite/internal/adapters/storage/post"
	scheduleStore "churchsite/internal/adapters/storage/schedule"
	sessionStore "churchsite/internal/adapters/storage/session"
	"churchsite/internal/adapters/storage/storagetest"
	testimonialStore "churchsite/internal/adapters/storage/testimonial"
	verseStore "churchsite/internal/adapters/storage/verse"
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/domain/account"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

const testPassword = "correct-horse-battery"

// fakePayments hands out checkout sessions and accepts webhooks signed "good".
type fakePayments struct {
	completion payment.Completion
	ok         bool
}

// CreateCheckout implements payment.Provider for testing.
// POST: returns a session id derived from the donation id
func (f *fakePayments) CreateCheckout(_ context.Context, req payment.CheckoutRequest) (payment.CheckoutSession, error) {
	id := "cs_test_" + req.DonationID
	return payment.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

// ParseWebhook implements payment.Provider for testing.
// PRE: signature is "good" for a verified payload
// POST: returns the configured completion
func (f *fakePayments) ParseWebhook(_ []byte, signature string) (payment.Completion, bool, error) {
	if signature != "good" {
		return payment.Completion{}, false, payment.ErrBadSignature
	}
	return f.completion, f.ok, nil
}

type testEnv struct {
	handler     http.Handler
	stores      Stores
	outbox      *outboxStore.SQLiteStore
	payments    *fakePayments
	adminToken  string
	editorToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := storagetest.Open(t)
	ob := outboxStore.NewSQLiteStore(db)
	stores := Stores{
		AccountStore:     accountStore.NewSQLiteStore(db),
		SessionStore:     sessionStore.NewSQLiteStore(db),
		EventStore:       eventStore.NewSQLiteStore(db),
		CampaignStore:    campaignStore.NewSQLiteStore(db),
		MenuStore:        menuStore.NewSQLiteStore(db),
		HeroStore:        heroStore.NewSQLiteStore(db),
		AboutStore:       aboutStore.NewSQLiteStore(db),
		ScheduleStore:    scheduleStore.NewSQLiteStore(db),
		TestimonialStore: testimonialStore.NewSQLiteStore(db),
		VerseStore:       verseStore.NewSQLiteStore(db),
		MessageStore:     messageStore.NewSQLiteStore(db),
		PostStore:        postStore.NewSQLiteStore(db),
		SubscriberStore:  newsletterStore.NewSQLiteStore(db),
		StreamStore:      livestreamStore.NewSQLiteStore(db),
		OutboxStore:      ob,
	}
	pay := &fakePayments{}
	srv := NewServer(stores, Options{
		SiteName:  "Grace Fellowship",
		PublicURL: "https://grace.example.org",
		Currency:  "usd",
		Location:  time.UTC,
		CSRFKey:   []byte("0123456789abcdef0123456789abcdef"),
		Limiter:   middleware.NewRateLimiter(1000, time.Second),
		Payments:  pay,
		Outbox:    orchestrators.NewOutboxProcessor(ob, nil, func() time.Time { return testNow }),
		Now:       func() time.Time { return testNow },
	})
	env := &testEnv{handler: srv.Handler(), stores: stores, outbox: ob, payments: pay}
	env.adminToken = env.login(t, "pastor", account.RoleAdmin)
	env.editorToken = env.login(t, "deacon", account.RoleEditor)
	return env
}

// login creates an account with the given role and returns a session token.
func (e *testEnv) login(t *testing.T, username, role string) string {
	t.Helper()
	ctx := context.Background()
	_, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Username: username,
		Email:    username + "@grace.example.org",
		Password: testPassword,
		Role:     role,
	}, orchestrators.CreateAccountDeps{AccountStore: e.stores.AccountStore, Now: func() time.Time { return testNow }})
	require.NoError(t, err)
	res, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{Username: username, Password: testPassword},
		orchestrators.LoginDeps{
			AccountStore: e.stores.AccountStore,
			SessionStore: e.stores.SessionStore,
			Now:          func() time.Time { return testNow },
		})
	require.NoError(t, err)
	return res.Token
}

// api sends a JSON request. A nil body sends no payload.
func (e *testEnv) api(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// page sends a browser GET.
func (e *testEnv) page(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

var csrfFieldPattern = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

// submitForm loads formPage to obtain a CSRF token, then posts values to action.
func (e *testEnv) submitForm(t *testing.T, formPage, action string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	get := e.page(t, formPage, cookies...)
	require.Equal(t, http.StatusOK, get.Code, get.Body.String())
	m := csrfFieldPattern.FindStringSubmatch(get.Body.String())
	require.Len(t, m, 2, "form page has no csrf field")
	values.Set("gorilla.csrf.Token", m[1])

	req := httptest.NewRequest(http.MethodPost, action, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	for _, c := range append(get.Result().Cookies(), cookies...) {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
