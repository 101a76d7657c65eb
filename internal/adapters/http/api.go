package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/adapters/http/perf"
	"churchsite/internal/adapters/payment"
	accountStore "churchsite/internal/adapters/storage/account"
	"churchsite/internal/application/listutil"
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/application/projections"
	"churchsite/internal/domain/account"
	"churchsite/internal/domain/outbox"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=200"`
}

type registrationRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"max=30"`
	Notes string `json:"notes" validate:"max=1000"`
}

type donateRequest struct {
	Amount     string `json:"amount" validate:"required,max=20"`
	DonorEmail string `json:"donorEmail" validate:"omitempty,email,max=254"`
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"max=100"`
}

type unsubscribeRequest struct {
	Token string `json:"token" validate:"required"`
}

type createAccountRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin editor"`
}

// dashboardResponse is the admin dashboard plus request timings.
type dashboardResponse struct {
	projections.AdminDashboard
	Performance perf.Snapshot `json:"performance"`
}

// outboxListLimit caps the admin outbox listing.
const outboxListLimit = 100

func (s *Server) apiRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(s.opts.Limiter)).Post("/login", s.handleAPILogin)
		r.Post("/logout", s.handleAPILogout)
		r.Get("/me", s.handleAPIMe)
	})

	r.Get("/home", s.handleAPIHome)
	r.Get("/navigation", s.handleAPINavigation)
	r.Get("/testimonials/page", s.handleAPITestimonialsPage)
	s.contentRoutes(r)

	r.Post("/webhooks/stripe", s.handleStripeWebhook)

	r.Route("/newsletter", func(r chi.Router) {
		r.With(middleware.RateLimit(s.opts.Limiter)).Post("/", s.handleAPISubscribe)
		r.Post("/unsubscribe", s.handleAPIUnsubscribe)
		r.With(middleware.RequireEditor).Get("/subscribers", s.handleAPISubscribers)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireEditor)
		r.Get("/dashboard", s.handleAPIDashboard)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/outbox", s.handleAPIOutboxList)
			r.Post("/outbox/{id}/retry", s.handleAPIOutboxRetry)
			r.Post("/outbox/{id}/abandon", s.handleAPIOutboxAbandon)
			r.Get("/accounts", s.handleAPIAccounts)
			r.Post("/accounts", s.handleAPICreateAccount)
		})
	})
}

// --- auth ---

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, s.loginDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := orchestrators.ExecuteLogout(r.Context(), token, s.loginDeps()); err != nil {
			writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIMe(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, p.User)
}

// --- public projections ---

func (s *Server) handleAPIHome(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryGetHomePage(r.Context(), s.homeDeps(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleAPINavigation(w http.ResponseWriter, r *http.Request) {
	nav, err := projections.QueryGetNavigation(r.Context(), s.stores.MenuStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

func (s *Server) handleAPITestimonialsPage(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryGetTestimonialsPage(r.Context(), listutil.ParsePageParams(r.URL.Query()), s.stores.TestimonialStore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// --- events ---

func (s *Server) handleAPIEventCards(w http.ResponseWriter, r *http.Request) {
	cards, err := projections.QueryGetAllEvents(r.Context(), r.URL.Query().Get("category"), s.eventsDeps(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleAPIEventCard(w http.ResponseWriter, r *http.Request) {
	card, err := projections.QueryGetEventDetail(r.Context(), chi.URLParam(r, "id"), s.eventsDeps(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleAPIRegister(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := orchestrators.ExecuteRegisterForEvent(r.Context(), orchestrators.RegisterForEventInput{
		EventID: chi.URLParam(r, "id"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}, s.registerDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleAPIListRegistrations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.stores.EventStore.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	regs, err := s.stores.EventStore.ListRegistrations(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

// --- campaigns ---

func (s *Server) handleAPICampaignCards(w http.ResponseWriter, r *http.Request) {
	cards, err := projections.QueryGetCampaigns(r.Context(), s.campaignsDeps(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleAPICampaignCard(w http.ResponseWriter, r *http.Request) {
	card, err := projections.QueryGetCampaign(r.Context(), chi.URLParam(r, "id"), s.campaignsDeps(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleAPIDonate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sess, err := orchestrators.ExecuteStartDonation(r.Context(), orchestrators.StartDonationInput{
		CampaignID: chi.URLParam(r, "id"),
		Amount:     req.Amount,
		DonorEmail: req.DonorEmail,
	}, s.donationDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"checkoutId": sess.ID, "checkoutUrl": sess.URL})
}

// handleStripeWebhook applies paid checkouts. Replays are acknowledged without
// changing the campaign.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	done, ok, err := s.opts.Payments.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, payment.ErrBadSignature):
		log.Warn().Err(err).Msg("webhook_rejected")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	case err != nil:
		writeError(w, r, err)
		return
	case !ok:
		w.WriteHeader(http.StatusNoContent)
		return
	}
	c, err := orchestrators.ExecuteRecordDonation(r.Context(), done, s.donationDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"campaignId": c.ID, "raised": c.Raised})
}

// --- newsletter ---

func (s *Server) handleAPISubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := orchestrators.ExecuteSubscribe(r.Context(), orchestrators.SubscribeInput{
		Email: req.Email,
		Name:  req.Name,
	}, s.newsletterDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	// The unsubscribe token is only ever delivered by email.
	writeJSON(w, status, map[string]any{"email": res.Subscriber.Email, "created": res.Created})
}

func (s *Server) handleAPIUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := orchestrators.ExecuteUnsubscribe(r.Context(), req.Token, s.newsletterDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPISubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := s.stores.SubscriberStore.List(r.Context(), r.URL.Query().Get("all") != "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// --- admin ---

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	d, err := projections.QueryGetAdminDashboard(r.Context(), s.dashboardDeps(), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		AdminDashboard: d,
		Performance:    s.opts.Collector.Snapshot(now.Add(-time.Hour), 5),
	})
}

func (s *Server) handleAPIOutboxList(w http.ResponseWriter, r *http.Request) {
	limit := outboxListLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= outboxListLimit {
		limit = n
	}
	var (
		entries []outbox.Entry
		err     error
	)
	if r.URL.Query().Get("status") == outbox.StatusPending {
		entries, err = s.stores.OutboxStore.ListPending(r.Context(), limit)
	} else {
		entries, err = s.stores.OutboxStore.ListFailed(r.Context(), limit)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []outbox.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAPIOutboxRetry(w http.ResponseWriter, r *http.Request) {
	if s.opts.Outbox == nil {
		http.Error(w, "email delivery is not running", http.StatusServiceUnavailable)
		return
	}
	entry, err := s.opts.Outbox.ProcessSingle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAPIOutboxAbandon(w http.ResponseWriter, r *http.Request) {
	if s.opts.Outbox == nil {
		http.Error(w, "email delivery is not running", http.StatusServiceUnavailable)
		return
	}
	if err := s.opts.Outbox.AbandonEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := s.stores.AccountStore.List(r.Context(), accountStore.ListFilter{Role: r.URL.Query().Get("role")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	users := make([]account.User, 0, len(accts))
	for i := range accts {
		users = append(users, accts[i].Public())
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAPICreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, orchestrators.CreateAccountDeps{AccountStore: s.stores.AccountStore, Now: s.opts.Now})
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	log.Info().Str("event", "account_created").Str("user", p.User.Username).Str("id", acct.ID).Msg("content_event")
	writeJSON(w, http.StatusCreated, acct.Public())
}
