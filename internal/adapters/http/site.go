package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/adapters/storage"
	"churchsite/internal/application/listutil"
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/application/projections"
)

func (s *Server) pageRoutes(r chi.Router) {
	r.Get("/", s.handleHomePage)
	r.Get("/events", s.handleEventsPage)
	r.Get("/events/{id}", s.handleEventPage)
	r.With(middleware.RateLimit(s.opts.Limiter)).Post("/events/{id}/register", s.handleEventRegisterForm)
	r.Get("/campaigns", s.handleCampaignsPage)
	r.Get("/campaigns/{id}", s.handleCampaignPage)
	r.With(middleware.RateLimit(s.opts.Limiter)).Post("/campaigns/{id}/donate", s.handleDonateForm)
	r.Get("/blog", s.handleBlogPage)
	r.Get("/blog/{slug}", s.handlePostPage)
	r.Get("/messages", s.handleMessagesPage)
	r.Get("/testimonials", s.handleTestimonialsPage)
	r.With(middleware.RateLimit(s.opts.Limiter)).Post("/newsletter", s.handleSubscribeForm)
	r.Get("/newsletter/unsubscribe", s.handleUnsubscribePage)
	r.Post("/newsletter/unsubscribe", s.handleUnsubscribeForm)

	r.Get("/admin/login", s.handleLoginPage)
	r.With(middleware.RateLimit(s.opts.Limiter)).Post("/admin/login", s.handleLoginForm)
	r.Post("/admin/logout", s.handleLogoutForm)
	r.With(middleware.RequirePageLogin).Get("/admin", s.handleDashboardPage)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || !isHTMLRequest(r) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		s.renderError(w, r, storage.ErrNotFound)
	})
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	home, err := projections.QueryGetHomePage(r.Context(), s.homeDeps(), s.now())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "home.html", pageData{
		Title:      "Welcome",
		Navigation: home.Navigation,
		Notice:     newsletterNotice(r.URL.Query().Get("newsletter")),
		Data:       home,
	})
}

func (s *Server) handleEventsPage(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	cards, err := projections.QueryGetAllEvents(r.Context(), category, s.eventsDeps(), s.now())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "events.html", pageData{
		Title: "Events",
		Data:  map[string]any{"Events": cards, "Category": category},
	})
}

func (s *Server) handleEventPage(w http.ResponseWriter, r *http.Request) {
	notice := ""
	if r.URL.Query().Get("registered") == "1" {
		notice = "You're registered. A confirmation email is on its way."
	}
	s.renderEvent(w, r, http.StatusOK, notice, "", registrationRequest{})
}

func (s *Server) renderEvent(w http.ResponseWriter, r *http.Request, status int, notice, formErr string, form registrationRequest) {
	card, err := projections.QueryGetEventDetail(r.Context(), chi.URLParam(r, "id"), s.eventsDeps(), s.now())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, status, "event.html", pageData{
		Title:  card.Event.Title,
		Notice: notice,
		Error:  formErr,
		Data:   map[string]any{"Card": card, "Form": form},
	})
}

func (s *Server) handleEventRegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form := registrationRequest{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Phone: r.PostFormValue("phone"),
		Notes: r.PostFormValue("notes"),
	}
	if err := validate.Struct(form); err != nil {
		s.renderEvent(w, r, http.StatusBadRequest, "", validationMessage(err), form)
		return
	}
	id := chi.URLParam(r, "id")
	_, err := orchestrators.ExecuteRegisterForEvent(r.Context(), orchestrators.RegisterForEventInput{
		EventID: id,
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Notes:   form.Notes,
	}, s.registerDeps())
	if err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError && status != http.StatusNotFound {
			s.renderEvent(w, r, status, "", err.Error(), form)
			return
		}
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/events/"+url.PathEscape(id)+"?registered=1", http.StatusSeeOther)
}

func (s *Server) handleCampaignsPage(w http.ResponseWriter, r *http.Request) {
	cards, err := projections.QueryGetCampaigns(r.Context(), s.campaignsDeps(), s.now())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "campaigns.html", pageData{Title: "Give", Data: cards})
}

func (s *Server) handleCampaignPage(w http.ResponseWriter, r *http.Request) {
	notice := ""
	if r.URL.Query().Get("donation") == "thanks" {
		notice = "Thank you for your gift! A receipt will arrive by email."
	}
	s.renderCampaign(w, r, http.StatusOK, notice, "", donateRequest{})
}

func (s *Server) renderCampaign(w http.ResponseWriter, r *http.Request, status int, notice, formErr string, form donateRequest) {
	card, err := projections.QueryGetCampaign(r.Context(), chi.URLParam(r, "id"), s.campaignsDeps(), s.now())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, status, "campaign.html", pageData{
		Title:  card.Campaign.Title,
		Notice: notice,
		Error:  formErr,
		Data:   map[string]any{"Card": card, "Form": form, "Currency": s.opts.Currency},
	})
}

func (s *Server) handleDonateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form := donateRequest{
		Amount:     r.PostFormValue("amount"),
		DonorEmail: r.PostFormValue("donorEmail"),
	}
	if err := validate.Struct(form); err != nil {
		s.renderCampaign(w, r, http.StatusBadRequest, "", validationMessage(err), form)
		return
	}
	sess, err := orchestrators.ExecuteStartDonation(r.Context(), orchestrators.StartDonationInput{
		CampaignID: chi.URLParam(r, "id"),
		Amount:     form.Amount,
		DonorEmail: form.DonorEmail,
	}, s.donationDeps())
	if err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError && status != http.StatusNotFound {
			s.renderCampaign(w, r, status, "", err.Error(), form)
			return
		}
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}

func (s *Server) handleBlogPage(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryGetPublishedPosts(r.Context(), listutil.ParsePageParams(r.URL.Query()), s.stores.PostStore)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "blog.html", pageData{Title: "Blog", Data: page})
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	p, err := projections.QueryGetPublishedPost(r.Context(), chi.URLParam(r, "slug"), s.stores.PostStore)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post.html", pageData{Title: p.Title, Data: p})
}

func (s *Server) handleMessagesPage(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryGetMessageArchive(r.Context(), r.URL.Query().Get("series"),
		listutil.ParsePageParams(r.URL.Query()), s.stores.MessageStore)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "messages.html", pageData{Title: "Messages", Data: page})
}

func (s *Server) handleTestimonialsPage(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryGetTestimonialsPage(r.Context(), listutil.ParsePageParams(r.URL.Query()), s.stores.TestimonialStore)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "testimonials.html", pageData{
		Title: "Testimonials",
		Data:  map[string]any{"Page": page, "PerPageOptions": listutil.PerPageOptions},
	})
}

// handleSubscribeForm redirects back home with the outcome in the query.
func (s *Server) handleSubscribeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form := subscribeRequest{Email: r.PostFormValue("email"), Name: r.PostFormValue("name")}
	outcome := "subscribed"
	if err := validate.Struct(form); err != nil {
		outcome = "invalid"
	} else if _, err := orchestrators.ExecuteSubscribe(r.Context(), orchestrators.SubscribeInput{
		Email: form.Email,
		Name:  form.Name,
	}, s.newsletterDeps()); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			s.renderError(w, r, err)
			return
		}
		outcome = "invalid"
	}
	http.Redirect(w, r, "/?newsletter="+outcome+"#newsletter", http.StatusSeeOther)
}

func newsletterNotice(outcome string) string {
	switch outcome {
	case "subscribed":
		return "Thanks for subscribing! Check your inbox for a welcome email."
	case "invalid":
		return "Please enter a valid email address to subscribe."
	}
	return ""
}

// handleUnsubscribePage asks for confirmation so link scanners cannot unsubscribe anyone.
func (s *Server) handleUnsubscribePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "unsubscribe.html", pageData{
		Title: "Unsubscribe",
		Data:  map[string]any{"Token": r.URL.Query().Get("token")},
	})
}

func (s *Server) handleUnsubscribeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	_, err := orchestrators.ExecuteUnsubscribe(r.Context(), r.PostFormValue("token"), s.newsletterDeps())
	if errors.Is(err, orchestrators.ErrUnknownUnsubscribeToken) {
		s.render(w, r, http.StatusNotFound, "unsubscribe.html", pageData{Title: "Unsubscribe", Error: err.Error()})
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "unsubscribe.html", pageData{
		Title:  "Unsubscribe",
		Notice: "You have been unsubscribed. We're sorry to see you go.",
		Data:   map[string]any{"Done": true},
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok && p.CanEdit() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", pageData{Title: "Sign in"})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, s.loginDeps())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.renderError(w, r, err)
			return
		}
		s.render(w, r, status, "login.html", pageData{Title: "Sign in", Error: err.Error()})
		return
	}
	middleware.SetSessionCookie(w, result.Token, s.opts.Secure)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := orchestrators.ExecuteLogout(r.Context(), token, s.loginDeps()); err != nil {
			log.Warn().Err(err).Msg("logout_failed")
		}
	}
	middleware.ClearSessionCookie(w, s.opts.Secure)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	d, err := projections.QueryGetAdminDashboard(r.Context(), s.dashboardDeps(), now)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin.html", pageData{
		Title: "Dashboard",
		Data: dashboardResponse{
			AdminDashboard: d,
			Performance:    s.opts.Collector.Snapshot(now.AddDate(0, 0, -1), 5),
		},
	})
}
