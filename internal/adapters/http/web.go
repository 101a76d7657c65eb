package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/adapters/http/perf"
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
	testimonialStore "churchsite/internal/adapters/storage/testimonial"
	verseStore "churchsite/internal/adapters/storage/verse"
	"churchsite/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	SessionStore     sessionStore.Store
	EventStore       eventStore.Store
	CampaignStore    campaignStore.Store
	MenuStore        menuStore.Store
	HeroStore        heroStore.Store
	AboutStore       aboutStore.Store
	ScheduleStore    scheduleStore.Store
	TestimonialStore testimonialStore.Store
	VerseStore       verseStore.Store
	MessageStore     messageStore.Store
	PostStore        postStore.Store
	SubscriberStore  newsletterStore.Store
	StreamStore      livestreamStore.Store
	OutboxStore      outboxStore.Store
}

// Options carries the non-storage dependencies of the HTTP layer.
type Options struct {
	SiteName      string
	PublicURL     string
	Currency      string
	Location      *time.Location
	CSRFKey       []byte
	Secure        bool // HTTPS-only cookies and strict CSRF referer checks
	CORSOrigins   []string
	Limiter       *middleware.RateLimiter // applied to login and public form posts
	Collector     *perf.Collector
	SlowRequestMs int
	Payments      payment.Provider
	Outbox        *orchestrators.OutboxProcessor // nil disables admin retry
	Now           func() time.Time
}

// Server holds the wired dependencies shared by every handler.
type Server struct {
	stores Stores
	opts   Options
	pages  *pageRenderer
}

// NewServer wires the handlers.
// PRE: CSRFKey is 32 bytes; Location and Payments are non-nil
func NewServer(s Stores, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Collector == nil {
		opts.Collector = perf.NewCollector(perf.DefaultRingSize)
	}
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewRateLimiter(10, time.Second)
	}
	return &Server{stores: s, opts: opts, pages: newPageRenderer(opts.SiteName)}
}

// Handler builds the router.
// Middleware order: RequestID -> Recoverer -> Timing -> SecurityHeaders -> CORS -> Auth -> CSRF -> routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timing(s.opts.Collector, s.opts.SlowRequestMs))
	r.Use(middleware.SecurityHeaders)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.Auth(s.authenticator()))
	r.Use(middleware.CSRF(s.opts.CSRFKey, s.opts.Secure, s.trustedOrigins()))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Handle("/static/*", staticHandler())

	r.Route("/api", s.apiRoutes)
	s.pageRoutes(r)
	return r
}

func (s *Server) authenticator() orchestrators.SessionAuthenticator {
	return orchestrators.SessionAuthenticator{Deps: s.loginDeps()}
}

func (s *Server) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		AccountStore: s.stores.AccountStore,
		SessionStore: s.stores.SessionStore,
		Now:          s.opts.Now,
	}
}

// trustedOrigins are the hosts allowed to post forms besides the request's own host.
func (s *Server) trustedOrigins() []string {
	var out []string
	for _, o := range s.opts.CORSOrigins {
		if host := hostOf(o); host != "" {
			out = append(out, host)
		}
	}
	return out
}

func (s *Server) now() time.Time { return s.opts.Now() }
