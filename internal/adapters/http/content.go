package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"churchsite/internal/adapters/http/middleware"
	eventStore "churchsite/internal/adapters/storage/event"
	messageStore "churchsite/internal/adapters/storage/message"
	"churchsite/internal/domain/about"
	"churchsite/internal/domain/campaign"
	"churchsite/internal/domain/event"
	"churchsite/internal/domain/hero"
	"churchsite/internal/domain/livestream"
	"churchsite/internal/domain/menu"
	"churchsite/internal/domain/message"
	"churchsite/internal/domain/post"
	"churchsite/internal/domain/schedule"
	"churchsite/internal/domain/testimonial"
	"churchsite/internal/domain/verse"
)

// stamp keeps the original creation time on update.
func stamp(created, updated *time.Time, prev *time.Time, now time.Time) {
	if prev != nil && !prev.IsZero() {
		*created = *prev
	} else {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func (s *Server) contentRoutes(r chi.Router) {
	r.Route("/menu", resource[menu.Item]{
		name:  "menu",
		store: s.stores.MenuStore,
		now:   s.now,
		list:  func(r *http.Request) ([]menu.Item, error) { return s.stores.MenuStore.List(r.Context()) },
		id:    func(v *menu.Item) *string { return &v.ID },
		prepare: func(v *menu.Item, _ *menu.Item, _ time.Time) error {
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/hero", resource[hero.Slide]{
		name:  "hero",
		store: s.stores.HeroStore,
		now:   s.now,
		list:  func(r *http.Request) ([]hero.Slide, error) { return s.stores.HeroStore.List(r.Context()) },
		id:    func(v *hero.Slide) *string { return &v.ID },
		prepare: func(v *hero.Slide, prev *hero.Slide, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *hero.Slide) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/about", resource[about.Section]{
		name:  "about",
		store: s.stores.AboutStore,
		now:   s.now,
		list:  func(r *http.Request) ([]about.Section, error) { return s.stores.AboutStore.List(r.Context()) },
		id:    func(v *about.Section) *string { return &v.ID },
		prepare: func(v *about.Section, prev *about.Section, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *about.Section) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/schedules", resource[schedule.Service]{
		name:  "schedule",
		store: s.stores.ScheduleStore,
		now:   s.now,
		list:  func(r *http.Request) ([]schedule.Service, error) { return s.stores.ScheduleStore.List(r.Context()) },
		id:    func(v *schedule.Service) *string { return &v.ID },
		prepare: func(v *schedule.Service, prev *schedule.Service, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *schedule.Service) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/testimonials", resource[testimonial.Testimonial]{
		name:  "testimonial",
		store: s.stores.TestimonialStore,
		now:   s.now,
		list: func(r *http.Request) ([]testimonial.Testimonial, error) {
			return s.stores.TestimonialStore.List(r.Context())
		},
		id: func(v *testimonial.Testimonial) *string { return &v.ID },
		prepare: func(v *testimonial.Testimonial, prev *testimonial.Testimonial, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *testimonial.Testimonial) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/verses", resource[verse.Verse]{
		name:  "verse",
		store: s.stores.VerseStore,
		now:   s.now,
		list:  func(r *http.Request) ([]verse.Verse, error) { return s.stores.VerseStore.List(r.Context()) },
		id:    func(v *verse.Verse) *string { return &v.ID },
		prepare: func(v *verse.Verse, prev *verse.Verse, now time.Time) error {
			stamp(&v.CreatedAt, nil, createdOf(prev, func(p *verse.Verse) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/messages", resource[message.Message]{
		name:  "message",
		store: s.stores.MessageStore,
		now:   s.now,
		list: func(r *http.Request) ([]message.Message, error) {
			return s.stores.MessageStore.List(r.Context(), messageStore.ListFilter{Series: r.URL.Query().Get("series")})
		},
		id: func(v *message.Message) *string { return &v.ID },
		prepare: func(v *message.Message, prev *message.Message, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *message.Message) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/posts", resource[post.Post]{
		name:    "post",
		store:   s.stores.PostStore,
		now:     s.now,
		list:    func(r *http.Request) ([]post.Post, error) { return s.stores.PostStore.List(r.Context(), false) },
		id:      func(v *post.Post) *string { return &v.ID },
		visible: func(v *post.Post) bool { return v.Published },
		prepare: func(v *post.Post, prev *post.Post, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *post.Post) time.Time { return p.CreatedAt }), now)
			if prev != nil && v.PublishedAt == nil {
				v.PublishedAt = prev.PublishedAt
			}
			if v.Published {
				v.Publish(now)
			}
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/streams", resource[livestream.Stream]{
		name:  "stream",
		store: s.stores.StreamStore,
		now:   s.now,
		list:  func(r *http.Request) ([]livestream.Stream, error) { return s.stores.StreamStore.List(r.Context()) },
		id:    func(v *livestream.Stream) *string { return &v.ID },
		prepare: func(v *livestream.Stream, prev *livestream.Stream, now time.Time) error {
			stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *livestream.Stream) time.Time { return p.CreatedAt }), now)
			return invalid(v.Validate())
		},
	}.routes)

	r.Route("/events", func(r chi.Router) {
		r.Get("/cards", s.handleAPIEventCards)
		resource[event.Event]{
			name:  "event",
			store: s.stores.EventStore,
			now:   s.now,
			list: func(r *http.Request) ([]event.Event, error) {
				return s.stores.EventStore.List(r.Context(), eventStore.ListFilter{Category: r.URL.Query().Get("category")})
			},
			id: func(v *event.Event) *string { return &v.ID },
			prepare: func(v *event.Event, prev *event.Event, now time.Time) error {
				stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *event.Event) time.Time { return p.CreatedAt }), now)
				// The attendee count belongs to registrations; Save never overwrites it.
				if prev != nil {
					v.CurrentAttendees = prev.CurrentAttendees
				}
				return invalid(v.Validate())
			},
		}.routes(r)
		r.Get("/{id}/card", s.handleAPIEventCard)
		r.With(middleware.RateLimit(s.opts.Limiter)).Post("/{id}/registrations", s.handleAPIRegister)
		r.With(middleware.RequireEditor).Get("/{id}/registrations", s.handleAPIListRegistrations)
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/cards", s.handleAPICampaignCards)
		resource[campaign.Campaign]{
			name:  "campaign",
			store: s.stores.CampaignStore,
			now:   s.now,
			list:  func(r *http.Request) ([]campaign.Campaign, error) { return s.stores.CampaignStore.List(r.Context()) },
			id:    func(v *campaign.Campaign) *string { return &v.ID },
			prepare: func(v *campaign.Campaign, prev *campaign.Campaign, now time.Time) error {
				stamp(&v.CreatedAt, &v.UpdatedAt, createdOf(prev, func(p *campaign.Campaign) time.Time { return p.CreatedAt }), now)
				if v.Raised == "" {
					v.Raised = "0.00"
					if prev != nil {
						v.Raised = prev.Raised
					}
				}
				return invalid(v.Validate())
			},
		}.routes(r)
		r.Get("/{id}/card", s.handleAPICampaignCard)
		r.With(middleware.RateLimit(s.opts.Limiter)).Post("/{id}/donate", s.handleAPIDonate)
	})
}

// createdOf returns a pointer to prev's creation time, or nil on create.
func createdOf[T any](prev *T, get func(*T) time.Time) *time.Time {
	if prev == nil {
		return nil
	}
	t := get(prev)
	return &t
}
