package projections

import (
	"context"
	"fmt"
	"time"

	messageStore "churchsite/internal/adapters/storage/message"
	"churchsite/internal/application/listutil"
	"churchsite/internal/domain/about"
	"churchsite/internal/domain/hero"
	"churchsite/internal/domain/livestream"
	"churchsite/internal/domain/menu"
	"churchsite/internal/domain/message"
	"churchsite/internal/domain/schedule"
	"churchsite/internal/domain/verse"
)

// Home page section sizes.
const (
	HomeMessageCount  = 3
	HomeEventCount    = 3
	HomeCampaignCount = 2
)

// GetHomePageDeps holds dependencies for the home page projection.
type GetHomePageDeps struct {
	MenuStore        MenuStore
	HeroStore        HeroStore
	AboutStore       AboutStore
	ScheduleStore    ScheduleStore
	TestimonialStore TestimonialStore
	VerseStore       VerseStore
	MessageStore     MessageStore
	StreamStore      StreamStore
	EventStore       EventStore
	CampaignStore    CampaignStore
	Location         *time.Location
}

// HomePage is everything the landing page renders.
type HomePage struct {
	Navigation   []menu.Node        `json:"navigation"`
	Slides       []hero.Slide       `json:"slides"`
	About        []about.Section    `json:"about"`
	Schedule     []schedule.Service `json:"schedule"`
	Testimonials TestimonialsPage   `json:"testimonials"`
	Verse        *verse.Verse       `json:"verse,omitempty"`
	Messages     []message.Message  `json:"messages"`
	Stream       *livestream.Stream `json:"stream,omitempty"`
	Events       []EventCard        `json:"events"`
	Campaigns    []CampaignCard     `json:"campaigns"`
}

// QueryGetHomePage assembles the landing page.
// PRE: deps.Location is the church's time zone
// POST: returns the first store error, naming the section that failed
func QueryGetHomePage(ctx context.Context, deps GetHomePageDeps, now time.Time) (HomePage, error) {
	var page HomePage
	var err error

	if page.Navigation, err = QueryGetNavigation(ctx, deps.MenuStore); err != nil {
		return HomePage{}, fmt.Errorf("navigation: %w", err)
	}

	slides, err := deps.HeroStore.List(ctx)
	if err != nil {
		return HomePage{}, fmt.Errorf("hero: %w", err)
	}
	page.Slides = hero.Carousel(slides)

	if page.About, err = deps.AboutStore.List(ctx); err != nil {
		return HomePage{}, fmt.Errorf("about: %w", err)
	}

	if page.Schedule, err = deps.ScheduleStore.List(ctx); err != nil {
		return HomePage{}, fmt.Errorf("schedule: %w", err)
	}
	schedule.SortWeekly(page.Schedule)

	first := listutil.PageParams{Page: 1, PerPage: listutil.DefaultPerPage}
	if page.Testimonials, err = QueryGetTestimonialsPage(ctx, first, deps.TestimonialStore); err != nil {
		return HomePage{}, fmt.Errorf("testimonials: %w", err)
	}

	verses, err := deps.VerseStore.List(ctx)
	if err != nil {
		return HomePage{}, fmt.Errorf("verse: %w", err)
	}
	if v, ok := verse.ForDay(verses, now.In(deps.Location)); ok {
		page.Verse = &v
	}

	if page.Messages, err = deps.MessageStore.List(ctx, messageStore.ListFilter{Limit: HomeMessageCount}); err != nil {
		return HomePage{}, fmt.Errorf("messages: %w", err)
	}

	streams, err := deps.StreamStore.List(ctx)
	if err != nil {
		return HomePage{}, fmt.Errorf("streams: %w", err)
	}
	if s, ok := livestream.Current(streams, now); ok {
		page.Stream = &s
	}

	events := GetEventsDeps{EventStore: deps.EventStore, Location: deps.Location}
	if page.Events, err = QueryGetUpcomingEvents(ctx, events, now, HomeEventCount); err != nil {
		return HomePage{}, fmt.Errorf("events: %w", err)
	}

	campaigns, err := QueryGetCampaigns(ctx, GetCampaignsDeps{CampaignStore: deps.CampaignStore, Location: deps.Location}, now)
	if err != nil {
		return HomePage{}, fmt.Errorf("campaigns: %w", err)
	}
	page.Campaigns = campaigns[:min(len(campaigns), HomeCampaignCount)]

	page.About = orEmpty(page.About)
	page.Schedule = orEmpty(page.Schedule)
	page.Messages = orEmpty(page.Messages)
	page.Navigation = orEmpty(page.Navigation)
	page.Events = orEmpty(page.Events)
	return page, nil
}

// orEmpty keeps empty sections as [] rather than null in JSON.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
