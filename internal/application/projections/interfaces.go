package projections

import (
	"context"

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

// HeroStore interface for hero slide queries.
type HeroStore interface {
	List(ctx context.Context) ([]hero.Slide, error)
}

// AboutStore interface for about section queries.
type AboutStore interface {
	List(ctx context.Context) ([]about.Section, error)
}

// ScheduleStore interface for service schedule queries.
type ScheduleStore interface {
	List(ctx context.Context) ([]schedule.Service, error)
}

// TestimonialStore interface for testimonial queries.
type TestimonialStore interface {
	List(ctx context.Context) ([]testimonial.Testimonial, error)
}

// VerseStore interface for verse queries.
type VerseStore interface {
	List(ctx context.Context) ([]verse.Verse, error)
}

// MessageStore interface for sermon queries.
type MessageStore interface {
	GetByID(ctx context.Context, id string) (message.Message, error)
	List(ctx context.Context, filter messageStore.ListFilter) ([]message.Message, error)
}

// StreamStore interface for live stream queries.
type StreamStore interface {
	List(ctx context.Context) ([]livestream.Stream, error)
}

// MenuStore interface for navigation queries.
type MenuStore interface {
	List(ctx context.Context) ([]menu.Item, error)
}

// EventStore interface for event queries.
type EventStore interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	List(ctx context.Context, filter eventStore.ListFilter) ([]event.Event, error)
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]event.Event, error)
}

// CampaignStore interface for campaign queries.
type CampaignStore interface {
	GetByID(ctx context.Context, id string) (campaign.Campaign, error)
	List(ctx context.Context) ([]campaign.Campaign, error)
}

// PostStore interface for blog queries.
type PostStore interface {
	GetBySlug(ctx context.Context, slug string) (post.Post, error)
	List(ctx context.Context, publishedOnly bool) ([]post.Post, error)
}
