package projections

import (
	"context"
	"time"

	"churchsite/internal/domain/event"
	"churchsite/internal/domain/outbox"
)

// Counter is any store that can count its records.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardEventStore defines the event store interface needed by the admin dashboard.
type DashboardEventStore interface {
	Counter
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]event.Event, error)
	CountRegistrations(ctx context.Context, eventID string) (int, error)
}

// DashboardSubscriberStore defines the subscriber store interface needed by the admin dashboard.
type DashboardSubscriberStore interface {
	CountActive(ctx context.Context) (int, error)
}

// DashboardOutboxStore defines the outbox store interface needed by the admin dashboard.
type DashboardOutboxStore interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	ListFailed(ctx context.Context, limit int) ([]outbox.Entry, error)
}

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	EventStore       DashboardEventStore
	CampaignStore    Counter
	PostStore        Counter
	MessageStore     Counter
	TestimonialStore Counter
	SubscriberStore  DashboardSubscriberStore
	OutboxStore      DashboardOutboxStore // optional: nil skips delivery health
	Location         *time.Location
}

// DashboardCounts are the per-resource totals shown as tiles.
type DashboardCounts struct {
	Events       int `json:"events"`
	Campaigns    int `json:"campaigns"`
	Posts        int `json:"posts"`
	Messages     int `json:"messages"`
	Testimonials int `json:"testimonials"`
	Subscribers  int `json:"subscribers"`
}

// DashboardEvent is an upcoming event with its signup total.
type DashboardEvent struct {
	EventCard
	Registrations int `json:"registrations"`
}

// AdminDashboard is the admin landing page.
type AdminDashboard struct {
	Counts         DashboardCounts  `json:"counts"`
	UpcomingEvents []DashboardEvent `json:"upcomingEvents"`
	Outbox         map[string]int   `json:"outbox,omitempty"`
	FailedEmails   []outbox.Entry   `json:"failedEmails,omitempty"`
}

// DashboardUpcomingCount is how many upcoming events the dashboard lists.
const DashboardUpcomingCount = 5

// QueryGetAdminDashboard aggregates content totals and delivery health.
func QueryGetAdminDashboard(ctx context.Context, deps GetAdminDashboardDeps, now time.Time) (AdminDashboard, error) {
	var d AdminDashboard
	var err error

	counters := []struct {
		store Counter
		dst   *int
	}{
		{deps.EventStore, &d.Counts.Events},
		{deps.CampaignStore, &d.Counts.Campaigns},
		{deps.PostStore, &d.Counts.Posts},
		{deps.MessageStore, &d.Counts.Messages},
		{deps.TestimonialStore, &d.Counts.Testimonials},
	}
	for _, c := range counters {
		if *c.dst, err = c.store.Count(ctx); err != nil {
			return AdminDashboard{}, err
		}
	}
	if d.Counts.Subscribers, err = deps.SubscriberStore.CountActive(ctx); err != nil {
		return AdminDashboard{}, err
	}

	today := now.In(deps.Location).Format(event.DateLayout)
	upcoming, err := deps.EventStore.ListUpcoming(ctx, today, DashboardUpcomingCount)
	if err != nil {
		return AdminDashboard{}, err
	}
	d.UpcomingEvents = make([]DashboardEvent, 0, len(upcoming))
	for _, e := range upcoming {
		n, err := deps.EventStore.CountRegistrations(ctx, e.ID)
		if err != nil {
			return AdminDashboard{}, err
		}
		d.UpcomingEvents = append(d.UpcomingEvents, DashboardEvent{
			EventCard:     NewEventCard(e, deps.Location, now),
			Registrations: n,
		})
	}

	if deps.OutboxStore != nil {
		if d.Outbox, err = deps.OutboxStore.CountByStatus(ctx); err != nil {
			return AdminDashboard{}, err
		}
		if d.FailedEmails, err = deps.OutboxStore.ListFailed(ctx, 10); err != nil {
			return AdminDashboard{}, err
		}
	}
	return d, nil
}
