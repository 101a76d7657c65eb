package projections

import (
	"context"
	"fmt"

	"churchsite/internal/adapters/storage"
	eventStore "churchsite/internal/adapters/storage/event"
	messageStore "churchsite/internal/adapters/storage/message"
	"churchsite/internal/domain/about"
	"churchsite/internal/domain/campaign"
	"churchsite/internal/domain/event"
	"churchsite/internal/domain/hero"
	"churchsite/internal/domain/livestream"
	"churchsite/internal/domain/menu"
	"churchsite/internal/domain/message"
	"churchsite/internal/domain/outbox"
	"churchsite/internal/domain/post"
	"churchsite/internal/domain/schedule"
	"churchsite/internal/domain/testimonial"
	"churchsite/internal/domain/verse"
)

// listMock serves a fixed slice, or err when set.
type listMock[T any] struct {
	items []T
	err   error
}

// List returns the seeded items.
// POST: Returns the seeded items or the configured error
func (m *listMock[T]) List(context.Context) ([]T, error) {
	return m.items, m.err
}

// Count returns the number of seeded items.
func (m *listMock[T]) Count(context.Context) (int, error) {
	return len(m.items), m.err
}

type mockEventStore struct {
	events        []event.Event
	fromDate      string
	registrations map[string]int
}

// GetByID returns a seeded event by ID.
// PRE: id is non-empty
// POST: Returns the seeded event or storage.ErrNotFound
func (m *mockEventStore) GetByID(_ context.Context, id string) (event.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return event.Event{}, fmt.Errorf("event %w", storage.ErrNotFound)
}

// List returns seeded events matching the category.
func (m *mockEventStore) List(_ context.Context, f eventStore.ListFilter) ([]event.Event, error) {
	var out []event.Event
	for _, e := range m.events {
		if f.Category == "" || e.Category == f.Category {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListUpcoming records fromDate and returns seeded events on or after it.
func (m *mockEventStore) ListUpcoming(_ context.Context, fromDate string, limit int) ([]event.Event, error) {
	m.fromDate = fromDate
	var out []event.Event
	for _, e := range m.events {
		if e.Date >= fromDate && (limit <= 0 || len(out) < limit) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Count returns the number of seeded events.
func (m *mockEventStore) Count(context.Context) (int, error) { return len(m.events), nil }

// CountRegistrations returns the seeded registration count for the event.
func (m *mockEventStore) CountRegistrations(_ context.Context, id string) (int, error) {
	return m.registrations[id], nil
}

type mockCampaignStore struct {
	listMock[campaign.Campaign]
}

// GetByID returns a seeded campaign by ID.
func (m *mockCampaignStore) GetByID(_ context.Context, id string) (campaign.Campaign, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return campaign.Campaign{}, fmt.Errorf("campaign %w", storage.ErrNotFound)
}

type mockMessageStore struct {
	messages []message.Message
	filter   messageStore.ListFilter
}

// GetByID returns a seeded message by ID.
func (m *mockMessageStore) GetByID(_ context.Context, id string) (message.Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return message.Message{}, fmt.Errorf("message %w", storage.ErrNotFound)
}

// List records the filter and returns the seeded messages.
func (m *mockMessageStore) List(_ context.Context, f messageStore.ListFilter) ([]message.Message, error) {
	m.filter = f
	out := m.messages
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Count returns the number of seeded messages.
func (m *mockMessageStore) Count(context.Context) (int, error) { return len(m.messages), nil }

type mockPostStore struct {
	listMock[post.Post]
}

// GetBySlug returns a seeded post by slug, drafts included.
func (m *mockPostStore) GetBySlug(_ context.Context, slug string) (post.Post, error) {
	for _, p := range m.items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return post.Post{}, fmt.Errorf("post %w", storage.ErrNotFound)
}

// List returns seeded posts, optionally published only.
func (m *mockPostStore) List(_ context.Context, publishedOnly bool) ([]post.Post, error) {
	var out []post.Post
	for _, p := range m.items {
		if !publishedOnly || p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockSubscriberStore struct{ active int }

// CountActive returns the seeded subscriber total.
func (m mockSubscriberStore) CountActive(context.Context) (int, error) { return m.active, nil }

type mockOutboxStore struct {
	counts map[string]int
	failed []outbox.Entry
}

// CountByStatus returns the seeded status counts.
func (m mockOutboxStore) CountByStatus(context.Context) (map[string]int, error) { return m.counts, nil }

// ListFailed returns the seeded failed entries.
func (m mockOutboxStore) ListFailed(context.Context, int) ([]outbox.Entry, error) { return m.failed, nil }

var (
	_ HeroStore        = (*listMock[hero.Slide])(nil)
	_ AboutStore       = (*listMock[about.Section])(nil)
	_ ScheduleStore    = (*listMock[schedule.Service])(nil)
	_ TestimonialStore = (*listMock[testimonial.Testimonial])(nil)
	_ VerseStore       = (*listMock[verse.Verse])(nil)
	_ StreamStore      = (*listMock[livestream.Stream])(nil)
	_ MenuStore        = (*listMock[menu.Item])(nil)
	_ EventStore       = (*mockEventStore)(nil)
	_ CampaignStore    = (*mockCampaignStore)(nil)
	_ PostStore        = (*mockPostStore)(nil)
	_ MessageStore     = (*mockMessageStore)(nil)
)
