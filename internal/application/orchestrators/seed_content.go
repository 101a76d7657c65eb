package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"churchsite/internal/adapters/storage"
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

// SeedFile is the layout of the content seed YAML.
type SeedFile struct {
	Menu         []menu.Item               `yaml:"menu"`
	Hero         []hero.Slide              `yaml:"hero"`
	About        []about.Section           `yaml:"about"`
	Schedule     []schedule.Service        `yaml:"schedule"`
	Testimonials []testimonial.Testimonial `yaml:"testimonials"`
	Verses       []verse.Verse             `yaml:"verses"`
	Messages     []message.Message         `yaml:"messages"`
	Posts        []post.Post               `yaml:"posts"`
	Events       []event.Event             `yaml:"events"`
	Campaigns    []campaign.Campaign       `yaml:"campaigns"`
	Streams      []livestream.Stream       `yaml:"streams"`
}

// SeedStore is the store capability seeding needs for one resource.
type SeedStore[T any] interface {
	GetByID(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, v T) error
}

// SeedContentDeps holds one store per seeded resource. Nil stores are skipped.
type SeedContentDeps struct {
	Menu         SeedStore[menu.Item]
	Hero         SeedStore[hero.Slide]
	About        SeedStore[about.Section]
	Schedule     SeedStore[schedule.Service]
	Testimonials SeedStore[testimonial.Testimonial]
	Verses       SeedStore[verse.Verse]
	Messages     SeedStore[message.Message]
	Posts        SeedStore[post.Post]
	Events       SeedStore[event.Event]
	Campaigns    SeedStore[campaign.Campaign]
	Streams      SeedStore[livestream.Stream]
	Now          func() time.Time
}

// SeedReport counts the records created per resource.
type SeedReport map[string]int

// ParseSeedFile decodes seed YAML, rejecting unknown keys.
func ParseSeedFile(data []byte) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

// ExecuteSeedContent inserts seed records whose ID does not exist yet.
// Records without an ID get a fresh one and are always inserted, so seed files
// meant to be re-run should carry IDs.
// PRE: every record passes its domain validation
// POST: existing records are never overwritten
func ExecuteSeedContent(ctx context.Context, f SeedFile, deps SeedContentDeps) (SeedReport, error) {
	now := deps.Now()
	report := SeedReport{}
	var errs []error

	run := func(name string, n int, err error) {
		report[name] = n
		if err != nil {
			errs = append(errs, fmt.Errorf("seed %s: %w", name, err))
		}
	}

	n, err := seedAll(ctx, deps.Menu, f.Menu, func(v *menu.Item) *string { return &v.ID },
		func(v *menu.Item) error { return v.Validate() })
	run("menu", n, err)

	n, err = seedAll(ctx, deps.Hero, f.Hero, func(v *hero.Slide) *string { return &v.ID },
		func(v *hero.Slide) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("hero", n, err)

	n, err = seedAll(ctx, deps.About, f.About, func(v *about.Section) *string { return &v.ID },
		func(v *about.Section) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("about", n, err)

	n, err = seedAll(ctx, deps.Schedule, f.Schedule, func(v *schedule.Service) *string { return &v.ID },
		func(v *schedule.Service) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("schedule", n, err)

	n, err = seedAll(ctx, deps.Testimonials, f.Testimonials, func(v *testimonial.Testimonial) *string { return &v.ID },
		func(v *testimonial.Testimonial) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("testimonials", n, err)

	n, err = seedAll(ctx, deps.Verses, f.Verses, func(v *verse.Verse) *string { return &v.ID },
		func(v *verse.Verse) error {
			v.CreatedAt = now
			return v.Validate()
		})
	run("verses", n, err)

	n, err = seedAll(ctx, deps.Messages, f.Messages, func(v *message.Message) *string { return &v.ID },
		func(v *message.Message) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("messages", n, err)

	n, err = seedAll(ctx, deps.Posts, f.Posts, func(v *post.Post) *string { return &v.ID },
		func(v *post.Post) error {
			v.CreatedAt, v.UpdatedAt = now, now
			if v.Published {
				v.Publish(now)
			}
			return v.Validate()
		})
	run("posts", n, err)

	n, err = seedAll(ctx, deps.Events, f.Events, func(v *event.Event) *string { return &v.ID },
		func(v *event.Event) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("events", n, err)

	n, err = seedAll(ctx, deps.Campaigns, f.Campaigns, func(v *campaign.Campaign) *string { return &v.ID },
		func(v *campaign.Campaign) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("campaigns", n, err)

	n, err = seedAll(ctx, deps.Streams, f.Streams, func(v *livestream.Stream) *string { return &v.ID },
		func(v *livestream.Stream) error {
			v.CreatedAt, v.UpdatedAt = now, now
			return v.Validate()
		})
	run("streams", n, err)

	total := 0
	for _, c := range report {
		total += c
	}
	log.Info().Int("created", total).Msg("content_seeded")
	return report, errors.Join(errs...)
}

func seedAll[T any](ctx context.Context, store SeedStore[T], items []T, id func(*T) *string, prepare func(*T) error) (int, error) {
	if store == nil || len(items) == 0 {
		return 0, nil
	}
	created := 0
	for i := range items {
		item := items[i]
		idp := id(&item)
		if *idp == "" {
			*idp = uuid.NewString()
		} else if _, err := store.GetByID(ctx, *idp); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return created, err
		}
		if err := prepare(&item); err != nil {
			return created, fmt.Errorf("record %d (%s): %w", i, *idp, err)
		}
		if err := store.Save(ctx, item); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
