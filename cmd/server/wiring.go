package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	emailPkg "churchsite/internal/adapters/email"
	web "churchsite/internal/adapters/http"
	"churchsite/internal/adapters/http/perf"
	"churchsite/internal/adapters/payment"
	"churchsite/internal/adapters/storage"
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
	"churchsite/internal/config"
)

// openMigrated opens the configured database and brings its schema up to date.
// POST: the caller owns the returned pool
func openMigrated(path string) (*sql.DB, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, path); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// buildStores creates every store over one connection.
func buildStores(db storage.SQLDB) web.Stores {
	return web.Stores{
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
		OutboxStore:      outboxStore.NewSQLiteStore(db),
	}
}

// seedDeps maps each seeded resource to its store.
func seedDeps(s web.Stores, now func() time.Time) orchestrators.SeedContentDeps {
	return orchestrators.SeedContentDeps{
		Menu:         s.MenuStore,
		Hero:         s.HeroStore,
		About:        s.AboutStore,
		Schedule:     s.ScheduleStore,
		Testimonials: s.TestimonialStore,
		Verses:       s.VerseStore,
		Messages:     s.MessageStore,
		Posts:        s.PostStore,
		Events:       s.EventStore,
		Campaigns:    s.CampaignStore,
		Streams:      s.StreamStore,
		Now:          now,
	}
}

// seedContent loads the YAML seed file, if configured.
func seedContent(ctx context.Context, path string, s web.Stores) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	f, err := orchestrators.ParseSeedFile(data)
	if err != nil {
		return err
	}
	report, err := orchestrators.ExecuteSeedContent(ctx, f, seedDeps(s, time.Now))
	log.Info().Str("file", path).Interface("created", report).Msg("seed_content_loaded")
	return err
}

// emailSender picks Resend when a key is configured.
func emailSender(c config.Config) emailPkg.Sender {
	if c.ResendKey != "" {
		log.Info().Str("provider", "resend").Msg("email_sender_configured")
		return emailPkg.NewResendSender(c.ResendKey, c.EmailFrom, c.EmailReply)
	}
	if c.IsProduction() {
		log.Warn().Msg("CHURCH_RESEND_KEY is not set; email delivery is disabled")
	} else {
		log.Info().Str("provider", "noop").Msg("email_sender_configured")
	}
	return emailPkg.NewNoopSender()
}

// paymentProvider picks Stripe when a key is configured.
func paymentProvider(c config.Config) payment.Provider {
	if c.StripeKey == "" {
		log.Info().Msg("donations_disabled")
		return payment.DisabledProvider{}
	}
	if c.StripeHook == "" {
		log.Warn().Msg("CHURCH_STRIPE_WEBHOOK_SECRET is not set; donations will never be recorded")
	}
	return payment.NewStripeProvider(c.StripeKey, c.StripeHook)
}

// timedStores wraps the pool with query timing for the admin dashboard.
func timedStores(db *sql.DB, c config.Config) (web.Stores, *perf.Collector) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	return buildStores(storage.NewTimedDB(db, collector, c.SlowQueryMs)), collector
}
