package browser_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	web "churchsite/internal/adapters/http"
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
	"churchsite/internal/adapters/storage/storagetest"
	testimonialStore "churchsite/internal/adapters/storage/testimonial"
	verseStore "churchsite/internal/adapters/storage/verse"
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/domain/account"
)

const (
	adminUser     = "pastor"
	adminPassword = "correct-horse-battery"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Stores  web.Stores
	Browser playwright.Browser
}

// newTestApp wires the site over a temp SQLite database loaded with the sample
// seed content, and starts a headless Chromium. Without an installed Playwright
// driver the test is skipped.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	db := storagetest.Open(t)
	stores := web.Stores{
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

	ctx := context.Background()
	if _, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Username: adminUser,
		Password: adminPassword,
		Role:     account.RoleAdmin,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, Now: time.Now}); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	loadSeed(t, stores)

	srv := httptest.NewServer(web.NewServer(stores, web.Options{
		SiteName:  "Grace Fellowship",
		PublicURL: "http://127.0.0.1",
		Currency:  "usd",
		Location:  time.UTC,
		CSRFKey:   []byte("0123456789abcdef0123456789abcdef"),
		Payments:  payment.DisabledProvider{},
	}).Handler())
	t.Cleanup(srv.Close)

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright driver unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("chromium unavailable: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{BaseURL: srv.URL, Stores: stores, Browser: browser}
}

// loadSeed inserts the sample content shipped in seed/content.yaml.
func loadSeed(t *testing.T, s web.Stores) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(findProjectRoot(t), "seed", "content.yaml"))
	if err != nil {
		t.Fatalf("failed to read seed file: %v", err)
	}
	f, err := orchestrators.ParseSeedFile(data)
	if err != nil {
		t.Fatalf("failed to parse seed file: %v", err)
	}
	if _, err := orchestrators.ExecuteSeedContent(context.Background(), f, orchestrators.SeedContentDeps{
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
		Now:          time.Now,
	}); err != nil {
		t.Fatalf("failed to seed content: %v", err)
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the admin login form.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/admin/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill(adminUser); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(adminPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("form.login button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to the dashboard: %v", err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
