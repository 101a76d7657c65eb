package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the runtime configuration, read from the environment (and an optional .env file).
type Config struct {
	Env      string
	Addr     string
	DBPath   string
	SiteName string
	Timezone *time.Location
	// PublicURL is the externally reachable base URL, used for payment redirect links.
	PublicURL   string
	CORSOrigins []string
	CSRFKey     []byte // nil means generate a random key per startup (development only)

	AdminUsername string
	AdminPassword string

	ResendKey   string
	EmailFrom   string
	EmailReply  string
	StripeKey   string
	StripeHook  string
	Currency    string
	SeedFile    string
	OutboxEvery time.Duration

	SlowRequestMs int
	SlowQueryMs   int
	RateLimit     int
}

// IsProduction reports whether the service runs with production safeguards.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if present) and then the CHURCH_* environment variables.
// PRE: none
// POST: returns a Config with defaults applied, or an error naming the first invalid variable
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Config{
		Env:           envOrDefault("CHURCH_ENV", EnvDevelopment),
		Addr:          envOrDefault("CHURCH_ADDR", ":8080"),
		DBPath:        envOrDefault("CHURCH_DB_PATH", "church.db"),
		SiteName:      envOrDefault("CHURCH_SITE_NAME", "Grace Fellowship"),
		PublicURL:     strings.TrimRight(envOrDefault("CHURCH_PUBLIC_URL", "http://localhost:8080"), "/"),
		AdminUsername: envOrDefault("CHURCH_ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("CHURCH_ADMIN_PASSWORD"),
		ResendKey:     os.Getenv("CHURCH_RESEND_KEY"),
		EmailFrom:     envOrDefault("CHURCH_EMAIL_FROM", "Grace Fellowship <noreply@gracefellowship.org>"),
		EmailReply:    envOrDefault("CHURCH_REPLY_TO", "office@gracefellowship.org"),
		StripeKey:     os.Getenv("CHURCH_STRIPE_KEY"),
		StripeHook:    os.Getenv("CHURCH_STRIPE_WEBHOOK_SECRET"),
		Currency:      strings.ToLower(envOrDefault("CHURCH_CURRENCY", "usd")),
		SeedFile:      os.Getenv("CHURCH_SEED_FILE"),
		SlowRequestMs: envInt("CHURCH_SLOW_REQUEST_MS", 200),
		SlowQueryMs:   envInt("CHURCH_SLOW_QUERY_MS", 50),
		RateLimit:     envInt("CHURCH_RATE_LIMIT", 10),
	}

	if origins := os.Getenv("CHURCH_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	tzName := envOrDefault("CHURCH_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("CHURCH_TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	every, err := time.ParseDuration(envOrDefault("CHURCH_OUTBOX_INTERVAL", "1m"))
	if err != nil || every <= 0 {
		return Config{}, errors.New("CHURCH_OUTBOX_INTERVAL must be a positive duration")
	}
	cfg.OutboxEvery = every

	if keyHex := os.Getenv("CHURCH_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("CHURCH_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.CSRFKey = key
	} else if cfg.IsProduction() {
		return Config{}, errors.New("CHURCH_CSRF_KEY is required in production")
	}

	if cfg.IsProduction() && cfg.AdminPassword == "" {
		return Config{}, errors.New("CHURCH_ADMIN_PASSWORD is required in production")
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "change me please"
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
