package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	web "churchsite/internal/adapters/http"
	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/adapters/storage"
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/domain/outbox"
)

const (
	shutdownGrace    = 15 * time.Second
	sessionPruneTick = time.Hour
	limiterEvictTick = 5 * time.Minute
)

// serveCmd runs the web server and its background workers
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the website, API and outbox worker",
	Long: `Migrate the database, seed the first admin and any configured content,
then serve HTTP until interrupted. SIGINT or SIGTERM drains in-flight
requests before exiting.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openMigrated(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	stores, collector := timedStores(db, cfg)

	created, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		Now:          time.Now,
	}, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created && !cfg.IsProduction() {
		log.Warn().Str("username", cfg.AdminUsername).Msg("development admin created; set CHURCH_ADMIN_PASSWORD before going live")
	}
	if err := seedContent(ctx, cfg.SeedFile, stores); err != nil {
		return err
	}

	csrfKey := cfg.CSRFKey
	if csrfKey == nil {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return fmt.Errorf("generate csrf key: %w", err)
		}
		log.Warn().Msg("CHURCH_CSRF_KEY not set; form tokens will not survive a restart")
	}

	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: orchestrators.EmailExecutor{Sender: emailSender(cfg)},
	}, time.Now)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Second)

	srv := web.NewServer(stores, web.Options{
		SiteName:      cfg.SiteName,
		PublicURL:     cfg.PublicURL,
		Currency:      cfg.Currency,
		Location:      cfg.Timezone,
		CSRFKey:       csrfKey,
		Secure:        cfg.IsProduction(),
		CORSOrigins:   cfg.CORSOrigins,
		Limiter:       limiter,
		Collector:     collector,
		SlowRequestMs: cfg.SlowRequestMs,
		Payments:      paymentProvider(cfg),
		Outbox:        processor,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("version", version).Str("env", cfg.Env).
			Int("schema", storage.LatestSchemaVersion()).Msg("server_starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Info().Msg("server_stopping")
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return processor.Run(gctx, cfg.OutboxEvery)
	})
	g.Go(func() error {
		limiter.Run(gctx, limiterEvictTick)
		return nil
	})
	g.Go(func() error {
		return pruneSessions(gctx, orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
			SessionStore: stores.SessionStore,
			Now:          time.Now,
		}, sessionPruneTick)
	})

	err = g.Wait()
	log.Info().Err(err).Msg("server_stopped")
	return err
}

// pruneSessions deletes expired sessions every interval until ctx is cancelled.
func pruneSessions(ctx context.Context, deps orchestrators.LoginDeps, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if _, err := orchestrators.ExecutePruneSessions(ctx, deps); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("session_prune_failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
