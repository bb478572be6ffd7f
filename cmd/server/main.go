// Command server runs the notification dispatch engine: the HTTP API, the
// periodic digest flush worker, and the background channel sender pools.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-notify-backend/internal/channels"
	"github.com/tbourn/go-notify-backend/internal/config"
	httpapi "github.com/tbourn/go-notify-backend/internal/http"
	"github.com/tbourn/go-notify-backend/internal/kvstore"
	"github.com/tbourn/go-notify-backend/internal/observability"
	"github.com/tbourn/go-notify-backend/internal/registry"
	"github.com/tbourn/go-notify-backend/internal/repo"
	"github.com/tbourn/go-notify-backend/internal/sysutil"
)

const version = "1.0.0"

// @title           Notification Dispatch API
// @version         1.0
// @description     Notification dispatch engine for the services marketplace: event dispatch, in-app feed, and per-event delivery preferences.
// @BasePath        /api/v1
func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()
	cfg := config.MustLoad()

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	if err := repo.SeedCatalogue(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	reg, err := registry.Load(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("load event registry failed")
	}

	// Shared keyed store for admission counters and dedup fingerprints.
	var store kvstore.Store
	if cfg.Redis.Addr == "" {
		store = kvstore.NewMemoryStore()
		log.Info().Msg("using in-process admission store (single instance only)")
	} else {
		rs, err := kvstore.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis dial failed")
		}
		defer rs.Close()
		store = rs
	}

	// Background sender pools for the slow channels.
	email := channels.NewPool(&channels.LogSender{Channel: "email"}, "email", cfg.Digest.SenderWorkers, cfg.Digest.SenderQueue)
	push := channels.NewPool(&channels.LogSender{Channel: "push"}, "push", cfg.Digest.SenderWorkers, cfg.Digest.SenderQueue)
	defer email.Close()
	defer push.Close()

	r := gin.New()
	digests := httpapi.RegisterRoutes(r, db, store, reg, email, push, cfg)

	// Digest flush worker: delivers due queued items and sweeps expired ones.
	flushCtx, stopFlush := context.WithCancel(ctx)
	defer stopFlush()
	go func() {
		ticker := time.NewTicker(cfg.Digest.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-flushCtx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				digests.FlushAll(flushCtx, now)
				if n, err := digests.SweepExpired(flushCtx, now); err != nil {
					log.Warn().Err(err).Msg("digest sweep failed")
				} else if n > 0 {
					log.Info().Int("dropped", n).Msg("expired digest items dropped")
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	stopFlush()

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
}
