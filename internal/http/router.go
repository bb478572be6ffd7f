// Package httpapi wires the HTTP transport (Gin) to the dispatch engine,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, compression, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-notify-backend/docs" // generated swagger spec

	"github.com/tbourn/go-notify-backend/internal/admission"
	"github.com/tbourn/go-notify-backend/internal/audit"
	"github.com/tbourn/go-notify-backend/internal/channels"
	"github.com/tbourn/go-notify-backend/internal/config"
	"github.com/tbourn/go-notify-backend/internal/dedupe"
	"github.com/tbourn/go-notify-backend/internal/http/handlers"
	"github.com/tbourn/go-notify-backend/internal/http/middleware"
	"github.com/tbourn/go-notify-backend/internal/kvstore"
	"github.com/tbourn/go-notify-backend/internal/prefs"
	"github.com/tbourn/go-notify-backend/internal/registry"
	"github.com/tbourn/go-notify-backend/internal/schedule"
	"github.com/tbourn/go-notify-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine, builds the dispatch pipeline over the injected primitives, and
// mounts the versioned public API under cfg.APIBasePath.
//
// It returns the digest service so the caller can run the periodic flush
// worker; the HTTP layer itself never flushes.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Response compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store kvstore.Store, reg *registry.Registry, email, push channels.Sender, cfg config.Config) *services.DigestService {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-User-ID", // recipient identity; keep it out of access logs
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON responses; /metrics stays uncompressed so Prometheus
	// scrapes remain cheap to inspect.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.CodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.CodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in; never expose in production by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: dispatch pipeline ← primitives
	fanout := channels.NewFanOut(db, email, push)
	recorder := audit.NewRecorder(db)

	scheduler := schedule.NewScheduler()
	scheduler.DailyHour = cfg.Digest.DailyHour
	scheduler.WeeklyHour = cfg.Digest.WeeklyHour

	digestSvc := &services.DigestService{
		DB:        db,
		Registry:  reg,
		FanOut:    fanout,
		Audit:     recorder,
		Retention: cfg.Digest.Retention,
	}
	dispatchSvc := &services.DispatchService{
		DB:       db,
		Registry: reg,
		Prefs:    prefs.NewResolver(db),
		Admission: admission.NewController(store, admission.Limits{
			PerEventLimit:  int64(cfg.Admission.PerEventLimit),
			PerEventWindow: cfg.Admission.PerEventWindow,
			GlobalLimit:    int64(cfg.Admission.GlobalLimit),
			GlobalWindow:   cfg.Admission.GlobalWindow,
		}),
		Dedupe:    dedupe.NewSuppressor(store, cfg.DedupTTL),
		Scheduler: scheduler,
		FanOut:    fanout,
		Audit:     recorder,
		Digests:   digestSvc,
	}
	notifSvc := &services.NotificationService{DB: db}
	prefSvc := &services.PreferenceService{DB: db, Registry: reg}

	h := handlers.New(dispatchSvc, notifSvc, prefSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Dispatch
		api.POST("/dispatch", h.HandleDispatch)

		// Notification feed
		api.GET("/notifications", h.HandleListNotifications)
		api.POST("/notifications/:id/read", h.HandleMarkRead)
		api.POST("/notifications/read-all", h.HandleMarkAllRead)

		// Preferences
		api.GET("/preferences/:event_key", h.HandleGetPreference)
		api.PUT("/preferences/:event_key", h.HandleUpdatePreference)
	}

	return digestSvc
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
