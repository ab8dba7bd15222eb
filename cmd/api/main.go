// Package main is the entry point for the Travel Connect trip API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-retry"

	"github.com/travelconnect/backend/internal/config"
	"github.com/travelconnect/backend/internal/handler"
	"github.com/travelconnect/backend/internal/media"
	"github.com/travelconnect/backend/internal/middleware"
	"github.com/travelconnect/backend/internal/repo"
	"github.com/travelconnect/backend/internal/service"
	"github.com/travelconnect/backend/migrations"
)

// maxBodyBytes caps request bodies; multipart cover uploads fit comfortably.
const maxBodyBytes = 10 << 20

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional — absent in production, convenient in development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog JSON handler writes machine-readable output suitable for log
	// aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic. The database may
	// still be starting alongside us, so retry with backoff for a while.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelPing()
	err = retry.Do(pingCtx, retry.WithMaxDuration(30*time.Second, retry.NewFibonacci(500*time.Millisecond)), func(ctx context.Context) error {
		return retry.RetryableError(pool.Ping(ctx))
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs database/sql; borrow one connection from the pool config.
	migrateDB := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, migrateDB, migrations.FS)
	if err != nil {
		slog.Error("failed to create migration provider", "error", err)
		os.Exit(1)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := migrateDB.Close(); err != nil {
		slog.Error("failed to release migration connection", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	// --- Media store ------------------------------------------------------
	var mediaStore media.Store
	if cfg.S3Bucket != "" {
		s3Store, err := media.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			slog.Error("failed to initialize S3 media store", "error", err)
			os.Exit(1)
		}
		mediaStore = s3Store
		slog.Info("media store: s3", "bucket", cfg.S3Bucket)
	} else {
		mediaStore = media.NewMemoryStore()
		slog.Warn("media store: in-memory (set S3_BUCKET for persistence)")
	}

	// --- Services ---------------------------------------------------------
	trips := repo.NewTripRepo(pool)
	itinerary := repo.NewItineraryRepo(pool)
	checklist := repo.NewChecklistRepo(pool)
	membership := repo.NewMembershipRepo(pool)

	tripSvc := service.NewTripService(trips, itinerary, checklist, membership, mediaStore)
	itinerarySvc := service.NewItineraryService(trips, itinerary)
	checklistSvc := service.NewChecklistService(trips, checklist)
	membershipSvc := service.NewMembershipService(trips, membership, cfg.BaseURL)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics
	// → Recoverer → CORS → body cap. Recoverer catches panics and returns
	// HTTP 500 instead of crashing.
	metrics := middleware.NewMetrics("travelconnect")
	auth := middleware.NewAuthenticator(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	srv := handler.NewServer(tripSvc, itinerarySvc, checklistSvc, membershipSvc)
	r.Mount("/", srv.Routes(handler.RouteMiddleware{
		RequireAuth:   auth.Require,
		OptionalAuth:  auth.Optional,
		PublicLimiter: httprate.LimitByIP(cfg.PublicRateLimit, time.Minute),
	}))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
