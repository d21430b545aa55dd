package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"appraisals/internal/db"
	"appraisals/internal/domain/appraisal"
	"appraisals/internal/domain/audit"
	"appraisals/internal/domain/auth"
	"appraisals/internal/domain/directory"
	"appraisals/internal/domain/notifications"
	"appraisals/internal/domain/objectives"
	"appraisals/internal/domain/reports"
	"appraisals/internal/platform/config"
	"appraisals/internal/platform/email"
	"appraisals/internal/platform/metrics"
	appraisalhandler "appraisals/internal/transport/http/handlers/appraisal"
	audithandler "appraisals/internal/transport/http/handlers/audit"
	authhandler "appraisals/internal/transport/http/handlers/auth"
	directoryhandler "appraisals/internal/transport/http/handlers/directory"
	notificationshandler "appraisals/internal/transport/http/handlers/notifications"
	objectiveshandler "appraisals/internal/transport/http/handlers/objectives"
	"appraisals/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	collector := metrics.New()

	directoryStore := directory.NewStore(pool)
	objectiveStore := objectives.NewStore(pool)
	notifyService := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	appraisalService := appraisal.NewService(appraisal.NewStore(pool), directoryStore, objectiveStore, notifyService)
	reportService := reports.NewService(appraisalService)
	auditService := audit.New(pool)
	authStore := auth.NewStore(pool)
	idempotency := middleware.NewIdempotencyStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequirePermission(auth.PermSystemAdmin)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
				log.Printf("metrics write failed: %v", err)
			}
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/change-password", authHandler.HandleChangePassword)
		r.Get("/auth/me", authHandler.HandleMe)

		appraisalhandler.NewHandler(appraisalService, reportService, auditService, collector, idempotency).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryStore).RegisterRoutes(r)
		objectiveshandler.NewHandler(objectiveStore).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	log.Printf("appraisal server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
