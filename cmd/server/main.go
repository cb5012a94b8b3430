package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nivenhub/timelinecore/internal/app"
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/eventlog/kurrentdb"
	"github.com/nivenhub/timelinecore/internal/httpapi"
	"github.com/nivenhub/timelinecore/internal/projector"
	"github.com/nivenhub/timelinecore/internal/readstore"
	"github.com/nivenhub/timelinecore/internal/readstore/postgres"
	"github.com/nivenhub/timelinecore/internal/shared/auth"
	"github.com/nivenhub/timelinecore/internal/shared/config"
	"github.com/nivenhub/timelinecore/internal/shared/database"
	"github.com/nivenhub/timelinecore/internal/shared/metrics"
	secmiddleware "github.com/nivenhub/timelinecore/internal/shared/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	tunables := readstore.Tunables{
		CelebrityThreshold: cfg.Tunables.CelebrityThreshold,
		MaxTimeline:        cfg.Tunables.MaxTimeline,
	}

	log, closeLog := buildEventLog(ctx, cfg)
	defer closeLog()

	store, healthCheck, closeStore := buildReadStore(ctx, cfg, tunables)
	defer closeStore()

	core := app.New(log, store, tunables, projector.PrometheusObserver{})

	fmt.Println("Replaying event log into read store...")
	if err := core.Replay(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig()))
	r.Use(secmiddleware.InputSanitizer)
	r.Use(metrics.Middleware)

	ipLimiter := secmiddleware.NewIPRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	r.Use(ipLimiter.Middleware)

	r.Get("/health", healthHandler(healthCheck))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Server.Env == "production" {
			r.Use(auth.Middleware(cfg.Auth))
		}

		httpHandler := httpapi.NewHandler(core.Commands, core.Queries)
		r.Mount("/", httpHandler.Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("timelinecore")
	fmt.Println("============================================")
	fmt.Printf("Environment:        %s\n", cfg.Server.Env)
	fmt.Printf("Server:             http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:                http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Celebrity threshold: %d\n", cfg.Tunables.CelebrityThreshold)
	fmt.Printf("Max timeline:       %d\n", cfg.Tunables.MaxTimeline)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

// buildEventLog wires the durable KurrentDB-backed log when
// EVENTLOG_BACKEND=kurrentdb, falling back to the in-memory log
// otherwise (local development, tests).
func buildEventLog(ctx context.Context, cfg *config.Config) (eventlog.Log, func()) {
	if os.Getenv("EVENTLOG_BACKEND") != "kurrentdb" {
		fmt.Println("Event log: in-memory")
		return eventlog.NewMemoryLog(), func() {}
	}

	client, err := kurrentdb.NewClient(kurrentdb.Config{
		Host:     cfg.KurrentDB.Host,
		Port:     cfg.KurrentDB.Port,
		Insecure: cfg.KurrentDB.Insecure,
		Username: cfg.KurrentDB.Username,
		Password: cfg.KurrentDB.Password,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "kurrentdb connection failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Event log: KurrentDB at %s:%d\n", cfg.KurrentDB.Host, cfg.KurrentDB.Port)
	return kurrentdb.NewStore(client), func() { client.Close() }
}

// buildReadStore wires the durable Postgres-backed store when
// READSTORE_BACKEND=postgres, falling back to the in-memory store
// otherwise. The returned health check func reports the backing store's
// liveness; for the in-memory store that is always nil (healthy).
func buildReadStore(ctx context.Context, cfg *config.Config, tunables readstore.Tunables) (readstore.Store, func(context.Context) error, func()) {
	if os.Getenv("READSTORE_BACKEND") != "postgres" {
		fmt.Println("Read store: in-memory")
		return readstore.NewMemoryStore(tunables), func(context.Context) error { return nil }, func() {}
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Read store: Postgres at %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	return postgres.New(db.Pool, tunables), db.Health, func() { db.Close() }
}

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := check(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}
