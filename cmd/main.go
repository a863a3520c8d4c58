// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/studiofit/class-booking/internal/bookinglog"
	"github.com/studiofit/class-booking/internal/config"
	"github.com/studiofit/class-booking/internal/database"
	"github.com/studiofit/class-booking/internal/handler"
	"github.com/studiofit/class-booking/internal/logger"
	"github.com/studiofit/class-booking/internal/repository"
	"github.com/studiofit/class-booking/internal/seed"
	"github.com/studiofit/class-booking/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, os.Stdout)

	// ── 1. Connect to PostgreSQL and ensure the schema ────────────────────
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to postgres", "db", cfg.DBName)

	// ── 2. Wire up layers ─────────────────────────────────────────────────
	bookingLog := bookinglog.New(cfg.BookingLogPath)
	classRepo := repository.NewClassRepo(pool)
	bookingRepo := repository.NewBookingRepo(pool, cfg.MaxBookingsPerEmail)
	svc := service.NewBookingService(classRepo, bookingRepo, bookingLog, log)
	api := handler.NewBookingHandler(svc, cfg.DefaultTimezone)
	web, err := handler.NewWebHandler(svc, cfg.DefaultTimezone, "web/templates/classes.html")
	if err != nil {
		log.Error("web handler setup failed", "error", err)
		os.Exit(1)
	}

	// ── 3. Seed example classes ───────────────────────────────────────────
	if err := seed.Run(ctx, classRepo, bookingRepo, bookingLog, cfg.SeedForce, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}

	// ── 4. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.AccessLog(log))  // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo

	r.Get("/health", handler.HealthCheck)

	// JSON API
	r.Get("/classes", api.ListClasses)
	r.Get("/classes/{id}", api.GetClass)
	r.Post("/book", api.Book)
	r.Get("/bookings", api.GetBookings)

	// HTML front
	r.Get("/", web.Home)
	r.Post("/book-form", web.BookForm)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
