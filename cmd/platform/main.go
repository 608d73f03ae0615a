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

	"github.com/neumoapp/platform/internal/hospital"
	"github.com/neumoapp/platform/internal/patient"
	"github.com/neumoapp/platform/internal/room"
	"github.com/neumoapp/platform/internal/scheduling"
	"github.com/neumoapp/platform/internal/shared/auth"
	"github.com/neumoapp/platform/internal/shared/config"
	"github.com/neumoapp/platform/internal/shared/database"
	"github.com/neumoapp/platform/internal/shared/events"
	"github.com/neumoapp/platform/internal/shared/metrics"
	secmiddleware "github.com/neumoapp/platform/internal/shared/middleware"
	"github.com/neumoapp/platform/internal/specialty"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	DB     *database.DB
	Bus    *events.Bus
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	app.DB = db
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// Event streaming is optional; booking still works without it
	bus, err := events.NewBus(cfg.EventStore)
	if err != nil {
		fmt.Printf("Warning: event store not available: %v\n", err)
		fmt.Println("Running without event streaming...")
	} else {
		app.Bus = bus
		defer bus.Close()
		fmt.Println("Event bus initialized")
	}

	issuer := auth.NewTokenIssuer(cfg.Auth)
	schedule := scheduling.NewSchedule(cfg.Scheduling)

	// Repositories
	patientRepo := patient.NewRepository(db.Pool)
	hospitalRepo := hospital.NewRepository(db.Pool)
	specialtyRepo := specialty.NewRepository(db.Pool)
	roomRepo := room.NewRepository(db.Pool)
	appointmentStore := scheduling.NewStore(db.Pool)

	// Scheduling services
	specialtyDir := scheduling.NewSpecialtyDirectory(specialtyRepo)
	roomDir := scheduling.NewRoomDirectory(roomRepo)
	hospitalDir := scheduling.NewHospitalDirectory(hospitalRepo)
	availability := scheduling.NewAvailabilityService(specialtyDir, roomDir, appointmentStore, schedule)
	booking := scheduling.NewBookingService(specialtyDir, roomDir, hospitalDir, appointmentStore, schedule, app.Bus)

	// Handlers
	patientHandler := patient.NewHandler(patientRepo, issuer, app.Bus)
	hospitalHandler := hospital.NewHandler(hospitalRepo)
	specialtyHandler := specialty.NewHandler(specialtyRepo)
	roomHandler := room.NewHandler(roomRepo)
	schedulingHandler := scheduling.NewHandler(availability, booking)

	rateLimiter := secmiddleware.NewIPRateLimiter(20, 40)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig()))
	r.Use(rateLimiter.Middleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Registration and login need no token
		r.Mount("/auth", patientHandler.PublicRoutes())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))

			r.Mount("/patients", patientHandler.Routes())
			r.Mount("/hospitals", hospitalHandler.Routes())
			r.Mount("/specialties", specialtyHandler.Routes())
			r.Mount("/rooms", roomHandler.Routes())
			r.Mount("/", schedulingHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("Neumoapp Appointment Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment:  %s\n", cfg.Server.Env)
	fmt.Printf("Server:       http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:          http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:       http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Event store:  %s:%d\n", cfg.EventStore.Host, cfg.EventStore.Port)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "Neumoapp Appointment Platform",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}
		ready := true

		if err := app.DB.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
			ready = false
		} else {
			checks["database"] = "ready"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["event_store"] = "not ready: " + err.Error()
			} else {
				checks["event_store"] = "ready"
			}
		} else {
			checks["event_store"] = "not configured"
		}

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(checks)
	}
}
