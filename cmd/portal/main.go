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

	"github.com/duxcare/portal/internal/agent"
	"github.com/duxcare/portal/internal/chat"
	"github.com/duxcare/portal/internal/notify"
	"github.com/duxcare/portal/internal/patient"
	"github.com/duxcare/portal/internal/shared/auth"
	"github.com/duxcare/portal/internal/shared/config"
	"github.com/duxcare/portal/internal/shared/metrics"
	secmiddleware "github.com/duxcare/portal/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Store  *patient.Store
	Agents *agent.Client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := patient.Open(cfg.Storage.DataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open patient store: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg, Store: store}

	// Agent service client
	agents := agent.NewClient(cfg.Agent)
	app.Agents = agents

	// Email delivery with optional model-backed welcome summaries
	var summarizer notify.SummaryGenerator
	if s := notify.NewOpenAISummarizer(cfg.Summary, cfg.Email.HospitalName); s != nil {
		summarizer = s
		fmt.Println("Welcome email summaries: model-backed")
	} else {
		fmt.Println("Welcome email summaries: static template")
	}
	mailer := notify.NewService(notify.NewBrevoProvider(cfg.Email), summarizer, cfg.Email, cfg.Server.BaseURL)

	patientService := patient.NewService(store, agents, mailer)
	chatService := chat.NewService(store, agents)

	patientHandler := patient.NewHandler(store, patientService, cfg.Auth)
	chatHandler := chat.NewHandler(chatService)

	loginLimiter := secmiddleware.NewIPRateLimiter(5, 10)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.BodyLimit(1 << 20))
	r.Use(metrics.Middleware)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig()))

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// Login routes (rate limited, unauthenticated)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Mount("/", patientHandler.AuthRoutes())
	})

	// Authenticated API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleNurse))
			r.Mount("/", patientHandler.Routes())
			r.Mount("/care", chatHandler.NurseRoutes())
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RolePatient))
			r.Mount("/chat", chatHandler.PatientRoutes())
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
	fmt.Println("Care Coordination Portal")
	fmt.Println("============================================")
	fmt.Printf("Environment:    %s\n", cfg.Server.Env)
	fmt.Printf("Server:         http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:            http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:         http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Data file:      %s\n", cfg.Storage.DataFile)
	fmt.Printf("Agent service:  %s\n", cfg.Agent.URL)
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
		"name":    "Care Coordination Portal",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
			"store":  "ready",
		}

		if err := app.Agents.Health(r.Context()); err != nil {
			checks["agent_service"] = "not ready: " + err.Error()
		} else {
			checks["agent_service"] = "ready"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
