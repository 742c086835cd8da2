package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/hostelcare/hostelcare/internal/config"
	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/events"
	"github.com/hostelcare/hostelcare/internal/handlers"
	"github.com/hostelcare/hostelcare/internal/middleware"
	"github.com/hostelcare/hostelcare/internal/services"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting HostelCare...")

	if cfg.AdminPassword == "" {
		log.Fatalf("ADMIN_PASSWORD is not set")
	}
	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	jwtAuthMiddleware := middleware.NewJWTAuthMiddleware(&middleware.JWTAuthConfig{
		JWTSecret:      cfg.JWTSecret,
		JWTExpiryHours: cfg.JWTExpiryHours,
		SkipPaths: []string{
			"/health",
			"/auth/login",
			"/auth/signup",
		},
	})
	log.Printf("JWT authentication enabled, admin account: %s", cfg.AdminEmail)

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established")

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	if err := database.InitializeDefaults(cfg.AdminEmail, cfg.AdminName, string(adminHash)); err != nil {
		log.Fatalf("Failed to initialize database defaults: %v", err)
	}

	db := database.GetDB()

	// Event hub pushes issue and announcement updates to connected clients
	hub := events.NewHub()

	// Initialize services
	userService := services.NewUserService(db, hub)
	issueService := services.NewIssueService(db, hub)
	staffService := services.NewStaffService(db)
	lostFoundService := services.NewLostFoundService(db)
	feedbackService := services.NewFeedbackService(db)
	announcementService := services.NewAnnouncementService(db, hub)
	threadService := services.NewThreadService(db)
	log.Printf("Services initialized")

	// Seed the maintenance staff roster if a seed file is configured
	if cfg.StaffSeedPath != "" {
		if err := seedStaff(staffService, cfg.StaffSeedPath); err != nil {
			log.Printf("Warning: Failed to seed staff roster: %v", err)
		}
	}

	// Set up HTTP server routes
	httpHandler := handlers.NewHTTPHandler()
	apiHandler := handlers.NewAPIHandler(
		userService,
		issueService,
		staffService,
		lostFoundService,
		feedbackService,
		announcementService,
		threadService,
		jwtAuthMiddleware,
	)

	mux := http.NewServeMux()
	httpHandler.SetupRoutes(mux)
	apiHandler.SetupRoutes(mux)
	hub.SetupRoutes(mux)

	// CORS first, then request IDs, then JWT authentication
	corsMiddleware := middleware.NewCORSMiddleware(cfg.AllowedOrigins...)
	handler := corsMiddleware.Wrap(middleware.RequestIDMiddleware(jwtAuthMiddleware.Wrap(mux)))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)
	log.Printf("Event stream: ws://localhost:%d/ws/events", cfg.HTTPPort)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Received shutdown signal, cleaning up...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Shutdown complete")
}

// seedStaff inserts roster entries that are not present yet. Matching is by
// email so re-running the seed is safe.
func seedStaff(staffService *services.StaffService, path string) error {
	seed, err := config.LoadStaffSeed(path)
	if err != nil {
		return err
	}

	existing, err := staffService.ListStaff("")
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s.Email] = true
	}

	seeded := 0
	admin := services.Actor{ID: "system", Name: "system"}
	for _, entry := range seed.Staff {
		if known[entry.Email] {
			continue
		}
		_, err := staffService.CreateStaff(admin, services.CreateStaffInput{
			Name:      entry.Name,
			Email:     entry.Email,
			Phone:     entry.Phone,
			Specialty: database.StaffSpecialty(entry.Specialty),
			Hostel:    entry.Hostel,
		})
		if err != nil {
			return err
		}
		seeded++
	}
	if seeded > 0 {
		log.Printf("Seeded %d staff members from %s", seeded, path)
	}
	return nil
}
