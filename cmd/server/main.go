/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the salary allocation engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment configuration
  2. Initialize SQLite store (optionally seed demo data)
  3. Create the calendar API client if configured
  4. Create API handler and HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -db      SQLite database path, overrides DB_PATH
           Use ":memory:" for an in-memory database
  -seed    Load the demo data set on startup

ENVIRONMENT (via config, .env supported):
  APP_PORT, APP_ENV, DB_PATH, CALENDAR_API_URL, CALENDAR_API_TOKEN

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with demo data
  ./server -db=":memory:" -seed

  # Run against the hours-tracking API
  CALENDAR_API_URL=https://hours.example.com CALENDAR_API_TOKEN=... ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bracket2code/salary-engine/api"
	"github.com/bracket2code/salary-engine/calendar"
	"github.com/bracket2code/salary-engine/config"
	"github.com/bracket2code/salary-engine/store/sqlite"
)

func main() {
	// Flags
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	seed := flag.Bool("seed", false, "load demo data on startup")
	flag.Parse()

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if *seed {
		if err := store.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("Demo data loaded")
	}

	// Calendar integration is optional; without it the hours endpoint
	// serves empty maps and inputs stay manual.
	var fetcher calendar.Fetcher
	if cfg.Calendar.BaseURL != "" {
		fetcher = calendar.NewClient(cfg.Calendar.BaseURL, cfg.Calendar.Token)
	}

	// Create router
	router := api.NewRouter(api.NewHandler(store, fetcher))

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost%s", cfg.Addr())
		log.Printf("API available at http://localhost%s/api", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
