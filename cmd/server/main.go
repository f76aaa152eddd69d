/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the HR extensions server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment) and configure logging
  2. Parse command-line flags (override configuration)
  3. Initialize SQLite store and the timesheet analysis view
  4. Number employees still holding the placeholder sequence
  5. Create API handler and configure the upcoming-leave digest
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: $PORT or 8080)
  -db      SQLite database path (default: $DB_PATH or hr.db)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the digest scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/hr.db"

  # Run with in-memory database and JSON logs
  LOG_FORMAT=json ./server -db=":memory:"

  # Mail the digest every hour through a relay
  SMTP_HOST=smtp.example.com DIGEST_RECIPIENTS=hr@example.com DIGEST_INTERVAL=1h ./server

SEE ALSO:
  - config/config.go: Environment keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/warp/hr-extensions/api"
	"github.com/warp/hr-extensions/config"
	"github.com/warp/hr-extensions/leave"
	"github.com/warp/hr-extensions/store/sqlite"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	ctx := context.Background()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	if err := store.InitViews(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create report views")
	}

	// Initialize handler
	handler := api.NewHandler(store)

	if n, err := handler.Employees.Backfill(ctx); err != nil {
		log.WithError(err).Warn("Failed to number employees")
	} else if n > 0 {
		log.WithField("employees", n).Info("Numbered employees")
	}

	// Digest delivery
	digest := handler.Digest
	digest.Recipients = cfg.DigestRecipients
	digest.CheckInterval = cfg.DigestInterval
	if cfg.SMTP.Enabled() {
		digest.Mailer = leave.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}
	digest.Start()

	// Create router
	router := api.NewRouter(handler, cfg.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(log.Fields{"port": *port, "db": *dbPath}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	digest.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
