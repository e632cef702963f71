package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"lawfirm-crm/internal/config"
	"lawfirm-crm/internal/database"
	"lawfirm-crm/internal/gmailsync"
	"lawfirm-crm/internal/handlers"
	"lawfirm-crm/internal/ingest"
	"lawfirm-crm/internal/mailbox"
	"lawfirm-crm/internal/mailer"
	"lawfirm-crm/internal/metrics"
	"lawfirm-crm/internal/repository"
	"lawfirm-crm/internal/scheduler"
	"lawfirm-crm/internal/server"
	"lawfirm-crm/internal/storage"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Law Firm CRM backend")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.New(db)
	m := metrics.New()

	uploader, err := storage.NewS3Uploader(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage uploader: %w", err)
	}

	fetcher := mailbox.NewIMAPFetcher(&cfg.Mailbox)
	pipeline := ingest.New(repo, uploader, cfg.Mailbox.Username)
	sender := mailer.New(&cfg.SMTP)

	var gmail *gmailsync.Service
	var syncer scheduler.GmailSyncer
	var authorizer handlers.GmailAuthorizer
	if cfg.Gmail.Enabled {
		gmail, err = gmailsync.NewService(&cfg.Gmail, repo)
		if err != nil {
			return fmt.Errorf("failed to create Gmail sync service: %w", err)
		}
		syncer = gmail
		authorizer = gmail
		logrus.Info("Gmail sync enabled")
	}

	sched := scheduler.New(&cfg.Scheduler, fetcher, pipeline, syncer, m)

	h := handlers.NewHandlers(db, repo, sender, authorizer, sched, m, cfg.Mailbox.Username)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
