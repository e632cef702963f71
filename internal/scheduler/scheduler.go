package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"lawfirm-crm/internal/config"
	"lawfirm-crm/internal/ingest"
	"lawfirm-crm/internal/mailbox"
	"lawfirm-crm/internal/metrics"
)

// GmailSyncer mirrors the Gmail account into the datastore, when enabled
type GmailSyncer interface {
	Authenticated() bool
	Sync(ctx context.Context) error
}

// Scheduler runs the mailbox ingestion cycle on a fixed interval. Replaces
// the retry-forever polling loop with an explicit scheduled job carrying a
// cancellation context, so a single cycle can run deterministically.
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SchedulerConfig
	fetcher   mailbox.Fetcher
	pipeline  *ingest.Pipeline
	gmail     GmailSyncer
	metrics   *metrics.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
}

// New creates a scheduler. gmail may be nil when Gmail sync is disabled.
func New(cfg *config.SchedulerConfig, fetcher mailbox.Fetcher, pipeline *ingest.Pipeline, gmail GmailSyncer, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		config:   cfg,
		fetcher:  fetcher,
		pipeline: pipeline,
		gmail:    gmail,
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	schedule := fmt.Sprintf("0 */%d * * * *", s.config.IntervalMinutes)

	entryID, err := s.cron.AddFunc(schedule, s.runCycle)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started with interval: %d minutes", s.config.IntervalMinutes)
	return nil
}

// Stop stops the scheduler and cancels any in-flight cycle
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()
	s.cron.Remove(s.entryID)

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// runCycle performs one ingestion cycle. Session-level failures abort the
// cycle and are logged; the next scheduled run is the retry. Per-message
// failures are logged and skipped so the batch continues.
func (s *Scheduler) runCycle() {
	s.wg.Add(1)
	defer s.wg.Done()

	startTime := time.Now()
	s.metrics.PollCycles.Inc()

	raws, err := s.fetcher.FetchUnseen(s.ctx)
	if err != nil {
		logrus.Errorf("Mailbox poll failed, retrying next cycle: %v", err)
		s.metrics.PollErrors.Inc()
		return
	}

	logrus.Infof("Fetched %d unseen messages", len(raws))

	for _, raw := range raws {
		select {
		case <-s.ctx.Done():
			logrus.Info("Ingestion cycle cancelled")
			return
		default:
		}

		mail, err := s.pipeline.ProcessMessage(s.ctx, raw)
		if err != nil {
			logrus.Errorf("Failed to process message, skipping: %v", err)
			s.metrics.MessagesSkipped.Inc()
			continue
		}
		s.metrics.MessagesStored.Inc()
		s.metrics.AttachmentsSaved.Add(float64(len(mail.Attachments)))
	}

	if s.gmail != nil && s.gmail.Authenticated() {
		if err := s.gmail.Sync(s.ctx); err != nil {
			logrus.Errorf("Gmail sync failed: %v", err)
		}
	}

	s.metrics.ProcessingTime.Observe(time.Since(startTime).Seconds())
	logrus.Infof("Ingestion cycle completed in %v", time.Since(startTime))
}

// RunOnce runs the ingestion cycle once, outside the schedule
func (s *Scheduler) RunOnce() error {
	logrus.Info("Running ingestion cycle once")
	s.runCycle()
	return nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// GetLastRun returns the time of the last run
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Prev
}

// Wait waits for any in-flight cycle to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
