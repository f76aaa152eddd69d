/*
scheduler.go - Upcoming-leave digest scheduler

PURPOSE:
  Periodically builds the upcoming-leave digest (approved leaves within the
  next 14 days), renders it as HTML and mails it to the configured
  recipients.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Sends once immediately on start, then on every tick
  - Records each run in digest_runs (uuid, status, leave count, error) for
    audit and UI display

CONFIGURATION:
  - CheckInterval: How often to send (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)
  - Recipients: empty means every run fails with leave.ErrNoRecipients

USAGE:
  scheduler := NewDigestScheduler(store, finder, mailer, recipients)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - reports.go: SendDigest endpoint (manual send), ListDigestRuns
  - leave/digest.go: Digest rendering
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/warp/hr-extensions/leave"
	"github.com/warp/hr-extensions/store/sqlite"
)

// DigestScheduler handles automated upcoming-leave digests.
type DigestScheduler struct {
	Store         *sqlite.Store
	Finder        *leave.Finder
	Mailer        leave.Mailer
	Recipients    []string
	CheckInterval time.Duration
	Enabled       bool
	Now           func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// next is the time of the next scheduled send; zero while stopped.
	nextMu sync.Mutex
	next   time.Time
}

// NewDigestScheduler creates a new scheduler.
func NewDigestScheduler(store *sqlite.Store, finder *leave.Finder, mailer leave.Mailer, recipients []string) *DigestScheduler {
	return &DigestScheduler{
		Store:         store,
		Finder:        finder,
		Mailer:        mailer,
		Recipients:    recipients,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (ds *DigestScheduler) Start() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.Enabled || ds.CheckInterval <= 0 {
		log.Info("Digest scheduler disabled, not starting")
		return
	}
	if ds.ticker != nil {
		return
	}

	ds.ticker = time.NewTicker(ds.CheckInterval)
	ds.stop = make(chan struct{})
	ds.wg.Add(1)

	go ds.run()

	log.WithField("interval", ds.CheckInterval).Info("Digest scheduler started")
}

// Stop stops the scheduler and waits for an in-flight run.
func (ds *DigestScheduler) Stop() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.ticker != nil {
		ds.ticker.Stop()
		close(ds.stop)
		ds.wg.Wait()
		ds.ticker = nil
		ds.setNext(time.Time{})
		log.Info("Digest scheduler stopped")
	}
}

func (ds *DigestScheduler) run() {
	defer ds.wg.Done()

	// Run immediately on start
	ds.scheduledRun()

	for {
		select {
		case <-ds.ticker.C:
			ds.scheduledRun()
		case <-ds.stop:
			return
		}
	}
}

func (ds *DigestScheduler) scheduledRun() {
	ds.setNext(ds.Now().Add(ds.CheckInterval))
	ds.RunNow(context.Background())
}

func (ds *DigestScheduler) setNext(t time.Time) {
	ds.nextMu.Lock()
	ds.next = t
	ds.nextMu.Unlock()
}

// RunNow builds and sends one digest, recording the run. The returned run
// carries the final status even when err is non-nil.
func (ds *DigestScheduler) RunNow(ctx context.Context) (sqlite.DigestRun, error) {
	now := ds.Now()
	run := sqlite.DigestRun{
		ID:         uuid.NewString(),
		Status:     sqlite.DigestRunning,
		Recipients: ds.Recipients,
		StartedAt:  now,
	}
	logger := log.WithField("run_id", run.ID)

	if err := ds.Store.SaveDigestRun(ctx, run); err != nil {
		logger.WithError(err).Error("Failed to save digest run")
		return run, err
	}

	err := ds.send(ctx, now, &run)

	completed := ds.Now()
	run.CompletedAt = &completed
	run.Status = sqlite.DigestCompleted
	if err != nil {
		run.Status = sqlite.DigestFailed
		run.Error = err.Error()
	}
	if saveErr := ds.Store.SaveDigestRun(ctx, run); saveErr != nil {
		logger.WithError(saveErr).Error("Failed to update digest run")
	}

	if err != nil {
		logger.WithError(err).Warn("Digest not sent")
		return run, err
	}
	logger.WithFields(log.Fields{
		"leaves":     run.LeaveCount,
		"recipients": len(run.Recipients),
	}).Info("Digest sent")
	return run, nil
}

func (ds *DigestScheduler) send(ctx context.Context, now time.Time, run *sqlite.DigestRun) error {
	digest, err := ds.Finder.BuildDigest(ctx, now)
	if err != nil {
		return err
	}
	run.LeaveCount = len(digest.Leaves)

	if len(ds.Recipients) == 0 {
		return leave.ErrNoRecipients
	}
	body, err := digest.RenderHTML()
	if err != nil {
		return err
	}
	return ds.Mailer.Send(ctx, leave.Message{To: ds.Recipients, Subject: digest.Subject(), HTML: body})
}

// GetNextRunTime returns when the next scheduled send will occur, counted
// from the last tick. It is zero when the scheduler is not running.
func (ds *DigestScheduler) GetNextRunTime() time.Time {
	ds.nextMu.Lock()
	defer ds.nextMu.Unlock()
	return ds.next
}
