// Package jobs runs periodic maintenance tasks
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = time.Minute

// NotificationPurger deletes read notifications older than a retention window
type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

// VisitorCleaner forgets rate limiter state for idle clients
type VisitorCleaner interface {
	Cleanup(idle time.Duration) int
}

// Scheduler wraps a cron runner
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler creates a scheduler using five-field cron expressions
func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
	}
}

func (s *Scheduler) add(name, schedule string, job func()) error {
	id, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", name, err)
	}
	s.logger.Info().Str("job", name).Str("schedule", schedule).Int("entryID", int(id)).Msg("Job scheduled")
	return nil
}

// AddNotificationCleanup purges old read notifications on schedule
func (s *Scheduler) AddNotificationCleanup(schedule string, purger NotificationPurger, retention time.Duration) error {
	return s.add("notification-cleanup", schedule, NotificationCleanup(purger, retention, s.logger))
}

// AddRateLimiterCleanup drops visitors idle for longer than idle on schedule
func (s *Scheduler) AddRateLimiterCleanup(schedule string, cleaner VisitorCleaner, idle time.Duration) error {
	return s.add("rate-limiter-cleanup", schedule, func() {
		if removed := cleaner.Cleanup(idle); removed > 0 {
			s.logger.Debug().Int("removed", removed).Msg("Idle rate limiter entries removed")
		}
	})
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Scheduled jobs still running at shutdown")
	}
}

// NotificationCleanup returns the job body that purges read notifications
func NotificationCleanup(purger NotificationPurger, retention time.Duration, logger zerolog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		deleted, err := purger.PurgeRead(ctx, retention)
		if err != nil {
			logger.Error().Err(err).Msg("Notification cleanup failed")
			return
		}
		logger.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Read notifications purged")
	}
}
