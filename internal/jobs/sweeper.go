package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"  // Cron scheduler
	"github.com/sirupsen/logrus" // Logging library
)

// ExpiredCredentialStore clears refresh credentials whose expiry has passed.
type ExpiredCredentialStore interface {
	ClearExpiredRefreshCredentials(ctx context.Context, now time.Time) (int64, error)
}

// RefreshSweeper periodically nulls expired refresh credentials. Refresh
// already rejects them; the sweep keeps stale digests out of the table.
type RefreshSweeper struct {
	store   ExpiredCredentialStore
	log     logrus.FieldLogger
	timeout time.Duration
	now     func() time.Time
	cron    *cron.Cron
}

func NewRefreshSweeper(store ExpiredCredentialStore, log logrus.FieldLogger) *RefreshSweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RefreshSweeper{
		store:   store,
		log:     log,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// RunOnce performs one sweep and returns the number of credentials cleared.
func (s *RefreshSweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.store.ClearExpiredRefreshCredentials(ctx, s.now().UTC())
	if err != nil {
		s.log.WithError(err).Error("Refresh credential sweep failed")
		return 0, err
	}
	if n > 0 {
		s.log.WithField("cleared", n).Info("Expired refresh credentials cleared")
	}
	return n, nil
}

// Start schedules RunOnce on spec (standard cron or a descriptor like "@hourly").
func (s *RefreshSweeper) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	s.log.WithField("schedule", spec).Info("Refresh credential sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (s *RefreshSweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
