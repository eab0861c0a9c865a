package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/backup"
)

// BackupName returns the file name of the backup taken at t
func BackupName(t time.Time) string {
	return fmt.Sprintf("planmyevents-backup-%s.json", t.Format("2006-01-02"))
}

// Backup writes a snapshot of the whole state to sink
func (s *Service) Backup(ctx context.Context, sink backup.Sink) error {
	snap := s.Snapshot()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.metrics.Backup("failure")
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := BackupName(snap.TakenAt)
	if err := sink.Put(ctx, name, data); err != nil {
		s.metrics.Backup("failure")
		return fmt.Errorf("failed to store backup: %w", err)
	}

	s.metrics.Backup("success")
	s.logger.WithFields(logrus.Fields{
		"name":  name,
		"bytes": len(data),
	}).Info("Backup written")
	return nil
}

// StartBackupScheduler checks every tick whether a backup is due and writes
// one to sink. A backup is due when auto backup is enabled and the configured
// number of days has passed since the last one; the first check happens
// immediately. It blocks until the context is cancelled, so it should be
// launched in a separate goroutine.
func (s *Service) StartBackupScheduler(ctx context.Context, sink backup.Sink, tick time.Duration) {
	if tick <= 0 {
		tick = time.Hour
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.logger.Info("Backup scheduler started")

	var last time.Time
	for {
		last = s.processBackup(ctx, sink, last)

		select {
		case <-ctx.Done():
			s.logger.Info("Backup scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// processBackup runs one scheduler check and returns the time of the most
// recent successful backup.
func (s *Service) processBackup(ctx context.Context, sink backup.Sink, last time.Time) time.Time {
	advanced := s.Settings().Advanced
	if !advanced.AutoBackup {
		return last
	}

	now := s.now()
	interval := time.Duration(advanced.BackupInterval) * 24 * time.Hour
	if !last.IsZero() && now.Sub(last) < interval {
		return last
	}

	if err := s.Backup(ctx, sink); err != nil {
		s.logger.Errorf("Failed to run scheduled backup: %v", err)
		return last
	}
	return now
}
