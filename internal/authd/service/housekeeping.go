package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically purges expired blacklist entries so the
// revocation table does not grow without bound. An entry whose token has
// expired can never validate again, so dropping it is safe.
type HousekeepingService struct {
	Revoker  *Revoker
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(revoker *Revoker, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Revoker:  revoker,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs the purge.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress purge.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a purge immediately on startup
	s.purge()

	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.stopCh:
			return
		}
	}
}

// purge deletes blacklist entries whose tokens have already expired.
// A failed purge is logged and retried on the next tick.
func (s *HousekeepingService) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.Revoker.PurgeExpired(ctx)
	if err != nil {
		s.Logger.Error("failed to purge expired blacklist entries", "error", err)
		return
	}
	s.Logger.Info("housekeeping purge completed", "purged", purged)
}
