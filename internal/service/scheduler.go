package service

import (
	"sync"
	"time"

	"fridgehero-server/internal/domain"
)

// RefreshScheduler drives the fixed-interval status refresh for every live
// entitlement store. Foreground and manual refreshes go straight to the
// store; this only covers the timer leg.
type RefreshScheduler struct {
	registry *StoreRegistry
	interval time.Duration
	clock    domain.Clock
	logger   domain.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewRefreshScheduler creates a new refresh scheduler
func NewRefreshScheduler(registry *StoreRegistry, interval time.Duration, clock domain.Clock, logger domain.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		registry: registry,
		interval: interval,
		clock:    clock,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the refresh loop in a background goroutine.
func (s *RefreshScheduler) Start() {
	go s.run()
}

// Stop ends the refresh loop. Safe to call more than once.
func (s *RefreshScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *RefreshScheduler) run() {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Refresh scheduler started", "interval", s.interval)
	for {
		select {
		case <-ticker.C():
			s.registry.RefreshAll()
		case <-s.stop:
			s.logger.Info("Refresh scheduler stopped")
			return
		}
	}
}
