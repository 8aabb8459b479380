package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/identity/pkg/tokencache"
)

// HousekeepingService periodically evicts expired records from the token
// cache. Lookups already ignore expired records, so this only bounds
// memory.
type HousekeepingService struct {
	Cache    *tokencache.Cache
	Logger   *slog.Logger
	Interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one minute.
func NewHousekeepingService(cache *tokencache.Cache, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &HousekeepingService{
		Cache:    cache,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweeper in the background until Stop is called. Calls
// after the first are no-ops.
func (s *HousekeepingService) Start() {
	s.startOnce.Do(func() {
		s.started = true
		go s.run()
		s.Logger.Info("housekeeping service started", "interval", s.Interval)
	})
}

// Stop halts the sweeper and waits for an in-progress sweep to finish. It
// is safe to call without Start and more than once.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		s.startOnce.Do(func() {}) // a later Start must not launch the worker
		close(s.stopCh)
		if s.started {
			<-s.doneCh
		}
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	evicted := s.Cache.Sweep()
	s.Logger.Debug("token cache swept",
		"evicted", evicted,
		"remaining", s.Cache.Len(),
	)
}
