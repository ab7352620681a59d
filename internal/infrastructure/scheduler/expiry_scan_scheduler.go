package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/pharmstock/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// ExpiryScanner runs one expiry scan pass
type ExpiryScanner interface {
	RunExpiryScan(ctx context.Context) error
}

// ExpiryScanSchedulerConfig holds configuration for the expiry scan scheduler
type ExpiryScanSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is the time between scan runs
	Interval time.Duration

	// RunAtStartup runs one scan as soon as the scheduler starts, so a
	// server that was down over a scan window catches up immediately
	RunAtStartup bool

	// LockTTL bounds how long the scan lock is held
	LockTTL time.Duration
}

// DefaultExpiryScanSchedulerConfig returns default configuration
func DefaultExpiryScanSchedulerConfig() ExpiryScanSchedulerConfig {
	return ExpiryScanSchedulerConfig{
		Enabled:      true,
		Interval:     24 * time.Hour,
		RunAtStartup: true,
		LockTTL:      10 * time.Minute,
	}
}

// ExpiryScanScheduler triggers the expiry scan on a fixed interval. The scan
// lock serializes runs, so an interval tick arriving while a scan is still in
// flight is skipped rather than stacked.
type ExpiryScanScheduler struct {
	scanner   ExpiryScanner
	lock      cache.ScanLock
	logger    *zap.Logger
	config    ExpiryScanSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpiryScanScheduler creates a new expiry scan scheduler
func NewExpiryScanScheduler(
	scanner ExpiryScanner,
	lock cache.ScanLock,
	logger *zap.Logger,
	config ExpiryScanSchedulerConfig,
) *ExpiryScanScheduler {
	return &ExpiryScanScheduler{
		scanner: scanner,
		lock:    lock,
		logger:  logger,
		config:  config,
	}
}

// Start starts the scheduler
func (s *ExpiryScanScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("expiry scan scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("expiry scan scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_at_startup", s.config.RunAtStartup),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *ExpiryScanScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("expiry scan scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("expiry scan scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerScan runs one scan immediately, still honoring the scan lock
func (s *ExpiryScanScheduler) TriggerScan(ctx context.Context) error {
	return s.executeScan(ctx)
}

// IsRunning returns whether the scheduler is running
func (s *ExpiryScanScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ExpiryScanScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunAtStartup {
		if err := s.executeScan(ctx); err != nil {
			s.logger.Error("startup expiry scan failed", zap.Error(err))
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.executeScan(ctx); err != nil {
				s.logger.Error("expiry scan failed", zap.Error(err))
			}
		}
	}
}

func (s *ExpiryScanScheduler) executeScan(ctx context.Context) error {
	acquired, err := s.lock.TryAcquire(ctx, s.config.LockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		s.logger.Info("expiry scan already in progress, skipping")
		return nil
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logger.Warn("failed to release scan lock", zap.Error(err))
		}
	}()

	start := time.Now()
	if err := s.scanner.RunExpiryScan(ctx); err != nil {
		return err
	}
	s.logger.Info("expiry scan run finished", zap.Duration("duration", time.Since(start)))
	return nil
}
