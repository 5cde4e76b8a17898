package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpiryFacade exposes the subset of application functionality required by the sweeper.
type ExpiryFacade interface {
	ExpireDue(ctx context.Context, limit int) (int64, error)
}

// ExpiredRecorder counts orders moved to expired.
type ExpiredRecorder interface {
	ObserveExpired(n int64)
}

// maxBatchesPerTick bounds how long one tick may keep draining a backlog.
const maxBatchesPerTick = 20

// ExpirySweeper periodically flips overdue active orders to expired.
type ExpirySweeper struct {
	facade    ExpiryFacade
	recorder  ExpiredRecorder
	interval  time.Duration
	batchSize int
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewExpirySweeper constructs the sweeper.
func NewExpirySweeper(facade ExpiryFacade, recorder ExpiredRecorder, interval time.Duration, batchSize int, logger *slog.Logger) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &ExpirySweeper{
		facade:    facade,
		recorder:  recorder,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start launches background sweeping.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ExpirySweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires due orders batch by batch until a batch comes back short.
// Errors are logged and retried on the next tick.
func (s *ExpirySweeper) Sweep(ctx context.Context) int64 {
	var total int64
	for range maxBatchesPerTick {
		if ctx.Err() != nil {
			break
		}
		n, err := s.facade.ExpireDue(ctx, s.batchSize)
		if err != nil {
			s.logger.Error("expire due orders failed", slog.String("error", err.Error()))
			break
		}
		total += n
		s.recorder.ObserveExpired(n)
		if n < int64(s.batchSize) {
			break
		}
	}
	if total > 0 {
		s.logger.Info("orders expired", slog.Int64("count", total))
	}
	return total
}
