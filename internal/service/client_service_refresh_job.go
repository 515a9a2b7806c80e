package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/benbjohnson/clock"
)

// DefaultRefreshInterval is used when Start gets a non-positive interval.
const DefaultRefreshInterval = 5 * time.Minute

type clientRefreshJob struct {
	keys   ClientKeyMaterialService
	clk    clock.Clock
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientRefreshJob creates a job that calls keys.Refresh on a ticker. The
// job is idle until Start is called.
func NewClientRefreshJob(keys ClientKeyMaterialService, clk clock.Clock, logger *logger.Logger) ClientRefreshJob {
	if clk == nil {
		clk = clock.New()
	}
	return &clientRefreshJob{
		keys:   keys,
		clk:    clk,
		logger: logger.WithComponent("refresh_job"),
	}
}

// Start implements ClientRefreshJob. The goroutine exits when ctx is
// cancelled or Stop is called. A failed refresh is logged and retried on the
// next tick; the cache keeps serving the last good copy meanwhile.
func (j *clientRefreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := j.clk.Ticker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.keys.Refresh(jobCtx); err != nil && jobCtx.Err() == nil {
					j.logger.Warn().Err(err).Msg("key material refresh failed")
				}
			}
		}
	}()
}

// Stop implements ClientRefreshJob. Safe to call when the job is not running.
func (j *clientRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
