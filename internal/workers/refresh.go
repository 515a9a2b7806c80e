package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
)

// RefreshWorker keeps the local key material cache in step with the server.
type RefreshWorker struct {
	job      service.ClientRefreshJob
	interval time.Duration
	logger   *logger.Logger
}

// NewRefreshWorker wraps job with the interval from cfg.
func NewRefreshWorker(job service.ClientRefreshJob, cfg config.ClientWorkers, log *logger.Logger) *RefreshWorker {
	return &RefreshWorker{
		job:      job,
		interval: cfg.RefreshInterval,
		logger:   log.WithComponent("refresh_worker"),
	}
}

func (w *RefreshWorker) Run(ctx context.Context) {
	w.logger.Debug().Dur("interval", w.interval).Msg("starting key material refresh")
	w.job.Start(ctx, w.interval)
}

func (w *RefreshWorker) Stop() {
	w.job.Stop()
}
