package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/services"
)

// JobCacheWorker keeps the public job listing cache warm so the first
// anonymous request after expiry does not pay for the full query.
type JobCacheWorker struct {
	db       *gorm.DB
	jobs     services.JobService
	interval time.Duration
}

func NewJobCacheWorker(db *gorm.DB, jobs services.JobService, interval time.Duration) *JobCacheWorker {
	return &JobCacheWorker{db: db, jobs: jobs, interval: interval}
}

// Run warms once, then on every tick until ctx is done. A non-positive
// interval disables the worker.
func (w *JobCacheWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		logger.Info("Job cache worker disabled")
		return nil
	}

	w.Warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job cache worker stopped")
			return nil
		case <-ticker.C:
			w.Warm(ctx)
		}
	}
}

// Warm rebuilds the cached listing. Failures are logged; the next tick retries.
func (w *JobCacheWorker) Warm(ctx context.Context) {
	n, err := w.jobs.RefreshPublicCache(ctx, w.db.WithContext(ctx))
	if err != nil {
		logger.Warn("Job cache warm failed", "error", err)
		return
	}
	logger.Debug("Job cache warmed", "jobs", n)
}
