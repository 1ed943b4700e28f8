package association

import (
	"context"
	"errors"
	"time"

	"relatedItems/domain"
	"relatedItems/pkg/logger"
)

// StartScheduler rebuilds associations on a fixed interval until ctx is
// cancelled. interval <= 0 disables scheduling. An empty order history is
// logged, not treated as a failure.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Info("Rebuild scheduler disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("Rebuild scheduler started", "interval", interval.String())

		for {
			select {
			case <-ctx.Done():
				logger.Info("Rebuild scheduler stopped")
				return
			case <-ticker.C:
				summary, err := s.Rebuild(ctx)
				if err != nil && !errors.Is(err, domain.ErrNoOrderItems) {
					logger.Error("Scheduled rebuild failed", "run_id", summary.RunID, "error", err)
				}
			}
		}
	}()
}
