package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/project-hub/internal/token"
)

// StartTokenReaper periodically sweeps expired ephemeral tokens when the store
// supports bulk purging. The sweep is an optimization only; Redeem and Peek
// re-check expiry on every access.
func StartTokenReaper(ctx context.Context, store token.Store, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	purger, ok := store.(token.Purger)
	if !ok {
		logger.Info("token store handles expiry itself; reaper disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := purger.PurgeExpired(ctx)
				if err != nil {
					logger.Warn("token sweep failed", zap.Error(err))
					continue
				}
				if purged > 0 {
					logger.Info("expired tokens purged", zap.Int("count", purged))
				}
			}
		}
	}()
}
