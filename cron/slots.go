package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SlotFiller tops up the slot calendar.
type SlotFiller interface {
	EnsureHorizon(ctx context.Context) (int, error)
}

// StartSlotCron fills the calendar immediately and then on every tick until
// ctx is cancelled. A non-positive interval runs it once.
func StartSlotCron(ctx context.Context, filler SlotFiller, interval time.Duration, logger *zap.Logger) {
	run := func() {
		if _, err := filler.EnsureHorizon(ctx); err != nil {
			logger.Error("time slot generation failed", zap.Error(err))
		}
	}
	run()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("slot cron shutdown signal received")
			return
		case <-ticker.C:
			run()
		}
	}
}
