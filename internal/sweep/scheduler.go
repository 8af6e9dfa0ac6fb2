package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler triggers the sweeper on a fixed recurring interval, optionally
// delayed by a start offset so the daily run lands at a chosen hour. Overlap
// protection lives in the Sweeper itself so the manual admin trigger shares
// the same guard.
type Scheduler struct {
	sweeper     *Sweeper
	interval    time.Duration
	startOffset time.Duration
	runOnStart  bool
	logger      zerolog.Logger
}

func NewScheduler(sweeper *Sweeper, interval, startOffset time.Duration, runOnStart bool, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if startOffset < 0 {
		startOffset = 0
	}
	return &Scheduler{
		sweeper:     sweeper,
		interval:    interval,
		startOffset: startOffset,
		runOnStart:  runOnStart,
		logger:      logger,
	}
}

// Start runs the recurring timer until ctx is cancelled. It blocks; run it
// in its own goroutine. With runOnStart the first sweep fires immediately;
// otherwise an optional start offset delays it before the interval takes
// over.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("start_offset", s.startOffset).
		Msg("sweep: scheduler started")

	if s.runOnStart {
		s.sweeper.Run(ctx)
	} else if s.startOffset > 0 {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweep: scheduler stopped")
			return
		case <-time.After(s.startOffset):
			s.sweeper.Run(ctx)
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweep: scheduler stopped")
			return
		case <-ticker.C:
			s.sweeper.Run(ctx)
		}
	}
}
