package sweep

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"medicab/internal/domain"
	"medicab/internal/metrics"
)

// Sweeper scans every holder's cabinet for entries expiring within the
// lookahead window and emits one aggregated notification per holder per
// run. Runs never overlap; a trigger while a run is in flight is skipped.
type Sweeper struct {
	inventory     domain.InventoryRepository
	sink          domain.NotificationSink
	clock         domain.Clock
	logger        zerolog.Logger
	lookahead     time.Duration
	holderTimeout time.Duration

	running atomic.Bool
}

func NewSweeper(
	inventory domain.InventoryRepository,
	sink domain.NotificationSink,
	clock domain.Clock,
	lookahead time.Duration,
	holderTimeout time.Duration,
	logger zerolog.Logger,
) *Sweeper {
	if lookahead <= 0 {
		lookahead = 30 * 24 * time.Hour
	}
	if holderTimeout <= 0 {
		holderTimeout = 10 * time.Second
	}
	return &Sweeper{
		inventory:     inventory,
		sink:          sink,
		clock:         clock,
		logger:        logger,
		lookahead:     lookahead,
		holderTimeout: holderTimeout,
	}
}

// Report summarizes one sweep run.
type Report struct {
	Holders  int
	Notified int
	Errors   int
}

// Run executes one sweep if none is in flight. The second return value is
// false when the trigger was skipped because a run was already executing.
func (s *Sweeper) Run(ctx context.Context) (Report, bool) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.SweepSkippedTotal.Inc()
		s.logger.Warn().Msg("sweep: previous run still executing, skipping trigger")
		return Report{}, false
	}
	defer s.running.Store(false)

	metrics.SweepInProgress.Set(1)
	defer metrics.SweepInProgress.Set(0)
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	now := s.clock.Now()
	report := Report{}

	holders, err := s.inventory.ListHoldersWithEntries(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("sweep: listing holders failed")
		report.Errors++
		return report, true
	}
	report.Holders = len(holders)

	for _, holderID := range holders {
		if ctx.Err() != nil {
			s.logger.Warn().Err(ctx.Err()).Msg("sweep: aborted")
			break
		}
		if err := s.sweepHolder(ctx, holderID, now, &report); err != nil {
			report.Errors++
			metrics.SweepHolderErrorsTotal.Inc()
			s.logger.Error().Err(err).Str("holder", holderID).Msg("sweep: holder failed, continuing")
		}
	}

	metrics.SweepRunsTotal.Inc()
	s.logger.Info().
		Int("holders", report.Holders).
		Int("notified", report.Notified).
		Int("errors", report.Errors).
		Msg("sweep: run complete")
	return report, true
}

func (s *Sweeper) sweepHolder(ctx context.Context, holderID string, now time.Time, report *Report) error {
	holderCtx, cancel := context.WithTimeout(ctx, s.holderTimeout)
	defer cancel()

	entries, err := s.inventory.ListExpiringEntries(holderCtx, holderID, now, s.lookahead)
	if err != nil {
		return fmt.Errorf("list expiring entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	metrics.SweepExpiringItemsTotal.Add(float64(len(entries)))
	s.sink.Notify(holderCtx, holderID, buildExpiryMessage(entries), domain.NotifyExpiry)
	report.Notified++
	return nil
}

func buildExpiryMessage(entries []domain.CabinetEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d medicine(s) expiring soon:\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s expires on %s\n", e.MedicineName, e.ExpiryDate.Format("2006-01-02"))
	}
	b.WriteString("Please check your medicine cabinet and consider donating unused medicines.")
	return b.String()
}
