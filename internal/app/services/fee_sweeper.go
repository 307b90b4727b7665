package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/repositories"
)

// pollInterval is how often the sweeper wakes up to test the gate. The
// gate itself decides whether a sweep actually runs, so waking often is
// cheap and keeps the sweep close to its due time across restarts.
const pollInterval = time.Minute

// FeeSweeper periodically flips past-due Pending fees to Overdue. The
// shared gate row in the store guarantees at most one sweep per interval
// across all application instances.
type FeeSweeper struct {
	feeRepo   repositories.IFeeRepository
	stateRepo repositories.ISweepStateRepository
	publisher *events.Publisher
	interval  time.Duration
	logger    zerolog.Logger
}

// NewFeeSweeper creates a new fee sweeper instance
func NewFeeSweeper(
	feeRepo repositories.IFeeRepository,
	stateRepo repositories.ISweepStateRepository,
	publisher *events.Publisher,
	interval time.Duration,
	logger zerolog.Logger,
) *FeeSweeper {
	return &FeeSweeper{
		feeRepo:   feeRepo,
		stateRepo: stateRepo,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled, attempting a sweep once per poll.
// Meant to be started as a goroutine at server boot.
func (s *FeeSweeper) Run(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Fee sweeper started")

	// One attempt right away so a long-stopped deployment catches up
	// without waiting for the first tick.
	s.SweepDue(ctx, time.Now().UTC())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Fee sweeper stopped")
			return
		case now := <-ticker.C:
			s.SweepDue(ctx, now.UTC())
		}
	}
}

// SweepDue runs a sweep if the gate allows one, publishing a per-hostel
// event for every tenant that had fees flipped. Returns the number of fees
// marked overdue; zero when the gate was closed or nothing was due.
func (s *FeeSweeper) SweepDue(ctx context.Context, now time.Time) int64 {
	claimed, err := s.stateRepo.TryClaim(ctx, now, s.interval)
	if err != nil {
		s.logger.Error().Err(err).Msg("Fee sweep gate check failed")
		return 0
	}
	if !claimed {
		return 0
	}

	byHostel, err := s.feeRepo.SweepOverdue(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("Fee sweep failed")
		return 0
	}

	var total int64
	for hostelID, count := range byHostel {
		total += count
		s.publisher.Tenant(hostelID, events.TypeFeesSwept, events.SystemActor, map[string]interface{}{
			"count": count,
		})
	}

	if total > 0 {
		s.logger.Info().
			Int64("count", total).
			Int("hostels", len(byHostel)).
			Msg("Fees marked overdue")
	}
	return total
}
