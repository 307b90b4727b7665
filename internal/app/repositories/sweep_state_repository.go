package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/db"
)

// ISweepStateRepository defines the interface for the sweep gate
type ISweepStateRepository interface {
	TryClaim(ctx context.Context, now time.Time, interval time.Duration) (bool, error)
}

// SweepStateRepository guards the overdue-fee sweep with a persisted
// next-eligible-run marker. The claim is a single conditional UPDATE, so
// horizontally scaled instances racing on the gate cannot both win.
type SweepStateRepository struct {
	pool *pgxpool.Pool
}

// NewSweepStateRepository creates a new SweepStateRepository
func NewSweepStateRepository(pool *pgxpool.Pool) *SweepStateRepository {
	return &SweepStateRepository{pool: pool}
}

// TryClaim attempts to claim the sweep window ending at now + interval.
// Returns true when this caller won the claim and must run the sweep.
func (r *SweepStateRepository) TryClaim(ctx context.Context, now time.Time, interval time.Duration) (bool, error) {
	q := db.QuerierFrom(ctx, r.pool)
	tag, err := q.Exec(ctx, `
		UPDATE sweep_state
		SET last_run_at = $1, next_run_at = $2
		WHERE id = 1 AND next_run_at <= $1`,
		now, now.Add(interval))
	if err != nil {
		return false, fmt.Errorf("error claiming sweep window: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
