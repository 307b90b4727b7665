package services

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/app/repositories"
)

// DashboardStats is the aggregate snapshot served to dashboards
type DashboardStats struct {
	StudentCount      int64                        `json:"studentCount"`
	RoomsByStatus     map[models.RoomStatus]int64  `json:"roomsByStatus"`
	FeesByStatus      map[models.FeeStatus]float64 `json:"feesByStatus"`
	ExpensesThisMonth float64                      `json:"expensesThisMonth"`
	GeneratedAt       time.Time                    `json:"generatedAt"`
}

// DashboardService aggregates per-tenant statistics. Snapshots are cached
// for a short TTL per scope; dashboards poll and subscribe, so a slightly
// stale snapshot is fine and the store is spared the repeated aggregates.
type DashboardService struct {
	studentRepo repositories.IStudentRepository
	roomRepo    repositories.IRoomRepository
	feeRepo     repositories.IFeeRepository
	expenseRepo repositories.IExpenseRepository
	broker      events.Broker
	publisher   *events.Publisher
	cache       *gocache.Cache
	logger      zerolog.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	studentRepo repositories.IStudentRepository,
	roomRepo repositories.IRoomRepository,
	feeRepo repositories.IFeeRepository,
	expenseRepo repositories.IExpenseRepository,
	broker events.Broker,
	publisher *events.Publisher,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		studentRepo: studentRepo,
		roomRepo:    roomRepo,
		feeRepo:     feeRepo,
		expenseRepo: expenseRepo,
		broker:      broker,
		publisher:   publisher,
		cache:       gocache.New(cacheTTL, 2*cacheTTL),
		logger:      logger,
	}
}

func cacheKey(scope auth.AccessScope) string {
	if scope.Unrestricted {
		return "stats:all"
	}
	if scope.HostelID == nil {
		return "stats:none"
	}
	return fmt.Sprintf("stats:hostel:%d", *scope.HostelID)
}

// Stats returns the snapshot for the scope, from cache when fresh
func (s *DashboardService) Stats(ctx context.Context, scope auth.AccessScope) (*DashboardStats, error) {
	key := cacheKey(scope)
	if cached, found := s.cache.Get(key); found {
		return cached.(*DashboardStats), nil
	}

	stats, err := s.compute(ctx, scope)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, stats)
	return stats, nil
}

// Refresh recomputes the scope's snapshot, replaces the cached one and
// notifies subscribed dashboards.
func (s *DashboardService) Refresh(ctx context.Context, scope auth.AccessScope, actor string) (*DashboardStats, error) {
	stats, err := s.compute(ctx, scope)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(cacheKey(scope), stats)

	payload := map[string]interface{}{
		"student_count":       stats.StudentCount,
		"expenses_this_month": stats.ExpensesThisMonth,
		"generated_at":        stats.GeneratedAt,
	}
	if scope.HostelID != nil {
		s.publisher.Tenant(*scope.HostelID, events.TypeDashboardStatsUpdated, actor, payload)
	} else {
		s.publisher.Owners(events.TypeDashboardStatsUpdated, actor, payload)
	}
	return stats, nil
}

// Watch pushes a refreshed snapshot after every mutation. The owners topic
// carries every tenant event, so one subscription covers all hostels. Blocks
// until ctx is cancelled; meant to be started as a goroutine at server boot.
func (s *DashboardService) Watch(ctx context.Context) {
	ch, cancel := s.broker.Subscribe(events.TopicOwners)
	defer cancel()
	s.watch(ctx, ch)
}

func (s *DashboardService) watch(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			// Our own pushes also land on the owners topic; reacting to
			// them would loop forever.
			if event.Event == events.TypeDashboardStatsUpdated {
				continue
			}
			s.onMutation(ctx, event)
		}
	}
}

// onMutation drops the stale snapshots and pushes a fresh one for the
// stream the mutation belongs to.
func (s *DashboardService) onMutation(ctx context.Context, event events.Event) {
	s.cache.Delete(cacheKey(auth.ScopeAll()))

	scope := auth.ScopeAll()
	if event.HostelID != nil {
		scope = auth.ScopeHostel(*event.HostelID)
		s.cache.Delete(cacheKey(scope))
	}

	if _, err := s.Refresh(ctx, scope, event.Actor); err != nil {
		s.logger.Warn().Err(err).
			Str("event", event.Event).
			Msg("Dashboard refresh after mutation failed")
	}
}

func (s *DashboardService) compute(ctx context.Context, scope auth.AccessScope) (*DashboardStats, error) {
	students, err := s.studentRepo.Count(ctx, scope)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.StatusCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	fees, err := s.feeRepo.TotalsByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expenses, err := s.expenseRepo.MonthTotal(ctx, scope, now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		StudentCount:      students,
		RoomsByStatus:     rooms,
		FeesByStatus:      fees,
		ExpensesThisMonth: expenses,
		GeneratedAt:       now,
	}, nil
}
