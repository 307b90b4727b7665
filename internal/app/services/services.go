package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/repositories"
	"github.com/devrim/hostelhub/internal/config"
	"github.com/devrim/hostelhub/internal/db"
	"github.com/devrim/hostelhub/internal/pkg/email"
)

// TxRunner runs a function inside a store transaction. Satisfied by
// *db.PostgresDB; tests substitute a pass-through.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Services is the container for all business services
type Services struct {
	Auth       *AuthService
	Users      *UserService
	Hostels    *HostelService
	Rooms      *RoomService
	Students   *StudentService
	Fees       *FeeService
	Complaints *ComplaintService
	Expenses   *ExpenseService
	Dashboard  *DashboardService
	Occupancy  *OccupancyService
	Sweeper    *FeeSweeper
}

// NewServices wires all services on shared repositories, the event
// publisher and the transaction runner.
func NewServices(
	cfg *config.Config,
	database *db.PostgresDB,
	repos *repositories.Repositories,
	broker events.Broker,
	publisher *events.Publisher,
	mailer *email.Sender,
	logger zerolog.Logger,
) *Services {
	occupancy := NewOccupancyService(repos.Rooms, logger)
	dashboard := NewDashboardService(repos.Students, repos.Rooms, repos.Fees, repos.Expenses,
		broker, publisher, cfg.DashboardCacheTTL(), logger)

	return &Services{
		Auth:       NewAuthService(cfg, repos.Users, repos.Tokens, logger),
		Users:      NewUserService(repos.Users, repos.Hostels, logger),
		Hostels:    NewHostelService(repos.Hostels, publisher, logger),
		Rooms:      NewRoomService(database, repos.Rooms, occupancy, publisher, logger),
		Students:   NewStudentService(database, repos.Students, repos.Rooms, occupancy, publisher, logger),
		Fees:       NewFeeService(repos.Fees, repos.Students, publisher, mailer, logger),
		Complaints: NewComplaintService(repos.Complaints, repos.Rooms, publisher, logger),
		Expenses:   NewExpenseService(repos.Expenses, publisher, logger),
		Dashboard:  dashboard,
		Occupancy:  occupancy,
		Sweeper:    NewFeeSweeper(repos.Fees, repos.SweepState, publisher, cfg.SweeperInterval(), logger),
	}
}
