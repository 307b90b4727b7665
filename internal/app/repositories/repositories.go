package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devrim/hostelhub/internal/app/auth"
)

// Repositories is the container for all entity repositories
type Repositories struct {
	Hostels    *HostelRepository
	Users      *UserRepository
	Rooms      *RoomRepository
	Students   *StudentRepository
	Fees       *FeeRepository
	Complaints *ComplaintRepository
	Expenses   *ExpenseRepository
	SweepState *SweepStateRepository
	Tokens     *TokenRepository
}

// NewRepositories creates all repositories on a shared pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Hostels:    NewHostelRepository(pool),
		Users:      NewUserRepository(pool),
		Rooms:      NewRoomRepository(pool),
		Students:   NewStudentRepository(pool),
		Fees:       NewFeeRepository(pool),
		Complaints: NewComplaintRepository(pool),
		Expenses:   NewExpenseRepository(pool),
		SweepState: NewSweepStateRepository(pool),
		Tokens:     NewTokenRepository(pool),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return constraint == "" || pgErr.ConstraintName == constraint
	}
	return false
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign-key
// violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// scoped appends the tenant filter for col to a query that already ends in
// a WHERE clause. A restricted scope without a hostel id is a programming
// error; the filter fails closed rather than widening to all tenants.
func scoped(query string, scope auth.AccessScope, col string, args []any) (string, []any) {
	if scope.Unrestricted {
		return query, args
	}
	if scope.HostelID == nil {
		return query + " AND false", args
	}
	args = append(args, *scope.HostelID)
	return fmt.Sprintf("%s AND %s = $%d", query, col, len(args)), args
}
