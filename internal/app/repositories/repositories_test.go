package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/devrim/hostelhub/internal/app/auth"
)

func TestScopedUnrestrictedLeavesQueryAlone(t *testing.T) {
	query, args := scoped("SELECT * FROM rooms WHERE 1=1", auth.ScopeAll(), "hostel_id", []any{})

	assert.Equal(t, "SELECT * FROM rooms WHERE 1=1", query)
	assert.Empty(t, args)
}

func TestScopedAppendsTenantFilter(t *testing.T) {
	query, args := scoped("SELECT * FROM fees WHERE status = $1", auth.ScopeHostel(7), "hostel_id", []any{"Pending"})

	assert.Equal(t, "SELECT * FROM fees WHERE status = $1 AND hostel_id = $2", query)
	assert.Equal(t, []any{"Pending", int64(7)}, args)
}

func TestScopedFailsClosedWithoutHostel(t *testing.T) {
	query, args := scoped("SELECT * FROM students WHERE 1=1", auth.AccessScope{}, "hostel_id", []any{})

	assert.Equal(t, "SELECT * FROM students WHERE 1=1 AND false", query)
	assert.Empty(t, args)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}

	assert.True(t, isUniqueViolation(dup, "users_username_key"))
	assert.True(t, isUniqueViolation(dup, ""))
	assert.False(t, isUniqueViolation(dup, "students_email_key"))
	assert.False(t, isUniqueViolation(errors.New("plain error"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("plain error")))
}
