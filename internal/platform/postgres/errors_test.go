package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/calebwray/enroll-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{
			name:    "nil error",
			err:     nil,
			wantNil: true,
		},
		{
			name:   "no rows",
			err:    sql.ErrNoRows,
			wantIs: store.ErrNotFound,
		},
		{
			name: "username unique violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: accountsUsernameConstraint,
			},
			wantIs: store.ErrUsernameExists,
		},
		{
			name: "email unique violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: accountsEmailConstraint,
			},
			wantIs: store.ErrEmailExists,
		},
		{
			name: "unknown unique violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: "something_else_key",
			},
			wantIs: store.ErrDuplicate,
		},
		{
			name: "foreign key violation",
			err: &pgconn.PgError{
				Code:           foreignKeyViolationCode,
				ConstraintName: "accounts_fk",
			},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name: "not null violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "username",
			},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "unrelated error passes through",
			err:    fmt.Errorf("connection refused"),
			wantIs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			if tt.wantNil {
				assert.NoError(t, mapped)
				return
			}
			if tt.wantIs == nil {
				assert.Equal(t, tt.err, mapped)
				return
			}
			assert.True(t, errors.Is(mapped, tt.wantIs),
				"expected mapped error to wrap %v, got %v", tt.wantIs, mapped)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{
		Code:           uniqueViolationCode,
		ConstraintName: accountsUsernameConstraint,
	}

	assert.True(t, IsUniqueViolation(pgErr, ""))
	assert.True(t, IsUniqueViolation(pgErr, accountsUsernameConstraint))
	assert.False(t, IsUniqueViolation(pgErr, accountsEmailConstraint))
	assert.False(t, IsUniqueViolation(errors.New("other"), ""))
}
