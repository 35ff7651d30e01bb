package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maxviazov/tournament-stats-service/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	other := errors.New("network down")
	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrAlreadyExists},
		{"wrapped fk", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}), repository.ErrConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, repository.ErrInvalidValue},
		{"overflow", &pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange}, repository.ErrInvalidValue},
		{"too long", &pgconn.PgError{Code: pgerrcode.StringDataRightTruncationDataException}, repository.ErrInvalidValue},
		{"deadlock passes through", deadlock, deadlock},
		{"non pg", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.True(t, errors.Is(got, tc.want), "got %v", got)
		})
	}
}
