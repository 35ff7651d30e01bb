package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage outcomes the services branch on. Everything else a repository
// returns is an opaque failure.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict is a foreign key that points nowhere.
	ErrConflict     = errors.New("conflict")
	ErrInvalidValue = errors.New("invalid value")
)

// MapPgError translates the integrity violations the services handle.
// Serialization failures, deadlocks and lock timeouts pass through unchanged.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrAlreadyExists
	case pgerrcode.ForeignKeyViolation:
		return ErrConflict
	case pgerrcode.CheckViolation, pgerrcode.NumericValueOutOfRange,
		pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
		return ErrInvalidValue
	}
	return err
}
