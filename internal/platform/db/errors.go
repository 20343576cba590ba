package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned on unique constraint violations.
	ErrConflict = errors.New("record already exists")
	// ErrInvalidReference is returned when an insert or update names a
	// referenced row that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrProtected is returned when a delete is blocked by dependent rows.
	ErrProtected = errors.New("record is referenced by dependent records")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ClassifyError maps low-level Postgres errors onto the sentinel errors the
// handlers translate into HTTP statuses. A foreign key violation here comes
// from an insert or update naming a missing row, so it classifies as
// ErrInvalidReference; delete paths use ClassifyDeleteError instead.
// Unrecognised errors pass through.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrInvalidReference
		}
	}
	return err
}

// ClassifyDeleteError is ClassifyError for delete statements, where a foreign
// key violation means dependent rows still reference the target and the delete
// is protected rather than the request malformed.
func ClassifyDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrProtected
	}
	return ClassifyError(err)
}
