package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyError_Nil(t *testing.T) {
	if err := ClassifyError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClassifyError_NoRows(t *testing.T) {
	err := ClassifyError(fmt.Errorf("get row: %w", pgx.ErrNoRows))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClassifyError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "staff_users_email_key"}
	err := ClassifyError(pgErr)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestClassifyError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "hospital_state_id_fkey"}
	err := ClassifyError(pgErr)
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
	if errors.Is(err, ErrProtected) {
		t.Errorf("insert-side FK violation must not classify as protected")
	}
}

func TestClassifyDeleteError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "district_state_id_fkey"}
	err := ClassifyDeleteError(pgErr)
	if !errors.Is(err, ErrProtected) {
		t.Errorf("expected ErrProtected, got %v", err)
	}
}

func TestClassifyDeleteError_Delegates(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "staff_users_email_key"}
	if err := ClassifyDeleteError(pgErr); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := ClassifyDeleteError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClassifyError_PassThrough(t *testing.T) {
	orig := errors.New("connection reset")
	err := ClassifyError(orig)
	if !errors.Is(err, orig) {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil tx, got %v", tx)
	}
}

func TestConnFromContext_Empty(t *testing.T) {
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Errorf("expected nil conn, got %v", conn)
	}
}
