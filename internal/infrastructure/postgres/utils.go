package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
)

// Querier es la interfaz común de *pgxpool.Pool y pgx.Tx: los repositorios
// funcionan igual fuera o dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE relevantes.
const (
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError traduce errores de PostgreSQL a errores de dominio.
// Serialización, deadlock y lock no disponible son conflictos reintentables.
func mapError(err error) error {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return errors.Join(domain.ErrConflict, err)
	case codeForeignKeyViolation:
		return errors.Join(domain.ErrReferenceNotFound, err)
	case codeCheckViolation:
		return errors.Join(domain.ErrInvalidInput, err)
	}
	return err
}

func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
