package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador de persistencia para piezas. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// GetByID obtiene una pieza por ID.
func (r *PartRepo) GetByID(ctx context.Context, id int64) (*entity.Part, error) {
	var p entity.Part
	err := r.q.QueryRow(ctx, `SELECT id, name, stock FROM parts WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return &p, nil
}

// IncrementStock suma delta en una sola sentencia; el lock de fila lo toma PostgreSQL
// y dos compras concurrentes sobre la misma pieza nunca pierden un incremento.
func (r *PartRepo) IncrementStock(ctx context.Context, partID int64, delta int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE parts SET stock = stock + $2
		WHERE id = $1 AND stock + $2 >= 0`, partID, delta)
	if err != nil {
		return fmt.Errorf("increment stock part %d: %w", partID, err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM parts WHERE id = $1)`, partID).Scan(&exists); err != nil {
		return fmt.Errorf("check part %d: %w", partID, err)
	}
	if !exists {
		return &domain.ReferenceError{Kind: domain.RefPart, ID: partID}
	}
	return fmt.Errorf("part %d: %w", partID, domain.ErrInsufficientStock)
}
