package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo lectura del directorio de proveedores.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `SELECT id, name FROM suppliers WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}
