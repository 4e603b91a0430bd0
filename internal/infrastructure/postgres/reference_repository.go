package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// Tablas permitidas por tipo de referencia; el nombre nunca viene del request.
var referenceTables = map[string]string{
	domain.RefSupplier: "suppliers",
	domain.RefPart:     "parts",
	domain.RefMachine:  "machines",
	domain.RefRepair:   "repairs",
}

// ReferenceRepo verifica existencia de proveedores, piezas, máquinas y reparaciones.
type ReferenceRepo struct {
	q Querier
}

func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

// Missing consulta todos los IDs en una sola ida a la base.
func (r *ReferenceRepo) Missing(ctx context.Context, kind string, ids []int64) ([]int64, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id FROM `+table+` WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", table, err)
	}
	defer rows.Close()
	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
			found[id] = struct{}{}
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}
