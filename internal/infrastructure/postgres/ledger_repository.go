package postgres

import (
	"context"
	"fmt"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo registro de deltas de stock por compra (purchase_stock_ledger).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Applied suma por pieza lo que la compra ya aportó al stock.
func (r *LedgerRepo) Applied(ctx context.Context, purchaseID int64) ([]entity.StockDelta, error) {
	rows, err := r.q.Query(ctx, `
		SELECT part_id, SUM(delta)::INTEGER
		FROM purchase_stock_ledger
		WHERE purchase_id = $1
		GROUP BY part_id
		HAVING SUM(delta) <> 0
		ORDER BY part_id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("ledger applied: %w", err)
	}
	defer rows.Close()
	var out []entity.StockDelta
	for rows.Next() {
		var d entity.StockDelta
		if err := rows.Scan(&d.PartID, &d.Delta); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Record agrega una fila por delta.
func (r *LedgerRepo) Record(ctx context.Context, purchaseID int64, deltas []entity.StockDelta) error {
	for _, d := range deltas {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO purchase_stock_ledger (purchase_id, part_id, delta) VALUES ($1, $2, $3)`,
			purchaseID, d.PartID, d.Delta); err != nil {
			return fmt.Errorf("ledger record part %d: %w", d.PartID, err)
		}
	}
	return nil
}

func (r *LedgerRepo) DeleteByPurchase(ctx context.Context, purchaseID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_stock_ledger WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("ledger delete: %w", err)
	}
	return nil
}
