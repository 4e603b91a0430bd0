package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `
	p.id, p.date, p.supplier_id, COALESCE(s.name, ''), p.status, p.notes,
	p.total, p.version, p.created_at, p.updated_at`

// Create inserta cabecera e ítems.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO purchases (date, supplier_id, status, notes, total, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, now(), now())
		RETURNING id, version, created_at, updated_at`,
		p.Date, p.SupplierID, string(p.Status), nullIfEmpty(p.Notes), p.Total,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertLineItems(ctx, p.ID, p.LineItems)
}

// GetByID obtiene una compra completa por ID; nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la compra bloqueando la fila de cabecera (SELECT FOR UPDATE).
// Un segundo update concurrente espera aquí hasta el commit del primero.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseRepo) get(ctx context.Context, id int64, forUpdate bool) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchases p
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF p`
	}
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.lineItems(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.LineItems = items[p.ID]
	return p, nil
}

// UpdateHeader actualiza la cabecera si la versión coincide e incrementa la versión.
func (r *PurchaseRepo) UpdateHeader(ctx context.Context, p *entity.Purchase) error {
	err := r.q.QueryRow(ctx, `
		UPDATE purchases
		SET date = $2, supplier_id = $3, status = $4, notes = $5, total = $6,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $7
		RETURNING version, updated_at`,
		p.ID, p.Date, p.SupplierID, string(p.Status), nullIfEmpty(p.Notes), p.Total, p.Version,
	).Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// ReplaceLineItems borra los ítems actuales e inserta los nuevos (misma tx del caller).
func (r *PurchaseRepo) ReplaceLineItems(ctx context.Context, purchaseID int64, items []entity.LineItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_line_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	return r.insertLineItems(ctx, purchaseID, items)
}

// Delete borra ítems y luego la cabecera.
func (r *PurchaseRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_line_items WHERE purchase_id = $1`, id); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve la página pedida (fecha desc) y el total que cumple el filtro.
func (r *PurchaseRepo) List(ctx context.Context, filter repository.PurchaseFilter, limit, offset int) ([]*entity.Purchase, int, error) {
	where, args := purchaseWhere(filter).build(1)
	from := `
		FROM purchases p
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		` + where

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	n := len(args)
	query := `SELECT ` + purchaseColumns + from +
		fmt.Sprintf(` ORDER BY p.date DESC, p.id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*entity.Purchase
	var ids []int64
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list purchases rows: %w", err)
	}
	rows.Close()

	items, err := r.lineItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range purchases {
		p.LineItems = items[p.ID]
	}
	return purchases, total, nil
}

func (r *PurchaseRepo) insertLineItems(ctx context.Context, purchaseID int64, items []entity.LineItem) error {
	for i := range items {
		li := &items[i]
		li.PurchaseID = purchaseID
		li.Position = i
		err := r.q.QueryRow(ctx, `
			INSERT INTO purchase_line_items (purchase_id, position, part_id, quantity, unit_price, machine_id, repair_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			purchaseID, li.Position, li.PartID, li.Quantity, li.UnitPrice, li.MachineID, li.RepairID,
		).Scan(&li.ID)
		if err != nil {
			return fmt.Errorf("insert line item %d: %w", i, err)
		}
	}
	return nil
}

// lineItems carga los ítems de varias compras en una consulta, agrupados por compra.
func (r *PurchaseRepo) lineItems(ctx context.Context, purchaseIDs []int64) (map[int64][]entity.LineItem, error) {
	out := make(map[int64][]entity.LineItem, len(purchaseIDs))
	if len(purchaseIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, position, part_id, quantity, unit_price, machine_id, repair_id
		FROM purchase_line_items
		WHERE purchase_id = ANY($1)
		ORDER BY purchase_id, position, id`, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var li entity.LineItem
		var price decimal.NullDecimal
		if err := rows.Scan(&li.ID, &li.PurchaseID, &li.Position, &li.PartID, &li.Quantity,
			&price, &li.MachineID, &li.RepairID); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		if price.Valid {
			v := price.Decimal
			li.UnitPrice = &v
		}
		out[li.PurchaseID] = append(out[li.PurchaseID], li)
	}
	return out, rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var status string
	err := row.Scan(&p.ID, &p.Date, &p.SupplierID, &p.SupplierName, &status, &p.Notes,
		&p.Total, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = entity.PurchaseStatus(status)
	return &p, nil
}
