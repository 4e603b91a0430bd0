package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

// Stats agrupa conteo y monto por proveedor, por estado y por mes desde since (más reciente primero).
func (r *PurchaseRepo) Stats(ctx context.Context, since time.Time) (*repository.PurchaseStats, error) {
	out := &repository.PurchaseStats{}

	const bySupplier = `
	SELECT p.supplier_id, COALESCE(s.name, ''), COUNT(*), COALESCE(SUM(p.total), 0)
	FROM purchases p
	LEFT JOIN suppliers s ON s.id = p.supplier_id
	GROUP BY p.supplier_id, s.name
	ORDER BY SUM(p.total) DESC, p.supplier_id`
	rows, err := r.q.Query(ctx, bySupplier)
	if err != nil {
		return nil, fmt.Errorf("stats by supplier: %w", err)
	}
	for rows.Next() {
		var t repository.SupplierTotals
		if err := rows.Scan(&t.SupplierID, &t.SupplierName, &t.Count, &t.Total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stats by supplier: %w", err)
		}
		out.BySupplier = append(out.BySupplier, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const byStatus = `
	SELECT status, COUNT(*), COALESCE(SUM(total), 0)
	FROM purchases
	GROUP BY status
	ORDER BY status`
	rows, err = r.q.Query(ctx, byStatus)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	for rows.Next() {
		var t repository.StatusTotals
		var status string
		if err := rows.Scan(&status, &t.Count, &t.Total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stats by status: %w", err)
		}
		t.Status = entity.PurchaseStatus(status)
		out.ByStatus = append(out.ByStatus, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// date_trunc en UTC para que el mes no dependa de la zona de la sesión.
	const monthly = `
	SELECT date_trunc('month', date AT TIME ZONE 'UTC') AS month, COUNT(*), COALESCE(SUM(total), 0)
	FROM purchases
	WHERE date >= $1
	GROUP BY month
	ORDER BY month DESC`
	rows, err = r.q.Query(ctx, monthly, since)
	if err != nil {
		return nil, fmt.Errorf("stats monthly: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t repository.MonthlyTotals
		if err := rows.Scan(&t.Month, &t.Count, &t.Total); err != nil {
			return nil, fmt.Errorf("scan stats monthly: %w", err)
		}
		t.Month = time.Date(t.Month.Year(), t.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		out.MonthlyTotals = append(out.MonthlyTotals, t)
	}
	return out, rows.Err()
}
