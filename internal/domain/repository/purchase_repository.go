package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
)

// PurchaseFilter criterios de listado; todos se combinan con AND.
// Query busca en notas O nombre del proveedor (sin distinguir mayúsculas).
type PurchaseFilter struct {
	SupplierID *int64
	Statuses   []entity.PurchaseStatus
	DateFrom   *time.Time // inclusive
	DateTo     *time.Time // inclusive
	Query      string
}

// SupplierTotals agrupación de compras por proveedor.
type SupplierTotals struct {
	SupplierID   int64
	SupplierName string
	Count        int
	Total        decimal.Decimal
}

// StatusTotals agrupación de compras por estado.
type StatusTotals struct {
	Status entity.PurchaseStatus
	Count  int
	Total  decimal.Decimal
}

// MonthlyTotals cantidad y monto de compras en un mes (primer día del mes).
type MonthlyTotals struct {
	Month time.Time
	Count int
	Total decimal.Decimal
}

// PurchaseStats resultado crudo de las estadísticas de compras.
type PurchaseStats struct {
	BySupplier    []SupplierTotals
	ByStatus      []StatusTotals
	MonthlyTotals []MonthlyTotals // más reciente primero
}

// PurchaseRepository puerto de persistencia del agregado Purchase (cabecera + ítems).
// Dentro de una transacción las escrituras se confirman o descartan juntas.
type PurchaseRepository interface {
	// Create inserta cabecera e ítems; asigna IDs, Version=1 y timestamps.
	Create(ctx context.Context, p *entity.Purchase) error
	// GetByID devuelve la compra con sus ítems, o nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y devuelve la compra con sus ítems, o nil.
	GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error)
	// UpdateHeader persiste fecha, proveedor, estado, notas y total; incrementa Version.
	// Devuelve domain.ErrConflict si la versión persistida no coincide con p.Version.
	UpdateHeader(ctx context.Context, p *entity.Purchase) error
	// ReplaceLineItems borra los ítems actuales e inserta los nuevos.
	ReplaceLineItems(ctx context.Context, purchaseID int64, items []entity.LineItem) error
	// Delete borra ítems y cabecera. Devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error

	// List devuelve la página pedida y el total de compras que cumplen el filtro.
	List(ctx context.Context, filter PurchaseFilter, limit, offset int) ([]*entity.Purchase, int, error)
	// Stats agrupa por proveedor y estado, y por mes desde `since`.
	Stats(ctx context.Context, since time.Time) (*PurchaseStats, error)
}
