package repository

import (
	"context"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
)

// SupplierRepository directorio de proveedores (solo lectura).
type SupplierRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
}

// PartRepository catálogo de piezas. El stock solo se modifica con IncrementStock.
type PartRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Part, error)
	// IncrementStock suma delta de forma atómica (stock = stock + delta).
	// Devuelve *domain.ReferenceError si la pieza no existe y
	// domain.ErrInsufficientStock si el resultado quedaría negativo.
	IncrementStock(ctx context.Context, partID int64, delta int) error
}

// ReferenceRepository verifica existencia de entidades referenciadas por una compra.
type ReferenceRepository interface {
	// Missing devuelve, ordenados, los IDs de `ids` que no existen para el tipo dado
	// (domain.RefSupplier, RefPart, RefMachine, RefRepair).
	Missing(ctx context.Context, kind string, ids []int64) ([]int64, error)
}

// StockLedgerRepository registro de deltas de stock aplicados por compra.
type StockLedgerRepository interface {
	// Applied devuelve lo aplicado por la compra, agrupado por pieza.
	Applied(ctx context.Context, purchaseID int64) ([]entity.StockDelta, error)
	Record(ctx context.Context, purchaseID int64, deltas []entity.StockDelta) error
	DeleteByPurchase(ctx context.Context, purchaseID int64) error
}
