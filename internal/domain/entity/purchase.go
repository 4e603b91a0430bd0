package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus estado de una orden de compra.
type PurchaseStatus string

// Estados de una compra.
const (
	PurchaseStatusNone      PurchaseStatus = ""          // Sin estado previo (creación)
	PurchaseStatusPending   PurchaseStatus = "Pending"   // Pedida, sin recibir
	PurchaseStatusReceived  PurchaseStatus = "Received"  // Mercadería recibida: suma stock
	PurchaseStatusCancelled PurchaseStatus = "Cancelled" // Anulada
)

// Purchase representa la cabecera de una orden de compra a un proveedor.
// Los ítems pertenecen exclusivamente a la compra y se reemplazan completos en cada update.
type Purchase struct {
	ID           int64
	Date         time.Time
	SupplierID   int64
	SupplierName string // proyección de lectura (JOIN con suppliers)
	Status       PurchaseStatus
	Notes        *string
	Total        decimal.Decimal // Σ quantity × unit_price de los ítems vigentes
	Version      int             // token de concurrencia optimista
	LineItems    []LineItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LineItem representa una línea de la compra (pieza + cantidad + precio opcional).
type LineItem struct {
	ID         int64
	PurchaseID int64
	Position   int
	PartID     int64
	Quantity   int
	UnitPrice  *decimal.Decimal
	MachineID  *int64 // máquina a la que se destina la pieza (opcional)
	RepairID   *int64 // reparación asociada (opcional)
}

// Subtotal devuelve quantity × unit_price; sin precio cuenta como cero.
func (li LineItem) Subtotal() decimal.Decimal {
	if li.UnitPrice == nil {
		return decimal.Zero
	}
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ComputeTotal recalcula el total a partir de los ítems.
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}
