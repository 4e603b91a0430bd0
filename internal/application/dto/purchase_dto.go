package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest ítem de una compra en el body de POST/PUT.
type LineItemRequest struct {
	PartID    int64            `json:"partId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	MachineID *int64           `json:"machineId,omitempty"`
	RepairID  *int64           `json:"repairId,omitempty"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	Date       *Date             `json:"date,omitempty"`
	SupplierID int64             `json:"supplierId"`
	Status     string            `json:"status,omitempty"` // vacío = Pending
	Notes      *string           `json:"notes,omitempty"`
	LineItems  []LineItemRequest `json:"lineItems"`
}

// UpdatePurchaseRequest body para PUT /api/purchases/:id (parcial: nil = sin cambios).
// LineItems, si viene, reemplaza todos los ítems.
type UpdatePurchaseRequest struct {
	Date       *Date              `json:"date,omitempty"`
	SupplierID *int64             `json:"supplierId,omitempty"`
	Status     *string            `json:"status,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	LineItems  *[]LineItemRequest `json:"lineItems,omitempty"`
	Version    *int               `json:"version,omitempty"` // versión esperada (opcional)
}

// ListPurchasesRequest query de GET /api/purchases.
type ListPurchasesRequest struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	SupplierID string `query:"supplierId"`
	Status     string `query:"status"` // uno o varios separados por coma
	DateFrom   string `query:"dateFrom"`
	DateTo     string `query:"dateTo"`
	Q          string `query:"q"`
}

// LineItemResponse ítem en las respuestas.
type LineItemResponse struct {
	ID        int64            `json:"id"`
	PartID    int64            `json:"partId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	MachineID *int64           `json:"machineId,omitempty"`
	RepairID  *int64           `json:"repairId,omitempty"`
}

// PurchaseResponse representación de una compra.
type PurchaseResponse struct {
	ID           int64              `json:"id"`
	Date         time.Time          `json:"date"`
	SupplierID   int64              `json:"supplierId"`
	SupplierName string             `json:"supplierName,omitempty"`
	Status       string             `json:"status"`
	Notes        *string            `json:"notes"`
	Total        decimal.Decimal    `json:"total"`
	Version      int                `json:"version"`
	LineItems    []LineItemResponse `json:"lineItems"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// PurchaseListResponse respuesta paginada de GET /api/purchases.
type PurchaseListResponse struct {
	Data       []PurchaseResponse `json:"data"`
	Pagination PageResponse       `json:"pagination"`
}

// SupplierStatDTO compras agrupadas por proveedor.
type SupplierStatDTO struct {
	SupplierID   int64           `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// StatusStatDTO compras agrupadas por estado.
type StatusStatDTO struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// MonthlyTotalDTO compras de un mes ("YYYY-MM").
type MonthlyTotalDTO struct {
	Month string          `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// PurchaseStatsResponse respuesta de GET /api/purchases/stats.
type PurchaseStatsResponse struct {
	BySupplier    []SupplierStatDTO `json:"bySupplier"`
	ByStatus      []StatusStatDTO   `json:"byStatus"`
	MonthlyTotals []MonthlyTotalDTO `json:"monthlyTotals"`
}

// DeletePurchaseResponse confirmación de DELETE /api/purchases/:id.
type DeletePurchaseResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
