package entity

import (
	"sort"
	"time"
)

// StockDelta variación de stock a aplicar (o ya aplicada) sobre una pieza.
type StockDelta struct {
	PartID int64
	Delta  int // positivo entrada, negativo reversión
}

// StockLedgerEntry registro de un delta aplicado por la conciliación de una compra.
// La suma de deltas por pieza es lo que la compra aportó al stock.
type StockLedgerEntry struct {
	ID         int64
	PurchaseID int64
	PartID     int64
	Delta      int
	CreatedAt  time.Time
}

// SumByPart agrupa deltas por pieza, descarta ceros y ordena por PartID.
// El orden fijo evita deadlocks entre transacciones que tocan las mismas piezas.
func SumByPart(deltas []StockDelta) []StockDelta {
	acc := make(map[int64]int, len(deltas))
	for _, d := range deltas {
		acc[d.PartID] += d.Delta
	}
	out := make([]StockDelta, 0, len(acc))
	for partID, delta := range acc {
		if delta == 0 {
			continue
		}
		out = append(out, StockDelta{PartID: partID, Delta: delta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartID < out[j].PartID })
	return out
}
