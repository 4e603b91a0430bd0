package purchase

import (
	"fmt"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
)

// Policy política de conciliación de stock.
type Policy string

const (
	// PolicyIncrementOnly suma stock una sola vez al entrar en Received y nunca lo revierte.
	PolicyIncrementOnly Policy = "increment_only"
	// PolicyLedger lleva el stock de la compra al objetivo según el ledger:
	// revierte al cancelar/eliminar y aplica diferencias al editar una compra recibida.
	PolicyLedger Policy = "ledger"
)

// ParsePolicy valida el nombre de política configurado. Vacío usa PolicyIncrementOnly.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyIncrementOnly:
		return PolicyIncrementOnly, nil
	case PolicyLedger:
		return PolicyLedger, nil
	}
	return "", fmt.Errorf("política de stock desconocida: %q", s)
}

// Reconciler decide cuánto stock mover por pieza dada una transición de estado.
type Reconciler struct {
	policy Policy
}

// NewReconciler construye el servicio de conciliación.
func NewReconciler(policy Policy) *Reconciler {
	if policy == "" {
		policy = PolicyIncrementOnly
	}
	return &Reconciler{policy: policy}
}

// Policy devuelve la política activa.
func (r *Reconciler) Policy() Policy { return r.policy }

// Reconcile devuelve los deltas a aplicar, agrupados y ordenados por pieza.
// applied son los deltas ya registrados en el ledger para esta compra (vacío en la creación).
func (r *Reconciler) Reconcile(items []entity.LineItem, previous, next entity.PurchaseStatus, applied []entity.StockDelta) []entity.StockDelta {
	switch r.policy {
	case PolicyLedger:
		return r.towardsTarget(items, next, applied)
	default:
		if !EntersReceived(previous, next) || len(entity.SumByPart(applied)) > 0 {
			return nil
		}
		return entity.SumByPart(quantities(items))
	}
}

// Release devuelve los deltas que deshacen lo aplicado al eliminar la compra.
// Con PolicyIncrementOnly el stock no se revierte.
func (r *Reconciler) Release(applied []entity.StockDelta) []entity.StockDelta {
	if r.policy != PolicyLedger {
		return nil
	}
	return r.towardsTarget(nil, entity.PurchaseStatusNone, applied)
}

// towardsTarget calcula objetivo - aplicado por pieza.
func (r *Reconciler) towardsTarget(items []entity.LineItem, next entity.PurchaseStatus, applied []entity.StockDelta) []entity.StockDelta {
	var deltas []entity.StockDelta
	if next == entity.PurchaseStatusReceived {
		deltas = quantities(items)
	}
	for _, a := range applied {
		deltas = append(deltas, entity.StockDelta{PartID: a.PartID, Delta: -a.Delta})
	}
	return entity.SumByPart(deltas)
}

func quantities(items []entity.LineItem) []entity.StockDelta {
	out := make([]entity.StockDelta, 0, len(items))
	for _, li := range items {
		out = append(out, entity.StockDelta{PartID: li.PartID, Delta: li.Quantity})
	}
	return out
}
