package purchase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/purchase"
)

const (
	pending   = entity.PurchaseStatusPending
	received  = entity.PurchaseStatusReceived
	cancelled = entity.PurchaseStatusCancelled
	none      = entity.PurchaseStatusNone
)

func items(pairs ...int) []entity.LineItem {
	var out []entity.LineItem
	for i := 0; i+1 < len(pairs); i += 2 {
		price := decimal.NewFromInt(10)
		out = append(out, entity.LineItem{PartID: int64(pairs[i]), Quantity: pairs[i+1], UnitPrice: &price})
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados
// ──────────────────────────────────────────────────────────────────────────────

func TestParseStatus(t *testing.T) {
	st, err := purchase.ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, pending, st, "vacío debe ser el estado inicial")

	st, err = purchase.ParseStatus("received")
	require.NoError(t, err)
	assert.Equal(t, received, st)

	st, err = purchase.ParseStatus(" CANCELLED ")
	require.NoError(t, err)
	assert.Equal(t, cancelled, st)

	_, err = purchase.ParseStatus("Shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestEntersReceived(t *testing.T) {
	cases := []struct {
		from, to entity.PurchaseStatus
		want     bool
	}{
		{none, received, true},
		{pending, received, true},
		{cancelled, received, true},
		{received, received, false},
		{pending, pending, false},
		{received, cancelled, false},
		{none, pending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, purchase.EntersReceived(c.from, c.to), "%q → %q", c.from, c.to)
	}
}

func TestCanTransition_SinEstadosTerminales(t *testing.T) {
	for _, from := range purchase.Statuses {
		for _, to := range purchase.Statuses {
			assert.True(t, purchase.CanTransition(from, to), "%q → %q", from, to)
		}
	}
	assert.False(t, purchase.CanTransition(pending, none))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación: política increment_only
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_IncrementOnly_EntraEnReceived(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyIncrementOnly)

	deltas := r.Reconcile(items(7, 2, 5, 3), pending, received, nil)

	assert.Equal(t, []entity.StockDelta{{PartID: 5, Delta: 3}, {PartID: 7, Delta: 2}}, deltas,
		"los deltas deben ir ordenados por pieza y ser iguales a la cantidad")
}

func TestReconcile_IncrementOnly_AgrupaPiezasRepetidas(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyIncrementOnly)

	deltas := r.Reconcile(items(5, 3, 5, 4), none, received, nil)

	assert.Equal(t, []entity.StockDelta{{PartID: 5, Delta: 7}}, deltas)
}

func TestReconcile_IncrementOnly_OtrasTransicionesNoMuevenStock(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyIncrementOnly)
	li := items(5, 3)

	assert.Empty(t, r.Reconcile(li, pending, pending, nil))
	assert.Empty(t, r.Reconcile(li, received, received, []entity.StockDelta{{PartID: 5, Delta: 3}}))
	assert.Empty(t, r.Reconcile(li, received, cancelled, []entity.StockDelta{{PartID: 5, Delta: 3}}))
	assert.Empty(t, r.Reconcile(li, pending, cancelled, nil))
	assert.Empty(t, r.Release([]entity.StockDelta{{PartID: 5, Delta: 3}}), "eliminar no revierte stock")
}

func TestReconcile_IncrementOnly_AlMenosUnaVezPorCompra(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyIncrementOnly)

	// Received → Pending → Received: el ledger ya tiene lo aplicado, no se vuelve a sumar.
	deltas := r.Reconcile(items(5, 3), pending, received, []entity.StockDelta{{PartID: 5, Delta: 3}})

	assert.Empty(t, deltas)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación: política ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_Ledger_RevierteAlCancelar(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyLedger)
	applied := []entity.StockDelta{{PartID: 5, Delta: 3}}

	deltas := r.Reconcile(items(5, 3), received, cancelled, applied)

	assert.Equal(t, []entity.StockDelta{{PartID: 5, Delta: -3}}, deltas)
}

func TestReconcile_Ledger_AplicaDiferenciaAlEditarRecibida(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyLedger)
	applied := []entity.StockDelta{{PartID: 5, Delta: 3}, {PartID: 7, Delta: 1}}

	deltas := r.Reconcile(items(5, 5, 9, 2), received, received, applied)

	assert.Equal(t, []entity.StockDelta{
		{PartID: 5, Delta: 2},
		{PartID: 7, Delta: -1},
		{PartID: 9, Delta: 2},
	}, deltas)
}

func TestReconcile_Ledger_SinCambiosNoMueveStock(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyLedger)

	deltas := r.Reconcile(items(5, 3), received, received, []entity.StockDelta{{PartID: 5, Delta: 3}})

	assert.Empty(t, deltas)
}

func TestReconcile_Ledger_ReleaseAlEliminar(t *testing.T) {
	r := purchase.NewReconciler(purchase.PolicyLedger)

	deltas := r.Release([]entity.StockDelta{{PartID: 5, Delta: 3}, {PartID: 5, Delta: 2}})

	assert.Equal(t, []entity.StockDelta{{PartID: 5, Delta: -5}}, deltas)
}

func TestParsePolicy(t *testing.T) {
	p, err := purchase.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, purchase.PolicyIncrementOnly, p)

	p, err = purchase.ParsePolicy("ledger")
	require.NoError(t, err)
	assert.Equal(t, purchase.PolicyLedger, p)

	_, err = purchase.ParsePolicy("fifo")
	assert.Error(t, err)
}

func TestComputeTotal(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	li := []entity.LineItem{
		{PartID: 5, Quantity: 3, UnitPrice: &price},
		{PartID: 6, Quantity: 4}, // sin precio: no suma
	}
	assert.True(t, decimal.RequireFromString("37.5").Equal(entity.ComputeTotal(li)))
}
