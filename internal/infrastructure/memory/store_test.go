package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

func newPurchase(supplierID, partID int64, status entity.PurchaseStatus, date time.Time, notes string) *entity.Purchase {
	p := &entity.Purchase{
		Date:       date,
		SupplierID: supplierID,
		Status:     status,
		LineItems:  []entity.LineItem{{PartID: partID, Quantity: 1}},
	}
	if notes != "" {
		p.Notes = &notes
	}
	return p
}

func TestRun_ErrorDiscardsAllWrites(t *testing.T) {
	s := NewStore()
	supplier := s.AddSupplier("Agro")
	part := s.AddPart("Filtro", 1)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos purchase.TxRepos) error {
		require.NoError(t, repos.Purchases.Create(ctx, newPurchase(supplier, part, entity.PurchaseStatusReceived, time.Now(), "")))
		require.NoError(t, repos.Parts.IncrementStock(ctx, part, 5))
		require.NoError(t, repos.Ledger.Record(ctx, 1, []entity.StockDelta{{PartID: part, Delta: 5}}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, total, err := s.Purchases().List(ctx, repository.PurchaseFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	p, err := s.Parts().GetByID(ctx, part)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestRun_CommitPublishesState(t *testing.T) {
	s := NewStore()
	supplier := s.AddSupplier("Agro")
	part := s.AddPart("Filtro", 1)
	ctx := context.Background()

	var id int64
	err := s.Run(ctx, func(repos purchase.TxRepos) error {
		p := newPurchase(supplier, part, entity.PurchaseStatusPending, time.Now(), "")
		if err := repos.Purchases.Create(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return repos.Ledger.Record(ctx, p.ID, []entity.StockDelta{{PartID: part, Delta: 2}, {PartID: part, Delta: 1}})
	})
	require.NoError(t, err)

	got, err := s.Purchases().GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "Agro", got.SupplierName)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, id, got.LineItems[0].PurchaseID)

	err = s.Run(ctx, func(repos purchase.TxRepos) error {
		applied, err := repos.Ledger.Applied(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []entity.StockDelta{{PartID: part, Delta: 3}}, applied)
		return repos.Ledger.DeleteByPurchase(ctx, id)
	})
	require.NoError(t, err)
}

func TestUpdateHeader_VersionMismatchConflicts(t *testing.T) {
	s := NewStore()
	supplier := s.AddSupplier("Agro")
	part := s.AddPart("Filtro", 1)
	ctx := context.Background()

	p := newPurchase(supplier, part, entity.PurchaseStatusPending, time.Now(), "")
	require.NoError(t, s.Purchases().Create(ctx, p))

	stale := *p
	p.Status = entity.PurchaseStatusReceived
	require.NoError(t, s.Purchases().UpdateHeader(ctx, p))
	assert.Equal(t, 2, p.Version)

	assert.ErrorIs(t, s.Purchases().UpdateHeader(ctx, &stale), domain.ErrConflict)
}

func TestIncrementStock(t *testing.T) {
	s := NewStore()
	part := s.AddPart("Filtro", 2)
	ctx := context.Background()

	var refErr *domain.ReferenceError
	assert.True(t, errors.As(s.Parts().IncrementStock(ctx, 99, 1), &refErr))
	assert.ErrorIs(t, s.Parts().IncrementStock(ctx, part, -3), domain.ErrInsufficientStock)
	require.NoError(t, s.Parts().IncrementStock(ctx, part, -2))

	p, err := s.Parts().GetByID(ctx, part)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)
}

func TestList_CaseInsensitiveSearch(t *testing.T) {
	s := NewStore()
	agro := s.AddSupplier("Agro Repuestos")
	hidra := s.AddSupplier("HIDRÁULICA del Sur")
	part := s.AddPart("Filtro", 0)
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Purchases().Create(ctx, newPurchase(agro, part, entity.PurchaseStatusPending, day, "Correa para Tractor")))
	require.NoError(t, s.Purchases().Create(ctx, newPurchase(hidra, part, entity.PurchaseStatusPending, day.AddDate(0, 0, 1), "")))
	require.NoError(t, s.Purchases().Create(ctx, newPurchase(agro, part, entity.PurchaseStatusPending, day.AddDate(0, 0, 2), "100% algodón")))

	out, total, err := s.Purchases().List(ctx, repository.PurchaseFilter{Query: "tractor"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, agro, out[0].SupplierID)

	_, total, err = s.Purchases().List(ctx, repository.PurchaseFilter{Query: "hidráulica"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = s.Purchases().List(ctx, repository.PurchaseFilter{Query: "100%"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	out, total, err = s.Purchases().List(ctx, repository.PurchaseFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, out, 1)
	assert.Equal(t, day, out[0].Date, "la más antigua queda última")

	out, _, err = s.Purchases().List(ctx, repository.PurchaseFilter{}, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestList_NegativeOffsetIsOutOfRange(t *testing.T) {
	s := NewStore()
	sup := s.AddSupplier("Agro Repuestos")
	part := s.AddPart("Filtro", 0)
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Purchases().Create(ctx, newPurchase(sup, part, entity.PurchaseStatusPending, day.AddDate(0, 0, i), "")))
	}

	out, total, err := s.Purchases().List(ctx, repository.PurchaseFilter{}, 100, -200)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, out)
}

func TestMissing(t *testing.T) {
	s := NewStore()
	machine := s.AddMachine("Tractor")
	repair := s.AddRepair(machine)

	err := s.Run(context.Background(), func(repos purchase.TxRepos) error {
		missing, err := repos.References.Missing(context.Background(), domain.RefMachine, []int64{9, machine, 3, 9})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 9}, missing)

		missing, err = repos.References.Missing(context.Background(), domain.RefRepair, []int64{repair})
		require.NoError(t, err)
		assert.Empty(t, missing)

		_, err = repos.References.Missing(context.Background(), "tractor", []int64{1})
		return err
	})
	assert.Error(t, err)
}
