package purchase

import (
	"context"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

// TxRepos repositorios atados a la misma transacción de BD.
type TxRepos struct {
	Purchases  repository.PurchaseRepository
	Parts      repository.PartRepository
	Suppliers  repository.SupplierRepository
	References repository.ReferenceRepository
	Ledger     repository.StockLedgerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela antes del commit) no queda ningún efecto.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// StatsCache caché de estadísticas de compras. Las implementaciones no deben
// devolver error por un miss: found=false.
type StatsCache interface {
	Get(ctx context.Context) (stats *dto.PurchaseStatsResponse, found bool, err error)
	Set(ctx context.Context, stats *dto.PurchaseStatsResponse) error
	Invalidate(ctx context.Context) error
}

// NopStatsCache caché deshabilitada.
type NopStatsCache struct{}

func (NopStatsCache) Get(context.Context) (*dto.PurchaseStatsResponse, bool, error) {
	return nil, false, nil
}
func (NopStatsCache) Set(context.Context, *dto.PurchaseStatsResponse) error { return nil }
func (NopStatsCache) Invalidate(context.Context) error                      { return nil }
