package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
)

var _ purchase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si ctx se cancela antes del commit, pgx aborta la transacción y no queda ningún efecto.
func (r *TxRunner) Run(ctx context.Context, fn func(repos purchase.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	repos := purchase.TxRepos{
		Purchases:  NewPurchaseRepository(tx),
		Parts:      NewPartRepository(tx),
		Suppliers:  NewSupplierRepository(tx),
		References: NewReferenceRepository(tx),
		Ledger:     NewLedgerRepository(tx),
	}
	if err := fn(repos); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
