package memory

import (
	"context"
	"time"

	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

// Purchases devuelve el repositorio de compras sobre el estado publicado (lecturas fuera de tx).
func (s *Store) Purchases() repository.PurchaseRepository { return storePurchases{s} }

// Parts devuelve el repositorio de piezas sobre el estado publicado.
func (s *Store) Parts() repository.PartRepository { return storeParts{s} }

// Suppliers devuelve el repositorio de proveedores sobre el estado publicado.
func (s *Store) Suppliers() repository.SupplierRepository { return storeSuppliers{s} }

type storePurchases struct{ s *Store }

func (r storePurchases) Create(ctx context.Context, p *entity.Purchase) error {
	return r.s.locked(func(v *view) error { return (&purchaseRepo{v}).Create(ctx, p) })
}

func (r storePurchases) GetByID(ctx context.Context, id int64) (p *entity.Purchase, err error) {
	err = r.s.locked(func(v *view) error { p, err = (&purchaseRepo{v}).GetByID(ctx, id); return err })
	return p, err
}

func (r storePurchases) GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r storePurchases) UpdateHeader(ctx context.Context, p *entity.Purchase) error {
	return r.s.locked(func(v *view) error { return (&purchaseRepo{v}).UpdateHeader(ctx, p) })
}

func (r storePurchases) ReplaceLineItems(ctx context.Context, purchaseID int64, items []entity.LineItem) error {
	return r.s.locked(func(v *view) error { return (&purchaseRepo{v}).ReplaceLineItems(ctx, purchaseID, items) })
}

func (r storePurchases) Delete(ctx context.Context, id int64) error {
	return r.s.locked(func(v *view) error { return (&purchaseRepo{v}).Delete(ctx, id) })
}

func (r storePurchases) List(ctx context.Context, f repository.PurchaseFilter, limit, offset int) (out []*entity.Purchase, total int, err error) {
	err = r.s.locked(func(v *view) error {
		out, total, err = (&purchaseRepo{v}).List(ctx, f, limit, offset)
		return err
	})
	return out, total, err
}

func (r storePurchases) Stats(ctx context.Context, since time.Time) (out *repository.PurchaseStats, err error) {
	err = r.s.locked(func(v *view) error { out, err = (&purchaseRepo{v}).Stats(ctx, since); return err })
	return out, err
}

type storeParts struct{ s *Store }

func (r storeParts) GetByID(ctx context.Context, id int64) (p *entity.Part, err error) {
	err = r.s.locked(func(v *view) error { p, err = (&partRepo{v}).GetByID(ctx, id); return err })
	return p, err
}

func (r storeParts) IncrementStock(ctx context.Context, partID int64, delta int) error {
	return r.s.locked(func(v *view) error { return (&partRepo{v}).IncrementStock(ctx, partID, delta) })
}

type storeSuppliers struct{ s *Store }

func (r storeSuppliers) GetByID(ctx context.Context, id int64) (out *entity.Supplier, err error) {
	err = r.s.locked(func(v *view) error { out, err = (&supplierRepo{v}).GetByID(ctx, id); return err })
	return out, err
}
