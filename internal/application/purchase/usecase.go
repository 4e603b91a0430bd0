package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	domainpurchase "github.com/LeaGuevara01/node-sub001/internal/domain/purchase"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// UseCase crea, actualiza y elimina compras. Cada operación corre en una sola transacción
// que abarca cabecera, ítems, stock de piezas y ledger de conciliación.
type UseCase struct {
	txRunner   TxRunner
	reconciler *domainpurchase.Reconciler
	cache      StatsCache
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewUseCase(txRunner TxRunner, reconciler *domainpurchase.Reconciler, cache StatsCache, log *logger.Logger) *UseCase {
	if cache == nil {
		cache = NopStatsCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:   txRunner,
		reconciler: reconciler,
		cache:      cache,
		log:        log,
		now:        time.Now,
	}
}

// CreatePurchase valida, calcula el total, persiste cabecera e ítems y, si el estado
// inicial es Received, suma el stock de cada pieza.
func (uc *UseCase) CreatePurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	status, err := domainpurchase.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	date := uc.now().UTC()
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.Time
	}
	items := toLineItems(in.LineItems)
	p := &entity.Purchase{
		Date:       date,
		SupplierID: in.SupplierID,
		Status:     status,
		Notes:      normalizeNotes(in.Notes),
		LineItems:  items,
		Total:      entity.ComputeTotal(items),
	}

	var created *entity.Purchase
	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		if err := NewValidator(repos.References).Validate(ctx, p.SupplierID, p.LineItems); err != nil {
			return err
		}
		if err := repos.Purchases.Create(ctx, p); err != nil {
			return err
		}
		deltas := uc.reconciler.Reconcile(p.LineItems, entity.PurchaseStatusNone, p.Status, nil)
		if err := uc.applyDeltas(ctx, repos, p.ID, deltas, true); err != nil {
			return err
		}
		created, err = repos.Purchases.GetByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateStats(ctx)
	return toPurchaseResponse(created), nil
}

// UpdatePurchase aplica una actualización parcial. Lee el estado persistido con la fila
// bloqueada, reemplaza los ítems si vienen, recalcula el total y concilia stock
// comparando estado previo y nuevo.
func (uc *UseCase) UpdatePurchase(ctx context.Context, id int64, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	var next *entity.PurchaseStatus
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		st, err := domainpurchase.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		next = &st
	}

	var updated *entity.Purchase
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if in.Version != nil && *in.Version != current.Version {
			return domain.ErrConflict
		}

		previous := current.Status
		p := *current
		if next != nil {
			if !domainpurchase.CanTransition(previous, *next) {
				return domain.ErrInvalidStatus
			}
			p.Status = *next
		}
		if in.Date != nil && !in.Date.IsZero() {
			p.Date = in.Date.Time
		}
		if in.SupplierID != nil {
			p.SupplierID = *in.SupplierID
		}
		if in.Notes != nil {
			p.Notes = normalizeNotes(in.Notes)
		}
		replaceItems := in.LineItems != nil
		if replaceItems {
			p.LineItems = toLineItems(*in.LineItems)
		}
		if replaceItems || in.SupplierID != nil {
			if err := NewValidator(repos.References).Validate(ctx, p.SupplierID, p.LineItems); err != nil {
				return err
			}
		}
		p.Total = entity.ComputeTotal(p.LineItems)

		if err := repos.Purchases.UpdateHeader(ctx, &p); err != nil {
			return err
		}
		if replaceItems {
			if err := repos.Purchases.ReplaceLineItems(ctx, p.ID, p.LineItems); err != nil {
				return err
			}
		}

		applied, err := repos.Ledger.Applied(ctx, p.ID)
		if err != nil {
			return err
		}
		deltas := uc.reconciler.Reconcile(p.LineItems, previous, p.Status, applied)
		if err := uc.applyDeltas(ctx, repos, p.ID, deltas, true); err != nil {
			return err
		}
		updated, err = repos.Purchases.GetByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateStats(ctx)
	return toPurchaseResponse(updated), nil
}

// DeletePurchase elimina ítems, ledger y cabecera en una transacción.
// Solo con la política ledger se revierte el stock aportado por la compra.
func (uc *UseCase) DeletePurchase(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		applied, err := repos.Ledger.Applied(ctx, id)
		if err != nil {
			return err
		}
		if err := uc.applyDeltas(ctx, repos, id, uc.reconciler.Release(applied), false); err != nil {
			return err
		}
		if err := repos.Ledger.DeleteByPurchase(ctx, id); err != nil {
			return err
		}
		return repos.Purchases.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidateStats(ctx)
	return nil
}

// applyDeltas incrementa stock pieza por pieza (orden por PartID) y opcionalmente lo registra en el ledger.
func (uc *UseCase) applyDeltas(ctx context.Context, repos TxRepos, purchaseID int64, deltas []entity.StockDelta, record bool) error {
	if len(deltas) == 0 {
		return nil
	}
	for _, d := range deltas {
		if err := repos.Parts.IncrementStock(ctx, d.PartID, d.Delta); err != nil {
			return err
		}
	}
	if record {
		if err := repos.Ledger.Record(ctx, purchaseID, deltas); err != nil {
			return err
		}
	}
	uc.log.Debug().
		Int64("purchase_id", purchaseID).
		Int("parts", len(deltas)).
		Str("policy", string(uc.reconciler.Policy())).
		Msg("stock conciliado")
	return nil
}

func (uc *UseCase) invalidateStats(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar caché de estadísticas")
	}
}

func toLineItems(in []dto.LineItemRequest) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(in))
	for i, li := range in {
		items = append(items, entity.LineItem{
			Position:  i,
			PartID:    li.PartID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			MachineID: li.MachineID,
			RepairID:  li.RepairID,
		})
	}
	return items
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	s := strings.TrimSpace(*notes)
	if s == "" {
		return nil
	}
	return &s
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	out := &dto.PurchaseResponse{
		ID:           p.ID,
		Date:         p.Date,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Status:       string(p.Status),
		Notes:        p.Notes,
		Total:        p.Total,
		Version:      p.Version,
		LineItems:    make([]dto.LineItemResponse, 0, len(p.LineItems)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, li := range p.LineItems {
		out.LineItems = append(out.LineItems, dto.LineItemResponse{
			ID:        li.ID,
			PartID:    li.PartID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			MachineID: li.MachineID,
			RepairID:  li.RepairID,
		})
	}
	return out
}
