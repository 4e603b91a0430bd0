package purchase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

// Validator verifica integridad referencial y cantidades antes de cualquier escritura.
// Se construye con el ReferenceRepository de la transacción en curso para que la
// existencia se verifique en el mismo snapshot en que se escribe.
type Validator struct {
	refs repository.ReferenceRepository
}

// NewValidator construye el validador.
func NewValidator(refs repository.ReferenceRepository) *Validator {
	return &Validator{refs: refs}
}

// Validate devuelve el primer problema encontrado:
// ErrEmptyLineItems, *ReferenceError (proveedor, pieza, máquina, reparación)
// o *LineItemError envolviendo ErrInvalidQuantity / ErrInvalidUnitPrice.
func (v *Validator) Validate(ctx context.Context, supplierID int64, items []entity.LineItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyLineItems
	}
	if err := v.require(ctx, domain.RefSupplier, []int64{supplierID}); err != nil {
		return err
	}

	var partIDs, machineIDs, repairIDs []int64
	for _, li := range items {
		if li.Quantity <= 0 {
			return &domain.LineItemError{PartID: li.PartID, Err: domain.ErrInvalidQuantity}
		}
		if li.UnitPrice != nil && li.UnitPrice.LessThan(decimal.Zero) {
			return &domain.LineItemError{PartID: li.PartID, Err: domain.ErrInvalidUnitPrice}
		}
		partIDs = append(partIDs, li.PartID)
		if li.MachineID != nil {
			machineIDs = append(machineIDs, *li.MachineID)
		}
		if li.RepairID != nil {
			repairIDs = append(repairIDs, *li.RepairID)
		}
	}

	if err := v.require(ctx, domain.RefPart, partIDs); err != nil {
		return err
	}
	if err := v.require(ctx, domain.RefMachine, machineIDs); err != nil {
		return err
	}
	return v.require(ctx, domain.RefRepair, repairIDs)
}

func (v *Validator) require(ctx context.Context, kind string, ids []int64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	missing, err := v.refs.Missing(ctx, kind, ids)
	if err != nil {
		return fmt.Errorf("validate %s references: %w", kind, err)
	}
	if len(missing) > 0 {
		return &domain.ReferenceError{Kind: kind, ID: missing[0]}
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
