package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository    = (*purchaseRepo)(nil)
	_ repository.PartRepository        = (*partRepo)(nil)
	_ repository.SupplierRepository    = (*supplierRepo)(nil)
	_ repository.ReferenceRepository   = (*referenceRepo)(nil)
	_ repository.StockLedgerRepository = (*ledgerRepo)(nil)
)

// view acceso a un estado (copia de trabajo o publicado); el caller tiene el lock.
type view struct {
	st  *state
	now func() time.Time
}

func (v *view) repos() purchase.TxRepos {
	return purchase.TxRepos{
		Purchases:  &purchaseRepo{v},
		Parts:      &partRepo{v},
		Suppliers:  &supplierRepo{v},
		References: &referenceRepo{v},
		Ledger:     &ledgerRepo{v},
	}
}

type purchaseRepo struct{ v *view }

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	st := r.v.st
	if _, ok := st.suppliers[p.SupplierID]; !ok {
		return &domain.ReferenceError{Kind: domain.RefSupplier, ID: p.SupplierID}
	}
	now := r.v.now()
	p.ID = st.next("purchases")
	p.Version = 1
	p.CreatedAt, p.UpdatedAt = now, now
	r.assignItems(p.ID, p.LineItems)
	st.purchases[p.ID] = copyPurchase(*p)
	return nil
}

func (r *purchaseRepo) GetByID(_ context.Context, id int64) (*entity.Purchase, error) {
	p, ok := r.v.st.purchases[id]
	if !ok {
		return nil, nil
	}
	return r.withSupplier(p), nil
}

// GetForUpdate equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *purchaseRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRepo) UpdateHeader(_ context.Context, p *entity.Purchase) error {
	st := r.v.st
	cur, ok := st.purchases[p.ID]
	if !ok || cur.Version != p.Version {
		return domain.ErrConflict
	}
	if _, ok := st.suppliers[p.SupplierID]; !ok {
		return &domain.ReferenceError{Kind: domain.RefSupplier, ID: p.SupplierID}
	}
	cur.Date = p.Date
	cur.SupplierID = p.SupplierID
	cur.Status = p.Status
	cur.Notes = p.Notes
	cur.Total = p.Total
	cur.Version++
	cur.UpdatedAt = r.v.now()
	st.purchases[p.ID] = cur
	p.Version, p.UpdatedAt = cur.Version, cur.UpdatedAt
	return nil
}

func (r *purchaseRepo) ReplaceLineItems(_ context.Context, purchaseID int64, items []entity.LineItem) error {
	cur, ok := r.v.st.purchases[purchaseID]
	if !ok {
		return domain.ErrNotFound
	}
	r.assignItems(purchaseID, items)
	cur.LineItems = append([]entity.LineItem(nil), items...)
	r.v.st.purchases[purchaseID] = cur
	return nil
}

func (r *purchaseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.v.st.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.v.st.purchases, id)
	return nil
}

func (r *purchaseRepo) List(_ context.Context, f repository.PurchaseFilter, limit, offset int) ([]*entity.Purchase, int, error) {
	fold := cases.Fold()
	query := fold.String(f.Query)

	var matched []entity.Purchase
	for _, p := range r.v.st.purchases {
		if r.matches(p, f, query, fold) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset < 0 || offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]*entity.Purchase, 0, end-offset)
	for _, p := range matched[offset:end] {
		out = append(out, r.withSupplier(p))
	}
	return out, total, nil
}

func (r *purchaseRepo) matches(p entity.Purchase, f repository.PurchaseFilter, query string, fold cases.Caser) bool {
	if f.SupplierID != nil && p.SupplierID != *f.SupplierID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if s == p.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DateFrom != nil && p.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && p.Date.After(*f.DateTo) {
		return false
	}
	if query != "" {
		notes := ""
		if p.Notes != nil {
			notes = *p.Notes
		}
		name := r.v.st.suppliers[p.SupplierID].Name
		if !strings.Contains(fold.String(notes), query) && !strings.Contains(fold.String(name), query) {
			return false
		}
	}
	return true
}

func (r *purchaseRepo) Stats(_ context.Context, since time.Time) (*repository.PurchaseStats, error) {
	st := r.v.st
	bySupplier := map[int64]*repository.SupplierTotals{}
	byStatus := map[entity.PurchaseStatus]*repository.StatusTotals{}
	byMonth := map[time.Time]*repository.MonthlyTotals{}

	for _, p := range st.purchases {
		s, ok := bySupplier[p.SupplierID]
		if !ok {
			s = &repository.SupplierTotals{SupplierID: p.SupplierID, SupplierName: st.suppliers[p.SupplierID].Name}
			bySupplier[p.SupplierID] = s
		}
		s.Count++
		s.Total = s.Total.Add(p.Total)

		t, ok := byStatus[p.Status]
		if !ok {
			t = &repository.StatusTotals{Status: p.Status}
			byStatus[p.Status] = t
		}
		t.Count++
		t.Total = t.Total.Add(p.Total)

		if p.Date.Before(since) {
			continue
		}
		d := p.Date.UTC()
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := byMonth[month]
		if !ok {
			m = &repository.MonthlyTotals{Month: month, Total: decimal.Zero}
			byMonth[month] = m
		}
		m.Count++
		m.Total = m.Total.Add(p.Total)
	}

	out := &repository.PurchaseStats{}
	for _, s := range bySupplier {
		out.BySupplier = append(out.BySupplier, *s)
	}
	sort.Slice(out.BySupplier, func(i, j int) bool {
		a, b := out.BySupplier[i], out.BySupplier[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.SupplierID < b.SupplierID
	})
	for _, t := range byStatus {
		out.ByStatus = append(out.ByStatus, *t)
	}
	sort.Slice(out.ByStatus, func(i, j int) bool { return out.ByStatus[i].Status < out.ByStatus[j].Status })
	for _, m := range byMonth {
		out.MonthlyTotals = append(out.MonthlyTotals, *m)
	}
	sort.Slice(out.MonthlyTotals, func(i, j int) bool {
		return out.MonthlyTotals[i].Month.After(out.MonthlyTotals[j].Month)
	})
	return out, nil
}

func (r *purchaseRepo) assignItems(purchaseID int64, items []entity.LineItem) {
	for i := range items {
		items[i].ID = r.v.st.next("line_items")
		items[i].PurchaseID = purchaseID
		items[i].Position = i
	}
}

func (r *purchaseRepo) withSupplier(p entity.Purchase) *entity.Purchase {
	out := copyPurchase(p)
	out.SupplierName = r.v.st.suppliers[p.SupplierID].Name
	return &out
}

type partRepo struct{ v *view }

func (r *partRepo) GetByID(_ context.Context, id int64) (*entity.Part, error) {
	p, ok := r.v.st.parts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *partRepo) IncrementStock(_ context.Context, partID int64, delta int) error {
	p, ok := r.v.st.parts[partID]
	if !ok {
		return &domain.ReferenceError{Kind: domain.RefPart, ID: partID}
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("part %d: %w", partID, domain.ErrInsufficientStock)
	}
	p.Stock += delta
	r.v.st.parts[partID] = p
	return nil
}

type supplierRepo struct{ v *view }

func (r *supplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	s, ok := r.v.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type referenceRepo struct{ v *view }

func (r *referenceRepo) Missing(_ context.Context, kind string, ids []int64) ([]int64, error) {
	st := r.v.st
	var exists func(id int64) bool
	switch kind {
	case domain.RefSupplier:
		exists = func(id int64) bool { _, ok := st.suppliers[id]; return ok }
	case domain.RefPart:
		exists = func(id int64) bool { _, ok := st.parts[id]; return ok }
	case domain.RefMachine:
		exists = func(id int64) bool { _, ok := st.machines[id]; return ok }
	case domain.RefRepair:
		exists = func(id int64) bool { _, ok := st.repairs[id]; return ok }
	default:
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	seen := map[int64]struct{}{}
	var missing []int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !exists(id) {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}

type ledgerRepo struct{ v *view }

func (r *ledgerRepo) Applied(_ context.Context, purchaseID int64) ([]entity.StockDelta, error) {
	var deltas []entity.StockDelta
	for _, e := range r.v.st.ledger {
		if e.PurchaseID == purchaseID {
			deltas = append(deltas, entity.StockDelta{PartID: e.PartID, Delta: e.Delta})
		}
	}
	return entity.SumByPart(deltas), nil
}

func (r *ledgerRepo) Record(_ context.Context, purchaseID int64, deltas []entity.StockDelta) error {
	now := r.v.now()
	for _, d := range deltas {
		r.v.st.ledger = append(r.v.st.ledger, entity.StockLedgerEntry{
			ID:         r.v.st.next("ledger"),
			PurchaseID: purchaseID,
			PartID:     d.PartID,
			Delta:      d.Delta,
			CreatedAt:  now,
		})
	}
	return nil
}

func (r *ledgerRepo) DeleteByPurchase(_ context.Context, purchaseID int64) error {
	kept := r.v.st.ledger[:0]
	for _, e := range r.v.st.ledger {
		if e.PurchaseID != purchaseID {
			kept = append(kept, e)
		}
	}
	r.v.st.ledger = kept
	return nil
}
