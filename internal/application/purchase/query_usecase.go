package purchase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
	domainpurchase "github.com/LeaGuevara01/node-sub001/internal/domain/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// statsMonths meses incluidos en monthlyTotals (el actual y los 11 anteriores).
const statsMonths = 12

// QueryUseCase lecturas de compras: detalle, listado filtrado y estadísticas.
type QueryUseCase struct {
	repo  repository.PurchaseRepository
	cache StatsCache
	log   *logger.Logger
	now   func() time.Time
}

// NewQueryUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewQueryUseCase(repo repository.PurchaseRepository, cache StatsCache, log *logger.Logger) *QueryUseCase {
	if cache == nil {
		cache = NopStatsCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &QueryUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// GetByID obtiene una compra con sus ítems. domain.ErrNotFound si no existe.
func (uc *QueryUseCase) GetByID(ctx context.Context, id int64) (*dto.PurchaseResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// List aplica filtros (AND), búsqueda libre y paginación; orden por fecha descendente.
func (uc *QueryUseCase) List(ctx context.Context, in dto.ListPurchasesRequest) (*dto.PurchaseListResponse, error) {
	filter, err := BuildFilter(in)
	if err != nil {
		return nil, err
	}
	page := dto.PageRequest{Page: in.Page, Limit: in.Limit}
	page.DefaultPage()

	purchases, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseListResponse{
		Data:       make([]dto.PurchaseResponse, 0, len(purchases)),
		Pagination: dto.NewPageResponse(page, total),
	}
	for _, p := range purchases {
		out.Data = append(out.Data, *toPurchaseResponse(p))
	}
	return out, nil
}

// Stats agrupa por proveedor, por estado y por mes (últimos 12 meses, más reciente primero).
// Usa la caché si está configurada; un fallo de caché solo se registra.
func (uc *QueryUseCase) Stats(ctx context.Context) (*dto.PurchaseStatsResponse, error) {
	if cached, found, err := uc.cache.Get(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("leer caché de estadísticas")
	} else if found {
		return cached, nil
	}

	stats, err := uc.repo.Stats(ctx, StatsSince(uc.now()))
	if err != nil {
		return nil, err
	}
	out := toStatsResponse(stats)
	if err := uc.cache.Set(ctx, out); err != nil {
		uc.log.Warn().Err(err).Msg("guardar caché de estadísticas")
	}
	return out, nil
}

// StatsSince devuelve el primer día del mes 11 meses antes de now (UTC).
func StatsSince(now time.Time) time.Time {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(statsMonths - 1), 0)
}

// BuildFilter traduce los parámetros de query al filtro del repositorio.
// dateTo con formato YYYY-MM-DD incluye el día completo.
func BuildFilter(in dto.ListPurchasesRequest) (repository.PurchaseFilter, error) {
	var f repository.PurchaseFilter

	if s := strings.TrimSpace(in.SupplierID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		f.SupplierID = &id
	}
	for _, raw := range strings.Split(in.Status, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, err := domainpurchase.ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Statuses = appendStatus(f.Statuses, st)
	}
	if s := strings.TrimSpace(in.DateFrom); s != "" {
		t, _, err := dto.ParseDate(s)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		f.DateFrom = &t
	}
	if s := strings.TrimSpace(in.DateTo); s != "" {
		t, dateOnly, err := dto.ParseDate(s)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		f.DateTo = &t
	}
	f.Query = strings.TrimSpace(in.Q)
	return f, nil
}

func appendStatus(list []entity.PurchaseStatus, st entity.PurchaseStatus) []entity.PurchaseStatus {
	for _, s := range list {
		if s == st {
			return list
		}
	}
	return append(list, st)
}

func toStatsResponse(s *repository.PurchaseStats) *dto.PurchaseStatsResponse {
	out := &dto.PurchaseStatsResponse{
		BySupplier:    make([]dto.SupplierStatDTO, 0, len(s.BySupplier)),
		ByStatus:      make([]dto.StatusStatDTO, 0, len(s.ByStatus)),
		MonthlyTotals: make([]dto.MonthlyTotalDTO, 0, len(s.MonthlyTotals)),
	}
	for _, r := range s.BySupplier {
		out.BySupplier = append(out.BySupplier, dto.SupplierStatDTO{
			SupplierID: r.SupplierID, SupplierName: r.SupplierName, Count: r.Count, Total: r.Total,
		})
	}
	for _, r := range s.ByStatus {
		out.ByStatus = append(out.ByStatus, dto.StatusStatDTO{Status: string(r.Status), Count: r.Count, Total: r.Total})
	}
	for _, r := range s.MonthlyTotals {
		out.MonthlyTotals = append(out.MonthlyTotals, dto.MonthlyTotalDTO{
			Month: r.Month.Format("2006-01"), Count: r.Count, Total: r.Total,
		})
	}
	return out
}
