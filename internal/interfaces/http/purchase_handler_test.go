package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/application/usecase"
	domainpurchase "github.com/LeaGuevara01/node-sub001/internal/domain/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/infrastructure/memory"
	apphttp "github.com/LeaGuevara01/node-sub001/internal/interfaces/http"
)

type apiFixture struct {
	app      *fiber.App
	store    *memory.Store
	supplier int64
	part     int64
	admin    string
	reader   string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	f := &apiFixture{
		store:    store,
		supplier: store.AddSupplier("Agro Repuestos"),
		part:     store.AddPart("Filtro de aceite", 10),
		admin:    tokenForRole(t, "admin"),
		reader:   tokenForRole(t, "mecanico"),
	}
	reconciler := domainpurchase.NewReconciler(domainpurchase.PolicyIncrementOnly)
	f.app = fiber.New()
	f.app.Use(apphttp.RequestLogger(nil))
	apphttp.Router(f.app, apphttp.RouterDeps{
		PurchaseUC:      purchase.NewUseCase(store, reconciler, nil, nil),
		PurchaseQueryUC: purchase.NewQueryUseCase(store.Purchases(), nil, nil),
		CatalogUC:       usecase.NewCatalogUseCase(store.Parts(), store.Suppliers()),
		JWTSecret:       testJWTSecret,
		PrivilegedRoles: []string{"admin"},
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *apiFixture) stock(t *testing.T) int {
	t.Helper()
	resp, body := f.do(t, http.MethodGet, "/api/parts/"+strconv.FormatInt(f.part, 10), f.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var p dto.PartResponse
	require.NoError(t, json.Unmarshal(body, &p))
	return p.Stock
}

// Flujo completo: crear pendiente, recibir, volver a guardar recibida, eliminar.
func TestPurchaseAPI_Lifecycle(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/purchases", f.admin, map[string]any{
		"date":       "2024-03-10",
		"supplierId": f.supplier,
		"notes":      "repuestos cosecha",
		"lineItems":  []map[string]any{{"partId": f.part, "quantity": 5, "unitPrice": "12.40"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Pending", created.Status)
	assert.True(t, decimal.RequireFromString("62").Equal(created.Total))
	assert.Equal(t, 10, f.stock(t))

	path := "/api/purchases/" + strconv.FormatInt(created.ID, 10)

	resp, body = f.do(t, http.MethodPut, path, f.admin, map[string]any{"status": "Received"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, 15, f.stock(t))

	resp, body = f.do(t, http.MethodPut, path, f.admin, map[string]any{"status": "Received", "notes": "ok"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, 15, f.stock(t), "mantener Received no vuelve a sumar")

	resp, body = f.do(t, http.MethodGet, path, f.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 3, got.Version)
	assert.Equal(t, "ok", *got.Notes)

	resp, body = f.do(t, http.MethodDelete, path, f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = f.do(t, http.MethodGet, path, f.reader, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseAPI_ValidationErrors(t *testing.T) {
	f := newAPI(t)

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"pieza inexistente", map[string]any{"supplierId": f.supplier, "status": "Received",
			"lineItems": []map[string]any{{"partId": 999, "quantity": 1}}}, "REFERENCE_NOT_FOUND"},
		{"cantidad cero", map[string]any{"supplierId": f.supplier,
			"lineItems": []map[string]any{{"partId": f.part, "quantity": 0}}}, "INVALID_QUANTITY"},
		{"sin ítems", map[string]any{"supplierId": f.supplier, "lineItems": []any{}}, "EMPTY_LINE_ITEMS"},
		{"estado inválido", map[string]any{"supplierId": f.supplier, "status": "Lost",
			"lineItems": []map[string]any{{"partId": f.part, "quantity": 1}}}, "INVALID_STATUS"},
		{"sin proveedor", map[string]any{"lineItems": []map[string]any{{"partId": f.part, "quantity": 1}}}, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodPost, "/api/purchases", f.admin, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.code, e.Code)
		})
	}
	assert.Equal(t, 10, f.stock(t))
}

func TestPurchaseAPI_WritesRequirePrivilegedRole(t *testing.T) {
	f := newAPI(t)
	body := map[string]any{"supplierId": f.supplier, "lineItems": []map[string]any{{"partId": f.part, "quantity": 1}}}

	resp, _ := f.do(t, http.MethodPost, "/api/purchases", f.reader, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/purchases", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/purchases", f.reader, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "las lecturas solo requieren autenticación")
}

func TestPurchaseAPI_StaleVersionIsRetryableConflict(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/purchases", f.admin, map[string]any{
		"supplierId": f.supplier,
		"lineItems":  []map[string]any{{"partId": f.part, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(body, &created))
	path := "/api/purchases/" + strconv.FormatInt(created.ID, 10)

	resp, _ = f.do(t, http.MethodPut, path, f.admin, map[string]any{"notes": "v2"}, "If-Match", `"1"`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodPut, path, f.admin, map[string]any{"status": "Received"}, "If-Match", `"1"`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "CONFLICT", e.Code)
	assert.True(t, e.Retryable)
	assert.Equal(t, 10, f.stock(t))
}

func TestPurchaseAPI_ListAndStats(t *testing.T) {
	f := newAPI(t)
	for _, d := range []string{"2024-01-05", "2024-02-05", "2024-03-05"} {
		resp, body := f.do(t, http.MethodPost, "/api/purchases", f.admin, map[string]any{
			"date": d, "supplierId": f.supplier, "status": "Received",
			"lineItems": []map[string]any{{"partId": f.part, "quantity": 1, "unitPrice": 3}},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := f.do(t, http.MethodGet, "/api/purchases?page=1&limit=2&status=received&dateFrom=2024-02-01", f.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list dto.PurchaseListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, dto.PageResponse{Current: 1, Total: 1, TotalItems: 2}, list.Pagination)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "2024-03-05", list.Data[0].Date.Format("2006-01-02"))

	resp, body = f.do(t, http.MethodGet, "/api/purchases?supplierId=abc", f.reader, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/purchases/stats", f.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var stats dto.PurchaseStatsResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	require.Len(t, stats.BySupplier, 1)
	assert.Equal(t, 3, stats.BySupplier[0].Count)
	assert.Equal(t, "Agro Repuestos", stats.BySupplier[0].SupplierName)
}

func TestPurchaseAPI_RequestIDHeader(t *testing.T) {
	f := newAPI(t)

	resp, _ := f.do(t, http.MethodGet, "/api/purchases", f.reader, nil, apphttp.HeaderRequestID, "abc-123")
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp, _ = f.do(t, http.MethodGet, "/api/purchases", f.reader, nil)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestCatalogAPI_NotFoundAndBadID(t *testing.T) {
	f := newAPI(t)

	resp, _ := f.do(t, http.MethodGet, "/api/parts/999", f.reader, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/suppliers/x", f.reader, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/suppliers/"+strconv.FormatInt(f.supplier, 10), f.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s dto.SupplierResponse
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, "Agro Repuestos", s.Name)
}
