package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// PurchaseHandler maneja las peticiones HTTP de compras.
// Lecturas: cualquier usuario autenticado. Escrituras: roles privilegiados (ver Router).
type PurchaseHandler struct {
	uc    *purchase.UseCase
	query *purchase.QueryUseCase
	log   *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchase.UseCase, query *purchase.QueryUseCase, log *logger.Logger) *PurchaseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseHandler{uc: uc, query: query, log: log}
}

// List godoc
// @Summary      Listar compras
// @Description  Filtros combinados con AND; q busca en notas o nombre del proveedor. Orden: fecha descendente.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        supplierId  query  int     false  "ID del proveedor"
// @Param        status      query  string  false  "Pending, Received, Cancelled (separados por coma)"
// @Param        dateFrom    query  string  false  "Desde (YYYY-MM-DD o RFC 3339)"
// @Param        dateTo      query  string  false  "Hasta, inclusive (YYYY-MM-DD o RFC 3339)"
// @Param        q           query  string  false  "Texto libre"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Tamaño de página"  default(10)
// @Success      200  {object}  dto.PurchaseListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var in dto.ListPurchasesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.query.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, "list_purchases", err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener compra por ID
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	out, err := h.query.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, "get_purchase", err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear compra
// @Description  Si status es Received, el stock de cada pieza se incrementa en la misma transacción.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra con sus ítems"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SupplierID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "supplierId es requerido"})
	}
	out, err := h.uc.CreatePurchase(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, "create_purchase", err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar compra (parcial)
// @Description  lineItems, si viene, reemplaza todos los ítems. La versión esperada puede enviarse en el body o en If-Match.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    int                        true   "ID de la compra"
// @Param        If-Match  header  string                     false  "Versión esperada"
// @Param        body      body    dto.UpdatePurchaseRequest  true   "Campos a actualizar"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	var in dto.UpdatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Version == nil {
		if v, ok := ifMatchVersion(c.Get(fiber.HeaderIfMatch)); ok {
			in.Version = &v
		}
	}
	out, err := h.uc.UpdatePurchase(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, "update_purchase", err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la compra"
// @Success      200  {object}  dto.DeletePurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	if err := h.uc.DeletePurchase(c.UserContext(), id); err != nil {
		return writeError(c, h.log, "delete_purchase", err)
	}
	return c.JSON(dto.DeletePurchaseResponse{ID: id, Message: "compra eliminada"})
}

// Stats godoc
// @Summary      Estadísticas de compras
// @Description  Totales por proveedor y por estado; totales mensuales de los últimos 12 meses (más reciente primero).
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PurchaseStatsResponse
// @Router       /api/purchases/stats [get]
func (h *PurchaseHandler) Stats(c *fiber.Ctx) error {
	out, err := h.query.Stats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, "purchase_stats", err)
	}
	return c.JSON(out)
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero positivo"})
}

// ifMatchVersion acepta `3`, `"3"` o `W/"3"`.
func ifMatchVersion(h string) (int, bool) {
	h = strings.TrimPrefix(strings.TrimSpace(h), "W/")
	h = strings.Trim(h, `"`)
	if h == "" {
		return 0, false
	}
	v, err := strconv.Atoi(h)
	return v, err == nil
}
