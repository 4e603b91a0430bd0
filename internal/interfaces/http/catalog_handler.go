package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/application/usecase"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// CatalogHandler lectura de piezas (con stock) y proveedores.
type CatalogHandler struct {
	uc  *usecase.CatalogUseCase
	log *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase, log *logger.Logger) *CatalogHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogHandler{uc: uc, log: log}
}

// GetPart godoc
// @Summary      Obtener pieza por ID
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la pieza"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *CatalogHandler) GetPart(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	out, err := h.uc.GetPart(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, "get_part", err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pieza no encontrada"})
	}
	return c.JSON(out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor por ID
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	out, err := h.uc.GetSupplier(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, "get_supplier", err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proveedor no encontrado"})
	}
	return c.JSON(out)
}
