package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// writeError traduce errores de dominio a respuestas HTTP.
// Los errores internos se registran con el contexto de la operación y se responden sin detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, op string, err error) error {
	var refErr *domain.ReferenceError
	switch {
	case errors.As(err, &refErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "REFERENCE_NOT_FOUND", Message: refErr.Error()})
	case errors.Is(err, domain.ErrReferenceNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "REFERENCE_NOT_FOUND", Message: domain.ErrReferenceNotFound.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: lineItemMessage(err)})
	case errors.Is(err, domain.ErrInvalidUnitPrice):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_UNIT_PRICE", Message: lineItemMessage(err)})
	case errors.Is(err, domain.ErrEmptyLineItems):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_LINE_ITEMS", Message: domain.ErrEmptyLineItems.Error()})
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: domain.ErrInvalidStatus.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: domain.ErrInvalidInput.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "compra no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la compra fue modificada por otro request, reintente", Retryable: true})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "el stock de la pieza quedaría negativo"})
	}
	log.Error().
		Err(err).
		Str("request_id", GetRequestID(c)).
		Str("op", op).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func lineItemMessage(err error) string {
	var itemErr *domain.LineItemError
	if errors.As(err, &itemErr) {
		return fmt.Sprintf("pieza %d: %v", itemErr.PartID, itemErr.Err)
	}
	return err.Error()
}
