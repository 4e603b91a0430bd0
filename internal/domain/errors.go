package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrReferenceNotFound = errors.New("referencia inexistente")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidUnitPrice  = errors.New("precio unitario inválido")
	ErrEmptyLineItems    = errors.New("la compra debe tener al menos un ítem")
	ErrInvalidStatus     = errors.New("estado de compra inválido")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Tipos de referencia validados antes de escribir una compra.
const (
	RefSupplier = "supplier"
	RefPart     = "part"
	RefMachine  = "machine"
	RefRepair   = "repair"
)

// ReferenceError indica qué entidad referenciada no existe.
// errors.Is(err, ErrReferenceNotFound) es verdadero.
type ReferenceError struct {
	Kind string
	ID   int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d no existe", e.Kind, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReferenceNotFound }

// LineItemError asocia un error de validación a la pieza de la línea.
type LineItemError struct {
	PartID int64
	Err    error
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("ítem con pieza %d: %v", e.PartID, e.Err)
}

func (e *LineItemError) Unwrap() error { return e.Err }

// IsValidation indica si el error corresponde a una entrada rechazable por el cliente.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrReferenceNotFound) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidUnitPrice) ||
		errors.Is(err, ErrEmptyLineItems) ||
		errors.Is(err, ErrInvalidStatus)
}
