package purchase

import (
	"strings"

	"github.com/LeaGuevara01/node-sub001/internal/domain"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
)

// Statuses estados válidos en el orden en que se presentan al cliente.
var Statuses = []entity.PurchaseStatus{
	entity.PurchaseStatusPending,
	entity.PurchaseStatusReceived,
	entity.PurchaseStatusCancelled,
}

// ParseStatus normaliza un estado recibido del cliente (sin distinguir mayúsculas).
// Vacío devuelve Pending, el estado inicial.
func ParseStatus(s string) (entity.PurchaseStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.PurchaseStatusPending, nil
	}
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return entity.PurchaseStatusNone, domain.ErrInvalidStatus
}

// CanTransition indica si el cambio de estado está permitido.
// No hay estados terminales: cualquier estado válido puede pasar a cualquier otro.
func CanTransition(from, to entity.PurchaseStatus) bool {
	if to == entity.PurchaseStatusNone {
		return false
	}
	return from == entity.PurchaseStatusNone || isKnown(from)
}

// EntersReceived es la única decisión dependiente del estado:
// la conciliación de stock se dispara al pasar de "no recibida" a Received.
func EntersReceived(previous, next entity.PurchaseStatus) bool {
	return previous != entity.PurchaseStatusReceived && next == entity.PurchaseStatusReceived
}

func isKnown(s entity.PurchaseStatus) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}
