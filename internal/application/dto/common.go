package dto

import (
	"math"
	"strings"
	"time"
)

// Límites de paginación.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage evita que (Page-1)*Limit desborde int.
	MaxPage = math.MaxInt / MaxLimit
)

// PageRequest paginación para listados (page base 1).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto y acota Page/Limit a rangos sanos.
func (p *PageRequest) DefaultPage() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset devuelve cuántas filas saltar.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Current    int `json:"current"`
	Total      int `json:"total"`      // páginas: ceil(totalItems / limit)
	TotalItems int `json:"totalItems"` // filas que cumplen el filtro
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(p PageRequest, totalItems int) PageResponse {
	pages := 0
	if p.Limit > 0 {
		pages = (totalItems + p.Limit - 1) / p.Limit
	}
	return PageResponse{Current: p.Page, Total: pages, TotalItems: totalItems}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

const dateLayout = "2006-01-02"

// Date fecha que acepta "YYYY-MM-DD" o RFC 3339 en JSON.
type Date struct {
	time.Time
}

// UnmarshalJSON implementa json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, _, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate interpreta "YYYY-MM-DD" (UTC) o RFC 3339. dateOnly indica el primer formato.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	return t, false, err
}
