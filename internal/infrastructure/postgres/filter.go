package postgres

import (
	"fmt"
	"strings"

	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

// predicate condición SQL con sus argumentos; los placeholders se escriben como "?"
// y where los numera ($1, $2…) al componer.
type predicate struct {
	sql  string
	args []any
}

func cond(sql string, args ...any) predicate { return predicate{sql: sql, args: args} }

// anyOf combina predicados con OR entre paréntesis.
func anyOf(ps ...predicate) predicate {
	parts := make([]string, 0, len(ps))
	var args []any
	for _, p := range ps {
		parts = append(parts, p.sql)
		args = append(args, p.args...)
	}
	return predicate{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}
}

// whereBuilder acumula predicados combinados con AND.
type whereBuilder struct {
	preds []predicate
}

func (b *whereBuilder) and(p predicate) *whereBuilder {
	b.preds = append(b.preds, p)
	return b
}

// build devuelve la cláusula WHERE (o "") y los argumentos; startAt es el número del primer placeholder.
func (b *whereBuilder) build(startAt int) (string, []any) {
	if len(b.preds) == 0 {
		return "", nil
	}
	var sb strings.Builder
	var args []any
	n := startAt
	sb.WriteString("WHERE ")
	for i, p := range b.preds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sql := p.sql
		for strings.Contains(sql, "?") {
			sql = strings.Replace(sql, "?", fmt.Sprintf("$%d", n), 1)
			n++
		}
		sb.WriteString(sql)
		args = append(args, p.args...)
	}
	return sb.String(), args
}

// purchaseWhere traduce el filtro de compras. Requiere el alias p (purchases) y s (suppliers).
func purchaseWhere(f repository.PurchaseFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.SupplierID != nil {
		b.and(cond("p.supplier_id = ?", *f.SupplierID))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		b.and(cond("p.status = ANY(?)", statuses))
	}
	if f.DateFrom != nil {
		b.and(cond("p.date >= ?", *f.DateFrom))
	}
	if f.DateTo != nil {
		b.and(cond("p.date <= ?", *f.DateTo))
	}
	if f.Query != "" {
		pattern := "%" + escapeLike(f.Query) + "%"
		b.and(anyOf(
			cond("p.notes ILIKE ?", pattern),
			cond("s.name ILIKE ?", pattern),
		))
	}
	return b
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
