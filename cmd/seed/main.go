// seed aplica las migraciones y carga un catálogo de demo (proveedores, piezas,
// máquinas y una reparación) en la base configurada por DATABASE_URL / DB_*.
//
// Uso: go run ./cmd/seed
// Es idempotente: no duplica filas cuyo nombre ya existe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/LeaGuevara01/node-sub001/internal/infrastructure/postgres"
	"github.com/LeaGuevara01/node-sub001/pkg/config"
)

var (
	suppliers = []string{"Agro Repuestos SA", "Hidráulica del Sur", "John Deere Service"}
	parts     = []struct {
		name  string
		stock int
	}{
		{"Filtro de aceite", 12},
		{"Correa de ventilador", 4},
		{"Rodamiento 6205", 30},
		{"Cuchilla de cosechadora", 0},
	}
	machines = []string{"Tractor 5075E", "Cosechadora S680"}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, name := range suppliers {
			if _, err := tx.Exec(ctx, `
				INSERT INTO suppliers (name) SELECT $1::text
				WHERE NOT EXISTS (SELECT 1 FROM suppliers WHERE name = $1)`, name); err != nil {
				return fmt.Errorf("proveedor %q: %w", name, err)
			}
		}
		for _, p := range parts {
			if _, err := tx.Exec(ctx, `
				INSERT INTO parts (name, stock) SELECT $1::text, $2::integer
				WHERE NOT EXISTS (SELECT 1 FROM parts WHERE name = $1)`, p.name, p.stock); err != nil {
				return fmt.Errorf("pieza %q: %w", p.name, err)
			}
		}
		for _, name := range machines {
			if _, err := tx.Exec(ctx, `
				INSERT INTO machines (name) SELECT $1::text
				WHERE NOT EXISTS (SELECT 1 FROM machines WHERE name = $1)`, name); err != nil {
				return fmt.Errorf("máquina %q: %w", name, err)
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO repairs (machine_id, description)
			SELECT m.id, 'Cambio de correa'
			FROM machines m
			WHERE m.name = $1
			  AND NOT EXISTS (SELECT 1 FROM repairs r WHERE r.machine_id = m.id)`, machines[0])
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seed completo: %d proveedores, %d piezas, %d máquinas\n", len(suppliers), len(parts), len(machines))
}
