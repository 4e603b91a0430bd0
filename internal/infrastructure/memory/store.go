// Package memory implementa los puertos de persistencia en memoria para desarrollo,
// demos y tests (STORAGE_DRIVER=memory). Las transacciones trabajan sobre una copia
// del estado que solo se publica si fn termina sin error.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/domain/entity"
)

var _ purchase.TxRunner = (*Store)(nil)

type state struct {
	suppliers map[int64]entity.Supplier
	parts     map[int64]entity.Part
	machines  map[int64]string
	repairs   map[int64]int64 // repair -> machine
	purchases map[int64]entity.Purchase
	ledger    []entity.StockLedgerEntry
	seq       map[string]int64
}

func newState() state {
	return state{
		suppliers: map[int64]entity.Supplier{},
		parts:     map[int64]entity.Part{},
		machines:  map[int64]string{},
		repairs:   map[int64]int64{},
		purchases: map[int64]entity.Purchase{},
		seq:       map[string]int64{},
	}
}

// clone copia mapas y slices; los ítems de cada compra se copian para que la
// transacción pueda reemplazarlos sin tocar el estado publicado.
func (s state) clone() state {
	out := state{
		suppliers: maps.Clone(s.suppliers),
		parts:     maps.Clone(s.parts),
		machines:  maps.Clone(s.machines),
		repairs:   maps.Clone(s.repairs),
		purchases: make(map[int64]entity.Purchase, len(s.purchases)),
		ledger:    append([]entity.StockLedgerEntry(nil), s.ledger...),
		seq:       maps.Clone(s.seq),
	}
	for id, p := range s.purchases {
		out.purchases[id] = copyPurchase(p)
	}
	return out
}

func (s *state) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

// Store guarda todo el estado detrás de un mutex. Run serializa las transacciones,
// equivalente a aislamiento serializable.
type Store struct {
	mu    sync.Mutex
	state state
	now   func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla
// y el contexto sigue vigente.
func (s *Store) Run(ctx context.Context, fn func(repos purchase.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	v := &view{st: &work, now: s.now}
	if err := fn(v.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// locked ejecuta fn sobre el estado publicado, fuera de transacción.
func (s *Store) locked(fn func(v *view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&view{st: &s.state, now: s.now})
}

// AddSupplier registra un proveedor y devuelve su ID.
func (s *Store) AddSupplier(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.next("suppliers")
	s.state.suppliers[id] = entity.Supplier{ID: id, Name: name}
	return id
}

// AddPart registra una pieza con stock inicial y devuelve su ID.
func (s *Store) AddPart(name string, stock int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.next("parts")
	s.state.parts[id] = entity.Part{ID: id, Name: name, Stock: stock}
	return id
}

// AddMachine registra una máquina y devuelve su ID.
func (s *Store) AddMachine(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.next("machines")
	s.state.machines[id] = name
	return id
}

// AddRepair registra una reparación sobre una máquina y devuelve su ID.
func (s *Store) AddRepair(machineID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.next("repairs")
	s.state.repairs[id] = machineID
	return id
}

// SeedDemo carga un catálogo mínimo para levantar la API sin base de datos.
func (s *Store) SeedDemo() {
	for _, name := range []string{"Agro Repuestos SA", "Hidráulica del Sur", "John Deere Service"} {
		s.AddSupplier(name)
	}
	for _, p := range []struct {
		name  string
		stock int
	}{
		{"Filtro de aceite", 12},
		{"Correa de ventilador", 4},
		{"Rodamiento 6205", 30},
		{"Cuchilla de cosechadora", 0},
	} {
		s.AddPart(p.name, p.stock)
	}
	tractor := s.AddMachine("Tractor 5075E")
	s.AddMachine("Cosechadora S680")
	s.AddRepair(tractor)
}

func copyPurchase(p entity.Purchase) entity.Purchase {
	p.LineItems = append([]entity.LineItem(nil), p.LineItems...)
	return p
}
