// Package memory implementa los puertos de persistencia en memoria (demo, desarrollo y tests).
//
// Las transacciones se serializan con un único mutex de escritura: Run trabaja sobre una copia
// del estado y la publica solo si la función termina sin error (Commit); si falla, la copia se
// descarta (Rollback). Las lecturas fuera de transacción ven el último estado publicado.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type pairKey struct {
	stationID string
	ppeItemID string
}

type state struct {
	stations  map[string]entity.Station
	items     map[string]entity.PPEItem
	inventory map[pairKey]entity.InventoryRecord
	alerts    []entity.Alert
	users     []entity.User
	audit     []entity.AuditLog
}

func newState() *state {
	return &state{
		stations:  make(map[string]entity.Station),
		items:     make(map[string]entity.PPEItem),
		inventory: make(map[pairKey]entity.InventoryRecord),
	}
}

func (s *state) clone() *state {
	c := &state{
		stations:  make(map[string]entity.Station, len(s.stations)),
		items:     make(map[string]entity.PPEItem, len(s.items)),
		inventory: make(map[pairKey]entity.InventoryRecord, len(s.inventory)),
		alerts:    append([]entity.Alert(nil), s.alerts...),
		users:     append([]entity.User(nil), s.users...),
		audit:     append([]entity.AuditLog(nil), s.audit...),
	}
	for k, v := range s.stations {
		c.stations[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	return c
}

// decorate completa los campos de solo lectura (JOIN con estación y EPP).
func (s *state) decorate(r entity.InventoryRecord) *entity.InventoryRecord {
	if st, ok := s.stations[r.StationID]; ok {
		r.StationName = st.Name
		r.StationLocation = st.Location
	}
	if it, ok := s.items[r.PPEItemID]; ok {
		r.ItemName = it.Name
		r.ItemCategory = it.Category
	}
	return &r
}

func (s *state) recordsOf(stationID string) []*entity.InventoryRecord {
	var out []*entity.InventoryRecord
	for k, r := range s.inventory {
		if k.stationID == stationID {
			out = append(out, s.decorate(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PPEItemID < out[j].PPEItemID })
	return out
}

type execFn func(write bool, fn func(st *state) error) error

// Store almacén en memoria. El valor cero no es usable; usar NewStore.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	state  *state
	now    func() time.Time

	faultMu          sync.Mutex
	alertCreateFault error
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// Run ejecuta fn sobre una copia del estado con acceso exclusivo y la publica si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	alertRepo repository.AlertRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.dataMu.RLock()
	work := s.state.clone()
	s.dataMu.RUnlock()

	exec := func(_ bool, fn func(st *state) error) error { return fn(work) }
	if err := fn(&InventoryRepo{exec: exec, now: s.now}, &AlertRepo{exec: exec, store: s}); err != nil {
		return err
	}

	s.dataMu.Lock()
	s.state = work
	s.dataMu.Unlock()
	return nil
}

// autocommit ejecuta una operación suelta (equivalente a usar el pool sin transacción explícita).
func (s *Store) autocommit(write bool, fn func(st *state) error) error {
	if write {
		s.txMu.Lock()
		defer s.txMu.Unlock()
		s.dataMu.Lock()
		defer s.dataMu.Unlock()
		return fn(s.state)
	}
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return fn(s.state)
}

// InjectAlertCreateError hace fallar la próxima inserción de alerta (simula un fallo dentro de la tx).
func (s *Store) InjectAlertCreateError(err error) {
	s.faultMu.Lock()
	s.alertCreateFault = err
	s.faultMu.Unlock()
}

func (s *Store) takeAlertCreateFault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err := s.alertCreateFault
	s.alertCreateFault = nil
	return err
}

// Inventory repositorio de inventario fuera de transacción.
func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{exec: s.autocommit, now: s.now} }

// Alerts repositorio de alertas fuera de transacción.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{exec: s.autocommit, store: s} }

// Stations repositorio de estaciones.
func (s *Store) Stations() *StationRepo { return &StationRepo{exec: s.autocommit} }

// Items repositorio del catálogo de EPP.
func (s *Store) Items() *PPEItemRepo { return &PPEItemRepo{exec: s.autocommit} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{exec: s.autocommit} }

// Audit repositorio de auditoría.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{exec: s.autocommit} }

// AddStation registra una estación (seed).
func (s *Store) AddStation(st entity.Station) {
	_ = s.autocommit(true, func(state *state) error {
		state.stations[st.ID] = st
		return nil
	})
}

// AddItem registra un EPP en el catálogo (seed).
func (s *Store) AddItem(it entity.PPEItem) {
	_ = s.autocommit(true, func(state *state) error {
		state.items[it.ID] = it
		return nil
	})
}

// AddUser registra un usuario (seed).
func (s *Store) AddUser(u entity.User) {
	_ = s.autocommit(true, func(state *state) error {
		state.users = append(state.users, u)
		return nil
	})
}

// PutRecord crea o reemplaza un registro de inventario (seed).
func (s *Store) PutRecord(r entity.InventoryRecord) {
	_ = s.autocommit(true, func(state *state) error {
		state.inventory[pairKey{r.StationID, r.PPEItemID}] = r
		return nil
	})
}

// AuditEntries copia de las entradas de auditoría persistidas.
func (s *Store) AuditEntries() []entity.AuditLog {
	var out []entity.AuditLog
	_ = s.autocommit(false, func(state *state) error {
		out = append(out, state.audit...)
		return nil
	})
	return out
}
