package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var (
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
	_ repository.AlertRepository     = (*AlertRepo)(nil)
	_ repository.StationRepository   = (*StationRepo)(nil)
	_ repository.PPEItemRepository   = (*PPEItemRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.AuditRepository     = (*AuditRepo)(nil)
)

// InventoryRepo implementa repository.InventoryRepository en memoria.
// Dentro de Store.Run las variantes ForUpdate equivalen a las normales: la transacción ya es exclusiva.
type InventoryRepo struct {
	exec execFn
	now  func() time.Time
}

func (r *InventoryRepo) Get(_ context.Context, stationID, ppeItemID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.exec(false, func(st *state) error {
		if rec, ok := st.inventory[pairKey{stationID, ppeItemID}]; ok {
			out = st.decorate(rec)
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, stationID, ppeItemID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, stationID, ppeItemID)
}

func (r *InventoryRepo) ListByStation(_ context.Context, stationID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	err := r.exec(false, func(st *state) error {
		out = st.recordsOf(stationID)
		return nil
	})
	return out, err
}

func (r *InventoryRepo) ListByStationForUpdate(ctx context.Context, stationID string) ([]*entity.InventoryRecord, error) {
	return r.ListByStation(ctx, stationID)
}

func (r *InventoryRepo) ListAll(_ context.Context) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	err := r.exec(false, func(st *state) error {
		out = make([]*entity.InventoryRecord, 0, len(st.inventory))
		for _, rec := range st.inventory {
			out = append(out, st.decorate(rec))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].StationID != out[j].StationID {
			return out[i].StationID < out[j].StationID
		}
		return out[i].PPEItemID < out[j].PPEItemID
	})
	return out, err
}

func (r *InventoryRepo) UpdateStock(_ context.Context, stationID, ppeItemID string, stock int) error {
	if stock < 0 {
		return fmt.Errorf("memory inventory: stock negativo: %w", domain.ErrInsufficientStock)
	}
	return r.exec(true, func(st *state) error {
		key := pairKey{stationID, ppeItemID}
		rec, ok := st.inventory[key]
		if !ok {
			return domain.ErrNotFound
		}
		rec.CurrentStock = stock
		rec.UpdatedAt = r.now()
		st.inventory[key] = rec
		return nil
	})
}

func (r *InventoryRepo) UpdateThresholds(_ context.Context, stationID, ppeItemID string, minThreshold, criticalThreshold int) error {
	return r.exec(true, func(st *state) error {
		key := pairKey{stationID, ppeItemID}
		rec, ok := st.inventory[key]
		if !ok {
			return domain.ErrNotFound
		}
		rec.MinThreshold = minThreshold
		rec.CriticalThreshold = criticalThreshold
		rec.UpdatedAt = r.now()
		st.inventory[key] = rec
		return nil
	})
}

// CreateBatch inserta los registros que no existan (ON CONFLICT DO NOTHING).
// Un registro que viole los CHECK de station_inventory aborta el lote completo.
func (r *InventoryRepo) CreateBatch(_ context.Context, records []*entity.InventoryRecord) error {
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.CurrentStock < 0 || rec.CriticalThreshold < 0 || rec.CriticalThreshold >= rec.MinThreshold {
			return fmt.Errorf("memory inventory: registro %s/%s viola los umbrales (min %d, critical %d)",
				rec.StationID, rec.PPEItemID, rec.MinThreshold, rec.CriticalThreshold)
		}
	}
	return r.exec(true, func(st *state) error {
		for _, rec := range records {
			if rec == nil {
				continue
			}
			key := pairKey{rec.StationID, rec.PPEItemID}
			if _, exists := st.inventory[key]; exists {
				continue
			}
			st.inventory[key] = *rec
		}
		return nil
	})
}

// AlertRepo implementa repository.AlertRepository en memoria.
type AlertRepo struct {
	exec  execFn
	store *Store
}

func indexOfAlert(st *state, id string) int {
	for i := range st.alerts {
		if st.alerts[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAlert(a entity.Alert) *entity.Alert {
	if a.AcknowledgedBy != nil {
		by := *a.AcknowledgedBy
		a.AcknowledgedBy = &by
	}
	if a.AcknowledgedAt != nil {
		at := *a.AcknowledgedAt
		a.AcknowledgedAt = &at
	}
	return &a
}

func (r *AlertRepo) FindActive(_ context.Context, stationID, ppeItemID, alertType string) (*entity.Alert, error) {
	var out *entity.Alert
	err := r.exec(false, func(st *state) error {
		for _, a := range st.alerts {
			if a.StationID == stationID && a.PPEItemID == ppeItemID && a.AlertType == alertType && a.IsActive() {
				out = cloneAlert(a)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *AlertRepo) Create(_ context.Context, alert *entity.Alert) (bool, error) {
	if fault := r.store.takeAlertCreateFault(); fault != nil {
		return false, fault
	}
	created := false
	err := r.exec(true, func(st *state) error {
		if alert.IsActive() {
			for _, a := range st.alerts {
				if a.StationID == alert.StationID && a.PPEItemID == alert.PPEItemID &&
					a.AlertType == alert.AlertType && a.IsActive() {
					return nil
				}
			}
		}
		st.alerts = append(st.alerts, *cloneAlert(*alert))
		created = true
		return nil
	})
	return created, err
}

func (r *AlertRepo) ResolveActive(_ context.Context, stationID, ppeItemID, actor string, at time.Time) (int, error) {
	n := 0
	err := r.exec(true, func(st *state) error {
		for i := range st.alerts {
			a := &st.alerts[i]
			if a.StationID == stationID && a.PPEItemID == ppeItemID && a.IsActive() {
				by, when := actor, at
				a.Status = entity.AlertStatusResolved
				a.AcknowledgedBy = &by
				a.AcknowledgedAt = &when
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	var out *entity.Alert
	err := r.exec(false, func(st *state) error {
		if i := indexOfAlert(st, id); i >= 0 {
			out = cloneAlert(st.alerts[i])
		}
		return nil
	})
	return out, err
}

func (r *AlertRepo) GetForUpdate(ctx context.Context, id string) (*entity.Alert, error) {
	return r.GetByID(ctx, id)
}

func (r *AlertRepo) Acknowledge(_ context.Context, id, actor string, at time.Time) error {
	return r.exec(true, func(st *state) error {
		i := indexOfAlert(st, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		by := actor
		when := at
		st.alerts[i].Status = entity.AlertStatusAcknowledged
		st.alerts[i].AcknowledgedBy = &by
		st.alerts[i].AcknowledgedAt = &when
		return nil
	})
}

// List devuelve las alertas más recientes primero.
func (r *AlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	var out []*entity.Alert
	err := r.exec(false, func(st *state) error {
		for i := len(st.alerts) - 1; i >= 0; i-- {
			a := st.alerts[i]
			if filter.Status != "" && a.Status != filter.Status {
				continue
			}
			if filter.StationID != "" && a.StationID != filter.StationID {
				continue
			}
			out = append(out, cloneAlert(a))
		}
		return nil
	})
	// estable: a igual CreatedAt se conserva el orden inverso de inserción
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, err
}

func (r *AlertRepo) MarkSent(_ context.Context, id string) error {
	return r.exec(true, func(st *state) error {
		i := indexOfAlert(st, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		st.alerts[i].AlertSent = true
		return nil
	})
}

// StationRepo implementa repository.StationRepository en memoria.
type StationRepo struct {
	exec execFn
}

func (r *StationRepo) GetByID(_ context.Context, id string) (*entity.Station, error) {
	var out *entity.Station
	err := r.exec(false, func(st *state) error {
		if s, ok := st.stations[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StationRepo) ListActive(_ context.Context) ([]*entity.Station, error) {
	var out []*entity.Station
	err := r.exec(false, func(st *state) error {
		for _, s := range st.stations {
			if !s.Active {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// PPEItemRepo implementa repository.PPEItemRepository en memoria.
type PPEItemRepo struct {
	exec execFn
}

func (r *PPEItemRepo) GetByID(_ context.Context, id string) (*entity.PPEItem, error) {
	var out *entity.PPEItem
	err := r.exec(false, func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *PPEItemRepo) ListActive(_ context.Context) ([]*entity.PPEItem, error) {
	var out []*entity.PPEItem
	err := r.exec(false, func(st *state) error {
		for _, it := range st.items {
			if !it.Active {
				continue
			}
			it := it
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct {
	exec execFn
}

func (r *UserRepo) ListAlertRecipients(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.exec(false, func(st *state) error {
		for _, u := range st.users {
			if u.Active && u.Role == entity.RoleAdmin && u.ReceivesAlerts {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	return out, err
}

// AuditRepo implementa repository.AuditRepository en memoria.
type AuditRepo struct {
	exec execFn
}

func (r *AuditRepo) Create(_ context.Context, entry *entity.AuditLog) error {
	if entry == nil {
		return nil
	}
	return r.exec(true, func(st *state) error {
		st.audit = append(st.audit, *entry)
		return nil
	})
}
