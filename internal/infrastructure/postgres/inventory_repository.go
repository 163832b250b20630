package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventorySelect = `
		SELECT si.station_id, si.ppe_item_id, si.current_stock, si.min_threshold, si.critical_threshold,
		       si.max_capacity, si.created_at, si.updated_at,
		       s.name, s.location, p.name, p.category
		FROM station_inventory si
		JOIN stations s ON s.id = si.station_id
		JOIN ppe_items p ON p.id = si.ppe_item_id`

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var r entity.InventoryRecord
	err := row.Scan(
		&r.StationID, &r.PPEItemID, &r.CurrentStock, &r.MinThreshold, &r.CriticalThreshold,
		&r.MaxCapacity, &r.CreatedAt, &r.UpdatedAt,
		&r.StationName, &r.StationLocation, &r.ItemName, &r.ItemCategory,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *InventoryRepo) getOne(ctx context.Context, query, stationID, ppeItemID string) (*entity.InventoryRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, query, stationID, ppeItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Get obtiene el registro del par sin bloqueo.
func (r *InventoryRepo) Get(ctx context.Context, stationID, ppeItemID string) (*entity.InventoryRecord, error) {
	rec, err := r.getOne(ctx, inventorySelect+`
		WHERE si.station_id = $1 AND si.ppe_item_id = $2`, stationID, ppeItemID)
	if err != nil {
		return nil, queryError("get inventory", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila de inventario (no las de estación/EPP).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, stationID, ppeItemID string) (*entity.InventoryRecord, error) {
	rec, err := r.getOne(ctx, inventorySelect+`
		WHERE si.station_id = $1 AND si.ppe_item_id = $2
		FOR UPDATE OF si`, stationID, ppeItemID)
	if err != nil {
		return nil, queryError("get inventory for update", err)
	}
	return rec, nil
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, queryError("scan inventory", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *InventoryRepo) ListByStation(ctx context.Context, stationID string) ([]*entity.InventoryRecord, error) {
	list, err := r.list(ctx, inventorySelect+`
		WHERE si.station_id = $1
		ORDER BY si.ppe_item_id`, stationID)
	if err != nil {
		return nil, queryError("list inventory by station", err)
	}
	return list, nil
}

// ListByStationForUpdate bloquea las filas en orden de ppe_item_id para evitar deadlocks
// con otras transacciones que bloqueen varias filas de la misma estación.
func (r *InventoryRepo) ListByStationForUpdate(ctx context.Context, stationID string) ([]*entity.InventoryRecord, error) {
	list, err := r.list(ctx, inventorySelect+`
		WHERE si.station_id = $1
		ORDER BY si.ppe_item_id
		FOR UPDATE OF si`, stationID)
	if err != nil {
		return nil, queryError("list inventory by station for update", err)
	}
	return list, nil
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]*entity.InventoryRecord, error) {
	list, err := r.list(ctx, inventorySelect+`
		ORDER BY si.station_id, si.ppe_item_id`)
	if err != nil {
		return nil, queryError("list inventory", err)
	}
	return list, nil
}

func (r *InventoryRepo) UpdateStock(ctx context.Context, stationID, ppeItemID string, stock int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE station_inventory SET current_stock = $3, updated_at = now()
		WHERE station_id = $1 AND ppe_item_id = $2`, stationID, ppeItemID, stock)
	if err != nil {
		return queryError("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *InventoryRepo) UpdateThresholds(ctx context.Context, stationID, ppeItemID string, minThreshold, criticalThreshold int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE station_inventory SET min_threshold = $3, critical_threshold = $4, updated_at = now()
		WHERE station_id = $1 AND ppe_item_id = $2`, stationID, ppeItemID, minThreshold, criticalThreshold)
	if err != nil {
		return queryError("update thresholds", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update thresholds: %w", domain.ErrNotFound)
	}
	return nil
}

// CreateBatch inserta los registros en un solo round-trip; los pares existentes se ignoran.
func (r *InventoryRepo) CreateBatch(ctx context.Context, records []*entity.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO station_inventory
				(station_id, ppe_item_id, current_stock, min_threshold, critical_threshold, max_capacity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (station_id, ppe_item_id) DO NOTHING`,
			rec.StationID, rec.PPEItemID, rec.CurrentStock, rec.MinThreshold, rec.CriticalThreshold,
			rec.MaxCapacity, rec.CreatedAt, rec.UpdatedAt,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return queryError("create inventory batch", err)
		}
	}
	return nil
}
