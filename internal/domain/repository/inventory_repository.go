package repository

import (
	"context"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// InventoryRepository puerto para station_inventory (DIP).
// Las variantes ForUpdate solo tienen sentido dentro de una transacción: bloquean las filas
// hasta Commit/Rollback para serializar mutaciones del mismo par estación+EPP.
type InventoryRepository interface {
	// Get devuelve nil, nil si no existe el registro.
	Get(ctx context.Context, stationID, ppeItemID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, stationID, ppeItemID string) (*entity.InventoryRecord, error)
	ListByStation(ctx context.Context, stationID string) ([]*entity.InventoryRecord, error)
	// ListByStationForUpdate bloquea todas las filas de la estación en orden estable (ppe_item_id).
	ListByStationForUpdate(ctx context.Context, stationID string) ([]*entity.InventoryRecord, error)
	ListAll(ctx context.Context) ([]*entity.InventoryRecord, error)
	UpdateStock(ctx context.Context, stationID, ppeItemID string, stock int) error
	UpdateThresholds(ctx context.Context, stationID, ppeItemID string, minThreshold, criticalThreshold int) error
	CreateBatch(ctx context.Context, records []*entity.InventoryRecord) error
}
