package entity

import "time"

// InventoryRecord stock actual de un EPP en una estación (único por StationID+PPEItemID).
// Solo el Stock Ledger y el Bulk Operator modifican CurrentStock.
type InventoryRecord struct {
	StationID         string
	PPEItemID         string
	CurrentStock      int
	MinThreshold      int
	CriticalThreshold int // siempre < MinThreshold
	MaxCapacity       int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Campos de solo lectura (JOIN con stations y ppe_items) para notificaciones y reportes.
	StationName     string
	StationLocation string
	ItemName        string
	ItemCategory    string
}

// NewInventoryRecordFromItem construye el registro inicial (stock 0) con los umbrales por defecto del EPP.
func NewInventoryRecordFromItem(station *Station, item *PPEItem, now time.Time) *InventoryRecord {
	return &InventoryRecord{
		StationID:         station.ID,
		PPEItemID:         item.ID,
		CurrentStock:      0,
		MinThreshold:      item.DefaultMinThreshold,
		CriticalThreshold: item.DefaultCriticalThreshold(),
		MaxCapacity:       item.DefaultMaxCapacity,
		CreatedAt:         now,
		UpdatedAt:         now,
		StationName:       station.Name,
		StationLocation:   station.Location,
		ItemName:          item.Name,
		ItemCategory:      item.Category,
	}
}
