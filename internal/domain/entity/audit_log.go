package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditadas.
const (
	AuditActionStockUpdate      = "STOCK_UPDATE"
	AuditActionThresholdUpdate  = "THRESHOLD_UPDATE"
	AuditActionAlertAcknowledge = "ALERT_ACKNOWLEDGE"
	AuditActionBulkRestock      = "BULK_RESTOCK"
)

// Tipos de recurso auditados.
const (
	ResourceInventory = "station_inventory"
	ResourceAlert     = "inventory_alert"
	ResourceStation   = "station"
)

// AuditLog entrada de auditoría (valores previos/nuevos como JSON libre).
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	OldValues    json.RawMessage
	NewValues    json.RawMessage
	Metadata     json.RawMessage
	CreatedAt    time.Time
}
