// Package notification entrega las alertas de stock a los administradores.
//
// Flujo: AlertManager (tras el Commit) → Service.NotifyAlertCreated → Dispatcher (cola Redis
// o log) → worker → Processor → correo a cada destinatario del Roster → MarkSent.
package notification

import (
	"time"

	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// JobTypeStockAlert tipo del sobre en la cola.
const JobTypeStockAlert = "stock_alert"

// AlertEvent datos de una alerta recién creada, con nombres legibles para el correo.
type AlertEvent struct {
	AlertID         string    `json:"alert_id"`
	StationID       string    `json:"station_id"`
	StationName     string    `json:"station_name"`
	StationLocation string    `json:"station_location"`
	PPEItemID       string    `json:"ppe_item_id"`
	ItemName        string    `json:"item_name"`
	ItemCategory    string    `json:"item_category"`
	CurrentStock    int       `json:"current_stock"`
	ThresholdValue  int       `json:"threshold_value"`
	AlertType       string    `json:"alert_type"`
	Severity        string    `json:"severity"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewAlertEvent arma el evento a partir del registro (con campos de JOIN) y la alerta.
func NewAlertEvent(record *entity.InventoryRecord, alert *entity.Alert) AlertEvent {
	ev := AlertEvent{
		AlertID:        alert.ID,
		StationID:      alert.StationID,
		PPEItemID:      alert.PPEItemID,
		CurrentStock:   alert.CurrentStockAtCreation,
		ThresholdValue: alert.ThresholdValue,
		AlertType:      alert.AlertType,
		Severity:       alert.Severity,
		CreatedAt:      alert.CreatedAt,
	}
	if record != nil {
		ev.StationName = record.StationName
		ev.StationLocation = record.StationLocation
		ev.ItemName = record.ItemName
		ev.ItemCategory = record.ItemCategory
	}
	if ev.StationName == "" {
		ev.StationName = ev.StationID
	}
	if ev.ItemName == "" {
		ev.ItemName = ev.PPEItemID
	}
	return ev
}

// IsCritical indica si el evento es de severidad crítica.
func (e AlertEvent) IsCritical() bool {
	return e.Severity == entity.SeverityCritical
}
