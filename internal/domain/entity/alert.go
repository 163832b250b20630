package entity

import "time"

// Tipos de alerta de inventario.
const (
	AlertTypeLowStock    = "LOW_STOCK"
	AlertTypeCriticalLow = "CRITICAL_LOW"
)

// Severidades.
const (
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Estados del ciclo de vida de una alerta. Las alertas nunca se eliminan.
const (
	AlertStatusActive       = "ACTIVE"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusResolved     = "RESOLVED"
)

// SystemActor identifica transiciones automáticas sin usuario (resolución por recuperación de stock).
const SystemActor = "system"

// Alert registro persistido de un cruce de umbral.
// CurrentStockAtCreation es una foto al momento de crearse; no se sincroniza con bajadas posteriores.
type Alert struct {
	ID                     string
	StationID              string
	PPEItemID              string
	AlertType              string
	Severity               string
	ThresholdValue         int
	CurrentStockAtCreation int
	Status                 string
	AlertSent              bool
	AcknowledgedBy         *string
	AcknowledgedAt         *time.Time
	CreatedAt              time.Time
}

// IsActive indica si la alerta sigue abierta sin reconocer.
func (a *Alert) IsActive() bool {
	return a.Status == AlertStatusActive
}
