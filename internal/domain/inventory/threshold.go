package inventory

import "github.com/jhoicas/ppe-stock-api/internal/domain/entity"

// Status estado de stock derivado de los umbrales.
type Status string

const (
	StatusGood     Status = "GOOD"
	StatusLow      Status = "LOW"
	StatusCritical Status = "CRITICAL"
)

// Evaluate clasifica el stock actual (servicio de dominio, sin efectos secundarios).
// CRITICAL tiene prioridad sobre LOW y LOW sobre GOOD.
// Se asume criticalThreshold < minThreshold; si no se cumple el resultado no está definido pero nunca falla.
func Evaluate(currentStock, minThreshold, criticalThreshold int) Status {
	switch {
	case currentStock <= criticalThreshold:
		return StatusCritical
	case currentStock <= minThreshold:
		return StatusLow
	default:
		return StatusGood
	}
}

// EvaluateRecord atajo sobre un InventoryRecord con un stock dado.
func EvaluateRecord(record *entity.InventoryRecord, stock int) Status {
	return Evaluate(stock, record.MinThreshold, record.CriticalThreshold)
}

// AlertSpec tipo de alerta, severidad y umbral cruzado para un estado no-GOOD.
type AlertSpec struct {
	AlertType      string
	Severity       string
	ThresholdValue int
}

// AlertFor traduce el estado a la alerta correspondiente. ok=false para GOOD.
func AlertFor(status Status, record *entity.InventoryRecord) (AlertSpec, bool) {
	switch status {
	case StatusCritical:
		return AlertSpec{
			AlertType:      entity.AlertTypeCriticalLow,
			Severity:       entity.SeverityCritical,
			ThresholdValue: record.CriticalThreshold,
		}, true
	case StatusLow:
		return AlertSpec{
			AlertType:      entity.AlertTypeLowStock,
			Severity:       entity.SeverityWarning,
			ThresholdValue: record.MinThreshold,
		}, true
	default:
		return AlertSpec{}, false
	}
}

// ValidateThresholds verifica el invariante critical < min y valores no negativos.
func ValidateThresholds(minThreshold, criticalThreshold int) bool {
	return criticalThreshold >= 0 && criticalThreshold < minThreshold && minThreshold <= entity.MaxStock
}
