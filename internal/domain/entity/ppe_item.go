package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PPEItem representa un tipo de equipo de protección personal (guantes, gafas, etc.).
// Los valores Default* se usan al auto-inicializar el inventario de una estación vacía.
type PPEItem struct {
	ID                  string
	Name                string
	Category            string
	DefaultMinThreshold int
	DefaultMaxCapacity  int
	UnitCost            decimal.Decimal
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasValidDefaults indica si los umbrales por defecto cumplen critical < min (exige min >= 1).
func (p *PPEItem) HasValidDefaults() bool {
	return p.DefaultMinThreshold >= 1 && p.DefaultMinThreshold <= MaxStock && p.DefaultMaxCapacity >= 0
}

// DefaultCriticalThreshold umbral crítico derivado: floor(min/2).
func (p *PPEItem) DefaultCriticalThreshold() int {
	return p.DefaultMinThreshold / 2
}
