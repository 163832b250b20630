package entity

import "math"

// MaxStock tope de stock, cantidades y umbrales (columnas INTEGER en PostgreSQL).
const MaxStock = math.MaxInt32

// Operaciones de mutación de stock.
const (
	OperationAdd      = "ADD"
	OperationSubtract = "SUBTRACT"
)

// StockMutation unidad de trabajo transitoria del Stock Ledger (no se persiste como entidad).
type StockMutation struct {
	StationID string
	PPEItemID string
	Quantity  int
	Operation string
	Actor     string
}

// Exceeds indica si aplicar la mutación sobre previous superaría MaxStock.
func (m StockMutation) Exceeds(previous int) bool {
	return m.Operation == OperationAdd && previous > MaxStock-m.Quantity
}

// Apply calcula el nuevo stock a partir del anterior. No valida negativos ni el tope.
func (m StockMutation) Apply(previous int) int {
	if m.Operation == OperationAdd {
		return previous + m.Quantity
	}
	return previous - m.Quantity
}
