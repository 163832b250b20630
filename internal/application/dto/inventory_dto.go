package dto

import "time"

// StockUpdateRequest body para POST /api/inventory/stock/update.
type StockUpdateRequest struct {
	StationID string `json:"stationId" validate:"required,uuid"`
	PPEItemID string `json:"ppeItemId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=2147483647"`
	Operation string `json:"operation" validate:"required,oneof=ADD SUBTRACT"`
}

// ThresholdUpdateRequest body para POST /api/inventory/thresholds/update.
// critical < min se valida en el caso de uso (ltfield sobre enteros también lo cubre aquí).
type ThresholdUpdateRequest struct {
	StationID         string `json:"stationId" validate:"required,uuid"`
	PPEItemID         string `json:"ppeItemId" validate:"required,uuid"`
	MinThreshold      int    `json:"minThreshold" validate:"gte=0,lte=2147483647"`
	CriticalThreshold int    `json:"criticalThreshold" validate:"gte=0,ltfield=MinThreshold"`
}

// BulkRestockRequest body para POST /api/inventory/bulk-restock.
type BulkRestockRequest struct {
	StationID string `json:"stationId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=2147483647"`
}

// BulkRestockAllRequest body para POST /api/inventory/bulk-restock-all.
type BulkRestockAllRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=2147483647"`
}

// AlertResponse alerta de inventario.
type AlertResponse struct {
	ID                     string     `json:"id"`
	StationID              string     `json:"stationId"`
	PPEItemID              string     `json:"ppeItemId"`
	AlertType              string     `json:"alertType"`
	Severity               string     `json:"severity"`
	ThresholdValue         int        `json:"thresholdValue"`
	CurrentStockAtCreation int        `json:"currentStock"`
	Status                 string     `json:"status"`
	AlertSent              bool       `json:"alertSent"`
	AcknowledgedBy         *string    `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt         *time.Time `json:"acknowledgedAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// AlertListResponse listado de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

// AlertSummary resumen de alertas producido por una mutación.
type AlertSummary struct {
	Created  []AlertResponse `json:"created"`
	Resolved int             `json:"resolved"`
}

// StockUpdateResponse respuesta de POST stock/update.
type StockUpdateResponse struct {
	StationID     string       `json:"stationId"`
	PPEItemID     string       `json:"ppeItemId"`
	PreviousStock int          `json:"previousStock"`
	NewStock      int          `json:"newStock"`
	Status        string       `json:"status"`
	Alerts        AlertSummary `json:"alerts"`
}

// InventoryRecordResponse registro de inventario con estado.
type InventoryRecordResponse struct {
	StationID         string    `json:"stationId"`
	PPEItemID         string    `json:"ppeItemId"`
	ItemName          string    `json:"itemName,omitempty"`
	ItemCategory      string    `json:"itemCategory,omitempty"`
	CurrentStock      int       `json:"currentStock"`
	MinThreshold      int       `json:"minThreshold"`
	CriticalThreshold int       `json:"criticalThreshold"`
	MaxCapacity       int       `json:"maxCapacity"`
	Status            string    `json:"status,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// StationSummaryResponse resumen de estación.
type StationSummaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	TotalItems    int    `json:"totalItems"`
	LowItems      int    `json:"lowItems"`
	CriticalItems int    `json:"criticalItems"`
}

// StationInventoryResponse inventario de una estación.
type StationInventoryResponse struct {
	ID       string                    `json:"id"`
	Name     string                    `json:"name"`
	Location string                    `json:"location"`
	Items    []InventoryRecordResponse `json:"items"`
}

// RestockedItemResponse EPP reabastecido.
type RestockedItemResponse struct {
	PPEItemID     string `json:"ppeItemId"`
	ItemName      string `json:"itemName"`
	PreviousStock int    `json:"previousStock"`
	NewStock      int    `json:"newStock"`
	Status        string `json:"status"`
}

// BulkRestockResponse respuesta de POST bulk-restock.
type BulkRestockResponse struct {
	StationID       string                  `json:"stationId"`
	UpdatedItems    []RestockedItemResponse `json:"updatedItems"`
	AutoInitialized bool                    `json:"autoInitialized"`
	Alerts          AlertSummary            `json:"alerts"`
	Message         string                  `json:"message"`
}

// StationRestockDetailResponse detalle por estación de bulk-restock-all.
type StationRestockDetailResponse struct {
	StationID       string `json:"stationId"`
	StationName     string `json:"stationName"`
	Success         bool   `json:"success"`
	UpdatedItems    int    `json:"updated_items"`
	AutoInitialized bool   `json:"autoInitialized"`
	Error           string `json:"error,omitempty"`
}

// BulkRestockAllResponse reporte agregado de POST bulk-restock-all.
type BulkRestockAllResponse struct {
	SuccessfulStations  int                            `json:"successfulStations"`
	FailedStations      int                            `json:"failedStations"`
	TotalItemsRestocked int                            `json:"totalItemsRestocked"`
	Details             []StationRestockDetailResponse `json:"details"`
}
