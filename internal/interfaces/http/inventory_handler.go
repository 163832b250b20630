package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/dto"
	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
)

// InventoryHandler maneja consultas y mutaciones de stock por estación (protegido).
type InventoryHandler struct {
	ledger  *inventory.StockLedger
	alerts  *inventory.AlertManager
	bulk    *inventory.BulkOperator
	queries *inventory.QueryService
	log     zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	alerts *inventory.AlertManager,
	bulk *inventory.BulkOperator,
	queries *inventory.QueryService,
	log zerolog.Logger,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, alerts: alerts, bulk: bulk, queries: queries, log: log}
}

// ListStations godoc
// @Summary      Listar estaciones con conteo de EPP en nivel bajo y crítico
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StationSummaryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/stations [get]
func (h *InventoryHandler) ListStations(c *fiber.Ctx) error {
	list, err := h.queries.ListStations(c.UserContext())
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	out := make([]dto.StationSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StationSummaryResponse{
			ID:            s.Station.ID,
			Name:          s.Station.Name,
			Location:      s.Station.Location,
			TotalItems:    s.TotalItems,
			LowItems:      s.LowItems,
			CriticalItems: s.CriticalItems,
		})
	}
	return c.JSON(out)
}

// GetStation godoc
// @Summary      Inventario de una estación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la estación"
// @Success      200  {object}  dto.StationInventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stations/{id} [get]
func (h *InventoryHandler) GetStation(c *fiber.Ctx) error {
	if ok, err := validUUID(c, "id", c.Params("id")); !ok {
		return err
	}
	view, err := h.queries.StationInventory(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	items := make([]dto.InventoryRecordResponse, 0, len(view.Items))
	for _, it := range view.Items {
		items = append(items, inventory.ToInventoryRecordResponse(it.Record, string(it.Status)))
	}
	return c.JSON(dto.StationInventoryResponse{
		ID:       view.Station.ID,
		Name:     view.Station.Name,
		Location: view.Station.Location,
		Items:    items,
	})
}

// UpdateStock godoc
// @Summary      Sumar o restar stock de un EPP en una estación
// @Description  Evalúa umbrales en la misma transacción: crea alertas LOW/CRITICAL o resuelve las activas.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockUpdateRequest  true  "stationId, ppeItemId, quantity > 0, operation ADD|SUBTRACT"
// @Success      200   {object}  dto.StockUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/update [post]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.StockUpdateRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.ledger.ApplyMutationFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateThresholds godoc
// @Summary      Actualizar umbrales mínimo y crítico
// @Description  No re-evalúa alertas; el nuevo umbral aplica desde la siguiente mutación.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ThresholdUpdateRequest  true  "criticalThreshold < minThreshold"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/thresholds/update [post]
func (h *InventoryHandler) UpdateThresholds(c *fiber.Ctx) error {
	var in dto.ThresholdUpdateRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.alerts.UpdateThresholdsFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	return c.JSON(out)
}

// BulkRestock godoc
// @Summary      Reabastecer todos los EPP de una estación a una cantidad absoluta
// @Description  Si la estación no tiene inventario se inicializa con el catálogo activo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BulkRestockRequest  true  "stationId, quantity >= 0"
// @Success      200   {object}  dto.BulkRestockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk-restock [post]
func (h *InventoryHandler) BulkRestock(c *fiber.Ctx) error {
	var in dto.BulkRestockRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.bulk.BulkRestockFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	return c.JSON(out)
}

// BulkRestockAll godoc
// @Summary      Reabastecer todas las estaciones activas
// @Description  Cada estación en su propia transacción; el reporte agrega éxitos y fallos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BulkRestockAllRequest  true  "quantity >= 0"
// @Success      200   {object}  dto.BulkRestockAllResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk-restock-all [post]
func (h *InventoryHandler) BulkRestockAll(c *fiber.Ctx) error {
	var in dto.BulkRestockAllRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.bulk.BulkRestockAllFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	return c.JSON(out)
}
