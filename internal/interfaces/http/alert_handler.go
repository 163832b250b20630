package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/dto"
	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/domain/repository"
)

// AlertHandler listado y reconocimiento de alertas de inventario.
type AlertHandler struct {
	alerts *inventory.AlertManager
	log    zerolog.Logger
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts *inventory.AlertManager, log zerolog.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, log: log}
}

// List godoc
// @Summary      Listar alertas (más recientes primero)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit       query  int     false  "Máximo de resultados (50 por defecto, tope 500)"
// @Param        status      query  string  false  "ACTIVE | ACKNOWLEDGED | RESOLVED"
// @Param        station_id  query  string  false  "Filtrar por estación"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit == 0 {
		limit = inventory.DefaultAlertLimit
	}
	if limit > inventory.MaxAlertLimit {
		limit = inventory.MaxAlertLimit
	}
	if stationID := c.Query("station_id"); stationID != "" {
		if ok, err := validUUID(c, "station_id", stationID); !ok {
			return err
		}
	}
	list, err := h.alerts.ListAlerts(c.UserContext(), repository.AlertFilter{
		Status:    c.Query("status"),
		StationID: c.Query("station_id"),
		Limit:     limit,
	})
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, inventory.ToAlertResponse(a))
	}
	return c.JSON(dto.AlertListResponse{Items: items, Total: len(items), Limit: limit})
}

// Acknowledge godoc
// @Summary      Reconocer una alerta
// @Description  ACTIVE pasa a ACKNOWLEDGED; repetir es idempotente; una alerta RESOLVED responde 409.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	if ok, err := validUUID(c, "id", c.Params("id")); !ok {
		return err
	}
	alert, err := h.alerts.AcknowledgeAlert(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	return c.JSON(inventory.ToAlertResponse(alert))
}
