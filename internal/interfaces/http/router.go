package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/application/report"
	"github.com/jhoicas/ppe-stock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.StockLedger
	Alerts        *inventory.AlertManager
	Bulk          *inventory.BulkOperator
	Queries       *inventory.QueryService
	ReportBuilder *report.Builder
	PDFRenderer   report.Renderer
	XLSXRenderer  report.Renderer
	JWTSecret     string
	ServiceName   string
	SchemaVersion uint
	DB            Pinger
	Metrics       http.Handler
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.ServiceName, deps.SchemaVersion, deps.DB))
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	invHandler := NewInventoryHandler(deps.Ledger, deps.Alerts, deps.Bulk, deps.Queries, deps.Log)
	alertHandler := NewAlertHandler(deps.Alerts, deps.Log)

	inv := api.Group("/inventory")
	inv.Get("/stations", invHandler.ListStations)
	inv.Get("/stations/:id", invHandler.GetStation)
	inv.Get("/alerts", alertHandler.List)
	inv.Post("/alerts/:id/acknowledge", adminOnly, alertHandler.Acknowledge)
	inv.Post("/stock/update", adminOnly, invHandler.UpdateStock)
	inv.Post("/thresholds/update", adminOnly, invHandler.UpdateThresholds)
	inv.Post("/bulk-restock", adminOnly, invHandler.BulkRestock)
	inv.Post("/bulk-restock-all", adminOnly, invHandler.BulkRestockAll)

	if deps.ReportBuilder != nil {
		reportHandler := NewReportHandler(deps.ReportBuilder, deps.PDFRenderer, deps.XLSXRenderer, deps.Log)
		reports := api.Group("/reports", adminOnly)
		reports.Get("/inventory.pdf", reportHandler.DownloadPDF)
		reports.Get("/inventory.xlsx", reportHandler.DownloadXLSX)
	}
}
