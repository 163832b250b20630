package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ppe-stock-api/internal/application/report"
)

// ReportHandler descarga del reporte de inventario.
type ReportHandler struct {
	builder *report.Builder
	pdf     report.Renderer
	xlsx    report.Renderer
	log     zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(builder *report.Builder, pdf, xlsx report.Renderer, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{builder: builder, pdf: pdf, xlsx: xlsx, log: log}
}

// DownloadPDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory.pdf [get]
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	return h.download(c, h.pdf)
}

// DownloadXLSX godoc
// @Summary      Reporte de inventario en XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory.xlsx [get]
func (h *ReportHandler) DownloadXLSX(c *fiber.Ctx) error {
	return h.download(c, h.xlsx)
}

func (h *ReportHandler) download(c *fiber.Ctx, r report.Renderer) error {
	rep, err := h.builder.Build(c.UserContext())
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	f, err := r.Render(rep)
	if err != nil {
		return errorResponse(c, h.log, err)
	}
	c.Attachment(f.Filename)
	c.Set(fiber.HeaderContentType, f.ContentType)
	return c.Send(f.Data)
}
