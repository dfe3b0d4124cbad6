package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/contable-pro/internal/application/auth"
	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/application/report"
)

// ReportHandler maneja el reporte de ganancias y el dashboard (protegido).
type ReportHandler struct {
	profitUC    *report.ProfitUseCase
	dashboardUC *report.DashboardUseCase
	authUC      *auth.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(profitUC *report.ProfitUseCase, dashboardUC *report.DashboardUseCase, authUC *auth.UseCase) *ReportHandler {
	return &ReportHandler{profitUC: profitUC, dashboardUC: dashboardUC, authUC: authUC}
}

// Profit godoc
// @Summary      Reporte de pérdidas y ganancias
// @Description  Rango [startDate, endDate] inclusivo, fechas YYYY-MM-DD; sin fechas cubre todo el historial. productId restringe a un producto (los gastos incidentales quedan fuera).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Fecha inicial YYYY-MM-DD"
// @Param        endDate    query  string  false  "Fecha final YYYY-MM-DD"
// @Param        productId  query  string  false  "ID de producto"
// @Success      200  {object}  dto.ProfitReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/profit [get]
func (h *ReportHandler) Profit(c *fiber.Ctx) error {
	var in dto.ProfitReportRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.profitUC.ComputeReport(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// ProfitPDF godoc
// @Summary      Reporte de ganancias en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        startDate  query  string  false  "Fecha inicial YYYY-MM-DD"
// @Param        endDate    query  string  false  "Fecha final YYYY-MM-DD"
// @Param        productId  query  string  false  "ID de producto"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit/pdf [get]
func (h *ReportHandler) ProfitPDF(c *fiber.Ctx) error {
	var in dto.ProfitReportRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	profile, err := h.authUC.GetProfile(GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	pdfBytes, err := h.profitUC.ExportPDF(c.UserContext(), GetUserID(c), profile.Name, in)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-ganancias.pdf"`)
	return c.Send(pdfBytes)
}

// Dashboard godoc
// @Summary      Resumen del día y del mes en curso
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboardUC.GetSummary(c.UserContext(), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
