package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/analytics"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// DashboardHandler resumen del club y reportes de cobranza.
type DashboardHandler struct {
	base
	dashboard *analytics.DashboardUseCase
	reports   *analytics.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(log *logger.Logger, dashboard *analytics.DashboardUseCase, reports *analytics.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{base: base{log: log}, dashboard: dashboard, reports: reports}
}

// GetSummary GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Collections GET /api/reports/collections?date_from=&date_to=&plan_name=
func (h *DashboardHandler) Collections(c *fiber.Ctx) error {
	var in dto.CollectionsReportRequest
	if err := parseQuery(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.reports.Collections(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
