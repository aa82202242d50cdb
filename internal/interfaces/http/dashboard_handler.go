package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/usecase"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// DashboardHandler agrega vistas de inventario, ventas y alertas.
type DashboardHandler struct {
	uc    *usecase.DashboardUseCase
	query *audit.Query
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase, query *audit.Query) *DashboardHandler {
	return &DashboardHandler{uc: uc, query: query}
}

// Overview godoc
// @Summary      Resumen general (inventario, ventas de hoy y del mes, alertas)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardOverviewResponse
// @Router       /api/v1/dashboard/overview [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SalesAnalytics godoc
// @Summary      Analítica de ventas (serie diaria, top items, métodos de pago)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Fecha inicial (RFC3339, default: hace 30 días)"
// @Param        end_date    query  string  false  "Fecha final (RFC3339, default: ahora)"
// @Param        top_limit   query  int     false  "Top items"  default(5)
// @Success      200  {object}  dto.SalesAnalyticsResponse
// @Router       /api/v1/dashboard/sales [get]
func (h *DashboardHandler) SalesAnalytics(c *fiber.Ctx) error {
	start, end := dateRange(c)
	topLimit := c.QueryInt("top_limit", 5)
	if topLimit <= 0 || topLimit > 50 {
		topLimit = 5
	}
	out, err := h.uc.SalesAnalytics(start, end, topLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// InventoryAnalytics godoc
// @Summary      Analítica de inventario (totales, valor por categoría, stock bajo)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryAnalyticsResponse
// @Router       /api/v1/dashboard/inventory [get]
func (h *DashboardHandler) InventoryAnalytics(c *fiber.Ctx) error {
	out, err := h.uc.InventoryAnalytics()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RecentActivity godoc
// @Summary      Actividad reciente (últimas entradas del log de auditoría)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200  {object}  dto.AuditLogListResponse
// @Router       /api/v1/dashboard/activity [get]
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	out, err := h.query.List(repository.AuditFilter{}, limit, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
