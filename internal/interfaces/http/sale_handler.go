package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/sales"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc       *sales.SaleUseCase
	recorder *audit.Recorder
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, recorder *audit.Recorder) *SaleHandler {
	return &SaleHandler{uc: uc, recorder: recorder}
}

// Create godoc
// @Summary      Registrar una venta
// @Description  Valida stock de todas las líneas antes de persistir y luego descuenta inventario.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Create(c.Context(), in, GetUserID(c), c.IP(), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionSaleCreate,
		Resource:    "sale",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "venta registrada: " + out.SaleNumber,
		After:       out,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener venta por número
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de venta (SALE-YYMMDD-NNNN)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/number/{number} [get]
func (h *SaleHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByNumber(c.Params("number"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status          query  string  false  "Estado de la venta"
// @Param        payment_status  query  string  false  "Estado del pago"
// @Param        sold_by         query  string  false  "ID del vendedor"
// @Param        start_date      query  string  false  "Fecha inicial (RFC3339)"
// @Param        end_date        query  string  false  "Fecha final (RFC3339)"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/v1/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		SoldBy:        c.Query("sold_by"),
	}
	if t, ok := parseTimeQuery(c, "start_date"); ok {
		filter.StartDate = &t
	}
	if t, ok := parseTimeQuery(c, "end_date"); ok {
		filter.EndDate = &t
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(filter, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar una venta completada
// @Description  Restaura el stock de cada línea y marca el pago como reembolsado.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  true  "Motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Cancel(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrSaleNotCancellable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_CANCELLABLE", Message: "solo las ventas completadas pueden cancelarse"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionSaleCancel,
		Resource:    "sale",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "venta cancelada: " + out.SaleNumber + " (" + in.Reason + ")",
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
		Severity:    entity.AuditSeverityMedium,
	})
	return c.JSON(out)
}

// MonthlyReport godoc
// @Summary      Reporte mensual de ventas en un rango
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Fecha inicial (RFC3339, default: hace 30 días)"
// @Param        end_date    query  string  false  "Fecha final (RFC3339, default: ahora)"
// @Success      200  {array}  dto.MonthlySalesDTO
// @Router       /api/v1/sales/monthly [get]
func (h *SaleHandler) MonthlyReport(c *fiber.Ctx) error {
	start, end := dateRange(c)
	out, err := h.uc.MonthlyReport(start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar un abono sobre una venta con saldo pendiente
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "ID de la venta"
// @Param        payload  body  dto.RecordPaymentRequest  true  "Monto del abono"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id}/payment [post]
func (h *SaleHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.RecordPayment(c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "el monto del abono debe ser positivo"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PAYABLE", Message: "la venta no admite abonos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionSalePayment,
		Resource:    "sale",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "abono registrado en la venta " + out.SaleNumber,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de ventas en un rango
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Fecha inicial (RFC3339, default: hace 30 días)"
// @Param        end_date    query  string  false  "Fecha final (RFC3339, default: ahora)"
// @Success      200  {object}  dto.SalesStatsResponse
// @Router       /api/v1/sales/stats [get]
func (h *SaleHandler) Stats(c *fiber.Ctx) error {
	start, end := dateRange(c)
	out, err := h.uc.Stats(start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TopSelling godoc
// @Summary      Items más vendidos en un rango
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Fecha inicial (RFC3339)"
// @Param        end_date    query  string  false  "Fecha final (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(10)
// @Success      200  {array}  dto.TopItemDTO
// @Router       /api/v1/sales/top [get]
func (h *SaleHandler) TopSelling(c *fiber.Ctx) error {
	start, end := dateRange(c)
	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	out, err := h.uc.TopSellingItems(start, end, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// DailyReport godoc
// @Summary      Reporte diario de ventas en un rango
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Fecha inicial (RFC3339)"
// @Param        end_date    query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.DailySalesDTO
// @Router       /api/v1/sales/daily [get]
func (h *SaleHandler) DailyReport(c *fiber.Ctx) error {
	start, end := dateRange(c)
	out, err := h.uc.DailyReport(start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar el recibo PDF de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, err := h.uc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="recibo.pdf"`)
	return c.Send(pdf)
}

// parseTimeQuery intenta RFC3339 y luego fecha simple (2006-01-02).
func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// dateRange resuelve el rango de consulta; default últimos 30 días.
func dateRange(c *fiber.Ctx) (time.Time, time.Time) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if t, ok := parseTimeQuery(c, "start_date"); ok {
		start = t
	}
	if t, ok := parseTimeQuery(c, "end_date"); ok {
		end = t
	}
	return start, end
}
