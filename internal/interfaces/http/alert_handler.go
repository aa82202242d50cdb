package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/usecase"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// AlertHandler maneja las peticiones HTTP de alertas.
type AlertHandler struct {
	uc       *usecase.AlertUseCase
	recorder *audit.Recorder
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *usecase.AlertUseCase, recorder *audit.Recorder) *AlertHandler {
	return &AlertHandler{uc: uc, recorder: recorder}
}

// Create godoc
// @Summary      Crear alerta manual
// @Description  Las alertas de stock se generan automáticamente; este endpoint es para alertas de sistema, acción de usuario o seguridad.
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAlertRequest  true  "Datos de la alerta"
// @Success      201   {object}  dto.AlertResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/alerts [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAlertRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ALERT", Message: "ya existe una alerta abierta de ese tipo para el item"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener alerta por ID
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar alertas vigentes
// @Description  Las alertas expiradas se excluyen del listado.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        type      query  string  false  "Tipo de alerta"
// @Param        severity  query  string  false  "Severidad"
// @Param        read      query  bool    false  "Filtrar por leída"
// @Param        resolved  query  bool    false  "Filtrar por resuelta"
// @Param        item_id   query  string  false  "ID del item"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/v1/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	filter := repository.AlertFilter{
		Type:     c.Query("type"),
		Severity: c.Query("severity"),
		ItemID:   c.Query("item_id"),
	}
	if raw := c.Query("read"); raw != "" {
		v := raw == "true"
		filter.IsRead = &v
	}
	if raw := c.Query("resolved"); raw != "" {
		v := raw == "true"
		filter.IsResolved = &v
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

// MarkRead godoc
// @Summary      Marcar una alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkRead(c.Params("id"), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// MarkReadBatch godoc
// @Summary      Marcar varias alertas como leídas
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkReadRequest  true  "IDs de alertas"
// @Success      200   {object}  map[string]int
// @Router       /api/v1/alerts/read [post]
func (h *AlertHandler) MarkReadBatch(c *fiber.Ctx) error {
	var in dto.MarkReadRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	marked := 0
	for _, id := range in.IDs {
		if _, err := h.uc.MarkRead(id, GetUserID(c)); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		marked++
	}
	return c.JSON(fiber.Map{"marked": marked})
}

// MarkAllRead godoc
// @Summary      Marcar todas las alertas vigentes como leídas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /api/v1/alerts/read-all [post]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	count, err := h.uc.MarkAllRead(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"marked": count})
}

// Resolve godoc
// @Summary      Resolver una alerta manualmente
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la alerta"
// @Param        body  body  dto.ResolveAlertRequest  true  "Notas de resolución"
// @Success      200   {object}  dto.AlertResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveAlertRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Resolve(c.Params("id"), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		if errors.Is(err, domain.ErrAlertResolved) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_RESOLVED", Message: "la alerta ya fue resuelta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionAlertResolve,
		Resource:    "alert",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "alerta resuelta: " + out.Title,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar una alerta (admin)
// @Tags         alerts
// @Security     Bearer
// @Param        id  path  string  true  "ID de la alerta"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionAlertDelete,
		Resource:    "alert",
		ResourceID:  id,
		Actor:       GetUserID(c),
		Description: "alerta eliminada",
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
		Severity:    entity.AuditSeverityMedium,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// Cleanup godoc
// @Summary      Borrar alertas resueltas antiguas (admin)
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CleanupRequest  false  "Antigüedad mínima en días (default 30)"
// @Success      200   {object}  map[string]int64
// @Router       /api/v1/alerts/cleanup [post]
func (h *AlertHandler) Cleanup(c *fiber.Ctx) error {
	var in dto.CleanupRequest
	if len(c.Body()) > 0 {
		if resp := parseBody(c, &in); resp != nil {
			return resp
		}
	}
	deleted, err := h.uc.Cleanup(in.DaysOld)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// Stats godoc
// @Summary      Estadísticas de alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertStatsResponse
// @Router       /api/v1/alerts/stats [get]
func (h *AlertHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
