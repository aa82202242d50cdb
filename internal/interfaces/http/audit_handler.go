package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// AuditHandler consulta el log de auditoría (solo lectura).
type AuditHandler struct {
	query *audit.Query
}

// NewAuditHandler construye el handler.
func NewAuditHandler(query *audit.Query) *AuditHandler {
	return &AuditHandler{query: query}
}

// List godoc
// @Summary      Listar registros de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action      query  string  false  "Acción (p.ej. item.create)"
// @Param        resource    query  string  false  "Tipo de recurso"
// @Param        actor       query  string  false  "ID del actor"
// @Param        start_date  query  string  false  "Fecha inicial (RFC3339)"
// @Param        end_date    query  string  false  "Fecha final (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditLogListResponse
// @Router       /api/v1/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	filter := repository.AuditFilter{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		Actor:    c.Query("actor"),
	}
	if t, ok := parseTimeQuery(c, "start_date"); ok {
		filter.StartDate = &t
	}
	if t, ok := parseTimeQuery(c, "end_date"); ok {
		filter.EndDate = &t
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.query.List(filter, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un registro de auditoría por ID
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.AuditLogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/audit/{id} [get]
func (h *AuditHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	}
	return c.JSON(out)
}
