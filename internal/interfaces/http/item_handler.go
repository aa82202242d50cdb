package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP para items del inventario.
type ItemHandler struct {
	uc       *inventory.ItemUseCase
	recorder *audit.Recorder
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, recorder *audit.Recorder) *ItemHandler {
	return &ItemHandler{uc: uc, recorder: recorder}
}

// Create godoc
// @Summary      Crear item
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del item"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Create(c.UserContext(), in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_SKU", Message: "el SKU ya existe"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CATEGORY_NOT_FOUND", Message: "la categoría no existe"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "precios y cantidades no pueden ser negativos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionItemCreate,
		Resource:    "item",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "item creado: " + out.Name,
		After:       out,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener item por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar items
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category_id   query  string  false  "Filtrar por categoría"
// @Param        stock_status  query  string  false  "available | low_stock | out_of_stock"
// @Param        is_active     query  bool    false  "Filtrar por activos"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/v1/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit", 20)
	page.Offset = c.QueryInt("offset", 0)
	page.DefaultPage()

	filter := repository.ItemFilter{
		CategoryID:  c.Query("category_id"),
		StockStatus: c.Query("stock_status"),
	}
	if raw := c.Query("is_active"); raw != "" {
		isActive := raw == "true"
		filter.IsActive = &isActive
	}
	if raw := c.Query("min_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &d
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &d
		}
	}

	out, err := h.uc.List(filter, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar item
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CATEGORY_NOT_FOUND", Message: "la categoría no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionItemUpdate,
		Resource:    "item",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "item actualizado: " + out.Name,
		After:       out,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar item (soft delete)
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del item"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(id, GetUserID(c)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionItemDelete,
		Resource:    "item",
		ResourceID:  id,
		Actor:       GetUserID(c),
		Description: "item desactivado",
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
		Severity:    entity.AuditSeverityMedium,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// Restock godoc
// @Summary      Reponer stock de un item
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.RestockRequest  true  "Cantidad y datos de la reposición"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/items/{id}/restock [post]
func (h *ItemHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Restock(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la cantidad debe ser mayor a cero"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionItemRestock,
		Resource:    "item",
		ResourceID:  out.ID,
		Actor:       GetUserID(c),
		Description: "reposición de stock: " + out.Name,
		After:       out,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Items con stock bajo o agotado
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/v1/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.ListLowStock()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar items por nombre, SKU o tags
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Texto a buscar"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/v1/items/search [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_QUERY", Message: "el parámetro q es requerido"})
	}
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	out, err := h.uc.Search(q, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/v1/items/stats [get]
func (h *ItemHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RestockHistory godoc
// @Summary      Historial de reposición de un item
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del item"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200  {array}  dto.RestockEntryResponse
// @Router       /api/v1/items/{id}/restock-history [get]
func (h *ItemHandler) RestockHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out, err := h.uc.RestockHistory(c.Params("id"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
