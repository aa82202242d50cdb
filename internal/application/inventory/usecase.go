package inventory

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

const defaultLowStockThreshold = 10

// ItemUseCase casos de uso de items: CRUD, reposición y mutaciones de stock.
// Toda mutación de cantidad corre en una transacción con bloqueo de fila
// (SELECT FOR UPDATE), deriva el estado de stock y reconcilia alertas después
// del commit (el motor de alertas es best-effort).
type ItemUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	engine       *AlertEngine
	log          *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	engine *AlertEngine,
	log *logger.Logger,
) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, categoryRepo: categoryRepo, engine: engine, log: log}
}

// Create crea un item. El estado de stock se deriva siempre; si el item nace
// con stock bajo o agotado se genera la alerta correspondiente.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actor string) (*dto.ItemResponse, error) {
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" {
		sku = generateSKU(category.Name)
	}
	existing, err := uc.itemRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() || in.StockQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	threshold := int64(defaultLowStockThreshold)
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		threshold = *in.LowStockThreshold
	}
	unit := in.Unit
	if unit == "" {
		unit = "piece"
	}

	now := time.Now()
	item := &entity.Item{
		ID:                uuid.New().String(),
		SKU:               sku,
		Barcode:           in.Barcode,
		Name:              in.Name,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		Images:            imagesFromDTO(in.Images),
		CostPrice:         in.CostPrice,
		SellingPrice:      in.SellingPrice,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: threshold,
		StockStatus:       stock.DeriveStatus(in.StockQuantity, threshold),
		Unit:              unit,
		Tags:              in.Tags,
		TotalRevenue:      decimal.Zero,
		IsActive:          true,
		IsFeatured:        in.IsFeatured,
		CreatedBy:         actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	ensurePrimaryImage(item)

	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	if err := uc.categoryRepo.AdjustItemCount(category.ID, 1); err != nil {
		uc.log.Warn().Err(err).Str("category_id", category.ID).Msg("no se pudo actualizar el contador de la categoría")
	}

	// El estado por defecto es available: nacer en low/out dispara alerta
	uc.engine.Apply(ctx, stock.Transition{Previous: stock.StatusAvailable, Current: item.StockStatus}, item)

	return toItemResponse(item), nil
}

// GetByID obtiene un item por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List lista items con filtros y paginación.
func (uc *ItemUseCase) List(filter repository.ItemFilter, limit, offset int) (*dto.ItemListResponse, error) {
	items, total, err := uc.itemRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, it := range items {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out, nil
}

// Update edita campos de un item. La cantidad de stock no se toca por aquí;
// si cambia el umbral, el estado se re-deriva y se reconcilian alertas.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest, actor string) (*dto.ItemResponse, error) {
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
	}

	var updated *entity.Item
	var transition stock.Transition
	var prevCategory string

	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		prevCategory = item.CategoryID
		prevStatus := item.StockStatus

		applyItemUpdate(item, in)
		item.StockStatus = stock.DeriveStatus(item.StockQuantity, item.LowStockThreshold)
		item.UpdatedBy = actor
		item.UpdatedAt = time.Now()

		if err := itemRepo.Update(item); err != nil {
			return err
		}
		updated = item
		transition = stock.Transition{Previous: prevStatus, Current: item.StockStatus}
		return nil
	})
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	if in.CategoryID != nil && *in.CategoryID != prevCategory {
		if err := uc.categoryRepo.AdjustItemCount(prevCategory, -1); err != nil {
			uc.log.Warn().Err(err).Str("category_id", prevCategory).Msg("no se pudo actualizar el contador de la categoría")
		}
		if err := uc.categoryRepo.AdjustItemCount(*in.CategoryID, 1); err != nil {
			uc.log.Warn().Err(err).Str("category_id", *in.CategoryID).Msg("no se pudo actualizar el contador de la categoría")
		}
	}

	uc.engine.Apply(ctx, transition, updated)
	return toItemResponse(updated), nil
}

// Delete desactiva un item (soft delete) y descuenta el contador de su categoría.
func (uc *ItemUseCase) Delete(id, actor string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !item.IsActive {
		return nil
	}
	item.IsActive = false
	item.UpdatedBy = actor
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return err
	}
	if err := uc.categoryRepo.AdjustItemCount(item.CategoryID, -1); err != nil {
		uc.log.Warn().Err(err).Str("category_id", item.CategoryID).Msg("no se pudo actualizar el contador de la categoría")
	}
	return nil
}

// Restock repone stock: suma la cantidad, agrega la entrada al historial
// (ledger append-only), opcionalmente actualiza el costo y reconcilia alertas.
func (uc *ItemUseCase) Restock(ctx context.Context, id string, in dto.RestockRequest, actor string) (*dto.ItemResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Item
	var transition stock.Transition

	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		prevStatus := item.StockStatus
		now := time.Now()

		item.StockQuantity += in.Quantity
		item.TotalRestocked += in.Quantity
		item.LastRestocked = &now
		costPrice := item.CostPrice
		if in.CostPrice != nil && !in.CostPrice.IsNegative() {
			costPrice = *in.CostPrice
			if !costPrice.Equal(item.CostPrice) {
				item.CostPrice = costPrice
			}
		}
		item.StockStatus = stock.DeriveStatus(item.StockQuantity, item.LowStockThreshold)
		item.UpdatedBy = actor
		item.UpdatedAt = now

		if err := itemRepo.Update(item); err != nil {
			return err
		}
		entry := &entity.RestockEntry{
			ID:          uuid.New().String(),
			ItemID:      item.ID,
			Quantity:    in.Quantity,
			CostPrice:   costPrice,
			Supplier:    in.Supplier,
			Reference:   in.Reference,
			Notes:       in.Notes,
			RestockedBy: actor,
			RestockedAt: now,
		}
		if err := itemRepo.AddRestockEntry(entry); err != nil {
			return err
		}
		updated = item
		transition = stock.Transition{Previous: prevStatus, Current: item.StockStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.engine.Apply(ctx, transition, updated)
	return toItemResponse(updated), nil
}

// ReduceStock descuenta stock por una venta: valida suficiencia bajo bloqueo
// de fila, acumula totalSold/totalRevenue y reconcilia alertas tras el commit.
func (uc *ItemUseCase) ReduceStock(ctx context.Context, itemID string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}

	var updated *entity.Item
	var transition stock.Transition

	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.StockQuantity < quantity {
			return domain.ErrInsufficientStock
		}
		prevStatus := item.StockStatus
		now := time.Now()

		item.StockQuantity -= quantity
		item.TotalSold += quantity
		item.TotalRevenue = item.TotalRevenue.Add(item.SellingPrice.Mul(decimal.NewFromInt(quantity)))
		item.LastSold = &now
		item.StockStatus = stock.DeriveStatus(item.StockQuantity, item.LowStockThreshold)
		item.UpdatedAt = now

		if err := itemRepo.Update(item); err != nil {
			return err
		}
		updated = item
		transition = stock.Transition{Previous: prevStatus, Current: item.StockStatus}
		return nil
	})
	if err != nil {
		return err
	}

	uc.engine.Apply(ctx, transition, updated)
	return nil
}

// RestoreStock repone stock por una cancelación de venta, usando los valores
// congelados de la venta (delta exacto, no recálculo). Puede auto-resolver
// o reabrir alertas vía el motor.
func (uc *ItemUseCase) RestoreStock(ctx context.Context, itemID string, quantity int64, revenue decimal.Decimal) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}

	var updated *entity.Item
	var transition stock.Transition

	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		prevStatus := item.StockStatus
		now := time.Now()

		item.StockQuantity += quantity
		item.TotalSold -= quantity
		item.TotalRevenue = item.TotalRevenue.Sub(revenue)
		item.StockStatus = stock.DeriveStatus(item.StockQuantity, item.LowStockThreshold)
		item.UpdatedAt = now

		if err := itemRepo.Update(item); err != nil {
			return err
		}
		updated = item
		transition = stock.Transition{Previous: prevStatus, Current: item.StockStatus}
		return nil
	})
	if err != nil {
		return err
	}

	uc.engine.Apply(ctx, transition, updated)
	return nil
}

// ListLowStock items activos con stock bajo o agotado, ordenados por cantidad.
func (uc *ItemUseCase) ListLowStock() ([]dto.ItemResponse, error) {
	items, err := uc.itemRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// Search búsqueda por nombre, SKU o tags.
func (uc *ItemUseCase) Search(query string, limit int) ([]dto.ItemResponse, error) {
	items, err := uc.itemRepo.Search(query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// Stats agregados de inventario para el dashboard.
func (uc *ItemUseCase) Stats() (*dto.InventoryStatsResponse, error) {
	stats, err := uc.itemRepo.InventoryStats()
	if err != nil {
		return nil, err
	}
	return &dto.InventoryStatsResponse{
		TotalItems:       stats.TotalItems,
		ActiveItems:      stats.ActiveItems,
		LowStockItems:    stats.LowStockItems,
		OutOfStockItems:  stats.OutOfStockItems,
		TotalStockUnits:  stats.TotalStockUnits,
		InventoryValue:   stats.InventoryValue,
		PotentialRevenue: stats.PotentialRevenue,
	}, nil
}

// StatsByCategory valor del inventario desglosado por categoría.
func (uc *ItemUseCase) StatsByCategory() ([]dto.CategoryStockDTO, error) {
	rows, err := uc.itemRepo.StatsByCategory()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CategoryStockDTO{
			CategoryID:       r.CategoryID,
			CategoryName:     r.CategoryName,
			ItemCount:        r.ItemCount,
			StockUnits:       r.StockUnits,
			InventoryValue:   r.InventoryValue,
			PotentialRevenue: r.PotentialRevenue,
		})
	}
	return out, nil
}

// RestockHistory historial de reposición de un item.
func (uc *ItemUseCase) RestockHistory(itemID string, limit int) ([]dto.RestockEntryResponse, error) {
	entries, err := uc.itemRepo.ListRestockHistory(itemID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RestockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.RestockEntryResponse{
			ID:          e.ID,
			Quantity:    e.Quantity,
			CostPrice:   e.CostPrice,
			Supplier:    e.Supplier,
			Reference:   e.Reference,
			Notes:       e.Notes,
			RestockedBy: e.RestockedBy,
			RestockedAt: e.RestockedAt,
		})
	}
	return out, nil
}

func applyItemUpdate(item *entity.Item, in dto.UpdateItemRequest) {
	if in.Barcode != nil {
		item.Barcode = *in.Barcode
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.CostPrice != nil && !in.CostPrice.IsNegative() {
		item.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil && !in.SellingPrice.IsNegative() {
		item.SellingPrice = *in.SellingPrice
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold >= 0 {
		item.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Tags != nil {
		item.Tags = in.Tags
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		item.IsFeatured = *in.IsFeatured
	}
}

func imagesFromDTO(in []dto.ImageDTO) []entity.Image {
	out := make([]entity.Image, 0, len(in))
	for _, img := range in {
		out = append(out, entity.Image{URL: img.URL, PublicID: img.PublicID, IsPrimary: img.IsPrimary, Order: img.Order})
	}
	return out
}

func ensurePrimaryImage(item *entity.Item) {
	if len(item.Images) == 0 {
		return
	}
	for _, img := range item.Images {
		if img.IsPrimary {
			return
		}
	}
	item.Images[0].IsPrimary = true
}

// generateSKU genera un SKU único: prefijo de categoría + timestamp + sufijo aleatorio.
func generateSKU(categoryName string) string {
	prefix := "ITEM"
	// por runas: un nombre como "Ñame" no debe partir un carácter multibyte
	runes := []rune(strings.ToUpper(strings.TrimSpace(categoryName)))
	if len(runes) >= 3 {
		prefix = string(runes[:3])
	}
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	ts = ts[len(ts)-6:]
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, ts, suffix)
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	images := make([]dto.ImageDTO, 0, len(i.Images))
	for _, img := range i.Images {
		images = append(images, dto.ImageDTO{URL: img.URL, PublicID: img.PublicID, IsPrimary: img.IsPrimary, Order: img.Order})
	}
	return &dto.ItemResponse{
		ID:                i.ID,
		SKU:               i.SKU,
		Barcode:           i.Barcode,
		Name:              i.Name,
		Description:       i.Description,
		CategoryID:        i.CategoryID,
		Images:            images,
		CostPrice:         i.CostPrice,
		SellingPrice:      i.SellingPrice,
		ProfitPerUnit:     i.ProfitPerUnit(),
		ProfitMargin:      i.ProfitMargin(),
		StockQuantity:     i.StockQuantity,
		LowStockThreshold: i.LowStockThreshold,
		StockStatus:       i.StockStatus,
		InventoryValue:    i.InventoryValue(),
		Unit:              i.Unit,
		Tags:              i.Tags,
		TotalRestocked:    i.TotalRestocked,
		TotalSold:         i.TotalSold,
		TotalRevenue:      i.TotalRevenue,
		LastRestocked:     i.LastRestocked,
		LastSold:          i.LastSold,
		IsActive:          i.IsActive,
		IsFeatured:        i.IsFeatured,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
