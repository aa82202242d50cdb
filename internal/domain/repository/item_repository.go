package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetForUpdate solo tiene sentido dentro de una transacción (SELECT FOR UPDATE).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(filter ItemFilter, limit, offset int) ([]*entity.Item, int64, error)
	ListLowStock() ([]*entity.Item, error)
	Search(query string, limit int) ([]*entity.Item, error)
	CountByCategory(categoryID string) (int64, error)
	AddRestockEntry(entry *entity.RestockEntry) error
	ListRestockHistory(itemID string, limit int) ([]*entity.RestockEntry, error)
	InventoryStats() (*InventoryStats, error)
	StatsByCategory() ([]CategoryStockRow, error)
}

// ItemFilter filtros opcionales para listar items.
type ItemFilter struct {
	CategoryID  string
	StockStatus string
	IsActive    *bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// CategoryStockRow valor de inventario agrupado por categoría.
type CategoryStockRow struct {
	CategoryID       string
	CategoryName     string
	ItemCount        int64
	StockUnits       int64
	InventoryValue   decimal.Decimal
	PotentialRevenue decimal.Decimal
}

// InventoryStats agregados de inventario para el dashboard.
type InventoryStats struct {
	TotalItems       int64
	ActiveItems      int64
	LowStockItems    int64
	OutOfStockItems  int64
	TotalStockUnits  int64
	InventoryValue   decimal.Decimal // al costo
	PotentialRevenue decimal.Decimal // al precio de venta
}
