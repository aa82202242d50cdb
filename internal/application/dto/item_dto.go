package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImageDTO referencia a una imagen alojada externamente.
type ImageDTO struct {
	URL       string `json:"url" validate:"required,url"`
	PublicID  string `json:"public_id" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// CreateItemRequest entrada para crear un item.
// StockStatus no se acepta: lo deriva el motor de stock.
type CreateItemRequest struct {
	SKU               string          `json:"sku" validate:"omitempty,max=100"`
	Barcode           string          `json:"barcode" validate:"omitempty,max=100"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Description       string          `json:"description" validate:"omitempty,max=1000"`
	CategoryID        string          `json:"category_id" validate:"required,uuid"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	StockQuantity     int64           `json:"stock_quantity" validate:"min=0"`
	LowStockThreshold *int64          `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Unit              string          `json:"unit" validate:"omitempty,max=20"`
	Tags              []string        `json:"tags"`
	Images            []ImageDTO      `json:"images"`
	IsFeatured        bool            `json:"is_featured"`
}

// UpdateItemRequest campos editables de un item. La cantidad de stock no se
// toca por aquí: se muta solo vía restock, venta o cancelación.
type UpdateItemRequest struct {
	Barcode           *string          `json:"barcode" validate:"omitempty,max=100"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description" validate:"omitempty,max=1000"`
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	LowStockThreshold *int64           `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Unit              *string          `json:"unit" validate:"omitempty,max=20"`
	Tags              []string         `json:"tags"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
}

// RestockRequest entrada para reponer stock de un item.
type RestockRequest struct {
	Quantity  int64            `json:"quantity" validate:"required,min=1"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	Supplier  string           `json:"supplier" validate:"omitempty,max=200"`
	Reference string           `json:"reference" validate:"omitempty,max=100"`
	Notes     string           `json:"notes" validate:"omitempty,max=500"`
}

// ItemResponse salida de un item, con los derivados calculados.
type ItemResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        string          `json:"category_id"`
	Images            []ImageDTO      `json:"images,omitempty"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	ProfitPerUnit     decimal.Decimal `json:"profit_per_unit"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	StockQuantity     int64           `json:"stock_quantity"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	StockStatus       string          `json:"stock_status"`
	InventoryValue    decimal.Decimal `json:"inventory_value"`
	Unit              string          `json:"unit"`
	Tags              []string        `json:"tags,omitempty"`
	TotalRestocked    int64           `json:"total_restocked"`
	TotalSold         int64           `json:"total_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	LastRestocked     *time.Time      `json:"last_restocked,omitempty"`
	LastSold          *time.Time      `json:"last_sold,omitempty"`
	IsActive          bool            `json:"is_active"`
	IsFeatured        bool            `json:"is_featured"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RestockEntryResponse entrada del historial de reposición.
type RestockEntryResponse struct {
	ID          string          `json:"id"`
	Quantity    int64           `json:"quantity"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Supplier    string          `json:"supplier,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	RestockedBy string          `json:"restocked_by"`
	RestockedAt time.Time       `json:"restocked_at"`
}

// InventoryStatsResponse agregados de inventario.
type InventoryStatsResponse struct {
	TotalItems       int64           `json:"total_items"`
	ActiveItems      int64           `json:"active_items"`
	LowStockItems    int64           `json:"low_stock_items"`
	OutOfStockItems  int64           `json:"out_of_stock_items"`
	TotalStockUnits  int64           `json:"total_stock_units"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
}
