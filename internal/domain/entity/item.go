package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Image referencia a una imagen alojada externamente (el servicio devuelve {url, publicId}).
type Image struct {
	URL       string
	PublicID  string
	IsPrimary bool
	Order     int
}

// Item representa un producto del inventario.
// StockStatus es derivado de (StockQuantity, LowStockThreshold) por el motor
// de stock; los clientes nunca lo escriben directamente.
type Item struct {
	ID                string
	SKU               string // único, se guarda en mayúsculas
	Barcode           string
	Name              string
	Description       string
	CategoryID        string
	Images            []Image
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	StockQuantity     int64
	LowStockThreshold int64 // por defecto 10
	StockStatus       string // ver internal/domain/stock
	Unit              string // piece, kg, box, ...
	Tags              []string
	TotalRestocked    int64
	TotalSold         int64
	TotalRevenue      decimal.Decimal
	LastRestocked     *time.Time
	LastSold          *time.Time
	IsActive          bool
	IsFeatured        bool
	CreatedBy         string
	UpdatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProfitPerUnit margen unitario (precio de venta - costo).
func (i *Item) ProfitPerUnit() decimal.Decimal {
	return i.SellingPrice.Sub(i.CostPrice)
}

// ProfitMargin margen porcentual sobre el costo. Cero si el costo es cero.
func (i *Item) ProfitMargin() decimal.Decimal {
	if i.CostPrice.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return i.SellingPrice.Sub(i.CostPrice).Div(i.CostPrice).Mul(hundred)
}

// InventoryValue valor del inventario al costo (costo × cantidad).
func (i *Item) InventoryValue() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(i.StockQuantity))
}

// PotentialRevenue ingreso potencial al precio de venta actual.
func (i *Item) PotentialRevenue() decimal.Decimal {
	return i.SellingPrice.Mul(decimal.NewFromInt(i.StockQuantity))
}

// PrimaryImage devuelve la imagen principal, o la primera si ninguna está marcada.
func (i *Item) PrimaryImage() *Image {
	for idx := range i.Images {
		if i.Images[idx].IsPrimary {
			return &i.Images[idx]
		}
	}
	if len(i.Images) > 0 {
		return &i.Images[0]
	}
	return nil
}

// RestockEntry registro de una entrada de stock (ledger append-only).
type RestockEntry struct {
	ID          string
	ItemID      string
	Quantity    int64
	CostPrice   decimal.Decimal
	Supplier    string
	Reference   string
	Notes       string
	RestockedBy string
	RestockedAt time.Time
}
