package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale (DIP).
// Las ventas completadas son inmutables salvo Update para la cancelación
// explícita y el estado de pago.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	GetByNumber(saleNumber string) (*entity.Sale, error)
	Update(sale *entity.Sale) error
	List(filter SaleFilter, limit, offset int) ([]*entity.Sale, int64, error)
	CountByDay(day time.Time) (int64, error)
	Stats(start, end time.Time) (*SalesStats, error)
	TopSellingItems(start, end time.Time, limit int) ([]TopItemResult, error)
	DailyReport(start, end time.Time) ([]DailySalesRow, error)
	ByPaymentMethod(start, end time.Time) ([]PaymentMethodRow, error)
}

// SaleFilter filtros opcionales para listar ventas.
type SaleFilter struct {
	Status        string
	PaymentStatus string
	SoldBy        string
	StartDate     *time.Time
	EndDate       *time.Time
}

// SalesStats agregados de ventas en un rango de fechas (solo completadas).
type SalesStats struct {
	TotalSales       int64
	TotalRevenue     decimal.Decimal
	TotalProfit      decimal.Decimal
	TotalItemsSold   int64
	AverageSaleValue decimal.Decimal
}

// TopItemResult item más vendido en el rango.
type TopItemResult struct {
	ItemID        string
	ItemName      string
	ItemSKU       string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	TotalProfit   decimal.Decimal
	SalesCount    int64
}

// DailySalesRow fila del reporte diario de ventas.
type DailySalesRow struct {
	Date         time.Time
	TotalSales   int64
	TotalRevenue decimal.Decimal
	TotalProfit  decimal.Decimal
	TotalItems   int64
}

// PaymentMethodRow ventas agrupadas por método de pago.
type PaymentMethodRow struct {
	PaymentMethod string
	Count         int64
	TotalRevenue  decimal.Decimal
}
