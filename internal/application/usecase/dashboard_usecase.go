package usecase

import (
	"time"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/application/sales"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// DashboardUseCase compone los agregados de inventario, ventas y alertas
// para las vistas del dashboard.
type DashboardUseCase struct {
	itemUC   *inventory.ItemUseCase
	saleUC   *sales.SaleUseCase
	alertUC  *AlertUseCase
	saleRepo repository.SaleRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	itemUC *inventory.ItemUseCase,
	saleUC *sales.SaleUseCase,
	alertUC *AlertUseCase,
	saleRepo repository.SaleRepository,
) *DashboardUseCase {
	return &DashboardUseCase{itemUC: itemUC, saleUC: saleUC, alertUC: alertUC, saleRepo: saleRepo}
}

// Overview resumen general: inventario, ventas de hoy y del mes, alertas.
func (uc *DashboardUseCase) Overview() (*dto.DashboardOverviewResponse, error) {
	inv, err := uc.itemUC.Stats()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := uc.saleUC.Stats(dayStart, now)
	if err != nil {
		return nil, err
	}
	thisMonth, err := uc.saleUC.Stats(monthStart, now)
	if err != nil {
		return nil, err
	}
	alerts, err := uc.alertUC.Stats()
	if err != nil {
		return nil, err
	}

	return &dto.DashboardOverviewResponse{
		Inventory: *inv,
		Today:     *today,
		ThisMonth: *thisMonth,
		Alerts:    *alerts,
	}, nil
}

// SalesAnalytics series para gráficos: reporte diario, top de items y
// desglose por método de pago en el rango.
func (uc *DashboardUseCase) SalesAnalytics(start, end time.Time, topLimit int) (*dto.SalesAnalyticsResponse, error) {
	daily, err := uc.saleUC.DailyReport(start, end)
	if err != nil {
		return nil, err
	}
	topItems, err := uc.saleUC.TopSellingItems(start, end, topLimit)
	if err != nil {
		return nil, err
	}
	byMethod, err := uc.saleRepo.ByPaymentMethod(start, end)
	if err != nil {
		return nil, err
	}
	byPayment := make([]dto.PaymentMethodDTO, 0, len(byMethod))
	for _, r := range byMethod {
		byPayment = append(byPayment, dto.PaymentMethodDTO{
			PaymentMethod: r.PaymentMethod,
			Count:         r.Count,
			TotalRevenue:  r.TotalRevenue,
		})
	}
	return &dto.SalesAnalyticsResponse{Daily: daily, TopItems: topItems, ByPayment: byPayment}, nil
}

// InventoryAnalytics valor del inventario: totales, desglose por categoría
// y los items en stock bajo o agotado.
func (uc *DashboardUseCase) InventoryAnalytics() (*dto.InventoryAnalyticsResponse, error) {
	totals, err := uc.itemUC.Stats()
	if err != nil {
		return nil, err
	}
	byCategory, err := uc.itemUC.StatsByCategory()
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.itemUC.ListLowStock()
	if err != nil {
		return nil, err
	}
	return &dto.InventoryAnalyticsResponse{
		Totals:     *totals,
		ByCategory: byCategory,
		LowStock:   lowStock,
	}, nil
}
