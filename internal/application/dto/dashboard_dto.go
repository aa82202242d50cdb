package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardOverviewResponse resumen general: inventario + ventas del día/mes + alertas.
type DashboardOverviewResponse struct {
	Inventory InventoryStatsResponse `json:"inventory"`
	Today     SalesStatsResponse     `json:"today"`
	ThisMonth SalesStatsResponse     `json:"this_month"`
	Alerts    AlertStatsResponse     `json:"alerts"`
}

// SalesAnalyticsResponse series de ventas para gráficos.
type SalesAnalyticsResponse struct {
	Daily     []DailySalesDTO    `json:"daily"`
	TopItems  []TopItemDTO       `json:"top_items"`
	ByPayment []PaymentMethodDTO `json:"by_payment_method"`
}

// InventoryAnalyticsResponse valor del inventario con desglose por categoría.
type InventoryAnalyticsResponse struct {
	Totals     InventoryStatsResponse `json:"totals"`
	ByCategory []CategoryStockDTO     `json:"by_category"`
	LowStock   []ItemResponse         `json:"low_stock"`
}

// CategoryStockDTO valor de inventario de una categoría.
type CategoryStockDTO struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	ItemCount        int64           `json:"item_count"`
	StockUnits       int64           `json:"stock_units"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
}

// AuditLogResponse entrada del log de auditoría.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Resource    string    `json:"resource"`
	ResourceID  string    `json:"resource_id,omitempty"`
	Actor       string    `json:"actor"`
	ActorName   string    `json:"actor_name"`
	ActorRole   string    `json:"actor_role"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogListResponse lista paginada del log de auditoría.
type AuditLogListResponse struct {
	Logs []AuditLogResponse `json:"logs"`
	Page PageResponse       `json:"page"`
}
