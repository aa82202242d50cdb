package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. UnitPrice es opcional: si falta se toma el
// precio de venta actual del item.
type SaleItemRequest struct {
	ItemID    string           `json:"item_id" validate:"required,uuid"`
	Quantity  int64            `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// AdjustmentRequest descuento o impuesto crudo del cliente (el monto se calcula).
type AdjustmentRequest struct {
	Type  string          `json:"type" validate:"omitempty,oneof=percentage fixed"`
	Value decimal.Decimal `json:"value"`
}

// SaleCustomerDTO datos de contacto del cliente de mostrador.
type SaleCustomerDTO struct {
	Name    string `json:"name" validate:"omitempty,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

// CreateSaleRequest entrada para crear una venta.
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card transfer pos other"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	Customer      SaleCustomerDTO   `json:"customer"`
	Notes         string            `json:"notes" validate:"omitempty,max=500"`
	Discount      AdjustmentRequest `json:"discount"`
	Tax           AdjustmentRequest `json:"tax"`
}

// CancelSaleRequest motivo de la cancelación.
type CancelSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// RecordPaymentRequest abono sobre una venta con saldo pendiente.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// SaleItemResponse línea de venta con los derivados calculados.
type SaleItemResponse struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	ItemSKU   string          `json:"item_sku"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Profit    decimal.Decimal `json:"profit"`
}

// AdjustmentResponse descuento o impuesto con su monto calculado.
type AdjustmentResponse struct {
	Type   string          `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	TotalItems    int64              `json:"total_items"`
	Discount      AdjustmentResponse `json:"discount"`
	Tax           AdjustmentResponse `json:"tax"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	AmountDue     decimal.Decimal    `json:"amount_due"`
	Customer      SaleCustomerDTO    `json:"customer,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Status        string             `json:"status"`
	SaleDate      time.Time          `json:"sale_date"`
	SoldBy        string             `json:"sold_by"`
	RefundReason  string             `json:"refund_reason,omitempty"`
	RefundedAt    *time.Time         `json:"refunded_at,omitempty"`
	RefundedBy    string             `json:"refunded_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Page  PageResponse   `json:"page"`
}

// SalesStatsResponse agregados de ventas en un rango.
type SalesStatsResponse struct {
	Start            time.Time       `json:"start"`
	End              time.Time       `json:"end"`
	TotalSales       int64           `json:"total_sales"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalItemsSold   int64           `json:"total_items_sold"`
	AverageSaleValue decimal.Decimal `json:"average_sale_value"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
}

// TopItemDTO item más vendido.
type TopItemDTO struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	ItemSKU       string          `json:"item_sku"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	SalesCount    int64           `json:"sales_count"`
}

// PaymentMethodDTO ventas agrupadas por método de pago.
type PaymentMethodDTO struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// DailySalesDTO fila del reporte diario.
type DailySalesDTO struct {
	Date             time.Time       `json:"date"`
	TotalSales       int64           `json:"total_sales"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalItems       int64           `json:"total_items"`
	AverageSaleValue decimal.Decimal `json:"average_sale_value"`
}

// MonthlySalesDTO fila del reporte mensual (mes en formato YYYY-MM).
type MonthlySalesDTO struct {
	Month            string          `json:"month"`
	TotalSales       int64           `json:"total_sales"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalItems       int64           `json:"total_items"`
	AverageSaleValue decimal.Decimal `json:"average_sale_value"`
}
