package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Métodos de pago.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodPOS      = "pos"
	PaymentMethodOther    = "other"
)

// Estados de pago (derivados de AmountPaid vs TotalAmount).
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusPartial  = "partial"
	PaymentStatusPending  = "pending"
	PaymentStatusRefunded = "refunded"
)

// Tipos de descuento e impuesto.
const (
	AdjustmentPercentage = "percentage"
	AdjustmentFixed      = "fixed"
)

// SaleItem línea de venta: snapshot congelado de precio y costo al momento
// de vender, desacoplado de cambios posteriores del Item.
type SaleItem struct {
	ID        string
	ItemID    string
	ItemName  string
	ItemSKU   string
	Quantity  int64
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal // calculado al guardar
	Profit    decimal.Decimal // calculado al guardar
}

// Adjustment descuento o impuesto aplicado a la venta.
// Amount es calculado; Value es el parámetro crudo del cliente.
type Adjustment struct {
	Type   string // percentage, fixed
	Value  decimal.Decimal
	Amount decimal.Decimal
}

// SaleCustomer datos de contacto del cliente (opcional, venta de mostrador).
type SaleCustomer struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// RefundInfo metadatos de cancelación/reembolso.
type RefundInfo struct {
	Reason     string
	RefundedAt *time.Time
	RefundedBy string
}

// Sale representa una transacción de venta. Inmutable una vez completada,
// salvo la cancelación explícita (transacción compensatoria) y el estado de pago.
type Sale struct {
	ID            string
	SaleNumber    string // SALE-YYMMDD-NNNN, único
	Items         []SaleItem
	TotalAmount   decimal.Decimal
	TotalCost     decimal.Decimal
	TotalProfit   decimal.Decimal
	TotalItems    int64
	Discount      Adjustment
	Tax           Adjustment
	PaymentMethod string
	PaymentStatus string
	AmountPaid    decimal.Decimal
	AmountDue     decimal.Decimal
	Customer      SaleCustomer
	Notes         string
	Status        string
	SaleDate      time.Time
	SoldBy        string
	Refund        RefundInfo
	IPAddress     string
	UserAgent     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFullyPaid indica si el monto pagado cubre el total.
func (s *Sale) IsFullyPaid() bool {
	return s.AmountPaid.GreaterThanOrEqual(s.TotalAmount)
}

// ProfitMargin margen porcentual sobre el costo total.
func (s *Sale) ProfitMargin() decimal.Decimal {
	if s.TotalCost.IsZero() {
		return decimal.Zero
	}
	return s.TotalProfit.Div(s.TotalCost).Mul(decimal.NewFromInt(100))
}
