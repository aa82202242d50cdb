package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals resultado del cálculo de totales de una venta.
type Totals struct {
	Subtotal    decimal.Decimal
	TotalCost   decimal.Decimal
	TotalProfit decimal.Decimal
	TotalItems  int64
	Discount    entity.Adjustment
	Tax         entity.Adjustment
	TotalAmount decimal.Decimal
}

// ComputeTotals calcula los totales de una venta a partir de las líneas ya
// congeladas. Función pura: mismo input, mismo output.
//
// Orden de aplicación: subtotal de líneas, luego descuento (porcentual sobre
// el subtotal o fijo, acotado al subtotal), luego impuesto (porcentual sobre
// el monto ya descontado o fijo). El total nunca es negativo. La ganancia
// descuenta el descuento pero no el impuesto (el impuesto se recauda, no es
// ingreso propio).
func ComputeTotals(items []entity.SaleItem, discount, tax entity.Adjustment) Totals {
	var t Totals
	t.Subtotal = decimal.Zero
	t.TotalCost = decimal.Zero
	lineProfit := decimal.Zero
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.Subtotal)
		t.TotalCost = t.TotalCost.Add(it.UnitCost.Mul(decimal.NewFromInt(it.Quantity)))
		lineProfit = lineProfit.Add(it.Profit)
		t.TotalItems += it.Quantity
	}

	t.Discount = discount
	switch discount.Type {
	case entity.AdjustmentPercentage:
		t.Discount.Amount = t.Subtotal.Mul(discount.Value).Div(hundred)
	case entity.AdjustmentFixed:
		t.Discount.Amount = discount.Value
	default:
		t.Discount = entity.Adjustment{Type: entity.AdjustmentPercentage, Value: decimal.Zero, Amount: decimal.Zero}
	}
	if t.Discount.Amount.IsNegative() {
		t.Discount.Amount = decimal.Zero
	}
	if t.Discount.Amount.GreaterThan(t.Subtotal) {
		t.Discount.Amount = t.Subtotal
	}

	afterDiscount := t.Subtotal.Sub(t.Discount.Amount)

	t.Tax = tax
	switch tax.Type {
	case entity.AdjustmentPercentage:
		t.Tax.Amount = afterDiscount.Mul(tax.Value).Div(hundred)
	case entity.AdjustmentFixed:
		t.Tax.Amount = tax.Value
	default:
		t.Tax = entity.Adjustment{Type: entity.AdjustmentPercentage, Value: decimal.Zero, Amount: decimal.Zero}
	}
	if t.Tax.Amount.IsNegative() {
		t.Tax.Amount = decimal.Zero
	}

	t.TotalAmount = afterDiscount.Add(t.Tax.Amount)
	if t.TotalAmount.IsNegative() {
		t.TotalAmount = decimal.Zero
	}
	t.TotalProfit = lineProfit.Sub(t.Discount.Amount)
	return t
}

// DerivePaymentStatus deriva el estado de pago a partir del monto pagado.
func DerivePaymentStatus(amountPaid, totalAmount decimal.Decimal) string {
	switch {
	case amountPaid.GreaterThanOrEqual(totalAmount):
		return entity.PaymentStatusPaid
	case amountPaid.IsPositive():
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusPending
	}
}
