// Package ports define los contratos hacia servicios externos que consume la
// capa de aplicación (correo, PDF). Las implementaciones viven en infrastructure.
package ports

import (
	"context"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

// Notifier servicio de correo. Todos los envíos son best-effort: el caller
// loguea el error y nunca falla la operación que los disparó.
type Notifier interface {
	SendLowStockAlert(ctx context.Context, to, itemName string, quantity, threshold int64) error
	SendOutOfStockAlert(ctx context.Context, to, itemName, sku string) error
	SendWelcomeEmail(ctx context.Context, to, firstName string) error
	SendPasswordResetOTP(ctx context.Context, to, otp string) error
}

// ReceiptPDFGenerator genera el recibo PDF de una venta.
type ReceiptPDFGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, soldBy *entity.User) ([]byte, error)
}
