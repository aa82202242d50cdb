// Package stock contiene la lógica pura de estado de inventario
// (servicio de dominio, sin I/O).
package stock

// Estados de stock de un item. Derivados, nunca escritos por clientes.
const (
	StatusAvailable  = "available"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// DeriveStatus deriva el estado de stock a partir de (cantidad, umbral).
// Regla: qty <= 0 → out_of_stock; 0 < qty <= umbral → low_stock (frontera
// inclusiva: qty == umbral es low_stock); si no → available.
// Debe recalcularse en cada mutación del item donde cambie alguna entrada.
func DeriveStatus(quantity, threshold int64) string {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= threshold:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// Transition par (anterior, nuevo) de estados tras una mutación.
// Se pasa explícito al reconciliador de alertas en lugar de marcar
// estado oculto en la entidad.
type Transition struct {
	Previous string
	Current  string
}

// Changed indica si la transición cambió el estado.
func (t Transition) Changed() bool { return t.Previous != t.Current }
