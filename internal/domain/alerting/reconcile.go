// Package alerting decide qué hacer con las alertas de stock cuando un item
// cambia de estado. La decisión es pura: Reconcile devuelve comandos
// (crear/resolver) y un paso de ejecución separado los aplica contra la
// persistencia y dispara notificaciones. Así la lógica queda testeable sin I/O.
package alerting

import (
	"fmt"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
)

// Tipos de comando producidos por Reconcile.
const (
	CommandCreate     = "create"
	CommandResolveAll = "resolve_all"
)

// ResolutionAuto nota de resolución para alertas auto-resueltas al reponer stock.
const ResolutionAuto = "stock repuesto - auto-resuelta"

// Command intención sobre las alertas de un item.
// CommandResolveAll: resolver todas las alertas abiertas de stock (low/out).
// CommandCreate: crear una alerta del tipo indicado si no existe una sin resolver
// del mismo tipo para el item (idempotente; el ejecutor verifica la existencia).
type Command struct {
	Kind     string
	Type     string // low_stock | out_of_stock (solo para CommandCreate)
	Severity string
	Title    string
	Message  string
	ItemID   string
	Metadata entity.AlertMetadata
}

// Reconcile decide los comandos de alerta para una transición de estado de stock.
// No produce comandos si el estado no cambió (evita trabajo duplicado en saves
// no relacionados). La transición hacia available resuelve y corta: nunca se
// crea una alerta nueva en el mismo paso.
func Reconcile(t stock.Transition, item *entity.Item) []Command {
	if !t.Changed() {
		return nil
	}

	if t.Current == stock.StatusAvailable {
		return []Command{{Kind: CommandResolveAll, ItemID: item.ID}}
	}

	var cmd Command
	switch t.Current {
	case stock.StatusOutOfStock:
		cmd = Command{
			Kind:     CommandCreate,
			Type:     entity.AlertTypeOutOfStock,
			Severity: entity.SeverityCritical,
			Message:  fmt.Sprintf("%s está agotado", item.Name),
		}
	case stock.StatusLowStock:
		cmd = Command{
			Kind:     CommandCreate,
			Type:     entity.AlertTypeLowStock,
			Severity: entity.SeverityWarning,
			Message: fmt.Sprintf("%s tiene stock bajo (quedan %d %s)",
				item.Name, item.StockQuantity, item.Unit),
		}
	default:
		return nil
	}

	cmd.Title = entity.DefaultTitle(cmd.Type)
	cmd.ItemID = item.ID
	cmd.Metadata = entity.AlertMetadata{
		CurrentStock: item.StockQuantity,
		Threshold:    item.LowStockThreshold,
		SKU:          item.SKU,
	}
	return []Command{cmd}
}
