package alerting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/domain/alerting"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
)

func testItem() *entity.Item {
	return &entity.Item{
		ID:                "item-1",
		SKU:               "ABC-123",
		Name:              "Arroz 500g",
		StockQuantity:     4,
		LowStockThreshold: 10,
		Unit:              "piece",
	}
}

func TestReconcile_SinCambioNoProduceComandos(t *testing.T) {
	tr := stock.Transition{Previous: stock.StatusLowStock, Current: stock.StatusLowStock}
	assert.Empty(t, alerting.Reconcile(tr, testItem()),
		"guardar sin transición no debe tocar las alertas")
}

func TestReconcile_TransicionADisponibleResuelveTodo(t *testing.T) {
	tr := stock.Transition{Previous: stock.StatusOutOfStock, Current: stock.StatusAvailable}
	cmds := alerting.Reconcile(tr, testItem())

	require.Len(t, cmds, 1)
	assert.Equal(t, alerting.CommandResolveAll, cmds[0].Kind)
	assert.Equal(t, "item-1", cmds[0].ItemID)
}

func TestReconcile_TransicionAStockBajoCreaAlertaWarning(t *testing.T) {
	item := testItem()
	tr := stock.Transition{Previous: stock.StatusAvailable, Current: stock.StatusLowStock}
	cmds := alerting.Reconcile(tr, item)

	require.Len(t, cmds, 1)
	cmd := cmds[0]
	assert.Equal(t, alerting.CommandCreate, cmd.Kind)
	assert.Equal(t, entity.AlertTypeLowStock, cmd.Type)
	assert.Equal(t, entity.SeverityWarning, cmd.Severity)
	assert.Contains(t, cmd.Message, "Arroz 500g")
	assert.Equal(t, item.StockQuantity, cmd.Metadata.CurrentStock)
	assert.Equal(t, item.LowStockThreshold, cmd.Metadata.Threshold)
	assert.Equal(t, "ABC-123", cmd.Metadata.SKU)
}

func TestReconcile_TransicionAAgotadoCreaAlertaCritica(t *testing.T) {
	item := testItem()
	item.StockQuantity = 0
	tr := stock.Transition{Previous: stock.StatusLowStock, Current: stock.StatusOutOfStock}
	cmds := alerting.Reconcile(tr, item)

	require.Len(t, cmds, 1)
	assert.Equal(t, alerting.CommandCreate, cmds[0].Kind)
	assert.Equal(t, entity.AlertTypeOutOfStock, cmds[0].Type)
	assert.Equal(t, entity.SeverityCritical, cmds[0].Severity)
}

// Un item que nace con stock bajo se modela como available→low_stock,
// así la creación dispara la alerta igual que una venta.
func TestReconcile_ItemNaceConStockBajo(t *testing.T) {
	tr := stock.Transition{Previous: stock.StatusAvailable, Current: stock.StatusLowStock}
	cmds := alerting.Reconcile(tr, testItem())
	require.Len(t, cmds, 1)
	assert.Equal(t, alerting.CommandCreate, cmds[0].Kind)
}
