package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

func engineFixture() (*inventory.AlertEngine, *memAlertRepo, *memUserRepo, *fakeNotifier) {
	alertRepo := newMemAlertRepo()
	userRepo := newMemUserRepo()
	notifier := &fakeNotifier{}
	userRepo.Create(&entity.User{ID: "admin-1", Email: "admin@tienda.co", Role: entity.RoleAdmin, IsActive: true})
	engine := inventory.NewAlertEngine(alertRepo, userRepo, notifier, logger.Nop())
	return engine, alertRepo, userRepo, notifier
}

func lowStockItem() *entity.Item {
	return &entity.Item{
		ID:                "item-1",
		SKU:               "CAF-001",
		Name:              "Café molido",
		StockQuantity:     3,
		LowStockThreshold: 10,
		Unit:              "piece",
		StockStatus:       stock.StatusLowStock,
	}
}

func TestAlertEngine_TransicionAStockBajoCreaYNotifica(t *testing.T) {
	engine, alertRepo, _, notifier := engineFixture()
	item := lowStockItem()

	engine.Apply(context.Background(), stock.Transition{
		Previous: stock.StatusAvailable,
		Current:  stock.StatusLowStock,
	}, item)

	assert.Equal(t, 1, alertRepo.openAlerts(item.ID, entity.AlertTypeLowStock))
	assert.Equal(t, []string{"admin@tienda.co"}, notifier.lowStockSent,
		"cada admin activo recibe el correo de stock bajo")

	alert, err := alertRepo.FindOpenByItemAndType(item.ID, entity.AlertTypeLowStock)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, entity.SeverityWarning, alert.Severity)
	assert.Equal(t, item.StockQuantity, alert.Metadata.CurrentStock)
	require.NotNil(t, alert.ExpiresAt, "las alertas de stock expiran")
}

// A lo sumo una alerta sin resolver por (item, tipo): repetir la transición
// no duplica la alerta ni reenvía el correo.
func TestAlertEngine_AlertaAbiertaEsIdempotente(t *testing.T) {
	engine, alertRepo, _, notifier := engineFixture()
	item := lowStockItem()
	tr := stock.Transition{Previous: stock.StatusAvailable, Current: stock.StatusLowStock}

	engine.Apply(context.Background(), tr, item)
	engine.Apply(context.Background(), tr, item)

	assert.Equal(t, 1, alertRepo.openAlerts(item.ID, entity.AlertTypeLowStock))
	assert.Len(t, notifier.lowStockSent, 1)
}

func TestAlertEngine_AgotadoEsCriticoYNotificaAparte(t *testing.T) {
	engine, alertRepo, _, notifier := engineFixture()
	item := lowStockItem()
	item.StockQuantity = 0
	item.StockStatus = stock.StatusOutOfStock

	engine.Apply(context.Background(), stock.Transition{
		Previous: stock.StatusLowStock,
		Current:  stock.StatusOutOfStock,
	}, item)

	alert, err := alertRepo.FindOpenByItemAndType(item.ID, entity.AlertTypeOutOfStock)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, entity.SeverityCritical, alert.Severity)
	assert.Len(t, notifier.outStockSent, 1)
	assert.Empty(t, notifier.lowStockSent)
}

// Reponer stock sobre el umbral resuelve las alertas de stock abiertas.
func TestAlertEngine_ReponerStockAutoResuelve(t *testing.T) {
	engine, alertRepo, _, _ := engineFixture()
	item := lowStockItem()

	engine.Apply(context.Background(), stock.Transition{
		Previous: stock.StatusAvailable,
		Current:  stock.StatusLowStock,
	}, item)
	require.Equal(t, 1, alertRepo.openAlerts(item.ID, entity.AlertTypeLowStock))

	item.StockQuantity = 50
	item.StockStatus = stock.StatusAvailable
	engine.Apply(context.Background(), stock.Transition{
		Previous: stock.StatusLowStock,
		Current:  stock.StatusAvailable,
	}, item)

	assert.Equal(t, 0, alertRepo.openAlerts(item.ID, entity.AlertTypeLowStock))
}

func TestAlertEngine_SinCambioNoHaceNada(t *testing.T) {
	engine, alertRepo, _, notifier := engineFixture()
	item := lowStockItem()

	engine.Apply(context.Background(), stock.Transition{
		Previous: stock.StatusLowStock,
		Current:  stock.StatusLowStock,
	}, item)

	assert.Equal(t, 0, alertRepo.openAlerts(item.ID, entity.AlertTypeLowStock))
	assert.Empty(t, notifier.lowStockSent)
}

func TestAlertEngine_FalloDeCorreoNoBloqueaOtrosAdmins(t *testing.T) {
	engine, alertRepo, userRepo, notifier := engineFixture()
	userRepo.Create(&entity.User{ID: "admin-2", Email: "admin2@tienda.co", Role: entity.RoleAdmin, IsActive: true})
	notifier.failFor = map[string]error{"admin@tienda.co": errors.New("smtp caído")}
	item := lowStockItem()

	engine.Apply(context.Background(), stock.Transition{
		Previous: stock.StatusAvailable,
		Current:  stock.StatusLowStock,
	}, item)

	require.Equal(t, 1, alertRepo.openAlerts(item.ID, entity.AlertTypeLowStock))
	assert.Equal(t, []string{"admin2@tienda.co"}, notifier.lowStockSent)
}
