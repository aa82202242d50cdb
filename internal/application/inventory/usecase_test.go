package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

type itemFixture struct {
	uc        *inventory.ItemUseCase
	itemRepo  *memItemRepo
	catRepo   *memCategoryRepo
	alertRepo *memAlertRepo
}

func newItemFixture() *itemFixture {
	itemRepo := newMemItemRepo()
	catRepo := newMemCategoryRepo()
	alertRepo := newMemAlertRepo()
	userRepo := newMemUserRepo()
	engine := inventory.NewAlertEngine(alertRepo, userRepo, &fakeNotifier{}, logger.Nop())
	uc := inventory.NewItemUseCase(&fakeTxRunner{itemRepo: itemRepo}, itemRepo, catRepo, engine, logger.Nop())

	catRepo.Create(&entity.Category{ID: "cat-1", Name: "Bebidas", IsActive: true})
	return &itemFixture{uc: uc, itemRepo: itemRepo, catRepo: catRepo, alertRepo: alertRepo}
}

func (f *itemFixture) createItem(t *testing.T, qty int64, threshold int64) *dto.ItemResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), dto.CreateItemRequest{
		Name:              "Gaseosa 1.5L",
		CategoryID:        "cat-1",
		CostPrice:         decimal.RequireFromString("2000"),
		SellingPrice:      decimal.RequireFromString("3500"),
		StockQuantity:     qty,
		LowStockThreshold: &threshold,
	}, "user-1")
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

func TestItemCreate_DerivaEstadoYGeneraSKU(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 50, 10)

	assert.Equal(t, stock.StatusAvailable, out.StockStatus)
	assert.NotEmpty(t, out.SKU, "sin SKU del cliente se genera uno")
	assert.True(t, out.IsActive)

	cat, _ := f.catRepo.GetByID("cat-1")
	assert.Equal(t, int64(1), cat.ItemCount, "crear un item incrementa el contador de la categoría")
}

func TestItemCreate_CategoriaInexistenteFalla(t *testing.T) {
	f := newItemFixture()
	_, err := f.uc.Create(context.Background(), dto.CreateItemRequest{
		Name:       "Huérfano",
		CategoryID: "no-existe",
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un item que nace bajo el umbral dispara la alerta de stock bajo de inmediato.
func TestItemCreate_NaceConStockBajoGeneraAlerta(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 5, 10)

	assert.Equal(t, stock.StatusLowStock, out.StockStatus)
	assert.Equal(t, 1, f.alertRepo.openAlerts(out.ID, entity.AlertTypeLowStock))
}

func TestItemCreate_NaceDisponibleNoGeneraAlerta(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 50, 10)
	assert.Equal(t, 0, f.alertRepo.openAlerts(out.ID, entity.AlertTypeLowStock))
}

// El fallo al consultar el SKU se propaga tal cual, no se confunde con duplicado.
func TestItemCreate_ErrorAlConsultarSKUSePropaga(t *testing.T) {
	f := newItemFixture()
	caido := errors.New("conexión perdida")
	f.itemRepo.skuErr = caido

	_, err := f.uc.Create(context.Background(), dto.CreateItemRequest{
		Name:         "Gaseosa 1.5L",
		CategoryID:   "cat-1",
		CostPrice:    decimal.RequireFromString("2000"),
		SellingPrice: decimal.RequireFromString("3500"),
	}, "user-1")
	assert.ErrorIs(t, err, caido)
	assert.Empty(t, f.itemRepo.items, "no se crea nada si la consulta falla")
}

// Nombres de categoría con caracteres multibyte producen un prefijo de SKU válido.
func TestItemCreate_SKUGeneradoConCategoriaMultibyte(t *testing.T) {
	f := newItemFixture()
	f.catRepo.Create(&entity.Category{ID: "cat-2", Name: "Ñame Fresco", IsActive: true})

	out, err := f.uc.Create(context.Background(), dto.CreateItemRequest{
		Name:         "Ñame kilo",
		CategoryID:   "cat-2",
		CostPrice:    decimal.RequireFromString("1000"),
		SellingPrice: decimal.RequireFromString("1800"),
	}, "user-1")
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(out.SKU), "el SKU no debe partir caracteres: %q", out.SKU)
	assert.True(t, strings.HasPrefix(out.SKU, "ÑAM-"), "prefijo = primeras tres runas; fue %q", out.SKU)
}

func TestReduceStock_DescuentaYAcumulaVentas(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 10, 3)

	require.NoError(t, f.uc.ReduceStock(context.Background(), out.ID, 3))

	item, _ := f.itemRepo.GetByID(out.ID)
	assert.Equal(t, int64(7), item.StockQuantity)
	assert.Equal(t, int64(3), item.TotalSold)
	assert.True(t, item.TotalRevenue.Equal(decimal.RequireFromString("10500")),
		"revenue acumulado = precio de venta x cantidad; fue %s", item.TotalRevenue)
	require.NotNil(t, item.LastSold)
}

func TestReduceStock_InsuficienteNoMuta(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 2, 1)

	err := f.uc.ReduceStock(context.Background(), out.ID, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	item, _ := f.itemRepo.GetByID(out.ID)
	assert.Equal(t, int64(2), item.StockQuantity, "el stock no cambia si la venta no alcanza")
	assert.Equal(t, int64(0), item.TotalSold)
}

// Vender hasta cruzar el umbral genera la alerta; agotar la escala a crítica.
func TestReduceStock_CruzarUmbralGeneraAlertas(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 12, 10)

	require.NoError(t, f.uc.ReduceStock(context.Background(), out.ID, 4))
	assert.Equal(t, 1, f.alertRepo.openAlerts(out.ID, entity.AlertTypeLowStock))

	require.NoError(t, f.uc.ReduceStock(context.Background(), out.ID, 8))
	assert.Equal(t, 1, f.alertRepo.openAlerts(out.ID, entity.AlertTypeOutOfStock))
}

func TestRestock_ReponeYAutoResuelve(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 2, 10) // nace con stock bajo → alerta abierta
	require.Equal(t, 1, f.alertRepo.openAlerts(out.ID, entity.AlertTypeLowStock))

	updated, err := f.uc.Restock(context.Background(), out.ID, dto.RestockRequest{
		Quantity: 48,
		Supplier: "Distribuidora Norte",
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(50), updated.StockQuantity)
	assert.Equal(t, stock.StatusAvailable, updated.StockStatus)
	assert.Equal(t, 0, f.alertRepo.openAlerts(out.ID, entity.AlertTypeLowStock),
		"reponer sobre el umbral auto-resuelve la alerta")

	history, err := f.uc.RestockHistory(out.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(48), history[0].Quantity)
	assert.Equal(t, "Distribuidora Norte", history[0].Supplier)
}

func TestRestock_CantidadInvalidaFalla(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 10, 3)
	_, err := f.uc.Restock(context.Background(), out.ID, dto.RestockRequest{Quantity: 0}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// RestoreStock repone con los valores congelados de la venta cancelada:
// revierte cantidad, totalSold y el revenue exacto.
func TestRestoreStock_RevierteVenta(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 10, 3)
	require.NoError(t, f.uc.ReduceStock(context.Background(), out.ID, 4))

	require.NoError(t, f.uc.RestoreStock(context.Background(), out.ID, 4, decimal.RequireFromString("14000")))

	item, _ := f.itemRepo.GetByID(out.ID)
	assert.Equal(t, int64(10), item.StockQuantity)
	assert.Equal(t, int64(0), item.TotalSold)
	assert.True(t, item.TotalRevenue.IsZero(), "revenue = %s", item.TotalRevenue)
}

func TestDelete_EsSoftEIdempotente(t *testing.T) {
	f := newItemFixture()
	out := f.createItem(t, 10, 3)

	require.NoError(t, f.uc.Delete(out.ID, "user-1"))
	item, _ := f.itemRepo.GetByID(out.ID)
	assert.False(t, item.IsActive)

	cat, _ := f.catRepo.GetByID("cat-1")
	assert.Equal(t, int64(0), cat.ItemCount)

	// Repetir el delete no vuelve a descontar el contador
	require.NoError(t, f.uc.Delete(out.ID, "user-1"))
	cat, _ = f.catRepo.GetByID("cat-1")
	assert.Equal(t, int64(0), cat.ItemCount)
}

func TestItemStatsByCategory_AgrupaPorCategoria(t *testing.T) {
	f := newItemFixture()
	f.itemRepo.categoryNames = map[string]string{"cat-1": "Bebidas", "cat-2": "Snacks"}

	f.itemRepo.Create(&entity.Item{
		ID: "item-1", SKU: "BEB-001", CategoryID: "cat-1", StockQuantity: 10,
		CostPrice: decimal.RequireFromString("2000"), SellingPrice: decimal.RequireFromString("3500"),
		IsActive: true,
	})
	f.itemRepo.Create(&entity.Item{
		ID: "item-2", SKU: "BEB-002", CategoryID: "cat-1", StockQuantity: 5,
		CostPrice: decimal.RequireFromString("1000"), SellingPrice: decimal.RequireFromString("1800"),
		IsActive: true,
	})
	f.itemRepo.Create(&entity.Item{
		ID: "item-3", SKU: "SNA-001", CategoryID: "cat-2", StockQuantity: 8,
		CostPrice: decimal.RequireFromString("500"), SellingPrice: decimal.RequireFromString("900"),
		IsActive: true,
	})
	// Los inactivos no cuentan en el desglose
	f.itemRepo.Create(&entity.Item{
		ID: "item-4", SKU: "SNA-002", CategoryID: "cat-2", StockQuantity: 99,
		CostPrice: decimal.RequireFromString("100"), SellingPrice: decimal.RequireFromString("200"),
	})

	rows, err := f.uc.StatsByCategory()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Bebidas", rows[0].CategoryName)
	assert.Equal(t, int64(2), rows[0].ItemCount)
	assert.Equal(t, int64(15), rows[0].StockUnits)
	assert.True(t, rows[0].InventoryValue.Equal(decimal.RequireFromString("25000")),
		"2000x10 + 1000x5; fue %s", rows[0].InventoryValue)
	assert.True(t, rows[0].PotentialRevenue.Equal(decimal.RequireFromString("44000")),
		"3500x10 + 1800x5; fue %s", rows[0].PotentialRevenue)

	assert.Equal(t, "Snacks", rows[1].CategoryName)
	assert.Equal(t, int64(1), rows[1].ItemCount)
	assert.Equal(t, int64(8), rows[1].StockUnits)
}
