package inventory_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// Fakes en memoria para los tests de casos de uso. Implementan los puertos de
// persistencia sin concurrencia: los tests son secuenciales.

// ── ItemRepository ────────────────────────────────────────────────────────────

type memItemRepo struct {
	items         map[string]*entity.Item
	restocks      []*entity.RestockEntry
	categoryNames map[string]string
	skuErr        error // fallo inyectable en GetBySKU
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[string]*entity.Item{}, categoryNames: map[string]string{}}
}

func (r *memItemRepo) Create(item *entity.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	if r.skuErr != nil {
		return nil, r.skuErr
	}
	for _, item := range r.items {
		if item.SKU == strings.ToUpper(sku) {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) Update(item *entity.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) List(_ repository.ItemFilter, limit, offset int) ([]*entity.Item, int64, error) {
	var out []*entity.Item
	for _, item := range r.items {
		cp := *item
		out = append(out, &cp)
	}
	return out, int64(len(r.items)), nil
}

func (r *memItemRepo) ListLowStock() ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.items {
		if item.StockStatus != "available" {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memItemRepo) Search(query string, limit int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.items {
		if strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memItemRepo) CountByCategory(categoryID string) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.CategoryID == categoryID && item.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *memItemRepo) AddRestockEntry(entry *entity.RestockEntry) error {
	cp := *entry
	r.restocks = append(r.restocks, &cp)
	return nil
}

func (r *memItemRepo) ListRestockHistory(itemID string, limit int) ([]*entity.RestockEntry, error) {
	var out []*entity.RestockEntry
	for _, e := range r.restocks {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memItemRepo) InventoryStats() (*repository.InventoryStats, error) {
	stats := &repository.InventoryStats{
		InventoryValue:   decimal.Zero,
		PotentialRevenue: decimal.Zero,
	}
	for _, item := range r.items {
		stats.TotalItems++
		if item.IsActive {
			stats.ActiveItems++
		}
		stats.TotalStockUnits += item.StockQuantity
	}
	return stats, nil
}

func (r *memItemRepo) StatsByCategory() ([]repository.CategoryStockRow, error) {
	byCat := map[string]*repository.CategoryStockRow{}
	var order []string
	for _, item := range r.items {
		if !item.IsActive {
			continue
		}
		row, ok := byCat[item.CategoryID]
		if !ok {
			row = &repository.CategoryStockRow{
				CategoryID:       item.CategoryID,
				InventoryValue:   decimal.Zero,
				PotentialRevenue: decimal.Zero,
			}
			byCat[item.CategoryID] = row
			order = append(order, item.CategoryID)
		}
		qty := decimal.NewFromInt(item.StockQuantity)
		row.ItemCount++
		row.StockUnits += item.StockQuantity
		row.InventoryValue = row.InventoryValue.Add(item.CostPrice.Mul(qty))
		row.PotentialRevenue = row.PotentialRevenue.Add(item.SellingPrice.Mul(qty))
	}
	sort.Strings(order)
	out := make([]repository.CategoryStockRow, 0, len(order))
	for _, id := range order {
		byCat[id].CategoryName = r.categoryNames[id]
		out = append(out, *byCat[id])
	}
	return out, nil
}

// ── CategoryRepository ────────────────────────────────────────────────────────

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[string]*entity.Category{}}
}

func (r *memCategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) GetByName(name string) (*entity.Category, error) {
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) Update(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) List(bool, int, int) ([]*entity.Category, int64, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memCategoryRepo) AdjustItemCount(id string, delta int64) error {
	if c, ok := r.categories[id]; ok {
		c.ItemCount += delta
		if c.ItemCount < 0 {
			c.ItemCount = 0
		}
	}
	return nil
}

func (r *memCategoryRepo) Delete(id string) error {
	delete(r.categories, id)
	return nil
}

func (r *memCategoryRepo) Stats(topLimit int) (*repository.CategoryStats, error) {
	stats := &repository.CategoryStats{}
	for _, c := range r.categories {
		stats.Total++
		if c.IsActive {
			stats.Active++
			stats.TopCategories = append(stats.TopCategories,
				repository.CategoryCount{ID: c.ID, Name: c.Name, ItemCount: c.ItemCount})
		}
		if c.ItemCount > 0 {
			stats.WithItems++
		}
	}
	sort.Slice(stats.TopCategories, func(i, j int) bool {
		return stats.TopCategories[i].ItemCount > stats.TopCategories[j].ItemCount
	})
	if len(stats.TopCategories) > topLimit {
		stats.TopCategories = stats.TopCategories[:topLimit]
	}
	return stats, nil
}

// ── AlertRepository ───────────────────────────────────────────────────────────

type memAlertRepo struct {
	alerts map[string]*entity.Alert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: map[string]*entity.Alert{}}
}

func (r *memAlertRepo) Create(a *entity.Alert) error {
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *memAlertRepo) GetByID(id string) (*entity.Alert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAlertRepo) FindOpenByItemAndType(itemID, alertType string) (*entity.Alert, error) {
	for _, a := range r.alerts {
		if a.ItemID == itemID && a.Type == alertType && !a.IsResolved {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAlertRepo) ResolveAllForItem(itemID string, types []string, notes string, resolvedAt time.Time) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if a.ItemID != itemID || a.IsResolved {
			continue
		}
		for _, tp := range types {
			if a.Type == tp {
				a.IsResolved = true
				a.ResolutionNotes = notes
				a.ResolvedAt = &resolvedAt
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *memAlertRepo) Update(a *entity.Alert) error {
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *memAlertRepo) List(filter repository.AlertFilter, limit, offset int) ([]*entity.Alert, int64, error) {
	var out []*entity.Alert
	for _, a := range r.alerts {
		if filter.ItemID != "" && a.ItemID != filter.ItemID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memAlertRepo) MarkAllRead(userID string, readAt time.Time) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if !a.IsRead {
			a.IsRead = true
			a.ReadBy = append(a.ReadBy, entity.AlertRead{UserID: userID, ReadAt: readAt})
			n++
		}
	}
	return n, nil
}

func (r *memAlertRepo) Delete(id string) error {
	delete(r.alerts, id)
	return nil
}

func (r *memAlertRepo) DeleteResolvedBefore(cutoff time.Time) (int64, error) {
	var n int64
	for id, a := range r.alerts {
		if a.IsResolved && a.CreatedAt.Before(cutoff) {
			delete(r.alerts, id)
			n++
		}
	}
	return n, nil
}

func (r *memAlertRepo) Stats() (*repository.AlertStats, error) {
	stats := &repository.AlertStats{
		BySeverity: map[string]int64{},
		ByType:     map[string]int64{},
	}
	for _, a := range r.alerts {
		stats.Total++
		if !a.IsRead {
			stats.Unread++
		}
		if !a.IsResolved {
			stats.Unresolved++
		}
		stats.BySeverity[a.Severity]++
		stats.ByType[a.Type]++
	}
	return stats, nil
}

// openAlerts cuenta las alertas sin resolver del (item, tipo).
func (r *memAlertRepo) openAlerts(itemID, alertType string) int {
	n := 0
	for _, a := range r.alerts {
		if a.ItemID == itemID && a.Type == alertType && !a.IsResolved {
			n++
		}
	}
	return n
}

// ── UserRepository ────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(repository.UserFilter, int, int) ([]*entity.User, int64, error) {
	var out []*entity.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) ListActiveAdmins() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Role == entity.RoleAdmin && u.IsActive {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUserRepo) CountByRole() (map[string]int64, error) {
	out := map[string]int64{}
	for _, u := range r.users {
		out[u.Role]++
	}
	return out, nil
}

// ── Notifier ──────────────────────────────────────────────────────────────────

type fakeNotifier struct {
	lowStockSent  []string // destinatarios
	outStockSent  []string
	welcomeSent   []string
	resetOTPsSent []string
	failFor       map[string]error // fallo inyectable por destinatario
}

func (n *fakeNotifier) SendLowStockAlert(_ context.Context, to, _ string, _, _ int64) error {
	if err := n.failFor[to]; err != nil {
		return err
	}
	n.lowStockSent = append(n.lowStockSent, to)
	return nil
}

func (n *fakeNotifier) SendOutOfStockAlert(_ context.Context, to, _, _ string) error {
	if err := n.failFor[to]; err != nil {
		return err
	}
	n.outStockSent = append(n.outStockSent, to)
	return nil
}

func (n *fakeNotifier) SendWelcomeEmail(_ context.Context, to, _ string) error {
	n.welcomeSent = append(n.welcomeSent, to)
	return nil
}

func (n *fakeNotifier) SendPasswordResetOTP(_ context.Context, to, _ string) error {
	n.resetOTPsSent = append(n.resetOTPsSent, to)
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner pasa el repo en memoria directamente: sin transacciones reales.
type fakeTxRunner struct {
	itemRepo repository.ItemRepository
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.ItemRepository) error) error {
	return fn(r.itemRepo)
}
