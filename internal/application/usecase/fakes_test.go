package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// Fakes en memoria para los tests de esta capa.

type memAlertRepo struct {
	alerts map[string]*entity.Alert
}

func newMemAlertRepo() *memAlertRepo { return &memAlertRepo{alerts: map[string]*entity.Alert{}} }

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

func (r *memAlertRepo) ResolveAllForItem(itemID string, types []string, notes string, at time.Time) (int64, error) {
	return 0, nil
}

func (r *memAlertRepo) Update(a *entity.Alert) error {
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *memAlertRepo) List(filter repository.AlertFilter, limit, offset int) ([]*entity.Alert, int64, error) {
	var out []*entity.Alert
	for _, a := range r.alerts {
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
	stats := &repository.AlertStats{BySeverity: map[string]int64{}, ByType: map[string]int64{}}
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

func (r *memCategoryRepo) AdjustItemCount(string, int64) error { return nil }

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

// stubItemRepo solo responde CountByCategory; el resto no se usa aquí.
type stubItemRepo struct {
	countByCategory int64
}

func (r *stubItemRepo) Create(*entity.Item) error                   { return nil }
func (r *stubItemRepo) GetByID(string) (*entity.Item, error)        { return nil, nil }
func (r *stubItemRepo) GetBySKU(string) (*entity.Item, error)       { return nil, nil }
func (r *stubItemRepo) GetForUpdate(string) (*entity.Item, error)   { return nil, nil }
func (r *stubItemRepo) Update(*entity.Item) error                   { return nil }
func (r *stubItemRepo) List(repository.ItemFilter, int, int) ([]*entity.Item, int64, error) {
	return nil, 0, nil
}
func (r *stubItemRepo) ListLowStock() ([]*entity.Item, error)      { return nil, nil }
func (r *stubItemRepo) Search(string, int) ([]*entity.Item, error) { return nil, nil }
func (r *stubItemRepo) CountByCategory(string) (int64, error)      { return r.countByCategory, nil }
func (r *stubItemRepo) AddRestockEntry(*entity.RestockEntry) error { return nil }
func (r *stubItemRepo) ListRestockHistory(string, int) ([]*entity.RestockEntry, error) {
	return nil, nil
}
func (r *stubItemRepo) InventoryStats() (*repository.InventoryStats, error) {
	return &repository.InventoryStats{}, nil
}
func (r *stubItemRepo) StatsByCategory() ([]repository.CategoryStockRow, error) {
	return nil, nil
}

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

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

func (r *memUserRepo) List(filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	var out []*entity.User
	for _, u := range r.users {
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
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
