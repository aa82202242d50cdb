package repository

import "github.com/jhoicas/pos-inventario-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	Update(category *entity.Category) error
	List(activeOnly bool, limit, offset int) ([]*entity.Category, int64, error)
	AdjustItemCount(id string, delta int64) error
	Delete(id string) error
	Stats(topLimit int) (*CategoryStats, error)
}

// CategoryStats conteos de categorías y las de mayor inventario.
type CategoryStats struct {
	Total         int64
	Active        int64
	WithItems     int64
	TopCategories []CategoryCount
}

// CategoryCount categoría con su número de items.
type CategoryCount struct {
	ID        string
	Name      string
	ItemCount int64
}
