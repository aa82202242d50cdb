package entity

import "time"

// Category representa una categoría de productos.
// ItemCount se mantiene al crear/eliminar items; no se acepta del cliente.
type Category struct {
	ID          string
	Name        string // único
	Description string
	Color       string
	Icon        string
	ItemCount   int64
	IsActive    bool
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
