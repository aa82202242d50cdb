package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon" validate:"omitempty,max=50"`
}

// UpdateCategoryRequest campos editables de una categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	ItemCount   int64     `json:"item_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Page       PageResponse       `json:"page"`
}

// CategoryStatsResponse conteos de categorías y el top por número de items.
type CategoryStatsResponse struct {
	Total         int64              `json:"total"`
	Active        int64              `json:"active"`
	WithItems     int64              `json:"with_items"`
	TopCategories []CategoryCountDTO `json:"top_categories"`
}

// CategoryCountDTO categoría con su número de items.
type CategoryCountDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int64  `json:"item_count"`
}
