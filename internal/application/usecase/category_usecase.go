package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// CategoryUseCase casos de uso de categorías.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	itemRepo     repository.ItemRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository, itemRepo repository.ItemRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, itemRepo: itemRepo}
}

// Create crea una categoría. El nombre es único (case-insensitive).
func (uc *CategoryUseCase) Create(in dto.CreateCategoryRequest, actor string) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		IsActive:    true,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(id string) (*dto.CategoryResponse, error) {
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	return toCategoryResponse(category), nil
}

// List lista categorías con paginación.
func (uc *CategoryUseCase) List(activeOnly bool, limit, offset int) (*dto.CategoryListResponse, error) {
	categories, total, err := uc.categoryRepo.List(activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryListResponse{
		Categories: make([]dto.CategoryResponse, 0, len(categories)),
		Page:       dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, *toCategoryResponse(c))
	}
	return out, nil
}

// Update edita una categoría. Si cambia el nombre valida la unicidad.
func (uc *CategoryUseCase) Update(id string, in dto.UpdateCategoryRequest, actor string) (*dto.CategoryResponse, error) {
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if !strings.EqualFold(name, category.Name) {
			existing, err := uc.categoryRepo.GetByName(name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, domain.ErrDuplicate
			}
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.Icon != nil {
		category.Icon = *in.Icon
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	category.UpdatedBy = actor
	category.UpdatedAt = time.Now()

	if err := uc.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete elimina una categoría. Se rechaza si tiene items asociados.
func (uc *CategoryUseCase) Delete(id string) error {
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	count, err := uc.itemRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryHasItems
	}
	return uc.categoryRepo.Delete(id)
}

// Stats conteos de categorías y el top por número de items.
func (uc *CategoryUseCase) Stats(topLimit int) (*dto.CategoryStatsResponse, error) {
	stats, err := uc.categoryRepo.Stats(topLimit)
	if err != nil {
		return nil, err
	}
	top := make([]dto.CategoryCountDTO, 0, len(stats.TopCategories))
	for _, c := range stats.TopCategories {
		top = append(top, dto.CategoryCountDTO{ID: c.ID, Name: c.Name, ItemCount: c.ItemCount})
	}
	return &dto.CategoryStatsResponse{
		Total:         stats.Total,
		Active:        stats.Active,
		WithItems:     stats.WithItems,
		TopCategories: top,
	}, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		ItemCount:   c.ItemCount,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
