package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name, description, color, icon, item_count, is_active,
	created_by, updated_by, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, color, icon, item_count, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, nullIfEmpty(category.Description),
		nullIfEmpty(category.Color), nullIfEmpty(category.Icon),
		category.ItemCount, category.IsActive, nullIfEmpty(category.CreatedBy),
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return r.getOne(query, id, "get category by id")
}

// GetByName obtiene una categoría por nombre (case-insensitive).
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE lower(name) = lower($1)`
	return r.getOne(query, name, "get category by name")
}

// Update actualiza una categoría.
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `
		UPDATE categories SET name = $2, description = $3, color = $4, icon = $5,
			is_active = $6, updated_by = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, nullIfEmpty(category.Description),
		nullIfEmpty(category.Color), nullIfEmpty(category.Icon),
		category.IsActive, nullIfEmpty(category.UpdatedBy), category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// List lista categorías con paginación.
func (r *CategoryRepo) List(activeOnly bool, limit, offset int) ([]*entity.Category, int64, error) {
	cond := "1=1"
	if activeOnly {
		cond = "is_active = true"
	}

	var total int64
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM categories WHERE `+cond).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM categories WHERE %s ORDER BY name LIMIT $1 OFFSET $2`, categoryColumns, cond)
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// AdjustItemCount suma delta al contador de items (nunca baja de cero).
func (r *CategoryRepo) AdjustItemCount(id string, delta int64) error {
	query := `UPDATE categories SET item_count = GREATEST(item_count + $2, 0), updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust category item count: %w", err)
	}
	return nil
}

// Stats conteos generales y el top de categorías por número de items.
func (r *CategoryRepo) Stats(topLimit int) (*repository.CategoryStats, error) {
	var stats repository.CategoryStats
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE is_active),
		       count(*) FILTER (WHERE item_count > 0)
		FROM categories`
	if err := r.q.QueryRow(context.Background(), query).Scan(&stats.Total, &stats.Active, &stats.WithItems); err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	top := `
		SELECT id, name, item_count FROM categories
		WHERE is_active = true
		ORDER BY item_count DESC, name
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), top, topLimit)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c repository.CategoryCount
		if err := rows.Scan(&c.ID, &c.Name, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("category stats: %w", err)
		}
		stats.TopCategories = append(stats.TopCategories, c)
	}
	return &stats, rows.Err()
}

// Delete elimina una categoría por ID.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) getOne(query, arg, op string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var description, color, icon, createdBy, updatedBy *string
	err := row.Scan(
		&c.ID, &c.Name, &description, &color, &icon, &c.ItemCount, &c.IsActive,
		&createdBy, &updatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Description = derefStr(description)
	c.Color = derefStr(color)
	c.Icon = derefStr(icon)
	c.CreatedBy = derefStr(createdBy)
	c.UpdatedBy = derefStr(updatedBy)
	return &c, nil
}
