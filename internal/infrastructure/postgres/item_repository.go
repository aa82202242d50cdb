package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, sku, barcode, name, description, category_id, images,
	cost_price, selling_price, stock_quantity, low_stock_threshold, stock_status,
	unit, tags, total_restocked, total_sold, total_revenue, last_restocked, last_sold,
	is_active, is_featured, created_by, updated_by, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL
// (usable con pool o tx). Las imágenes se guardan como JSONB y los tags
// como text[].
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo item.
func (r *ItemRepo) Create(item *entity.Item) error {
	images, err := json.Marshal(item.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	query := `
		INSERT INTO items (id, sku, barcode, name, description, category_id, images,
			cost_price, selling_price, stock_quantity, low_stock_threshold, stock_status,
			unit, tags, total_restocked, total_sold, total_revenue,
			is_active, is_featured, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err = r.q.Exec(context.Background(), query,
		item.ID, item.SKU, nullIfEmpty(item.Barcode), item.Name, nullIfEmpty(item.Description),
		item.CategoryID, images,
		item.CostPrice, item.SellingPrice, item.StockQuantity, item.LowStockThreshold, item.StockStatus,
		item.Unit, item.Tags, item.TotalRestocked, item.TotalSold, item.TotalRevenue,
		item.IsActive, item.IsFeatured, nullIfEmpty(item.CreatedBy), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.getOne(query, id, "get item by id")
}

// GetBySKU obtiene un item por SKU.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1`
	return r.getOne(query, strings.ToUpper(sku), "get item by sku")
}

// GetForUpdate obtiene un item bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id, "get item for update")
}

// Update actualiza un item completo.
func (r *ItemRepo) Update(item *entity.Item) error {
	images, err := json.Marshal(item.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	query := `
		UPDATE items SET sku = $2, barcode = $3, name = $4, description = $5, category_id = $6,
			images = $7, cost_price = $8, selling_price = $9, stock_quantity = $10,
			low_stock_threshold = $11, stock_status = $12, unit = $13, tags = $14,
			total_restocked = $15, total_sold = $16, total_revenue = $17,
			last_restocked = $18, last_sold = $19, is_active = $20, is_featured = $21,
			updated_by = $22, updated_at = $23
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		item.ID, item.SKU, nullIfEmpty(item.Barcode), item.Name, nullIfEmpty(item.Description),
		item.CategoryID, images, item.CostPrice, item.SellingPrice, item.StockQuantity,
		item.LowStockThreshold, item.StockStatus, item.Unit, item.Tags,
		item.TotalRestocked, item.TotalSold, item.TotalRevenue,
		item.LastRestocked, item.LastSold, item.IsActive, item.IsFeatured,
		nullIfEmpty(item.UpdatedBy), item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List lista items con filtros y paginación.
func (r *ItemRepo) List(filter repository.ItemFilter, limit, offset int) ([]*entity.Item, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1
	if filter.CategoryID != "" {
		where = append(where, fmt.Sprintf("category_id = $%d", i))
		args = append(args, filter.CategoryID)
		i++
	}
	if filter.StockStatus != "" {
		where = append(where, fmt.Sprintf("stock_status = $%d", i))
		args = append(args, filter.StockStatus)
		i++
	}
	if filter.IsActive != nil {
		where = append(where, fmt.Sprintf("is_active = $%d", i))
		args = append(args, *filter.IsActive)
		i++
	}
	if filter.MinPrice != nil {
		where = append(where, fmt.Sprintf("selling_price >= $%d", i))
		args = append(args, *filter.MinPrice)
		i++
	}
	if filter.MaxPrice != nil {
		where = append(where, fmt.Sprintf("selling_price <= $%d", i))
		args = append(args, *filter.MaxPrice)
		i++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM items WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		itemColumns, cond, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	list, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock items activos con stock bajo o agotado, los más urgentes primero.
func (r *ItemRepo) ListLowStock() ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE is_active = true AND stock_status IN ($1, $2)
		ORDER BY stock_quantity ASC`
	rows, err := r.q.Query(context.Background(), query, stock.StatusLowStock, stock.StatusOutOfStock)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Search busca por nombre, SKU, código de barras o tags.
func (r *ItemRepo) Search(query string, limit int) ([]*entity.Item, error) {
	sql := `
		SELECT ` + itemColumns + ` FROM items
		WHERE is_active = true
		  AND (name ILIKE $1 OR sku ILIKE $1 OR barcode ILIKE $1 OR $2 = ANY(tags))
		ORDER BY name LIMIT $3`
	rows, err := r.q.Query(context.Background(), sql, "%"+query+"%", query, limit)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// CountByCategory cuenta items de una categoría (activos e inactivos).
func (r *ItemRepo) CountByCategory(categoryID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM items WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items by category: %w", err)
	}
	return n, nil
}

// AddRestockEntry agrega una entrada al historial de reposición (append-only).
func (r *ItemRepo) AddRestockEntry(entry *entity.RestockEntry) error {
	query := `
		INSERT INTO restock_entries (id, item_id, quantity, cost_price, supplier, reference, notes, restocked_by, restocked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ItemID, entry.Quantity, entry.CostPrice,
		nullIfEmpty(entry.Supplier), nullIfEmpty(entry.Reference), nullIfEmpty(entry.Notes),
		entry.RestockedBy, entry.RestockedAt,
	)
	if err != nil {
		return fmt.Errorf("insert restock entry: %w", err)
	}
	return nil
}

// ListRestockHistory historial de reposición de un item, más reciente primero.
func (r *ItemRepo) ListRestockHistory(itemID string, limit int) ([]*entity.RestockEntry, error) {
	query := `
		SELECT id, item_id, quantity, cost_price, supplier, reference, notes, restocked_by, restocked_at
		FROM restock_entries WHERE item_id = $1 ORDER BY restocked_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list restock history: %w", err)
	}
	defer rows.Close()

	var list []*entity.RestockEntry
	for rows.Next() {
		var e entity.RestockEntry
		var supplier, reference, notes *string
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Quantity, &e.CostPrice,
			&supplier, &reference, &notes, &e.RestockedBy, &e.RestockedAt); err != nil {
			return nil, fmt.Errorf("scan restock entry: %w", err)
		}
		e.Supplier = derefStr(supplier)
		e.Reference = derefStr(reference)
		e.Notes = derefStr(notes)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// InventoryStats agregados de inventario en una sola consulta.
func (r *ItemRepo) InventoryStats() (*repository.InventoryStats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE is_active),
		       count(*) FILTER (WHERE is_active AND stock_status = $1),
		       count(*) FILTER (WHERE is_active AND stock_status = $2),
		       COALESCE(sum(stock_quantity) FILTER (WHERE is_active), 0),
		       COALESCE(sum(cost_price * stock_quantity) FILTER (WHERE is_active), 0),
		       COALESCE(sum(selling_price * stock_quantity) FILTER (WHERE is_active), 0)
		FROM items`
	var s repository.InventoryStats
	err := r.q.QueryRow(context.Background(), query, stock.StatusLowStock, stock.StatusOutOfStock).Scan(
		&s.TotalItems, &s.ActiveItems, &s.LowStockItems, &s.OutOfStockItems,
		&s.TotalStockUnits, &s.InventoryValue, &s.PotentialRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory stats: %w", err)
	}
	return &s, nil
}

// StatsByCategory valor de inventario agrupado por categoría activa.
func (r *ItemRepo) StatsByCategory() ([]repository.CategoryStockRow, error) {
	query := `
		SELECT c.id, c.name,
		       count(i.id),
		       COALESCE(sum(i.stock_quantity), 0),
		       COALESCE(sum(i.cost_price * i.stock_quantity), 0),
		       COALESCE(sum(i.selling_price * i.stock_quantity), 0)
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id AND i.is_active = true
		WHERE c.is_active = true
		GROUP BY c.id, c.name
		ORDER BY COALESCE(sum(i.cost_price * i.stock_quantity), 0) DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("stats by category: %w", err)
	}
	defer rows.Close()

	var out []repository.CategoryStockRow
	for rows.Next() {
		var row repository.CategoryStockRow
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.ItemCount,
			&row.StockUnits, &row.InventoryValue, &row.PotentialRevenue); err != nil {
			return nil, fmt.Errorf("stats by category: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ItemRepo) getOne(query, arg, op string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var barcode, description, createdBy, updatedBy *string
	var images []byte
	var totalRevenue decimal.Decimal
	err := row.Scan(
		&it.ID, &it.SKU, &barcode, &it.Name, &description, &it.CategoryID, &images,
		&it.CostPrice, &it.SellingPrice, &it.StockQuantity, &it.LowStockThreshold, &it.StockStatus,
		&it.Unit, &it.Tags, &it.TotalRestocked, &it.TotalSold, &totalRevenue,
		&it.LastRestocked, &it.LastSold, &it.IsActive, &it.IsFeatured,
		&createdBy, &updatedBy, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Barcode = derefStr(barcode)
	it.Description = derefStr(description)
	it.CreatedBy = derefStr(createdBy)
	it.UpdatedBy = derefStr(updatedBy)
	it.TotalRevenue = totalRevenue
	if len(images) > 0 {
		if err := json.Unmarshal(images, &it.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}
	return &it, nil
}

func scanItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
