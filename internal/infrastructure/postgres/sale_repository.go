package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, sale_number, total_amount, total_cost, total_profit, total_items,
	discount_type, discount_value, discount_amount, tax_type, tax_value, tax_amount,
	payment_method, payment_status, amount_paid, amount_due,
	customer_name, customer_phone, customer_email, customer_address,
	notes, status, sale_date, sold_by, refund_reason, refunded_at, refunded_by,
	ip_address, user_agent, created_at, updated_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Cabecera en sales, líneas congeladas en sale_items.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus líneas.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, total_amount, total_cost, total_profit, total_items,
			discount_type, discount_value, discount_amount, tax_type, tax_value, tax_amount,
			payment_method, payment_status, amount_paid, amount_due,
			customer_name, customer_phone, customer_email, customer_address,
			notes, status, sale_date, sold_by, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.SaleNumber, sale.TotalAmount, sale.TotalCost, sale.TotalProfit, sale.TotalItems,
		sale.Discount.Type, sale.Discount.Value, sale.Discount.Amount,
		sale.Tax.Type, sale.Tax.Value, sale.Tax.Amount,
		sale.PaymentMethod, sale.PaymentStatus, sale.AmountPaid, sale.AmountDue,
		nullIfEmpty(sale.Customer.Name), nullIfEmpty(sale.Customer.Phone),
		nullIfEmpty(sale.Customer.Email), nullIfEmpty(sale.Customer.Address),
		nullIfEmpty(sale.Notes), sale.Status, sale.SaleDate, sale.SoldBy,
		nullIfEmpty(sale.IPAddress), nullIfEmpty(sale.UserAgent),
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i := range sale.Items {
		si := &sale.Items[i]
		lineQuery := `
			INSERT INTO sale_items (id, sale_id, item_id, item_name, item_sku, quantity, unit_price, unit_cost, subtotal, profit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := r.q.Exec(context.Background(), lineQuery,
			si.ID, sale.ID, si.ItemID, si.ItemName, si.ItemSKU,
			si.Quantity, si.UnitPrice, si.UnitCost, si.Subtotal, si.Profit,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta completa por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.getOne(query, id, "get sale by id")
}

// GetByNumber obtiene una venta por su número.
func (r *SaleRepo) GetByNumber(saleNumber string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_number = $1`
	return r.getOne(query, saleNumber, "get sale by number")
}

// Update actualiza estado, pago y metadatos de reembolso. Las líneas son
// inmutables: nunca se reescriben.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET status = $2, payment_status = $3, amount_paid = $4, amount_due = $5,
			notes = $6, refund_reason = $7, refunded_at = $8, refunded_by = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Status, sale.PaymentStatus, sale.AmountPaid, sale.AmountDue,
		nullIfEmpty(sale.Notes), nullIfEmpty(sale.Refund.Reason), sale.Refund.RefundedAt,
		nullIfEmpty(sale.Refund.RefundedBy), sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List lista ventas con filtros y paginación, líneas incluidas.
func (r *SaleRepo) List(filter repository.SaleFilter, limit, offset int) ([]*entity.Sale, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.PaymentStatus != "" {
		where = append(where, fmt.Sprintf("payment_status = $%d", i))
		args = append(args, filter.PaymentStatus)
		i++
	}
	if filter.SoldBy != "" {
		where = append(where, fmt.Sprintf("sold_by = $%d", i))
		args = append(args, filter.SoldBy)
		i++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("sale_date >= $%d", i))
		args = append(args, *filter.StartDate)
		i++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("sale_date <= $%d", i))
		args = append(args, *filter.EndDate)
		i++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM sales WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY sale_date DESC LIMIT $%d OFFSET $%d`,
		saleColumns, cond, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, s := range list {
		if err := r.loadItems(s); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

// CountByDay cuenta las ventas registradas en el día calendario dado
// (secuencia del número de venta).
func (r *SaleRepo) CountByDay(day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM sales WHERE created_at >= $1 AND created_at < $2`, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales by day: %w", err)
	}
	return n, nil
}

// Stats agregados de ventas completadas en el rango.
func (r *SaleRepo) Stats(start, end time.Time) (*repository.SalesStats, error) {
	query := `
		SELECT count(*),
		       COALESCE(sum(total_amount), 0),
		       COALESCE(sum(total_profit), 0),
		       COALESCE(sum(total_items), 0),
		       COALESCE(avg(total_amount), 0)
		FROM sales
		WHERE status = $1 AND sale_date >= $2 AND sale_date <= $3`
	var s repository.SalesStats
	err := r.q.QueryRow(context.Background(), query, entity.SaleStatusCompleted, start, end).Scan(
		&s.TotalSales, &s.TotalRevenue, &s.TotalProfit, &s.TotalItemsSold, &s.AverageSaleValue,
	)
	if err != nil {
		return nil, fmt.Errorf("sales stats: %w", err)
	}
	return &s, nil
}

// TopSellingItems items más vendidos (por cantidad) en ventas completadas.
func (r *SaleRepo) TopSellingItems(start, end time.Time, limit int) ([]repository.TopItemResult, error) {
	query := `
		SELECT si.item_id, si.item_name, si.item_sku,
		       sum(si.quantity), sum(si.subtotal), sum(si.profit), count(DISTINCT si.sale_id)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = $1 AND s.sale_date >= $2 AND s.sale_date <= $3
		GROUP BY si.item_id, si.item_name, si.item_sku
		ORDER BY sum(si.quantity) DESC
		LIMIT $4`
	rows, err := r.q.Query(context.Background(), query, entity.SaleStatusCompleted, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top selling items: %w", err)
	}
	defer rows.Close()

	var list []repository.TopItemResult
	for rows.Next() {
		var t repository.TopItemResult
		if err := rows.Scan(&t.ItemID, &t.ItemName, &t.ItemSKU,
			&t.TotalQuantity, &t.TotalRevenue, &t.TotalProfit, &t.SalesCount); err != nil {
			return nil, fmt.Errorf("scan top item: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// DailyReport ventas completadas agrupadas por día calendario.
func (r *SaleRepo) DailyReport(start, end time.Time) ([]repository.DailySalesRow, error) {
	query := `
		SELECT date_trunc('day', sale_date),
		       count(*),
		       COALESCE(sum(total_amount), 0),
		       COALESCE(sum(total_profit), 0),
		       COALESCE(sum(total_items), 0)
		FROM sales
		WHERE status = $1 AND sale_date >= $2 AND sale_date <= $3
		GROUP BY 1 ORDER BY 1`
	rows, err := r.q.Query(context.Background(), query, entity.SaleStatusCompleted, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily sales report: %w", err)
	}
	defer rows.Close()

	var list []repository.DailySalesRow
	for rows.Next() {
		var row repository.DailySalesRow
		if err := rows.Scan(&row.Date, &row.TotalSales, &row.TotalRevenue, &row.TotalProfit, &row.TotalItems); err != nil {
			return nil, fmt.Errorf("scan daily sales row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// ByPaymentMethod ventas completadas agrupadas por método de pago.
func (r *SaleRepo) ByPaymentMethod(start, end time.Time) ([]repository.PaymentMethodRow, error) {
	query := `
		SELECT payment_method, count(*), COALESCE(sum(total_amount), 0)
		FROM sales
		WHERE status = $1 AND sale_date >= $2 AND sale_date <= $3
		GROUP BY payment_method ORDER BY count(*) DESC`
	rows, err := r.q.Query(context.Background(), query, entity.SaleStatusCompleted, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales by payment method: %w", err)
	}
	defer rows.Close()

	var list []repository.PaymentMethodRow
	for rows.Next() {
		var row repository.PaymentMethodRow
		if err := rows.Scan(&row.PaymentMethod, &row.Count, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan payment method row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *SaleRepo) getOne(query, arg, op string) (*entity.Sale, error) {
	sale, err := scanSale(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadItems(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *SaleRepo) loadItems(sale *entity.Sale) error {
	query := `
		SELECT id, item_id, item_name, item_sku, quantity, unit_price, unit_cost, subtotal, profit
		FROM sale_items WHERE sale_id = $1 ORDER BY item_name`
	rows, err := r.q.Query(context.Background(), query, sale.ID)
	if err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var si entity.SaleItem
		if err := rows.Scan(&si.ID, &si.ItemID, &si.ItemName, &si.ItemSKU,
			&si.Quantity, &si.UnitPrice, &si.UnitCost, &si.Subtotal, &si.Profit); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, si)
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerName, customerPhone, customerEmail, customerAddress *string
	var notes, refundReason, refundedBy, ipAddress, userAgent *string
	err := row.Scan(
		&s.ID, &s.SaleNumber, &s.TotalAmount, &s.TotalCost, &s.TotalProfit, &s.TotalItems,
		&s.Discount.Type, &s.Discount.Value, &s.Discount.Amount,
		&s.Tax.Type, &s.Tax.Value, &s.Tax.Amount,
		&s.PaymentMethod, &s.PaymentStatus, &s.AmountPaid, &s.AmountDue,
		&customerName, &customerPhone, &customerEmail, &customerAddress,
		&notes, &s.Status, &s.SaleDate, &s.SoldBy,
		&refundReason, &s.Refund.RefundedAt, &refundedBy,
		&ipAddress, &userAgent, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Customer = entity.SaleCustomer{
		Name:    derefStr(customerName),
		Phone:   derefStr(customerPhone),
		Email:   derefStr(customerEmail),
		Address: derefStr(customerAddress),
	}
	s.Notes = derefStr(notes)
	s.Refund.Reason = derefStr(refundReason)
	s.Refund.RefundedBy = derefStr(refundedBy)
	s.IPAddress = derefStr(ipAddress)
	s.UserAgent = derefStr(userAgent)
	return &s, nil
}
