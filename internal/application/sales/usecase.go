package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/inventory"
	"github.com/jhoicas/pos-inventario-api/internal/application/ports"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

// SaleUseCase casos de uso de ventas: creación con descuento de stock,
// cancelación compensatoria, consultas y recibo PDF.
type SaleUseCase struct {
	saleRepo repository.SaleRepository
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
	itemUC   *inventory.ItemUseCase
	pdfGen   ports.ReceiptPDFGenerator
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	itemUC *inventory.ItemUseCase,
	pdfGen ports.ReceiptPDFGenerator,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		saleRepo: saleRepo,
		itemRepo: itemRepo,
		userRepo: userRepo,
		itemUC:   itemUC,
		pdfGen:   pdfGen,
		log:      log,
	}
}

// Create registra una venta. Valida stock de TODAS las líneas antes de
// persistir (fail-fast: ninguna línea muta stock si alguna no alcanza),
// congela precio y costo por línea, calcula totales y luego descuenta stock
// línea por línea. El precio unitario puede venir del request (override) pero
// el costo congelado es siempre el del item al momento de vender.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest, soldBy, ipAddress, userAgent string) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Primera pasada: validar y congelar snapshots sin mutar nada
	saleItems := make([]entity.SaleItem, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || !item.IsActive {
			return nil, fmt.Errorf("item %s: %w", line.ItemID, domain.ErrNotFound)
		}
		if item.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("item %s (stock %d, pedido %d): %w",
				item.SKU, item.StockQuantity, line.Quantity, domain.ErrInsufficientStock)
		}
		unitPrice := item.SellingPrice
		if line.UnitPrice != nil && !line.UnitPrice.IsNegative() {
			unitPrice = *line.UnitPrice
		}
		qty := decimal.NewFromInt(line.Quantity)
		saleItems = append(saleItems, entity.SaleItem{
			ID:        uuid.New().String(),
			ItemID:    item.ID,
			ItemName:  item.Name,
			ItemSKU:   item.SKU,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			UnitCost:  item.CostPrice,
			Subtotal:  unitPrice.Mul(qty),
			Profit:    unitPrice.Sub(item.CostPrice).Mul(qty),
		})
	}

	totals := ComputeTotals(saleItems,
		entity.Adjustment{Type: in.Discount.Type, Value: in.Discount.Value},
		entity.Adjustment{Type: in.Tax.Type, Value: in.Tax.Value},
	)

	now := time.Now()
	saleNumber, err := uc.nextSaleNumber(now)
	if err != nil {
		return nil, err
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.PaymentMethodCash
	}
	amountPaid := in.AmountPaid
	if amountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	amountDue := totals.TotalAmount.Sub(amountPaid)
	if amountDue.IsNegative() {
		amountDue = decimal.Zero
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		SaleNumber:    saleNumber,
		Items:         saleItems,
		TotalAmount:   totals.TotalAmount,
		TotalCost:     totals.TotalCost,
		TotalProfit:   totals.TotalProfit,
		TotalItems:    totals.TotalItems,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		PaymentMethod: paymentMethod,
		PaymentStatus: DerivePaymentStatus(amountPaid, totals.TotalAmount),
		AmountPaid:    amountPaid,
		AmountDue:     amountDue,
		Customer: entity.SaleCustomer{
			Name:    in.Customer.Name,
			Phone:   in.Customer.Phone,
			Email:   in.Customer.Email,
			Address: in.Customer.Address,
		},
		Notes:     in.Notes,
		Status:    entity.SaleStatusCompleted,
		SaleDate:  now,
		SoldBy:    soldBy,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.saleRepo.Create(sale); err != nil {
		return nil, err
	}

	// Segunda pasada: descontar stock línea por línea. Cada línea es
	// independiente; un fallo (carrera perdida tras la validación) se loguea
	// y no invalida la venta ya registrada.
	for _, si := range sale.Items {
		if err := uc.itemUC.ReduceStock(ctx, si.ItemID, si.Quantity); err != nil {
			uc.log.Error().Err(err).
				Str("sale_number", sale.SaleNumber).
				Str("item_id", si.ItemID).
				Int64("quantity", si.Quantity).
				Msg("no se pudo descontar stock de la línea de venta")
		}
	}

	return toSaleResponse(sale), nil
}

// Cancel cancela una venta completada mediante transacción compensatoria:
// repone el stock de cada línea usando las cantidades y subtotales congelados
// en la venta (nunca recalcula con precios actuales) y registra el motivo.
func (uc *SaleUseCase) Cancel(ctx context.Context, id string, in dto.CancelSaleRequest, cancelledBy string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrSaleNotCancellable
	}

	now := time.Now()
	sale.Status = entity.SaleStatusCancelled
	sale.PaymentStatus = entity.PaymentStatusRefunded
	sale.Refund = entity.RefundInfo{
		Reason:     in.Reason,
		RefundedAt: &now,
		RefundedBy: cancelledBy,
	}
	sale.UpdatedAt = now

	if err := uc.saleRepo.Update(sale); err != nil {
		return nil, err
	}

	for _, si := range sale.Items {
		if err := uc.itemUC.RestoreStock(ctx, si.ItemID, si.Quantity, si.Subtotal); err != nil {
			uc.log.Error().Err(err).
				Str("sale_number", sale.SaleNumber).
				Str("item_id", si.ItemID).
				Int64("quantity", si.Quantity).
				Msg("no se pudo reponer stock de la línea cancelada")
		}
	}

	return toSaleResponse(sale), nil
}

// RecordPayment registra un abono sobre una venta completada con saldo
// pendiente. El estado de pago se re-deriva, nunca lo fija el cliente.
func (uc *SaleUseCase) RecordPayment(id string, in dto.RecordPaymentRequest) (*dto.SaleResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrConflict
	}
	if sale.PaymentStatus == entity.PaymentStatusPaid {
		return nil, domain.ErrConflict
	}

	sale.AmountPaid = sale.AmountPaid.Add(in.Amount)
	due := sale.TotalAmount.Sub(sale.AmountPaid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	sale.AmountDue = due
	sale.PaymentStatus = DerivePaymentStatus(sale.AmountPaid, sale.TotalAmount)
	sale.UpdatedAt = time.Now()

	if err := uc.saleRepo.Update(sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetByID obtiene una venta por ID.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// GetByNumber obtiene una venta por su número SALE-YYMMDD-NNNN.
func (uc *SaleUseCase) GetByNumber(saleNumber string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByNumber(saleNumber)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List lista ventas con filtros y paginación.
func (uc *SaleUseCase) List(filter repository.SaleFilter, limit, offset int) (*dto.SaleListResponse, error) {
	sales, total, err := uc.saleRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Sales: make([]dto.SaleResponse, 0, len(sales)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, s := range sales {
		out.Sales = append(out.Sales, *toSaleResponse(s))
	}
	return out, nil
}

// Stats agregados de ventas completadas en un rango.
func (uc *SaleUseCase) Stats(start, end time.Time) (*dto.SalesStatsResponse, error) {
	stats, err := uc.saleRepo.Stats(start, end)
	if err != nil {
		return nil, err
	}
	margin := decimal.Zero
	if stats.TotalRevenue.IsPositive() {
		margin = stats.TotalProfit.Div(stats.TotalRevenue).Mul(hundred)
	}
	return &dto.SalesStatsResponse{
		Start:            start,
		End:              end,
		TotalSales:       stats.TotalSales,
		TotalRevenue:     stats.TotalRevenue,
		TotalProfit:      stats.TotalProfit,
		TotalItemsSold:   stats.TotalItemsSold,
		AverageSaleValue: stats.AverageSaleValue,
		ProfitMargin:     margin,
	}, nil
}

// TopSellingItems items más vendidos en el rango.
func (uc *SaleUseCase) TopSellingItems(start, end time.Time, limit int) ([]dto.TopItemDTO, error) {
	rows, err := uc.saleRepo.TopSellingItems(start, end, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopItemDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopItemDTO{
			ItemID:        r.ItemID,
			ItemName:      r.ItemName,
			ItemSKU:       r.ItemSKU,
			TotalQuantity: r.TotalQuantity,
			TotalRevenue:  r.TotalRevenue,
			TotalProfit:   r.TotalProfit,
			SalesCount:    r.SalesCount,
		})
	}
	return out, nil
}

// DailyReport reporte diario de ventas en el rango.
func (uc *SaleUseCase) DailyReport(start, end time.Time) ([]dto.DailySalesDTO, error) {
	rows, err := uc.saleRepo.DailyReport(start, end)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailySalesDTO, 0, len(rows))
	for _, r := range rows {
		avg := decimal.Zero
		if r.TotalSales > 0 {
			avg = r.TotalRevenue.Div(decimal.NewFromInt(r.TotalSales))
		}
		out = append(out, dto.DailySalesDTO{
			Date:             r.Date,
			TotalSales:       r.TotalSales,
			TotalRevenue:     r.TotalRevenue,
			TotalProfit:      r.TotalProfit,
			TotalItems:       r.TotalItems,
			AverageSaleValue: avg,
		})
	}
	return out, nil
}

// MonthlyReport reporte mensual: agrega las filas diarias por mes calendario.
func (uc *SaleUseCase) MonthlyReport(start, end time.Time) ([]dto.MonthlySalesDTO, error) {
	rows, err := uc.saleRepo.DailyReport(start, end)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*dto.MonthlySalesDTO)
	var months []string
	for _, r := range rows {
		key := r.Date.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &dto.MonthlySalesDTO{Month: key, TotalRevenue: decimal.Zero, TotalProfit: decimal.Zero}
			byMonth[key] = m
			months = append(months, key)
		}
		m.TotalSales += r.TotalSales
		m.TotalRevenue = m.TotalRevenue.Add(r.TotalRevenue)
		m.TotalProfit = m.TotalProfit.Add(r.TotalProfit)
		m.TotalItems += r.TotalItems
	}

	sort.Strings(months)
	out := make([]dto.MonthlySalesDTO, 0, len(months))
	for _, key := range months {
		m := byMonth[key]
		if m.TotalSales > 0 {
			m.AverageSaleValue = m.TotalRevenue.Div(decimal.NewFromInt(m.TotalSales))
		} else {
			m.AverageSaleValue = decimal.Zero
		}
		out = append(out, *m)
	}
	return out, nil
}

// Receipt genera el recibo PDF de una venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	soldBy, err := uc.userRepo.GetByID(sale.SoldBy)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", sale.SoldBy).Msg("no se pudo resolver el vendedor para el recibo")
	}
	return uc.pdfGen.GenerateReceipt(ctx, sale, soldBy)
}

// nextSaleNumber genera el número SALE-YYMMDD-NNNN: secuencia diaria basada
// en las ventas ya registradas en el día.
func (uc *SaleUseCase) nextSaleNumber(now time.Time) (string, error) {
	count, err := uc.saleRepo.CountByDay(now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SALE-%s-%04d", now.Format("060102"), count+1), nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, si := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ItemID:    si.ItemID,
			ItemName:  si.ItemName,
			ItemSKU:   si.ItemSKU,
			Quantity:  si.Quantity,
			UnitPrice: si.UnitPrice,
			UnitCost:  si.UnitCost,
			Subtotal:  si.Subtotal,
			Profit:    si.Profit,
		})
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		Items:         items,
		TotalAmount:   s.TotalAmount,
		TotalCost:     s.TotalCost,
		TotalProfit:   s.TotalProfit,
		TotalItems:    s.TotalItems,
		Discount:      dto.AdjustmentResponse{Type: s.Discount.Type, Value: s.Discount.Value, Amount: s.Discount.Amount},
		Tax:           dto.AdjustmentResponse{Type: s.Tax.Type, Value: s.Tax.Value, Amount: s.Tax.Amount},
		PaymentMethod: s.PaymentMethod,
		PaymentStatus: s.PaymentStatus,
		AmountPaid:    s.AmountPaid,
		AmountDue:     s.AmountDue,
		Customer: dto.SaleCustomerDTO{
			Name:    s.Customer.Name,
			Phone:   s.Customer.Phone,
			Email:   s.Customer.Email,
			Address: s.Customer.Address,
		},
		Notes:        s.Notes,
		Status:       s.Status,
		SaleDate:     s.SaleDate,
		SoldBy:       s.SoldBy,
		RefundReason: s.Refund.Reason,
		RefundedAt:   s.Refund.RefundedAt,
		RefundedBy:   s.Refund.RefundedBy,
		CreatedAt:    s.CreatedAt,
	}
}
