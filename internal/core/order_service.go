package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateOrderInput carries the fields needed to create a sales or purchase order.
type CreateOrderInput struct {
	CompanyCode          string
	Kind                 OrderKind
	PartyCode            string // customer code (sales) or supplier code (purchase)
	OrderDate            string // YYYY-MM-DD
	ExpectedDeliveryDate *time.Time
	DiscountType         DiscountType
	DiscountValue        decimal.Decimal
	GSTRatePercent       decimal.Decimal
	Lines                []OrderLineInput
	Notes                string
}

// OrderService manages master data and the order lifecycle for both sales
// and purchase orders. Orders are created in approval_pending, move to
// in_progress on approval (which assigns a gapless number), and end in
// completed or cancelled. Query results are decorated with the read-time
// display status and completion percentage.
type OrderService interface {
	// Master data
	CreateCustomer(ctx context.Context, companyCode string, c Customer) (*Customer, error)
	GetCustomers(ctx context.Context, companyCode string) ([]Customer, error)
	CreateSupplier(ctx context.Context, companyCode string, s Supplier) (*Supplier, error)
	GetSuppliers(ctx context.Context, companyCode string) ([]Supplier, error)
	CreateProduct(ctx context.Context, companyCode string, p Product) (*Product, error)
	GetProducts(ctx context.Context, companyCode string) ([]Product, error)

	// Order lifecycle
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	// ApproveOrder transitions approval_pending → in_progress and assigns the order number.
	ApproveOrder(ctx context.Context, orderID int, docService DocumentService) (*Order, error)
	// CompleteOrder transitions in_progress → completed. Every line must be fully dispatched.
	CompleteOrder(ctx context.Context, orderID int) (*Order, error)
	// CancelOrder transitions approval_pending or in_progress → cancelled.
	CancelOrder(ctx context.Context, orderID int) (*Order, error)

	// Queries
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	GetOrders(ctx context.Context, companyCode string, kind OrderKind, status *OrderStatus) ([]Order, error)
	GetOrderByNumber(ctx context.Context, companyCode, orderNumber string) (*Order, error)
}

type orderService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewOrderService constructs an OrderService. The clock is injectable so
// display-status derivation is deterministic under test; pass nil for the
// system clock.
func NewOrderService(pool *pgxpool.Pool, now func() time.Time) OrderService {
	if now == nil {
		now = time.Now
	}
	return &orderService{pool: pool, now: now}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx (for Query).
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// resolveCompanyID looks up the internal company ID from a company code.
func resolveCompanyID(ctx context.Context, q pgxQuerier, companyCode string) (int, error) {
	var id int
	err := q.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", companyCode).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("company code %s not found", companyCode)
		}
		return 0, fmt.Errorf("failed to resolve company %s: %w", companyCode, err)
	}
	return id, nil
}

// partyTable returns the master-data table holding the order's counterparty.
func partyTable(kind OrderKind) string {
	if kind == OrderKindPurchase {
		return "suppliers"
	}
	return "customers"
}

// ── Master Data ──────────────────────────────────────────────────────────────

func (s *orderService) CreateCustomer(ctx context.Context, companyCode string, c Customer) (*Customer, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	var out Customer
	err = s.pool.QueryRow(ctx, `
		INSERT INTO customers (company_id, code, name, gstin, state_code, email, phone, address, credit_limit, payment_terms_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, company_id, code, name, gstin, state_code, email, phone, address, credit_limit, payment_terms_days, created_at
	`, companyID, c.Code, c.Name, c.GSTIN, c.StateCode, c.Email, c.Phone, c.Address, c.CreditLimit, c.PaymentTermsDays).Scan(
		&out.ID, &out.CompanyID, &out.Code, &out.Name, &out.GSTIN, &out.StateCode, &out.Email, &out.Phone,
		&out.Address, &out.CreditLimit, &out.PaymentTermsDays, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &out, nil
}

func (s *orderService) GetCustomers(ctx context.Context, companyCode string) ([]Customer, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, code, name, gstin, state_code, email, phone, address, credit_limit, payment_terms_days, created_at
		FROM customers
		WHERE company_id = $1
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.GSTIN, &c.StateCode, &c.Email, &c.Phone,
			&c.Address, &c.CreditLimit, &c.PaymentTermsDays, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

func (s *orderService) CreateSupplier(ctx context.Context, companyCode string, sp Supplier) (*Supplier, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	var out Supplier
	err = s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (company_id, code, name, gstin, state_code, email, phone, address, payment_terms_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, code, name, gstin, state_code, email, phone, address, payment_terms_days, created_at
	`, companyID, sp.Code, sp.Name, sp.GSTIN, sp.StateCode, sp.Email, sp.Phone, sp.Address, sp.PaymentTermsDays).Scan(
		&out.ID, &out.CompanyID, &out.Code, &out.Name, &out.GSTIN, &out.StateCode, &out.Email, &out.Phone,
		&out.Address, &out.PaymentTermsDays, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &out, nil
}

func (s *orderService) GetSuppliers(ctx context.Context, companyCode string) ([]Supplier, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, code, name, gstin, state_code, email, phone, address, payment_terms_days, created_at
		FROM suppliers
		WHERE company_id = $1
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.CompanyID, &sp.Code, &sp.Name, &sp.GSTIN, &sp.StateCode, &sp.Email, &sp.Phone,
			&sp.Address, &sp.PaymentTermsDays, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *orderService) CreateProduct(ctx context.Context, companyCode string, p Product) (*Product, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	// Verify revenue account exists for this company
	var accountID int
	err = s.pool.QueryRow(ctx, "SELECT id FROM accounts WHERE company_id = $1 AND code = $2", companyID, p.RevenueAccountCode).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("revenue account code %s not found for company %s", p.RevenueAccountCode, companyCode)
		}
		return nil, fmt.Errorf("failed to verify revenue account: %w", err)
	}

	var out Product
	err = s.pool.QueryRow(ctx, `
		INSERT INTO products (company_id, code, name, description, hsn_code, unit, unit_rate, gst_rate_percent, revenue_account_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, code, name, description, hsn_code, unit, unit_rate, gst_rate_percent, revenue_account_code, is_active, created_at
	`, companyID, p.Code, p.Name, p.Description, p.HSNCode, p.Unit, p.UnitRate, p.GSTRatePercent, p.RevenueAccountCode).Scan(
		&out.ID, &out.CompanyID, &out.Code, &out.Name, &out.Description, &out.HSNCode, &out.Unit,
		&out.UnitRate, &out.GSTRatePercent, &out.RevenueAccountCode, &out.IsActive, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &out, nil
}

func (s *orderService) GetProducts(ctx context.Context, companyCode string) ([]Product, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, code, name, description, hsn_code, unit, unit_rate, gst_rate_percent, revenue_account_code, is_active, created_at
		FROM products
		WHERE company_id = $1 AND is_active = true
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description, &p.HSNCode, &p.Unit,
			&p.UnitRate, &p.GSTRatePercent, &p.RevenueAccountCode, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// ── Order Lifecycle ──────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("order must have at least one line")
	}
	if input.Kind != OrderKindSales && input.Kind != OrderKindPurchase {
		return nil, fmt.Errorf("unknown order kind %q", input.Kind)
	}
	if input.DiscountType == "" {
		input.DiscountType = DiscountNone
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	companyID, err := resolveCompanyID(ctx, tx, input.CompanyCode)
	if err != nil {
		return nil, err
	}

	// Resolve counterparty
	var partyID int
	err = tx.QueryRow(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE company_id = $1 AND code = $2", partyTable(input.Kind)),
		companyID, input.PartyCode,
	).Scan(&partyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s code %s not found for company %s", input.Kind, input.PartyCode, input.CompanyCode)
		}
		return nil, fmt.Errorf("failed to resolve %s party: %w", input.Kind, err)
	}

	// Resolve lines and accumulate the subtotal
	type resolvedLine struct {
		productID int
		quantity  decimal.Decimal
		unitRate  decimal.Decimal
		lineTotal decimal.Decimal
	}
	var resolved []resolvedLine
	itemTotal := decimal.Zero

	for i, in := range input.Lines {
		var productID int
		var defaultRate decimal.Decimal
		err = tx.QueryRow(ctx,
			"SELECT id, unit_rate FROM products WHERE company_id = $1 AND code = $2 AND is_active = true",
			companyID, in.ProductCode,
		).Scan(&productID, &defaultRate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("line %d: product code %s not found for company %s", i+1, in.ProductCode, input.CompanyCode)
			}
			return nil, fmt.Errorf("line %d: failed to resolve product: %w", i+1, err)
		}

		rate := defaultRate
		if !in.UnitRate.IsZero() {
			rate = in.UnitRate
		}
		lineTotal := in.Quantity.Mul(rate)
		itemTotal = itemTotal.Add(lineTotal)

		resolved = append(resolved, resolvedLine{
			productID: productID,
			quantity:  in.Quantity,
			unitRate:  rate,
			lineTotal: lineTotal,
		})
	}

	fin := CalculateOrderFinancials(itemTotal, input.DiscountType, input.DiscountValue, input.GSTRatePercent)

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (company_id, kind, party_id, status, order_date, expected_delivery_date,
		                    discount_type, discount_value, gst_rate_percent,
		                    item_total, discount_amount, gst_amount, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, companyID, input.Kind, partyID, string(OrderApprovalPending), input.OrderDate, input.ExpectedDeliveryDate,
		string(input.DiscountType), input.DiscountValue, input.GSTRatePercent,
		fin.ItemTotal, fin.DiscountAmount, fin.GSTAmount, fin.TotalAmount, input.Notes).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, rl := range resolved {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, line_number, product_id, required_quantity, dispatched_quantity, unit_rate, line_total)
			VALUES ($1, $2, $3, $4, 0, $5, $6)
		`, orderID, i+1, rl.productID, rl.quantity, rl.unitRate, rl.lineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) ApproveOrder(ctx context.Context, orderID int, docService DocumentService) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var companyID int
	var kind OrderKind
	var status OrderStatus
	err = tx.QueryRow(ctx,
		"SELECT company_id, kind, status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&companyID, &kind, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if status != OrderApprovalPending {
		return nil, fmt.Errorf("order %d cannot be approved: status is %s (must be approval_pending)", orderID, status)
	}

	typeCode := "SO"
	if kind == OrderKindPurchase {
		typeCode = "PO"
	}

	// Create and post the order document to assign a gapless number.
	var draftDocID int
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, $2, 'DRAFT', NULL)
		RETURNING id
	`, companyID, typeCode).Scan(&draftDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s document: %w", typeCode, err)
	}

	if err = docService.PostDocumentTx(ctx, tx, draftDocID); err != nil {
		return nil, fmt.Errorf("failed to post %s document: %w", typeCode, err)
	}

	var orderNumber string
	err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s document number: %w", typeCode, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, order_number = $2, approved_at = NOW()
		WHERE id = $3
	`, string(OrderInProgress), orderNumber, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to approve order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order approval: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) CompleteOrder(ctx context.Context, orderID int) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if status != OrderInProgress {
		return nil, fmt.Errorf("order %d cannot be completed: status is %s (must be in_progress)", orderID, status)
	}

	var pending int
	err = tx.QueryRow(ctx,
		"SELECT count(*) FROM order_lines WHERE order_id = $1 AND dispatched_quantity < required_quantity",
		orderID,
	).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("failed to check dispatch completion: %w", err)
	}
	if pending > 0 {
		return nil, fmt.Errorf("order %d cannot be completed: %d line(s) not fully dispatched", orderID, pending)
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET status = $1, completed_at = NOW() WHERE id = $2",
		string(OrderCompleted), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order completion: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if status != OrderApprovalPending && status != OrderInProgress {
		return nil, fmt.Errorf("order %d cannot be cancelled: status is %s", orderID, status)
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET status = $1, cancelled_at = NOW() WHERE id = $2",
		string(OrderCancelled), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancel order: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const orderSelect = `
	SELECT o.id, o.company_id, o.kind, COALESCE(o.order_number, ''), o.party_id, p.code, p.name,
	       o.status, o.order_date::text, o.expected_delivery_date,
	       o.discount_type, o.discount_value, o.gst_rate_percent,
	       o.item_total, o.discount_amount, o.gst_amount, o.total_amount,
	       o.notes, o.created_at, o.approved_at, o.completed_at, o.cancelled_at
	FROM orders o
`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.Kind, &o.OrderNumber, &o.PartyID, &o.PartyCode, &o.PartyName,
		&o.Status, &o.OrderDate, &o.ExpectedDeliveryDate,
		&o.DiscountType, &o.DiscountValue, &o.GSTRatePercent,
		&o.ItemTotal, &o.DiscountAmount, &o.GSTAmount, &o.TotalAmount,
		&o.Notes, &o.CreatedAt, &o.ApprovedAt, &o.CompletedAt, &o.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// decorate fills the read-time fields (display status, completion percent)
// from the persisted snapshot and the service clock.
func (s *orderService) decorate(o *Order) {
	o.Display = OrderDisplayStatus(o.Status, o.ExpectedDeliveryDate, s.now())
	o.CompletionPercent = CompletionPercentage(o.Lines)
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	// Both party tables share the code/name columns the header needs.
	row := s.pool.QueryRow(ctx, orderSelect+`
		JOIN LATERAL (
			SELECT c.code, c.name FROM customers c WHERE o.kind = 'sales' AND c.id = o.party_id
			UNION ALL
			SELECT sp.code, sp.name FROM suppliers sp WHERE o.kind = 'purchase' AND sp.id = o.party_id
		) p ON true
		WHERE o.id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	lines, err := fetchOrderLinesQ(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	s.decorate(o)
	return o, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, companyCode, orderNumber string) (*Order, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	var orderID int
	err = s.pool.QueryRow(ctx,
		"SELECT id FROM orders WHERE company_id = $1 AND order_number = $2",
		companyID, orderNumber,
	).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s not found for company %s", orderNumber, companyCode)
		}
		return nil, fmt.Errorf("failed to lookup order by number: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) GetOrders(ctx context.Context, companyCode string, kind OrderKind, status *OrderStatus) ([]Order, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	query := orderSelect + fmt.Sprintf(`
		JOIN %s p ON p.id = o.party_id
		WHERE o.company_id = $1 AND o.kind = $2
	`, partyTable(kind))
	args := []any{companyID, string(kind)}

	if status != nil {
		query += " AND o.status = $3"
		args = append(args, string(*status))
	}
	query += " ORDER BY o.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	// Attach lines so list views can show completion percentages.
	for i := range orders {
		lines, err := fetchOrderLinesQ(ctx, s.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
		s.decorate(&orders[i])
	}
	return orders, nil
}

func fetchOrderLinesQ(ctx context.Context, q pgxRowQuerier, orderID int) ([]OrderLine, error) {
	rows, err := q.Query(ctx, `
		SELECT ol.id, ol.order_id, ol.line_number,
		       p.id, p.code, p.name, p.revenue_account_code,
		       ol.required_quantity, ol.dispatched_quantity, ol.unit_rate, ol.line_total
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = $1
		ORDER BY ol.line_number
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.LineNumber,
			&l.ProductID, &l.ProductCode, &l.ProductName, &l.RevenueAccountCode,
			&l.RequiredQuantity, &l.DispatchedQuantity, &l.UnitRate, &l.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}
	return lines, nil
}
