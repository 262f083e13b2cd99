package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryService manages warehouses, QR-labelled stock units, and goods
// movements. Goods inward creates stock units and books the receipt;
// goods outward dispatches units against a sales order, advances the
// order's dispatched quantities, and books cost of goods sold — all in one
// transaction, so the stock ledger and the order can never drift apart.
type InventoryService interface {
	GetWarehouses(ctx context.Context, companyCode string) ([]Warehouse, error)
	GetStockLevels(ctx context.Context, companyCode string) ([]StockLevel, error)
	GetStockUnits(ctx context.Context, companyCode string, status *StockUnitStatus) ([]StockUnit, error)

	RecordGoodsInward(ctx context.Context, input GoodsInwardInput, ledger *Ledger, docService DocumentService) (*GoodsInward, error)
	RecordGoodsOutward(ctx context.Context, input GoodsOutwardInput, ledger *Ledger, docService DocumentService) (*GoodsOutward, error)

	// CreateQRBatch assigns fresh QR codes to the given in-stock units and
	// groups them under a numbered label batch for printing.
	CreateQRBatch(ctx context.Context, companyCode string, unitIDs []int, docService DocumentService) (*QRBatch, error)
}

type inventoryService struct {
	pool       *pgxpool.Pool
	ruleEngine RuleEngine
}

func NewInventoryService(pool *pgxpool.Pool, ruleEngine RuleEngine) InventoryService {
	return &inventoryService{pool: pool, ruleEngine: ruleEngine}
}

func (s *inventoryService) GetWarehouses(ctx context.Context, companyCode string) ([]Warehouse, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, code, name, is_active, created_at
		FROM warehouses
		WHERE company_id = $1 AND is_active = true
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.Code, &w.Name, &w.IsActive, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warehouses: %w", err)
	}
	return warehouses, nil
}

func (s *inventoryService) GetStockLevels(ctx context.Context, companyCode string) ([]StockLevel, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT p.code, p.name, w.code,
		       count(*) AS units_in_stock,
		       COALESCE(SUM(su.quantity), 0) AS quantity_total
		FROM stock_units su
		JOIN products p   ON p.id = su.product_id
		JOIN warehouses w ON w.id = su.warehouse_id
		WHERE su.company_id = $1 AND su.status = 'in_stock'
		GROUP BY p.code, p.name, w.code
		ORDER BY p.code, w.code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(&sl.ProductCode, &sl.ProductName, &sl.WarehouseCode, &sl.UnitsInStock, &sl.QuantityTotal); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock levels: %w", err)
	}
	return levels, nil
}

func (s *inventoryService) GetStockUnits(ctx context.Context, companyCode string, status *StockUnitStatus) ([]StockUnit, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT su.id, su.company_id, su.warehouse_id, su.product_id, p.code, p.name,
		       su.qr_code, su.quantity, su.unit_cost, su.status, su.inward_id, su.outward_id, su.created_at
		FROM stock_units su
		JOIN products p ON p.id = su.product_id
		WHERE su.company_id = $1
	`
	args := []any{companyID}
	if status != nil {
		query += " AND su.status = $2"
		args = append(args, string(*status))
	}
	query += " ORDER BY su.id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock units: %w", err)
	}
	defer rows.Close()

	var units []StockUnit
	for rows.Next() {
		var u StockUnit
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.WarehouseID, &u.ProductID, &u.ProductCode, &u.ProductName,
			&u.QRCode, &u.Quantity, &u.UnitCost, &u.Status, &u.InwardID, &u.OutwardID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock units: %w", err)
	}
	return units, nil
}

// RecordGoodsInward creates a numbered goods inward note, one QR-labelled
// stock unit per input row, and books DR Inventory / CR Accounts Payable
// for the receipt value — atomically.
func (s *inventoryService) RecordGoodsInward(ctx context.Context, input GoodsInwardInput, ledger *Ledger, docService DocumentService) (*GoodsInward, error) {
	if len(input.Units) == 0 {
		return nil, fmt.Errorf("goods inward must have at least one unit")
	}
	for i, u := range input.Units {
		if !u.Quantity.IsPositive() {
			return nil, fmt.Errorf("unit %d: quantity must be positive, got %s", i+1, u.Quantity)
		}
		if u.UnitCost.IsNegative() {
			return nil, fmt.Errorf("unit %d: unit cost cannot be negative, got %s", i+1, u.UnitCost)
		}
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

	var warehouseID int
	if err := tx.QueryRow(ctx,
		"SELECT id FROM warehouses WHERE company_id = $1 AND code = $2 AND is_active = true",
		companyID, input.WarehouseCode,
	).Scan(&warehouseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("warehouse %s not found for company %s", input.WarehouseCode, input.CompanyCode)
		}
		return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
	}

	var supplierID *int
	if input.SupplierCode != "" {
		var id int
		if err := tx.QueryRow(ctx,
			"SELECT id FROM suppliers WHERE company_id = $1 AND code = $2",
			companyID, input.SupplierCode,
		).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("supplier %s not found for company %s", input.SupplierCode, input.CompanyCode)
			}
			return nil, fmt.Errorf("failed to resolve supplier: %w", err)
		}
		supplierID = &id
	}

	// Assign a gapless inward number via the document service.
	var draftDocID int
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, 'GIN', 'DRAFT', NULL)
		RETURNING id
	`, companyID).Scan(&draftDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create GIN document: %w", err)
	}
	if err = docService.PostDocumentTx(ctx, tx, draftDocID); err != nil {
		return nil, fmt.Errorf("failed to post GIN document: %w", err)
	}
	var inwardNumber string
	if err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&inwardNumber); err != nil {
		return nil, fmt.Errorf("failed to retrieve GIN document number: %w", err)
	}

	var inwardID int
	err = tx.QueryRow(ctx, `
		INSERT INTO goods_inward (company_id, warehouse_id, inward_number, supplier_id, purchase_order_id, inward_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, companyID, warehouseID, inwardNumber, supplierID, input.PurchaseOrderID, input.InwardDate, input.Notes).Scan(&inwardID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert goods inward: %w", err)
	}

	totalValue := decimal.Zero
	for i, u := range input.Units {
		var productID int
		if err := tx.QueryRow(ctx,
			"SELECT id FROM products WHERE company_id = $1 AND code = $2 AND is_active = true",
			companyID, u.ProductCode,
		).Scan(&productID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("unit %d: product %s not found for company %s", i+1, u.ProductCode, input.CompanyCode)
			}
			return nil, fmt.Errorf("unit %d: failed to resolve product: %w", i+1, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO stock_units (company_id, warehouse_id, product_id, qr_code, quantity, unit_cost, status, inward_id)
			VALUES ($1, $2, $3, $4, $5, $6, 'in_stock', $7)
		`, companyID, warehouseID, productID, uuid.NewString(), u.Quantity, u.UnitCost, inwardID)
		if err != nil {
			return nil, fmt.Errorf("unit %d: failed to insert stock unit: %w", i+1, err)
		}

		totalValue = totalValue.Add(u.Quantity.Mul(u.UnitCost))
	}

	if input.PurchaseOrderID != nil {
		if err := s.advancePurchaseReceipt(ctx, tx, *input.PurchaseOrderID, input.Units, companyID); err != nil {
			return nil, err
		}
	}

	if totalValue.IsPositive() {
		inventoryAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "INVENTORY")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve INVENTORY account: %w", err)
		}
		apAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "AP")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve AP account: %w", err)
		}

		proposal := EntryProposal{
			DocumentTypeCode: "JE",
			CompanyCode:      input.CompanyCode,
			IdempotencyKey:   fmt.Sprintf("goods-inward-%d", inwardID),
			Narration:        fmt.Sprintf("Goods inward %s", inwardNumber),
			PostingDate:      input.InwardDate,
			Lines: []EntryLine{
				{AccountCode: inventoryAccount, IsDebit: true, Amount: totalValue},
				{AccountCode: apAccount, IsDebit: false, Amount: totalValue},
			},
		}
		if err := ledger.CommitInTx(ctx, tx, proposal); err != nil {
			return nil, fmt.Errorf("failed to book goods inward %s: %w", inwardNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit goods inward: %w", err)
	}

	return s.getGoodsInward(ctx, inwardID)
}

// advancePurchaseReceipt bumps dispatched_quantity on the linked purchase
// order's lines as goods arrive, capped at the required quantity.
func (s *inventoryService) advancePurchaseReceipt(ctx context.Context, tx pgx.Tx, poID int, units []InwardUnitInput, companyID int) error {
	var kind OrderKind
	err := tx.QueryRow(ctx, "SELECT kind FROM orders WHERE id = $1 AND company_id = $2 FOR UPDATE", poID, companyID).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("purchase order %d not found", poID)
		}
		return fmt.Errorf("failed to fetch purchase order %d: %w", poID, err)
	}
	if kind != OrderKindPurchase {
		return fmt.Errorf("order %d is not a purchase order", poID)
	}

	for _, u := range units {
		// Received quantity is capped at required: over-receipts keep the line
		// at 100% rather than pushing completion past it.
		_, err := tx.Exec(ctx, `
			UPDATE order_lines ol
			SET dispatched_quantity = LEAST(ol.required_quantity, ol.dispatched_quantity + $1)
			FROM products p
			WHERE ol.order_id = $2 AND p.id = ol.product_id AND p.code = $3
		`, u.Quantity, poID, u.ProductCode)
		if err != nil {
			return fmt.Errorf("failed to advance receipt for product %s: %w", u.ProductCode, err)
		}
	}
	return nil
}

// RecordGoodsOutward dispatches the selected stock units against a sales
// order: marks the units dispatched, advances the order lines' dispatched
// quantities, books DR COGS / CR Inventory at unit cost, and — when every
// line is fully dispatched — completes the order. All within one
// transaction, replacing what the legacy system did in a stored procedure.
func (s *inventoryService) RecordGoodsOutward(ctx context.Context, input GoodsOutwardInput, ledger *Ledger, docService DocumentService) (*GoodsOutward, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("goods outward must have at least one item")
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

	// Lock and validate the order.
	var orderKind OrderKind
	var orderStatus OrderStatus
	err = tx.QueryRow(ctx,
		"SELECT kind, status FROM orders WHERE id = $1 AND company_id = $2 FOR UPDATE",
		input.SalesOrderID, companyID,
	).Scan(&orderKind, &orderStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales order %d not found", input.SalesOrderID)
		}
		return nil, fmt.Errorf("failed to fetch sales order %d: %w", input.SalesOrderID, err)
	}
	if orderKind != OrderKindSales {
		return nil, fmt.Errorf("order %d is not a sales order", input.SalesOrderID)
	}
	if orderStatus != OrderInProgress {
		return nil, fmt.Errorf("order %d cannot be dispatched: status is %s (must be in_progress)", input.SalesOrderID, orderStatus)
	}

	// Assign a gapless outward number.
	var draftDocID int
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, 'GON', 'DRAFT', NULL)
		RETURNING id
	`, companyID).Scan(&draftDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create GON document: %w", err)
	}
	if err = docService.PostDocumentTx(ctx, tx, draftDocID); err != nil {
		return nil, fmt.Errorf("failed to post GON document: %w", err)
	}
	var outwardNumber string
	if err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&outwardNumber); err != nil {
		return nil, fmt.Errorf("failed to retrieve GON document number: %w", err)
	}

	var warehouseID int
	var outwardID int

	totalCost := decimal.Zero
	for i, item := range input.Items {
		// Lock the stock unit; it must be in stock and belong to this company.
		var unitWarehouseID, unitProductID int
		var qty, unitCost decimal.Decimal
		var status StockUnitStatus
		err = tx.QueryRow(ctx, `
			SELECT warehouse_id, product_id, quantity, unit_cost, status
			FROM stock_units
			WHERE id = $1 AND company_id = $2
			FOR UPDATE
		`, item.StockUnitID, companyID).Scan(&unitWarehouseID, &unitProductID, &qty, &unitCost, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item %d: stock unit %d not found", i+1, item.StockUnitID)
			}
			return nil, fmt.Errorf("item %d: failed to lock stock unit: %w", i+1, err)
		}
		if status != StockUnitInStock {
			return nil, fmt.Errorf("item %d: stock unit %d is %s, not in stock", i+1, item.StockUnitID, status)
		}
		if warehouseID == 0 {
			warehouseID = unitWarehouseID

			// Create the outward header once the warehouse is known.
			err = tx.QueryRow(ctx, `
				INSERT INTO goods_outward (company_id, warehouse_id, outward_number, sales_order_id, outward_date, notes)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, companyID, warehouseID, outwardNumber, input.SalesOrderID, input.OutwardDate, input.Notes).Scan(&outwardID)
			if err != nil {
				return nil, fmt.Errorf("failed to insert goods outward: %w", err)
			}
		} else if unitWarehouseID != warehouseID {
			return nil, fmt.Errorf("item %d: stock unit %d is in a different warehouse than the rest of the dispatch", i+1, item.StockUnitID)
		}

		// Validate the target line belongs to the order and the product matches.
		var lineProductID int
		var required, dispatched decimal.Decimal
		err = tx.QueryRow(ctx, `
			SELECT product_id, required_quantity, dispatched_quantity
			FROM order_lines
			WHERE id = $1 AND order_id = $2
			FOR UPDATE
		`, item.OrderLineID, input.SalesOrderID).Scan(&lineProductID, &required, &dispatched)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item %d: order line %d not found on order %d", i+1, item.OrderLineID, input.SalesOrderID)
			}
			return nil, fmt.Errorf("item %d: failed to lock order line: %w", i+1, err)
		}
		if lineProductID != unitProductID {
			return nil, fmt.Errorf("item %d: stock unit %d holds a different product than order line %d", i+1, item.StockUnitID, item.OrderLineID)
		}
		if dispatched.Add(qty).GreaterThan(required) {
			return nil, fmt.Errorf("item %d: dispatching %s would exceed required quantity %s on line %d (already dispatched %s)",
				i+1, qty, required, item.OrderLineID, dispatched)
		}

		_, err = tx.Exec(ctx,
			"UPDATE stock_units SET status = 'dispatched', outward_id = $1 WHERE id = $2",
			outwardID, item.StockUnitID,
		)
		if err != nil {
			return nil, fmt.Errorf("item %d: failed to dispatch stock unit: %w", i+1, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO goods_outward_items (outward_id, stock_unit_id, order_line_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, outwardID, item.StockUnitID, item.OrderLineID, qty)
		if err != nil {
			return nil, fmt.Errorf("item %d: failed to insert outward item: %w", i+1, err)
		}

		_, err = tx.Exec(ctx,
			"UPDATE order_lines SET dispatched_quantity = dispatched_quantity + $1 WHERE id = $2",
			qty, item.OrderLineID,
		)
		if err != nil {
			return nil, fmt.Errorf("item %d: failed to advance dispatched quantity: %w", i+1, err)
		}

		totalCost = totalCost.Add(qty.Mul(unitCost))
	}

	// Book COGS for the dispatched value.
	if totalCost.IsPositive() {
		cogsAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "COGS")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve COGS account: %w", err)
		}
		inventoryAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "INVENTORY")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve INVENTORY account: %w", err)
		}

		proposal := EntryProposal{
			DocumentTypeCode: "JE",
			CompanyCode:      input.CompanyCode,
			IdempotencyKey:   fmt.Sprintf("goods-outward-%d", outwardID),
			Narration:        fmt.Sprintf("Goods outward %s against order %d", outwardNumber, input.SalesOrderID),
			PostingDate:      input.OutwardDate,
			Lines: []EntryLine{
				{AccountCode: cogsAccount, IsDebit: true, Amount: totalCost},
				{AccountCode: inventoryAccount, IsDebit: false, Amount: totalCost},
			},
		}
		if err := ledger.CommitInTx(ctx, tx, proposal); err != nil {
			return nil, fmt.Errorf("failed to book goods outward %s: %w", outwardNumber, err)
		}
	}

	// Auto-complete the order once every line is fully dispatched.
	var pending int
	err = tx.QueryRow(ctx,
		"SELECT count(*) FROM order_lines WHERE order_id = $1 AND dispatched_quantity < required_quantity",
		input.SalesOrderID,
	).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("failed to check dispatch completion: %w", err)
	}
	if pending == 0 {
		_, err = tx.Exec(ctx,
			"UPDATE orders SET status = $1, completed_at = NOW() WHERE id = $2",
			string(OrderCompleted), input.SalesOrderID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to complete order %d: %w", input.SalesOrderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit goods outward: %w", err)
	}

	return s.getGoodsOutward(ctx, outwardID)
}

func (s *inventoryService) CreateQRBatch(ctx context.Context, companyCode string, unitIDs []int, docService DocumentService) (*QRBatch, error) {
	if len(unitIDs) == 0 {
		return nil, fmt.Errorf("QR batch must cover at least one stock unit")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	companyID, err := resolveCompanyID(ctx, tx, companyCode)
	if err != nil {
		return nil, err
	}

	var draftDocID int
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, 'QRB', 'DRAFT', NULL)
		RETURNING id
	`, companyID).Scan(&draftDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create QRB document: %w", err)
	}
	if err = docService.PostDocumentTx(ctx, tx, draftDocID); err != nil {
		return nil, fmt.Errorf("failed to post QRB document: %w", err)
	}
	var batchNumber string
	if err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&batchNumber); err != nil {
		return nil, fmt.Errorf("failed to retrieve QRB document number: %w", err)
	}

	var batchID int
	err = tx.QueryRow(ctx, `
		INSERT INTO qr_batches (company_id, batch_number)
		VALUES ($1, $2)
		RETURNING id
	`, companyID, batchNumber).Scan(&batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert QR batch: %w", err)
	}

	batch := &QRBatch{ID: batchID, CompanyID: companyID, BatchNumber: batchNumber}
	for _, unitID := range unitIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE stock_units
			SET qr_code = $1, qr_batch_id = $2
			WHERE id = $3 AND company_id = $4 AND status = 'in_stock'
		`, uuid.NewString(), batchID, unitID, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to relabel stock unit %d: %w", unitID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("stock unit %d not found or not in stock", unitID)
		}
		batch.UnitIDs = append(batch.UnitIDs, unitID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit QR batch: %w", err)
	}
	return batch, nil
}

// ── Fetch helpers ────────────────────────────────────────────────────────────

func (s *inventoryService) getGoodsInward(ctx context.Context, inwardID int) (*GoodsInward, error) {
	var gi GoodsInward
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, warehouse_id, inward_number, supplier_id, purchase_order_id, inward_date::text, notes, created_at
		FROM goods_inward
		WHERE id = $1
	`, inwardID).Scan(&gi.ID, &gi.CompanyID, &gi.WarehouseID, &gi.InwardNumber, &gi.SupplierID,
		&gi.PurchaseOrderID, &gi.InwardDate, &gi.Notes, &gi.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goods inward %d: %w", inwardID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT su.id, su.company_id, su.warehouse_id, su.product_id, p.code, p.name,
		       su.qr_code, su.quantity, su.unit_cost, su.status, su.inward_id, su.outward_id, su.created_at
		FROM stock_units su
		JOIN products p ON p.id = su.product_id
		WHERE su.inward_id = $1
		ORDER BY su.id
	`, inwardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inward units: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u StockUnit
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.WarehouseID, &u.ProductID, &u.ProductCode, &u.ProductName,
			&u.QRCode, &u.Quantity, &u.UnitCost, &u.Status, &u.InwardID, &u.OutwardID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inward unit: %w", err)
		}
		gi.Units = append(gi.Units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inward units: %w", err)
	}
	return &gi, nil
}

func (s *inventoryService) getGoodsOutward(ctx context.Context, outwardID int) (*GoodsOutward, error) {
	var gw GoodsOutward
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, warehouse_id, outward_number, sales_order_id, outward_date::text, notes, created_at
		FROM goods_outward
		WHERE id = $1
	`, outwardID).Scan(&gw.ID, &gw.CompanyID, &gw.WarehouseID, &gw.OutwardNumber, &gw.SalesOrderID,
		&gw.OutwardDate, &gw.Notes, &gw.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goods outward %d: %w", outwardID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, outward_id, stock_unit_id, order_line_id, quantity
		FROM goods_outward_items
		WHERE outward_id = $1
		ORDER BY id
	`, outwardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outward items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it OutwardItem
		if err := rows.Scan(&it.ID, &it.OutwardID, &it.StockUnitID, &it.OrderLineID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan outward item: %w", err)
		}
		gw.Items = append(gw.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outward items: %w", err)
	}
	return &gw, nil
}
