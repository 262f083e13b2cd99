package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InvoiceService raises tax invoices against sales orders and tracks money
// received. Invoice amounts are computed once at creation (via the order
// financial calculator plus the GST place-of-supply split) and persisted;
// every read returns the stored breakdown plus derived payment progress.
type InvoiceService interface {
	// CreateInvoiceFromOrder bills an in-progress or completed sales order.
	// The due date defaults to invoice date + the customer's payment terms.
	CreateInvoiceFromOrder(ctx context.Context, orderID int, invoiceDate string, dueDate *time.Time, ledger *Ledger, docService DocumentService) (*Invoice, error)

	// RecordPayment applies a payment to an open or partially paid invoice,
	// reducing outstanding and flipping status to partially_paid or paid.
	RecordPayment(ctx context.Context, invoiceID int, amount decimal.Decimal, paymentDate, method, reference string, ledger *Ledger) (*Invoice, error)

	// CreateAdjustmentNote raises a credit or debit note against an invoice.
	CreateAdjustmentNote(ctx context.Context, invoiceID int, kind AdjustmentKind, amount decimal.Decimal, noteDate, reason string, ledger *Ledger, docService DocumentService) (*AdjustmentNote, error)

	// CancelInvoice cancels an invoice with no recorded payments and
	// reverses its journal entry.
	CancelInvoice(ctx context.Context, invoiceID int, ledger *Ledger) (*Invoice, error)

	GetInvoice(ctx context.Context, invoiceID int) (*Invoice, error)
	GetInvoices(ctx context.Context, companyCode string, status *InvoiceStatus) ([]Invoice, error)
	GetPayments(ctx context.Context, invoiceID int) ([]Payment, error)
}

type invoiceService struct {
	pool       *pgxpool.Pool
	ruleEngine RuleEngine
	now        func() time.Time
}

// NewInvoiceService constructs an InvoiceService. Pass nil for the system clock.
func NewInvoiceService(pool *pgxpool.Pool, ruleEngine RuleEngine, now func() time.Time) InvoiceService {
	if now == nil {
		now = time.Now
	}
	return &invoiceService{pool: pool, ruleEngine: ruleEngine, now: now}
}

func (s *invoiceService) CreateInvoiceFromOrder(ctx context.Context, orderID int, invoiceDate string, dueDate *time.Time, ledger *Ledger, docService DocumentService) (*Invoice, error) {
	if _, err := time.Parse("2006-01-02", invoiceDate); err != nil {
		return nil, fmt.Errorf("invalid invoice date %q: %w", invoiceDate, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the order and load the billing header.
	var companyID, customerID int
	var kind OrderKind
	var status OrderStatus
	var discountType DiscountType
	var discountValue, gstRate decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT company_id, kind, status, party_id, discount_type, discount_value, gst_rate_percent
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, orderID).Scan(&companyID, &kind, &status, &customerID, &discountType, &discountValue, &gstRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if kind != OrderKindSales {
		return nil, fmt.Errorf("order %d is not a sales order", orderID)
	}
	if status != OrderInProgress && status != OrderCompleted {
		return nil, fmt.Errorf("order %d cannot be invoiced: status is %s", orderID, status)
	}

	var companyCode, companyState string
	if err := tx.QueryRow(ctx, "SELECT company_code, state_code FROM companies WHERE id = $1", companyID).Scan(&companyCode, &companyState); err != nil {
		return nil, fmt.Errorf("failed to resolve company for order %d: %w", orderID, err)
	}

	var customerState string
	var termsDays int
	if err := tx.QueryRow(ctx, "SELECT state_code, payment_terms_days FROM customers WHERE id = $1", customerID).Scan(&customerState, &termsDays); err != nil {
		return nil, fmt.Errorf("failed to resolve customer for order %d: %w", orderID, err)
	}

	if dueDate == nil {
		d, _ := time.Parse("2006-01-02", invoiceDate)
		due := d.AddDate(0, 0, termsDays)
		dueDate = &due
	}

	lines, err := fetchOrderLinesQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order %d has no lines to invoice", orderID)
	}

	// Recompute the breakdown from the persisted line totals; the engine's
	// clamping rules make this safe against stale discount values.
	itemTotal := decimal.Zero
	for _, l := range lines {
		itemTotal = itemTotal.Add(l.LineTotal)
	}
	fin := CalculateOrderFinancials(itemTotal, discountType, discountValue, gstRate)

	// Place-of-supply: intra-state splits GST into CGST+SGST, inter-state
	// books the whole amount as IGST.
	var cgst, sgst, igst decimal.Decimal
	intraState := customerState == companyState
	if intraState {
		cgst, sgst = SplitGST(fin.GSTAmount)
	} else {
		igst = fin.GSTAmount
	}

	total, roundOff := RoundOff(fin.TotalAmount)

	// Assign a gapless invoice number.
	var draftDocID int
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, 'INV', 'DRAFT', NULL)
		RETURNING id
	`, companyID).Scan(&draftDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create INV document: %w", err)
	}
	if err = docService.PostDocumentTx(ctx, tx, draftDocID); err != nil {
		return nil, fmt.Errorf("failed to post INV document: %w", err)
	}
	var invoiceNumber string
	if err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&invoiceNumber); err != nil {
		return nil, fmt.Errorf("failed to retrieve INV document number: %w", err)
	}

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (company_id, invoice_number, order_id, customer_id, status, invoice_date, due_date,
		                      subtotal_amount, discount_amount, taxable_amount,
		                      total_cgst_amount, total_sgst_amount, total_igst_amount,
		                      direct_tax_amount, round_off_amount, total_amount, outstanding_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, $14, $15, $15)
		RETURNING id
	`, companyID, invoiceNumber, orderID, customerID, string(InvoiceOpen), invoiceDate, dueDate,
		fin.ItemTotal, fin.DiscountAmount, fin.AfterDiscount,
		cgst, sgst, igst, roundOff, total).Scan(&invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	revenueByAccount := make(map[string]decimal.Decimal)
	for i, l := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_lines (invoice_id, line_number, product_id, quantity, unit_rate, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, invoiceID, i+1, l.ProductID, l.RequiredQuantity, l.UnitRate, l.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert invoice line %d: %w", i+1, err)
		}
		revenueByAccount[l.RevenueAccountCode] = revenueByAccount[l.RevenueAccountCode].Add(l.LineTotal)
	}

	// DR AR for the grand total; CR revenue per account (net of discount),
	// CR GST output, round-off absorbs the remainder.
	arAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "AR")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve AR account: %w", err)
	}

	entryLines := []EntryLine{{AccountCode: arAccount, IsDebit: true, Amount: total}}

	// Apportion the discount across revenue accounts by crediting net line
	// revenue, scaled by afterDiscount/itemTotal. The last account absorbs
	// the division remainder so credits match afterDiscount exactly.
	accountCodes := make([]string, 0, len(revenueByAccount))
	for accountCode := range revenueByAccount {
		accountCodes = append(accountCodes, accountCode)
	}
	sort.Strings(accountCodes)
	remaining := fin.AfterDiscount
	for i, accountCode := range accountCodes {
		net := remaining
		if i < len(accountCodes)-1 && itemTotal.IsPositive() {
			net = revenueByAccount[accountCode].Mul(fin.AfterDiscount).Div(itemTotal)
		}
		remaining = remaining.Sub(net)
		if net.IsPositive() {
			entryLines = append(entryLines, EntryLine{AccountCode: accountCode, IsDebit: false, Amount: net})
		}
	}

	if fin.GSTAmount.IsPositive() {
		gstAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "GST_OUTPUT")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve GST_OUTPUT account: %w", err)
		}
		entryLines = append(entryLines, EntryLine{AccountCode: gstAccount, IsDebit: false, Amount: fin.GSTAmount})
	}

	if !roundOff.IsZero() {
		roundOffAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "ROUND_OFF")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ROUND_OFF account: %w", err)
		}
		// Rounding up credits the round-off account; rounding down debits it.
		entryLines = append(entryLines, EntryLine{
			AccountCode: roundOffAccount,
			IsDebit:     roundOff.IsNegative(),
			Amount:      roundOff.Abs(),
		})
	}

	proposal := EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      companyCode,
		IdempotencyKey:   fmt.Sprintf("invoice-%d", invoiceID),
		Narration:        fmt.Sprintf("Tax invoice %s for order %d", invoiceNumber, orderID),
		PostingDate:      invoiceDate,
		Lines:            entryLines,
	}
	if err := ledger.CommitInTx(ctx, tx, proposal); err != nil {
		return nil, fmt.Errorf("failed to book invoice %s: %w", invoiceNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice creation: %w", err)
	}

	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID int, amount decimal.Decimal, paymentDate, method, reference string, ledger *Ledger) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	if paymentDate == "" {
		paymentDate = s.now().Format("2006-01-02")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var companyID int
	var status InvoiceStatus
	var outstanding decimal.Decimal
	var invoiceNumber string
	err = tx.QueryRow(ctx,
		"SELECT company_id, status, outstanding_amount, invoice_number FROM invoices WHERE id = $1 FOR UPDATE",
		invoiceID,
	).Scan(&companyID, &status, &outstanding, &invoiceNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}
	if status != InvoiceOpen && status != InvoicePartiallyPaid {
		return nil, fmt.Errorf("invoice %s cannot accept payment: status is %s", invoiceNumber, status)
	}
	if amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("payment %s exceeds outstanding amount %s on invoice %s", amount, outstanding, invoiceNumber)
	}

	var companyCode string
	if err := tx.QueryRow(ctx, "SELECT company_code FROM companies WHERE id = $1", companyID).Scan(&companyCode); err != nil {
		return nil, fmt.Errorf("failed to resolve company for invoice %d: %w", invoiceID, err)
	}

	var paymentID int
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (invoice_id, payment_date, amount, method, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, invoiceID, paymentDate, amount, method, reference).Scan(&paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	newOutstanding := outstanding.Sub(amount)
	newStatus := InvoicePartiallyPaid
	if newOutstanding.IsZero() {
		newStatus = InvoicePaid
	}
	_, err = tx.Exec(ctx,
		"UPDATE invoices SET outstanding_amount = $1, status = $2 WHERE id = $3",
		newOutstanding, string(newStatus), invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice %d: %w", invoiceID, err)
	}

	bankAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "BANK")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve BANK account: %w", err)
	}
	arAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "AR")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve AR account: %w", err)
	}

	proposal := EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      companyCode,
		IdempotencyKey:   fmt.Sprintf("payment-%d", paymentID),
		Narration:        fmt.Sprintf("Payment received against invoice %s", invoiceNumber),
		PostingDate:      paymentDate,
		Lines: []EntryLine{
			{AccountCode: bankAccount, IsDebit: true, Amount: amount},
			{AccountCode: arAccount, IsDebit: false, Amount: amount},
		},
	}
	if err := ledger.CommitInTx(ctx, tx, proposal); err != nil {
		return nil, fmt.Errorf("failed to book payment for invoice %s: %w", invoiceNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	return s.GetInvoice(ctx, invoiceID)
}

func (s *invoiceService) CreateAdjustmentNote(ctx context.Context, invoiceID int, kind AdjustmentKind, amount decimal.Decimal, noteDate, reason string, ledger *Ledger, docService DocumentService) (*AdjustmentNote, error) {
	if kind != AdjustmentCredit && kind != AdjustmentDebit {
		return nil, fmt.Errorf("unknown adjustment kind %q", kind)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("adjustment amount must be positive, got %s", amount)
	}
	if noteDate == "" {
		noteDate = s.now().Format("2006-01-02")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var companyID int
	var status InvoiceStatus
	var outstanding decimal.Decimal
	var invoiceNumber string
	err = tx.QueryRow(ctx,
		"SELECT company_id, status, outstanding_amount, invoice_number FROM invoices WHERE id = $1 FOR UPDATE",
		invoiceID,
	).Scan(&companyID, &status, &outstanding, &invoiceNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}
	if status == InvoiceCancelled {
		return nil, fmt.Errorf("invoice %s is cancelled and cannot be adjusted", invoiceNumber)
	}

	if kind == AdjustmentCredit && amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("credit note %s exceeds outstanding amount %s on invoice %s", amount, outstanding, invoiceNumber)
	}

	var companyCode string
	if err := tx.QueryRow(ctx, "SELECT company_code FROM companies WHERE id = $1", companyID).Scan(&companyCode); err != nil {
		return nil, fmt.Errorf("failed to resolve company for invoice %d: %w", invoiceID, err)
	}

	typeCode := "CRN"
	if kind == AdjustmentDebit {
		typeCode = "DBN"
	}

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
	var noteNumber string
	if err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&noteNumber); err != nil {
		return nil, fmt.Errorf("failed to retrieve %s document number: %w", typeCode, err)
	}

	var note AdjustmentNote
	err = tx.QueryRow(ctx, `
		INSERT INTO adjustment_notes (invoice_id, note_number, kind, note_date, amount, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, invoice_id, note_number, kind, note_date::text, amount, reason, created_at
	`, invoiceID, noteNumber, string(kind), noteDate, amount, reason).Scan(
		&note.ID, &note.InvoiceID, &note.NoteNumber, &note.Kind, &note.NoteDate, &note.Amount, &note.Reason, &note.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert adjustment note: %w", err)
	}

	newOutstanding := outstanding
	if kind == AdjustmentCredit {
		newOutstanding = outstanding.Sub(amount)
	} else {
		newOutstanding = outstanding.Add(amount)
	}

	newStatus := status
	switch {
	case newOutstanding.IsZero() && status != InvoicePaid:
		newStatus = InvoicePaid
	case newOutstanding.IsPositive() && status == InvoicePaid:
		newStatus = InvoicePartiallyPaid
	}

	// A debit note grows the invoice total alongside outstanding so the
	// outstanding ≤ total invariant keeps holding.
	if kind == AdjustmentDebit {
		_, err = tx.Exec(ctx,
			"UPDATE invoices SET outstanding_amount = $1, total_amount = total_amount + $2, status = $3 WHERE id = $4",
			newOutstanding, amount, string(newStatus), invoiceID,
		)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE invoices SET outstanding_amount = $1, status = $2 WHERE id = $3",
			newOutstanding, string(newStatus), invoiceID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice %d: %w", invoiceID, err)
	}

	arAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "AR")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve AR account: %w", err)
	}
	salesAccount, err := s.ruleEngine.ResolveAccount(ctx, companyID, "SALES")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve SALES account: %w", err)
	}

	// Credit note: DR Sales / CR AR. Debit note: DR AR / CR Sales.
	isCredit := kind == AdjustmentCredit
	proposal := EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      companyCode,
		IdempotencyKey:   fmt.Sprintf("adjustment-%d", note.ID),
		Narration:        fmt.Sprintf("%s note %s against invoice %s: %s", kind, noteNumber, invoiceNumber, reason),
		PostingDate:      noteDate,
		Lines: []EntryLine{
			{AccountCode: salesAccount, IsDebit: isCredit, Amount: amount},
			{AccountCode: arAccount, IsDebit: !isCredit, Amount: amount},
		},
	}
	if err := ledger.CommitInTx(ctx, tx, proposal); err != nil {
		return nil, fmt.Errorf("failed to book adjustment note %s: %w", noteNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit adjustment note: %w", err)
	}
	return &note, nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID int, ledger *Ledger) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status InvoiceStatus
	var outstanding, total decimal.Decimal
	var invoiceNumber string
	err = tx.QueryRow(ctx,
		"SELECT status, outstanding_amount, total_amount, invoice_number FROM invoices WHERE id = $1 FOR UPDATE",
		invoiceID,
	).Scan(&status, &outstanding, &total, &invoiceNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}
	if status != InvoiceOpen {
		return nil, fmt.Errorf("invoice %s cannot be cancelled: status is %s", invoiceNumber, status)
	}
	if !outstanding.Equal(total) {
		return nil, fmt.Errorf("invoice %s has recorded payments and cannot be cancelled", invoiceNumber)
	}

	_, err = tx.Exec(ctx,
		"UPDATE invoices SET status = $1, outstanding_amount = 0 WHERE id = $2",
		string(InvoiceCancelled), invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel invoice %d: %w", invoiceID, err)
	}

	// Reverse the original booking inside the same transaction: the invoice
	// can never end up cancelled with its journal entry still standing.
	var entryID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM journal_entries WHERE idempotency_key = $1",
		fmt.Sprintf("invoice-%d", invoiceID),
	).Scan(&entryID)
	switch {
	case err == nil:
		if err := ledger.ReverseInTx(ctx, tx, entryID, fmt.Sprintf("Cancellation of invoice %s", invoiceNumber)); err != nil {
			return nil, fmt.Errorf("failed to reverse invoice entry: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		// nothing was booked for this invoice, nothing to reverse
	default:
		return nil, fmt.Errorf("failed to look up invoice entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice cancellation: %w", err)
	}

	return s.GetInvoice(ctx, invoiceID)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const invoiceSelect = `
	SELECT i.id, i.company_id, i.invoice_number, i.order_id, i.customer_id, c.code, c.name,
	       i.status, i.invoice_date::text, i.due_date,
	       i.subtotal_amount, i.discount_amount, i.taxable_amount,
	       i.total_cgst_amount, i.total_sgst_amount, i.total_igst_amount,
	       i.direct_tax_amount, i.round_off_amount, i.total_amount, i.outstanding_amount,
	       i.created_at
	FROM invoices i
	JOIN customers c ON c.id = i.customer_id
`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.InvoiceNumber, &inv.OrderID, &inv.CustomerID, &inv.CustomerCode, &inv.CustomerName,
		&inv.Status, &inv.InvoiceDate, &inv.DueDate,
		&inv.SubtotalAmount, &inv.DiscountAmount, &inv.TaxableAmount,
		&inv.TotalCGSTAmount, &inv.TotalSGSTAmount, &inv.TotalIGSTAmount,
		&inv.DirectTaxAmount, &inv.RoundOffAmount, &inv.TotalAmount, &inv.OutstandingAmount,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *invoiceService) decorate(inv *Invoice) {
	inv.Display = InvoiceDisplayStatus(inv.Status, inv.DueDate, s.now())
	inv.PaidAmount, inv.PaymentProgressPercent = PaymentProgress(inv.TotalAmount, inv.OutstandingAmount)
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID int) (*Invoice, error) {
	row := s.pool.QueryRow(ctx, invoiceSelect+" WHERE i.id = $1", invoiceID)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT il.id, il.invoice_id, il.line_number, p.id, p.code, p.name, p.hsn_code,
		       il.quantity, il.unit_rate, il.line_total
		FROM invoice_lines il
		JOIN products p ON p.id = il.product_id
		WHERE il.invoice_id = $1
		ORDER BY il.line_number
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.LineNumber, &l.ProductID, &l.ProductCode, &l.ProductName,
			&l.HSNCode, &l.Quantity, &l.UnitRate, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice lines: %w", err)
	}

	s.decorate(inv)
	return inv, nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, companyCode string, status *InvoiceStatus) ([]Invoice, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	query := invoiceSelect + " WHERE i.company_id = $1"
	args := []any{companyID}
	if status != nil {
		query += " AND i.status = $2"
		args = append(args, string(*status))
	}
	query += " ORDER BY i.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		s.decorate(inv)
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) GetPayments(ctx context.Context, invoiceID int) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, payment_date::text, amount, method, reference, created_at
		FROM payments
		WHERE invoice_id = $1
		ORDER BY id
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.PaymentDate, &p.Amount, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}
