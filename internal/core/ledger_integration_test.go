package core_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"textile-books/internal/core"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE journal_lines, journal_entries, adjustment_notes, payments,
			invoice_lines, invoices, goods_outward_items, stock_units, goods_outward,
			goods_inward, qr_batches, order_lines, orders, warehouses, products,
			suppliers, customers, account_rules, accounts, staff_invites, staff,
			documents, document_sequences, document_types, companies CASCADE;

		INSERT INTO companies (id, company_code, name, gstin, state_code, base_currency)
		VALUES (1, 'TB', 'Test Trading Co', '27AABCT1234F1Z5', '27', 'INR');

		INSERT INTO accounts (company_id, code, name, type) VALUES
		(1, '1100', 'Bank', 'asset'),
		(1, '1200', 'Accounts Receivable', 'asset'),
		(1, '1400', 'Inventory', 'asset'),
		(1, '2100', 'Accounts Payable', 'liability'),
		(1, '2300', 'GST Output Payable', 'liability'),
		(1, '4100', 'Sales Revenue', 'revenue'),
		(1, '4900', 'Round Off', 'revenue'),
		(1, '5200', 'Cost of Goods Sold', 'expense');

		INSERT INTO account_rules (company_id, rule_type, account_code) VALUES
		(1, 'AR', '1200'),
		(1, 'AP', '2100'),
		(1, 'BANK', '1100'),
		(1, 'INVENTORY', '1400'),
		(1, 'GST_OUTPUT', '2300'),
		(1, 'SALES', '4100'),
		(1, 'ROUND_OFF', '4900'),
		(1, 'COGS', '5200');

		INSERT INTO document_types (code, name, numbering_strategy, resets_every_fy) VALUES
		('JE', 'Journal Entry', 'global', false),
		('SO', 'Sales Order', 'global', false),
		('PO', 'Purchase Order', 'global', false),
		('GIN', 'Goods Inward Note', 'global', false),
		('GON', 'Goods Outward Note', 'global', false),
		('QRB', 'QR Label Batch', 'global', false),
		('INV', 'Tax Invoice', 'global', false),
		('CRN', 'Credit Note', 'global', false),
		('DBN', 'Debit Note', 'global', false);

		INSERT INTO warehouses (company_id, code, name) VALUES (1, 'WH1', 'Main Warehouse');

		INSERT INTO customers (company_id, code, name, state_code, payment_terms_days)
		VALUES (1, 'CUST1', 'Shree Fabrics', '27', 30);

		INSERT INTO suppliers (company_id, code, name, state_code)
		VALUES (1, 'SUP1', 'Mill Supply Co', '24');

		INSERT INTO products (company_id, code, name, unit, unit_rate, gst_rate_percent, revenue_account_code)
		VALUES (1, 'FAB1', 'Cotton Fabric 40s', 'meter', 100, 5, '4100');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestLedger_Idempotency(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ctx := context.Background()

	idempotencyKey := uuid.NewString()
	proposal := core.EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      "TB",
		IdempotencyKey:   idempotencyKey,
		Narration:        "Idempotency check",
		PostingDate:      "2025-06-01",
		Lines: []core.EntryLine{
			{AccountCode: "1100", IsDebit: true, Amount: dec("150.00")},
			{AccountCode: "4100", IsDebit: false, Amount: dec("150.00")},
		},
	}

	if err := ledger.Commit(ctx, proposal); err != nil {
		t.Fatalf("First commit failed: %v", err)
	}

	err := ledger.Commit(ctx, proposal)
	if err == nil {
		t.Fatalf("Expected duplicate commit to fail, but it succeeded")
	}
	if err.Error() != fmt.Sprintf("duplicate entry: idempotency key %s already exists", idempotencyKey) {
		t.Errorf("Unexpected error message for duplicate commit: %v", err)
	}
}

func TestLedger_Reversal(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ctx := context.Background()

	idempotencyKey := uuid.NewString()
	proposal := core.EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      "TB",
		IdempotencyKey:   idempotencyKey,
		Narration:        "Entry to be reversed",
		PostingDate:      "2025-06-01",
		Lines: []core.EntryLine{
			{AccountCode: "1100", IsDebit: true, Amount: dec("500.00")},
			{AccountCode: "4100", IsDebit: false, Amount: dec("500.00")},
		},
	}

	if err := ledger.Commit(ctx, proposal); err != nil {
		t.Fatalf("Failed to setup commit: %v", err)
	}

	var entryID int
	err := pool.QueryRow(ctx, "SELECT id FROM journal_entries WHERE idempotency_key = $1", idempotencyKey).Scan(&entryID)
	if err != nil {
		t.Fatalf("Failed to fetch entry ID: %v", err)
	}

	if err := ledger.Reverse(ctx, entryID, "Error in original entry"); err != nil {
		t.Fatalf("Failed to reverse entry: %v", err)
	}

	err = ledger.Reverse(ctx, entryID, "Trying to reverse again")
	if err == nil {
		t.Fatalf("Expected double reversal to fail, but it succeeded")
	}
	if err.Error() != fmt.Sprintf("entry %d has already been reversed", entryID) {
		t.Errorf("Unexpected error message for double reversal: %v", err)
	}

	var count int
	err = pool.QueryRow(ctx, "SELECT count(*) FROM journal_entries WHERE reversed_entry_id = $1", entryID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check reversal status: %v", err)
	}
	if count == 0 {
		t.Errorf("Expected to find a new entry with reversed_entry_id pointing to the original")
	}
}

func TestLedger_ReverseInTxFollowsCallerTransaction(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ctx := context.Background()

	idempotencyKey := uuid.NewString()
	proposal := core.EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      "TB",
		IdempotencyKey:   idempotencyKey,
		Narration:        "Entry reversed inside a caller transaction",
		PostingDate:      "2025-06-01",
		Lines: []core.EntryLine{
			{AccountCode: "1100", IsDebit: true, Amount: dec("300.00")},
			{AccountCode: "4100", IsDebit: false, Amount: dec("300.00")},
		},
	}
	if err := ledger.Commit(ctx, proposal); err != nil {
		t.Fatalf("Failed to setup commit: %v", err)
	}

	var entryID int
	err := pool.QueryRow(ctx, "SELECT id FROM journal_entries WHERE idempotency_key = $1", idempotencyKey).Scan(&entryID)
	if err != nil {
		t.Fatalf("Failed to fetch entry ID: %v", err)
	}

	// Rolling back the caller's transaction discards the reversal with it.
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if err := ledger.ReverseInTx(ctx, tx, entryID, "Reversal that never lands"); err != nil {
		t.Fatalf("ReverseInTx failed: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	var count int
	err = pool.QueryRow(ctx, "SELECT count(*) FROM journal_entries WHERE reversed_entry_id = $1", entryID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check reversal status: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected no reversal after rollback, found %d", count)
	}

	// Committing persists it, and the entry then counts as reversed.
	tx, err = pool.Begin(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if err := ledger.ReverseInTx(ctx, tx, entryID, "Reversal that lands"); err != nil {
		t.Fatalf("ReverseInTx failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	err = pool.QueryRow(ctx, "SELECT count(*) FROM journal_entries WHERE reversed_entry_id = $1", entryID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check reversal status: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected one reversal after commit, found %d", count)
	}

	if err := ledger.Reverse(ctx, entryID, "Trying to reverse again"); err == nil {
		t.Fatal("Expected reversing an already-reversed entry to fail")
	}
}

func TestLedger_AccountScoping(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ctx := context.Background()

	// Seed a second company with its own account code "1100" (same code, different company)
	_, err := pool.Exec(ctx, `
		INSERT INTO companies (id, company_code, name, state_code, base_currency) VALUES (2, 'FX', 'Foreign Company', '33', 'INR');
		INSERT INTO accounts (company_id, code, name, type) VALUES (2, '1100', 'Foreign Cash', 'asset');
	`)
	if err != nil {
		t.Fatalf("Failed to seed second company: %v", err)
	}

	// Account codes resolve strictly within the proposal's company.
	proposal := core.EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      "TB",
		IdempotencyKey:   uuid.NewString(),
		Narration:        "Scoping check",
		PostingDate:      "2025-06-01",
		Lines: []core.EntryLine{
			{AccountCode: "9999", IsDebit: true, Amount: dec("100.00")},
			{AccountCode: "4100", IsDebit: false, Amount: dec("100.00")},
		},
	}

	err = ledger.Commit(ctx, proposal)
	if err == nil {
		t.Fatal("Expected error for non-existent account code, got nil")
	}
	expected := "account code 9999 not found for company TB"
	if err.Error() != expected {
		t.Errorf("Unexpected error: got %q, want %q", err.Error(), expected)
	}
}

func TestLedger_GetBalances(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ctx := context.Background()

	proposal := core.EntryProposal{
		DocumentTypeCode: "JE",
		CompanyCode:      "TB",
		IdempotencyKey:   uuid.NewString(),
		Narration:        "Balance check",
		PostingDate:      "2025-06-01",
		Lines: []core.EntryLine{
			{AccountCode: "1100", IsDebit: true, Amount: dec("250.00")},
			{AccountCode: "4100", IsDebit: false, Amount: dec("250.00")},
		},
	}

	if err := ledger.Commit(ctx, proposal); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	balances, err := ledger.GetBalances(ctx, "TB")
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}

	balanceMap := make(map[string]string)
	for _, b := range balances {
		balanceMap[b.Code] = b.Balance.StringFixed(2)
	}

	// Account 1100 (asset): debit 250 → positive balance
	if balanceMap["1100"] != "250.00" {
		t.Errorf("Expected account 1100 balance 250.00, got %s", balanceMap["1100"])
	}
	// Account 4100 (revenue): credit 250 → negative balance (credit normal)
	if balanceMap["4100"] != "-250.00" {
		t.Errorf("Expected account 4100 balance -250.00, got %s", balanceMap["4100"])
	}
}
