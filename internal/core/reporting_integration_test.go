package core_test

import (
	"context"
	"testing"

	"textile-books/internal/core"

	"github.com/google/uuid"
)

func TestGetAccountStatement(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	commit := func(postingDate, amount string) {
		t.Helper()
		err := ledger.Commit(ctx, core.EntryProposal{
			DocumentTypeCode: "JE",
			CompanyCode:      "TB",
			IdempotencyKey:   uuid.NewString(),
			Narration:        "Statement entry " + postingDate,
			PostingDate:      postingDate,
			Lines: []core.EntryLine{
				{AccountCode: "1100", IsDebit: true, Amount: dec(amount)},
				{AccountCode: "4100", IsDebit: false, Amount: dec(amount)},
			},
		})
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}

	commit("2025-06-01", "100")
	commit("2025-06-15", "200")
	commit("2025-07-01", "400")

	stmt, err := reporting.GetAccountStatement(ctx, "TB", "1100", "", "")
	if err != nil {
		t.Fatalf("GetAccountStatement failed: %v", err)
	}
	if stmt.AccountName != "Bank" {
		t.Errorf("Expected account name Bank, got %s", stmt.AccountName)
	}
	if len(stmt.Lines) != 3 {
		t.Fatalf("Expected 3 statement lines, got %d", len(stmt.Lines))
	}
	if stmt.Lines[1].RunningBalance.StringFixed(2) != "300.00" {
		t.Errorf("Expected running balance 300.00 after second line, got %s", stmt.Lines[1].RunningBalance.StringFixed(2))
	}
	if stmt.ClosingBalance.StringFixed(2) != "700.00" {
		t.Errorf("Expected closing balance 700.00, got %s", stmt.ClosingBalance.StringFixed(2))
	}

	// Date-bounded extract.
	june, err := reporting.GetAccountStatement(ctx, "TB", "1100", "2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("GetAccountStatement (bounded) failed: %v", err)
	}
	if len(june.Lines) != 2 {
		t.Fatalf("Expected 2 lines in June, got %d", len(june.Lines))
	}
	if june.ClosingBalance.StringFixed(2) != "300.00" {
		t.Errorf("Expected June closing balance 300.00, got %s", june.ClosingBalance.StringFixed(2))
	}

	if _, err := reporting.GetAccountStatement(ctx, "TB", "0000", "", ""); err == nil {
		t.Fatal("Expected unknown account code to fail")
	}
}
