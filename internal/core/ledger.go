package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerService posts balanced journal entries against the chart of
// accounts and answers balance queries.
type LedgerService interface {
	Commit(ctx context.Context, proposal EntryProposal) error
	Validate(ctx context.Context, proposal EntryProposal) error
	GetBalances(ctx context.Context, companyCode string) ([]AccountBalance, error)
	Reverse(ctx context.Context, entryID int, narration string) error
}

type Ledger struct {
	pool       *pgxpool.Pool
	docService DocumentService
}

func NewLedger(pool *pgxpool.Pool, docService DocumentService) *Ledger {
	return &Ledger{pool: pool, docService: docService}
}

func (l *Ledger) Commit(ctx context.Context, proposal EntryProposal) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := l.CommitInTx(ctx, tx, proposal); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Validate runs structural validation only — nothing is written.
func (l *Ledger) Validate(ctx context.Context, proposal EntryProposal) error {
	proposal.Normalize()
	return proposal.Validate()
}

// CommitInTx posts the proposal inside the caller's transaction, so that a
// business state transition (invoice created, payment recorded) and its
// journal entry land or roll back together. A document of the proposal's
// type is created and posted in the same transaction to assign a gapless
// document number.
func (l *Ledger) CommitInTx(ctx context.Context, tx pgx.Tx, proposal EntryProposal) error {
	proposal.Normalize()
	if err := proposal.Validate(); err != nil {
		return fmt.Errorf("proposal validation failed: %w", err)
	}

	var companyID int
	err := tx.QueryRow(ctx, "SELECT id FROM companies WHERE company_code = $1", proposal.CompanyCode).Scan(&companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("company code %s not found", proposal.CompanyCode)
		}
		return fmt.Errorf("failed to fetch company ID: %w", err)
	}

	// Create and post the backing document inside the same transaction so a
	// failed journal insert rolls the document (and its number) back too.
	var draftDocID int
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, $2, $3, NULL)
		RETURNING id
	`, companyID, proposal.DocumentTypeCode, string(DocumentStatusDraft)).Scan(&draftDocID)
	if err != nil {
		return fmt.Errorf("failed to create draft document: %w", err)
	}

	if err = l.docService.PostDocumentTx(ctx, tx, draftDocID); err != nil {
		return fmt.Errorf("failed to post document: %w", err)
	}

	var documentNumber *string
	err = tx.QueryRow(ctx, "SELECT document_number FROM documents WHERE id = $1", draftDocID).Scan(&documentNumber)
	if err != nil {
		return fmt.Errorf("failed to retrieve posted document number: %w", err)
	}
	refType := "DOCUMENT"

	var entryID int
	if proposal.IdempotencyKey != "" {
		err = tx.QueryRow(ctx, `
			INSERT INTO journal_entries (company_id, narration, posting_date, document_date, reference_type, reference_id, idempotency_key, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (idempotency_key) DO NOTHING
			RETURNING id
		`, companyID, proposal.Narration, proposal.PostingDate, proposal.DocumentDate, refType, documentNumber, proposal.IdempotencyKey).Scan(&entryID)
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO journal_entries (company_id, narration, posting_date, document_date, reference_type, reference_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id
		`, companyID, proposal.Narration, proposal.PostingDate, proposal.DocumentDate, refType, documentNumber).Scan(&entryID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("duplicate entry: idempotency key %s already exists", proposal.IdempotencyKey)
		}
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	for _, line := range proposal.Lines {
		var accountID int
		err := tx.QueryRow(ctx, "SELECT id FROM accounts WHERE company_id = $1 AND code = $2", companyID, line.AccountCode).Scan(&accountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("account code %s not found for company %s", line.AccountCode, proposal.CompanyCode)
			}
			return fmt.Errorf("failed to resolve account %s: %w", line.AccountCode, err)
		}

		debit, credit := decimal.Zero, decimal.Zero
		if line.IsDebit {
			debit = line.Amount
		} else {
			credit = line.Amount
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO journal_lines (entry_id, account_id, debit, credit)
			VALUES ($1, $2, $3, $4)
		`, entryID, accountID, debit, credit)
		if err != nil {
			return fmt.Errorf("failed to insert journal line for account %s: %w", line.AccountCode, err)
		}
	}

	return nil
}

type AccountBalance struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"` // positive = net debit
}

// GetBalances returns the trial balance for one company: per-account net
// debit position across all posted journal lines.
func (l *Ledger) GetBalances(ctx context.Context, companyCode string) ([]AccountBalance, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT a.code, a.name, a.type,
		       COALESCE(SUM(jl.debit), 0) - COALESCE(SUM(jl.credit), 0) AS balance
		FROM accounts a
		JOIN companies c ON c.id = a.company_id
		LEFT JOIN journal_lines jl ON a.id = jl.account_id
		WHERE c.company_code = $1
		GROUP BY a.id, a.code, a.name, a.type
		ORDER BY a.code
	`, companyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var balances []AccountBalance
	for rows.Next() {
		var b AccountBalance
		if err := rows.Scan(&b.Code, &b.Name, &b.Type, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}
	return balances, nil
}

// Reverse posts a mirror-image entry that cancels out entryID. An entry can
// be reversed at most once.
func (l *Ledger) Reverse(ctx context.Context, entryID int, narration string) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := l.ReverseInTx(ctx, tx, entryID, narration); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReverseInTx posts the reversal inside the caller's transaction, so a
// business state transition and the undoing of its booking land or roll
// back together.
func (l *Ledger) ReverseInTx(ctx context.Context, tx pgx.Tx, entryID int, narration string) error {
	var companyID int
	var original string
	err := tx.QueryRow(ctx, "SELECT company_id, narration FROM journal_entries WHERE id = $1", entryID).Scan(&companyID, &original)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("entry %d not found", entryID)
		}
		return fmt.Errorf("failed to fetch entry %d: %w", entryID, err)
	}

	var count int
	if err := tx.QueryRow(ctx, "SELECT count(*) FROM journal_entries WHERE reversed_entry_id = $1", entryID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check reversal status: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("entry %d has already been reversed", entryID)
	}

	if narration == "" {
		narration = "Reversal of: " + original
	}

	var reversalID int
	err = tx.QueryRow(ctx, `
		INSERT INTO journal_entries (company_id, narration, posting_date, document_date, reversed_entry_id, created_at)
		VALUES ($1, $2, CURRENT_DATE, CURRENT_DATE, $3, NOW())
		RETURNING id
	`, companyID, narration, entryID).Scan(&reversalID)
	if err != nil {
		return fmt.Errorf("failed to insert reversal entry: %w", err)
	}

	// Swap debit and credit on every line of the original entry.
	_, err = tx.Exec(ctx, `
		INSERT INTO journal_lines (entry_id, account_id, debit, credit)
		SELECT $1, account_id, credit, debit
		FROM journal_lines
		WHERE entry_id = $2
	`, reversalID, entryID)
	if err != nil {
		return fmt.Errorf("failed to insert reversal lines: %w", err)
	}

	return nil
}
