package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StatementLine is a single journal line in an account statement.
// RunningBalance is the cumulative net-debit position after this line.
type StatementLine struct {
	PostingDate    string          `json:"posting_date"`
	Narration      string          `json:"narration"`
	Reference      string          `json:"reference"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// AccountStatement is a chronological ledger extract for one account.
type AccountStatement struct {
	CompanyCode    string          `json:"company_code"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	FromDate       string          `json:"from_date,omitempty"`
	ToDate         string          `json:"to_date,omitempty"`
	Lines          []StatementLine `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// ReportingService answers read-only ledger queries.
type ReportingService interface {
	// GetAccountStatement returns a chronological statement with running
	// balance. fromDate and toDate are optional (empty string = unbounded).
	GetAccountStatement(ctx context.Context, companyCode, accountCode, fromDate, toDate string) (*AccountStatement, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetAccountStatement(ctx context.Context, companyCode, accountCode, fromDate, toDate string) (*AccountStatement, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	var accountID int
	var accountName string
	err = s.pool.QueryRow(ctx,
		"SELECT id, name FROM accounts WHERE company_id = $1 AND code = $2",
		companyID, accountCode,
	).Scan(&accountID, &accountName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s not found for company %s", accountCode, companyCode)
		}
		return nil, fmt.Errorf("failed to resolve account %s: %w", accountCode, err)
	}

	query := `
		SELECT je.posting_date::text, je.narration, COALESCE(je.reference_id, ''), jl.debit, jl.credit
		FROM journal_lines jl
		JOIN journal_entries je ON je.id = jl.entry_id
		WHERE jl.account_id = $1
	`
	args := []any{accountID}
	if fromDate != "" {
		args = append(args, fromDate)
		query += fmt.Sprintf(" AND je.posting_date >= $%d", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		query += fmt.Sprintf(" AND je.posting_date <= $%d", len(args))
	}
	query += " ORDER BY je.posting_date, je.id, jl.id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement: %w", err)
	}
	defer rows.Close()

	stmt := &AccountStatement{
		CompanyCode: companyCode,
		AccountCode: accountCode,
		AccountName: accountName,
		FromDate:    fromDate,
		ToDate:      toDate,
	}

	running := decimal.Zero
	for rows.Next() {
		var line StatementLine
		if err := rows.Scan(&line.PostingDate, &line.Narration, &line.Reference, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan statement line: %w", err)
		}
		running = running.Add(line.Debit).Sub(line.Credit)
		line.RunningBalance = running
		stmt.Lines = append(stmt.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement lines: %w", err)
	}
	stmt.ClosingBalance = running
	return stmt, nil
}
