package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryLine is a single debit or credit line in a journal entry proposal.
type EntryLine struct {
	AccountCode string
	IsDebit     bool
	Amount      decimal.Decimal // always positive
}

// EntryProposal is a balanced journal entry awaiting commit. Domain
// services build proposals for the business events they record (invoice
// posted, payment received, goods inward) and hand them to the Ledger.
type EntryProposal struct {
	DocumentTypeCode string
	CompanyCode      string
	IdempotencyKey   string
	Narration        string
	PostingDate      string // YYYY-MM-DD
	DocumentDate     string // YYYY-MM-DD, defaults to PostingDate
	Lines            []EntryLine
}

// Normalize fills defaulted fields before validation.
func (p *EntryProposal) Normalize() {
	if p.DocumentDate == "" {
		p.DocumentDate = p.PostingDate
	}
}

// Validate enforces double-entry rules: a proposal must identify its
// document type and company, carry valid dates, have at least two lines of
// strictly positive amounts, and balance debits against credits exactly.
func (p *EntryProposal) Validate() error {
	if p.DocumentTypeCode == "" {
		return errors.New("proposal must specify a document type code")
	}
	if p.CompanyCode == "" {
		return errors.New("proposal must specify a company code")
	}
	if p.PostingDate == "" {
		return errors.New("proposal must specify a posting date")
	}
	if _, err := time.Parse("2006-01-02", p.PostingDate); err != nil {
		return fmt.Errorf("invalid posting date format: %w", err)
	}
	if p.DocumentDate != "" {
		if _, err := time.Parse("2006-01-02", p.DocumentDate); err != nil {
			return fmt.Errorf("invalid document date format: %w", err)
		}
	}

	if len(p.Lines) < 2 {
		return errors.New("journal entry must have at least 2 lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range p.Lines {
		if line.AccountCode == "" {
			return errors.New("journal line missing account code")
		}
		if line.Amount.IsNegative() {
			return fmt.Errorf("amount cannot be negative for account %s", line.AccountCode)
		}
		if line.Amount.IsZero() {
			return fmt.Errorf("amount must be > 0 for account %s", line.AccountCode)
		}
		if line.IsDebit {
			totalDebit = totalDebit.Add(line.Amount)
		} else {
			totalCredit = totalCredit.Add(line.Amount)
		}
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("journal entry imbalance: debits %s != credits %s", totalDebit, totalCredit)
	}
	return nil
}
