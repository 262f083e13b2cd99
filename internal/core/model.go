package core

import "time"

type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

type Account struct {
	ID        int         `json:"id"`
	CompanyID int         `json:"company_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
}

// Company is a tenant. Every master record, order, invoice, stock unit,
// and journal entry is scoped to exactly one company.
type Company struct {
	ID           int    `json:"id"`
	CompanyCode  string `json:"company_code"`
	Name         string `json:"name"`
	GSTIN        string `json:"gstin"`
	StateCode    string `json:"state_code"` // place-of-supply comparisons use this
	BaseCurrency string `json:"base_currency"`
}

type JournalEntry struct {
	ID              int           `json:"id"`
	CompanyID       int           `json:"company_id"`
	IdempotencyKey  string        `json:"idempotency_key,omitempty"`
	PostingDate     time.Time     `json:"posting_date"`
	DocumentDate    time.Time     `json:"document_date"`
	CreatedAt       time.Time     `json:"created_at"`
	Narration       string        `json:"narration"`
	ReferenceType   *string       `json:"reference_type,omitempty"`
	ReferenceID     *string       `json:"reference_id,omitempty"`
	ReversedEntryID *int          `json:"reversed_entry_id,omitempty"`
	Lines           []JournalLine `json:"lines"`
}

type JournalLine struct {
	ID        int    `json:"id"`
	EntryID   int    `json:"entry_id"`
	AccountID int    `json:"account_id"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
}

type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "DRAFT"
	DocumentStatusPosted    DocumentStatus = "POSTED"
	DocumentStatusCancelled DocumentStatus = "CANCELLED"
)

// DocumentType describes a numbered business document class (sales order,
// invoice, goods inward/outward note). NumberingStrategy is 'global' or
// 'per_fy'; per-FY sequences restart at 1 each financial year.
type DocumentType struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	NumberingStrategy string `json:"numbering_strategy"`
	ResetsEveryFY     bool   `json:"resets_every_fy"`
}

type Document struct {
	ID             int            `json:"id"`
	CompanyID      int            `json:"company_id"`
	TypeCode       string         `json:"type_code"`
	Status         DocumentStatus `json:"status"`
	DocumentNumber *string        `json:"document_number,omitempty"`
	FinancialYear  *int           `json:"financial_year,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	PostedAt       *time.Time     `json:"posted_at,omitempty"`
}

type DocumentSequence struct {
	CompanyID     int    `json:"company_id"`
	TypeCode      string `json:"type_code"`
	FinancialYear *int   `json:"financial_year,omitempty"`
	LastNumber    int64  `json:"last_number"`
}
