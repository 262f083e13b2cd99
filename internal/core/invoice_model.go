package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a tax invoice raised against a sales order. All amounts are
// persisted at creation time; reads never recompute them. OutstandingAmount
// starts at TotalAmount and is driven down by payments and credit notes.
type Invoice struct {
	ID                int             `json:"id"`
	CompanyID         int             `json:"company_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	OrderID           int             `json:"order_id"`
	CustomerID        int             `json:"customer_id"`
	CustomerCode      string          `json:"customer_code"` // joined from customers
	CustomerName      string          `json:"customer_name"` // joined from customers
	Status            InvoiceStatus   `json:"status"`
	InvoiceDate       string          `json:"invoice_date"` // YYYY-MM-DD
	DueDate           *time.Time      `json:"due_date,omitempty"`
	SubtotalAmount    decimal.Decimal `json:"subtotal_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	TaxableAmount     decimal.Decimal `json:"taxable_amount"`
	TotalCGSTAmount   decimal.Decimal `json:"total_cgst_amount"`
	TotalSGSTAmount   decimal.Decimal `json:"total_sgst_amount"`
	TotalIGSTAmount   decimal.Decimal `json:"total_igst_amount"`
	DirectTaxAmount   decimal.Decimal `json:"direct_tax_amount"`
	RoundOffAmount    decimal.Decimal `json:"round_off_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Lines             []InvoiceLine   `json:"lines"`
	CreatedAt         time.Time       `json:"created_at"`

	// Read-time decorations.
	Display                StatusBadge     `json:"display"`
	PaidAmount             decimal.Decimal `json:"paid_amount"`
	PaymentProgressPercent decimal.Decimal `json:"payment_progress_percent"`
}

// InvoiceLine is a single billed row, copied from the order line at
// invoicing time so later order edits cannot change an issued invoice.
type InvoiceLine struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	LineNumber  int             `json:"line_number"`
	ProductID   int             `json:"product_id"`
	ProductCode string          `json:"product_code"` // joined from products
	ProductName string          `json:"product_name"` // joined from products
	HSNCode     string          `json:"hsn_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Payment is money received against an invoice.
type Payment struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	PaymentDate string          `json:"payment_date"` // YYYY-MM-DD
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"` // "bank", "cash", "upi"
	Reference   string          `json:"reference"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AdjustmentKind distinguishes credit notes (reduce what the customer owes)
// from debit notes (increase it).
type AdjustmentKind string

const (
	AdjustmentCredit AdjustmentKind = "credit"
	AdjustmentDebit  AdjustmentKind = "debit"
)

// AdjustmentNote is a post-invoice correction: rate differences, returns,
// shortages. It adjusts the invoice's outstanding amount and books the
// matching ledger entry.
type AdjustmentNote struct {
	ID         int             `json:"id"`
	InvoiceID  int             `json:"invoice_id"`
	NoteNumber string          `json:"note_number"`
	Kind       AdjustmentKind  `json:"kind"`
	NoteDate   string          `json:"note_date"` // YYYY-MM-DD
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	CreatedAt  time.Time       `json:"created_at"`
}
