package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a sales customer master record, scoped to a company.
type Customer struct {
	ID               int             `json:"id"`
	CompanyID        int             `json:"company_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	GSTIN            string          `json:"gstin"`
	StateCode        string          `json:"state_code"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Supplier represents a purchase-side vendor master record.
type Supplier struct {
	ID               int       `json:"id"`
	CompanyID        int       `json:"company_id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	GSTIN            string    `json:"gstin"`
	StateCode        string    `json:"state_code"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	CreatedAt        time.Time `json:"created_at"`
}

// Product represents a textile item in the company catalog (fabric, yarn,
// greige, finished goods). HSNCode drives GST classification;
// RevenueAccountCode links to the chart of accounts for automatic booking.
type Product struct {
	ID                 int             `json:"id"`
	CompanyID          int             `json:"company_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	HSNCode            string          `json:"hsn_code"`
	Unit               string          `json:"unit"` // "meter", "kg", "bale", "roll"
	UnitRate           decimal.Decimal `json:"unit_rate"`
	GSTRatePercent     decimal.Decimal `json:"gst_rate_percent"`
	RevenueAccountCode string          `json:"revenue_account_code"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
}

// OrderKind distinguishes sales orders from purchase orders. Both share the
// same header shape, lifecycle, and financial rules.
type OrderKind string

const (
	OrderKindSales    OrderKind = "sales"
	OrderKindPurchase OrderKind = "purchase"
)

// Order represents a sales or purchase order header.
// Status progresses through the state machine:
//
//	approval_pending → in_progress → {completed | cancelled}
//	approval_pending → cancelled
//
// The order number is assigned at approval via DocumentService. "Overdue"
// is never stored; it is derived at read time from ExpectedDeliveryDate.
type Order struct {
	ID                   int             `json:"id"`
	CompanyID            int             `json:"company_id"`
	Kind                 OrderKind       `json:"kind"`
	OrderNumber          string          `json:"order_number"` // empty until approved
	PartyID              int             `json:"party_id"`     // customer or supplier id
	PartyCode            string          `json:"party_code"`   // joined from master record
	PartyName            string          `json:"party_name"`   // joined from master record
	Status               OrderStatus     `json:"status"`
	OrderDate            string          `json:"order_date"` // YYYY-MM-DD
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	DiscountType         DiscountType    `json:"discount_type"`
	DiscountValue        decimal.Decimal `json:"discount_value"`
	GSTRatePercent       decimal.Decimal `json:"gst_rate_percent"`
	ItemTotal            decimal.Decimal `json:"item_total"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	GSTAmount            decimal.Decimal `json:"gst_amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Notes                string          `json:"notes"`
	Lines                []OrderLine     `json:"lines"`
	CreatedAt            time.Time       `json:"created_at"`
	ApprovedAt           *time.Time      `json:"approved_at,omitempty"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	CancelledAt          *time.Time      `json:"cancelled_at,omitempty"`

	// Read-time decorations, populated by the services for presentation.
	Display           StatusBadge `json:"display"`
	CompletionPercent int         `json:"completion_percent"`
}

// OrderLine represents one product row on an order. LineTotal is persisted
// at write time (quantity × rate) and treated as the source of truth on
// reads, matching the stored value exactly.
type OrderLine struct {
	ID                 int             `json:"id"`
	OrderID            int             `json:"order_id"`
	LineNumber         int             `json:"line_number"`
	ProductID          int             `json:"product_id"`
	ProductCode        string          `json:"product_code"` // joined from products
	ProductName        string          `json:"product_name"` // joined from products
	RevenueAccountCode string          `json:"revenue_account_code"`
	RequiredQuantity   decimal.Decimal `json:"required_quantity"`
	DispatchedQuantity decimal.Decimal `json:"dispatched_quantity"`
	UnitRate           decimal.Decimal `json:"unit_rate"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// OrderLineInput is used when creating a new order.
// If UnitRate is zero, the product's default unit_rate is used.
type OrderLineInput struct {
	ProductCode string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal // zero means "use product default"
}
