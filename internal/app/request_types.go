package app

import (
	"time"

	"textile-books/internal/core"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest is the input for creating a new customer.
type CreateCustomerRequest struct {
	CompanyCode      string
	Code             string
	Name             string
	GSTIN            string
	StateCode        string
	Email            string
	Phone            string
	Address          string
	CreditLimit      decimal.Decimal
	PaymentTermsDays int
}

// CreateSupplierRequest is the input for creating a new supplier.
type CreateSupplierRequest struct {
	CompanyCode      string
	Code             string
	Name             string
	GSTIN            string
	StateCode        string
	Email            string
	Phone            string
	Address          string
	PaymentTermsDays int
}

// CreateProductRequest is the input for creating a new product.
type CreateProductRequest struct {
	CompanyCode        string
	Code               string
	Name               string
	Description        string
	HSNCode            string
	Unit               string
	UnitRate           decimal.Decimal
	GSTRatePercent     decimal.Decimal
	RevenueAccountCode string
}

// CreateOrderRequest is the input for creating a sales or purchase order.
type CreateOrderRequest struct {
	CompanyCode          string
	Kind                 core.OrderKind
	PartyCode            string // customer code (sales) or supplier code (purchase)
	OrderDate            string // YYYY-MM-DD
	ExpectedDeliveryDate *time.Time
	DiscountType         core.DiscountType
	DiscountValue        decimal.Decimal
	GSTRatePercent       decimal.Decimal
	Notes                string
	Lines                []OrderLineInput
}

// OrderLineInput is a single line within a CreateOrderRequest.
type OrderLineInput struct {
	ProductCode string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal // zero means "use product default"
}

// GoodsInwardRequest is the input for recording a goods receipt.
type GoodsInwardRequest struct {
	CompanyCode     string
	WarehouseCode   string
	SupplierCode    string // optional
	PurchaseOrderID *int   // optional link for dispatched-quantity tracking
	InwardDate      string // YYYY-MM-DD
	Notes           string
	Units           []InwardUnitInput
}

// InwardUnitInput describes one stock unit to create on goods inward.
type InwardUnitInput struct {
	ProductCode string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// GoodsOutwardRequest is the input for dispatching stock against a sales order.
type GoodsOutwardRequest struct {
	CompanyCode  string
	SalesOrderID int
	OutwardDate  string // YYYY-MM-DD
	Notes        string
	Items        []OutwardItemInput
}

// OutwardItemInput selects a stock unit to dispatch against an order line.
type OutwardItemInput struct {
	StockUnitID int
	OrderLineID int
}

// CreateInvoiceRequest is the input for billing a sales order.
type CreateInvoiceRequest struct {
	OrderID     int
	InvoiceDate string     // YYYY-MM-DD
	DueDate     *time.Time // nil means "invoice date + customer payment terms"
}

// RecordPaymentRequest is the input for recording money received against an invoice.
type RecordPaymentRequest struct {
	InvoiceID   int
	Amount      decimal.Decimal
	PaymentDate string // YYYY-MM-DD
	Method      string // "bank", "cash", "upi"
	Reference   string
}

// AdjustmentNoteRequest is the input for issuing a credit or debit note.
type AdjustmentNoteRequest struct {
	InvoiceID int
	Kind      core.AdjustmentKind
	Amount    decimal.Decimal
	NoteDate  string // YYYY-MM-DD
	Reason    string
}

// CreateInviteRequest is the input for inviting a staff member.
type CreateInviteRequest struct {
	CompanyCode string
	Email       string
	Role        core.StaffRole
	InvitedBy   int
}
