package app

import (
	"context"

	"textile-books/internal/core"
)

// ApplicationService is the single interface all adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// ── Master data ──

	// ListCustomers returns all customers for a company.
	ListCustomers(ctx context.Context, companyCode string) (*CustomerListResult, error)

	// CreateCustomer creates a customer record for the given company.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*core.Customer, error)

	// ListSuppliers returns all suppliers for a company.
	ListSuppliers(ctx context.Context, companyCode string) (*SupplierListResult, error)

	// CreateSupplier creates a supplier record for the given company.
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*core.Supplier, error)

	// ListProducts returns all active products for a company.
	ListProducts(ctx context.Context, companyCode string) (*ProductListResult, error)

	// CreateProduct creates a product record for the given company.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error)

	// ── Orders ──

	// CreateOrder creates a sales or purchase order in approval_pending.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// ApproveOrder moves approval_pending → in_progress and assigns a
	// gapless SO/PO number.
	ApproveOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// CompleteOrder moves in_progress → completed once every line is fully dispatched.
	CompleteOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// CancelOrder moves approval_pending or in_progress → cancelled.
	CancelOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// GetOrder returns a single order by numeric ID or order number string.
	GetOrder(ctx context.Context, ref, companyCode string) (*OrderResult, error)

	// ListOrders returns orders of a kind for a company, optionally filtered by status.
	ListOrders(ctx context.Context, companyCode string, kind core.OrderKind, status *core.OrderStatus) (*OrderListResult, error)

	// ── Inventory ──

	// ListWarehouses returns all active warehouses for a company.
	ListWarehouses(ctx context.Context, companyCode string) (*WarehouseListResult, error)

	// GetStockLevels returns aggregated stock per product and warehouse.
	GetStockLevels(ctx context.Context, companyCode string) (*StockResult, error)

	// ListStockUnits returns individual stock units, optionally filtered by status.
	ListStockUnits(ctx context.Context, companyCode string, status *core.StockUnitStatus) (*StockUnitListResult, error)

	// RecordGoodsInward books a goods receipt: creates QR-labelled stock
	// units and posts DR Inventory / CR Accounts Payable.
	RecordGoodsInward(ctx context.Context, req GoodsInwardRequest) (*GoodsInwardResult, error)

	// RecordGoodsOutward dispatches stock units against a sales order and
	// posts DR COGS / CR Inventory.
	RecordGoodsOutward(ctx context.Context, req GoodsOutwardRequest) (*GoodsOutwardResult, error)

	// CreateQRBatch relabels in-stock units with fresh QR codes under a
	// numbered print batch.
	CreateQRBatch(ctx context.Context, companyCode string, unitIDs []int) (*core.QRBatch, error)

	// ── Invoicing ──

	// CreateInvoice bills a sales order, posting the sales journal entry.
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResult, error)

	// RecordPayment records money received against an invoice.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*InvoiceResult, error)

	// CreateAdjustmentNote issues a credit or debit note against an invoice.
	CreateAdjustmentNote(ctx context.Context, req AdjustmentNoteRequest) (*core.AdjustmentNote, error)

	// CancelInvoice voids an unpaid invoice and reverses its journal entry.
	CancelInvoice(ctx context.Context, invoiceID int) (*InvoiceResult, error)

	// GetInvoice returns a single invoice with payment progress decorations.
	GetInvoice(ctx context.Context, invoiceID int) (*InvoiceResult, error)

	// ListInvoices returns invoices for a company, optionally filtered by status.
	ListInvoices(ctx context.Context, companyCode string, status *core.InvoiceStatus) (*InvoiceListResult, error)

	// ListPayments returns payments recorded against an invoice.
	ListPayments(ctx context.Context, invoiceID int) (*PaymentListResult, error)

	// ── Reporting ──

	// GetTrialBalance returns a trial balance for the given company.
	GetTrialBalance(ctx context.Context, companyCode string) (*TrialBalanceResult, error)

	// GetAccountStatement returns a chronological account statement with
	// running balance. fromDate and toDate are optional (empty = unbounded).
	GetAccountStatement(ctx context.Context, companyCode, accountCode, fromDate, toDate string) (*core.AccountStatement, error)

	// ── Staff & auth ──

	// AuthenticateStaff verifies credentials and returns a session on success.
	AuthenticateStaff(ctx context.Context, username, password string) (*StaffSession, error)

	// GetStaff returns a staff profile by ID.
	GetStaff(ctx context.Context, staffID int) (*StaffResult, error)

	// ListStaff returns all staff for a company.
	ListStaff(ctx context.Context, companyCode string) (*StaffListResult, error)

	// CreateStaffInvite issues a pending invite token for an email address.
	CreateStaffInvite(ctx context.Context, req CreateInviteRequest) (*core.StaffInvite, error)

	// AcceptStaffInvite redeems an invite token and creates the staff account.
	AcceptStaffInvite(ctx context.Context, token, username, password string) (*StaffResult, error)

	// RevokeStaffInvite marks a pending invite revoked.
	RevokeStaffInvite(ctx context.Context, inviteID int) error

	// ListStaffInvites returns invites for a company, newest first.
	ListStaffInvites(ctx context.Context, companyCode string) (*InviteListResult, error)

	// LoadDefaultCompany loads the active company. Uses COMPANY_CODE env var
	// if set; otherwise expects exactly one company in the database.
	LoadDefaultCompany(ctx context.Context) (*core.Company, error)
}
