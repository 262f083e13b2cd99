package app

import "textile-books/internal/core"

// TrialBalanceResult is returned by GetTrialBalance.
type TrialBalanceResult struct {
	CompanyCode string
	CompanyName string
	Currency    string
	Accounts    []core.AccountBalance
}

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders      []core.Order
	CompanyCode string
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// WarehouseListResult is returned by ListWarehouses.
type WarehouseListResult struct {
	Warehouses []core.Warehouse
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels      []core.StockLevel
	CompanyCode string
}

// StockUnitListResult is returned by ListStockUnits.
type StockUnitListResult struct {
	Units []core.StockUnit
}

// GoodsInwardResult is returned by RecordGoodsInward.
type GoodsInwardResult struct {
	Inward *core.GoodsInward
}

// GoodsOutwardResult is returned by RecordGoodsOutward.
type GoodsOutwardResult struct {
	Outward *core.GoodsOutward
	// Order is the sales order after dispatched quantities advanced; its
	// status may have flipped to completed.
	Order *core.Order
}

// InvoiceResult is returned by invoice lifecycle operations.
type InvoiceResult struct {
	Invoice *core.Invoice
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Invoices    []core.Invoice
	CompanyCode string
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	Payments []core.Payment
}

// StaffSession is returned by AuthenticateStaff on success.
type StaffSession struct {
	StaffID   int
	Username  string
	Role      core.StaffRole
	CompanyID int
}

// StaffResult is returned by staff profile operations.
type StaffResult struct {
	Staff *core.Staff
}

// StaffListResult is returned by ListStaff.
type StaffListResult struct {
	Staff []core.Staff
}

// InviteListResult is returned by ListStaffInvites.
type InviteListResult struct {
	Invites []core.StaffInvite
}
