package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse is a physical storage location (godown) within a company.
type Warehouse struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// StockUnitStatus is the lifecycle state of an individual stock unit.
type StockUnitStatus string

const (
	StockUnitInStock    StockUnitStatus = "in_stock"
	StockUnitDispatched StockUnitStatus = "dispatched"
	StockUnitDamaged    StockUnitStatus = "damaged"
)

// StockUnit is one physically labelled unit of stock — a bale, roll, or
// than of fabric. Each carries a unique QR code; goods inward creates
// units and goods outward dispatches them against sales-order lines.
type StockUnit struct {
	ID          int             `json:"id"`
	CompanyID   int             `json:"company_id"`
	WarehouseID int             `json:"warehouse_id"`
	ProductID   int             `json:"product_id"`
	ProductCode string          `json:"product_code"` // joined from products
	ProductName string          `json:"product_name"` // joined from products
	QRCode      string          `json:"qr_code"`
	Quantity    decimal.Decimal `json:"quantity"` // in the product's unit (meters, kg)
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Status      StockUnitStatus `json:"status"`
	InwardID    *int            `json:"inward_id,omitempty"`
	OutwardID   *int            `json:"outward_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GoodsInward is a goods receipt note: stock units entering a warehouse,
// optionally against a purchase order.
type GoodsInward struct {
	ID              int         `json:"id"`
	CompanyID       int         `json:"company_id"`
	WarehouseID     int         `json:"warehouse_id"`
	InwardNumber    string      `json:"inward_number"`
	SupplierID      *int        `json:"supplier_id,omitempty"`
	PurchaseOrderID *int        `json:"purchase_order_id,omitempty"`
	InwardDate      string      `json:"inward_date"` // YYYY-MM-DD
	Notes           string      `json:"notes"`
	Units           []StockUnit `json:"units"`
	CreatedAt       time.Time   `json:"created_at"`
}

// InwardUnitInput describes one stock unit to create on goods inward.
type InwardUnitInput struct {
	ProductCode string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// GoodsInwardInput carries the fields for recording a goods receipt.
type GoodsInwardInput struct {
	CompanyCode     string
	WarehouseCode   string
	SupplierCode    string // optional
	PurchaseOrderID *int   // optional link for dispatched-quantity tracking
	InwardDate      string // YYYY-MM-DD
	Notes           string
	Units           []InwardUnitInput
}

// GoodsOutward is a dispatch note: stock units leaving a warehouse against
// sales-order lines.
type GoodsOutward struct {
	ID            int           `json:"id"`
	CompanyID     int           `json:"company_id"`
	WarehouseID   int           `json:"warehouse_id"`
	OutwardNumber string        `json:"outward_number"`
	SalesOrderID  int           `json:"sales_order_id"`
	OutwardDate   string        `json:"outward_date"` // YYYY-MM-DD
	Notes         string        `json:"notes"`
	Items         []OutwardItem `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
}

// OutwardItem maps one dispatched stock unit to the order line it fulfils.
type OutwardItem struct {
	ID          int             `json:"id"`
	OutwardID   int             `json:"outward_id"`
	StockUnitID int             `json:"stock_unit_id"`
	OrderLineID int             `json:"order_line_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// OutwardItemInput selects a stock unit to dispatch against an order line.
type OutwardItemInput struct {
	StockUnitID int
	OrderLineID int
}

// GoodsOutwardInput carries the fields for recording a dispatch.
type GoodsOutwardInput struct {
	CompanyCode  string
	SalesOrderID int
	OutwardDate  string // YYYY-MM-DD
	Notes        string
	Items        []OutwardItemInput
}

// QRBatch is a label print batch: a numbered set of freshly generated QR
// codes assigned to stock units.
type QRBatch struct {
	ID          int       `json:"id"`
	CompanyID   int       `json:"company_id"`
	BatchNumber string    `json:"batch_number"`
	UnitIDs     []int     `json:"unit_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockLevel is an aggregated stock position per product and warehouse.
type StockLevel struct {
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	WarehouseCode string          `json:"warehouse_code"`
	UnitsInStock  int             `json:"units_in_stock"`
	QuantityTotal decimal.Decimal `json:"quantity_total"`
}
