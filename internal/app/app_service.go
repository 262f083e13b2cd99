package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"textile-books/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type appService struct {
	pool             *pgxpool.Pool
	ledger           *core.Ledger
	docService       core.DocumentService
	orderService     core.OrderService
	inventoryService core.InventoryService
	invoiceService   core.InvoiceService
	reportingService core.ReportingService
	staffService     core.StaffService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	ledger *core.Ledger,
	docService core.DocumentService,
	orderService core.OrderService,
	inventoryService core.InventoryService,
	invoiceService core.InvoiceService,
	reportingService core.ReportingService,
	staffService core.StaffService,
) ApplicationService {
	return &appService{
		pool:             pool,
		ledger:           ledger,
		docService:       docService,
		orderService:     orderService,
		inventoryService: inventoryService,
		invoiceService:   invoiceService,
		reportingService: reportingService,
		staffService:     staffService,
	}
}

// ── Master data ───────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context, companyCode string) (*CustomerListResult, error) {
	customers, err := s.orderService.GetCustomers(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*core.Customer, error) {
	if req.Code == "" || req.Name == "" {
		return nil, errors.New("customer code and name are required")
	}
	return s.orderService.CreateCustomer(ctx, req.CompanyCode, core.Customer{
		Code:             req.Code,
		Name:             req.Name,
		GSTIN:            req.GSTIN,
		StateCode:        req.StateCode,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		CreditLimit:      req.CreditLimit,
		PaymentTermsDays: req.PaymentTermsDays,
	})
}

func (s *appService) ListSuppliers(ctx context.Context, companyCode string) (*SupplierListResult, error) {
	suppliers, err := s.orderService.GetSuppliers(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{Suppliers: suppliers}, nil
}

func (s *appService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*core.Supplier, error) {
	if req.Code == "" || req.Name == "" {
		return nil, errors.New("supplier code and name are required")
	}
	return s.orderService.CreateSupplier(ctx, req.CompanyCode, core.Supplier{
		Code:             req.Code,
		Name:             req.Name,
		GSTIN:            req.GSTIN,
		StateCode:        req.StateCode,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		PaymentTermsDays: req.PaymentTermsDays,
	})
}

func (s *appService) ListProducts(ctx context.Context, companyCode string) (*ProductListResult, error) {
	products, err := s.orderService.GetProducts(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error) {
	if req.Code == "" || req.Name == "" {
		return nil, errors.New("product code and name are required")
	}
	return s.orderService.CreateProduct(ctx, req.CompanyCode, core.Product{
		Code:               req.Code,
		Name:               req.Name,
		Description:        req.Description,
		HSNCode:            req.HSNCode,
		Unit:               req.Unit,
		UnitRate:           req.UnitRate,
		GSTRatePercent:     req.GSTRatePercent,
		RevenueAccountCode: req.RevenueAccountCode,
	})
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	lines := make([]core.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.OrderLineInput{
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
			UnitRate:    l.UnitRate,
		}
	}

	orderDate := req.OrderDate
	if orderDate == "" {
		orderDate = time.Now().Format("2006-01-02")
	}

	order, err := s.orderService.CreateOrder(ctx, core.CreateOrderInput{
		CompanyCode:          req.CompanyCode,
		Kind:                 req.Kind,
		PartyCode:            req.PartyCode,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		DiscountType:         req.DiscountType,
		DiscountValue:        req.DiscountValue,
		GSTRatePercent:       req.GSTRatePercent,
		Lines:                lines,
		Notes:                req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ApproveOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orderService.ApproveOrder(ctx, orderID, s.docService)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) CompleteOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orderService.CompleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) CancelOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orderService.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// GetOrder looks up an order by numeric ID or order number string.
func (s *appService) GetOrder(ctx context.Context, ref, companyCode string) (*OrderResult, error) {
	var order *core.Order
	var err error
	if id, convErr := strconv.Atoi(ref); convErr == nil {
		order, err = s.orderService.GetOrder(ctx, id)
	} else {
		order, err = s.orderService.GetOrderByNumber(ctx, companyCode, ref)
	}
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ListOrders(ctx context.Context, companyCode string, kind core.OrderKind, status *core.OrderStatus) (*OrderListResult, error) {
	orders, err := s.orderService.GetOrders(ctx, companyCode, kind, status)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders, CompanyCode: companyCode}, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) ListWarehouses(ctx context.Context, companyCode string) (*WarehouseListResult, error) {
	warehouses, err := s.inventoryService.GetWarehouses(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &WarehouseListResult{Warehouses: warehouses}, nil
}

func (s *appService) GetStockLevels(ctx context.Context, companyCode string) (*StockResult, error) {
	levels, err := s.inventoryService.GetStockLevels(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels, CompanyCode: companyCode}, nil
}

func (s *appService) ListStockUnits(ctx context.Context, companyCode string, status *core.StockUnitStatus) (*StockUnitListResult, error) {
	units, err := s.inventoryService.GetStockUnits(ctx, companyCode, status)
	if err != nil {
		return nil, err
	}
	return &StockUnitListResult{Units: units}, nil
}

func (s *appService) RecordGoodsInward(ctx context.Context, req GoodsInwardRequest) (*GoodsInwardResult, error) {
	if len(req.Units) == 0 {
		return nil, errors.New("goods inward must have at least one unit")
	}

	units := make([]core.InwardUnitInput, len(req.Units))
	for i, u := range req.Units {
		units[i] = core.InwardUnitInput{
			ProductCode: u.ProductCode,
			Quantity:    u.Quantity,
			UnitCost:    u.UnitCost,
		}
	}

	inwardDate := req.InwardDate
	if inwardDate == "" {
		inwardDate = time.Now().Format("2006-01-02")
	}

	inward, err := s.inventoryService.RecordGoodsInward(ctx, core.GoodsInwardInput{
		CompanyCode:     req.CompanyCode,
		WarehouseCode:   req.WarehouseCode,
		SupplierCode:    req.SupplierCode,
		PurchaseOrderID: req.PurchaseOrderID,
		InwardDate:      inwardDate,
		Notes:           req.Notes,
		Units:           units,
	}, s.ledger, s.docService)
	if err != nil {
		return nil, err
	}
	return &GoodsInwardResult{Inward: inward}, nil
}

func (s *appService) RecordGoodsOutward(ctx context.Context, req GoodsOutwardRequest) (*GoodsOutwardResult, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("goods outward must have at least one item")
	}

	items := make([]core.OutwardItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = core.OutwardItemInput{
			StockUnitID: it.StockUnitID,
			OrderLineID: it.OrderLineID,
		}
	}

	outwardDate := req.OutwardDate
	if outwardDate == "" {
		outwardDate = time.Now().Format("2006-01-02")
	}

	outward, err := s.inventoryService.RecordGoodsOutward(ctx, core.GoodsOutwardInput{
		CompanyCode:  req.CompanyCode,
		SalesOrderID: req.SalesOrderID,
		OutwardDate:  outwardDate,
		Notes:        req.Notes,
		Items:        items,
	}, s.ledger, s.docService)
	if err != nil {
		return nil, err
	}

	order, err := s.orderService.GetOrder(ctx, req.SalesOrderID)
	if err != nil {
		return nil, fmt.Errorf("dispatch recorded but failed to reload order %d: %w", req.SalesOrderID, err)
	}
	return &GoodsOutwardResult{Outward: outward, Order: order}, nil
}

func (s *appService) CreateQRBatch(ctx context.Context, companyCode string, unitIDs []int) (*core.QRBatch, error) {
	if len(unitIDs) == 0 {
		return nil, errors.New("QR batch must reference at least one stock unit")
	}
	return s.inventoryService.CreateQRBatch(ctx, companyCode, unitIDs, s.docService)
}

// ── Invoicing ─────────────────────────────────────────────────────────────────

func (s *appService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResult, error) {
	invoiceDate := req.InvoiceDate
	if invoiceDate == "" {
		invoiceDate = time.Now().Format("2006-01-02")
	}

	invoice, err := s.invoiceService.CreateInvoiceFromOrder(ctx, req.OrderID, invoiceDate, req.DueDate, s.ledger, s.docService)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*InvoiceResult, error) {
	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = time.Now().Format("2006-01-02")
	}

	invoice, err := s.invoiceService.RecordPayment(ctx, req.InvoiceID, req.Amount, paymentDate, req.Method, req.Reference, s.ledger)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) CreateAdjustmentNote(ctx context.Context, req AdjustmentNoteRequest) (*core.AdjustmentNote, error) {
	noteDate := req.NoteDate
	if noteDate == "" {
		noteDate = time.Now().Format("2006-01-02")
	}
	return s.invoiceService.CreateAdjustmentNote(ctx, req.InvoiceID, req.Kind, req.Amount, noteDate, req.Reason, s.ledger, s.docService)
}

func (s *appService) CancelInvoice(ctx context.Context, invoiceID int) (*InvoiceResult, error) {
	invoice, err := s.invoiceService.CancelInvoice(ctx, invoiceID, s.ledger)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) GetInvoice(ctx context.Context, invoiceID int) (*InvoiceResult, error) {
	invoice, err := s.invoiceService.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) ListInvoices(ctx context.Context, companyCode string, status *core.InvoiceStatus) (*InvoiceListResult, error) {
	invoices, err := s.invoiceService.GetInvoices(ctx, companyCode, status)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices, CompanyCode: companyCode}, nil
}

func (s *appService) ListPayments(ctx context.Context, invoiceID int) (*PaymentListResult, error) {
	payments, err := s.invoiceService.GetPayments(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

// ── Reporting ─────────────────────────────────────────────────────────────────

func (s *appService) GetTrialBalance(ctx context.Context, companyCode string) (*TrialBalanceResult, error) {
	var companyName, currency string
	if err := s.pool.QueryRow(ctx,
		"SELECT name, base_currency FROM companies WHERE company_code = $1", companyCode,
	).Scan(&companyName, &currency); err != nil {
		return nil, fmt.Errorf("company %s not found: %w", companyCode, err)
	}

	balances, err := s.ledger.GetBalances(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	return &TrialBalanceResult{
		CompanyCode: companyCode,
		CompanyName: companyName,
		Currency:    currency,
		Accounts:    balances,
	}, nil
}

func (s *appService) GetAccountStatement(ctx context.Context, companyCode, accountCode, fromDate, toDate string) (*core.AccountStatement, error) {
	return s.reportingService.GetAccountStatement(ctx, companyCode, accountCode, fromDate, toDate)
}

// ── Staff & auth ──────────────────────────────────────────────────────────────

// AuthenticateStaff verifies credentials with a constant-time bcrypt compare.
func (s *appService) AuthenticateStaff(ctx context.Context, username, password string) (*StaffSession, error) {
	staff, err := s.staffService.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return nil, errors.New("invalid username or password")
	}
	return &StaffSession{
		StaffID:   staff.ID,
		Username:  staff.Username,
		Role:      staff.Role,
		CompanyID: staff.CompanyID,
	}, nil
}

func (s *appService) GetStaff(ctx context.Context, staffID int) (*StaffResult, error) {
	staff, err := s.staffService.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return &StaffResult{Staff: staff}, nil
}

func (s *appService) ListStaff(ctx context.Context, companyCode string) (*StaffListResult, error) {
	staff, err := s.staffService.ListStaff(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &StaffListResult{Staff: staff}, nil
}

func (s *appService) CreateStaffInvite(ctx context.Context, req CreateInviteRequest) (*core.StaffInvite, error) {
	return s.staffService.CreateInvite(ctx, req.CompanyCode, req.Email, req.Role, req.InvitedBy)
}

func (s *appService) AcceptStaffInvite(ctx context.Context, token, username, password string) (*StaffResult, error) {
	staff, err := s.staffService.AcceptInvite(ctx, token, username, password)
	if err != nil {
		return nil, err
	}
	return &StaffResult{Staff: staff}, nil
}

func (s *appService) RevokeStaffInvite(ctx context.Context, inviteID int) error {
	return s.staffService.RevokeInvite(ctx, inviteID)
}

func (s *appService) ListStaffInvites(ctx context.Context, companyCode string) (*InviteListResult, error) {
	invites, err := s.staffService.ListInvites(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &InviteListResult{Invites: invites}, nil
}

// LoadDefaultCompany loads the active company, using COMPANY_CODE env var if set.
func (s *appService) LoadDefaultCompany(ctx context.Context) (*core.Company, error) {
	if code := os.Getenv("COMPANY_CODE"); code != "" {
		c := &core.Company{}
		err := s.pool.QueryRow(ctx,
			"SELECT id, company_code, name, gstin, state_code, base_currency FROM companies WHERE company_code = $1", code,
		).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.GSTIN, &c.StateCode, &c.BaseCurrency)
		if err != nil {
			return nil, fmt.Errorf("company %s not found: %w", code, err)
		}
		return c, nil
	}

	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple companies found; set COMPANY_CODE env var (e.g. COMPANY_CODE=1000)")
	}

	c := &core.Company{}
	if err := s.pool.QueryRow(ctx,
		"SELECT id, company_code, name, gstin, state_code, base_currency FROM companies LIMIT 1",
	).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.GSTIN, &c.StateCode, &c.BaseCurrency); err != nil {
		return nil, fmt.Errorf("no default company found, have migrations run?: %w", err)
	}
	return c, nil
}
