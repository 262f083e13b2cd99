package web

import (
	"net/http"
	"time"

	"textile-books/internal/app"
	"textile-books/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ── Master data ───────────────────────────────────────────────────────────────

// apiListCustomers handles GET /api/companies/{code}/customers.
func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiCreateCustomer handles POST /api/companies/{code}/customers.
func (h *Handler) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code             string          `json:"code"`
		Name             string          `json:"name"`
		GSTIN            string          `json:"gstin"`
		StateCode        string          `json:"state_code"`
		Email            string          `json:"email"`
		Phone            string          `json:"phone"`
		Address          string          `json:"address"`
		CreditLimit      decimal.Decimal `json:"credit_limit"`
		PaymentTermsDays int             `json:"payment_terms_days"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), app.CreateCustomerRequest{
		CompanyCode:      companyCode(r),
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
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, customer)
}

// apiListSuppliers handles GET /api/companies/{code}/suppliers.
func (h *Handler) apiListSuppliers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSuppliers(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiCreateSupplier handles POST /api/companies/{code}/suppliers.
func (h *Handler) apiCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code             string `json:"code"`
		Name             string `json:"name"`
		GSTIN            string `json:"gstin"`
		StateCode        string `json:"state_code"`
		Email            string `json:"email"`
		Phone            string `json:"phone"`
		Address          string `json:"address"`
		PaymentTermsDays int    `json:"payment_terms_days"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	supplier, err := h.svc.CreateSupplier(r.Context(), app.CreateSupplierRequest{
		CompanyCode:      companyCode(r),
		Code:             req.Code,
		Name:             req.Name,
		GSTIN:            req.GSTIN,
		StateCode:        req.StateCode,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		PaymentTermsDays: req.PaymentTermsDays,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, supplier)
}

// apiListProducts handles GET /api/companies/{code}/products.
func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiCreateProduct handles POST /api/companies/{code}/products.
func (h *Handler) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code               string          `json:"code"`
		Name               string          `json:"name"`
		Description        string          `json:"description"`
		HSNCode            string          `json:"hsn_code"`
		Unit               string          `json:"unit"`
		UnitRate           decimal.Decimal `json:"unit_rate"`
		GSTRatePercent     decimal.Decimal `json:"gst_rate_percent"`
		RevenueAccountCode string          `json:"revenue_account_code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), app.CreateProductRequest{
		CompanyCode:        companyCode(r),
		Code:               req.Code,
		Name:               req.Name,
		Description:        req.Description,
		HSNCode:            req.HSNCode,
		Unit:               req.Unit,
		UnitRate:           req.UnitRate,
		GSTRatePercent:     req.GSTRatePercent,
		RevenueAccountCode: req.RevenueAccountCode,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, product)
}

// ── Orders ────────────────────────────────────────────────────────────────────

// apiListOrders handles GET /api/companies/{code}/orders?kind=sales&status=in_progress.
func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	kind := core.OrderKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = core.OrderKindSales
	}

	var statusPtr *core.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := core.OrderStatus(s)
		statusPtr = &status
	}

	result, err := h.svc.ListOrders(r.Context(), companyCode(r), kind, statusPtr)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// apiCreateOrder handles POST /api/companies/{code}/orders.
func (h *Handler) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind                 string          `json:"kind"`
		PartyCode            string          `json:"party_code"`
		OrderDate            string          `json:"order_date"`
		ExpectedDeliveryDate string          `json:"expected_delivery_date"`
		DiscountType         string          `json:"discount_type"`
		DiscountValue        decimal.Decimal `json:"discount_value"`
		GSTRatePercent       decimal.Decimal `json:"gst_rate_percent"`
		Notes                string          `json:"notes"`
		Lines                []struct {
			ProductCode string          `json:"product_code"`
			Quantity    decimal.Decimal `json:"quantity"`
			UnitRate    decimal.Decimal `json:"unit_rate"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var expectedDelivery *time.Time
	if req.ExpectedDeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpectedDeliveryDate)
		if err != nil {
			writeError(w, r, "invalid expected_delivery_date, want YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		expectedDelivery = &parsed
	}

	lines := make([]app.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = app.OrderLineInput{
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
			UnitRate:    l.UnitRate,
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), app.CreateOrderRequest{
		CompanyCode:          companyCode(r),
		Kind:                 core.OrderKind(req.Kind),
		PartyCode:            req.PartyCode,
		OrderDate:            req.OrderDate,
		ExpectedDeliveryDate: expectedDelivery,
		DiscountType:         core.DiscountType(req.DiscountType),
		DiscountValue:        req.DiscountValue,
		GSTRatePercent:       req.GSTRatePercent,
		Notes:                req.Notes,
		Lines:                lines,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, result)
}

// apiGetOrder handles GET /api/companies/{code}/orders/{ref}.
func (h *Handler) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "ref"), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// resolveOrderID resolves the {ref} URL parameter (numeric ID or order number)
// to the order's internal ID, writing an error response on failure.
func (h *Handler) resolveOrderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	result, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "ref"), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return 0, false
	}
	return result.Order.ID, true
}

// apiApproveOrder handles POST /api/companies/{code}/orders/{ref}/approve.
func (h *Handler) apiApproveOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.resolveOrderID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ApproveOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
		return
	}
	writeJSON(w, result)
}

// apiCompleteOrder handles POST /api/companies/{code}/orders/{ref}/complete.
func (h *Handler) apiCompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.resolveOrderID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.CompleteOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
		return
	}
	writeJSON(w, result)
}

// apiCancelOrder handles POST /api/companies/{code}/orders/{ref}/cancel.
func (h *Handler) apiCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.resolveOrderID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.CancelOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
		return
	}
	writeJSON(w, result)
}
