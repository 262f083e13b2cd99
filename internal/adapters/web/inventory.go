package web

import (
	"net/http"

	"textile-books/internal/app"
	"textile-books/internal/core"

	"github.com/shopspring/decimal"
)

// apiListWarehouses handles GET /api/companies/{code}/warehouses.
func (h *Handler) apiListWarehouses(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListWarehouses(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiStockLevels handles GET /api/companies/{code}/stock.
func (h *Handler) apiStockLevels(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStockLevels(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiListStockUnits handles GET /api/companies/{code}/stock/units?status=in_stock.
func (h *Handler) apiListStockUnits(w http.ResponseWriter, r *http.Request) {
	var statusPtr *core.StockUnitStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := core.StockUnitStatus(s)
		statusPtr = &status
	}

	result, err := h.svc.ListStockUnits(r.Context(), companyCode(r), statusPtr)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// apiGoodsInward handles POST /api/companies/{code}/goods-inward.
func (h *Handler) apiGoodsInward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WarehouseCode   string `json:"warehouse_code"`
		SupplierCode    string `json:"supplier_code"`
		PurchaseOrderID *int   `json:"purchase_order_id"`
		InwardDate      string `json:"inward_date"`
		Notes           string `json:"notes"`
		Units           []struct {
			ProductCode string          `json:"product_code"`
			Quantity    decimal.Decimal `json:"quantity"`
			UnitCost    decimal.Decimal `json:"unit_cost"`
		} `json:"units"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	units := make([]app.InwardUnitInput, len(req.Units))
	for i, u := range req.Units {
		units[i] = app.InwardUnitInput{
			ProductCode: u.ProductCode,
			Quantity:    u.Quantity,
			UnitCost:    u.UnitCost,
		}
	}

	result, err := h.svc.RecordGoodsInward(r.Context(), app.GoodsInwardRequest{
		CompanyCode:     companyCode(r),
		WarehouseCode:   req.WarehouseCode,
		SupplierCode:    req.SupplierCode,
		PurchaseOrderID: req.PurchaseOrderID,
		InwardDate:      req.InwardDate,
		Notes:           req.Notes,
		Units:           units,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, result)
}

// apiGoodsOutward handles POST /api/companies/{code}/goods-outward.
func (h *Handler) apiGoodsOutward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SalesOrderID int    `json:"sales_order_id"`
		OutwardDate  string `json:"outward_date"`
		Notes        string `json:"notes"`
		Items        []struct {
			StockUnitID int `json:"stock_unit_id"`
			OrderLineID int `json:"order_line_id"`
		} `json:"items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	items := make([]app.OutwardItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = app.OutwardItemInput{
			StockUnitID: it.StockUnitID,
			OrderLineID: it.OrderLineID,
		}
	}

	result, err := h.svc.RecordGoodsOutward(r.Context(), app.GoodsOutwardRequest{
		CompanyCode:  companyCode(r),
		SalesOrderID: req.SalesOrderID,
		OutwardDate:  req.OutwardDate,
		Notes:        req.Notes,
		Items:        items,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, result)
}

// apiCreateQRBatch handles POST /api/companies/{code}/qr-batches.
func (h *Handler) apiCreateQRBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UnitIDs []int `json:"unit_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	batch, err := h.svc.CreateQRBatch(r.Context(), companyCode(r), req.UnitIDs)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, batch)
}
