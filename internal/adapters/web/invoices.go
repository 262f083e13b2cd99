package web

import (
	"net/http"
	"strconv"
	"time"

	"textile-books/internal/app"
	"textile-books/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// invoiceID extracts and validates the {id} URL parameter.
func invoiceID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, r, "invalid invoice id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiListInvoices handles GET /api/companies/{code}/invoices?status=open.
func (h *Handler) apiListInvoices(w http.ResponseWriter, r *http.Request) {
	var statusPtr *core.InvoiceStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := core.InvoiceStatus(s)
		statusPtr = &status
	}

	result, err := h.svc.ListInvoices(r.Context(), companyCode(r), statusPtr)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// apiCreateInvoice handles POST /api/companies/{code}/invoices.
func (h *Handler) apiCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID     int    `json:"order_id"`
		InvoiceDate string `json:"invoice_date"`
		DueDate     string `json:"due_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeError(w, r, "invalid due_date, want YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		dueDate = &parsed
	}

	result, err := h.svc.CreateInvoice(r.Context(), app.CreateInvoiceRequest{
		OrderID:     req.OrderID,
		InvoiceDate: req.InvoiceDate,
		DueDate:     dueDate,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, result)
}

// apiGetInvoice handles GET /api/invoices/{id}.
func (h *Handler) apiGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiRecordPayment handles POST /api/invoices/{id}/payments.
func (h *Handler) apiRecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount      decimal.Decimal `json:"amount"`
		PaymentDate string          `json:"payment_date"`
		Method      string          `json:"method"`
		Reference   string          `json:"reference"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), app.RecordPaymentRequest{
		InvoiceID:   id,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Method:      req.Method,
		Reference:   req.Reference,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, result)
}

// apiListPayments handles GET /api/invoices/{id}/payments.
func (h *Handler) apiListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiCreateAdjustmentNote handles POST /api/invoices/{id}/adjustments.
func (h *Handler) apiCreateAdjustmentNote(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind     string          `json:"kind"`
		Amount   decimal.Decimal `json:"amount"`
		NoteDate string          `json:"note_date"`
		Reason   string          `json:"reason"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.svc.CreateAdjustmentNote(r.Context(), app.AdjustmentNoteRequest{
		InvoiceID: id,
		Kind:      core.AdjustmentKind(req.Kind),
		Amount:    req.Amount,
		NoteDate:  req.NoteDate,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, note)
}

// apiCancelInvoice handles POST /api/invoices/{id}/cancel.
func (h *Handler) apiCancelInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.CancelInvoice(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
		return
	}
	writeJSON(w, result)
}
