package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"textile-books/internal/app"
	"textile-books/internal/core"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public routes ─────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)
	// Invite acceptance happens before the user has credentials.
	r.With(RequestBodyLimit(1<<20)).Post("/api/invites/accept", h.apiAcceptInvite)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// Auth
		r.Get("/api/auth/me", h.me)

		// ── Master data ───────────────────────────────────────────────────────
		r.Get("/api/companies/{code}/customers", h.apiListCustomers)
		r.Post("/api/companies/{code}/customers", h.apiCreateCustomer)
		r.Get("/api/companies/{code}/suppliers", h.apiListSuppliers)
		r.Post("/api/companies/{code}/suppliers", h.apiCreateSupplier)
		r.Get("/api/companies/{code}/products", h.apiListProducts)
		r.Post("/api/companies/{code}/products", h.apiCreateProduct)

		// ── Orders (sales and purchase) ───────────────────────────────────────
		r.Get("/api/companies/{code}/orders", h.apiListOrders)
		r.Post("/api/companies/{code}/orders", h.apiCreateOrder)
		r.Get("/api/companies/{code}/orders/{ref}", h.apiGetOrder)
		r.Post("/api/companies/{code}/orders/{ref}/approve", h.apiApproveOrder)
		r.Post("/api/companies/{code}/orders/{ref}/complete", h.apiCompleteOrder)
		r.Post("/api/companies/{code}/orders/{ref}/cancel", h.apiCancelOrder)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/companies/{code}/warehouses", h.apiListWarehouses)
		r.Get("/api/companies/{code}/stock", h.apiStockLevels)
		r.Get("/api/companies/{code}/stock/units", h.apiListStockUnits)
		r.Post("/api/companies/{code}/goods-inward", h.apiGoodsInward)
		r.Post("/api/companies/{code}/goods-outward", h.apiGoodsOutward)
		r.Post("/api/companies/{code}/qr-batches", h.apiCreateQRBatch)

		// ── Invoicing ─────────────────────────────────────────────────────────
		r.Get("/api/companies/{code}/invoices", h.apiListInvoices)
		r.Post("/api/companies/{code}/invoices", h.apiCreateInvoice)
		r.Get("/api/invoices/{id}", h.apiGetInvoice)
		r.Post("/api/invoices/{id}/payments", h.apiRecordPayment)
		r.Get("/api/invoices/{id}/payments", h.apiListPayments)
		r.Post("/api/invoices/{id}/adjustments", h.apiCreateAdjustmentNote)
		r.Post("/api/invoices/{id}/cancel", h.apiCancelInvoice)

		// ── Reporting ─────────────────────────────────────────────────────────
		r.Get("/api/companies/{code}/trial-balance", h.apiTrialBalance)
		r.Get("/api/companies/{code}/accounts/{accountCode}/statement", h.apiAccountStatement)

		// ── Staff management (owner/manager only) ─────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(core.RoleOwner, core.RoleManager))
			r.Get("/api/companies/{code}/staff", h.apiListStaff)
			r.Get("/api/companies/{code}/invites", h.apiListInvites)
			r.Post("/api/companies/{code}/invites", h.apiCreateInvite)
			r.Post("/api/invites/{id}/revoke", h.apiRevokeInvite)
		})
	})

	h.router = r
	return r
}

// health returns service status and the loaded company code.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	company, err := h.svc.LoadDefaultCompany(r.Context())
	companyCode := ""
	if err == nil && company != nil {
		companyCode = company.CompanyCode
	}

	type response struct {
		Status  string `json:"status"`
		Company string `json:"company"`
	}

	writeJSON(w, response{Status: "ok", Company: companyCode})
}

// companyCode extracts the {code} URL parameter.
func companyCode(r *http.Request) string {
	return chi.URLParam(r, "code")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
