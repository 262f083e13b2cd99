package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// apiTrialBalance handles GET /api/companies/{code}/trial-balance.
func (h *Handler) apiTrialBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetTrialBalance(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiAccountStatement handles GET /api/companies/{code}/accounts/{accountCode}/statement?from=&to=.
func (h *Handler) apiAccountStatement(w http.ResponseWriter, r *http.Request) {
	accountCode := chi.URLParam(r, "accountCode")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	stmt, err := h.svc.GetAccountStatement(r.Context(), companyCode(r), accountCode, from, to)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, stmt)
}
