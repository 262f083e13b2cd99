package web

import (
	"net/http"
	"strconv"

	"textile-books/internal/app"
	"textile-books/internal/core"

	"github.com/go-chi/chi/v5"
)

// apiListStaff handles GET /api/companies/{code}/staff.
func (h *Handler) apiListStaff(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListStaff(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiListInvites handles GET /api/companies/{code}/invites.
func (h *Handler) apiListInvites(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListStaffInvites(r.Context(), companyCode(r))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// apiCreateInvite handles POST /api/companies/{code}/invites.
func (h *Handler) apiCreateInvite(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	invite, err := h.svc.CreateStaffInvite(r.Context(), app.CreateInviteRequest{
		CompanyCode: companyCode(r),
		Email:       req.Email,
		Role:        core.StaffRole(req.Role),
		InvitedBy:   claims.StaffID,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, invite)
}

// apiAcceptInvite handles POST /api/invites/accept. Public: the invitee has
// no credentials until this call succeeds.
func (h *Handler) apiAcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.AcceptStaffInvite(r.Context(), req.Token, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeCreated(w, result)
}

// apiRevokeInvite handles POST /api/invites/{id}/revoke.
func (h *Handler) apiRevokeInvite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, r, "invalid invite id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	if err := h.svc.RevokeStaffInvite(r.Context(), id); err != nil {
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
