package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/http/response"
)

func businessIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// ListBusinesses returns every tenant with its computed overdue age.
func (h *Handlers) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	businesses, err := h.businessService.List(r.Context(), limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, businesses)
}

func (h *Handlers) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	b, err := h.businessService.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBusiness provisions a tenant directly, already active and paid up.
func (h *Handlers) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var b domain.Business
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	created, err := h.businessService.AdminCreate(r.Context(), &b)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	var patch domain.BusinessPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	b, err := h.businessService.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) BlockBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	if err := h.businessService.Block(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnblockBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	if err := h.businessService.Unblock(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBusinessUsers returns a tenant's users, optionally filtered by the
// role query parameter.
func (h *Handlers) ListBusinessUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	var role *domain.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, ok := domain.ParseRole(strings.ToUpper(raw))
		if !ok {
			response.BadRequest(w, "Unknown role")
			return
		}
		role = &parsed
	}

	users, err := h.authService.ListBusinessUsers(r.Context(), id, role)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// RegisterPayment records a payment against the tenant, reactivating it and
// rolling the due date one month past the paid-at timestamp.
func (h *Handlers) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	var req struct {
		PaidAt *time.Time `json:"paid_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	b, err := h.businessService.RegisterPayment(r.Context(), id, paidAt)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateAccessCode mints a registration code for a tenant's staff. The code
// is generated server side when the request omits one.
func (h *Handlers) CreateAccessCode(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	var req domain.AccessCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	code, err := h.businessService.CreateAccessCode(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, code)
}

func (h *Handlers) ListAccessCodes(w http.ResponseWriter, r *http.Request) {
	id, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	codes, err := h.businessService.ListAccessCodes(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (h *Handlers) DeactivateAccessCode(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid business ID")
		return
	}

	codeID, err := strconv.ParseInt(chi.URLParam(r, "codeId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid access code ID")
		return
	}

	if err := h.businessService.DeactivateAccessCode(r.Context(), codeID, businessID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
