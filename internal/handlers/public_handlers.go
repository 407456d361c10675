package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/http/response"
)

// CreateLead handles the public lead form. The business starts PENDING.
func (h *Handlers) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	business, err := h.businessService.CreateLead(r.Context(), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, business)
}

// AvailableTimes returns the bookable HH:MM starts for a professional, date
// and service. Feeds the public booking page, so no authentication.
func (h *Handlers) AvailableTimes(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(r.URL.Query().Get("profissionalId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid profissionalId parameter")
		return
	}
	serviceID, err := strconv.ParseInt(r.URL.Query().Get("servicoId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid servicoId parameter")
		return
	}
	businessID, err := strconv.ParseInt(r.Header.Get("X-Business-Id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Missing X-Business-Id header")
		return
	}
	date := r.URL.Query().Get("data")

	times, err := h.availabilityService.AvailableStartTimes(r.Context(), professionalID, businessID, serviceID, date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"horarios": times})
}

// ListProfessionalServices lists a professional's active services for the
// public booking page.
func (h *Handlers) ListProfessionalServices(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}
	businessID, err := strconv.ParseInt(r.Header.Get("X-Business-Id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Missing X-Business-Id header")
		return
	}

	services, err := h.catalogService.ListServices(r.Context(), professionalID, businessID, true)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}
