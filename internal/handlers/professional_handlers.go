package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/http/response"
)

// ListDayAgenda lists a professional's appointments for a single date.
func (h *Handlers) ListDayAgenda(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	date := r.URL.Query().Get("data")
	appointments, err := h.appointmentService.ListForProfessional(r.Context(), identity.UserID, mustBusinessID(identity), date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

// UpdateAppointmentStatus moves one of the professional's appointments along
// the status lifecycle.
func (h *Handlers) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(r.Context(), id, identity.UserID, req.Status)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, appointment)
}

// Revenue summarizes the professional's completed appointments for the
// requested period (dia, mes, ano or all).
func (h *Handlers) Revenue(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.appointmentService.Revenue(r.Context(), identity.UserID, mustBusinessID(identity), r.URL.Query().Get("periodo"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// CreateService adds a service to the professional's catalog.
func (h *Handlers) CreateService(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	svc, err := h.catalogService.CreateService(r.Context(), identity.UserID, mustBusinessID(identity), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, svc)
}

// ListMyServices lists the professional's own catalog, inactive entries
// included.
func (h *Handlers) ListMyServices(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	services, err := h.catalogService.ListServices(r.Context(), identity.UserID, mustBusinessID(identity), false)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

// UpdateService patches a service owned by the professional.
func (h *Handlers) UpdateService(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var patch domain.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	svc, err := h.catalogService.UpdateService(r.Context(), id, identity.UserID, patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, svc)
}

// DisableService soft-deletes a service; existing appointments keep their
// joined snapshot.
func (h *Handlers) DisableService(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	if err := h.catalogService.DisableService(r.Context(), id, identity.UserID); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateAvailability opens a bookable window on a date.
func (h *Handlers) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	window, err := h.availabilityService.CreateWindow(r.Context(), identity.UserID, mustBusinessID(identity), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, window)
}

// ListAvailability lists the professional's windows from an optional start
// date onward.
func (h *Handlers) ListAvailability(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	windows, err := h.availabilityService.ListWindows(r.Context(), identity.UserID, mustBusinessID(identity), r.URL.Query().Get("data"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, windows)
}

// DeleteAvailability removes one of the professional's windows.
func (h *Handlers) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid availability ID")
		return
	}

	if err := h.availabilityService.DeleteWindow(r.Context(), id, identity.UserID); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
