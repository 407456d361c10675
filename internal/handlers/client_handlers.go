package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/http/response"
)

// CreateAppointment books a slot for the authenticated client. An optional
// Idempotency-Key header makes retries return the original appointment.
func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	appointment, err := h.appointmentService.Create(r.Context(), identity.UserID, mustBusinessID(identity), &req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, appointment)
}

// ListMyAppointments lists the authenticated client's appointments.
func (h *Handlers) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, offset := parsePagination(r)
	appointments, err := h.appointmentService.ListForClient(r.Context(), identity.UserID, mustBusinessID(identity), limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

// CancelAppointment lets a client cancel a PENDING appointment at least two
// hours before it starts.
func (h *Handlers) CancelAppointment(w http.ResponseWriter, r *http.Request) {
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

	appointment, err := h.appointmentService.CancelByClient(r.Context(), id, identity.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, appointment)
}
