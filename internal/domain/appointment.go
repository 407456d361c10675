package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "PENDING"
	AppointmentInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentDone       AppointmentStatus = "DONE"
	AppointmentCancelled  AppointmentStatus = "CANCELLED"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentPending, AppointmentInProgress, AppointmentDone, AppointmentCancelled:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// statusTransitions is the allowed state machine:
// PENDING -> IN_PROGRESS | CANCELLED, IN_PROGRESS -> DONE | CANCELLED.
// DONE and CANCELLED are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:    {AppointmentInProgress, AppointmentCancelled},
	AppointmentInProgress: {AppointmentDone, AppointmentCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Minimum lead time a client must respect when cancelling.
const CancelLeadTime = 2 * time.Hour

type Appointment struct {
	ID             int64             `json:"id"`
	BusinessID     int64             `json:"business_id"`
	ClientID       int64             `json:"client_id"`
	ProfessionalID int64             `json:"professional_id"`
	ServiceID      int64             `json:"service_id"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Status         AppointmentStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// StartTime resolves the appointment's date and time-of-day into a local
// timestamp for lead-time arithmetic.
func (a *Appointment) StartTime() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, time.Local)
}

// CanCancelBy reports whether a client cancellation at now respects the
// minimum lead time.
func (a *Appointment) CanCancelBy(now time.Time) bool {
	start, err := a.StartTime()
	if err != nil {
		return false
	}
	return start.Sub(now) >= CancelLeadTime
}

// BookedAppointment is an appointment joined with its service, as needed by
// the slot checker (duration) and the revenue aggregator (name, price).
type BookedAppointment struct {
	Appointment
	ServiceName     string `json:"service_name"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
}

type CreateAppointmentRequest struct {
	ProfessionalID int64  `json:"professional_id"`
	ServiceID      int64  `json:"service_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}
