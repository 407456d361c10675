package service

import (
	"context"
	"fmt"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/repository"
	"github.com/agendou/agendou-api/internal/revenue"
	"github.com/agendou/agendou-api/pkg/events"
	"github.com/agendou/agendou-api/pkg/logger"
)

type AppointmentService interface {
	Create(ctx context.Context, clientID, businessID int64, req *domain.CreateAppointmentRequest, idempotencyKey string) (*domain.Appointment, error)
	ListForClient(ctx context.Context, clientID, businessID int64, limit, offset int) ([]domain.BookedAppointment, error)
	ListForProfessional(ctx context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error)
	CancelByClient(ctx context.Context, appointmentID, clientID int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID, professionalID int64, newStatus string) (*domain.Appointment, error)
	Revenue(ctx context.Context, professionalID, businessID int64, period string) (*revenue.Summary, error)
}

type appointmentService struct {
	appointmentRepo     repository.AppointmentRepository
	serviceRepo         repository.ServiceRepository
	idempotencyRepo     repository.IdempotencyRepository
	availabilityService AvailabilityService
	eventBus            events.Publisher
	clock               domain.Clock
}

func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	idempotencyRepo repository.IdempotencyRepository,
	availabilityService AvailabilityService,
	eventBus events.Publisher,
	clock domain.Clock,
) AppointmentService {
	return &appointmentService{
		appointmentRepo:     appointmentRepo,
		serviceRepo:         serviceRepo,
		idempotencyRepo:     idempotencyRepo,
		availabilityService: availabilityService,
		eventBus:            eventBus,
		clock:               clock,
	}
}

func (s *appointmentService) Create(ctx context.Context, clientID, businessID int64, req *domain.CreateAppointmentRequest, idempotencyKey string) (*domain.Appointment, error) {
	if !domain.ValidDate(req.Date) || !domain.ValidTime(req.Time) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD and time HH:MM", domain.ErrValidation)
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc == nil || !svc.Active || svc.ProfessionalID != req.ProfessionalID || svc.BusinessID != businessID {
		return nil, domain.ErrServiceNotFound
	}

	if idempotencyKey != "" {
		existingID, err := s.idempotencyRepo.CheckOrCreate(ctx, scopeKey(clientID, idempotencyKey), 0)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if existingID > 0 {
			replay, err := s.appointmentRepo.GetByID(ctx, existingID)
			if err != nil {
				return nil, fmt.Errorf("failed to load replayed appointment: %w", err)
			}
			// Replay only the caller's own record; a dangling or foreign
			// record falls through to a fresh booking.
			if replay != nil && replay.ClientID == clientID && replay.BusinessID == businessID {
				return replay, nil
			}
		}
	}

	available, err := s.availabilityService.AvailableStartTimes(ctx, req.ProfessionalID, businessID, req.ServiceID, req.Date)
	if err != nil {
		return nil, err
	}
	if !contains(available, req.Time) {
		return nil, domain.ErrSlotUnavailable
	}

	// The availability check races with concurrent bookings; the partial
	// unique index behind Create settles the loser with ErrSlotUnavailable.
	appointment, err := s.appointmentRepo.Create(ctx, &domain.Appointment{
		BusinessID:     businessID,
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
	})
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		if _, err := s.idempotencyRepo.CheckOrCreate(ctx, scopeKey(clientID, idempotencyKey), appointment.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to store idempotency record", "error", err, "appointment_id", appointment.ID)
		}
	}

	if err := s.eventBus.Publish(ctx, events.AppointmentCreated, events.AppointmentCreatedEvent{
		AppointmentID:  appointment.ID,
		BusinessID:     appointment.BusinessID,
		ClientID:       appointment.ClientID,
		ProfessionalID: appointment.ProfessionalID,
		ServiceID:      appointment.ServiceID,
		Date:           appointment.Date,
		Time:           appointment.Time,
		CreatedAt:      appointment.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish appointment created event", "error", err, "appointment_id", appointment.ID)
	}

	return appointment, nil
}

// scopeKey binds an idempotency key to the presenting client, so one client's
// key can never replay another client's appointment.
func scopeKey(clientID int64, key string) string {
	return fmt.Sprintf("%d|%s", clientID, key)
}

func contains(times []string, t string) bool {
	for _, v := range times {
		if v == t {
			return true
		}
	}
	return false
}

func (s *appointmentService) ListForClient(ctx context.Context, clientID, businessID int64, limit, offset int) ([]domain.BookedAppointment, error) {
	return s.appointmentRepo.ListByClient(ctx, clientID, businessID, limit, offset)
}

func (s *appointmentService) ListForProfessional(ctx context.Context, professionalID, businessID int64, date string) ([]domain.BookedAppointment, error) {
	if !domain.ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return s.appointmentRepo.ListByProfessionalDate(ctx, professionalID, businessID, date)
}

func (s *appointmentService) CancelByClient(ctx context.Context, appointmentID, clientID int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByIDForClient(ctx, appointmentID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if appointment == nil {
		return nil, domain.ErrNotFound
	}

	switch appointment.Status {
	case domain.AppointmentCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.AppointmentDone:
		return nil, domain.ErrAlreadyCompleted
	case domain.AppointmentInProgress:
		return nil, domain.ErrInProgressLocked
	}

	if !appointment.CanCancelBy(s.clock.Now()) {
		return nil, domain.ErrLeadTimeViolation
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointment.ID, domain.AppointmentCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	appointment.Status = domain.AppointmentCancelled

	if err := s.eventBus.Publish(ctx, events.AppointmentCanceled, events.AppointmentCanceledEvent{
		AppointmentID: appointment.ID,
		BusinessID:    appointment.BusinessID,
		CanceledBy:    clientID,
		CanceledAt:    s.clock.Now(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish appointment canceled event", "error", err, "appointment_id", appointment.ID)
	}

	return appointment, nil
}

func (s *appointmentService) UpdateStatus(ctx context.Context, appointmentID, professionalID int64, newStatus string) (*domain.Appointment, error) {
	status, ok := domain.ParseAppointmentStatus(newStatus)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}

	appointment, err := s.appointmentRepo.GetByIDForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if appointment == nil {
		return nil, domain.ErrNotFound
	}

	if !domain.CanTransition(appointment.Status, status) {
		return nil, domain.ErrInvalidTransition
	}

	oldStatus := appointment.Status
	if err := s.appointmentRepo.UpdateStatus(ctx, appointment.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	appointment.Status = status

	if err := s.eventBus.Publish(ctx, events.AppointmentStatusChanged, events.AppointmentStatusChangedEvent{
		AppointmentID: appointment.ID,
		BusinessID:    appointment.BusinessID,
		OldStatus:     string(oldStatus),
		NewStatus:     string(status),
		ChangedAt:     s.clock.Now(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish status changed event", "error", err, "appointment_id", appointment.ID)
	}

	return appointment, nil
}

func (s *appointmentService) Revenue(ctx context.Context, professionalID, businessID int64, period string) (*revenue.Summary, error) {
	since := revenue.PeriodStart(period, s.clock.Now())
	completed, err := s.appointmentRepo.ListCompleted(ctx, professionalID, businessID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed appointments: %w", err)
	}
	summary := revenue.Summarize(completed, since)
	return &summary, nil
}
