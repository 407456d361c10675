package service

import (
	"context"
	"fmt"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/repository"
	"github.com/agendou/agendou-api/internal/schedule"
)

type AvailabilityService interface {
	CreateWindow(ctx context.Context, professionalID, businessID int64, req *domain.AvailabilityRequest) (*domain.AvailabilityWindow, error)
	ListWindows(ctx context.Context, professionalID, businessID int64, fromDate string) ([]domain.AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, id, professionalID int64) error

	// AvailableStartTimes returns the bookable HH:MM starts for a
	// professional, date and service. An empty slice means fully booked or
	// nothing configured; it is not an error.
	AvailableStartTimes(ctx context.Context, professionalID, businessID, serviceID int64, date string) ([]string, error)
}

type availabilityService struct {
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	serviceRepo      repository.ServiceRepository
}

func NewAvailabilityService(
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
) AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		serviceRepo:      serviceRepo,
	}
}

func (s *availabilityService) CreateWindow(ctx context.Context, professionalID, businessID int64, req *domain.AvailabilityRequest) (*domain.AvailabilityWindow, error) {
	if !domain.ValidDate(req.Date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if req.StartMinute < 0 || req.EndMinute > 24*60 || req.StartMinute >= req.EndMinute {
		return nil, fmt.Errorf("%w: window offsets must satisfy 0 <= start < end <= 1440", domain.ErrValidation)
	}

	return s.availabilityRepo.Create(ctx, &domain.AvailabilityWindow{
		ProfessionalID: professionalID,
		BusinessID:     businessID,
		Date:           req.Date,
		StartMinute:    req.StartMinute,
		EndMinute:      req.EndMinute,
	})
}

func (s *availabilityService) ListWindows(ctx context.Context, professionalID, businessID int64, fromDate string) ([]domain.AvailabilityWindow, error) {
	if fromDate == "" {
		fromDate = "1970-01-01"
	} else if !domain.ValidDate(fromDate) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return s.availabilityRepo.ListByProfessional(ctx, professionalID, businessID, fromDate)
}

func (s *availabilityService) DeleteWindow(ctx context.Context, id, professionalID int64) error {
	ok, err := s.availabilityRepo.Delete(ctx, id, professionalID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *availabilityService) AvailableStartTimes(ctx context.Context, professionalID, businessID, serviceID int64, date string) ([]string, error) {
	if !domain.ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc == nil || !svc.Active || svc.ProfessionalID != professionalID || svc.BusinessID != businessID {
		return nil, domain.ErrServiceNotFound
	}

	windows, err := s.availabilityRepo.ListByDate(ctx, professionalID, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability windows: %w", err)
	}

	booked, err := s.appointmentRepo.ListBookedForDate(ctx, professionalID, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	return schedule.AvailableStartTimes(windows, booked, svc.DurationMinutes), nil
}
