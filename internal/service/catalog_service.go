package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/repository"
)

type CatalogService interface {
	CreateService(ctx context.Context, professionalID, businessID int64, req *domain.ServiceRequest) (*domain.Service, error)
	ListServices(ctx context.Context, professionalID, businessID int64, activeOnly bool) ([]domain.Service, error)
	UpdateService(ctx context.Context, id, professionalID int64, patch domain.ServicePatch) (*domain.Service, error)
	DisableService(ctx context.Context, id, professionalID int64) error
}

type catalogService struct {
	serviceRepo     repository.ServiceRepository
	businessService BusinessService
}

func NewCatalogService(serviceRepo repository.ServiceRepository, businessService BusinessService) CatalogService {
	return &catalogService{serviceRepo: serviceRepo, businessService: businessService}
}

func (s *catalogService) CreateService(ctx context.Context, professionalID, businessID int64, req *domain.ServiceRequest) (*domain.Service, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if req.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > 24*60 {
		return nil, fmt.Errorf("%w: duration must be between 1 minute and a day", domain.ErrValidation)
	}

	if err := s.checkServiceLimit(ctx, businessID); err != nil {
		return nil, err
	}

	return s.serviceRepo.Create(ctx, &domain.Service{
		ProfessionalID:  professionalID,
		BusinessID:      businessID,
		Name:            req.Name,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	})
}

func (s *catalogService) checkServiceLimit(ctx context.Context, businessID int64) error {
	b, err := s.businessService.Get(ctx, businessID)
	if err != nil {
		return err
	}
	if b.MaxServices <= 0 {
		return nil
	}
	n, err := s.serviceRepo.CountActiveByBusiness(ctx, businessID)
	if err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if n >= b.MaxServices {
		return domain.ErrLimitReached
	}
	return nil
}

func (s *catalogService) ListServices(ctx context.Context, professionalID, businessID int64, activeOnly bool) ([]domain.Service, error) {
	return s.serviceRepo.ListByProfessional(ctx, professionalID, businessID, activeOnly)
}

func (s *catalogService) UpdateService(ctx context.Context, id, professionalID int64, patch domain.ServicePatch) (*domain.Service, error) {
	if patch.DurationMinutes != nil && (*patch.DurationMinutes <= 0 || *patch.DurationMinutes > 24*60) {
		return nil, fmt.Errorf("%w: duration must be between 1 minute and a day", domain.ErrValidation)
	}
	svc, err := s.serviceRepo.Update(ctx, id, professionalID, patch)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

func (s *catalogService) DisableService(ctx context.Context, id, professionalID int64) error {
	ok, err := s.serviceRepo.Deactivate(ctx, id, professionalID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
