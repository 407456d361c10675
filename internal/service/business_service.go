package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/gate"
	"github.com/agendou/agendou-api/internal/repository"
	"github.com/agendou/agendou-api/pkg/config"
	"github.com/agendou/agendou-api/pkg/events"
	"github.com/agendou/agendou-api/pkg/logger"
)

// BusinessOverview is a business plus its computed overdue age, for the admin
// listing.
type BusinessOverview struct {
	domain.Business
	DaysOverdue int `json:"days_overdue"`
}

type BusinessService interface {
	// Authorize runs the status gate for a business-scoped request, persisting
	// the overdue auto-block when the gate produces one. The returned error is
	// the gate reason (nil when allowed).
	Authorize(ctx context.Context, businessID int64) (*domain.Business, error)

	CreateLead(ctx context.Context, req *domain.LeadRequest) (*domain.Business, error)
	AdminCreate(ctx context.Context, b *domain.Business) (*domain.Business, error)
	List(ctx context.Context, limit, offset int) ([]BusinessOverview, error)
	Get(ctx context.Context, id int64) (*domain.Business, error)
	Update(ctx context.Context, id int64, patch domain.BusinessPatch) (*domain.Business, error)
	Block(ctx context.Context, id int64) error
	Unblock(ctx context.Context, id int64) error
	RegisterPayment(ctx context.Context, id int64, paidAt time.Time) (*domain.Business, error)

	CreateAccessCode(ctx context.Context, businessID int64, req *domain.AccessCodeRequest) (*domain.AccessCode, error)
	ListAccessCodes(ctx context.Context, businessID int64) ([]domain.AccessCode, error)
	DeactivateAccessCode(ctx context.Context, id, businessID int64) error
}

type businessService struct {
	businessRepo   repository.BusinessRepository
	accessCodeRepo repository.AccessCodeRepository
	eventBus       events.Publisher
	clock          domain.Clock
	config         *config.Config
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	accessCodeRepo repository.AccessCodeRepository,
	eventBus events.Publisher,
	clock domain.Clock,
	config *config.Config,
) BusinessService {
	return &businessService{
		businessRepo:   businessRepo,
		accessCodeRepo: accessCodeRepo,
		eventBus:       eventBus,
		clock:          clock,
		config:         config,
	}
}

// defaultGraceDays is the grace period stamped onto new businesses, from
// config with the platform constant as fallback.
func (s *businessService) defaultGraceDays() int {
	if s.config != nil && s.config.Billing.DefaultGraceDays > 0 {
		return s.config.Billing.DefaultGraceDays
	}
	return domain.DefaultGraceDays
}

func (s *businessService) Authorize(ctx context.Context, businessID int64) (*domain.Business, error) {
	b, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load business: %w", err)
	}

	d := gate.Evaluate(b, s.clock.Now())
	if d.Transition != nil {
		// The gate is pure; the transition it produced must be persisted here
		// so the next evaluation short-circuits via the BLOCKED branch.
		if err := s.businessRepo.ApplyBlock(ctx, businessID, d.Transition.BlockedAt); err != nil {
			return nil, fmt.Errorf("failed to persist overdue block: %w", err)
		}
		if err := s.eventBus.Publish(ctx, events.BusinessBlocked, events.BusinessBlockedEvent{
			BusinessID:  businessID,
			Reason:      "overdue",
			DaysOverdue: d.DaysOverdue,
			BlockedAt:   d.Transition.BlockedAt,
		}); err != nil {
			logger.ErrorContext(ctx, "Failed to publish business blocked event", "error", err, "business_id", businessID)
		}
	}
	if !d.Allowed {
		return b, d.Reason
	}
	return b, nil
}

func (s *businessService) CreateLead(ctx context.Context, req *domain.LeadRequest) (*domain.Business, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Slug == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name, slug and email are required", domain.ErrValidation)
	}

	// Pre-check for a friendly rejection; the unique constraint on slug
	// settles any race.
	existing, err := s.businessRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrSlugTaken
	}

	b := &domain.Business{
		Name:          req.Name,
		Slug:          req.Slug,
		Active:        true,
		Plan:          "basic",
		PaymentStatus: domain.PaymentPending,
		GraceDays:     s.defaultGraceDays(),
	}
	created, err := s.businessRepo.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.LeadCreated, events.LeadCreatedEvent{
		BusinessID: created.ID,
		Name:       created.Name,
		Slug:       created.Slug,
		Email:      req.Email,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish lead created event", "error", err, "business_id", created.ID)
	}

	return created, nil
}

func (s *businessService) AdminCreate(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	b.Slug = strings.ToLower(strings.TrimSpace(b.Slug))
	if strings.TrimSpace(b.Name) == "" || b.Slug == "" {
		return nil, fmt.Errorf("%w: name and slug are required", domain.ErrValidation)
	}
	if b.Plan == "" {
		b.Plan = "basic"
	}
	if b.GraceDays <= 0 {
		b.GraceDays = s.defaultGraceDays()
	}
	// Admin-provisioned businesses start active and paid up.
	b.Active = true
	b.PaymentStatus = domain.PaymentActive

	return s.businessRepo.Create(ctx, b)
}

func (s *businessService) List(ctx context.Context, limit, offset int) ([]BusinessOverview, error) {
	businesses, err := s.businessRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	overviews := make([]BusinessOverview, 0, len(businesses))
	for _, b := range businesses {
		overviews = append(overviews, BusinessOverview{
			Business:    b,
			DaysOverdue: gate.DaysOverdue(&b, now),
		})
	}
	return overviews, nil
}

func (s *businessService) Get(ctx context.Context, id int64) (*domain.Business, error) {
	b, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *businessService) Update(ctx context.Context, id int64, patch domain.BusinessPatch) (*domain.Business, error) {
	b, err := s.businessRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *businessService) Block(ctx context.Context, id int64) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	if err := s.businessRepo.SetPaymentStatus(ctx, b.ID, domain.PaymentBlocked, &now); err != nil {
		return err
	}
	if err := s.eventBus.Publish(ctx, events.BusinessBlocked, events.BusinessBlockedEvent{
		BusinessID: b.ID,
		Reason:     "manual",
		BlockedAt:  now,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish business blocked event", "error", err, "business_id", b.ID)
	}
	return nil
}

func (s *businessService) Unblock(ctx context.Context, id int64) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.businessRepo.SetPaymentStatus(ctx, b.ID, domain.PaymentActive, nil); err != nil {
		return err
	}
	if err := s.eventBus.Publish(ctx, events.BusinessUnblocked, events.BusinessBlockedEvent{
		BusinessID: b.ID,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish business unblocked event", "error", err, "business_id", b.ID)
	}
	return nil
}

func (s *businessService) RegisterPayment(ctx context.Context, id int64, paidAt time.Time) (*domain.Business, error) {
	nextDue := paidAt.AddDate(0, 1, 0)
	b, err := s.businessRepo.RegisterPayment(ctx, id, paidAt, nextDue)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.eventBus.Publish(ctx, events.BusinessPaymentRegistered, events.BusinessPaymentRegisteredEvent{
		BusinessID: b.ID,
		PaidAt:     paidAt,
		NextDueAt:  nextDue,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish payment registered event", "error", err, "business_id", b.ID)
	}

	return b, nil
}

func (s *businessService) CreateAccessCode(ctx context.Context, businessID int64, req *domain.AccessCodeRequest) (*domain.AccessCode, error) {
	if _, err := s.Get(ctx, businessID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = strings.ToUpper(uuid.NewString()[:8])
	}

	return s.accessCodeRepo.Create(ctx, &domain.AccessCode{
		BusinessID:  businessID,
		Code:        code,
		ExpiresAt:   req.ExpiresAt,
		Description: req.Description,
	})
}

func (s *businessService) ListAccessCodes(ctx context.Context, businessID int64) ([]domain.AccessCode, error) {
	return s.accessCodeRepo.ListByBusiness(ctx, businessID)
}

func (s *businessService) DeactivateAccessCode(ctx context.Context, id, businessID int64) error {
	ok, err := s.accessCodeRepo.Deactivate(ctx, id, businessID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
