package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/repository"
	"github.com/agendou/agendou-api/pkg/auth"
	"github.com/agendou/agendou-api/pkg/config"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListBusinessUsers(ctx context.Context, businessID int64, role *domain.Role) ([]domain.User, error)
}

type authService struct {
	userRepo        repository.UserRepository
	accessCodeRepo  repository.AccessCodeRepository
	businessService BusinessService
	clock           domain.Clock
	config          *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	accessCodeRepo repository.AccessCodeRepository,
	businessService BusinessService,
	clock domain.Clock,
	config *config.Config,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		accessCodeRepo:  accessCodeRepo,
		businessService: businessService,
		clock:           clock,
		config:          config,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	req.Normalize()

	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: name and a valid email are required", domain.ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, req.Role)
	}
	if req.BusinessID == 0 {
		return nil, fmt.Errorf("%w: business_id is required", domain.ErrValidation)
	}

	// Registration runs through the same status gate as any other
	// business-scoped request.
	if _, err := s.businessService.Authorize(ctx, req.BusinessID); err != nil {
		return nil, err
	}

	// Professionals and business admins must present a valid access code.
	// The check happens before any row is written.
	if role == domain.RoleProfessional || role == domain.RoleAdmin {
		code, err := s.accessCodeRepo.FindByCode(ctx, req.BusinessID, req.AccessCode)
		if err != nil {
			return nil, fmt.Errorf("failed to look up access code: %w", err)
		}
		if code == nil || !code.Usable(s.clock.Now()) {
			return nil, domain.ErrAccessCodeInvalid
		}
	}

	if role == domain.RoleProfessional {
		if err := s.checkProfessionalLimit(ctx, req.BusinessID); err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	businessID := req.BusinessID
	return s.userRepo.Create(ctx, &domain.User{
		BusinessID:   &businessID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
	})
}

func (s *authService) checkProfessionalLimit(ctx context.Context, businessID int64) error {
	b, err := s.businessService.Get(ctx, businessID)
	if err != nil {
		return err
	}
	if b.MaxProfessionals <= 0 {
		return nil
	}
	n, err := s.userRepo.CountByBusinessRole(ctx, businessID, domain.RoleProfessional)
	if err != nil {
		return fmt.Errorf("failed to count professionals: %w", err)
	}
	if n >= b.MaxProfessionals {
		return domain.ErrLimitReached
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredential
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredential
	}

	// Gate before any token is issued; platform admins have no business.
	if user.BusinessID != nil {
		if _, err := s.businessService.Authorize(ctx, *user.BusinessID); err != nil {
			return nil, err
		}
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role), user.BusinessID,
		s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.LoginResponse{Token: token, User: user}, nil
}

func (s *authService) ListBusinessUsers(ctx context.Context, businessID int64, role *domain.Role) ([]domain.User, error) {
	users, err := s.userRepo.ListByBusiness(ctx, businessID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredential
	}
	return user, nil
}
